package setoran

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/quran"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/tag"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("setoran not found")
	ErrSantriNotFound  = core.NewNotFoundError("santri not found")
	ErrNotAssigned     = core.NewForbiddenError("santri is not assigned to you")
	ErrNotOwner        = core.NewForbiddenError("you can only modify your own records")
	ErrWindowElapsed   = core.NewForbiddenError("records can only be modified within 24 hours")
	ErrSurahNotFound   = core.NewFieldError("surahId", "surah not found")
	ErrTagNotFound     = core.NewFieldError("tagIds", "some tags do not exist")
	errAyatOutOfRange  = "ayatEnd exceeds the number of ayat of the surah (%d)"
	nowFunc            = time.Now // mockable
)

type (
	Repository interface {
		// CreateRecord inserts the record and its tags in one transaction.
		CreateRecord(ctx context.Context, rec DailyRecord) (DailyRecord, error)
		GetRecord(ctx context.Context, id string) (DailyRecord, error)
		// UpdateRecord updates the record and replaces its tags in one transaction.
		UpdateRecord(ctx context.Context, rec DailyRecord) (DailyRecord, error)
		DeleteRecord(ctx context.Context, id string) error
		// QueryHistory lists the records of `guruID`, newest first.
		QueryHistory(ctx context.Context, guruID string, limit int) ([]HistoryEntry, error)
	}

	// Deps groups the collaborators of the setoran Service.
	Deps struct {
		Repo      Repository
		SantriSvc *santri.Service
		QuranSvc  *quran.Service
		TagSvc    *tag.Service
		Cache     core.Cache
		Publisher core.EventPublisher
		Metrics   core.Metrics
		Conf      *core.Config
		Logger    core.Logger
	}

	Service struct {
		Deps
	}
)

func NewService(deps Deps) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(deps.Repo, "repo"),
		vala.IsNotNil(deps.SantriSvc, "santriSvc"),
		vala.IsNotNil(deps.QuranSvc, "quranSvc"),
		vala.IsNotNil(deps.TagSvc, "tagSvc"),
		vala.IsNotNil(deps.Cache, "cache"),
		vala.IsNotNil(deps.Publisher, "publisher"),
		vala.IsNotNil(deps.Metrics, "metrics"),
		vala.IsNotNil(deps.Conf, "conf"),
		vala.IsNotNil(deps.Logger, "logger"),
	).CheckAndPanic()

	return &Service{Deps: deps}
}

// checkRange makes sure the surah exists and that ayatEnd fits in it.
func (svc *Service) checkRange(ctx context.Context, surahID, ayatEnd int) error {
	surah, err := svc.QuranSvc.Get(ctx, surahID)
	if err != nil {
		if core.IsNotFound(err) {
			return ErrSurahNotFound
		}
		return errors.Wrap(err, "finding surah")
	}
	if ayatEnd > surah.TotalAyat {
		return core.NewFieldError("ayatEnd", fmt.Sprintf(errAyatOutOfRange, surah.TotalAyat))
	}
	return nil
}

func (svc *Service) checkTags(ctx context.Context, tagIDs []string) error {
	missing, err := svc.TagSvc.Missing(ctx, tagIDs)
	if err != nil {
		return errors.Wrap(err, "checking tags")
	}
	if len(missing) > 0 {
		return ErrTagNotFound
	}
	return nil
}

// Create records a setoran for a santri assigned to `guruID`. `nr` must be validated.
func (svc *Service) Create(ctx context.Context, guruID string, nr NewRecord) (DailyRecord, error) {
	if err := svc.checkRange(ctx, nr.SurahID, nr.AyatEnd); err != nil {
		return DailyRecord{}, err
	}

	s, err := svc.SantriSvc.Get(ctx, nr.SantriID)
	if err != nil {
		if core.IsNotFound(err) {
			return DailyRecord{}, ErrSantriNotFound
		}
		return DailyRecord{}, errors.Wrap(err, "finding santri")
	}
	if !s.AssignedTo(guruID) {
		return DailyRecord{}, ErrNotAssigned
	}

	if err = svc.checkTags(ctx, nr.TagIDs); err != nil {
		return DailyRecord{}, err
	}

	now := nowFunc()
	rec, err := svc.Repo.CreateRecord(ctx, DailyRecord{
		ID:          uuid.New().String(),
		SantriID:    s.ID,
		GuruID:      null.StringFrom(guruID),
		Date:        now.In(svc.Conf.Location()).Format("2006-01-02"),
		SurahID:     nr.SurahID,
		AyatStart:   nr.AyatStart,
		AyatEnd:     nr.AyatEnd,
		ColorStatus: nr.ColorStatus,
		Type:        nr.Type,
		NotesText:   null.NewString(nr.Notes, nr.Notes != ""),
		CreatedAt:   now.UTC(),
		TagIDs:      nr.TagIDs,
	})
	if err != nil {
		return DailyRecord{}, errors.Wrap(err, "creating record")
	}

	svc.Metrics.SetoranCreated(rec.Type, rec.ColorStatus)
	svc.afterWrite(ctx, core.EventSetoranCreated, rec)
	return rec, nil
}

// getModifiable finds the record and checks that `guruID` may still change it.
func (svc *Service) getModifiable(ctx context.Context, guruID, id string) (DailyRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DailyRecord{}, ErrNotFound
	}
	rec, err := svc.Repo.GetRecord(ctx, id)
	if err != nil {
		return DailyRecord{}, err
	}
	if !rec.GuruID.Valid || rec.GuruID.String != guruID {
		return DailyRecord{}, ErrNotOwner
	}
	if !rec.CanModify(guruID, nowFunc(), svc.Conf.Setoran.EditWindow) {
		return DailyRecord{}, ErrWindowElapsed
	}
	return rec, nil
}

// Update changes a record of `guruID` while the edit window is open. `ur` must be validated.
func (svc *Service) Update(ctx context.Context, guruID, id string, ur UpdateRecord) (DailyRecord, error) {
	rec, err := svc.getModifiable(ctx, guruID, id)
	if err != nil {
		return DailyRecord{}, err
	}
	if err = svc.checkRange(ctx, ur.SurahID, ur.AyatEnd); err != nil {
		return DailyRecord{}, err
	}
	if err = svc.checkTags(ctx, ur.TagIDs); err != nil {
		return DailyRecord{}, err
	}

	rec.Type = ur.Type
	rec.SurahID = ur.SurahID
	rec.AyatStart = ur.AyatStart
	rec.AyatEnd = ur.AyatEnd
	rec.ColorStatus = ur.ColorStatus
	rec.NotesText = null.NewString(ur.Notes, ur.Notes != "")
	rec.TagIDs = ur.TagIDs

	rec, err = svc.Repo.UpdateRecord(ctx, rec)
	if err != nil {
		return DailyRecord{}, errors.Wrap(err, "updating record")
	}

	svc.afterWrite(ctx, core.EventSetoranUpdated, rec)
	return rec, nil
}

// Delete removes a record of `guruID` while the edit window is open.
func (svc *Service) Delete(ctx context.Context, guruID, id string) error {
	rec, err := svc.getModifiable(ctx, guruID, id)
	if err != nil {
		return err
	}
	if err = svc.Repo.DeleteRecord(ctx, rec.ID); err != nil {
		return errors.Wrap(err, "deleting record")
	}

	svc.Metrics.SetoranDeleted()
	svc.afterWrite(ctx, core.EventSetoranDeleted, rec)
	return nil
}

// History lists the latest records of `guruID` with their edit flag.
func (svc *Service) History(ctx context.Context, guruID string) ([]HistoryEntry, error) {
	entries, err := svc.Repo.QueryHistory(ctx, guruID, HistoryLimit)
	if err != nil {
		return nil, errors.Wrap(err, "querying history")
	}

	now := nowFunc()
	for i := range entries {
		rec := DailyRecord{GuruID: entries[i].GuruID, CreatedAt: entries[i].CreatedAt}
		entries[i].CanEdit = rec.CanModify(guruID, now, svc.Conf.Setoran.EditWindow)
		if entries[i].Tags == nil {
			entries[i].Tags = []string{}
		}
	}
	return entries, nil
}

// afterWrite invalidates the cached reports and announces the change. Failures are only logged.
func (svc *Service) afterWrite(ctx context.Context, event string, rec DailyRecord) {
	if err := svc.Cache.Delete(ctx, core.CacheKeyAdminReport, core.CacheKeyAdminStats); err != nil {
		svc.Logger.Warn(fmt.Sprintf("invalidating report cache: %v", err), err)
	}
	if err := svc.Publisher.Publish(ctx, event, rec); err != nil {
		svc.Logger.Warn(fmt.Sprintf("publishing %s: %v", event, err), err)
	}
}
