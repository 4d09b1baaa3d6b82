package report

import (
	"context"
	"fmt"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/quran"
	"github.com/simtahfidz/backend/core/santri"
)

var nowFunc = time.Now // mockable

type (
	Repository interface {
		// QueryStudentRows aggregates the records of every santri, ordered by santri name.
		QueryStudentRows(ctx context.Context) ([]StudentRow, error)
		// QueryLastSetoran returns the latest record of each santri assigned to `guruID`, newest first.
		QueryLastSetoran(ctx context.Context, guruID string) ([]LastSetoran, error)
		// QuerySantriRecords lists the records of a santri with their tags, newest first.
		QuerySantriRecords(ctx context.Context, santriID string) ([]Record, error)
		AdminStats(ctx context.Context, day string) (AdminStats, error)
		GuruStats(ctx context.Context, guruID, day, month string) (GuruStats, error)
	}

	Service struct {
		repo      Repository
		santriSvc *santri.Service
		quranSvc  *quran.Service
		cache     core.Cache
		conf      *core.Config
		logger    core.Logger
	}
)

func NewService(
	repo Repository,
	santriSvc *santri.Service,
	quranSvc *quran.Service,
	cache core.Cache,
	conf *core.Config,
	logger core.Logger,
) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(santriSvc, "santriSvc"),
		vala.IsNotNil(quranSvc, "quranSvc"),
		vala.IsNotNil(cache, "cache"),
		vala.IsNotNil(conf, "conf"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{
		repo:      repo,
		santriSvc: santriSvc,
		quranSvc:  quranSvc,
		cache:     cache,
		conf:      conf,
		logger:    logger,
	}
}

// cached loads `key` from the cache into `dest`, or fills it with `load` and caches it.
func (svc *Service) cached(ctx context.Context, key string, dest interface{}, load func() error) error {
	err := svc.cache.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if err != core.ErrCacheMiss {
		svc.logger.Warn(fmt.Sprintf("reading %s cache: %v", key, err), err)
	}

	if err = load(); err != nil {
		return err
	}
	if err = svc.cache.Set(ctx, key, dest, svc.conf.Redis.TTL); err != nil {
		svc.logger.Warn(fmt.Sprintf("writing %s cache: %v", key, err), err)
	}
	return nil
}

// AdminReport returns one row per santri, optionally limited to a class, with the totals of the rows.
func (svc *Service) AdminReport(ctx context.Context, filter ReportFilter) (AdminReport, error) {
	var rows []StudentRow
	err := svc.cached(ctx, core.CacheKeyAdminReport, &rows, func() error {
		var err error
		rows, err = svc.repo.QueryStudentRows(ctx)
		return errors.Wrap(err, "querying student rows")
	})
	if err != nil {
		return AdminReport{}, err
	}

	classID := core.CleanString(filter.ClassID)
	filtered := make([]StudentRow, 0, len(rows))
	for _, row := range rows {
		if classID == "" || (row.ClassID.Valid && row.ClassID.String == classID) {
			filtered = append(filtered, row)
		}
	}
	return AdminReport{Rows: filtered, Totals: Totals(filtered)}, nil
}

func (svc *Service) AdminStats(ctx context.Context) (AdminStats, error) {
	var stats AdminStats
	err := svc.cached(ctx, core.CacheKeyAdminStats, &stats, func() error {
		var err error
		stats, err = svc.repo.AdminStats(ctx, svc.today())
		return errors.Wrap(err, "querying admin stats")
	})
	return stats, err
}

func (svc *Service) GuruStats(ctx context.Context, guruID string) (GuruStats, error) {
	today := svc.today()
	return svc.repo.GuruStats(ctx, guruID, today, today[:7])
}

func (svc *Service) LastSetoran(ctx context.Context, guruID string) ([]LastSetoran, error) {
	last, err := svc.repo.QueryLastSetoran(ctx, guruID)
	if err != nil {
		return nil, errors.Wrap(err, "querying last setoran")
	}
	if last == nil {
		last = []LastSetoran{}
	}
	return last, nil
}

// portalData loads what every santri portal page needs.
func (svc *Service) portalData(ctx context.Context, userID string) (santri.Santri, []Record, []quran.Surah, error) {
	s, err := svc.santriSvc.GetByUserID(ctx, userID)
	if err != nil {
		return santri.Santri{}, nil, nil, err
	}
	records, err := svc.repo.QuerySantriRecords(ctx, s.ID)
	if err != nil {
		return santri.Santri{}, nil, nil, errors.Wrap(err, "querying santri records")
	}
	for i := range records {
		if records[i].Tags == nil {
			records[i].Tags = []string{}
		}
	}
	surahs, err := svc.quranSvc.List(ctx)
	if err != nil {
		return santri.Santri{}, nil, nil, errors.Wrap(err, "listing surahs")
	}
	return s, records, surahs, nil
}

func (svc *Service) SantriDashboard(ctx context.Context, userID string) (Dashboard, error) {
	s, records, surahs, err := svc.portalData(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	statuses := LatestSurahStatus(records)
	green := GreenSurahs(statuses)
	return Dashboard{
		Santri: santriInfo(s),
		Stats: DashboardStats{
			Summary:      Summarize(records),
			GreenSurahs:  green,
			SurahPercent: Percent(green, quran.SurahCount),
		},
		JuzGrid: JuzGrid(statuses, surahs),
	}, nil
}

func (svc *Service) SantriLogbook(ctx context.Context, userID string, filter LogbookFilter) (Logbook, error) {
	if filter.Juz < 0 || filter.Juz > quran.JuzCount {
		return Logbook{}, core.NewFieldError("juz", fmt.Sprintf("juz must be between 1 and %d", quran.JuzCount))
	}
	if filter.Surah < 0 || filter.Surah > quran.SurahCount {
		return Logbook{}, core.NewFieldError("surah", fmt.Sprintf("surah must be between 1 and %d", quran.SurahCount))
	}

	_, records, surahs, err := svc.portalData(ctx, userID)
	if err != nil {
		return Logbook{}, err
	}

	statuses := LatestSurahStatus(records)
	surahs = FilterSurahs(surahs, filter.Juz, filter.Surah)
	book := Logbook{
		Juz:     filter.Juz,
		SurahID: filter.Surah,
		Surahs:  make([]SurahStatus, 0, len(surahs)),
		Records: records,
	}
	if filter.Juz != 0 || filter.Surah != 0 {
		book.Records = FilterRecords(records, surahs)
	}
	for _, s := range surahs {
		status, ok := statuses[s.ID]
		book.Surahs = append(book.Surahs, SurahStatus{
			Surah:  s,
			Status: nullString(status, ok),
			Label:  StatusLabel(status),
		})
	}
	return book, nil
}

func (svc *Service) SantriProfile(ctx context.Context, userID string) (Profile, error) {
	s, records, _, err := svc.portalData(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	sum := Summarize(records)
	return Profile{
		Santri:          santriInfo(s),
		Stats:           sum,
		ProgressPercent: Percent(sum.TotalAyat, quran.TotalAyat),
		Monthly:         MonthlyProgress(records),
	}, nil
}

func (svc *Service) today() string {
	return nowFunc().In(svc.conf.Location()).Format("2006-01-02")
}

func santriInfo(s santri.Santri) SantriInfo {
	return SantriInfo{
		ID:        s.ID,
		FullName:  s.FullName,
		Email:     s.Email,
		Dob:       s.Dob,
		ClassName: s.ClassName,
		GuruName:  s.GuruName,
	}
}
