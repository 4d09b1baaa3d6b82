package inmemdb

import (
	"context"
	"sort"

	"github.com/simtahfidz/backend/core/setoran"
)

type setoranRepository struct {
	db *DB
}

var _ setoran.Repository = (*setoranRepository)(nil) // interface compliance check

func NewSetoranRepository(db *DB) *setoranRepository {
	return &setoranRepository{db: db}
}

// setTags expects the write lock to be held.
func (repo *setoranRepository) setTags(recordID string, tagIDs []string) {
	uniq := make([]string, 0, len(tagIDs))
	seen := make(map[string]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sortStrings(uniq)
	repo.db.recordTags[recordID] = uniq
}

// get expects the lock to be held.
func (repo *setoranRepository) get(id string) (setoran.DailyRecord, bool) {
	rec, ok := repo.db.records[id]
	if !ok {
		return setoran.DailyRecord{}, false
	}
	rec.TagIDs = append([]string{}, repo.db.recordTags[id]...)
	return rec, true
}

func (repo *setoranRepository) CreateRecord(_ context.Context, rec setoran.DailyRecord) (setoran.DailyRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.santri[rec.SantriID]; !ok {
		return setoran.DailyRecord{}, setoran.ErrSantriNotFound
	}
	tagIDs := rec.TagIDs
	rec.TagIDs = nil
	repo.db.records[rec.ID] = rec
	repo.setTags(rec.ID, tagIDs)

	rec, _ = repo.get(rec.ID)
	return rec, nil
}

func (repo *setoranRepository) GetRecord(_ context.Context, id string) (setoran.DailyRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.get(id); ok {
		return rec, nil
	}
	return setoran.DailyRecord{}, setoran.ErrNotFound
}

func (repo *setoranRepository) UpdateRecord(_ context.Context, rec setoran.DailyRecord) (setoran.DailyRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.records[rec.ID]
	if !ok {
		return setoran.DailyRecord{}, setoran.ErrNotFound
	}
	orig.SurahID = rec.SurahID
	orig.AyatStart = rec.AyatStart
	orig.AyatEnd = rec.AyatEnd
	orig.ColorStatus = rec.ColorStatus
	orig.Type = rec.Type
	orig.NotesText = rec.NotesText
	repo.db.records[rec.ID] = orig
	repo.setTags(rec.ID, rec.TagIDs)

	rec, _ = repo.get(rec.ID)
	return rec, nil
}

func (repo *setoranRepository) DeleteRecord(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.records[id]; !ok {
		return setoran.ErrNotFound
	}
	delete(repo.db.records, id)
	delete(repo.db.recordTags, id)
	return nil
}

func (repo *setoranRepository) QueryHistory(_ context.Context, guruID string, limit int) ([]setoran.HistoryEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]setoran.HistoryEntry, 0)
	for _, r := range repo.db.records {
		if !r.GuruID.Valid || r.GuruID.String != guruID {
			continue
		}
		s := repo.db.santriView(repo.db.santri[r.SantriID])
		entries = append(entries, setoran.HistoryEntry{
			ID:          r.ID,
			SantriID:    r.SantriID,
			SantriName:  s.FullName,
			SantriClass: s.ClassName,
			GuruID:      r.GuruID,
			SurahID:     r.SurahID,
			SurahName:   repo.db.surah(r.SurahID).SurahName,
			AyatStart:   r.AyatStart,
			AyatEnd:     r.AyatEnd,
			ColorStatus: r.ColorStatus,
			Type:        r.Type,
			Notes:       r.NotesText,
			Tags:        repo.db.tagTexts(r.ID),
			Date:        r.Date,
			CreatedAt:   r.CreatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
