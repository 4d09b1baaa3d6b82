package inmemdb

import (
	"context"

	"github.com/simtahfidz/backend/core/quran"
)

type quranRepository struct {
	db *DB
}

var _ quran.Repository = (*quranRepository)(nil) // interface compliance check

func NewQuranRepository(db *DB) *quranRepository {
	return &quranRepository{db: db}
}

func (repo *quranRepository) QuerySurahs(_ context.Context) ([]quran.Surah, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	surahs := make([]quran.Surah, len(repo.db.surahs))
	copy(surahs, repo.db.surahs)
	return surahs, nil
}

func (repo *quranRepository) GetSurah(_ context.Context, id int) (quran.Surah, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s := repo.db.surah(id); s.ID != 0 {
		return s, nil
	}
	return quran.Surah{}, quran.ErrNotFound
}
