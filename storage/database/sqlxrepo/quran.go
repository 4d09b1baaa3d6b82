package sqlxrepo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/quran"
)

type quranRepository struct {
	db core.DB
}

var _ quran.Repository = (*quranRepository)(nil) // interface compliance check

func NewQuranRepository(db core.DB) *quranRepository {
	return &quranRepository{db: db}
}

func (repo quranRepository) QuerySurahs(ctx context.Context) ([]quran.Surah, error) {
	surahs := make([]quran.Surah, 0, quran.SurahCount)
	q := `SELECT id, surah_name, juz_number, total_ayat FROM quran_meta ORDER BY id`
	if err := sqlx.SelectContext(ctx, repo.db, &surahs, q); err != nil {
		return nil, errors.Wrap(err, "querying surahs")
	}
	return surahs, nil
}

func (repo quranRepository) GetSurah(ctx context.Context, id int) (quran.Surah, error) {
	var s quran.Surah
	q := `SELECT id, surah_name, juz_number, total_ayat FROM quran_meta WHERE id = $1`
	if err := sqlx.GetContext(ctx, repo.db, &s, q, id); err != nil {
		return quran.Surah{}, trapNoRowsErr(err, quran.ErrNotFound, "finding surah")
	}
	return s, nil
}
