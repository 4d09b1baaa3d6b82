package sqlxrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/setoran"
)

type (
	recordRow struct {
		setoran.DailyRecord
		TagList pq.StringArray `db:"tag_ids"`
	}

	historyRow struct {
		setoran.HistoryEntry
		TagList pq.StringArray `db:"tags"`
	}
)

type setoranRepository struct {
	db core.DB
}

var _ setoran.Repository = (*setoranRepository)(nil) // interface compliance check

func NewSetoranRepository(db core.DB) *setoranRepository {
	return &setoranRepository{db: db}
}

func insertRecordTags(ctx context.Context, tx *sqlx.Tx, recordID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		q := `INSERT INTO record_tag (record_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, q, recordID, tagID); err != nil {
			return errors.Wrap(err, "tagging record")
		}
	}
	return nil
}

func (repo setoranRepository) CreateRecord(ctx context.Context, rec setoran.DailyRecord) (setoran.DailyRecord, error) {
	err := runInTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `INSERT INTO daily_record (id, santri_id, guru_id, date, surah_id, ayat_start, ayat_end, color_status, type, notes_text, created_at)
			VALUES (:id, :santri_id, :guru_id, :date, :surah_id, :ayat_start, :ayat_end, :color_status, :type, :notes_text, :created_at)`
		if _, err := tx.NamedExecContext(ctx, q, rec); err != nil {
			return errors.Wrap(err, "inserting record")
		}
		return insertRecordTags(ctx, tx, rec.ID, rec.TagIDs)
	})
	if err != nil {
		return setoran.DailyRecord{}, err
	}
	return repo.GetRecord(ctx, rec.ID)
}

func (repo setoranRepository) GetRecord(ctx context.Context, id string) (setoran.DailyRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return setoran.DailyRecord{}, setoran.ErrNotFound
	}

	var row recordRow
	q := `SELECT dr.id, dr.santri_id, dr.guru_id, to_char(dr.date, 'YYYY-MM-DD') AS date, dr.surah_id,
			dr.ayat_start, dr.ayat_end, dr.color_status, dr.type, dr.notes_text, dr.created_at,
			ARRAY(SELECT rt.tag_id::text FROM record_tag rt WHERE rt.record_id = dr.id ORDER BY rt.tag_id) AS tag_ids
		FROM daily_record dr WHERE dr.id = $1`
	if err := sqlx.GetContext(ctx, repo.db, &row, q, id); err != nil {
		return setoran.DailyRecord{}, trapNoRowsErr(err, setoran.ErrNotFound, "finding record")
	}

	rec := row.DailyRecord
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.TagIDs = []string(row.TagList)
	if rec.TagIDs == nil {
		rec.TagIDs = []string{}
	}
	return rec, nil
}

func (repo setoranRepository) UpdateRecord(ctx context.Context, rec setoran.DailyRecord) (setoran.DailyRecord, error) {
	err := runInTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `UPDATE daily_record SET surah_id = :surah_id, ayat_start = :ayat_start, ayat_end = :ayat_end,
			color_status = :color_status, type = :type, notes_text = :notes_text WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, q, rec)
		if err != nil {
			return errors.Wrap(err, "updating record")
		}
		if rowsAffected(res) == 0 {
			return setoran.ErrNotFound
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM record_tag WHERE record_id = $1`, rec.ID); err != nil {
			return errors.Wrap(err, "clearing record tags")
		}
		return insertRecordTags(ctx, tx, rec.ID, rec.TagIDs)
	})
	if err != nil {
		return setoran.DailyRecord{}, err
	}
	return repo.GetRecord(ctx, rec.ID)
}

func (repo setoranRepository) DeleteRecord(ctx context.Context, id string) error {
	// record_tag rows cascade
	res, err := repo.db.ExecContext(ctx, `DELETE FROM daily_record WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting record")
	}
	if rowsAffected(res) == 0 {
		return setoran.ErrNotFound
	}
	return nil
}

func (repo setoranRepository) QueryHistory(ctx context.Context, guruID string, limit int) ([]setoran.HistoryEntry, error) {
	if _, err := uuid.Parse(guruID); err != nil {
		return []setoran.HistoryEntry{}, nil
	}

	var rows []historyRow
	q := `SELECT dr.id, dr.santri_id, sp.full_name AS santri_name, c.name AS santri_class, dr.guru_id,
			dr.surah_id, qm.surah_name, dr.ayat_start, dr.ayat_end, dr.color_status, dr.type, dr.notes_text,
			to_char(dr.date, 'YYYY-MM-DD') AS date, dr.created_at,
			ARRAY(SELECT mt.tag_text FROM record_tag rt JOIN master_tag mt ON mt.id = rt.tag_id
				WHERE rt.record_id = dr.id ORDER BY mt.tag_text) AS tags
		FROM daily_record dr
		JOIN santri_profile sp ON sp.id = dr.santri_id
		LEFT JOIN class c ON c.id = sp.class_id
		JOIN quran_meta qm ON qm.id = dr.surah_id
		WHERE dr.guru_id = $1
		ORDER BY dr.created_at DESC
		LIMIT $2`
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, guruID, limit); err != nil {
		return nil, errors.Wrap(err, "querying history")
	}

	entries := make([]setoran.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		e := r.HistoryEntry
		e.CreatedAt = e.CreatedAt.UTC()
		e.Tags = []string(r.TagList)
		entries = append(entries, e)
	}
	return entries, nil
}
