package sqlxrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/report"
	"github.com/simtahfidz/backend/core/setoran"
	"github.com/simtahfidz/backend/core/user"
)

type reportRepository struct {
	db core.DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db core.DB) *reportRepository {
	return &reportRepository{db: db}
}

func (repo reportRepository) QueryStudentRows(ctx context.Context) ([]report.StudentRow, error) {
	q := `SELECT sp.id AS santri_id, sp.full_name AS santri_name, sp.class_id, c.name AS class_name, g.name AS guru_name,
			COUNT(dr.id) AS total_setoran,
			COALESCE(SUM(dr.ayat_end - dr.ayat_start + 1), 0) AS total_ayat,
			COUNT(dr.id) FILTER (WHERE dr.color_status = $1) AS green_count,
			COUNT(dr.id) FILTER (WHERE dr.color_status = $2) AS yellow_count,
			COUNT(dr.id) FILTER (WHERE dr.color_status = $3) AS red_count
		FROM santri_profile sp
		LEFT JOIN class c ON c.id = sp.class_id
		LEFT JOIN "user" g ON g.id = sp.assigned_guru_id
		LEFT JOIN daily_record dr ON dr.santri_id = sp.id
		GROUP BY sp.id, sp.full_name, sp.class_id, c.name, g.name
		ORDER BY sp.full_name`

	rows := make([]report.StudentRow, 0)
	err := queries.Raw(q, setoran.ColorGreen, setoran.ColorYellow, setoran.ColorRed).Bind(ctx, repo.db, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "querying student rows")
	}
	return rows, nil
}

func (repo reportRepository) QueryLastSetoran(ctx context.Context, guruID string) ([]report.LastSetoran, error) {
	if _, err := uuid.Parse(guruID); err != nil {
		return []report.LastSetoran{}, nil
	}

	q := `SELECT * FROM (
			SELECT DISTINCT ON (sp.id) sp.id AS santri_id, sp.full_name AS santri_name,
				to_char(dr.date, 'YYYY-MM-DD') AS date, qm.surah_name, dr.color_status, dr.created_at
			FROM santri_profile sp
			JOIN daily_record dr ON dr.santri_id = sp.id
			JOIN quran_meta qm ON qm.id = dr.surah_id
			WHERE sp.assigned_guru_id = $1
			ORDER BY sp.id, dr.created_at DESC
		) last ORDER BY last.created_at DESC`

	last := make([]report.LastSetoran, 0)
	if err := queries.Raw(q, guruID).Bind(ctx, repo.db, &last); err != nil {
		return nil, errors.Wrap(err, "querying last setoran")
	}
	return last, nil
}

type santriRecordRow struct {
	report.Record `boil:",bind"`
	TagList       pq.StringArray `boil:"tags"`
}

func (repo reportRepository) QuerySantriRecords(ctx context.Context, santriID string) ([]report.Record, error) {
	if _, err := uuid.Parse(santriID); err != nil {
		return []report.Record{}, nil
	}

	q := `SELECT dr.id, dr.santri_id, dr.surah_id, qm.surah_name, qm.juz_number, dr.ayat_start, dr.ayat_end,
			dr.color_status, dr.type, dr.notes_text, to_char(dr.date, 'YYYY-MM-DD') AS date, dr.created_at,
			ARRAY(SELECT mt.tag_text FROM record_tag rt JOIN master_tag mt ON mt.id = rt.tag_id
				WHERE rt.record_id = dr.id ORDER BY mt.tag_text) AS tags
		FROM daily_record dr
		JOIN quran_meta qm ON qm.id = dr.surah_id
		WHERE dr.santri_id = $1
		ORDER BY dr.created_at DESC`

	var rows []santriRecordRow
	if err := queries.Raw(q, santriID).Bind(ctx, repo.db, &rows); err != nil {
		return nil, errors.Wrap(err, "querying santri records")
	}

	records := make([]report.Record, 0, len(rows))
	for _, r := range rows {
		rec := r.Record
		rec.CreatedAt = rec.CreatedAt.UTC()
		rec.Tags = []string(r.TagList)
		records = append(records, rec)
	}
	return records, nil
}

func (repo reportRepository) AdminStats(ctx context.Context, day string) (report.AdminStats, error) {
	q := `SELECT
			(SELECT COUNT(*) FROM santri_profile) AS santri_count,
			(SELECT COUNT(*) FROM user_role WHERE role_id = $1) AS guru_count,
			(SELECT COUNT(*) FROM class) AS class_count,
			(SELECT COUNT(*) FROM master_tag) AS tag_count,
			(SELECT COUNT(*) FROM daily_record WHERE date = $2::date) AS records_today,
			(SELECT COUNT(*) FROM santri_profile WHERE assigned_guru_id IS NULL) AS unassigned_santri`

	var stats report.AdminStats
	if err := queries.Raw(q, user.RoleID(user.RoleGuru), day).Bind(ctx, repo.db, &stats); err != nil {
		return report.AdminStats{}, errors.Wrap(err, "querying admin stats")
	}
	return stats, nil
}

func (repo reportRepository) GuruStats(ctx context.Context, guruID, day, month string) (report.GuruStats, error) {
	if _, err := uuid.Parse(guruID); err != nil {
		return report.GuruStats{}, nil
	}

	q := `SELECT
			(SELECT COUNT(*) FROM santri_profile WHERE assigned_guru_id = $1) AS santri_count,
			(SELECT COUNT(*) FROM daily_record WHERE guru_id = $1 AND date = $2::date) AS records_today,
			(SELECT COUNT(*) FROM daily_record WHERE guru_id = $1 AND to_char(date, 'YYYY-MM') = $3) AS records_this_month`

	var stats report.GuruStats
	if err := queries.Raw(q, guruID, day, month).Bind(ctx, repo.db, &stats); err != nil {
		return report.GuruStats{}, errors.Wrap(err, "querying guru stats")
	}
	return stats, nil
}
