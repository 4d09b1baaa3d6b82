package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/simtahfidz/backend/core/report"
	"github.com/simtahfidz/backend/core/setoran"
	"github.com/simtahfidz/backend/core/user"
)

type reportRepository struct {
	db *DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db}
}

// santriRecords lists the records of a santri, newest first. Expects the lock to be held.
func (repo *reportRepository) santriRecords(santriID string) []setoran.DailyRecord {
	records := make([]setoran.DailyRecord, 0)
	for _, r := range repo.db.records {
		if r.SantriID == santriID {
			records = append(records, r)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.After(records[j].CreatedAt) })
	return records
}

func (repo *reportRepository) QueryStudentRows(_ context.Context) ([]report.StudentRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]report.StudentRow, 0, len(repo.db.santri))
	for _, s := range repo.db.santri {
		s = repo.db.santriView(s)
		row := report.StudentRow{
			SantriID:   s.ID,
			SantriName: s.FullName,
			ClassID:    s.ClassID,
			ClassName:  s.ClassName,
			GuruName:   s.GuruName,
		}
		for _, r := range repo.santriRecords(s.ID) {
			row.TotalSetoran++
			row.TotalAyat += r.AyatCount()
			switch r.ColorStatus {
			case setoran.ColorGreen:
				row.GreenCount++
			case setoran.ColorYellow:
				row.YellowCount++
			case setoran.ColorRed:
				row.RedCount++
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SantriName < rows[j].SantriName })
	return rows, nil
}

func (repo *reportRepository) QueryLastSetoran(_ context.Context, guruID string) ([]report.LastSetoran, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	last := make([]report.LastSetoran, 0)
	for _, s := range repo.db.santri {
		if !s.AssignedTo(guruID) {
			continue
		}
		records := repo.santriRecords(s.ID)
		if len(records) == 0 {
			continue
		}
		r := records[0]
		last = append(last, report.LastSetoran{
			SantriID:    s.ID,
			SantriName:  s.FullName,
			Date:        r.Date,
			SurahName:   repo.db.surah(r.SurahID).SurahName,
			ColorStatus: r.ColorStatus,
			CreatedAt:   r.CreatedAt,
		})
	}
	sort.Slice(last, func(i, j int) bool { return last[i].CreatedAt.After(last[j].CreatedAt) })
	return last, nil
}

func (repo *reportRepository) QuerySantriRecords(_ context.Context, santriID string) ([]report.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]report.Record, 0)
	for _, r := range repo.santriRecords(santriID) {
		surah := repo.db.surah(r.SurahID)
		records = append(records, report.Record{
			ID:          r.ID,
			SantriID:    r.SantriID,
			SurahID:     r.SurahID,
			SurahName:   surah.SurahName,
			JuzNumber:   surah.JuzNumber,
			AyatStart:   r.AyatStart,
			AyatEnd:     r.AyatEnd,
			ColorStatus: r.ColorStatus,
			Type:        r.Type,
			Notes:       r.NotesText,
			Date:        r.Date,
			CreatedAt:   r.CreatedAt,
			Tags:        repo.db.tagTexts(r.ID),
		})
	}
	return records, nil
}

func (repo *reportRepository) AdminStats(_ context.Context, day string) (report.AdminStats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	stats := report.AdminStats{
		SantriCount: len(repo.db.santri),
		ClassCount:  len(repo.db.classes),
		TagCount:    len(repo.db.tags),
	}
	for id := range repo.db.users {
		if repo.db.hasRole(id, user.RoleID(user.RoleGuru)) {
			stats.GuruCount++
		}
	}
	for _, s := range repo.db.santri {
		if !s.AssignedGuruID.Valid {
			stats.Unassigned++
		}
	}
	for _, r := range repo.db.records {
		if r.Date == day {
			stats.RecordsToday++
		}
	}
	return stats, nil
}

func (repo *reportRepository) GuruStats(_ context.Context, guruID, day, month string) (report.GuruStats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats report.GuruStats
	for _, s := range repo.db.santri {
		if s.AssignedTo(guruID) {
			stats.SantriCount++
		}
	}
	for _, r := range repo.db.records {
		if !r.GuruID.Valid || r.GuruID.String != guruID {
			continue
		}
		if r.Date == day {
			stats.RecordsToday++
		}
		if strings.HasPrefix(r.Date, month) {
			stats.RecordsThisMonth++
		}
	}
	return stats, nil
}
