package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/kelas"
	"github.com/simtahfidz/backend/core/report"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/setoran"
	"github.com/simtahfidz/backend/core/tag"
	"github.com/simtahfidz/backend/core/user"
	inmemdb "github.com/simtahfidz/backend/storage/database/inmem"
	tu "github.com/simtahfidz/backend/testutil"
)

type fixture struct {
	svcs    *tu.Services
	records setoran.Repository
	guru    user.User
	ahmad   santri.CreatedSantri
	siti    santri.CreatedSantri
}

func setup(t *testing.T) fixture {
	t.Helper()
	t.Cleanup(report.SetNowFunc(func() time.Time { return time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC) }))

	conf := tu.NewConfig()
	conf.Timezone = "UTC"
	svcs := tu.NewServices(conf)
	ctx := context.Background()

	f := fixture{
		svcs:    svcs,
		records: inmemdb.NewSetoranRepository(svcs.DB),
		guru:    tu.CreateUser(t, svcs.UserRepo, "Ustadz Hasan", "hasan@example.com", tu.Password, user.RoleGuru),
	}
	var err error
	f.ahmad, err = svcs.SantriSvc.Create(ctx, santri.NewSantri{FullName: "Ahmad", ClassID: "class_7a", AssignedGuruID: f.guru.ID})
	require.NoError(t, err)
	f.siti, err = svcs.SantriSvc.Create(ctx, santri.NewSantri{FullName: "Siti", ClassID: "class_8a"})
	require.NoError(t, err)
	return f
}

// add inserts a record straight into the store, bypassing the cache invalidation of the setoran service.
func (f fixture) add(t *testing.T, s santri.Santri, surahID, start, end int, color, created string) {
	t.Helper()
	at, err := time.Parse(time.RFC3339, created)
	require.NoError(t, err)
	_, err = f.records.CreateRecord(context.Background(), setoran.DailyRecord{
		ID:          uuid.New().String(),
		SantriID:    s.ID,
		GuruID:      null.StringFrom(f.guru.ID),
		Date:        at.Format("2006-01-02"),
		SurahID:     surahID,
		AyatStart:   start,
		AyatEnd:     end,
		ColorStatus: color,
		Type:        setoran.TypeZiyadah,
		CreatedAt:   at,
	})
	require.NoError(t, err)
}

func TestAdminReport(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.add(t, f.ahmad.Santri, 1, 1, 7, "G", "2024-03-01T08:00:00Z")
	f.add(t, f.ahmad.Santri, 2, 1, 5, "R", "2024-03-02T08:00:00Z")
	f.add(t, f.siti.Santri, 114, 1, 6, "Y", "2024-03-02T09:00:00Z")

	rep, err := f.svcs.ReportSvc.AdminReport(ctx, report.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "Ahmad", rep.Rows[0].SantriName)
	assert.Equal(t, "7A", rep.Rows[0].ClassName.String)
	assert.Equal(t, "Ustadz Hasan", rep.Rows[0].GuruName.String)
	assert.Equal(t, report.Summary{TotalSetoran: 2, TotalAyat: 12, GreenCount: 1, RedCount: 1}, rep.Rows[0].Summary)
	assert.False(t, rep.Rows[1].GuruName.Valid)
	assert.Equal(t, report.Summary{TotalSetoran: 3, TotalAyat: 18, GreenCount: 1, YellowCount: 1, RedCount: 1}, rep.Totals)

	byClass, err := f.svcs.ReportSvc.AdminReport(ctx, report.ReportFilter{ClassID: "class_8a"})
	require.NoError(t, err)
	require.Len(t, byClass.Rows, 1)
	assert.Equal(t, "Siti", byClass.Rows[0].SantriName)
	assert.Equal(t, 6, byClass.Totals.TotalAyat)

	// served from the cache until a write invalidates it
	f.add(t, f.siti.Santri, 113, 1, 5, "G", "2024-03-03T09:00:00Z")
	rep, err = f.svcs.ReportSvc.AdminReport(ctx, report.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Totals.TotalSetoran)

	_, err = f.svcs.SetoranSvc.Create(ctx, f.guru.ID, setoran.NewRecord{
		SantriID:    f.ahmad.Santri.ID,
		Type:        setoran.TypeMurajaah,
		SurahID:     112,
		AyatStart:   1,
		AyatEnd:     4,
		ColorStatus: setoran.ColorGreen,
	})
	require.NoError(t, err)
	rep, err = f.svcs.ReportSvc.AdminReport(ctx, report.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Totals.TotalSetoran)
}

func TestStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.add(t, f.ahmad.Santri, 1, 1, 7, "G", "2024-02-28T08:00:00Z")
	f.add(t, f.ahmad.Santri, 2, 1, 5, "R", "2024-03-02T08:00:00Z")
	f.add(t, f.siti.Santri, 114, 1, 6, "Y", "2024-03-05T01:00:00Z")

	stats, err := f.svcs.ReportSvc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.AdminStats{
		SantriCount:  2,
		GuruCount:    1,
		ClassCount:   18,
		RecordsToday: 1,
		Unassigned:   1,
	}, stats)

	gStats, err := f.svcs.ReportSvc.GuruStats(ctx, f.guru.ID)
	require.NoError(t, err)
	assert.Equal(t, report.GuruStats{SantriCount: 1, RecordsToday: 1, RecordsThisMonth: 2}, gStats)

	last, err := f.svcs.ReportSvc.LastSetoran(ctx, f.guru.ID)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "Ahmad", last[0].SantriName)
	assert.Equal(t, "2024-03-02", last[0].Date)
	assert.Equal(t, "R", last[0].ColorStatus)

	none, err := f.svcs.ReportSvc.LastSetoran(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Equal(t, []report.LastSetoran{}, none)
}

func TestAdminCachesFollowWrites(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	before, err := f.svcs.ReportSvc.AdminStats(ctx)
	require.NoError(t, err)
	_, err = f.svcs.ReportSvc.AdminReport(ctx, report.ReportFilter{})
	require.NoError(t, err)

	cls, err := f.svcs.ClassSvc.Create(ctx, kelas.NewClass{Name: "Tahsin"})
	require.NoError(t, err)
	_, err = f.svcs.TagSvc.Create(ctx, tag.NewTag{Category: tag.CategoryTajwid, TagText: "Ghunnah"})
	require.NoError(t, err)
	usr := tu.CreateUser(t, f.svcs.UserRepo, "Ustadz Umar", "umar@example.com", tu.Password)
	_, err = f.svcs.UserSvc.AssignRole(ctx, usr.ID, user.RoleID(user.RoleGuru))
	require.NoError(t, err)

	after, err := f.svcs.ReportSvc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.ClassCount+1, after.ClassCount)
	assert.Equal(t, before.TagCount+1, after.TagCount)
	assert.Equal(t, before.GuruCount+1, after.GuruCount)

	_, err = f.svcs.ClassSvc.Update(ctx, "class_7a", kelas.NewClass{Name: "7A Tahfidz"})
	require.NoError(t, err)
	rep, err := f.svcs.ReportSvc.AdminReport(ctx, report.ReportFilter{ClassID: "class_7a"})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "7A Tahfidz", rep.Rows[0].ClassName.String)

	require.NoError(t, f.svcs.ClassSvc.Delete(ctx, cls.ID))
	stats, err := f.svcs.ReportSvc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.ClassCount, stats.ClassCount)
}

func TestSantriDashboard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.add(t, f.ahmad.Santri, 1, 1, 7, "G", "2024-03-01T08:00:00Z")
	f.add(t, f.ahmad.Santri, 1, 1, 7, "Y", "2024-03-02T08:00:00Z") // latest wins
	f.add(t, f.ahmad.Santri, 2, 1, 5, "R", "2024-03-03T08:00:00Z")
	f.add(t, f.ahmad.Santri, 114, 1, 6, "G", "2024-03-04T08:00:00Z")

	dash, err := f.svcs.ReportSvc.SantriDashboard(ctx, f.ahmad.Santri.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Ahmad", dash.Santri.FullName)
	assert.Equal(t, "7A", dash.Santri.ClassName.String)
	assert.Equal(t, 4, dash.Stats.TotalSetoran)
	assert.Equal(t, 25, dash.Stats.TotalAyat)
	assert.Equal(t, 1, dash.Stats.GreenSurahs)
	assert.Equal(t, 1, dash.Stats.SurahPercent)

	require.Len(t, dash.JuzGrid, 30)
	assert.Equal(t, "R", dash.JuzGrid[0].Status.String)
	assert.False(t, dash.JuzGrid[14].Status.Valid)
	assert.Equal(t, "G", dash.JuzGrid[29].Status.String)
	assert.Equal(t, "Mutqin", dash.JuzGrid[29].Label)

	_, err = f.svcs.ReportSvc.SantriDashboard(ctx, f.guru.ID)
	assert.True(t, core.IsNotFound(err))
}

func TestSantriLogbook(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.add(t, f.ahmad.Santri, 2, 1, 5, "R", "2024-03-03T08:00:00Z")
	f.add(t, f.ahmad.Santri, 114, 1, 6, "G", "2024-03-04T08:00:00Z")

	book, err := f.svcs.ReportSvc.SantriLogbook(ctx, f.ahmad.Santri.UserID, report.LogbookFilter{})
	require.NoError(t, err)
	assert.Len(t, book.Surahs, 114)
	assert.Len(t, book.Records, 2)
	assert.Equal(t, 114, book.Records[0].SurahID)
	assert.Equal(t, []string{}, book.Records[0].Tags)

	book, err = f.svcs.ReportSvc.SantriLogbook(ctx, f.ahmad.Santri.UserID, report.LogbookFilter{Juz: 30})
	require.NoError(t, err)
	require.Len(t, book.Records, 1)
	assert.Equal(t, 114, book.Records[0].SurahID)
	for _, s := range book.Surahs {
		assert.Equal(t, 30, s.JuzNumber)
		if s.ID == 114 {
			assert.Equal(t, "G", s.Status.String)
		} else {
			assert.False(t, s.Status.Valid)
			assert.Equal(t, "Belum", s.Label)
		}
	}

	book, err = f.svcs.ReportSvc.SantriLogbook(ctx, f.ahmad.Santri.UserID, report.LogbookFilter{Surah: 2})
	require.NoError(t, err)
	require.Len(t, book.Surahs, 1)
	assert.Equal(t, "Rasib", book.Surahs[0].Label)
	assert.Len(t, book.Records, 1)

	_, err = f.svcs.ReportSvc.SantriLogbook(ctx, f.ahmad.Santri.UserID, report.LogbookFilter{Juz: 31})
	_, ok := err.(*core.ValidationError)
	assert.True(t, ok)
}

func TestSantriProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	profile, err := f.svcs.ReportSvc.SantriProfile(ctx, f.siti.Santri.UserID)
	require.NoError(t, err)
	assert.Equal(t, report.Summary{}, profile.Stats)
	assert.Equal(t, 0, profile.ProgressPercent)
	assert.Empty(t, profile.Monthly)

	f.add(t, f.siti.Santri, 2, 1, 100, "G", "2024-02-10T08:00:00Z")
	f.add(t, f.siti.Santri, 2, 101, 150, "Y", "2024-03-01T08:00:00Z")

	profile, err = f.svcs.ReportSvc.SantriProfile(ctx, f.siti.Santri.UserID)
	require.NoError(t, err)
	assert.Equal(t, 150, profile.Stats.TotalAyat)
	assert.Equal(t, 2, profile.ProgressPercent) // 150 / 6236
	assert.Equal(t, []report.MonthlyPoint{
		{Month: "2024-02", Label: "Feb 24", Ayat: 100, Cumulative: 100},
		{Month: "2024-03", Label: "Mar 24", Ayat: 50, Cumulative: 150},
	}, profile.Monthly)
}
