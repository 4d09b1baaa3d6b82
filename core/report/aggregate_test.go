package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtahfidz/backend/core/quran"
	"github.com/simtahfidz/backend/core/setoran"
)

func rec(surahID, start, end int, status, date string) Record {
	created, _ := time.Parse("2006-01-02", date)
	return Record{
		SurahID:     surahID,
		AyatStart:   start,
		AyatEnd:     end,
		ColorStatus: status,
		Type:        setoran.TypeZiyadah,
		Date:        date,
		CreatedAt:   created,
	}
}

func TestJuzStatusPermutations(t *testing.T) {
	perms := [][]string{
		{"G", "R", ""},
		{"G", "", "R"},
		{"R", "G", ""},
		{"R", "", "G"},
		{"", "G", "R"},
		{"", "R", "G"},
	}
	for _, p := range perms {
		t.Run(fmt.Sprintf("%q", p), func(t *testing.T) {
			assert.Equal(t, setoran.ColorRed, JuzStatus(p))
		})
	}
}

func TestJuzStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"empty", nil, ""},
		{"all unset", []string{"", "", ""}, ""},
		{"unset ignored", []string{"", "G"}, "G"},
		{"yellow over green", []string{"G", "Y", "G"}, "Y"},
		{"red over yellow", []string{"Y", "R"}, "R"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, JuzStatus(tc.statuses))
		})
	}
}

func TestSummarize(t *testing.T) {
	records := []Record{
		rec(1, 1, 7, "Y", "2024-03-01"),
		rec(114, 1, 6, "R", "2024-03-02"),
	}
	before := Summarize(records)

	// S1 recites al-Baqarah 1..5 with a green status
	after := Summarize(append(records, rec(2, 1, 5, "G", "2024-03-03")))

	assert.Equal(t, before.TotalAyat+5, after.TotalAyat)
	assert.Equal(t, before.GreenCount+1, after.GreenCount)
	assert.Equal(t, before.TotalSetoran+1, after.TotalSetoran)
	assert.Equal(t, Summary{TotalSetoran: 3, TotalAyat: 18, GreenCount: 1, YellowCount: 1, RedCount: 1}, after)
}

func TestLatestSurahStatus(t *testing.T) {
	records := []Record{ // newest first
		rec(2, 6, 10, "G", "2024-03-05"),
		rec(2, 1, 5, "R", "2024-03-04"),
		rec(1, 1, 7, "Y", "2024-03-01"),
	}
	statuses := LatestSurahStatus(records)
	assert.Equal(t, map[int]string{1: "Y", 2: "G"}, statuses)
	assert.Equal(t, 1, GreenSurahs(statuses))
}

func TestJuzGrid(t *testing.T) {
	surahs := quran.Surahs()
	statuses := map[int]string{
		1:   setoran.ColorGreen,  // juz 1
		2:   setoran.ColorYellow, // juz 1
		114: setoran.ColorRed,    // juz 30
		113: setoran.ColorGreen,  // juz 30
	}

	grid := JuzGrid(statuses, surahs)
	require.Len(t, grid, quran.JuzCount)

	assert.Equal(t, 1, grid[0].Juz)
	assert.Equal(t, "Y", grid[0].Status.String)
	assert.Equal(t, "Jayyid", grid[0].Label)

	assert.False(t, grid[1].Status.Valid)
	assert.Equal(t, "Belum", grid[1].Label)

	assert.Equal(t, 30, grid[29].Juz)
	assert.Equal(t, "R", grid[29].Status.String)
	assert.Equal(t, "Rasib", grid[29].Label)
}

func TestMonthlyProgress(t *testing.T) {
	records := []Record{
		rec(2, 1, 10, "G", "2024-04-02"),
		rec(1, 1, 7, "G", "2024-03-20"),
		rec(114, 1, 6, "Y", "2024-03-01"),
		rec(113, 1, 5, "R", "2023-12-31"),
	}

	points := MonthlyProgress(records)
	assert.Equal(t, []MonthlyPoint{
		{Month: "2023-12", Label: "Des 23", Ayat: 5, Cumulative: 5},
		{Month: "2024-03", Label: "Mar 24", Ayat: 13, Cumulative: 18},
		{Month: "2024-04", Label: "Apr 24", Ayat: 10, Cumulative: 28},
	}, points)

	assert.Empty(t, MonthlyProgress(nil))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, quran.TotalAyat))
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 50, Percent(57, quran.SurahCount))
	assert.Equal(t, 1, Percent(7+286-200, quran.TotalAyat)) // 93 / 6236 = 1.49%
	assert.Equal(t, 100, Percent(quran.SurahCount, quran.SurahCount))
}

func TestFilterSurahs(t *testing.T) {
	surahs := quran.Surahs()

	assert.Len(t, FilterSurahs(surahs, 0, 0), quran.SurahCount)

	juz30 := FilterSurahs(surahs, 30, 0)
	require.NotEmpty(t, juz30)
	for _, s := range juz30 {
		assert.Equal(t, 30, s.JuzNumber)
	}

	one := FilterSurahs(surahs, 0, 36)
	require.Len(t, one, 1)
	assert.Equal(t, 36, one[0].ID)

	assert.Empty(t, FilterSurahs(surahs, 0, 200))
}

func TestFilterRecords(t *testing.T) {
	records := []Record{
		rec(2, 1, 5, "G", "2024-03-05"),
		rec(114, 1, 6, "R", "2024-03-04"),
	}
	got := FilterRecords(records, FilterSurahs(quran.Surahs(), 30, 0))
	require.Len(t, got, 1)
	assert.Equal(t, 114, got[0].SurahID)
}

func TestTotals(t *testing.T) {
	rows := []StudentRow{
		{SantriID: "a", Summary: Summary{TotalSetoran: 2, TotalAyat: 12, GreenCount: 1, RedCount: 1}},
		{SantriID: "b", Summary: Summary{TotalSetoran: 1, TotalAyat: 5, YellowCount: 1}},
		{SantriID: "c"},
	}
	assert.Equal(t, Summary{TotalSetoran: 3, TotalAyat: 17, GreenCount: 1, YellowCount: 1, RedCount: 1}, Totals(rows))
	assert.Equal(t, Summary{}, Totals(nil))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Mutqin", StatusLabel("G"))
	assert.Equal(t, "Jayyid", StatusLabel("Y"))
	assert.Equal(t, "Rasib", StatusLabel("R"))
	assert.Equal(t, "Belum", StatusLabel(""))
}
