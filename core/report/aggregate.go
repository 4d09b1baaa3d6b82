package report

import (
	"math"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/simtahfidz/backend/core/quran"
	"github.com/simtahfidz/backend/core/setoran"
)

var (
	statusLabels = map[string]string{
		setoran.ColorGreen:  "Mutqin",
		setoran.ColorYellow: "Jayyid",
		setoran.ColorRed:    "Rasib",
	}
	unsetLabel = "Belum"

	// worse statuses rank higher
	statusRanks = map[string]int{
		setoran.ColorGreen:  1,
		setoran.ColorYellow: 2,
		setoran.ColorRed:    3,
	}

	monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Ags", "Sep", "Okt", "Nov", "Des"}
)

// StatusLabel names a color status; an unset status is "Belum".
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return unsetLabel
}

// Summarize counts records, recited ayat and records per color status.
func Summarize(records []Record) Summary {
	var sum Summary
	for _, r := range records {
		sum.TotalSetoran++
		sum.TotalAyat += r.AyatEnd - r.AyatStart + 1
		switch r.ColorStatus {
		case setoran.ColorGreen:
			sum.GreenCount++
		case setoran.ColorYellow:
			sum.YellowCount++
		case setoran.ColorRed:
			sum.RedCount++
		}
	}
	return sum
}

// LatestSurahStatus maps each surah to the status of its most recent record.
// `records` must be sorted by CreatedAt, newest first: the first record seen for a surah wins.
func LatestSurahStatus(records []Record) map[int]string {
	statuses := make(map[int]string)
	for _, r := range records {
		if _, seen := statuses[r.SurahID]; !seen {
			statuses[r.SurahID] = r.ColorStatus
		}
	}
	return statuses
}

// JuzStatus rolls the statuses of the surahs of a juz up to the worst one: R > Y > G.
// Unset statuses are ignored; if every status is unset the juz is unset ("").
func JuzStatus(statuses []string) string {
	var worst string
	for _, s := range statuses {
		if statusRanks[s] > statusRanks[worst] {
			worst = s
		}
	}
	return worst
}

// JuzGrid computes the status of the 30 juz. A surah belongs to the juz where it starts.
func JuzGrid(surahStatuses map[int]string, surahs []quran.Surah) []JuzCell {
	byJuz := make(map[int][]string, quran.JuzCount)
	for _, s := range surahs {
		byJuz[s.JuzNumber] = append(byJuz[s.JuzNumber], surahStatuses[s.ID])
	}

	grid := make([]JuzCell, 0, quran.JuzCount)
	for juz := 1; juz <= quran.JuzCount; juz++ {
		status := JuzStatus(byJuz[juz])
		grid = append(grid, JuzCell{
			Juz:    juz,
			Status: nullString(status, status != ""),
			Label:  StatusLabel(status),
		})
	}
	return grid
}

// GreenSurahs counts the surahs whose latest status is green.
func GreenSurahs(surahStatuses map[int]string) int {
	var n int
	for _, s := range surahStatuses {
		if s == setoran.ColorGreen {
			n++
		}
	}
	return n
}

// MonthlyProgress accumulates recited ayat per month (YYYY-MM of the record date), oldest month first.
func MonthlyProgress(records []Record) []MonthlyPoint {
	perMonth := make(map[string]int)
	for _, r := range records {
		if len(r.Date) < 7 {
			continue
		}
		perMonth[r.Date[:7]] += r.AyatEnd - r.AyatStart + 1
	}

	months := make([]string, 0, len(perMonth))
	for m := range perMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	points := make([]MonthlyPoint, 0, len(months))
	var cumulative int
	for _, m := range months {
		cumulative += perMonth[m]
		points = append(points, MonthlyPoint{
			Month:      m,
			Label:      monthLabel(m),
			Ayat:       perMonth[m],
			Cumulative: cumulative,
		})
	}
	return points
}

// monthLabel turns "2024-03" into "Mar 24".
func monthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return monthNames[t.Month()-1] + " " + t.Format("06")
}

// Percent returns round(part / total * 100).
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// FilterSurahs keeps the surahs of `juz`, or the surah `surahID`; with neither set all surahs are kept.
func FilterSurahs(surahs []quran.Surah, juz, surahID int) []quran.Surah {
	if juz == 0 && surahID == 0 {
		return surahs
	}
	filtered := make([]quran.Surah, 0)
	for _, s := range surahs {
		if (juz != 0 && s.JuzNumber == juz) || (juz == 0 && s.ID == surahID) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// FilterRecords keeps the records touching one of `surahs`.
func FilterRecords(records []Record, surahs []quran.Surah) []Record {
	ids := make(map[int]struct{}, len(surahs))
	for _, s := range surahs {
		ids[s.ID] = struct{}{}
	}
	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := ids[r.SurahID]; ok {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Totals sums up report rows.
func Totals(rows []StudentRow) Summary {
	var sum Summary
	for _, row := range rows {
		sum.TotalSetoran += row.TotalSetoran
		sum.TotalAyat += row.TotalAyat
		sum.GreenCount += row.GreenCount
		sum.YellowCount += row.YellowCount
		sum.RedCount += row.RedCount
	}
	return sum
}

func nullString(s string, valid bool) null.String {
	return null.NewString(s, valid && s != "")
}
