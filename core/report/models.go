package report

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/simtahfidz/backend/core/quran"
)

// Record is a setoran joined with its surah and tags, as shown to santri.
type Record struct {
	ID          string      `json:"id" boil:"id"`
	SantriID    string      `json:"-" boil:"santri_id"`
	SurahID     int         `json:"surahId" boil:"surah_id"`
	SurahName   string      `json:"surahName" boil:"surah_name"`
	JuzNumber   int         `json:"juzNumber" boil:"juz_number"`
	AyatStart   int         `json:"ayatStart" boil:"ayat_start"`
	AyatEnd     int         `json:"ayatEnd" boil:"ayat_end"`
	ColorStatus string      `json:"colorStatus" boil:"color_status"`
	Type        string      `json:"type" boil:"type"`
	Notes       null.String `json:"notes" boil:"notes_text"`
	Date        string      `json:"date" boil:"date"`
	CreatedAt   time.Time   `json:"createdAt" boil:"created_at"`
	Tags        []string    `json:"tags" boil:"-"`
}

type Summary struct {
	TotalSetoran int `json:"totalSetoran" boil:"total_setoran"`
	TotalAyat    int `json:"totalAyat" boil:"total_ayat"`
	GreenCount   int `json:"greenCount" boil:"green_count"`
	YellowCount  int `json:"yellowCount" boil:"yellow_count"`
	RedCount     int `json:"redCount" boil:"red_count"`
}

// StudentRow is one line of the admin report.
type StudentRow struct {
	SantriID   string      `json:"santriId" boil:"santri_id"`
	SantriName string      `json:"santriName" boil:"santri_name"`
	ClassID    null.String `json:"classId" boil:"class_id"`
	ClassName  null.String `json:"className" boil:"class_name"`
	GuruName   null.String `json:"guruName" boil:"guru_name"`
	Summary    `boil:",bind"`
}

type AdminReport struct {
	Rows   []StudentRow `json:"rows"`
	Totals Summary      `json:"totals"`
}

type ReportFilter struct {
	ClassID string `query:"classId"`
}

// LastSetoran is the latest record of a santri assigned to the guru.
type LastSetoran struct {
	SantriID    string    `json:"santriId" boil:"santri_id"`
	SantriName  string    `json:"santriName" boil:"santri_name"`
	Date        string    `json:"date" boil:"date"`
	SurahName   string    `json:"surahName" boil:"surah_name"`
	ColorStatus string    `json:"colorStatus" boil:"color_status"`
	CreatedAt   time.Time `json:"createdAt" boil:"created_at"`
}

type JuzCell struct {
	Juz    int         `json:"juz"`
	Status null.String `json:"status"`
	Label  string      `json:"label"`
}

type MonthlyPoint struct {
	Month      string `json:"month"` // YYYY-MM
	Label      string `json:"label"`
	Ayat       int    `json:"ayat"`
	Cumulative int    `json:"cumulative"`
}

// SantriInfo is the identity block shown on the santri portal.
type SantriInfo struct {
	ID        string      `json:"id"`
	FullName  string      `json:"fullName"`
	Email     string      `json:"email"`
	Dob       null.String `json:"dob"`
	ClassName null.String `json:"className"`
	GuruName  null.String `json:"guruName"`
}

type DashboardStats struct {
	Summary
	GreenSurahs  int `json:"greenSurahs"`
	SurahPercent int `json:"surahPercent"`
}

type Dashboard struct {
	Santri  SantriInfo     `json:"santri"`
	Stats   DashboardStats `json:"stats"`
	JuzGrid []JuzCell      `json:"juzGrid"`
}

type LogbookFilter struct {
	Juz   int `query:"juz"`
	Surah int `query:"surah"`
}

type SurahStatus struct {
	quran.Surah
	Status null.String `json:"status"`
	Label  string      `json:"label"`
}

type Logbook struct {
	Juz     int           `json:"juz,omitempty"`
	SurahID int           `json:"surahId,omitempty"`
	Surahs  []SurahStatus `json:"surahs"`
	Records []Record      `json:"records"`
}

type Profile struct {
	Santri          SantriInfo     `json:"santri"`
	Stats           Summary        `json:"stats"`
	ProgressPercent int            `json:"progressPercent"`
	Monthly         []MonthlyPoint `json:"monthly"`
}

type AdminStats struct {
	SantriCount  int `json:"santriCount" boil:"santri_count"`
	GuruCount    int `json:"guruCount" boil:"guru_count"`
	ClassCount   int `json:"classCount" boil:"class_count"`
	TagCount     int `json:"tagCount" boil:"tag_count"`
	RecordsToday int `json:"recordsToday" boil:"records_today"`
	Unassigned   int `json:"unassignedSantri" boil:"unassigned_santri"`
}

type GuruStats struct {
	SantriCount      int `json:"santriCount" boil:"santri_count"`
	RecordsToday     int `json:"recordsToday" boil:"records_today"`
	RecordsThisMonth int `json:"recordsThisMonth" boil:"records_this_month"`
}
