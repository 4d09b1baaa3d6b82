package setoran

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/simtahfidz/backend/core"
)

// Color statuses
const (
	ColorGreen  = "G" // Mutqin
	ColorYellow = "Y" // Jayyid
	ColorRed    = "R" // Rasib
)

// Record types
const (
	TypeZiyadah  = "ziyadah"
	TypeMurajaah = "murajaah"
)

const (
	NotesMaxLen  = 150
	HistoryLimit = 50
)

var (
	colorStatusTag  = "color_status"
	colorStatusText = "colorStatus must be one of G, Y or R"

	recordTypeTag  = "record_type"
	recordTypeText = "type must be one of ziyadah or murajaah"
)

func IsColorStatus(s string) bool {
	return s == ColorGreen || s == ColorYellow || s == ColorRed
}

func IsRecordType(t string) bool {
	return t == TypeZiyadah || t == TypeMurajaah
}

// DailyRecord is one setoran: a range of ayat recited by a santri in front of a guru.
type DailyRecord struct {
	ID          string      `json:"id" db:"id"`
	SantriID    string      `json:"santriId" db:"santri_id"`
	GuruID      null.String `json:"guruId" db:"guru_id"`
	Date        string      `json:"date" db:"date"` // YYYY-MM-DD, server time zone
	SurahID     int         `json:"surahId" db:"surah_id"`
	AyatStart   int         `json:"ayatStart" db:"ayat_start"`
	AyatEnd     int         `json:"ayatEnd" db:"ayat_end"`
	ColorStatus string      `json:"colorStatus" db:"color_status"`
	Type        string      `json:"type" db:"type"`
	NotesText   null.String `json:"notes" db:"notes_text"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	TagIDs      []string    `json:"tagIds" db:"-"`
}

func (r DailyRecord) AyatCount() int {
	return r.AyatEnd - r.AyatStart + 1
}

// CanModify is true iff `guruID` recorded it and less than `window` has elapsed since creation.
// At exactly `window` the record is locked.
func (r DailyRecord) CanModify(guruID string, now time.Time, window time.Duration) bool {
	if !r.GuruID.Valid || r.GuruID.String != guruID {
		return false
	}
	return now.Sub(r.CreatedAt) < window
}

// NewRecord contains information needed to create a new DailyRecord.
type NewRecord struct {
	SantriID    string   `json:"santriId" validate:"required"`
	Type        string   `json:"type" validate:"required,record_type"`
	SurahID     int      `json:"surahId" validate:"required,min=1,max=114"`
	AyatStart   int      `json:"ayatStart" validate:"required,min=1"`
	AyatEnd     int      `json:"ayatEnd" validate:"required,gtefield=AyatStart"`
	ColorStatus string   `json:"colorStatus" validate:"required,color_status"`
	TagIDs      []string `json:"tagIds"`
	Notes       string   `json:"notes" validate:"max=150"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.SantriID = core.CleanString(nr.SantriID)
	nr.Type = core.CleanString(nr.Type, true /* lower */)
	nr.ColorStatus = core.CleanString(nr.ColorStatus)
	nr.TagIDs = core.CleanStrings(nr.TagIDs)
	nr.Notes = core.CleanString(nr.Notes)
	return validate.Struct(nr)
}

// UpdateRecord defines what may change on a DailyRecord; the santri never changes.
type UpdateRecord struct {
	Type        string   `json:"type" validate:"required,record_type"`
	SurahID     int      `json:"surahId" validate:"required,min=1,max=114"`
	AyatStart   int      `json:"ayatStart" validate:"required,min=1"`
	AyatEnd     int      `json:"ayatEnd" validate:"required,gtefield=AyatStart"`
	ColorStatus string   `json:"colorStatus" validate:"required,color_status"`
	TagIDs      []string `json:"tagIds"`
	Notes       string   `json:"notes" validate:"max=150"`
}

func (ur *UpdateRecord) Validate(validate *validator.Validate) error {
	ur.Type = core.CleanString(ur.Type, true /* lower */)
	ur.ColorStatus = core.CleanString(ur.ColorStatus)
	ur.TagIDs = core.CleanStrings(ur.TagIDs)
	ur.Notes = core.CleanString(ur.Notes)
	return validate.Struct(ur)
}

// HistoryEntry is a row of a guru's riwayat.
type HistoryEntry struct {
	ID          string      `json:"id" db:"id" boil:"id"`
	SantriID    string      `json:"santriId" db:"santri_id" boil:"santri_id"`
	SantriName  string      `json:"santriName" db:"santri_name" boil:"santri_name"`
	SantriClass null.String `json:"santriClass" db:"santri_class" boil:"santri_class"`
	GuruID      null.String `json:"-" db:"guru_id" boil:"guru_id"`
	SurahID     int         `json:"surahId" db:"surah_id" boil:"surah_id"`
	SurahName   string      `json:"surahName" db:"surah_name" boil:"surah_name"`
	AyatStart   int         `json:"ayatStart" db:"ayat_start" boil:"ayat_start"`
	AyatEnd     int         `json:"ayatEnd" db:"ayat_end" boil:"ayat_end"`
	ColorStatus string      `json:"colorStatus" db:"color_status" boil:"color_status"`
	Type        string      `json:"type" db:"type" boil:"type"`
	Notes       null.String `json:"notes" db:"notes_text" boil:"notes_text"`
	Tags        []string    `json:"tags" db:"-" boil:"-"`
	Date        string      `json:"date" db:"date" boil:"date"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at" boil:"created_at"`
	CanEdit     bool        `json:"canEdit" db:"-" boil:"-"`
}

// InitValidators registers the setoran validators on `validate`.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(colorStatusTag, func(fl validator.FieldLevel) bool {
		return IsColorStatus(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, colorStatusTag, colorStatusText)

	_ = validate.RegisterValidation(recordTypeTag, func(fl validator.FieldLevel) bool {
		return IsRecordType(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, recordTypeTag, recordTypeText)
}
