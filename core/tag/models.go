package tag

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/simtahfidz/backend/core"
)

// Categories
const (
	CategoryMakhraj    = "Makhraj"
	CategoryTajwid     = "Tajwid"
	CategoryKelancaran = "Kelancaran"
	CategoryLagu       = "Lagu"
	CategoryUmum       = "Umum"
)

var (
	Categories = []string{CategoryMakhraj, CategoryTajwid, CategoryKelancaran, CategoryLagu, CategoryUmum}

	categoryTag  = "tag_category"
	categoryText = "category must be one of Makhraj, Tajwid, Kelancaran, Lagu or Umum"
)

// MasterTag is a reusable error-tag attached to setoran records.
type MasterTag struct {
	ID        string    `json:"id" db:"id" boil:"id"`
	Category  string    `json:"category" db:"category" boil:"category"`
	TagText   string    `json:"tagText" db:"tag_text" boil:"tag_text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" boil:"created_at"`
}

type NewTag struct {
	Category string `json:"category" validate:"required,tag_category"`
	TagText  string `json:"tagText" validate:"required,max=100"`
}

func (nt *NewTag) Validate(validate *validator.Validate) error {
	nt.Category = core.CleanString(nt.Category)
	nt.TagText = core.CleanString(nt.TagText)
	return validate.Struct(nt)
}

type QueryFilter struct {
	Category string `query:"category"`
}

func IsCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// InitValidators registers the tag validators on `validate`.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(categoryTag, func(fl validator.FieldLevel) bool {
		return IsCategory(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, categoryTag, categoryText)
}
