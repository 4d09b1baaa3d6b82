package kelas

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/simtahfidz/backend/core"
)

type Class struct {
	ID          string      `json:"id" db:"id" boil:"id"`
	Name        string      `json:"name" db:"name" boil:"name"`
	Description null.String `json:"description" db:"description" boil:"description"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at" boil:"created_at"`
	SantriCount int         `json:"santriCount" db:"santri_count" boil:"santri_count"`
}

// DefaultClasses are the classes 7A to 12C seeded at start.
func DefaultClasses() []Class {
	classes := make([]Class, 0, 18)
	for grade := 7; grade <= 12; grade++ {
		level := "SMP"
		if grade >= 10 {
			level = "SMA"
		}
		for _, sec := range []string{"A", "B", "C"} {
			name := fmt.Sprintf("%d%s", grade, sec)
			classes = append(classes, Class{
				ID:          "class_" + strings.ToLower(name),
				Name:        name,
				Description: null.StringFrom(fmt.Sprintf("Kelas %s %s", name, level)),
			})
		}
	}
	return classes
}

// NewClass contains information needed to create or update a Class.
type NewClass struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=255"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}
