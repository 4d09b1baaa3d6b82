package guru

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/user"
)

// Guru is a user holding the guru role, with the number of santri assigned to them.
type Guru struct {
	ID          string    `json:"id" db:"id" boil:"id"`
	Name        string    `json:"name" db:"name" boil:"name"`
	Email       string    `json:"email" db:"email" boil:"email"`
	IsActive    bool      `json:"isActive" db:"is_active" boil:"is_active"`
	SantriCount int       `json:"santriCount" db:"santri_count" boil:"santri_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" boil:"created_at"`
}

// NewGuru contains information needed to create a guru account.
type NewGuru struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"omitempty,eqfield=Password"`
}

// Validate runs the user rules (email uniqueness, password policy) on a guru account.
func (ng *NewGuru) Validate(ctx context.Context, validate *validator.Validate, userSvc user.Service) (user.NewUser, error) {
	ng.Name = core.CleanString(ng.Name)
	ng.Email = core.CleanString(ng.Email, true)
	if err := validate.Struct(ng); err != nil {
		return user.NewUser{}, err
	}
	nu := user.NewUser{
		Name:            ng.Name,
		Email:           ng.Email,
		Password:        ng.Password,
		PasswordConfirm: ng.PasswordConfirm,
		Roles:           []string{user.RoleGuru},
	}
	if err := nu.Validate(ctx, validate, userSvc); err != nil {
		return user.NewUser{}, err
	}
	return nu, nil
}
