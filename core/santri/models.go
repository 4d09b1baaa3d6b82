package santri

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/simtahfidz/backend/core"
)

// Santri is a student profile, one-to-one with a user account.
type Santri struct {
	ID             string      `json:"id" db:"id" boil:"id"`
	UserID         string      `json:"userId" db:"user_id" boil:"user_id"`
	FullName       string      `json:"fullName" db:"full_name" boil:"full_name"`
	Email          string      `json:"email" db:"email" boil:"email"`
	Dob            null.String `json:"dob" db:"dob" boil:"dob"` // YYYY-MM-DD
	ClassID        null.String `json:"classId" db:"class_id" boil:"class_id"`
	ClassName      null.String `json:"className" db:"class_name" boil:"class_name"`
	AssignedGuruID null.String `json:"assignedGuruId" db:"assigned_guru_id" boil:"assigned_guru_id"`
	GuruName       null.String `json:"guruName" db:"guru_name" boil:"guru_name"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at" boil:"created_at"`
}

// AssignedTo reports whether `guruID` is the santri's teacher.
func (s Santri) AssignedTo(guruID string) bool {
	return s.AssignedGuruID.Valid && s.AssignedGuruID.String == guruID
}

// Credentials are generated by the server and shown to the admin once.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreatedSantri struct {
	Santri      Santri      `json:"santri"`
	Credentials Credentials `json:"credentials"`
}

// NewSantri contains information needed to create a new Santri.
type NewSantri struct {
	FullName       string `json:"fullName" validate:"required,max=100"`
	Dob            string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	ClassID        string `json:"classId"`
	AssignedGuruID string `json:"assignedGuruId"`
}

func (ns *NewSantri) Validate(validate *validator.Validate) error {
	ns.FullName = core.CleanString(ns.FullName)
	ns.Dob = core.CleanString(ns.Dob)
	ns.ClassID = core.CleanString(ns.ClassID)
	ns.AssignedGuruID = core.CleanString(ns.AssignedGuruID)
	return validate.Struct(ns)
}

// UpdateSantri defines what may change on a Santri. A nil field is left as is; an empty string clears it.
type UpdateSantri struct {
	FullName       *string `json:"fullName" validate:"omitempty,min=1,max=100"`
	Dob            *string `json:"dob" validate:"omitempty,datetime=2006-01-02|len=0"`
	ClassID        *string `json:"classId"`
	AssignedGuruID *string `json:"assignedGuruId"`
}

func (us *UpdateSantri) Validate(validate *validator.Validate) error {
	for _, fld := range []*string{us.FullName, us.Dob, us.ClassID, us.AssignedGuruID} {
		if fld != nil {
			*fld = core.CleanString(*fld)
		}
	}
	return validate.Struct(us)
}

// Mapping assigns many santri to one guru.
type Mapping struct {
	SantriIDs []string `json:"santriIds" validate:"required,min=1,dive,required"`
	GuruID    string   `json:"guruId" validate:"required"`
}

func (m *Mapping) Validate(validate *validator.Validate) error {
	m.SantriIDs = core.CleanStrings(m.SantriIDs)
	m.GuruID = core.CleanString(m.GuruID)
	return validate.Struct(m)
}

type GetFilter struct {
	ID     string
	UserID string
}

type QueryFilter struct {
	Search  string `query:"search"`
	ClassID string `query:"classId"`
	GuruID  string `query:"guruId"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.ClassID = core.CleanString(qf.ClassID)
	qf.GuruID = core.CleanString(qf.GuruID)
}
