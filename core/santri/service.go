package santri

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/labstack/gommon/random"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/kelas"
	"github.com/simtahfidz/backend/core/user"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError("santri not found")
	ErrGuruNotFound      = core.NewValidationError(errors.New("guru not found"), core.FieldError{Field: "guruId", Error: "guru not found"})
	ErrClassNotFound     = core.NewValidationError(errors.New("class not found"), core.FieldError{Field: "classId", Error: "class not found"})
	ErrUnknownSantriIDs  = errors.New("some santri do not exist")
	errEmailGenExhausted = errors.New("could not generate a unique santri email")

	slugRegex       = regexp.MustCompile(`[^a-z0-9]+`)
	passwordCharset = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	maxEmailTries   = 5
)

type (
	Repository interface {
		// CreateSantri inserts the user account, its santri role and the profile in one transaction.
		CreateSantri(ctx context.Context, usr user.User, s Santri) (Santri, error)
		QuerySantri(ctx context.Context, filter *QueryFilter) ([]Santri, error)
		GetSantri(ctx context.Context, filter GetFilter) (Santri, error)
		UpdateSantri(ctx context.Context, s Santri) (Santri, error)
		// DeleteSantri removes the profile, its records and its user account in one transaction.
		DeleteSantri(ctx context.Context, id string) error
		// AssignGuru sets assigned_guru_id on every santri in `ids` in one transaction.
		// If any id does not exist nothing is updated and ErrUnknownSantriIDs is returned.
		AssignGuru(ctx context.Context, ids []string, guruID string) (int, error)
	}

	Service struct {
		repo      Repository
		userSvc   user.Service
		classSvc  *kelas.Service
		cache     core.Cache
		publisher core.EventPublisher
		conf      *core.Config
		logger    core.Logger
	}
)

func NewService(
	repo Repository,
	userSvc user.Service,
	classSvc *kelas.Service,
	cache core.Cache,
	publisher core.EventPublisher,
	conf *core.Config,
	logger core.Logger,
) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(userSvc, "userSvc"),
		vala.IsNotNil(classSvc, "classSvc"),
		vala.IsNotNil(cache, "cache"),
		vala.IsNotNil(publisher, "publisher"),
		vala.IsNotNil(conf, "conf"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{
		repo:      repo,
		userSvc:   userSvc,
		classSvc:  classSvc,
		cache:     cache,
		publisher: publisher,
		conf:      conf,
		logger:    logger,
	}
}

func (svc *Service) List(ctx context.Context, filter *QueryFilter) ([]Santri, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QuerySantri(ctx, filter)
}

func (svc *Service) Get(ctx context.Context, id string) (Santri, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Santri{}, ErrNotFound
	}
	return svc.repo.GetSantri(ctx, GetFilter{ID: id})
}

// GetByUserID finds the profile of a santri user account.
func (svc *Service) GetByUserID(ctx context.Context, userID string) (Santri, error) {
	if userID == "" {
		return Santri{}, ErrNotFound
	}
	return svc.repo.GetSantri(ctx, GetFilter{UserID: userID})
}

// ListByGuru returns the santri assigned to `guruID`.
func (svc *Service) ListByGuru(ctx context.Context, guruID string) ([]Santri, error) {
	return svc.repo.QuerySantri(ctx, &QueryFilter{GuruID: guruID})
}

// CheckGuru makes sure `guruID` is a user holding the guru role.
func (svc *Service) CheckGuru(ctx context.Context, guruID string) error {
	usr, err := svc.userSvc.GetByID(ctx, guruID)
	if err != nil {
		if core.IsNotFound(err) {
			return ErrGuruNotFound
		}
		return errors.Wrap(err, "finding guru")
	}
	if !usr.IsGuru() {
		return ErrGuruNotFound
	}
	return nil
}

func (svc *Service) checkClass(ctx context.Context, classID string) error {
	if _, err := svc.classSvc.Get(ctx, classID); err != nil {
		if core.IsNotFound(err) {
			return ErrClassNotFound
		}
		return errors.Wrap(err, "finding class")
	}
	return nil
}

// Create expects a validated NewSantri. It generates the account credentials and returns them once.
func (svc *Service) Create(ctx context.Context, ns NewSantri) (CreatedSantri, error) {
	if ns.ClassID != "" {
		if err := svc.checkClass(ctx, ns.ClassID); err != nil {
			return CreatedSantri{}, err
		}
	}
	if ns.AssignedGuruID != "" {
		if err := svc.CheckGuru(ctx, ns.AssignedGuruID); err != nil {
			return CreatedSantri{}, err
		}
	}

	email, err := svc.generateEmail(ctx, ns.FullName)
	if err != nil {
		return CreatedSantri{}, err
	}
	pwd, err := generatePassword(svc.conf.Santri.PasswordLength)
	if err != nil {
		return CreatedSantri{}, errors.Wrap(err, "generating password")
	}

	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      ns.FullName,
		Email:     email,
		IsActive:  true,
		Roles:     []user.Role{{ID: user.RoleID(user.RoleSantri), Name: user.RoleSantri}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = usr.SetPassword(pwd); err != nil {
		return CreatedSantri{}, errors.Wrap(err, "setting password")
	}

	s, err := svc.repo.CreateSantri(ctx, usr, Santri{
		ID:             uuid.New().String(),
		UserID:         usr.ID,
		FullName:       ns.FullName,
		Email:          email,
		Dob:            null.NewString(ns.Dob, ns.Dob != ""),
		ClassID:        null.NewString(ns.ClassID, ns.ClassID != ""),
		AssignedGuruID: null.NewString(ns.AssignedGuruID, ns.AssignedGuruID != ""),
		CreatedAt:      now,
	})
	if err != nil {
		return CreatedSantri{}, errors.Wrap(err, "creating santri")
	}
	svc.invalidateReports(ctx)

	return CreatedSantri{Santri: s, Credentials: Credentials{Email: email, Password: pwd}}, nil
}

// Update expects a validated UpdateSantri.
func (svc *Service) Update(ctx context.Context, id string, us UpdateSantri) (Santri, error) {
	s, err := svc.Get(ctx, id)
	if err != nil {
		return Santri{}, err
	}

	if us.FullName != nil {
		s.FullName = *us.FullName
	}
	if us.Dob != nil {
		s.Dob = null.NewString(*us.Dob, *us.Dob != "")
	}
	if us.ClassID != nil {
		if *us.ClassID != "" {
			if err = svc.checkClass(ctx, *us.ClassID); err != nil {
				return Santri{}, err
			}
		}
		s.ClassID = null.NewString(*us.ClassID, *us.ClassID != "")
	}
	if us.AssignedGuruID != nil {
		if *us.AssignedGuruID != "" {
			if err = svc.CheckGuru(ctx, *us.AssignedGuruID); err != nil {
				return Santri{}, err
			}
		}
		s.AssignedGuruID = null.NewString(*us.AssignedGuruID, *us.AssignedGuruID != "")
	}

	s, err = svc.repo.UpdateSantri(ctx, s)
	if err != nil {
		return Santri{}, errors.Wrap(err, "updating santri")
	}
	svc.invalidateReports(ctx)
	return s, nil
}

// Delete removes the santri, their records and their account.
func (svc *Service) Delete(ctx context.Context, id string) error {
	s, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteSantri(ctx, s.ID); err != nil {
		return errors.Wrap(err, "deleting santri")
	}
	svc.invalidateReports(ctx)
	return nil
}

// ResetPassword sets a new generated password, revoking every session of the santri.
func (svc *Service) ResetPassword(ctx context.Context, id string) (Credentials, error) {
	s, err := svc.Get(ctx, id)
	if err != nil {
		return Credentials{}, err
	}
	usr, err := svc.userSvc.GetByID(ctx, s.UserID)
	if err != nil {
		return Credentials{}, errors.Wrap(err, "finding santri account")
	}

	pwd, err := generatePassword(svc.conf.Santri.PasswordLength)
	if err != nil {
		return Credentials{}, errors.Wrap(err, "generating password")
	}
	if _, err = svc.userSvc.SetPassword(ctx, usr, pwd); err != nil {
		return Credentials{}, err
	}
	return Credentials{Email: usr.Email, Password: pwd}, nil
}

// AssignGuru maps every santri in `m.SantriIDs` to `m.GuruID`, all or nothing.
func (svc *Service) AssignGuru(ctx context.Context, m Mapping) (int, error) {
	if len(m.SantriIDs) == 0 {
		return 0, core.NewFieldError("santriIds", "at least one santri is required")
	}
	if err := svc.CheckGuru(ctx, m.GuruID); err != nil {
		return 0, err
	}
	for _, id := range m.SantriIDs {
		if _, err := uuid.Parse(id); err != nil {
			return 0, core.NewFieldError("santriIds", ErrUnknownSantriIDs.Error())
		}
	}

	n, err := svc.repo.AssignGuru(ctx, m.SantriIDs, m.GuruID)
	if err != nil {
		if errors.Cause(err) == ErrUnknownSantriIDs {
			return 0, core.NewFieldError("santriIds", ErrUnknownSantriIDs.Error())
		}
		return 0, errors.Wrap(err, "assigning guru")
	}

	svc.invalidateReports(ctx)
	if err = svc.publisher.Publish(ctx, core.EventSantriMapped, map[string]interface{}{
		"guruId":    m.GuruID,
		"santriIds": m.SantriIDs,
	}); err != nil {
		svc.logger.Warn(fmt.Sprintf("publishing %s: %v", core.EventSantriMapped, err), err)
	}
	return n, nil
}

func (svc *Service) invalidateReports(ctx context.Context) {
	if err := svc.cache.Delete(ctx, core.CacheKeyAdminReport, core.CacheKeyAdminStats); err != nil {
		svc.logger.Warn(fmt.Sprintf("invalidating report cache: %v", err), err)
	}
}

// generateEmail builds `<slug>.<4 digits>@<domain>` and retries on collision.
func (svc *Service) generateEmail(ctx context.Context, fullName string) (string, error) {
	slug := Slugify(fullName)
	for i := 0; i < maxEmailTries; i++ {
		email := fmt.Sprintf("%s.%s@%s", slug, random.String(4, random.Numeric), svc.conf.Santri.EmailDomain)
		err := svc.userSvc.CheckUniqueness(ctx, email)
		if err == nil {
			return email, nil
		}
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			return "", err
		}
	}
	return "", errEmailGenExhausted
}

// Slugify lowers `name` and joins its alphanumeric runs with dots.
func Slugify(name string) string {
	slug := strings.Trim(slugRegex.ReplaceAllString(strings.ToLower(name), "."), ".")
	if slug == "" {
		return "santri"
	}
	return slug
}

func generatePassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	max := big.NewInt(int64(len(passwordCharset)))
	pwd := make([]byte, length)
	for i := range pwd {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		pwd[i] = passwordCharset[n.Int64()]
	}
	return string(pwd), nil
}
