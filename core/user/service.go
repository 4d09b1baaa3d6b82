package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
)

var (
	// errors
	ErrNotFound             = core.NewNotFoundError("user not found")
	ErrRoleNotFound         = core.NewNotFoundError("role not found")
	ErrEmailExists          = errors.New("a user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountDeactivated   = errors.New("account deactivated")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrInvalidResetToken    = core.NewValidationError(errors.New("invalid password reset token"))
	ErrCannotRemoveOwnAdmin = core.NewForbiddenError("cannot remove your own admin role")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		// QueryUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name or User.Email.
		QueryUsers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error)
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUsersByID(ctx context.Context, ids []string) (int, error)

		QueryRoles(ctx context.Context) ([]Role, error)
		AddUserRole(ctx context.Context, userID, roleID string) error
		RemoveUserRole(ctx context.Context, userID, roleID string) error

		CreateSession(ctx context.Context, s Session) (Session, error)
		GetSession(ctx context.Context, id string) (Session, error)
		DeleteSessions(ctx context.Context, filter SessionFilter) (int, error)
	}

	Service interface {
		CheckUniqueness(ctx context.Context, email string, excludedIDs ...string) error
		Create(ctx context.Context, nu NewUser) (User, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Update(ctx context.Context, usr User, uu UpdateUser) (User, error)
		SetPassword(ctx context.Context, usr User, pwd string) (User, error)
		Delete(ctx context.Context, ids ...string) error

		QueryRoles(ctx context.Context) ([]Role, error)
		AssignRole(ctx context.Context, userID, roleID string) (User, error)
		RemoveRole(ctx context.Context, ctxUsr User, userID, roleID string) (User, error)

		Authenticate(ctx context.Context, email, pwd string, meta SessionMeta) (User, Session, error)
		ValidateSession(ctx context.Context, sessionID, userID string) error
		Logout(ctx context.Context, sessionID string) error
		RevokeSessions(ctx context.Context, userID string) error

		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, data ResetUserPassword) error
	}

	// SessionMeta describes the client signing in.
	SessionMeta struct {
		IPAddress string
		UserAgent string
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		cache   core.Cache
		conf    *core.Config
		logger  core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, cache core.Cache, conf *core.Config, logger core.Logger) Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(mailSvc, "mailSvc"),
		vala.IsNotNil(cache, "cache"),
		vala.IsNotNil(conf, "conf"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		cache:   cache,
		conf:    conf,
		logger:  logger,
	}
}

func (svc *service) CheckUniqueness(ctx context.Context, email string, excludedIDs ...string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, excludedIDs...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return errors.Wrap(err, "checking email uniqueness")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Email:     nu.Email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, name := range core.CleanStrings(nu.Roles) {
		usr.Roles = append(usr.Roles, Role{ID: RoleID(name), Name: name})
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	return svc.repo.QueryUsers(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, ErrNotFound
	}
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	email = core.CleanString(email, true /* lower */)
	if email == "" {
		return User{}, ErrNotFound
	}
	return svc.repo.GetUser(ctx, GetFilter{Email: email})
}

func (svc *service) Update(ctx context.Context, usr User, uu UpdateUser) (User, error) {
	usr.Name = uu.Name
	usr.Email = uu.Email
	if uu.IsActive != nil {
		usr.IsActive = *uu.IsActive
	}
	usr.UpdatedAt = time.Now().UTC()

	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "setting password")
		}
	}
	usr, err := svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	// names show up in the admin report
	svc.invalidateReports(ctx)
	return usr, nil
}

// SetPassword replaces the credential of `usr` and signs them out everywhere.
func (svc *service) SetPassword(ctx context.Context, usr User, pwd string) (User, error) {
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	usr.UpdatedAt = time.Now().UTC()

	usr, err := svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "updating user")
	}
	if err = svc.RevokeSessions(ctx, usr.ID); err != nil {
		return User{}, err
	}
	return usr, nil
}

func (svc *service) setLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := svc.repo.DeleteUsersByID(ctx, ids); err != nil {
		return err
	}
	svc.invalidateReports(ctx)
	return nil
}

// invalidateReports drops the cached admin report & stats, which count gurus and show user names.
func (svc *service) invalidateReports(ctx context.Context) {
	if err := svc.cache.Delete(ctx, core.CacheKeyAdminReport, core.CacheKeyAdminStats); err != nil {
		svc.logger.Warn(fmt.Sprintf("invalidating report cache: %v", err), err)
	}
}

func (svc *service) QueryRoles(ctx context.Context) ([]Role, error) {
	return svc.repo.QueryRoles(ctx)
}

func (svc *service) AssignRole(ctx context.Context, userID, roleID string) (User, error) {
	usr, err := svc.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if err = svc.repo.AddUserRole(ctx, usr.ID, roleID); err != nil {
		return User{}, err
	}
	svc.invalidateReports(ctx)
	return svc.GetByID(ctx, usr.ID)
}

func (svc *service) RemoveRole(ctx context.Context, ctxUsr User, userID, roleID string) (User, error) {
	usr, err := svc.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if usr.ID == ctxUsr.ID && roleID == RoleID(RoleAdmin) {
		return User{}, ErrCannotRemoveOwnAdmin
	}
	if err = svc.repo.RemoveUserRole(ctx, usr.ID, roleID); err != nil {
		return User{}, err
	}
	svc.invalidateReports(ctx)
	return svc.GetByID(ctx, usr.ID)
}

// Authenticate checks the credentials and opens a new Session.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (svc *service) Authenticate(ctx context.Context, email, pwd string, meta SessionMeta) (User, Session, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, Session{}, ErrInvalidCredentials
		}
		return User{}, Session{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, Session{}, ErrInvalidCredentials
	}
	if !usr.IsActive {
		return User{}, Session{}, ErrAccountDeactivated
	}

	usr, err = svc.setLastLogin(ctx, usr)
	if err != nil {
		return User{}, Session{}, errors.Wrap(err, "setting lastLogin")
	}

	now := time.Now().UTC()
	sess, err := svc.repo.CreateSession(ctx, Session{
		ID:        uuid.New().String(),
		UserID:    usr.ID,
		ExpiresAt: now.Add(svc.conf.Server.JWTRefreshExpirationDelta),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
	})
	if err != nil {
		return User{}, Session{}, errors.Wrap(err, "creating session")
	}
	return usr, sess, nil
}

func (svc *service) ValidateSession(ctx context.Context, sessionID, userID string) error {
	sess, err := svc.repo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.UserID != userID {
		return ErrSessionNotFound
	}
	if sess.IsExpired(time.Now()) {
		return ErrSessionExpired
	}
	return nil
}

func (svc *service) Logout(ctx context.Context, sessionID string) error {
	_, err := svc.repo.DeleteSessions(ctx, SessionFilter{ID: sessionID})
	return errors.Wrap(err, "deleting session")
}

func (svc *service) RevokeSessions(ctx context.Context, userID string) error {
	_, err := svc.repo.DeleteSessions(ctx, SessionFilter{UserID: userID})
	return errors.Wrap(err, "deleting user sessions")
}

func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.IsActive {
		return ErrNotFound
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) sendPasswordResetMail(usr User) {
	token, err := makeToken(usr, svc.conf.SecretKey)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("making password reset token: %v", err), err, usr)
		return
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: map[string]interface{}{
			"Email": usr.Email,
			"UID":   EncodeUID(usr),
			"Token": token,
		},
		FrontendBaseURL: svc.conf.FrontendBaseURL,
	})
}

func (svc *service) ResetPassword(ctx context.Context, data ResetUserPassword) error {
	uid, err := decodeUID(data.UID)
	if err != nil {
		return ErrInvalidResetToken
	}
	usr, err := svc.GetByID(ctx, uid)
	if err != nil {
		if core.IsNotFound(err) {
			return ErrInvalidResetToken
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err = verifyToken(usr, data.Token, svc.conf.SecretKey, svc.conf.PasswordResetTimeoutDelta); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "token", Error: err.Error()})
	}

	_, err = svc.SetPassword(ctx, usr, data.Password)
	return err
}
