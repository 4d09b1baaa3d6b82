package guru

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/user"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("guru not found")
	ErrCannotDelSelf = core.NewForbiddenError("cannot delete your own account")
)

type (
	Repository interface {
		// QueryGuru lists the users holding the guru role, ordered by name.
		QueryGuru(ctx context.Context) ([]Guru, error)
		GetGuru(ctx context.Context, id string) (Guru, error)
		// DeleteGuru unassigns their santri, then removes their roles, sessions and user row in one transaction.
		// Records they entered are kept with a null guru.
		DeleteGuru(ctx context.Context, id string) error
	}

	Service struct {
		repo      Repository
		userSvc   user.Service
		mailSvc   core.EmailService
		cache     core.Cache
		publisher core.EventPublisher
		conf      *core.Config
		logger    core.Logger
	}
)

func NewService(
	repo Repository,
	userSvc user.Service,
	mailSvc core.EmailService,
	cache core.Cache,
	publisher core.EventPublisher,
	conf *core.Config,
	logger core.Logger,
) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(userSvc, "userSvc"),
		vala.IsNotNil(mailSvc, "mailSvc"),
		vala.IsNotNil(cache, "cache"),
		vala.IsNotNil(publisher, "publisher"),
		vala.IsNotNil(conf, "conf"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{
		repo:      repo,
		userSvc:   userSvc,
		mailSvc:   mailSvc,
		cache:     cache,
		publisher: publisher,
		conf:      conf,
		logger:    logger,
	}
}

func (svc *Service) List(ctx context.Context) ([]Guru, error) {
	return svc.repo.QueryGuru(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (Guru, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Guru{}, ErrNotFound
	}
	return svc.repo.GetGuru(ctx, id)
}

// Create expects a NewUser validated through NewGuru.Validate. The guru is greeted by email.
func (svc *Service) Create(ctx context.Context, nu user.NewUser) (Guru, error) {
	nu.Roles = []string{user.RoleGuru}
	usr, err := svc.userSvc.Create(ctx, nu)
	if err != nil {
		return Guru{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome to " + svc.conf.AppName,
		TemplateName: "welcome_guru",
		TemplateData: map[string]interface{}{
			"Name":  usr.Name,
			"Email": usr.Email,
		},
		FrontendBaseURL: svc.conf.FrontendBaseURL,
	})
	svc.invalidateReports(ctx)

	return Guru{
		ID:        usr.ID,
		Name:      usr.Name,
		Email:     usr.Email,
		IsActive:  usr.IsActive,
		CreatedAt: usr.CreatedAt,
	}, nil
}

// Delete removes the guru account. Their santri become unassigned.
func (svc *Service) Delete(ctx context.Context, ctxUsr user.User, id string) error {
	if ctxUsr.ID == id {
		return ErrCannotDelSelf
	}
	g, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteGuru(ctx, g.ID); err != nil {
		return errors.Wrap(err, "deleting guru")
	}

	svc.invalidateReports(ctx)
	if err = svc.publisher.Publish(ctx, core.EventGuruDeleted, map[string]interface{}{
		"guruId":      g.ID,
		"santriCount": g.SantriCount,
	}); err != nil {
		svc.logger.Warn(fmt.Sprintf("publishing %s: %v", core.EventGuruDeleted, err), err)
	}
	return nil
}

func (svc *Service) invalidateReports(ctx context.Context) {
	if err := svc.cache.Delete(ctx, core.CacheKeyAdminReport, core.CacheKeyAdminStats); err != nil {
		svc.logger.Warn(fmt.Sprintf("invalidating report cache: %v", err), err)
	}
}
