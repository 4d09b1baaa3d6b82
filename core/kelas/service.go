package kelas

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/simtahfidz/backend/core"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("class not found")
	ErrNameExists    = errors.New("a class with this name already exists")
	ErrClassNotEmpty = core.NewValidationError(errors.New("class still has students assigned"))
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string, excludedIDs ...string) error
		CreateClass(ctx context.Context, cls Class) (Class, error)
		// QueryClasses lists every class ordered by name, with its SantriCount.
		QueryClasses(ctx context.Context) ([]Class, error)
		GetClass(ctx context.Context, id string) (Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)
		// DeleteClass deletes the class unless students remain assigned, in which case ErrClassNotEmpty is returned.
		DeleteClass(ctx context.Context, id string) error
	}

	Service struct {
		repo   Repository
		cache  core.Cache
		logger core.Logger
	}
)

func NewService(repo Repository, cache core.Cache, logger core.Logger) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(cache, "cache"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{repo: repo, cache: cache, logger: logger}
}

func (svc *Service) invalidateReports(ctx context.Context) {
	if err := svc.cache.Delete(ctx, core.CacheKeyAdminReport, core.CacheKeyAdminStats); err != nil {
		svc.logger.Warn(fmt.Sprintf("invalidating report cache: %v", err), err)
	}
}

func (svc *Service) checkUniqueness(ctx context.Context, name string, excludedIDs ...string) error {
	if err := svc.repo.CheckNameUniqueness(ctx, name, excludedIDs...); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewValidationError(ErrNameExists, core.FieldError{Field: "name", Error: ErrNameExists.Error()})
		}
		return errors.Wrap(err, "checking class name uniqueness")
	}
	return nil
}

func (svc *Service) List(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (Class, error) {
	if id == "" {
		return Class{}, ErrNotFound
	}
	return svc.repo.GetClass(ctx, id)
}

// Create expects a validated NewClass.
func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	if err := svc.checkUniqueness(ctx, nc.Name); err != nil {
		return Class{}, err
	}
	cls, err := svc.repo.CreateClass(ctx, Class{
		ID:          uuid.New().String(),
		Name:        nc.Name,
		Description: null.NewString(nc.Description, nc.Description != ""),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return Class{}, err
	}
	svc.invalidateReports(ctx)
	return cls, nil
}

// Update expects a validated NewClass.
func (svc *Service) Update(ctx context.Context, id string, nc NewClass) (Class, error) {
	cls, err := svc.Get(ctx, id)
	if err != nil {
		return Class{}, err
	}
	if err = svc.checkUniqueness(ctx, nc.Name, cls.ID); err != nil {
		return Class{}, err
	}
	cls.Name = nc.Name
	cls.Description = null.NewString(nc.Description, nc.Description != "")
	if cls, err = svc.repo.UpdateClass(ctx, cls); err != nil {
		return Class{}, err
	}
	svc.invalidateReports(ctx)
	return cls, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	cls, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if cls.SantriCount > 0 {
		return ErrClassNotEmpty
	}
	if err = svc.repo.DeleteClass(ctx, cls.ID); err != nil {
		return err
	}
	svc.invalidateReports(ctx)
	return nil
}
