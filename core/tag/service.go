package tag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"

	"github.com/simtahfidz/backend/core"
)

var ErrNotFound = core.NewNotFoundError("tag not found")

type (
	Repository interface {
		CreateTag(ctx context.Context, t MasterTag) (MasterTag, error)
		// QueryTags lists tags ordered by category then text.
		QueryTags(ctx context.Context, filter *QueryFilter) ([]MasterTag, error)
		// QueryTagsByID returns the existing tags among `ids`.
		QueryTagsByID(ctx context.Context, ids []string) ([]MasterTag, error)
		DeleteTag(ctx context.Context, id string) error
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

func (svc *Service) List(ctx context.Context, filter *QueryFilter) ([]MasterTag, error) {
	if filter != nil {
		filter.Category = core.CleanString(filter.Category)
	}
	return svc.repo.QueryTags(ctx, filter)
}

// Create expects a validated NewTag.
func (svc *Service) Create(ctx context.Context, nt NewTag) (MasterTag, error) {
	t, err := svc.repo.CreateTag(ctx, MasterTag{
		ID:        uuid.New().String(),
		Category:  nt.Category,
		TagText:   nt.TagText,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return MasterTag{}, err
	}
	svc.invalidateReports(ctx)
	return t, nil
}

// Delete removes the tag; its links to records go with it.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	if err := svc.repo.DeleteTag(ctx, id); err != nil {
		return err
	}
	svc.invalidateReports(ctx)
	return nil
}

// Missing returns the ids that match no tag.
func (svc *Service) Missing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := svc.repo.QueryTagsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]struct{}, len(found))
	for _, t := range found {
		existing[t.ID] = struct{}{}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
