package quran

import (
	"context"
	"fmt"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
)

var ErrNotFound = core.NewNotFoundError("surah not found")

type (
	Repository interface {
		QuerySurahs(ctx context.Context) ([]Surah, error)
		GetSurah(ctx context.Context, id int) (Surah, error)
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

// List returns the 114 surahs. The table never changes, so it is cached without expiry.
func (svc *Service) List(ctx context.Context) ([]Surah, error) {
	var all []Surah
	err := svc.cache.Get(ctx, core.CacheKeyQuran, &all)
	if err == nil && len(all) > 0 {
		return all, nil
	}
	if err != nil && err != core.ErrCacheMiss {
		svc.logger.Warn(fmt.Sprintf("reading quran cache: %v", err), err)
	}

	all, err = svc.repo.QuerySurahs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying surahs")
	}
	if err = svc.cache.Set(ctx, core.CacheKeyQuran, all, 0); err != nil {
		svc.logger.Warn(fmt.Sprintf("writing quran cache: %v", err), err)
	}
	return all, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Surah, error) {
	if id < 1 || id > SurahCount {
		return Surah{}, ErrNotFound
	}
	return svc.repo.GetSurah(ctx, id)
}
