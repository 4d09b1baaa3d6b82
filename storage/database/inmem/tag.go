package inmemdb

import (
	"context"
	"sort"

	"github.com/simtahfidz/backend/core/tag"
)

type tagRepository struct {
	db *DB
}

var _ tag.Repository = (*tagRepository)(nil) // interface compliance check

func NewTagRepository(db *DB) *tagRepository {
	return &tagRepository{db: db}
}

func (repo *tagRepository) CreateTag(_ context.Context, t tag.MasterTag) (tag.MasterTag, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.tags[t.ID] = t
	return t, nil
}

func (repo *tagRepository) QueryTags(_ context.Context, filter *tag.QueryFilter) ([]tag.MasterTag, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tags := make([]tag.MasterTag, 0, len(repo.db.tags))
	for _, t := range repo.db.tags {
		if filter != nil && filter.Category != "" && t.Category != filter.Category {
			continue
		}
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Category != tags[j].Category {
			return tags[i].Category < tags[j].Category
		}
		return tags[i].TagText < tags[j].TagText
	})
	return tags, nil
}

func (repo *tagRepository) QueryTagsByID(_ context.Context, ids []string) ([]tag.MasterTag, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tags := make([]tag.MasterTag, 0, len(ids))
	for _, id := range ids {
		if t, ok := repo.db.tags[id]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (repo *tagRepository) DeleteTag(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.tags[id]; !ok {
		return tag.ErrNotFound
	}
	delete(repo.db.tags, id)
	for rid, ids := range repo.db.recordTags {
		kept := ids[:0]
		for _, tid := range ids {
			if tid != id {
				kept = append(kept, tid)
			}
		}
		repo.db.recordTags[rid] = kept
	}
	return nil
}
