package sqlxrepo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/tag"
)

type tagRepository struct {
	db core.DB
}

var _ tag.Repository = (*tagRepository)(nil) // interface compliance check

func NewTagRepository(db core.DB) *tagRepository {
	return &tagRepository{db: db}
}

func (repo tagRepository) CreateTag(ctx context.Context, t tag.MasterTag) (tag.MasterTag, error) {
	q := `INSERT INTO master_tag (id, category, tag_text, created_at) VALUES (:id, :category, :tag_text, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, t); err != nil {
		return tag.MasterTag{}, errors.Wrap(err, "inserting tag")
	}
	return t, nil
}

func (repo tagRepository) QueryTags(ctx context.Context, filter *tag.QueryFilter) ([]tag.MasterTag, error) {
	var args []interface{}
	q := `SELECT id, category, tag_text, created_at FROM master_tag`
	if filter != nil && filter.Category != "" {
		q += ` WHERE category = $1`
		args = append(args, filter.Category)
	}
	q += ` ORDER BY category, tag_text`

	tags := make([]tag.MasterTag, 0)
	if err := sqlx.SelectContext(ctx, repo.db, &tags, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying tags")
	}
	return tags, nil
}

func (repo tagRepository) QueryTagsByID(ctx context.Context, ids []string) ([]tag.MasterTag, error) {
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return []tag.MasterTag{}, nil
	}
	tags := make([]tag.MasterTag, 0, len(ids))
	q := `SELECT id, category, tag_text, created_at FROM master_tag WHERE id IN (` + placeholders(len(ids), 1) + `)`
	if err := sqlx.SelectContext(ctx, repo.db, &tags, q, stringArgs(ids)...); err != nil {
		return nil, errors.Wrap(err, "querying tags by ID")
	}
	return tags, nil
}

func (repo tagRepository) DeleteTag(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM master_tag WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting tag")
	}
	if rowsAffected(res) == 0 {
		return tag.ErrNotFound
	}
	return nil
}
