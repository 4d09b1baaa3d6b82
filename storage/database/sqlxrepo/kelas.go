package sqlxrepo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/kelas"
)

const classSelect = `SELECT c.id, c.name, c.description, c.created_at,
		(SELECT COUNT(*) FROM santri_profile sp WHERE sp.class_id = c.id) AS santri_count
	FROM class c`

type classRepository struct {
	db core.DB
}

var _ kelas.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db core.DB) *classRepository {
	return &classRepository{db: db}
}

func (repo classRepository) CheckNameUniqueness(ctx context.Context, name string, excludedIDs ...string) error {
	if excludedIDs == nil {
		excludedIDs = []string{}
	}
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM class WHERE lower(name) = lower($1) AND NOT (id = ANY($2)))`
	if err := repo.db.QueryRowxContext(ctx, q, name, pq.Array(excludedIDs)).Scan(&exists); err != nil {
		return errors.Wrap(err, "checking class name uniqueness")
	}
	if exists {
		return kelas.ErrNameExists
	}
	return nil
}

func (repo classRepository) CreateClass(ctx context.Context, cls kelas.Class) (kelas.Class, error) {
	q := `INSERT INTO class (id, name, description, created_at) VALUES (:id, :name, :description, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, cls); err != nil {
		if isUniqueViolation(err) {
			return kelas.Class{}, kelas.ErrNameExists
		}
		return kelas.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo classRepository) QueryClasses(ctx context.Context) ([]kelas.Class, error) {
	classes := make([]kelas.Class, 0)
	if err := sqlx.SelectContext(ctx, repo.db, &classes, classSelect+` ORDER BY c.name`); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (repo classRepository) GetClass(ctx context.Context, id string) (kelas.Class, error) {
	var cls kelas.Class
	if err := sqlx.GetContext(ctx, repo.db, &cls, classSelect+` WHERE c.id = $1`, id); err != nil {
		return kelas.Class{}, trapNoRowsErr(err, kelas.ErrNotFound, "finding class")
	}
	return cls, nil
}

func (repo classRepository) UpdateClass(ctx context.Context, cls kelas.Class) (kelas.Class, error) {
	res, err := sqlx.NamedExecContext(ctx, repo.db, `UPDATE class SET name = :name, description = :description WHERE id = :id`, cls)
	if err != nil {
		if isUniqueViolation(err) {
			return kelas.Class{}, kelas.ErrNameExists
		}
		return kelas.Class{}, errors.Wrap(err, "updating class")
	}
	if rowsAffected(res) == 0 {
		return kelas.Class{}, kelas.ErrNotFound
	}
	return cls, nil
}

func (repo classRepository) DeleteClass(ctx context.Context, id string) error {
	return runInTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		var count int
		// lock the class so no santri can join it meanwhile
		if err := tx.QueryRowxContext(ctx, `SELECT 1 FROM class WHERE id = $1 FOR UPDATE`, id).Scan(&count); err != nil {
			return trapNoRowsErr(err, kelas.ErrNotFound, "locking class")
		}
		if err := tx.QueryRowxContext(ctx, `SELECT COUNT(*) FROM santri_profile WHERE class_id = $1`, id).Scan(&count); err != nil {
			return errors.Wrap(err, "counting class santri")
		}
		if count > 0 {
			return kelas.ErrClassNotEmpty
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM class WHERE id = $1`, id)
		return errors.Wrap(err, "deleting class")
	})
}
