package sqlxrepo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/guru"
	"github.com/simtahfidz/backend/core/user"
)

const guruSelect = `SELECT u.id, u.name, u.email, u.is_active, u.created_at,
		(SELECT COUNT(*) FROM santri_profile sp WHERE sp.assigned_guru_id = u.id) AS santri_count
	FROM "user" u
	JOIN user_role ur ON ur.user_id = u.id AND ur.role_id = $1`

type guruRepository struct {
	db core.DB
}

var _ guru.Repository = (*guruRepository)(nil) // interface compliance check

func NewGuruRepository(db core.DB) *guruRepository {
	return &guruRepository{db: db}
}

func (repo guruRepository) QueryGuru(ctx context.Context) ([]guru.Guru, error) {
	list := make([]guru.Guru, 0)
	if err := sqlx.SelectContext(ctx, repo.db, &list, guruSelect+` ORDER BY u.name`, user.RoleID(user.RoleGuru)); err != nil {
		return nil, errors.Wrap(err, "querying guru")
	}
	return list, nil
}

func (repo guruRepository) GetGuru(ctx context.Context, id string) (guru.Guru, error) {
	var g guru.Guru
	if err := sqlx.GetContext(ctx, repo.db, &g, guruSelect+` WHERE u.id = $2`, user.RoleID(user.RoleGuru), id); err != nil {
		return guru.Guru{}, trapNoRowsErr(err, guru.ErrNotFound, "finding guru")
	}
	return g, nil
}

func (repo guruRepository) DeleteGuru(ctx context.Context, id string) error {
	return runInTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE santri_profile SET assigned_guru_id = NULL WHERE assigned_guru_id = $1`, id); err != nil {
			return errors.Wrap(err, "unassigning santri")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_role WHERE user_id = $1`, id); err != nil {
			return errors.Wrap(err, "deleting guru roles")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM session WHERE user_id = $1`, id); err != nil {
			return errors.Wrap(err, "deleting guru sessions")
		}
		// daily_record.guru_id is set to NULL by the foreign key
		res, err := tx.ExecContext(ctx, `DELETE FROM "user" WHERE id = $1`, id)
		if err != nil {
			return errors.Wrap(err, "deleting guru account")
		}
		if rowsAffected(res) == 0 {
			return guru.ErrNotFound
		}
		return nil
	})
}
