package sqlxrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/user"
)

const santriSelect = `SELECT sp.id, sp.user_id, sp.full_name, u.email, to_char(sp.dob, 'YYYY-MM-DD') AS dob,
		sp.class_id, c.name AS class_name, sp.assigned_guru_id, g.name AS guru_name, sp.created_at
	FROM santri_profile sp
	JOIN "user" u ON u.id = sp.user_id
	LEFT JOIN class c ON c.id = sp.class_id
	LEFT JOIN "user" g ON g.id = sp.assigned_guru_id`

type santriRepository struct {
	db core.DB
}

var _ santri.Repository = (*santriRepository)(nil) // interface compliance check

func NewSantriRepository(db core.DB) *santriRepository {
	return &santriRepository{db: db}
}

func (repo santriRepository) CreateSantri(ctx context.Context, usr user.User, s santri.Santri) (santri.Santri, error) {
	err := runInTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, NewUserRepository(repo.db).boil(usr), usr.Roles); err != nil {
			return err
		}
		q := `INSERT INTO santri_profile (id, user_id, full_name, dob, class_id, assigned_guru_id, created_at)
			VALUES (:id, :user_id, :full_name, :dob, :class_id, :assigned_guru_id, :created_at)`
		_, err := tx.NamedExecContext(ctx, q, s)
		return errors.Wrap(err, "inserting santri profile")
	})
	if err != nil {
		return santri.Santri{}, err
	}
	return repo.GetSantri(ctx, santri.GetFilter{ID: s.ID})
}

func (repo santriRepository) QuerySantri(ctx context.Context, filter *santri.QueryFilter) ([]santri.Santri, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			where = append(where, fmt.Sprintf("(sp.full_name ILIKE %s OR u.email ILIKE %s)", p, p))
		}
		if filter.ClassID != "" {
			where = append(where, "sp.class_id = "+arg(filter.ClassID))
		}
		if filter.GuruID != "" {
			if _, err := uuid.Parse(filter.GuruID); err != nil {
				return []santri.Santri{}, nil
			}
			where = append(where, "sp.assigned_guru_id = "+arg(filter.GuruID))
		}
	}

	q := santriSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sp.full_name"

	list := make([]santri.Santri, 0)
	if err := sqlx.SelectContext(ctx, repo.db, &list, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying santri")
	}
	return list, nil
}

func (repo santriRepository) GetSantri(ctx context.Context, filter santri.GetFilter) (santri.Santri, error) {
	var col, val string
	switch {
	case filter.ID != "":
		col, val = "sp.id", filter.ID
	case filter.UserID != "":
		col, val = "sp.user_id", filter.UserID
	default:
		return santri.Santri{}, santri.ErrNotFound
	}
	if _, err := uuid.Parse(val); err != nil {
		return santri.Santri{}, santri.ErrNotFound
	}

	var s santri.Santri
	if err := sqlx.GetContext(ctx, repo.db, &s, santriSelect+" WHERE "+col+" = $1", val); err != nil {
		return santri.Santri{}, trapNoRowsErr(err, santri.ErrNotFound, "finding santri")
	}
	return s, nil
}

func (repo santriRepository) UpdateSantri(ctx context.Context, s santri.Santri) (santri.Santri, error) {
	err := runInTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `UPDATE santri_profile SET full_name = :full_name, dob = :dob, class_id = :class_id,
			assigned_guru_id = :assigned_guru_id WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, q, s)
		if err != nil {
			return errors.Wrap(err, "updating santri profile")
		}
		if rowsAffected(res) == 0 {
			return santri.ErrNotFound
		}
		// the account name follows the profile
		_, err = tx.ExecContext(ctx, `UPDATE "user" SET name = $1, updated_at = NOW() WHERE id = $2`, s.FullName, s.UserID)
		return errors.Wrap(err, "updating santri account")
	})
	if err != nil {
		return santri.Santri{}, err
	}
	return repo.GetSantri(ctx, santri.GetFilter{ID: s.ID})
}

func (repo santriRepository) DeleteSantri(ctx context.Context, id string) error {
	return runInTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		var userID string
		if err := tx.QueryRowxContext(ctx, `SELECT user_id FROM santri_profile WHERE id = $1 FOR UPDATE`, id).Scan(&userID); err != nil {
			return trapNoRowsErr(err, santri.ErrNotFound, "locking santri profile")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM daily_record WHERE santri_id = $1`, id); err != nil {
			return errors.Wrap(err, "deleting santri records")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM santri_profile WHERE id = $1`, id); err != nil {
			return errors.Wrap(err, "deleting santri profile")
		}
		// roles and sessions cascade
		_, err := tx.ExecContext(ctx, `DELETE FROM "user" WHERE id = $1`, userID)
		return errors.Wrap(err, "deleting santri account")
	})
}

func (repo santriRepository) AssignGuru(ctx context.Context, ids []string, guruID string) (int, error) {
	uniq := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		uniq[id] = struct{}{}
	}

	var n int
	err := runInTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		args := append([]interface{}{guruID}, stringArgs(ids)...)
		q := `UPDATE santri_profile SET assigned_guru_id = $1 WHERE id IN (` + placeholders(len(ids), 2) + `)`
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return errors.Wrap(err, "assigning guru")
		}
		if n = rowsAffected(res); n != len(uniq) {
			return santri.ErrUnknownSantriIDs // rolls back
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
