package sqlxrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/user"
)

const userColumns = `id, name, email, email_verified, image, password_hash, is_active, created_at, updated_at, last_login`

// orderable user fields, by their json name
var userOrderingFields = map[string]string{
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type userRow struct {
	ID            string      `db:"id"`
	Name          string      `db:"name"`
	Email         string      `db:"email"`
	EmailVerified bool        `db:"email_verified"`
	Image         null.String `db:"image"`
	PasswordHash  []byte      `db:"password_hash"`
	IsActive      bool        `db:"is_active"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
	LastLogin     null.Time   `db:"last_login"`
}

type userRoleRow struct {
	UserID string `db:"user_id"`
	user.Role
}

type userRepository struct {
	db core.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) boil(usr user.User) userRow {
	return userRow{
		ID:            usr.ID,
		Name:          usr.Name,
		Email:         usr.Email,
		EmailVerified: usr.EmailVerified,
		Image:         null.StringFromPtr(usr.Image),
		PasswordHash:  usr.PasswordHash,
		IsActive:      usr.IsActive,
		CreatedAt:     usr.CreatedAt.UTC(),
		UpdatedAt:     usr.UpdatedAt.UTC(),
		LastLogin:     null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (repo userRepository) unboil(row userRow) user.User {
	return user.User{
		ID:            row.ID,
		Name:          row.Name,
		Email:         row.Email,
		EmailVerified: row.EmailVerified,
		Image:         row.Image.Ptr(),
		PasswordHash:  row.PasswordHash,
		IsActive:      row.IsActive,
		Roles:         []user.Role{},
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
		LastLogin:     row.LastLogin.Time.UTC(),
	}
}

// withRoles loads the roles of `users` in one query.
func (repo userRepository) withRoles(ctx context.Context, exec sqlx.QueryerContext, users []user.User) ([]user.User, error) {
	if len(users) == 0 {
		return users, nil
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var rows []userRoleRow
	q := `SELECT ur.user_id, r.id, r.name, r.description
		FROM user_role ur JOIN role r ON r.id = ur.role_id
		WHERE ur.user_id = ANY($1) ORDER BY r.name`
	if err := sqlx.SelectContext(ctx, exec, &rows, q, pq.Array(ids)); err != nil {
		return nil, errors.Wrap(err, "querying user roles")
	}

	byUser := make(map[string][]user.Role, len(users))
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], r.Role)
	}
	for i := range users {
		if roles, ok := byUser[users[i].ID]; ok {
			users[i].Roles = roles
		}
	}
	return users, nil
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error {
	if excludedIDs == nil {
		excludedIDs = []string{}
	}
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM "user" WHERE email = $1 AND NOT (id::text = ANY($2)))`
	if err := repo.db.QueryRowxContext(ctx, q, email, pq.Array(excludedIDs)).Scan(&exists); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func insertUser(ctx context.Context, tx *sqlx.Tx, row userRow, roles []user.Role) error {
	q := `INSERT INTO "user" (` + userColumns + `)
		VALUES (:id, :name, :email, :email_verified, :image, :password_hash, :is_active, :created_at, :updated_at, :last_login)`
	if _, err := tx.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailExists
		}
		return errors.Wrap(err, "inserting user")
	}
	for _, r := range roles {
		if _, err := tx.ExecContext(ctx, `INSERT INTO user_role (user_id, role_id) VALUES ($1, $2)`, row.ID, r.ID); err != nil {
			return errors.Wrapf(err, "adding role %s", r.Name)
		}
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	err := runInTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		return insertUser(ctx, tx, repo.boil(usr), usr.Roles)
	})
	if err != nil {
		return user.User{}, err
	}
	return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
}

func (repo userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		// users with Name or Email matching the search keyword
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			where = append(where, fmt.Sprintf("(u.name ILIKE %s OR u.email ILIKE %s)", p, p))
		}
		if filter.Role != "" {
			where = append(where, fmt.Sprintf(
				"u.id IN (SELECT ur.user_id FROM user_role ur JOIN role r ON r.id = ur.role_id WHERE r.name = %s)",
				arg(filter.Role)))
		}
		if filter.Verified != nil {
			where = append(where, "u.email_verified = "+arg(*filter.Verified))
		}
	}

	q := `SELECT ` + prefixColumns("u", userColumns) + ` FROM "user" u`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + orderBy(ordering, userOrderingFields, "u.name ASC")

	var rows []userRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}

	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, repo.unboil(r))
	}
	return repo.withRoles(ctx, repo.db, users)
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var (
		row userRow
		err error
	)
	q := `SELECT ` + userColumns + ` FROM "user" WHERE `
	switch {
	case filter.ID != "":
		if _, err = uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		err = sqlx.GetContext(ctx, repo.db, &row, q+"id = $1", filter.ID)
	case filter.Email != "":
		err = sqlx.GetContext(ctx, repo.db, &row, q+"email = $1", filter.Email)
	default:
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user")
	}

	users, err := repo.withRoles(ctx, repo.db, []user.User{repo.unboil(row)})
	if err != nil {
		return user.User{}, err
	}
	return users[0], nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE "user" SET name = :name, email = :email, email_verified = :email_verified, image = :image,
		password_hash = :password_hash, is_active = :is_active, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, repo.boil(usr))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if rowsAffected(res) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids []string) (int, error) {
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM "user" WHERE id IN (`+placeholders(len(ids), 1)+`)`, stringArgs(ids)...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	return rowsAffected(res), nil
}

func (repo userRepository) QueryRoles(ctx context.Context) ([]user.Role, error) {
	var roles []user.Role
	if err := sqlx.SelectContext(ctx, repo.db, &roles, `SELECT id, name, description FROM role ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying roles")
	}
	if roles == nil {
		roles = []user.Role{}
	}
	return roles, nil
}

func (repo userRepository) AddUserRole(ctx context.Context, userID, roleID string) error {
	var exists bool
	if err := repo.db.QueryRowxContext(ctx, `SELECT EXISTS (SELECT 1 FROM role WHERE id = $1)`, roleID).Scan(&exists); err != nil {
		return errors.Wrap(err, "finding role")
	}
	if !exists {
		return user.ErrRoleNotFound
	}
	q := `INSERT INTO user_role (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := repo.db.ExecContext(ctx, q, userID, roleID)
	return errors.Wrap(err, "adding user role")
}

func (repo userRepository) RemoveUserRole(ctx context.Context, userID, roleID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM user_role WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return errors.Wrap(err, "removing user role")
	}
	if rowsAffected(res) == 0 {
		return user.ErrRoleNotFound
	}
	return nil
}

type sessionRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	IPAddress string    `db:"ip_address"`
	UserAgent string    `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
}

func (repo userRepository) CreateSession(ctx context.Context, s user.Session) (user.Session, error) {
	q := `INSERT INTO session (id, user_id, expires_at, ip_address, user_agent, created_at)
		VALUES (:id, :user_id, :expires_at, :ip_address, :user_agent, :created_at)`
	_, err := sqlx.NamedExecContext(ctx, repo.db, q, sessionRow(s))
	if err != nil {
		return user.Session{}, errors.Wrap(err, "inserting session")
	}
	return s, nil
}

func (repo userRepository) GetSession(ctx context.Context, id string) (user.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.Session{}, user.ErrSessionNotFound
	}
	var row sessionRow
	q := `SELECT id, user_id, expires_at, ip_address, user_agent, created_at FROM session WHERE id = $1`
	if err := sqlx.GetContext(ctx, repo.db, &row, q, id); err != nil {
		return user.Session{}, trapNoRowsErr(err, user.ErrSessionNotFound, "finding session")
	}
	return user.Session(row), nil
}

func (repo userRepository) DeleteSessions(ctx context.Context, filter user.SessionFilter) (int, error) {
	var (
		q   string
		arg string
	)
	switch {
	case filter.ID != "":
		q, arg = `DELETE FROM session WHERE id = $1`, filter.ID
	case filter.UserID != "":
		q, arg = `DELETE FROM session WHERE user_id = $1`, filter.UserID
	default:
		return 0, nil
	}
	if _, err := uuid.Parse(arg); err != nil {
		return 0, nil
	}

	res, err := repo.db.ExecContext(ctx, q, arg)
	if err != nil {
		return 0, errors.Wrap(err, "deleting sessions")
	}
	return rowsAffected(res), nil
}

func validUUIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return valid
}

func prefixColumns(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// orderBy renders the ORDER BY list of the known fields in `ordering`, or `fallback`.
func orderBy(ordering []core.DBOrdering, fields map[string]string, fallback string) string {
	list := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if col, ok := fields[ord.Field]; ok {
			list = append(list, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	if len(list) == 0 {
		return fallback
	}
	return strings.Join(list, ", ")
}
