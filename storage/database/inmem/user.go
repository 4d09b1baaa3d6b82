package inmemdb

import (
	"context"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedIDs ...string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Email == email && !isExcluded(usr.ID, excludedIDs) {
			return user.ErrEmailExists
		}
	}
	return nil
}

// createUser expects the write lock to be held.
func (repo *userRepository) createUser(usr user.User) error {
	for _, u := range repo.db.users {
		if u.Email == usr.Email {
			return user.ErrEmailExists
		}
	}
	repo.db.userRoles[usr.ID] = make(map[string]struct{}, len(usr.Roles))
	for _, r := range usr.Roles {
		repo.db.userRoles[usr.ID][r.ID] = struct{}{}
	}
	usr.Roles = nil
	repo.db.users[usr.ID] = usr
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.createUser(usr); err != nil {
		return user.User{}, err
	}
	return repo.db.withRoles(repo.db.users[usr.ID]), nil
}

func (repo *userRepository) QueryUsers(_ context.Context, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]user.User, 0, len(repo.db.users))
	for _, u := range repo.db.users {
		usr := repo.db.withRoles(u)
		if filter != nil {
			if filter.Search != "" && !containsFold(usr.Name, filter.Search) && !containsFold(usr.Email, filter.Search) {
				continue
			}
			if filter.Role != "" && !usr.HasRole(filter.Role) {
				continue
			}
			if filter.Verified != nil && usr.EmailVerified != *filter.Verified {
				continue
			}
		}
		users = append(users, usr)
	}
	sortUsers(users, ordering)
	return users, nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if usr, ok := repo.db.users[filter.ID]; ok {
			return repo.db.withRoles(usr), nil
		}
	case filter.Email != "":
		for _, usr := range repo.db.users {
			if usr.Email == filter.Email {
				return repo.db.withRoles(usr), nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.users[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	for _, u := range repo.db.users {
		if u.Email == usr.Email && u.ID != usr.ID {
			return user.User{}, user.ErrEmailExists
		}
	}
	roles := usr.Roles
	usr.Roles = nil
	repo.db.users[usr.ID] = usr
	usr.Roles = roles
	return usr, nil
}

// deleteUser removes the user with their roles & sessions. Expects the write lock to be held.
func (db *DB) deleteUser(id string) bool {
	if _, ok := db.users[id]; !ok {
		return false
	}
	delete(db.users, id)
	delete(db.userRoles, id)
	for sid, s := range db.sessions {
		if s.UserID == id {
			delete(db.sessions, sid)
		}
	}
	// foreign keys
	for sid, s := range db.santri {
		if s.AssignedGuruID.Valid && s.AssignedGuruID.String == id {
			s.AssignedGuruID.Valid = false
			s.AssignedGuruID.String = ""
			db.santri[sid] = s
		}
		if s.UserID == id {
			db.deleteSantri(sid)
		}
	}
	for rid, r := range db.records {
		if r.GuruID.Valid && r.GuruID.String == id {
			r.GuruID.Valid = false
			r.GuruID.String = ""
			db.records[rid] = r
		}
	}
	return true
}

func (repo *userRepository) DeleteUsersByID(_ context.Context, ids []string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var n int
	for _, id := range ids {
		if repo.db.deleteUser(id) {
			n++
		}
	}
	return n, nil
}

func (repo *userRepository) QueryRoles(_ context.Context) ([]user.Role, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	roles := make([]user.Role, 0, len(repo.db.roles))
	for _, r := range repo.db.roles {
		roles = append(roles, r)
	}
	sortRoles(roles)
	return roles, nil
}

func (repo *userRepository) AddUserRole(_ context.Context, userID, roleID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.roles[roleID]; !ok {
		return user.ErrRoleNotFound
	}
	if _, ok := repo.db.users[userID]; !ok {
		return user.ErrNotFound
	}
	if repo.db.userRoles[userID] == nil {
		repo.db.userRoles[userID] = make(map[string]struct{})
	}
	repo.db.userRoles[userID][roleID] = struct{}{}
	return nil
}

func (repo *userRepository) RemoveUserRole(_ context.Context, userID, roleID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if !repo.db.hasRole(userID, roleID) {
		return user.ErrRoleNotFound
	}
	delete(repo.db.userRoles[userID], roleID)
	return nil
}

func (repo *userRepository) CreateSession(_ context.Context, s user.Session) (user.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.users[s.UserID]; !ok {
		return user.Session{}, user.ErrNotFound
	}
	repo.db.sessions[s.ID] = s
	return s, nil
}

func (repo *userRepository) GetSession(_ context.Context, id string) (user.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.sessions[id]; ok {
		return s, nil
	}
	return user.Session{}, user.ErrSessionNotFound
}

func (repo *userRepository) DeleteSessions(_ context.Context, filter user.SessionFilter) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var n int
	for id, s := range repo.db.sessions {
		if (filter.ID != "" && id == filter.ID) || (filter.ID == "" && filter.UserID != "" && s.UserID == filter.UserID) {
			delete(repo.db.sessions, id)
			n++
		}
	}
	return n, nil
}

func isExcluded(id string, excludedIDs []string) bool {
	for _, ex := range excludedIDs {
		if ex == id {
			return true
		}
	}
	return false
}
