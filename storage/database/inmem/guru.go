package inmemdb

import (
	"context"
	"sort"

	"github.com/simtahfidz/backend/core/guru"
	"github.com/simtahfidz/backend/core/user"
)

type guruRepository struct {
	db *DB
}

var _ guru.Repository = (*guruRepository)(nil) // interface compliance check

func NewGuruRepository(db *DB) *guruRepository {
	return &guruRepository{db: db}
}

// guru expects the lock to be held.
func (repo *guruRepository) guru(usr user.User) guru.Guru {
	g := guru.Guru{
		ID:        usr.ID,
		Name:      usr.Name,
		Email:     usr.Email,
		IsActive:  usr.IsActive,
		CreatedAt: usr.CreatedAt,
	}
	for _, s := range repo.db.santri {
		if s.AssignedTo(usr.ID) {
			g.SantriCount++
		}
	}
	return g
}

func (repo *guruRepository) QueryGuru(_ context.Context) ([]guru.Guru, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	list := make([]guru.Guru, 0)
	for _, usr := range repo.db.users {
		if repo.db.hasRole(usr.ID, user.RoleID(user.RoleGuru)) {
			list = append(list, repo.guru(usr))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (repo *guruRepository) GetGuru(_ context.Context, id string) (guru.Guru, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	usr, ok := repo.db.users[id]
	if !ok || !repo.db.hasRole(id, user.RoleID(user.RoleGuru)) {
		return guru.Guru{}, guru.ErrNotFound
	}
	return repo.guru(usr), nil
}

func (repo *guruRepository) DeleteGuru(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	// unassigns their santri & keeps their records with a null guru
	if !repo.db.deleteUser(id) {
		return guru.ErrNotFound
	}
	return nil
}
