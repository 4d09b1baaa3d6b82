package inmemdb

import (
	"context"
	"sort"

	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/user"
)

type santriRepository struct {
	db *DB
}

var _ santri.Repository = (*santriRepository)(nil) // interface compliance check

func NewSantriRepository(db *DB) *santriRepository {
	return &santriRepository{db: db}
}

func (repo *santriRepository) CreateSantri(_ context.Context, usr user.User, s santri.Santri) (santri.Santri, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := (&userRepository{db: repo.db}).createUser(usr); err != nil {
		return santri.Santri{}, err
	}
	s.UserID = usr.ID
	repo.db.santri[s.ID] = s
	return repo.db.santriView(s), nil
}

func (repo *santriRepository) QuerySantri(_ context.Context, filter *santri.QueryFilter) ([]santri.Santri, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	list := make([]santri.Santri, 0, len(repo.db.santri))
	for _, s := range repo.db.santri {
		s = repo.db.santriView(s)
		if filter != nil {
			if filter.Search != "" && !containsFold(s.FullName, filter.Search) && !containsFold(s.Email, filter.Search) {
				continue
			}
			if filter.ClassID != "" && s.ClassID.String != filter.ClassID {
				continue
			}
			if filter.GuruID != "" && !s.AssignedTo(filter.GuruID) {
				continue
			}
		}
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].FullName < list[j].FullName })
	return list, nil
}

func (repo *santriRepository) GetSantri(_ context.Context, filter santri.GetFilter) (santri.Santri, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if s, ok := repo.db.santri[filter.ID]; ok {
			return repo.db.santriView(s), nil
		}
	case filter.UserID != "":
		for _, s := range repo.db.santri {
			if s.UserID == filter.UserID {
				return repo.db.santriView(s), nil
			}
		}
	}
	return santri.Santri{}, santri.ErrNotFound
}

func (repo *santriRepository) UpdateSantri(_ context.Context, s santri.Santri) (santri.Santri, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.santri[s.ID]
	if !ok {
		return santri.Santri{}, santri.ErrNotFound
	}
	orig.FullName = s.FullName
	orig.Dob = s.Dob
	orig.ClassID = s.ClassID
	orig.AssignedGuruID = s.AssignedGuruID
	repo.db.santri[s.ID] = orig

	if usr, ok := repo.db.users[orig.UserID]; ok {
		usr.Name = orig.FullName
		repo.db.users[usr.ID] = usr
	}
	return repo.db.santriView(orig), nil
}

// deleteSantri removes the profile & its records. Expects the write lock to be held.
func (db *DB) deleteSantri(id string) {
	for rid, r := range db.records {
		if r.SantriID == id {
			delete(db.records, rid)
			delete(db.recordTags, rid)
		}
	}
	delete(db.santri, id)
}

func (repo *santriRepository) DeleteSantri(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.santri[id]
	if !ok {
		return santri.ErrNotFound
	}
	repo.db.deleteSantri(id)
	repo.db.deleteUser(s.UserID)
	return nil
}

func (repo *santriRepository) AssignGuru(_ context.Context, ids []string, guruID string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	uniq := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := repo.db.santri[id]; !ok {
			return 0, santri.ErrUnknownSantriIDs
		}
		uniq[id] = struct{}{}
	}
	for id := range uniq {
		s := repo.db.santri[id]
		s.AssignedGuruID.SetValid(guruID)
		repo.db.santri[id] = s
	}
	return len(uniq), nil
}
