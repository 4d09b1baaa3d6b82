package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/simtahfidz/backend/core/kelas"
)

type classRepository struct {
	db *DB
}

var _ kelas.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) *classRepository {
	return &classRepository{db: db}
}

// withCount expects the lock to be held.
func (repo *classRepository) withCount(cls kelas.Class) kelas.Class {
	cls.SantriCount = 0
	for _, s := range repo.db.santri {
		if s.ClassID.Valid && s.ClassID.String == cls.ID {
			cls.SantriCount++
		}
	}
	return cls
}

func (repo *classRepository) CheckNameUniqueness(_ context.Context, name string, excludedIDs ...string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.classes {
		if strings.EqualFold(c.Name, name) && !isExcluded(c.ID, excludedIDs) {
			return kelas.ErrNameExists
		}
	}
	return nil
}

func (repo *classRepository) CreateClass(_ context.Context, cls kelas.Class) (kelas.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, c := range repo.db.classes {
		if strings.EqualFold(c.Name, cls.Name) {
			return kelas.Class{}, kelas.ErrNameExists
		}
	}
	cls.SantriCount = 0
	repo.db.classes[cls.ID] = cls
	return cls, nil
}

func (repo *classRepository) QueryClasses(_ context.Context) ([]kelas.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]kelas.Class, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		classes = append(classes, repo.withCount(c))
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *classRepository) GetClass(_ context.Context, id string) (kelas.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.classes[id]; ok {
		return repo.withCount(c), nil
	}
	return kelas.Class{}, kelas.ErrNotFound
}

func (repo *classRepository) UpdateClass(_ context.Context, cls kelas.Class) (kelas.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.classes[cls.ID]
	if !ok {
		return kelas.Class{}, kelas.ErrNotFound
	}
	orig.Name = cls.Name
	orig.Description = cls.Description
	repo.db.classes[cls.ID] = orig
	return repo.withCount(orig), nil
}

func (repo *classRepository) DeleteClass(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.classes[id]
	if !ok {
		return kelas.ErrNotFound
	}
	if repo.withCount(c).SantriCount > 0 {
		return kelas.ErrClassNotEmpty
	}
	delete(repo.db.classes, id)
	return nil
}
