// Package inmemdb implements the core repositories in memory.
// It backs the API tests and the "memory" database engine.
package inmemdb

import (
	"strings"
	"sync"

	"github.com/simtahfidz/backend/core/kelas"
	"github.com/simtahfidz/backend/core/quran"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/setoran"
	"github.com/simtahfidz/backend/core/tag"
	"github.com/simtahfidz/backend/core/user"
)

// DB holds every table behind one lock, so cascades are atomic like a transaction.
type DB struct {
	sync.RWMutex

	users      map[string]user.User // without roles
	roles      map[string]user.Role
	userRoles  map[string]map[string]struct{} // {userID: {roleID}}
	sessions   map[string]user.Session
	classes    map[string]kelas.Class
	surahs     []quran.Surah
	tags       map[string]tag.MasterTag
	santri     map[string]santri.Santri // without joined fields
	records    map[string]setoran.DailyRecord
	recordTags map[string][]string // {recordID: tagIDs}
}

// Open returns a DB seeded with the default roles, classes & the quran reference table.
func Open() *DB {
	db := &DB{
		users:      make(map[string]user.User),
		roles:      make(map[string]user.Role),
		userRoles:  make(map[string]map[string]struct{}),
		sessions:   make(map[string]user.Session),
		classes:    make(map[string]kelas.Class),
		surahs:     quran.Surahs(),
		tags:       make(map[string]tag.MasterTag),
		santri:     make(map[string]santri.Santri),
		records:    make(map[string]setoran.DailyRecord),
		recordTags: make(map[string][]string),
	}
	for _, r := range user.DefaultRoles {
		db.roles[r.ID] = r
	}
	for _, c := range kelas.DefaultClasses() {
		db.classes[c.ID] = c
	}
	return db
}

// withRoles expects the lock to be held.
func (db *DB) withRoles(usr user.User) user.User {
	usr.Roles = make([]user.Role, 0, len(db.userRoles[usr.ID]))
	for roleID := range db.userRoles[usr.ID] {
		if r, ok := db.roles[roleID]; ok {
			usr.Roles = append(usr.Roles, r)
		}
	}
	sortRoles(usr.Roles)
	usr.PasswordHash = append([]byte(nil), usr.PasswordHash...)
	return usr
}

func (db *DB) hasRole(userID, roleID string) bool {
	_, ok := db.userRoles[userID][roleID]
	return ok
}

// santriView fills the joined fields of `s`. Expects the lock to be held.
func (db *DB) santriView(s santri.Santri) santri.Santri {
	if u, ok := db.users[s.UserID]; ok {
		s.Email = u.Email
	}
	s.ClassName.Valid = false
	if s.ClassID.Valid {
		if c, ok := db.classes[s.ClassID.String]; ok {
			s.ClassName.SetValid(c.Name)
		}
	}
	s.GuruName.Valid = false
	if s.AssignedGuruID.Valid {
		if g, ok := db.users[s.AssignedGuruID.String]; ok {
			s.GuruName.SetValid(g.Name)
		}
	}
	return s
}

func (db *DB) surah(id int) quran.Surah {
	if id >= 1 && id <= len(db.surahs) {
		return db.surahs[id-1]
	}
	return quran.Surah{}
}

// tagTexts expects the lock to be held.
func (db *DB) tagTexts(recordID string) []string {
	texts := make([]string, 0, len(db.recordTags[recordID]))
	for _, id := range db.recordTags[recordID] {
		if t, ok := db.tags[id]; ok {
			texts = append(texts, t.TagText)
		}
	}
	sortStrings(texts)
	return texts
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
