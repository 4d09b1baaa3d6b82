// Package testutil holds the helpers shared by the tests of the other packages.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/setoran"
	"github.com/simtahfidz/backend/core/tag"
	"github.com/simtahfidz/backend/core/user"
	logsvc "github.com/simtahfidz/backend/services/logger"
	"github.com/simtahfidz/backend/storage/database"
)

// Password satisfies the password policy.
const Password = "Str0ng!Pass#2024"

// NewConfig returns the configuration used by tests: in-memory storage, 24h edit window, no side effects.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:                     false,
		TestMode:                  true,
		Env:                       "TEST",
		Build:                     "test",
		AppName:                   "SIM-Tahfidz",
		SecretKey:                 "test-secret-key",
		FrontendBaseURL:           "http://localhost:3000",
		Timezone:                  "Asia/Jakarta",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			Host:                      "localhost",
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Database: core.DatabaseConfig{Engine: database.EngineMemory},
		Santri:   core.SantriConfig{EmailDomain: "santri.test", PasswordLength: 10},
		Setoran:  core.SetoranConfig{EditWindow: 24 * time.Hour},
	}
}

// NewValidate returns a validator with every custom validation registered.
func NewValidate() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	tag.InitValidators(validate, translator)
	setoran.InitValidators(validate, translator)
	user.LoadCommonPasswords(logsvc.NewNopLogger())
	return validate, translator
}

// CreateUser inserts a user holding `roles` straight through the repository.
func CreateUser(t *testing.T, repo user.Repository, name, email, pwd string, roles ...string) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, r := range roles {
		usr.Roles = append(usr.Roles, user.Role{ID: user.RoleID(r), Name: r})
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

// PrepareDB opens and migrates the postgres test database, then empties it.
// The test is skipped when no database is reachable; set ENV=TEST and the TEST_DATABASE_* variables to run it.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	if os.Getenv("ENV") == "" {
		_ = os.Setenv("ENV", "TEST")
	}
	conf := core.NewConfig()
	conf.Database.Engine = "postgres"

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	probe, err := database.Open(conf)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	if err = database.Ping(ctx, probe, 3); err != nil {
		_ = probe.Close()
		t.Skipf("postgres unavailable: %v", err)
	}
	_ = probe.Close()

	db, err := database.Setup(context.Background(), conf)
	if err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ResetDB(t, db)
	return db
}

// ResetDB removes every row created by tests. Seeded roles, classes and quran metadata are kept.
func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()

	stmts := []string{
		`TRUNCATE record_tag, daily_record, santri_profile, session, user_role, "user", master_tag CASCADE`,
		`DELETE FROM class WHERE id NOT LIKE 'class\_%'`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("ResetDB(): %v", err)
		}
	}
}
