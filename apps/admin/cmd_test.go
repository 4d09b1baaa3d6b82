package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/user"
	"github.com/simtahfidz/backend/testutil"
)

func setup(t *testing.T) (*commandLine, *testutil.Services) {
	svcs := testutil.NewServices(testutil.NewConfig())
	validate, _ := testutil.NewValidate()

	return &commandLine{
		validate:  validate,
		usrSvc:    svcs.UserSvc,
		classSvc:  svcs.ClassSvc,
		santriSvc: svcs.SantriSvc,
		guruSvc:   svcs.GuruSvc,
		out:       new(bytes.Buffer),
	}, svcs
}

// mockPasswords answers the password prompts with `pwds`, in order.
func mockPasswords(t *testing.T, pwds ...string) {
	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })

	var i int
	readPasswordFunc = func(fd int) ([]byte, error) {
		if i >= len(pwds) {
			return nil, nil
		}
		i++
		return []byte(pwds[i-1]), nil
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwds       []string
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			mockPasswords(t, tt.pwds...)
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, _ := setup(t)
	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	})
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var gotCommand string
	var gotArgs []string
	orig := runMigrationsFunc
	t.Cleanup(func() { runMigrationsFunc = orig })
	runMigrationsFunc = func(db *sql.DB, command string, args ...string) error {
		gotCommand, gotArgs = command, args
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "status", args: []string{"migrate", "status"}},
	})

	require.NoError(t, cli.run([]string{"admin", "migrate", "up-to", "2"}))
	assert.Equal(t, "up-to", gotCommand)
	assert.Equal(t, []string{"2"}, gotArgs)
}

func Test_commandLine_createAdmin(t *testing.T) {
	cli, svcs := setup(t)
	ctx := context.Background()
	guru := testutil.CreateUser(t, svcs.UserRepo, "Ustadz Hasan", "hasan@example.com", testutil.Password, user.RoleGuru)

	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"createadmin"}, wantErr: errHelp},
		{name: "no password", args: []string{"createadmin", "-email", "admin@example.com"}, wantErr: errHelp},
		{
			name: "passwords mismatch", args: []string{"createadmin", "-email", "admin@example.com"},
			pwds: []string{testutil.Password, "other"}, wantErr: errPasswordMismatch,
		},
		{
			name: "create", args: []string{"createadmin", "-name", "Admin", "-email", "Admin@Example.com"},
			pwds: []string{testutil.Password, testutil.Password},
		},
		{
			name: "promote", args: []string{"createadmin", "-email", "hasan@example.com"},
			pwds: []string{"N3w!Passw0rd#42", "N3w!Passw0rd#42"},
		},
	})

	t.Run("weak password", func(t *testing.T) {
		mockPasswords(t, "lol", "lol")
		err := cli.run([]string{"admin", "createadmin", "-email", "weak@example.com"})
		require.Error(t, err)

		_, err = svcs.UserSvc.GetByEmail(ctx, "weak@example.com")
		assert.True(t, core.IsNotFound(err))
	})

	admin, err := svcs.UserSvc.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Admin", admin.Name)
	assert.True(t, admin.IsAdmin())
	assert.NoError(t, admin.CheckPassword(testutil.Password))

	promoted, err := svcs.UserSvc.GetByID(ctx, guru.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
	assert.True(t, promoted.IsGuru())
	assert.NoError(t, promoted.CheckPassword("N3w!Passw0rd#42"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, svcs := setup(t)
	usr := testutil.CreateUser(t, svcs.UserRepo, "Ustadz Hasan", "hasan@example.com", testutil.Password, user.RoleGuru)

	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@example.com"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@example.com"}, pwds: []string{"lol", "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", " HASAN@example.com"}, pwds: []string{"lmao", "lmao"}},
	})

	refreshed, err := svcs.UserSvc.GetByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(refreshed.PasswordHash, usr.PasswordHash))
	assert.NoError(t, refreshed.CheckPassword("lmao"))
}

func Test_commandLine_seed(t *testing.T) {
	cli, svcs := setup(t)
	ctx := context.Background()

	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"seed"}, wantErr: errHelp},
		{name: "negative count", args: []string{"seed", "-guru", "guru@example.com", "-santri", "-1"}, wantErr: errHelp},
		{
			name: "seed", args: []string{"seed", "-guru", "guru@example.com", "-santri", "3", "-class", "class_8a"},
			pwds: []string{testutil.Password, testutil.Password},
		},
		{
			name: "existing guru", args: []string{"seed", "-guru", "guru@example.com", "-santri", "1"},
			pwds: []string{testutil.Password, testutil.Password},
		},
		{
			name: "unknown class", args: []string{"seed", "-guru", "guru@example.com", "-santri", "1", "-class", "nope"},
			pwds: []string{testutil.Password, testutil.Password}, wantErrStr: "creating Santri Demo 1: class not found",
		},
	})

	g, err := svcs.UserSvc.GetByEmail(ctx, "guru@example.com")
	require.NoError(t, err)
	assert.True(t, g.IsGuru())

	students, err := svcs.SantriSvc.ListByGuru(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, students, 4)

	inClass, err := svcs.SantriSvc.List(ctx, &santri.QueryFilter{ClassID: "class_8a"})
	require.NoError(t, err)
	assert.Len(t, inClass, 3)

	assert.Contains(t, cli.out.(*bytes.Buffer).String(), "Santri Demo 3\t")
}
