package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/user"
	emailsvc "github.com/simtahfidz/backend/services/email"
	tu "github.com/simtahfidz/backend/testutil"
)

func TestAuthenticate(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()
	usr := tu.CreateUser(t, svcs.UserRepo, "Admin", "admin@example.com", tu.Password, user.RoleAdmin)

	_, _, err := svcs.UserSvc.Authenticate(ctx, "admin@example.com", "wrong", user.SessionMeta{})
	assert.Equal(t, user.ErrInvalidCredentials, err)
	_, _, err = svcs.UserSvc.Authenticate(ctx, "nobody@example.com", tu.Password, user.SessionMeta{})
	assert.Equal(t, user.ErrInvalidCredentials, err)

	got, sess, err := svcs.UserSvc.Authenticate(ctx, "admin@example.com", tu.Password, user.SessionMeta{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, usr.ID, sess.UserID)
	assert.Equal(t, "127.0.0.1", sess.IPAddress)

	require.NoError(t, svcs.UserSvc.ValidateSession(ctx, sess.ID, usr.ID))
	assert.Error(t, svcs.UserSvc.ValidateSession(ctx, sess.ID, "someone-else"))

	require.NoError(t, svcs.UserSvc.Logout(ctx, sess.ID))
	assert.Error(t, svcs.UserSvc.ValidateSession(ctx, sess.ID, usr.ID))
}

func TestAuthenticateDeactivated(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()
	usr := tu.CreateUser(t, svcs.UserRepo, "Guru", "guru@example.com", tu.Password, user.RoleGuru)

	inactive := false
	_, err := svcs.UserSvc.Update(ctx, usr, user.UpdateUser{Name: usr.Name, Email: usr.Email, IsActive: &inactive})
	require.NoError(t, err)

	_, _, err = svcs.UserSvc.Authenticate(ctx, "guru@example.com", tu.Password, user.SessionMeta{})
	assert.Equal(t, user.ErrAccountDeactivated, err)
}

func TestRevokeSessions(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()
	usr := tu.CreateUser(t, svcs.UserRepo, "Guru", "guru@example.com", tu.Password, user.RoleGuru)

	_, s1, err := svcs.UserSvc.Authenticate(ctx, usr.Email, tu.Password, user.SessionMeta{})
	require.NoError(t, err)
	_, s2, err := svcs.UserSvc.Authenticate(ctx, usr.Email, tu.Password, user.SessionMeta{})
	require.NoError(t, err)

	require.NoError(t, svcs.UserSvc.RevokeSessions(ctx, usr.ID))
	assert.Error(t, svcs.UserSvc.ValidateSession(ctx, s1.ID, usr.ID))
	assert.Error(t, svcs.UserSvc.ValidateSession(ctx, s2.ID, usr.ID))
}

func TestRoles(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()
	admin := tu.CreateUser(t, svcs.UserRepo, "Admin", "admin@example.com", tu.Password, user.RoleAdmin)
	usr := tu.CreateUser(t, svcs.UserRepo, "Budi", "budi@example.com", tu.Password, user.RoleUser)

	roles, err := svcs.UserSvc.QueryRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, len(user.AllRoles))

	usr, err = svcs.UserSvc.AssignRole(ctx, usr.ID, user.RoleID(user.RoleGuru))
	require.NoError(t, err)
	assert.True(t, usr.IsGuru())

	usr, err = svcs.UserSvc.RemoveRole(ctx, admin, usr.ID, user.RoleID(user.RoleGuru))
	require.NoError(t, err)
	assert.False(t, usr.IsGuru())
}

func TestPasswordReset(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()
	usr := tu.CreateUser(t, svcs.UserRepo, "Guru", "guru@example.com", tu.Password, user.RoleGuru)
	emailsvc.ResetSentMessages()

	assert.True(t, core.IsNotFound(svcs.UserSvc.RequestPasswordReset(ctx, "nobody@example.com")))

	require.NoError(t, svcs.UserSvc.RequestPasswordReset(ctx, usr.Email))
	msgs := emailsvc.SentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, usr.Email, msgs[0].To[0].Address)

	data := msgs[0].TemplateData.(map[string]interface{})
	newPwd := "An0ther!Secret#99"
	err := svcs.UserSvc.ResetPassword(ctx, user.ResetUserPassword{
		UID:             data["UID"].(string),
		Token:           data["Token"].(string),
		Password:        newPwd,
		PasswordConfirm: newPwd,
	})
	require.NoError(t, err)

	_, _, err = svcs.UserSvc.Authenticate(ctx, usr.Email, tu.Password, user.SessionMeta{})
	assert.Equal(t, user.ErrInvalidCredentials, err)
	_, _, err = svcs.UserSvc.Authenticate(ctx, usr.Email, newPwd, user.SessionMeta{})
	assert.NoError(t, err)

	// tokens are single use: the password hash changed
	err = svcs.UserSvc.ResetPassword(ctx, user.ResetUserPassword{
		UID:             data["UID"].(string),
		Token:           data["Token"].(string),
		Password:        newPwd,
		PasswordConfirm: newPwd,
	})
	assert.Error(t, err)
}
