package santri_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/user"
	tu "github.com/simtahfidz/backend/testutil"
)

const unknownID = "d4c1c1a4-0000-4000-8000-000000000000"

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Ahmad Fauzi":          "ahmad.fauzi",
		"  Siti   Nur-Aisyah ": "siti.nur.aisyah",
		"Muh. Rizki 2":         "muh.rizki.2",
		"***":                  "santri",
	}
	for name, want := range tests {
		assert.Equal(t, want, santri.Slugify(name), name)
	}
}

func TestCreate(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()
	guru := tu.CreateUser(t, svcs.UserRepo, "Ustadz Hasan", "hasan@example.com", tu.Password, user.RoleGuru)

	created, err := svcs.SantriSvc.Create(ctx, santri.NewSantri{
		FullName:       "Ahmad Fauzi",
		Dob:            "2010-05-17",
		ClassID:        "class_7a",
		AssignedGuruID: guru.ID,
	})
	require.NoError(t, err)

	s := created.Santri
	assert.Equal(t, "Ahmad Fauzi", s.FullName)
	assert.Equal(t, "2010-05-17", s.Dob.String)
	assert.Equal(t, "7A", s.ClassName.String)
	assert.Equal(t, "Ustadz Hasan", s.GuruName.String)
	assert.True(t, s.AssignedTo(guru.ID))

	creds := created.Credentials
	assert.Regexp(t, regexp.MustCompile(`^ahmad\.fauzi\.\d{4}@santri\.test$`), creds.Email)
	assert.Equal(t, creds.Email, s.Email)
	assert.Len(t, creds.Password, 10)

	// the generated credentials open a santri session
	usr, _, err := svcs.UserSvc.Authenticate(ctx, creds.Email, creds.Password, user.SessionMeta{})
	require.NoError(t, err)
	assert.Equal(t, s.UserID, usr.ID)
	assert.True(t, usr.IsSantri())

	byUser, err := svcs.SantriSvc.GetByUserID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, byUser.ID)
}

func TestCreateErrors(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()
	notGuru := tu.CreateUser(t, svcs.UserRepo, "Budi", "budi@example.com", tu.Password, user.RoleUser)

	_, err := svcs.SantriSvc.Create(ctx, santri.NewSantri{FullName: "Ahmad", ClassID: "class_99z"})
	assert.Equal(t, santri.ErrClassNotFound, err)

	_, err = svcs.SantriSvc.Create(ctx, santri.NewSantri{FullName: "Ahmad", AssignedGuruID: notGuru.ID})
	assert.Equal(t, santri.ErrGuruNotFound, err)

	_, err = svcs.SantriSvc.Create(ctx, santri.NewSantri{FullName: "Ahmad", AssignedGuruID: unknownID})
	assert.Equal(t, santri.ErrGuruNotFound, err)

	all, err := svcs.SantriSvc.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdate(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()

	created, err := svcs.SantriSvc.Create(ctx, santri.NewSantri{FullName: "Ahmad", ClassID: "class_7a"})
	require.NoError(t, err)

	name, empty, class := "Ahmad Fauzi", "", "class_8b"
	s, err := svcs.SantriSvc.Update(ctx, created.Santri.ID, santri.UpdateSantri{FullName: &name, ClassID: &class})
	require.NoError(t, err)
	assert.Equal(t, "Ahmad Fauzi", s.FullName)
	assert.Equal(t, "8B", s.ClassName.String)

	s, err = svcs.SantriSvc.Update(ctx, s.ID, santri.UpdateSantri{ClassID: &empty})
	require.NoError(t, err)
	assert.False(t, s.ClassID.Valid)
	assert.Equal(t, "Ahmad Fauzi", s.FullName)

	_, err = svcs.SantriSvc.Update(ctx, unknownID, santri.UpdateSantri{FullName: &name})
	assert.True(t, core.IsNotFound(err))
}

func TestList(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()
	guru := tu.CreateUser(t, svcs.UserRepo, "Ustadz Hasan", "hasan@example.com", tu.Password, user.RoleGuru)

	for _, ns := range []santri.NewSantri{
		{FullName: "Ahmad Fauzi", ClassID: "class_7a", AssignedGuruID: guru.ID},
		{FullName: "Siti Aisyah", ClassID: "class_7a"},
		{FullName: "Umar Faruq", ClassID: "class_10b"},
	} {
		_, err := svcs.SantriSvc.Create(ctx, ns)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter *santri.QueryFilter
		want   []string
	}{
		{"all", nil, []string{"Ahmad Fauzi", "Siti Aisyah", "Umar Faruq"}},
		{"by class", &santri.QueryFilter{ClassID: "class_7a"}, []string{"Ahmad Fauzi", "Siti Aisyah"}},
		{"by guru", &santri.QueryFilter{GuruID: guru.ID}, []string{"Ahmad Fauzi"}},
		{"search", &santri.QueryFilter{Search: " faruq "}, []string{"Umar Faruq"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svcs.SantriSvc.List(ctx, tc.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, s := range got {
				names = append(names, s.FullName)
			}
			assert.Equal(t, tc.want, names)
		})
	}

	binaan, err := svcs.SantriSvc.ListByGuru(ctx, guru.ID)
	require.NoError(t, err)
	require.Len(t, binaan, 1)
	assert.Equal(t, "Ahmad Fauzi", binaan[0].FullName)
}

func TestResetPassword(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()

	created, err := svcs.SantriSvc.Create(ctx, santri.NewSantri{FullName: "Ahmad"})
	require.NoError(t, err)
	_, sess, err := svcs.UserSvc.Authenticate(ctx, created.Credentials.Email, created.Credentials.Password, user.SessionMeta{})
	require.NoError(t, err)

	creds, err := svcs.SantriSvc.ResetPassword(ctx, created.Santri.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Credentials.Email, creds.Email)
	assert.NotEqual(t, created.Credentials.Password, creds.Password)

	// old sessions are revoked, the old password no longer works
	assert.Error(t, svcs.UserSvc.ValidateSession(ctx, sess.ID, created.Santri.UserID))
	_, _, err = svcs.UserSvc.Authenticate(ctx, creds.Email, created.Credentials.Password, user.SessionMeta{})
	assert.Equal(t, user.ErrInvalidCredentials, err)
	_, _, err = svcs.UserSvc.Authenticate(ctx, creds.Email, creds.Password, user.SessionMeta{})
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()

	created, err := svcs.SantriSvc.Create(ctx, santri.NewSantri{FullName: "Ahmad"})
	require.NoError(t, err)
	require.NoError(t, svcs.SantriSvc.Delete(ctx, created.Santri.ID))

	_, err = svcs.SantriSvc.Get(ctx, created.Santri.ID)
	assert.True(t, core.IsNotFound(err))
	_, err = svcs.UserSvc.GetByID(ctx, created.Santri.UserID)
	assert.True(t, core.IsNotFound(err))

	assert.True(t, core.IsNotFound(svcs.SantriSvc.Delete(ctx, created.Santri.ID)))
}

func TestAssignGuru(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()
	guru := tu.CreateUser(t, svcs.UserRepo, "Ustadz Hasan", "hasan@example.com", tu.Password, user.RoleGuru)

	var ids []string
	for _, name := range []string{"Ahmad", "Siti"} {
		created, err := svcs.SantriSvc.Create(ctx, santri.NewSantri{FullName: name})
		require.NoError(t, err)
		ids = append(ids, created.Santri.ID)
	}

	t.Run("all or nothing", func(t *testing.T) {
		_, err := svcs.SantriSvc.AssignGuru(ctx, santri.Mapping{GuruID: guru.ID, SantriIDs: append(ids, unknownID)})
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, "santriIds", vErr.Fields[0].Field)

		binaan, err := svcs.SantriSvc.ListByGuru(ctx, guru.ID)
		require.NoError(t, err)
		assert.Empty(t, binaan)
	})

	t.Run("not a guru", func(t *testing.T) {
		_, err := svcs.SantriSvc.AssignGuru(ctx, santri.Mapping{GuruID: unknownID, SantriIDs: ids})
		assert.Equal(t, santri.ErrGuruNotFound, err)
	})

	t.Run("assigned", func(t *testing.T) {
		n, err := svcs.SantriSvc.AssignGuru(ctx, santri.Mapping{GuruID: guru.ID, SantriIDs: ids})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		binaan, err := svcs.SantriSvc.ListByGuru(ctx, guru.ID)
		require.NoError(t, err)
		assert.Len(t, binaan, 2)
		assert.Contains(t, svcs.Publisher.Keys(), core.EventSantriMapped)
	})
}
