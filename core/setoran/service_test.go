package setoran_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/setoran"
	"github.com/simtahfidz/backend/core/tag"
	"github.com/simtahfidz/backend/core/user"
	tu "github.com/simtahfidz/backend/testutil"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	svcs   *tu.Services
	guru   user.User
	other  user.User
	santri santri.Santri
}

func setup(t *testing.T) fixture {
	t.Helper()
	t.Cleanup(setoran.SetNowFunc(func() time.Time { return t0 }))

	svcs := tu.NewServices(tu.NewConfig())
	f := fixture{
		svcs:  svcs,
		guru:  tu.CreateUser(t, svcs.UserRepo, "Ustadz Hasan", "hasan@example.com", tu.Password, user.RoleGuru),
		other: tu.CreateUser(t, svcs.UserRepo, "Ustadz Umar", "umar@example.com", tu.Password, user.RoleGuru),
	}
	created, err := svcs.SantriSvc.Create(context.Background(), santri.NewSantri{
		FullName:       "Ahmad Fauzi",
		AssignedGuruID: f.guru.ID,
	})
	require.NoError(t, err)
	f.santri = created.Santri
	return f
}

func (f fixture) newRecord() setoran.NewRecord {
	return setoran.NewRecord{
		SantriID:    f.santri.ID,
		Type:        setoran.TypeZiyadah,
		SurahID:     1,
		AyatStart:   1,
		AyatEnd:     7,
		ColorStatus: setoran.ColorGreen,
		Notes:       "lancar",
	}
}

func (f fixture) updateRecord() setoran.UpdateRecord {
	return setoran.UpdateRecord{
		Type:        setoran.TypeMurajaah,
		SurahID:     2,
		AyatStart:   1,
		AyatEnd:     5,
		ColorStatus: setoran.ColorYellow,
	}
}

func TestCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tg, err := f.svcs.TagSvc.Create(ctx, tag.NewTag{Category: tag.CategoryTajwid, TagText: "Mad thabi'i"})
	require.NoError(t, err)

	nr := f.newRecord()
	nr.TagIDs = []string{tg.ID}
	rec, err := f.svcs.SetoranSvc.Create(ctx, f.guru.ID, nr)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, f.santri.ID, rec.SantriID)
	assert.Equal(t, f.guru.ID, rec.GuruID.String)
	assert.Equal(t, "2024-03-01", rec.Date)
	assert.Equal(t, 7, rec.AyatCount())
	assert.Equal(t, "lancar", rec.NotesText.String)
	assert.Equal(t, []string{tg.ID}, rec.TagIDs)
	assert.True(t, t0.Equal(rec.CreatedAt))

	assert.Contains(t, f.svcs.Publisher.Keys(), core.EventSetoranCreated)
}

func TestCreateErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		guruID string
		mutate func(nr *setoran.NewRecord)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unknown surah",
			guruID: f.guru.ID,
			mutate: func(nr *setoran.NewRecord) { nr.SurahID = 115 },
			check:  func(t *testing.T, err error) { assert.Equal(t, setoran.ErrSurahNotFound, err) },
		},
		{
			name:   "ayat out of range",
			guruID: f.guru.ID,
			mutate: func(nr *setoran.NewRecord) { nr.AyatEnd = 8 },
			check: func(t *testing.T, err error) {
				vErr, ok := err.(*core.ValidationError)
				require.True(t, ok)
				assert.Equal(t, "ayatEnd", vErr.Fields[0].Field)
			},
		},
		{
			name:   "unknown santri",
			guruID: f.guru.ID,
			mutate: func(nr *setoran.NewRecord) { nr.SantriID = "d4c1c1a4-0000-4000-8000-000000000000" },
			check:  func(t *testing.T, err error) { assert.True(t, core.IsNotFound(err)) },
		},
		{
			name:   "santri of another guru",
			guruID: f.other.ID,
			mutate: func(nr *setoran.NewRecord) {},
			check:  func(t *testing.T, err error) { assert.Equal(t, setoran.ErrNotAssigned, err) },
		},
		{
			name:   "unknown tag",
			guruID: f.guru.ID,
			mutate: func(nr *setoran.NewRecord) { nr.TagIDs = []string{"f00d"} },
			check:  func(t *testing.T, err error) { assert.Equal(t, setoran.ErrTagNotFound, err) },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nr := f.newRecord()
			tc.mutate(&nr)
			_, err := f.svcs.SetoranSvc.Create(ctx, tc.guruID, nr)
			require.Error(t, err)
			tc.check(t, err)
		})
	}

	history, err := f.svcs.SetoranSvc.History(ctx, f.guru.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, f.svcs.Publisher.Events())
}

func TestEditWindow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.svcs.SetoranSvc.Create(ctx, f.guru.ID, f.newRecord())
	require.NoError(t, err)

	// 1ns before the window closes
	setoran.SetNowFunc(func() time.Time { return t0.Add(24*time.Hour - time.Nanosecond) })
	updated, err := f.svcs.SetoranSvc.Update(ctx, f.guru.ID, rec.ID, f.updateRecord())
	require.NoError(t, err)
	assert.Equal(t, setoran.TypeMurajaah, updated.Type)
	assert.Equal(t, 2, updated.SurahID)
	assert.Equal(t, setoran.ColorYellow, updated.ColorStatus)
	assert.False(t, updated.NotesText.Valid)
	assert.Equal(t, rec.SantriID, updated.SantriID)
	assert.True(t, rec.CreatedAt.Equal(updated.CreatedAt))

	history, err := f.svcs.SetoranSvc.History(ctx, f.guru.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].CanEdit)

	// exactly 24h after creation
	setoran.SetNowFunc(func() time.Time { return t0.Add(24 * time.Hour) })
	_, err = f.svcs.SetoranSvc.Update(ctx, f.guru.ID, rec.ID, f.updateRecord())
	assert.Equal(t, setoran.ErrWindowElapsed, err)
	err = f.svcs.SetoranSvc.Delete(ctx, f.guru.ID, rec.ID)
	assert.Equal(t, setoran.ErrWindowElapsed, err)
	assert.True(t, core.IsForbidden(err))

	history, err = f.svcs.SetoranSvc.History(ctx, f.guru.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].CanEdit)
}

func TestModifyOwnership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.svcs.SetoranSvc.Create(ctx, f.guru.ID, f.newRecord())
	require.NoError(t, err)

	_, err = f.svcs.SetoranSvc.Update(ctx, f.other.ID, rec.ID, f.updateRecord())
	assert.Equal(t, setoran.ErrNotOwner, err)
	assert.Equal(t, setoran.ErrNotOwner, f.svcs.SetoranSvc.Delete(ctx, f.other.ID, rec.ID))

	assert.Equal(t, setoran.ErrNotFound, f.svcs.SetoranSvc.Delete(ctx, f.guru.ID, "not-a-uuid"))
	assert.True(t, core.IsNotFound(f.svcs.SetoranSvc.Delete(ctx, f.guru.ID, "d4c1c1a4-0000-4000-8000-000000000000")))

	ur := f.updateRecord()
	ur.AyatEnd = 300
	_, err = f.svcs.SetoranSvc.Update(ctx, f.guru.ID, rec.ID, ur)
	_, ok := err.(*core.ValidationError)
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.svcs.SetoranSvc.Create(ctx, f.guru.ID, f.newRecord())
	require.NoError(t, err)
	require.NoError(t, f.svcs.SetoranSvc.Delete(ctx, f.guru.ID, rec.ID))

	history, err := f.svcs.SetoranSvc.History(ctx, f.guru.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, []string{core.EventSetoranCreated, core.EventSetoranDeleted}, f.svcs.Publisher.Keys())
}

func TestHistoryOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		at := t0.Add(time.Duration(i) * time.Hour)
		setoran.SetNowFunc(func() time.Time { return at })
		nr := f.newRecord()
		nr.AyatEnd = i + 1
		_, err := f.svcs.SetoranSvc.Create(ctx, f.guru.ID, nr)
		require.NoError(t, err)
	}

	history, err := f.svcs.SetoranSvc.History(ctx, f.guru.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, h := range history {
		assert.Equal(t, 3-i, h.AyatEnd)
		assert.Equal(t, "Ahmad Fauzi", h.SantriName)
		assert.Equal(t, []string{}, h.Tags)
	}

	other, err := f.svcs.SetoranSvc.History(ctx, f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, other)
}
