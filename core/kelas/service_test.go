package kelas_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/kelas"
	"github.com/simtahfidz/backend/core/santri"
	tu "github.com/simtahfidz/backend/testutil"
)

func TestDefaultClasses(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())

	classes, err := svcs.ClassSvc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 18)
	assert.Equal(t, "10A", classes[0].Name) // ordered by name
}

func TestCreateUpdate(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()

	cls, err := svcs.ClassSvc.Create(ctx, kelas.NewClass{Name: "Tahfidz Intensif", Description: "Program 30 juz"})
	require.NoError(t, err)
	assert.Equal(t, "Program 30 juz", cls.Description.String)

	_, err = svcs.ClassSvc.Create(ctx, kelas.NewClass{Name: "7A"})
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, "name", vErr.Fields[0].Field)

	cls, err = svcs.ClassSvc.Update(ctx, cls.ID, kelas.NewClass{Name: "Tahfidz Khusus"})
	require.NoError(t, err)
	assert.Equal(t, "Tahfidz Khusus", cls.Name)
	assert.False(t, cls.Description.Valid)

	// keeping its own name is fine
	_, err = svcs.ClassSvc.Update(ctx, cls.ID, kelas.NewClass{Name: "Tahfidz Khusus"})
	assert.NoError(t, err)

	_, err = svcs.ClassSvc.Update(ctx, "class_unknown", kelas.NewClass{Name: "X"})
	assert.True(t, core.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	svcs := tu.NewServices(tu.NewConfig())
	ctx := context.Background()

	created, err := svcs.SantriSvc.Create(ctx, santri.NewSantri{FullName: "Ahmad", ClassID: "class_9c"})
	require.NoError(t, err)

	cls, err := svcs.ClassSvc.Get(ctx, "class_9c")
	require.NoError(t, err)
	assert.Equal(t, 1, cls.SantriCount)

	assert.Equal(t, kelas.ErrClassNotEmpty, svcs.ClassSvc.Delete(ctx, "class_9c"))

	require.NoError(t, svcs.SantriSvc.Delete(ctx, created.Santri.ID))
	require.NoError(t, svcs.ClassSvc.Delete(ctx, "class_9c"))

	_, err = svcs.ClassSvc.Get(ctx, "class_9c")
	assert.True(t, core.IsNotFound(err))
}
