package eventsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtahfidz/backend/core"
	logsvc "github.com/simtahfidz/backend/services/logger"
)

func TestRecordingPublisher(t *testing.T) {
	ctx := context.Background()
	p := NewRecordingPublisher(logsvc.NewNopLogger())

	require.NoError(t, p.Publish(ctx, core.EventSetoranCreated, map[string]string{"id": "1"}))
	require.NoError(t, p.Publish(ctx, core.EventSetoranDeleted, map[string]string{"id": "1"}))

	assert.Equal(t, []string{core.EventSetoranCreated, core.EventSetoranDeleted}, p.Keys())
	assert.Equal(t, map[string]string{"id": "1"}, p.Events()[0].Payload)

	p.Reset()
	assert.Empty(t, p.Events())
	assert.NoError(t, p.Close())
}
