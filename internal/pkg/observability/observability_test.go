package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetup_WithoutEndpoint(t *testing.T) {
	telemetry, err := Setup(t.Context(), Config{ServiceName: "fulfillment", Level: zapcore.WarnLevel})

	require.NoError(t, err)
	require.NotNil(t, telemetry.Logger)
	assert.Empty(t, telemetry.shutdownFuncs)
	assert.False(t, telemetry.Logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, telemetry.Logger.Core().Enabled(zapcore.WarnLevel))
	assert.NoError(t, telemetry.Shutdown(context.Background()))
}

func TestSetup_WithEndpoint(t *testing.T) {
	telemetry, err := Setup(t.Context(), Config{
		ServiceName:    "fulfillment",
		ServiceVersion: "test",
		OtelEndpoint:   "localhost:4318",
		Level:          zapcore.InfoLevel,
	})

	require.NoError(t, err)
	require.NotNil(t, telemetry.Logger)
	assert.Len(t, telemetry.shutdownFuncs, 2)

	// nothing was exported, so shutdown has nothing to flush
	assert.NoError(t, telemetry.Shutdown(context.Background()))
	assert.Empty(t, telemetry.shutdownFuncs)
	assert.NoError(t, telemetry.Shutdown(context.Background()))
}
