package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsSafe(t *testing.T) {
	// The package-level logger must be usable before Initialize.
	require.NotNil(t, Logger)
	Logger.Infow("no-op logger should not panic", FieldJobName, "etl.nightly")
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(true, VerbosityInfo))
	assert.True(t, JSONOutput)

	require.NoError(t, Initialize(false, VerbosityDebug))
	assert.False(t, JSONOutput)
	require.NotNil(t, Named("ticker"))
}
