package logging

import (
	"testing"

	"io73k/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewHonorsLevel(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "json"}, false)
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewVerboseForcesDebug(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "error", Format: "console"}, true)
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "shouting"}, false)
	assert.Error(t, err)
}
