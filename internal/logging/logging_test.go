package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level, format string
		enabled       zapcore.Level
		disabled      zapcore.Level
	}{
		{"debug", "console", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"info", "json", zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", "", zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", "json", zapcore.ErrorLevel, zapcore.WarnLevel},
	}
	for _, tt := range tests {
		logger, err := New(tt.level, tt.format)
		require.NoError(t, err, tt.level)
		assert.True(t, logger.Core().Enabled(tt.enabled), "%s should enable %s", tt.level, tt.enabled)
		assert.False(t, logger.Core().Enabled(tt.disabled), "%s should disable %s", tt.level, tt.disabled)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("loud", "json")
	assert.ErrorContains(t, err, "invalid log level")

	_, err = New("info", "xml")
	assert.ErrorContains(t, err, "invalid log format")
}
