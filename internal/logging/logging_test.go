package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seaward/artifact-fetch/internal/logging"
)

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, slog.LevelError, logging.LevelFromString("error"))
	assert.Equal(t, slog.LevelWarn, logging.LevelFromString("WARNING"))
	assert.Equal(t, slog.LevelInfo, logging.LevelFromString("info"))
	assert.Equal(t, slog.LevelDebug, logging.LevelFromString("debug"))
	assert.Equal(t, slog.LevelInfo, logging.LevelFromString("bogus"))
	assert.Equal(t, slog.Level(-4), logging.LevelFromString("-4"))
	assert.Equal(t, slog.LevelDebug, logging.LevelFromString("-100"))
	assert.Equal(t, slog.LevelError, logging.LevelFromString("100"))
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelWarn)
	logger.Info("quiet")
	logger.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}
