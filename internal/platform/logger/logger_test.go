package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bili-app/bili-api/internal/config"
)

func TestSetupLogLevels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
	}{
		{level: "debug", debugSeen: true},
		{level: "info", debugSeen: false},
		{level: "warn", debugSeen: false},
		{level: "error", debugSeen: false},
		{level: "bogus", debugSeen: false},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			log, err := Setup(config.ServerConfig{LogLevel: tc.level})
			assert.NoError(t, err)
			assert.NotNil(t, log)
			assert.Equal(t, tc.debugSeen, log.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestContextLoggerRoundTrip(t *testing.T) {
	ctx, logBuf := NewLogCaptureContext(t)

	FromContext(ctx).Info("saving rating", slog.String("word", "Haus"))

	AssertLogContains(t, logBuf, "saving rating")
	AssertLogField(t, logBuf, "word", "Haus")
}

func TestFromContextFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to default logger", func(t *testing.T) {
		assert.NotNil(t, FromContext(ctx))
	})

	t.Run("prefers provided fallback", func(t *testing.T) {
		fallback, logBuf := GetTestLogger(t)

		log := FromContextOrDefault(ctx, fallback)
		log.Info("component message")

		AssertLogContains(t, logBuf, "component message")
	})

	t.Run("context logger wins over fallback", func(t *testing.T) {
		ctxLogger, ctxBuf := GetTestLogger(t)
		fallback, fallbackBuf := GetTestLogger(t)

		ctx := WithLogger(context.Background(), ctxLogger)
		FromContextOrDefault(ctx, fallback).Info("scoped message")

		AssertLogContains(t, ctxBuf, "scoped message")
		assert.Empty(t, fallbackBuf.String())
	})
}
