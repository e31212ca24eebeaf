package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rewear/internal/core/config"
)

func TestNewFallsBackToInfo(t *testing.T) {
	l, cleanup := New("not-a-level", true)
	defer cleanup()
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestFromConfigWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := FromConfig(config.Log{
		Level: "debug",
		JSON:  true,
		Rotate: config.Rotate{
			Enable:    true,
			Filename:  file,
			MaxSizeMB: 1,
		},
	})
	l.Info("hello rotate")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello rotate")
}

func TestFromConfigAddsFields(t *testing.T) {
	file := filepath.Join(t.TempDir(), "svc.log")
	l, cleanup := FromConfig(config.Log{
		Level:  "info",
		JSON:   true,
		Rotate: config.Rotate{Enable: true, Filename: file},
	}, zap.String("service", "rewear-api"))
	l.Info("started")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"service":"rewear-api"`)
}
