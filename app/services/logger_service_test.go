package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"AguaPos/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger := NewLoggerService(dir, config.LoggerConfig{Level: "debug", FileEnable: true, MaxSizeMB: 1})
	defer zap.ReplaceGlobals(zap.NewNop())

	assert.Equal(t, filepath.Join(dir, "logs", "aguapos.log"), logger.GetLogPath())

	logger.LogInfo("Day started", "3 products")
	logger.LogError("Persist failed", errors.New("disk full"))
	zap.S().Infow("Through the global logger", "sale", "s1")
	func() {
		defer logger.RecoverPanic()
		panic("boom")
	}()
	logger.Close()

	raw, err := os.ReadFile(logger.GetLogPath())
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `"msg":"Day started"`)
	assert.Contains(t, out, `"details":"3 products"`)
	assert.Contains(t, out, "disk full")
	assert.Contains(t, out, "Through the global logger")
	assert.Contains(t, out, "boom")
}

func TestLoggerWithoutFile(t *testing.T) {
	logger := NewLoggerService(t.TempDir(), config.LoggerConfig{Level: "nonsense"})
	defer zap.ReplaceGlobals(zap.NewNop())

	assert.Empty(t, logger.GetLogPath())
	logger.LogWarning("console only")
	logger.Close()

	nop := NewNopLoggerService()
	nop.LogInfo("discarded")
	nop.Close()
}
