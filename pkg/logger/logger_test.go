package logger_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	config "github.com/sing3demons/go-bakery-service/configs"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ commonlog.LoggerService = logger.NewMockLogger()

func TestNewLoggerTestMode(t *testing.T) {
	t.Setenv("MODE", "test")
	log := logger.NewLogger(config.LogFile{})

	log.Debug("debug message")
	log.Debugf("debugf: %d", 1)
	log.Log("log message")
	log.Logf("logf: %s", "info")
	log.Error("error message")
	log.Errorf("errorf: %v", "error")

	assert.NoError(t, log.Sync())
}

func TestNewLoggerWritesFile(t *testing.T) {
	t.Setenv("MODE", "")
	dir := filepath.Join(t.TempDir(), "summary")
	log := logger.NewLogger(config.LogFile{Name: "summary", Path: dir, Level: "debug"})

	log.Info("order_saved")
	_ = log.Sync()

	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(dir)
		return err == nil && len(entries) == 1
	}, time.Second, 10*time.Millisecond)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Contains(t, entries[0].Name(), "summary_")

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "order_saved")
}
