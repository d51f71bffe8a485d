package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("AppData", dir)
	return dir
}

func TestSetupLoggingWritesToFile(t *testing.T) {
	isolateConfigDir(t)

	file, err := SetupLogging(false)
	require.NoError(t, err)
	defer file.Close()

	slog.Info("file sink check")

	data, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "file sink check")
}

func TestSetupLoggingConsoleModeStillLogsToFile(t *testing.T) {
	dir := isolateConfigDir(t)

	file, err := SetupLogging(true)
	require.NoError(t, err)
	defer file.Close()

	assert.True(t, strings.HasPrefix(file.Name(), dir))
	assert.Equal(t, "drivemapper.log", filepath.Base(file.Name()))

	slog.Info("console mode check")

	data, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "console mode check")
}
