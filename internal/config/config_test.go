package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fclimits/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 0.9, cfg.FC.Alpha)
	assert.Equal(t, 0.001, cfg.FC.Threshold)
	assert.Equal(t, 14, cfg.FC.InitialSupport)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FC_ALPHA", "0.95")
	t.Setenv("FC_THRESHOLD", "0.0005")
	t.Setenv("FC_WORKERS", "8")
	t.Setenv("FC_TIMEOUT", "5s")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.95, cfg.FC.Alpha)
	assert.Equal(t, 0.0005, cfg.FC.Threshold)
	assert.Equal(t, 8, cfg.Belt.Workers)
	assert.Equal(t, 5*time.Second, cfg.FC.Timeout)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadFilesReadsDotenv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "fc.env")
	require.NoError(t, os.WriteFile(path, []byte("FC_BELT_MU_MAX=20\nFC_OUTPUT_DIR=/tmp/belts\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("FC_BELT_MU_MAX")
		os.Unsetenv("FC_OUTPUT_DIR")
	})

	cfg, err := LoadFiles(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Belt.MuMax)
	assert.Equal(t, "/tmp/belts", cfg.Output.Dir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"FC_ALPHA", "1"},
		{"FC_ALPHA", "0"},
		{"FC_THRESHOLD", "-0.1"},
		{"FC_MAX_ITERATIONS", "0"},
		{"FC_INITIAL_SUPPORT", "0"},
		{"FC_MAX_SUPPORT", "3"},
		{"FC_BELT_MU_STEP", "-1"},
		{"FC_WORKERS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
