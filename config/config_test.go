package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PROMPTDB_CONFIG", "PORT", "PROMPTDB_DATA_DIR", "PROMPTDB_FILE", "PROMPTDB_SEED_FILE",
	"LOG_MODE", "PROMPTDB_DIAG_LOG", "PROMPTDB_DIAG_ENABLED", "SHUTDOWN_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/tester")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8188", cfg.Addr())
	assert.Equal(t, "prompts.json", cfg.FileName)
	assert.Equal(t, "dev", cfg.LogMode)
	assert.True(t, cfg.DiagLogEnabled)
	assert.Equal(t, filepath.Join("/home/tester", "pylog.txt"), cfg.DiagLogFile)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "promptdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
data_dir: /srv/prompts
file_name: library.json
log_mode: prod
diag_log_enabled: false
shutdown_timeout: 3s
`), 0644))
	t.Setenv("PROMPTDB_CONFIG", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "/srv/prompts", cfg.DataDir)
	assert.Equal(t, filepath.Join("/srv/prompts", "library.json"), cfg.DocumentPath())
	assert.Equal(t, "prod", cfg.LogMode)
	assert.False(t, cfg.DiagLogEnabled)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"bad bool":      {"PROMPTDB_DIAG_ENABLED", "perhaps"},
		"bad duration":  {"SHUTDOWN_TIMEOUT", "soon"},
		"negative wait": {"SHUTDOWN_TIMEOUT", "-1s"},
		"nested file":   {"PROMPTDB_FILE", "a/b.json"},
		"missing file":  {"PROMPTDB_CONFIG", "/does/not/exist.yaml"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestResolveDataDirFallsBackToUserConfig(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "prompt-db", "prompts.json"), cfg.DocumentPath())
}
