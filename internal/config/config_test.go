package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvRecords, "")
	t.Setenv(EnvUsers, "")
	t.Setenv(EnvMirror, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "records.json"), cfg.RecordsPath)
	assert.Equal(t, filepath.Join(cfg.DataDir, "users.json"), cfg.UsersPath)
	assert.Equal(t, filepath.Join(cfg.DataDir, "mirror.db"), cfg.MirrorPath)
	assert.Equal(t, "Prospects", cfg.DefaultList)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvRecords, "")
	t.Setenv(EnvUsers, "")
	t.Setenv(EnvMirror, "")

	dir := t.TempDir()
	path := filepath.Join(dir, "doorstep.yaml")
	content := "data_dir: /var/lib/doorstep\nmirror_path: /tmp/custom.db\ndefault_list: Customers\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/doorstep", cfg.DataDir)
	assert.Equal(t, "/tmp/custom.db", cfg.MirrorPath)
	assert.Equal(t, "Customers", cfg.DefaultList)
	// Unset paths still derive from the data dir.
	assert.Equal(t, filepath.Join("/var/lib/doorstep", "records.json"), cfg.RecordsPath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doorstep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /from-file\n"), 0o644))

	t.Setenv(EnvRecords, "")
	t.Setenv(EnvUsers, "")
	t.Setenv(EnvDataDir, "/from-env")
	t.Setenv(EnvMirror, "/from-env/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from-env", cfg.DataDir)
	assert.Equal(t, "/from-env/other.db", cfg.MirrorPath)
	assert.Equal(t, filepath.Join("/from-env", "users.json"), cfg.UsersPath)
}

func TestLoad_MissingNamedFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "doorstep")
	cfg := Config{DataDir: dir}

	require.NoError(t, cfg.EnsureDataDir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
