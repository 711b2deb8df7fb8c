package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "data/in", cfg.InputDir)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardhub.yaml")
	body := `
db_path: /tmp/test.db
input_dir: /tmp/in
output_dir: /tmp/out
sets: [LEA, ISD]
pretty_json: true
listen_addr: ":9999"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "/tmp/in", cfg.InputDir)
	assert.Equal(t, []string{"LEA", "ISD"}, cfg.Sets)
	assert.True(t, cfg.PrettyJSON)
	assert.Equal(t, ":9999", cfg.ListenAddr)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CARDHUB_DB_PATH", "/env/db.sqlite")
	t.Setenv("CARDHUB_LISTEN_ADDR", ":7777")
	t.Setenv("CARDHUB_VERBOSE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/db.sqlite", cfg.DBPath)
	assert.Equal(t, ":7777", cfg.ListenAddr)
	assert.True(t, cfg.Verbose)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \":9999\"\n"), 0o644))

	t.Setenv("CARDHUB_LISTEN_ADDR", ":7777")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.ListenAddr)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sets: [LEA"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
