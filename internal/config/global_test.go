package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/sunbeam-release/internal/log"
	"github.com/canonical/sunbeam-release/internal/tool"
)

func setHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	for _, env := range []string{EnvCatalog, EnvJobs, EnvCharmcraft, EnvSnap, EnvSnapcraft} {
		t.Setenv(env, "")
	}
	return dir
}

func TestLoadGlobalDefaults(t *testing.T) {
	setHome(t)

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, DefaultGlobalConfig(), cfg)
}

func TestLoadGlobalFile(t *testing.T) {
	dir := setHome(t)
	content := `
default_release: caracal
jobs: 4
tools:
  charmcraft: sudo charmcraft
debug:
  retention_days: 7
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, "caracal", cfg.DefaultRelease)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, 7, cfg.Debug.RetentionDays)
	assert.Equal(t, map[string]string{"charmcraft": "sudo charmcraft"}, cfg.Tools)
}

func TestLoadGlobalMalformedFile(t *testing.T) {
	dir := setHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("jobs: [1"), 0o644))

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, DefaultGlobalConfig(), cfg)
}

func TestLoadGlobalEnvOverride(t *testing.T) {
	dir := setHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("jobs: 2\n"), 0o644))
	t.Setenv(EnvJobs, "8")
	t.Setenv(EnvCatalog, "/etc/sunbeam/catalog.yaml")
	t.Setenv(EnvSnapcraft, "/snap/bin/snapcraft")

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Jobs)
	assert.Equal(t, "/etc/sunbeam/catalog.yaml", cfg.Catalog)
	assert.Equal(t, "/snap/bin/snapcraft", cfg.Tools[tool.Snapcraft])
}

func TestLoadGlobalInvalidJobsEnv(t *testing.T) {
	dir := setHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("jobs: 3\n"), 0o644))
	t.Setenv(EnvJobs, "many")

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(io.Discard) })

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Contains(t, buf.String(), "ignoring invalid jobs override")
	assert.Contains(t, buf.String(), "value=many")
}

func TestLoadGlobalJobsFloor(t *testing.T) {
	setHome(t)
	t.Setenv(EnvJobs, "0")

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Jobs)
}

func TestGlobalConfigDir(t *testing.T) {
	t.Setenv(EnvHome, "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".sunbeam-release"), GlobalConfigDir())
	assert.Equal(t, filepath.Join(home, ".sunbeam-release", "debug"), DebugDir())

	t.Setenv(EnvHome, "/srv/release")
	assert.Equal(t, "/srv/release", GlobalConfigDir())
}

func TestToolSet(t *testing.T) {
	cfg := DefaultGlobalConfig()
	cfg.Tools = map[string]string{tool.Charmcraft: "sudo -E charmcraft"}

	tools, err := cfg.ToolSet()
	require.NoError(t, err)
	assert.Equal(t, []string{"sudo", "-E", "charmcraft"}, tools[tool.Charmcraft])
	assert.Equal(t, []string{"snap"}, tools[tool.Snap])
}

func TestToolSetUnknown(t *testing.T) {
	cfg := DefaultGlobalConfig()
	cfg.Tools = map[string]string{"juju": "juju"}

	_, err := cfg.ToolSet()
	assert.ErrorContains(t, err, `unknown tool "juju"`)
}

func TestLoadCatalog(t *testing.T) {
	cfg := DefaultGlobalConfig()
	c, err := cfg.LoadCatalog()
	require.NoError(t, err)
	assert.True(t, c.HasRelease("antelope"))

	cfg.Catalog = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.LoadCatalog()
	assert.Error(t, err)
}
