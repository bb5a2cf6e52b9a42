package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://docs.kanboard.org/v1/api", cfg.Docs.BaseURL)
	assert.Equal(t, []string{"*_procedures.md"}, cfg.Source.Includes)
	assert.Equal(t, 1, cfg.Jobs)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rpcdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
docs:
  base_url: https://example.com/api
output:
  dialect: go
  go_package: kb
jobs: 4
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/api", cfg.Docs.BaseURL)
	assert.Equal(t, "go", cfg.Output.Dialect)
	assert.Equal(t, "kb", cfg.Output.GoPackage)
	assert.Equal(t, 4, cfg.Jobs)
	// untouched keys keep their defaults
	assert.Equal(t, "openrpc.json", cfg.Output.Document)
	assert.Equal(t, "Kanboard API", cfg.Info.Title)
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: [1"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromDir(t *testing.T) {
	t.Run("rpcdoc.yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "rpcdoc.yaml"), []byte("jobs: 2\n"), 0644))
		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Jobs)
	})

	t.Run("hidden dir", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ".rpcdoc"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".rpcdoc", "config.yaml"), []byte("jobs: 3\n"), 0644))
		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Jobs)
	})

	t.Run("none", func(t *testing.T) {
		cfg, err := LoadFromDir(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpcdoc.yaml")
	cfg := DefaultConfig()
	cfg.Info.Title = "Saved"
	cfg.Source.Excludes = []string{"**/drafts/**"}
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad url", func(c *Config) { c.Docs.BaseURL = "not a url" }, "BaseURL"},
		{"bad format", func(c *Config) { c.Output.Format = "toml" }, "Format"},
		{"bad dialect", func(c *Config) { c.Output.Dialect = "rust" }, "Dialect"},
		{"go needs package", func(c *Config) { c.Output.Dialect = "go"; c.Output.GoPackage = "" }, "GoPackage"},
		{"zero jobs", func(c *Config) { c.Jobs = 0 }, "Jobs"},
		{"no includes", func(c *Config) { c.Source.Includes = nil }, "Includes"},
		{"cache without path", func(c *Config) { c.Cache.Enabled = true; c.Cache.Path = "" }, "Path"},
		{"version not semver", func(c *Config) { c.Info.Version = "latest" }, "Version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPythonDialectIgnoresEmptyPackage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.GoPackage = ""
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("RPCDOC_SOURCE_DIR=from-dotenv\nRPCDOC_BASE_URL=https://dotenv.example.com\n"), 0644))

	// Values already in the environment take precedence over the file.
	t.Setenv(EnvBaseURL, "https://env.example.com")
	t.Setenv(EnvSourceDir, "")
	t.Setenv(EnvJobs, "8")
	t.Setenv(EnvCachePath, "")
	os.Unsetenv(EnvSourceDir)

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(envFile))

	assert.Equal(t, "https://env.example.com", cfg.Docs.BaseURL)
	assert.Equal(t, "from-dotenv", cfg.Source.Dir)
	assert.Equal(t, 8, cfg.Jobs)
	assert.Equal(t, CachePath("."), cfg.Cache.Path)
}

func TestApplyEnvBadJobs(t *testing.T) {
	t.Setenv(EnvJobs, "many")
	cfg := DefaultConfig()
	assert.Error(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestFingerprint(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	b.Jobs = 8
	b.Info.Title = "Other"
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Docs.BaseURL = "https://example.com"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := DefaultConfig()
	c.Output.Dialect = "go"
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
