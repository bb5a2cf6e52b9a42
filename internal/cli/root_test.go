package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpavlik/kanboard-documentation/internal/config"
)

// isolate clears RPCDOC_* variables so the host environment cannot leak
// into a test.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvBaseURL, config.EnvSourceDir, config.EnvCachePath, config.EnvJobs} {
		t.Setenv(k, "")
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"generate", "validate", "init"}, names)

	for _, flag := range []string{"config", "dir", "env-file"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootHelp(t *testing.T) {
	isolate(t)
	stdout, _, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rpcdoc-gen generate")
}

func TestInitCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	stdout, _, err := run(t, "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "rpcdoc.yaml")

	cfg, err := config.Load(filepath.Join(dir, "rpcdoc.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, _, err = run(t, "init", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "init", "--dir", dir, "--force")
	assert.NoError(t, err)
}

func TestLoadConfigExplicitPathMustExist(t *testing.T) {
	isolate(t)
	opts := &rootOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := opts.loadConfig()
	assert.Error(t, err)
}

func TestLoadConfigFromDirAndEnvFile(t *testing.T) {
	isolate(t)
	os.Unsetenv(config.EnvBaseURL)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rpcdoc.yaml"), []byte("jobs: 3\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RPCDOC_BASE_URL=https://env.example.com\n"), 0644))

	opts := &rootOptions{Dir: dir}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "https://env.example.com", cfg.Docs.BaseURL)
}
