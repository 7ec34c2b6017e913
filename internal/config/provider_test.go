package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	root := t.TempDir()
	v := SetupViper(root, nil)

	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, DataDirName), cfg.DataDir)
	assert.Equal(t, filepath.Join(root, GenesisFileName), cfg.GenesisFile)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.JSON)
	assert.Empty(t, cfg.Sender)
}

func TestProvider_LocalConfigAndEnv(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, DataDirName), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, DataDirName, "config.local.json"),
		[]byte(`{"from": "alice", "json": true}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"),
		[]byte("SPACEGOV_TIMEOUT=5s\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("SPACEGOV_TIMEOUT") })

	cfg, err := Provider(SetupViper(root, nil))
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.Sender)
	assert.True(t, cfg.JSON)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestProvider_FlagsWin(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SPACEGOV_FROM", "bob")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("from", "", "")
	cmd.Flags().String("genesis", "", "")
	cmd.Flags().Bool("non-interactive", false, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--from", "carol", "--genesis", "/abs/space.toml", "--non-interactive"}))

	cfg, err := Provider(SetupViper(root, cmd))
	require.NoError(t, err)

	assert.Equal(t, "carol", cfg.Sender)
	assert.Equal(t, "/abs/space.toml", cfg.GenesisFile)
	assert.True(t, cfg.NonInteractive)
}

func TestProvider_EnvSender(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SPACEGOV_FROM", "bob")

	cfg, err := Provider(SetupViper(root, nil))
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Sender)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, GenesisFileName), []byte(""), 0644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	t.Chdir(nested)
	found, err := FindProjectRoot()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
