package mrl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	mrl "github.com/carolinlawrence/nlmaps-mrl"
)

func TestLoadConfig_WalksUpDirectoryTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	contents := "dialect: nlmaps\ngrammarPath: grammar.cfg\nevaluate:\n  metric: accuracy\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".nlmaps.yaml"), []byte(contents), 0o600))

	cfg, err := mrl.LoadConfig(nested)
	require.NoError(t, err)
	require.Equal(t, "nlmaps", cfg.Dialect)
	require.Equal(t, "grammar.cfg", cfg.GrammarPath)
	require.Equal(t, "accuracy", cfg.Evaluate.Metric)
}

func TestLoadConfig_NotFound(t *testing.T) {
	t.Parallel()

	_, err := mrl.LoadConfig(t.TempDir())
	require.ErrorIs(t, err, mrl.ErrConfigNotFound)
}

func TestLoadConfigFile_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nlmaps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	cfg, err := mrl.LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, "nlmaps", cfg.Dialect)
	require.Equal(t, "f1", cfg.Evaluate.Metric)
	require.Empty(t, cfg.GrammarPath)
}
