package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sibyl-dev/sibyl/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Rules.MaxLoopDepth)
	assert.Empty(t, cfg.Rules.Disabled)
	assert.Contains(t, cfg.Exclude.Dirs, "__pycache__")
	assert.Contains(t, cfg.Exclude.Dirs, ".venv")
	assert.True(t, cfg.Exclude.Gitignore)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, ".sibyl/cache", cfg.Cache.Dir)
	assert.Equal(t, 24, cfg.Cache.TTL)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadTOML(t *testing.T) {
	dir := testutil.TempDir(t)
	path := filepath.Join(dir, "sibyl.toml")
	testutil.WriteFile(t, path, `
[rules]
disabled = ["W0611", "C0103"]
max_loop_depth = 4

[cache]
enabled = false

[output]
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"W0611", "C0103"}, cfg.Rules.Disabled)
	assert.Equal(t, 4, cfg.Rules.MaxLoopDepth)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "json", cfg.Output.Format)
	// Untouched sections keep their defaults.
	assert.Contains(t, cfg.Exclude.Dirs, ".git")
}

func TestLoadYAML(t *testing.T) {
	raw := map[string]any{
		"rules": map[string]any{
			"max_loop_depth": 3,
			"extra_builtins": []string{"display"},
		},
		"output": map[string]any{
			"format": "markdown",
			"color":  false,
		},
	}
	data, err := yaml.Marshal(raw)
	require.NoError(t, err)

	dir := testutil.TempDir(t)
	path := filepath.Join(dir, "sibyl.yaml")
	testutil.WriteFile(t, path, string(data))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Rules.MaxLoopDepth)
	assert.Equal(t, []string{"display"}, cfg.Rules.ExtraBuiltins)
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
}

func TestLoadJSON(t *testing.T) {
	dir := testutil.TempDir(t)
	path := filepath.Join(dir, "sibyl.json")
	testutil.WriteFile(t, path, `{"rules": {"disabled": ["E731"]}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"E731"}, cfg.Rules.Disabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(testutil.TempDir(t), "nope.toml"))
	assert.Error(t, err)
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.ShouldExclude(filepath.Join("project", "__pycache__", "mod.py")))
	assert.True(t, cfg.ShouldExclude(filepath.Join(".venv", "lib", "site.py")))
	assert.True(t, cfg.ShouldExclude(filepath.Join("assets", "bundle.min.py")))
	assert.False(t, cfg.ShouldExclude(filepath.Join("src", "app.py")))
}
