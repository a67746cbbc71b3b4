package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-tokens/pkg/appearance"
	"github.com/kataras/figma-tokens/pkg/formatter"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"light", "dark"}, cfg.Appearance.Recognized)
	assert.Equal(t, "fold", cfg.Appearance.Match)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 1, cfg.Output.GroupDepth)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.Empty(t, cfg.Figma.Token)

	assert.Equal(t, appearance.DefaultPolicy().Recognized, cfg.Policy().Recognized)
	assert.Equal(t, appearance.MatchFold, cfg.Policy().Match)
	assert.Equal(t, formatter.FormatJSON, cfg.Format())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[figma]
file_url = "https://www.figma.com/design/ABC123/Tokens"

[appearance]
recognized = ["light", "dark", "high-contrast"]
match = "exact"

[appearance.rename]
Default = "light"

[output]
format = "yaml"
group_depth = 2
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://www.figma.com/design/ABC123/Tokens", cfg.Figma.FileURL)
	assert.Equal(t, []string{"light", "dark", "high-contrast"}, cfg.Appearance.Recognized)
	assert.Equal(t, map[string]string{"Default": "light"}, cfg.Appearance.Rename)
	assert.Equal(t, appearance.MatchExact, cfg.Policy().Match)
	assert.Equal(t, formatter.FormatYAML, cfg.Format())
	assert.Equal(t, 2, cfg.Output.GroupDepth)
}

func TestLoad_DefaultFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[output]\nformat = \"toml\"\n")
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "toml", cfg.Output.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FIGMA_TOKENS_FIGMA_TOKEN", "figd_secret")
	t.Setenv("FIGMA_TOKENS_OUTPUT_GROUP_DEPTH", "3")
	t.Setenv("FIGMA_TOKENS_APPEARANCE_RECOGNIZED", "light, dark ,dim")
	t.Setenv("FIGMA_TOKENS_LOG_VERBOSITY", "2")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "figd_secret", cfg.Figma.Token)
	assert.Equal(t, 3, cfg.Output.GroupDepth)
	assert.Equal(t, []string{"light", "dark", "dim"}, cfg.Appearance.Recognized)
	assert.Equal(t, 2, cfg.Log.Verbosity)
}

func TestLoad_OverridesWin(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[output]\nformat = \"yaml\"\n")
	t.Setenv("FIGMA_TOKENS_OUTPUT_FORMAT", "toml")

	cfg, err := Load(path, map[string]any{"output.format": "markdown", "output.path": "tokens.md"})
	require.NoError(t, err)
	assert.Equal(t, formatter.FormatMarkdown, cfg.Format())
	assert.Equal(t, "tokens.md", cfg.Output.Path)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{"match", map[string]any{"appearance.match": "regex"}},
		{"format", map[string]any{"output.format": "xml"}},
		{"group depth", map[string]any{"output.group_depth": -1}},
		{"empty rename", map[string]any{"appearance.rename": map[string]any{"Default": " "}}},
		{"colliding rename", map[string]any{"appearance.rename": map[string]any{"Default": "light", "DEFAULT": "dark"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("", tt.overrides)
			assert.Error(t, err)
		})
	}
}

func TestLoad_RenameKeysWithDots(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[appearance.rename]
"v1.0" = "light"
"v2.0 beta" = "dark"
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"v1.0": "light", "v2.0 beta": "dark"}, cfg.Appearance.Rename)
	assert.Equal(t, "light", appearance.New(cfg.Policy()).Tag("V1.0"))
}

func TestLoad_CollidingRenameInFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[appearance.rename]
Default = "light"
default = "dark"
`)

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appearance.rename")

	// Exact matching keeps the two keys apart.
	cfg, err := Load(path, map[string]any{"appearance.match": "exact"})
	require.NoError(t, err)
	assert.Len(t, cfg.Appearance.Rename, 2)
}
