package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kataras/figma-tokens/pkg/assembler"
	"github.com/kataras/figma-tokens/pkg/figma"
)

func sampleVars() []assembler.ResolvedVariable {
	red := figma.Color{R: 1, G: 0, B: 0, A: 1}
	return []assembler.ResolvedVariable{
		{
			Name:          "brand/primary",
			Collection:    "Colors",
			Appearances:   []string{"light", "dark"},
			PerAppearance: map[string]figma.ResolvedValue{"light": red, "dark": red},
		},
		{
			Name:          "brand/overlay",
			Collection:    "Colors",
			Description:   "Modal scrim",
			Appearances:   []string{"light", "dark"},
			PerAppearance: map[string]figma.ResolvedValue{"light": figma.Color{A: 0.5}, "dark": figma.Color{R: 1, G: 1, B: 1, A: 0.5}},
		},
		{
			Name:          "spacing/md",
			Collection:    "Primitives",
			Appearances:   []string{"Default"},
			PerAppearance: map[string]figma.ResolvedValue{"Default": figma.Number(16)},
		},
		{
			Name:          "font family",
			Collection:    "Primitives",
			Appearances:   []string{"Default"},
			PerAppearance: map[string]figma.ResolvedValue{"Default": figma.String("Inter")},
		},
		{
			Name:          "flags/rounded",
			Collection:    "Primitives",
			Appearances:   []string{"Default"},
			PerAppearance: map[string]figma.ResolvedValue{"Default": figma.Boolean(true)},
		},
	}
}

func TestToKebabCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"brand/primary", "brand-primary"},
		{"Color / Text_Primary", "color-text-primary"},
		{"font family", "font-family"},
		{"spacing/2xl (legacy)", "spacing-2xl-legacy"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toKebabCase(tt.in), tt.in)
	}
}

func TestToMarkdown(t *testing.T) {
	vars := sampleVars()
	md := ToMarkdown(vars, assembler.GroupByPath(vars, 1), "Acme")

	assert.True(t, strings.HasPrefix(md, "# Figma Design Tokens - Acme\n"))
	assert.Contains(t, md, "### light\n\n```css\n/* brand */\n--brand-primary: #FF0000;\n--brand-overlay: #00000080;\n")
	assert.Contains(t, md, "### dark\n")
	assert.Contains(t, md, "--brand-overlay: #FFFFFF80;\n")
	assert.Contains(t, md, "### Default\n\n```css\n/* spacing */\n--spacing-md: 16;\n")
	assert.Contains(t, md, "--font-family: \"Inter\";\n")
	assert.Contains(t, md, "--flags-rounded: true;\n")

	assert.Contains(t, md, "| Token | Collection | light | dark |\n")
	assert.Contains(t, md, "| `brand/primary` | Colors | `#FF0000` | `#FF0000` |\n")
	assert.Contains(t, md, "### Ungrouped\n")
	assert.NotContains(t, md, "/*  */")
}

func TestToMarkdown_Deterministic(t *testing.T) {
	vars := sampleVars()
	groups := assembler.GroupByPath(vars, 1)
	assert.Equal(t, ToMarkdown(vars, groups, ""), ToMarkdown(vars, groups, ""))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML,
		"toml": FormatTOML, "md": FormatMarkdown, " markdown ": FormatMarkdown,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleVars(), FormatJSON))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Tokens, 5)
	assert.Equal(t, "brand/primary", doc.Tokens[0].Name)
	assert.Equal(t, "#FF0000", doc.Tokens[0].Values["dark"])
	assert.Equal(t, "Modal scrim", doc.Tokens[1].Description)
	assert.Equal(t, float64(16), doc.Tokens[2].Values["Default"])
	assert.Equal(t, true, doc.Tokens[4].Values["Default"])
	assert.Equal(t, 1, strings.Count(buf.String(), `"description"`))
}

func TestEncode_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleVars(), FormatYAML))
	assert.True(t, strings.HasPrefix(buf.String(), "tokens:\n"))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Tokens, 5)
	assert.Equal(t, "#00000080", doc.Tokens[1].Values["light"])
	assert.Equal(t, "Inter", doc.Tokens[3].Values["Default"])
}

func TestEncode_TOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleVars(), FormatTOML))
	assert.Contains(t, buf.String(), "[[tokens]]")

	var doc Document
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Tokens, 5)
	assert.Equal(t, "spacing/md", doc.Tokens[2].Name)
	assert.Equal(t, "#FF0000", doc.Tokens[0].Values["light"])
}

func TestEncode_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleVars(), FormatMarkdown))
	assert.Contains(t, buf.String(), "--brand-primary: #FF0000;")
}

func TestEncode_ByteIdentical(t *testing.T) {
	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var a, b bytes.Buffer
			require.NoError(t, Encode(&a, sampleVars(), format))
			require.NoError(t, Encode(&b, sampleVars(), format))
			assert.Equal(t, a.String(), b.String())
		})
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	assert.Error(t, Encode(&bytes.Buffer{}, nil, Format("xml")))
}
