package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/kataras/figma-tokens/pkg/assembler"
	"github.com/kataras/figma-tokens/pkg/figma"
)

// Format names an output encoding.
type Format string

// Supported output formats.
const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatMarkdown}

// ParseFormat parses a format name. "yml" and "md" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want one of %v)", s, Formats)
	}
}

// Extension returns the conventional file extension, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatMarkdown:
		return "md"
	default:
		return "json"
	}
}

// Document is the encoded shape of a resolved table. TOML needs a top-level table, so
// tokens always sit under a "tokens" key.
type Document struct {
	Tokens []Token `json:"tokens" yaml:"tokens" toml:"tokens"`
}

// Token is one resolved variable. Values maps an appearance tag to a color string,
// a number, a string or a boolean.
type Token struct {
	Name        string         `json:"name" yaml:"name" toml:"name"`
	Collection  string         `json:"collection" yaml:"collection" toml:"collection"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Values      map[string]any `json:"values" yaml:"values" toml:"values"`
}

// NewDocument converts resolved variables to their encoded shape, keeping their order.
func NewDocument(vars []assembler.ResolvedVariable) Document {
	doc := Document{Tokens: make([]Token, 0, len(vars))}
	for _, v := range vars {
		t := Token{
			Name:        v.Name,
			Collection:  v.Collection,
			Description: v.Description,
			Values:      make(map[string]any, len(v.PerAppearance)),
		}
		for tag, value := range v.PerAppearance {
			t.Values[tag] = nativeValue(value)
		}
		doc.Tokens = append(doc.Tokens, t)
	}
	return doc
}

func nativeValue(v figma.ResolvedValue) any {
	switch v := v.(type) {
	case figma.Color:
		return v.Hex()
	case figma.Number:
		return float64(v)
	case figma.String:
		return string(v)
	case figma.Boolean:
		return bool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Encode writes vars to w in the given format. Map keys are sorted by every encoder, so
// the same input always produces the same bytes. Markdown output groups variables by the
// first segment of their path.
func Encode(w io.Writer, vars []assembler.ResolvedVariable, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(vars)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(vars)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(NewDocument(vars)); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	case FormatMarkdown:
		md := ToMarkdown(vars, assembler.GroupByPath(vars, 1), "")
		if _, err := io.WriteString(w, md); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}
