// Package config loads the figma-tokens configuration.
//
// Values are layered, each layer overriding the previous one:
//
//  1. the embedded defaults (embedded/defaults.toml)
//  2. a TOML file: the path given to Load, or figma-tokens.toml in the working directory
//  3. FIGMA_TOKENS_* environment variables, e.g. FIGMA_TOKENS_OUTPUT_GROUP_DEPTH=2
//  4. explicit overrides keyed by dotted path, typically the CLI flags the user set
//
// Providers split keys on "." but the merged tree is keyed with "::", so a mode name
// containing dots (appearance.rename."v1.0") stays a single key.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kataras/figma-tokens/pkg/appearance"
	"github.com/kataras/figma-tokens/pkg/formatter"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "figma-tokens.toml"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FIGMA_TOKENS_"

// keyDelim separates the levels of the merged key tree. It must not occur in mode names.
const keyDelim = "::"

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Config is the complete figma-tokens configuration.
type Config struct {
	Figma      Figma      `koanf:"figma"`
	Appearance Appearance `koanf:"appearance"`
	Output     Output     `koanf:"output"`
	Log        Log        `koanf:"log"`
}

// Figma holds the REST API credentials and the file to export.
type Figma struct {
	Token   string `koanf:"token"`
	FileURL string `koanf:"file_url"`
}

// Appearance configures how mode names become appearance tags.
type Appearance struct {
	Recognized []string          `koanf:"recognized"`
	Match      string            `koanf:"match"`
	Rename     map[string]string `koanf:"rename"`
}

// Output configures the rendered result.
type Output struct {
	Format     string `koanf:"format"`
	Path       string `koanf:"path"`
	GroupDepth int    `koanf:"group_depth"`
}

// Log configures logging verbosity.
type Log struct {
	Verbosity int `koanf:"verbosity"`
}

// Load builds the configuration. path may be empty, in which case DefaultFile is used
// when it exists. overrides is applied last; its keys are dotted paths like "output.format".
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(keyDelim)

	// 1. Load defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load config file
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	// 3. Load env vars: FIGMA_TOKENS_OUTPUT_GROUP_DEPTH -> output.group_depth
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				trimSpaceHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// trimSpaceHookFunc trims the elements of comma-separated lists such as "light, dark".
func trimSpaceHookFunc() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		list, ok := data.([]string)
		if !ok {
			return data, nil
		}
		out := make([]string, 0, len(list))
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := appearance.ParseMatch(c.Appearance.Match); err != nil {
		return fmt.Errorf("appearance.match: %w", err)
	}
	if _, err := formatter.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Output.GroupDepth < 0 {
		return fmt.Errorf("output.group_depth: must not be negative, got %d", c.Output.GroupDepth)
	}
	for _, from := range slices.Sorted(maps.Keys(c.Appearance.Rename)) {
		if strings.TrimSpace(c.Appearance.Rename[from]) == "" {
			return fmt.Errorf("appearance.rename: mode %q renamed to an empty tag", from)
		}
	}
	if err := c.Policy().CheckRename(); err != nil {
		return fmt.Errorf("appearance.rename: %w", err)
	}
	return nil
}

// Policy returns the appearance policy. It assumes c has been validated.
func (c *Config) Policy() appearance.Policy {
	match, _ := appearance.ParseMatch(c.Appearance.Match)
	return appearance.Policy{
		Recognized: c.Appearance.Recognized,
		Match:      match,
		Rename:     c.Appearance.Rename,
	}
}

// Format returns the output format. It assumes c has been validated.
func (c *Config) Format() formatter.Format {
	f, _ := formatter.ParseFormat(c.Output.Format)
	return f
}
