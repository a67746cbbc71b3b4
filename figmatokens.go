package figmatokens

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kataras/figma-tokens/pkg/appearance"
	"github.com/kataras/figma-tokens/pkg/assembler"
	"github.com/kataras/figma-tokens/pkg/errors"
	"github.com/kataras/figma-tokens/pkg/figma"
	"github.com/kataras/figma-tokens/pkg/formatter"
	"github.com/kataras/figma-tokens/pkg/graph"
	"github.com/kataras/figma-tokens/pkg/resolver"
)

// Options configures the resolution.
type Options struct {
	AccessToken   string
	FileURL       string              // Figma file URL
	InputFile     string              // local variables payload, used instead of the API when set
	Appearance    appearance.Policy   // zero value = appearance.DefaultPolicy()
	GroupDepth    int                 // path segments per group; 0 = whole parent path
	ClientOptions []figma.ClientOption // e.g. figma.WithBaseURL for a proxy
	Logger        Logger              // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the resolution output.
type Result struct {
	Source    string // file key or input file name
	Variables []assembler.ResolvedVariable
	Groups    []assembler.Group
	Markdown  string // formatted markdown output
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

func (o *Options) policy() appearance.Policy {
	if o.Appearance.Recognized == nil && o.Appearance.Rename == nil {
		return appearance.DefaultPolicy()
	}
	return o.Appearance
}

// Run fetches the local variables of opts.FileURL (or reads opts.InputFile) and resolves them.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.InputFile != "" {
		return resolveFile(ctx, opts.InputFile, opts)
	}

	// Extract file key from URL.
	opts.logInfo("Extracting file key from URL...")
	fileKey, err := figma.ExtractFileKey(opts.FileURL)
	if err != nil {
		return nil, fmt.Errorf("extract file key: %w", err)
	}
	opts.logInfo("File key: %s", fileKey)

	if opts.AccessToken == "" {
		return nil, fmt.Errorf("access token is required to fetch %s", fileKey)
	}

	opts.logInfo("Fetching local variables from Figma...")
	client := figma.NewClient(opts.AccessToken, opts.ClientOptions...)
	resp, err := client.GetLocalVariables(ctx, fileKey)
	if err != nil {
		return nil, fmt.Errorf("fetch variables: %w", err)
	}

	result, err := resolve(&resp.Meta, opts, fileKey)
	if err != nil {
		return nil, err
	}
	result.Source = fileKey
	return result, nil
}

// Resolve validates payload, resolves every alias and assembles one record per variable.
// Every broken token is reported: the returned error wraps an errors.List.
func Resolve(payload *figma.VariablesPayload, opts Options) (*Result, error) {
	return resolve(payload, opts, "")
}

func resolve(payload *figma.VariablesPayload, opts Options, title string) (*Result, error) {
	opts.logInfo("Building graph of %d collection(s) and %d variable(s)...",
		len(payload.VariableCollections), len(payload.Variables))
	idx, err := graph.BuildPayload(payload)
	if err != nil {
		logErrors(&opts, err)
		return nil, fmt.Errorf("build graph: %w", err)
	}

	opts.logInfo("Resolving aliases...")
	table, err := resolver.New(idx).Resolve()
	if err != nil {
		logErrors(&opts, err)
		return nil, fmt.Errorf("resolve aliases: %w", err)
	}
	opts.logInfo("Resolved %d value(s)", table.Len())

	projector := appearance.New(opts.policy())
	for _, c := range idx.Collections() {
		for _, m := range c.Modes {
			if !projector.Recognizes(m.Name) {
				opts.logWarn("Collection %q: mode %q is not a recognized appearance, keeping its name", c.Name, m.Name)
			}
		}
	}

	vars, err := assembler.Assemble(table, idx, projector)
	if err != nil {
		logErrors(&opts, err)
		return nil, fmt.Errorf("assemble variables: %w", err)
	}

	groups := assembler.GroupByPath(vars, opts.GroupDepth)
	opts.logInfo("Assembled %d variable(s) in %d group(s)", len(vars), len(groups))

	return &Result{
		Variables: vars,
		Groups:    groups,
		Markdown:  formatter.ToMarkdown(vars, groups, title),
	}, nil
}

// ResolveFiles resolves several payload files concurrently. Each run is independent and
// results are returned in the order of paths. The first failure cancels the others.
func ResolveFiles(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	results := make([]*Result, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := resolveFile(ctx, path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func resolveFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts.logInfo("Reading %s...", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	payload, err := figma.DecodePayload(f)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result, err := resolve(payload, opts, title)
	if err != nil {
		return nil, err
	}
	result.Source = path
	return result, nil
}

func logErrors(opts *Options, err error) {
	for _, e := range errors.AsList(err) {
		opts.logError("%s", e.Error())
	}
}

// ParseList parses a comma-separated string such as "light,dark" and returns its
// non-empty, trimmed elements.
func ParseList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
