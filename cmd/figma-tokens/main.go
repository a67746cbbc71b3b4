package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	figmatokens "github.com/kataras/figma-tokens"
	"github.com/kataras/figma-tokens/pkg/config"
	"github.com/kataras/figma-tokens/pkg/errors"
	"github.com/kataras/figma-tokens/pkg/figma"
	"github.com/kataras/figma-tokens/pkg/formatter"
	"github.com/kataras/figma-tokens/pkg/logging"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = figma.Version

var (
	figmaURL    string
	accessToken string
	inputFiles  []string
	outputPath  string
	format      string
	groupDepth  int
	appearances string
	match       string
	configFile  string
	verbosity   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "figma-tokens",
		Short: "Resolve Figma variables into design tokens",
		Long: "A tool to resolve the local variables of a Figma file into design tokens, " +
			"following every alias to its value and mapping modes to light/dark appearances",
		Args: cobra.NoArgs,
		Run:  run,
	}

	rootCmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL")
	rootCmd.Flags().StringVarP(&accessToken, "token", "t", "", "Figma Personal Access Token")
	rootCmd.Flags().StringSliceVarP(&inputFiles, "input", "i", nil, "Variables payload file(s) to resolve instead of fetching from Figma")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file, or directory when several inputs are given (default stdout)")
	rootCmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml, toml, markdown")
	rootCmd.Flags().IntVar(&groupDepth, "group-depth", 1, "Variable path segments per markdown group (0 = whole path)")
	rootCmd.Flags().StringVar(&appearances, "appearances", "light,dark", "Comma-separated appearance tags recognized in mode names")
	rootCmd.Flags().StringVar(&match, "match", "fold", "Mode name matching: fold (case-insensitive) or exact")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-tokens version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// flagOverrides maps the flags the user actually set onto config keys, so that
// unset flags do not shadow the config file or the environment.
func flagOverrides(cmd *cobra.Command) map[string]any {
	overrides := make(map[string]any)
	set := func(flag, key string, value any) {
		if cmd.Flags().Changed(flag) {
			overrides[key] = value
		}
	}

	set("url", "figma.file_url", figmaURL)
	set("token", "figma.token", accessToken)
	set("output", "output.path", outputPath)
	set("format", "output.format", format)
	set("group-depth", "output.group_depth", groupDepth)
	set("appearances", "appearance.recognized", figmatokens.ParseList(appearances))
	set("match", "appearance.match", match)
	set("verbose", "log.verbosity", verbosity)
	return overrides
}

func run(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cfg, err := config.Load(configFile, flagOverrides(cmd))
	if err != nil {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(os.Stderr, cfg.Log.Verbosity)
	logger := logging.GetLogger("figma-tokens")

	if len(inputFiles) == 0 && cfg.Figma.FileURL == "" {
		red.Fprintln(os.Stderr, "Error: either --url or --input is required")
		os.Exit(1)
	}

	cyan.Fprintln(os.Stderr, "\n🎨 Figma Tokens")
	cyan.Fprintln(os.Stderr, "================")
	cyan.Fprintln(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := figmatokens.Options{
		AccessToken: cfg.Figma.Token,
		FileURL:     cfg.Figma.FileURL,
		Appearance:  cfg.Policy(),
		GroupDepth:  cfg.Output.GroupDepth,
		Logger:      logging.NewAdapter(logger),
	}

	done := logging.LogOperationStart(logger, "resolve")
	results, err := resolveAll(ctx, opts)
	done(err)
	if err != nil {
		fail(red, err)
	}

	for _, result := range results {
		if err := write(cfg, result, len(results) > 1); err != nil {
			fail(red, err)
		}
	}
}

// resolveAll runs one resolution per input file, or a single fetch when none is given.
func resolveAll(ctx context.Context, opts figmatokens.Options) ([]*figmatokens.Result, error) {
	if len(inputFiles) > 1 {
		return figmatokens.ResolveFiles(ctx, inputFiles, opts)
	}
	if len(inputFiles) == 1 {
		opts.InputFile = inputFiles[0]
	}
	result, err := figmatokens.Run(ctx, opts)
	if err != nil {
		return nil, err
	}
	return []*figmatokens.Result{result}, nil
}

func write(cfg *config.Config, result *figmatokens.Result, multi bool) error {
	green := color.New(color.FgGreen)

	var buf bytes.Buffer
	if cfg.Format() == formatter.FormatMarkdown {
		buf.WriteString(result.Markdown)
	} else if err := formatter.Encode(&buf, result.Variables, cfg.Format()); err != nil {
		return err
	}

	path := cfg.Output.Path
	if path == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	if multi {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		name := strings.TrimSuffix(filepath.Base(result.Source), filepath.Ext(result.Source))
		path = filepath.Join(path, name+"."+cfg.Format().Extension())
	}

	green.Fprintf(os.Stderr, "💾 Writing %d token(s) to %s... ", len(result.Variables), path)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "✗")
		return err
	}
	green.Fprintln(os.Stderr, "✓")
	return nil
}

// fail prints every collected error, one per line, and exits.
func fail(red *color.Color, err error) {
	list := errors.AsList(err)
	if len(list) <= 1 {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	red.Fprintf(os.Stderr, "Error: %d broken token(s):\n", len(list))
	for _, e := range list {
		red.Fprintf(os.Stderr, "  ✗ %s\n", e.Error())
	}
	os.Exit(1)
}
