// Package figmatokens resolves the local variables of a Figma file into design tokens:
// every alias is followed to its literal value and every mode is projected onto an
// appearance tag such as "light" or "dark".
//
// The CLI lives in cmd/figma-tokens; this root package exposes the same
// pipeline as a Go API so that callers can embed token export in their own
// tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmatokens:
//
//	import "github.com/kataras/figma-tokens" // package figmatokens
//
// # Quick start
//
//	result, err := figmatokens.Run(ctx, figmatokens.Options{
//	    AccessToken: os.Getenv("FIGMA_TOKEN"),
//	    FileURL:     "https://www.figma.com/design/ABC123/My-Design",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	formatter.Encode(os.Stdout, result.Variables, formatter.FormatJSON)
//
// A payload already on disk (the body of GET /v1/files/:key/variables/local) is
// resolved with [Options.InputFile], or several at once with [ResolveFiles].
//
// # Errors
//
// Resolution never stops at the first broken token. A failed run returns an error
// wrapping an errors.List from pkg/errors with one entry per malformed collection,
// alias cycle, dangling reference or missing value:
//
//	for _, e := range errors.AsList(err) {
//	    fmt.Println(e.Code, e.Message)
//	}
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output. pkg/logging adapts a zerolog
// logger:
//
//	opts.Logger = logging.NewAdapter(logging.GetLogger("figma-tokens"))
//
// # Appearances
//
// Mode names are matched against [Options.Appearance]. By default "light" and
// "dark" are recognized case-insensitively; any other mode name is kept
// verbatim as a custom appearance tag. A mode without a value for a variable
// inherits the value of its collection's default mode.
package figmatokens
