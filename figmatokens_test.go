package figmatokens

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-tokens/internal/testutil"
	"github.com/kataras/figma-tokens/pkg/errors"
	"github.com/kataras/figma-tokens/pkg/figma"
)

const colorsPayload = `{
  "variableCollections": {
    "c:colors": {
      "id": "c:colors",
      "name": "Colors",
      "modes": [{"modeId": "m:light", "name": "Light"}, {"modeId": "m:dark", "name": "Dark"}],
      "defaultModeId": "m:light",
      "variableIds": ["v:primary", "v:accent"]
    }
  },
  "variables": {
    "v:primary": {
      "id": "v:primary",
      "name": "brand/primary",
      "variableCollectionId": "c:colors",
      "resolvedType": "COLOR",
      "valuesByMode": {"m:light": {"r": 1, "g": 0, "b": 0, "a": 1}}
    },
    "v:accent": {
      "id": "v:accent",
      "name": "brand/accent",
      "variableCollectionId": "c:colors",
      "resolvedType": "COLOR",
      "valuesByMode": {"m:light": {"type": "VARIABLE_ALIAS", "id": "v:primary"}}
    }
  }
}`

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) record(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Infof(f string, a ...any)  { l.record("INFO", f, a...) }
func (l *recordingLogger) Warnf(f string, a ...any)  { l.record("WARN", f, a...) }
func (l *recordingLogger) Errorf(f string, a ...any) { l.record("ERROR", f, a...) }

func (l *recordingLogger) with(prefix string) []string {
	var out []string
	for _, line := range l.lines {
		if strings.HasPrefix(line, prefix+" ") {
			out = append(out, line)
		}
	}
	return out
}

func writePayload(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestResolve(t *testing.T) {
	result, err := Resolve(testutil.Colors().Payload(), Options{GroupDepth: 1})
	require.NoError(t, err)

	require.Len(t, result.Variables, 2)
	red := testutil.RGBA(1, 0, 0, 1)
	for _, v := range result.Variables {
		assert.Equal(t, []string{"light", "dark"}, v.Appearances, v.Name)
		assert.Equal(t, red, v.PerAppearance["light"], v.Name)
		assert.Equal(t, red, v.PerAppearance["dark"], v.Name)
	}

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "brand", result.Groups[0].Name)
	assert.Contains(t, result.Markdown, "--brand-accent: #FF0000;")
}

func TestResolve_ReportsEveryBrokenToken(t *testing.T) {
	payload := testutil.NewPayload().
		Collection("c", "C", testutil.Mode("m", "Default")).
		Variable("a", "a", "c", figma.ModeValues{"m": figma.Alias{ID: "b"}}).
		Variable("b", "b", "c", figma.ModeValues{"m": figma.Alias{ID: "a"}}).
		Variable("d", "d", "c", figma.ModeValues{"m": figma.Alias{ID: "missing"}}).
		Payload()

	logger := &recordingLogger{}
	_, err := Resolve(payload, Options{Logger: logger})
	require.Error(t, err)

	list := errors.AsList(err)
	require.Len(t, list, 2)
	assert.Equal(t, errors.ErrCycle, list[0].Code)
	assert.Equal(t, errors.ErrDanglingReference, list[1].Code)
	assert.Len(t, logger.with("ERROR"), 2)
}

func TestResolve_Malformed(t *testing.T) {
	payload := testutil.Colors().Edit(func(p *figma.VariablesPayload) {
		p.VariableCollections[0].DefaultModeID = "m:nope"
	}).Payload()

	_, err := Resolve(payload, Options{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrMalformed, errors.CodeOf(err))
}

func TestResolve_WarnsOnCustomModes(t *testing.T) {
	payload := testutil.NewPayload().
		Collection("c", "Brand", testutil.Mode("a", "Brand A"), testutil.Mode("l", "light")).
		Variable("v", "v", "c", figma.ModeValues{"a": figma.Number(1)}).
		Payload()

	logger := &recordingLogger{}
	result, err := Resolve(payload, Options{Logger: logger})
	require.NoError(t, err)

	assert.Equal(t, []string{"Brand A", "light"}, result.Variables[0].Appearances)
	warnings := logger.with("WARN")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"Brand A"`)
}

func TestRun_InputFile(t *testing.T) {
	path := writePayload(t, "tokens.json", colorsPayload)

	result, err := Run(context.Background(), Options{InputFile: path})
	require.NoError(t, err)
	assert.Equal(t, path, result.Source)
	assert.Len(t, result.Variables, 2)
	assert.Contains(t, result.Markdown, "# Figma Design Tokens - tokens\n")
}

func TestRun_FetchesFromAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/ABC123/variables/local", r.URL.Path)
		fmt.Fprintf(w, `{"status": 200, "error": false, "meta": %s}`, colorsPayload)
	}))
	defer srv.Close()

	result, err := Run(context.Background(), Options{
		AccessToken:   "secret",
		FileURL:       "https://www.figma.com/design/ABC123/Tokens",
		ClientOptions: []figma.ClientOption{figma.WithBaseURL(srv.URL)},
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC123", result.Source)
	assert.Equal(t, "brand/primary", result.Variables[0].Name)
}

func TestRun_RequiresToken(t *testing.T) {
	_, err := Run(context.Background(), Options{FileURL: "https://www.figma.com/file/ABC123/x"})
	assert.Error(t, err)
}

func TestResolveFiles(t *testing.T) {
	broken := strings.Replace(colorsPayload, `"id": "v:primary"}`, `"id": "v:gone"}`, 1)
	paths := []string{
		writePayload(t, "a.json", colorsPayload),
		writePayload(t, "b.json", colorsPayload),
	}

	results, err := ResolveFiles(context.Background(), paths, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, paths[0], results[0].Source)
	assert.Equal(t, paths[1], results[1].Source)
	assert.Equal(t, results[0].Variables, results[1].Variables)

	_, err = ResolveFiles(context.Background(), append(paths, writePayload(t, "c.json", broken)), Options{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrDanglingReference, errors.CodeOf(err))
}

func TestResolveFiles_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ResolveFiles(ctx, []string{writePayload(t, "a.json", colorsPayload)}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"light", "dark"}, ParseList(" light, ,dark,"))
	assert.Empty(t, ParseList(""))
}
