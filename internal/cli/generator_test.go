package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/render"
	"github.com/toyz/synapse/internal/templates"
	"github.com/toyz/synapse/internal/utils"
)

func TestMain(m *testing.M) {
	render.Register(templates.NewGoBackend())
	os.Exit(m.Run())
}

const clockSource = `package clock

import (
	"context"
	"time"
)

//synapse::client
//synapse::server
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
	Sleep(ctx context.Context, d time.Duration) error
}
`

const engineSource = `package clock

import "errors"

var ErrNotReady = errors.New("not ready")

type Engine struct {
	initialized bool
}

//synapse::checkinit ErrNotReady
func (e *Engine) Tick() (string, error) {
	return "tick", nil
}
`

const contractSource = `package speech

interface Speaker {
    var voice: string
    func say(_ text: string) async throws
}
`

// newModule lays out a module in a temp dir and makes it the working directory
func newModule(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files["go.mod"] = "module example.com/app\n\ngo 1.25\n"
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	chdir(t, root)
	return root
}

func quietGenerator() (*Generator, *bytes.Buffer) {
	diagnostics := utils.NewDiagnosticSystem(utils.DiagnosticVerbose)
	var out bytes.Buffer
	diagnostics.SetOutput(&out, &out)
	return NewGenerator(diagnostics), &out
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerator_Run(t *testing.T) {
	root := newModule(t, map[string]string{
		"clock/clock.go":        clockSource,
		"clock/engine.go":       engineSource,
		"speech/speech.synapse": contractSource,
		"speech/doc.go":         "// Package speech talks.\npackage speech\n",
		"docs/readme.md":        "",
	})

	g, _ := quietGenerator()
	err := g.Run(context.Background(), Config{Directories: []string{"./..."}})
	require.NoError(t, err)

	clock := readFile(t, filepath.Join(root, "clock", "clock_synapse.go"))
	assert.Contains(t, clock, "// Code generated by synapse. DO NOT EDIT.")
	assert.Contains(t, clock, "// Source: example.com/app/clock (clock.go)")
	assert.Contains(t, clock, "type ClockClient struct")
	assert.Contains(t, clock, "type ClockServer struct")

	speech := readFile(t, filepath.Join(root, "speech", "speaker_synapse.go"))
	assert.Contains(t, speech, "// Source: example.com/app/speech (speech.synapse)")
	assert.Contains(t, speech, "type Speaker interface")
	assert.Contains(t, speech, `"say"`)

	summary := g.GetSummary()
	assert.Equal(t, 2, summary.PackagesProcessed)
	assert.Equal(t, 2, summary.InterfacesFound)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "clock", "clock_synapse.go"),
		filepath.Join(root, "speech", "speaker_synapse.go"),
	}, summary.GeneratedFiles)

	// Guards are only applied on request
	assert.NotContains(t, readFile(t, filepath.Join(root, "clock", "engine.go")), "!e.initialized")
}

func TestGenerator_Rewrite(t *testing.T) {
	root := newModule(t, map[string]string{
		"clock/clock.go":  clockSource,
		"clock/engine.go": engineSource,
	})

	g, out := quietGenerator()
	require.NoError(t, g.Run(context.Background(), Config{Directories: []string{"./clock"}, Rewrite: true}))
	assert.Contains(t, out.String(), "Applying checkinit guards\n")
	assert.Contains(t, out.String(), "✓ clock/engine.go: guarded Engine.Tick\n")

	engine := readFile(t, filepath.Join(root, "clock", "engine.go"))
	assert.Contains(t, engine, "if !e.initialized {")
	assert.Contains(t, engine, `return "", ErrNotReady`)
	assert.Equal(t, 1, g.GetSummary().GuardsApplied)
	assert.Equal(t, []string{filepath.Join(root, "clock", "engine.go")}, g.GetSummary().RewrittenFiles)

	// A second run finds the guard in place and leaves the file alone
	require.NoError(t, g.Run(context.Background(), Config{Directories: []string{"./clock"}, Rewrite: true}))
	assert.Equal(t, 0, g.GetSummary().GuardsApplied)
	assert.Equal(t, engine, readFile(t, filepath.Join(root, "clock", "engine.go")))
}

func TestGenerator_DryRun(t *testing.T) {
	root := newModule(t, map[string]string{
		"clock/clock.go":  clockSource,
		"clock/engine.go": engineSource,
	})

	g, _ := quietGenerator()
	var printed bytes.Buffer
	g.SetDryRunOutput(&printed)

	require.NoError(t, g.Run(context.Background(), Config{Directories: []string{"clock"}, DryRun: true, Rewrite: true}))

	assert.NoFileExists(t, filepath.Join(root, "clock", "clock_synapse.go"))
	assert.NotContains(t, readFile(t, filepath.Join(root, "clock", "engine.go")), "!e.initialized")
	assert.Contains(t, printed.String(), "// ---- clock/clock_synapse.go ----")
	assert.Contains(t, printed.String(), "// ---- clock/engine.go ----")
	assert.Contains(t, printed.String(), "if !e.initialized {")
	assert.Empty(t, g.GetSummary().GeneratedFiles)
}

func TestGenerator_IsolatesFailingPackages(t *testing.T) {
	root := newModule(t, map[string]string{
		"clock/clock.go": clockSource,
		"broken/broken.go": `package broken

//synapse::client
type NotAnInterface struct{}
`,
		"bad/bad.synapse": "package bad\ninterface {",
	})

	g, _ := quietGenerator()
	err := g.Run(context.Background(), Config{Directories: []string{"./..."}})
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 2, multi.Count())
	assert.True(t, multi.HasCode(errors.NotAnInterfaceCode))
	assert.True(t, multi.HasCode(errors.SyntaxErrorCode))

	assert.FileExists(t, filepath.Join(root, "clock", "clock_synapse.go"))
}

func TestGenerator_ConformanceWarning(t *testing.T) {
	newModule(t, map[string]string{
		"tick/tick.go": `package tick

//synapse::client
type Ticker interface {
	Tick() int
}
`,
	})

	g, out := quietGenerator()
	require.NoError(t, g.Run(context.Background(), Config{Directories: []string{"tick"}}))
	assert.Equal(t, 1, g.GetSummary().Warnings)
	assert.Contains(t, out.String(), "[WARN] tick/ticker_synapse.go: TickerClient does not implement Ticker")
}

func TestGenerator_Configuration(t *testing.T) {
	newModule(t, map[string]string{"docs/readme.md": ""})
	g, _ := quietGenerator()
	ctx := context.Background()

	err := g.Run(ctx, Config{})
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))

	err = g.Run(ctx, Config{Directories: []string{"."}, Backend: "cobol"})
	assert.ErrorContains(t, err, `no back-end registered as "cobol"`)

	err = g.Run(ctx, Config{Directories: []string{"./..."}})
	assert.ErrorContains(t, err, "no Go packages or contracts found")

	chdir(t, t.TempDir())
	err = g.Run(ctx, Config{Directories: []string{"."}})
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))
	assert.ErrorContains(t, err, "failed to resolve configuration 'module'")
	var be *errors.BaseError
	require.ErrorAs(t, err, &be)
	assert.ErrorContains(t, be.Cause, "consider using -module")
}

func TestGenerator_CustomModule(t *testing.T) {
	root := newModule(t, map[string]string{"clock/clock.go": clockSource})

	g, _ := quietGenerator()
	require.NoError(t, g.Run(context.Background(), Config{Directories: []string{"clock"}, ModuleName: "github.com/acme/time"}))

	assert.Contains(t, readFile(t, filepath.Join(root, "clock", "clock_synapse.go")),
		"// Source: github.com/acme/time/clock (clock.go)")
}
