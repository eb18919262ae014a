package generator

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/idl"
	"github.com/toyz/synapse/internal/models"
	"github.com/toyz/synapse/internal/parser"
	"github.com/toyz/synapse/internal/templates"
)

const speechSource = `package speech

import (
	"context"
	"time"
)

//synapse::client
//synapse::server
//synapse::property ModelPath string
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32) (string, error)
	Reset(ctx context.Context) error
}

//synapse::client
type Clock interface {
	Now() time.Time
}

//synapse::server
type Engine struct{}

//synapse::client
type Mixed interface {
	context.Context
}
`

func parseGo(t *testing.T) *models.PackageMetadata {
	t.Helper()
	metadata, err := parser.NewParser().ParseSource("speech.go", speechSource)
	require.NoError(t, err)
	metadata.ImportPath = "example.com/speech"
	return metadata
}

func TestGeneratePackage_IsolatesFailures(t *testing.T) {
	g := NewGenerator(templates.NewGoBackend())

	files, err := g.GeneratePackage(context.Background(), parseGo(t))
	require.Error(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "Transcriber", files[0].Interface)
	assert.Equal(t, "transcriber_synapse.go", files[0].FilePath)
	assert.Equal(t, "Clock", files[1].Interface)
	assert.Equal(t, "clock_synapse.go", files[1].FilePath)

	var multi *errors.MultipleErrors
	require.True(t, stderrors.As(err, &multi))
	assert.Equal(t, 2, multi.Count())
	assert.True(t, stderrors.Is(err, errors.ErrNotAnInterface))
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedMember))
}

func TestGenerateTarget_GoSource(t *testing.T) {
	metadata := parseGo(t)
	g := NewGenerator(templates.NewGoBackend())

	file, err := g.GenerateTarget(context.Background(), metadata, metadata.Targets[0])
	require.NoError(t, err)

	assert.Equal(t, "speech", file.PackageName)
	assert.Empty(t, file.Warnings)

	content := file.Content
	assert.Contains(t, content, "// Code generated by synapse. DO NOT EDIT.")
	assert.Contains(t, content, "// Source: example.com/speech (speech.go)")
	assert.Contains(t, content, "var _ Transcriber = (*TranscriberClient)(nil)")
	assert.Contains(t, content, `return synapse.Call[string](ctx, c.connection, "Transcribe", samples)`)
	assert.Contains(t, content, `return c.connection.SendMessage(ctx, "Reset", nil, nil)`)
	assert.Contains(t, content, "type TranscriberHandler interface")
	assert.Contains(t, content, `s.listener.SetMessageHandler("Transcribe", impl.Transcribe)`)
	assert.NotContains(t, content, "type Transcriber interface")
	assert.NotContains(t, content, `"time"`)
}

func TestGenerateTarget_WarnsWhenClientCannotConform(t *testing.T) {
	metadata := parseGo(t)
	g := NewGenerator(templates.NewGoBackend())

	file, err := g.GenerateTarget(context.Background(), metadata, metadata.Targets[1])
	require.NoError(t, err)

	require.Len(t, file.Warnings, 1)
	assert.Contains(t, file.Warnings[0], "ClockClient does not implement Clock")
	assert.NotContains(t, file.Content, "var _ Clock =")
	assert.Contains(t, file.Content, `return synapse.Call[time.Time](ctx, c.connection, "Now", nil)`)
	assert.Contains(t, file.Content, `"time"`)
}

func TestGeneratePackage_Contract(t *testing.T) {
	metadata, err := idl.NewParser().ParseSource("whisper.synapse", `package whisper

interface Whisper {
	var modelPath: string
	func getLang(buffers b: []byte, timeout: int64) -> int32
	func reset()
}
`)
	require.NoError(t, err)

	files, err := NewGenerator(templates.NewGoBackend()).GeneratePackage(context.Background(), metadata)
	require.NoError(t, err)
	require.Len(t, files, 1)

	content := files[0].Content
	assert.Contains(t, content, "type Whisper interface")
	assert.Contains(t, content, "var _ Whisper = (*WhisperClient)(nil)")
	assert.Contains(t, content, "func (c *WhisperClient) GetLang(ctx context.Context, b []byte, timeout int64) (int32, error)")
	assert.Contains(t, content, `synapse.Tuple{b, timeout}`)
	assert.Contains(t, content, `"getLang"`)
	assert.Empty(t, files[0].Warnings)
}

func TestGeneratePackage_NameClashIsIsolated(t *testing.T) {
	metadata, err := idl.NewParser().ParseSource("mixer.synapse", `package mixer

interface Mixer {
	var volume: int
	func volume() -> int
}

interface Fader {
	func fade(to: int)
}
`)
	require.NoError(t, err)

	files, err := NewGenerator(templates.NewGoBackend()).GeneratePackage(context.Background(), metadata)
	require.Error(t, err)
	assert.True(t, hasCode(err, errors.GenerationErrorCode))
	assert.Contains(t, err.Error(), `method "volume" collides with "volume" as Volume`)

	require.Len(t, files, 1)
	assert.Equal(t, "Fader", files[0].Interface)
}

func TestGeneratePackage_ImportsStayWithTheirFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("seed.go", `package dice

import (
	"context"
	"math/rand"
)

//synapse::client
type Seeder interface {
	Seed(ctx context.Context, r *rand.Rand) error
}
`)
	write("token.go", `package dice

import (
	"context"
	"crypto/rand"
)

var _ = rand.Reader

//synapse::client
type Token interface {
	Next(ctx context.Context) ([]byte, error)
}
`)

	metadata, err := parser.NewParser().ParseDirectory(dir)
	require.NoError(t, err)

	files, err := NewGenerator(templates.NewGoBackend()).GeneratePackage(context.Background(), metadata)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "Seeder", files[0].Interface)
	assert.Contains(t, files[0].Content, `"math/rand"`)
	assert.NotContains(t, files[0].Content, `"crypto/rand"`)
	assert.NotContains(t, files[1].Content, `"math/rand"`)
}

func hasCode(err error, code errors.ErrorCode) bool {
	var multi *errors.MultipleErrors
	return stderrors.As(err, &multi) && multi.HasCode(code)
}

func TestGeneratePackage_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, err := NewGenerator(templates.NewGoBackend()).GeneratePackage(ctx, parseGo(t))
	require.Error(t, err)
	assert.Empty(t, files)
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestGeneratePackage_NilMetadata(t *testing.T) {
	_, err := NewGenerator(templates.NewGoBackend()).GeneratePackage(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewGeneratorFor_Unknown(t *testing.T) {
	_, err := NewGeneratorFor("cobol")
	require.Error(t, err)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))
}
