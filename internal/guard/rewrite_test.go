package guard

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synapse/internal/errors"
)

const engineSource = `package engine

type Engine struct {
	initialized bool
	ready       bool
}

//synapse::checkinit ErrNotInitialized
func (e *Engine) Transcribe(path string) (string, error) {
	return path, nil
}

// Reset clears state.
//
//synapse::checkinit ErrNotReady -Flag=ready
func (e *Engine) Reset() {
	e.ready = false
}

func (e *Engine) Untouched() error {
	return nil
}
`

func TestRewriteSource(t *testing.T) {
	result, err := RewriteSource("engine.go", []byte(engineSource))
	require.NoError(t, err)

	assert.True(t, result.Changed())
	assert.Equal(t, []string{"Engine.Transcribe", "Engine.Reset"}, result.Applied)

	out := string(result.Source)
	assert.Contains(t, out, "if !e.initialized {\n\t\treturn \"\", ErrNotInitialized\n\t}")
	assert.Contains(t, out, "if !e.ready {\n\t\tpanic(ErrNotReady)\n\t}")
	assert.Contains(t, out, "func (e *Engine) Untouched() error {\n\treturn nil\n}")
	assert.Contains(t, out, "//synapse::checkinit ErrNotInitialized")
}

func TestRewriteSource_Idempotent(t *testing.T) {
	first, err := RewriteSource("engine.go", []byte(engineSource))
	require.NoError(t, err)

	second, err := RewriteSource("engine.go", first.Source)
	require.NoError(t, err)
	assert.Equal(t, string(first.Source), string(second.Source))
	assert.False(t, second.Changed())
	assert.Equal(t, []string{"Engine.Transcribe", "Engine.Reset"}, second.Present)
}

func TestRewriteSource_IsolatesFailures(t *testing.T) {
	src := `package engine

//synapse::checkinit ErrNotInitialized
type Engine struct{}

//synapse::checkinit ErrNotInitialized
func (e *Engine) Run() error {
	return nil
}
`
	result, err := RewriteSource("engine.go", []byte(src))
	require.Error(t, err)
	require.NotNil(t, result)

	assert.True(t, stderrors.Is(err, errors.ErrNotAFunction))
	assert.Contains(t, err.Error(), "engine.go:3")
	assert.Equal(t, []string{"Engine.Run"}, result.Applied)
	assert.Contains(t, string(result.Source), "if !e.initialized {")
}

func TestRewriteSource_NoChanges(t *testing.T) {
	result, err := RewriteSource("plain.go", []byte("package plain\n\nfunc f() {}\n"))
	require.NoError(t, err)
	assert.False(t, result.Changed())
}

func TestRewriteSource_ParseError(t *testing.T) {
	_, err := RewriteSource("broken.go", []byte("package"))
	require.Error(t, err)
	assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))
}
