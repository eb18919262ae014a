package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/synapse/internal/models"
)

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Whisper":    "whisper",
		"getLang":    "get_lang",
		"HTTPServer": "http_server",
		"already":    "already",
		"":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, SnakeCase(in), "SnakeCase(%q)", in)
	}
}

func TestCapitalizeAndLowerFirst(t *testing.T) {
	assert.Equal(t, "InitWhisper", Capitalize("initWhisper"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "modelPath", LowerFirst("ModelPath"))
	assert.Equal(t, "", LowerFirst(""))
}

func TestConstructorName(t *testing.T) {
	assert.Equal(t, "NewWhisperClient", ConstructorName("WhisperClient"))
	assert.Equal(t, "newWhisperServer", ConstructorName("whisperServer"))
}

func TestIdentScope(t *testing.T) {
	scope := newIdentScope("ctx", "c")

	assert.Equal(t, "ctx_", scope.claim("ctx"))
	assert.Equal(t, "c_", scope.claim("c"))
	assert.Equal(t, "type_", scope.claim("type"))
	assert.Equal(t, "name", scope.claim("name"))
	assert.Equal(t, "name_", scope.claim("name"))
	assert.Equal(t, "ctx__", scope.claim("ctx"))
}

func TestImportManager(t *testing.T) {
	im := NewImportManager()
	im.AddImport("context")
	im.AddImport(RuntimeImport)
	im.AddModelImports([]models.Import{
		{Path: "time"},
		{Name: "audio", Path: "example.com/whisper/audio/v2"},
		{Name: "_", Path: "embed"},
		{Name: ".", Path: "strings"},
		{Path: "context"},
	})

	assert.Equal(t, 4, im.Count())
	assert.Equal(t, []string{
		`"context"`,
		`"time"`,
		"",
		`audio "example.com/whisper/audio/v2"`,
		`"github.com/toyz/synapse/pkg/synapse"`,
	}, im.Lines())
}

func TestImportManager_OnlyStandardLibrary(t *testing.T) {
	im := NewImportManager()
	im.AddImport("context")
	im.AddImport("")
	assert.Equal(t, []string{`"context"`}, im.Lines())
}

func TestTemplateRegistry(t *testing.T) {
	registry := NewTemplateRegistry()
	for _, name := range []string{"header", "interface", "client", "handler", "server"} {
		_, ok := registry.Get(name)
		assert.True(t, ok, "template %s", name)
	}
	assert.ElementsMatch(t, []string{"header", "interface", "client", "handler", "server"}, registry.Names())
	assert.Panics(t, func() { registry.MustGet("missing") })
}
