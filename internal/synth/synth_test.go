package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synapse/internal/models"
)

func ref(expr string) *models.TypeRef { return &models.TypeRef{Expr: expr} }

func param(label, name, typ string) models.ParameterSpec {
	return models.ParameterSpec{ExternalLabel: label, InternalName: name, Type: models.TypeRef{Expr: typ}}
}

func whisper() *models.InterfaceDecl {
	return &models.InterfaceDecl{
		Name: "Whisper",
		Properties: []models.PropertySpec{
			{Name: "modelPath", Type: models.TypeRef{Expr: "string"}},
			{Name: "threads", Type: models.TypeRef{Expr: "int"}},
		},
		Methods: []models.MethodSpec{
			{Name: "reset"},
			{Name: "initWhisper", Parameters: []models.ParameterSpec{param("_", "config", "ModelConfig")}, ReturnType: ref("Buffers")},
			{Name: "getLang", Parameters: []models.ParameterSpec{
				param("buffers", "b", "Buffers"),
				param("timeout", "timeout", "time.Duration"),
				param("_", "arg2", "bool"),
			}, IsAsync: true, IsFallible: true, ReturnType: ref("int32")},
			{Name: "flush", ReturnType: ref("Void")},
		},
	}
}

func TestPack(t *testing.T) {
	tests := []struct {
		name   string
		params []models.ParameterSpec
		want   Payload
	}{
		{"none", nil, Payload{Kind: PayloadNone}},
		{"single", []models.ParameterSpec{param("_", "config", "C")}, Payload{Kind: PayloadSingle, Args: []string{"config"}}},
		{"tuple", []models.ParameterSpec{
			param("a", "x", "int"),
			param("b", "y", "int"),
			param("c", "z", "int"),
		}, Payload{Kind: PayloadTuple, Args: []string{"x", "y", "z"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pack(tt.params))
		})
	}
}

func TestClient_Shape(t *testing.T) {
	decl := whisper()
	client := Client(decl)

	assert.Equal(t, "WhisperClient", client.Name)
	assert.Equal(t, ValueType, client.Kind)
	assert.True(t, client.Conforms)
	assert.Nil(t, client.Register)

	fields := client.Fields()
	require.Len(t, fields, len(decl.Properties)+1)
	assert.Equal(t, ConnectionField, fields[0].Name)
	assert.Equal(t, "modelPath", fields[1].Name)
	assert.Equal(t, "threads", fields[2].Name)
	assert.Equal(t, fields, client.Init.Params)

	require.Len(t, client.Methods, len(decl.Methods))
	for i, m := range client.Methods {
		assert.Equal(t, decl.Methods[i].Name, m.Name)
		assert.True(t, m.Async, "%s must be upgraded to async", m.Name)
		assert.True(t, m.Fallible, "%s must be upgraded to fallible", m.Name)
		assert.False(t, m.Peer)
		require.Len(t, m.Body, 1)
	}
}

func TestClient_ForwardingBodies(t *testing.T) {
	client := Client(whisper())

	reset := client.Methods[0].Body[0].(*SendStmt)
	assert.Equal(t, "reset", reset.Message)
	assert.Equal(t, PayloadNone, reset.Payload.Kind)
	assert.Nil(t, reset.Result)
	assert.Nil(t, client.Methods[0].Result)

	initCall := client.Methods[1].Body[0].(*SendStmt)
	assert.Equal(t, Payload{Kind: PayloadSingle, Args: []string{"config"}}, initCall.Payload)
	require.NotNil(t, initCall.Result)
	assert.Equal(t, "Buffers", initCall.Result.Expr)

	lang := client.Methods[2].Body[0].(*SendStmt)
	assert.Equal(t, Payload{Kind: PayloadTuple, Args: []string{"b", "timeout", "arg2"}}, lang.Payload)
	assert.Equal(t, "int32", lang.Result.Expr)

	flush := client.Methods[3].Body[0].(*SendStmt)
	assert.Nil(t, flush.Result, "an explicit Void return is executed for effect only")
	assert.Nil(t, client.Methods[3].Result)
}

func TestServer_Shape(t *testing.T) {
	decl := whisper()
	server := Server(decl)

	assert.Equal(t, "WhisperServer", server.Name)
	assert.Equal(t, OpenType, server.Kind)

	fields := server.Fields()
	require.Len(t, fields, len(decl.Properties)+1)
	assert.Equal(t, ListenerField, fields[0].Name)
	assert.Equal(t, "modelPath", fields[1].Name)

	require.Len(t, server.Methods, len(decl.Methods))
	for i, m := range server.Methods {
		assert.True(t, m.Peer)
		assert.True(t, m.Async)
		assert.True(t, m.Fallible)
		assert.Len(t, m.Params, len(decl.Methods[i].Parameters))
		stub := m.Body[0].(*NotImplementedStmt)
		assert.Equal(t, decl.Methods[i].Name, stub.Message)
	}

	require.NotNil(t, server.Register)
	assert.Equal(t, RegistrationMethod, server.Register.Name)
	assert.Empty(t, server.Register.Params)
	require.Len(t, server.Register.Body, len(decl.Methods))
	for i, s := range server.Register.Body {
		reg := s.(*RegisterStmt)
		assert.Equal(t, decl.Methods[i].Name, reg.Message)
		assert.Equal(t, decl.Methods[i].Name, reg.Handler)
	}
}

func TestMessageNamesAgree(t *testing.T) {
	decl := whisper()
	client := Client(decl)
	server := Server(decl)

	assert.Equal(t, []string{"reset", "initWhisper", "getLang", "flush"}, client.Messages())
	assert.Equal(t, client.Messages(), server.Messages())
}

func TestSynthesisIsDeterministic(t *testing.T) {
	decl := whisper()
	assert.Equal(t, Client(decl), Client(decl))
	assert.Equal(t, Server(decl), Server(decl))
}

func TestEmptyInterface(t *testing.T) {
	decl := &models.InterfaceDecl{Name: "Empty"}

	client := Client(decl)
	assert.Len(t, client.Fields(), 1)
	assert.Empty(t, client.Methods)

	server := Server(decl)
	assert.Len(t, server.Fields(), 1)
	assert.Empty(t, server.Register.Body)
}
