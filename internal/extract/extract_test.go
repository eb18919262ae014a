package extract

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/models"
)

func ref(expr string) models.TypeRef { return models.TypeRef{Expr: expr} }

func TestExtract_PropertiesAndMethodsInOrder(t *testing.T) {
	decl := &models.DeclNode{
		DeclKind: models.DeclInterface,
		DeclName: "Sample",
		MemberList: []models.Member{
			&models.PropertySyntax{Name: "a", Type: ref("Int")},
			&models.MethodSyntax{Name: "f", Results: []models.TypeRef{ref("Void")}},
			&models.PropertySyntax{Name: "b", Type: ref("String")},
			&models.MethodSyntax{
				Name:    "g",
				Params:  []models.ParamSyntax{{FirstName: "x", Type: ref("Int")}},
				Results: []models.TypeRef{ref("Int")},
			},
		},
	}

	out, err := Extract(decl)
	require.NoError(t, err)

	assert.Equal(t, "Sample", out.Name)
	assert.Equal(t, []models.PropertySpec{
		{Name: "a", Type: ref("Int")},
		{Name: "b", Type: ref("String")},
	}, out.Properties)

	require.Len(t, out.Methods, 2)
	assert.Equal(t, "f", out.Methods[0].Name)
	assert.False(t, out.Methods[0].HasReturn())
	assert.Empty(t, out.Methods[0].Parameters)

	assert.Equal(t, "g", out.Methods[1].Name)
	assert.True(t, out.Methods[1].HasReturn())
	require.Len(t, out.Methods[1].Parameters, 1)
	assert.Equal(t, models.ParameterSpec{ExternalLabel: "x", InternalName: "x", Type: ref("Int")}, out.Methods[1].Parameters[0])
}

func TestExtract_EffectsAreCarried(t *testing.T) {
	decl := &models.DeclNode{
		DeclKind: models.DeclInterface,
		DeclName: "Effects",
		MemberList: []models.Member{
			&models.MethodSyntax{Name: "plain"},
			&models.MethodSyntax{Name: "both", Async: true, Throws: true},
		},
	}

	out, err := Extract(decl)
	require.NoError(t, err)
	assert.False(t, out.Methods[0].IsAsync)
	assert.False(t, out.Methods[0].IsFallible)
	assert.Nil(t, out.Methods[0].ReturnType)
	assert.True(t, out.Methods[1].IsAsync)
	assert.True(t, out.Methods[1].IsFallible)
}

func TestExtract_ParameterNaming(t *testing.T) {
	tests := []struct {
		name     string
		param    models.ParamSyntax
		index    int
		label    string
		internal string
	}{
		{"label only", models.ParamSyntax{FirstName: "count"}, 0, "count", "count"},
		{"label and name", models.ParamSyntax{FirstName: "buffers", SecondName: "b"}, 0, "buffers", "b"},
		{"anonymous with name", models.ParamSyntax{FirstName: "_", SecondName: "config"}, 0, "_", "config"},
		{"anonymous alone", models.ParamSyntax{FirstName: "_"}, 2, "_", "arg2"},
		{"unnamed", models.ParamSyntax{}, 1, "_", "arg1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parameter(tt.index, tt.param)
			assert.Equal(t, tt.label, got.ExternalLabel)
			assert.Equal(t, tt.internal, got.InternalName)
		})
	}
}

func TestExtract_NotAnInterface(t *testing.T) {
	decl := &models.DeclNode{
		DeclKind: models.DeclStruct,
		DeclName: "Config",
		Position: models.Position{File: "config.go", Line: 12},
	}

	out, err := Extract(decl)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNotAnInterface))
	assert.Equal(t, errors.NotAnInterfaceCode, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "config.go:12")
	assert.Contains(t, err.Error(), "Config is a struct")
}

func TestExtract_NilDecl(t *testing.T) {
	_, err := Extract(nil)
	assert.True(t, stderrors.Is(err, errors.ErrNotAnInterface))
}

func TestExtract_UnsupportedShapes(t *testing.T) {
	tests := []struct {
		name   string
		member models.Member
		want   error
	}{
		{
			name:   "embedded interface",
			member: &models.UnsupportedSyntax{Text: "io.Reader"},
			want:   errors.ErrUnsupportedMember,
		},
		{
			name:   "two results",
			member: &models.MethodSyntax{Name: "pair", Results: []models.TypeRef{ref("int"), ref("string")}},
			want:   errors.ErrUnsupportedSignature,
		},
		{
			name: "variadic",
			member: &models.MethodSyntax{Name: "many", Params: []models.ParamSyntax{
				{FirstName: "xs", Type: ref("int"), Variadic: true},
			}},
			want: errors.ErrUnsupportedSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := &models.DeclNode{
				DeclKind:   models.DeclInterface,
				DeclName:   "Bad",
				MemberList: []models.Member{tt.member},
			}
			_, err := Extract(decl)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	decl := &models.DeclNode{
		DeclKind: models.DeclInterface,
		DeclName: "Again",
		MemberList: []models.Member{
			&models.PropertySyntax{Name: "p", Type: ref("string")},
			&models.MethodSyntax{Name: "m", Params: []models.ParamSyntax{{FirstName: "a", Type: ref("int")}}},
		},
	}

	first, err := Extract(decl)
	require.NoError(t, err)
	second, err := Extract(decl)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
