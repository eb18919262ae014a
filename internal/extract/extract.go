// Package extract turns a parsed interface declaration into the ordered
// property and method metadata consumed by the synthesizers.
package extract

import (
	"fmt"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/models"
)

// Extract classifies the direct members of decl. Member order is preserved
// exactly; nothing is filtered, merged or reordered.
func Extract(decl models.Decl) (*models.InterfaceDecl, error) {
	if decl == nil {
		return nil, errors.NotAnInterface("<nil>", models.DeclOther.String())
	}
	if decl.Kind() != models.DeclInterface {
		return nil, errors.NotAnInterface(decl.Name(), decl.Kind().String()).
			WithLocation(location(decl.Pos()))
	}

	out := &models.InterfaceDecl{
		Name:       decl.Name(),
		Properties: make([]models.PropertySpec, 0),
		Methods:    make([]models.MethodSpec, 0),
		Pos:        decl.Pos(),
	}

	for _, member := range decl.Members() {
		switch m := member.(type) {
		case *models.PropertySyntax:
			out.Properties = append(out.Properties, models.PropertySpec{
				Name: m.Name,
				Type: m.Type,
			})
		case *models.MethodSyntax:
			spec, err := method(decl.Name(), m)
			if err != nil {
				return nil, err
			}
			out.Methods = append(out.Methods, spec)
		case *models.UnsupportedSyntax:
			return nil, errors.UnsupportedMember(decl.Name(), m.Text).
				WithLocation(location(m.At))
		default:
			return nil, errors.UnsupportedMember(decl.Name(), fmt.Sprintf("%T", member))
		}
	}

	return out, nil
}

func method(iface string, m *models.MethodSyntax) (models.MethodSpec, error) {
	if len(m.Results) > 1 {
		return models.MethodSpec{}, errors.UnsupportedSignature(iface, m.Name,
			fmt.Sprintf("%d results besides error, at most one is allowed", len(m.Results))).
			WithLocation(location(m.At)).
			WithSuggestion("Return a struct that groups the values")
	}

	spec := models.MethodSpec{
		Name:       m.Name,
		Parameters: make([]models.ParameterSpec, 0, len(m.Params)),
		IsAsync:    m.Async,
		IsFallible: m.Throws,
	}

	for i, p := range m.Params {
		if p.Variadic {
			return models.MethodSpec{}, errors.UnsupportedSignature(iface, m.Name,
				"variadic parameters cannot be packed into a request payload").
				WithLocation(location(m.At)).
				WithSuggestion("Take a slice parameter instead")
		}
		spec.Parameters = append(spec.Parameters, parameter(i, p))
	}

	if len(m.Results) == 1 {
		result := m.Results[0]
		spec.ReturnType = &result
	}

	return spec, nil
}

// parameter resolves the external label and internal name. The internal
// name is the second name when present, else the label; an anonymous label
// without a second name gets a positional name so generated bodies can
// refer to the value.
func parameter(index int, p models.ParamSyntax) models.ParameterSpec {
	label := p.FirstName
	if label == "" {
		label = models.AnonymousLabel
	}
	internal := p.SecondName
	if internal == "" {
		internal = label
	}
	if internal == models.AnonymousLabel {
		internal = fmt.Sprintf("arg%d", index)
	}
	return models.ParameterSpec{
		ExternalLabel: label,
		InternalName:  internal,
		Type:          p.Type,
	}
}

func location(p models.Position) errors.SourceLocation {
	return errors.SourceLocation{File: p.File, Line: p.Line, Column: p.Column}
}
