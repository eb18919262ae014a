package synth

import "github.com/toyz/synapse/internal/models"

// ClientSuffix is appended to the interface name for the client type
const ClientSuffix = "Client"

// Client synthesizes the forwarding proxy for decl
func Client(decl *models.InterfaceDecl) *TypeDecl {
	out := &TypeDecl{
		Name:       decl.Name + ClientSuffix,
		Kind:       ValueType,
		Interface:  decl.Name,
		Conforms:   true,
		Handle:     Field{Name: ConnectionField, Type: models.TypeRef{Expr: "Connection"}},
		Properties: propertyFields(decl.Properties),
		Methods:    make([]Method, 0, len(decl.Methods)),
	}
	out.Init = Initializer{Params: out.Fields()}

	for _, m := range decl.Methods {
		var result *models.TypeRef
		if m.HasReturn() {
			r := *m.ReturnType
			result = &r
		}
		out.Methods = append(out.Methods, Method{
			Name:     m.Name,
			Params:   params(m.Parameters),
			Async:    true,
			Fallible: true,
			Result:   result,
			Body: []Stmt{&SendStmt{
				Message: m.Name,
				Payload: Pack(m.Parameters),
				Result:  result,
			}},
		})
	}

	return out
}

func propertyFields(props []models.PropertySpec) []Field {
	fields := make([]Field, len(props))
	for i, p := range props {
		fields[i] = Field{Name: p.Name, Type: p.Type}
	}
	return fields
}

func params(specs []models.ParameterSpec) []Param {
	out := make([]Param, len(specs))
	for i, p := range specs {
		out[i] = Param{Label: p.ExternalLabel, Name: p.InternalName, Type: p.Type}
	}
	return out
}
