package synth

import "github.com/toyz/synapse/internal/models"

// ServerSuffix is appended to the interface name for the server type
const ServerSuffix = "Server"

// Server synthesizes the extensible server base for decl. Every stub fails
// fatally until overridden; the registration routine wires each method under
// its declared name.
func Server(decl *models.InterfaceDecl) *TypeDecl {
	out := &TypeDecl{
		Name:       decl.Name + ServerSuffix,
		Kind:       OpenType,
		Interface:  decl.Name,
		Handle:     Field{Name: ListenerField, Type: models.TypeRef{Expr: "Listener"}},
		Properties: propertyFields(decl.Properties),
		Methods:    make([]Method, 0, len(decl.Methods)),
	}
	out.Init = Initializer{Params: out.Fields()}

	register := &Method{Name: RegistrationMethod}
	for _, m := range decl.Methods {
		var result *models.TypeRef
		if m.HasReturn() {
			r := *m.ReturnType
			result = &r
		}
		out.Methods = append(out.Methods, Method{
			Name:     m.Name,
			Peer:     true,
			Params:   params(m.Parameters),
			Async:    true,
			Fallible: true,
			Result:   result,
			Body:     []Stmt{&NotImplementedStmt{Message: m.Name}},
		})
		register.Body = append(register.Body, &RegisterStmt{Message: m.Name, Handler: m.Name})
	}
	out.Register = register

	return out
}
