// Package templates is the Go back-end: it renders synthesized client and
// server declarations as Go source.
package templates

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/render"
	"github.com/toyz/synapse/internal/synth"
	"github.com/toyz/synapse/internal/utils"
)

const (
	// RuntimeImport is the package generated code compiles against
	RuntimeImport = "github.com/toyz/synapse/pkg/synapse"

	// FileSuffix is appended to the snake-cased interface name
	FileSuffix = "_synapse.go"

	runtimePkg = "synapse"
)

// GoBackend implements render.Backend for Go output.
type GoBackend struct {
	registry *TemplateRegistry
}

// NewGoBackend creates the Go back-end
func NewGoBackend() *GoBackend {
	return &GoBackend{registry: NewTemplateRegistry()}
}

// Metadata returns information about this back-end.
func (g *GoBackend) Metadata() render.Metadata {
	return render.Metadata{
		Name:        "go",
		Description: "Go client and server stubs over pkg/synapse",
		FileSuffix:  FileSuffix,
	}
}

// FileName returns the output file name for an interface
func FileName(iface string) string {
	return SnakeCase(iface) + FileSuffix
}

// Render produces a formatted Go file for unit.
func (g *GoBackend) Render(ctx context.Context, unit *render.Unit) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if unit.Interface == nil {
		return nil, errors.New(errors.GenerationErrorCode, "render unit has no interface")
	}

	data, err := g.fileData(unit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := g.execute(&buf, "header", data); err != nil {
		return nil, err
	}
	if data.Interface != nil {
		if err := g.execute(&buf, "interface", data.Interface); err != nil {
			return nil, err
		}
	}
	if data.Client != nil {
		if err := g.execute(&buf, "client", data.Client); err != nil {
			return nil, err
		}
	}
	if data.Server != nil {
		if err := g.execute(&buf, "handler", data.Server); err != nil {
			return nil, err
		}
		if err := g.execute(&buf, "server", data.Server); err != nil {
			return nil, err
		}
	}

	fileName := unit.FileName
	if fileName == "" {
		fileName = FileName(unit.Interface.Name)
	}
	formatted, err := utils.FormatGoCode(fileName, buf.Bytes())
	if err != nil {
		return nil, errors.WrapGenerateError("go", fileName, err).
			WithContext("source", buf.String())
	}
	return formatted, nil
}

func (g *GoBackend) execute(buf *bytes.Buffer, name string, data interface{}) error {
	funcMap := template.FuncMap{
		"params": paramList,
	}
	tmpl, err := template.New(name).Funcs(funcMap).Parse(g.registry.MustGet(name))
	if err != nil {
		return errors.WrapTemplateError(name, "parse", err)
	}
	if err := tmpl.Execute(buf, data); err != nil {
		return errors.WrapTemplateError(name, "execute", err)
	}
	return nil
}

// FileData is the view of one output file handed to the templates
type FileData struct {
	Source    string
	Package   string
	Imports   []string
	Interface *InterfaceData
	Client    *TypeData
	Server    *TypeData
}

// InterfaceData is the view of an emitted interface
type InterfaceData struct {
	Name    string
	Methods []MethodData
}

// TypeData is the view of a synthesized client or server type
type TypeData struct {
	Name          string
	Interface     string
	Handler       string
	Constructor   string
	Receiver      string
	Listener      string
	Register      string
	Conforms      bool
	Fields        []FieldData
	Methods       []MethodData
	Registrations []RegistrationData
}

// FieldData is one struct field and the constructor parameter assigning it
type FieldData struct {
	Name  string
	Param string
	Type  string
}

// MethodData is one rendered method
type MethodData struct {
	Name      string
	Message   string
	Signature string
	Body      string
}

// RegistrationData pairs a quoted message name with a handler method
type RegistrationData struct {
	Message string
	Method  string
}

func (g *GoBackend) fileData(unit *render.Unit) (*FileData, error) {
	im := NewImportManager()
	im.AddImport("context")
	im.AddImport(RuntimeImport)
	im.AddModelImports(unit.Imports)

	data := &FileData{
		Source:  unit.Source,
		Package: unit.Package,
		Imports: im.Lines(),
	}

	if unit.EmitInterface {
		iface := &InterfaceData{Name: unit.Interface.Name}
		// The emitted contract carries the same upgraded signatures as the client
		shape := synth.Client(unit.Interface)
		members := newMemberSet(unit.Interface.Name)
		for _, m := range shape.Methods {
			md := methodData(m, unit.Exported, "")
			if err := members.claim(md.Name, m.Name, "method"); err != nil {
				return nil, err
			}
			iface.Methods = append(iface.Methods, md)
		}
		data.Interface = iface
	}

	if unit.Client != nil {
		client, err := typeData(unit.Client, unit.Exported, "c")
		if err != nil {
			return nil, err
		}
		data.Client = client
	}
	if unit.Server != nil {
		server, err := typeData(unit.Server, unit.Exported, "s")
		if err != nil {
			return nil, err
		}
		data.Server = server
	}
	return data, nil
}

func typeData(decl *synth.TypeDecl, exported bool, receiver string) (*TypeData, error) {
	out := &TypeData{
		Name:        decl.Name,
		Interface:   decl.Interface,
		Handler:     decl.Interface + "Handler",
		Constructor: ConstructorName(decl.Name),
		Receiver:    receiver,
		Listener:    decl.Handle.Name,
		Conforms:    decl.Conforms,
	}

	params := newIdentScope()
	members := newMemberSet(decl.Name)
	for i, f := range decl.Fields() {
		name := f.Name
		typ := f.Type.Expr
		if i == 0 {
			typ = runtimePkg + "." + typ
		} else if exported {
			name = Capitalize(name)
		}
		kind := "property"
		if i == 0 {
			kind = "field"
		}
		if err := members.claim(name, f.Name, kind); err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, FieldData{
			Name:  name,
			Param: params.claim(LowerFirst(name)),
			Type:  typ,
		})
	}

	if decl.Register != nil {
		out.Register = Capitalize(decl.Register.Name)
		if err := members.claim(out.Register, decl.Register.Name, "registration method"); err != nil {
			return nil, err
		}
	}

	for _, m := range decl.Methods {
		md := methodData(m, exported, receiver)
		if err := members.claim(md.Name, m.Name, "method"); err != nil {
			return nil, err
		}
		out.Methods = append(out.Methods, md)
	}

	if decl.Register != nil {
		for _, s := range decl.Register.Body {
			reg, ok := s.(*synth.RegisterStmt)
			if !ok {
				return nil, errors.Newf(errors.GenerationErrorCode,
					"%s: unexpected %T in registration body", decl.Name, s)
			}
			out.Registrations = append(out.Registrations, RegistrationData{
				Message: strconv.Quote(reg.Message),
				Method:  goName(reg.Handler, exported),
			})
		}
	}
	return out, nil
}

// methodData renders the signature and body of m. receiver is empty for
// interface methods, which have no body.
func methodData(m synth.Method, exported bool, receiver string) MethodData {
	scope := newIdentScope("ctx", "peer", "impl", runtimePkg, "context")
	if receiver != "" {
		scope.claim(receiver)
	}

	names := make([]string, len(m.Params))
	var params []string
	if m.Async {
		params = append(params, "ctx context.Context")
	}
	if m.Peer {
		params = append(params, "peer "+runtimePkg+".Peer")
	}
	for i, p := range m.Params {
		names[i] = scope.claim(p.Name)
		params = append(params, names[i]+" "+p.Type.Expr)
	}

	var sig strings.Builder
	sig.WriteString("(" + strings.Join(params, ", ") + ")")
	switch {
	case m.Result != nil && m.Fallible:
		sig.WriteString(" (" + m.Result.Expr + ", error)")
	case m.Result != nil:
		sig.WriteString(" " + m.Result.Expr)
	case m.Fallible:
		sig.WriteString(" error")
	}

	out := MethodData{
		Name:      goName(m.Name, exported),
		Message:   strconv.Quote(m.Name),
		Signature: sig.String(),
	}
	if receiver != "" && len(m.Body) > 0 {
		out.Body = body(m.Body[0], names, receiver)
	}
	return out
}

func body(stmt synth.Stmt, args []string, receiver string) string {
	switch s := stmt.(type) {
	case *synth.SendStmt:
		payload := payloadExpr(s.Payload, args)
		if s.Result != nil {
			return fmt.Sprintf("return %s.Call[%s](ctx, %s.%s, %s, %s)",
				runtimePkg, s.Result.Expr, receiver, synth.ConnectionField, strconv.Quote(s.Message), payload)
		}
		return fmt.Sprintf("return %s.%s.SendMessage(ctx, %s, %s, nil)",
			receiver, synth.ConnectionField, strconv.Quote(s.Message), payload)
	case *synth.NotImplementedStmt:
		return fmt.Sprintf("panic(%s.NotImplemented(%s))", runtimePkg, strconv.Quote(s.Message))
	default:
		return fmt.Sprintf("panic(%q)", fmt.Sprintf("unsupported statement %T", stmt))
	}
}

// payloadExpr refers to arguments by their renamed identifiers. Payload.Args
// is positional, so index i always names parameter i.
func payloadExpr(p synth.Payload, args []string) string {
	switch p.Kind {
	case synth.PayloadSingle:
		return args[0]
	case synth.PayloadTuple:
		return runtimePkg + ".Tuple{" + strings.Join(args, ", ") + "}"
	default:
		return "nil"
	}
}

func goName(name string, exported bool) string {
	if exported {
		return Capitalize(name)
	}
	return name
}

func paramList(fields []FieldData) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Param + " " + f.Type
	}
	return strings.Join(parts, ", ")
}
