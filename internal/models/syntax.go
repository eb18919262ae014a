package models

import "fmt"

// Position locates a declaration or member in its source file
type Position struct {
	File   string
	Line   int
	Column int
}

// String returns file:line:column, omitting what is unknown
func (p Position) String() string {
	switch {
	case p.File == "":
		return "unknown location"
	case p.Line == 0:
		return p.File
	case p.Column == 0:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
}

// DeclKind is the kind of a top-level declaration handed to the extractor
type DeclKind int

const (
	DeclOther DeclKind = iota
	DeclInterface
	DeclStruct
	DeclFunc
)

func (k DeclKind) String() string {
	switch k {
	case DeclInterface:
		return "interface"
	case DeclStruct:
		return "struct"
	case DeclFunc:
		return "function"
	default:
		return "declaration"
	}
}

// Decl is the read-only view of a parsed declaration. Both front-ends
// produce it; nothing downstream looks at the host syntax tree.
type Decl interface {
	Kind() DeclKind
	Name() string
	Members() []Member
	Pos() Position
}

// Member is one direct member of a declaration. The set of implementations
// is closed: PropertySyntax, MethodSyntax and UnsupportedSyntax.
type Member interface {
	MemberName() string
	Location() Position
	isMember()
}

// PropertySyntax is a typed, named property
type PropertySyntax struct {
	Name string
	Type TypeRef
	At   Position
}

// ParamSyntax is one parameter as written. FirstName is the external label,
// SecondName the optional distinct internal name.
type ParamSyntax struct {
	FirstName  string
	SecondName string
	Type       TypeRef
	Variadic   bool
}

// MethodSyntax is a method as written. Results holds the non-error results;
// the error result, if any, is reflected by Throws.
type MethodSyntax struct {
	Name    string
	Params  []ParamSyntax
	Async   bool
	Throws  bool
	Results []TypeRef
	At      Position
}

// UnsupportedSyntax is a member that is neither a property nor a method,
// such as an embedded interface or a type union
type UnsupportedSyntax struct {
	Text string
	At   Position
}

func (p *PropertySyntax) MemberName() string    { return p.Name }
func (p *PropertySyntax) Location() Position    { return p.At }
func (*PropertySyntax) isMember()               {}
func (m *MethodSyntax) MemberName() string      { return m.Name }
func (m *MethodSyntax) Location() Position      { return m.At }
func (*MethodSyntax) isMember()                 {}
func (u *UnsupportedSyntax) MemberName() string { return u.Text }
func (u *UnsupportedSyntax) Location() Position { return u.At }
func (*UnsupportedSyntax) isMember()            {}

// DeclNode is the plain Decl implementation used by the front-ends
type DeclNode struct {
	DeclKind   DeclKind
	DeclName   string
	MemberList []Member
	Position   Position
}

func (d *DeclNode) Kind() DeclKind    { return d.DeclKind }
func (d *DeclNode) Name() string      { return d.DeclName }
func (d *DeclNode) Members() []Member { return d.MemberList }
func (d *DeclNode) Pos() Position     { return d.Position }
