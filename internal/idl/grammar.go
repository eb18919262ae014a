package idl

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

var contractLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(.|\n)*?\*/`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Ellipsis", Pattern: `\.\.\.`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[{}()\[\]:,.*;]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// contract is one .synapse file
type contract struct {
	Pos     lexer.Position
	Package string         `parser:"'package' @Ident ';'?"`
	Imports []*importSpec  `parser:"@@*"`
	Decls   []*declaration `parser:"@@*"`
}

type importSpec struct {
	Name string `parser:"'import' @Ident?"`
	Path string `parser:"@String ';'?"`
}

type declaration struct {
	Interface *interfaceBlock `parser:"  @@"`
	Struct    *structBlock    `parser:"| @@"`
}

// interfaceBlock is an interface, optionally restricted to one side with
// a leading client or server marker
type interfaceBlock struct {
	Pos     lexer.Position
	Markers []string  `parser:"@('client' | 'server')*"`
	Name    string    `parser:"'interface' @Ident '{'"`
	Members []*member `parser:"@@* '}'"`
}

type structBlock struct {
	Pos    lexer.Position
	Name   string      `parser:"'struct' @Ident '{'"`
	Fields []*property `parser:"@@* '}'"`
}

type member struct {
	Property *property `parser:"  @@"`
	Method   *method   `parser:"| @@"`
	Embedded *embedded `parser:"| @@"`
}

type property struct {
	Pos  lexer.Position
	Name string    `parser:"'var' @Ident ':'"`
	Type *typeExpr `parser:"@@ ';'?"`
}

type method struct {
	Pos    lexer.Position
	Name   string    `parser:"'func' @Ident '('"`
	Params []*param  `parser:"( @@ ( ',' @@ )* )? ')'"`
	Async  bool      `parser:"@'async'?"`
	Throws bool      `parser:"@'throws'?"`
	Result *typeExpr `parser:"( Arrow @@ )? ';'?"`
}

// param is "label [name]: [...]Type"
type param struct {
	Label    string    `parser:"@Ident"`
	Name     string    `parser:"@Ident? ':'"`
	Variadic bool      `parser:"@Ellipsis?"`
	Type     *typeExpr `parser:"@@"`
}

// embedded is any other member, kept so extraction can reject it by name
type embedded struct {
	Pos  lexer.Position
	Type *typeExpr `parser:"@@ ';'?"`
}

type typeExpr struct {
	Pointer *typeExpr  `parser:"  '*' @@"`
	Slice   *typeExpr  `parser:"| '[' ']' @@"`
	Map     *mapType   `parser:"| @@"`
	Unit    bool       `parser:"| @( '(' ')' )"`
	Named   *namedType `parser:"| @@"`
}

type mapType struct {
	Key   *typeExpr `parser:"'map' '[' @@ ']'"`
	Value *typeExpr `parser:"@@"`
}

type namedType struct {
	Parts []string `parser:"@Ident ( '.' @Ident )*"`
}

// String renders the type as Go source
func (t *typeExpr) String() string {
	switch {
	case t == nil:
		return ""
	case t.Pointer != nil:
		return "*" + t.Pointer.String()
	case t.Slice != nil:
		return "[]" + t.Slice.String()
	case t.Map != nil:
		return "map[" + t.Map.Key.String() + "]" + t.Map.Value.String()
	case t.Unit:
		return "()"
	case t.Named != nil:
		return strings.Join(t.Named.Parts, ".")
	}
	return ""
}
