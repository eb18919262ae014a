// Package guard prepends an initialization check to existing function bodies.
package guard

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"

	"github.com/toyz/synapse/internal/errors"
)

// DefaultFlag is the boolean checked when no flag is named
const DefaultFlag = "initialized"

// Guard describes the check to insert
type Guard struct {
	Flag    string   // boolean field on the receiver, or a package-level variable for plain functions
	Failure ast.Expr // value signalled when the flag is false
}

// New parses failure as a Go expression. An empty flag means DefaultFlag.
func New(failure, flag string) (*Guard, error) {
	expr, err := parser.ParseExpr(failure)
	if err != nil {
		return nil, errors.Newf(errors.SyntaxErrorCode, "checkinit failure %q is not a Go expression", failure).
			WithCause(err).
			WithSuggestion("Name the failure value, e.g. //synapse::checkinit ErrNotReady")
	}
	if flag == "" {
		flag = DefaultFlag
	}
	if !token.IsIdentifier(flag) {
		return nil, errors.Newf(errors.ValidationErrorCode, "guard flag %q is not an identifier", flag)
	}
	return &Guard{Flag: flag, Failure: expr}, nil
}

// Apply prepends the guard to node's body. node must be a function
// declaration with a body. Applying the same guard twice leaves the body
// unchanged.
//
// A function whose last result is error returns zero values and the failure;
// any other function panics with the failure.
func (g *Guard) Apply(node ast.Node) error {
	fn, ok := node.(*ast.FuncDecl)
	if !ok {
		return errors.NotAFunction(describe(node))
	}
	if fn.Body == nil {
		return errors.NoFunctionBody(fn.Name.Name)
	}

	check := &ast.IfStmt{
		Cond: &ast.UnaryExpr{Op: token.NOT, X: g.flagExpr(fn)},
		Body: &ast.BlockStmt{List: []ast.Stmt{g.failStmt(fn)}},
	}
	if len(fn.Body.List) > 0 && isGuard(fn.Body.List[0], check) {
		return nil
	}
	fn.Body.List = append([]ast.Stmt{check}, fn.Body.List...)
	return nil
}

// flagExpr is recv.flag for methods and flag for plain functions. An unnamed
// receiver is given a name so the body can refer to it.
func (g *Guard) flagExpr(fn *ast.FuncDecl) ast.Expr {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ast.NewIdent(g.Flag)
	}
	field := fn.Recv.List[0]
	if len(field.Names) == 0 || field.Names[0].Name == "_" {
		field.Names = []*ast.Ident{ast.NewIdent(receiverName(field.Type))}
	}
	return &ast.SelectorExpr{X: ast.NewIdent(field.Names[0].Name), Sel: ast.NewIdent(g.Flag)}
}

func (g *Guard) failStmt(fn *ast.FuncDecl) ast.Stmt {
	results := fn.Type.Results
	if results == nil || len(results.List) == 0 || !isError(results.List[len(results.List)-1].Type) {
		return &ast.ExprStmt{X: &ast.CallExpr{Fun: ast.NewIdent("panic"), Args: []ast.Expr{g.Failure}}}
	}

	var values []ast.Expr
	for i, field := range results.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for j := 0; j < n; j++ {
			if i == len(results.List)-1 && j == n-1 {
				values = append(values, g.Failure)
			} else {
				values = append(values, zeroValue(field.Type))
			}
		}
	}
	return &ast.ReturnStmt{Results: values}
}

// isGuard reports whether stmt is exactly the check: same condition and a
// body holding the same single failure statement.
func isGuard(stmt ast.Stmt, check *ast.IfStmt) bool {
	ifStmt, ok := stmt.(*ast.IfStmt)
	if !ok || ifStmt.Init != nil || ifStmt.Else != nil {
		return false
	}
	if types.ExprString(ifStmt.Cond) != types.ExprString(check.Cond) {
		return false
	}
	if len(ifStmt.Body.List) != 1 {
		return false
	}
	return sameFailure(ifStmt.Body.List[0], check.Body.List[0])
}

func sameFailure(got, want ast.Stmt) bool {
	switch w := want.(type) {
	case *ast.ReturnStmt:
		r, ok := got.(*ast.ReturnStmt)
		return ok && exprList(r.Results) == exprList(w.Results)
	case *ast.ExprStmt:
		e, ok := got.(*ast.ExprStmt)
		return ok && types.ExprString(e.X) == types.ExprString(w.X)
	}
	return false
}

func exprList(exprs []ast.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = types.ExprString(e)
	}
	return strings.Join(parts, ", ")
}

func isError(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == "error"
}

// zeroValue returns a literal zero for predeclared and reference types and
// *new(T) for everything else
func zeroValue(typ ast.Expr) ast.Expr {
	switch t := typ.(type) {
	case *ast.Ident:
		switch t.Name {
		case "bool":
			return ast.NewIdent("false")
		case "string":
			return &ast.BasicLit{Kind: token.STRING, Value: `""`}
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"float32", "float64", "byte", "rune":
			return &ast.BasicLit{Kind: token.INT, Value: "0"}
		case "error", "any":
			return ast.NewIdent("nil")
		}
	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		return ast.NewIdent("nil")
	case *ast.ArrayType:
		if t.Len == nil {
			return ast.NewIdent("nil")
		}
	}
	return &ast.StarExpr{X: &ast.CallExpr{Fun: ast.NewIdent("new"), Args: []ast.Expr{typ}}}
}

func receiverName(typ ast.Expr) string {
	for {
		switch t := typ.(type) {
		case *ast.StarExpr:
			typ = t.X
		case *ast.IndexExpr:
			typ = t.X
		case *ast.IndexListExpr:
			typ = t.X
		case *ast.Ident:
			return strings.ToLower(t.Name[:1])
		default:
			return "recv"
		}
	}
}

func describe(node ast.Node) string {
	switch n := node.(type) {
	case nil:
		return "<nil>"
	case *ast.GenDecl:
		if len(n.Specs) > 0 {
			switch spec := n.Specs[0].(type) {
			case *ast.TypeSpec:
				return fmt.Sprintf("type %s", spec.Name.Name)
			case *ast.ValueSpec:
				if len(spec.Names) > 0 {
					return fmt.Sprintf("%s %s", n.Tok, spec.Names[0].Name)
				}
			}
		}
		return n.Tok.String() + " declaration"
	default:
		return fmt.Sprintf("%T", node)
	}
}
