package guard

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"

	"github.com/toyz/synapse/internal/annotations"
	"github.com/toyz/synapse/internal/errors"
)

// Result reports what a rewrite did to one file
type Result struct {
	Applied []string // functions that received a guard, in source order
	Present []string // functions whose guard was already in place
	Source  []byte   // formatted source after the rewrite
}

// Changed reports whether any function received a new guard
func (r *Result) Changed() bool {
	return len(r.Applied) > 0
}

// RewriteSource applies every //synapse::checkinit directive in src. Each
// directive is handled on its own: a failing declaration is reported and the
// others are still rewritten.
func RewriteSource(filename string, src []byte) (*Result, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}

	result := &Result{}
	errs := errors.NewMultipleErrors()
	dp := annotations.NewParser()

	for _, decl := range file.Decls {
		doc := docOf(decl)
		if doc == nil {
			continue
		}
		for _, c := range doc.List {
			if !annotations.IsDirective(c.Text) {
				continue
			}
			pos := fset.Position(c.Pos())
			loc := annotations.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}
			a, err := dp.ParseAnnotation(c.Text, loc)
			if err != nil {
				errors.AddToMultiple(errs, err)
				continue
			}
			if a.Type != annotations.CheckInitAnnotation {
				continue
			}

			g, err := New(a.JoinArgs(0), a.GetFlag("Flag", DefaultFlag))
			if err != nil {
				errors.AddToMultiple(errs, located(err, loc))
				continue
			}
			before := bodyLen(decl)
			if err := g.Apply(decl); err != nil {
				errors.AddToMultiple(errs, located(err, loc))
				continue
			}
			if bodyLen(decl) > before {
				result.Applied = append(result.Applied, funcName(decl))
			} else {
				result.Present = append(result.Present, funcName(decl))
			}
		}
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, errors.WrapGenerateError("guard", filename, err)
	}
	result.Source = buf.Bytes()

	return result, errs.ErrOrNil()
}

func docOf(decl ast.Decl) *ast.CommentGroup {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		return d.Doc
	case *ast.GenDecl:
		if d.Doc != nil {
			return d.Doc
		}
		if len(d.Specs) == 1 {
			if ts, ok := d.Specs[0].(*ast.TypeSpec); ok {
				return ts.Doc
			}
		}
	}
	return nil
}

func bodyLen(decl ast.Decl) int {
	if fn, ok := decl.(*ast.FuncDecl); ok && fn.Body != nil {
		return len(fn.Body.List)
	}
	return 0
}

func funcName(decl ast.Decl) string {
	fn := decl.(*ast.FuncDecl)
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}
	typ := fn.Recv.List[0].Type
	if star, ok := typ.(*ast.StarExpr); ok {
		typ = star.X
	}
	if ident, ok := typ.(*ast.Ident); ok {
		return ident.Name + "." + fn.Name.Name
	}
	return fn.Name.Name
}

func located(err error, loc annotations.SourceLocation) error {
	if be, ok := err.(*errors.BaseError); ok && be.Loc.IsEmpty() {
		return be.WithLocation(errors.SourceLocation{File: loc.File, Line: loc.Line, Column: loc.Column})
	}
	return err
}
