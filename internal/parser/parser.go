package parser

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/synapse/internal/annotations"
	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/models"
)

// Parser reads Go packages and collects the interfaces and functions
// carrying //synapse:: directives
type Parser struct {
	fileSet    *token.FileSet
	directives *annotations.ParticipleParser
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return &Parser{
		fileSet:    token.NewFileSet(),
		directives: annotations.NewParser(),
	}
}

// ParseSource parses source code from a string. The returned metadata holds
// every target that could be read; errors for the rest come back together.
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: "./",
		Source:      models.SourceGo,
	}

	err = p.ExtractTargets(file, filename, metadata)
	return metadata, err
}

// ParseDirectory parses the non-test, non-generated Go files of one package
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	filter := func(info fs.FileInfo) bool {
		name := info.Name()
		return !strings.HasSuffix(name, TestSuffix) && !strings.HasSuffix(name, GeneratedSuffix)
	}

	pkgs, err := parser.ParseDir(p.fileSet, path, filter, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError("directory "+path, err)
	}

	if len(pkgs) == 0 {
		return nil, errors.Newf(errors.SyntaxErrorCode, "no Go packages found in directory %s", path)
	}
	if len(pkgs) > 1 {
		return nil, errors.Newf(errors.SyntaxErrorCode, "multiple packages found in directory %s", path)
	}

	var pkg *ast.Package
	var packageName string
	for name, p := range pkgs {
		pkg = p
		packageName = name
	}

	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: path,
		Source:      models.SourceGo,
	}

	// Map iteration order is random; generation order must not be
	fileNames := make([]string, 0, len(pkg.Files))
	for name := range pkg.Files {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	errs := errors.NewMultipleErrors()
	for _, name := range fileNames {
		errors.AddToMultiple(errs, p.ExtractTargets(pkg.Files[name], name, metadata))
	}

	return metadata, errs.ErrOrNil()
}

// ExtractTargets walks the top-level declarations of file and appends its
// generation and guard targets to metadata. A malformed declaration is
// reported and skipped; the others are still collected.
func (p *Parser) ExtractTargets(file *ast.File, fileName string, metadata *models.PackageMetadata) error {
	errs := errors.NewMultipleErrors()
	imports := fileImports(file)

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				directives, err := p.directivesOf(d.Doc, fileName)
				if err != nil {
					errors.AddToMultiple(errs, err)
					continue
				}
				metadata.Guards = append(metadata.Guards, guardTargets(directives, fileName, "", "")...)
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				directives, err := p.directivesOf(doc, fileName)
				if err != nil {
					errors.AddToMultiple(errs, err)
					continue
				}
				if target, ok := p.typeTarget(ts, directives, fileName); ok {
					target.Imports = imports
					metadata.Targets = append(metadata.Targets, *target)
					metadata.Imports = mergeImports(metadata.Imports, imports)
				}
				metadata.Guards = append(metadata.Guards, guardTargets(directives, fileName, ts.Name.Name, "")...)
			}
		case *ast.FuncDecl:
			directives, err := p.directivesOf(d.Doc, fileName)
			if err != nil {
				errors.AddToMultiple(errs, err)
				continue
			}
			metadata.Guards = append(metadata.Guards, guardTargets(directives, fileName, d.Name.Name, receiverType(d))...)
		}
	}

	return errs.ErrOrNil()
}

// typeTarget builds the generation target for a type spec carrying a client
// or server directive. ok is false when the type has neither.
func (p *Parser) typeTarget(ts *ast.TypeSpec, directives []*annotations.ParsedAnnotation, fileName string) (*models.GenerationTarget, bool) {
	target := &models.GenerationTarget{SourceFile: fileName}
	var props []models.Member
	for _, d := range directives {
		switch d.Type {
		case annotations.ClientAnnotation:
			target.Client = true
		case annotations.ServerAnnotation:
			target.Server = true
		case annotations.PropertyAnnotation:
			props = append(props, &models.PropertySyntax{
				Name: d.Arg(0),
				Type: models.TypeRef{Expr: d.JoinArgs(1)},
				At:   models.Position{File: d.Location.File, Line: d.Location.Line, Column: d.Location.Column},
			})
		}
	}
	if !target.Client && !target.Server {
		return nil, false
	}

	node := &models.DeclNode{
		DeclName: ts.Name.Name,
		Position: p.position(ts.Pos()),
	}

	switch t := ts.Type.(type) {
	case *ast.InterfaceType:
		node.DeclKind = models.DeclInterface
		node.MemberList = append(props, p.interfaceMembers(t)...)
	case *ast.StructType:
		node.DeclKind = models.DeclStruct
	default:
		node.DeclKind = models.DeclOther
	}

	target.Decl = node
	return target, true
}

// interfaceMembers maps interface elements to member syntax in source order
func (p *Parser) interfaceMembers(iface *ast.InterfaceType) []models.Member {
	var members []models.Member
	for _, field := range iface.Methods.List {
		ft, isFunc := field.Type.(*ast.FuncType)
		if len(field.Names) == 0 || !isFunc {
			members = append(members, &models.UnsupportedSyntax{
				Text: types.ExprString(field.Type),
				At:   p.position(field.Pos()),
			})
			continue
		}
		for _, name := range field.Names {
			members = append(members, p.method(name.Name, ft, p.position(name.Pos())))
		}
	}
	return members
}

// method reads effects from the Go signature: a leading context.Context is
// the asynchronous marker and a trailing error the fallible one
func (p *Parser) method(name string, ft *ast.FuncType, at models.Position) *models.MethodSyntax {
	m := &models.MethodSyntax{Name: name, At: at}

	if ft.Params != nil {
		for i, field := range ft.Params.List {
			if i == 0 && isContext(field.Type) && len(field.Names) <= 1 {
				m.Async = true
				continue
			}
			param := models.ParamSyntax{Type: models.TypeRef{Expr: types.ExprString(field.Type)}}
			if _, ok := field.Type.(*ast.Ellipsis); ok {
				param.Variadic = true
			}
			if len(field.Names) == 0 {
				param.FirstName = anonymousParam
				m.Params = append(m.Params, param)
				continue
			}
			for _, n := range field.Names {
				named := param
				named.FirstName = n.Name
				m.Params = append(m.Params, named)
			}
		}
	}

	if ft.Results != nil {
		results := ft.Results.List
		if n := len(results); n > 0 && isError(results[n-1].Type) && len(results[n-1].Names) <= 1 {
			m.Throws = true
			results = results[:n-1]
		}
		for _, field := range results {
			count := len(field.Names)
			if count == 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				m.Results = append(m.Results, models.TypeRef{Expr: types.ExprString(field.Type)})
			}
		}
	}

	return m
}

// directivesOf parses every directive line of doc
func (p *Parser) directivesOf(doc *ast.CommentGroup, fileName string) ([]*annotations.ParsedAnnotation, error) {
	if doc == nil {
		return nil, nil
	}
	var out []*annotations.ParsedAnnotation
	errs := errors.NewMultipleErrors()
	for _, c := range doc.List {
		if !annotations.IsDirective(c.Text) {
			continue
		}
		pos := p.fileSet.Position(c.Pos())
		a, err := p.directives.ParseAnnotation(c.Text, annotations.SourceLocation{
			File:   fileName,
			Line:   pos.Line,
			Column: pos.Column,
		})
		if err != nil {
			errors.AddToMultiple(errs, err)
			continue
		}
		out = append(out, a)
	}
	return out, errs.ErrOrNil()
}

// guardTargets returns one guard per checkinit directive. Validation already
// checked the failure expression and the flag.
func guardTargets(directives []*annotations.ParsedAnnotation, fileName, funcName, receiver string) []models.GuardTarget {
	var guards []models.GuardTarget
	for _, d := range directives {
		if d.Type != annotations.CheckInitAnnotation {
			continue
		}
		guards = append(guards, models.GuardTarget{
			File:     fileName,
			FuncName: funcName,
			Receiver: receiver,
			Failure:  d.JoinArgs(0),
			Flag:     d.GetFlag("Flag", annotations.DefaultGuardFlag),
			Line:     d.Location.Line,
		})
	}
	return guards
}

func (p *Parser) position(pos token.Pos) models.Position {
	position := p.fileSet.Position(pos)
	return models.Position{File: position.Filename, Line: position.Line, Column: position.Column}
}

func isContext(expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "context" && sel.Sel.Name == "Context"
}

func isError(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == "error"
}

func receiverType(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	typ := fn.Recv.List[0].Type
	if star, ok := typ.(*ast.StarExpr); ok {
		typ = star.X
	}
	if ident, ok := typ.(*ast.Ident); ok {
		return ident.Name
	}
	return types.ExprString(typ)
}

func fileImports(file *ast.File) []models.Import {
	imports := make([]models.Import, 0, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := models.Import{Path: path}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		imports = append(imports, imp)
	}
	return imports
}

func mergeImports(existing, more []models.Import) []models.Import {
	seen := make(map[models.Import]bool, len(existing))
	for _, imp := range existing {
		seen[imp] = true
	}
	for _, imp := range more {
		if !seen[imp] {
			seen[imp] = true
			existing = append(existing, imp)
		}
	}
	return existing
}
