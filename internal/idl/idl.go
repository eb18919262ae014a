// Package idl reads interface contracts written in the .synapse contract
// language and produces the same declaration tree as the Go front-end.
package idl

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/models"
)

// FileExtension is the extension of contract files
const FileExtension = ".synapse"

// Parser parses contract files
type Parser struct {
	parser *participle.Parser[contract]
}

// NewParser creates a contract parser
func NewParser() *Parser {
	return &Parser{
		parser: participle.MustBuild[contract](
			participle.Lexer(contractLexer),
			participle.Elide("Whitespace", "Comment"),
			participle.Unquote("String"),
			participle.UseLookahead(2),
		),
	}
}

// ParseSource parses one contract held in memory
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	c, err := p.parser.ParseString(filename, source)
	if err != nil {
		return nil, syntaxError(filename, err)
	}

	metadata := &models.PackageMetadata{
		PackageName: c.Package,
		PackagePath: filepath.Dir(filename),
		Source:      models.SourceContract,
	}
	merge(metadata, c, filename)
	return metadata, nil
}

// ParseFile reads and parses the contract at path
func (p *Parser) ParseFile(path string) (*models.PackageMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return p.ParseSource(path, string(data))
}

// ParseDirectory parses every contract in dir. All of them must declare the
// same package. A file that fails to parse is reported; the rest still count.
func (p *Parser) ParseDirectory(dir string) (*models.PackageMetadata, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"+FileExtension))
	if err != nil {
		return nil, errors.WrapFileSystemError("glob", dir, err)
	}
	if len(files) == 0 {
		return nil, errors.Newf(errors.SyntaxErrorCode, "no %s files found in directory %s", FileExtension, dir)
	}
	sort.Strings(files)

	metadata := &models.PackageMetadata{
		PackagePath: dir,
		Source:      models.SourceContract,
	}
	errs := errors.NewMultipleErrors()

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			errors.AddToMultiple(errs, errors.WrapFileSystemError("read", file, err))
			continue
		}
		c, err := p.parser.ParseString(file, string(data))
		if err != nil {
			errors.AddToMultiple(errs, syntaxError(file, err))
			continue
		}
		if metadata.PackageName == "" {
			metadata.PackageName = c.Package
		} else if metadata.PackageName != c.Package {
			errors.AddToMultiple(errs, errors.SyntaxError(location(c.Pos),
				"package %s differs from package %s declared by the other contracts", c.Package, metadata.PackageName))
			continue
		}
		merge(metadata, c, file)
	}

	return metadata, errs.ErrOrNil()
}

func merge(metadata *models.PackageMetadata, c *contract, filename string) {
	var imports []models.Import
	for _, imp := range c.Imports {
		spec := models.Import{Name: imp.Name, Path: imp.Path}
		if !hasImport(imports, spec) {
			imports = append(imports, spec)
		}
		if !hasImport(metadata.Imports, spec) {
			metadata.Imports = append(metadata.Imports, spec)
		}
	}

	for _, d := range c.Decls {
		switch {
		case d.Interface != nil:
			target := interfaceTarget(d.Interface, filename)
			target.Imports = imports
			metadata.Targets = append(metadata.Targets, target)
		case d.Struct != nil:
			metadata.Targets = append(metadata.Targets, models.GenerationTarget{
				Decl: &models.DeclNode{
					DeclKind:   models.DeclStruct,
					DeclName:   d.Struct.Name,
					MemberList: properties(d.Struct.Fields),
					Position:   position(d.Struct.Pos),
				},
				Client:        true,
				Server:        true,
				EmitInterface: true,
				Exported:      true,
				SourceFile:    filename,
				Imports:       imports,
			})
		}
	}
}

func interfaceTarget(block *interfaceBlock, filename string) models.GenerationTarget {
	target := models.GenerationTarget{
		EmitInterface: true,
		Exported:      true,
		SourceFile:    filename,
	}
	for _, m := range block.Markers {
		switch m {
		case "client":
			target.Client = true
		case "server":
			target.Server = true
		}
	}
	if len(block.Markers) == 0 {
		target.Client = true
		target.Server = true
	}

	node := &models.DeclNode{
		DeclKind: models.DeclInterface,
		DeclName: block.Name,
		Position: position(block.Pos),
	}
	for _, m := range block.Members {
		switch {
		case m.Property != nil:
			node.MemberList = append(node.MemberList, propertySyntax(m.Property))
		case m.Method != nil:
			node.MemberList = append(node.MemberList, methodSyntax(m.Method))
		case m.Embedded != nil:
			node.MemberList = append(node.MemberList, &models.UnsupportedSyntax{
				Text: m.Embedded.Type.String(),
				At:   position(m.Embedded.Pos),
			})
		}
	}
	target.Decl = node
	return target
}

func properties(props []*property) []models.Member {
	members := make([]models.Member, 0, len(props))
	for _, p := range props {
		members = append(members, propertySyntax(p))
	}
	return members
}

func propertySyntax(p *property) *models.PropertySyntax {
	return &models.PropertySyntax{
		Name: p.Name,
		Type: models.TypeRef{Expr: p.Type.String()},
		At:   position(p.Pos),
	}
}

func methodSyntax(m *method) *models.MethodSyntax {
	out := &models.MethodSyntax{
		Name:   m.Name,
		Async:  m.Async,
		Throws: m.Throws,
		At:     position(m.Pos),
	}
	for _, p := range m.Params {
		out.Params = append(out.Params, models.ParamSyntax{
			FirstName:  p.Label,
			SecondName: p.Name,
			Type:       models.TypeRef{Expr: p.Type.String()},
			Variadic:   p.Variadic,
		})
	}
	if m.Result != nil {
		if result := (models.TypeRef{Expr: m.Result.String()}); !result.IsVoid() {
			out.Results = []models.TypeRef{result}
		}
	}
	return out
}

func hasImport(imports []models.Import, spec models.Import) bool {
	for _, imp := range imports {
		if imp == spec {
			return true
		}
	}
	return false
}

func position(pos lexer.Position) models.Position {
	return models.Position{File: pos.Filename, Line: pos.Line, Column: pos.Column}
}

func location(pos lexer.Position) errors.SourceLocation {
	return errors.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}
}

// syntaxError keeps participle's position when it reports one
func syntaxError(filename string, err error) error {
	loc := errors.SourceLocation{File: filename}
	msg := err.Error()
	if perr, ok := err.(participle.Error); ok {
		loc = location(perr.Position())
		msg = perr.Message()
	}
	return errors.SyntaxError(loc, "%s", msg).
		WithContext("contract", filename).
		WithSuggestion("Contracts look like: package p; interface Name { func method(label name: Type) async throws -> Result }")
}
