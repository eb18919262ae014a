package generator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/extract"
	"github.com/toyz/synapse/internal/models"
	"github.com/toyz/synapse/internal/render"
	"github.com/toyz/synapse/internal/synth"
	"github.com/toyz/synapse/internal/templates"
)

// Generator implements the CodeGenerator interface
type Generator struct {
	backend render.Backend
}

// NewGenerator creates a new code generator rendering with backend
func NewGenerator(backend render.Backend) *Generator {
	return &Generator{backend: backend}
}

// NewGeneratorFor creates a generator for a back-end registered under name
func NewGeneratorFor(name string) (*Generator, error) {
	backend, ok := render.Get(name)
	if !ok {
		return nil, errors.ConfigurationError("backend", fmt.Sprintf("no back-end registered as %q", name)).
			WithContext("available", render.List())
	}
	return NewGenerator(backend), nil
}

// GeneratePackage renders every target of metadata. A failing target is
// reported and skipped; the files of the others are still returned.
func (g *Generator) GeneratePackage(ctx context.Context, metadata *models.PackageMetadata) ([]*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, errors.New(errors.GenerationErrorCode, "metadata cannot be nil")
	}

	files := make([]*models.GeneratedFile, 0, len(metadata.Targets))
	errs := errors.NewMultipleErrors()

	for _, target := range metadata.Targets {
		if err := ctx.Err(); err != nil {
			errors.AddToMultiple(errs, err)
			break
		}
		file, err := g.GenerateTarget(ctx, metadata, target)
		if err != nil {
			errors.AddToMultiple(errs, err)
			continue
		}
		files = append(files, file)
	}

	return files, errs.ErrOrNil()
}

// GenerateTarget extracts, synthesizes and renders one declaration
func (g *Generator) GenerateTarget(ctx context.Context, metadata *models.PackageMetadata, target models.GenerationTarget) (*models.GeneratedFile, error) {
	iface, err := extract.Extract(target.Decl)
	if err != nil {
		return nil, err
	}

	file := &models.GeneratedFile{
		PackageName: metadata.PackageName,
		Interface:   iface.Name,
		FilePath:    filepath.Join(metadata.PackagePath, g.fileName(iface.Name)),
	}

	unit := &render.Unit{
		Package:       metadata.PackageName,
		Source:        source(metadata, target),
		Interface:     iface,
		EmitInterface: target.EmitInterface,
		Exported:      target.Exported,
		Imports:       target.Imports,
		FileName:      file.FilePath,
	}

	if target.Client {
		unit.Client = synth.Client(iface)
		// An interface declared in Go keeps its own signatures; the upgraded
		// client only satisfies it when they already carry ctx and error.
		if !target.EmitInterface {
			if plain := nonUpgraded(iface); len(plain) > 0 {
				unit.Client.Conforms = false
				file.Warnings = append(file.Warnings, fmt.Sprintf(
					"%s does not implement %s: %v need a leading context.Context and a trailing error",
					unit.Client.Name, iface.Name, plain))
			}
		}
	}
	if target.Server {
		unit.Server = synth.Server(iface)
	}

	content, err := g.backend.Render(ctx, unit)
	if err != nil {
		if se, ok := err.(*errors.BaseError); ok {
			return nil, se.WithContext("interface", iface.Name)
		}
		return nil, errors.WrapGenerateError(g.backend.Metadata().Name, iface.Name, err)
	}

	file.Content = string(content)
	return file, nil
}

func (g *Generator) fileName(iface string) string {
	return templates.SnakeCase(iface) + g.backend.Metadata().FileSuffix
}

// nonUpgraded lists the methods that are not already async and fallible
func nonUpgraded(iface *models.InterfaceDecl) []string {
	var names []string
	for _, m := range iface.Methods {
		if !m.IsAsync || !m.IsFallible {
			names = append(names, m.Name)
		}
	}
	return names
}

// source is what the file header names as the origin of the stubs
func source(metadata *models.PackageMetadata, target models.GenerationTarget) string {
	var file string
	if target.SourceFile != "" {
		file = filepath.Base(target.SourceFile)
	}
	switch {
	case metadata.ImportPath != "" && file != "":
		return metadata.ImportPath + " (" + file + ")"
	case metadata.ImportPath != "":
		return metadata.ImportPath
	default:
		return file
	}
}
