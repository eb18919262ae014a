package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/generator"
	"github.com/toyz/synapse/internal/guard"
	"github.com/toyz/synapse/internal/idl"
	"github.com/toyz/synapse/internal/models"
	"github.com/toyz/synapse/internal/parser"
	"github.com/toyz/synapse/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	goParser       parser.AnnotationParser
	contractParser *idl.Parser
	diagnostics    *utils.DiagnosticSystem
	stdout         io.Writer // dry-run output
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	return &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		goParser:       parser.NewParser(),
		contractParser: idl.NewParser(),
		diagnostics:    diagnostics,
		stdout:         os.Stdout,
	}
}

// SetDryRunOutput sets where -dry-run prints generated files
func (g *Generator) SetDryRunOutput(w io.Writer) {
	g.stdout = w
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process. Every package is processed
// even when an earlier one fails; the failures come back together.
func (g *Generator) Run(ctx context.Context, config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}

	if err := config.Validate(); err != nil {
		return err
	}

	codeGenerator, err := generator.NewGeneratorFor(config.Backend)
	if err != nil {
		return err
	}

	g.diagnostics.Debug("scanning directories: %v", config.Directories)

	moduleName, err := g.moduleResolver.ResolveModuleName(config.ModuleName)
	if err != nil {
		return errors.WrapConfigurationError("module", "resolve", err).
			WithSuggestions(
				"Run from inside a Go module",
				"Or pass the module path with -module",
			)
	}
	g.diagnostics.Verbose("module %s rooted at %s", moduleName, g.moduleResolver.Root())

	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return err
	}
	if len(packageDirs) == 0 {
		return errors.New(errors.ConfigurationErrorCode, "no Go packages or contracts found in specified directories").
			WithContext("directories", config.Directories).
			WithSuggestion("Use a './...' pattern to scan subdirectories")
	}

	g.diagnostics.Info("found %d packages to process", len(packageDirs))
	g.summary.PackagesProcessed = len(packageDirs)

	errs := errors.NewMultipleErrors()
	var guards []models.GuardTarget
	for _, dir := range packageDirs {
		if err := ctx.Err(); err != nil {
			errors.AddToMultiple(errs, err)
			break
		}
		found, err := g.processPackage(ctx, codeGenerator, config, moduleName, dir)
		errors.AddToMultiple(errs, err)
		guards = append(guards, found...)
	}

	if config.Rewrite && len(guards) > 0 && ctx.Err() == nil {
		g.diagnostics.Section("Applying checkinit guards")
		errors.AddToMultiple(errs, g.rewriteGuards(config, guards))
	}

	g.diagnostics.Verbose("generation finished in %v", time.Since(startTime).Round(time.Millisecond))
	return errs.ErrOrNil()
}

// processPackage generates the stubs of one directory and returns the guard
// targets found in it. A directory can hold both Go files and contracts.
func (g *Generator) processPackage(ctx context.Context, codeGenerator generator.CodeGenerator, config Config, moduleName string, dir utils.PackageDir) ([]models.GuardTarget, error) {
	errs := errors.NewMultipleErrors()

	importPath, err := g.moduleResolver.BuildPackagePath(moduleName, dir.Path)
	if err != nil {
		g.diagnostics.Warn("%v; generated headers will omit the import path", err)
		importPath = ""
	}

	var packages []*models.PackageMetadata
	if dir.HasGo {
		metadata, err := g.goParser.ParseDirectory(dir.Path)
		errors.AddToMultiple(errs, err)
		if metadata != nil {
			packages = append(packages, metadata)
		}
	}
	if dir.HasContracts {
		metadata, err := g.contractParser.ParseDirectory(dir.Path)
		errors.AddToMultiple(errs, err)
		if metadata != nil {
			packages = append(packages, metadata)
		}
	}

	for _, metadata := range packages {
		if len(metadata.Targets) == 0 {
			continue
		}
		metadata.PackagePath = dir.Path
		metadata.ImportPath = importPath
		g.summary.InterfacesFound += len(metadata.Targets)

		files, err := codeGenerator.GeneratePackage(ctx, metadata)
		errors.AddToMultiple(errs, err)
		for _, file := range files {
			for _, warning := range file.Warnings {
				g.summary.Warnings++
				g.diagnostics.Warn("%s: %s", g.display(file.FilePath), warning)
			}
			errors.AddToMultiple(errs, g.emit(config, file))
		}
	}

	var guards []models.GuardTarget
	for _, metadata := range packages {
		guards = append(guards, metadata.Guards...)
	}
	return guards, errs.ErrOrNil()
}

func (g *Generator) emit(config Config, file *models.GeneratedFile) error {
	if config.DryRun {
		fmt.Fprintf(g.stdout, "// ---- %s ----\n%s", g.display(file.FilePath), file.Content)
		return nil
	}

	if err := writeFile(file.FilePath, []byte(file.Content)); err != nil {
		return err
	}
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	g.diagnostics.Wrote(g.display(file.FilePath))
	return nil
}

// rewriteGuards runs the guard transform once per file named by guards
func (g *Generator) rewriteGuards(config Config, guards []models.GuardTarget) error {
	seen := make(map[string]bool)
	var files []string
	for _, target := range guards {
		if !seen[target.File] {
			seen[target.File] = true
			files = append(files, target.File)
		}
	}
	sort.Strings(files)

	errs := errors.NewMultipleErrors()
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			errors.AddToMultiple(errs, errors.WrapFileSystemError("read", path, err))
			continue
		}

		result, err := guard.RewriteSource(path, src)
		errors.AddToMultiple(errs, err)
		if result == nil || !result.Changed() {
			continue
		}

		g.summary.GuardsApplied += len(result.Applied)
		g.diagnostics.PhaseItem(fmt.Sprintf("%s: guarded %s", g.display(path), strings.Join(result.Applied, ", ")))
		if config.DryRun {
			fmt.Fprintf(g.stdout, "// ---- %s ----\n%s", g.display(path), result.Source)
			continue
		}
		if err := writeFile(path, result.Source); err != nil {
			errors.AddToMultiple(errs, err)
			continue
		}
		g.summary.RewrittenFiles = append(g.summary.RewrittenFiles, path)
		g.diagnostics.Wrote(g.display(path))
	}
	return errs.ErrOrNil()
}

// display shortens path relative to the working directory when possible
func (g *Generator) display(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(cwd, path); err == nil && !filepath.IsAbs(rel) && rel != "" && rel[0] != '.' {
		return rel
	}
	return path
}

func writeFile(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}
