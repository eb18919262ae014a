package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/synapse/internal/utils"
)

// ModuleResolver turns package directories into import paths
type ModuleResolver struct {
	gomod *utils.GoModParser
	root  string // directory the module path refers to
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{gomod: utils.NewGoModParser()}
}

// ResolveModuleName returns customModule when set, otherwise the module path
// of the nearest go.mod above the working directory. Either way the module
// root is the directory of that go.mod when one exists, else the working
// directory.
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	goModPath, findErr := r.gomod.FindGoModFile(cwd)
	if findErr == nil {
		r.root = filepath.Dir(goModPath)
	} else {
		r.root = cwd
	}

	if customModule != "" {
		return customModule, nil
	}
	if findErr != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using -module)", findErr)
	}

	return r.gomod.ParseModuleName(goModPath)
}

// Root returns the module root found by the last ResolveModuleName
func (r *ModuleResolver) Root() string {
	return r.root
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(moduleName, packageDir string) (string, error) {
	root := r.root
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		root = cwd
	}

	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	relPath, err := filepath.Rel(root, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("package directory %s is outside module root %s", packageDir, root)
	}

	importPath := filepath.ToSlash(relPath)
	if importPath == "." {
		return moduleName, nil
	}
	return moduleName + "/" + importPath, nil
}
