package templates

import (
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/synapse/internal/models"
)

// ImportManager collects the imports of a generated file and lays them out
// as a standard library group followed by everything else
type ImportManager struct {
	imports map[string]string // path -> explicit name
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		imports: make(map[string]string),
	}
}

// AddImport adds an import without an explicit name
func (im *ImportManager) AddImport(importPath string) {
	if importPath == "" {
		return
	}
	if _, exists := im.imports[importPath]; !exists {
		im.imports[importPath] = ""
	}
}

// AddPackageImport adds an import with an explicit name. Blank and dot
// imports are side effects of the source file and are not carried over.
func (im *ImportManager) AddPackageImport(name, path string) {
	if path == "" || name == "_" || name == "." {
		return
	}
	im.imports[path] = name
}

// AddModelImports adds imports copied from a source file
func (im *ImportManager) AddModelImports(imports []models.Import) {
	for _, imp := range imports {
		if imp.Name == "" {
			im.AddImport(imp.Path)
		} else {
			im.AddPackageImport(imp.Name, imp.Path)
		}
	}
}

// Lines returns the import specs in layout order. An empty string separates
// the standard library group from the rest.
func (im *ImportManager) Lines() []string {
	var std, other []string
	for path := range im.imports {
		if isStandardLibraryPackage(path) {
			std = append(std, path)
		} else {
			other = append(other, path)
		}
	}
	sort.Strings(std)
	sort.Strings(other)

	lines := make([]string, 0, len(std)+len(other)+1)
	for _, path := range std {
		lines = append(lines, im.spec(path))
	}
	if len(std) > 0 && len(other) > 0 {
		lines = append(lines, "")
	}
	for _, path := range other {
		lines = append(lines, im.spec(path))
	}
	return lines
}

// Count returns the number of distinct imports
func (im *ImportManager) Count() int {
	return len(im.imports)
}

func (im *ImportManager) spec(path string) string {
	if name := im.imports[path]; name != "" {
		return name + " " + strconv.Quote(path)
	}
	return strconv.Quote(path)
}

// isStandardLibraryPackage uses the goimports rule: a path whose first
// element has no dot belongs to the standard library
func isStandardLibraryPackage(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
