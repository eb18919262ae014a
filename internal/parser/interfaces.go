package parser

import (
	"go/ast"

	"github.com/toyz/synapse/internal/models"
)

// AnnotationParser defines the interface for parsing Go source files and extracting generation targets
type AnnotationParser interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
	ExtractTargets(file *ast.File, fileName string, metadata *models.PackageMetadata) error
}
