package generator

import (
	"context"

	"github.com/toyz/synapse/internal/models"
)

// CodeGenerator defines the interface for generating stub files from parsed package metadata
type CodeGenerator interface {
	GeneratePackage(ctx context.Context, metadata *models.PackageMetadata) ([]*models.GeneratedFile, error)
	GenerateTarget(ctx context.Context, metadata *models.PackageMetadata, target models.GenerationTarget) (*models.GeneratedFile, error)
}
