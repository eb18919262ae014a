// Package render defines the back-ends that turn synthesized declarations
// into source files.
package render

import (
	"context"

	"github.com/toyz/synapse/internal/models"
	"github.com/toyz/synapse/internal/synth"
)

// Backend renders one unit into the bytes of a source file.
type Backend interface {
	// Metadata returns information about this back-end.
	Metadata() Metadata

	// Render produces the file content for unit.
	Render(ctx context.Context, unit *Unit) ([]byte, error)
}

// Metadata describes a back-end.
type Metadata struct {
	// Name is the short identifier used for lookup (e.g. "go").
	Name string

	// Description is a human-readable description.
	Description string

	// FileSuffix is appended to the snake-cased interface name to form the
	// output file name (e.g. "_synapse.go").
	FileSuffix string
}

// Unit is everything a back-end needs to render the stubs for one interface.
type Unit struct {
	// Package is the package clause of the output file.
	Package string

	// Source names where the interface was read from, for the file header.
	Source string

	// Interface is the extracted contract.
	Interface *models.InterfaceDecl

	// Client and Server are the synthesized declarations; either may be nil.
	Client *synth.TypeDecl
	Server *synth.TypeDecl

	// EmitInterface asks the back-end to also declare the interface itself.
	EmitInterface bool

	// Exported capitalizes declared member names for target identifiers.
	// Message names are never changed.
	Exported bool

	// Imports are the imports of the source file, offered to the output.
	Imports []models.Import

	// FileName is the output file name, used for import resolution.
	FileName string
}
