package annotations

import (
	"fmt"
	"strings"
)

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	ClientAnnotation AnnotationType = iota
	ServerAnnotation
	PropertyAnnotation
	CheckInitAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ClientAnnotation:
		return "client"
	case ServerAnnotation:
		return "server"
	case PropertyAnnotation:
		return "property"
	case CheckInitAnnotation:
		return "checkinit"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "client":
		return ClientAnnotation, nil
	case "server":
		return ServerAnnotation, nil
	case "property":
		return PropertyAnnotation, nil
	case "checkinit":
		return CheckInitAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// ParsedAnnotation is one //synapse:: directive
type ParsedAnnotation struct {
	Type     AnnotationType    // Annotation type enum
	Args     []string          // Positional arguments in order
	Flags    map[string]string // -Name or -Name=value; a bare flag maps to "true"
	Location SourceLocation    // Source location
	Raw      string            // Original annotation text
}

// GetFlag returns a flag value with optional default
func (p *ParsedAnnotation) GetFlag(name string, defaultValue ...string) string {
	if value, exists := p.Flags[name]; exists {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// HasFlag checks if a flag was given
func (p *ParsedAnnotation) HasFlag(name string) bool {
	_, exists := p.Flags[name]
	return exists
}

// Arg returns the positional argument at index, or "" if absent
func (p *ParsedAnnotation) Arg(index int) string {
	if index < 0 || index >= len(p.Args) {
		return ""
	}
	return p.Args[index]
}

// JoinArgs joins the positional arguments from index on, separated by spaces
func (p *ParsedAnnotation) JoinArgs(from int) string {
	if from >= len(p.Args) {
		return ""
	}
	return strings.Join(p.Args[from:], " ")
}

// IsDirective reports whether a comment line is a synapse directive
func IsDirective(comment string) bool {
	content := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "//"))
	return strings.HasPrefix(content, DirectivePrefix)
}

// DirectivePrefix introduces every directive after the comment marker
const DirectivePrefix = "synapse::"
