package annotations

import (
	"fmt"
	"sort"
	"sync"
)

// AnnotationSchema describes what a directive accepts
type AnnotationSchema struct {
	Type        AnnotationType
	Description string
	MinArgs     int             // minimum positional arguments
	MaxArgs     int             // maximum positional arguments, -1 for no limit
	Flags       map[string]Flag // accepted flags by name
	Usage       string          // shown in suggestions
}

// Flag describes one accepted flag
type Flag struct {
	Description  string
	DefaultValue string
}

// AnnotationRegistry defines the interface for managing annotation schemas
type AnnotationRegistry interface {
	// Register a new annotation type with its schema
	Register(annotationType AnnotationType, schema AnnotationSchema) error

	// GetSchema retrieves the schema for an annotation type
	GetSchema(annotationType AnnotationType) (AnnotationSchema, error)

	// ListTypes returns all registered annotation types
	ListTypes() []AnnotationType

	// IsRegistered checks if an annotation type is registered
	IsRegistered(annotationType AnnotationType) bool
}

// registry is the concrete implementation of AnnotationRegistry
type registry struct {
	mu      sync.RWMutex                        // Protects concurrent access
	schemas map[AnnotationType]AnnotationSchema // Schema storage
}

// NewRegistry creates a new annotation registry
func NewRegistry() AnnotationRegistry {
	return &registry{
		schemas: make(map[AnnotationType]AnnotationSchema),
	}
}

var (
	defaultRegistry     AnnotationRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global registry with the built-in directives
func DefaultRegistry() AnnotationRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, schema := range BuiltinSchemas() {
			if err := defaultRegistry.Register(schema.Type, schema); err != nil {
				panic(err)
			}
		}
	})
	return defaultRegistry
}

// Register adds a new annotation type with its schema to the registry
func (r *registry) Register(annotationType AnnotationType, schema AnnotationSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Type != annotationType {
		return fmt.Errorf("schema type %s does not match annotation type %s",
			schema.Type.String(), annotationType.String())
	}

	if _, exists := r.schemas[annotationType]; exists {
		return fmt.Errorf("annotation type %s is already registered", annotationType.String())
	}

	if schema.MaxArgs >= 0 && schema.MaxArgs < schema.MinArgs {
		return fmt.Errorf("invalid schema for %s: max args %d below min args %d",
			annotationType.String(), schema.MaxArgs, schema.MinArgs)
	}

	r.schemas[annotationType] = schema
	return nil
}

// GetSchema retrieves the schema for an annotation type
func (r *registry) GetSchema(annotationType AnnotationType) (AnnotationSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[annotationType]
	if !exists {
		return AnnotationSchema{}, fmt.Errorf("annotation type %s is not registered", annotationType.String())
	}

	return schema, nil
}

// ListTypes returns all registered annotation types, in declaration order
func (r *registry) ListTypes() []AnnotationType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]AnnotationType, 0, len(r.schemas))
	for annotationType := range r.schemas {
		types = append(types, annotationType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// IsRegistered checks if an annotation type is registered
func (r *registry) IsRegistered(annotationType AnnotationType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[annotationType]
	return exists
}

// DefaultGuardFlag is the receiver field checked by checkinit when -Flag is absent
const DefaultGuardFlag = "initialized"

// BuiltinSchemas returns the schemas of every directive synapse understands
func BuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		{
			Type:        ClientAnnotation,
			Description: "Generate a client that forwards the interface's methods as named messages",
			MaxArgs:     0,
			Usage:       "//synapse::client",
		},
		{
			Type:        ServerAnnotation,
			Description: "Generate an extensible server base and handler registration for the interface",
			MaxArgs:     0,
			Usage:       "//synapse::server",
		},
		{
			Type:        PropertyAnnotation,
			Description: "Declare a property carried by the generated client and server",
			MinArgs:     2,
			MaxArgs:     -1,
			Usage:       "//synapse::property Name Type",
		},
		{
			Type:        CheckInitAnnotation,
			Description: "Prepend an initialization check to the function body",
			MinArgs:     1,
			MaxArgs:     -1,
			Flags: map[string]Flag{
				"Flag": {Description: "boolean receiver field to check", DefaultValue: DefaultGuardFlag},
			},
			Usage: "//synapse::checkinit FailureExpr [-Flag=name]",
		},
	}
}
