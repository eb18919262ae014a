package models

import "strings"

// AnonymousLabel is the external label of a parameter that has no call-site name
const AnonymousLabel = "_"

// TypeRef is an opaque type expression. It is copied into generated
// declarations verbatim and never interpreted beyond the void check.
type TypeRef struct {
	Expr string
}

// String returns the type expression as written
func (t TypeRef) String() string {
	return t.Expr
}

// IsVoid reports whether the type denotes "no value"
func (t TypeRef) IsVoid() bool {
	switch strings.TrimSpace(t.Expr) {
	case "", "Void", "void", "()":
		return true
	}
	return false
}

// InterfaceDecl is an extracted interface contract
type InterfaceDecl struct {
	Name       string
	Properties []PropertySpec
	Methods    []MethodSpec
	Pos        Position
}

// PropertySpec is one interface property
type PropertySpec struct {
	Name string
	Type TypeRef
}

// MethodSpec is one interface method
type MethodSpec struct {
	Name       string
	Parameters []ParameterSpec
	IsAsync    bool
	IsFallible bool
	ReturnType *TypeRef // nil means no return value
}

// HasReturn reports whether the method yields a non-void value
func (m MethodSpec) HasReturn() bool {
	return m.ReturnType != nil && !m.ReturnType.IsVoid()
}

// ParameterSpec is one method parameter
type ParameterSpec struct {
	ExternalLabel string // call-site label, possibly AnonymousLabel
	InternalName  string // name used inside generated bodies
	Type          TypeRef
}
