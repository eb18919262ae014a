package errors

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. Every domain error below wraps one of them.
var (
	ErrNotAnInterface       = errors.New("synapse: declaration is not an interface")
	ErrNotAFunction         = errors.New("synapse: checkinit target is not a function")
	ErrNoFunctionBody       = errors.New("synapse: checkinit target has no body")
	ErrUnsupportedSignature = errors.New("synapse: unsupported method signature")
	ErrUnsupportedMember    = errors.New("synapse: unsupported interface member")
)

// NotAnInterface reports that a generation target is not an interface
// declaration.
func NotAnInterface(name, kind string) *BaseError {
	return Wrapf(NotAnInterfaceCode, ErrNotAnInterface,
		"%s is a %s, client and server synthesis requires an interface", name, kind).
		WithContext("declaration", name).
		WithContext("kind", kind).
		WithSuggestion("Move the //synapse::client or //synapse::server annotation onto an interface type")
}

// NotAFunction reports that the guard rewrite was applied to something that
// is not a function declaration.
func NotAFunction(what string) *BaseError {
	return Wrapf(NotAFunctionCode, ErrNotAFunction,
		"%s is not a function, the initialization guard can only be applied to functions", what).
		WithContext("target", what)
}

// NoFunctionBody reports a guard target without a body.
func NoFunctionBody(name string) *BaseError {
	return Wrapf(NoFunctionBodyCode, ErrNoFunctionBody,
		"function %s has no body, the initialization guard requires one", name).
		WithContext("function", name)
}

// UnsupportedSignature reports a method shape the packing policy cannot carry.
func UnsupportedSignature(iface, method, reason string) *BaseError {
	return Wrapf(UnsupportedSignatureCode, ErrUnsupportedSignature,
		"method %s.%s: %s", iface, method, reason).
		WithContext("interface", iface).
		WithContext("method", method)
}

// UnsupportedMember reports an interface member that is neither a method nor
// a property, such as an embedded interface or a type constraint.
func UnsupportedMember(iface, member string) *BaseError {
	return Wrapf(UnsupportedMemberCode, ErrUnsupportedMember,
		"interface %s: member %q is neither a property nor a method", iface, member).
		WithContext("interface", iface).
		WithContext("member", member).
		WithSuggestion("Declare the embedded methods directly on the interface")
}

// SyntaxError reports a malformed directive or contract file.
func SyntaxError(loc SourceLocation, format string, args ...interface{}) *BaseError {
	return New(SyntaxErrorCode, fmt.Sprintf(format, args...)).WithLocation(loc)
}
