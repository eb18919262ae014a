// Package synth builds language-neutral descriptions of the generated
// client and server types. A back-end renders them into source.
package synth

import "github.com/toyz/synapse/internal/models"

// TypeKind distinguishes the two synthesized shapes
type TypeKind int

const (
	// ValueType is a plain proxy value (the client)
	ValueType TypeKind = iota
	// OpenType is an extensible base whose methods are meant to be overridden (the server)
	OpenType
)

// Role of a handle field
const (
	ConnectionField = "connection"
	ListenerField   = "listener"
)

// RegistrationMethod is the declared name of the server's registration routine
const RegistrationMethod = "initListener"

// TypeDecl is a synthesized type
type TypeDecl struct {
	Name       string
	Kind       TypeKind
	Interface  string  // interface the declaration is derived from
	Conforms   bool    // declares conformance to Interface
	Handle     Field   // connection or listener
	Properties []Field // copied 1:1 from the interface, declared order
	Init       Initializer
	Methods    []Method
	Register   *Method // registration routine, servers only
}

// Fields returns the handle followed by every property field
func (t *TypeDecl) Fields() []Field {
	fields := make([]Field, 0, len(t.Properties)+1)
	fields = append(fields, t.Handle)
	return append(fields, t.Properties...)
}

// Field is a named, typed field
type Field struct {
	Name string
	Type models.TypeRef
}

// Initializer assigns every field from a like-named parameter, in Params order
type Initializer struct {
	Params []Field
}

// Param is a method parameter in the synthesized signature
type Param struct {
	Label string
	Name  string
	Type  models.TypeRef
}

// Method is a synthesized method
type Method struct {
	Name     string // declared name; also the message name
	Peer     bool   // takes a leading caller-identity parameter
	Params   []Param
	Async    bool
	Fallible bool
	Result   *models.TypeRef // nil when nothing is returned
	Body     []Stmt
}

// Stmt is one statement of a synthesized body. The set is closed.
type Stmt interface {
	stmt()
}

// SendStmt forwards a call as a named message and awaits the reply
type SendStmt struct {
	Message string
	Payload Payload
	Result  *models.TypeRef // non-nil: the reply is decoded into this and returned
}

// NotImplementedStmt signals, fatally, that a stub was never overridden
type NotImplementedStmt struct {
	Message string
}

// RegisterStmt pairs a message name with a handler reference on the listener
type RegisterStmt struct {
	Message string
	Handler string // declared name of the method whose reference is registered
}

func (*SendStmt) stmt()           {}
func (*NotImplementedStmt) stmt() {}
func (*RegisterStmt) stmt()       {}

// Messages lists the message names used by the declaration's bodies in order.
// For a client these are the forwarded names, for a server the registered ones.
func (t *TypeDecl) Messages() []string {
	var names []string
	collect := func(body []Stmt) {
		for _, s := range body {
			switch s := s.(type) {
			case *SendStmt:
				names = append(names, s.Message)
			case *RegisterStmt:
				names = append(names, s.Message)
			}
		}
	}
	if t.Register != nil {
		collect(t.Register.Body)
		return names
	}
	for _, m := range t.Methods {
		collect(m.Body)
	}
	return names
}
