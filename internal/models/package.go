package models

// SourceKind identifies the front-end a package was read with
type SourceKind int

const (
	SourceGo SourceKind = iota
	SourceContract
)

// PackageMetadata represents everything the front-ends found in one package
type PackageMetadata struct {
	PackageName string             // name of the Go package
	PackagePath string             // file system path to the package
	ImportPath  string             // import path, when the module is known
	Source      SourceKind         // which front-end produced the metadata
	Imports     []Import           // union of the imports of every file holding a target
	Targets     []GenerationTarget // interfaces to generate stubs for, in source order
	Guards      []GuardTarget      // functions carrying an init-check directive
}

// Import is an import spec copied from the source
type Import struct {
	Name string // explicit name, empty if none
	Path string
}

// GenerationTarget is one declaration selected for client and/or server generation
type GenerationTarget struct {
	Decl          Decl
	Client        bool     // emit <I>Client
	Server        bool     // emit <I>Server and <I>Handler
	EmitInterface bool     // also emit the Go interface itself (contract input)
	Exported      bool     // capitalize declared names for Go identifiers
	SourceFile    string   // file the declaration was read from
	Imports       []Import // imports of SourceFile, the only ones its stubs may use
}

// GuardTarget is a function that receives the initialization guard
type GuardTarget struct {
	File     string // file containing the function
	FuncName string // function or method name
	Receiver string // receiver type name, empty for plain functions
	Failure  string // Go expression signalled when the flag is false
	Flag     string // boolean field checked on the receiver
	Line     int
}
