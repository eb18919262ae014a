package models

// GeneratedFile represents one rendered output file
type GeneratedFile struct {
	PackageName string   // name of the package
	FilePath    string   // path where the file should be written
	Interface   string   // interface the file was generated from
	Content     string   // generated Go code content
	Warnings    []string // non-fatal notes raised while generating
}
