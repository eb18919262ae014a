package utils

import (
	"golang.org/x/tools/imports"
)

// formatOptions mirror goimports defaults
var formatOptions = &imports.Options{
	Comments:  true,
	TabIndent: true,
	TabWidth:  8,
}

// FormatGoCode formats Go source the way goimports does: gofmt layout,
// sorted import groups, unused imports removed and missing ones added.
// filename is used to resolve imports relative to its directory.
func FormatGoCode(filename string, source []byte) ([]byte, error) {
	return imports.Process(filename, source, formatOptions)
}
