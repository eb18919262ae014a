package cli

import (
	"path/filepath"
	"strings"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/utils"
)

// DirectoryScanner finds the package directories named on the command line
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanDirectories resolves each pattern to the directories holding Go files
// or contracts. Go-style "./..." patterns scan recursively; a plain directory
// is inspected on its own. A directory reached twice is returned once.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]utils.PackageDir, error) {
	var result []utils.PackageDir
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		root, recursive := splitPattern(pattern)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.WrapWithOperation("resolve", root, err)
		}

		dirs, err := s.fileProcessor.ScanPackages(absRoot, recursive)
		if err != nil {
			return nil, err
		}
		for _, dir := range dirs {
			if seen[dir.Path] {
				continue
			}
			seen[dir.Path] = true
			result = append(result, dir)
		}
	}

	return result, nil
}

func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if strings.HasSuffix(pattern, "/...") {
		base := strings.TrimSuffix(pattern, "/...")
		if base == "" {
			base = "."
		}
		return base, true
	}
	return pattern, false
}
