package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/synapse/internal/errors"
)

const (
	// GeneratedSuffix ends every file the generator writes
	GeneratedSuffix = "_synapse.go"
	// ContractExtension marks contract-language sources
	ContractExtension = ".synapse"
)

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info fs.DirEntry) bool

// FileProcessor finds source packages and generated files on disk
type FileProcessor struct {
	dirFilter DirectoryFilter
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{dirFilter: DefaultDirectoryFilter()}
}

// GoSourceFilter accepts .go files that are neither tests nor generated stubs
func GoSourceFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasSuffix(name, GeneratedSuffix)
	}
}

// ContractFilter accepts contract-language files
func ContractFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), ContractExtension)
	}
}

// GeneratedFilter accepts files written by the generator
func GeneratedFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), GeneratedSuffix)
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"_examples":    true,
	}

	return func(path string, info fs.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// PackageDir is a directory holding Go sources, contracts or both
type PackageDir struct {
	Path         string
	HasGo        bool
	HasContracts bool
}

// ScanPackages returns the package directories under root, in lexical order.
// When recursive is false only root itself is inspected.
func (fp *FileProcessor) ScanPackages(root string, recursive bool) ([]PackageDir, error) {
	if !recursive {
		dir, err := fp.inspect(root)
		if err != nil {
			return nil, err
		}
		if !dir.HasGo && !dir.HasContracts {
			return nil, nil
		}
		return []PackageDir{dir}, nil
	}

	var dirs []PackageDir
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && !fp.dirFilter(path, d) {
			return filepath.SkipDir
		}
		dir, err := fp.inspect(path)
		if err != nil {
			return err
		}
		if dir.HasGo || dir.HasContracts {
			dirs = append(dirs, dir)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapFileSystemError("scan", root, err)
	}
	return dirs, nil
}

func (fp *FileProcessor) inspect(dir string) (PackageDir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return PackageDir{}, errors.WrapFileSystemError("read directory", dir, err)
	}

	result := PackageDir{Path: dir}
	goFiles, contracts := GoSourceFilter(), ContractFilter()
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		result.HasGo = result.HasGo || goFiles(path, entry)
		result.HasContracts = result.HasContracts || contracts(path, entry)
	}
	return result, nil
}

// FindFiles lists the files directly inside dir accepted by filter, sorted
func (fp *FileProcessor) FindFiles(dir string, filter FileFilter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", dir, err)
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if filter(path, entry) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// RemoveGenerated deletes the generated stubs directly inside dir and returns
// the removed paths
func (fp *FileProcessor) RemoveGenerated(dir string) ([]string, error) {
	files, err := fp.FindFiles(dir, GeneratedFilter())
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(files))
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return removed, errors.WrapFileSystemError("remove", file, err)
		}
		removed = append(removed, file)
	}
	return removed, nil
}
