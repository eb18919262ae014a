package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/utils"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"no directories", Config{}, "at least one directory path is required"},
		{"verbose and quiet", Config{Directories: []string{"."}, Verbose: true, Quiet: true}, "mutually exclusive"},
		{"clean and rewrite", Config{Directories: []string{"."}, Clean: true, Rewrite: true}, "-clean cannot be combined with -rewrite"},
		{"clean and dry run", Config{Directories: []string{"."}, Clean: true, DryRun: true}, "-clean cannot be combined with -dry-run"},
		{"valid", Config{Directories: []string{"."}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, DefaultBackend, tt.config.Backend)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDirectoryScanner(t *testing.T) {
	root := newModule(t, map[string]string{
		"a/a.go":           "package a",
		"a/b/b.synapse":    "package b",
		"c/c.go":           "package c",
		"a/vendor/v/v.go":  "package v",
		"a/b/b_synapse.go": "package b",
	})
	s := NewDirectoryScanner()

	dirs, err := s.ScanDirectories([]string{"./a/..."})
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.Equal(t, utils.PackageDir{Path: filepath.Join(root, "a"), HasGo: true}, dirs[0])
	assert.Equal(t, utils.PackageDir{Path: filepath.Join(root, "a", "b"), HasContracts: true}, dirs[1])

	dirs, err = s.ScanDirectories([]string{"a", "./...", "c"})
	require.NoError(t, err)
	paths := make([]string, len(dirs))
	for i, d := range dirs {
		paths[i] = d.Path
	}
	assert.Equal(t, []string{
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b"),
		filepath.Join(root, "c"),
	}, paths)

	_, err = s.ScanDirectories([]string{"missing"})
	assert.Error(t, err)
}

func TestModuleResolver(t *testing.T) {
	root := newModule(t, map[string]string{"svc/inner/x.go": "package inner"})
	chdir(t, filepath.Join(root, "svc"))

	r := NewModuleResolver()
	name, err := r.ResolveModuleName("")
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", name)
	assert.Equal(t, root, r.Root())

	path, err := r.BuildPackagePath(name, "inner")
	require.NoError(t, err)
	assert.Equal(t, "example.com/app/svc/inner", path)

	path, err = r.BuildPackagePath(name, root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", path)

	_, err = r.BuildPackagePath(name, filepath.Dir(root))
	assert.ErrorContains(t, err, "outside module root")

	name, err = r.ResolveModuleName("github.com/acme/app")
	require.NoError(t, err)
	assert.Equal(t, "github.com/acme/app", name)
}

func TestModuleResolver_NoGoMod(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	r := NewModuleResolver()
	_, err := r.ResolveModuleName("")
	assert.ErrorContains(t, err, "consider using -module")

	name, err := r.ResolveModuleName("example.com/loose")
	require.NoError(t, err)
	path, err := r.BuildPackagePath(name, filepath.Join(dir, "pkg"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/loose/pkg", path)
}

func TestCleaner(t *testing.T) {
	root := newModule(t, map[string]string{
		"clock/clock.go":            clockSource,
		"clock/clock_synapse.go":    "package clock",
		"speech/s.synapse":          contractSource,
		"speech/speaker_synapse.go": "package speech",
	})

	removed, err := NewCleaner().CleanGeneratedFiles([]string{"./..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "clock", "clock_synapse.go"),
		filepath.Join(root, "speech", "speaker_synapse.go"),
	}, removed)
	assert.FileExists(t, filepath.Join(root, "clock", "clock.go"))

	removed, err = NewCleaner().CleanGeneratedFiles([]string{"clock"})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestDiagnosticReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewDiagnosticReporter(false)
	r.SetOutput(&out)

	errs := errors.NewMultipleErrors()
	errors.AddToMultiple(errs, errors.NotAnInterface("Engine", "struct").
		WithLocation(errors.SourceLocation{File: "engine.go", Line: 12}))
	errors.AddToMultiple(errs, fmt.Errorf("disk full"))

	r.ReportError(errs)
	report := out.String()

	assert.Contains(t, report, "code generation failed with 2 errors")
	assert.Contains(t, report, "1) NotAnInterface: ")
	assert.Contains(t, report, "   at engine.go:12\n")
	assert.Contains(t, report, "2) UnknownError: disk full")
	assert.Contains(t, report, "Run with -verbose")

	out.Reset()
	r.ReportWarning("ClockClient does not implement Clock")
	assert.Contains(t, out.String(), "! ClockClient does not implement Clock\n")

	out.Reset()
	r.ReportSuccess(GenerationSummary{PackagesProcessed: 3, GeneratedFiles: []string{"a", "b"}, GuardsApplied: 1})
	assert.Equal(t, "\nprocessed 3 packages, generated 2 files, applied 1 guards\n", out.String())
}

func TestDiagnosticReporter_VerboseShowsCauses(t *testing.T) {
	var out bytes.Buffer
	r := NewDiagnosticReporter(true)
	r.SetOutput(&out)

	r.ReportError(errors.WrapFileSystemError("write", "a_synapse.go", os.ErrPermission))

	report := out.String()
	assert.Contains(t, report, "code generation failed\n")
	assert.Contains(t, report, "FileSystemError: failed to write file 'a_synapse.go'")
	assert.Contains(t, report, "   Path: a_synapse.go\n")
	assert.Contains(t, report, "   cause 1: permission denied")
	assert.NotContains(t, report, "Run with -verbose")
}
