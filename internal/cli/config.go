package cli

import (
	"fmt"

	"github.com/toyz/synapse/internal/errors"
)

// DefaultBackend is the back-end used when none is configured
const DefaultBackend = "go"

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan. A trailing "/..."
	// scans recursively.
	Directories []string

	// ModuleName overrides the module path read from go.mod
	ModuleName string

	// Backend names the registered render back-end
	Backend string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Quiet only shows errors and final results
	Quiet bool

	// Clean deletes generated files instead of generating
	Clean bool

	// Rewrite applies checkinit guards to the scanned Go files
	Rewrite bool

	// DryRun prints generated files instead of writing them
	DryRun bool
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	if len(c.Directories) == 0 {
		return errors.ConfigurationError("directories", "at least one directory path is required")
	}
	if c.Verbose && c.Quiet {
		return errors.ConfigurationError("flags", "-verbose and -quiet are mutually exclusive")
	}
	if c.Clean && (c.Rewrite || c.DryRun) {
		return errors.ConfigurationError("flags", fmt.Sprintf("-clean cannot be combined with %s", c.cleanConflict()))
	}
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	return nil
}

func (c *Config) cleanConflict() string {
	if c.Rewrite {
		return "-rewrite"
	}
	return "-dry-run"
}
