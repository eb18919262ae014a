// Command synapse generates RPC client and server stubs for annotated Go
// interfaces and .synapse contracts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/toyz/synapse/internal/cli"
	"github.com/toyz/synapse/internal/render"
	"github.com/toyz/synapse/internal/templates"
	"github.com/toyz/synapse/internal/utils"
)

func init() {
	render.Register(templates.NewGoBackend())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("synapse", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var config cli.Config
	flags.StringVar(&config.ModuleName, "module", "", "Module path for generated headers (defaults to the go.mod module)")
	flags.StringVar(&config.Backend, "backend", cli.DefaultBackend, "Render back-end: "+strings.Join(render.List(), ", "))
	flags.BoolVar(&config.Verbose, "verbose", false, "Enable verbose output and detailed error reporting")
	flags.BoolVar(&config.Quiet, "quiet", false, "Only show errors and final results")
	flags.BoolVar(&config.Clean, "clean", false, "Delete all *_synapse.go files from the specified directories")
	flags.BoolVar(&config.Rewrite, "rewrite", false, "Insert init checks into functions marked //synapse::checkinit")
	flags.BoolVar(&config.DryRun, "dry-run", false, "Print generated and rewritten files instead of writing them")
	help := flags.Bool("help", false, "Show help information")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: synapse [options] <directory-paths...>\n\n")
		fmt.Fprintf(stderr, "Synapse RPC Stub Generator\n")
		fmt.Fprintf(stderr, "Scans directories for interfaces marked //synapse::client or //synapse::server\n")
		fmt.Fprintf(stderr, "and for .synapse contracts, and writes <interface>_synapse.go next to them.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nDirectory Patterns:\n")
		fmt.Fprintf(stderr, "  ./...              Scan current directory and all subdirectories recursively\n")
		fmt.Fprintf(stderr, "  ./internal/...     Scan internal directory and all its subdirectories\n")
		fmt.Fprintf(stderr, "  ./pkg/speech       Scan only the specific directory (no recursion)\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  synapse ./...                          # Generate everything\n")
		fmt.Fprintf(stderr, "  synapse -rewrite ./internal/...        # Also apply checkinit guards\n")
		fmt.Fprintf(stderr, "  synapse -dry-run ./pkg/speech          # Print instead of writing\n")
		fmt.Fprintf(stderr, "  synapse -clean ./...                   # Delete generated files\n")
		fmt.Fprintf(stderr, "\nIn a package, add:\n")
		fmt.Fprintf(stderr, "  //go:generate go run github.com/toyz/synapse/cmd/synapse .\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *help {
		flags.Usage()
		return 0
	}

	config.Directories = flags.Args()
	if len(config.Directories) == 0 {
		fmt.Fprintf(stderr, "Error: At least one directory path is required\n\n")
		flags.Usage()
		return 1
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case config.Quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case config.Verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.SetOutput(stdout, stderr)

	reporter := cli.NewDiagnosticReporter(diagnostics.Level() >= utils.DiagnosticVerbose)
	reporter.SetOutput(stderr)

	if err := config.Validate(); err != nil {
		reporter.ReportError(err)
		return 1
	}

	if config.Clean {
		removed, err := cli.NewCleaner().CleanGeneratedFiles(config.Directories)
		for _, file := range removed {
			diagnostics.Verbose("removed %s", file)
		}
		if err != nil {
			reporter.ReportError(err)
			return 1
		}
		diagnostics.Success("removed %d generated files", len(removed))
		return 0
	}

	diagnostics.Header("generating stubs")
	if config.Verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(config.Directories, ", "))
		if config.ModuleName != "" {
			diagnostics.List("Custom module: %s", config.ModuleName)
		}
		diagnostics.List("Back-end: %s", config.Backend)
	}

	generator := cli.NewGenerator(diagnostics)
	generator.SetDryRunOutput(stdout)

	err := generator.Run(ctx, config)
	summary := generator.GetSummary()
	if err != nil {
		reporter.ReportError(err)
		if len(summary.GeneratedFiles) > 0 {
			diagnostics.Info("%d files were still generated", len(summary.GeneratedFiles))
		}
		return 1
	}

	diagnostics.Summary("Generation Complete!", map[string]interface{}{
		"Packages processed": summary.PackagesProcessed,
		"Interfaces found":   summary.InterfacesFound,
		"Files generated":    len(summary.GeneratedFiles),
		"Guards applied":     summary.GuardsApplied,
		"Warnings":           summary.Warnings,
	})
	diagnostics.GenerationComplete()
	return 0
}
