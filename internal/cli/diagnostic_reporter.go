package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/synapse/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: os.Stderr}
}

// SetOutput redirects the report
func (r *DiagnosticReporter) SetOutput(w io.Writer) {
	r.out = w
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	color.New(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError prints every generator error contained in err. A
// MultipleErrors is expanded; each entry is printed with its code,
// location, context and hints.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	entries := flatten(err)
	heading := "code generation failed"
	if len(entries) > 1 {
		heading = fmt.Sprintf("code generation failed with %d errors", len(entries))
	}
	color.New(color.FgRed, color.Bold).Fprintf(r.out, "\nERROR: %s\n\n", heading)

	for i, entry := range entries {
		if len(entries) > 1 {
			fmt.Fprintf(r.out, "%d) ", i+1)
		}
		r.reportOne(entry)
	}

	if !r.verbose {
		fmt.Fprintf(r.out, "Run with -verbose for more detail.\n")
	}
}

func (r *DiagnosticReporter) reportOne(err error) {
	var se errors.SynapseError
	if !stderrors.As(err, &se) {
		fmt.Fprintf(r.out, "%s\n\n", err.Error())
		return
	}

	fmt.Fprintf(r.out, "%s: %s\n", se.ErrorCode(), message(se))
	if loc := se.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "   at %s\n", loc)
	}

	if ctx := se.Context(); len(ctx) > 0 {
		keys := make([]string, 0, len(ctx))
		for k := range ctx {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(k), ctx[k])
		}
	}

	for _, hint := range se.Suggestions() {
		fmt.Fprintf(r.out, "   hint: %s\n", hint)
	}

	if r.verbose {
		level := 1
		for cause := se.Unwrap(); cause != nil; cause = stderrors.Unwrap(cause) {
			fmt.Fprintf(r.out, "   cause %d: %s\n", level, cause)
			level++
		}
	}
	fmt.Fprintln(r.out)
}

// message strips the location prefix BaseError.Error adds
func message(se errors.SynapseError) string {
	if base, ok := se.(*errors.BaseError); ok {
		return base.Message
	}
	return se.Error()
}

func flatten(err error) []error {
	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		var all []error
		for _, e := range multi.Errors {
			all = append(all, flatten(e)...)
		}
		return all
	}
	return []error{err}
}

// formatContextKey turns snake_case keys into Title Case labels
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// ReportSuccess prints the generation summary
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	fmt.Fprintf(r.out, "\nprocessed %d packages, generated %d files", summary.PackagesProcessed, len(summary.GeneratedFiles))
	if summary.GuardsApplied > 0 {
		fmt.Fprintf(r.out, ", applied %d guards", summary.GuardsApplied)
	}
	fmt.Fprintln(r.out)
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	InterfacesFound   int
	GuardsApplied     int
	Warnings          int
	GeneratedFiles    []string
	RewrittenFiles    []string
}
