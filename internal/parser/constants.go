package parser

const (
	// GeneratedSuffix marks files written by synapse; they are never parsed as input
	GeneratedSuffix = "_synapse.go"

	// TestSuffix marks test files, which are not generation input
	TestSuffix = "_test.go"

	// anonymousParam is how an unnamed Go parameter is labelled before extraction
	anonymousParam = ""
)
