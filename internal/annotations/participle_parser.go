package annotations

import (
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/synapse/internal/errors"
)

// directive is the grammar root of one //synapse:: comment
type directive struct {
	Prefix string  `parser:"@Prefix"`
	Type   string  `parser:"@Word"`
	Items  []*item `parser:"@@*"`
}

// item is either a flag or a positional argument
type item struct {
	Flag *string `parser:"  @Flag"`
	Arg  *string `parser:"| @(String | Word)"`
}

var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Prefix", Pattern: `//\s*synapse::`},
	{Name: "Flag", Pattern: `-[A-Za-z_][A-Za-z0-9_]*(=\S*)?`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Word", Pattern: `[^\s"]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// ParticipleParser parses directives with alecthomas/participle and
// validates them against a schema registry
type ParticipleParser struct {
	parser   *participle.Parser[directive]
	registry AnnotationRegistry
}

// NewParticipleParser creates a new parser. A nil registry skips validation.
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	return &ParticipleParser{
		parser: participle.MustBuild[directive](
			participle.Lexer(directiveLexer),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
		registry: registry,
	}
}

// NewParser creates a parser backed by the default registry
func NewParser() *ParticipleParser {
	return NewParticipleParser(DefaultRegistry())
}

// ParseAnnotation parses one directive comment
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	loc := errors.SourceLocation{File: location.File, Line: location.Line, Column: location.Column}
	raw := strings.TrimSpace(comment)

	parsed, err := p.parser.ParseString(location.File, raw)
	if err != nil {
		return nil, errors.WrapParseError("directive", err).
			WithLocation(loc).
			WithContext("directive", raw).
			WithSuggestion("Directives look like //synapse::<client|server|property|checkinit> [args] [-Flag=value]")
	}

	annotationType, err := ParseAnnotationType(parsed.Type)
	if err != nil {
		return nil, errors.SyntaxError(loc, "unknown directive %q", parsed.Type).
			WithContext("directive", raw).
			WithSuggestion("Known directives: client, server, property, checkinit")
	}

	annotation := &ParsedAnnotation{
		Type:     annotationType,
		Args:     make([]string, 0, len(parsed.Items)),
		Flags:    make(map[string]string),
		Location: location,
		Raw:      raw,
	}
	for _, it := range parsed.Items {
		switch {
		case it.Flag != nil:
			name, value, hasValue := strings.Cut(strings.TrimPrefix(*it.Flag, "-"), "=")
			if !hasValue {
				value = "true"
			}
			annotation.Flags[name] = value
		case it.Arg != nil:
			annotation.Args = append(annotation.Args, *it.Arg)
		}
	}

	if p.registry != nil {
		if err := p.validate(annotation, loc); err != nil {
			return nil, err
		}
	}
	return annotation, nil
}

func (p *ParticipleParser) validate(a *ParsedAnnotation, loc errors.SourceLocation) error {
	schema, err := p.registry.GetSchema(a.Type)
	if err != nil {
		return errors.Wrap(errors.ValidationErrorCode, err.Error(), err).WithLocation(loc)
	}

	if len(a.Args) < schema.MinArgs || (schema.MaxArgs >= 0 && len(a.Args) > schema.MaxArgs) {
		return errors.SyntaxError(loc, "%s directive takes %s, got %d",
			a.Type, describeArity(schema), len(a.Args)).
			WithContext("directive", a.Raw).
			WithSuggestion("Usage: " + schema.Usage)
	}

	for name, value := range a.Flags {
		if _, ok := schema.Flags[name]; !ok {
			return errors.SyntaxError(loc, "%s directive does not accept -%s", a.Type, name).
				WithContext("directive", a.Raw).
				WithSuggestion("Usage: " + schema.Usage)
		}
		if value == "" {
			return errors.SyntaxError(loc, "flag -%s needs a value", name).
				WithContext("directive", a.Raw)
		}
	}

	switch a.Type {
	case PropertyAnnotation:
		if !isIdentifier(a.Arg(0)) {
			return errors.SyntaxError(loc, "property name %q is not an identifier", a.Arg(0)).
				WithSuggestion("Usage: " + schema.Usage)
		}
		if _, err := parser.ParseExpr(a.JoinArgs(1)); err != nil {
			return errors.SyntaxError(loc, "property type %q is not a Go type: %v", a.JoinArgs(1), err).
				WithSuggestion("Usage: " + schema.Usage)
		}
	case CheckInitAnnotation:
		if _, err := parser.ParseExpr(a.JoinArgs(0)); err != nil {
			return errors.SyntaxError(loc, "failure value %q is not a Go expression: %v", a.JoinArgs(0), err).
				WithSuggestion("Usage: " + schema.Usage)
		}
		if flag := a.GetFlag("Flag"); flag != "" && !isIdentifier(flag) {
			return errors.SyntaxError(loc, "guard flag %q is not an identifier", flag)
		}
	}
	return nil
}

func describeArity(s AnnotationSchema) string {
	switch {
	case s.MaxArgs == 0:
		return "no arguments"
	case s.MaxArgs < 0:
		return "at least " + plural(s.MinArgs)
	case s.MinArgs == s.MaxArgs:
		return "exactly " + plural(s.MinArgs)
	default:
		return "between " + plural(s.MinArgs) + " and " + plural(s.MaxArgs)
	}
}

func plural(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return strconv.Itoa(n) + " arguments"
}

func isIdentifier(s string) bool {
	return token.IsIdentifier(s)
}
