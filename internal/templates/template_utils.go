package templates

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/toyz/synapse/internal/errors"
)

// Capitalize upper-cases the first rune of s
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst lower-cases the first rune of s
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// IsExported reports whether name starts with an upper-case letter
func IsExported(name string) bool {
	return token.IsExported(name)
}

// ConstructorName returns NewT for exported types and newT otherwise
func ConstructorName(typeName string) string {
	if IsExported(typeName) {
		return "New" + typeName
	}
	return "new" + Capitalize(typeName)
}

// SnakeCase converts a Go identifier to snake_case, keeping acronyms together:
// HTTPServer becomes http_server and getLang becomes get_lang.
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// identScope hands out identifiers that do not collide with Go keywords,
// reserved names or each other.
type identScope struct {
	taken map[string]bool
}

func newIdentScope(reserved ...string) *identScope {
	s := &identScope{taken: make(map[string]bool, len(reserved))}
	for _, r := range reserved {
		s.taken[r] = true
	}
	return s
}

// claim returns name, or name with trailing underscores until it is free
func (s *identScope) claim(name string) string {
	for token.IsKeyword(name) || s.taken[name] {
		name += "_"
	}
	s.taken[name] = true
	return name
}

// memberSet tracks the Go names declared on one generated type. Fields and
// methods share a namespace in Go, so both are claimed here.
type memberSet struct {
	owner string
	names map[string]string // Go name -> declared name that took it
}

func newMemberSet(owner string) *memberSet {
	return &memberSet{owner: owner, names: make(map[string]string)}
}

// claim records goName for declared and fails when another member already
// renders to the same identifier
func (m *memberSet) claim(goName, declared, kind string) error {
	if prev, taken := m.names[goName]; taken {
		return errors.Newf(errors.GenerationErrorCode,
			"%s: %s %q collides with %q as %s", m.owner, kind, declared, prev, goName).
			WithContext("type", m.owner).
			WithContext("identifier", goName).
			WithSuggestion("Rename one of the members so their Go names differ")
	}
	m.names[goName] = declared
	return nil
}
