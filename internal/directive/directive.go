// Package directive parses the comment-embedded layout directive language
// and rewrites recognized directive comments into zero-footprint marker
// tokens for the downstream renderer.
//
// The grammar is deliberately tiny:
//
//	<!-- @name -->
//	<!-- @name: value -->
//
// Whitespace between "<!--" and "@" is required; whitespace between "@"
// and the name is not permitted.
package directive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-mdpress/internal/hints"
)

// Kind identifies a directive type.
type Kind int

const (
	KindPage Kind = iota
	KindBreak
	KindSpread
	KindColumns
)

// String returns the directive name as written by authors.
func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindBreak:
		return "break"
	case KindSpread:
		return "spread"
	case KindColumns:
		return "columns"
	default:
		return "unknown"
	}
}

// Directive is a parsed, validated layout directive. Directives are
// transient: parsed from one comment token and immediately consumed to
// rewrite that token into a marker.
type Directive struct {
	Kind  Kind
	Value string // page template or spread side; empty for break
	Count int    // column count; zero unless Kind is KindColumns
}

// PageTemplates enumerates the valid values for @page.
var PageTemplates = []string{
	"chapter", "body", "art", "appendix", "frontmatter",
	"cover", "title-page", "credits", "toc", "glossary", "blank",
}

// SpreadValues enumerates the valid values for @spread.
var SpreadValues = []string{"left", "right", "blank"}

// ColumnValues enumerates the valid values for @columns.
var ColumnValues = []string{"1", "2", "3"}

var directiveNames = []string{"page", "break", "spread", "columns"}

// directivePattern matches "<!-- @name -->" and "<!-- @name: value -->".
// The whitespace after "<!--" is mandatory and "@" must touch the name.
var directivePattern = regexp.MustCompile(`^<!--\s+@([a-zA-Z][a-zA-Z-]*)(?:\s*:\s*(.*?))?\s*-->$`)

// ValidationError reports a directive whose value is outside its enumerated
// domain. It is fatal: bad pagination is worse than no pagination.
type ValidationError struct {
	Name       string   // directive name, e.g. "page"
	Value      string   // offending value as written
	Valid      []string // the full valid-value enumeration
	Suggestion string   // closest valid value, empty if none within range
	Example    string   // one-line usage example
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Value == "" {
		fmt.Fprintf(&b, "@%s requires a value", e.Name)
	} else {
		fmt.Fprintf(&b, "@%s: invalid value %q", e.Name, e.Value)
	}
	b.WriteString(hints.ForValidValues(e.Valid))
	b.WriteString(hints.ForDidYouMean(e.Suggestion))
	b.WriteString(hints.ForUsage(e.Example))
	return b.String()
}

// UnknownNameError reports an unrecognized directive name. It is not fatal:
// the comment is left unmodified and the error is logged as a warning.
type UnknownNameError struct {
	Name       string
	Suggestion string // closest valid directive name, empty if none
}

func (e *UnknownNameError) Error() string {
	msg := fmt.Sprintf("unknown directive @%s", e.Name)
	msg += hints.ForDidYouMean(e.Suggestion)
	return msg
}

// CommentName extracts the directive name from a comment without validating
// its value. The rewriter uses it to recognize not-yet-rewritten directive
// comments ahead of the cursor when resolving explicit-versus-implicit
// conflicts.
func CommentName(comment string) (string, bool) {
	m := directivePattern.FindStringSubmatch(strings.TrimSpace(comment))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Parse attempts to interpret the literal text of a comment token as a
// directive. A comment that does not match the directive grammar at all
// returns (nil, nil): most comments are ordinary and pass through untouched.
// An unrecognized directive name returns *UnknownNameError; an invalid
// value returns *ValidationError.
func Parse(comment string) (*Directive, error) {
	m := directivePattern.FindStringSubmatch(strings.TrimSpace(comment))
	if m == nil {
		return nil, nil
	}
	name := m[1]
	value := strings.TrimSpace(m[2])

	switch name {
	case "page":
		return validateEnum(KindPage, name, value, PageTemplates, "<!-- @page: chapter -->")
	case "break":
		// @break takes no value and always succeeds.
		return &Directive{Kind: KindBreak}, nil
	case "spread":
		return validateEnum(KindSpread, name, value, SpreadValues, "<!-- @spread: left -->")
	case "columns":
		return validateColumns(value)
	default:
		suggestion, _ := hints.ClosestMatch(name, directiveNames)
		return nil, &UnknownNameError{Name: name, Suggestion: suggestion}
	}
}

// validateEnum checks a directive value against its fixed enumeration.
func validateEnum(kind Kind, name, value string, valid []string, example string) (*Directive, error) {
	for _, v := range valid {
		if value == v {
			return &Directive{Kind: kind, Value: value}, nil
		}
	}
	suggestion, _ := hints.ClosestMatch(value, valid)
	return nil, &ValidationError{
		Name:       name,
		Value:      value,
		Valid:      valid,
		Suggestion: suggestion,
		Example:    example,
	}
}

// validateColumns checks that the @columns value parses as one of 1, 2, 3.
func validateColumns(value string) (*Directive, error) {
	n, err := strconv.Atoi(value)
	if err == nil && n >= 1 && n <= 3 {
		return &Directive{Kind: KindColumns, Value: value, Count: n}, nil
	}
	suggestion, _ := hints.ClosestMatch(value, ColumnValues)
	return nil, &ValidationError{
		Name:       "columns",
		Value:      value,
		Valid:      ColumnValues,
		Suggestion: suggestion,
		Example:    "<!-- @columns: 2 -->",
	}
}
