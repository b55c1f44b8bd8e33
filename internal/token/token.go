// Package token defines the flat token stream the annotation engine operates
// on. The stream mirrors the shape a markdown parser produces before
// rendering: block structures appear as open/close token pairs, inline
// content as a single "inline" token whose Children form a flat run.
package token

import "strings"

// Block token types.
const (
	TypeHeadingOpen     = "heading_open"
	TypeHeadingClose    = "heading_close"
	TypeParagraphOpen   = "paragraph_open"
	TypeParagraphClose  = "paragraph_close"
	TypeBlockquoteOpen  = "blockquote_open"
	TypeBlockquoteClose = "blockquote_close"
	TypeInline          = "inline"
	TypeRule            = "rule"
	TypeHTMLBlock       = "html_block"
	TypeChunk           = "html_chunk"
)

// Inline child token types.
const (
	TypeText        = "text"
	TypeSoftBreak   = "softbreak"
	TypeHardBreak   = "hardbreak"
	TypeCodeInline  = "code_inline"
	TypeEmOpen      = "em_open"
	TypeEmClose     = "em_close"
	TypeStrongOpen  = "strong_open"
	TypeStrongClose = "strong_close"
	TypeLinkOpen    = "link_open"
	TypeLinkClose   = "link_close"
	TypeImage       = "image"
	TypeHTMLInline  = "html_inline"
)

// Token types produced by the annotation pass.
const (
	TypeLayoutMarker = "layout_marker"
	TypePageBreak    = "page_break"
	TypeCallout      = "callout"
)

// Attr is a single token attribute. Attributes keep insertion order and
// keys are unique within a token.
type Attr struct {
	Key   string
	Value string
}

// LineRange is the 1-based source line span a token was parsed from.
type LineRange struct {
	Start int
	End   int
}

// Token is one element of the parsed document stream. Tokens are mutated in
// place or spliced by the annotation pass; they are never shared outside
// the stream that owns them.
type Token struct {
	Type     string
	Tag      string
	Content  string
	Attrs    []Attr
	Lines    *LineRange
	Children []*Token
	Hidden   bool // zero visual footprint; renders as an empty carrier element
}

// Attr returns the value of the named attribute.
func (t *Token) Attr(key string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, replacing an existing value in place
// to preserve attribute order.
func (t *Token) SetAttr(key, value string) {
	for i, a := range t.Attrs {
		if a.Key == key {
			t.Attrs[i].Value = value
			return
		}
	}
	t.Attrs = append(t.Attrs, Attr{Key: key, Value: value})
}

// AddClass appends a class to the token's class attribute. Adding a class
// that is already present is a no-op, which keeps class-adding rules
// idempotent across repeated passes.
func (t *Token) AddClass(class string) {
	current, ok := t.Attr("class")
	if !ok || current == "" {
		t.SetAttr("class", class)
		return
	}
	if t.HasClass(class) {
		return
	}
	t.SetAttr("class", current+" "+class)
}

// HasClass reports whether the token's class attribute contains the class.
func (t *Token) HasClass(class string) bool {
	current, _ := t.Attr("class")
	for _, c := range strings.Fields(current) {
		if c == class {
			return true
		}
	}
	return false
}

// Splice replaces stream[start:end] (end exclusive) with repl and returns
// the new stream together with the index of the first token after the
// replacement. The caller's cursor must continue from that index so that
// already-consumed tokens are never revisited.
func Splice(stream []*Token, start, end int, repl ...*Token) ([]*Token, int) {
	out := make([]*Token, 0, len(stream)-(end-start)+len(repl))
	out = append(out, stream[:start]...)
	out = append(out, repl...)
	out = append(out, stream[end:]...)
	return out, start + len(repl)
}
