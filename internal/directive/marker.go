package directive

import "github.com/alnah/go-mdpress/internal/token"

// Marker attribute names carried to the downstream renderer.
const (
	AttrDirective = "data-directive"
	AttrValue     = "data-value"
)

// RewriteComment rewrites a directive comment token in place into a
// zero-footprint marker element. The original comment text is discarded,
// so a second pass over the stream cannot re-interpret the directive.
// The token's source line range is preserved for error reporting.
func RewriteComment(tok *token.Token, d *Directive) {
	tok.Type = token.TypeLayoutMarker
	tok.Tag = "span"
	tok.Content = ""
	tok.Children = nil
	tok.Hidden = true
	tok.Attrs = nil
	tok.SetAttr("class", "layout-"+d.Kind.String())
	tok.SetAttr(AttrDirective, d.Kind.String())
	if d.Value != "" {
		tok.SetAttr(AttrValue, d.Value)
	}
}

// IsExplicitChapterControl reports whether the token is an explicit @page
// or @break marker. Such a marker near a level-1 heading suppresses the
// automatic chapter-start rule: author intent beats the default.
func IsExplicitChapterControl(tok *token.Token) bool {
	if tok.Type != token.TypeLayoutMarker {
		return false
	}
	name, _ := tok.Attr(AttrDirective)
	return name == KindPage.String() || name == KindBreak.String()
}
