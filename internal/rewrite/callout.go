package rewrite

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alnah/go-mdpress/internal/token"
)

// calloutPattern matches the typed-admonition marker on the first line of
// a blockquote: "[!type]" optionally followed by a custom title.
var calloutPattern = regexp.MustCompile(`^\[!(note|tip|warning|danger|info)\][ \t]*(.*)$`)

// defaultTitles maps callout types to their canonical display titles.
var defaultTitles = map[string]string{
	"note":    "Note",
	"tip":     "Tip",
	"warning": "Warning",
	"danger":  "Danger",
	"info":    "Info",
}

// calloutData is the result of a successful detection. It is derived once
// per blockquote and consumed immediately by the splice.
type calloutData struct {
	Type  string
	Title string
	// body token range within the stream, start inclusive, end exclusive
	bodyStart int
	bodyEnd   int
	close     int // index of the blockquote_close token
}

// transformCallout inspects the blockquote opening at index open. When the
// first paragraph starts with a callout marker, the whole blockquote range
// is replaced by a single semantic admonition token and the new stream plus
// the index after the replacement are returned. Otherwise the returned
// stream is nil and the blockquote renders unmodified.
func (rw *Rewriter) transformCallout(stream []*token.Token, open int) (int, []*token.Token, error) {
	data := detectCallout(stream, open)
	if data == nil {
		return 0, nil, nil
	}

	body, err := rw.renderer.RenderTokens(stream[data.bodyStart:data.bodyEnd])
	if err != nil {
		return 0, nil, fmt.Errorf("rendering callout body: %w", err)
	}

	callout := &token.Token{
		Type:    token.TypeCallout,
		Tag:     "div",
		Content: wrapCallout(data.Type, data.Title, body),
		Lines:   stream[open].Lines,
	}

	spliced, next := token.Splice(stream, open, data.close+1, callout)
	return next, spliced, nil
}

// detectCallout checks the blockquote's first paragraph for the callout
// marker and, on a match, strips the marker text from the stream and
// returns the callout data. Any other leading content means the blockquote
// is not a callout.
func detectCallout(stream []*token.Token, open int) *calloutData {
	closeIdx := matchingClose(stream, open)
	if closeIdx < 0 {
		return nil
	}

	// The first child must be a paragraph whose inline run leads with text.
	if open+2 >= closeIdx ||
		stream[open+1].Type != token.TypeParagraphOpen ||
		stream[open+2].Type != token.TypeInline {
		return nil
	}
	inline := stream[open+2]

	// The parser splits the first line into several text nodes ("[",
	// "!note]", ...), so the marker is matched against the joined leading
	// text run, not a single child.
	textEnd := 0
	var firstLine strings.Builder
	for textEnd < len(inline.Children) && inline.Children[textEnd].Type == token.TypeText {
		firstLine.WriteString(inline.Children[textEnd].Content)
		textEnd++
	}
	if textEnd == 0 {
		return nil
	}

	m := calloutPattern.FindStringSubmatch(firstLine.String())
	if m == nil {
		return nil
	}

	data := &calloutData{
		Type:  m[1],
		Title: strings.TrimSpace(m[2]),
		close: closeIdx,
	}
	if data.Title == "" {
		data.Title = defaultTitles[data.Type]
	}

	// Remove the marker line and an immediately following line break
	// without disturbing the rest of the run.
	children := inline.Children[textEnd:]
	if len(children) > 0 && (children[0].Type == token.TypeSoftBreak || children[0].Type == token.TypeHardBreak) {
		children = children[1:]
	}
	inline.Children = children

	data.bodyStart = open + 1
	data.bodyEnd = closeIdx
	if len(inline.Children) == 0 {
		// The marker was the paragraph's only content; drop the now-empty
		// paragraph from the body.
		data.bodyStart = open + 4
	}
	return data
}

// matchingClose returns the index of the blockquote_close matching the
// open at index open, honoring nesting. Returns -1 if the stream is
// malformed.
func matchingClose(stream []*token.Token, open int) int {
	depth := 0
	for i := open; i < len(stream); i++ {
		switch stream[i].Type {
		case token.TypeBlockquoteOpen:
			depth++
		case token.TypeBlockquoteClose:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// wrapCallout builds the semantic admonition block around the rendered
// body.
func wrapCallout(calloutType, title, body string) string {
	var b strings.Builder
	b.WriteString(`<div class="callout callout-` + calloutType + `">` + "\n")
	b.WriteString(`<p class="callout-title">` + html.EscapeString(title) + "</p>\n")
	b.WriteString(`<div class="callout-body">` + "\n")
	b.WriteString(body)
	b.WriteString("</div>\n</div>\n")
	return b.String()
}
