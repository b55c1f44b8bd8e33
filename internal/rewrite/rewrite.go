// Package rewrite implements the auto-rule annotation pass: a single
// linear sweep over the token stream that injects page-template,
// page-break, chapter-start, art-page, and callout semantics, resolving
// conflicts between explicit author directives and implicit defaults.
package rewrite

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alnah/go-mdpress/internal/directive"
	"github.com/alnah/go-mdpress/internal/token"
)

// Window defaults, measured in token count. A paragraph contributes three
// tokens (open/inline/close), so ten tokens back tolerates a few
// intervening paragraphs between a directive and its heading. The
// asymmetry matches authoring practice: directives are written above the
// content they control.
const (
	DefaultBackWindow    = 10
	DefaultForwardWindow = 2
)

// ErrDirective wraps fatal directive validation failures with document
// position context.
var ErrDirective = errors.New("directive error")

// Classes and attributes injected by the auto rules.
const (
	ClassChapterStart = "chapter-start"
	ClassPageBreak    = "page-break"
	ClassFullBleed    = "full-bleed"
	ClassArtPage      = "page-art"
)

// Renderer renders a token range to its HTML string form. The callout
// transformer uses it so extracted bodies render exactly as the host
// parser would render them.
type Renderer interface {
	RenderTokens(stream []*token.Token) (string, error)
}

// Config holds the tunable constants of the pass.
type Config struct {
	BackWindow    int // explicit-marker lookbehind for level-1 headings
	ForwardWindow int // explicit-marker lookahead for level-1 headings
}

// Rewriter applies the auto rules in one pass. It must be the sole mutator
// of the stream for the duration of Apply.
type Rewriter struct {
	cfg      Config
	renderer Renderer
	logger   *slog.Logger
}

// New creates a Rewriter. Zero window values fall back to the defaults;
// a nil logger falls back to slog.Default().
func New(renderer Renderer, cfg Config, logger *slog.Logger) *Rewriter {
	if cfg.BackWindow <= 0 {
		cfg.BackWindow = DefaultBackWindow
	}
	if cfg.ForwardWindow <= 0 {
		cfg.ForwardWindow = DefaultForwardWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{cfg: cfg, renderer: renderer, logger: logger}
}

// Apply runs the annotation pass over the stream and returns the mutated
// stream. The source name is used for error and warning positions.
// Directive validation failures abort the pass; unknown directive names
// are logged and their comments left untouched.
func (rw *Rewriter) Apply(stream []*token.Token, source string) ([]*token.Token, error) {
	i := 0
	for i < len(stream) {
		tok := stream[i]

		switch tok.Type {
		case token.TypeHTMLBlock:
			if err := rw.applyDirective(tok, source); err != nil {
				return nil, err
			}

		case token.TypeHeadingOpen:
			if tok.Tag == "h1" && !rw.explicitNearby(stream, i) {
				tok.AddClass(ClassChapterStart)
				tok.SetAttr("data-chapter", "auto")
			}

		case token.TypeRule:
			rewriteRuleToBreak(tok)

		case token.TypeInline:
			tagFullBleedImages(tok)

		case token.TypeBlockquoteOpen:
			next, spliced, err := rw.transformCallout(stream, i)
			if err != nil {
				return nil, err
			}
			if spliced != nil {
				// The blockquote range collapsed into one token; continue
				// after it so consumed tokens are never revisited.
				stream = spliced
				i = next
				continue
			}
		}
		i++
	}
	return stream, nil
}

// applyDirective parses a comment token and, when it holds a valid
// directive, rewrites it in place into a marker so it can never be
// interpreted twice.
func (rw *Rewriter) applyDirective(tok *token.Token, source string) error {
	content := strings.TrimSpace(tok.Content)
	if !strings.HasPrefix(content, "<!--") {
		return nil
	}

	d, err := directive.Parse(content)
	if err != nil {
		var unknown *directive.UnknownNameError
		if errors.As(err, &unknown) {
			rw.logger.Warn(unknown.Error(), "source", position(source, tok))
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrDirective, position(source, tok), err)
	}
	if d != nil {
		directive.RewriteComment(tok, d)
	}
	return nil
}

// explicitNearby reports whether an explicit @page or @break control
// exists within the configured token windows around index i. Tokens ahead
// of the cursor may still be raw comments, so both marker tokens and
// unrewritten directive comments count.
func (rw *Rewriter) explicitNearby(stream []*token.Token, i int) bool {
	for j := max(0, i-rw.cfg.BackWindow); j < i; j++ {
		if isChapterControl(stream[j]) {
			return true
		}
	}
	// The forward window starts after the heading's own inline and close
	// tokens; otherwise a two-token lookahead could never reach a directive
	// written directly below the heading.
	start := i + 1
	for start < len(stream) && stream[start].Type != token.TypeHeadingClose {
		start++
	}
	for j := start + 1; j <= min(len(stream)-1, start+rw.cfg.ForwardWindow); j++ {
		if isChapterControl(stream[j]) {
			return true
		}
	}
	return false
}

func isChapterControl(tok *token.Token) bool {
	if directive.IsExplicitChapterControl(tok) {
		return true
	}
	if tok.Type != token.TypeHTMLBlock {
		return false
	}
	name, ok := directive.CommentName(tok.Content)
	return ok && (name == "page" || name == "break")
}

// rewriteRuleToBreak converts a thematic break into a page-break marker in
// place. Rule tokens no longer exist after the first pass, so applying the
// pass twice cannot double-insert breaks.
func rewriteRuleToBreak(tok *token.Token) {
	tok.Type = token.TypePageBreak
	tok.Tag = "div"
	tok.Content = ""
	tok.Attrs = nil
	tok.SetAttr("class", ClassPageBreak)
	tok.SetAttr("data-break", "page")
}

// tagFullBleedImages adds the art-page class to images already marked
// full-bleed. The rule is additive and order-independent.
func tagFullBleedImages(inline *token.Token) {
	for _, child := range inline.Children {
		if child.Type == token.TypeImage && child.HasClass(ClassFullBleed) {
			child.AddClass(ClassArtPage)
		}
	}
}

// position formats a document position from a token's source line range.
func position(source string, tok *token.Token) string {
	if source == "" {
		source = "input"
	}
	if tok.Lines == nil {
		return source
	}
	return fmt.Sprintf("%s:%d", source, tok.Lines.Start)
}
