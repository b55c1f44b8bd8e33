package tokenizer

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-mdpress/internal/token"
)

// ErrRender indicates a token stream could not be rendered.
var ErrRender = errors.New("render failed")

// Renderer renders a token stream to an HTML fragment. It is the same
// renderer used for the final document output and for callout bodies, so
// extracted content round-trips byte for byte.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderTokens renders the stream to an HTML fragment.
func (r *Renderer) RenderTokens(stream []*token.Token) (string, error) {
	var b strings.Builder
	for _, tok := range stream {
		if err := r.renderToken(&b, tok); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (r *Renderer) renderToken(b *strings.Builder, tok *token.Token) error {
	switch tok.Type {
	case token.TypeHeadingOpen, token.TypeParagraphOpen:
		r.openTag(b, tok)

	case token.TypeHeadingClose, token.TypeParagraphClose:
		b.WriteString("</" + tok.Tag + ">\n")

	case token.TypeBlockquoteOpen:
		r.openTag(b, tok)
		b.WriteString("\n")

	case token.TypeBlockquoteClose:
		b.WriteString("</blockquote>\n")

	case token.TypeInline:
		for _, child := range tok.Children {
			if err := r.renderInline(b, child); err != nil {
				return err
			}
		}

	case token.TypeRule:
		b.WriteString("<hr />\n")

	case token.TypeHTMLBlock:
		b.WriteString(tok.Content)
		b.WriteString("\n")

	case token.TypeChunk, token.TypeCallout:
		b.WriteString(tok.Content)

	case token.TypePageBreak, token.TypeLayoutMarker:
		r.openTag(b, tok)
		b.WriteString("</" + tok.Tag + ">\n")

	default:
		return fmt.Errorf("%w: unknown block token type %q", ErrRender, tok.Type)
	}
	return nil
}

func (r *Renderer) renderInline(b *strings.Builder, tok *token.Token) error {
	switch tok.Type {
	case token.TypeText:
		b.WriteString(html.EscapeString(tok.Content))

	case token.TypeSoftBreak:
		b.WriteString("\n")

	case token.TypeHardBreak:
		b.WriteString("<br />\n")

	case token.TypeCodeInline:
		b.WriteString("<code>" + html.EscapeString(tok.Content) + "</code>")

	case token.TypeEmOpen, token.TypeStrongOpen, token.TypeLinkOpen:
		r.openTag(b, tok)

	case token.TypeEmClose, token.TypeStrongClose, token.TypeLinkClose:
		b.WriteString("</" + tok.Tag + ">")

	case token.TypeImage:
		b.WriteString("<img")
		r.writeAttrs(b, tok)
		b.WriteString(" />")

	case token.TypeHTMLInline:
		b.WriteString(tok.Content)

	default:
		return fmt.Errorf("%w: unknown inline token type %q", ErrRender, tok.Type)
	}
	return nil
}

func (r *Renderer) openTag(b *strings.Builder, tok *token.Token) {
	b.WriteString("<" + tok.Tag)
	r.writeAttrs(b, tok)
	b.WriteString(">")
}

func (r *Renderer) writeAttrs(b *strings.Builder, tok *token.Token) {
	for _, a := range tok.Attrs {
		b.WriteString(" " + a.Key + `="` + html.EscapeString(a.Value) + `"`)
	}
	if tok.Hidden {
		b.WriteString(` hidden="hidden"`)
	}
}
