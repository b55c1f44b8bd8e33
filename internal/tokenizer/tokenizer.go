// Package tokenizer adapts goldmark into the flat token stream the
// annotation engine operates on. Block structures the engine cares about
// (headings, paragraphs, blockquotes, thematic breaks, HTML comments) are
// flattened into open/close token pairs; everything else (lists, tables,
// fenced code) is rendered through goldmark into opaque HTML chunk tokens.
package tokenizer

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-mdpress/internal/token"
)

// ErrTokenize indicates the source could not be tokenized.
var ErrTokenize = errors.New("tokenization failed")

// Setup registers additional syntax extensions into the parser instance.
// Plugin extension functions are applied through this hook at construction
// time, so every Tokenizer owns one fully-configured parser and no shared
// instance is ever mutated afterwards.
type Setup func(md goldmark.Markdown) error

// Tokenizer converts markdown source into a flat token stream.
type Tokenizer struct {
	md goldmark.Markdown
}

// New creates a Tokenizer with GFM extensions and syntax highlighting,
// then applies the given setups in order.
func New(setups ...Setup) (*Tokenizer, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)

	for _, setup := range setups {
		if err := setup(md); err != nil {
			return nil, fmt.Errorf("configuring parser: %w", err)
		}
	}

	return &Tokenizer{md: md}, nil
}

// Tokenize parses source and returns the flat token stream.
func (t *Tokenizer) Tokenize(source []byte) ([]*token.Token, error) {
	reader := text.NewReader(source)
	doc := t.md.Parser().Parse(reader)

	c := &converter{
		source:      source,
		lineOffsets: lineOffsets(source),
		md:          t.md,
	}

	var stream []*token.Token
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		toks, err := c.blockTokens(child)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTokenize, err)
		}
		stream = append(stream, toks...)
	}
	return stream, nil
}

// converter holds state during one AST flattening.
type converter struct {
	source      []byte
	lineOffsets []int
	md          goldmark.Markdown

	// trimNext strips the attribute suffix consumed by a preceding image
	// token from the next text node.
	trimNext int
}

// lineOffsets returns the byte offset of the start of each source line.
func lineOffsets(source []byte) []int {
	offsets := []int{0}
	for i, b := range source {
		if b == '\n' && i+1 < len(source) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineOf maps a byte offset to a 1-based line number.
func (c *converter) lineOf(offset int) int {
	return sort.Search(len(c.lineOffsets), func(i int) bool {
		return c.lineOffsets[i] > offset
	})
}

// linesOf derives a token's source line range from the node's segments,
// falling back to the children's segments for container nodes.
func (c *converter) linesOf(n ast.Node) *token.LineRange {
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		if lines.Len() > 0 {
			first := lines.At(0)
			last := lines.At(lines.Len() - 1)
			return &token.LineRange{
				Start: c.lineOf(first.Start),
				End:   c.lineOf(max(last.Stop-1, first.Start)),
			}
		}
	}

	var span *token.LineRange
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		r := c.linesOf(child)
		if r == nil {
			continue
		}
		if span == nil {
			span = &token.LineRange{Start: r.Start, End: r.End}
			continue
		}
		if r.Start < span.Start {
			span.Start = r.Start
		}
		if r.End > span.End {
			span.End = r.End
		}
	}
	return span
}

// blockTokens flattens one block node into tokens.
func (c *converter) blockTokens(n ast.Node) ([]*token.Token, error) {
	switch node := n.(type) {
	case *ast.Heading:
		tag := "h" + strconv.Itoa(node.Level)
		open := &token.Token{Type: token.TypeHeadingOpen, Tag: tag, Lines: c.linesOf(node)}
		if id, ok := node.AttributeString("id"); ok {
			if idBytes, isBytes := id.([]byte); isBytes {
				open.SetAttr("id", string(idBytes))
			}
		}
		inline := c.inlineToken(node)
		closing := &token.Token{Type: token.TypeHeadingClose, Tag: tag}
		return []*token.Token{open, inline, closing}, nil

	case *ast.Paragraph:
		return c.paragraphTokens(node), nil

	case *ast.TextBlock:
		// Loose text inside containers renders as a paragraph.
		return c.paragraphTokens(node), nil

	case *ast.Blockquote:
		open := &token.Token{Type: token.TypeBlockquoteOpen, Tag: "blockquote", Lines: c.linesOf(node)}
		toks := []*token.Token{open}
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			childToks, err := c.blockTokens(child)
			if err != nil {
				return nil, err
			}
			toks = append(toks, childToks...)
		}
		toks = append(toks, &token.Token{Type: token.TypeBlockquoteClose, Tag: "blockquote"})
		return toks, nil

	case *ast.ThematicBreak:
		return []*token.Token{{Type: token.TypeRule, Tag: "hr"}}, nil

	case *ast.HTMLBlock:
		return []*token.Token{{
			Type:    token.TypeHTMLBlock,
			Content: c.htmlBlockContent(node),
			Lines:   c.linesOf(node),
		}}, nil

	default:
		// Lists, tables, fenced code and anything else goldmark understands
		// pass through its own renderer as a single opaque chunk.
		var buf bytes.Buffer
		if err := c.md.Renderer().Render(&buf, c.source, n); err != nil {
			return nil, err
		}
		return []*token.Token{{
			Type:    token.TypeChunk,
			Content: buf.String(),
			Lines:   c.linesOf(n),
		}}, nil
	}
}

func (c *converter) paragraphTokens(n ast.Node) []*token.Token {
	tag := "p"
	open := &token.Token{Type: token.TypeParagraphOpen, Tag: tag, Lines: c.linesOf(n)}
	inline := c.inlineToken(n)
	closing := &token.Token{Type: token.TypeParagraphClose, Tag: tag}
	return []*token.Token{open, inline, closing}
}

// htmlBlockContent reassembles the raw text of an HTML block.
func (c *converter) htmlBlockContent(n *ast.HTMLBlock) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(c.source))
	}
	if n.HasClosure() {
		buf.Write(n.ClosureLine.Value(c.source))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// inlineToken flattens a block node's inline children into one inline
// container token.
func (c *converter) inlineToken(parent ast.Node) *token.Token {
	inline := &token.Token{Type: token.TypeInline, Lines: c.linesOf(parent)}
	inline.Children = c.inlineChildren(parent)
	return inline
}

// imageAttrSuffix matches a "{.class .class}" run following an image.
var imageAttrSuffix = regexp.MustCompile(`^\{((?:\.[A-Za-z0-9_-]+[ \t]*)+)\}`)

func (c *converter) inlineChildren(parent ast.Node) []*token.Token {
	var children []*token.Token
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		children = append(children, c.inlineNode(n)...)
	}
	return children
}

func (c *converter) inlineNode(n ast.Node) []*token.Token {
	switch node := n.(type) {
	case *ast.Text:
		content := string(node.Segment.Value(c.source))
		if c.trimNext > 0 {
			// A consumed attribute suffix may span several text nodes.
			if c.trimNext >= len(content) {
				c.trimNext -= len(content)
				content = ""
			} else {
				content = content[c.trimNext:]
				c.trimNext = 0
			}
		}
		var toks []*token.Token
		if content != "" {
			toks = append(toks, &token.Token{Type: token.TypeText, Content: content})
		}
		if node.HardLineBreak() {
			toks = append(toks, &token.Token{Type: token.TypeHardBreak})
		} else if node.SoftLineBreak() {
			toks = append(toks, &token.Token{Type: token.TypeSoftBreak})
		}
		return toks

	case *ast.String:
		return []*token.Token{{Type: token.TypeText, Content: string(node.Value)}}

	case *ast.CodeSpan:
		return []*token.Token{{Type: token.TypeCodeInline, Tag: "code", Content: c.nodeText(node)}}

	case *ast.Emphasis:
		openType, closeType, tag := token.TypeEmOpen, token.TypeEmClose, "em"
		if node.Level == 2 {
			openType, closeType, tag = token.TypeStrongOpen, token.TypeStrongClose, "strong"
		}
		toks := []*token.Token{{Type: openType, Tag: tag}}
		toks = append(toks, c.inlineChildren(node)...)
		return append(toks, &token.Token{Type: closeType, Tag: tag})

	case *ast.Link:
		open := &token.Token{Type: token.TypeLinkOpen, Tag: "a"}
		open.SetAttr("href", string(node.Destination))
		if len(node.Title) > 0 {
			open.SetAttr("title", string(node.Title))
		}
		toks := []*token.Token{open}
		toks = append(toks, c.inlineChildren(node)...)
		return append(toks, &token.Token{Type: token.TypeLinkClose, Tag: "a"})

	case *ast.AutoLink:
		url := string(node.URL(c.source))
		open := &token.Token{Type: token.TypeLinkOpen, Tag: "a"}
		open.SetAttr("href", url)
		return []*token.Token{
			open,
			{Type: token.TypeText, Content: string(node.Label(c.source))},
			{Type: token.TypeLinkClose, Tag: "a"},
		}

	case *ast.Image:
		img := &token.Token{Type: token.TypeImage, Tag: "img", Content: c.nodeText(node)}
		img.SetAttr("src", string(node.Destination))
		img.SetAttr("alt", img.Content)
		if len(node.Title) > 0 {
			img.SetAttr("title", string(node.Title))
		}
		c.applyImageAttrSuffix(node, img)
		return []*token.Token{img}

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			buf.Write(seg.Value(c.source))
		}
		return []*token.Token{{Type: token.TypeHTMLInline, Content: buf.String()}}

	default:
		if txt := c.nodeText(n); txt != "" {
			return []*token.Token{{Type: token.TypeText, Content: txt}}
		}
		return nil
	}
}

// applyImageAttrSuffix consumes a "{.full-bleed}" style class suffix
// immediately following an image and attaches the classes to the image
// token. The parser splits the suffix text at word boundaries, so
// successive text siblings are joined until the pattern either matches
// or can no longer match; the consumed bytes are trimmed from those
// nodes afterwards.
func (c *converter) applyImageAttrSuffix(node *ast.Image, img *token.Token) {
	var run strings.Builder
	for sib := node.NextSibling(); sib != nil; sib = sib.NextSibling() {
		txt, ok := sib.(*ast.Text)
		if !ok {
			return
		}
		run.WriteString(string(txt.Segment.Value(c.source)))
		joined := run.String()
		if m := imageAttrSuffix.FindStringSubmatch(joined); m != nil {
			for _, field := range strings.Fields(m[1]) {
				img.AddClass(strings.TrimPrefix(field, "."))
			}
			c.trimNext = len(m[0])
			return
		}
		// The suffix must open immediately after the image, close with the
		// first brace, and sit on the image's own line.
		if !strings.HasPrefix(joined, "{") || strings.Contains(joined, "}") ||
			txt.SoftLineBreak() || txt.HardLineBreak() {
			return
		}
	}
}

// nodeText collects the literal text of a node and its descendants.
func (c *converter) nodeText(n ast.Node) string {
	var buf bytes.Buffer
	c.collectText(n, &buf)
	return buf.String()
}

func (c *converter) collectText(n ast.Node, buf *bytes.Buffer) {
	switch node := n.(type) {
	case *ast.Text:
		buf.Write(node.Segment.Value(c.source))
	case *ast.String:
		buf.Write(node.Value)
	default:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			c.collectText(child, buf)
		}
	}
}
