package directive

import (
	"testing"

	"github.com/alnah/go-mdpress/internal/token"
)

func TestRewriteComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		directive *Directive
		wantClass string
		wantName  string
		wantValue string
	}{
		{
			name:      "page directive carries its template",
			directive: &Directive{Kind: KindPage, Value: "chapter"},
			wantClass: "layout-page",
			wantName:  "page",
			wantValue: "chapter",
		},
		{
			name:      "break directive has no value attribute",
			directive: &Directive{Kind: KindBreak},
			wantClass: "layout-break",
			wantName:  "break",
		},
		{
			name:      "columns directive",
			directive: &Directive{Kind: KindColumns, Value: "2", Count: 2},
			wantClass: "layout-columns",
			wantName:  "columns",
			wantValue: "2",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok := &token.Token{
				Type:    token.TypeHTMLBlock,
				Content: "<!-- original text -->",
				Lines:   &token.LineRange{Start: 3, End: 3},
			}
			RewriteComment(tok, tt.directive)

			if tok.Type != token.TypeLayoutMarker {
				t.Errorf("Type = %q, want layout_marker", tok.Type)
			}
			if tok.Content != "" {
				t.Errorf("Content = %q, want empty: the comment must not survive", tok.Content)
			}
			if !tok.Hidden {
				t.Error("marker must be hidden")
			}
			if tok.Lines == nil || tok.Lines.Start != 3 {
				t.Error("source lines must be preserved for error reporting")
			}

			if got, _ := tok.Attr("class"); got != tt.wantClass {
				t.Errorf("class = %q, want %q", got, tt.wantClass)
			}
			if got, _ := tok.Attr(AttrDirective); got != tt.wantName {
				t.Errorf("%s = %q, want %q", AttrDirective, got, tt.wantName)
			}
			got, ok := tok.Attr(AttrValue)
			if got != tt.wantValue {
				t.Errorf("%s = %q, want %q", AttrValue, got, tt.wantValue)
			}
			if tt.wantValue == "" && ok {
				t.Errorf("%s must be absent for valueless directives", AttrValue)
			}
		})
	}
}

func TestIsExplicitChapterControl(t *testing.T) {
	t.Parallel()

	marker := func(d *Directive) *token.Token {
		tok := &token.Token{Type: token.TypeHTMLBlock}
		RewriteComment(tok, d)
		return tok
	}

	tests := []struct {
		name string
		tok  *token.Token
		want bool
	}{
		{"page marker", marker(&Directive{Kind: KindPage, Value: "chapter"}), true},
		{"break marker", marker(&Directive{Kind: KindBreak}), true},
		{"spread marker is not chapter control", marker(&Directive{Kind: KindSpread, Value: "left"}), false},
		{"columns marker is not chapter control", marker(&Directive{Kind: KindColumns, Value: "2", Count: 2}), false},
		{"raw comment token", &token.Token{Type: token.TypeHTMLBlock, Content: "<!-- @page: chapter -->"}, false},
		{"ordinary paragraph", &token.Token{Type: token.TypeParagraphOpen, Tag: "p"}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsExplicitChapterControl(tt.tok); got != tt.want {
				t.Errorf("IsExplicitChapterControl = %v, want %v", got, tt.want)
			}
		})
	}
}
