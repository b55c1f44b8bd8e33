package token

import (
	"testing"
)

func TestAttrRoundTrip(t *testing.T) {
	t.Parallel()

	tok := &Token{}
	if _, ok := tok.Attr("class"); ok {
		t.Fatal("Attr on empty token should report absence")
	}

	tok.SetAttr("src", "cover.jpg")
	tok.SetAttr("alt", "Cover")

	got, ok := tok.Attr("src")
	if !ok || got != "cover.jpg" {
		t.Errorf("Attr(src) = %q, %v", got, ok)
	}
}

func TestSetAttrPreservesOrder(t *testing.T) {
	t.Parallel()

	tok := &Token{}
	tok.SetAttr("src", "a.jpg")
	tok.SetAttr("alt", "first")
	tok.SetAttr("src", "b.jpg") // overwrite must not move the attribute

	want := []Attr{{Key: "src", Value: "b.jpg"}, {Key: "alt", Value: "first"}}
	if len(tok.Attrs) != len(want) {
		t.Fatalf("got %d attrs, want %d", len(tok.Attrs), len(want))
	}
	for i, a := range want {
		if tok.Attrs[i] != a {
			t.Errorf("attr %d = %+v, want %+v", i, tok.Attrs[i], a)
		}
	}
}

func TestAddClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial string
		add     []string
		want    string
	}{
		{
			name: "first class",
			add:  []string{"chapter-start"},
			want: "chapter-start",
		},
		{
			name:    "appends to existing",
			initial: "full-bleed",
			add:     []string{"page-art"},
			want:    "full-bleed page-art",
		},
		{
			name:    "duplicate add is a no-op",
			initial: "page-break",
			add:     []string{"page-break", "page-break"},
			want:    "page-break",
		},
		{
			name:    "no partial-word match",
			initial: "page-breaker",
			add:     []string{"page-break"},
			want:    "page-breaker page-break",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok := &Token{}
			if tt.initial != "" {
				tok.SetAttr("class", tt.initial)
			}
			for _, c := range tt.add {
				tok.AddClass(c)
			}
			got, _ := tok.Attr("class")
			if got != tt.want {
				t.Errorf("class = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasClass(t *testing.T) {
	t.Parallel()

	tok := &Token{}
	tok.SetAttr("class", "full-bleed page-art")

	if !tok.HasClass("full-bleed") || !tok.HasClass("page-art") {
		t.Error("HasClass should find both classes")
	}
	if tok.HasClass("full") {
		t.Error("HasClass must match whole class names only")
	}
}

func TestSplice(t *testing.T) {
	t.Parallel()

	mk := func(types ...string) []*Token {
		out := make([]*Token, len(types))
		for i, typ := range types {
			out[i] = &Token{Type: typ}
		}
		return out
	}

	types := func(stream []*Token) []string {
		out := make([]string, len(stream))
		for i, tok := range stream {
			out[i] = tok.Type
		}
		return out
	}

	tests := []struct {
		name     string
		stream   []*Token
		start    int
		end      int
		repl     []*Token
		want     []string
		wantNext int
	}{
		{
			name:     "replace range with single token",
			stream:   mk("a", "b", "c", "d"),
			start:    1,
			end:      3,
			repl:     mk("x"),
			want:     []string{"a", "x", "d"},
			wantNext: 2,
		},
		{
			name:     "delete range",
			stream:   mk("a", "b", "c"),
			start:    0,
			end:      2,
			want:     []string{"c"},
			wantNext: 0,
		},
		{
			name:     "insert without removal",
			stream:   mk("a", "b"),
			start:    1,
			end:      1,
			repl:     mk("x", "y"),
			want:     []string{"a", "x", "y", "b"},
			wantNext: 3,
		},
		{
			name:     "replace tail",
			stream:   mk("a", "b"),
			start:    1,
			end:      2,
			repl:     mk("x"),
			want:     []string{"a", "x"},
			wantNext: 2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, next := Splice(tt.stream, tt.start, tt.end, tt.repl...)
			gotTypes := types(got)
			if len(gotTypes) != len(tt.want) {
				t.Fatalf("stream = %v, want %v", gotTypes, tt.want)
			}
			for i := range tt.want {
				if gotTypes[i] != tt.want[i] {
					t.Fatalf("stream = %v, want %v", gotTypes, tt.want)
				}
			}
			if next != tt.wantNext {
				t.Errorf("next = %d, want %d", next, tt.wantNext)
			}
		})
	}
}
