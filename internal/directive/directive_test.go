package directive

import (
	"errors"
	"strings"
	"testing"
)

func TestParseGrammar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		comment string
		want    *Directive
	}{
		{
			name:    "bare directive",
			comment: "<!-- @break -->",
			want:    &Directive{Kind: KindBreak},
		},
		{
			name:    "directive with value",
			comment: "<!-- @page: chapter -->",
			want:    &Directive{Kind: KindPage, Value: "chapter"},
		},
		{
			name:    "extra interior whitespace",
			comment: "<!--   @page  :  chapter   -->",
			want:    &Directive{Kind: KindPage, Value: "chapter"},
		},
		{
			name:    "surrounding whitespace trimmed",
			comment: "  <!-- @break -->  ",
			want:    &Directive{Kind: KindBreak},
		},
		{
			name:    "missing space after comment open is not a directive",
			comment: "<!--@page: chapter -->",
		},
		{
			name:    "space between at-sign and name is not a directive",
			comment: "<!-- @ page: chapter -->",
		},
		{
			name:    "ordinary comment passes through",
			comment: "<!-- just a note to self -->",
		},
		{
			name:    "email-like comment passes through",
			comment: "<!-- mail@example.com -->",
		},
		{
			name:    "not a comment at all",
			comment: "<div>@page</div>",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.comment)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.comment, err)
			}
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Parse(%q) = %+v, want nil", tt.comment, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Parse(%q) = nil, want %+v", tt.comment, tt.want)
			}
			if got.Kind != tt.want.Kind || got.Value != tt.want.Value || got.Count != tt.want.Count {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.comment, got, tt.want)
			}
		})
	}
}

func TestParseValues(t *testing.T) {
	t.Parallel()

	t.Run("every page template is accepted", func(t *testing.T) {
		t.Parallel()
		for _, tmpl := range PageTemplates {
			d, err := Parse("<!-- @page: " + tmpl + " -->")
			if err != nil {
				t.Fatalf("@page: %s rejected: %v", tmpl, err)
			}
			if d.Value != tmpl {
				t.Errorf("@page: %s parsed value %q", tmpl, d.Value)
			}
		}
	})

	t.Run("every spread side is accepted", func(t *testing.T) {
		t.Parallel()
		for _, side := range SpreadValues {
			d, err := Parse("<!-- @spread: " + side + " -->")
			if err != nil {
				t.Fatalf("@spread: %s rejected: %v", side, err)
			}
			if d.Kind != KindSpread || d.Value != side {
				t.Errorf("@spread: %s = %+v", side, d)
			}
		}
	})

	t.Run("column counts carry the parsed integer", func(t *testing.T) {
		t.Parallel()
		for i, v := range ColumnValues {
			d, err := Parse("<!-- @columns: " + v + " -->")
			if err != nil {
				t.Fatalf("@columns: %s rejected: %v", v, err)
			}
			if d.Count != i+1 {
				t.Errorf("@columns: %s Count = %d, want %d", v, d.Count, i+1)
			}
		}
	})
}

func TestParseInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		comment        string
		wantName       string
		wantSuggestion string
	}{
		{
			name:           "misspelled page template suggests correction",
			comment:        "<!-- @page: chaptr -->",
			wantName:       "page",
			wantSuggestion: "chapter",
		},
		{
			name:     "page requires a value",
			comment:  "<!-- @page -->",
			wantName: "page",
		},
		{
			name:           "invalid spread side",
			comment:        "<!-- @spread: lef -->",
			wantName:       "spread",
			wantSuggestion: "left",
		},
		{
			name:           "columns out of range",
			comment:        "<!-- @columns: 4 -->",
			wantName:       "columns",
			wantSuggestion: "1",
		},
		{
			name:     "columns not a number",
			comment:  "<!-- @columns: two -->",
			wantName: "columns",
		},
		{
			name:     "hopeless value has no suggestion",
			comment:  "<!-- @page: zzzzzzzz -->",
			wantName: "page",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := Parse(tt.comment)
			if d != nil {
				t.Fatalf("Parse(%q) = %+v, want error", tt.comment, d)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Parse(%q) error = %T, want *ValidationError", tt.comment, err)
			}
			if verr.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", verr.Name, tt.wantName)
			}
			if verr.Suggestion != tt.wantSuggestion {
				t.Errorf("Suggestion = %q, want %q", verr.Suggestion, tt.wantSuggestion)
			}
			if len(verr.Valid) == 0 {
				t.Error("Valid enumeration must not be empty")
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	_, err := Parse("<!-- @page: chaptr -->")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	msg := verr.Error()
	for _, want := range []string{
		`invalid value "chaptr"`,
		"valid values: " + strings.Join(PageTemplates, ", "),
		`did you mean "chapter"?`,
		"usage: <!-- @page: chapter -->",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestParseUnknownName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		comment        string
		wantSuggestion string
	}{
		{
			name:           "transposed directive name",
			comment:        "<!-- @pgae: chapter -->",
			wantSuggestion: "page",
		},
		{
			name:           "truncated name",
			comment:        "<!-- @colum: 2 -->",
			wantSuggestion: "columns",
		},
		{
			name:    "nothing close",
			comment: "<!-- @frobnicate -->",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := Parse(tt.comment)
			if d != nil {
				t.Fatalf("Parse(%q) = %+v, want error", tt.comment, d)
			}
			var uerr *UnknownNameError
			if !errors.As(err, &uerr) {
				t.Fatalf("Parse(%q) error = %T, want *UnknownNameError", tt.comment, err)
			}
			if uerr.Suggestion != tt.wantSuggestion {
				t.Errorf("Suggestion = %q, want %q", uerr.Suggestion, tt.wantSuggestion)
			}
		})
	}
}

func TestCommentName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		comment string
		want    string
		wantOK  bool
	}{
		{"<!-- @page: chapter -->", "page", true},
		{"<!-- @break -->", "break", true},
		{"<!-- @bogus: x -->", "bogus", true},
		{"<!--@page-->", "", false},
		{"<!-- plain comment -->", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.comment, func(t *testing.T) {
			t.Parallel()
			got, ok := CommentName(tt.comment)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CommentName(%q) = %q, %v; want %q, %v",
					tt.comment, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
