package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-mdpress/internal/yamlutil"
)

// manifestShape mirrors the plugin manifest fields that flow through the
// strict parser.
type manifestShape struct {
	Name    string         `yaml:"name"`
	Version string         `yaml:"version"`
	Extends string         `yaml:"extends"`
	Style   string         `yaml:"style"`
	Options map[string]any `yaml:"options"`
}

// declShape mirrors one object entry of a plugin declaration file.
type declShape struct {
	Path     string `yaml:"path"`
	Priority int    `yaml:"priority"`
	Enabled  *bool  `yaml:"enabled"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "declaration entry",
			data: []byte("path: plugins/marginalia.yaml\npriority: 250\nenabled: false"),
			dest: &declShape{},
			check: func(t *testing.T, v any) {
				d := v.(*declShape)
				if d.Path != "plugins/marginalia.yaml" {
					t.Errorf("Path = %q", d.Path)
				}
				if d.Priority != 250 {
					t.Errorf("Priority = %d, want 250", d.Priority)
				}
				if d.Enabled == nil || *d.Enabled {
					t.Error("Enabled should parse as false")
				}
			},
		},
		{
			name: "bare string locator",
			data: []byte(`"gfm"`),
			dest: new(string),
			check: func(t *testing.T, v any) {
				if s := *v.(*string); s != "gfm" {
					t.Errorf("locator = %q, want gfm", s)
				}
			},
		},
		{
			name: "unknown fields tolerated",
			data: []byte("path: p.yaml\nfuture-field: ignored"),
			dest: &declShape{},
			check: func(t *testing.T, v any) {
				if d := v.(*declShape); d.Path != "p.yaml" {
					t.Errorf("Path = %q", d.Path)
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &declShape{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &declShape{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("path: p.yaml"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name: "malformed YAML",
			data: []byte("path: [unclosed"),
			dest: &declShape{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.check == nil {
				if err == nil {
					t.Fatal("Unmarshal() expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			tt.check(t, tt.dest)
		})
	}
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("valid manifest", func(t *testing.T) {
		t.Parallel()
		data := []byte(`name: marginalia
version: 1.2.0
extends: footnotes
style: marginalia.css
options:
  side: outer
`)
		var m manifestShape
		if err := yamlutil.UnmarshalStrict(data, &m); err != nil {
			t.Fatalf("UnmarshalStrict() error = %v", err)
		}
		if m.Name != "marginalia" || m.Version != "1.2.0" || m.Extends != "footnotes" {
			t.Errorf("manifest = %+v", m)
		}
		if m.Options["side"] != "outer" {
			t.Errorf("options = %v", m.Options)
		}
	})

	t.Run("typoed key fails loudly", func(t *testing.T) {
		t.Parallel()
		data := []byte("name: marginalia\nextneds: footnotes")
		var m manifestShape
		err := yamlutil.UnmarshalStrict(data, &m)
		if err == nil {
			t.Fatal("UnmarshalStrict() accepted an unknown field")
		}
		if !strings.Contains(err.Error(), "yamlutil") {
			t.Errorf("error %q should carry the package prefix", err.Error())
		}
	})

	t.Run("nil data", func(t *testing.T) {
		t.Parallel()
		var m manifestShape
		if err := yamlutil.UnmarshalStrict(nil, &m); !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("error = %v, want ErrNilData", err)
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()
		err := yamlutil.UnmarshalStrict([]byte("name: x"), nil)
		if !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("error = %v, want ErrNilDestination", err)
		}
	})
}

func TestMaxInputSize(t *testing.T) {
	// Mutates the package-level cap, so no t.Parallel here.
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })
	yamlutil.MaxInputSize = 64

	t.Run("input under the cap parses", func(t *testing.T) {
		var d declShape
		if err := yamlutil.Unmarshal([]byte("path: small.yaml"), &d); err != nil {
			t.Errorf("Unmarshal() error = %v", err)
		}
	})

	t.Run("oversized input rejected", func(t *testing.T) {
		data := []byte("path: " + strings.Repeat("a", 100))
		var d declShape
		if err := yamlutil.Unmarshal(data, &d); !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("error = %v, want ErrInputTooLarge", err)
		}
	})

	t.Run("strict parser shares the cap", func(t *testing.T) {
		data := []byte("name: " + strings.Repeat("a", 100))
		var m manifestShape
		if err := yamlutil.UnmarshalStrict(data, &m); !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("error = %v, want ErrInputTooLarge", err)
		}
	})
}
