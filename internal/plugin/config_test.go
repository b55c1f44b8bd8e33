package plugin

import "testing"

func TestEffectiveSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want SourceKind
	}{
		{"explicit source wins", Config{Source: SourcePackage, Locator: "./x.yaml"}, SourcePackage},
		{"url infers remote", Config{Locator: "https://example.com/p.yaml"}, SourceRemote},
		{"relative path infers local", Config{Locator: "./plugins/x.yaml"}, SourceLocal},
		{"yaml suffix infers local", Config{Locator: "custom.yaml"}, SourceLocal},
		{"yml suffix infers local", Config{Locator: "custom.yml"}, SourceLocal},
		{"builtin name infers builtin", Config{Name: "footnotes"}, SourceBuiltin},
		{"anything else infers package", Config{Name: "community-emoji"}, SourcePackage},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.effectiveSource(); got != tt.want {
				t.Errorf("effectiveSource() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	base := Config{Name: "gfm"}

	t.Run("identical configs share a fingerprint", func(t *testing.T) {
		t.Parallel()
		if base.fingerprint() != (Config{Name: "gfm"}).fingerprint() {
			t.Error("equal configs must produce equal fingerprints")
		}
	})

	t.Run("options do not affect the fingerprint", func(t *testing.T) {
		t.Parallel()
		withOpts := Config{Name: "gfm", Options: map[string]any{"x": 1}, Priority: 7}
		if base.fingerprint() != withOpts.fingerprint() {
			t.Error("options and priority must be excluded from the fingerprint")
		}
	})

	t.Run("version changes the fingerprint", func(t *testing.T) {
		t.Parallel()
		if base.fingerprint() == (Config{Name: "gfm", Version: "2"}).fingerprint() {
			t.Error("version must be part of the fingerprint")
		}
	})

	t.Run("locator changes the fingerprint", func(t *testing.T) {
		t.Parallel()
		if base.fingerprint() == (Config{Name: "footnotes"}).fingerprint() {
			t.Error("distinct plugins must not collide")
		}
	})
}

func TestMergeOptions(t *testing.T) {
	t.Parallel()

	baseOpts := map[string]any{"style": "github", "lines": true}
	override := map[string]any{"style": "monokai"}

	merged := mergeOptions(baseOpts, override)
	if merged["style"] != "monokai" {
		t.Errorf("override must win: %v", merged)
	}
	if merged["lines"] != true {
		t.Errorf("base keys must survive: %v", merged)
	}
	if baseOpts["style"] != "github" {
		t.Error("mergeOptions must not mutate its inputs")
	}

	if got := mergeOptions(nil, override); got["style"] != "monokai" {
		t.Errorf("nil base returns override: %v", got)
	}
}
