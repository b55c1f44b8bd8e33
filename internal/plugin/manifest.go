package plugin

import (
	"fmt"
	"os"

	"github.com/alnah/go-mdpress/internal/hints"
	"github.com/alnah/go-mdpress/internal/yamlutil"
)

// manifest is the YAML descriptor of a local or package plugin. A
// manifest must name the extension recipe it builds on via "extends";
// a manifest without one has nothing to register into the parser and is
// rejected at load time.
type manifest struct {
	Name        string         `yaml:"name"`
	Version     string         `yaml:"version"`
	Description string         `yaml:"description"`
	Author      string         `yaml:"author"`
	Homepage    string         `yaml:"homepage"`
	Extends     string         `yaml:"extends"`
	Options     map[string]any `yaml:"options"`
	Stylesheet  string         `yaml:"stylesheet"`
	Priority    int            `yaml:"priority"`
	Entry       string         `yaml:"entry"` // package manifests may delegate to an entry manifest
}

// loadManifest reads and strictly parses a plugin manifest.
func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path containment verified by the caller
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m manifest
	if err := yamlutil.UnmarshalStrict(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestParse, path, err)
	}
	return &m, nil
}

// resolveRecipe maps a manifest's "extends" reference to a registry
// recipe. A missing or unknown reference is a fatal load error with a
// corrective message.
func resolveRecipe(m *manifest, origin string) (recipe, error) {
	if m.Extends == "" {
		return recipe{}, fmt.Errorf(
			"%w: %s must name an extension recipe via 'extends'%s",
			ErrNoExtension, origin, hints.ForAvailable(BuiltinNames()))
	}
	r, ok := registry[m.Extends]
	if !ok {
		suggestion, _ := hints.ClosestMatch(m.Extends, BuiltinNames())
		return recipe{}, fmt.Errorf("%w: %s extends %q%s%s",
			ErrUnknownBuiltin, origin, m.Extends,
			hints.ForDidYouMean(suggestion), hints.ForAvailable(BuiltinNames()))
	}
	return r, nil
}

// mergeOptions overlays config options on top of manifest options without
// mutating either input.
func mergeOptions(base, override map[string]any) map[string]any {
	if len(base) == 0 {
		return override
	}
	merged := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
