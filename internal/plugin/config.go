// Package plugin resolves plugin declarations to loadable syntax-extension
// strategies for the markdown parser. Plugins come from four sources:
// local manifest files, installed packages, the builtin registry, and
// remote URLs (declared but not yet supported). Results are cached by a
// configuration fingerprint and returned sorted by descending priority,
// which fixes the order extensions are registered into the parser.
package plugin

import (
	"strings"

	"github.com/alnah/go-mdpress/internal/fileutil"
)

// SourceKind identifies where a plugin is loaded from.
type SourceKind string

const (
	SourceUnspecified SourceKind = ""
	SourceLocal       SourceKind = "local"
	SourcePackage     SourceKind = "package"
	SourceBuiltin     SourceKind = "builtin"
	SourceRemote      SourceKind = "remote"
)

// DefaultPriority is used when neither the declaration nor the plugin
// manifest specifies one.
const DefaultPriority = 100

// Config describes one plugin to resolve.
type Config struct {
	Source   SourceKind     // explicit source kind; empty means infer
	Locator  string         // path, package name, or URL
	Name     string         // declared name, may differ from Locator
	Version  string         // requested version constraint (prefix match)
	Disabled bool           // disabled configs resolve to nothing
	Options  map[string]any // passed to the extension at registration
	Priority int            // registration priority; zero means unset
}

// effectiveSource returns the config's source kind, inferring it when
// unspecified: a path-looking or manifest-suffixed locator is local, an
// http(s) locator is remote, a name present in the builtin registry is
// builtin, and anything else is assumed to be an installed package.
func (c Config) effectiveSource() SourceKind {
	if c.Source != SourceUnspecified {
		return c.Source
	}
	locator := c.locator()
	switch {
	case fileutil.IsURL(locator):
		return SourceRemote
	case fileutil.IsFilePath(locator) || hasManifestSuffix(locator):
		return SourceLocal
	case IsBuiltin(locator):
		return SourceBuiltin
	default:
		return SourcePackage
	}
}

// locator returns the effective locator, falling back to the declared name.
func (c Config) locator() string {
	if c.Locator != "" {
		return c.Locator
	}
	return c.Name
}

// fingerprint returns the cache key for this config. Options and priority
// are volatile and deliberately excluded: callers tracking option changes
// re-derive keys as needed.
func (c Config) fingerprint() string {
	return strings.Join([]string{
		string(c.effectiveSource()), c.locator(), c.Name, c.Version,
	}, "|")
}

func hasManifestSuffix(locator string) bool {
	return strings.HasSuffix(locator, ".yaml") || strings.HasSuffix(locator, ".yml")
}
