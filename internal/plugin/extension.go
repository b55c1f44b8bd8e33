package plugin

import "github.com/yuin/goldmark"

// Extension is the strategy a loaded plugin contributes: a named
// capability that installs a syntax extension into a parser instance.
// Registration order across plugins is the loader's priority order, an
// explicit and testable property rather than incidental call order.
type Extension interface {
	Register(md goldmark.Markdown, options map[string]any) error
}

// RegisterFunc adapts a plain function to the Extension interface.
type RegisterFunc func(md goldmark.Markdown, options map[string]any) error

// Register implements Extension.
func (f RegisterFunc) Register(md goldmark.Markdown, options map[string]any) error {
	return f(md, options)
}

// Metadata describes a loaded plugin's identity.
type Metadata struct {
	Name        string
	Version     string
	Description string
	Author      string
	Homepage    string
}

// Plugin is a fully resolved plugin, ready to be registered into the
// parser. Plugins are never mutated after creation: a config with
// different options produces a new Plugin under a new cache key.
type Plugin struct {
	Identity   string         // resolution identity (cache fingerprint)
	Extension  Extension      // the syntax-extension strategy
	StyleSheet string         // injected stylesheet, empty if none
	Meta       Metadata       // name, version, description
	Source     SourceKind     // where the plugin was loaded from
	Options    map[string]any // registration options bound to this plugin
	Priority   int            // registration priority, higher first
}
