package mdpress

import (
	"log/slog"
)

// Input contains processing parameters for one document.
type Input struct {
	Markdown string // markdown content (required)
	Source   string // document name used in error positions (optional)
}

// Result contains the annotated output for one document.
type Result struct {
	HTML string // annotated HTML fragment ready for the rendering engine
}

// PluginConfig describes one plugin to load. The zero value of Source
// means the kind is inferred from the locator: a path or .yaml/.yml
// suffix loads a local manifest, an http(s) URL is remote (not yet
// supported), a builtin registry name is builtin, anything else is
// treated as an installed package.
type PluginConfig struct {
	Source   string         // "", "local", "package", "builtin", "remote"
	Locator  string         // path, package name, or URL
	Name     string         // declared name, may differ from Locator
	Version  string         // requested package version (prefix match)
	Disabled bool           // disabled plugins resolve to nothing
	Options  map[string]any // passed to the extension at registration
	Priority int            // registration priority; zero means default
}

// PluginInfo describes a loaded plugin.
type PluginInfo struct {
	Name        string
	Version     string
	Description string
	Source      string
	Priority    int
}

// Option configures an Engine.
type Option func(*engineConfig)

// engineConfig holds internal configuration for Engine.
type engineConfig struct {
	backWindow    int
	forwardWindow int
	plugins       []PluginConfig
	pluginBaseDir string
	pluginDepsDir string
	strictPlugins bool
	logger        *slog.Logger
}

// WithChapterWindow sets the token windows scanned around a level-1
// heading for explicit @page/@break directives that suppress the
// automatic chapter start. The bounds are deliberately asymmetric:
// directives are conventionally written above the content they control.
func WithChapterWindow(back, forward int) Option {
	return func(cfg *engineConfig) {
		cfg.backWindow = back
		cfg.forwardWindow = forward
	}
}

// WithPlugins declares the plugins to resolve at engine construction.
func WithPlugins(plugins ...PluginConfig) Option {
	return func(cfg *engineConfig) {
		cfg.plugins = append(cfg.plugins, plugins...)
	}
}

// WithPluginBaseDir sets the directory local plugin paths resolve
// against. Paths escaping it are rejected.
func WithPluginBaseDir(dir string) Option {
	return func(cfg *engineConfig) {
		cfg.pluginBaseDir = dir
	}
}

// WithPluginDepsDir sets the directory installed plugin packages are
// looked up in.
func WithPluginDepsDir(dir string) Option {
	return func(cfg *engineConfig) {
		cfg.pluginDepsDir = dir
	}
}

// WithStrictPlugins makes any plugin load failure fatal at construction.
// Without it, broken plugins are logged and skipped; plugin paths that
// escape the base directory are fatal either way.
func WithStrictPlugins() Option {
	return func(cfg *engineConfig) {
		cfg.strictPlugins = true
	}
}

// WithLogger sets the logger for non-fatal warnings (unknown directives,
// skipped plugins). Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *engineConfig) {
		cfg.logger = logger
	}
}
