package mdpress

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/yuin/goldmark"

	"github.com/alnah/go-mdpress/internal/plugin"
	"github.com/alnah/go-mdpress/internal/rewrite"
	"github.com/alnah/go-mdpress/internal/tokenizer"
)

// Engine orchestrates the annotation pipeline: tokenize, rewrite, render.
// Construction resolves the declared plugins and builds one parser
// instance for this configuration; the instance is never mutated
// afterwards, so engines are safe for concurrent Process calls on
// distinct documents.
type Engine struct {
	cfg       engineConfig
	tokenizer *tokenizer.Tokenizer
	renderer  *tokenizer.Renderer
	rewriter  *rewrite.Rewriter
	plugins   []*plugin.Plugin
}

// New creates an Engine, resolving declared plugins and registering their
// extensions into the parser in descending priority order.
func New(opts ...Option) (*Engine, error) {
	cfg := engineConfig{
		backWindow:    rewrite.DefaultBackWindow,
		forwardWindow: rewrite.DefaultForwardWindow,
		pluginBaseDir: plugin.DefaultBaseDir,
		pluginDepsDir: plugin.DefaultDepsDir,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.backWindow <= 0 || cfg.forwardWindow < 0 {
		return nil, fmt.Errorf("%w: back=%d forward=%d",
			ErrInvalidWindow, cfg.backWindow, cfg.forwardWindow)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	loaderOpts := []plugin.LoaderOption{
		plugin.WithBaseDir(cfg.pluginBaseDir),
		plugin.WithDepsDir(cfg.pluginDepsDir),
		plugin.WithStrict(cfg.strictPlugins),
		plugin.WithLogger(cfg.logger),
	}
	loader := plugin.NewLoader(loaderOpts...)

	configs := make([]plugin.Config, len(cfg.plugins))
	for i, p := range cfg.plugins {
		configs[i] = toPluginConfig(p)
	}
	plugins, err := loader.Load(context.Background(), configs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPluginLoad, err)
	}

	tok, err := tokenizer.New(func(md goldmark.Markdown) error {
		for _, p := range plugins {
			if err := p.Extension.Register(md, p.Options); err != nil {
				return fmt.Errorf("registering plugin %s: %w", p.Meta.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPluginLoad, err)
	}

	renderer := tokenizer.NewRenderer()
	return &Engine{
		cfg:       cfg,
		tokenizer: tok,
		renderer:  renderer,
		rewriter: rewrite.New(renderer, rewrite.Config{
			BackWindow:    cfg.backWindow,
			ForwardWindow: cfg.forwardWindow,
		}, cfg.logger),
		plugins: plugins,
	}, nil
}

// Process tokenizes the input, runs the annotation pass, and renders the
// annotated stream. Directive validation errors abort the build with
// source position context.
func (e *Engine) Process(ctx context.Context, input Input) (*Result, error) {
	if input.Markdown == "" {
		return nil, ErrEmptyMarkdown
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream, err := e.tokenizer.Tokenize([]byte(input.Markdown))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenize, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream, err = e.rewriter.Apply(stream, input.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnnotate, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	html, err := e.renderer.RenderTokens(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return &Result{HTML: html}, nil
}

// Plugins returns metadata for the loaded plugins in registration order.
func (e *Engine) Plugins() []PluginInfo {
	infos := make([]PluginInfo, len(e.plugins))
	for i, p := range e.plugins {
		infos[i] = PluginInfo{
			Name:        p.Meta.Name,
			Version:     p.Meta.Version,
			Description: p.Meta.Description,
			Source:      string(p.Source),
			Priority:    p.Priority,
		}
	}
	return infos
}

// StyleSheets returns the injected stylesheets of the loaded plugins in
// registration order, for the external CSS pipeline to pick up.
func (e *Engine) StyleSheets() []string {
	var sheets []string
	for _, p := range e.plugins {
		if p.StyleSheet != "" {
			sheets = append(sheets, p.StyleSheet)
		}
	}
	return sheets
}

// LoadPluginConfigs reads a YAML plugin declaration file. Each entry is
// either a bare locator string or an object with path/name/url, type,
// version, enabled, options, and priority fields.
func LoadPluginConfigs(path string) ([]PluginConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- declaration path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading plugin declarations: %w", err)
	}
	configs, err := plugin.ParseDeclarations(data)
	if err != nil {
		return nil, err
	}
	out := make([]PluginConfig, len(configs))
	for i, c := range configs {
		out[i] = PluginConfig{
			Source:   string(c.Source),
			Locator:  c.Locator,
			Name:     c.Name,
			Version:  c.Version,
			Disabled: c.Disabled,
			Options:  c.Options,
			Priority: c.Priority,
		}
	}
	return out, nil
}

// toPluginConfig converts the public PluginConfig to the internal loader
// config.
func toPluginConfig(p PluginConfig) plugin.Config {
	return plugin.Config{
		Source:   plugin.SourceKind(p.Source),
		Locator:  p.Locator,
		Name:     p.Name,
		Version:  p.Version,
		Disabled: p.Disabled,
		Options:  p.Options,
		Priority: p.Priority,
	}
}
