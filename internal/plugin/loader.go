package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/alnah/go-mdpress/internal/fileutil"
	"github.com/alnah/go-mdpress/internal/hints"
)

// Default directories for plugin resolution, relative to the project root.
const (
	DefaultBaseDir = "."       // local plugin manifests resolve against this
	DefaultDepsDir = "plugins" // installed packages live in subdirectories here
)

// packageManifestName is the conventional manifest filename inside an
// installed plugin package directory.
const packageManifestName = "plugin.yaml"

// Loader resolves plugin configs to loaded plugins. Loads in a batch run
// concurrently: each config touches only its own files and cache slot, and
// concurrent loads of an identical config converge on equivalent plugins,
// so last-writer-wins is sufficient cache discipline.
type Loader struct {
	baseDir string
	depsDir string
	strict  bool
	caching bool
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[string]*Plugin
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithBaseDir sets the directory local plugin paths resolve against.
// Paths escaping it are rejected as a security error.
func WithBaseDir(dir string) LoaderOption {
	return func(l *Loader) { l.baseDir = dir }
}

// WithDepsDir sets the directory installed plugin packages are looked up in.
func WithDepsDir(dir string) LoaderOption {
	return func(l *Loader) { l.depsDir = dir }
}

// WithStrict makes every load failure fatal. Lenient mode (the default)
// logs and skips broken plugins so best-effort preview builds stay
// resilient; security errors are fatal in both modes.
func WithStrict(strict bool) LoaderOption {
	return func(l *Loader) { l.strict = strict }
}

// WithoutCache disables result caching.
func WithoutCache() LoaderOption {
	return func(l *Loader) { l.caching = false }
}

// WithLogger sets the logger used for lenient-mode skips.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader with caching enabled.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		baseDir: DefaultBaseDir,
		depsDir: DefaultDepsDir,
		caching: true,
		cache:   make(map[string]*Plugin),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load resolves all configs concurrently, drops disabled ones, and returns
// the loaded plugins sorted by descending priority (ties keep input
// order). That ordering fixes the sequence extensions are registered into
// the parser, and with it inline-rule precedence.
func (l *Loader) Load(ctx context.Context, configs []Config) ([]*Plugin, error) {
	results := make([]*Plugin, len(configs))
	errs := make([]error, len(configs))

	var wg sync.WaitGroup
	for i, cfg := range configs {
		wg.Add(1)
		go func(i int, cfg Config) {
			defer wg.Done()
			results[i], errs[i] = l.loadOne(ctx, cfg)
		}(i, cfg)
	}
	wg.Wait()

	loaded := make([]*Plugin, 0, len(configs))
	for i, err := range errs {
		if err != nil {
			// Path escapes are a trust boundary: fatal even in lenient mode.
			if l.strict || errors.Is(err, ErrSecurity) {
				return nil, err
			}
			l.logger.Warn("skipping plugin",
				"locator", configs[i].locator(), "error", err.Error())
			continue
		}
		if results[i] != nil {
			loaded = append(loaded, results[i])
		}
	}

	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].Priority > loaded[j].Priority
	})
	return loaded, nil
}

// ClearCache drops all cached plugins. Cached entries are never otherwise
// invalidated.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*Plugin)
}

// loadOne resolves a single config, consulting the cache first.
func (l *Loader) loadOne(ctx context.Context, cfg Config) (*Plugin, error) {
	if cfg.Disabled {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cfg.fingerprint()
	if l.caching {
		l.mu.Lock()
		cached, ok := l.cache[key]
		l.mu.Unlock()
		if ok {
			return cached, nil
		}
	}

	var (
		p   *Plugin
		err error
	)
	switch source := cfg.effectiveSource(); source {
	case SourceLocal:
		p, err = l.loadLocal(cfg)
	case SourcePackage:
		p, err = l.loadPackage(cfg)
	case SourceBuiltin:
		p, err = l.loadBuiltin(cfg)
	case SourceRemote:
		return nil, fmt.Errorf("%w: %s", ErrRemoteNotSupported, cfg.locator())
	default:
		return nil, fmt.Errorf("unsupported plugin source %q", source)
	}
	if err != nil {
		return nil, err
	}

	p.Identity = key
	if l.caching {
		l.mu.Lock()
		l.cache[key] = p
		l.mu.Unlock()
	}
	return p, nil
}

// loadLocal loads a plugin manifest from a path under the base directory.
func (l *Loader) loadLocal(cfg Config) (*Plugin, error) {
	path, err := resolveWithin(l.baseDir, cfg.locator())
	if err != nil {
		return nil, err
	}
	if !fileutil.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, cfg.locator())
	}

	m, err := loadManifest(path)
	if err != nil {
		return nil, err
	}
	r, err := resolveRecipe(m, path)
	if err != nil {
		return nil, err
	}

	styleSheet, err := l.localStyleSheet(m, path)
	if err != nil {
		return nil, err
	}

	name := m.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &Plugin{
		Extension:  r.extension,
		StyleSheet: styleSheet,
		Meta: Metadata{
			Name:        name,
			Version:     m.Version,
			Description: m.Description,
			Author:      m.Author,
			Homepage:    m.Homepage,
		},
		Source:   SourceLocal,
		Options:  mergeOptions(m.Options, cfg.Options),
		Priority: effectivePriority(cfg.Priority, m.Priority),
	}, nil
}

// localStyleSheet reads the manifest's stylesheet, or a co-located .css
// file named after the manifest when none is declared.
func (l *Loader) localStyleSheet(m *manifest, manifestPath string) (string, error) {
	if m.Stylesheet != "" {
		path, err := resolveWithin(filepath.Dir(manifestPath), m.Stylesheet)
		if err != nil {
			return "", err
		}
		return readStyleSheet(path, true)
	}
	colocated := strings.TrimSuffix(manifestPath, filepath.Ext(manifestPath)) + ".css"
	return readStyleSheet(colocated, false)
}

// loadPackage loads a plugin installed as a package under the deps
// directory.
func (l *Loader) loadPackage(cfg Config) (*Plugin, error) {
	name := cfg.locator()
	dir, err := resolveWithin(l.depsDir, name)
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(dir, packageManifestName)
	if !fileutil.FileExists(manifestPath) {
		return nil, fmt.Errorf("%w: package %q is not installed under %s",
			ErrNotFound, name, l.depsDir)
	}
	m, err := loadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	if cfg.Version != "" && !versionSatisfies(m.Version, cfg.Version) {
		return nil, fmt.Errorf("%w: %s requires version %q, installed %q",
			ErrVersionMismatch, name, cfg.Version, m.Version)
	}

	// A package may delegate its extension definition to an entry manifest.
	entry := m
	if m.Entry != "" {
		entryPath, err := resolveWithin(dir, m.Entry)
		if err != nil {
			return nil, err
		}
		if entry, err = loadManifest(entryPath); err != nil {
			return nil, err
		}
	}
	r, err := resolveRecipe(entry, manifestPath)
	if err != nil {
		return nil, err
	}

	styleSheet, err := l.packageStyleSheet(m, dir)
	if err != nil {
		return nil, err
	}

	metaName := m.Name
	if metaName == "" {
		metaName = name
	}
	return &Plugin{
		Extension:  r.extension,
		StyleSheet: styleSheet,
		Meta: Metadata{
			Name:        metaName,
			Version:     m.Version,
			Description: m.Description,
			Author:      m.Author,
			Homepage:    m.Homepage,
		},
		Source:   SourcePackage,
		Options:  mergeOptions(mergeOptions(entry.Options, m.Options), cfg.Options),
		Priority: effectivePriority(cfg.Priority, m.Priority),
	}, nil
}

// packageStyleSheet reads the stylesheet declared in the package manifest,
// or the conventional style.css in the package directory.
func (l *Loader) packageStyleSheet(m *manifest, dir string) (string, error) {
	if m.Stylesheet != "" {
		path, err := resolveWithin(dir, m.Stylesheet)
		if err != nil {
			return "", err
		}
		return readStyleSheet(path, true)
	}
	return readStyleSheet(filepath.Join(dir, "style.css"), false)
}

// loadBuiltin looks the name up in the fixed builtin registry.
func (l *Loader) loadBuiltin(cfg Config) (*Plugin, error) {
	name := cfg.locator()
	r, ok := registry[name]
	if !ok {
		suggestion, _ := hints.ClosestMatch(name, BuiltinNames())
		return nil, fmt.Errorf("%w: %q%s%s", ErrUnknownBuiltin, name,
			hints.ForDidYouMean(suggestion), hints.ForAvailable(BuiltinNames()))
	}
	return &Plugin{
		Extension:  r.extension,
		StyleSheet: builtinStyleSheet(name),
		Meta: Metadata{
			Name:        name,
			Version:     r.version,
			Description: r.description,
		},
		Source:   SourceBuiltin,
		Options:  cfg.Options,
		Priority: effectivePriority(cfg.Priority, 0),
	}, nil
}

// effectivePriority picks the declaration priority, then the manifest
// priority, then the default.
func effectivePriority(configured, declared int) int {
	if configured != 0 {
		return configured
	}
	if declared != 0 {
		return declared
	}
	return DefaultPriority
}

// versionSatisfies implements the deliberately simple version check:
// equality, or the installed version extending the requested one by a
// dot-separated component ("1.2" satisfies a request for "1", "1.2").
// Full semantic-version range matching is out of scope.
func versionSatisfies(installed, requested string) bool {
	installed = strings.TrimPrefix(installed, "v")
	requested = strings.TrimPrefix(requested, "v")
	return installed == requested || strings.HasPrefix(installed, requested+".")
}

// resolveWithin resolves rel against base and verifies the result stays
// inside base. Symlinks are resolved before the prefix check so a link
// pointing outside the base cannot escape it. Grounds the loader's trust
// boundary: a path escaping the base is ErrSecurity, never a plain load
// failure.
func resolveWithin(base, rel string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve base %s", ErrSecurity, base)
	}
	if real, err := filepath.EvalSymlinks(absBase); err == nil {
		absBase = real
	}

	target := rel
	if !filepath.IsAbs(target) {
		target = filepath.Join(absBase, rel)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve path %s", ErrSecurity, rel)
	}
	if real, err := filepath.EvalSymlinks(absTarget); err == nil {
		absTarget = real
	}
	// If symlink resolution fails (e.g. the file does not exist yet) the
	// prefix check still runs on the cleaned absolute path.

	if absTarget != absBase &&
		!strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrSecurity, rel)
	}
	return absTarget, nil
}

// readStyleSheet reads a stylesheet file. When required is false a missing
// file simply yields no stylesheet.
func readStyleSheet(path string, required bool) (string, error) {
	if !fileutil.FileExists(path) {
		if required {
			return "", fmt.Errorf("%w: stylesheet %s", ErrNotFound, path)
		}
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path containment verified by the caller
	if err != nil {
		return "", fmt.Errorf("reading stylesheet %s: %w", path, err)
	}
	return string(data), nil
}
