package plugin

import (
	"embed"
	"fmt"
	"sort"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"github.com/alnah/go-mdpress/internal/hints"
)

//go:embed styles
var builtinStyles embed.FS

// recipe is one entry in the builtin registry. Local and package plugin
// manifests also reference recipes by name via their "extends" field.
type recipe struct {
	version     string
	description string
	extension   Extension
}

// extender wraps a stateless goldmark extender as an Extension.
func extender(e interface {
	Extend(goldmark.Markdown)
}) Extension {
	return RegisterFunc(func(md goldmark.Markdown, _ map[string]any) error {
		e.Extend(md)
		return nil
	})
}

// registry is the fixed set of builtin plugins.
var registry = map[string]recipe{
	"gfm": {
		version:     "1.0.0",
		description: "GitHub Flavored Markdown: tables, strikethrough, autolinks, task lists",
		extension:   extender(extension.GFM),
	},
	"footnotes": {
		version:     "1.0.0",
		description: "Pandoc-style footnotes",
		extension:   extender(extension.Footnote),
	},
	"typographer": {
		version:     "1.0.0",
		description: "Typographic substitutions for quotes, dashes and ellipses",
		extension:   extender(extension.Typographer),
	},
	"definition-list": {
		version:     "1.0.0",
		description: "PHP Markdown Extra definition lists",
		extension:   extender(extension.DefinitionList),
	},
	"task-list": {
		version:     "1.0.0",
		description: "GitHub-style task list checkboxes",
		extension:   extender(extension.TaskList),
	},
	"highlighting": {
		version:     "1.1.0",
		description: "Syntax highlighting for fenced code blocks via chroma",
		extension:   RegisterFunc(registerHighlighting),
	},
}

// registerHighlighting installs the chroma-backed highlighter. Options:
// "style" selects a chroma style by name, "inline-styles" switches from
// CSS classes to inline style attributes.
func registerHighlighting(md goldmark.Markdown, options map[string]any) error {
	opts := []highlighting.Option{
		highlighting.WithFormatOptions(
			chromahtml.WithClasses(!optBool(options, "inline-styles")),
		),
	}
	if style, ok := optString(options, "style"); ok {
		if !chromaStyleExists(style) {
			return fmt.Errorf("unknown chroma style %q%s",
				style, hints.ForAvailable(chromastyles.Names()))
		}
		opts = append(opts, highlighting.WithStyle(style))
	}
	highlighting.NewHighlighting(opts...).Extend(md)
	return nil
}

func chromaStyleExists(name string) bool {
	for _, n := range chromastyles.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// IsBuiltin reports whether name is in the builtin registry.
func IsBuiltin(name string) bool {
	_, ok := registry[name]
	return ok
}

// BuiltinNames returns the sorted names of the builtin registry, used in
// error messages and by the CLI's plugin listing.
func BuiltinNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// builtinStyleSheet loads the conventionally-named stylesheet for a
// builtin plugin. Missing stylesheets are normal: most builtins need none.
func builtinStyleSheet(name string) string {
	data, err := builtinStyles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return ""
	}
	return string(data)
}

func optString(options map[string]any, key string) (string, bool) {
	v, ok := options[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func optBool(options map[string]any, key string) bool {
	v, ok := options[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
