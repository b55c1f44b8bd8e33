// Package mdpress turns markdown into a print-layout-aware HTML fragment.
//
// # Quick Start
//
// Create an engine and process a document:
//
//	engine, err := mdpress.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := engine.Process(ctx, mdpress.Input{
//	    Markdown: "# Chapter One\n\nOnce upon a time.",
//	    Source:   "book.md",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)
//
// # Annotation Pass
//
// The engine parses markdown into a flat token stream and runs a single
// annotation pass over it:
//
//  1. Layout directive comments (<!-- @page: chapter -->) become
//     zero-footprint marker elements for the downstream renderer.
//  2. Level-1 headings are flagged as chapter starts unless an explicit
//     @page or @break directive nearby overrides the default.
//  3. Thematic breaks (---) become page-break markers.
//  4. Images classed full-bleed gain an art-page class.
//  5. Blockquotes leading with [!note]-style markers become typed
//     callout blocks.
//
// Directive values are validated against fixed vocabularies; a typo is a
// build error with a "did you mean" suggestion rather than silently wrong
// pagination.
//
// # Plugins
//
// Syntax extensions are declared in configuration and resolved from local
// manifest files, installed packages, or the builtin registry before any
// document is processed:
//
//	configs, err := mdpress.LoadPluginConfigs("mdpress.yaml")
//	engine, err := mdpress.New(mdpress.WithPlugins(configs...))
//
// Loaded plugins register into the parser in descending priority order,
// and their injected stylesheets are available via engine.StyleSheets().
//
// # Configuration
//
// Use functional options to customize the engine:
//
//	engine, err := mdpress.New(
//	    mdpress.WithChapterWindow(10, 2),
//	    mdpress.WithStrictPlugins(),
//	    mdpress.WithLogger(logger),
//	)
package mdpress
