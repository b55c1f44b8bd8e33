package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	mdpress "github.com/alnah/go-mdpress"
	"github.com/alnah/go-mdpress/internal/config"
	"github.com/alnah/go-mdpress/internal/rewrite"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// runAnnotate orchestrates a single annotation run.
func runAnnotate(ctx context.Context, args []string, flags *annotateFlags, env *Environment) error {
	if flags.showHelp {
		printUsage(env.Stdout)
		return nil
	}
	if flags.showVersion {
		fmt.Fprintf(env.Stdout, "mdpress %s\n", Version)
		return nil
	}

	logger := buildLogger(flags, env)

	cfg := config.DefaultConfig()
	if flags.configPath != "" {
		loaded, err := config.LoadConfig(flags.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	mergeConfig(flags, cfg)

	opts, err := buildOptions(flags, logger)
	if err != nil {
		return err
	}

	engine, err := mdpress.New(opts...)
	if err != nil {
		return err
	}

	if flags.listPlugins {
		printPlugins(engine.Plugins(), env)
		return nil
	}

	if len(args) == 0 {
		return ErrNoInput
	}
	inputPath := args[0]
	if err := validateMarkdownExtension(inputPath); err != nil {
		return err
	}

	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	result, err := engine.Process(ctx, mdpress.Input{
		Markdown: string(content),
		Source:   inputPath,
	})
	if err != nil {
		return err
	}

	if err := writeOutput(flags.output, result.HTML, env); err != nil {
		return err
	}

	if flags.stylesOut != "" {
		if err := writeStyles(flags.stylesOut, engine.StyleSheets()); err != nil {
			return err
		}
	}

	return nil
}

// buildLogger creates the run logger. Warnings go to stderr; quiet
// raises the level past warnings, verbose lowers it to debug.
func buildLogger(flags *annotateFlags, env *Environment) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case flags.quiet:
		level = slog.LevelError
	case flags.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))
}

// mergeConfig fills in flag values the user did not set from the config
// file. Explicit flags always win.
func mergeConfig(flags *annotateFlags, cfg *config.Config) {
	if flags.windowBack == 0 {
		flags.windowBack = cfg.Annotate.WindowBack
	}
	if flags.windowForward == 0 {
		flags.windowForward = cfg.Annotate.WindowForward
	}
	if flags.output == "" {
		flags.output = cfg.Output.Path
	}
	if flags.stylesOut == "" {
		flags.stylesOut = cfg.Output.Styles
	}
	if flags.pluginsFile == "" {
		flags.pluginsFile = cfg.Plugins.File
	}
	if flags.pluginBaseDir == "" {
		flags.pluginBaseDir = cfg.Plugins.BaseDir
	}
	if flags.pluginDepsDir == "" {
		flags.pluginDepsDir = cfg.Plugins.DepsDir
	}
	if cfg.Plugins.Strict {
		flags.strictPlugins = true
	}
}

// buildOptions converts CLI flags into engine options.
func buildOptions(flags *annotateFlags, logger *slog.Logger) ([]mdpress.Option, error) {
	opts := []mdpress.Option{mdpress.WithLogger(logger)}

	if flags.windowBack > 0 || flags.windowForward > 0 {
		back, forward := flags.windowBack, flags.windowForward
		if back == 0 {
			back = rewrite.DefaultBackWindow
		}
		opts = append(opts, mdpress.WithChapterWindow(back, forward))
	}
	if flags.pluginBaseDir != "" {
		opts = append(opts, mdpress.WithPluginBaseDir(flags.pluginBaseDir))
	}
	if flags.pluginDepsDir != "" {
		opts = append(opts, mdpress.WithPluginDepsDir(flags.pluginDepsDir))
	}
	if flags.strictPlugins {
		opts = append(opts, mdpress.WithStrictPlugins())
	}

	if flags.pluginsFile != "" {
		configs, err := mdpress.LoadPluginConfigs(flags.pluginsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mdpress.WithPlugins(configs...))
	}

	return opts, nil
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: %q must have .md or .markdown extension", ErrUsage, path)
	}
	return nil
}

// writeOutput writes the annotated HTML to the output file or stdout.
func writeOutput(path, html string, env *Environment) error {
	if path == "" {
		fmt.Fprint(env.Stdout, html)
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	// #nosec G306 -- HTML output is meant to be readable
	if err := os.WriteFile(path, []byte(html), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// writeStyles concatenates plugin stylesheets into a single CSS file.
func writeStyles(path string, sheets []string) error {
	css := strings.Join(sheets, "\n")
	// #nosec G306 -- CSS output is meant to be readable
	if err := os.WriteFile(path, []byte(css), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// printPlugins lists the loaded plugins in registration order.
func printPlugins(plugins []mdpress.PluginInfo, env *Environment) {
	if len(plugins) == 0 {
		fmt.Fprintln(env.Stdout, "no plugins loaded")
		return
	}
	for _, p := range plugins {
		fmt.Fprintf(env.Stdout, "%-24s %-10s priority=%-4d %s\n",
			p.Name, p.Version, p.Priority, p.Source)
	}
}
