package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// annotateFlags holds all flags for the annotate run.
type annotateFlags struct {
	configPath    string
	output        string
	stylesOut     string
	pluginsFile   string
	pluginBaseDir string
	pluginDepsDir string
	strictPlugins bool
	windowBack    int
	windowForward int
	listPlugins   bool
	quiet         bool
	verbose       bool
	showVersion   bool
	showHelp      bool
}

// parseFlags parses command-line arguments. It returns the parsed flags
// and the positional arguments (input files).
func parseFlags(args []string) (*annotateFlags, []string, error) {
	flags := &annotateFlags{}

	fs := flag.NewFlagSet("mdpress", flag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() { printUsage(os.Stderr) }

	fs.StringVarP(&flags.configPath, "config", "c", "", "config file path or name (searched in cwd and user config dir)")
	fs.StringVarP(&flags.output, "output", "o", "", "output HTML file (default: stdout)")
	fs.StringVar(&flags.stylesOut, "styles-out", "", "write plugin stylesheets to this CSS file")
	fs.StringVarP(&flags.pluginsFile, "plugins", "p", "", "plugin declaration YAML file")
	fs.StringVar(&flags.pluginBaseDir, "plugin-dir", "", "base directory for local plugin paths")
	fs.StringVar(&flags.pluginDepsDir, "deps-dir", "", "directory of installed plugin packages")
	fs.BoolVar(&flags.strictPlugins, "strict-plugins", false, "fail on any plugin load error")
	fs.IntVar(&flags.windowBack, "window-back", 0, "explicit-directive lookbehind window in tokens")
	fs.IntVar(&flags.windowForward, "window-forward", 0, "explicit-directive lookahead window in tokens")
	fs.BoolVar(&flags.listPlugins, "list-plugins", false, "list loaded plugins and exit")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress warnings")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVar(&flags.showVersion, "version", false, "print version and exit")
	fs.BoolVarP(&flags.showHelp, "help", "h", false, "show help")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return flags, fs.Args(), nil
}
