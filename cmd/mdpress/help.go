package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpress [flags] <input.md>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Annotate markdown with print-layout semantics.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -c, --config <name|path>  Config file (searched in cwd and user config dir)")
	fmt.Fprintln(w, "  -o, --output <path>       Output HTML file (default: stdout)")
	fmt.Fprintln(w, "      --styles-out <path>   Write plugin stylesheets to this CSS file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Plugins:")
	fmt.Fprintln(w, "  -p, --plugins <path>      Plugin declaration YAML file")
	fmt.Fprintln(w, "      --plugin-dir <path>   Base directory for local plugin paths")
	fmt.Fprintln(w, "      --deps-dir <path>     Directory of installed plugin packages")
	fmt.Fprintln(w, "      --strict-plugins      Fail on any plugin load error")
	fmt.Fprintln(w, "      --list-plugins        List loaded plugins and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Annotation:")
	fmt.Fprintln(w, "      --window-back <n>     Explicit-directive lookbehind window in tokens")
	fmt.Fprintln(w, "      --window-forward <n>  Explicit-directive lookahead window in tokens")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -q, --quiet               Suppress warnings")
	fmt.Fprintln(w, "  -v, --verbose             Verbose output")
	fmt.Fprintln(w, "      --version             Print version and exit")
	fmt.Fprintln(w, "  -h, --help                Show help")
}
