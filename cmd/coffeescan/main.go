// Command coffeescan drives the scanner and parser in pkgs/lexer and
// pkgs/parser: tokenize, parse, emit, watch a file for changes, validate a
// config file, or dump the token/AST tree as JSON or CBOR. The library
// packages underneath stay silent (the scanner and parser never log); this
// command tree is the only place in the repository that does I/O or
// logging.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	debug   bool
	noColor bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "coffeescan",
		Short:         "Tokenize, parse, and emit a CoffeeScript-like language",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose diagnostic output on stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newTokenizeCmd(),
		newParseCmd(),
		newEmitCmd(),
		newWatchCmd(),
		newConfigCmd(),
		newDumpCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		FormatError(os.Stderr, err, ShouldUseColor(noColor))
		os.Exit(1)
	}
}

// debugf writes a debug-gated log line to stderr.
func debugf(format string, args ...any) {
	if !debug {
		return
	}
	fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
}
