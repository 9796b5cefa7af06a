package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/coffeescan/pkgs/lexer"
)

func newTokenizeCmd() *cobra.Command {
	var includeTrivia bool

	cmd := &cobra.Command{
		Use:   "tokenize [file]",
		Short: "Scan a file and print its token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			source, err := readSource(file)
			if err != nil {
				return err
			}

			toks, err := lexer.New(string(source)).Scan()
			if err != nil {
				return err
			}
			debugf("scanned %d tokens from %d bytes", len(toks), len(source))

			for _, tok := range toks {
				if !includeTrivia && tok.Kind.IsTrivia() {
					continue
				}
				fmt.Fprintf(os.Stdout, "%-14s %-8s %q\n", tok.Pos, tok.Kind, tok.Value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeTrivia, "trivia", false, "include whitespace/comment tokens")
	return cmd
}
