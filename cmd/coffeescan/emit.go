package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/coffeescan/pkgs/parser"
)

func newEmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit [file]",
		Short: "Parse a file and print its canonical re-emission",
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

			tree, err := parser.Parse(string(source))
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, tree.Emit())
			return nil
		},
	}
	return cmd
}
