package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/coffeescan/cmd/coffeescan/dump"
	"github.com/aledsdavies/coffeescan/pkgs/parser"
)

func newParseCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a file and print its AST",
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
			debugf("parsed %d top-level statements", len(tree.Exprs))

			node := dump.FromExpr(tree)
			switch format {
			case "json":
				enc, err := json.MarshalIndent(node, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, string(enc))
			case "text", "":
				printNode(os.Stdout, node, 0)
			default:
				return &CLIError{Message: fmt.Sprintf("unknown --format %q", format), Hint: "use \"text\" or \"json\""}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func printNode(w *os.File, n dump.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s @%s: %s\n", indent, n.Kind, n.Pos, n.Text)
	for _, c := range n.Children {
		printNode(w, c, depth+1)
	}
}
