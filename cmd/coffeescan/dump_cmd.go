package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/coffeescan/cmd/coffeescan/dump"
	"github.com/aledsdavies/coffeescan/pkgs/lexer"
	"github.com/aledsdavies/coffeescan/pkgs/parser"
)

func newDumpCmd() *cobra.Command {
	var format string
	var kind string

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Serialize the token stream or AST as JSON or CBOR",
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

			var payload any
			switch kind {
			case "tokens":
				toks, err := lexer.New(string(source)).Scan()
				if err != nil {
					return err
				}
				payload = dump.FromTokens(toks)
			case "ast", "":
				tree, err := parser.Parse(string(source))
				if err != nil {
					return err
				}
				node := dump.FromExpr(tree)
				payload = node
			default:
				return &CLIError{Message: fmt.Sprintf("unknown --kind %q", kind), Hint: "use \"tokens\" or \"ast\""}
			}

			switch format {
			case "cbor":
				enc, err := cbor.Marshal(payload)
				if err != nil {
					return fmt.Errorf("cbor encode: %w", err)
				}
				_, err = os.Stdout.Write(enc)
				return err
			case "json", "":
				enc, err := json.MarshalIndent(payload, "", "  ")
				if err != nil {
					return fmt.Errorf("json encode: %w", err)
				}
				fmt.Fprintln(os.Stdout, string(enc))
				return nil
			default:
				return &CLIError{Message: fmt.Sprintf("unknown --format %q", format), Hint: "use \"json\" or \"cbor\""}
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json or cbor")
	cmd.Flags().StringVar(&kind, "kind", "ast", "what to dump: tokens or ast")
	return cmd
}
