package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/coffeescan/cmd/coffeescan/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate .coffeescan.yaml configuration",
	}
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a config file against the embedded schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ".coffeescan.yaml"
			if len(args) == 1 {
				file = args[0]
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading config %s: %w", file, err)
			}
			if err := config.Validate(raw); err != nil {
				return &CLIError{Message: err.Error(), Hint: "fix the config to match the schema in cmd/coffeescan/config"}
			}
			fmt.Fprintf(os.Stdout, "%s: valid\n", file)
			return nil
		},
	}
}
