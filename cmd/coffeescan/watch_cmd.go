package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/coffeescan/cmd/coffeescan/watch"
	"github.com/aledsdavies/coffeescan/pkgs/parser"
)

func newWatchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-parse a file on every change and print errors or a success summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			useColor := ShouldUseColor(noColor)

			stop := make(chan struct{})
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigs
				close(stop)
			}()

			onChange := func(res watch.Result) {
				if res.Err != nil {
					FormatError(os.Stderr, res.Err, useColor)
					return
				}
				tree, err := parser.Parse(string(res.Source))
				if err != nil {
					FormatError(os.Stderr, err, useColor)
					return
				}
				fmt.Fprintf(os.Stdout, "%s: %d statements parsed OK\n",
					Colorize(file, ColorCyan, useColor), len(tree.Exprs))
			}

			debugf("watching %s (debounce %dms)", file, debounceMs)
			return watch.Run(file, time.Duration(debounceMs)*time.Millisecond, stop, onChange)
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 100, "milliseconds to coalesce write events before re-parsing")
	return cmd
}
