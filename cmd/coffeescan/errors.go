package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/coffeescan/pkgs/perrors"
)

// CLIError is a usage-level failure (bad flags, unreadable file) distinct
// from a scan/parse diagnostic.
type CLIError struct {
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError renders err for CLI output, dispatching on its concrete
// type: a *perrors.Error gets its built-in
// source-snippet rendering, a *CLIError gets its hint line, anything else
// falls back to a plain "Error: " line.
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *perrors.Error:
		fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), e.Error())
	case *CLIError:
		fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), e.Message)
		if e.Hint != "" {
			fmt.Fprintf(w, "%s%s%s\n", Colorize("Hint: ", ColorYellow, useColor), e.Hint, ColorReset)
		}
	default:
		fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}
