package main

import (
	"fmt"
	"io"
	"os"
)

// getInputReader resolves the 3 supported input modes:
// explicit "-" for stdin, auto-detected piped stdin, or a named file.
func getInputReader(file string) (io.Reader, func() error, error) {
	if file == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	if file == "" && hasPipedInput() {
		return os.Stdin, func() error { return nil }, nil
	}
	if file == "" {
		return nil, nil, &CLIError{
			Message: "no input file given",
			Hint:    "pass a file path, \"-\" for stdin, or pipe source on stdin",
		}
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file %s: %w", file, err)
	}
	return f, f.Close, nil
}

func hasPipedInput() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readSource reads and fully drains the input named by file.
func readSource(file string) ([]byte, error) {
	r, closeFunc, err := getInputReader(file)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeFunc() }()
	return io.ReadAll(r)
}
