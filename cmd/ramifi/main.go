// Package main is the entry point for the ramifi CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/coyuki/ramifi/internal/app"
	"github.com/coyuki/ramifi/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	args := os.Args[1:]

	// Help and version need no state store
	if runWithoutContainer(args) {
		return cli.NewRootCommand(nil, version).Execute()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	var mirror io.Writer
	if verboseRequested(args) {
		mirror = os.Stderr
	}

	container, err := app.New(cwd, app.Options{LogMirror: mirror})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	return cli.NewRootCommand(container, version).Execute()
}

// runWithoutContainer reports whether the command only prints help or version.
func runWithoutContainer(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--help", "-h", "--version", "help", "completion":
			return true
		case "--":
			return false
		}
	}
	return false
}

// verboseRequested reports whether --verbose appears before the "--" terminator.
func verboseRequested(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--verbose", "--verbose=true":
			return true
		case "--":
			return false
		}
	}
	return false
}
