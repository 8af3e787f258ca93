// Package dialog provides file pickers: native dialogs driven through a
// zenity-compatible program, and fixed paths for non-interactive use.
package dialog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/coyuki/ramifi/internal/domain"
)

// Static returns preset paths. An empty path behaves like a dismissed prompt.
type Static struct {
	OpenPath string
	SavePath string
}

// Ensure Static implements domain.FilePicker.
var _ domain.FilePicker = Static{}

// PickOpen returns OpenPath.
func (s Static) PickOpen(_ context.Context) (string, error) {
	if s.OpenPath == "" {
		return "", domain.ErrCancelled
	}
	return s.OpenPath, nil
}

// PickSave returns SavePath.
func (s Static) PickSave(_ context.Context, _ string) (string, error) {
	if s.SavePath == "" {
		return "", domain.ErrCancelled
	}
	return s.SavePath, nil
}

// runFunc runs a program and returns its stdout. Replaced in tests.
type runFunc func(ctx context.Context, program string, args ...string) ([]byte, error)

// Command shows dialogs by running a zenity-compatible program
// (zenity, qarma). Exit status 1 means the user dismissed the dialog.
type Command struct {
	run     runFunc
	program string
}

// Ensure Command implements domain.FilePicker.
var _ domain.FilePicker = (*Command)(nil)

// NewCommand creates a picker that runs program.
func NewCommand(program string) *Command {
	return &Command{program: program, run: runProgram}
}

// PickOpen shows a file selection dialog.
func (c *Command) PickOpen(ctx context.Context) (string, error) {
	return c.pick(ctx, "--file-selection", "--title=Import snapshot")
}

// PickSave shows a save dialog pre-filled with suggested.
func (c *Command) PickSave(ctx context.Context, suggested string) (string, error) {
	args := []string{"--file-selection", "--save", "--confirm-overwrite", "--title=Export snapshot"}
	if suggested != "" {
		args = append(args, "--filename="+suggested)
	}
	return c.pick(ctx, args...)
}

func (c *Command) pick(ctx context.Context, args ...string) (string, error) {
	out, err := c.run(ctx, c.program, args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", domain.ErrCancelled
		}
		return "", fmt.Errorf("run %s: %w", c.program, err)
	}
	path := strings.TrimRight(string(out), "\r\n")
	if path == "" {
		return "", domain.ErrCancelled
	}
	return path, nil
}

func runProgram(ctx context.Context, program string, args ...string) ([]byte, error) {
	// #nosec G204 - program comes from the user's own config
	cmd := exec.CommandContext(ctx, program, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}
