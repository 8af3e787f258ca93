package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coyuki/ramifi/internal/app"
	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/usecase"
)

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the state with a snapshot file",
		Long: `Replace issues, users, current user and filter with the contents of a
snapshot file. Without a file argument the file picker is opened.

A file that cannot be read or parsed leaves the saved state untouched.

Examples:
  ramifi import backup.json
  ramifi import`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in usecase.ImportSnapshotInput
			if len(args) == 1 {
				in.Path = args[0]
			}

			out, err := c.ImportSnapshotUseCase().Execute(cmd.Context(), in)
			if errors.Is(err, domain.ErrCancelled) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
				return nil
			}
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d issues and %d users (current user: %s)\n",
				out.Issues, out.Users, out.CurrentUser)
			return nil
		},
	}
}

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the state to a snapshot file",
		Long: `Write the whole state to a snapshot file. Files ending in .yaml or .yml
are written as YAML, anything else as JSON. Without a file argument the
file picker is opened with the configured default name.

Examples:
  ramifi export backup.json
  ramifi export`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in usecase.ExportSnapshotInput
			if len(args) == 1 {
				in.Path = args[0]
			}

			out, err := c.ExportSnapshotUseCase().Execute(cmd.Context(), in)
			if errors.Is(err, domain.ErrCancelled) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Export cancelled")
				return nil
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out.Path)
			return nil
		},
	}
}

// newDiffCommand creates the diff command.
func newDiffCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <file>",
		Short: "Compare the saved state with a snapshot file",
		Long: `Show a line diff from the saved state to a snapshot file.
Lines prefixed with - exist only in the saved state, + only in the file.

Examples:
  ramifi diff backup.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DiffSnapshotUseCase().Execute(cmd.Context(), usecase.DiffSnapshotInput{Path: args[0]})
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}

			w := cmd.OutOrStdout()
			if !out.Changed {
				_, _ = fmt.Fprintln(w, "No differences")
				return nil
			}
			for _, line := range out.Lines {
				prefix := " "
				switch line.Op {
				case usecase.DiffDelete:
					prefix = "-"
				case usecase.DiffInsert:
					prefix = "+"
				case usecase.DiffEqual:
				}
				_, _ = fmt.Fprintf(w, "%s %s\n", prefix, line.Text)
			}
			return nil
		},
	}
}
