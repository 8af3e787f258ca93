// Package cli provides the command-line interface for ramifi.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coyuki/ramifi/internal/app"
	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/tui"
)

// Command group IDs.
const (
	groupIssue    = "issue"
	groupUser     = "user"
	groupSnapshot = "snapshot"
	groupSetup    = "setup"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = tui.Run

// NewRootCommand creates the root command for ramifi.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "ramifi",
		Short: "Branching issue tracker",
		Long: `ramifi tracks issues that can be forked into follow-up issues.
Forking closes the source and opens a child that points back to it,
so a line of work keeps its history as it changes direction.

Run without a subcommand to open the interactive TUI.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	// Parsed by main before the container exists; declared here so cobra accepts it.
	root.PersistentFlags().Bool("verbose", false, "Mirror log entries to stderr")

	root.AddGroup(
		&cobra.Group{ID: groupIssue, Title: "Issue Commands:"},
		&cobra.Group{ID: groupUser, Title: "User Commands:"},
		&cobra.Group{ID: groupSnapshot, Title: "Snapshot Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	issueCommands := []*cobra.Command{
		newNewCommand(c),
		newListCommand(c),
		newShowCommand(c),
		newCommentCommand(c),
		newCloseCommand(c),
		newReopenCommand(c),
		newForkCommand(c),
	}
	for _, cmd := range issueCommands {
		cmd.GroupID = groupIssue
		root.AddCommand(cmd)
	}

	userCmd := newUserCommand(c)
	userCmd.GroupID = groupUser
	root.AddCommand(userCmd)

	snapshotCommands := []*cobra.Command{
		newImportCommand(c),
		newExportCommand(c),
		newDiffCommand(c),
	}
	for _, cmd := range snapshotCommands {
		cmd.GroupID = groupSnapshot
		root.AddCommand(cmd)
	}

	setupCommands := []*cobra.Command{
		newConfigCommand(c),
		newTUICommand(c),
	}
	for _, cmd := range setupCommands {
		cmd.GroupID = groupSetup
		root.AddCommand(cmd)
	}

	return root
}

// parseIssueID parses "3" or "#3" into an issue ID.
func parseIssueID(arg string) (int, error) {
	id, ok := domain.ParseIssueRef(arg)
	if !ok {
		return 0, fmt.Errorf("invalid issue ID %q", arg)
	}
	return id, nil
}

// newTUICommand creates the tui command for launching the interactive TUI.
// Running ramifi without arguments does the same.
func newTUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive TUI",
		Long:  `Launch the interactive terminal user interface for browsing and editing issues.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}
}
