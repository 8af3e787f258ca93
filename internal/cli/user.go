package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coyuki/ramifi/internal/app"
	"github.com/coyuki/ramifi/internal/usecase"
)

// newUserCommand creates the user command with subcommands.
func newUserCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
		Long: `Manage the user directory and the current user.

The current user is recorded as creator of new issues and forks,
and as author of comments.`,
	}

	cmd.AddCommand(newUserAddCommand(c))
	cmd.AddCommand(newUserListCommand(c))
	cmd.AddCommand(newUserSwitchCommand(c))

	return cmd
}

func newUserAddCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <email>",
		Short: "Add a user",
		Long: `Add a user to the directory. Names must be unique.

Examples:
  ramifi user add alice alice@example.com`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.AddUserUseCase().Execute(cmd.Context(), usecase.AddUserInput{
				Name:  args[0],
				Email: args[1],
			}); err != nil {
				return fmt.Errorf("add user: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added user %s\n", args[0])
			return nil
		},
	}
}

func newUserListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListUsersUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintln(tw, "\tNAME\tEMAIL")
			for _, u := range out.Users {
				marker := ""
				if u.Is(out.Current) {
					marker = "*"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", marker, u.Name, u.Email)
			}
			return nil
		},
	}
}

func newUserSwitchCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <name>",
		Short: "Switch the current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.SwitchUserUseCase().Execute(cmd.Context(), usecase.SwitchUserInput{Name: args[0]}); err != nil {
				return fmt.Errorf("switch user: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", args[0])
			return nil
		},
	}
}
