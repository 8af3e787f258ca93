package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coyuki/ramifi/internal/app"
	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/infra/config"
)

// newConfigCommand creates the config command with subcommands.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage ramifi configuration files.

Configuration is merged in order: defaults, the global config.toml,
then .ramifi.toml in the working directory.`,
	}

	cmd.AddCommand(newConfigInitCommand(c))
	cmd.AddCommand(newConfigShowCommand(c))

	return cmd
}

func newConfigInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the global config file",
		Long:  `Write a commented config template to the global config path. Fails if the file exists.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitConfigUseCase().Execute(cmd.Context())
			if errors.Is(err, domain.ErrConfigExists) {
				return fmt.Errorf("config already exists: %w", err)
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}
}

func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, info := range []domain.ConfigInfo{out.GlobalConfig, out.LocalConfig} {
				if info.Exists {
					_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
				} else {
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
				}
			}
			_, _ = fmt.Fprintln(w)

			rendered, err := config.Render(out.Effective)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(w, rendered)

			if len(out.Effective.Warnings) > 0 {
				_, _ = fmt.Fprintln(w, "\n[Warnings]")
				for _, warning := range out.Effective.Warnings {
					_, _ = fmt.Fprintf(w, "- %s\n", warning)
				}
			}
			return nil
		},
	}
}
