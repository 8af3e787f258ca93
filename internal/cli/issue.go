package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/coyuki/ramifi/internal/app"
	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/usecase"
)

// newNewCommand creates the new command for creating issues.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name   string
		Body   string
		Labels []string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new issue",
		Long: `Create a new open issue created by the current user.

The body becomes the issue's first comment. Without --body the name is used.

Examples:
  # Create an issue
  ramifi new --name "Fix login bug"

  # Create an issue with a description and labels
  ramifi new --name "Add feature" --body "Details here" --label feature --label urgent`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.NewIssueUseCase().Execute(cmd.Context(), usecase.NewIssueInput{
				Name:        opts.Name,
				Description: opts.Body,
				Labels:      opts.Labels,
			})
			if err != nil {
				return fmt.Errorf("create issue: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created issue %s\n", domain.IssueRef(out.IssueID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Issue name (required)")
	cmd.Flags().StringVarP(&opts.Body, "body", "b", "", "Issue description")
	cmd.Flags().StringArrayVarP(&opts.Labels, "label", "l", nil, "Issue label (can specify multiple)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// newListCommand creates the list command for listing issues.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Filter     string
		Query      string
		SaveFilter bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List issues",
		Long: `List issues newest first.

Without --filter the saved filter is used (open for a new state).
Filters: open, completed, not_planned, all. Forked issues count as completed.

Examples:
  # List with the saved filter
  ramifi list

  # Search all issues by name
  ramifi list --filter all --query login

  # Make completed the default filter
  ramifi list --filter completed --save-filter`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := usecase.ListIssuesInput{
				Query:      opts.Query,
				SaveFilter: opts.SaveFilter,
			}
			if opts.Filter != "" {
				filter, err := domain.ParseFilter(opts.Filter)
				if err != nil {
					return fmt.Errorf("%w: %q", err, opts.Filter)
				}
				in.Filter = &filter
			}

			out, err := c.ListIssuesUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			printIssueList(cmd.OutOrStdout(), out.Issues)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "Status filter (open, completed, not_planned, all)")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Show only issues whose name contains this text")
	cmd.Flags().BoolVar(&opts.SaveFilter, "save-filter", false, "Remember --filter as the default")

	return cmd
}

// printIssueList prints issues in a table format.
func printIssueList(w io.Writer, issues []domain.Issue) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tPARENT\tSTATUS\tLABELS\tNAME")

	// Rows
	for _, issue := range issues {
		parentStr := "-"
		if issue.ParentID != nil {
			parentStr = fmt.Sprintf("%d", *issue.ParentID)
		}

		labelsStr := "-"
		if len(issue.Labels) > 0 {
			labelsStr = "[" + strings.Join(issue.Labels, ",") + "]"
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			issue.ID,
			parentStr,
			issue.Status,
			labelsStr,
			issue.Name,
		)
	}
}

// newShowCommand creates the show command for displaying one issue.
func newShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show issue details",
		Long: `Show an issue with its fork parent, forked children and comments.

Examples:
  ramifi show 1
  ramifi show #1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}

			out, err := c.ShowIssueUseCase().Execute(cmd.Context(), usecase.ShowIssueInput{IssueID: id})
			if err != nil {
				return fmt.Errorf("show issue %s: %w", domain.IssueRef(id), err)
			}

			printIssueDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// printIssueDetails prints one issue in a readable block.
func printIssueDetails(w io.Writer, out *usecase.ShowIssueOutput) {
	issue := out.Issue

	// Header
	_, _ = fmt.Fprintf(w, "# Issue %d: %s\n\n", issue.ID, issue.Name)

	// Fields
	_, _ = fmt.Fprintf(w, "Status: %s\n", issue.Status.Display())
	_, _ = fmt.Fprintf(w, "Creator: %s\n", issue.Creator)

	if len(issue.Labels) > 0 {
		_, _ = fmt.Fprintf(w, "Labels: [%s]\n", strings.Join(issue.Labels, ", "))
	} else {
		_, _ = fmt.Fprintln(w, "Labels: none")
	}

	_, _ = fmt.Fprintf(w, "Created: %s\n", issue.CreatedAt.Format(time.RFC3339))

	if out.Parent != nil {
		_, _ = fmt.Fprintf(w, "Forked from %s: %s\n", domain.IssueRef(out.Parent.ID), out.Parent.Name)
	}

	// Forks
	if len(out.Children) > 0 {
		_, _ = fmt.Fprintln(w, "\nForks:")
		for _, child := range out.Children {
			_, _ = fmt.Fprintf(w, "  %s [%s] %s\n", domain.IssueRef(child.ID), child.Status, child.Name)
		}
	}

	// Comments
	if len(issue.Comments) > 0 {
		_, _ = fmt.Fprintln(w, "\nComments:")
		separator := "  ─────────────────"
		for _, comment := range issue.Comments {
			_, _ = fmt.Fprintln(w, separator)
			_, _ = fmt.Fprintf(w, "  [%s] %s\n", comment.Date.Format(time.RFC3339), comment.Author)
			for _, line := range strings.Split(comment.Text, "\n") {
				_, _ = fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}

// newCommentCommand creates the comment command for adding comments.
func newCommentCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Add a comment to an issue",
		Long: `Add a comment authored by the current user.

Examples:
  ramifi comment 1 "Reproduced on staging"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}

			if err := c.AddCommentUseCase().Execute(cmd.Context(), usecase.AddCommentInput{
				IssueID: id,
				Text:    args[1],
			}); err != nil {
				return fmt.Errorf("comment on issue %s: %w", domain.IssueRef(id), err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Commented on issue %s\n", domain.IssueRef(id))
			return nil
		},
	}
}

// newCloseCommand creates the close command.
func newCloseCommand(c *app.Container) *cobra.Command {
	var notPlanned bool

	cmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close an issue",
		Long: `Close an issue as completed, or as not planned with --not-planned.
Closing works from any status, including already closed issues.

Examples:
  ramifi close 1
  ramifi close 2 --not-planned`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}

			reason := usecase.CloseCompleted
			if notPlanned {
				reason = usecase.CloseNotPlanned
			}

			if err := c.CloseIssueUseCase().Execute(cmd.Context(), usecase.CloseIssueInput{
				IssueID: id,
				Reason:  reason,
			}); err != nil {
				return fmt.Errorf("close issue %s: %w", domain.IssueRef(id), err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Closed issue %s (%s)\n", domain.IssueRef(id), reason)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notPlanned, "not-planned", false, "Close as not planned")

	return cmd
}

// newReopenCommand creates the reopen command.
func newReopenCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Reopen a closed issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}

			if err := c.ReopenIssueUseCase().Execute(cmd.Context(), usecase.ReopenIssueInput{IssueID: id}); err != nil {
				return fmt.Errorf("reopen issue %s: %w", domain.IssueRef(id), err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reopened issue %s\n", domain.IssueRef(id))
			return nil
		},
	}
}

// newForkCommand creates the fork command.
func newForkCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "fork <id>",
		Short: "Fork an issue into a follow-up",
		Long: `Create a child issue with the same name and labels, created by the
current user, and close the source as forked.

Examples:
  ramifi fork 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}

			out, err := c.ForkIssueUseCase().Execute(cmd.Context(), usecase.ForkIssueInput{IssueID: id})
			if err != nil {
				return fmt.Errorf("fork issue %s: %w", domain.IssueRef(id), err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Forked issue %s into %s\n", domain.IssueRef(id), domain.IssueRef(out.ChildID))
			return nil
		},
	}
}
