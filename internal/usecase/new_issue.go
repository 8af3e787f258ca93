package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coyuki/ramifi/internal/domain"
)

// NewIssueInput contains the parameters for creating a new issue.
type NewIssueInput struct {
	Name        string   // Issue name (required)
	Description string   // Recorded as the first comment (empty = the name)
	Labels      []string // Labels (optional)
}

// NewIssueOutput contains the result of creating a new issue.
type NewIssueOutput struct {
	IssueID int // The ID of the created issue
}

// NewIssue is the use case for creating a new issue.
type NewIssue struct {
	repo   *Repo
	logger domain.Logger
}

// NewNewIssue creates a new NewIssue use case.
func NewNewIssue(repo *Repo, logger domain.Logger) *NewIssue {
	return &NewIssue{
		repo:   repo,
		logger: logger,
	}
}

// Execute creates an open issue by the current user, describes it in a first
// comment and saves the state.
func (uc *NewIssue) Execute(_ context.Context, in NewIssueInput) (*NewIssueOutput, error) {
	state, err := uc.repo.Load()
	if err != nil {
		return nil, err
	}

	id, err := CreateDescribedIssue(state, in, uc.repo.Now())
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Save(state); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(id, "issue", fmt.Sprintf("created: %q", in.Name))
	}
	return &NewIssueOutput{IssueID: id}, nil
}

// CreateDescribedIssue adds the issue and its description comment to state.
// Shared by the CLI and the TUI, which owns its state directly.
func CreateDescribedIssue(state *domain.State, in NewIssueInput, at time.Time) (int, error) {
	id, err := state.Issues.Create(in.Name, state.CurrentUser, in.Labels, at)
	if err != nil {
		return 0, err
	}
	description := in.Description
	if strings.TrimSpace(description) == "" {
		description = in.Name
	}
	if err := state.Issues.AddComment(id, description, state.CurrentUser, at); err != nil {
		return 0, fmt.Errorf("add description: %w", err)
	}
	return id, nil
}
