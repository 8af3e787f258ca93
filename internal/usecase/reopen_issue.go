package usecase

import (
	"context"

	"github.com/coyuki/ramifi/internal/domain"
)

// ReopenIssueInput contains the parameters for reopening an issue.
type ReopenIssueInput struct {
	IssueID int
}

// ReopenIssue is the use case for setting an issue back to open.
type ReopenIssue struct {
	repo   *Repo
	logger domain.Logger
}

// NewReopenIssue creates a new ReopenIssue use case.
func NewReopenIssue(repo *Repo, logger domain.Logger) *ReopenIssue {
	return &ReopenIssue{
		repo:   repo,
		logger: logger,
	}
}

// Execute reopens the issue and saves the state.
func (uc *ReopenIssue) Execute(_ context.Context, in ReopenIssueInput) error {
	state, err := uc.repo.Load()
	if err != nil {
		return err
	}

	if err := state.Issues.Reopen(in.IssueID); err != nil {
		return err
	}

	if err := uc.repo.Save(state); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Info(in.IssueID, "status", "reopened")
	}
	return nil
}
