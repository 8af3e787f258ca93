package usecase

import (
	"context"
	"fmt"

	"github.com/coyuki/ramifi/internal/domain"
)

// ForkIssueInput contains the parameters for forking an issue.
type ForkIssueInput struct {
	IssueID int // Source issue
}

// ForkIssueOutput contains the result of forking an issue.
type ForkIssueOutput struct {
	ChildID int // The ID of the new child issue
}

// ForkIssue is the use case for forking an issue into a child.
type ForkIssue struct {
	repo   *Repo
	logger domain.Logger
}

// NewForkIssue creates a new ForkIssue use case.
func NewForkIssue(repo *Repo, logger domain.Logger) *ForkIssue {
	return &ForkIssue{
		repo:   repo,
		logger: logger,
	}
}

// Execute creates the child as the current user, marks the source forked
// and saves the state.
func (uc *ForkIssue) Execute(_ context.Context, in ForkIssueInput) (*ForkIssueOutput, error) {
	state, err := uc.repo.Load()
	if err != nil {
		return nil, err
	}

	childID, err := state.Issues.Fork(in.IssueID, state.CurrentUser, uc.repo.Now())
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Save(state); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(in.IssueID, "fork", "forked into "+domain.IssueRef(childID))
		uc.logger.Info(childID, "fork", fmt.Sprintf("forked from %s", domain.IssueRef(in.IssueID)))
	}
	return &ForkIssueOutput{ChildID: childID}, nil
}
