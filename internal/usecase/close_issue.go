package usecase

import (
	"context"
	"fmt"

	"github.com/coyuki/ramifi/internal/domain"
)

// CloseReason selects the closed status.
type CloseReason string

const (
	CloseCompleted  CloseReason = "completed"
	CloseNotPlanned CloseReason = "not_planned"
)

// CloseIssueInput contains the parameters for closing an issue.
type CloseIssueInput struct {
	Reason  CloseReason // Empty means completed
	IssueID int
}

// CloseIssue is the use case for closing an issue.
type CloseIssue struct {
	repo   *Repo
	logger domain.Logger
}

// NewCloseIssue creates a new CloseIssue use case.
func NewCloseIssue(repo *Repo, logger domain.Logger) *CloseIssue {
	return &CloseIssue{
		repo:   repo,
		logger: logger,
	}
}

// Execute sets the closed status and saves the state.
func (uc *CloseIssue) Execute(_ context.Context, in CloseIssueInput) error {
	state, err := uc.repo.Load()
	if err != nil {
		return err
	}

	if err := CloseWithReason(state.Issues, in.IssueID, in.Reason); err != nil {
		return err
	}

	if err := uc.repo.Save(state); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Info(in.IssueID, "status", fmt.Sprintf("closed (%s)", reasonOrDefault(in.Reason)))
	}
	return nil
}

// CloseWithReason applies the close transition matching reason.
func CloseWithReason(issues *domain.Issues, id int, reason CloseReason) error {
	switch reasonOrDefault(reason) {
	case CloseCompleted:
		return issues.CloseAsCompleted(id)
	case CloseNotPlanned:
		return issues.CloseAsNotPlanned(id)
	default:
		return fmt.Errorf("%w: unknown close reason %q", domain.ErrValidation, reason)
	}
}

func reasonOrDefault(reason CloseReason) CloseReason {
	if reason == "" {
		return CloseCompleted
	}
	return reason
}
