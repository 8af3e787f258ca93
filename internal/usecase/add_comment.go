package usecase

import (
	"context"

	"github.com/coyuki/ramifi/internal/domain"
)

// AddCommentInput contains the parameters for adding a comment.
type AddCommentInput struct {
	Text    string // Comment text (required)
	IssueID int    // Issue to comment on
}

// AddComment is the use case for commenting on an issue as the current user.
type AddComment struct {
	repo   *Repo
	logger domain.Logger
}

// NewAddComment creates a new AddComment use case.
func NewAddComment(repo *Repo, logger domain.Logger) *AddComment {
	return &AddComment{
		repo:   repo,
		logger: logger,
	}
}

// Execute appends the comment and saves the state.
func (uc *AddComment) Execute(_ context.Context, in AddCommentInput) error {
	state, err := uc.repo.Load()
	if err != nil {
		return err
	}

	if err := state.Issues.AddComment(in.IssueID, in.Text, state.CurrentUser, uc.repo.Now()); err != nil {
		return err
	}

	if err := uc.repo.Save(state); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Info(in.IssueID, "comment", "added by "+state.CurrentUser.Name)
	}
	return nil
}
