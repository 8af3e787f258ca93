package usecase

import (
	"context"

	"github.com/coyuki/ramifi/internal/domain"
)

// ShowIssueInput contains the parameters for showing an issue.
type ShowIssueInput struct {
	IssueID int
}

// ShowIssueOutput contains an issue and its fork relatives.
type ShowIssueOutput struct {
	Parent   *domain.Issue  // Issue this one was forked from (nil = root)
	Children []domain.Issue // Issues forked from this one
	Issue    domain.Issue
}

// ShowIssue is the use case for displaying one issue.
type ShowIssue struct {
	repo *Repo
}

// NewShowIssue creates a new ShowIssue use case.
func NewShowIssue(repo *Repo) *ShowIssue {
	return &ShowIssue{repo: repo}
}

// Execute returns the issue with its parent and children.
func (uc *ShowIssue) Execute(_ context.Context, in ShowIssueInput) (*ShowIssueOutput, error) {
	state, err := uc.repo.Load()
	if err != nil {
		return nil, err
	}

	issue, ok := state.Issues.Get(in.IssueID)
	if !ok {
		return nil, domain.ErrIssueNotFound
	}

	out := &ShowIssueOutput{
		Issue:    issue,
		Children: state.Issues.Children(issue.ID),
	}
	if issue.ParentID != nil {
		if parent, ok := state.Issues.Get(*issue.ParentID); ok {
			out.Parent = &parent
		}
	}
	return out, nil
}
