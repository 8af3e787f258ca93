package usecase

import (
	"context"

	"github.com/coyuki/ramifi/internal/domain"
)

// ListIssuesInput contains the parameters for listing issues.
// Fields are ordered to minimize memory padding.
type ListIssuesInput struct {
	Filter     *domain.FilterStatus // nil = the persisted filter
	Query      string               // Case-insensitive name substring (empty = all)
	SaveFilter bool                 // Persist Filter as the new default
}

// ListIssuesOutput contains the listed issues, newest first.
type ListIssuesOutput struct {
	Filter domain.FilterStatus // Filter that was applied
	Issues []domain.Issue
}

// ListIssues is the use case for listing issues.
type ListIssues struct {
	repo *Repo
}

// NewListIssues creates a new ListIssues use case.
func NewListIssues(repo *Repo) *ListIssues {
	return &ListIssues{repo: repo}
}

// Execute returns the issues matching the filter and query.
func (uc *ListIssues) Execute(_ context.Context, in ListIssuesInput) (*ListIssuesOutput, error) {
	state, err := uc.repo.Load()
	if err != nil {
		return nil, err
	}

	filter := state.Filter
	if in.Filter != nil {
		if !in.Filter.IsValid() {
			return nil, domain.ErrInvalidFilter
		}
		filter = *in.Filter
	}

	if in.SaveFilter && filter != state.Filter {
		state.Filter = filter
		if err := uc.repo.Save(state); err != nil {
			return nil, err
		}
	}

	return &ListIssuesOutput{
		Filter: filter,
		Issues: state.Issues.List(filter, in.Query),
	}, nil
}
