package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/testutil"
	"github.com/coyuki/ramifi/internal/usecase"
)

func TestNewIssue_Execute(t *testing.T) {
	// Setup
	repo, store := newTestRepo(t, seededState(t))
	logger := &testutil.RecordingLogger{}
	uc := usecase.NewNewIssue(repo, logger)

	// Execute
	out, err := uc.Execute(context.Background(), usecase.NewIssueInput{
		Name:        "Keyboard shortcuts",
		Description: "Add vim bindings",
		Labels:      []string{"Enhancement"},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, out.IssueID)

	saved := loadSaved(t, store)
	issue, ok := saved.Issues.Get(4)
	require.True(t, ok)
	assert.Equal(t, "Keyboard shortcuts", issue.Name)
	assert.Equal(t, domain.StatusOpen, issue.Status)
	assert.Equal(t, alice, issue.Creator)
	assert.Equal(t, testTime, issue.CreatedAt)
	assert.Equal(t, []string{"Enhancement"}, issue.Labels)
	assert.Equal(t, "Add vim bindings", issue.Description())
	assert.True(t, issue.IsRoot())
	assert.Equal(t, []string{"INFO"}, logger.Levels("issue"))
}

func TestNewIssue_DescriptionDefaultsToName(t *testing.T) {
	repo, store := newTestRepo(t, seededState(t))

	out, err := usecase.NewNewIssue(repo, nil).Execute(context.Background(), usecase.NewIssueInput{Name: "Bare"})

	require.NoError(t, err)
	issue, _ := loadSaved(t, store).Issues.Get(out.IssueID)
	require.Len(t, issue.Comments, 1)
	assert.Equal(t, "Bare", issue.Comments[0].Text)
}

func TestNewIssue_EmptyName(t *testing.T) {
	repo, store := newTestRepo(t, seededState(t))

	_, err := usecase.NewNewIssue(repo, nil).Execute(context.Background(), usecase.NewIssueInput{Name: "  "})

	assert.ErrorIs(t, err, domain.ErrEmptyName)
	assert.Equal(t, 0, store.Saves)
}

func TestNewIssue_SaveError(t *testing.T) {
	repo, store := newTestRepo(t, seededState(t))
	store.SaveErr = errors.New("read-only")

	_, err := usecase.NewNewIssue(repo, nil).Execute(context.Background(), usecase.NewIssueInput{Name: "x"})

	assert.ErrorIs(t, err, store.SaveErr)
}

func TestAddComment_Execute(t *testing.T) {
	// Setup
	state := seededState(t)
	require.NoError(t, state.SwitchUser("bob"))
	repo, store := newTestRepo(t, state)

	// Execute
	err := usecase.NewAddComment(repo, nil).Execute(context.Background(), usecase.AddCommentInput{IssueID: 2, Text: "Use JSON"})

	// Assert
	require.NoError(t, err)
	issue, _ := loadSaved(t, store).Issues.Get(2)
	require.Len(t, issue.Comments, 2)
	assert.Equal(t, domain.NewComment("Use JSON", bob, testTime), issue.Comments[1])
}

func TestAddComment_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		text    string
		issueID int
	}{
		{name: "empty text", issueID: 1, text: " \n", wantErr: domain.ErrEmptyComment},
		{name: "unknown issue", issueID: 42, text: "hi", wantErr: domain.ErrIssueNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, store := newTestRepo(t, seededState(t))

			err := usecase.NewAddComment(repo, nil).Execute(context.Background(), usecase.AddCommentInput{IssueID: tt.issueID, Text: tt.text})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, store.Saves)
		})
	}
}

func TestCloseIssue_Execute(t *testing.T) {
	tests := []struct {
		reason usecase.CloseReason
		want   domain.Status
	}{
		{reason: "", want: domain.StatusClosedCompleted},
		{reason: usecase.CloseCompleted, want: domain.StatusClosedCompleted},
		{reason: usecase.CloseNotPlanned, want: domain.StatusClosedNotPlanned},
	}
	for _, tt := range tests {
		t.Run(string(tt.want)+"/"+string(tt.reason), func(t *testing.T) {
			repo, store := newTestRepo(t, seededState(t))

			err := usecase.NewCloseIssue(repo, nil).Execute(context.Background(), usecase.CloseIssueInput{IssueID: 1, Reason: tt.reason})

			require.NoError(t, err)
			issue, _ := loadSaved(t, store).Issues.Get(1)
			assert.Equal(t, tt.want, issue.Status)
		})
	}
}

func TestCloseIssue_UnknownReason(t *testing.T) {
	repo, _ := newTestRepo(t, seededState(t))

	err := usecase.NewCloseIssue(repo, nil).Execute(context.Background(), usecase.CloseIssueInput{IssueID: 1, Reason: "wontfix"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReopenIssue_Execute(t *testing.T) {
	state := seededState(t)
	_, err := state.Issues.Fork(1, alice, testTime)
	require.NoError(t, err)
	repo, store := newTestRepo(t, state)

	err = usecase.NewReopenIssue(repo, nil).Execute(context.Background(), usecase.ReopenIssueInput{IssueID: 1})

	require.NoError(t, err)
	saved := loadSaved(t, store)
	source, _ := saved.Issues.Get(1)
	assert.Equal(t, domain.StatusOpen, source.Status)
	child, _ := saved.Issues.Get(4)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, 1, *child.ParentID, "child keeps its parent after reopen")
}

func TestReopenIssue_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t, seededState(t))

	err := usecase.NewReopenIssue(repo, nil).Execute(context.Background(), usecase.ReopenIssueInput{IssueID: 9})

	assert.ErrorIs(t, err, domain.ErrIssueNotFound)
}

func TestForkIssue_Execute(t *testing.T) {
	// Setup
	state := seededState(t)
	require.NoError(t, state.SwitchUser("bob"))
	repo, store := newTestRepo(t, state)
	logger := &testutil.RecordingLogger{}

	// Execute
	out, err := usecase.NewForkIssue(repo, logger).Execute(context.Background(), usecase.ForkIssueInput{IssueID: 2})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, out.ChildID)

	saved := loadSaved(t, store)
	source, _ := saved.Issues.Get(2)
	child, _ := saved.Issues.Get(4)
	assert.Equal(t, domain.StatusClosedForked, source.Status)
	assert.Equal(t, source.Name, child.Name)
	assert.Equal(t, source.Labels, child.Labels)
	assert.Equal(t, bob, child.Creator)
	assert.Empty(t, child.Comments)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, 2, *child.ParentID)

	require.Len(t, logger.Entries, 2)
	assert.Equal(t, 2, logger.Entries[0].IssueID)
	assert.Equal(t, 4, logger.Entries[1].IssueID)
}

func TestForkIssue_NotFound(t *testing.T) {
	repo, store := newTestRepo(t, seededState(t))

	_, err := usecase.NewForkIssue(repo, nil).Execute(context.Background(), usecase.ForkIssueInput{IssueID: 0})

	assert.ErrorIs(t, err, domain.ErrIssueNotFound)
	assert.Equal(t, 0, store.Saves)
}

func TestListIssues_Execute(t *testing.T) {
	// Setup: 1 completed, 2 forked into 4, 3 open
	state := seededState(t)
	require.NoError(t, state.Issues.CloseAsCompleted(1))
	_, err := state.Issues.Fork(2, alice, testTime)
	require.NoError(t, err)
	repo, store := newTestRepo(t, state)
	uc := usecase.NewListIssues(repo)

	ids := func(out *usecase.ListIssuesOutput) []int {
		var got []int
		for _, issue := range out.Issues {
			got = append(got, issue.ID)
		}
		return got
	}
	filter := func(f domain.FilterStatus) *domain.FilterStatus { return &f }

	// Execute / Assert: persisted filter (open)
	out, err := uc.Execute(context.Background(), usecase.ListIssuesInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.FilterOpen, out.Filter)
	assert.Equal(t, []int{4, 3}, ids(out))

	out, err = uc.Execute(context.Background(), usecase.ListIssuesInput{Filter: filter(domain.FilterCompleted)})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, ids(out), "forked counts as completed")

	out, err = uc.Execute(context.Background(), usecase.ListIssuesInput{Filter: filter(domain.FilterAll), Query: "PERSIST"})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2}, ids(out))

	assert.Equal(t, 0, store.Saves, "listing without SaveFilter does not save")
}

func TestListIssues_SaveFilter(t *testing.T) {
	repo, store := newTestRepo(t, seededState(t))
	all := domain.FilterAll

	_, err := usecase.NewListIssues(repo).Execute(context.Background(), usecase.ListIssuesInput{Filter: &all, SaveFilter: true})

	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, loadSaved(t, store).Filter)
}

func TestListIssues_InvalidFilter(t *testing.T) {
	repo, _ := newTestRepo(t, seededState(t))
	bad := domain.FilterStatus("closed")

	_, err := usecase.NewListIssues(repo).Execute(context.Background(), usecase.ListIssuesInput{Filter: &bad})

	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestShowIssue_Execute(t *testing.T) {
	state := seededState(t)
	_, err := state.Issues.Fork(1, alice, testTime)
	require.NoError(t, err)
	repo, _ := newTestRepo(t, state)
	uc := usecase.NewShowIssue(repo)

	t.Run("source lists its child", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), usecase.ShowIssueInput{IssueID: 1})
		require.NoError(t, err)
		assert.Nil(t, out.Parent)
		require.Len(t, out.Children, 1)
		assert.Equal(t, 4, out.Children[0].ID)
	})

	t.Run("child shows its parent", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), usecase.ShowIssueInput{IssueID: 4})
		require.NoError(t, err)
		require.NotNil(t, out.Parent)
		assert.Equal(t, 1, out.Parent.ID)
		assert.Empty(t, out.Children)
	})

	t.Run("unknown issue", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), usecase.ShowIssueInput{IssueID: 99})
		assert.ErrorIs(t, err, domain.ErrIssueNotFound)
	})
}
