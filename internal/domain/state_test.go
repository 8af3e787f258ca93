package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultState(t *testing.T) {
	s, err := DefaultState(alice, testTime)
	require.NoError(t, err)

	assert.Equal(t, alice, s.CurrentUser)
	assert.Equal(t, FilterOpen, s.Filter)
	assert.Equal(t, []User{alice}, s.Users.List())

	all := s.Issues.All()
	require.Len(t, all, 3)
	assert.Equal(t, "GUI implementation", all[0].Name)
	assert.Equal(t, "Persistence", all[1].Name)
	assert.Equal(t, "UI polish", all[2].Name)
	for _, issue := range all {
		require.Len(t, issue.Comments, 1, "seed issues carry a description comment")
		assert.Len(t, issue.Labels, 1)
	}
}

func TestState_SwitchUser(t *testing.T) {
	s, err := NewState(alice)
	require.NoError(t, err)
	require.NoError(t, s.Users.Add(bob))

	require.NoError(t, s.SwitchUser("bob"))
	assert.Equal(t, bob, s.CurrentUser)

	assert.ErrorIs(t, s.SwitchUser("carol"), ErrUserNotFound)
	assert.Equal(t, bob, s.CurrentUser)
}

func TestState_Clone_IsIndependent(t *testing.T) {
	s, err := DefaultState(alice, testTime)
	require.NoError(t, err)

	c := s.Clone()
	_, err = c.Issues.Create("only in clone", alice, nil, testTime)
	require.NoError(t, err)
	require.NoError(t, c.Issues.CloseAsCompleted(1))
	require.NoError(t, c.Users.Add(bob))
	c.Filter = FilterAll

	assert.Equal(t, 3, s.Issues.Len())
	issue, _ := s.Issues.Get(1)
	assert.Equal(t, StatusOpen, issue.Status)
	assert.Equal(t, 1, s.Users.Len())
	assert.Equal(t, FilterOpen, s.Filter)
}

func TestState_ReplaceWith_DiscardsEverything(t *testing.T) {
	live, err := DefaultState(alice, testTime)
	require.NoError(t, err)
	next, err := NewState(bob)
	require.NoError(t, err)
	next.Filter = FilterNotPlanned

	live.ReplaceWith(next)

	assert.Equal(t, bob, live.CurrentUser)
	assert.Equal(t, FilterNotPlanned, live.Filter)
	assert.Equal(t, 0, live.Issues.Len())
	assert.Equal(t, []User{bob}, live.Users.List())
}
