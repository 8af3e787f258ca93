package domain

import "time"

// State is the whole application state: the unit of persistence, import and export.
//
// A State is owned by exactly one goroutine (the presenter loop). Other
// goroutines receive a Clone or build an independent State of their own.
type State struct {
	Issues      *Issues
	Users       *Users
	CurrentUser User
	Filter      FilterStatus
}

// NewState creates an empty state with user as the only and current user.
func NewState(user User) (*State, error) {
	users, err := NewUsers(user)
	if err != nil {
		return nil, err
	}
	return &State{
		Issues:      NewIssues(),
		Users:       users,
		CurrentUser: user,
		Filter:      FilterOpen,
	}, nil
}

type seedIssue struct {
	name        string
	label       string
	description string
}

var seedIssues = []seedIssue{
	{name: "GUI implementation", label: "Enhancement", description: "Build the user interface"},
	{name: "Persistence", label: "Feature", description: "Save data between sessions"},
	{name: "UI polish", label: "Design", description: "Make it look nicer"},
}

// DefaultState returns the state used when nothing has been saved yet:
// the given user and three starter issues.
func DefaultState(user User, at time.Time) (*State, error) {
	s, err := NewState(user)
	if err != nil {
		return nil, err
	}
	for _, seed := range seedIssues {
		id, err := s.Issues.Create(seed.name, user, []string{seed.label}, at)
		if err != nil {
			return nil, err
		}
		if err := s.Issues.AddComment(id, seed.description, user, at); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SwitchUser makes the named user current.
func (s *State) SwitchUser(name string) error {
	u, ok := s.Users.Find(name)
	if !ok {
		return ErrUserNotFound
	}
	s.CurrentUser = u
	return nil
}

// ReplaceWith discards every part of s and takes over next in one step.
// Nothing from the previous state is merged.
func (s *State) ReplaceWith(next *State) {
	*s = *next
}

// Clone returns a deep copy suitable for handing to another goroutine.
func (s *State) Clone() *State {
	return &State{
		Issues:      s.Issues.clone(),
		Users:       s.Users.clone(),
		CurrentUser: s.CurrentUser,
		Filter:      s.Filter,
	}
}
