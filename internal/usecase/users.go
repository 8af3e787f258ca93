package usecase

import (
	"context"
	"strings"

	"github.com/coyuki/ramifi/internal/domain"
)

// AddUserInput contains the parameters for adding a user.
type AddUserInput struct {
	Name  string // Required, unique
	Email string // Required by the CLI
}

// AddUser is the use case for adding a user to the directory.
type AddUser struct {
	repo   *Repo
	logger domain.Logger
}

// NewAddUser creates a new AddUser use case.
func NewAddUser(repo *Repo, logger domain.Logger) *AddUser {
	return &AddUser{
		repo:   repo,
		logger: logger,
	}
}

// Execute adds the user and saves the state. The current user is unchanged.
func (uc *AddUser) Execute(_ context.Context, in AddUserInput) error {
	if strings.TrimSpace(in.Email) == "" {
		return domain.ErrEmptyEmail
	}

	state, err := uc.repo.Load()
	if err != nil {
		return err
	}

	if err := state.Users.Add(domain.NewUser(in.Name, in.Email)); err != nil {
		return err
	}

	if err := uc.repo.Save(state); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Info(0, "user", "added "+in.Name)
	}
	return nil
}

// ListUsersOutput contains the user directory.
type ListUsersOutput struct {
	Current domain.User
	Users   []domain.User // Insertion order
}

// ListUsers is the use case for listing users.
type ListUsers struct {
	repo *Repo
}

// NewListUsers creates a new ListUsers use case.
func NewListUsers(repo *Repo) *ListUsers {
	return &ListUsers{repo: repo}
}

// Execute returns every user and the current one.
func (uc *ListUsers) Execute(_ context.Context) (*ListUsersOutput, error) {
	state, err := uc.repo.Load()
	if err != nil {
		return nil, err
	}
	return &ListUsersOutput{
		Current: state.CurrentUser,
		Users:   state.Users.List(),
	}, nil
}

// SwitchUserInput contains the parameters for switching the current user.
type SwitchUserInput struct {
	Name string
}

// SwitchUser is the use case for changing the current user.
type SwitchUser struct {
	repo   *Repo
	logger domain.Logger
}

// NewSwitchUser creates a new SwitchUser use case.
func NewSwitchUser(repo *Repo, logger domain.Logger) *SwitchUser {
	return &SwitchUser{
		repo:   repo,
		logger: logger,
	}
}

// Execute makes the named user current and saves the state.
func (uc *SwitchUser) Execute(_ context.Context, in SwitchUserInput) error {
	state, err := uc.repo.Load()
	if err != nil {
		return err
	}

	if err := state.SwitchUser(in.Name); err != nil {
		return err
	}

	if err := uc.repo.Save(state); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Info(0, "user", "switched to "+in.Name)
	}
	return nil
}
