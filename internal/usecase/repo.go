// Package usecase contains application use cases.
package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/coyuki/ramifi/internal/domain"
)

// Repo loads and saves the whole state for use cases.
// The first load on an empty store yields the starter state.
type Repo struct {
	store       domain.StateStore
	clock       domain.Clock
	defaultUser domain.User
}

// NewRepo creates a Repo. defaultUser owns the starter state.
func NewRepo(store domain.StateStore, clock domain.Clock, defaultUser domain.User) *Repo {
	return &Repo{
		store:       store,
		clock:       clock,
		defaultUser: defaultUser,
	}
}

// Load returns the saved state, or the starter state if nothing was saved yet.
func (r *Repo) Load() (*domain.State, error) {
	state, err := r.store.Load()
	if errors.Is(err, domain.ErrNotInitialized) {
		return domain.DefaultState(r.defaultUser, r.clock.Now())
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return state, nil
}

// Save persists state.
func (r *Repo) Save(state *domain.State) error {
	if err := r.store.Save(state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Now returns the time stamped on new issues and comments.
func (r *Repo) Now() time.Time {
	return r.clock.Now()
}
