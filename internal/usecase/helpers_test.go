package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/testutil"
	"github.com/coyuki/ramifi/internal/usecase"
)

var (
	testTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	alice    = domain.NewUser("alice", "alice@example.com")
	bob      = domain.NewUser("bob", "bob@example.com")
)

// newTestRepo returns a repo over a memory store seeded with state (nil = empty store).
func newTestRepo(t *testing.T, state *domain.State) (*usecase.Repo, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore(state)
	return usecase.NewRepo(store, &testutil.MockClock{NowTime: testTime}, alice), store
}

// seededState returns the starter state with bob added.
func seededState(t *testing.T) *domain.State {
	t.Helper()
	state, err := domain.DefaultState(alice, testTime.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, state.Users.Add(bob))
	return state
}

func loadSaved(t *testing.T, store *testutil.MemoryStore) *domain.State {
	t.Helper()
	state, err := store.Load()
	require.NoError(t, err)
	return state
}
