package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/snapshot"
	"github.com/coyuki/ramifi/internal/testutil"
	"github.com/coyuki/ramifi/internal/transfer"
)

var (
	testTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	alice    = domain.NewUser("alice", "alice@example.com")
	bob      = domain.NewUser("bob", "bob@example.com")
)

type testEnv struct {
	model     *Model
	store     *testutil.MemoryStore
	picker    *testutil.MockPicker
	transfers *transfer.Coordinator
}

func newTestModel(t *testing.T) *testEnv {
	t.Helper()
	state, err := domain.DefaultState(alice, testTime.Add(-time.Hour))
	require.NoError(t, err)

	env := &testEnv{
		store:  testutil.NewMemoryStore(state),
		picker: &testutil.MockPicker{},
	}
	env.transfers = transfer.New(env.picker, nil, "")
	env.model = New(Deps{
		State:     state,
		Store:     env.store,
		Clock:     &testutil.MockClock{NowTime: testTime},
		Transfers: env.transfers,
	})
	return env
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

// press sends keys in order and returns the last command.
func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func listedIDs(m *Model) []int {
	ids := make([]int, 0, len(m.issues))
	for _, issue := range m.issues {
		ids = append(ids, issue.ID)
	}
	return ids
}

func selectedID(t *testing.T, m *Model) int {
	t.Helper()
	issue, ok := m.SelectedIssue()
	require.True(t, ok)
	return issue.ID
}

func TestNew_ListsNewestFirstWithSavedFilter(t *testing.T) {
	env := newTestModel(t)

	assert.Equal(t, []int{3, 2, 1}, listedIDs(env.model))
	assert.Equal(t, 3, selectedID(t, env.model))
	assert.Equal(t, ModeNormal, env.model.Mode())
}

func TestUpdate_CursorStaysInRange(t *testing.T) {
	m := newTestModel(t).model

	press(m, keyDown, keyDown, keyDown, keyDown)
	assert.Equal(t, 1, selectedID(t, m))

	press(m, keyRunes("k"), keyRunes("k"), keyRunes("k"))
	assert.Equal(t, 3, selectedID(t, m))
}

func TestUpdate_CreateIssueFlow(t *testing.T) {
	// Setup
	m := newTestModel(t).model

	// Execute
	press(m, keyRunes("n"), keyRunes("Fix login"), keyEnter)
	require.Equal(t, ModeInputDesc, m.Mode())
	press(m, keyRunes("Steps to reproduce"), keySave)
	require.Equal(t, ModeInputLabels, m.Mode())
	press(m, keyRunes("bug, , urgent"), keyEnter)

	// Assert
	assert.Equal(t, ModeNormal, m.Mode())
	issue, ok := m.State().Issues.Get(4)
	require.True(t, ok)
	assert.Equal(t, "Fix login", issue.Name)
	assert.Equal(t, []string{"bug", "urgent"}, issue.Labels)
	assert.Equal(t, "Steps to reproduce", issue.Description())
	assert.Equal(t, "alice", issue.Creator.Name)
	assert.Equal(t, testTime, issue.CreatedAt)
	assert.Equal(t, 4, selectedID(t, m))
}

func TestUpdate_CreateIssue_EmptyDescriptionUsesName(t *testing.T) {
	m := newTestModel(t).model

	press(m, keyRunes("n"), keyRunes("Only a name"), keyEnter, keySave, keyEnter)

	issue, ok := m.State().Issues.Get(4)
	require.True(t, ok)
	assert.Equal(t, "Only a name", issue.Description())
	assert.Empty(t, issue.Labels)
}

func TestUpdate_CreateIssue_EmptyNameStaysInInput(t *testing.T) {
	m := newTestModel(t).model

	press(m, keyRunes("n"), keyRunes("   "), keyEnter)

	assert.Equal(t, ModeInputName, m.Mode())
	assert.ErrorIs(t, m.err, domain.ErrEmptyName)
	assert.Equal(t, 3, m.State().Issues.Len())
}

func TestUpdate_EscapeCancelsInput(t *testing.T) {
	m := newTestModel(t).model

	press(m, keyRunes("n"), keyRunes("draft"), keyEsc)

	assert.Equal(t, ModeNormal, m.Mode())
	assert.Equal(t, 3, m.State().Issues.Len())
}

func TestUpdate_InputModeSwallowsShortcuts(t *testing.T) {
	m := newTestModel(t).model

	// "q" and "x" are typed into the name, not treated as quit/close.
	press(m, keyRunes("n"), keyRunes("q"), keyRunes("x"))

	assert.Equal(t, ModeInputName, m.Mode())
	assert.Equal(t, "qx", m.lineInput.Value())
	issue, _ := m.State().Issues.Get(3)
	assert.Equal(t, domain.StatusOpen, issue.Status)
}

func TestUpdate_CloseAndNotPlanned(t *testing.T) {
	// Setup
	m := newTestModel(t).model

	// Execute
	press(m, keyRunes("x"))
	press(m, keyRunes("X"))

	// Assert
	closed, _ := m.State().Issues.Get(3)
	notPlanned, _ := m.State().Issues.Get(2)
	assert.Equal(t, domain.StatusClosedCompleted, closed.Status)
	assert.Equal(t, domain.StatusClosedNotPlanned, notPlanned.Status)
	assert.Equal(t, []int{1}, listedIDs(m))
}

func TestUpdate_Reopen(t *testing.T) {
	m := newTestModel(t).model
	press(m, keyRunes("x"))
	press(m, keyTab) // completed

	press(m, keyRunes("o"))

	issue, _ := m.State().Issues.Get(3)
	assert.Equal(t, domain.StatusOpen, issue.Status)
	assert.Empty(t, listedIDs(m))
}

func TestUpdate_FilterCycle(t *testing.T) {
	m := newTestModel(t).model

	want := []domain.FilterStatus{domain.FilterCompleted, domain.FilterNotPlanned, domain.FilterAll, domain.FilterOpen}
	for _, f := range want {
		cmd := press(m, keyTab)
		assert.NotNil(t, cmd, "filter change should be saved")
		assert.Equal(t, f, m.State().Filter)
	}
}

func TestUpdate_ForkSwitchesToAllAndSelectsChild(t *testing.T) {
	// Setup: select issue 1
	m := newTestModel(t).model
	press(m, keyDown, keyDown)
	require.Equal(t, 1, selectedID(t, m))

	// Execute
	press(m, keyRunes("f"))

	// Assert
	assert.Equal(t, domain.FilterAll, m.State().Filter)
	assert.Equal(t, 4, selectedID(t, m))

	source, _ := m.State().Issues.Get(1)
	child, _ := m.State().Issues.Get(4)
	assert.Equal(t, domain.StatusClosedForked, source.Status)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, 1, *child.ParentID)
	assert.Equal(t, source.Labels, child.Labels)
	assert.Empty(t, child.Comments)
}

func TestUpdate_JumpToParent(t *testing.T) {
	// Setup: fork issue 2, then go back to the open filter
	m := newTestModel(t).model
	press(m, keyDown)
	press(m, keyRunes("f"))
	press(m, keyTab) // all -> open
	require.Equal(t, domain.FilterOpen, m.State().Filter)
	require.True(t, m.selectIssue(4))

	// Execute
	cmd := press(m, keyRunes("p"))

	// Assert
	assert.NotNil(t, cmd)
	assert.Equal(t, domain.FilterAll, m.State().Filter)
	assert.Equal(t, 2, selectedID(t, m))

	// Root issues have no parent.
	assert.Nil(t, press(m, keyRunes("p")))
	assert.Equal(t, 2, selectedID(t, m))
}

func TestUpdate_SearchFiltersLive(t *testing.T) {
	m := newTestModel(t).model
	press(m, keyTab, keyTab, keyTab) // all

	press(m, keyRunes("/"), keyRunes("gui"))
	assert.Equal(t, []int{1}, listedIDs(m))

	press(m, keyEnter)
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Equal(t, []int{1}, listedIDs(m))

	press(m, keyEsc)
	assert.Equal(t, []int{3, 2, 1}, listedIDs(m))
}

func TestUpdate_Comment(t *testing.T) {
	// Setup
	m := newTestModel(t).model

	// Execute
	press(m, keyRunes("c"), keyRunes("first"), keyEnter, keyRunes("second"), keySave)

	// Assert
	assert.Equal(t, ModeNormal, m.Mode())
	issue, _ := m.State().Issues.Get(3)
	require.Len(t, issue.Comments, 2)
	assert.Equal(t, "first\nsecond", issue.Comments[1].Text)
	assert.Equal(t, "alice", issue.Comments[1].Author.Name)
}

func TestUpdate_EmptyCommentRejected(t *testing.T) {
	m := newTestModel(t).model

	press(m, keyRunes("c"), keySave)

	assert.Equal(t, ModeComment, m.Mode())
	assert.ErrorIs(t, m.err, domain.ErrEmptyComment)
}

func TestUpdate_AddAndSwitchUser(t *testing.T) {
	// Setup
	m := newTestModel(t).model

	// Execute
	press(m, keyRunes("U"), keyRunes("bob"), keyEnter, keyRunes("bob@example.com"), keyEnter)
	require.Equal(t, ModeNormal, m.Mode())
	press(m, keyRunes("u"), keyDown, keyEnter)

	// Assert
	assert.Equal(t, bob, m.State().CurrentUser)
	assert.Equal(t, []domain.User{alice, bob}, m.State().Users.List())

	press(m, keyRunes("f"))
	child, _ := m.State().Issues.Get(4)
	assert.Equal(t, "bob", child.Creator.Name)
}

func TestUpdate_AddUser_Errors(t *testing.T) {
	m := newTestModel(t).model

	press(m, keyRunes("U"), keyRunes("alice"), keyEnter, keyEnter)
	assert.ErrorIs(t, m.err, domain.ErrEmptyEmail)
	assert.Equal(t, ModeAddUserEmail, m.Mode())

	press(m, keyRunes("a@example.com"), keyEnter)
	assert.ErrorIs(t, m.err, domain.ErrUserExists)
	assert.Equal(t, 1, m.State().Users.Len())
}

func writeSnapshot(t *testing.T, state *domain.State, name string) string {
	t.Helper()
	data, err := snapshot.Encode(state, snapshot.FormatForPath(name))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestUpdate_ImportAppliedOnFrame(t *testing.T) {
	// Setup
	env := newTestModel(t)
	m := env.model
	incoming, err := domain.NewState(bob)
	require.NoError(t, err)
	_, err = incoming.Issues.Create("Imported issue", bob, nil, testTime)
	require.NoError(t, err)
	path := writeSnapshot(t, incoming, "in.yaml")

	// Execute
	press(m, keyRunes("i"), keyRunes(path), keyEnter)
	env.transfers.Wait()

	// Assert: nothing changes until the next frame
	assert.Equal(t, 3, m.State().Issues.Len())
	assert.Equal(t, alice, m.State().CurrentUser)

	cmd := func() tea.Cmd { _, c := m.Update(MsgFrame{}); return c }()
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, m.State().Issues.Len())
	assert.Equal(t, bob, m.State().CurrentUser)
	assert.Equal(t, []int{1}, listedIDs(m))
	assert.Equal(t, "Imported 1 issues", m.status)

	// The slot is drained.
	_, ok := env.transfers.Poll()
	assert.False(t, ok)
}

func TestUpdate_ImportMalformedKeepsState(t *testing.T) {
	// Setup
	env := newTestModel(t)
	m := env.model
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	// Execute
	press(m, keyRunes("i"), keyRunes(path), keyEnter)
	env.transfers.Wait()
	m.Update(MsgFrame{})

	// Assert
	assert.Equal(t, 3, m.State().Issues.Len())
	assert.ErrorIs(t, m.err, domain.ErrFormat)
}

func TestUpdate_ImportWithPickerCancelled(t *testing.T) {
	env := newTestModel(t)
	m := env.model

	press(m, keyRunes("i"), keyEnter)
	env.transfers.Wait()
	m.Update(MsgFrame{})

	assert.Equal(t, 1, env.picker.OpenCalled)
	assert.Equal(t, 3, m.State().Issues.Len())
	assert.NoError(t, m.err)
}

func TestUpdate_TwoImportsBeforeFrameApplyOneWholeState(t *testing.T) {
	// Setup
	env := newTestModel(t)
	m := env.model
	a, err := domain.NewState(alice)
	require.NoError(t, err)
	_, err = a.Issues.Create("from A", alice, nil, testTime)
	require.NoError(t, err)
	b, err := domain.NewState(bob)
	require.NoError(t, err)
	for _, name := range []string{"from B 1", "from B 2"} {
		_, err = b.Issues.Create(name, bob, nil, testTime)
		require.NoError(t, err)
	}
	pathA := writeSnapshot(t, a, "a.json")
	pathB := writeSnapshot(t, b, "b.json")

	// Execute
	press(m, keyRunes("i"), keyRunes(pathA), keyEnter)
	press(m, keyRunes("i"), keyRunes(pathB), keyEnter)
	env.transfers.Wait()
	m.Update(MsgFrame{})

	// Assert: exactly one of the two, never a mix
	switch m.State().CurrentUser.Name {
	case "alice":
		assert.Equal(t, 1, m.State().Issues.Len())
	case "bob":
		assert.Equal(t, 2, m.State().Issues.Len())
	default:
		t.Fatalf("unexpected current user %q", m.State().CurrentUser.Name)
	}
	_, ok := env.transfers.Poll()
	assert.False(t, ok)
}

func TestUpdate_ExportToPath(t *testing.T) {
	// Setup
	env := newTestModel(t)
	m := env.model
	path := filepath.Join(t.TempDir(), "out.json")

	// Execute
	press(m, keyRunes("e"))
	require.Equal(t, ModeExportPath, m.Mode())
	assert.Equal(t, domain.DefaultExportFileName, m.lineInput.Value())
	m.lineInput.SetValue(path)
	press(m, keyEnter)

	// Later edits do not leak into the export.
	press(m, keyRunes("x"))
	env.transfers.Wait()
	m.Update(MsgFrame{})

	// Assert
	assert.Equal(t, "Exported to "+path, m.status)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	exported, err := snapshot.Decode(data)
	require.NoError(t, err)
	issue, _ := exported.Issues.Get(3)
	assert.Equal(t, domain.StatusOpen, issue.Status)
}

func TestUpdate_ExportWithPickerUsesSuggestedName(t *testing.T) {
	env := newTestModel(t)
	m := env.model
	path := filepath.Join(t.TempDir(), "picked.yaml")
	env.picker.SavePaths = []string{path}

	press(m, keyRunes("e"))
	m.lineInput.SetValue("")
	press(m, keyEnter)
	env.transfers.Wait()
	m.Update(MsgFrame{})

	assert.Equal(t, []string{domain.DefaultExportFileName}, env.picker.Suggested)
	assert.FileExists(t, path)
}

func TestSave_PersistsClone(t *testing.T) {
	// Setup
	env := newTestModel(t)
	m := env.model
	press(m, keyRunes("x"))

	// Execute
	cmd := m.save()
	m.State().Filter = domain.FilterAll // mutate after the clone was taken
	msg := cmd()

	// Assert
	assert.IsType(t, MsgSaved{}, msg)
	saved, err := env.store.Load()
	require.NoError(t, err)
	issue, _ := saved.Issues.Get(3)
	assert.Equal(t, domain.StatusClosedCompleted, issue.Status)
	assert.Equal(t, domain.FilterOpen, saved.Filter)
}

func TestSave_ErrorBecomesMsg(t *testing.T) {
	env := newTestModel(t)
	env.store.SaveErr = errors.New("disk full")

	msg := env.model.save()()

	errMsg, ok := msg.(MsgError)
	require.True(t, ok)
	assert.ErrorContains(t, errMsg.Err, "disk full")

	env.model.Update(errMsg)
	assert.ErrorContains(t, env.model.err, "save state")
}

func TestSaver_DropsStaleSaves(t *testing.T) {
	store := testutil.NewMemoryStore(nil)
	s := &saver{store: store}
	newer, err := domain.NewState(bob)
	require.NoError(t, err)
	older, err := domain.NewState(alice)
	require.NoError(t, err)

	require.NoError(t, s.save(2, newer))
	require.NoError(t, s.save(1, older))

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, bob, saved.CurrentUser)
	assert.Equal(t, 1, store.Saves)
}

func TestUpdate_ClearStatus(t *testing.T) {
	m := newTestModel(t).model
	m.setStatus("first")
	stale := m.statusSeq
	m.setStatus("second")

	m.Update(MsgClearStatus{Seq: stale})
	assert.Equal(t, "second", m.status)

	m.Update(MsgClearStatus{Seq: m.statusSeq})
	assert.Empty(t, m.status)
}

func TestUpdate_QuitOnlyInNormalMode(t *testing.T) {
	m := newTestModel(t).model

	cmd := press(m, keyRunes("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
