package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/coyuki/ramifi/internal/app"
	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/usecase"
)

// frameInterval is the time between two frames.
const frameInterval = 50 * time.Millisecond

// statusTimeout is how long a status line stays visible.
const statusTimeout = 4 * time.Second

// Deps are the collaborators of the TUI model.
type Deps struct {
	State      *domain.State // Live state, owned by the model from now on
	Store      domain.StateStore
	Clock      domain.Clock
	Logger     domain.Logger
	Transfers  usecase.Transfers
	ExportName string // Suggested export file name
}

// Model is the main bubbletea model for the TUI.
//
// The model is the only owner of the live state. Update mutates it in place;
// workers and saves only ever see clones.
type Model struct {
	// Dependencies (pointers first for alignment)
	state     *domain.State
	store     *saver
	clock     domain.Clock
	logger    domain.Logger
	transfers usecase.Transfers
	ctx       context.Context
	err       error

	// State (slices - contain pointers)
	issues []domain.Issue
	users  []domain.User

	// Components (structs with pointers)
	keys       KeyMap
	styles     Styles
	help       help.Model
	detailView viewport.Model

	// Input state (large structs)
	lineInput textinput.Model
	textInput textarea.Model

	// Pending input values
	query       string
	pendingName string
	pendingDesc string
	exportName  string
	status      string

	// Numeric state (smaller types last)
	mode       Mode
	width      int
	height     int
	cursor     int
	userCursor int
	saveSeq    uint64
	statusSeq  uint64
}

// New creates a new TUI Model.
func New(deps Deps) *Model {
	li := textinput.New()
	li.CharLimit = 200

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(5)

	exportName := deps.ExportName
	if exportName == "" {
		exportName = domain.DefaultExportFileName
	}

	m := &Model{
		state:      deps.State,
		store:      &saver{store: deps.Store},
		clock:      deps.Clock,
		logger:     deps.Logger,
		transfers:  deps.Transfers,
		ctx:        context.Background(),
		keys:       DefaultKeyMap(),
		styles:     DefaultStyles(),
		help:       help.New(),
		detailView: viewport.New(0, 0),
		lineInput:  li,
		textInput:  ta,
		exportName: exportName,
		mode:       ModeNormal,
	}
	m.refresh()
	return m
}

// Run loads the saved state and runs the TUI until the user quits.
func Run(c *app.Container) error {
	if c == nil {
		return fmt.Errorf("tui: no container")
	}
	state, err := c.Repo().Load()
	if err != nil {
		return err
	}

	m := New(Deps{
		State:      state,
		Store:      c.Store,
		Clock:      c.Clock,
		Logger:     c.Logger,
		Transfers:  c.Transfers,
		ExportName: c.AppConfig.Export.FileName,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// Init initializes the model and starts the frame loop.
func (m *Model) Init() tea.Cmd {
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return MsgFrame{}
	})
}

// State returns the live state. It must only be used from the Update goroutine.
func (m *Model) State() *domain.State {
	return m.state
}

// Mode returns the current UI mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// SelectedIssue returns the issue under the cursor.
func (m *Model) SelectedIssue() (domain.Issue, bool) {
	if m.cursor < 0 || m.cursor >= len(m.issues) {
		return domain.Issue{}, false
	}
	return m.issues[m.cursor], true
}

// refresh rebuilds the listing from the live state and keeps the cursor in range.
func (m *Model) refresh() {
	m.issues = m.state.Issues.List(m.state.Filter, m.query)
	m.users = m.state.Users.List()
	if m.cursor >= len(m.issues) {
		m.cursor = len(m.issues) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selectIssue moves the cursor to the issue with id, if it is listed.
func (m *Model) selectIssue(id int) bool {
	for i, issue := range m.issues {
		if issue.ID == id {
			m.cursor = i
			return true
		}
	}
	return false
}

// save persists a clone of the live state off the Update goroutine.
func (m *Model) save() tea.Cmd {
	if m.store.store == nil {
		return nil
	}
	m.saveSeq++
	seq := m.saveSeq
	snap := m.state.Clone()
	store := m.store
	return func() tea.Msg {
		if err := store.save(seq, snap); err != nil {
			return MsgError{Err: fmt.Errorf("save state: %w", err)}
		}
		return MsgSaved{Seq: seq}
	}
}

// setStatus shows msg in the status line until a later status replaces it
// or it times out.
func (m *Model) setStatus(msg string) tea.Cmd {
	m.status = msg
	m.err = nil
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return MsgClearStatus{Seq: seq}
	})
}

func (m *Model) log(issueID int, category, msg string) {
	if m.logger != nil {
		m.logger.Info(issueID, category, msg)
	}
}

// saver writes snapshots in request order. Saves run as tea commands, which
// may execute concurrently; a save older than the last written one is dropped.
type saver struct {
	store   domain.StateStore
	mu      sync.Mutex
	written uint64
}

func (s *saver) save(seq uint64, state *domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.written {
		return nil
	}
	if err := s.store.Save(state); err != nil {
		return err
	}
	s.written = seq
	return nil
}
