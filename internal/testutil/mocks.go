// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/snapshot"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockPicker is a test double for domain.FilePicker.
// Each call pops the next queued path; an exhausted queue means cancel.
// Fields are ordered to minimize memory padding.
type MockPicker struct {
	OpenErr    error
	SaveErr    error
	OpenPaths  []string
	SavePaths  []string
	Suggested  []string
	mu         sync.Mutex
	OpenCalled int
	SaveCalled int
}

// PickOpen returns the next queued open path.
func (m *MockPicker) PickOpen(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OpenCalled++
	if m.OpenErr != nil {
		return "", m.OpenErr
	}
	if len(m.OpenPaths) == 0 {
		return "", domain.ErrCancelled
	}
	path := m.OpenPaths[0]
	m.OpenPaths = m.OpenPaths[1:]
	return path, nil
}

// PickSave returns the next queued save path and records the suggestion.
func (m *MockPicker) PickSave(_ context.Context, suggested string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalled++
	m.Suggested = append(m.Suggested, suggested)
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	if len(m.SavePaths) == 0 {
		return "", domain.ErrCancelled
	}
	path := m.SavePaths[0]
	m.SavePaths = m.SavePaths[1:]
	return path, nil
}

// MemoryStore is a test double for domain.StateStore.
// It keeps the encoded snapshot, so saved and loaded states never share memory.
type MemoryStore struct {
	SaveErr error
	LoadErr error
	Data    []byte
	Saves   int
}

// NewMemoryStore creates a store holding state, or an empty store when state is nil.
func NewMemoryStore(state *domain.State) *MemoryStore {
	m := &MemoryStore{}
	if state != nil {
		if err := m.Save(state); err != nil {
			panic(fmt.Sprintf("seed memory store: %v", err))
		}
		m.Saves = 0
	}
	return m
}

// Load decodes the stored snapshot.
func (m *MemoryStore) Load() (*domain.State, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Data == nil {
		return nil, domain.ErrNotInitialized
	}
	return snapshot.Decode(m.Data)
}

// Save encodes and keeps the state.
func (m *MemoryStore) Save(state *domain.State) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := snapshot.Encode(state, snapshot.FormatJSON)
	if err != nil {
		return err
	}
	m.Data = data
	m.Saves++
	return nil
}

// LogEntry is one recorded log call.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	IssueID  int
}

// RecordingLogger is a test double for domain.Logger.
type RecordingLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (l *RecordingLogger) record(level string, issueID int, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, IssueID: issueID, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (l *RecordingLogger) Debug(issueID int, category, msg string) {
	l.record("DEBUG", issueID, category, msg)
}

// Info records an info entry.
func (l *RecordingLogger) Info(issueID int, category, msg string) {
	l.record("INFO", issueID, category, msg)
}

// Warn records a warning entry.
func (l *RecordingLogger) Warn(issueID int, category, msg string) {
	l.record("WARN", issueID, category, msg)
}

// Error records an error entry.
func (l *RecordingLogger) Error(issueID int, category, msg string) {
	l.record("ERROR", issueID, category, msg)
}

// Levels returns the recorded levels for a category, in order.
func (l *RecordingLogger) Levels(category string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.Entries {
		if e.Category == category {
			out = append(out, e.Level)
		}
	}
	return out
}

// Ensure doubles implement their ports.
var (
	_ domain.Clock      = (*MockClock)(nil)
	_ domain.FilePicker = (*MockPicker)(nil)
	_ domain.StateStore = (*MemoryStore)(nil)
	_ domain.Logger     = (*RecordingLogger)(nil)
)

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr    error
	GlobalInfo domain.ConfigInfo
	LocalInfo  domain.ConfigInfo
	InitCalled bool
}

// GlobalConfigInfo returns the configured global info.
func (m *MockConfigManager) GlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalInfo
}

// LocalConfigInfo returns the configured local info.
func (m *MockConfigManager) LocalConfigInfo() domain.ConfigInfo {
	return m.LocalInfo
}

// InitGlobalConfig records the call and returns the global path.
func (m *MockConfigManager) InitGlobalConfig() (string, error) {
	m.InitCalled = true
	if m.InitErr != nil {
		return "", m.InitErr
	}
	return m.GlobalInfo.Path, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config *domain.Config
	Err    error
}

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

var (
	_ domain.ConfigManager = (*MockConfigManager)(nil)
	_ domain.ConfigLoader  = (*MockConfigLoader)(nil)
)
