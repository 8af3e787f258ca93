package domain

import (
	"context"
	"time"
)

// StateStore persists the application state under a storage key.
type StateStore interface {
	// Load returns the saved state. Returns ErrNotInitialized if nothing was saved.
	Load() (*State, error)

	// Save replaces the saved state.
	Save(state *State) error
}

// FilePicker asks the user for file paths.
// Both methods return ErrCancelled when the user dismisses the prompt.
type FilePicker interface {
	// PickOpen asks for an existing, readable file.
	PickOpen(ctx context.Context) (string, error)

	// PickSave asks for a destination path, suggesting the given file name.
	PickSave(ctx context.Context, suggested string) (string, error)
}

// Logger writes diagnostic entries. issueID 0 means the entry is not issue-scoped.
type Logger interface {
	Debug(issueID int, category, msg string)
	Info(issueID int, category, msg string)
	Warn(issueID int, category, msg string)
	Error(issueID int, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (default <- global <- local).
	Load() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GlobalConfigInfo returns information about the global config file.
	GlobalConfigInfo() ConfigInfo

	// LocalConfigInfo returns information about the local (.ramifi.toml) config file.
	LocalConfigInfo() ConfigInfo

	// InitGlobalConfig writes the config template to the global config path.
	InitGlobalConfig() (string, error)
}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time without the monotonic reading,
// so values survive a snapshot round trip unchanged.
func (RealClock) Now() time.Time {
	return time.Now().Round(0)
}
