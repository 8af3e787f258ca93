package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/coyuki/ramifi/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	workDir       string // Directory holding the local .ramifi.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/ramifi)
}

// NewManager creates a new Manager.
func NewManager(workDir string) *Manager {
	return &Manager{
		workDir:       workDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(workDir, globalConfDir string) *Manager {
	return &Manager{
		workDir:       workDir,
		globalConfDir: globalConfDir,
	}
}

// GlobalConfigInfo returns information about the global config file.
func (m *Manager) GlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return readConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// LocalConfigInfo returns information about the local config file.
func (m *Manager) LocalConfigInfo() domain.ConfigInfo {
	if m.workDir == "" {
		return domain.ConfigInfo{}
	}
	return readConfigInfo(domain.LocalConfigPath(m.workDir))
}

// readConfigInfo reads a config file and returns its info.
func readConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitGlobalConfig writes the template to the global config path and returns the path.
// Returns domain.ErrConfigExists if the file is already there.
func (m *Manager) InitGlobalConfig() (string, error) {
	if m.globalConfDir == "" {
		return "", errors.New("global config directory not available")
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)

	if _, err := os.Stat(path); err == nil {
		return "", domain.ErrConfigExists
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// Template is the commented starting point written by InitGlobalConfig.
const Template = `# ramifi configuration
# Local settings in ./.ramifi.toml override this file.

[store]
# "file" keeps <dir>/<key>.json; "git" keeps refs/ramifi/<key> in <dir>/repo.
backend = "file"
key = "app"
# dir = ""              # default: $XDG_DATA_HOME/ramifi
# encryption_key = ""   # git backend only; 64 hex characters

[log]
level = "info"          # debug, info, warn, error

[user]
name = "coyuki"
email = "coyuki@example.com"

[export]
file_name = "ramifi_export.json"

[picker]
command = "zenity"
`

// effective is the TOML shape of a loaded configuration.
type effective struct {
	Store struct {
		Backend       string `toml:"backend"`
		Key           string `toml:"key"`
		Dir           string `toml:"dir"`
		EncryptionKey string `toml:"encryption_key,omitempty"`
	} `toml:"store"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
	User struct {
		Name  string `toml:"name"`
		Email string `toml:"email"`
	} `toml:"user"`
	Export struct {
		FileName string `toml:"file_name"`
	} `toml:"export"`
	Picker struct {
		Command string `toml:"command"`
	} `toml:"picker"`
}

// Render formats cfg as TOML. The encryption key is masked.
func Render(cfg *domain.Config) (string, error) {
	var e effective
	e.Store.Backend = cfg.Store.Backend
	e.Store.Key = cfg.Store.Key
	e.Store.Dir = cfg.Store.Dir
	if cfg.Store.EncryptionKey != "" {
		e.Store.EncryptionKey = "********"
	}
	e.Log.Level = cfg.Log.Level
	e.User.Name = cfg.User.Name
	e.User.Email = cfg.User.Email
	e.Export.FileName = cfg.Export.FileName
	e.Picker.Command = cfg.Picker.Command

	data, err := toml.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("render config: %w", err)
	}
	return string(data), nil
}
