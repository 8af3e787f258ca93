package domain

import (
	"os"
	"path/filepath"
)

// Config file and directory names.
const (
	AppDirName            = "ramifi"       // Directory name under XDG config/data homes
	ConfigFileName        = "config.toml"  // Global config file name
	LocalConfigFileName   = ".ramifi.toml" // Config file name in the working directory
	DefaultStorageKey     = "app"          // Storage key for the persisted state
	DefaultExportFileName = "ramifi_export.json"
)

// Store backends.
const (
	BackendFile = "file"
	BackendGit  = "git"
)

// Config represents the application configuration.
type Config struct {
	Store    StoreConfig  // [store] settings
	Log      LogConfig    // [log] settings
	User     UserConfig   // [user] settings
	Export   ExportConfig // [export] settings
	Picker   PickerConfig // [picker] settings
	Warnings []string     // Unknown keys and other non-fatal problems found while loading
}

// StoreConfig holds persistence settings from [store] section.
type StoreConfig struct {
	Backend       string // "file" (default) or "git"
	Key           string // Storage key; file name stem or ref name
	Dir           string // Data directory (empty = XDG data home)
	EncryptionKey string // Hex AES-256 key for git blobs (empty = plain)
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error
}

// UserConfig holds the default user from [user] section.
type UserConfig struct {
	Name  string
	Email string
}

// ExportConfig holds export settings from [export] section.
type ExportConfig struct {
	FileName string // Suggested export file name
}

// PickerConfig holds file dialog settings from [picker] section.
type PickerConfig struct {
	Command string // zenity-compatible dialog program
}

// NewDefaultConfig returns the configuration used when no file sets a value.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendFile,
			Key:     DefaultStorageKey,
		},
		Log: LogConfig{
			Level: "info",
		},
		User: UserConfig{
			Name:  "coyuki",
			Email: "coyuki@example.com",
		},
		Export: ExportConfig{
			FileName: DefaultExportFileName,
		},
		Picker: PickerConfig{
			Command: "zenity",
		},
	}
}

// DefaultUser returns the configured default user.
func (c *Config) DefaultUser() User {
	return NewUser(c.User.Name, c.User.Email)
}

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// LocalConfigPath returns the local config path for a working directory.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, LocalConfigFileName)
}

// DefaultDataDir returns $XDG_DATA_HOME/ramifi or ~/.local/share/ramifi.
// Returns "" if no home directory can be determined.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppDirName)
}

// StateFilePath returns the file store path for a storage key.
func StateFilePath(dataDir, key string) string {
	return filepath.Join(dataDir, key+".json")
}

// GitStoreDir returns the repository path used by the git store.
func GitStoreDir(dataDir string) string {
	return filepath.Join(dataDir, "repo")
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "ramifi.log")
}
