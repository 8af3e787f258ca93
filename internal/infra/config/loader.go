// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/infra/logging"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	workDir       string // Directory holding the local .ramifi.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/ramifi)
}

// NewLoader creates a new Loader.
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir:       workDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(workDir, globalConfDir string) *Loader {
	return &Loader{
		workDir:       workDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Merge order: default <- global <- local (later takes precedence).
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	for _, path := range l.paths() {
		cfg, err := loadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		base = mergeConfigs(base, cfg)
	}

	if err := validate(base); err != nil {
		return nil, err
	}
	return base, nil
}

// paths returns the config files in merge order.
func (l *Loader) paths() []string {
	var paths []string
	if l.globalConfDir != "" {
		paths = append(paths, filepath.Join(l.globalConfDir, domain.ConfigFileName))
	}
	if l.workDir != "" {
		paths = append(paths, domain.LocalConfigPath(l.workDir))
	}
	return paths
}

// loadFile loads a configuration from a file.
func loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	return convertRawToDomainConfig(raw), nil
}

// stringField binds one "[section] key" string to its Config field.
type stringField struct {
	set     func(*domain.Config, string)
	section string
	key     string
}

var stringFields = []stringField{
	{section: "store", key: "backend", set: func(c *domain.Config, v string) { c.Store.Backend = v }},
	{section: "store", key: "key", set: func(c *domain.Config, v string) { c.Store.Key = v }},
	{section: "store", key: "dir", set: func(c *domain.Config, v string) { c.Store.Dir = v }},
	{section: "store", key: "encryption_key", set: func(c *domain.Config, v string) { c.Store.EncryptionKey = v }},
	{section: "log", key: "level", set: func(c *domain.Config, v string) { c.Log.Level = v }},
	{section: "user", key: "name", set: func(c *domain.Config, v string) { c.User.Name = v }},
	{section: "user", key: "email", set: func(c *domain.Config, v string) { c.User.Email = v }},
	{section: "export", key: "file_name", set: func(c *domain.Config, v string) { c.Export.FileName = v }},
	{section: "picker", key: "command", set: func(c *domain.Config, v string) { c.Picker.Command = v }},
}

func lookupField(section, key string) (stringField, bool) {
	for _, f := range stringFields {
		if f.section == section && f.key == key {
			return f, true
		}
	}
	return stringField{}, false
}

func isKnownSection(section string) bool {
	for _, f := range stringFields {
		if f.section == section {
			return true
		}
	}
	return false
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
// Unknown sections, unknown keys and non-string values are reported, never fatal.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		if !isKnownSection(section) {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("[%s] must be a table", section))
			continue
		}
		for k, v := range m {
			field, ok := lookupField(section, k)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, k))
				continue
			}
			s, ok := v.(string)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("[%s] %s must be a string", section, k))
				continue
			}
			field.set(res, s)
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs merges two configs, with override taking precedence.
// Empty override values leave the base value in place.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = append(append([]string(nil), base.Warnings...), override.Warnings...)

	mergeString(&result.Store.Backend, override.Store.Backend)
	mergeString(&result.Store.Key, override.Store.Key)
	mergeString(&result.Store.Dir, override.Store.Dir)
	mergeString(&result.Store.EncryptionKey, override.Store.EncryptionKey)
	mergeString(&result.Log.Level, override.Log.Level)
	mergeString(&result.User.Name, override.User.Name)
	mergeString(&result.User.Email, override.User.Email)
	mergeString(&result.Export.FileName, override.Export.FileName)
	mergeString(&result.Picker.Command, override.Picker.Command)

	return &result
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// validate rejects settings no component can run with and warns about odd ones.
func validate(cfg *domain.Config) error {
	switch cfg.Store.Backend {
	case domain.BackendFile, domain.BackendGit:
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownBackend, cfg.Store.Backend)
	}
	if !domain.IsValidStorageKey(cfg.Store.Key) {
		return fmt.Errorf("%w: invalid storage key %q", domain.ErrValidation, cfg.Store.Key)
	}
	if strings.TrimSpace(cfg.User.Name) == "" {
		return domain.ErrEmptyUserName
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown log level %q, using info", cfg.Log.Level))
	}
	if cfg.Store.EncryptionKey != "" && cfg.Store.Backend != domain.BackendGit {
		cfg.Warnings = append(cfg.Warnings, "[store] encryption_key is only used by the git backend")
	}
	return nil
}
