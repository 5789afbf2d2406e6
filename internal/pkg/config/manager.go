package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/preguito/preguito/internal/pkg/errors"
)

const (
	// DefaultHistoryMaxEntries caps the commit history file.
	DefaultHistoryMaxEntries = 1000
	// EnvPrefix is the prefix of environment overrides.
	EnvPrefix = "PREGUITO"
)

// ProjectConfigNames are looked up in the working directory, then in the
// home directory.
var ProjectConfigNames = []string{".preguitorc", ".preguitorc.json"}

// GlobalConfigPath returns the path configs are saved to by default.
func GlobalConfigPath(home string) string {
	return filepath.Join(home, ".config", "preguito", "config.json")
}

// SearchPaths returns candidate config files in lookup order.
func SearchPaths(cwd, home string) []string {
	var paths []string
	if cwd != "" {
		for _, name := range ProjectConfigNames {
			paths = append(paths, filepath.Join(cwd, name))
		}
	}
	if home != "" {
		for _, name := range ProjectConfigNames {
			paths = append(paths, filepath.Join(home, name))
		}
		paths = append(paths, GlobalConfigPath(home))
	}
	return paths
}

// FindConfigPath returns the first existing config file, or "".
func FindConfigPath(cwd, home string) string {
	for _, p := range SearchPaths(cwd, home) {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v *viper.Viper
	// configPath is the file that is read, empty when none was found.
	configPath string
	// savePath is the file that Save writes.
	savePath string
	home     string
}

// NewManager creates a new configuration manager.
// An explicit configPath is both read and written. Otherwise the file is
// discovered from the working and home directories and saves go to
// ~/.config/preguito/config.json.
func NewManager(configPath string) (*ViperManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, apperrors.NewFileSystemError(err, "failed to get home directory")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, apperrors.NewFileSystemError(err, "failed to get working directory")
	}
	return NewManagerWithDirs(configPath, cwd, home), nil
}

// NewManagerWithDirs is NewManager with explicit lookup directories.
func NewManagerWithDirs(configPath, cwd, home string) *ViperManager {
	v := viper.New()

	// .preguitorc has no extension, so the format is fixed.
	v.SetConfigType("json")

	savePath := configPath
	if configPath == "" {
		configPath = FindConfigPath(cwd, home)
		savePath = GlobalConfigPath(home)
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		apperrors.Debug("using config file %s", configPath)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, home)
	bindEnvVars(v)

	return &ViperManager{
		v:          v,
		configPath: configPath,
		savePath:   savePath,
		home:       home,
	}
}

// bindEnvVars explicitly binds environment variables for nested keys.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("template", EnvPrefix+"_TEMPLATE")

	_ = v.BindEnv("ui.color_enabled", EnvPrefix+"_UI_COLOR_ENABLED")

	_ = v.BindEnv("history.enabled", EnvPrefix+"_HISTORY_ENABLED")
	_ = v.BindEnv("history.max_entries", EnvPrefix+"_HISTORY_MAX_ENTRIES")
	_ = v.BindEnv("history.file_path", EnvPrefix+"_HISTORY_FILE_PATH")
}

// DefaultHistoryPath returns the default location of the history file.
func DefaultHistoryPath(home string) string {
	return filepath.Join(home, ".config", "preguito", "history.json")
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("template", "")
	v.SetDefault("features.cardId", false)
	v.SetDefault("features.type", false)
	v.SetDefault("features.environment", false)

	v.SetDefault("ui.color_enabled", true)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", DefaultHistoryMaxEntries)
	v.SetDefault("history.file_path", DefaultHistoryPath(home))
}

// GetConfigPath returns the file the configuration is read from, or the
// save location when no file exists yet.
func (m *ViperManager) GetConfigPath() string {
	if m.configPath != "" {
		return m.configPath
	}
	return m.savePath
}

// SavePath returns the file Save writes to.
func (m *ViperManager) SavePath() string {
	return m.savePath
}

// ConfigExists checks if a configuration file exists.
func (m *ViperManager) ConfigExists() bool {
	if m.configPath == "" {
		return false
	}
	_, err := os.Stat(m.configPath)
	return err == nil
}

// Load reads the configuration file and applies environment overrides.
// Priority: env > file > defaults
func (m *ViperManager) Load() (*Config, error) {
	if !m.ConfigExists() {
		return nil, apperrors.NewConfigNotFoundError()
	}

	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil, apperrors.NewConfigNotFoundError()
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig,
			fmt.Sprintf("failed to read config file %s", m.configPath)).
			WithSuggestion("Fix the JSON syntax or run 'guito init' to recreate it")
	}

	if raw := m.v.Get("defaults"); raw != nil {
		rawMap, ok := raw.(map[string]interface{})
		if !ok {
			return nil, apperrors.NewInvalidConfigError(`"defaults" must be an object`)
		}
		if err := validateDefaults(rawMap); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to unmarshal config")
	}
	if cfg.Defaults == nil {
		cfg.Defaults = map[string]string{}
	}
	cfg.Defaults = restoreKeyCase(cfg.Defaults, cfg.Template)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	apperrors.Debug("loaded config from %s (features: cardId=%t type=%t environment=%t)",
		m.configPath, cfg.Features.CardID, cfg.Features.Type, cfg.Features.Environment)
	return &cfg, nil
}

// LoadOrDefault loads the configuration, falling back to DefaultConfig when
// no file exists. Invalid files are still reported.
func (m *ViperManager) LoadOrDefault() (*Config, error) {
	cfg, err := m.Load()
	if apperrors.HasCode(err, apperrors.ErrConfigNotFound) {
		cfg = DefaultConfig()
		cfg.History.FilePath = DefaultHistoryPath(m.home)
		return cfg, nil
	}
	return cfg, err
}

// Save validates and writes the configuration as indented JSON.
// Sets file permissions to 0600.
func (m *ViperManager) Save(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	dir := filepath.Dir(m.savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewFileSystemError(err, "failed to create config directory")
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to encode config")
	}
	data = append(data, '\n')

	if err := os.WriteFile(m.savePath, data, 0600); err != nil {
		return apperrors.NewFileSystemError(err, "failed to write config file")
	}

	m.configPath = m.savePath
	m.v.SetConfigFile(m.savePath)
	apperrors.Debug("saved config to %s", m.savePath)
	return nil
}
