// Package config provides configuration management for guito.
package config

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/preguito/preguito/internal/pkg/errors"
	"github.com/preguito/preguito/internal/pkg/shortcode"
	"github.com/preguito/preguito/internal/pkg/template"
)

// Config represents the complete guito configuration.
type Config struct {
	Template     string            `mapstructure:"template" json:"template" yaml:"template"`
	Features     Features          `mapstructure:"features" json:"features" yaml:"features"`
	Types        []shortcode.Entry `mapstructure:"types" json:"types" yaml:"types"`
	Environments []shortcode.Entry `mapstructure:"environments" json:"environments" yaml:"environments"`
	Defaults     template.Context  `mapstructure:"defaults" json:"defaults" yaml:"defaults"`
	UI           UIConfig          `mapstructure:"ui" json:"ui" yaml:"ui"`
	History      HistoryConfig     `mapstructure:"history" json:"history" yaml:"history"`
}

// Features toggles the positional arguments a commit expects.
type Features struct {
	CardID      bool `mapstructure:"cardId" json:"cardId" yaml:"cardId"`
	Type        bool `mapstructure:"type" json:"type" yaml:"type"`
	Environment bool `mapstructure:"environment" json:"environment" yaml:"environment"`
}

// UsesShortcodes reports whether a shortcode argument is expected.
func (f Features) UsesShortcodes() bool {
	return f.Type || f.Environment
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled" json:"color_enabled" yaml:"color_enabled"`
}

// HistoryConfig contains history-related settings.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	MaxEntries int    `mapstructure:"max_entries" json:"max_entries" yaml:"max_entries"`
	FilePath   string `mapstructure:"file_path" json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// Prefix returns the stored card prefix, if any.
func (c *Config) Prefix() string {
	return c.Defaults["prefix"]
}

// Manager defines the interface for configuration management.
type Manager interface {
	Load() (*Config, error)
	Save(config *Config) error
	ConfigExists() bool
	GetConfigPath() string
}

// PredefinedTypes are the commit types offered by the setup wizard.
var PredefinedTypes = []shortcode.Entry{
	{Key: "f", Label: "feat"},
	{Key: "x", Label: "fix"},
	{Key: "c", Label: "chore"},
	{Key: "r", Label: "refactor"},
	{Key: "t", Label: "test"},
	{Key: "o", Label: "docs"},
	{Key: "s", Label: "style"},
	{Key: "e", Label: "perf"},
	{Key: "i", Label: "ci"},
	{Key: "b", Label: "build"},
	{Key: "v", Label: "revert"},
}

// PredefinedEnvironments are the environments offered by the setup wizard.
var PredefinedEnvironments = []shortcode.Entry{
	{Key: "p", Label: "prd"},
	{Key: "u", Label: "uat"},
	{Key: "d", Label: "dev"},
	{Key: "h", Label: "hml"},
}

// DefaultConfig returns the configuration written by 'guito init --default'.
func DefaultConfig() *Config {
	types := make([]shortcode.Entry, len(PredefinedTypes))
	copy(types, PredefinedTypes)
	return &Config{
		Template:     GenerateTemplate(Features{Type: true}, false),
		Features:     Features{Type: true},
		Types:        types,
		Environments: []shortcode.Entry{},
		Defaults:     template.Context{},
		UI:           UIConfig{ColorEnabled: true},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: DefaultHistoryMaxEntries,
		},
	}
}

// GenerateTemplate builds the template matching a feature set.
//
//	all features, prefix  [{{prefix}}-{{card_id}}] {{type}}({{environment}}): <message>
//	card id only          [{{card_id}}] <message>
//	nothing               <message>
func GenerateTemplate(f Features, hasPrefix bool) string {
	var sb strings.Builder

	if f.CardID {
		if hasPrefix {
			sb.WriteString("[{{prefix}}-{{card_id}}] ")
		} else {
			sb.WriteString("[{{card_id}}] ")
		}
	}

	if f.Type {
		sb.WriteString("{{type}}")
	}
	if f.Environment {
		sb.WriteString("({{environment}})")
	}
	if f.UsesShortcodes() {
		sb.WriteString(": ")
	}

	sb.WriteString("<message>")
	return sb.String()
}

// KeyConflict is a key used by both a type and an environment.
type KeyConflict struct {
	Key         string
	Type        string
	Environment string
}

// FindKeyConflicts returns keys shared between the two alphabets, in type order.
func FindKeyConflicts(types, envs []shortcode.Entry) []KeyConflict {
	var conflicts []KeyConflict
	for _, t := range types {
		if e, ok := shortcode.Lookup(envs, t.Key); ok {
			conflicts = append(conflicts, KeyConflict{Key: t.Key, Type: t.Label, Environment: e.Label})
		}
	}
	return conflicts
}

// IsValidKey reports whether key is a single lowercase ASCII letter.
func IsValidKey(key string) bool {
	return len(key) == 1 && key[0] >= 'a' && key[0] <= 'z'
}

// Validate checks the invariants the commit engine relies on.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Template) == "" {
		return apperrors.NewInvalidConfigError(`config must have a non-empty "template" string field`)
	}
	if err := validateEntries("types", cfg.Types); err != nil {
		return err
	}
	if err := validateEntries("environments", cfg.Environments); err != nil {
		return err
	}
	if cfg.Features.Type && len(cfg.Types) == 0 {
		return apperrors.NewInvalidConfigError(`"features.type" is enabled but no types are configured`)
	}
	if cfg.History.MaxEntries < 0 {
		return apperrors.NewInvalidConfigError(`"history.max_entries" must not be negative`)
	}
	return nil
}

func validateEntries(field string, entries []shortcode.Entry) error {
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if !IsValidKey(e.Key) {
			return apperrors.NewInvalidConfigError(
				fmt.Sprintf("%s: key %q must be a single lowercase letter", field, e.Key))
		}
		if strings.TrimSpace(e.Label) == "" {
			return apperrors.NewInvalidConfigError(
				fmt.Sprintf("%s: key %q has an empty label", field, e.Key))
		}
		if prev, dup := seen[e.Key]; dup {
			return apperrors.NewInvalidConfigError(
				fmt.Sprintf("%s: key %q is used by both %q and %q", field, e.Key, prev, e.Label))
		}
		seen[e.Key] = e.Label
	}
	return nil
}

// validateDefaults rejects default values that are not strings.
func validateDefaults(raw map[string]interface{}) error {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := raw[k].(string); !ok {
			return apperrors.NewInvalidConfigError(fmt.Sprintf("default value for %q must be a string", k))
		}
	}
	return nil
}

// restoreKeyCase renames lowercased default keys to the spelling used by
// the template, so that {{Prefix}} still finds a "Prefix" default.
func restoreKeyCase(defaults template.Context, tmpl string) template.Context {
	out := make(template.Context, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for _, name := range template.Parse(tmpl).Variables {
		if _, ok := out[name]; ok {
			continue
		}
		lower := strings.ToLower(name)
		if v, ok := out[lower]; ok {
			out[name] = v
			delete(out, lower)
		}
	}
	return out
}
