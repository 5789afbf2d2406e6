package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/preguito/preguito/internal/pkg/errors"
	"github.com/preguito/preguito/internal/pkg/shortcode"
	"github.com/preguito/preguito/internal/pkg/template"
)

const fullConfigJSON = `{
  "template": "[{{prefix}}-{{card_id}}] {{type}}({{environment}}): <message>",
  "features": {"cardId": true, "type": true, "environment": true},
  "types": [{"key": "f", "label": "feat"}, {"key": "x", "label": "fix"}],
  "environments": [{"key": "p", "label": "prd"}, {"key": "u", "label": "uat"}],
  "defaults": {"prefix": "PROJ"}
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFindConfigPath_Order(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()

	assert.Equal(t, "", FindConfigPath(cwd, home))

	global := GlobalConfigPath(home)
	writeFile(t, global, fullConfigJSON)
	assert.Equal(t, global, FindConfigPath(cwd, home))

	homeJSON := filepath.Join(home, ".preguitorc.json")
	writeFile(t, homeJSON, fullConfigJSON)
	assert.Equal(t, homeJSON, FindConfigPath(cwd, home))

	homeRC := filepath.Join(home, ".preguitorc")
	writeFile(t, homeRC, fullConfigJSON)
	assert.Equal(t, homeRC, FindConfigPath(cwd, home))

	cwdJSON := filepath.Join(cwd, ".preguitorc.json")
	writeFile(t, cwdJSON, fullConfigJSON)
	assert.Equal(t, cwdJSON, FindConfigPath(cwd, home))

	cwdRC := filepath.Join(cwd, ".preguitorc")
	writeFile(t, cwdRC, fullConfigJSON)
	assert.Equal(t, cwdRC, FindConfigPath(cwd, home))
}

func TestLoad_Full(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, ".preguitorc"), fullConfigJSON)

	mgr := NewManagerWithDirs("", cwd, t.TempDir())
	cfg, err := mgr.Load()
	require.NoError(t, err)

	assert.Equal(t, "[{{prefix}}-{{card_id}}] {{type}}({{environment}}): <message>", cfg.Template)
	assert.Equal(t, Features{CardID: true, Type: true, Environment: true}, cfg.Features)
	assert.Equal(t, []shortcode.Entry{{Key: "f", Label: "feat"}, {Key: "x", Label: "fix"}}, cfg.Types)
	assert.Equal(t, []shortcode.Entry{{Key: "p", Label: "prd"}, {Key: "u", Label: "uat"}}, cfg.Environments)
	assert.Equal(t, template.Context{"prefix": "PROJ"}, cfg.Defaults)
	assert.Equal(t, "PROJ", cfg.Prefix())

	assert.True(t, cfg.UI.ColorEnabled)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, DefaultHistoryMaxEntries, cfg.History.MaxEntries)
}

func TestLoad_MinimalLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"template": "[{{squad}}-{{card_id}}] {{type}}: <message>", "defaults": {"squad": "TEAM", "type": "feat"}}`)

	cfg, err := NewManagerWithDirs(path, "", "").Load()
	require.NoError(t, err)

	assert.Equal(t, Features{}, cfg.Features)
	assert.Equal(t, template.Context{"squad": "TEAM", "type": "feat"}, cfg.Defaults)
}

func TestLoad_RestoresDefaultKeyCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"template": "[{{Squad}}] <message>", "defaults": {"Squad": "TEAM"}}`)

	cfg, err := NewManagerWithDirs(path, "", "").Load()
	require.NoError(t, err)

	assert.Equal(t, template.Context{"Squad": "TEAM"}, cfg.Defaults)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    apperrors.ErrorCode
		msg     string
	}{
		{"missing template", `{"defaults": {}}`, apperrors.ErrInvalidConfig, "template"},
		{"blank template", `{"template": "   "}`, apperrors.ErrInvalidConfig, "template"},
		{"non-string default", `{"template": "test", "defaults": {"count": 42}}`, apperrors.ErrInvalidConfig, `"count" must be a string`},
		{"defaults not an object", `{"template": "test", "defaults": "x"}`, apperrors.ErrInvalidConfig, "must be an object"},
		{"bad key", `{"template": "t", "types": [{"key": "ff", "label": "feat"}]}`, apperrors.ErrInvalidConfig, "single lowercase letter"},
		{"uppercase key", `{"template": "t", "types": [{"key": "F", "label": "feat"}]}`, apperrors.ErrInvalidConfig, "single lowercase letter"},
		{"duplicate key", `{"template": "t", "environments": [{"key": "p", "label": "prd"}, {"key": "p", "label": "pre"}]}`, apperrors.ErrInvalidConfig, "used by both"},
		{"type enabled without types", `{"template": "t", "features": {"type": true}}`, apperrors.ErrInvalidConfig, "no types"},
		{"broken json", `{"template": `, apperrors.ErrInvalidConfig, "failed to read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			writeFile(t, path, tt.content)

			_, err := NewManagerWithDirs(path, "", "").Load()
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	mgr := NewManagerWithDirs("", t.TempDir(), t.TempDir())

	assert.False(t, mgr.ConfigExists())
	_, err := mgr.Load()
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConfigNotFound))

	cfg, err := mgr.LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, "{{type}}: <message>", cfg.Template)
	assert.Equal(t, PredefinedTypes, cfg.Types)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, fullConfigJSON)

	t.Setenv("PREGUITO_TEMPLATE", "{{type}}: <message>")
	t.Setenv("PREGUITO_HISTORY_ENABLED", "false")

	cfg, err := NewManagerWithDirs(path, "", "").Load()
	require.NoError(t, err)

	assert.Equal(t, "{{type}}: <message>", cfg.Template)
	assert.False(t, cfg.History.Enabled)
}

func TestSave_WritesGlobalPath(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()
	mgr := NewManagerWithDirs("", cwd, home)

	cfg := DefaultConfig()
	cfg.Features = Features{CardID: true, Type: true}
	cfg.Template = GenerateTemplate(cfg.Features, true)
	cfg.Defaults = template.Context{"prefix": "CORE"}
	require.NoError(t, mgr.Save(cfg))

	assert.Equal(t, GlobalConfigPath(home), mgr.SavePath())
	info, err := os.Stat(GlobalConfigPath(home))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	raw, err := os.ReadFile(GlobalConfigPath(home))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cardId": true`)

	reloaded, err := NewManagerWithDirs("", cwd, home).Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.Template, reloaded.Template)
	assert.Equal(t, cfg.Features, reloaded.Features)
	assert.Equal(t, cfg.Defaults, reloaded.Defaults)
}

func TestSave_RejectsInvalid(t *testing.T) {
	mgr := NewManagerWithDirs(filepath.Join(t.TempDir(), "c.json"), "", "")
	err := mgr.Save(&Config{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidConfig))
}

func TestGenerateTemplate(t *testing.T) {
	tests := []struct {
		name      string
		features  Features
		hasPrefix bool
		expected  string
	}{
		{"all features + prefix", Features{true, true, true}, true, "[{{prefix}}-{{card_id}}] {{type}}({{environment}}): <message>"},
		{"all features without prefix", Features{true, true, true}, false, "[{{card_id}}] {{type}}({{environment}}): <message>"},
		{"cardId + type + prefix", Features{true, true, false}, true, "[{{prefix}}-{{card_id}}] {{type}}: <message>"},
		{"cardId + type without prefix", Features{true, true, false}, false, "[{{card_id}}] {{type}}: <message>"},
		{"cardId + environment + prefix", Features{true, false, true}, true, "[{{prefix}}-{{card_id}}] ({{environment}}): <message>"},
		{"type + environment only", Features{false, true, true}, false, "{{type}}({{environment}}): <message>"},
		{"type only", Features{false, true, false}, false, "{{type}}: <message>"},
		{"environment only", Features{false, false, true}, false, "({{environment}}): <message>"},
		{"cardId only + prefix", Features{true, false, false}, true, "[{{prefix}}-{{card_id}}] <message>"},
		{"cardId only without prefix", Features{true, false, false}, false, "[{{card_id}}] <message>"},
		{"no features", Features{}, false, "<message>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateTemplate(tt.features, tt.hasPrefix))
		})
	}
}

func TestFindKeyConflicts(t *testing.T) {
	types := []shortcode.Entry{{Key: "p", Label: "perf"}, {Key: "f", Label: "feat"}}
	envs := []shortcode.Entry{{Key: "p", Label: "prd"}, {Key: "d", Label: "dev"}}

	assert.Equal(t, []KeyConflict{{Key: "p", Type: "perf", Environment: "prd"}}, FindKeyConflicts(types, envs))
	assert.Empty(t, FindKeyConflicts(PredefinedTypes, PredefinedEnvironments))
}

func TestIsValidKey(t *testing.T) {
	assert.True(t, IsValidKey("a"))
	assert.True(t, IsValidKey("z"))
	assert.False(t, IsValidKey(""))
	assert.False(t, IsValidKey("A"))
	assert.False(t, IsValidKey("1"))
	assert.False(t, IsValidKey("ab"))
}

// Property: a generated template always has a message slot and exactly the
// variables its features and prefix call for.
func TestGenerateTemplate_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("variables follow features", prop.ForAll(
		func(cardID, typ, env, hasPrefix bool) bool {
			f := Features{CardID: cardID, Type: typ, Environment: env}
			p := template.Parse(GenerateTemplate(f, hasPrefix))

			if !p.HasMessage || p.MessagePlaceholder != "message" {
				return false
			}
			has := func(name string) bool { return slices.Contains(p.Variables, name) }
			return has("card_id") == cardID &&
				has("prefix") == (cardID && hasPrefix) &&
				has("type") == typ &&
				has("environment") == env
		},
		gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("rendering with every value present keeps them all", prop.ForAll(
		func(cardID, typ, env bool) bool {
			f := Features{CardID: cardID, Type: typ, Environment: env}
			ctx := template.Context{"prefix": "P", "card_id": "1", "type": "feat", "environment": "prd"}
			out, err := template.Render(GenerateTemplate(f, true), ctx, "msg")
			if err != nil {
				return false
			}
			return strings.Contains(out, "[P-1]") == cardID &&
				strings.Contains(out, "feat") == typ &&
				strings.Contains(out, "(prd)") == env &&
				strings.HasSuffix(out, "msg")
		},
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}
