package positional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preguito/preguito/internal/pkg/config"
	apperrors "github.com/preguito/preguito/internal/pkg/errors"
	"github.com/preguito/preguito/internal/pkg/shortcode"
	"github.com/preguito/preguito/internal/pkg/template"
)

func fullConfig() *config.Config {
	return &config.Config{
		Template: "[{{prefix}}-{{card_id}}] {{type}}({{environment}}): <message>",
		Features: config.Features{CardID: true, Type: true, Environment: true},
		Types: []shortcode.Entry{
			{Key: "f", Label: "feat"},
			{Key: "x", Label: "fix"},
		},
		Environments: []shortcode.Entry{
			{Key: "p", Label: "prd"},
			{Key: "u", Label: "uat"},
		},
		Defaults: template.Context{"prefix": "PROJ"},
	}
}

func TestParse_EndToEnd(t *testing.T) {
	res, err := Parse([]string{"1234", "fp", "my", "commit"}, fullConfig(), "")
	require.NoError(t, err)

	assert.Equal(t, template.Context{
		"card_id":     "1234",
		"type":        "feat",
		"environment": "prd",
		"prefix":      "PROJ",
	}, res.Context)
	assert.Equal(t, "my commit", res.Message)
	assert.Empty(t, res.Body)

	out, err := template.Render(fullConfig().Template, res.Context, res.Message)
	require.NoError(t, err)
	assert.Equal(t, "[PROJ-1234] feat(prd): my commit", out)
}

func TestParse_FeatureLayouts(t *testing.T) {
	tests := []struct {
		name     string
		features config.Features
		args     []string
		context  template.Context
		message  string
	}{
		{
			name:     "no features takes every word",
			features: config.Features{},
			args:     []string{"fix", "the", "thing"},
			context:  template.Context{"prefix": "PROJ"},
			message:  "fix the thing",
		},
		{
			name:     "card only",
			features: config.Features{CardID: true},
			args:     []string{"42", "wire", "it"},
			context:  template.Context{"prefix": "PROJ", "card_id": "42"},
			message:  "wire it",
		},
		{
			name:     "environment only without env code",
			features: config.Features{Environment: true},
			args:     []string{"", "hotfix"},
			context:  template.Context{"prefix": "PROJ"},
			message:  "hotfix",
		},
		{
			name:     "type and env, env omitted",
			features: config.Features{Type: true, Environment: true},
			args:     []string{"x", "null", "check"},
			context:  template.Context{"prefix": "PROJ", "type": "fix"},
			message:  "null check",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fullConfig()
			cfg.Features = tt.features

			res, err := Parse(tt.args, cfg, "")
			require.NoError(t, err)
			assert.Equal(t, tt.context, res.Context)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestParse_ResolvedValuesOverrideDefaults(t *testing.T) {
	cfg := fullConfig()
	cfg.Defaults = template.Context{"type": "chore", "card_id": "0", "squad": "CORE"}

	res, err := Parse([]string{"7", "x", "msg"}, cfg, "")
	require.NoError(t, err)

	assert.Equal(t, "fix", res.Context["type"])
	assert.Equal(t, "7", res.Context["card_id"])
	assert.Equal(t, "CORE", res.Context["squad"])
	assert.Equal(t, template.Context{"type": "chore", "card_id": "0", "squad": "CORE"}, cfg.Defaults)
}

func TestParse_Body(t *testing.T) {
	res, err := Parse([]string{"1", "f", "title"}, fullConfig(), "line one\n\nline two")
	require.NoError(t, err)

	assert.NotEmpty(t, res.Body)
	assert.Equal(t, "line one\n\nline two", res.Body)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code apperrors.ErrorCode
	}{
		{"no args", nil, apperrors.ErrNoArguments},
		{"empty slice", []string{}, apperrors.ErrNoArguments},
		{"card only", []string{"1234"}, apperrors.ErrMissingShortcodes},
		{"no message", []string{"1234", "fp"}, apperrors.ErrMissingCommitMessage},
		{"unknown code", []string{"1234", "fz", "msg"}, apperrors.ErrUnknownShortcode},
		{"missing type", []string{"1234", "p", "msg"}, apperrors.ErrMissingTypeShortcode},
		{"two types", []string{"1234", "fx", "msg"}, apperrors.ErrMultipleTypeShortcodes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args, fullConfig(), "")
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}
}

func TestParse_MissingShortcodesSuggestion(t *testing.T) {
	cfg := fullConfig()
	cfg.Features = config.Features{Type: true}

	_, err := Parse([]string{}, cfg, "")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNoArguments))

	cfg.Features = config.Features{CardID: true, Type: true}
	_, err = Parse([]string{"99"}, cfg, "")
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrMissingShortcodes, appErr.Code)
	assert.Contains(t, appErr.Suggestion, "f=feat")
	assert.NotContains(t, appErr.Suggestion, "p=prd")
}
