package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preguito/preguito/internal/pkg/config"
	"github.com/preguito/preguito/internal/pkg/shortcode"
	"github.com/preguito/preguito/internal/pkg/template"
)

// The huh forms need a TTY, so these tests cover the helpers the wizard
// delegates to.

func TestSelectEntries(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		want     []string
	}{
		{"empty means all", nil, []string{"prd", "uat", "dev", "hml"}},
		{"all keyword", []string{"ALL"}, []string{"prd", "uat", "dev", "hml"}},
		{"by label", []string{"dev", "prd"}, []string{"prd", "dev"}},
		{"by key", []string{" u ", "h"}, []string{"uat", "hml"}},
		{"unknown falls back to all", []string{"staging"}, []string{"prd", "uat", "dev", "hml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectEntries(config.PredefinedEnvironments, tt.selected)
			labels := make([]string, len(got))
			for i, e := range got {
				labels[i] = e.Label
			}
			assert.Equal(t, tt.want, labels)
		})
	}
}

func TestSelectEntries_DoesNotAliasPredefined(t *testing.T) {
	got := SelectEntries(config.PredefinedTypes, nil)
	got[0].Key = "z"
	assert.Equal(t, "f", config.PredefinedTypes[0].Key)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "k", NormalizeKey(" K ", "f"))
	assert.Equal(t, "f", NormalizeKey("", "f"))
	assert.Equal(t, "f", NormalizeKey("   ", "f"))
}

func TestCustomizeKeys(t *testing.T) {
	entries := []shortcode.Entry{
		{Key: "f", Label: "feat"},
		{Key: "x", Label: "fix"},
		{Key: "c", Label: "chore"},
		{Key: "t", Label: "test"},
	}

	got, notes := CustomizeKeys(entries, []string{"F", "ab", "f", ""})

	assert.Equal(t, []shortcode.Entry{
		{Key: "f", Label: "feat"},
		{Key: "x", Label: "fix"},
		{Key: "c", Label: "chore"},
		{Key: "t", Label: "test"},
	}, got)
	assert.Equal(t, []string{
		`Invalid key "ab", keeping "x".`,
		`Key "f" already used, keeping "c".`,
	}, notes)

	got, notes = CustomizeKeys(entries[:2], []string{"a", "b"})
	assert.Empty(t, notes)
	assert.Equal(t, "a", got[0].Key)
	assert.Equal(t, "b", got[1].Key)
}

func TestReassignConflicts(t *testing.T) {
	types := []shortcode.Entry{{Key: "p", Label: "perf"}, {Key: "f", Label: "feat"}}
	envs := []shortcode.Entry{{Key: "p", Label: "prd"}}

	conflicts := config.FindKeyConflicts(types, envs)
	require.Len(t, conflicts, 1)

	got := ReassignConflicts(types, conflicts, []string{"E"})
	assert.Equal(t, "e", got[0].Key)
	assert.Equal(t, "p", types[0].Key, "input must not be modified")
	assert.Empty(t, config.FindKeyConflicts(got, envs))

	got = ReassignConflicts(types, conflicts, []string{"12"})
	assert.Equal(t, "p", got[0].Key)
}

func TestBuildConfig(t *testing.T) {
	types := []shortcode.Entry{{Key: "f", Label: "feat"}}
	envs := []shortcode.Entry{{Key: "p", Label: "prd"}}

	cfg := BuildConfig(SetupAnswers{
		Features:     config.Features{CardID: true, Type: true, Environment: true},
		Prefix:       " proj ",
		Types:        types,
		Environments: envs,
	})

	assert.Equal(t, "[{{prefix}}-{{card_id}}] {{type}}({{environment}}): <message>", cfg.Template)
	assert.Equal(t, template.Context{"prefix": "PROJ"}, cfg.Defaults)
	assert.Equal(t, types, cfg.Types)
	assert.Equal(t, envs, cfg.Environments)
	assert.True(t, cfg.History.Enabled)
	require.NoError(t, config.Validate(cfg))
}

func TestBuildConfig_DropsUnusedAnswers(t *testing.T) {
	cfg := BuildConfig(SetupAnswers{
		Features:     config.Features{CardID: false, Type: false},
		Prefix:       "PROJ",
		Types:        []shortcode.Entry{{Key: "f", Label: "feat"}},
		Environments: []shortcode.Entry{{Key: "p", Label: "prd"}},
	})

	assert.Equal(t, "<message>", cfg.Template)
	assert.Empty(t, cfg.Defaults)
	assert.Empty(t, cfg.Types)
	assert.Empty(t, cfg.Environments)
	require.NoError(t, config.Validate(cfg))
}

func TestBuildConfig_CardWithoutPrefix(t *testing.T) {
	cfg := BuildConfig(SetupAnswers{Features: config.Features{CardID: true}})
	assert.Equal(t, "[{{card_id}}] <message>", cfg.Template)
}
