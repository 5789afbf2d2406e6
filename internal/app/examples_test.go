package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/preguito/preguito/internal/pkg/config"
	"github.com/preguito/preguito/internal/pkg/shortcode"
	"github.com/preguito/preguito/internal/pkg/template"
)

func exampleConfig(f config.Features, prefix string, types, envs []shortcode.Entry) *config.Config {
	defaults := template.Context{}
	if prefix != "" {
		defaults["prefix"] = prefix
	}
	return &config.Config{
		Template:     config.GenerateTemplate(f, prefix != ""),
		Features:     f,
		Types:        types,
		Environments: envs,
		Defaults:     defaults,
	}
}

func TestUsageExamples(t *testing.T) {
	types := []shortcode.Entry{{Key: "f", Label: "feat"}, {Key: "x", Label: "fix"}}
	envs := []shortcode.Entry{{Key: "p", Label: "prd"}, {Key: "u", Label: "uat"}}

	tests := []struct {
		name string
		cfg  *config.Config
		want []Example
	}{
		{
			name: "all features with prefix",
			cfg:  exampleConfig(config.Features{CardID: true, Type: true, Environment: true}, "PROJ", types, envs),
			want: []Example{
				{`guito c 1234 fp "add login endpoint"`, "[PROJ-1234] feat(prd): add login endpoint"},
				{`guito c 5678 xu "fix timeout bug"`, "[PROJ-5678] fix(uat): fix timeout bug"},
			},
		},
		{
			name: "all features, single entries",
			cfg:  exampleConfig(config.Features{CardID: true, Type: true, Environment: true}, "", types[:1], envs),
			want: []Example{
				{`guito c 1234 fp "add login endpoint"`, "[1234] feat(prd): add login endpoint"},
			},
		},
		{
			name: "card and type",
			cfg:  exampleConfig(config.Features{CardID: true, Type: true}, "", types, nil),
			want: []Example{
				{`guito c 1234 f "add login endpoint"`, "[1234] feat: add login endpoint"},
			},
		},
		{
			name: "type and environment",
			cfg:  exampleConfig(config.Features{Type: true, Environment: true}, "", types, envs),
			want: []Example{
				{`guito c fp "add login endpoint"`, "feat(prd): add login endpoint"},
			},
		},
		{
			name: "type only",
			cfg:  config.DefaultConfig(),
			want: []Example{
				{`guito c f "add login endpoint"`, "feat: add login endpoint"},
			},
		},
		{
			name: "card only",
			cfg:  exampleConfig(config.Features{CardID: true}, "", nil, nil),
			want: []Example{
				{`guito c 1234 "add login endpoint"`, "[1234] add login endpoint"},
			},
		},
		{
			name: "nothing enabled",
			cfg:  exampleConfig(config.Features{}, "", nil, nil),
			want: []Example{
				{`guito c "add login endpoint"`, "add login endpoint"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UsageExamples(tt.cfg))
		})
	}
}

func TestUsageExamples_MatchCompose(t *testing.T) {
	cfg := exampleConfig(config.Features{CardID: true, Type: true, Environment: true}, "PROJ",
		[]shortcode.Entry{{Key: "f", Label: "feat"}}, []shortcode.Entry{{Key: "p", Label: "prd"}})
	service := NewCommitService(nil, nil, nil, cfg)

	ex := UsageExamples(cfg)[0]
	draft, err := service.Compose([]string{"1234", "fp", "add", "login", "endpoint"}, "")

	assert.NoError(t, err)
	assert.Equal(t, ex.Result, draft.Text())
}
