package app

import (
	"fmt"

	"github.com/preguito/preguito/internal/pkg/config"
	"github.com/preguito/preguito/internal/pkg/positional"
	"github.com/preguito/preguito/internal/pkg/shortcode"
	"github.com/preguito/preguito/internal/pkg/template"
)

// Example is a sample command line and the commit title it produces.
type Example struct {
	Command string
	Result  string
}

// ExampleFlags summarizes the commit flags shown under the examples.
const ExampleFlags = "Flags: -p (push)  -f (force push)  -d (dry-run)  -S (skip staging)"

const (
	exampleCardID  = "1234"
	exampleMessage = "add login endpoint"
)

// UsageExamples renders sample commits for cfg through the real template
// engine. The examples follow the enabled features.
func UsageExamples(cfg *config.Config) []Example {
	f := cfg.Features
	var typ, env *shortcode.Entry
	if len(cfg.Types) > 0 {
		typ = &cfg.Types[0]
	}
	if len(cfg.Environments) > 0 {
		env = &cfg.Environments[0]
	}

	switch {
	case f.CardID && f.Type && f.Environment && typ != nil && env != nil:
		out := []Example{example(cfg, exampleCardID, typ, env, exampleMessage)}
		if len(cfg.Types) > 1 && len(cfg.Environments) > 1 {
			out = append(out, example(cfg, "5678", &cfg.Types[1], &cfg.Environments[1], "fix timeout bug"))
		}
		return out
	case f.CardID && f.Type && typ != nil:
		return []Example{example(cfg, exampleCardID, typ, nil, exampleMessage)}
	case f.CardID && f.Environment && env != nil:
		return []Example{example(cfg, exampleCardID, nil, env, exampleMessage)}
	case f.Type && f.Environment && typ != nil && env != nil:
		return []Example{example(cfg, "", typ, env, exampleMessage)}
	case f.Type && typ != nil:
		return []Example{example(cfg, "", typ, nil, exampleMessage)}
	case f.CardID:
		return []Example{example(cfg, exampleCardID, nil, nil, exampleMessage)}
	default:
		return []Example{{
			Command: fmt.Sprintf("guito c %q", exampleMessage),
			Result:  exampleMessage,
		}}
	}
}

func example(cfg *config.Config, cardID string, typ, env *shortcode.Entry, msg string) Example {
	values := template.Context{}
	cmd := "guito c"
	if cardID != "" {
		values[positional.CardIDKey] = cardID
		cmd += " " + cardID
	}

	codes := ""
	if typ != nil {
		values[shortcode.TypeKey] = typ.Label
		codes += typ.Key
	}
	if env != nil {
		values[shortcode.EnvironmentKey] = env.Label
		codes += env.Key
	}
	if codes != "" {
		cmd += " " + codes
	}

	result, err := template.Render(cfg.Template, template.Merge(cfg.Defaults, values), msg)
	if err != nil {
		result = err.Error()
	}
	return Example{
		Command: fmt.Sprintf("%s %q", cmd, msg),
		Result:  result,
	}
}
