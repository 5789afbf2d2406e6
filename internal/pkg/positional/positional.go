// Package positional turns 'guito c' arguments into a template context and
// commit message.
package positional

import (
	"strings"

	"github.com/preguito/preguito/internal/pkg/config"
	apperrors "github.com/preguito/preguito/internal/pkg/errors"
	"github.com/preguito/preguito/internal/pkg/shortcode"
	"github.com/preguito/preguito/internal/pkg/template"
)

// CardIDKey is the context key the card argument is stored under.
const CardIDKey = "card_id"

// Usage describes the argument layout accepted by Parse.
const Usage = "guito c [card_id] [shortcodes] <message...>"

// Result is a parsed commit invocation.
type Result struct {
	// Context holds defaults overlaid with the card id and resolved shortcodes.
	Context template.Context
	// Message is the free-form text for the template's message slot.
	Message string
	// Body is the optional commit body, passed through unchanged.
	Body string
}

// Parse consumes args in order: the card id when enabled, the shortcode
// token when types or environments are enabled, then the message words.
func Parse(args []string, cfg *config.Config, body string) (*Result, error) {
	if len(args) == 0 {
		return nil, apperrors.Newf(apperrors.ErrNoArguments, "no arguments provided. Usage: %s", Usage)
	}

	resolved := template.Context{}
	rest := args

	if cfg.Features.CardID {
		if len(rest) == 0 {
			return nil, apperrors.New(apperrors.ErrMissingCardID, "missing card ID. It must be the first argument")
		}
		resolved[CardIDKey] = rest[0]
		rest = rest[1:]
	}

	if cfg.Features.UsesShortcodes() {
		if len(rest) == 0 {
			return nil, apperrors.New(apperrors.ErrMissingShortcodes,
				"missing shortcodes argument. Provide type/environment shortcodes").
				WithSuggestion("Valid shortcodes: " + validShortcodes(cfg))
		}
		res, err := shortcode.Resolve(rest[0], cfg.Types, cfg.Environments,
			cfg.Features.Type, cfg.Features.Environment)
		if err != nil {
			return nil, err
		}
		for k, v := range res.Values() {
			resolved[k] = v
		}
		rest = rest[1:]
	}

	if len(rest) == 0 {
		return nil, apperrors.New(apperrors.ErrMissingCommitMessage, "missing commit message")
	}

	return &Result{
		Context: template.Merge(cfg.Defaults, resolved),
		Message: strings.Join(rest, " "),
		Body:    body,
	}, nil
}

func validShortcodes(cfg *config.Config) string {
	var parts []string
	if cfg.Features.Type && len(cfg.Types) > 0 {
		parts = append(parts, shortcode.FormatEntries(cfg.Types))
	}
	if cfg.Features.Environment && len(cfg.Environments) > 0 {
		parts = append(parts, shortcode.FormatEntries(cfg.Environments))
	}
	return strings.Join(parts, ", ")
}
