// Package shortcode resolves single-letter codes into commit type and
// environment labels.
package shortcode

import (
	"strings"

	apperrors "github.com/preguito/preguito/internal/pkg/errors"
	"github.com/preguito/preguito/internal/pkg/template"
)

// Context keys produced by a resolution.
const (
	TypeKey        = "type"
	EnvironmentKey = "environment"
)

// Entry is one selectable value, e.g. key "f" for label "feat".
type Entry struct {
	Key   string `json:"key" yaml:"key" mapstructure:"key"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// String renders the entry as key=label.
func (e Entry) String() string {
	return e.Key + "=" + e.Label
}

// Lookup returns the entry with the given key.
func Lookup(entries []Entry, key string) (Entry, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolution is the outcome of resolving a code string. Empty fields were
// not resolved.
type Resolution struct {
	Type        string
	Environment string
}

// Values returns the resolved labels keyed by their template variable.
// Unresolved fields are omitted so that their template segment is cleaned up.
func (r Resolution) Values() template.Context {
	ctx := template.Context{}
	if r.Type != "" {
		ctx[TypeKey] = r.Type
	}
	if r.Environment != "" {
		ctx[EnvironmentKey] = r.Environment
	}
	return ctx
}

// Resolve maps each character of codes to a type or environment label.
//
// Only enabled alphabets take part. Each character is checked for
// ambiguity first, then for a repeated type or environment, then for being
// unknown; the first failure stops the scan. A type is required when types
// are enabled, an environment never is.
func Resolve(codes string, types, envs []Entry, typeEnabled, envEnabled bool) (Resolution, error) {
	var res Resolution
	for _, r := range codes {
		next, err := step(res, codes, string(r), types, envs, typeEnabled, envEnabled)
		if err != nil {
			return Resolution{}, err
		}
		res = next
	}

	if typeEnabled && res.Type == "" {
		return Resolution{}, apperrors.Newf(apperrors.ErrMissingTypeShortcode,
			"no type shortcode found in %q (valid types: %s)", codes, FormatEntries(types)).
			WithContext("codes", codes).
			WithContext("valid", FormatEntries(types))
	}
	return res, nil
}

// step folds one code character into the resolution so far.
func step(res Resolution, codes, code string, types, envs []Entry, typeEnabled, envEnabled bool) (Resolution, error) {
	var typ, env Entry
	var isType, isEnv bool
	if typeEnabled {
		typ, isType = Lookup(types, code)
	}
	if envEnabled {
		env, isEnv = Lookup(envs, code)
	}

	switch {
	case isType && isEnv:
		return res, apperrors.Newf(apperrors.ErrAmbiguousShortcode,
			"shortcode '%s' is ambiguous: matches type %q and environment %q", code, typ.Label, env.Label).
			WithContext("shortcode", code).
			WithContext("type_label", typ.Label).
			WithContext("environment_label", env.Label).
			WithSuggestion("Give types and environments distinct keys with 'guito init'")
	case isType && res.Type != "":
		return res, apperrors.Newf(apperrors.ErrMultipleTypeShortcodes,
			"multiple type shortcodes in %q (%s and %s), only one type is allowed", codes, res.Type, typ.Label).
			WithContext("codes", codes).
			WithContext("shortcode", code)
	case isEnv && res.Environment != "":
		return res, apperrors.Newf(apperrors.ErrMultipleEnvironmentShortcodes,
			"multiple environment shortcodes in %q (%s and %s), only one environment is allowed", codes, res.Environment, env.Label).
			WithContext("codes", codes).
			WithContext("shortcode", code)
	case isType:
		res.Type = typ.Label
	case isEnv:
		res.Environment = env.Label
	default:
		valid := validPairs(types, envs)
		return res, apperrors.Newf(apperrors.ErrUnknownShortcode,
			"unknown shortcode '%s' in %q (valid: %s)", code, codes, valid).
			WithContext("codes", codes).
			WithContext("shortcode", code).
			WithContext("valid", valid)
	}
	return res, nil
}

// validPairs lists both alphabets, enabled or not, as guidance.
func validPairs(types, envs []Entry) string {
	all := make([]Entry, 0, len(types)+len(envs))
	all = append(all, types...)
	all = append(all, envs...)
	return FormatEntries(all)
}

// FormatEntries renders entries as "k=label, k=label".
func FormatEntries(entries []Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
