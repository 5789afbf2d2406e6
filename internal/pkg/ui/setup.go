package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/preguito/preguito/internal/pkg/config"
	"github.com/preguito/preguito/internal/pkg/shortcode"
	"github.com/preguito/preguito/internal/pkg/template"
)

// Banner is printed when the setup wizard starts.
const Banner = `
          ⢿⣿⣿⠿⠿⠿⠻⠿⢿⡿⣿
     ⣿⡿⠟⠉⠈⠉⠉⠄⢠⠄⠄⢀⠄⠄⡬⠛⢿⢿⣿⣿
  ⣿⡿⡿⠉⠄⠄⠄⠄⠄⠄⠅⠄⠅⠄⠐⠄⠄⠄⠁⠤⠄⠛⢿⢿⣿
 ⣿⣿⠍⠄⠄⠄⠄⠄⠄⠄⠄⣀⣀⠄⣀⣠⣀⠄⢈⣑⣢⣤⡄⠔⠫⢻⣿⣿
⣿⡏⠂⠄⠄⢀⣠⣤⣤⣶⣾⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣮⣔⠂⡙⣿⣿
⡿⠄⠄⣠⣼⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣦⣈⣿
⠇⠄⢠⣿⣿⣿⣿⣿⡿⠿⣿⣿⣿⣿⣿⣿⣿⣿⡟⠿⠿⢿⡿⣿⣿⣿⣿⣿⡧⣼
⠄⠄⠽⠿⠟⠋⠁⠙⠄⢠⣿⡿⢿⣿⣿⣿⣿⣿⣷⡠⢌⣧⠄⠈⠛⠉⠛⠐⡋⢹
⠄⠄⠄⠄⠄⠄⠄⢀⣠⣾⡿⠑⠚⠋⠛⠛⠻⢿⣿⣿⣶⣤⡄⢀⣀⣀⡀⠈⠄⢸
⣄⠄⠄⠄⢰⣾⠟⠋⠛⠛⠂⠄⠄⠄⠄⠒⠂⠛⡿⢟⠻⠃⠄⢼⣿⣿⣷⠤⠁⢸
⣿⡄⠄⢀⢝⢓⠄⠄⠄⠄⠄⠄⠄⠄⠠⠠⠶⢺⣿⣯⣵⣦⣴⣿⣿⣿⣿⡏⠄⢸
 ⣿⡀⠄⠈⠄⠄⠄⠠⢾⣷⣄⢄⣀⡈⡀⠠⣾⣿⣿⣿⣿⣿⣿⣿⡿⠿⢏⣀⣾
  ⣷⣄⠄⠄⠄⢀⠈⠈⠙⠑⠗⠙⠙⠛⠄⠈⠹⠻⢿⡻⣿⠿⢿⣝⡑⢫⣾
    ⣿⣆⡀⠄⠄⠄⠄⠄⠄⠄⠄⠄⠄⠄⠄⠄⠄⠄⠑⠐⠚⣨⣤⣾

        p r e g u i t o
         lazy git, happy dev
`

// SelectEntries returns the predefined entries whose label or key is in
// selected, keeping predefined order. An empty selection, or one naming
// nothing known, yields every entry.
func SelectEntries(predefined []shortcode.Entry, selected []string) []shortcode.Entry {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "all" {
			return append([]shortcode.Entry(nil), predefined...)
		}
		if s != "" {
			want[s] = true
		}
	}

	var out []shortcode.Entry
	for _, e := range predefined {
		if want[e.Label] || want[e.Key] {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return append([]shortcode.Entry(nil), predefined...)
	}
	return out
}

// NormalizeKey lowercases and trims a typed key. A blank answer keeps fallback.
func NormalizeKey(answer, fallback string) string {
	key := strings.ToLower(strings.TrimSpace(answer))
	if key == "" {
		return fallback
	}
	return key
}

// CustomizeKeys applies answers[i] as the new key for entries[i]. Invalid
// or already used keys fall back to the entry's current key; each fallback
// is reported in notes.
func CustomizeKeys(entries []shortcode.Entry, answers []string) (result []shortcode.Entry, notes []string) {
	used := make(map[string]bool, len(entries))
	for i, e := range entries {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		key := NormalizeKey(answer, e.Key)

		if !config.IsValidKey(key) {
			notes = append(notes, fmt.Sprintf("Invalid key %q, keeping %q.", key, e.Key))
			key = e.Key
		}
		if used[key] {
			notes = append(notes, fmt.Sprintf("Key %q already used, keeping %q.", key, e.Key))
			key = e.Key
		}

		used[key] = true
		result = append(result, shortcode.Entry{Key: key, Label: e.Label})
	}
	return result, notes
}

// ReassignConflicts gives the type named by conflicts[i] the key answers[i].
// Answers that are not a single letter leave the type unchanged.
func ReassignConflicts(types []shortcode.Entry, conflicts []config.KeyConflict, answers []string) []shortcode.Entry {
	out := append([]shortcode.Entry(nil), types...)
	for i, c := range conflicts {
		if i >= len(answers) {
			break
		}
		key := NormalizeKey(answers[i], "")
		if !config.IsValidKey(key) {
			continue
		}
		for j := range out {
			if out[j].Key == c.Key && out[j].Label == c.Type {
				out[j].Key = key
				break
			}
		}
	}
	return out
}

// SetupAnswers is what the wizard collected.
type SetupAnswers struct {
	Features     config.Features
	Prefix       string
	Types        []shortcode.Entry
	Environments []shortcode.Entry
}

// BuildConfig turns wizard answers into a configuration. Settings not asked
// about keep their defaults.
func BuildConfig(a SetupAnswers) *config.Config {
	cfg := config.DefaultConfig()
	defaults := template.Context{}
	if p := strings.ToUpper(strings.TrimSpace(a.Prefix)); a.Features.CardID && p != "" {
		defaults["prefix"] = p
	}

	cfg.Features = a.Features
	cfg.Template = config.GenerateTemplate(a.Features, defaults["prefix"] != "")
	cfg.Defaults = defaults
	cfg.Types = []shortcode.Entry{}
	cfg.Environments = []shortcode.Entry{}
	if a.Features.Type {
		cfg.Types = append(cfg.Types, a.Types...)
	}
	if a.Features.Environment {
		cfg.Environments = append(cfg.Environments, a.Environments...)
	}
	return cfg
}

// RunSetupWizard walks the user through building a configuration with huh
// forms. It does not save anything.
func RunSetupWizard(out io.Writer) (*config.Config, error) {
	fmt.Fprint(out, Banner+"\n")
	fmt.Fprintln(out, "Welcome to the setup wizard!")
	fmt.Fprintln(out)

	var a SetupAnswers

	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Include card/ticket ID in commits?").
			Value(&a.Features.CardID),
		huh.NewConfirm().
			Title("Include commit type (feat, fix, chore...)?").
			Value(&a.Features.Type),
		huh.NewConfirm().
			Title("Include environment (prd, uat, dev...)?").
			Value(&a.Features.Environment),
	)).Run()
	if err != nil {
		return nil, err
	}

	if a.Features.CardID {
		err := huh.NewInput().
			Title("Project prefix/acronym").
			Description("e.g. PROJ, leave empty to skip").
			Value(&a.Prefix).
			Validate(func(s string) error {
				if strings.ContainsAny(strings.TrimSpace(s), " \t{}<>") {
					return fmt.Errorf("prefix cannot contain spaces or template characters")
				}
				return nil
			}).
			Run()
		if err != nil {
			return nil, err
		}
	}

	if a.Features.Type {
		if a.Types, err = pickEntries(out, "Which commit types?", config.PredefinedTypes); err != nil {
			return nil, err
		}
	}
	if a.Features.Environment {
		if a.Environments, err = pickEntries(out, "Which environments?", config.PredefinedEnvironments); err != nil {
			return nil, err
		}
	}

	if a.Features.Type && a.Features.Environment {
		for conflicts := config.FindKeyConflicts(a.Types, a.Environments); len(conflicts) > 0; conflicts = config.FindKeyConflicts(a.Types, a.Environments) {
			fmt.Fprintln(out, "Letter conflicts detected:")
			for _, c := range conflicts {
				fmt.Fprintf(out, "  %q is used for both type %q and environment %q\n", c.Key, c.Type, c.Environment)
			}
			answers, err := askKeys(conflictTitles(conflicts), conflictKeys(conflicts))
			if err != nil {
				return nil, err
			}
			a.Types = ReassignConflicts(a.Types, conflicts, answers)
		}
	}

	return BuildConfig(a), nil
}

// pickEntries asks which predefined entries to keep, then lets the user
// change their letters.
func pickEntries(out io.Writer, title string, predefined []shortcode.Entry) ([]shortcode.Entry, error) {
	options := make([]huh.Option[string], 0, len(predefined))
	selected := make([]string, 0, len(predefined))
	for _, e := range predefined {
		options = append(options, huh.NewOption(fmt.Sprintf("%s  %s", e.Key, e.Label), e.Label))
		selected = append(selected, e.Label)
	}

	err := huh.NewMultiSelect[string]().
		Title(title).
		Options(options...).
		Value(&selected).
		Run()
	if err != nil {
		return nil, err
	}

	entries := SelectEntries(predefined, selected)

	titles := make([]string, len(entries))
	keys := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Label
		keys[i] = e.Key
	}
	answers, err := askKeys(titles, keys)
	if err != nil {
		return nil, err
	}

	entries, notes := CustomizeKeys(entries, answers)
	for _, n := range notes {
		fmt.Fprintln(out, "  "+n)
	}
	return entries, nil
}

// askKeys shows one input per title, prefilled with the matching key.
func askKeys(titles, keys []string) ([]string, error) {
	answers := make([]string, len(titles))
	fields := make([]huh.Field, len(titles))
	for i := range titles {
		answers[i] = keys[i]
		fields[i] = huh.NewInput().
			Title(titles[i]).
			Description("shortcode letter").
			CharLimit(1).
			Value(&answers[i])
	}
	if len(fields) == 0 {
		return answers, nil
	}

	err := huh.NewForm(huh.NewGroup(fields...).
		Title("Customize shortcode letters (Enter to keep default)")).Run()
	return answers, err
}

func conflictTitles(conflicts []config.KeyConflict) []string {
	out := make([]string, len(conflicts))
	for i, c := range conflicts {
		out[i] = c.Type
	}
	return out
}

func conflictKeys(conflicts []config.KeyConflict) []string {
	out := make([]string, len(conflicts))
	for i, c := range conflicts {
		out[i] = c.Key
	}
	return out
}
