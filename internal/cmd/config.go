package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/preguito/preguito/internal/app"
	"github.com/preguito/preguito/internal/pkg/config"
	apperrors "github.com/preguito/preguito/internal/pkg/errors"
	"github.com/preguito/preguito/internal/pkg/shortcode"
	"github.com/preguito/preguito/internal/pkg/ui"
)

const noConfigMessage = `No config found. Run "guito i" to create one.`

func newInitCmd() *cobra.Command {
	var useDefault bool

	cmd := &cobra.Command{
		Use:     "i",
		Aliases: []string{"init"},
		Short:   "Setup wizard to create your guito config",
		Long: `Walk through the features to enable, the card prefix and the
shortcode letters, then save the configuration.

With --default, write the default configuration without prompts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if useDefault {
				if err := mgr.Save(config.DefaultConfig()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Config written to %s\n", mgr.SavePath())
				return nil
			}

			cfg, err := ui.RunSetupWizard(out)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidArguments, "setup cancelled")
			}
			if err := mgr.Save(cfg); err != nil {
				return err
			}

			printSetupSummary(out, mgr.SavePath(), cfg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useDefault, "default", false, "Use the default config without prompts")

	return cmd
}

func printSetupSummary(out io.Writer, path string, cfg *config.Config) {
	rule := strings.Repeat("-", 37)
	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "Setup complete!")
	fmt.Fprintln(out)
	printExamples(out, cfg)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Config saved to %s\n", path)
	fmt.Fprintf(out, "  Template: %s\n", cfg.Template)
	if len(cfg.Types) > 0 || len(cfg.Environments) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Your shortcodes:")
		if len(cfg.Types) > 0 {
			fmt.Fprintf(out, "     Types: %s\n", shortcode.FormatEntries(cfg.Types))
		}
		if len(cfg.Environments) > 0 {
			fmt.Fprintf(out, "     Envs:  %s\n", shortcode.FormatEntries(cfg.Environments))
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Run 'guito cfg' to view your config anytime.")
	fmt.Fprintln(out, rule)
}

// ConfigFlags holds the flags for the config command.
type ConfigFlags struct {
	Path     bool
	Template bool
	YAML     bool
}

func newConfigCmd() *cobra.Command {
	flags := &ConfigFlags{}

	cmd := &cobra.Command{
		Use:     "cfg",
		Aliases: []string{"config"},
		Short:   "Show the current config, shortcodes and usage examples",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Path, "path", false, "Show only the config file path")
	cmd.Flags().BoolVar(&flags.Template, "template", false, "Show only the template")
	cmd.Flags().BoolVar(&flags.YAML, "yaml", false, "Dump the loaded config as YAML")

	return cmd
}

func runConfigShow(cmd *cobra.Command, flags *ConfigFlags) error {
	out := cmd.OutOrStdout()

	mgr, err := newConfigManager(cmd)
	if err != nil {
		return err
	}
	cfg, err := mgr.Load()
	if apperrors.HasCode(err, apperrors.ErrConfigNotFound) {
		fmt.Fprintln(out, noConfigMessage)
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case flags.Path:
		fmt.Fprintln(out, mgr.GetConfigPath())
		return nil
	case flags.Template:
		fmt.Fprintln(out, cfg.Template)
		return nil
	case flags.YAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to encode config")
		}
		return enc.Close()
	}

	uiMgr := ui.New(cfg.UI.ColorEnabled, out, cmd.ErrOrStderr())
	uiMgr.ShowInfo("Config file: " + mgr.GetConfigPath())
	uiMgr.ShowInfo("Template: " + cfg.Template)
	uiMgr.ShowSection("Features:", []string{
		"Card ID: " + enabledText(cfg.Features.CardID),
		"Commit type: " + enabledText(cfg.Features.Type),
		"Environment: " + enabledText(cfg.Features.Environment),
	})
	if p := cfg.Prefix(); p != "" {
		uiMgr.ShowInfo("Prefix: " + p)
	}
	if len(cfg.Types) > 0 {
		uiMgr.ShowSection("Types:", entryLines(cfg.Types))
	}
	if len(cfg.Environments) > 0 {
		uiMgr.ShowSection("Environments:", entryLines(cfg.Environments))
	}

	fmt.Fprintln(out)
	printExamples(out, cfg)
	return nil
}

func enabledText(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func entryLines(entries []shortcode.Entry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return lines
}

func printExamples(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Usage examples:")
	for _, ex := range app.UsageExamples(cfg) {
		fmt.Fprintf(out, "  %s\n", ex.Command)
		fmt.Fprintf(out, "  => %s\n", ex.Result)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", app.ExampleFlags)
}
