// Package cmd contains the CLI command definitions for guito.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preguito/preguito/internal/app"
	"github.com/preguito/preguito/internal/pkg/config"
	apperrors "github.com/preguito/preguito/internal/pkg/errors"
	"github.com/preguito/preguito/internal/pkg/git"
	"github.com/preguito/preguito/internal/pkg/history"
	"github.com/preguito/preguito/internal/pkg/ui"
)

// NewRootCmd creates the root command for the guito CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "guito",
		Short: "Lazy git: templated commits and short git workflows",
		Long: `guito turns a few positional arguments into a full commit message
built from your project's template, and wraps everyday git workflows in
one or two letter commands.

  guito c 1234 fp add login endpoint
  => [PROJ-1234] feat(prd): add login endpoint

Run 'guito i' to create a configuration, then 'guito cfg' to see the
shortcodes and examples for it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			apperrors.SetVerbose(verbose)
		},
	}

	rootCmd.SetVersionTemplate(`guito {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: discovered .preguitorc)")

	addCommandGroups(rootCmd)
	addCommands(rootCmd)
	withErrorHandling(rootCmd)

	return rootCmd
}

// withErrorHandling wraps every RunE in the tree so that the details of a
// failure (git output, suggestion, and the full chain with --verbose) reach
// stderr. The error line itself is printed by the caller of Execute.
func withErrorHandling(cmd *cobra.Command) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			err := run(c, args)
			if err != nil {
				printErrorDetails(c.ErrOrStderr(), err)
			}
			return err
		}
	}
	for _, child := range cmd.Commands() {
		withErrorHandling(child)
	}
}

func printErrorDetails(w io.Writer, err error) {
	if apperrors.IsVerbose() {
		fmt.Fprint(w, apperrors.FormatErrorVerbose(err))
		return
	}
	parts := strings.SplitN(apperrors.FormatError(err), "\n", 2)
	if len(parts) == 2 {
		fmt.Fprintln(w, parts[1])
	}
}

func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "commit", Title: "Commit Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "git", Title: "Git Shortcuts:"})
	cmd.AddGroup(&cobra.Group{ID: "setup", Title: "Setup Commands:"})
}

func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newCommitCmd(), "commit")
	addGroupedCommand(cmd, newAmendPushCmd(), "commit")
	addGroupedCommand(cmd, newAmendPushLeaseCmd(), "commit")
	addGroupedCommand(cmd, newFixupCmd(), "commit")
	addGroupedCommand(cmd, newHistoryCmd(), "commit")

	addGroupedCommand(cmd, newRebaseCmd(), "git")
	addGroupedCommand(cmd, newRebaseInteractiveCmd(), "git")
	addGroupedCommand(cmd, newRebaseEditCmd(), "git")
	addGroupedCommand(cmd, newPushCmd(), "git")
	addGroupedCommand(cmd, newPushUpstreamCmd(), "git")
	addGroupedCommand(cmd, newUndoCmd(), "git")
	addGroupedCommand(cmd, newStatusCmd(), "git")
	addGroupedCommand(cmd, newSwitchCmd(), "git")
	addGroupedCommand(cmd, newStashCmd(), "git")
	addGroupedCommand(cmd, newStashPopCmd(), "git")
	addGroupedCommand(cmd, newStashListCmd(), "git")
	addGroupedCommand(cmd, newLogCmd(), "git")
	addGroupedCommand(cmd, newFindCmd(), "git")
	addGroupedCommand(cmd, newTagCmd(), "git")
	addGroupedCommand(cmd, newDiffCmd(), "git")

	addGroupedCommand(cmd, newInitCmd(), "setup")
	addGroupedCommand(cmd, newConfigCmd(), "setup")
}

func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}

// env is what a command needs once the configuration is loaded.
type env struct {
	cfg *config.Config
	ui  ui.Manager
	git git.Client
}

func newConfigManager(cmd *cobra.Command) (*config.ViperManager, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		apperrors.Debug("Using custom config path: %s", configPath)
	}
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}
	return mgr, nil
}

// loadEnv loads the configuration, or the default one when no file exists.
// An unreadable config is an error when strict is set. Otherwise the plain
// git shortcuts fall back to the defaults so they keep working.
func loadEnv(cmd *cobra.Command, strict bool) (*env, error) {
	mgr, err := newConfigManager(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := mgr.LoadOrDefault()
	if err != nil {
		if strict {
			return nil, err
		}
		apperrors.Warn("Ignoring unreadable config: %v", err)
		cfg = config.DefaultConfig()
	}

	return &env{
		cfg: cfg,
		ui:  ui.New(cfg.UI.ColorEnabled, cmd.OutOrStdout(), cmd.ErrOrStderr()),
		git: git.NewClient(),
	}, nil
}

// historyManager returns nil when history is disabled.
func (e *env) historyManager() history.Manager {
	if !e.cfg.History.Enabled || e.cfg.History.FilePath == "" {
		return nil
	}
	return history.NewFileManager(e.cfg.History.FilePath, e.cfg.History.MaxEntries)
}

func (e *env) commitService() *app.CommitService {
	return app.NewCommitService(e.git, e.ui, e.historyManager(), e.cfg)
}

func (e *env) gitService() *app.GitService {
	return app.NewGitService(e.git, e.ui)
}

// runGit loads a lenient env and runs fn with the git workflow service.
func runGit(cmd *cobra.Command, fn func(s *app.GitService) error) error {
	e, err := loadEnv(cmd, false)
	if err != nil {
		return err
	}
	return fn(e.gitService())
}
