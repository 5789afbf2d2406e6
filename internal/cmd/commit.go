package cmd

import (
	"github.com/spf13/cobra"

	"github.com/preguito/preguito/internal/app"
)

// CommitFlags holds the flags for the commit command.
type CommitFlags struct {
	Body    string
	Push    bool
	Force   bool
	DryRun  bool
	NoStage bool
}

func newCommitCmd() *cobra.Command {
	flags := &CommitFlags{}

	cmd := &cobra.Command{
		Use:     "c [card_id] [shortcodes] <message...>",
		Aliases: []string{"commit"},
		Short:   "Commit with a message rendered from the template",
		Long: `Stage everything and commit with a message rendered from the configured
template. The arguments depend on the enabled features: the card ID comes
first, then one token of shortcode letters, then the message words.

Examples:
  guito c 1234 fp add login endpoint     # card, type f + env p, message
  guito c 1234 x -p fix timeout          # commit and push
  guito c 1234 f -b "Longer body" msg    # with a commit body
  guito c 1234 f -d msg                  # print the message only`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Body, "body", "b", "", "Commit body")
	cmd.Flags().BoolVarP(&flags.Push, "push", "p", false, "Push after committing")
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "Push with --force-with-lease after committing")
	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "d", false, "Print the message without committing")
	cmd.Flags().BoolVarP(&flags.NoStage, "no-stage", "S", false, "Skip 'git add -A' and commit what is staged")

	return cmd
}

func runCommit(cmd *cobra.Command, args []string, flags *CommitFlags) error {
	e, err := loadEnv(cmd, true)
	if err != nil {
		return err
	}

	_, err = e.commitService().Commit(cmd.Context(), args, &app.CommitOptions{
		Body:    flags.Body,
		Push:    flags.Push,
		Force:   flags.Force,
		DryRun:  flags.DryRun,
		NoStage: flags.NoStage,
	})
	return err
}

func newAmendPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ap",
		Short: "Amend the last commit with all changes and push --force",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, false)
			if err != nil {
				return err
			}
			return e.commitService().AmendPush(cmd.Context(), false)
		},
	}
}

func newAmendPushLeaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apl",
		Short: "Amend the last commit with all changes and push --force-with-lease",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, false)
			if err != nil {
				return err
			}
			return e.commitService().AmendPush(cmd.Context(), true)
		},
	}
}

func newFixupCmd() *cobra.Command {
	var push, force bool

	cmd := &cobra.Command{
		Use:   "cf <hash>",
		Short: "Create a fixup! commit for the given commit",
		Long: `Stage everything and create a fixup! commit targeting <hash>, ready
for 'git rebase -i --autosquash'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, false)
			if err != nil {
				return err
			}
			return e.commitService().Fixup(cmd.Context(), args[0], push, force)
		},
	}

	cmd.Flags().BoolVarP(&push, "push", "p", false, "Push after committing")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Push with --force-with-lease after committing")

	return cmd
}
