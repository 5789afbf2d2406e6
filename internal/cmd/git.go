package cmd

import (
	"github.com/spf13/cobra"

	"github.com/preguito/preguito/internal/app"
	"github.com/preguito/preguito/internal/pkg/git"
)

const (
	// DefaultLogCount is the number of commits 'guito l' shows.
	DefaultLogCount = 10
	// DefaultUndoCount is the number of commits 'guito u' resets.
	DefaultUndoCount = 1
)

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newRebaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "r <branch>",
		Aliases: []string{"rebase"},
		Short:   "Update a branch and rebase the current branch onto it",
		Long: `Check out <branch>, pull it, come back and rebase the current branch
onto it.

Examples:
  guito r main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.QuickRebase(cmd.Context(), args[0])
			})
		},
	}
}

func newRebaseInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ri <count>",
		Short: "Interactive rebase over the last <count> commits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := app.ParseCount(args[0], 1)
			if err != nil {
				return err
			}
			return runGit(cmd, func(s *app.GitService) error {
				return s.RebaseInteractive(cmd.Context(), count)
			})
		},
	}
}

func newRebaseEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "re <hash>",
		Short: "Start a rebase that stops at <hash> for editing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.RebaseEdit(cmd.Context(), args[0])
			})
		},
	}
}

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "p",
		Aliases: []string{"push"},
		Short:   "Push the current branch",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.Push(cmd.Context())
			})
		},
	}
}

func newPushUpstreamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pu",
		Short: "Push the current branch and set origin as upstream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.PushUpstream(cmd.Context())
			})
		},
	}
}

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "u [count]",
		Aliases: []string{"undo"},
		Short:   "Undo the last commits, keeping their changes staged",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := app.ParseCount(optionalArg(args), DefaultUndoCount)
			if err != nil {
				return err
			}
			return runGit(cmd, func(s *app.GitService) error {
				return s.Undo(cmd.Context(), count)
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "s",
		Aliases: []string{"status"},
		Short:   "Show the short status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.Status(cmd.Context())
			})
		},
	}
}

func newSwitchCmd() *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:     "sw <branch>",
		Aliases: []string{"switch"},
		Short:   "Switch to a branch",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.Switch(cmd.Context(), args[0], create)
			})
		},
	}

	cmd.Flags().BoolVarP(&create, "new", "n", false, "Create the branch first")

	return cmd
}

func newStashCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "st",
		Short: "Stash local changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.Stash(cmd.Context(), message)
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Stash message")

	return cmd
}

func newStashPopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stp",
		Short: "Restore the latest stash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.StashPop(cmd.Context())
			})
		},
	}
}

func newStashListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stl",
		Short: "List stashes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.StashList(cmd.Context())
			})
		},
	}
}

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "l [count]",
		Aliases: []string{"log"},
		Short:   "Show the last commits, one line each",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := app.ParseCount(optionalArg(args), DefaultLogCount)
			if err != nil {
				return err
			}
			return runGit(cmd, func(s *app.GitService) error {
				return s.Log(cmd.Context(), count)
			})
		},
	}
}

func newFindCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "f <keyword>",
		Aliases: []string{"find"},
		Short:   "Search commit messages on all branches",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("limit") {
				if _, err := app.ParseCount(cmd.Flag("limit").Value.String(), 0); err != nil {
					return err
				}
			}
			return runGit(cmd, func(s *app.GitService) error {
				return s.Find(cmd.Context(), args[0], limit)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of commits to show")

	return cmd
}

func newTagCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "t <tag>",
		Aliases: []string{"tag"},
		Short:   "Show commits since a tag",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.Tag(cmd.Context(), args[0], all)
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show every commit reachable from the tag")

	return cmd
}

func newDiffCmd() *cobra.Command {
	var opts git.DiffOptions

	cmd := &cobra.Command{
		Use:     "d",
		Aliases: []string{"diff"},
		Short:   "Show the working tree diff",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, func(s *app.GitService) error {
				return s.Diff(cmd.Context(), opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Staged, "staged", "s", false, "Show staged changes")
	cmd.Flags().BoolVar(&opts.Stat, "stat", false, "Show a diffstat")
	cmd.Flags().BoolVarP(&opts.NameOnly, "name-only", "n", false, "Show changed file names only")

	return cmd
}
