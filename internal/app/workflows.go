package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/preguito/preguito/internal/pkg/git"
	"github.com/preguito/preguito/internal/pkg/ui"
)

// GitService runs the shortcut commands that wrap plain git workflows.
type GitService struct {
	gitClient git.Client
	uiManager ui.Manager
}

// NewGitService creates a GitService.
func NewGitService(gitClient git.Client, uiManager ui.Manager) *GitService {
	return &GitService{gitClient: gitClient, uiManager: uiManager}
}

// showOr prints output, or empty when there is nothing to show.
func (s *GitService) showOr(output, empty string) {
	if strings.TrimSpace(output) == "" {
		s.uiManager.ShowInfo(empty)
		return
	}
	s.uiManager.ShowOutput(output)
}

// QuickRebase updates branch from its remote and rebases the current branch onto it.
func (s *GitService) QuickRebase(ctx context.Context, branch string) error {
	if err := git.ValidateBranchName(branch); err != nil {
		return err
	}
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}

	current, err := s.gitClient.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	s.uiManager.ShowInfo("Current branch: " + current)

	steps := []struct {
		text, done string
		fn         func() error
	}{
		{"Checking out " + branch + "...", "Checked out " + branch + ".", func() error {
			return s.gitClient.Checkout(ctx, branch)
		}},
		{"Pulling " + branch + "...", "Pulled " + branch + ".", func() error {
			_, err := s.gitClient.Pull(ctx)
			return err
		}},
		{"Checking out " + current + "...", "Checked out " + current + ".", func() error {
			return s.gitClient.Checkout(ctx, current)
		}},
		{"Rebasing " + current + " onto " + branch + "...", "Rebase complete.", func() error {
			_, err := s.gitClient.Rebase(ctx, branch)
			return err
		}},
	}
	for _, st := range steps {
		if err := runStep(s.uiManager, st.text, st.done, st.fn); err != nil {
			return err
		}
	}
	return nil
}

// RebaseInteractive opens an interactive rebase over the last count commits.
func (s *GitService) RebaseInteractive(ctx context.Context, count int) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}
	s.uiManager.ShowInfo(fmt.Sprintf("Starting interactive rebase for the last %d commit(s)...", count))
	return s.gitClient.RebaseInteractive(ctx, count)
}

// RebaseEdit starts a rebase that pauses at hash for editing.
func (s *GitService) RebaseEdit(ctx context.Context, hash string) error {
	if err := git.ValidateHash(hash); err != nil {
		return err
	}
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}

	s.uiManager.ShowInfo("Starting edit rebase on commit " + hash + "...")
	if _, err := s.gitClient.RebaseEdit(ctx, hash); err != nil {
		return err
	}
	s.uiManager.ShowSuccess("Rebase paused at the target commit. Make your changes, then run:")
	s.uiManager.ShowSection("", []string{"git add . && git rebase --continue"})
	return nil
}

// Push pushes the current branch.
func (s *GitService) Push(ctx context.Context) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}
	return pushWithMode(ctx, s.gitClient, s.uiManager, git.PushNormal)
}

// PushUpstream pushes the current branch and sets origin as its upstream.
func (s *GitService) PushUpstream(ctx context.Context) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}

	branch, err := s.gitClient.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	return runStep(s.uiManager, "Pushing with --set-upstream origin "+branch+"...", "Pushed.", func() error {
		_, err := s.gitClient.PushUpstream(ctx, branch)
		return err
	})
}

// Undo soft-resets the last count commits and shows what is now staged.
func (s *GitService) Undo(ctx context.Context, count int) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}

	s.uiManager.ShowInfo(fmt.Sprintf("Undoing last %d commit(s)...", count))
	if _, err := s.gitClient.ResetSoft(ctx, count); err != nil {
		return err
	}
	s.uiManager.ShowSuccess(fmt.Sprintf("Undid last %d commit(s). Changes are staged.", count))

	status, err := s.gitClient.Status(ctx)
	if err != nil {
		return err
	}
	s.uiManager.ShowOutput(status)
	return nil
}

// Status shows the short status.
func (s *GitService) Status(ctx context.Context) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}
	out, err := s.gitClient.Status(ctx)
	if err != nil {
		return err
	}
	s.showOr(out, "Nothing to commit, working tree clean.")
	return nil
}

// Switch checks out branch, creating it first when create is set.
func (s *GitService) Switch(ctx context.Context, branch string, create bool) error {
	if err := git.ValidateBranchName(branch); err != nil {
		return err
	}
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}

	if create {
		s.uiManager.ShowInfo("Creating and switching to " + branch + "...")
		if err := s.gitClient.CreateBranch(ctx, branch); err != nil {
			return err
		}
	} else {
		s.uiManager.ShowInfo("Switching to " + branch + "...")
		if err := s.gitClient.Checkout(ctx, branch); err != nil {
			return err
		}
	}
	s.uiManager.ShowSuccess("On branch " + branch + ".")
	return nil
}

// Stash stashes local changes with an optional message.
func (s *GitService) Stash(ctx context.Context, msg string) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}

	text := "Stashing changes..."
	if msg != "" {
		text = "Stashing changes: " + msg + "..."
	}
	return runStep(s.uiManager, text, "Stashed.", func() error {
		_, err := s.gitClient.Stash(ctx, msg)
		return err
	})
}

// StashPop restores the latest stash.
func (s *GitService) StashPop(ctx context.Context) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}
	return runStep(s.uiManager, "Restoring stashed changes...", "Restored.", func() error {
		_, err := s.gitClient.StashPop(ctx)
		return err
	})
}

// StashList lists stashes.
func (s *GitService) StashList(ctx context.Context) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}
	out, err := s.gitClient.StashList(ctx)
	if err != nil {
		return err
	}
	s.showOr(out, "No stashes found.")
	return nil
}

// Log shows the last count commits.
func (s *GitService) Log(ctx context.Context, count int) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}
	out, err := s.gitClient.Log(ctx, count)
	if err != nil {
		return err
	}
	s.showOr(out, "No commits found.")
	return nil
}

// Find searches commit messages for keyword. count <= 0 means no limit.
func (s *GitService) Find(ctx context.Context, keyword string, count int) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}
	out, err := s.gitClient.LogGrep(ctx, keyword, count)
	if err != nil {
		return err
	}
	s.showOr(out, fmt.Sprintf("No commits found matching %q.", keyword))
	return nil
}

// Tag lists commits since tag, or every commit reachable from it when all is set.
func (s *GitService) Tag(ctx context.Context, tag string, all bool) error {
	if err := git.ValidateTagName(tag); err != nil {
		return err
	}
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}

	out, err := s.gitClient.LogSince(ctx, tag, all)
	if err != nil {
		return err
	}
	if all {
		s.uiManager.ShowInfo("Commits reachable from " + tag + ":")
		s.showOr(out, "No commits found.")
	} else {
		s.uiManager.ShowInfo("Commits since " + tag + ":")
		s.showOr(out, "No commits since this tag.")
	}
	return nil
}

// Diff shows the selected diff.
func (s *GitService) Diff(ctx context.Context, opts git.DiffOptions) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}
	out, err := s.gitClient.Diff(ctx, opts)
	if err != nil {
		return err
	}
	s.showOr(out, "No changes.")
	return nil
}
