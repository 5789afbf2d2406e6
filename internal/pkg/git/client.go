// Package git runs the git operations behind guito's commands.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/preguito/preguito/internal/pkg/errors"
)

const (
	// GitCommandTimeout is the default timeout for local git commands.
	GitCommandTimeout = 10 * time.Second
	// NetworkCommandTimeout applies to commands that talk to a remote.
	NetworkCommandTimeout = 60 * time.Second
)

// PushMode selects how a push treats diverged remote history.
type PushMode int

const (
	PushNormal PushMode = iota
	PushForce
	PushForceWithLease
)

// String returns the git flag for the mode, or "" for a plain push.
func (m PushMode) String() string {
	switch m {
	case PushForce:
		return "--force"
	case PushForceWithLease:
		return "--force-with-lease"
	default:
		return ""
	}
}

// DiffOptions selects the variant of 'git diff' to show.
type DiffOptions struct {
	Staged   bool
	Stat     bool
	NameOnly bool
}

func (o DiffOptions) args() []string {
	args := []string{"diff"}
	if o.Staged {
		args = append(args, "--staged")
	}
	if o.Stat {
		args = append(args, "--stat")
	}
	if o.NameOnly {
		args = append(args, "--name-only")
	}
	return args
}

// Client defines the git operations guito needs.
type Client interface {
	IsRepo(ctx context.Context) bool
	CurrentBranch(ctx context.Context) (string, error)
	HasStagedChanges(ctx context.Context) (bool, error)
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string) (string, error)
	CommitAmend(ctx context.Context) (string, error)
	CommitFixup(ctx context.Context, hash string) (string, error)
	Push(ctx context.Context, mode PushMode) (string, error)
	PushUpstream(ctx context.Context, branch string) (string, error)
	Checkout(ctx context.Context, branch string) error
	CreateBranch(ctx context.Context, branch string) error
	Pull(ctx context.Context) (string, error)
	Rebase(ctx context.Context, branch string) (string, error)
	RebaseInteractive(ctx context.Context, count int) error
	RebaseEdit(ctx context.Context, hash string) (string, error)
	Status(ctx context.Context) (string, error)
	ResetSoft(ctx context.Context, count int) (string, error)
	Stash(ctx context.Context, message string) (string, error)
	StashPop(ctx context.Context) (string, error)
	StashList(ctx context.Context) (string, error)
	Log(ctx context.Context, count int) (string, error)
	LogGrep(ctx context.Context, keyword string, count int) (string, error)
	LogSince(ctx context.Context, tag string, all bool) (string, error)
	Diff(ctx context.Context, opts DiffOptions) (string, error)
}

// DefaultClient implements the Client interface using exec.CommandContext.
type DefaultClient struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
}

// NewClient creates a new DefaultClient.
func NewClient() *DefaultClient {
	return &DefaultClient{}
}

// NewClientWithWorkDir creates a new DefaultClient with a specific working directory.
func NewClientWithWorkDir(workDir string) *DefaultClient {
	return &DefaultClient{workDir: workDir}
}

// run executes git with a timeout and returns its combined output.
func (c *DefaultClient) run(ctx context.Context, timeout time.Duration, env []string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	start := time.Now()
	output, err := cmd.CombinedOutput()
	apperrors.LogGitCommand(args, time.Since(start), err)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", apperrors.NewTimeoutError(ctx.Err()).
				WithContext("command", "git "+strings.Join(args, " "))
		}
		return "", apperrors.NewGitError(err, strings.TrimSpace(string(output))).
			WithContext("command", "git "+strings.Join(args, " "))
	}
	return string(output), nil
}

// IsRepo reports whether the working directory is inside a git work tree.
func (c *DefaultClient) IsRepo(ctx context.Context) bool {
	out, err := c.run(ctx, GitCommandTimeout, nil, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// CurrentBranch returns the name of the current branch.
func (c *DefaultClient) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.run(ctx, GitCommandTimeout, nil, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// HasStagedChanges checks if there are any staged changes in the repository.
func (c *DefaultClient) HasStagedChanges(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--quiet")
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, apperrors.NewTimeoutError(ctx.Err())
		}
		// Exit code 1 means there are differences.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return true, nil
		}
		return false, apperrors.NewGitError(err, "")
	}
	return false, nil
}

// StageAll stages every change, including deletions and untracked files.
func (c *DefaultClient) StageAll(ctx context.Context) error {
	_, err := c.run(ctx, GitCommandTimeout, nil, "add", "-A")
	return err
}

// Commit executes a git commit with the given message.
func (c *DefaultClient) Commit(ctx context.Context, message string) (string, error) {
	return c.run(ctx, GitCommandTimeout, nil, "commit", "-m", message)
}

// CommitAmend folds the index into the last commit, keeping its message.
func (c *DefaultClient) CommitAmend(ctx context.Context) (string, error) {
	return c.run(ctx, GitCommandTimeout, nil, "commit", "--amend", "--no-edit")
}

// CommitFixup creates a fixup! commit targeting hash.
func (c *DefaultClient) CommitFixup(ctx context.Context, hash string) (string, error) {
	return c.run(ctx, GitCommandTimeout, nil, "commit", "--fixup", hash)
}

// Push pushes the current branch.
func (c *DefaultClient) Push(ctx context.Context, mode PushMode) (string, error) {
	args := []string{"push"}
	if flag := mode.String(); flag != "" {
		args = append(args, flag)
	}
	return c.run(ctx, NetworkCommandTimeout, nil, args...)
}

// PushUpstream pushes branch to origin and sets it as upstream. An empty
// branch means the current one.
func (c *DefaultClient) PushUpstream(ctx context.Context, branch string) (string, error) {
	if branch == "" {
		current, err := c.CurrentBranch(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get current branch: %w", err)
		}
		branch = current
	}
	return c.run(ctx, NetworkCommandTimeout, nil, "push", "--set-upstream", "origin", branch)
}

// Checkout switches to an existing branch.
func (c *DefaultClient) Checkout(ctx context.Context, branch string) error {
	_, err := c.run(ctx, GitCommandTimeout, nil, "checkout", branch)
	return err
}

// CreateBranch creates branch and switches to it.
func (c *DefaultClient) CreateBranch(ctx context.Context, branch string) error {
	_, err := c.run(ctx, GitCommandTimeout, nil, "checkout", "-b", branch)
	return err
}

// Pull pulls the current branch from its upstream.
func (c *DefaultClient) Pull(ctx context.Context) (string, error) {
	return c.run(ctx, NetworkCommandTimeout, nil, "pull")
}

// Rebase rebases the current branch onto branch.
func (c *DefaultClient) Rebase(ctx context.Context, branch string) (string, error) {
	return c.run(ctx, GitCommandTimeout, nil, "rebase", branch)
}

// RebaseInteractive opens the user's editor on the last count commits.
// The editor needs the terminal, so no timeout applies.
func (c *DefaultClient) RebaseInteractive(ctx context.Context, count int) error {
	args := []string{"rebase", "-i", "HEAD~" + strconv.Itoa(count)}
	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	start := time.Now()
	err := cmd.Run()
	apperrors.LogGitCommand(args, time.Since(start), err)
	if err != nil {
		return apperrors.NewGitError(err, "interactive git command failed")
	}
	return nil
}

// RebaseEdit starts a rebase that stops at hash for editing.
func (c *DefaultClient) RebaseEdit(ctx context.Context, hash string) (string, error) {
	return c.run(ctx, GitCommandTimeout, []string{"GIT_SEQUENCE_EDITOR=" + SequenceEditor(hash)},
		"rebase", "-i", hash+"^")
}

// SequenceEditor returns a GIT_SEQUENCE_EDITOR command that marks the
// commit abbreviated by hash for editing. The todo list git writes uses
// lowercase hex, so the hash is lowercased to match it.
func SequenceEditor(hash string) string {
	short := strings.ToLower(hash)
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("sed -i 's/^pick %s/edit %s/'", short, short)
}

// Status returns the short status of the work tree.
func (c *DefaultClient) Status(ctx context.Context) (string, error) {
	return c.run(ctx, GitCommandTimeout, nil, "status", "--short")
}

// ResetSoft undoes the last count commits, keeping their changes staged.
func (c *DefaultClient) ResetSoft(ctx context.Context, count int) (string, error) {
	return c.run(ctx, GitCommandTimeout, nil, "reset", "--soft", "HEAD~"+strconv.Itoa(count))
}

// Stash stashes local changes, labelled with message when it is not empty.
func (c *DefaultClient) Stash(ctx context.Context, message string) (string, error) {
	if message != "" {
		return c.run(ctx, GitCommandTimeout, nil, "stash", "push", "-m", message)
	}
	return c.run(ctx, GitCommandTimeout, nil, "stash")
}

// StashPop restores the most recent stash.
func (c *DefaultClient) StashPop(ctx context.Context) (string, error) {
	return c.run(ctx, GitCommandTimeout, nil, "stash", "pop")
}

// StashList lists the stash entries.
func (c *DefaultClient) StashList(ctx context.Context) (string, error) {
	return c.run(ctx, GitCommandTimeout, nil, "stash", "list")
}

// Log returns the last count commits, one per line.
func (c *DefaultClient) Log(ctx context.Context, count int) (string, error) {
	return c.run(ctx, GitCommandTimeout, nil, "log", "--oneline", "-n", strconv.Itoa(count))
}

// LogGrep searches commit messages on all refs. count <= 0 means no limit.
func (c *DefaultClient) LogGrep(ctx context.Context, keyword string, count int) (string, error) {
	args := []string{"log", "--oneline", "--all", "--grep=" + keyword}
	if count > 0 {
		args = append(args, "-n", strconv.Itoa(count))
	}
	return c.run(ctx, GitCommandTimeout, nil, args...)
}

// LogSince lists commits after tag, or every commit reachable from tag
// when all is set.
func (c *DefaultClient) LogSince(ctx context.Context, tag string, all bool) (string, error) {
	rev := tag + "..HEAD"
	if all {
		rev = tag
	}
	return c.run(ctx, GitCommandTimeout, nil, "log", "--oneline", rev)
}

// Diff returns git diff output for the selected variant.
func (c *DefaultClient) Diff(ctx context.Context, opts DiffOptions) (string, error) {
	return c.run(ctx, GitCommandTimeout, nil, opts.args()...)
}
