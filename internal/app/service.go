// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"strconv"

	"github.com/preguito/preguito/internal/pkg/config"
	apperrors "github.com/preguito/preguito/internal/pkg/errors"
	"github.com/preguito/preguito/internal/pkg/git"
	"github.com/preguito/preguito/internal/pkg/history"
	"github.com/preguito/preguito/internal/pkg/message"
	"github.com/preguito/preguito/internal/pkg/positional"
	"github.com/preguito/preguito/internal/pkg/shortcode"
	"github.com/preguito/preguito/internal/pkg/template"
	"github.com/preguito/preguito/internal/pkg/ui"
)

// CommitOptions contains options for the commit workflow.
type CommitOptions struct {
	Body    string
	Push    bool
	Force   bool // push with --force-with-lease; wins over Push
	DryRun  bool
	NoStage bool
}

// Draft is a commit message built from positional arguments.
type Draft struct {
	Args    *positional.Result
	Message *message.CommitMessage
}

// Text returns the full message passed to git.
func (d *Draft) Text() string {
	return d.Message.Format()
}

// CommitService runs the commit-producing workflows.
type CommitService struct {
	gitClient  git.Client
	uiManager  ui.Manager
	historyMgr history.Manager
	config     *config.Config
}

// NewCommitService creates a new CommitService with the given dependencies.
// A nil historyMgr disables recording.
func NewCommitService(
	gitClient git.Client,
	uiManager ui.Manager,
	historyMgr history.Manager,
	cfg *config.Config,
) *CommitService {
	if historyMgr == nil {
		historyMgr = history.NopManager{}
	}
	return &CommitService{
		gitClient:  gitClient,
		uiManager:  uiManager,
		historyMgr: historyMgr,
		config:     cfg,
	}
}

// Compose parses args against the configuration and renders the message.
// It touches neither git nor the terminal.
func (s *CommitService) Compose(args []string, body string) (*Draft, error) {
	res, err := positional.Parse(args, s.config, body)
	if err != nil {
		return nil, err
	}

	title, err := template.Render(s.config.Template, res.Context, res.Message)
	if err != nil {
		return nil, err
	}

	return &Draft{
		Args:    res,
		Message: message.New(title, res.Body),
	}, nil
}

// Commit renders the message for args and commits it.
// Workflow: check repo → compose → stage → check staged → commit → record → push
func (s *CommitService) Commit(ctx context.Context, args []string, opts *CommitOptions) (*Draft, error) {
	if opts == nil {
		opts = &CommitOptions{}
	}

	if err := requireRepo(ctx, s.gitClient); err != nil {
		return nil, err
	}

	draft, err := s.Compose(args, opts.Body)
	if err != nil {
		return nil, err
	}

	for _, w := range draft.Message.Warnings() {
		s.uiManager.ShowWarning(w)
	}

	if opts.DryRun {
		s.uiManager.ShowMessage(draft.Text())
		return draft, nil
	}

	if !opts.NoStage {
		if err := runStep(s.uiManager, "Staging all changes...", "", func() error {
			return s.gitClient.StageAll(ctx)
		}); err != nil {
			return nil, err
		}
	}

	if err := requireStaged(ctx, s.gitClient); err != nil {
		return nil, err
	}

	s.uiManager.ShowMessage(draft.Text())
	if err := runStep(s.uiManager, "Committing...", "Committed.", func() error {
		out, err := s.gitClient.Commit(ctx, draft.Text())
		apperrors.Debug("commit output: %s", out)
		return err
	}); err != nil {
		return nil, err
	}

	s.record(ctx, draft)

	if err := s.pushAfter(ctx, opts.Push, opts.Force); err != nil {
		return draft, err
	}
	return draft, nil
}

// record saves a history entry. Failures are logged, never returned: the
// commit already exists.
func (s *CommitService) record(ctx context.Context, draft *Draft) {
	branch, err := s.gitClient.CurrentBranch(ctx)
	if err != nil {
		apperrors.Debug("could not read branch for history: %v", err)
	}

	values := draft.Args.Context
	entry := &history.Entry{
		Title:       draft.Message.Title,
		Body:        draft.Args.Body,
		CardID:      values[positional.CardIDKey],
		Type:        values[shortcode.TypeKey],
		Environment: values[shortcode.EnvironmentKey],
		Branch:      branch,
		Committed:   true,
	}
	if err := s.historyMgr.Save(entry); err != nil {
		apperrors.Warn("Failed to save history entry: %v", err)
	}
}

func (s *CommitService) pushAfter(ctx context.Context, push, force bool) error {
	switch {
	case force:
		return pushWithMode(ctx, s.gitClient, s.uiManager, git.PushForceWithLease)
	case push:
		return pushWithMode(ctx, s.gitClient, s.uiManager, git.PushNormal)
	}
	return nil
}

// AmendPush stages everything, amends the last commit and force pushes.
// lease selects --force-with-lease over --force.
func (s *CommitService) AmendPush(ctx context.Context, lease bool) error {
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}

	if err := runStep(s.uiManager, "Staging all changes...", "Staged.", func() error {
		return s.gitClient.StageAll(ctx)
	}); err != nil {
		return err
	}

	if err := runStep(s.uiManager, "Amending last commit...", "Amended.", func() error {
		_, err := s.gitClient.CommitAmend(ctx)
		return err
	}); err != nil {
		return err
	}

	mode := git.PushForce
	if lease {
		mode = git.PushForceWithLease
	}
	return pushWithMode(ctx, s.gitClient, s.uiManager, mode)
}

// Fixup creates a fixup! commit for hash from everything in the work tree.
func (s *CommitService) Fixup(ctx context.Context, hash string, push, force bool) error {
	if err := git.ValidateHash(hash); err != nil {
		return err
	}
	if err := requireRepo(ctx, s.gitClient); err != nil {
		return err
	}

	if err := runStep(s.uiManager, "Staging all changes...", "Staged.", func() error {
		return s.gitClient.StageAll(ctx)
	}); err != nil {
		return err
	}

	if err := requireStaged(ctx, s.gitClient); err != nil {
		return err
	}

	if err := runStep(s.uiManager, "Creating fixup commit for "+hash+"...", "Fixup commit created.", func() error {
		_, err := s.gitClient.CommitFixup(ctx, hash)
		return err
	}); err != nil {
		return err
	}

	return s.pushAfter(ctx, push, force)
}

// ParseCount parses a positive count argument. An empty value yields def.
func ParseCount(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, apperrors.NewInvalidArgumentsError("count must be a positive integer").
			WithContext("value", value)
	}
	return n, nil
}

func requireRepo(ctx context.Context, client git.Client) error {
	if !client.IsRepo(ctx) {
		return apperrors.NewNotGitRepoError()
	}
	return nil
}

func requireStaged(ctx context.Context, client git.Client) error {
	has, err := client.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !has {
		return apperrors.NewNoStagedChangesError()
	}
	return nil
}

func pushWithMode(ctx context.Context, client git.Client, uiMgr ui.Manager, mode git.PushMode) error {
	text := "Pushing..."
	if flag := mode.String(); flag != "" {
		text = "Pushing (" + flag + ")..."
	}
	return runStep(uiMgr, text, "Pushed.", func() error {
		_, err := client.Push(ctx, mode)
		return err
	})
}

// runStep runs fn behind a spinner and reports done on success.
func runStep(uiMgr ui.Manager, text, done string, fn func() error) error {
	spinner := uiMgr.ShowSpinner(text)
	spinner.Start()
	err := fn()
	spinner.Stop()
	if err != nil {
		return err
	}
	if done != "" {
		uiMgr.ShowSuccess(done)
	}
	return nil
}
