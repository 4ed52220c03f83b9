package gitops

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mavkit/paramvault/pkg/errors"
)

// runFunc executes a git subcommand in the repository directory and
// returns its combined output. Injectable for tests.
type runFunc func(ctx context.Context, repo string, args ...string) (string, error)

// Publisher pushes a file to a version-control remote by invoking the
// git binary as an external process, one step at a time:
// pull, add, commit, push. There is no rollback; a failed push leaves the
// local commit in place for manual resolution.
type Publisher struct {
	// RepoPath is the absolute path of the local repository clone.
	RepoPath string

	// Remote is the remote name to pull from and push to.
	Remote string

	// Branch is the branch to pull and push.
	Branch string

	run runFunc
}

// New creates a Publisher after validating that repoPath is an existing
// git repository and that the git binary is available.
func New(repoPath, remote, branch string) (*Publisher, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("cannot resolve repository path %q", repoPath), err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"repository path is not a directory",
			map[string]any{"path": abs})
	}
	if _, err := os.Stat(filepath.Join(abs, ".git")); err != nil {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"repository path is not a git clone",
			map[string]any{"path": abs})
	}

	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePublish, "git not found in PATH", err)
	}

	return &Publisher{
		RepoPath: abs,
		Remote:   remote,
		Branch:   branch,
		run:      gitRunner(gitPath),
	}, nil
}

func gitRunner(gitPath string) runFunc {
	return func(ctx context.Context, repo string, args ...string) (string, error) {
		slog.Debug("running git command", "args", strings.Join(args, " "), "repo", repo)
		cmd := exec.CommandContext(ctx, gitPath, args...)
		cmd.Dir = repo
		output, err := cmd.CombinedOutput()
		return string(output), err
	}
}

// Pull fetches and merges the remote branch. Failure aborts the pipeline
// before anything is staged.
func (p *Publisher) Pull(ctx context.Context) error {
	output, err := p.run(ctx, p.RepoPath, "pull", p.Remote, p.Branch)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodePublish, "git pull failed", err,
			map[string]any{"remote": p.Remote, "branch": p.Branch, "output": output})
	}
	return nil
}

// Add stages the file at relPath (relative to the repository root,
// forward slashes).
func (p *Publisher) Add(ctx context.Context, relPath string) error {
	output, err := p.run(ctx, p.RepoPath, "add", filepath.ToSlash(relPath))
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodePublish, "git add failed", err,
			map[string]any{"path": relPath, "output": output})
	}
	return nil
}

// Commit records the staged changes. When git reports "nothing to
// commit" the call is a benign no-op: Commit returns false and a nil
// error, and the pipeline proceeds to push.
func (p *Publisher) Commit(ctx context.Context, message string) (bool, error) {
	output, err := p.run(ctx, p.RepoPath, "commit", "-m", message)
	if err != nil {
		if strings.Contains(output, "nothing to commit") ||
			strings.Contains(output, "nothing added to commit") {
			slog.Info("nothing to commit, parameter file unchanged")
			return false, nil
		}
		return false, errors.WrapWithContext(errors.ErrCodePublish, "git commit failed", err,
			map[string]any{"output": output})
	}
	return true, nil
}

// Push publishes the branch to the remote.
func (p *Publisher) Push(ctx context.Context) error {
	output, err := p.run(ctx, p.RepoPath, "push", p.Remote, p.Branch)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodePublish, "git push failed", err,
			map[string]any{"remote": p.Remote, "branch": p.Branch, "output": output})
	}
	return nil
}

// Publish runs the full pipeline for the file at relPath: pull, add,
// commit, push. Each step's failure aborts, with the commit no-op
// exception documented on Commit.
func (p *Publisher) Publish(ctx context.Context, relPath, message string) error {
	if err := p.Pull(ctx); err != nil {
		return err
	}
	if err := p.Add(ctx, relPath); err != nil {
		return err
	}
	committed, err := p.Commit(ctx, message)
	if err != nil {
		return err
	}
	if err := p.Push(ctx); err != nil {
		return err
	}

	slog.Info("published parameter file",
		"path", relPath,
		"remote", p.Remote,
		"branch", p.Branch,
		"committed", committed)
	return nil
}
