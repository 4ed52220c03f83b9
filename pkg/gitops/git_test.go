package gitops

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pverrors "github.com/mavkit/paramvault/pkg/errors"
)

// fakeRun records invocations and scripts per-step results.
type fakeRun struct {
	calls   [][]string
	results map[string]fakeResult
}

type fakeResult struct {
	output string
	err    error
}

func (f *fakeRun) run(ctx context.Context, repo string, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	if res, ok := f.results[args[0]]; ok {
		return res.output, res.err
	}
	return "", nil
}

func newFakePublisher(f *fakeRun) *Publisher {
	return &Publisher{
		RepoPath: "/tmp/repo",
		Remote:   "origin",
		Branch:   "main",
		run:      f.run,
	}
}

func TestPublishHappyPath(t *testing.T) {
	f := &fakeRun{}
	p := newFakePublisher(f)

	err := p.Publish(context.Background(), "parameter_backups/ardupilot_current.param", "Update parameters")
	require.NoError(t, err)

	require.Len(t, f.calls, 4)
	assert.Equal(t, []string{"pull", "origin", "main"}, f.calls[0])
	assert.Equal(t, []string{"add", "parameter_backups/ardupilot_current.param"}, f.calls[1])
	assert.Equal(t, []string{"commit", "-m", "Update parameters"}, f.calls[2])
	assert.Equal(t, []string{"push", "origin", "main"}, f.calls[3])
}

func TestPublishPullFailureAborts(t *testing.T) {
	f := &fakeRun{results: map[string]fakeResult{
		"pull": {output: "CONFLICT", err: errors.New("exit status 1")},
	}}
	p := newFakePublisher(f)

	err := p.Publish(context.Background(), "file.param", "msg")
	require.Error(t, err)
	assert.Equal(t, pverrors.ErrCodePublish, pverrors.CodeOf(err))
	assert.Len(t, f.calls, 1, "add/commit/push must not run after a failed pull")
}

func TestPublishAddFailureAborts(t *testing.T) {
	f := &fakeRun{results: map[string]fakeResult{
		"add": {output: "fatal: pathspec", err: errors.New("exit status 128")},
	}}
	p := newFakePublisher(f)

	err := p.Publish(context.Background(), "file.param", "msg")
	require.Error(t, err)
	assert.Len(t, f.calls, 2)
}

func TestCommitNothingToCommitIsBenign(t *testing.T) {
	f := &fakeRun{results: map[string]fakeResult{
		"commit": {
			output: "On branch main\nnothing to commit, working tree clean\n",
			err:    errors.New("exit status 1"),
		},
	}}
	p := newFakePublisher(f)

	err := p.Publish(context.Background(), "file.param", "msg")
	require.NoError(t, err, "nothing-to-commit must not abort the pipeline")
	assert.Len(t, f.calls, 4, "push still runs after a no-op commit")
}

func TestCommitRealFailureAborts(t *testing.T) {
	f := &fakeRun{results: map[string]fakeResult{
		"commit": {output: "fatal: unable to write commit", err: errors.New("exit status 128")},
	}}
	p := newFakePublisher(f)

	err := p.Publish(context.Background(), "file.param", "msg")
	require.Error(t, err)
	assert.Len(t, f.calls, 3, "push must not run after a failed commit")
}

func TestPublishPushFailure(t *testing.T) {
	f := &fakeRun{results: map[string]fakeResult{
		"push": {output: "rejected", err: errors.New("exit status 1")},
	}}
	p := newFakePublisher(f)

	err := p.Publish(context.Background(), "file.param", "msg")
	require.Error(t, err)
	assert.Equal(t, pverrors.ErrCodePublish, pverrors.CodeOf(err))
	assert.Len(t, f.calls, 4)
}

func TestNewRejectsMissingRepo(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), "origin", "main")
	require.Error(t, err)
	assert.Equal(t, pverrors.ErrCodeInvalidRequest, pverrors.CodeOf(err))
}

func TestNewRejectsNonGitDirectory(t *testing.T) {
	_, err := New(t.TempDir(), "origin", "main")
	require.Error(t, err)
	assert.Equal(t, pverrors.ErrCodeInvalidRequest, pverrors.CodeOf(err))
}

// TestPublishAgainstLocalRemote exercises the real git binary against a
// bare repository used as the remote. Skipped when git is unavailable.
func TestPublishAgainstLocalRemote(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	ctx := context.Background()
	base := t.TempDir()
	bare := filepath.Join(base, "remote.git")
	work := filepath.Join(base, "work")

	git := func(dir string, args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	}

	git(base, "init", "--bare", "-b", "main", bare)
	git(base, "clone", bare, work)
	git(work, "config", "user.email", "test@example.com")
	git(work, "config", "user.name", "test")

	// Seed the remote so pull has a branch to merge.
	require.NoError(t, os.WriteFile(filepath.Join(work, "README.md"), []byte("params\n"), 0o644))
	git(work, "add", "README.md")
	git(work, "commit", "-m", "initial")
	git(work, "push", "origin", "main")

	p, err := New(work, "origin", "main")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(work, "vehicle.param"), []byte("A,1.00000000\n"), 0o644))
	require.NoError(t, p.Publish(ctx, "vehicle.param", "Add vehicle parameters"))

	// Publishing an unchanged file takes the nothing-to-commit path and
	// still succeeds.
	require.NoError(t, p.Publish(ctx, "vehicle.param", "Add vehicle parameters"))
}
