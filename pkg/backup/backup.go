package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mavkit/paramvault/pkg/collector"
	"github.com/mavkit/paramvault/pkg/errors"
	"github.com/mavkit/paramvault/pkg/paramfile"
	"github.com/mavkit/paramvault/pkg/serializer"
	"github.com/mavkit/paramvault/pkg/telemetry"
)

// timestampedNameLayout names timestamped backup files.
const timestampedNameLayout = "20060102_150405"

// Publisher pushes a committed file to a version-control remote.
// Satisfied by gitops.Publisher.
type Publisher interface {
	Publish(ctx context.Context, relPath, message string) error
}

// Backup runs the linear pipeline: collect, format, persist, publish.
// Each stage returns a value instead of scattering early exits.
type Backup struct {
	// Version is the tool version recorded in logs.
	Version string

	// Connection is the MAVLink connection string to dial.
	Connection string

	// Dial opens the telemetry link. Required.
	Dial telemetry.Dialer

	// RepoPath is the directory the parameter file is written under.
	RepoPath string

	// Subdir is an optional subdirectory within RepoPath, created on
	// demand.
	Subdir string

	// Filename is the output filename. Ignored when Timestamped is set.
	Filename string

	// Timestamped switches to ardupilot_params_<YYYYMMDD_HHMMSS>.param
	// naming, one new file per run.
	Timestamped bool

	// RequireComplete makes a Partial outcome fail the run instead of
	// being persisted with a warning.
	RequireComplete bool

	// HandshakeTimeout bounds the wait for the first heartbeat.
	HandshakeTimeout time.Duration

	// CollectOptions configures the collection run.
	CollectOptions collector.Options

	// Repo publishes the written file. Nil skips the publish stage.
	Repo Publisher

	// Reporter, when non-nil, receives the machine-readable run result.
	Reporter serializer.Serializer

	// Now is the clock, injectable for deterministic tests. Defaults to
	// time.Now.
	Now func() time.Time
}

// Run executes the pipeline and returns the run result.
func (b *Backup) Run(ctx context.Context) (*Result, error) {
	if b.Dial == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "no telemetry dialer configured")
	}
	now := b.Now
	if now == nil {
		now = time.Now
	}

	result := &Result{
		RunID:      uuid.New().String(),
		Connection: b.Connection,
		StartedAt:  now(),
	}
	defer func() { result.FinishedAt = now() }()

	slog.Info("starting parameter backup",
		"run", result.RunID,
		"connection", b.Connection,
		"version", b.Version)

	outcome, err := b.collect(ctx)
	if err != nil {
		runTotal.WithLabelValues("error").Inc()
		return result, err
	}
	result.Outcome = outcome

	if outcome.Status == collector.StatusEmpty {
		runTotal.WithLabelValues("empty").Inc()
		return result, errors.New(errors.ErrCodeInvalidRequest, "no parameters were downloaded")
	}
	if b.RequireComplete && !outcome.Complete() {
		runTotal.WithLabelValues("incomplete").Inc()
		return result, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"incomplete parameter set",
			map[string]any{"received": outcome.Received, "declared": outcome.DeclaredCount})
	}
	if outcome.Status == collector.StatusPartial {
		slog.Warn("persisting partial parameter set",
			"received", outcome.Received,
			"declared", outcome.DeclaredCount)
	}

	generatedAt := now()
	filename := b.resolveFilename(generatedAt)

	fullPath, relPath, err := b.persist(outcome, filename, generatedAt)
	if err != nil {
		runTotal.WithLabelValues("error").Inc()
		return result, err
	}
	result.File = fullPath
	result.RelPath = relPath

	if b.Repo != nil {
		message := b.commitMessage(filename, generatedAt)
		result.CommitMessage = message
		if err := b.Repo.Publish(ctx, relPath, message); err != nil {
			publishTotal.WithLabelValues("error").Inc()
			runTotal.WithLabelValues("error").Inc()
			return result, err
		}
		publishTotal.WithLabelValues("success").Inc()
		result.Published = true
	}

	runTotal.WithLabelValues(string(outcome.Status)).Inc()

	if b.Reporter != nil {
		if err := b.Reporter.Serialize(ctx, result); err != nil {
			slog.Warn("failed to write run report", "error", err)
		}
	}

	slog.Info("backup finished",
		"run", result.RunID,
		"status", string(outcome.Status),
		"parameters", outcome.Received,
		"file", fullPath,
		"published", result.Published)

	return result, nil
}

// collect dials the link, handshakes, and runs the collection. The link
// is closed before any file work. A transport failure with accumulated
// data degrades to a Partial outcome; with nothing accumulated it aborts.
func (b *Backup) collect(ctx context.Context) (*collector.Outcome, error) {
	conn, err := b.Dial(ctx, b.Connection)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Warn("failed to close telemetry link", "error", err)
		}
	}()

	endpoint, err := conn.AwaitHandshake(ctx, b.HandshakeTimeout)
	if err != nil {
		return nil, err
	}
	slog.Info("heartbeat received",
		"system", endpoint.System,
		"component", endpoint.Component,
		"vehicle", endpoint.Vehicle)

	outcome, err := collector.Collect(ctx, conn, *endpoint, b.CollectOptions)
	if err != nil {
		if outcome == nil || outcome.Params.Len() == 0 {
			return nil, err
		}
		slog.Warn("transport failed mid-collection, keeping accumulated parameters",
			"error", err,
			"received", outcome.Params.Len())
	}
	return outcome, nil
}

func (b *Backup) resolveFilename(generatedAt time.Time) string {
	if b.Timestamped {
		return fmt.Sprintf("ardupilot_params_%s.param", generatedAt.Format(timestampedNameLayout))
	}
	return b.Filename
}

// persist writes the parameter file under RepoPath/Subdir and returns the
// absolute path and the repository-relative path.
func (b *Backup) persist(outcome *collector.Outcome, filename string, generatedAt time.Time) (string, string, error) {
	destDir := b.RepoPath
	relPath := filename
	if b.Subdir != "" {
		destDir = filepath.Join(b.RepoPath, b.Subdir)
		relPath = path.Join(filepath.ToSlash(b.Subdir), filename)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return "", "", errors.Wrap(errors.ErrCodeFileWrite,
				fmt.Sprintf("failed to create directory %s", destDir), err)
		}
	}

	fullPath := filepath.Join(destDir, filename)
	meta := paramfile.Metadata{
		Connection:  b.Connection,
		Endpoint:    outcome.Endpoint,
		GeneratedAt: generatedAt,
	}
	if err := paramfile.Write(fullPath, outcome.Params, meta); err != nil {
		return "", "", err
	}

	slog.Info("parameter file written", "path", fullPath, "parameters", outcome.Params.Len())
	return fullPath, relPath, nil
}

func (b *Backup) commitMessage(filename string, generatedAt time.Time) string {
	if b.Timestamped {
		return fmt.Sprintf("Add ArduPilot parameters backup %s", generatedAt.Format(timestampedNameLayout))
	}
	return fmt.Sprintf("Update parameters for %s (%s)", filename, generatedAt.Format("2006-01-02"))
}
