package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/mavkit/paramvault/pkg/backup"
	"github.com/mavkit/paramvault/pkg/collector"
	"github.com/mavkit/paramvault/pkg/config"
	"github.com/mavkit/paramvault/pkg/errors"
	"github.com/mavkit/paramvault/pkg/gitops"
	"github.com/mavkit/paramvault/pkg/telemetry/mavlink"
)

func backupCmd() *cli.Command {
	return &cli.Command{
		Name:                  "backup",
		EnableShellCompletion: true,
		Usage:                 "Download all parameters and publish them to a git remote",
		Description: `Download the full parameter table from an ArduPilot vehicle and publish
it to a git remote:

  1. Connect over MAVLink and wait for a heartbeat
  2. Request the parameter list and collect until complete or idle
  3. Write the parameters sorted to a .param file in the repository
  4. git pull, add, commit, push

A partial download (idle timeout before the declared count was reached)
is still written and published, with a warning, so that a flaky link
degrades to a stale-but-usable backup. Use --require-complete to fail
instead.

# Examples

Back up over TCP into the current directory's clone:
  paramvault backup --connection tcp:10.0.1.12:5760

Back up over serial into a dedicated clone, one timestamped file per run:
  paramvault backup --connection serial:/dev/ttyUSB0:57600 \
    --repo ~/vehicle-configs --timestamp

Dry run without touching git:
  paramvault backup --connection tcp:127.0.0.1:5762 --no-push`,
		Flags: []cli.Flag{
			connectionFlag,
			filenameFlag,
			timestampFlag,
			repoFlag,
			branchFlag,
			remoteFlag,
			subdirFlag,
			timeoutFlag,
			messageTimeoutFlag,
			handshakeTimeoutFlag,
			requireCompleteFlag,
			noPushFlag,
			reportFlag,
			reportFormatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			b, err := buildPipeline(cmd, cfg, resolveString(cmd, "repo", cfg.RepoPath))
			if err != nil {
				return err
			}
			b.Subdir = resolveString(cmd, "subdir", cfg.Subdir)

			if !cmd.Bool("no-push") {
				pub, err := gitops.New(
					b.RepoPath,
					resolveString(cmd, "remote", cfg.Remote),
					resolveString(cmd, "branch", cfg.Branch))
				if err != nil {
					return err
				}
				b.Repo = pub
			}

			reporter, err := reporterFrom(cmd)
			if err != nil {
				return err
			}
			if reporter != nil {
				defer reporter.Close()
				b.Reporter = reporter
			}

			_, err = b.Run(ctx)
			return err
		},
	}
}

// buildPipeline assembles the pipeline pieces shared by backup and
// download: connection, filenames, and timeouts, each flag falling back
// to the config file and then to the built-in defaults.
func buildPipeline(cmd *cli.Command, cfg config.Config, destDir string) (*backup.Backup, error) {
	connection := resolveString(cmd, "connection", cfg.Connection)
	if connection == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"no connection string: set --connection or the connection key in the config file")
	}

	return &backup.Backup{
		Version:          version,
		Connection:       connection,
		Dial:             mavlink.Dial,
		RepoPath:         destDir,
		Filename:         resolveString(cmd, "filename", cfg.Filename),
		Timestamped:      cmd.Bool("timestamp"),
		RequireComplete:  cmd.Bool("require-complete"),
		HandshakeTimeout: resolveDuration(cmd, "handshake-timeout", cfg.HandshakeTimeout.Std()),
		CollectOptions: collector.Options{
			OverallTimeout: resolveDuration(cmd, "timeout", cfg.Timeout.Std()),
			MessageTimeout: resolveDuration(cmd, "message-timeout", cfg.MessageTimeout.Std()),
		},
	}, nil
}
