package cli

import (
	"github.com/urfave/cli/v3"
)

// Flags shared across commands. Durations default to zero so the
// resolved value can fall back to the config file, then to the built-in
// defaults.
var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "config file (default is $HOME/.paramvault.yaml)",
		Sources: cli.EnvVars("PARAMVAULT_CONFIG"),
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "log level (debug, info, warn, error)",
		Value:   "info",
		Sources: cli.EnvVars("LOG_LEVEL"),
	}

	connectionFlag = &cli.StringFlag{
		Name:    "connection",
		Aliases: []string{"c"},
		Usage:   "MAVLink connection string (tcp:host:port, udp:host:port, serial:/dev/ttyUSB0:57600)",
		Sources: cli.EnvVars("PARAMVAULT_CONNECTION"),
	}

	filenameFlag = &cli.StringFlag{
		Name:    "filename",
		Aliases: []string{"f"},
		Usage:   "output parameter filename (default ardupilot_current.param)",
	}

	timestampFlag = &cli.BoolFlag{
		Name:  "timestamp",
		Usage: "write a new ardupilot_params_<YYYYMMDD_HHMMSS>.param file instead of overwriting",
	}

	repoFlag = &cli.StringFlag{
		Name:  "repo",
		Usage: "path of the local git clone to publish into (default current directory)",
	}

	branchFlag = &cli.StringFlag{
		Name:  "branch",
		Usage: "git branch to pull and push (default main)",
	}

	remoteFlag = &cli.StringFlag{
		Name:  "remote",
		Usage: "git remote to pull from and push to (default origin)",
	}

	subdirFlag = &cli.StringFlag{
		Name:  "subdir",
		Usage: "subdirectory within the repository for parameter files (default parameter_backups)",
	}

	dirFlag = &cli.StringFlag{
		Name:  "dir",
		Usage: "directory to write the parameter file into",
		Value: ".",
	}

	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "sliding idle timeout for the parameter download (default 45s)",
	}

	messageTimeoutFlag = &cli.DurationFlag{
		Name:  "message-timeout",
		Usage: "per-message wait for the next parameter event (default 2s)",
	}

	handshakeTimeoutFlag = &cli.DurationFlag{
		Name:  "handshake-timeout",
		Usage: "wait for the first heartbeat before giving up (default 10s)",
	}

	requireCompleteFlag = &cli.BoolFlag{
		Name:  "require-complete",
		Usage: "fail instead of persisting a partial parameter set",
	}

	noPushFlag = &cli.BoolFlag{
		Name:  "no-push",
		Usage: "skip the git pipeline, only write the parameter file",
	}

	reportFlag = &cli.StringFlag{
		Name:  "report",
		Usage: "write a machine-readable run report to this file ('-' for stdout)",
	}

	reportFormatFlag = &cli.StringFlag{
		Name:  "report-format",
		Usage: "run report format: json or yaml",
		Value: "json",
	}
)
