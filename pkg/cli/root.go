package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/mavkit/paramvault/pkg/config"
	"github.com/mavkit/paramvault/pkg/logging"
)

const (
	name           = "paramvault"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Back up ArduPilot parameters to a git repository",
		Version:               version,
		EnableShellCompletion: true,
		Description: fmt.Sprintf(`paramvault - ArduPilot parameter backup

Version: %s
Commit:  %s
Built:   %s

Connects to an ArduPilot vehicle over MAVLink, downloads the full
configuration parameter table, writes it to a sorted .param file, and
publishes the file to a git remote:

backup   - full pipeline: download, write, git pull/add/commit/push
download - download and write only, no git involvement`, version, commit, date),
		Flags: []cli.Flag{
			configFlag,
			logLevelFlag,
		},
		Commands: []*cli.Command{
			backupCmd(),
			downloadCmd(),
		},
	}
}

// Execute runs the CLI. This is called by main.main(); any error exits
// the process with status 1.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup configures logging from the --log-level flag and loads the
// configuration: file values layer over defaults, flags layer over both
// at resolution time.
func setup(cmd *cli.Command) (config.Config, error) {
	logLevel := cmd.String("log-level")
	logging.SetDefaultStructuredLoggerWithLevel(name, version, logLevel)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", logLevel)

	if path := cmd.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Discover()
}
