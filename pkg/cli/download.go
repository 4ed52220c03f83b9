package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

func downloadCmd() *cli.Command {
	return &cli.Command{
		Name:                  "download",
		EnableShellCompletion: true,
		Usage:                 "Download all parameters and write them to a local file",
		Description: `Download the full parameter table from an ArduPilot vehicle and write
it to a local .param file, without any git involvement.

# Examples

Download over UDP into the current directory:
  paramvault download --connection udp:0.0.0.0:14550

Download over serial into a specific directory with a timestamped name:
  paramvault download --connection serial:/dev/ttyACM0 --dir /tmp --timestamp`,
		Flags: []cli.Flag{
			connectionFlag,
			filenameFlag,
			timestampFlag,
			dirFlag,
			timeoutFlag,
			messageTimeoutFlag,
			handshakeTimeoutFlag,
			requireCompleteFlag,
			reportFlag,
			reportFormatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			b, err := buildPipeline(cmd, cfg, cmd.String("dir"))
			if err != nil {
				return err
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
