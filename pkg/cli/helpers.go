package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mavkit/paramvault/pkg/serializer"
)

// resolveString returns the flag value when set, the fallback otherwise.
func resolveString(cmd *cli.Command, flag, fallback string) string {
	if v := strings.TrimSpace(cmd.String(flag)); v != "" {
		return v
	}
	return fallback
}

// resolveDuration returns the flag value when positive, the fallback
// otherwise.
func resolveDuration(cmd *cli.Command, flag string, fallback time.Duration) time.Duration {
	if v := cmd.Duration(flag); v > 0 {
		return v
	}
	return fallback
}

// reporterFrom builds the run report writer from the --report and
// --report-format flags. Returns nil when no report was requested.
func reporterFrom(cmd *cli.Command) (*serializer.Writer, error) {
	path := strings.TrimSpace(cmd.String("report"))
	if path == "" {
		return nil, nil
	}

	format := serializer.Format(cmd.String("report-format"))
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown report format: %q (supported: %s)",
			format, strings.Join(serializer.SupportedFormats(), ", "))
	}

	if path == "-" {
		return serializer.NewWriter(format, os.Stdout), nil
	}
	return serializer.NewFileWriterOrStdout(format, path), nil
}
