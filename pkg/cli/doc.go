// Package cli implements the command-line interface for the paramvault tool.
//
// # Overview
//
// paramvault connects to an ArduPilot vehicle over a MAVLink telemetry
// link, downloads the full configuration parameter table, writes it to a
// stable sorted .param text file, and publishes the file to a git remote.
// It is designed for vehicle operators who keep their tuning under
// version control.
//
// # Commands
//
// backup - full pipeline:
//
//	paramvault backup --connection tcp:HOST:PORT [--repo DIR] [--timestamp]
//
// Downloads the parameter table, writes it under the repository's
// parameter_backups directory, and runs git pull/add/commit/push. A
// download that times out with a partial table is still written and
// published, with a warning.
//
// download - collection only:
//
//	paramvault download --connection serial:/dev/ttyUSB0:57600 [--dir DIR]
//
// Downloads the parameter table and writes the file, skipping git
// entirely.
//
// # Global Flags
//
//	--config       Config file path (default: $HOME/.paramvault.yaml)
//	--log-level    Logging verbosity: debug, info, warn, error
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Connection Strings
//
//	tcp:host:port         TCP client
//	tcpin:host:port       TCP server
//	udp:host:port         UDP client (udpout: alias)
//	udpin:host:port       UDP server
//	serial:device[:baud]  Serial port, default baud 57600
//
// # Exit Codes
//
//	0  Success
//	1  Any failure (connection, timeout with no data, file write, git)
//
// # Environment Variables
//
//	LOG_LEVEL              Set logging verbosity
//	PARAMVAULT_CONNECTION  Default connection string
//	PARAMVAULT_CONFIG      Config file path
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/backup - pipeline orchestration
//   - pkg/collector - parameter table collection
//   - pkg/telemetry/mavlink - MAVLink transport
//   - pkg/paramfile - .param rendering and atomic writes
//   - pkg/gitops - git publishing
//   - pkg/serializer - run report formatting
//   - pkg/logging - structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/mavkit/paramvault/pkg/cli.version=1.0.0'"
package cli
