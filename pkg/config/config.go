// Package config loads paramvault configuration from an optional YAML
// file. Values from the file layer over built-in defaults, and CLI flags
// layer over both; the resolved value is passed explicitly into the
// pipeline so there is no process-wide mutable configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up during auto-discovery.
const FileName = ".paramvault.yaml"

// Default values for the backup pipeline.
const (
	DefaultFilename         = "ardupilot_current.param"
	DefaultBranch           = "main"
	DefaultRemote           = "origin"
	DefaultSubdir           = "parameter_backups"
	DefaultTimeout          = 45 * time.Second
	DefaultMessageTimeout   = 2 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
)

// Duration wraps time.Duration with YAML support for "45s"-style strings.
type Duration time.Duration

// UnmarshalYAML parses a duration string such as "45s" or "2m".
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the resolved pipeline configuration.
type Config struct {
	// Connection is the default MAVLink connection string.
	Connection string `yaml:"connection,omitempty"`

	// Filename is the output parameter filename.
	Filename string `yaml:"filename,omitempty"`

	// RepoPath is the local git clone the parameter file lives in.
	RepoPath string `yaml:"repo,omitempty"`

	// Branch and Remote select where the file is pushed.
	Branch string `yaml:"branch,omitempty"`
	Remote string `yaml:"remote,omitempty"`

	// Subdir is an optional subdirectory within the repository.
	Subdir string `yaml:"subdir,omitempty"`

	// Timeout is the sliding idle timeout of a collection run.
	Timeout Duration `yaml:"timeout,omitempty"`

	// MessageTimeout bounds each individual wait for a parameter event.
	MessageTimeout Duration `yaml:"messageTimeout,omitempty"`

	// HandshakeTimeout bounds the wait for the first heartbeat.
	HandshakeTimeout Duration `yaml:"handshakeTimeout,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Filename:         DefaultFilename,
		RepoPath:         ".",
		Branch:           DefaultBranch,
		Remote:           DefaultRemote,
		Subdir:           DefaultSubdir,
		Timeout:          Duration(DefaultTimeout),
		MessageTimeout:   Duration(DefaultMessageTimeout),
		HandshakeTimeout: Duration(DefaultHandshakeTimeout),
	}
}

// Load reads the config file at path over the defaults. The file must
// exist and parse.
func Load(path string) (Config, error) {
	cfg := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Discover returns the configuration from the first of
// $HOME/.paramvault.yaml and ./.paramvault.yaml that exists, or the
// defaults when neither does. A file that exists but does not parse is
// an error.
func Discover() (Config, error) {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, FileName))
	}
	candidates = append(candidates, FileName)

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return Load(path)
	}
	return Default(), nil
}
