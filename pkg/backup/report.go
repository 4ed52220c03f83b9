package backup

import (
	"time"

	"github.com/mavkit/paramvault/pkg/collector"
)

// Result is the machine-readable record of a single backup run.
type Result struct {
	// RunID uniquely identifies the run across logs and reports.
	RunID string `json:"runId" yaml:"runId"`

	// Connection is the connection string the run dialed.
	Connection string `json:"connection" yaml:"connection"`

	// Outcome is the collection outcome, nil when the run failed before
	// or during the handshake.
	Outcome *collector.Outcome `json:"outcome,omitempty" yaml:"outcome,omitempty"`

	// File is the absolute path of the written parameter file.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// RelPath is the repository-relative path of the parameter file.
	RelPath string `json:"relPath,omitempty" yaml:"relPath,omitempty"`

	// Published reports whether the file was pushed to the remote.
	Published bool `json:"published" yaml:"published"`

	// CommitMessage is the message used for the publish commit.
	CommitMessage string `json:"commitMessage,omitempty" yaml:"commitMessage,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time `json:"finishedAt" yaml:"finishedAt"`
}
