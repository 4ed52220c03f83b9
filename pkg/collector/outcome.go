package collector

import (
	"sort"
	"time"

	"github.com/mavkit/paramvault/pkg/telemetry"
)

// ParameterSet maps parameter names to their numeric values. It is
// mutated only while a collection run is active and must be treated as
// immutable once the run returns.
type ParameterSet map[string]float64

// Names returns the parameter names sorted lexicographically.
func (p ParameterSet) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct parameters in the set.
func (p ParameterSet) Len() int {
	return len(p)
}

// Status is the terminal state of a collection run.
type Status string

const (
	// StatusComplete means the full parameter table was received.
	StatusComplete Status = "complete"
	// StatusPartial means the idle timeout elapsed after some data arrived.
	StatusPartial Status = "partial"
	// StatusEmpty means the idle timeout elapsed with no data at all.
	StatusEmpty Status = "empty"
)

// Basis records which completion test fired for a Complete outcome.
type Basis string

const (
	// BasisIndex is the strong guarantee: the element at the table's last
	// position was observed.
	BasisIndex Basis = "index"
	// BasisCount is the fallback: the distinct-name count reached the
	// declared total without the last-position element being seen.
	BasisCount Basis = "count"
	// BasisNone applies to Partial and Empty outcomes.
	BasisNone Basis = "none"
)

// Outcome is the terminal result of one collection run. A timeout
// termination yields Partial or Empty and is not an error; the Outcome is
// also populated (with whatever accumulated) when Collect returns a
// transport error, so the caller can decide whether to persist it.
type Outcome struct {
	Status Status `json:"status" yaml:"status"`
	Basis  Basis  `json:"basis" yaml:"basis"`

	// Params is the accumulated parameter set. Never nil.
	Params ParameterSet `json:"-" yaml:"-"`

	// DeclaredCount is the total the endpoint reported with its first
	// update, or -1 if no update ever arrived.
	DeclaredCount int `json:"declaredCount" yaml:"declaredCount"`

	// Received is the number of distinct parameter names collected.
	Received int `json:"received" yaml:"received"`

	// Discarded counts events dropped due to undecodable names.
	Discarded int `json:"discarded,omitempty" yaml:"discarded,omitempty"`

	// Endpoint identifies the responding vehicle.
	Endpoint telemetry.Endpoint `json:"endpoint" yaml:"endpoint"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Complete reports whether the run received the full parameter table.
func (o *Outcome) Complete() bool {
	return o.Status == StatusComplete
}
