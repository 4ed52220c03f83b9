package telemetry

import (
	"context"
	"fmt"
	"time"
)

// Endpoint identifies the vehicle that answered the handshake. System and
// Component form the MAVLink address pair used to target parameter
// requests; Vehicle is a human-readable airframe type for file headers.
type Endpoint struct {
	System    uint8  `json:"system" yaml:"system"`
	Component uint8  `json:"component" yaml:"component"`
	Vehicle   string `json:"vehicle,omitempty" yaml:"vehicle,omitempty"`
}

// String returns the address pair in "System=1, Component=1" form.
func (e Endpoint) String() string {
	return fmt.Sprintf("System=%d, Component=%d", e.System, e.Component)
}

// ParamEvent is a single parameter value update streamed by the vehicle.
// Name is the raw identifier as received and may carry NUL padding or
// undecodable bytes; consumers are expected to sanitize it.
type ParamEvent struct {
	Name       string
	Value      float64
	TotalCount int
	Index      int
}

// Connection is an open, not necessarily handshaked, telemetry link.
//
// NextParameterEvent blocks up to the given timeout and returns a nil
// event (and nil error) when no parameter update arrived in time. Any
// non-nil error is a transport-level failure and terminates the link's
// usefulness.
type Connection interface {
	// AwaitHandshake waits for the first heartbeat and returns the
	// responder identity.
	AwaitHandshake(ctx context.Context, timeout time.Duration) (*Endpoint, error)

	// RequestParameterList asks the endpoint to stream its full parameter
	// table. Fire-and-forget; delivery is not acknowledged.
	RequestParameterList(target Endpoint) error

	// NextParameterEvent yields the next parameter update, or nil if none
	// arrived within the timeout.
	NextParameterEvent(ctx context.Context, timeout time.Duration) (*ParamEvent, error)

	// Close releases the link. Safe to call more than once.
	Close() error
}

// Dialer opens a Connection for a connection string. The pipeline takes a
// Dialer so tests can substitute an in-memory link.
type Dialer func(ctx context.Context, target string) (Connection, error)
