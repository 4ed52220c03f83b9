package mavlink

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bluenviron/gomavlib/v3"
	"github.com/bluenviron/gomavlib/v3/pkg/dialects/ardupilotmega"
	"golang.org/x/sync/errgroup"

	"github.com/mavkit/paramvault/pkg/errors"
	"github.com/mavkit/paramvault/pkg/telemetry"
)

// outSystemID is the MAVLink system ID this tool identifies itself with.
// 255 is the conventional ground-control-station ID.
const outSystemID = 255

// paramEventBuffer sizes the parameter channel so a full table burst does
// not stall the event pump between NextParameterEvent calls.
const paramEventBuffer = 1024

// Connection implements telemetry.Connection over a gomavlib node using
// the ArduPilotMega dialect.
type Connection struct {
	node *gomavlib.Node

	heartbeats chan telemetry.Endpoint
	params     chan telemetry.ParamEvent

	pump   *errgroup.Group
	closed chan struct{}

	once sync.Once

	mu      sync.Mutex
	lastErr error
}

// Dial opens a MAVLink connection for the given connection string. The
// returned Connection is live but not yet handshaked.
func Dial(ctx context.Context, target string) (telemetry.Connection, error) {
	endpoint, err := ParseEndpoint(target)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnection,
			fmt.Sprintf("invalid connection string %q", target), err)
	}

	node, err := gomavlib.NewNode(gomavlib.NodeConf{
		Endpoints:   []gomavlib.EndpointConf{endpoint},
		Dialect:     ardupilotmega.Dialect,
		OutVersion:  gomavlib.V2,
		OutSystemID: outSystemID,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnection,
			fmt.Sprintf("failed to open link %q", target), err)
	}

	c := &Connection{
		node:       node,
		heartbeats: make(chan telemetry.Endpoint, 1),
		params:     make(chan telemetry.ParamEvent, paramEventBuffer),
		pump:       &errgroup.Group{},
		closed:     make(chan struct{}),
	}

	c.pump.Go(c.run)

	slog.Debug("telemetry link opened", "target", target)
	return c, nil
}

// run drains node events into typed channels until the node is closed.
func (c *Connection) run() error {
	defer close(c.closed)

	for evt := range c.node.Events() {
		switch e := evt.(type) {
		case *gomavlib.EventFrame:
			c.handleFrame(e)

		case *gomavlib.EventChannelClose:
			// A closed channel on a single-endpoint node means the link
			// is gone; surface it on the next caller interaction.
			c.setErr(errors.New(errors.ErrCodeTransport, "telemetry channel closed"))

		case *gomavlib.EventParseError:
			slog.Debug("frame parse error", "error", e.Error)
		}
	}
	return nil
}

func (c *Connection) handleFrame(frm *gomavlib.EventFrame) {
	switch msg := frm.Message().(type) {
	case *ardupilotmega.MessageHeartbeat:
		if frm.SystemID() == outSystemID {
			return
		}
		ep := telemetry.Endpoint{
			System:    frm.SystemID(),
			Component: frm.ComponentID(),
			Vehicle:   fmt.Sprintf("%v", msg.Type),
		}
		select {
		case c.heartbeats <- ep:
		default:
		}

	case *ardupilotmega.MessageParamValue:
		ev := telemetry.ParamEvent{
			Name:       msg.ParamId,
			Value:      float64(msg.ParamValue),
			TotalCount: int(msg.ParamCount),
			Index:      int(msg.ParamIndex),
		}
		select {
		case c.params <- ev:
		default:
			slog.Warn("parameter event buffer full, dropping update", "name", msg.ParamId)
		}
	}
}

// AwaitHandshake waits for the first heartbeat from the vehicle.
func (c *Connection) AwaitHandshake(ctx context.Context, timeout time.Duration) (*telemetry.Endpoint, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ep := <-c.heartbeats:
		return &ep, nil
	case <-timer.C:
		return nil, errors.NewWithContext(errors.ErrCodeHandshakeTimeout,
			"timed out waiting for heartbeat",
			map[string]any{"timeout": timeout.String()})
	case <-c.closed:
		return nil, c.transportErr()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RequestParameterList asks the vehicle to stream its full parameter table.
func (c *Connection) RequestParameterList(target telemetry.Endpoint) error {
	if err := c.err(); err != nil {
		return err
	}
	err := c.node.WriteMessageAll(&ardupilotmega.MessageParamRequestList{
		TargetSystem:    target.System,
		TargetComponent: target.Component,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransport, "failed to send parameter list request", err)
	}
	return nil
}

// NextParameterEvent returns the next parameter update, or nil when no
// update arrived within the timeout.
func (c *Connection) NextParameterEvent(ctx context.Context, timeout time.Duration) (*telemetry.ParamEvent, error) {
	// Buffered events win over a racing transport error so nothing that
	// arrived before the failure is lost.
	select {
	case ev := <-c.params:
		return &ev, nil
	default:
	}

	if err := c.err(); err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-c.params:
		return &ev, nil
	case <-timer.C:
		return nil, nil
	case <-c.closed:
		return nil, c.transportErr()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts down the node and waits for the event pump to drain.
func (c *Connection) Close() error {
	c.once.Do(func() {
		c.node.Close()
	})
	return c.pump.Wait()
}

func (c *Connection) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr == nil {
		c.lastErr = err
	}
}

func (c *Connection) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Connection) transportErr() error {
	if err := c.err(); err != nil {
		return err
	}
	return errors.New(errors.ErrCodeTransport, "telemetry link closed")
}
