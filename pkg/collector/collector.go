package collector

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/mavkit/paramvault/pkg/telemetry"
)

const (
	// DefaultOverallTimeout bounds total idle wait: time since the last
	// accepted update, not wall-clock since start.
	DefaultOverallTimeout = 45 * time.Second

	// DefaultMessageTimeout bounds each individual wait for the next
	// parameter event.
	DefaultMessageTimeout = 2 * time.Second
)

// progressLogInterval throttles per-parameter progress logs on fast links.
const progressLogInterval = 250 * time.Millisecond

// Options configures a collection run.
type Options struct {
	// OverallTimeout is the sliding idle timeout. Every accepted update
	// resets it; expiry terminates the run with a Partial or Empty outcome.
	OverallTimeout time.Duration

	// MessageTimeout bounds each wait-for-next-event call. Expiry without
	// an event does not reset the idle clock.
	MessageTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.OverallTimeout <= 0 {
		o.OverallTimeout = DefaultOverallTimeout
	}
	if o.MessageTimeout <= 0 {
		o.MessageTimeout = DefaultMessageTimeout
	}
	return o
}

// Collect requests the full parameter table from target and accumulates
// value updates until the table is complete or the idle timeout elapses.
//
// Exactly one outbound request is sent; there is no re-request after a
// partial run. The declared total is fixed at its first observation even
// though the protocol resends it with every message.
//
// Completion requires the distinct-name count to reach the declared
// total. The outcome is flagged index-based when the element at the
// table's last position was observed during the run, count-based
// otherwise. A lone early last-index event therefore keeps the run
// collecting instead of terminating with a short table.
//
// A transport-level failure aborts the run and is returned as the error;
// the Outcome still carries everything accumulated before the failure so
// the caller can decide whether to persist it.
func Collect(ctx context.Context, conn telemetry.Connection, target telemetry.Endpoint, opts Options) (*Outcome, error) {
	opts = opts.withDefaults()

	out := &Outcome{
		Status:        StatusEmpty,
		Basis:         BasisNone,
		Params:        make(ParameterSet),
		DeclaredCount: -1,
		Endpoint:      target,
	}

	start := time.Now()
	defer func() {
		out.Duration = time.Since(start)
		out.Received = out.Params.Len()
		collectionDuration.Observe(out.Duration.Seconds())
		collectionTotal.WithLabelValues(string(out.Status)).Inc()
		collectionParameters.Set(float64(out.Received))
	}()

	if err := conn.RequestParameterList(target); err != nil {
		return out, err
	}

	slog.Info("requested parameter list",
		"system", target.System,
		"component", target.Component,
		"idleTimeout", opts.OverallTimeout.String())

	declared := -1
	sawLastIndex := false
	lastActivity := time.Now()
	progress := rate.NewLimiter(rate.Every(progressLogInterval), 1)

	for {
		if time.Since(lastActivity) > opts.OverallTimeout {
			if out.Params.Len() > 0 {
				out.Status = StatusPartial
				slog.Warn("idle timeout waiting for parameters",
					"received", out.Params.Len(), "declared", declared)
			} else {
				out.Status = StatusEmpty
				slog.Warn("idle timeout with no parameters received")
			}
			return out, nil
		}

		ev, err := conn.NextParameterEvent(ctx, opts.MessageTimeout)
		if err != nil {
			if out.Params.Len() > 0 {
				out.Status = StatusPartial
			}
			return out, err
		}
		if ev == nil {
			// No event within the message timeout; the idle clock keeps
			// running.
			continue
		}

		name, ok := sanitizeName(ev.Name)
		if !ok {
			out.Discarded++
			discardedTotal.Inc()
			slog.Warn("discarding parameter event with undecodable name",
				"raw", ev.Name, "index", ev.Index)
			continue
		}

		out.Params[name] = ev.Value
		if declared < 0 && ev.TotalCount > 0 {
			declared = ev.TotalCount
			out.DeclaredCount = declared
		}
		lastActivity = time.Now()

		if declared > 0 && ev.Index == declared-1 {
			sawLastIndex = true
		}

		if progress.Allow() {
			slog.Debug("parameter received",
				"name", name,
				"value", ev.Value,
				"index", ev.Index,
				"received", out.Params.Len(),
				"declared", declared)
		}

		if declared > 0 && out.Params.Len() >= declared {
			out.Status = StatusComplete
			if sawLastIndex {
				out.Basis = BasisIndex
			} else {
				out.Basis = BasisCount
				slog.Warn("parameter download completed on count, not index")
			}
			slog.Info("received all parameters",
				"count", out.Params.Len(),
				"declared", declared,
				"basis", string(out.Basis))
			return out, nil
		}
	}
}

// sanitizeName strips NUL padding from a raw parameter identifier and
// rejects names that are empty or not printable text.
func sanitizeName(raw string) (string, bool) {
	name := strings.TrimRight(raw, "\x00")
	if name == "" || !utf8.ValidString(name) {
		return "", false
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return "", false
		}
	}
	return name, true
}
