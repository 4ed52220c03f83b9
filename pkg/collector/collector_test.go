package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavkit/paramvault/pkg/telemetry"
)

var testTarget = telemetry.Endpoint{System: 1, Component: 1}

// fakeConn scripts a sequence of parameter events. A nil entry simulates a
// quiet interval: the fake blocks for the message timeout and reports no
// event, like a real link would. Once the script is exhausted the link
// stays quiet (or fails, if failAfter is set).
type fakeConn struct {
	events     []*telemetry.ParamEvent
	pos        int
	failAfter  error
	requestErr error
	requests   int
}

func (f *fakeConn) AwaitHandshake(ctx context.Context, timeout time.Duration) (*telemetry.Endpoint, error) {
	ep := testTarget
	return &ep, nil
}

func (f *fakeConn) RequestParameterList(target telemetry.Endpoint) error {
	f.requests++
	return f.requestErr
}

func (f *fakeConn) NextParameterEvent(ctx context.Context, timeout time.Duration) (*telemetry.ParamEvent, error) {
	if f.pos >= len(f.events) {
		if f.failAfter != nil {
			return nil, f.failAfter
		}
		time.Sleep(timeout)
		return nil, nil
	}
	ev := f.events[f.pos]
	f.pos++
	if ev == nil {
		time.Sleep(timeout)
		return nil, nil
	}
	return ev, nil
}

func (f *fakeConn) Close() error { return nil }

func ev(name string, value float64, index, total int) *telemetry.ParamEvent {
	return &telemetry.ParamEvent{Name: name, Value: value, Index: index, TotalCount: total}
}

func fastOpts() Options {
	return Options{OverallTimeout: 100 * time.Millisecond, MessageTimeout: 10 * time.Millisecond}
}

func TestCollectCompleteInOrder(t *testing.T) {
	conn := &fakeConn{events: []*telemetry.ParamEvent{
		ev("A", 1.0, 0, 3),
		ev("B", 2.0, 1, 3),
		ev("C", 3.0, 2, 3),
	}}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, out.Status)
	assert.Equal(t, BasisIndex, out.Basis)
	assert.Equal(t, 3, out.DeclaredCount)
	assert.Equal(t, ParameterSet{"A": 1.0, "B": 2.0, "C": 3.0}, out.Params)
	assert.Equal(t, 1, conn.requests, "exactly one outbound request per run")
}

func TestCollectCompleteOutOfOrder(t *testing.T) {
	// The last-index element arrives first; completion still waits for the
	// remaining names and is then flagged index-based.
	conn := &fakeConn{events: []*telemetry.ParamEvent{
		ev("C", 3.0, 2, 3),
		ev("A", 1.0, 0, 3),
		ev("B", 2.0, 1, 3),
	}}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, out.Status)
	assert.Equal(t, BasisIndex, out.Basis)
	assert.Equal(t, ParameterSet{"A": 1.0, "B": 2.0, "C": 3.0}, out.Params)
}

func TestCollectCompleteCountBased(t *testing.T) {
	// All names arrive but the last-position element never does.
	conn := &fakeConn{events: []*telemetry.ParamEvent{
		ev("A", 1.0, 0, 3),
		ev("B", 2.0, 1, 3),
		ev("C", 3.0, 1, 3), // duplicate index, never index 2
	}}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, out.Status)
	assert.Equal(t, BasisCount, out.Basis)
	assert.Equal(t, 3, out.Received)
}

func TestCollectDuplicateNamesOverwrite(t *testing.T) {
	conn := &fakeConn{events: []*telemetry.ParamEvent{
		ev("A", 1.0, 0, 3),
		ev("A", 9.0, 0, 3),
		ev("B", 2.0, 1, 3),
		ev("C", 3.0, 2, 3),
	}}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, out.Status)
	assert.InDelta(t, 9.0, out.Params["A"], 1e-9)
}

func TestCollectEarlyLastIndexDoesNotShortCircuit(t *testing.T) {
	// A lone retransmitted last-index event must not complete a
	// three-element table with a single entry.
	conn := &fakeConn{events: []*telemetry.ParamEvent{
		ev("C", 3.0, 2, 3),
	}}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, out.Status)
	assert.Equal(t, BasisNone, out.Basis)
	assert.Equal(t, 1, out.Received)
	assert.Equal(t, 3, out.DeclaredCount)
}

func TestCollectPartialOnIdleTimeout(t *testing.T) {
	conn := &fakeConn{events: []*telemetry.ParamEvent{
		ev("A", 1.0, 0, 5),
		ev("B", 2.0, 1, 5),
	}}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err, "timeout termination is not an error")

	assert.Equal(t, StatusPartial, out.Status)
	assert.Equal(t, ParameterSet{"A": 1.0, "B": 2.0}, out.Params)
	assert.Equal(t, 5, out.DeclaredCount)
}

func TestCollectEmptyOnIdleTimeout(t *testing.T) {
	conn := &fakeConn{}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err)

	assert.Equal(t, StatusEmpty, out.Status)
	assert.Equal(t, 0, out.Received)
	assert.Equal(t, -1, out.DeclaredCount)
}

func TestCollectQuietIntervalsDoNotResetIdleClock(t *testing.T) {
	// Quiet ticks between events are fine as long as data keeps flowing,
	// then the idle timeout fires measured from the last accepted update.
	conn := &fakeConn{events: []*telemetry.ParamEvent{
		ev("A", 1.0, 0, 3),
		nil,
		nil,
		ev("B", 2.0, 1, 3),
	}}

	start := time.Now()
	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, out.Status)
	assert.Equal(t, 2, out.Received)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestCollectDiscardsUndecodableNames(t *testing.T) {
	conn := &fakeConn{events: []*telemetry.ParamEvent{
		ev("\xff\xfe", 0.0, 0, 3),
		ev("A", 1.0, 0, 3),
		ev("B", 2.0, 1, 3),
		ev("C", 3.0, 2, 3),
	}}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, out.Status)
	assert.Equal(t, 1, out.Discarded)
	assert.Equal(t, 3, out.Received)
}

func TestCollectDeclaredCountFixedAtFirstObservation(t *testing.T) {
	// A stale endpoint that inflates the total mid-run does not move the
	// completion threshold.
	conn := &fakeConn{events: []*telemetry.ParamEvent{
		ev("A", 1.0, 0, 3),
		ev("B", 2.0, 1, 5),
		ev("C", 3.0, 2, 5),
	}}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, out.Status)
	assert.Equal(t, 3, out.DeclaredCount)
}

func TestCollectTransportErrorKeepsAccumulatedData(t *testing.T) {
	linkErr := errors.New("link lost")
	conn := &fakeConn{
		events:    []*telemetry.ParamEvent{ev("A", 1.0, 0, 3)},
		failAfter: linkErr,
	}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.ErrorIs(t, err, linkErr)

	assert.Equal(t, StatusPartial, out.Status)
	assert.Equal(t, ParameterSet{"A": 1.0}, out.Params)
}

func TestCollectRequestFailure(t *testing.T) {
	reqErr := errors.New("send failed")
	conn := &fakeConn{requestErr: reqErr}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.ErrorIs(t, err, reqErr)
	assert.Equal(t, StatusEmpty, out.Status)
}

func TestCollectTrimsNulPadding(t *testing.T) {
	conn := &fakeConn{events: []*telemetry.ParamEvent{
		ev("RATE_RLL_P\x00\x00\x00\x00\x00\x00", 0.135, 0, 1),
	}}

	out, err := Collect(context.Background(), conn, testTarget, fastOpts())
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, out.Status)
	assert.Contains(t, out.Params, "RATE_RLL_P")
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"RATE_RLL_P", "RATE_RLL_P", true},
		{"NAME\x00\x00", "NAME", true},
		{"\x00\x00", "", false},
		{"", "", false},
		{"\xff\xfe", "", false},
		{"BAD\x01NAME", "", false},
	}

	for _, tt := range tests {
		got, ok := sanitizeName(tt.raw)
		assert.Equal(t, tt.ok, ok, "sanitizeName(%q)", tt.raw)
		if ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestParameterSetNames(t *testing.T) {
	set := ParameterSet{"Z_PARAM": 1, "A_PARAM": 2, "M_PARAM": 3}
	assert.Equal(t, []string{"A_PARAM", "M_PARAM", "Z_PARAM"}, set.Names())
	assert.Equal(t, 3, set.Len())
}
