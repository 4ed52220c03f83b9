// Package collector implements the bounded parameter-collection
// procedure: it requests a vehicle's full parameter table over an open
// telemetry connection, accumulates value updates into a name-to-value
// set, and decides when the set is complete.
//
// Completion is two-tiered. Seeing the element at the table's last
// position (index == declared-1) gives the strong, index-based guarantee;
// reaching the declared total of distinct names without it is the weaker
// count-based fallback, possible when the link duplicates or drops
// updates. Termination on the sliding idle timeout yields a Partial (or
// Empty) outcome and is deliberately not an error; only transport-level
// failures are.
//
// The collector is single-actor and synchronous: it occupies the calling
// goroutine, never closes the connection it is handed, and sends exactly
// one outbound request per run.
package collector
