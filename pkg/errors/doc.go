// Package errors provides structured error types for paramvault.
//
// Errors carry a machine-readable code, a human-readable message, an
// optional cause (unwrapped for errors.Is / errors.As), and optional
// context for debugging:
//
//	err := errors.Wrap(errors.ErrCodeConnection, "failed to open link", cause)
//
// A collection that ends on the idle timeout is not an error in this
// taxonomy; it yields a Partial or Empty outcome instead (see the
// collector package).
package errors
