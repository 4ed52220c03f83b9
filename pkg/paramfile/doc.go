// Package paramfile renders parameter sets to the ArduPilot .param text
// format: a #-prefixed comment header (source connection, generation
// timestamp, responder identity, parameter count) followed by one
// NAME,VALUE line per parameter, sorted by name, values fixed-point with
// eight fractional digits.
//
// Rendering is deterministic for a given set and metadata, so repeated
// backups of an unchanged vehicle produce byte-identical files and clean
// version-control diffs. Persistence is write-temp-then-rename.
package paramfile
