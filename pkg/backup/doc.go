// Package backup orchestrates a full parameter backup run: collect the
// parameters over the telemetry link, render them to a parameter file,
// persist it atomically, and publish it to a git remote.
//
// The pipeline is strictly sequential and fails fast. The telemetry link
// is closed before any file or git work begins, so a slow push can never
// hold a serial port open.
package backup
