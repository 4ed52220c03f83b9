// Package telemetry defines the transport boundary between the parameter
// collection logic and the MAVLink link implementation.
//
// The collector and backup pipeline depend only on the Connection
// interface defined here; the mavlink subpackage provides the production
// implementation over gomavlib.
package telemetry
