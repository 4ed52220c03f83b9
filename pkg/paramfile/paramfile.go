package paramfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mavkit/paramvault/pkg/collector"
	"github.com/mavkit/paramvault/pkg/telemetry"
)

// timestampLayout is the header timestamp format.
const timestampLayout = "2006-01-02 15:04:05"

// Metadata carries the header fields of a parameter file. All inputs are
// explicit so rendering the same set with the same metadata is
// byte-identical, which keeps version-control diffs meaningful.
type Metadata struct {
	// Connection is the connection string the parameters came from.
	Connection string

	// Endpoint identifies the responding vehicle.
	Endpoint telemetry.Endpoint

	// GeneratedAt is the generation timestamp recorded in the header.
	GeneratedAt time.Time
}

var vehicleCaser = cases.Title(language.English)

// vehicleLabel turns a raw MAVLink type label such as
// "MAV_TYPE_QUADROTOR" into "Quadrotor" for the header.
func vehicleLabel(raw string) string {
	s := strings.TrimPrefix(raw, "MAV_TYPE_")
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return ""
	}
	return vehicleCaser.String(strings.ToLower(s))
}

// Render serializes a parameter set to the .param text format: a comment
// header block followed by one NAME,VALUE line per parameter, sorted
// lexicographically by name, values rendered as fixed-point with eight
// fractional digits.
func Render(set collector.ParameterSet, meta Metadata) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# ArduPilot Parameter File\n")
	if meta.Connection != "" {
		fmt.Fprintf(&buf, "# Source Connection: %s\n", meta.Connection)
	}
	fmt.Fprintf(&buf, "# Last Updated: %s\n", meta.GeneratedAt.Format(timestampLayout))
	if label := vehicleLabel(meta.Endpoint.Vehicle); label != "" {
		fmt.Fprintf(&buf, "# Vehicle: %s (%s)\n", meta.Endpoint, label)
	} else {
		fmt.Fprintf(&buf, "# Vehicle: %s\n", meta.Endpoint)
	}
	fmt.Fprintf(&buf, "# Parameters: %d\n", set.Len())
	fmt.Fprintf(&buf, "#\n")

	for _, name := range set.Names() {
		fmt.Fprintf(&buf, "%s,%.8f\n", name, set[name])
	}

	return buf.Bytes()
}

// Parse reads a rendered parameter file back into a set. Comment lines
// and blank lines are ignored.
func Parse(r io.Reader) (collector.ParameterSet, error) {
	set := make(collector.ParameterSet)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, value, found := strings.Cut(line, ",")
		if !found || name == "" {
			return nil, fmt.Errorf("line %d: not in NAME,VALUE form: %q", lineNo, line)
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value for %s: %w", lineNo, name, err)
		}
		set[name] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}

	return set, nil
}
