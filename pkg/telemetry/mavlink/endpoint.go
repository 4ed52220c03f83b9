package mavlink

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bluenviron/gomavlib/v3"
)

const defaultSerialBaud = 57600

// ParseEndpoint translates a pymavlink-style connection string into a
// gomavlib endpoint configuration.
//
// Supported forms:
//
//	tcp:host:port       TCP client
//	tcpin:host:port     TCP server
//	udp:host:port       UDP client
//	udpout:host:port    UDP client
//	udpin:host:port     UDP server
//	serial:device:baud  serial link
//	/dev/ttyACM0        serial link, default baud
//	COM3:115200         serial link with baud
func ParseEndpoint(target string) (gomavlib.EndpointConf, error) {
	s := strings.TrimSpace(target)
	if s == "" {
		return nil, fmt.Errorf("empty connection string")
	}

	scheme, rest, found := strings.Cut(s, ":")
	if found {
		switch strings.ToLower(scheme) {
		case "tcp":
			return gomavlib.EndpointTCPClient{Address: rest}, validateHostPort(rest)
		case "tcpin":
			return gomavlib.EndpointTCPServer{Address: rest}, validateHostPort(rest)
		case "udp", "udpout":
			return gomavlib.EndpointUDPClient{Address: rest}, validateHostPort(rest)
		case "udpin":
			return gomavlib.EndpointUDPServer{Address: rest}, validateHostPort(rest)
		case "serial":
			return parseSerial(rest)
		}
	}

	// No recognized scheme: treat as a serial device path, optionally
	// with a trailing baud rate (COM3:115200).
	return parseSerial(s)
}

func validateHostPort(addr string) error {
	host, port, found := strings.Cut(addr, ":")
	if !found || host == "" || port == "" {
		return fmt.Errorf("address %q is not in host:port form", addr)
	}
	if _, err := strconv.Atoi(port); err != nil {
		return fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return nil
}

func parseSerial(s string) (gomavlib.EndpointConf, error) {
	if s == "" {
		return nil, fmt.Errorf("empty serial device")
	}

	device := s
	baud := defaultSerialBaud

	// A trailing ":<number>" is a baud rate. Device paths themselves never
	// contain colons on the platforms we care about.
	if idx := strings.LastIndex(s, ":"); idx > 0 {
		if b, err := strconv.Atoi(s[idx+1:]); err == nil {
			device = s[:idx]
			baud = b
		}
	}

	if device == "" {
		return nil, fmt.Errorf("empty serial device in %q", s)
	}

	return gomavlib.EndpointSerial{Device: device, Baud: baud}, nil
}
