package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultPortStart = 49600
	defaultPortEnd   = 49650
)

// getPortRange returns the configured TCP port range. Environment variables:
// SINGLEINSTANCE_PORT_START and SINGLEINSTANCE_PORT_END (integers, inclusive).
// Falls back to defaults when unset/invalid, and clamps to [1024, 65535].
func getPortRange() (int, int) {
	start := envPort("SINGLEINSTANCE_PORT_START", defaultPortStart)
	end := envPort("SINGLEINSTANCE_PORT_END", defaultPortEnd)
	if start < 1024 {
		start = 1024
	}
	if end > 65535 {
		end = 65535
	}
	if end < start {
		start, end = end, start
	}
	return start, end
}

func envPort(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// PortRange exposes the current effective port range for logging and the
// pre-flight check.
func PortRange() (int, int) { return getPortRange() }
