package netcheck

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"systrack/internal/cmdexec"
	"systrack/internal/model"
)

const (
	// DefaultHost is probed when the caller does not name one.
	DefaultHost = "google.com"
	// DefaultTimeout bounds a single reachability probe.
	DefaultTimeout = 3 * time.Second

	pingTool = "ping"
)

// ProbeUnavailableError means the reachability tool itself is missing
// from the host. Unlike an unreachable target, this aborts the probe:
// there is no result to report.
type ProbeUnavailableError struct {
	Tool string
}

func (e *ProbeUnavailableError) Error() string {
	return fmt.Sprintf("%s command not found. Network diagnostics unavailable.", e.Tool)
}

var latencyRe = regexp.MustCompile(`time[<=](\d+\.?\d*)`)

// ParseLatency extracts the first round-trip time from ping output,
// matching "time=12.3" and "time<1" tokens case-insensitively. A miss
// is an expected outcome (some platforms print no per-packet time),
// never an error.
func ParseLatency(output string) (float64, bool) {
	m := latencyRe.FindStringSubmatch(strings.ToLower(output))
	if m == nil {
		return 0, false
	}
	ms, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}

// CheckReachability sends a single ping to host and reports the outcome.
// Unreachable, timed-out and otherwise-failed probes are valid offline
// results; only a missing ping binary is an error. One attempt, no
// retries.
func CheckReachability(ctx context.Context, host string, timeout time.Duration) (model.NetworkResult, error) {
	if host == "" {
		host = DefaultHost
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if !cmdexec.Exists(pingTool) {
		return model.NetworkResult{}, &ProbeUnavailableError{Tool: pingTool}
	}

	// The tool enforces its own timeout; one extra second covers process
	// teardown before the context kills it.
	runCtx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()

	out, err := cmdexec.Output(runCtx, pingTool, pingArgs(host, timeout)...)
	if err != nil {
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
			return offline(host, fmt.Sprintf("Offline (Timeout connecting to %s)", host)), nil
		case isExitError(err):
			return offline(host, fmt.Sprintf("Offline (Unable to reach %s)", host)), nil
		default:
			return offline(host, fmt.Sprintf("Offline (Error: %v)", err)), nil
		}
	}

	if ms, ok := ParseLatency(string(out)); ok {
		return model.NetworkResult{
			Online:    true,
			Host:      host,
			LatencyMS: model.Latency(ms),
			Message:   fmt.Sprintf("Online (Ping %s: %.0fms)", host, ms),
		}, nil
	}
	return model.NetworkResult{
		Online:  true,
		Host:    host,
		Message: fmt.Sprintf("Online (Ping %s: Success)", host),
	}, nil
}

func pingArgs(host string, timeout time.Duration) []string {
	if runtime.GOOS == "windows" {
		return []string{"-n", "1", "-w", strconv.Itoa(int(timeout.Milliseconds())), host}
	}
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}
	return []string{"-c", "1", "-W", strconv.Itoa(secs), host}
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

func offline(host, message string) model.NetworkResult {
	return model.NetworkResult{Online: false, Host: host, Message: message}
}
