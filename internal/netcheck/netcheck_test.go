package netcheck

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"systrack/internal/cmdexec"
)

type mockRunner struct {
	exists bool
	out    []byte
	err    error
	calls  *int
}

func (m mockRunner) Exists(name string) bool { return m.exists }

func (m mockRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	if m.calls != nil {
		*m.calls++
	}
	return m.out, m.err
}

func (m mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if m.calls != nil {
		*m.calls++
	}
	return m.out, m.err
}

func TestParseLatency(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   float64
		ok     bool
	}{
		{"unix style", "64 bytes from 142.250.180.78: icmp_seq=1 ttl=115 time=43.2 ms", 43.2, true},
		{"windows style upper", "Reply from 8.8.8.8: bytes=32 TIME=10ms TTL=115", 10, true},
		{"below one ms", "Reply from 192.168.1.1: bytes=32 time<1ms TTL=64", 1, true},
		{"first match wins", "time=0.5 ms\ntime=99 ms", 0.5, true},
		{"integer value", "time=7 ms", 7, true},
		{"no token", "1 packets transmitted, 1 received, 0% packet loss", 0, false},
		{"empty", "", 0, false},
		{"token without digits", "time=fast", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLatency(tc.output)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestCheckReachabilityOnlineWithLatency(t *testing.T) {
	out := "PING google.com (142.250.180.78): 56 data bytes\n" +
		"64 bytes from 142.250.180.78: icmp_seq=1 ttl=115 time=43.2 ms\n"
	restore := cmdexec.SetRunner(mockRunner{exists: true, out: []byte(out)})
	t.Cleanup(restore)

	res, err := CheckReachability(context.Background(), "google.com", 3*time.Second)
	require.NoError(t, err)

	assert.True(t, res.Online)
	assert.Equal(t, "google.com", res.Host)
	require.NotNil(t, res.LatencyMS)
	assert.Equal(t, 43.2, *res.LatencyMS)
	assert.Equal(t, "Online (Ping google.com: 43ms)", res.Message)
}

func TestCheckReachabilityOnlineWithoutLatency(t *testing.T) {
	restore := cmdexec.SetRunner(mockRunner{exists: true, out: []byte("1 packets transmitted, 1 received")})
	t.Cleanup(restore)

	res, err := CheckReachability(context.Background(), "google.com", 3*time.Second)
	require.NoError(t, err)

	assert.True(t, res.Online)
	assert.Nil(t, res.LatencyMS)
	assert.Equal(t, "Online (Ping google.com: Success)", res.Message)
}

func TestCheckReachabilityUnreachable(t *testing.T) {
	restore := cmdexec.SetRunner(mockRunner{exists: true, err: &exec.ExitError{}})
	t.Cleanup(restore)

	res, err := CheckReachability(context.Background(), "badhost.example", 3*time.Second)
	require.NoError(t, err)

	assert.False(t, res.Online)
	assert.Nil(t, res.LatencyMS)
	assert.Equal(t, "Offline (Unable to reach badhost.example)", res.Message)
}

func TestCheckReachabilityTimeout(t *testing.T) {
	restore := cmdexec.SetRunner(mockRunner{exists: true, err: context.DeadlineExceeded})
	t.Cleanup(restore)

	res, err := CheckReachability(context.Background(), "google.com", time.Second)
	require.NoError(t, err)

	assert.False(t, res.Online)
	assert.Equal(t, "Offline (Timeout connecting to google.com)", res.Message)
}

func TestCheckReachabilityExecFailure(t *testing.T) {
	restore := cmdexec.SetRunner(mockRunner{exists: true, err: errors.New("fork failed")})
	t.Cleanup(restore)

	res, err := CheckReachability(context.Background(), "google.com", time.Second)
	require.NoError(t, err)

	assert.False(t, res.Online)
	assert.Equal(t, "Offline (Error: fork failed)", res.Message)
}

func TestCheckReachabilityPingMissing(t *testing.T) {
	restore := cmdexec.SetRunner(mockRunner{exists: false})
	t.Cleanup(restore)

	_, err := CheckReachability(context.Background(), "google.com", time.Second)
	require.Error(t, err)

	var pu *ProbeUnavailableError
	require.ErrorAs(t, err, &pu)
	assert.Equal(t, "ping command not found. Network diagnostics unavailable.", err.Error())
}

func TestCheckReachabilityIdempotent(t *testing.T) {
	calls := 0
	restore := cmdexec.SetRunner(mockRunner{exists: true, err: &exec.ExitError{}, calls: &calls})
	t.Cleanup(restore)

	first, err := CheckReachability(context.Background(), "badhost.example", time.Second)
	require.NoError(t, err)
	second, err := CheckReachability(context.Background(), "badhost.example", time.Second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, first.Online)
	assert.Equal(t, 2, calls)
}

func TestCheckReachabilityDefaults(t *testing.T) {
	restore := cmdexec.SetRunner(mockRunner{exists: true, out: []byte("time=1.5 ms")})
	t.Cleanup(restore)

	res, err := CheckReachability(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, "google.com", res.Host)
}
