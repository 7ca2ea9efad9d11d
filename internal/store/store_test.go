package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"systrack/internal/model"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 3, 5, 14, 7, 33, 0, time.UTC)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "reports"), "")
	s.now = fixedClock()
	return s
}

func TestSaveTextFilename(t *testing.T) {
	s := newTestStore(t)

	path, err := s.SaveText("X")
	require.NoError(t, err)

	assert.Equal(t, "sysreport_2024-03-05_14-07.txt", filepath.Base(path))
	assert.Equal(t, s.Dir(), filepath.Dir(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "X", string(content))
}

func TestSaveTextCreatesParents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "reports")
	s := New(dir, "sysreport")
	s.now = fixedClock()

	path, err := s.SaveText("hello")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSameMinuteOverwrites(t *testing.T) {
	s := newTestStore(t)

	first, err := s.SaveText("first")
	require.NoError(t, err)
	second, err := s.SaveText("second")
	require.NoError(t, err)

	assert.Equal(t, first, second)

	content, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveJSONRoundTrip(t *testing.T) {
	s := newTestStore(t)

	snap := model.SystemSnapshot{
		CPU: model.CPUInfo{UsagePercent: 42.5, CoreCount: 8},
		Memory: model.MemoryInfo{
			UsagePercent: 61.3, TotalGB: 16, UsedGB: 8.12,
			FreeGB: 2.5, AvailableGB: 6.6, CachedGB: 4.1,
		},
		Disk: model.DiskInfo{UsagePercent: 72.4, TotalGB: 512, UsedGB: 370.75, FreeGB: 141.25},
		OS:   model.OSInfo{Name: "ubuntu", Version: "6.8.0", Release: "24.04", Platform: "ubuntu-24.04-x86_64"},
	}
	network := model.NetworkResult{
		Online:    true,
		Host:      "google.com",
		LatencyMS: model.Latency(43.2),
		Message:   "Online (Ping google.com: 43ms)",
	}

	path, err := s.SaveJSON(map[string]any{
		"date":    "2024-03-05",
		"system":  snap,
		"network": network,
	})
	require.NoError(t, err)
	assert.Equal(t, "sysreport_2024-03-05_14-07.json", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded struct {
		Date      string               `json:"date"`
		System    model.SystemSnapshot `json:"system"`
		Network   model.NetworkResult  `json:"network"`
		Timestamp string               `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(raw, &loaded))

	assert.Equal(t, "2024-03-05", loaded.Date)
	assert.Equal(t, snap, loaded.System)
	assert.Equal(t, network.Online, loaded.Network.Online)
	assert.Equal(t, network.Host, loaded.Network.Host)
	assert.Equal(t, network.Message, loaded.Network.Message)
	require.NotNil(t, loaded.Network.LatencyMS)
	assert.Equal(t, 43.2, *loaded.Network.LatencyMS)

	parsed, err := time.Parse(time.RFC3339, loaded.Timestamp)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(fixedClock()()))
}

func TestSaveJSONNullLatency(t *testing.T) {
	s := newTestStore(t)

	network := model.NetworkResult{Online: false, Host: "x", Message: "Offline (Unable to reach x)"}
	path, err := s.SaveJSON(map[string]any{"network": network})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"latency_ms": null`)
}

func TestSaveJSONPreservesNonASCII(t *testing.T) {
	s := newTestStore(t)

	path, err := s.SaveJSON(map[string]any{"note": "⚠️ caffè"})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "⚠️ caffè")
	assert.NotContains(t, string(raw), `\u`)
}

func TestSaveJSONInjectsTimestamp(t *testing.T) {
	s := newTestStore(t)

	data := map[string]any{"date": "2024-03-05"}
	_, err := s.SaveJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-05T14:07:33Z", data["timestamp"])
}

func TestSaveTextFailureWrapped(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "reports")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	s := New(blocker, "sysreport")
	s.now = fixedClock()

	_, err := s.SaveText("X")
	require.Error(t, err)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "text", pe.Op)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to save text report:"))
}

func TestSaveJSONFailureWrapped(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "reports")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	s := New(blocker, "sysreport")
	s.now = fixedClock()

	_, err := s.SaveJSON(map[string]any{"k": "v"})
	require.Error(t, err)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "JSON", pe.Op)
}

func TestDefaults(t *testing.T) {
	s := New("", "")
	assert.Equal(t, DefaultDir, s.Dir())
	assert.Equal(t, DefaultPrefix, s.prefix)
}
