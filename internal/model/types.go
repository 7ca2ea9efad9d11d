package model

// CPUInfo holds processor usage at one instant
type CPUInfo struct {
	UsagePercent float64 `json:"usage_percent"`
	CoreCount    int     `json:"core_count"`
}

// MemoryInfo holds RAM usage in gibibytes, rounded to 2 decimals.
// CachedGB is derived as AvailableGB - FreeGB and may be negative when
// the host reports available below free; it is kept as reported.
type MemoryInfo struct {
	UsagePercent float64 `json:"usage_percent"`
	TotalGB      float64 `json:"total_gb"`
	UsedGB       float64 `json:"used_gb"`
	FreeGB       float64 `json:"free_gb"`
	AvailableGB  float64 `json:"available_gb"`
	CachedGB     float64 `json:"cached_gb"`
}

// DiskInfo holds usage of the root volume in gibibytes
type DiskInfo struct {
	UsagePercent float64 `json:"usage_percent"`
	TotalGB      float64 `json:"total_gb"`
	UsedGB       float64 `json:"used_gb"`
	FreeGB       float64 `json:"free_gb"`
}

// OSInfo holds operating system identity strings
type OSInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Release  string `json:"release"`
	Platform string `json:"platform"`
}

// SystemSnapshot is one immutable reading of host state. It is built
// fresh for every report and never cached across requests.
type SystemSnapshot struct {
	CPU    CPUInfo    `json:"cpu"`
	Memory MemoryInfo `json:"memory"`
	Disk   DiskInfo   `json:"disk"`
	OS     OSInfo     `json:"os"`
}

// NetworkResult is the outcome of a single reachability probe.
// LatencyMS is nil when the probe succeeded but no round-trip time
// could be read from the tool output.
type NetworkResult struct {
	Online    bool     `json:"online"`
	Host      string   `json:"host"`
	LatencyMS *float64 `json:"latency_ms"`
	Message   string   `json:"message"`
}

// ThroughputServer identifies the measurement server a bandwidth test
// ran against. City is the server name up to the first comma.
type ThroughputServer struct {
	Name       string
	City       string
	Sponsor    string
	Country    string
	DistanceKM float64
	ID         string
}

// ThroughputErrorKind classifies why a bandwidth measurement failed.
type ThroughputErrorKind string

const (
	ThroughputDependencyMissing ThroughputErrorKind = "dependency-missing"
	ThroughputForbidden         ThroughputErrorKind = "forbidden"
	ThroughputConnectionError   ThroughputErrorKind = "connection-error"
	ThroughputOther             ThroughputErrorKind = "other"
)

// ThroughputError describes a failed measurement. It travels inside
// ThroughputResult rather than as a returned error: a failed speed test
// is still a renderable outcome, not a pipeline failure.
type ThroughputError struct {
	Kind    ThroughputErrorKind
	Message string
}

func (e *ThroughputError) Error() string { return e.Message }

// ThroughputResult is the outcome of one bandwidth measurement.
// Speeds are megabits per second, rounded to 2 decimals.
type ThroughputResult struct {
	Success      bool
	DownloadMbps float64
	UploadMbps   float64
	PingMS       float64
	Server       ThroughputServer
	Err          *ThroughputError
}

// Latency is a convenience for building a NetworkResult with a known
// round-trip time.
func Latency(ms float64) *float64 { return &ms }
