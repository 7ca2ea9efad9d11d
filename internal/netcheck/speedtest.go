package netcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"systrack/internal/cmdexec"
	"systrack/internal/format"
	"systrack/internal/model"
)

const speedtestTool = "speedtest-cli"

// speedtestPayload is the subset of `speedtest-cli --json` output the
// result needs. The tool reports download/upload in bits per second.
type speedtestPayload struct {
	Download float64 `json:"download"`
	Upload   float64 `json:"upload"`
	Ping     float64 `json:"ping"`
	Server   struct {
		Name    string  `json:"name"`
		Sponsor string  `json:"sponsor"`
		Country string  `json:"country"`
		D       float64 `json:"d"`
		ID      string  `json:"id"`
	} `json:"server"`
}

// MeasureThroughput runs a full bandwidth measurement against the Ookla
// network: the tool enumerates servers, locks onto the best one, then
// transfers sequentially in both directions. Expect tens of seconds.
// Failures come back inside the result, classified, never as an error.
func MeasureThroughput(ctx context.Context) model.ThroughputResult {
	if !cmdexec.Exists(speedtestTool) {
		return failure(model.ThroughputDependencyMissing,
			"speedtest-cli not installed. Run: pip install speedtest-cli")
	}

	out, err := cmdexec.CombinedOutput(ctx, speedtestTool, "--json", "--secure")
	if err != nil {
		return classifyFailure(string(out), err)
	}

	var payload speedtestPayload
	if jsonErr := json.Unmarshal(bytes.TrimSpace(out), &payload); jsonErr != nil {
		return classifyFailure(string(out), jsonErr)
	}

	name := payload.Server.Name
	city := name
	if i := strings.Index(name, ","); i >= 0 {
		city = name[:i]
	}

	return model.ThroughputResult{
		Success:      true,
		DownloadMbps: format.BitsToMbps(payload.Download),
		UploadMbps:   format.BitsToMbps(payload.Upload),
		PingMS:       format.Round2(payload.Ping),
		Server: model.ThroughputServer{
			Name:       name,
			City:       city,
			Sponsor:    payload.Server.Sponsor,
			Country:    payload.Server.Country,
			DistanceKM: format.Round2(payload.Server.D),
			ID:         payload.Server.ID,
		},
	}
}

func classifyFailure(output string, err error) model.ThroughputResult {
	text := strings.TrimSpace(output)
	if err != nil {
		text = strings.TrimSpace(text + "\n" + err.Error())
	}

	switch {
	case strings.Contains(text, "403") || strings.Contains(text, "Forbidden"):
		return failure(model.ThroughputForbidden,
			"HTTP 403 Forbidden - Ookla servers blocked the request. This may be temporary, please try again later.")
	case strings.Contains(text, "Connection") || strings.Contains(text, "Unable to connect") ||
		strings.Contains(text, "Cannot retrieve speedtest configuration"):
		return failure(model.ThroughputConnectionError,
			"Connection error - Unable to reach Ookla servers. Check your internet connection.")
	default:
		return failure(model.ThroughputOther, fmt.Sprintf("Speedtest failed: %s", text))
	}
}

func failure(kind model.ThroughputErrorKind, message string) model.ThroughputResult {
	return model.ThroughputResult{
		Success: false,
		Err:     &model.ThroughputError{Kind: kind, Message: message},
	}
}
