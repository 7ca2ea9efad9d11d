// Package report renders snapshots and probe results into the two
// report fidelities and the derived status line. Everything here is
// pure text assembly; callers supply the clock.
package report

import (
	"fmt"
	"strings"
	"time"

	"systrack/internal/model"
)

const (
	ModeSummary  = "summary"
	ModeDetailed = "detailed"

	// highUsageThreshold separates Normal from High in the status line.
	highUsageThreshold = 80.0
)

// Report is a rendered diagnostic report. It is built, persisted and
// returned in one request; nothing retains it afterwards.
type Report struct {
	Mode       string
	Date       string
	StatusLine string
	Text       string
}

// DateHeader formats the calendar date used in report headers and the
// JSON "date" field.
func DateHeader(t time.Time) string {
	return t.Format("2006-01-02")
}

// SummaryLine derives the one-line status classification. CPU, memory
// and disk read High at 80% usage and above, Normal below; the network
// column carries the probe outcome. Field order is fixed.
func SummaryLine(snap model.SystemSnapshot, net model.NetworkResult) string {
	parts := []string{
		"CPU: " + classifyUsage(snap.CPU.UsagePercent),
		"Memory: " + classifyUsage(snap.Memory.UsagePercent),
		"Disk: " + classifyUsage(snap.Disk.UsagePercent),
		"Network: " + classifyNetwork(net),
	}
	return strings.Join(parts, " | ")
}

func classifyUsage(percent float64) string {
	if percent >= highUsageThreshold {
		return "High"
	}
	return "Normal"
}

func classifyNetwork(net model.NetworkResult) string {
	switch {
	case net.Online && net.LatencyMS != nil:
		return fmt.Sprintf("Online (%.0fms)", *net.LatencyMS)
	case net.Online:
		return "Online"
	default:
		return "Offline"
	}
}

// FormatSummary renders the condensed report body: the four system
// lines, a blank line, then the network block.
func FormatSummary(snap model.SystemSnapshot, net model.NetworkResult) string {
	return systemSummary(snap) + "\n\n" + networkSummary(net)
}

// FormatDetailed renders the exhaustive report body with one section
// per metric group.
func FormatDetailed(snap model.SystemSnapshot, net model.NetworkResult) string {
	return systemDetailed(snap) + "\n\n" + networkDetailed(net)
}

func systemSummary(snap model.SystemSnapshot) string {
	return fmt.Sprintf(
		"OS: %s %s\nCPU Usage: %.1f%%\nMemory Usage: %.1f%%\nDisk Usage: %.1f%%",
		snap.OS.Name, snap.OS.Release,
		snap.CPU.UsagePercent, snap.Memory.UsagePercent, snap.Disk.UsagePercent,
	)
}

func networkSummary(net model.NetworkResult) string {
	if net.Online && net.LatencyMS != nil {
		return fmt.Sprintf("Network: %s\nPing Time: %.0f ms", net.Message, *net.LatencyMS)
	}
	return fmt.Sprintf("Network: %s", net.Message)
}

func systemDetailed(snap model.SystemSnapshot) string {
	lines := []string{
		"=== System Information ===",
		fmt.Sprintf("Operating System: %s %s", snap.OS.Name, snap.OS.Release),
		fmt.Sprintf("OS Version: %s", snap.OS.Version),
		fmt.Sprintf("Platform: %s", snap.OS.Platform),
		"",
		"=== CPU Information ===",
		fmt.Sprintf("CPU Usage: %.1f%%", snap.CPU.UsagePercent),
		fmt.Sprintf("CPU Cores: %d", snap.CPU.CoreCount),
		"",
		"=== Memory Information ===",
		fmt.Sprintf("Memory Usage: %.1f%%", snap.Memory.UsagePercent),
		fmt.Sprintf("Total Memory: %.2f GB", snap.Memory.TotalGB),
		fmt.Sprintf("Used Memory: %.2f GB", snap.Memory.UsedGB),
		fmt.Sprintf("Free Memory: %.2f GB", snap.Memory.FreeGB),
		fmt.Sprintf("Available Memory: %.2f GB (includes %.2f GB cache)",
			snap.Memory.AvailableGB, snap.Memory.CachedGB),
		"",
		"=== Disk Information ===",
		fmt.Sprintf("Disk Usage: %.1f%%", snap.Disk.UsagePercent),
		fmt.Sprintf("Total Disk Space: %.2f GB", snap.Disk.TotalGB),
		fmt.Sprintf("Used Disk Space: %.2f GB", snap.Disk.UsedGB),
		fmt.Sprintf("Free Disk Space: %.2f GB", snap.Disk.FreeGB),
		"Note: Some disk space may be reserved by the system.",
	}
	return strings.Join(lines, "\n")
}

func networkDetailed(net model.NetworkResult) string {
	status := "Offline"
	if net.Online {
		status = "Online"
	}
	lines := []string{
		"=== Network Diagnostics ===",
		fmt.Sprintf("Host Tested: %s", net.Host),
		fmt.Sprintf("Status: %s", status),
	}
	if net.LatencyMS != nil {
		lines = append(lines, fmt.Sprintf("Ping Time: %.2f ms", *net.LatencyMS))
	}
	lines = append(lines, fmt.Sprintf("Message: %s", net.Message), "")
	return strings.Join(lines, "\n")
}

// FormatThroughput renders a bandwidth measurement. Failures collapse
// to a single error line; successes open with the server disclaimer.
func FormatThroughput(res model.ThroughputResult) string {
	if !res.Success {
		message := "Unknown error"
		if res.Err != nil {
			message = res.Err.Message
		}
		return fmt.Sprintf("Speedtest Error: %s", message)
	}

	lines := []string{
		"",
		"=== Ookla Speedtest Results ===",
		"",
		"⚠️  DISCLAIMER: Results are estimates based on the test server selected.",
		"   Server location/provider may not reflect your actual location/ISP.",
		"",
		fmt.Sprintf("Test Server: %s", res.Server.Name),
		fmt.Sprintf("Server Provider: %s", res.Server.Sponsor),
		fmt.Sprintf("Server Location: %s, %s", res.Server.City, res.Server.Country),
		fmt.Sprintf("Distance to Server: %.2f km", res.Server.DistanceKM),
		"",
		"Network Performance:",
		fmt.Sprintf("  Ping: %.2f ms", res.PingMS),
		fmt.Sprintf("  Download Speed: %.2f Mbps", res.DownloadMbps),
		fmt.Sprintf("  Upload Speed: %.2f Mbps", res.UploadMbps),
	}
	return strings.Join(lines, "\n")
}

// AssembleReport builds the complete report at the requested fidelity.
// Unrecognized modes fall back to summary, never an error.
func AssembleReport(snap model.SystemSnapshot, net model.NetworkResult, mode string, now time.Time) Report {
	if mode != ModeDetailed {
		mode = ModeSummary
	}

	date := DateHeader(now)
	header := fmt.Sprintf("SysTrack Diagnostic Report - %s", date)
	separator := strings.Repeat("-", len(header))
	status := SummaryLine(snap, net)

	var systemText, networkText string
	if mode == ModeDetailed {
		systemText = systemDetailed(snap)
		networkText = networkDetailed(net)
	} else {
		systemText = systemSummary(snap)
		networkText = networkSummary(net)
	}

	lines := []string{
		header,
		separator,
		"",
		"System Status: " + status,
		"",
		separator,
		"",
		systemText,
		"",
		networkText,
	}

	return Report{
		Mode:       mode,
		Date:       date,
		StatusLine: status,
		Text:       strings.Join(lines, "\n"),
	}
}
