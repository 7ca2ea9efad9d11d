package dispatch

import (
	"context"
	"fmt"

	"systrack/internal/report"
)

type HelpCmd struct {
	registry *Registry
}

func (c *HelpCmd) Execute(ctx context.Context, app *Deps, args []string) (string, error) {
	return c.registry.helpText(), nil
}
func (c *HelpCmd) Description() string { return "Show this help message" }

// ReportCmd runs the full pipeline at the given fidelity. Pipeline
// failures become output text; only the report that was rendered before
// a save failure is worth keeping, so it is returned with a warning
// rather than dropped.
type ReportCmd struct {
	Mode string
}

func (c *ReportCmd) Execute(ctx context.Context, app *Deps, args []string) (string, error) {
	snap, err := app.Collector.Collect()
	if err != nil {
		return fmt.Sprintf("Error generating report: %s", err), nil
	}

	net, err := app.Probe(ctx, app.Config.Host, app.Config.PingTimeout())
	if err != nil {
		return fmt.Sprintf("Error generating report: %s", err), nil
	}

	rep := report.AssembleReport(snap, net, c.Mode, app.Now())

	path, err := app.Store.SaveText(rep.Text)
	if err != nil {
		return fmt.Sprintf("%s\n\nWarning: report not saved: %s", rep.Text, err), nil
	}
	return fmt.Sprintf("%s\n\nReport saved: %s", rep.Text, path), nil
}

func (c *ReportCmd) Description() string {
	if c.Mode == report.ModeDetailed {
		return "Generate detailed system report"
	}
	return "Generate summary system report"
}

type PingCmd struct{}

func (c *PingCmd) Execute(ctx context.Context, app *Deps, args []string) (string, error) {
	host := app.Config.Host
	if len(args) > 0 {
		host = args[0]
	}

	res, err := app.Probe(ctx, host, app.Config.PingTimeout())
	if err != nil {
		return fmt.Sprintf("Error pinging %s: %s", host, err), nil
	}

	if res.Online {
		if res.LatencyMS != nil {
			return fmt.Sprintf("Ping %s: %.2fms - Online", host, *res.LatencyMS), nil
		}
		return fmt.Sprintf("Ping %s: Success - Online", host), nil
	}
	return fmt.Sprintf("Ping %s: %s", host, res.Message), nil
}
func (c *PingCmd) Description() string { return "Test network connectivity (default: google.com)" }

type SpeedtestCmd struct {
	job *speedtestJob
}

func (c *SpeedtestCmd) Execute(ctx context.Context, app *Deps, args []string) (string, error) {
	return c.job.poll(app), nil
}
func (c *SpeedtestCmd) Description() string { return "Measure network bandwidth (runs in background)" }

type ClearCmd struct{}

func (c *ClearCmd) Execute(ctx context.Context, app *Deps, args []string) (string, error) {
	return ClearScreen, nil
}
func (c *ClearCmd) Description() string { return "Clear the terminal screen" }
