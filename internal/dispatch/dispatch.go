// Package dispatch routes terminal command lines to their verb
// implementations. The web transport feeds it raw input; every known
// failure is absorbed into the returned text so the terminal always has
// something to print.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"systrack/internal/config"
	"systrack/internal/model"
	"systrack/internal/netcheck"
	"systrack/internal/report"
	"systrack/internal/store"
	"systrack/internal/sysinfo"
)

// ClearScreen is the sentinel output the terminal page interprets as a
// request to wipe its scrollback instead of printing.
const ClearScreen = "CLEAR_SCREEN"

// Command is the interface all terminal verbs implement.
type Command interface {
	Execute(ctx context.Context, app *Deps, args []string) (string, error)
	Description() string
}

// Collector gathers a point-in-time system snapshot.
type Collector interface {
	Collect() (model.SystemSnapshot, error)
}

// Saver persists rendered report text.
type Saver interface {
	SaveText(text string) (string, error)
}

// ProbeFunc checks reachability of a host.
type ProbeFunc func(ctx context.Context, host string, timeout time.Duration) (model.NetworkResult, error)

// MeasureFunc runs a bandwidth measurement.
type MeasureFunc func(ctx context.Context) model.ThroughputResult

// Deps carries the injected dependencies commands run against.
type Deps struct {
	Config    *config.Config
	Collector Collector
	Probe     ProbeFunc
	Measure   MeasureFunc
	Store     Saver
	Now       func() time.Time
}

// NewDeps assembles production dependencies from cfg.
func NewDeps(cfg *config.Config) *Deps {
	return &Deps{
		Config:    cfg,
		Collector: sysinfo.NewCollector(),
		Probe:     netcheck.CheckReachability,
		Measure:   netcheck.MeasureThroughput,
		Store:     store.New(cfg.OutputDir, cfg.ReportPrefix),
		Now:       time.Now,
	}
}

type entry struct {
	usage string
	cmd   Command
}

// Registry holds the verb table. Registration order drives the help
// listing, so aliases share one entry.
type Registry struct {
	commands map[string]Command
	entries  []entry
	deps     *Deps
}

// NewRegistry builds the verb table bound to deps.
func NewRegistry(deps *Deps) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	r := &Registry{
		commands: make(map[string]Command),
		deps:     deps,
	}

	r.Register("help, ?", &HelpCmd{registry: r}, "help", "?")
	r.Register("summary", &ReportCmd{Mode: report.ModeSummary}, "summary")
	r.Register("detailed", &ReportCmd{Mode: report.ModeDetailed}, "detailed")
	r.Register("ping [host]", &PingCmd{}, "ping")
	r.Register("speedtest", &SpeedtestCmd{job: &speedtestJob{}}, "speedtest")
	r.Register("clear, cls", &ClearCmd{}, "clear", "cls")

	return r
}

// Register adds a command under each of its names. usage is the verb
// column shown by help.
func (r *Registry) Register(usage string, cmd Command, names ...string) {
	r.entries = append(r.entries, entry{usage: usage, cmd: cmd})
	for _, name := range names {
		r.commands[name] = cmd
	}
}

// Dispatch splits a raw input line into verb and args and executes the
// matching command. Unknown verbs answer with a hint, not an error.
func (r *Registry) Dispatch(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", errors.New("empty command")
	}

	verb := strings.ToLower(fields[0])
	cmd, ok := r.commands[verb]
	if !ok {
		return fmt.Sprintf("Unknown command: %s\nType 'help' for available commands.", verb), nil
	}
	return cmd.Execute(ctx, r.deps, fields[1:])
}

func (r *Registry) helpText() string {
	var b strings.Builder
	b.WriteString("SysTrack Terminal Commands\n")
	b.WriteString("========================\n")
	for _, e := range r.entries {
		fmt.Fprintf(&b, "%-17s- %s\n", e.usage, e.cmd.Description())
	}
	b.WriteString("\nExamples:\n")
	b.WriteString("  summary\n")
	b.WriteString("  detailed\n")
	b.WriteString("  ping 8.8.8.8\n")
	b.WriteString("  clear\n")
	return b.String()
}
