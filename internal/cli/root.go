// Package cli wires the cobra command tree for systrack.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"systrack/internal/config"
	"systrack/internal/netcheck"
	"systrack/internal/report"
	"systrack/internal/store"
	"systrack/internal/sysinfo"
)

// Root command flags
var (
	summaryFlag  bool
	detailedFlag bool
	jsonFlag     bool
	outputFlag   string
	hostFlag     string
	configFlag   string
	debugFlag    bool
	logFileFlag  string
)

// rootCmd runs the diagnostic report pipeline.
var rootCmd = &cobra.Command{
	Use:   "systrack",
	Short: "System diagnostic and reporting tool",
	Long: `SysTrack collects host diagnostics (CPU, memory, disk, OS), probes
network reachability, and writes a timestamped report.

Examples:
  systrack --summary
  systrack --detailed
  systrack --summary --json
  systrack --detailed --output reports/`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		return runReport(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "mirror logs to a file")

	rootCmd.Flags().BoolVar(&summaryFlag, "summary", false, "generate a summary report")
	rootCmd.Flags().BoolVar(&detailedFlag, "detailed", false, "generate a detailed report")
	rootCmd.Flags().BoolVar(&jsonFlag, "json", false, "export report as JSON instead of text")
	rootCmd.Flags().StringVar(&outputFlag, "output", "reports", "output directory for reports")
	rootCmd.Flags().StringVar(&hostFlag, "host", "google.com", "host to ping for network diagnostics")

	rootCmd.MarkFlagsMutuallyExclusive("summary", "detailed")
	rootCmd.MarkFlagsOneRequired("summary", "detailed")
}

// loadRuntime loads config, applies explicit flag overrides and installs
// the logger. Flags only win when the user actually set them, so a config
// file value is not clobbered by a flag default.
func loadRuntime(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = hostFlag
	}
	if flags.Changed("output") {
		cfg.OutputDir = outputFlag
	}
	if debugFlag {
		cfg.Debug = true
	}
	if logFileFlag != "" {
		cfg.LogFile = logFileFlag
	}

	setupLogger(cfg)
	return cfg, nil
}

func runReport(ctx context.Context, cfg *config.Config) error {
	mode := report.ModeSummary
	if detailedFlag {
		mode = report.ModeDetailed
	}

	fmt.Println("Collecting system information...")
	snap, err := sysinfo.NewCollector().Collect()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Println("Checking network connectivity...")
	net, err := netcheck.CheckReachability(ctx, cfg.Host, cfg.PingTimeout())
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	st := store.New(cfg.OutputDir, cfg.ReportPrefix)
	now := time.Now()

	if jsonFlag {
		data := map[string]any{
			"date":    report.DateHeader(now),
			"system":  snap,
			"network": net,
		}
		path, err := st.SaveJSON(data)
		if err != nil {
			return err
		}
		fmt.Printf("\nReport saved: %s\n", path)
		return nil
	}

	rep := report.AssembleReport(snap, net, mode, now)
	path, err := st.SaveText(rep.Text)
	if err != nil {
		return err
	}

	fmt.Println("\n" + rep.Text)
	fmt.Printf("\nReport saved: %s\n", path)
	return nil
}

// Execute runs the root command, translating interrupts and errors into
// the exit protocol: 0 on success, 1 with a cancellation notice on
// interrupt, 1 with the error on stderr otherwise.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	if errors.Is(err, context.Canceled) {
		fmt.Println("\n\nOperation cancelled by user.")
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nError: %s\n", err)
	os.Exit(1)
}
