package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"systrack/internal/netcheck"
	"systrack/internal/report"
)

// speedtestCmd runs a synchronous bandwidth measurement. A failed
// measurement is still a successful invocation; the failure is the
// rendered output.
var speedtestCmd = &cobra.Command{
	Use:   "speedtest",
	Short: "Measure network bandwidth via speedtest-cli",
	Long: `Run an Ookla bandwidth measurement and print the results.

Requires speedtest-cli on the PATH. The run can take a minute or more
depending on the connection.

Examples:
  systrack speedtest`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRuntime(cmd)
		if err != nil {
			return err
		}

		fmt.Println("Running speedtest. This may take a minute...")

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.SpeedtestTimeout())
		defer cancel()

		res := netcheck.MeasureThroughput(ctx)
		fmt.Println(report.FormatThroughput(res))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(speedtestCmd)
}
