package cli

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"systrack/internal/dispatch"
	"systrack/internal/web"
)

var serveAddr string

// serveCmd starts the web terminal.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web terminal server",
	Long: `Serve the browser-based terminal and its command API.

The terminal accepts the same verbs as the interactive help lists:
summary, detailed, ping, speedtest, clear.

Examples:
  systrack serve
  systrack serve --addr 127.0.0.1:8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.ListenAddr = serveAddr
		}

		if os.Getenv("GIN_MODE") == "" {
			gin.SetMode(gin.ReleaseMode)
		}

		registry := dispatch.NewRegistry(dispatch.NewDeps(cfg))
		srv, err := web.New(cfg, registry)
		if err != nil {
			return err
		}
		return srv.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":5000", "listen address")
	rootCmd.AddCommand(serveCmd)
}
