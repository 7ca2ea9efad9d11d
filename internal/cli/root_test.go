package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newModeGroupCmd clones the root command's mode flag group so group
// validation can be exercised without touching shared flag state.
func newModeGroupCmd() *cobra.Command {
	var summary, detailed bool
	cmd := &cobra.Command{
		Use:           "systrack",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, args []string) error { return nil },
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "generate a summary report")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "generate a detailed report")
	cmd.MarkFlagsMutuallyExclusive("summary", "detailed")
	cmd.MarkFlagsOneRequired("summary", "detailed")
	return cmd
}

func TestModeFlagsMutuallyExclusive(t *testing.T) {
	cmd := newModeGroupCmd()
	cmd.SetArgs([]string{"--summary", "--detailed"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary")
	assert.Contains(t, err.Error(), "detailed")
}

func TestModeFlagRequired(t *testing.T) {
	cmd := newModeGroupCmd()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one of the flags")
}

func TestModeFlagAcceptsSingle(t *testing.T) {
	for _, flag := range []string{"--summary", "--detailed"} {
		cmd := newModeGroupCmd()
		cmd.SetArgs([]string{flag})
		assert.NoError(t, cmd.Execute(), flag)
	}
}

func TestRootFlagDefaults(t *testing.T) {
	for name, def := range map[string]string{
		"summary":  "false",
		"detailed": "false",
		"json":     "false",
		"output":   "reports",
		"host":     "google.com",
	} {
		flag := rootCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "flag --%s", name)
		assert.Equal(t, def, flag.DefValue, "flag --%s", name)
	}

	for _, name := range []string{"config", "debug", "log-file"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "persistent flag --%s", name)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"serve", "speedtest", "version"} {
		assert.True(t, names[want], "subcommand %s", want)
	}
}

func TestServeAddrFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, ":5000", flag.DefValue)
}
