package cmd

import (
	"context"
	"os"

	"github.com/masnyjimmy/rentdocs/logging"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"
)

var rootCmd = &cobra.Command{
	Use:   "rentdocs",
	Short: "API documentation of the dress rental service",
	Long: `rentdocs compiles the dress rental API description into an OpenAPI 3.1
document, validates authoring documents and serves them with Swagger UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var logger pslog.Logger = pslog.NoopLogger()

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (yaml, json or toml)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		logger = logging.New(cmd.ErrOrStderr())
	}
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
