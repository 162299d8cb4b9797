package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/masnyjimmy/rentdocs/compilation"
	"github.com/spf13/cobra"
)

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rentdocs version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "rentdocs %s (openapi %s)\n", version(), compilation.OpenAPIVersion)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
