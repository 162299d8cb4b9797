package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate and compile API documents without writing output",
	Long: `Validate checks each file against the authoring schema and compiles it.
Without arguments the embedded catalog is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{""}
		}

		failed := 0
		for _, input := range args {
			doc, err := readDocument(input)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%v: %v\n", sourceName(input), err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v: ok (%d paths)\n", sourceName(input), len(doc.Paths))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d documents invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
