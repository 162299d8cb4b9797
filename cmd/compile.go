package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/masnyjimmy/rentdocs/compilation"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile an API document into OpenAPI 3.1",
	Long: `Compile reads an API document (the embedded dress rental catalog by
default), validates it and writes the OpenAPI document. The output format
follows the file extension: .json writes JSON, anything else writes YAML.
Use "-" to write YAML to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		return compileFile(cmd, input, output)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringP("input", "i", "", "API document to compile (default: embedded catalog)")
	compileCmd.Flags().StringP("output", "o", "openapi.yaml", "output file path")
	compileCmd.MarkFlagFilename("input", "yaml", "yml")
	compileCmd.MarkFlagFilename("output", "yaml", "json")
}

func marshalFor(output string, doc *compilation.Document) ([]byte, string, error) {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".json":
		bytes, err := compilation.MarshalJSON(doc)
		return bytes, "json", err
	default:
		bytes, err := compilation.MarshalYAML(doc)
		return bytes, "yaml", err
	}
}

func compileFile(cmd *cobra.Command, input, output string) error {
	log := logger.With("input", sourceName(input), "output", output)

	doc, err := readDocument(input)
	if err != nil {
		return err
	}

	bytes, format, err := marshalFor(output, doc)
	if err != nil {
		return fmt.Errorf("marshal %v: %w", format, err)
	}

	if output == "-" {
		_, err := cmd.OutOrStdout().Write(bytes)
		return err
	}

	if err := os.WriteFile(output, bytes, 0o644); err != nil {
		return fmt.Errorf("write %v: %w", output, err)
	}

	log.Info("document compiled", "format", format, "paths", len(doc.Paths), "size", humanize.Bytes(uint64(len(bytes))))
	return nil
}
