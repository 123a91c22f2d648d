package cmd

import (
	"github.com/spf13/cobra"

	"invoiceprinter/internal/loader"
	"invoiceprinter/internal/logger"
)

var convertCmd = &cobra.Command{
	Use:   "convert [document-file]",
	Short: "Normalize a document and write it as JSON or YAML",
	Long: `Load a document, coerce every field to a string and write it back with
every key present, in the standard key order. Numbers become their decimal
text and missing fields become empty strings. Unknown keys are dropped.`,
	Example: `  # Normalize a YAML document to JSON on stdout
  invoiceprinter convert invoice.yaml

  # Convert JSON to a YAML file
  invoiceprinter convert invoice.json -o invoice.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	convertCmd.Flags().StringP("format", "f", "", "Output format: json or yaml (default: from output file, else json)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	formatFlag, _ := cmd.Flags().GetString("format")

	path := args[0]
	log := logger.WithFile("convert", path)

	format, err := outputFormat(formatFlag, outputPath)
	if err != nil {
		return err
	}

	doc, err := loader.LoadFile(path)
	if err != nil {
		return handleLoadError(err, path)
	}

	log.Debug().
		Str("format", string(format)).
		Str("output", outputPath).
		Msg("Converting document")

	return writeDocument(cmd, doc, format, outputPath, log)
}
