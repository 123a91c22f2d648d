package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoiceprinter/internal/loader"
	"invoiceprinter/internal/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate [document-file]",
	Short: "Check that a JSON or YAML file is a well-formed invoice document",
	Long: `Load a document from a .json, .yaml or .yml file and report whether it can
be built. Missing fields are allowed and become empty strings; the only
rejected input is an items value that is not a list of item objects.

Totals are not checked against the items: amounts are display strings.`,
	Example: `  # Validate a JSON document
  invoiceprinter validate invoice.json

  # Validate a YAML document
  invoiceprinter validate invoice.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	log := logger.WithFile("validate", path)

	doc, err := loader.LoadFile(path)
	if err != nil {
		return handleLoadError(err, path)
	}

	log.Info().
		Str("number", doc.Number()).
		Str("provider", doc.Provider().Name).
		Str("purchaser", doc.Purchaser().Name).
		Str("total", doc.Total()).
		Int("items", len(doc.Items())).
		Msg("Document is valid")

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid document %q with %d item(s)\n",
		path, doc.Number(), len(doc.Items()))
	return nil
}
