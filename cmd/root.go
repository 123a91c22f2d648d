package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoiceprinter/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoiceprinter",
	Short: "Invoice documents - validate, convert and extract invoice data",
	Long: `invoiceprinter works with invoice documents: a flat record of provider,
purchaser, dates, totals, bank details, line items and a note.

Documents are read from and written to JSON or YAML using a stable set of keys
(number, provider_name, ..., items, note). Every value is kept as a display
string; amounts and dates are never parsed or recalculated.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
