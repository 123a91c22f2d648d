package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"invoiceprinter/internal/loader"
	"invoiceprinter/pkg/models"
)

// outputFormat resolves --format, falling back to the output file extension
// and then to JSON.
func outputFormat(formatFlag, outputPath string) (loader.Format, error) {
	if formatFlag != "" {
		return loader.ParseFormat(formatFlag)
	}
	if outputPath != "" && filepath.Ext(outputPath) != "" {
		return loader.FormatForPath(outputPath)
	}
	return loader.FormatJSON, nil
}

// writeDocument writes the document to outputPath, or to the command output when empty.
func writeDocument(cmd *cobra.Command, doc models.Document, format loader.Format, outputPath string, log zerolog.Logger) error {
	if outputPath == "" {
		if err := loader.Encode(cmd.OutOrStdout(), doc, format); err != nil {
			log.Error().Err(err).Msg("Failed to write document")
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := loader.WriteFile(outputPath, doc, format); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// handleLoadError provides user-friendly messages for document loading failures
func handleLoadError(err error, path string) error {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return fmt.Errorf("%s: items must be a list of item objects: %w", path, err)
	case errors.Is(err, loader.ErrUnsupportedFormat):
		return fmt.Errorf("%s: unsupported file type, use .json, .yaml or .yml", path)
	case errors.Is(err, loader.ErrEmptyInput):
		return fmt.Errorf("%s: file is empty", path)
	case errors.Is(err, loader.ErrDecodeFailed):
		return fmt.Errorf("%s: not a valid document: %w", path, err)
	default:
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
}
