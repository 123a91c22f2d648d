package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"invoiceprinter/internal/config"
	"invoiceprinter/internal/invoice"
	"invoiceprinter/internal/loader"
	"invoiceprinter/internal/logger"
	"invoiceprinter/pkg/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "Build an invoice document from a PDF using Google Document AI",
	Long: `Process a PDF invoice with Google Document AI's invoice parser and write the
recognized fields as a document (JSON or YAML).

Recognized values are copied as printed on the invoice. Amounts and dates are
not parsed, and fields the parser did not find are left empty.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_CLOUD_PROJECT - Your Google Cloud project ID
  GOOGLE_CLOUD_LOCATION - Processing location (us, eu, etc.)
  DOCUMENT_AI_PROCESSOR_ID - Your Document AI invoice processor ID`,
	Example: `  # Extract a document to stdout (JSON)
  invoiceprinter extract invoice.pdf

  # Save as YAML
  invoiceprinter extract invoice.pdf -o invoice.yaml

  # Include confidence scores for each recognized field
  invoiceprinter extract invoice.pdf --confidence

  # Process with custom timeout
  invoiceprinter extract large-invoice.pdf --timeout 120`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// ExtractionOutput is written instead of the bare document when --confidence is set
type ExtractionOutput struct {
	Document   models.Document    `json:"document" yaml:"document"`
	Confidence map[string]float32 `json:"confidence" yaml:"confidence"`
	Metadata   ProcessingMetadata `json:"metadata" yaml:"metadata"`
}

// ProcessingMetadata contains information about the processing operation
type ProcessingMetadata struct {
	FileName           string        `json:"file_name" yaml:"file_name"`
	FileSize           int64         `json:"file_size_bytes" yaml:"file_size_bytes"`
	ProcessedAt        time.Time     `json:"processed_at" yaml:"processed_at"`
	ProcessingDuration time.Duration `json:"processing_duration" yaml:"processing_duration"`
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().StringP("format", "f", "", "Output format: json or yaml (default: from output file, else json)")
	extractCmd.Flags().Bool("confidence", false, "Include confidence scores in output")
	extractCmd.Flags().Int("timeout", 0, "Processing timeout in seconds (default: DOCUMENT_AI_TIMEOUT)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	formatFlag, _ := cmd.Flags().GetString("format")
	includeConfidence, _ := cmd.Flags().GetBool("confidence")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]

	format, err := outputFormat(formatFlag, outputPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateExtraction(); err != nil {
		return fmt.Errorf("invalid Document AI configuration: %w", err)
	}
	daiConfig := cfg.GetDocumentAIConfig()
	if timeoutSecs > 0 {
		daiConfig.Timeout = time.Duration(timeoutSecs) * time.Second
	}

	log.Info().
		Str("file", pdfPath).
		Str("output", outputPath).
		Bool("confidence", includeConfidence).
		Dur("timeout", daiConfig.Timeout).
		Msg("Starting document extraction")

	fileInfo, err := validatePDF(pdfPath, log)
	if err != nil {
		return err
	}

	ctx, cancel := createExtractContext(daiConfig.Timeout, log)
	defer cancel()

	processor, err := invoice.NewDocumentAIProcessor(ctx, daiConfig)
	if err != nil {
		return handleExtractError(err, log)
	}
	defer func() {
		if closeErr := processor.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close Document AI client")
		}
	}()

	pdfFile, err := os.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer func() {
		if closeErr := pdfFile.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close PDF file")
		}
	}()

	startTime := time.Now()
	doc, confidence, err := processor.ProcessDocumentWithConfidence(ctx, pdfFile)
	if err != nil {
		return handleExtractError(err, log)
	}
	processingDuration := time.Since(startTime)

	log.Info().
		Str("number", doc.Number()).
		Str("provider", doc.Provider().Name).
		Str("total", doc.Total()).
		Dur("duration", processingDuration).
		Msg("Document extraction completed successfully")

	if !includeConfidence {
		return writeDocument(cmd, doc, format, outputPath, log)
	}

	output := ExtractionOutput{
		Document:   doc,
		Confidence: confidence,
		Metadata: ProcessingMetadata{
			FileName:           filepath.Base(fileInfo.Name()),
			FileSize:           fileInfo.Size(),
			ProcessedAt:        time.Now(),
			ProcessingDuration: processingDuration,
		},
	}
	if outputPath == "" {
		return loader.EncodeValue(cmd.OutOrStdout(), output, format)
	}
	if err := loader.WriteValue(outputPath, output, format); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// validatePDF checks the input file before any API call
func validatePDF(pdfPath string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("PDF file not found: %s", pdfPath)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied accessing PDF file: %s", pdfPath)
		}
		return nil, fmt.Errorf("error accessing PDF file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("path is not a regular file: %s", pdfPath)
	}

	if !strings.HasSuffix(strings.ToLower(pdfPath), ".pdf") {
		log.Warn().
			Str("file", pdfPath).
			Msg("File does not have .pdf extension")
	}

	if fileInfo.Size() == 0 {
		return nil, fmt.Errorf("PDF file is empty: %s", pdfPath)
	}

	if fileInfo.Size() > invoice.MaxDocumentSizeBytes {
		log.Error().
			Str("file", pdfPath).
			Int64("size", fileInfo.Size()).
			Int64("max_size", invoice.MaxDocumentSizeBytes).
			Msg("PDF file exceeds maximum size limit")
		return nil, fmt.Errorf("PDF file too large (%d bytes). Maximum size is %d bytes (20MB)",
			fileInfo.Size(), invoice.MaxDocumentSizeBytes)
	}

	return fileInfo, nil
}

// createExtractContext creates a context with timeout and signal handling
func createExtractContext(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling extraction")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleExtractError provides user-friendly error messages for extraction failures
func handleExtractError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Document extraction failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("extraction timed out. Try increasing --timeout or processing a smaller file")
	case errors.Is(err, invoice.ErrContextCanceled), errors.Is(err, context.Canceled):
		return fmt.Errorf("extraction was canceled")
	case errors.Is(err, invoice.ErrMissingCredentials):
		return fmt.Errorf("missing Google Cloud credentials. Set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS: %w", err)
	case errors.Is(err, invoice.ErrInvalidCredentials):
		return fmt.Errorf("permission denied. Please ensure your service account has 'Document AI API User' role")
	case errors.Is(err, invoice.ErrInvalidConfiguration):
		return fmt.Errorf("invalid Document AI configuration: %w", err)
	case errors.Is(err, invoice.ErrInvalidPDF):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity")
	case errors.Is(err, invoice.ErrDocumentTooLarge):
		return fmt.Errorf("PDF file is too large (maximum 20MB). Try compressing or splitting the file")
	case errors.Is(err, invoice.ErrProcessorNotFound):
		return fmt.Errorf("Document AI processor not found. Please check DOCUMENT_AI_PROCESSOR_ID")
	case errors.Is(err, invoice.ErrQuotaExceeded):
		return fmt.Errorf("Document AI API quota exceeded. Check your project quotas in Google Cloud Console")
	case errors.Is(err, invoice.ErrNoEntities):
		return fmt.Errorf("no invoice fields were recognized. The PDF may not be an invoice")
	default:
		return fmt.Errorf("document extraction failed: %w", err)
	}
}
