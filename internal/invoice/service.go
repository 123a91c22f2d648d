// Package invoice builds documents from PDF invoices using Google Document AI.
//
// The Document AI invoice parser returns typed entities (supplier_name,
// invoice_date, line_item, ...). This package maps them onto models.Document,
// keeping every value as the text printed on the invoice: amounts and dates
// are not parsed.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Document AI API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Quota limits apply (check Google Cloud Console)
package invoice

import (
	"context"
	"io"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"

	"invoiceprinter/pkg/models"
)

// DocumentProcessor defines the interface for PDF to Document extraction.
type DocumentProcessor interface {
	// ProcessDocument extracts a Document from an invoice PDF.
	ProcessDocument(ctx context.Context, pdfData io.Reader) (models.Document, error)

	// ProcessDocumentWithConfidence also returns a map of Document AI entity
	// types to confidence values (0.0-1.0).
	ProcessDocumentWithConfidence(ctx context.Context, pdfData io.Reader) (models.Document, map[string]float32, error)
}

// Client is the part of the Document AI client used by the processor.
type Client interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
	Close() error
}

// DocumentAIConfig holds configuration for Google Document AI processing.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	// Should match where your Document AI processor is created.
	Location string

	// ProcessorID is the Document AI invoice processor ID.
	ProcessorID string

	// ProcessorVersion specifies a particular processor version.
	// If empty, uses the default version.
	ProcessorVersion string

	// Timeout is the maximum time to wait for processing.
	// Default: 60 seconds.
	Timeout time.Duration
}

// DefaultConfig returns a DocumentAIConfig with sensible defaults.
func DefaultConfig() DocumentAIConfig {
	return DocumentAIConfig{
		Location: "us",
		Timeout:  60 * time.Second,
	}
}
