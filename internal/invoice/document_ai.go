package invoice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"invoiceprinter/internal/logger"
	"invoiceprinter/pkg/models"
)

// MaxDocumentSizeBytes is the maximum document size for processing (20MB)
const MaxDocumentSizeBytes = 20 * 1024 * 1024

// DocumentAIProcessor implements DocumentProcessor using Google Document AI.
type DocumentAIProcessor struct {
	client Client
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIProcessor creates a processor with credentials from the environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
func NewDocumentAIProcessor(ctx context.Context, config DocumentAIConfig) (*DocumentAIProcessor, error) {
	const op = "NewDocumentAIProcessor"

	if config.ProjectID == "" {
		return nil, WrapProcessingError(op, ErrInvalidConfiguration, "project ID is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapProcessingError(op, ErrInvalidConfiguration, "processor ID is required")
	}
	if config.Location == "" {
		config.Location = DefaultConfig().Location
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	var clientOptions []option.ClientOption

	// Non-US processors live behind a regional endpoint
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	credentialsSet := false
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
		credentialsSet = true
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
		credentialsSet = true
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if !credentialsSet {
			return nil, WrapProcessingError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapProcessingError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return NewDocumentAIProcessorWithClient(config, client), nil
}

// NewDocumentAIProcessorWithClient creates a processor with an explicit client.
func NewDocumentAIProcessorWithClient(config DocumentAIConfig, client Client) *DocumentAIProcessor {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &DocumentAIProcessor{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// ProcessDocument extracts a Document from an invoice PDF.
func (p *DocumentAIProcessor) ProcessDocument(ctx context.Context, pdfData io.Reader) (models.Document, error) {
	doc, _, err := p.ProcessDocumentWithConfidence(ctx, pdfData)
	return doc, err
}

// ProcessDocumentWithConfidence extracts a Document with per-entity confidence scores.
func (p *DocumentAIProcessor) ProcessDocumentWithConfidence(ctx context.Context, pdfData io.Reader) (models.Document, map[string]float32, error) {
	const op = "ProcessDocumentWithConfidence"

	// One byte past the limit marks oversized input
	pdfBytes, err := io.ReadAll(io.LimitReader(pdfData, MaxDocumentSizeBytes+1))
	if err != nil {
		return models.Document{}, nil, WrapProcessingError(op, err, "failed to read PDF data")
	}
	if len(pdfBytes) > MaxDocumentSizeBytes {
		return models.Document{}, nil, WrapProcessingError(op, ErrDocumentTooLarge, fmt.Sprintf("more than %d bytes", MaxDocumentSizeBytes))
	}
	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		return models.Document{}, nil, WrapProcessingError(op, ErrInvalidPDF, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: p.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
	}

	p.log.Debug().
		Str("processor", req.Name).
		Int("size", len(pdfBytes)).
		Msg("Sending document to Document AI")

	resp, err := p.client.ProcessDocument(processCtx, req)
	if err != nil {
		return models.Document{}, nil, p.handleProcessingError(op, err)
	}
	if resp.GetDocument() == nil {
		return models.Document{}, nil, WrapProcessingError(op, ErrProcessingFailed, "no document in response")
	}

	doc, confidence, err := p.extractDocument(resp.GetDocument())
	if err != nil {
		return models.Document{}, nil, WrapProcessingError(op, err, "failed to extract document")
	}
	return doc, confidence, nil
}

// processorName constructs the full processor resource name.
func (p *DocumentAIProcessor) processorName() string {
	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		p.config.ProjectID, p.config.Location, p.config.ProcessorID)
	if p.config.ProcessorVersion != "" {
		name += "/processorVersions/" + p.config.ProcessorVersion
	}
	return name
}

// handleProcessingError converts Document AI errors to extraction errors.
func (p *DocumentAIProcessor) handleProcessingError(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return WrapProcessingError(op, context.DeadlineExceeded, "processing timeout")
	case errors.Is(err, context.Canceled):
		return WrapProcessingError(op, ErrContextCanceled, "processing was canceled")
	}

	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return WrapProcessingError(op, ErrInvalidCredentials, "insufficient permissions for Document AI")
	case codes.ResourceExhausted:
		return WrapProcessingError(op, ErrQuotaExceeded, "Document AI API quota exceeded")
	case codes.NotFound:
		return WrapProcessingError(op, ErrProcessorNotFound, fmt.Sprintf("processor not found: %s", p.config.ProcessorID))
	case codes.InvalidArgument:
		return WrapProcessingError(op, ErrInvalidPDF, "document format not supported or corrupted")
	case codes.DeadlineExceeded:
		return WrapProcessingError(op, context.DeadlineExceeded, "processing timeout")
	case codes.Canceled:
		return WrapProcessingError(op, ErrContextCanceled, "processing was canceled")
	default:
		return WrapProcessingError(op, ErrProcessingFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// Close closes the underlying Document AI client.
func (p *DocumentAIProcessor) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
