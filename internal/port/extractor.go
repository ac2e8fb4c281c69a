package port

import (
	"context"

	"scanform/internal/domain"
)

// ExtractInput carries the document bytes sent to the extraction service.
type ExtractInput struct {
	FileName    string
	ContentType string
	FileBytes   []byte
}

// Extractor abstracts the external OCR/LLM extraction service.
type Extractor interface {
	Extract(ctx context.Context, input ExtractInput) (*domain.ExtractionPayload, error)
}
