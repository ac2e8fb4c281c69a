package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"scanform/internal/domain"
	"scanform/internal/port"
)

// ExtractionService drives the external extraction call for a session and
// feeds the result through the reconciliation pipeline into the store.
type ExtractionService interface {
	Run(ctx context.Context, sessionID uuid.UUID) (domain.FormRecord, error)
}

type extractionService struct {
	sessions  SessionService
	extractor port.Extractor
}

// NewExtractionService creates an ExtractionService implementation.
func NewExtractionService(sessions SessionService, extractor port.Extractor) ExtractionService {
	return &extractionService{sessions: sessions, extractor: extractor}
}

// Run snapshots the session's active document, calls the extraction service,
// and adopts the sanitized result if the same document is still active when
// the response arrives. A failed call leaves the store untouched. At most one
// extraction is in flight per session; verification is never blocked by it.
func (s *extractionService) Run(ctx context.Context, sessionID uuid.UUID) (domain.FormRecord, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.BeginExtract() {
		return nil, domain.ErrExtractionInFlight
	}
	defer sess.EndExtract()

	doc := sess.Store.Document()
	if doc == nil {
		return nil, domain.ErrNoDocument
	}

	payload, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileName:    doc.OriginalName,
		ContentType: doc.ContentType,
		FileBytes:   doc.Data,
	})
	if err != nil {
		log.Printf("extractionService.Run: session %s document %s: %v", sessionID, doc.ID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	if err := sess.Store.AdoptExtraction(doc.ID, payload); err != nil {
		if errors.Is(err, domain.ErrStaleResponse) {
			log.Printf("extractionService.Run: session %s discarding stale extraction for document %s", sessionID, doc.ID)
		}
		return nil, err
	}

	return sess.Store.Record(), nil
}
