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

// VerificationService drives the external verification call for a session.
type VerificationService interface {
	Run(ctx context.Context, sessionID uuid.UUID) (domain.VerificationReport, error)
}

type verificationService struct {
	sessions SessionService
	verifier port.Verifier
}

// NewVerificationService creates a VerificationService implementation.
func NewVerificationService(sessions SessionService, verifier port.Verifier) VerificationService {
	return &verificationService{sessions: sessions, verifier: verifier}
}

// Run snapshots the active document and the form record at request time,
// sends both to the verification service, and adopts the deduplicated report
// if the same document is still active on response. The record snapshot
// travels with the request, so the outcome reflects the record as it was
// when sent even if an in-flight extraction overwrites it meanwhile.
func (s *verificationService) Run(ctx context.Context, sessionID uuid.UUID) (domain.VerificationReport, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.BeginVerify() {
		return nil, domain.ErrVerificationInFlight
	}
	defer sess.EndVerify()

	doc := sess.Store.Document()
	if doc == nil {
		return nil, domain.ErrNoDocument
	}
	record := sess.Store.Record()

	report, err := s.verifier.Verify(ctx, port.VerifyInput{
		FileName:    doc.OriginalName,
		ContentType: doc.ContentType,
		FileBytes:   doc.Data,
		Record:      record,
	})
	if err != nil {
		log.Printf("verificationService.Run: session %s document %s: %v", sessionID, doc.ID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}

	if err := sess.Store.AdoptVerification(doc.ID, report); err != nil {
		if errors.Is(err, domain.ErrStaleResponse) {
			log.Printf("verificationService.Run: session %s discarding stale report for document %s", sessionID, doc.ID)
		}
		return nil, err
	}

	return sess.Store.Report(), nil
}
