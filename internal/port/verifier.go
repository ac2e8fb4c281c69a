package port

import (
	"context"

	"scanform/internal/domain"
)

// VerifyInput carries the document bytes plus the form record snapshot taken
// at request time. Verification scores the snapshot, never live state.
type VerifyInput struct {
	FileName    string
	ContentType string
	FileBytes   []byte
	Record      domain.FormRecord
}

// Verifier abstracts the external verification/scoring service.
type Verifier interface {
	Verify(ctx context.Context, input VerifyInput) (domain.VerificationReport, error)
}
