package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scanform/internal/domain"
	"scanform/internal/port"
)

// MockVerifier is a mock implementation of port.Verifier.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, input port.VerifyInput) (domain.VerificationReport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.VerificationReport), args.Error(1)
}
