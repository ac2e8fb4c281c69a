package mocks

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"scanform/internal/domain"
	"scanform/internal/reconcile"
	"scanform/internal/service"
)

// MockSessionService is a mock implementation of service.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context) *service.Session {
	args := m.Called(ctx)
	return args.Get(0).(*service.Session)
}

func (m *MockSessionService) Get(ctx context.Context, id uuid.UUID) (*service.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockSessionService) AttachDocument(ctx context.Context, id uuid.UUID, file multipart.File, header *multipart.FileHeader) (*domain.Document, error) {
	args := m.Called(ctx, id, file, header)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockSessionService) EditField(ctx context.Context, id uuid.UUID, key domain.FieldKey, value string) (domain.FormRecord, error) {
	args := m.Called(ctx, id, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.FormRecord), args.Error(1)
}

func (m *MockSessionService) Reset(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionService) View(ctx context.Context, id uuid.UUID) (reconcile.Snapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(reconcile.Snapshot), args.Error(1)
}

func (m *MockSessionService) PurgeExpired(ttl time.Duration) int {
	args := m.Called(ttl)
	return args.Int(0)
}

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Run(ctx context.Context, sessionID uuid.UUID) (domain.FormRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.FormRecord), args.Error(1)
}

// MockVerificationService is a mock implementation of service.VerificationService.
type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Run(ctx context.Context, sessionID uuid.UUID) (domain.VerificationReport, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.VerificationReport), args.Error(1)
}
