package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scanform/internal/domain"
	"scanform/internal/port"
	"scanform/internal/service"
	"scanform/mocks"
)

func TestVerificationService_Run(t *testing.T) {
	sessions := newSessionService()
	sess, _ := loadedSession(t, sessions)
	require.NoError(t, sess.Store.EditField(domain.FieldFirstName, "Asha"))

	ver := new(mocks.MockVerifier)
	ver.On("Verify", mock.Anything, mock.MatchedBy(func(in port.VerifyInput) bool {
		// The request carries the record snapshot taken at call time.
		return in.Record[domain.FieldFirstName] == "Asha" && len(in.FileBytes) > 0
	})).Return(domain.VerificationReport{
		{Field: domain.FieldFirstName, Status: domain.VerificationMatch, Confidence: 0.92},
		{Field: domain.FieldFirstName, Status: domain.VerificationMismatch, Confidence: 0.3},
	}, nil)

	svc := service.NewVerificationService(sessions, ver)
	report, err := svc.Run(context.Background(), sess.ID)
	require.NoError(t, err)

	// Deduplicated by field, later outcome wins.
	require.Len(t, report, 1)
	assert.Equal(t, domain.VerificationMismatch, report[0].Status)
	assert.Equal(t, domain.StateVerified, sess.Store.State())
	ver.AssertExpectations(t)
}

func TestVerificationService_RunNoDocument(t *testing.T) {
	sessions := newSessionService()
	sess := sessions.Create(context.Background())

	svc := service.NewVerificationService(sessions, new(mocks.MockVerifier))
	_, err := svc.Run(context.Background(), sess.ID)

	assert.ErrorIs(t, err, domain.ErrNoDocument)
}

func TestVerificationService_RunServiceFailureLeavesReportUntouched(t *testing.T) {
	sessions := newSessionService()
	sess, doc := loadedSession(t, sessions)
	require.NoError(t, sess.Store.AdoptVerification(doc.ID, domain.VerificationReport{
		{Field: domain.FieldCity, Status: domain.VerificationMatch, Confidence: 0.9},
	}))

	ver := new(mocks.MockVerifier)
	ver.On("Verify", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	svc := service.NewVerificationService(sessions, ver)
	_, err := svc.Run(context.Background(), sess.ID)

	assert.ErrorIs(t, err, domain.ErrVerificationFailed)
	assert.Len(t, sess.Store.Report(), 1)
}

func TestVerificationService_RunDiscardsStaleReport(t *testing.T) {
	sessions := newSessionService()
	sess, _ := loadedSession(t, sessions)

	ver := new(mocks.MockVerifier)
	ver.On("Verify", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sess.Store.SelectDocument(&domain.Document{ID: uuid.New()})
		}).
		Return(domain.VerificationReport{
			{Field: domain.FieldCity, Status: domain.VerificationMatch, Confidence: 0.9},
		}, nil)

	svc := service.NewVerificationService(sessions, ver)
	_, err := svc.Run(context.Background(), sess.ID)

	assert.ErrorIs(t, err, domain.ErrStaleResponse)
	assert.Nil(t, sess.Store.Report())
}

func TestVerificationService_IndependentOfExtractionFlag(t *testing.T) {
	sessions := newSessionService()
	sess, _ := loadedSession(t, sessions)

	// Simulate an extraction being in flight; verification must not block.
	require.True(t, sess.BeginExtract())
	defer sess.EndExtract()

	ver := new(mocks.MockVerifier)
	ver.On("Verify", mock.Anything, mock.Anything).Return(domain.VerificationReport{}, nil)

	svc := service.NewVerificationService(sessions, ver)
	_, err := svc.Run(context.Background(), sess.ID)

	assert.NoError(t, err)
}
