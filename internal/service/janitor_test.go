package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"scanform/internal/domain"
	"scanform/internal/service"
)

func TestSessionJanitor_PurgesIdleSessions(t *testing.T) {
	sessions := newSessionService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := sessions.Create(ctx)

	janitor := service.NewSessionJanitor(sessions, service.JanitorConfig{
		TTL:           -time.Second, // everything is immediately expired
		SweepInterval: 5 * time.Millisecond,
	})
	go janitor.Start(ctx)

	assert.Eventually(t, func() bool {
		_, err := sessions.Get(context.Background(), sess.ID)
		return err == domain.ErrSessionNotFound
	}, time.Second, 10*time.Millisecond)
}

func TestSessionJanitor_StopsOnCancel(t *testing.T) {
	sessions := newSessionService()
	ctx, cancel := context.WithCancel(context.Background())

	janitor := service.NewSessionJanitor(sessions, service.JanitorConfig{
		TTL:           time.Hour,
		SweepInterval: time.Millisecond,
	})

	done := make(chan struct{})
	go func() {
		janitor.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after context cancel")
	}
}
