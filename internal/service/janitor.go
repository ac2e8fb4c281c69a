package service

import (
	"context"
	"log"
	"time"
)

// JanitorConfig holds settings for the session janitor.
type JanitorConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// SessionJanitor periodically purges sessions that have been idle past
// their TTL.
type SessionJanitor struct {
	sessions SessionService
	cfg      JanitorConfig
}

// NewSessionJanitor creates a new SessionJanitor.
func NewSessionJanitor(sessions SessionService, cfg JanitorConfig) *SessionJanitor {
	return &SessionJanitor{sessions: sessions, cfg: cfg}
}

// Start runs the sweep loop until ctx is canceled.
func (j *SessionJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.SweepInterval)
	defer ticker.Stop()

	log.Printf("sessionJanitor: started (ttl=%s, sweep=%s)", j.cfg.TTL, j.cfg.SweepInterval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("sessionJanitor: shutdown")
			return
		case <-ticker.C:
			if purged := j.sessions.PurgeExpired(j.cfg.TTL); purged > 0 {
				log.Printf("sessionJanitor: purged %d expired session(s)", purged)
			}
		}
	}
}
