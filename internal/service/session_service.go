package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"scanform/internal/config"
	"scanform/internal/domain"
	"scanform/internal/reconcile"
)

// Session is one client's reconciliation context: a store plus the two
// independent in-flight flags for extraction and verification. The flags are
// never coupled; both operations may run simultaneously against the same
// document and record.
type Session struct {
	ID        uuid.UUID
	Store     *reconcile.Store
	CreatedAt time.Time

	lastSeen   atomic.Int64
	extracting atomic.Bool
	verifying  atomic.Bool
}

// Touch records activity so the janitor does not purge a live session.
func (s *Session) Touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// LastSeen reports the time of the session's most recent activity.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// BeginExtract marks extraction in flight; false if one already is.
func (s *Session) BeginExtract() bool { return s.extracting.CompareAndSwap(false, true) }

// EndExtract clears the extraction in-flight flag.
func (s *Session) EndExtract() { s.extracting.Store(false) }

// BeginVerify marks verification in flight; false if one already is.
func (s *Session) BeginVerify() bool { return s.verifying.CompareAndSwap(false, true) }

// EndVerify clears the verification in-flight flag.
func (s *Session) EndVerify() { s.verifying.Store(false) }

// SessionService manages the registry of reconciliation sessions.
type SessionService interface {
	Create(ctx context.Context) *Session
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	AttachDocument(ctx context.Context, id uuid.UUID, file multipart.File, header *multipart.FileHeader) (*domain.Document, error)
	EditField(ctx context.Context, id uuid.UUID, key domain.FieldKey, value string) (domain.FormRecord, error)
	Reset(ctx context.Context, id uuid.UUID) error
	View(ctx context.Context, id uuid.UUID) (reconcile.Snapshot, error)
	PurgeExpired(ttl time.Duration) int
}

type sessionService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	cfg      *config.UploadConfig
}

// NewSessionService creates a SessionService with an empty registry.
func NewSessionService(cfg *config.UploadConfig) SessionService {
	return &sessionService{
		sessions: make(map[uuid.UUID]*Session),
		cfg:      cfg,
	}
}

func (s *sessionService) Create(ctx context.Context) *Session {
	sess := &Session{
		ID:        uuid.New(),
		Store:     reconcile.NewStore(),
		CreatedAt: time.Now(),
	}
	sess.Touch()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.Printf("sessionService.Create: session %s created", sess.ID)
	return sess
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess.Touch()
	return sess, nil
}

// AttachDocument validates the uploaded file (extension, size, magic bytes),
// reads it fully into memory, and selects it as the session's active
// document. Any prior verification report is discarded by the store.
func (s *sessionService) AttachDocument(ctx context.Context, id uuid.UUID, file multipart.File, header *multipart.FileHeader) (*domain.Document, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Magic-byte sniff; the extension alone is not trusted.
	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	detected := http.DetectContentType(data[:sniffLen])
	if _, valid := domain.AllowedContentTypes[detected]; !valid {
		return nil, domain.ErrUnsupportedFileType
	}

	doc := &domain.Document{
		ID:           uuid.New(),
		OriginalName: header.Filename,
		FileType:     fileType,
		ContentType:  domain.AllowedFileTypes[fileType],
		Size:         int64(len(data)),
		Data:         data,
		UploadedAt:   time.Now(),
	}

	sess.Store.SelectDocument(doc)
	log.Printf("sessionService.AttachDocument: session %s selected document %s (%s, %d bytes)",
		sess.ID, doc.ID, doc.ContentType, doc.Size)
	return doc, nil
}

func (s *sessionService) EditField(ctx context.Context, id uuid.UUID, key domain.FieldKey, value string) (domain.FormRecord, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.Store.EditField(key, value); err != nil {
		return nil, err
	}
	return sess.Store.Record(), nil
}

func (s *sessionService) Reset(ctx context.Context, id uuid.UUID) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.Store.Reset()
	log.Printf("sessionService.Reset: session %s reset", sess.ID)
	return nil
}

func (s *sessionService) View(ctx context.Context, id uuid.UUID) (reconcile.Snapshot, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return reconcile.Snapshot{}, err
	}
	return sess.Store.View(), nil
}

// PurgeExpired removes sessions idle for longer than ttl and returns how
// many were dropped.
func (s *sessionService) PurgeExpired(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}
