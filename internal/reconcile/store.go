package reconcile

import (
	"sync"

	"github.com/google/uuid"

	"scanform/internal/domain"
)

// Store is the single owner of one session's mutable reconciliation state:
// the active document handle, the editable form record, and the outcome of
// the last verification pass. All mutations are atomic with respect to each
// other; extraction and verification results race only at the boundary of
// their single Adopt* call.
type Store struct {
	mu sync.Mutex

	state    domain.SessionState
	document *domain.Document
	record   domain.FormRecord
	report   domain.VerificationReport

	rawText      string
	annotatedImg string
}

// Snapshot is an atomic, read-only view of the store.
type Snapshot struct {
	State        domain.SessionState
	Document     *domain.Document
	Record       domain.FormRecord
	Report       domain.VerificationReport
	RawText      string
	AnnotatedImg string
}

// NewStore creates a Store in the Empty state with a complete blank record.
func NewStore() *Store {
	return &Store{
		state:  domain.StateEmpty,
		record: domain.EmptyRecord(),
	}
}

// SelectDocument makes doc the active document and discards any existing
// verification report, which is meaningless once the document changes. The
// form record is deliberately preserved so in-progress edits survive a
// re-upload.
func (s *Store) SelectDocument(doc *domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.document = doc
	s.report = nil
	s.state = domain.StateDocumentLoaded
}

// AdoptExtraction sanitizes payload into a complete record, normalizes its
// date field, and replaces the form record wholesale. A nil payload adopts
// as all-empty, matching the sanitizer's nil tolerance. originID names the
// document the extraction request was sent against; a result that arrives
// after that document has been replaced is rejected with ErrStaleResponse
// so a since-replaced document never receives another document's fields.
func (s *Store) AdoptExtraction(originID uuid.UUID, payload *domain.ExtractionPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.document == nil {
		return domain.ErrNoDocument
	}
	if s.document.ID != originID {
		return domain.ErrStaleResponse
	}
	if payload == nil {
		payload = &domain.ExtractionPayload{}
	}

	s.record = NormalizeRecordDates(Sanitize(payload))
	s.rawText = payload.RawText
	s.annotatedImg = payload.AnnotatedImg
	s.state = domain.StateExtracted
	return nil
}

// EditField assigns value to a single field. Permitted in any state except
// Empty. The verification report is not invalidated; it goes stale with
// respect to the edited field until verification is re-run.
func (s *Store) EditField(key domain.FieldKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateEmpty {
		return domain.ErrNoDocument
	}
	if !domain.ValidFieldKeys[key] {
		return domain.ErrUnknownField
	}

	s.record[key] = value
	return nil
}

// AdoptVerification replaces the verification report wholesale, collapsing
// duplicate outcomes per field (later wins). originID is checked against the
// active document exactly as in AdoptExtraction.
func (s *Store) AdoptVerification(originID uuid.UUID, report domain.VerificationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.document == nil {
		return domain.ErrNoDocument
	}
	if s.document.ID != originID {
		return domain.ErrStaleResponse
	}

	s.report = report.Dedupe()
	s.state = domain.StateVerified
	return nil
}

// Reset returns the store to Empty, clearing the document handle, the form
// record, and the verification report atomically.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.StateEmpty
	s.document = nil
	s.record = domain.EmptyRecord()
	s.report = nil
	s.rawText = ""
	s.annotatedImg = ""
}

// State returns the current lifecycle state.
func (s *Store) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Document returns the active document handle, or nil in the Empty state.
func (s *Store) Document() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

// Record returns an independent copy of the current form record.
func (s *Store) Record() domain.FormRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// Report returns a copy of the last verification report, or nil if none.
func (s *Store) Report() domain.VerificationReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return nil
	}
	out := make(domain.VerificationReport, len(s.report))
	copy(out, s.report)
	return out
}

// View returns an atomic snapshot of the full store state.
func (s *Store) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report domain.VerificationReport
	if s.report != nil {
		report = make(domain.VerificationReport, len(s.report))
		copy(report, s.report)
	}
	return Snapshot{
		State:        s.state,
		Document:     s.document,
		Record:       s.record.Clone(),
		Report:       report,
		RawText:      s.rawText,
		AnnotatedImg: s.annotatedImg,
	}
}
