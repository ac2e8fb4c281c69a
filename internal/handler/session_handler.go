package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scanform/internal/csvexport"
	"scanform/internal/domain"
	"scanform/internal/reconcile"
	"scanform/internal/service"
)

// tierColors maps each confidence tier to its fixed display color.
var tierColors = map[domain.Tier]string{
	domain.TierStrong:  "#22c55e",
	domain.TierPartial: "#eab308",
	domain.TierWeak:    "#ef4444",
}

// statusIcons maps each verification status to its fixed display icon.
var statusIcons = map[domain.VerificationStatus]string{
	domain.VerificationMatch:    "✓",
	domain.VerificationMismatch: "⚠",
	domain.VerificationMissing:  "×",
}

// scoredOutcome is one verification outcome decorated with its display tier.
type scoredOutcome struct {
	Field      domain.FieldKey           `json:"field"`
	Status     domain.VerificationStatus `json:"status"`
	Confidence float64                   `json:"confidence"`
	Tier       domain.Tier               `json:"tier"`
	Color      string                    `json:"color"`
	Icon       string                    `json:"icon"`
}

func scoreReport(report domain.VerificationReport) []scoredOutcome {
	out := make([]scoredOutcome, 0, len(report))
	for _, o := range report {
		tier := reconcile.Classify(o.Confidence)
		out = append(out, scoredOutcome{
			Field:      o.Field,
			Status:     o.Status,
			Confidence: o.Confidence,
			Tier:       tier,
			Color:      tierColors[tier],
			Icon:       statusIcons[o.Status],
		})
	}
	return out
}

// documentMeta is the document handle without its raw bytes.
type documentMeta struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
}

func docMeta(doc *domain.Document) *documentMeta {
	if doc == nil {
		return nil
	}
	return &documentMeta{
		ID:           doc.ID,
		OriginalName: doc.OriginalName,
		ContentType:  doc.ContentType,
		Size:         doc.Size,
	}
}

// sessionView is the full serialized session state.
type sessionView struct {
	SessionID    uuid.UUID           `json:"session_id"`
	State        domain.SessionState `json:"state"`
	Document     *documentMeta       `json:"document"`
	Record       domain.FormRecord   `json:"record"`
	Report       []scoredOutcome     `json:"report,omitempty"`
	RawText      string              `json:"raw_text,omitempty"`
	AnnotatedImg string              `json:"annotated_image,omitempty"`
}

// SessionHandler handles session lifecycle, document upload, field edits,
// and the extraction/verification operations.
type SessionHandler struct {
	sessions     service.SessionService
	extraction   service.ExtractionService
	verification service.VerificationService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	sessions service.SessionService,
	extraction service.ExtractionService,
	verification service.VerificationService,
) *SessionHandler {
	return &SessionHandler{
		sessions:     sessions,
		extraction:   extraction,
		verification: verification,
	}
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "session id must be a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	sess := h.sessions.Create(c.Request.Context())
	RespondCreated(c, gin.H{
		"session_id": sess.ID,
		"state":      sess.Store.State(),
	})
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	snap, err := h.sessions.View(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, h.viewFromSnapshot(id, snap))
}

func (h *SessionHandler) viewFromSnapshot(id uuid.UUID, snap reconcile.Snapshot) sessionView {
	var report []scoredOutcome
	if snap.Report != nil {
		report = scoreReport(snap.Report)
	}
	return sessionView{
		SessionID:    id,
		State:        snap.State,
		Document:     docMeta(snap.Document),
		Record:       snap.Record,
		Report:       report,
		RawText:      snap.RawText,
		AnnotatedImg: snap.AnnotatedImg,
	}
}

// UploadDocument handles POST /api/v1/sessions/:id/document
func (h *SessionHandler) UploadDocument(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := h.sessions.AttachDocument(c.Request.Context(), id, file, header)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"document": docMeta(doc),
		"state":    domain.StateDocumentLoaded,
	})
}

// Extract handles POST /api/v1/sessions/:id/extract
func (h *SessionHandler) Extract(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	record, err := h.extraction.Run(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"record": record,
		"state":  domain.StateExtracted,
	})
}

// editFieldRequest is the body for field edits.
type editFieldRequest struct {
	Value string `json:"value"`
}

// EditField handles PUT /api/v1/sessions/:id/fields/:field
func (h *SessionHandler) EditField(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req editFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object with a value field")
		return
	}

	record, err := h.sessions.EditField(c.Request.Context(), id, domain.FieldKey(c.Param("field")), req.Value)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"record": record})
}

// Verify handles POST /api/v1/sessions/:id/verify
func (h *SessionHandler) Verify(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	report, err := h.verification.Run(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"report": scoreReport(report),
		"state":  domain.StateVerified,
	})
}

// Reset handles POST /api/v1/sessions/:id/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.sessions.Reset(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"state": domain.StateEmpty})
}

// ExportCSV handles GET /api/v1/sessions/:id/export
func (h *SessionHandler) ExportCSV(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	snap, err := h.sessions.View(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="record-%s.csv"`, id))
	_, _ = c.Writer.Write(csvexport.BOM)

	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteRecord(snap.Record); err != nil {
		return
	}
	_ = w.Flush()
}
