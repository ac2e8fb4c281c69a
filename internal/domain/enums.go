package domain

// FileType represents the allowed document types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// VerificationStatus is the match status the verification service reports
// for a single field.
type VerificationStatus string

const (
	VerificationMatch    VerificationStatus = "match"
	VerificationMismatch VerificationStatus = "mismatch"
	VerificationMissing  VerificationStatus = "missing_in_document"
)

// Tier is the discrete confidence classification shown to the user.
type Tier string

const (
	TierStrong  Tier = "strong"
	TierPartial Tier = "partial"
	TierWeak    Tier = "weak"
)

// SessionState labels the reconciliation lifecycle of a session.
type SessionState string

const (
	StateEmpty          SessionState = "empty"
	StateDocumentLoaded SessionState = "document_loaded"
	StateExtracted      SessionState = "extracted"
	StateVerified       SessionState = "verified"
)
