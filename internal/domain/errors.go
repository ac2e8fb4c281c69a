package domain

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrNoDocument           = errors.New("no document selected")
	ErrUnknownField         = errors.New("unknown field key")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrExtractionInFlight   = errors.New("extraction already in flight for this session")
	ErrVerificationInFlight = errors.New("verification already in flight for this session")
	ErrExtractionFailed     = errors.New("extraction service call failed")
	ErrVerificationFailed   = errors.New("verification service call failed")
	ErrStaleResponse        = errors.New("response refers to a replaced document")
)
