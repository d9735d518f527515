package ingest

import "errors"

var (
	ErrUnknownDomain     = errors.New("unknown domain")
	ErrInvalidSource     = errors.New("invalid source")
	ErrToolUnavailable   = errors.New("git executable unavailable")
	ErrNoFilesFound      = errors.New("no files found")
	ErrNoDocumentsLoaded = errors.New("no documents loaded")
)
