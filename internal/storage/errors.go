package storage

import "errors"

var (
	ErrUnreachable       = errors.New("qdrant server unreachable")
	ErrRepoNotFound      = errors.New("repository not found in collection")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
