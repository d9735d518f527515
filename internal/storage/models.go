package storage

import (
	"time"

	"github.com/codebrainhq/codebrain/internal/loader"
)

// Record is one chunk plus its vector, destined for a named collection.
// Every record of the same source repository carries identical repo_url and
// commit_hash payload values; that invariant is what makes bulk lookup,
// removal, and staleness checks possible later.
type Record struct {
	ID         string
	Content    string
	Vector     []float32
	ChunkIndex int
	Meta       loader.Metadata
}

// RecordMeta is the slim metadata view the maintenance service reads back.
type RecordMeta struct {
	RepoURL       string
	CommitHash    string
	ExpertDomain  string
	RelativePath  string
	IngestionDate time.Time
}

// ScoredRecord is a search hit with its similarity score.
type ScoredRecord struct {
	Content      string
	RelativePath string
	RepoURL      string
	FileType     string
	Score        float64
}

// Payload keys. The set is a compatibility contract with previously stored
// data and must not drift.
const (
	keyContent       = "content"
	keySource        = "source"
	keyFilename      = "filename"
	keyFileType      = "file_type"
	keyExpertDomain  = "expert_domain"
	keyRelativePath  = "relative_path"
	keyIngestionDate = "ingestion_date"
	keyRepoURL       = "repo_url"
	keyCommitHash    = "commit_hash"
	keyChunkIndex    = "chunk_index"
)
