// Package loader reads selected source files into in-memory documents carrying
// the metadata schema stored alongside every vector.
package loader

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Metadata is the per-file record persisted with every chunk. The key set
// (source, filename, file_type, expert_domain, relative_path, ingestion_date,
// repo_url, commit_hash) is a compatibility contract with existing stored data.
type Metadata struct {
	Source        string
	Filename      string
	FileType      string
	ExpertDomain  string
	RelativePath  string
	IngestionDate time.Time
	RepoURL       string
	CommitHash    string
}

// CodeDocument is one loaded source file. Never mutated after creation.
type CodeDocument struct {
	Content string
	Meta    Metadata
}

// Provenance carries optional repository origin attached to every document.
type Provenance struct {
	RepoURL    string
	CommitHash string
}

// Loader reads files into CodeDocuments.
type Loader struct {
	logger   *slog.Logger
	progress bool
}

// NewLoader creates a Loader. When progress is true a progress bar is rendered
// to stderr for operator visibility during large loads.
func NewLoader(logger *slog.Logger, progress bool) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, progress: progress}
}

// Load reads each path into a CodeDocument tagged with domain and provenance.
// A single file's read failure is logged and skipped; it never aborts the
// batch. Invalid UTF-8 byte sequences are replaced rather than rejected.
func (l *Loader) Load(root string, paths []string, domain string, prov Provenance) []CodeDocument {
	var bar *progressbar.ProgressBar
	if l.progress && len(paths) > 0 {
		bar = progressbar.Default(int64(len(paths)), "loading files")
	}

	now := time.Now().UTC()
	docs := make([]CodeDocument, 0, len(paths))

	for _, path := range paths {
		if bar != nil {
			_ = bar.Add(1)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		docs = append(docs, CodeDocument{
			Content: strings.ToValidUTF8(string(data), "�"),
			Meta: Metadata{
				Source:        path,
				Filename:      filepath.Base(path),
				FileType:      strings.ToLower(filepath.Ext(path)),
				ExpertDomain:  domain,
				RelativePath:  filepath.ToSlash(rel),
				IngestionDate: now,
				RepoURL:       prov.RepoURL,
				CommitHash:    prov.CommitHash,
			},
		})
	}

	l.logger.Info("loaded documents", "requested", len(paths), "loaded", len(docs))
	return docs
}
