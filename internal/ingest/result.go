package ingest

// Request describes one ingestion run. Exactly one of RepoURL and SourcePath
// must be set.
type Request struct {
	Domain     string
	RepoURL    string
	SourcePath string
	// Collection overrides the profile's default collection when non-empty.
	Collection string
	// Purge removes the repository's previously stored records before
	// writing the new set. Without it re-ingestion appends; old records
	// remain until the maintenance service removes them.
	Purge bool
}

// Result is the orchestrator's output contract. Exactly one of
// (Success=true, Error=="") and (Success=false, Error!="") holds.
type Result struct {
	Success        bool   `json:"success"`
	Domain         string `json:"domain"`
	Collection     string `json:"collection"`
	RepoURL        string `json:"repo_url,omitempty"`
	CommitHash     string `json:"commit_hash,omitempty"`
	FilesProcessed int    `json:"files_processed"`
	ChunksCreated  int    `json:"chunks_created"`
	VectorsStored  int    `json:"vectors_stored"`
	Error          string `json:"error,omitempty"`
}
