// Package storage persists embedded chunks in named Qdrant collections, one
// collection per knowledge domain.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"
)

// Store wraps the Qdrant client with connection management, collection
// bootstrap, and the metadata queries the maintenance service needs.
type Store struct {
	client    *qdrant.Client
	host      string
	port      int
	dimension int
}

// NewStore connects to Qdrant over gRPC and fails fast, after a bounded
// health-check retry, if the server is unreachable.
func NewStore(host string, port, dimension int) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	s := &Store{client: client, host: host, port: port, dimension: dimension}

	if err := s.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return s, nil
}

// healthCheckWithRetry probes Qdrant with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *Store) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(b, ctx))
}

// Health performs a single health check.
func (s *Store) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// Location describes where this store's data lives, for stats reporting.
func (s *Store) Location() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Close closes the client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// EnsureCollection creates the named collection and its payload indexes if it
// does not exist yet. Idempotent.
func (s *Store) EnsureCollection(ctx context.Context, collection string) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, name := range collections {
		if name == collection {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", collection, err)
	}

	// Without payload indexes, metadata filtering degrades badly at scale.
	for _, field := range []string{keyRepoURL, keyCommitHash, keyExpertDomain, keyFileType} {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("create index for %s: %w", field, err)
		}
	}

	return nil
}

// UpsertRecords writes records to the collection in batches of 100 with
// exponential backoff retry, and blocks until the store acknowledges.
func (s *Store) UpsertRecords(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	for i, rec := range records {
		if len(rec.Vector) != s.dimension {
			return fmt.Errorf("%w: record %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(rec.Vector), s.dimension)
		}
	}

	batchSize := 100
	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))

		batch := records[i:end]
		points := make([]*qdrant.PointStruct, len(batch))
		for j, rec := range batch {
			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(rec.ID),
				Vectors: qdrant.NewVectors(rec.Vector...),
				Payload: qdrant.NewValueMap(recordPayload(rec)),
			}
		}

		if err := s.upsertWithRetry(ctx, collection, points); err != nil {
			return fmt.Errorf("upsert batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

func (s *Store) upsertWithRetry(ctx context.Context, collection string, points []*qdrant.PointStruct) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         points,
		})
		return err
	}, backoff.WithContext(b, ctx))
}

// recordPayload builds the stored payload. The key set is the metadata schema
// compatibility contract; repo_url and commit_hash are present only when known.
func recordPayload(rec Record) map[string]any {
	payload := map[string]any{
		keyContent:       rec.Content,
		keySource:        rec.Meta.Source,
		keyFilename:      rec.Meta.Filename,
		keyFileType:      rec.Meta.FileType,
		keyExpertDomain:  rec.Meta.ExpertDomain,
		keyRelativePath:  rec.Meta.RelativePath,
		keyIngestionDate: rec.Meta.IngestionDate.UTC().Format(time.RFC3339),
		keyChunkIndex:    rec.ChunkIndex,
	}
	if rec.Meta.RepoURL != "" {
		payload[keyRepoURL] = rec.Meta.RepoURL
	}
	if rec.Meta.CommitHash != "" {
		payload[keyCommitHash] = rec.Meta.CommitHash
	}
	return payload
}

// Count returns the total number of records in the collection.
func (s *Store) Count(ctx context.Context, collection string) (uint64, error) {
	return s.count(ctx, collection, nil)
}

// CountByRepo returns the number of records whose repo_url matches exactly.
func (s *Store) CountByRepo(ctx context.Context, collection, repoURL string) (uint64, error) {
	return s.count(ctx, collection, repoFilter(repoURL))
}

func (s *Store) count(ctx context.Context, collection string, filter *qdrant.Filter) (uint64, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Filter:         filter,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("count points in %s: %w", collection, err)
	}
	return count, nil
}

// FirstByRepo returns the metadata of the first stored record for a repository
// URL, or ErrRepoNotFound.
func (s *Store) FirstByRepo(ctx context.Context, collection, repoURL string) (*RecordMeta, error) {
	results, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collection,
		Filter:         repoFilter(repoURL),
		Limit:          qdrant.PtrOf(uint32(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("scroll %s for %s: %w", collection, repoURL, err)
	}
	if len(results) == 0 {
		return nil, ErrRepoNotFound
	}

	meta := metaFromPayload(results[0].Payload)
	return &meta, nil
}

// ScrollMeta pages through the whole collection and returns every record's
// slim metadata view.
func (s *Store) ScrollMeta(ctx context.Context, collection string) ([]RecordMeta, error) {
	var metas []RecordMeta
	var offset *qdrant.PointId

	batchSize := uint32(256)
	for {
		results, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: collection,
			Limit:          qdrant.PtrOf(batchSize),
			Offset:         offset,
			WithPayload: qdrant.NewWithPayloadInclude(
				keyRepoURL, keyCommitHash, keyExpertDomain, keyRelativePath, keyIngestionDate,
			),
		})
		if err != nil {
			return nil, fmt.Errorf("scroll %s: %w", collection, err)
		}

		for _, result := range results {
			metas = append(metas, metaFromPayload(result.Payload))
		}

		if uint32(len(results)) < batchSize {
			break
		}
		offset = results[len(results)-1].Id
	}

	return metas, nil
}

// DeleteByRepo removes every record whose repo_url matches exactly and
// returns how many were removed.
func (s *Store) DeleteByRepo(ctx context.Context, collection, repoURL string) (int, error) {
	matched, err := s.CountByRepo(ctx, collection, repoURL)
	if err != nil {
		return 0, err
	}
	if matched == 0 {
		return 0, nil
	}

	_, err = s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelectorFilter(repoFilter(repoURL)),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("delete records for %s: %w", repoURL, err)
	}

	return int(matched), nil
}

// Search performs vector similarity search and returns scored records.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, limit int) ([]ScoredRecord, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), s.dimension)
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}

	hits := make([]ScoredRecord, 0, len(results))
	for _, result := range results {
		payload := result.Payload
		hits = append(hits, ScoredRecord{
			Content:      payload[keyContent].GetStringValue(),
			RelativePath: payload[keyRelativePath].GetStringValue(),
			RepoURL:      payload[keyRepoURL].GetStringValue(),
			FileType:     payload[keyFileType].GetStringValue(),
			Score:        float64(result.Score),
		})
	}

	return hits, nil
}

func repoFilter(repoURL string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(keyRepoURL, repoURL),
		},
	}
}

func metaFromPayload(payload map[string]*qdrant.Value) RecordMeta {
	meta := RecordMeta{
		RepoURL:      payload[keyRepoURL].GetStringValue(),
		CommitHash:   payload[keyCommitHash].GetStringValue(),
		ExpertDomain: payload[keyExpertDomain].GetStringValue(),
		RelativePath: payload[keyRelativePath].GetStringValue(),
	}
	if ts, err := time.Parse(time.RFC3339, payload[keyIngestionDate].GetStringValue()); err == nil {
		meta.IngestionDate = ts
	}
	return meta
}
