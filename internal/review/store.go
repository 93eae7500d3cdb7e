package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/vaani-ai/vaani/internal/bench"
)

// ErrNotFound is returned by [Store.Get] when no review exists for the key.
var ErrNotFound = errors.New("review: not found")

// Review is one human-reviewed transcript.
type Review struct {
	// Key identifies the audio file this review belongs to.
	Key bench.FileKey

	// Model is the STT model that produced the draft.
	Model string

	// Draft is the raw STT output.
	Draft string

	// Reviewed is the human-corrected transcript.
	Reviewed string

	// Status is the review workflow state (e.g., "approved").
	Status string

	// Embedding is the vector for the reviewed text. May be nil when no
	// embeddings provider is configured.
	Embedding []float32

	// ReviewedAt is when the review was recorded.
	ReviewedAt time.Time
}

// SimilarResult pairs a review with its cosine distance to a query vector.
type SimilarResult struct {
	Review   Review
	Distance float64
}

// Store is the PostgreSQL-backed review store. All operations are safe for
// concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store, establishes a connection pool to the PostgreSQL
// database at dsn, registers pgvector types on every connection, and runs
// [Migrate] to ensure the schema exists.
func NewStore(ctx context.Context, dsn string, embeddingDimensions int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("review store: parse dsn: %w", err)
	}

	// Register pgvector types on every new connection so that vector columns
	// can be scanned into and inserted from pgvector.Vector values.
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("review store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("review store: ping: %w", err)
	}

	if err := Migrate(ctx, pool, embeddingDimensions); err != nil {
		pool.Close()
		return nil, fmt.Errorf("review store: migrate: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases all connections held by the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Upsert inserts or replaces the review for rec.Key.
func (s *Store) Upsert(ctx context.Context, rec Review) error {
	const q = `
		INSERT INTO reviews
		    (file_key, domain, stt_model, stt_draft, human_reviewed, status, embedding, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (file_key) DO UPDATE SET
		    domain         = EXCLUDED.domain,
		    stt_model      = EXCLUDED.stt_model,
		    stt_draft      = EXCLUDED.stt_draft,
		    human_reviewed = EXCLUDED.human_reviewed,
		    status         = EXCLUDED.status,
		    embedding      = EXCLUDED.embedding,
		    reviewed_at    = EXCLUDED.reviewed_at`

	reviewedAt := rec.ReviewedAt
	if reviewedAt.IsZero() {
		reviewedAt = time.Now()
	}

	var vec *pgvector.Vector
	if rec.Embedding != nil {
		v := pgvector.NewVector(rec.Embedding)
		vec = &v
	}

	_, err := s.pool.Exec(ctx, q,
		string(rec.Key),
		rec.Key.Domain(),
		rec.Model,
		rec.Draft,
		rec.Reviewed,
		rec.Status,
		vec,
		reviewedAt,
	)
	if err != nil {
		return fmt.Errorf("review store: upsert %q: %w", rec.Key, err)
	}
	return nil
}

// Get returns the review stored under key, or [ErrNotFound].
func (s *Store) Get(ctx context.Context, key bench.FileKey) (Review, error) {
	const q = `
		SELECT file_key, stt_model, stt_draft, human_reviewed, status, embedding, reviewed_at
		FROM   reviews
		WHERE  file_key = $1`

	rec, err := scanReview(s.pool.QueryRow(ctx, q, string(key)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return Review{}, fmt.Errorf("review store: get %q: %w", key, err)
	}
	return rec, nil
}

// ListDomain returns all reviews in the given domain, most recent first.
func (s *Store) ListDomain(ctx context.Context, domain string) ([]Review, error) {
	const q = `
		SELECT file_key, stt_model, stt_draft, human_reviewed, status, embedding, reviewed_at
		FROM   reviews
		WHERE  domain = $1
		ORDER  BY reviewed_at DESC`

	rows, err := s.pool.Query(ctx, q, domain)
	if err != nil {
		return nil, fmt.Errorf("review store: list domain %q: %w", domain, err)
	}

	reviews, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Review, error) {
		return scanReview(row)
	})
	if err != nil {
		return nil, fmt.Errorf("review store: scan rows: %w", err)
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}

// FindSimilar returns the topK reviews whose embeddings are closest (cosine
// distance) to the supplied query embedding. Reviews stored without an
// embedding are excluded. Results are ordered by ascending distance.
func (s *Store) FindSimilar(ctx context.Context, embedding []float32, topK int) ([]SimilarResult, error) {
	const q = `
		SELECT file_key, stt_model, stt_draft, human_reviewed, status, embedding, reviewed_at,
		       embedding <=> $1 AS distance
		FROM   reviews
		WHERE  embedding IS NOT NULL
		ORDER  BY distance
		LIMIT  $2`

	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("review store: find similar: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SimilarResult, error) {
		var (
			sr  SimilarResult
			key string
			vec pgvector.Vector
		)
		if err := row.Scan(
			&key,
			&sr.Review.Model,
			&sr.Review.Draft,
			&sr.Review.Reviewed,
			&sr.Review.Status,
			&vec,
			&sr.Review.ReviewedAt,
			&sr.Distance,
		); err != nil {
			return SimilarResult{}, err
		}
		sr.Review.Key = bench.FileKey(key)
		sr.Review.Embedding = vec.Slice()
		return sr, nil
	})
	if err != nil {
		return nil, fmt.Errorf("review store: scan rows: %w", err)
	}
	if results == nil {
		results = []SimilarResult{}
	}
	return results, nil
}

// scanReview scans a review row in the canonical column order.
func scanReview(row pgx.Row) (Review, error) {
	var (
		rec Review
		key string
		vec *pgvector.Vector
	)
	if err := row.Scan(
		&key,
		&rec.Model,
		&rec.Draft,
		&rec.Reviewed,
		&rec.Status,
		&vec,
		&rec.ReviewedAt,
	); err != nil {
		return Review{}, err
	}
	rec.Key = bench.FileKey(key)
	if vec != nil {
		rec.Embedding = vec.Slice()
	}
	return rec, nil
}
