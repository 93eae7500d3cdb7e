// Package review provides a PostgreSQL-backed store for human-reviewed
// transcripts.
//
// Each row pairs an STT draft with its human correction and an optional
// embedding of the reviewed text. The pgvector extension powers
// similarity lookup, so reviewers can pull up previously corrected
// utterances that sound like the one in front of them. [Migrate] installs
// the extension automatically via CREATE EXTENSION IF NOT EXISTS.
//
// Usage:
//
//	store, err := review.NewStore(ctx, dsn, 1536)
//	if err != nil { … }
//	defer store.Close()
//
//	_ = store.Upsert(ctx, rec)
//	similar, _ := store.FindSimilar(ctx, embedding, 5)
package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ddlReviews returns the reviews DDL with the embedding dimension
// substituted. The vector dimension is baked into the column type at schema
// creation time.
func ddlReviews(embeddingDimensions int) string {
	return fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS reviews (
    file_key       TEXT         PRIMARY KEY,
    domain         TEXT         NOT NULL,
    stt_model      TEXT         NOT NULL DEFAULT '',
    stt_draft      TEXT         NOT NULL,
    human_reviewed TEXT         NOT NULL,
    status         TEXT         NOT NULL DEFAULT '',
    embedding      vector(%d),
    reviewed_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reviews_domain
    ON reviews (domain);

CREATE INDEX IF NOT EXISTS idx_reviews_model
    ON reviews (stt_model);

CREATE INDEX IF NOT EXISTS idx_reviews_embedding
    ON reviews USING hnsw (embedding vector_cosine_ops);
`, embeddingDimensions)
}

// Migrate creates or ensures the reviews table and the pgvector extension
// exist. It is idempotent and safe to call on every application start.
//
// embeddingDimensions must match the vector model configured for your
// deployment (e.g., 1536 for OpenAI text-embedding-3-small). Changing this
// value after the first migration requires a manual schema update.
func Migrate(ctx context.Context, pool *pgxpool.Pool, embeddingDimensions int) error {
	if _, err := pool.Exec(ctx, ddlReviews(embeddingDimensions)); err != nil {
		return fmt.Errorf("review migrate: %w", err)
	}
	return nil
}
