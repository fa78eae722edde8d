package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// PostSource retrieves prior posts together with their writing style.
type PostSource interface {
	Name() string
	FetchPosts(ctx context.Context, topic string, limit int) ([]ReferencePost, error)
}

// MaterialSearcher searches domain reference materials.
type MaterialSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]ReferenceMaterial, error)
}

// WebSearcher runs web searches.
type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]WebResult, error)
}

// StoredPost is a row of the blog post store.
type StoredPost struct {
	ID          uuid.UUID
	Title       string
	Content     string
	URL         string
	Style       *WritingStyle // nil when no style has been stored yet
	Embedding   *pgvector.Vector
	SourceHash  string
	PublishedAt time.Time
}

// BlogPostRepository stores prior posts in the primary structured store.
type BlogPostRepository interface {
	// Upsert inserts or replaces a post keyed by URL.
	Upsert(ctx context.Context, post StoredPost) error

	// SourceHash returns the stored content hash for url, or "" if the post is unknown.
	SourceHash(ctx context.Context, url string) (string, error)

	// ListRecent returns the newest posts, newest first.
	ListRecent(ctx context.Context, limit int) ([]StoredPost, error)

	// SearchSimilar returns posts ordered by embedding distance to queryVector.
	SearchSimilar(ctx context.Context, queryVector []float32, limit int) ([]StoredPost, error)
}
