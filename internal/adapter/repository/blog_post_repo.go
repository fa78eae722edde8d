package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blog-agent/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

//go:embed schema.sql
var schemaSQL string

// Querier is the subset of *pgxpool.Pool the repository uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type blogPostRepository struct {
	pool Querier
}

// NewBlogPostRepository creates a new BlogPostRepository.
func NewBlogPostRepository(pool Querier) domain.BlogPostRepository {
	return &blogPostRepository{pool: pool}
}

// Migrate creates the blog_posts table when it does not exist.
func Migrate(ctx context.Context, pool Querier) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

const selectPostColumns = `id, title, content, url, style, published_at`

func (r *blogPostRepository) ListRecent(ctx context.Context, limit int) ([]domain.StoredPost, error) {
	query := `
		SELECT ` + selectPostColumns + `
		FROM blog_posts
		ORDER BY published_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent posts: %w", err)
	}
	return scanPosts(rows)
}

func (r *blogPostRepository) SearchSimilar(ctx context.Context, queryVector []float32, limit int) ([]domain.StoredPost, error) {
	query := `
		SELECT ` + selectPostColumns + `
		FROM blog_posts
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(queryVector), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar posts: %w", err)
	}
	return scanPosts(rows)
}

func (r *blogPostRepository) SourceHash(ctx context.Context, url string) (string, error) {
	var hash string
	err := r.pool.QueryRow(ctx, `SELECT source_hash FROM blog_posts WHERE url = $1`, url).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get source hash: %w", err)
	}
	return hash, nil
}

func (r *blogPostRepository) Upsert(ctx context.Context, post domain.StoredPost) error {
	var style []byte
	if post.Style != nil {
		b, err := json.Marshal(post.Style)
		if err != nil {
			return fmt.Errorf("failed to marshal style: %w", err)
		}
		style = b
	}
	publishedAt := post.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO blog_posts (id, title, content, url, style, embedding, source_hash, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (url) DO UPDATE
		SET title = EXCLUDED.title,
			content = EXCLUDED.content,
			style = EXCLUDED.style,
			embedding = EXCLUDED.embedding,
			source_hash = EXCLUDED.source_hash,
			published_at = EXCLUDED.published_at
	`
	_, err := r.pool.Exec(ctx, query, post.ID, post.Title, post.Content, post.URL, style, post.Embedding, post.SourceHash, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert post: %w", err)
	}
	return nil
}

func scanPosts(rows pgx.Rows) ([]domain.StoredPost, error) {
	defer rows.Close()

	posts := []domain.StoredPost{}
	for rows.Next() {
		var p domain.StoredPost
		var style []byte
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.URL, &style, &p.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		if len(style) > 0 {
			var ws domain.WritingStyle
			if err := json.Unmarshal(style, &ws); err != nil {
				return nil, fmt.Errorf("failed to decode style of post %s: %w", p.ID, err)
			}
			p.Style = &ws
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}
