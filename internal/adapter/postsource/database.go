package postsource

import (
	"context"
	"fmt"
	"log/slog"

	"blog-agent/internal/domain"
)

// DatabaseSource loads prior posts from the blog post store. When an encoder
// is configured, posts are ranked by embedding similarity to the topic.
type DatabaseSource struct {
	repo    domain.BlogPostRepository
	encoder domain.VectorEncoder
	logger  *slog.Logger
}

// NewDatabaseSource creates a database-backed source. encoder may be nil.
func NewDatabaseSource(repo domain.BlogPostRepository, encoder domain.VectorEncoder, logger *slog.Logger) *DatabaseSource {
	return &DatabaseSource{repo: repo, encoder: encoder, logger: logger}
}

func (s *DatabaseSource) Name() string { return "database" }

// FetchPosts returns up to limit posts, most similar first when possible.
func (s *DatabaseSource) FetchPosts(ctx context.Context, topic string, limit int) ([]domain.ReferencePost, error) {
	stored, err := s.load(ctx, topic, limit)
	if err != nil {
		return nil, err
	}
	posts := make([]domain.ReferencePost, 0, len(stored))
	for _, p := range stored {
		style := domain.AnalyzeStyle(p.Content)
		if p.Style != nil {
			style = *p.Style
		}
		posts = append(posts, domain.ReferencePost{
			Title:       p.Title,
			Content:     p.Content,
			Source:      s.Name(),
			URL:         p.URL,
			PublishedAt: p.PublishedAt,
			Style:       style,
		})
	}
	return posts, nil
}

func (s *DatabaseSource) load(ctx context.Context, topic string, limit int) ([]domain.StoredPost, error) {
	if s.encoder != nil && topic != "" {
		vectors, err := s.encoder.Encode(ctx, []string{topic})
		if err == nil && len(vectors) == 1 {
			posts, err := s.repo.SearchSimilar(ctx, vectors[0], limit)
			if err != nil {
				return nil, fmt.Errorf("similar post search: %w", err)
			}
			return posts, nil
		}
		if err != nil {
			s.logger.Warn("topic_embedding_failed",
				slog.String("encoder", s.encoder.Version()),
				slog.String("error", err.Error()))
		}
	}
	posts, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent post listing: %w", err)
	}
	return posts, nil
}

var _ domain.PostSource = (*DatabaseSource)(nil)
