package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"blog-agent/internal/domain"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const (
	ingestEmbedBatchSize = 16
	// embedTextRunes bounds the text sent to the encoder per post.
	embedTextRunes = 2000
)

// IngestResult counts what an ingest run did.
type IngestResult struct {
	Stored    int `json:"stored"`
	Unchanged int `json:"unchanged"`
}

// IngestPostsUsecase stores prior posts with their style and embedding so the
// database loader can serve them later.
type IngestPostsUsecase interface {
	// Execute is idempotent: posts whose title and content hash is unchanged are skipped.
	Execute(ctx context.Context, posts []domain.ReferencePost) (*IngestResult, error)
}

type ingestPostsUsecase struct {
	repo    domain.BlogPostRepository
	hasher  domain.SourceHashPolicy
	encoder domain.VectorEncoder
	logger  *slog.Logger
}

// NewIngestPostsUsecase creates the ingest usecase. encoder may be nil, in
// which case posts are stored without embeddings.
func NewIngestPostsUsecase(
	repo domain.BlogPostRepository,
	hasher domain.SourceHashPolicy,
	encoder domain.VectorEncoder,
	logger *slog.Logger,
) IngestPostsUsecase {
	return &ingestPostsUsecase{repo: repo, hasher: hasher, encoder: encoder, logger: logger}
}

func (u *ingestPostsUsecase) Execute(ctx context.Context, posts []domain.ReferencePost) (*IngestResult, error) {
	result := &IngestResult{}

	var pending []domain.StoredPost
	for _, p := range posts {
		if p.URL == "" {
			return nil, fmt.Errorf("post %q has no url", p.Title)
		}
		hash := u.hasher.Compute(p.Title, p.Content)
		existing, err := u.repo.SourceHash(ctx, p.URL)
		if err != nil {
			return nil, err
		}
		if existing == hash {
			result.Unchanged++
			continue
		}
		style := p.Style
		pending = append(pending, domain.StoredPost{
			ID:          uuid.New(),
			Title:       p.Title,
			Content:     p.Content,
			URL:         p.URL,
			Style:       &style,
			SourceHash:  hash,
			PublishedAt: p.PublishedAt,
		})
	}

	if err := u.embed(ctx, pending); err != nil {
		return nil, err
	}

	for _, sp := range pending {
		if err := u.repo.Upsert(ctx, sp); err != nil {
			return nil, fmt.Errorf("failed to store post %s: %w", sp.URL, err)
		}
		result.Stored++
	}

	u.logger.InfoContext(ctx, "posts_ingested",
		slog.Int("stored", result.Stored),
		slog.Int("unchanged", result.Unchanged))
	return result, nil
}

func (u *ingestPostsUsecase) embed(ctx context.Context, posts []domain.StoredPost) error {
	if u.encoder == nil {
		return nil
	}
	for start := 0; start < len(posts); start += ingestEmbedBatchSize {
		end := min(start+ingestEmbedBatchSize, len(posts))
		texts := make([]string, 0, end-start)
		for _, p := range posts[start:end] {
			texts = append(texts, truncateRunes(p.Title+"\n\n"+p.Content, embedTextRunes))
		}
		vectors, err := u.encoder.Encode(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to encode posts: %w", err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embeddings count mismatch: got %d, want %d", len(vectors), len(texts))
		}
		for i, v := range vectors {
			vec := pgvector.NewVector(v)
			posts[start+i].Embedding = &vec
		}
	}
	return nil
}
