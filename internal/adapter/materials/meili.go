package materials

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meilisearch/meilisearch-go"

	"blog-agent/internal/domain"
)

// MeiliSearcher searches the reference-material index in Meilisearch.
type MeiliSearcher struct {
	index  meilisearch.IndexManager
	logger *slog.Logger
}

// NewMeiliSearcher creates a searcher over indexName.
func NewMeiliSearcher(client meilisearch.ServiceManager, indexName string, logger *slog.Logger) *MeiliSearcher {
	return &MeiliSearcher{index: client.Index(indexName), logger: logger}
}

// NewMeiliClient connects to a Meilisearch host.
func NewMeiliClient(host, apiKey string) meilisearch.ServiceManager {
	return meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
}

// Search returns up to limit materials ordered by Meilisearch ranking score.
func (s *MeiliSearcher) Search(ctx context.Context, query string, limit int) ([]domain.ReferenceMaterial, error) {
	start := time.Now()
	result, err := s.index.SearchWithContext(ctx, query, &meilisearch.SearchRequest{
		Query:            query,
		Limit:            int64(limit),
		ShowRankingScore: true,
	})
	if err != nil {
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	materials := make([]domain.ReferenceMaterial, 0, len(result.Hits))
	for _, hit := range result.Hits {
		material, err := hitToMaterial(hit)
		if err != nil {
			s.logger.Warn("material_hit_skipped", slog.String("error", err.Error()))
			continue
		}
		materials = append(materials, material)
	}

	s.logger.Debug("materials_searched",
		slog.String("query", query),
		slog.Int("hits", len(materials)),
		slog.Duration("elapsed", time.Since(start)))
	return materials, nil
}

func hitToMaterial(hit meilisearch.Hit) (domain.ReferenceMaterial, error) {
	var hitMap map[string]interface{}
	if err := hit.Decode(&hitMap); err != nil {
		return domain.ReferenceMaterial{}, fmt.Errorf("decode hit: %w", err)
	}
	return domain.ReferenceMaterial{
		ID:        getString(hitMap, "id"),
		Title:     getString(hitMap, "title"),
		Content:   getString(hitMap, "content"),
		Source:    getString(hitMap, "source"),
		Relevance: getFloat(hitMap, "_rankingScore"),
	}, nil
}

func getString(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

func getFloat(m map[string]interface{}, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

var _ domain.MaterialSearcher = (*MeiliSearcher)(nil)
