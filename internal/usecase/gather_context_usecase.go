package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"blog-agent/internal/domain"

	"golang.org/x/sync/errgroup"
)

// PostLoader is a configured post source. Failures of a required loader
// abort the gather; failures of an optional one degrade to zero results.
type PostLoader struct {
	Source   domain.PostSource
	Required bool
}

// GatherConfig bounds what the context gatherer collects.
type GatherConfig struct {
	MaxPosts           int
	MaxMaterials       int
	PostsPerSource     int
	MaterialsPerQuery  int
	WebResultsPerQuery int
	LoaderTimeout      time.Duration
	MaterialsRequired  bool
	WebRequired        bool
}

// DefaultGatherConfig returns the standard limits.
func DefaultGatherConfig() GatherConfig {
	return GatherConfig{
		MaxPosts:           10,
		MaxMaterials:       5,
		PostsPerSource:     10,
		MaterialsPerQuery:  10,
		WebResultsPerQuery: 5,
		LoaderTimeout:      30 * time.Second,
	}
}

// GatherContextUsecase runs every enabled loader concurrently and assembles a PromptContext.
type GatherContextUsecase struct {
	postLoaders []PostLoader
	materials   domain.MaterialSearcher
	web         domain.WebSearcher
	aggregator  *StyleAggregator
	cfg         GatherConfig
	logger      *slog.Logger
}

// NewGatherContextUsecase wires the gatherer. A nil materials or web searcher disables that loader.
func NewGatherContextUsecase(
	postLoaders []PostLoader,
	materials domain.MaterialSearcher,
	web domain.WebSearcher,
	aggregator *StyleAggregator,
	cfg GatherConfig,
	logger *slog.Logger,
) *GatherContextUsecase {
	defaults := DefaultGatherConfig()
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = defaults.MaxPosts
	}
	if cfg.MaxMaterials <= 0 {
		cfg.MaxMaterials = defaults.MaxMaterials
	}
	if cfg.PostsPerSource <= 0 {
		cfg.PostsPerSource = defaults.PostsPerSource
	}
	if cfg.MaterialsPerQuery <= 0 {
		cfg.MaterialsPerQuery = defaults.MaterialsPerQuery
	}
	if cfg.WebResultsPerQuery <= 0 {
		cfg.WebResultsPerQuery = defaults.WebResultsPerQuery
	}
	return &GatherContextUsecase{
		postLoaders: postLoaders,
		materials:   materials,
		web:         web,
		aggregator:  aggregator,
		cfg:         cfg,
		logger:      logger,
	}
}

// Gather collects posts, materials and web results for req and merges the post styles once.
func (u *GatherContextUsecase) Gather(ctx context.Context, req domain.ContentRequest) (*PromptContext, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, domain.ErrEmptyTopic
	}
	start := time.Now()
	queries := nonEmpty(req.SearchQueries)

	postResults := make([][]domain.ReferencePost, len(u.postLoaders))
	var materials []domain.ReferenceMaterial
	webResults := make([][]domain.WebResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)

	for i, loader := range u.postLoaders {
		g.Go(func() error {
			lctx, cancel := u.loaderContext(gctx)
			defer cancel()
			posts, err := loader.Source.FetchPosts(lctx, req.Topic, u.cfg.PostsPerSource)
			if err != nil {
				return u.loaderFailed(ctx, loader.Source.Name(), loader.Required, err)
			}
			postResults[i] = posts
			return nil
		})
	}

	if u.materials != nil && len(queries) > 0 {
		g.Go(func() error {
			lctx, cancel := u.loaderContext(gctx)
			defer cancel()
			found, err := u.materials.Search(lctx, strings.Join(queries, " "), u.cfg.MaterialsPerQuery)
			if err != nil {
				return u.loaderFailed(ctx, "materials", u.cfg.MaterialsRequired, err)
			}
			materials = found
			return nil
		})
	}

	if u.web != nil {
		for i, q := range queries {
			g.Go(func() error {
				lctx, cancel := u.loaderContext(gctx)
				defer cancel()
				found, err := u.web.Search(lctx, q, u.cfg.WebResultsPerQuery)
				if err != nil {
					return u.loaderFailed(ctx, "web_search", u.cfg.WebRequired, err)
				}
				webResults[i] = found
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	posts := dedupePostsByTitle(postResults, u.cfg.MaxPosts)
	styles := make([]domain.WritingStyle, len(posts))
	for i, p := range posts {
		styles[i] = p.Style
	}

	pc := &PromptContext{
		Request:    req,
		Posts:      posts,
		Materials:  topMaterials(materials, u.cfg.MaxMaterials),
		WebResults: dedupeWebResults(webResults),
		StyleGuide: u.aggregator.Merge(styles),
	}

	u.logger.InfoContext(ctx, "context_gathered",
		slog.String("topic", req.Topic),
		slog.Int("posts", len(pc.Posts)),
		slog.Int("materials", len(pc.Materials)),
		slog.Int("web_results", len(pc.WebResults)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return pc, nil
}

func (u *GatherContextUsecase) loaderContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.cfg.LoaderTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.cfg.LoaderTimeout)
}

func (u *GatherContextUsecase) loaderFailed(ctx context.Context, name string, required bool, err error) error {
	if required {
		return fmt.Errorf("loader %s: %w", name, err)
	}
	u.logger.WarnContext(ctx, "loader_failed",
		slog.String("loader", name),
		slog.String("error", err.Error()))
	return nil // non-fatal
}

// dedupePostsByTitle keeps the first post per title in loader order, then caps.
func dedupePostsByTitle(results [][]domain.ReferencePost, limit int) []domain.ReferencePost {
	seen := make(map[string]struct{})
	out := []domain.ReferencePost{}
	for _, posts := range results {
		for _, p := range posts {
			key := strings.TrimSpace(p.Title)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func topMaterials(materials []domain.ReferenceMaterial, limit int) []domain.ReferenceMaterial {
	out := append([]domain.ReferenceMaterial{}, materials...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func dedupeWebResults(results [][]domain.WebResult) []domain.WebResult {
	seen := make(map[string]struct{})
	out := []domain.WebResult{}
	for _, rs := range results {
		for _, r := range rs {
			if _, ok := seen[r.URL]; ok {
				continue
			}
			seen[r.URL] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
