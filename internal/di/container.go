package di

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"blog-agent/internal/adapter/llm"
	"blog-agent/internal/adapter/materials"
	"blog-agent/internal/adapter/postsource"
	"blog-agent/internal/adapter/repository"
	"blog-agent/internal/adapter/websearch"
	"blog-agent/internal/domain"
	"blog-agent/internal/infra/config"
	"blog-agent/internal/infra/httpclient"
	"blog-agent/internal/usecase"
	"blog-agent/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Repositories; nil when no database is configured
	PostRepo domain.BlogPostRepository

	// Sources
	FileSources []domain.PostSource

	// Usecases
	Aggregator      *usecase.StyleAggregator
	Gatherer        *usecase.GatherContextUsecase
	GenerateUsecase usecase.GeneratePostUsecase
	IngestUsecase   usecase.IngestPostsUsecase

	// Worker; nil unless file sources and a sync interval are configured
	Worker *worker.SyncWorker
}

// NewGenerationClient builds the generation client for the configured provider.
func NewGenerationClient(cfg *config.Config, log *slog.Logger) (domain.GenerationClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.LLM.Timeout) * time.Second
	switch cfg.LLM.Provider {
	case config.ProviderOllama:
		return llm.NewOllamaGenerator(cfg.LLM.BaseURL, cfg.LLM.Model, httpclient.NewPooledClient(timeout), timeout, log), nil
	default:
		gen, err := llm.NewOpenAIGenerator(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, timeout, log)
		if err != nil {
			return nil, fmt.Errorf("openai generator: %w", err)
		}
		return gen, nil
	}
}

// NewApplicationComponents wires the pipeline. pool may be nil, which disables
// the database source and ingest; client may be nil for prompt-only use.
func NewApplicationComponents(
	cfg *config.Config,
	profile *config.StyleProfile,
	pool *pgxpool.Pool,
	client domain.GenerationClient,
	log *slog.Logger,
) (*ApplicationComponents, error) {
	if profile == nil {
		profile = &config.StyleProfile{}
	}

	// Embedder is optional; without it the database source lists recent posts
	var embedder domain.VectorEncoder
	if cfg.Embedder.Enabled {
		timeout := time.Duration(cfg.Embedder.Timeout) * time.Second
		embedder = llm.NewOllamaEmbedder(cfg.Embedder.URL, cfg.Embedder.Model, httpclient.NewPooledClient(timeout), timeout, log)
	}

	// Post sources
	var loaders []usecase.PostLoader
	var postRepo domain.BlogPostRepository
	if pool != nil {
		postRepo = repository.NewBlogPostRepository(pool)
		if cfg.Sources.DatabaseEnabled {
			loaders = append(loaders, usecase.PostLoader{
				Source:   postsource.NewDatabaseSource(postRepo, embedder, log),
				Required: cfg.Sources.DatabaseRequired,
			})
		}
	}
	var fileSources []domain.PostSource
	if cfg.Sources.MarkdownDir != "" {
		fileSources = append(fileSources, postsource.NewMarkdownSource(cfg.Sources.MarkdownDir, log))
	}
	if cfg.Sources.HTMLDir != "" {
		fileSources = append(fileSources, postsource.NewHTMLSource(cfg.Sources.HTMLDir, log))
	}
	if cfg.Sources.PDFDir != "" {
		fileSources = append(fileSources, postsource.NewPDFSource(cfg.Sources.PDFDir, log))
	}
	for _, src := range fileSources {
		loaders = append(loaders, usecase.PostLoader{Source: src, Required: cfg.Sources.FilesRequired})
	}

	// Reference materials
	var materialSearcher domain.MaterialSearcher
	if cfg.Meili.Host != "" {
		materialSearcher = materials.NewMeiliSearcher(materials.NewMeiliClient(cfg.Meili.Host, cfg.Meili.APIKey), cfg.Meili.Index, log)
		log.Info("materials_search_enabled", slog.String("index", cfg.Meili.Index))
	}

	// Web search
	var webSearcher domain.WebSearcher
	if cfg.WebSearch.APIKey != "" {
		brave, err := websearch.NewBraveClient(
			cfg.WebSearch.BaseURL,
			cfg.WebSearch.APIKey,
			httpclient.NewPooledClient(15*time.Second),
			time.Duration(cfg.WebSearch.IntervalMs)*time.Millisecond,
			log,
		)
		if err != nil {
			return nil, fmt.Errorf("web search: %w", err)
		}
		webSearcher = brave
		if cfg.WebSearch.CacheSize > 0 {
			webSearcher = websearch.NewCachedSearcher(brave, cfg.WebSearch.CacheSize, time.Duration(cfg.WebSearch.CacheTTL)*time.Minute)
		}
		log.Info("web_search_enabled", slog.Int("cache_size", cfg.WebSearch.CacheSize))
	}

	// Style
	styleConfig := usecase.StyleConfig{
		Preferences:       profile.Preferences,
		KoreanPreferences: profile.KoreanPreferences,
	}
	if profile.DefaultStyle != nil {
		styleConfig.DefaultStyle = *profile.DefaultStyle
	}
	aggregator := usecase.NewStyleAggregator(styleConfig, log)

	// Pipeline
	gatherer := usecase.NewGatherContextUsecase(loaders, materialSearcher, webSearcher, aggregator, usecase.GatherConfig{
		MaxPosts:           cfg.Gather.MaxPosts,
		MaxMaterials:       cfg.Gather.MaxMaterials,
		PostsPerSource:     cfg.Gather.PostsPerSource,
		MaterialsPerQuery:  cfg.Gather.MaterialsPerQuery,
		WebResultsPerQuery: cfg.Gather.WebResultsPerQuery,
		LoaderTimeout:      time.Duration(cfg.Gather.LoaderTimeout) * time.Second,
		MaterialsRequired:  cfg.Meili.Required,
		WebRequired:        cfg.WebSearch.Required,
	}, log)
	promptBuilder := usecase.NewTemplatePromptBuilder(profile.PlatformRules(domain.DefaultPlatformRules()), profile.KoreanPreferences)
	generateUsecase := usecase.NewGeneratePostUsecase(
		gatherer,
		promptBuilder,
		client,
		usecase.NewResponseParser(nil, log),
		usecase.GenerationOptions{
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		},
		log,
	)

	components := &ApplicationComponents{
		PostRepo:        postRepo,
		FileSources:     fileSources,
		Aggregator:      aggregator,
		Gatherer:        gatherer,
		GenerateUsecase: generateUsecase,
	}

	if postRepo != nil {
		components.IngestUsecase = usecase.NewIngestPostsUsecase(postRepo, domain.NewSourceHashPolicy(), embedder, log)
		if cfg.Sources.SyncInterval > 0 && len(fileSources) > 0 {
			components.Worker = worker.NewSyncWorker(
				fileSources,
				components.IngestUsecase,
				time.Duration(cfg.Sources.SyncInterval)*time.Minute,
				cfg.Sources.SyncLimit,
				log,
			)
		}
	}

	log.Info("pipeline_wired",
		slog.Int("post_loaders", len(loaders)),
		slog.Bool("materials", materialSearcher != nil),
		slog.Bool("web_search", webSearcher != nil),
		slog.Bool("embedder", embedder != nil),
		slog.String("llm_provider", cfg.LLM.Provider))
	return components, nil
}
