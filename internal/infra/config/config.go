package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config is the full service configuration, read from the environment.
type Config struct {
	Env       string
	Server    ServerConfig
	DB        DBConfig
	LLM       LLMConfig
	Embedder  EmbedderConfig
	Sources   SourcesConfig
	Gather    GatherConfig
	Meili     MeiliConfig
	WebSearch WebSearchConfig
	Style     StyleConfig
	OTel      OTelConfig
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout int // seconds
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	MaxConns int32
	MinConns int32
}

// DSN builds the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.Name)
}

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     int // seconds
	MaxTokens   int
	Temperature float64
}

type EmbedderConfig struct {
	Enabled bool
	URL     string
	Model   string
	Timeout int // seconds
}

// SourcesConfig selects the post loaders. Required loaders fail the request
// on error; the others degrade to no posts.
type SourcesConfig struct {
	DatabaseEnabled  bool
	DatabaseRequired bool
	MarkdownDir      string
	HTMLDir          string
	PDFDir           string
	FilesRequired    bool
	SyncInterval     int // minutes, 0 disables the sync worker
	SyncLimit        int
}

type GatherConfig struct {
	MaxPosts           int
	MaxMaterials       int
	PostsPerSource     int
	MaterialsPerQuery  int
	WebResultsPerQuery int
	LoaderTimeout      int // seconds
}

type MeiliConfig struct {
	Host     string
	APIKey   string
	Index    string
	Required bool
}

type WebSearchConfig struct {
	APIKey     string
	BaseURL    string
	IntervalMs int
	CacheSize  int
	CacheTTL   int // minutes
	Required   bool
}

type StyleConfig struct {
	ProfilePath string
}

type OTelConfig struct {
	Enabled        bool
	Endpoint       string
	SampleRatio    float64
	ServiceVersion string
}

func Load() *Config {
	return &Config{
		Env: getEnv("ENV", "development"),
		Server: ServerConfig{
			Port:            getEnv("PORT", "9020"),
			ShutdownTimeout: getEnvInt("SHUTDOWN_TIMEOUT", 10),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "blog-db"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "blog_user"),
			Password: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "blog_password"),
			Name:     getEnv("DB_NAME", "blog_db"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			APIKey:      getSecret("LLM_API_KEY", "LLM_API_KEY_FILE", ""),
			BaseURL:     getEnvWithAlt("LLM_BASE_URL", "OLLAMA_URL", ""),
			Timeout:     getEnvInt("LLM_TIMEOUT", 180),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 8192),
			Temperature: getEnvFloat64("LLM_TEMPERATURE", 0.7),
		},
		Embedder: EmbedderConfig{
			Enabled: getEnvBool("EMBEDDER_ENABLED", false),
			URL:     getEnvWithAlt("EMBEDDER_URL", "OLLAMA_URL", "http://localhost:11434"),
			Model:   getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			Timeout: getEnvInt("EMBEDDER_TIMEOUT", 30),
		},
		Sources: SourcesConfig{
			DatabaseEnabled:  getEnvBool("SOURCE_DATABASE_ENABLED", true),
			DatabaseRequired: getEnvBool("SOURCE_DATABASE_REQUIRED", false),
			MarkdownDir:      getEnv("SOURCE_MARKDOWN_DIR", ""),
			HTMLDir:          getEnv("SOURCE_HTML_DIR", ""),
			PDFDir:           getEnv("SOURCE_PDF_DIR", ""),
			FilesRequired:    getEnvBool("SOURCE_FILES_REQUIRED", false),
			SyncInterval:     getEnvInt("SOURCE_SYNC_INTERVAL_MINUTES", 0),
			SyncLimit:        getEnvInt("SOURCE_SYNC_LIMIT", 200),
		},
		Gather: GatherConfig{
			MaxPosts:           getEnvInt("GATHER_MAX_POSTS", 10),
			MaxMaterials:       getEnvInt("GATHER_MAX_MATERIALS", 5),
			PostsPerSource:     getEnvInt("GATHER_POSTS_PER_SOURCE", 10),
			MaterialsPerQuery:  getEnvInt("GATHER_MATERIALS_PER_QUERY", 10),
			WebResultsPerQuery: getEnvInt("GATHER_WEB_RESULTS_PER_QUERY", 5),
			LoaderTimeout:      getEnvInt("GATHER_LOADER_TIMEOUT", 30),
		},
		Meili: MeiliConfig{
			Host:     getEnv("MEILISEARCH_HOST", ""),
			APIKey:   getSecret("MEILISEARCH_API_KEY", "MEILISEARCH_API_KEY_FILE", ""),
			Index:    getEnv("MEILISEARCH_MATERIALS_INDEX", "materials"),
			Required: getEnvBool("MEILISEARCH_REQUIRED", false),
		},
		WebSearch: WebSearchConfig{
			APIKey:     getSecret("BRAVE_API_KEY", "BRAVE_API_KEY_FILE", ""),
			BaseURL:    getEnv("BRAVE_BASE_URL", ""),
			IntervalMs: getEnvInt("BRAVE_INTERVAL_MS", 1000),
			CacheSize:  getEnvInt("WEB_SEARCH_CACHE_SIZE", 256),
			CacheTTL:   getEnvInt("WEB_SEARCH_CACHE_TTL_MINUTES", 60),
			Required:   getEnvBool("WEB_SEARCH_REQUIRED", false),
		},
		Style: StyleConfig{
			ProfilePath: getEnv("STYLE_PROFILE_PATH", ""),
		},
		OTel: OTelConfig{
			Enabled:        getEnvBool("OTEL_ENABLED", false),
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
			SampleRatio:    getEnvFloat64("OTEL_TRACE_SAMPLE_RATIO", 0.1),
			ServiceVersion: getEnv("SERVICE_VERSION", "0.0.0"),
		},
	}
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required for provider %q", c.LLM.Provider)
		}
	case ProviderOllama:
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("LLM_BASE_URL is required for provider %q", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvWithAlt(key, altKey, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if value, ok := os.LookupEnv(altKey); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat64(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
