package domain

import (
	"errors"
	"time"
)

var (
	// ErrEmptyTopic is returned when a request has no topic.
	ErrEmptyTopic = errors.New("topic is required")
	// ErrGenerationFailed wraps failures of the external generation call.
	ErrGenerationFailed = errors.New("text generation failed")
	// ErrConfigMissing marks configuration that is required at construction time.
	ErrConfigMissing = errors.New("required configuration missing")
)

// Content length presets.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// ContentRequest holds the user-supplied generation parameters.
type ContentRequest struct {
	Topic          string   `json:"topic"`
	TargetAudience string   `json:"target_audience"`
	Length         string   `json:"length"`
	Platform       Platform `json:"platform"`
	// SearchQueries drive the reference-material and web search loaders.
	// When empty, those loaders are not invoked.
	SearchQueries []string `json:"search_queries,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

// ReferencePost is a prior post retrieved by a source loader.
type ReferencePost struct {
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Source      string       `json:"source"`
	URL         string       `json:"url,omitempty"`
	PublishedAt time.Time    `json:"published_at,omitempty"`
	Style       WritingStyle `json:"style"`
}

// ReferenceMaterial is a domain reference document with a relevance score.
type ReferenceMaterial struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Source    string  `json:"source,omitempty"`
	Relevance float64 `json:"relevance"`
}

// WebResult is a single web search hit.
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// GeneratedContent is the final pipeline output.
type GeneratedContent struct {
	Title            string           `json:"title"`
	Content          string           `json:"content"`
	Outline          []string         `json:"outline"`
	References       []string         `json:"references"`
	Metadata         ContentMetadata  `json:"metadata"`
	CompletionStatus CompletionStatus `json:"completion_status"`
}

// ContentMetadata describes the generated post.
type ContentMetadata struct {
	WordCount     int      `json:"word_count"`
	ReadingTime   int      `json:"reading_time"`
	Keywords      []string `json:"keywords"`
	Platform      Platform `json:"platform"`
	GeneratedAt   string   `json:"generated_at,omitempty"`
	Model         string   `json:"model,omitempty"`
	GenerationID  string   `json:"generation_id,omitempty"`
	ParseFallback bool     `json:"parse_fallback"`
}

// CompletionStatus surfaces whether the generator stopped naturally.
type CompletionStatus struct {
	IsComplete bool       `json:"is_complete"`
	StopReason StopReason `json:"stop_reason"`
	TokenUsage TokenUsage `json:"token_usage"`
}
