package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"blog-agent/internal/domain"
)

const (
	wordsPerMinute   = 200
	rawLogPreviewLen = 2000
)

// JSONExtractor locates a JSON object inside free-form model output.
type JSONExtractor interface {
	Extract(text string) (string, bool)
}

// The closing fence must start a line; fences inside JSON strings are escaped
// as \n and never match.
var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\n(.*?)\n[ \t]*```")

// FencedBlockExtractor returns the first fenced code block whose body is a valid JSON object.
type FencedBlockExtractor struct{}

func (FencedBlockExtractor) Extract(text string) (string, bool) {
	for _, m := range fencedBlockPattern.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[1])
		if strings.HasPrefix(body, "{") && json.Valid([]byte(body)) {
			return body, true
		}
	}
	return "", false
}

// BraceSpanExtractor returns the first balanced top-level {...} span.
type BraceSpanExtractor struct{}

func (BraceSpanExtractor) Extract(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// ChainExtractor tries each extractor in order and returns the first hit that
// is valid JSON. An invalid candidate falls through to the next extractor.
type ChainExtractor []JSONExtractor

func (c ChainExtractor) Extract(text string) (string, bool) {
	for _, e := range c {
		if out, ok := e.Extract(text); ok && json.Valid([]byte(out)) {
			return out, true
		}
	}
	return "", false
}

// DefaultExtractor tries a fenced block first, then the first brace span.
func DefaultExtractor() JSONExtractor {
	return ChainExtractor{FencedBlockExtractor{}, BraceSpanExtractor{}}
}

// ResponseParser turns generated text into GeneratedContent. It never fails:
// unparseable text becomes the body of a fallback result.
type ResponseParser struct {
	extractor JSONExtractor
	logger    *slog.Logger
}

// NewResponseParser creates a parser. A nil extractor uses DefaultExtractor.
func NewResponseParser(extractor JSONExtractor, logger *slog.Logger) *ResponseParser {
	if extractor == nil {
		extractor = DefaultExtractor()
	}
	return &ResponseParser{extractor: extractor, logger: logger}
}

type generatedPostJSON struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Outline    []string `json:"outline"`
	References []string `json:"references"`
	Metadata   struct {
		WordCount   int      `json:"word_count"`
		ReadingTime int      `json:"reading_time"`
		Keywords    []string `json:"keywords"`
	} `json:"metadata"`
}

// Parse extracts the structured post from text.
func (p *ResponseParser) Parse(text string) domain.GeneratedContent {
	parsed, err := p.decode(text)
	if err != nil {
		p.logger.Warn("response_parse_fallback",
			slog.String("error", err.Error()),
			slog.Int("raw_length", len(text)),
			slog.String("raw", truncateRunes(text, rawLogPreviewLen)))
		return fallbackContent(text)
	}

	content := domain.GeneratedContent{
		Title:      parsed.Title,
		Content:    parsed.Content,
		Outline:    nonNil(parsed.Outline),
		References: nonNil(parsed.References),
		Metadata: domain.ContentMetadata{
			WordCount:   parsed.Metadata.WordCount,
			ReadingTime: parsed.Metadata.ReadingTime,
			Keywords:    nonNil(parsed.Metadata.Keywords),
		},
	}
	if content.Metadata.WordCount <= 0 {
		content.Metadata.WordCount = countWords(content.Content)
	}
	if content.Metadata.ReadingTime <= 0 {
		content.Metadata.ReadingTime = readingTime(content.Metadata.WordCount)
	}
	return content
}

func (p *ResponseParser) decode(text string) (*generatedPostJSON, error) {
	raw, ok := p.extractor.Extract(text)
	if !ok {
		return nil, errors.New("no json object found in response")
	}
	var parsed generatedPostJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response json: %w", err)
	}
	if parsed.Title == "" && parsed.Content == "" {
		return nil, errors.New("response json has neither title nor content")
	}
	return &parsed, nil
}

func fallbackContent(text string) domain.GeneratedContent {
	words := countWords(text)
	return domain.GeneratedContent{
		Title:      "",
		Content:    text,
		Outline:    []string{},
		References: []string{},
		Metadata: domain.ContentMetadata{
			WordCount:     words,
			ReadingTime:   readingTime(words),
			Keywords:      []string{},
			ParseFallback: true,
		},
	}
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

func readingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
