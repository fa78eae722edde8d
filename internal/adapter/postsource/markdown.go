package postsource

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"

	"blog-agent/internal/domain"
)

// NewMarkdownSource loads prior posts from .md files under dir.
func NewMarkdownSource(dir string, logger *slog.Logger) domain.PostSource {
	return &fileSource{
		name:       "markdown",
		dir:        dir,
		extensions: []string{".md", ".markdown"},
		parse:      parseMarkdownFile,
		logger:     logger,
	}
}

func parseMarkdownFile(path string) (parsedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return parsedFile{}, err
	}
	return parseMarkdown(data)
}

// parseMarkdown keeps the raw markdown as content so heading and list markers
// stay visible to the style analyzer. The title is the first H1.
func parseMarkdown(data []byte) (parsedFile, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(data, &buf); err != nil {
		return parsedFile{}, fmt.Errorf("failed to render markdown: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return parsedFile{}, fmt.Errorf("failed to parse rendered markdown: %w", err)
	}
	return parsedFile{
		Title:   strings.TrimSpace(doc.Find("h1").First().Text()),
		Content: strings.TrimSpace(string(data)),
	}, nil
}
