package postsource

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"blog-agent/internal/domain"
)

// NewPDFSource loads prior posts from .pdf exports under dir. The first
// non-empty line of the extracted text becomes the title.
func NewPDFSource(dir string, logger *slog.Logger) domain.PostSource {
	return &fileSource{
		name:       "pdf",
		dir:        dir,
		extensions: []string{".pdf"},
		parse:      parsePDFFile,
		logger:     logger,
	}
}

func parsePDFFile(path string) (parsedFile, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return parsedFile{}, fmt.Errorf("pdf open: %w", err)
	}
	defer func() { _ = f.Close() }()

	plain, err := r.GetPlainText()
	if err != nil {
		return parsedFile{}, fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return parsedFile{}, fmt.Errorf("pdf read: %w", err)
	}
	return splitTitle(string(b)), nil
}

func splitTitle(text string) parsedFile {
	text = strings.TrimSpace(text)
	title, rest, _ := strings.Cut(text, "\n")
	title = strings.TrimSpace(title)
	rest = strings.TrimSpace(rest)
	if rest == "" || len([]rune(title)) > 120 {
		return parsedFile{Content: text}
	}
	return parsedFile{Title: title, Content: rest}
}
