package postsource

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"blog-agent/internal/domain"
)

// NewHTMLSource loads prior posts from saved .html pages under dir.
func NewHTMLSource(dir string, logger *slog.Logger) domain.PostSource {
	return &fileSource{
		name:       "html",
		dir:        dir,
		extensions: []string{".html", ".htm"},
		parse:      parseHTMLFile,
		logger:     logger,
	}
}

func parseHTMLFile(path string) (parsedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return parsedFile{}, err
	}
	return parseHTML(string(data))
}

func parseHTML(raw string) (parsedFile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return parsedFile{}, fmt.Errorf("failed to parse html: %w", err)
	}
	title := extractTitle(doc)

	doc.Find("script, style, noscript, nav, header, footer, aside, iframe").Remove()
	doc.Find("[class*='comment'], [id*='comment'], [class*='share'], [class*='social']").Remove()
	cleaned, err := doc.Html()
	if err != nil || cleaned == "" {
		cleaned = raw
	}

	return parsedFile{Title: title, Content: htmlToText(mainContent(cleaned))}, nil
}

// minReadableText is the shortest readability text trusted over the whole page.
const minReadableText = 200

// mainContent narrows the page to its article body. Short readability
// results usually mean only the title was found, so the page is kept.
func mainContent(html string) string {
	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		return html
	}
	var textBuf strings.Builder
	if err := article.RenderText(&textBuf); err != nil || len(strings.TrimSpace(textBuf.String())) < minReadableText {
		return html
	}
	var htmlBuf strings.Builder
	if err := article.RenderHTML(&htmlBuf); err != nil || strings.TrimSpace(htmlBuf.String()) == "" {
		return html
	}
	return htmlBuf.String()
}

// extractTitle prefers <title>, then og:title, then the first h1.
func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// htmlToText flattens block elements in document order into markdown-like
// text so headings and lists survive for style analysis.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalizeWhitespace(bluemonday.StrictPolicy().Sanitize(html))
	}

	var blocks []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre").Each(func(_ int, s *goquery.Selection) {
		text := normalizeWhitespace(s.Text())
		if text == "" {
			return
		}
		switch tag := goquery.NodeName(s); tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			text = strings.Repeat("#", int(tag[1]-'0')) + " " + text
		case "li":
			if goquery.NodeName(s.Parent()) == "ol" {
				text = fmt.Sprintf("%d. %s", s.Index()+1, text)
			} else {
				text = "- " + text
			}
		case "p":
			// paragraphs inside list items are already covered by the li
			if s.ParentsFiltered("li").Length() > 0 {
				return
			}
		}
		blocks = append(blocks, text)
	})
	if len(blocks) == 0 {
		return normalizeWhitespace(bluemonday.StrictPolicy().Sanitize(html))
	}
	return strings.Join(blocks, "\n\n")
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
