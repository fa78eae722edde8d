package postsource

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"blog-agent/internal/domain"
)

// parsedFile is the text extracted from one post file.
type parsedFile struct {
	Title   string
	Content string
}

type parseFunc func(path string) (parsedFile, error)

// fileSource walks a directory for post files of the given extensions and
// ranks them by topic overlap, then recency.
type fileSource struct {
	name       string
	dir        string
	extensions []string
	parse      parseFunc
	logger     *slog.Logger
}

type candidate struct {
	post    domain.ReferencePost
	score   int
	modTime time.Time
}

func (s *fileSource) Name() string { return s.name }

func (s *fileSource) FetchPosts(ctx context.Context, topic string, limit int) ([]domain.ReferencePost, error) {
	if s.dir == "" {
		return nil, fmt.Errorf("%s source: directory not configured", s.name)
	}
	terms := topicTerms(topic)

	var candidates []candidate
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !s.matches(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		parsed, err := s.parse(path)
		if err != nil {
			s.logger.Warn("post_file_skipped",
				slog.String("source", s.name),
				slog.String("path", path),
				slog.String("error", err.Error()))
			return nil
		}
		if strings.TrimSpace(parsed.Content) == "" {
			return nil
		}
		title := parsed.Title
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		candidates = append(candidates, candidate{
			post: domain.ReferencePost{
				Title:       title,
				Content:     parsed.Content,
				Source:      s.name,
				URL:         "file://" + path,
				PublishedAt: info.ModTime(),
				Style:       domain.AnalyzeStyle(parsed.Content),
			},
			score:   relevance(terms, title, parsed.Content),
			modTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s source: %w", s.name, err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].modTime.After(candidates[j].modTime)
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	posts := make([]domain.ReferencePost, len(candidates))
	for i, c := range candidates {
		posts[i] = c.post
	}
	return posts, nil
}

func (s *fileSource) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func topicTerms(topic string) []string {
	var terms []string
	for _, f := range strings.Fields(strings.ToLower(topic)) {
		if len([]rune(f)) >= 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

// relevance counts topic terms in the text; title hits weigh triple.
func relevance(terms []string, title, content string) int {
	title = strings.ToLower(title)
	content = strings.ToLower(content)
	score := 0
	for _, t := range terms {
		if strings.Contains(title, t) {
			score += 3
		}
		score += strings.Count(content, t)
	}
	return score
}
