package websearch

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"blog-agent/internal/domain"
)

// CachedSearcher memoizes web results per (query, limit) for a TTL.
type CachedSearcher struct {
	next  domain.WebSearcher
	cache *expirable.LRU[string, []domain.WebResult]
}

// NewCachedSearcher wraps next with an LRU of the given size.
func NewCachedSearcher(next domain.WebSearcher, size int, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{
		next:  next,
		cache: expirable.NewLRU[string, []domain.WebResult](size, nil, ttl),
	}
}

func (c *CachedSearcher) Search(ctx context.Context, query string, limit int) ([]domain.WebResult, error) {
	key := fmt.Sprintf("%d:%s", limit, query)
	if results, ok := c.cache.Get(key); ok {
		return results, nil
	}
	results, err := c.next.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, results)
	return results, nil
}

var _ domain.WebSearcher = (*CachedSearcher)(nil)
