package propertydata

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bluegrassdata/lienwatch/internal/classify"
)

const (
	cacheTTL        = 24 * time.Hour
	cacheSweep      = time.Hour
	lookupPerSecond = 0.5
)

// CachedSource wraps a Source with a per-address result cache and a rate
// limiter, so re-filed cases cost nothing and the county site sees at most
// one fresh lookup every couple of seconds. Failed lookups are not cached;
// the next request retries.
type CachedSource struct {
	inner   Source
	cache   *gocache.Cache
	limiter *rate.Limiter
}

func NewCachedSource(inner Source) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   gocache.New(cacheTTL, cacheSweep),
		limiter: rate.NewLimiter(rate.Limit(lookupPerSecond), 1),
	}
}

func (s *CachedSource) Lookup(ctx context.Context, cleanedAddress string) (classify.Facts, error) {
	key := strings.ToLower(strings.TrimSpace(cleanedAddress))
	if v, found := s.cache.Get(key); found {
		return v.(classify.Facts), nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return classify.Facts{}, err
	}
	facts, err := s.inner.Lookup(ctx, cleanedAddress)
	if err != nil {
		return classify.Facts{}, err
	}
	s.cache.Set(key, facts, gocache.DefaultExpiration)
	return facts, nil
}
