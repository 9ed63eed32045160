package deck

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/slidedeck/internal/metrics"
)

// Library serves compiled decks, compiling on first use and caching the
// result until the TTL passes or the content changes.
type Library struct {
	loader  *Loader
	cache   *Cache
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewLibrary creates a library over loader. m may be nil.
func NewLibrary(loader *Loader, ttl time.Duration, log *slog.Logger, m *metrics.Metrics) *Library {
	if log == nil {
		log = slog.Default()
	}
	return &Library{
		loader:  loader,
		cache:   NewCache(ttl),
		log:     log,
		metrics: m,
	}
}

// Loader returns the underlying loader.
func (lib *Library) Loader() *Loader {
	return lib.loader
}

// List returns the available decks.
func (lib *Library) List() ([]Ref, error) {
	return lib.loader.Discover()
}

// Get returns the compiled deck for slug and lang. Unknown decks yield
// ErrNotFound.
func (lib *Library) Get(ctx context.Context, slug, lang string) (*Deck, error) {
	key := cacheKey(lang, slug)
	if d, ok := lib.cache.Get(key); ok {
		if lib.metrics != nil {
			lib.metrics.CacheHits.Inc()
		}
		return d, nil
	}
	if lib.metrics != nil {
		lib.metrics.CacheMisses.Inc()
	}

	ref, err := lib.loader.Find(slug, lang)
	if err != nil {
		return nil, err
	}
	d, err := lib.loader.Compile(ctx, ref)
	if err != nil {
		return nil, err
	}
	lib.cache.Set(key, d)
	return d, nil
}

// Invalidate drops every cached deck. Sub-documents may be shared between
// decks, so a change anywhere flushes everything.
func (lib *Library) Invalidate() {
	n := lib.cache.Len()
	lib.cache.Flush()
	lib.log.Info("deck cache invalidated", "entries", n)
}

// Cached returns the number of compiled decks currently held.
func (lib *Library) Cached() int {
	return lib.cache.Len()
}
