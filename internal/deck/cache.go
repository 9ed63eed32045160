package deck

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache holds compiled decks keyed by lang/slug.
type Cache struct {
	c   *gocache.Cache
	ttl time.Duration
}

// NewCache creates a cache whose entries expire after ttl. A ttl <= 0 keeps
// entries until they are invalidated.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Cache{c: gocache.New(ttl, 30*time.Second), ttl: ttl}
}

func (this *Cache) Get(key string) (*Deck, bool) {
	v, ok := this.c.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Deck), true
}

func (this *Cache) Set(key string, d *Deck) {
	this.c.Set(key, d, gocache.DefaultExpiration)
}

// Flush drops every entry.
func (this *Cache) Flush() {
	this.c.Flush()
}

func (this *Cache) Len() int {
	return this.c.ItemCount()
}

func cacheKey(lang, slug string) string {
	return lang + "/" + slug
}
