package tracker

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// SeenCache remembers message ids observed during the current capture
// session so repeated DOM scans or webhook retries are dropped before
// they reach the ingest queue. It is reset on every conversation switch.
type SeenCache struct {
	mu sync.Mutex
	c  *cache.Cache
}

func NewSeenCache(ttl time.Duration) *SeenCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SeenCache{c: cache.New(ttl, ttl/2)}
}

func key(chatID, msgID string) string {
	return chatID + "\x00" + msgID
}

// CheckAndMark reports whether the id was already seen, marking it if not.
func (s *SeenCache) CheckAndMark(chatID, msgID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Add(key(chatID, msgID), struct{}{}, cache.DefaultExpiration) != nil
}

// Forget unmarks an id, used when a marked message could not be queued.
func (s *SeenCache) Forget(chatID, msgID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Delete(key(chatID, msgID))
}

func (s *SeenCache) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Flush()
}

func (s *SeenCache) Len() int {
	return s.c.ItemCount()
}
