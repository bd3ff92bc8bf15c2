package session

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	// DefaultTTL is how long an idle session survives before eviction.
	DefaultTTL = 30 * time.Minute

	cleanupInterval = 5 * time.Minute
)

// Store keeps live sessions in memory with a sliding idle TTL. A session
// touched by any event stays alive; an abandoned one is evicted together
// with its document and history.
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (s *Store) Put(sess *Session) {
	s.cache.Set(sess.ID, sess, s.ttl)
}

// Get returns the session and refreshes its TTL.
func (s *Store) Get(id string) (*Session, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}

	sess, ok := v.(*Session)
	if !ok {
		logger.Error("Session cache holds unexpected type", zap.String("id", id))
		return nil, false
	}

	s.cache.Set(id, sess, s.ttl)
	return sess, true
}

func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

func (s *Store) Count() int {
	return s.cache.ItemCount()
}
