package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/spec-kit/coaching-service/internal/flow"
)

// FlowSessionRepository keeps one flow session per browser.
// Entries expire after the configured idle TTL; every Get refreshes it.
type FlowSessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewFlowSessionRepository builds the store; expired sessions are purged every ttl/4.
func NewFlowSessionRepository(ttl time.Duration) *FlowSessionRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &FlowSessionRepository{
		cache: cache.New(ttl, ttl/4),
		ttl:   ttl,
	}
}

// Save stores session under its id.
func (r *FlowSessionRepository) Save(session *flow.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

// Get returns the session and extends its lifetime. A session deleted
// between the lookup and the refresh stays deleted.
func (r *FlowSessionRepository) Get(id string) (*flow.Session, bool) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	session := x.(*flow.Session)
	if err := r.cache.Replace(id, session, cache.DefaultExpiration); err != nil {
		return nil, false
	}
	return session, true
}

// Delete drops the session.
func (r *FlowSessionRepository) Delete(id string) {
	r.cache.Delete(id)
}

// Count returns the number of live sessions.
func (r *FlowSessionRepository) Count() int {
	return r.cache.ItemCount()
}

// OnEvicted registers fn to run when a session expires or is deleted.
func (r *FlowSessionRepository) OnEvicted(fn func(session *flow.Session)) {
	r.cache.OnEvicted(func(_ string, x interface{}) {
		if session, ok := x.(*flow.Session); ok {
			fn(session)
		}
	})
}
