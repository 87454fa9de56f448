package repotest

import (
	"context"
	"sync"
	"time"
)

// Denylist is an in-memory token denylist.
type Denylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

// NewDenylist returns an empty denylist.
func NewDenylist() *Denylist {
	return &Denylist{revoked: make(map[string]time.Duration)}
}

func (d *Denylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = ttl
	return nil
}

func (d *Denylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[tokenID]
	return ok, nil
}

// Count returns the number of revoked tokens.
func (d *Denylist) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.revoked)
}
