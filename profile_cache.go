package main

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ProfileCache memoizes identity -> Profile lookups for a session's
// lifetime. Concurrent resolves for the same identity collapse into one
// remote fetch. Any remote failure resolves to ErrNotFound so callers
// exclude the row instead of crashing the view.
type ProfileCache struct {
	store Store
	log   *zap.Logger
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]*Profile
}

func NewProfileCache(store Store, log *zap.Logger) *ProfileCache {
	return &ProfileCache{
		store:   store,
		log:     log,
		entries: make(map[string]*Profile),
	}
}

func (c *ProfileCache) cached(id string) (*Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[id]
	return p, ok
}

// put is an idempotent upsert keyed by identity.
func (c *ProfileCache) put(p *Profile) {
	c.mu.Lock()
	c.entries[p.ID] = p
	c.mu.Unlock()
}

// Resolve returns the profile for id, fetching it remotely at most once
// until Invalidate is called for that identity.
func (c *ProfileCache) Resolve(ctx context.Context, id string) (*Profile, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	if p, ok := c.cached(id); ok {
		return p, nil
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		if p, ok := c.cached(id); ok {
			return p, nil
		}
		p, err := c.store.ProfileByID(ctx, id)
		if err != nil {
			return nil, err
		}
		c.put(p)
		return p, nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.Warn("profile fetch failed", zap.String("profile_id", id), zap.Error(err))
		}
		return nil, ErrNotFound
	}
	return v.(*Profile), nil
}

// ResolveAll resolves a set of identities with a single remote round trip
// for the uncached remainder. Identities that cannot be resolved are simply
// absent from the result; callers treat absence as an orphaned reference.
func (c *ProfileCache) ResolveAll(ctx context.Context, ids []string) map[string]*Profile {
	out := make(map[string]*Profile, len(ids))
	var missing []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := c.cached(id); ok {
			out[id] = p
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return out
	}

	profiles, err := c.store.ProfilesByIDs(ctx, missing)
	if err != nil {
		c.log.Warn("batch profile fetch failed",
			zap.Int("requested", len(missing)), zap.Error(err))
		return out
	}
	for i := range profiles {
		p := profiles[i]
		c.put(&p)
		out[p.ID] = &p
	}
	return out
}

// Invalidate forces the next Resolve for id to re-fetch. Used after local
// profile edits (avatar, bio, role changes).
func (c *ProfileCache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// Reset drops every entry. Called when the session identity changes, since
// cache lifetime is tied to the session.
func (c *ProfileCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]*Profile)
	c.mu.Unlock()
}
