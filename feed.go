package main

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

/* ===================== View models ====================== */

// PromptView is a prompt row joined to its resolved author plus the
// viewer-specific liked flag. Built fresh on every fetch cycle, never
// persisted.
type PromptView struct {
	Prompt
	Author *Profile
	Liked  bool
}

type CommentView struct {
	PromptComment
	Author *Profile
}

/* ===================== Fetch state machine ====================== */

type FetchState int

const (
	StateIdle FetchState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s FetchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

/* ===================== Join pipeline ====================== */

// buildPromptViews joins prompt rows to author profiles resolved through
// the cache and overlays the viewer's like set. Rows whose author cannot
// be resolved are dropped with a warning; referential integrity is
// enforced here, at read time, and the surviving rows keep their order.
func buildPromptViews(ctx context.Context, store Store, cache *ProfileCache, log *zap.Logger, rows []Prompt, viewerID string) []PromptView {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.AuthorID)
	}
	authors := cache.ResolveAll(ctx, ids)
	liked := likedSet(ctx, store, log, viewerID)

	out := make([]PromptView, 0, len(rows))
	for _, r := range rows {
		author, ok := authors[r.AuthorID]
		if !ok {
			log.Warn("dropping prompt with unresolved author",
				zap.String("prompt_id", r.ID), zap.String("author_id", r.AuthorID))
			continue
		}
		out = append(out, PromptView{Prompt: r, Author: author, Liked: liked[r.ID]})
	}
	return out
}

// likedSet fetches the viewer's like edges in one batch. Anonymous viewers
// and fetch failures both yield an empty set: a prompt is never shown as
// liked unless the edge was positively observed.
func likedSet(ctx context.Context, store Store, log *zap.Logger, viewerID string) map[string]bool {
	if viewerID == "" {
		return nil
	}
	ids, err := store.LikedPromptIDs(ctx, viewerID)
	if err != nil {
		log.Warn("like-edge fetch failed, defaulting to unliked",
			zap.String("viewer_id", viewerID), zap.Error(err))
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

/* ===================== PromptFeed ====================== */

// PromptFeed maintains one fetchable prompt collection for the session's
// viewer: either the public feed or the viewer's own prompts. State moves
// Idle -> Loading -> {Ready, Failed}; any re-fetch trigger moves Ready or
// Failed back through Loading. An identity change mid-fetch bumps the
// generation counter so the in-flight result is discarded instead of being
// committed against the new viewer.
type PromptFeed struct {
	store   Store
	cache   *ProfileCache
	session *Session
	log     *zap.Logger
	own     bool

	mu       sync.Mutex
	state    FetchState
	gen      uint64
	prompts  []PromptView
	inflight map[string]bool // prompt ids with a like toggle in flight
}

func NewPromptFeed(store Store, cache *ProfileCache, session *Session, log *zap.Logger) *PromptFeed {
	return newFeed(store, cache, session, log, false)
}

// NewOwnPromptFeed scopes the feed to prompts authored by the current
// viewer, public or not.
func NewOwnPromptFeed(store Store, cache *ProfileCache, session *Session, log *zap.Logger) *PromptFeed {
	return newFeed(store, cache, session, log, true)
}

func newFeed(store Store, cache *ProfileCache, session *Session, log *zap.Logger, own bool) *PromptFeed {
	f := &PromptFeed{
		store:    store,
		cache:    cache,
		session:  session,
		log:      log,
		own:      own,
		inflight: make(map[string]bool),
	}
	session.Subscribe(func(string) { f.invalidate() })
	return f
}

// invalidate discards current contents and orphans any in-flight fetch.
func (f *PromptFeed) invalidate() {
	f.mu.Lock()
	f.gen++
	f.state = StateIdle
	f.prompts = nil
	f.mu.Unlock()
}

func (f *PromptFeed) State() FetchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *PromptFeed) Prompts() []PromptView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PromptView(nil), f.prompts...)
}

// Refresh runs one full fetch cycle: primary rows, author resolution
// barrier, join, like overlay. The result is committed only if no identity
// change or newer refresh superseded this cycle.
func (f *PromptFeed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.state = StateLoading
	f.mu.Unlock()
	viewer := f.session.Identity()

	var rows []Prompt
	var err error
	switch {
	case f.own && viewer == "":
		// No viewer, nothing to list.
	case f.own:
		rows, err = f.store.PromptsByAuthor(ctx, viewer)
	default:
		rows, err = f.store.PublicPrompts(ctx)
	}
	if err != nil {
		f.commit(gen, nil, StateFailed)
		f.log.Warn("prompt fetch failed", zap.Bool("own", f.own), zap.Error(err))
		return fmt.Errorf("fetch prompts: %w", err)
	}

	views := buildPromptViews(ctx, f.store, f.cache, f.log, rows, viewer)
	f.commit(gen, views, StateReady)
	return nil
}

func (f *PromptFeed) commit(gen uint64, views []PromptView, state FetchState) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		// A newer cycle or an identity change owns the feed now; drop this
		// result rather than applying it to a stale viewer.
		return false
	}
	f.state = state
	f.prompts = views
	return true
}

/* ===================== Mutations ====================== */

// ToggleLike inserts or removes the viewer's like edge for one prompt and
// optimistically patches the local view (flip flag, count ±1) without
// re-fetching the collection. Toggles for the same prompt are serialized
// with an in-flight guard; the store's uniqueness constraint is the final
// backstop.
func (f *PromptFeed) ToggleLike(ctx context.Context, promptID string) error {
	viewer := f.session.Identity()
	if viewer == "" {
		return ErrNoViewer
	}

	f.mu.Lock()
	if f.inflight[promptID] {
		f.mu.Unlock()
		return nil // toggle already in flight for this prompt
	}
	liked, found := false, false
	for i := range f.prompts {
		if f.prompts[i].ID == promptID {
			liked, found = f.prompts[i].Liked, true
			break
		}
	}
	if !found {
		f.mu.Unlock()
		return ErrNotFound
	}
	f.inflight[promptID] = true
	gen := f.gen
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		delete(f.inflight, promptID)
		f.mu.Unlock()
	}()

	var err error
	if liked {
		err = f.store.DeleteLike(ctx, promptID, viewer)
	} else {
		err = f.store.InsertLike(ctx, promptID, viewer)
	}
	if err != nil {
		return fmt.Errorf("toggle like: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return nil // feed was refreshed or the viewer changed; nothing to patch
	}
	for i := range f.prompts {
		if f.prompts[i].ID != promptID {
			continue
		}
		f.prompts[i].Liked = !liked
		if liked {
			f.prompts[i].LikesCount--
		} else {
			f.prompts[i].LikesCount++
		}
	}
	return nil
}

// DeletePrompt removes a prompt owned by the viewer and filters it out of
// the local view on success. On failure local state is left untouched.
func (f *PromptFeed) DeletePrompt(ctx context.Context, promptID string) error {
	viewer := f.session.Identity()
	if viewer == "" {
		return ErrNoViewer
	}
	if err := f.store.DeletePrompt(ctx, promptID, viewer); err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.prompts[:0]
	for _, p := range f.prompts {
		if p.ID != promptID {
			kept = append(kept, p)
		}
	}
	f.prompts = kept
	return nil
}
