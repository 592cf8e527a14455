package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// CommentThread maintains the comment collection of one prompt, joined to
// author profiles, in chronological order. It follows the same
// Idle/Loading/Ready/Failed cycle and generation discard as PromptFeed.
type CommentThread struct {
	store    Store
	cache    *ProfileCache
	session  *Session
	log      *zap.Logger
	promptID string

	mu       sync.Mutex
	state    FetchState
	gen      uint64
	comments []CommentView
}

func NewCommentThread(store Store, cache *ProfileCache, session *Session, log *zap.Logger, promptID string) *CommentThread {
	t := &CommentThread{
		store:    store,
		cache:    cache,
		session:  session,
		log:      log,
		promptID: promptID,
	}
	session.Subscribe(func(string) { t.invalidate() })
	return t
}

func (t *CommentThread) invalidate() {
	t.mu.Lock()
	t.gen++
	t.state = StateIdle
	t.comments = nil
	t.mu.Unlock()
}

func (t *CommentThread) State() FetchState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *CommentThread) Comments() []CommentView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]CommentView(nil), t.comments...)
}

func (t *CommentThread) Refresh(ctx context.Context) error {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.state = StateLoading
	t.mu.Unlock()

	rows, err := t.store.CommentsByPrompt(ctx, t.promptID)
	if err != nil {
		t.commit(gen, nil, StateFailed)
		t.log.Warn("comment fetch failed", zap.String("prompt_id", t.promptID), zap.Error(err))
		return fmt.Errorf("fetch comments: %w", err)
	}

	views := buildCommentViews(ctx, t.cache, t.log, rows)
	t.commit(gen, views, StateReady)
	return nil
}

func (t *CommentThread) commit(gen uint64, views []CommentView, state FetchState) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen != gen {
		return false
	}
	t.state = state
	t.comments = views
	return true
}

// Add validates locally, writes the comment, then re-fetches the thread so
// the visible row carries the server-assigned id and timestamps. Blank
// input never reaches the store.
func (t *CommentThread) Add(ctx context.Context, text string) error {
	viewer := t.session.Identity()
	if viewer == "" {
		return ErrNoViewer
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return validationErr("comment text required")
	}

	c := &PromptComment{PromptID: t.promptID, UserID: viewer, Content: text}
	if err := t.store.CreateComment(ctx, c); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return t.Refresh(ctx)
}

// Delete removes a comment owned by the viewer and filters it out of local
// state on success.
func (t *CommentThread) Delete(ctx context.Context, commentID string) error {
	viewer := t.session.Identity()
	if viewer == "" {
		return ErrNoViewer
	}
	if err := t.store.DeleteComment(ctx, commentID, viewer); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.comments[:0]
	for _, c := range t.comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	t.comments = kept
	return nil
}

// buildCommentViews joins comment rows to resolved authors, dropping rows
// whose author cannot be resolved (same read-time policy as prompts).
func buildCommentViews(ctx context.Context, cache *ProfileCache, log *zap.Logger, rows []PromptComment) []CommentView {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	authors := cache.ResolveAll(ctx, ids)

	out := make([]CommentView, 0, len(rows))
	for _, r := range rows {
		author, ok := authors[r.UserID]
		if !ok {
			log.Warn("dropping comment with unresolved author",
				zap.String("comment_id", r.ID), zap.String("author_id", r.UserID))
			continue
		}
		out = append(out, CommentView{PromptComment: r, Author: author})
	}
	return out
}
