package main

import (
	"context"
	"fmt"
	"strings"
)

// PromptDraft carries the user-entered fields for a new prompt. Tags come
// in as the raw comma-separated string the form collects.
type PromptDraft struct {
	Title       string
	Content     string
	Description string
	Category    string
	TagsCSV     string
	IsPublic    bool
}

// ParseTags splits a comma-separated tag string into a trimmed,
// deduplicated list that keeps first-occurrence order. Empty entries are
// discarded.
func ParseTags(csv string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(csv, ",") {
		tag := strings.TrimSpace(raw)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// CreatePrompt validates the draft locally and submits it with authorID as
// the owner. It updates no local list; the destination view re-fetches.
func CreatePrompt(ctx context.Context, store Store, authorID string, d PromptDraft) (*Prompt, error) {
	if authorID == "" {
		return nil, ErrNoViewer
	}
	title := strings.TrimSpace(d.Title)
	content := strings.TrimSpace(d.Content)
	if title == "" {
		return nil, validationErr("title required")
	}
	if content == "" {
		return nil, validationErr("content required")
	}

	p := &Prompt{
		Title:    title,
		Content:  content,
		Tags:     ParseTags(d.TagsCSV),
		AuthorID: authorID,
		IsPublic: d.IsPublic,
	}
	if desc := strings.TrimSpace(d.Description); desc != "" {
		p.Description = &desc
	}
	if cat := strings.TrimSpace(d.Category); cat != "" {
		p.Category = &cat
	}

	if err := store.CreatePrompt(ctx, p); err != nil {
		return nil, fmt.Errorf("create prompt: %w", err)
	}
	return p, nil
}
