package main

import "context"

// Store is the data-access boundary to the backing storage. The view-model
// core (profile cache, fetchers, like overlay, mutation façade) only talks
// to this interface; gormStore is the Postgres implementation and tests
// substitute fakes.
//
// Ordering is part of the contract: prompt listings are newest-first,
// comment listings are chronological. Ownership-scoped deletes return
// ErrNotFound when no row matched the (id, owner) pair, so a delete can
// never touch another identity's rows.
type Store interface {
	// Profiles
	CreateProfile(ctx context.Context, p *Profile) error
	ProfileByID(ctx context.Context, id string) (*Profile, error)
	ProfileByEmail(ctx context.Context, email string) (*Profile, error)
	ProfilesByIDs(ctx context.Context, ids []string) ([]Profile, error)
	ProfileTaken(ctx context.Context, email, username string) (bool, error)
	UpdateProfile(ctx context.Context, p *Profile) error
	ListProfiles(ctx context.Context) ([]Profile, error)
	SetRole(ctx context.Context, id, role string) error

	// Prompts
	PublicPrompts(ctx context.Context) ([]Prompt, error)
	PromptsByAuthor(ctx context.Context, authorID string) ([]Prompt, error)
	PromptByID(ctx context.Context, id string) (*Prompt, error)
	CreatePrompt(ctx context.Context, p *Prompt) error
	DeletePrompt(ctx context.Context, id, ownerID string) error

	// Comments
	CommentsByPrompt(ctx context.Context, promptID string) ([]PromptComment, error)
	CreateComment(ctx context.Context, c *PromptComment) error
	DeleteComment(ctx context.Context, id, userID string) error

	// Like edges
	LikedPromptIDs(ctx context.Context, userID string) ([]string, error)
	InsertLike(ctx context.Context, promptID, userID string) error
	DeleteLike(ctx context.Context, promptID, userID string) error
}
