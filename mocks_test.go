package main

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// fakeStore is an in-memory Store for exercising the view-model core
// without a database. Call counters and injectable errors let tests assert
// how many remote round trips a path performs.
type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]Profile
	prompts  []Prompt
	comments []PromptComment
	likes    map[string]map[string]bool // userID -> set of promptIDs

	profileFetches int // ProfileByID calls
	batchFetches   int // ProfilesByIDs calls
	commentWrites  int // CreateComment calls

	profileErr  error // forced failure for profile reads
	promptsErr  error // forced failure for prompt listings
	likeListErr error // forced failure for LikedPromptIDs

	onPublicPrompts func() // hook fired inside PublicPrompts, before returning
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: make(map[string]Profile),
		likes:    make(map[string]map[string]bool),
	}
}

func (s *fakeStore) addProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

func (s *fakeStore) addPrompt(p Prompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
}

/* ---- Profiles ---- */

func (s *fakeStore) CreateProfile(ctx context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = fmt.Sprintf("u%d", len(s.profiles)+1)
	}
	s.profiles[p.ID] = *p
	return nil
}

func (s *fakeStore) ProfileByID(ctx context.Context, id string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileFetches++
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *fakeStore) ProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Email == email {
			p := p
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) ProfilesByIDs(ctx context.Context, ids []string) ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchFetches++
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	var out []Profile
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) ProfileTaken(ctx context.Context, email, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Email == email || p.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) UpdateProfile(ctx context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = *p
	return nil
}

func (s *fakeStore) ListProfiles(ctx context.Context) ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) SetRole(ctx context.Context, id, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.Role = role
	s.profiles[id] = p
	return nil
}

/* ---- Prompts ---- */

func (s *fakeStore) PublicPrompts(ctx context.Context) ([]Prompt, error) {
	s.mu.Lock()
	hook := s.onPublicPrompts
	s.mu.Unlock()
	if hook != nil {
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promptsErr != nil {
		return nil, s.promptsErr
	}
	var out []Prompt
	for _, p := range s.prompts {
		if p.IsPublic {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) PromptsByAuthor(ctx context.Context, authorID string) ([]Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promptsErr != nil {
		return nil, s.promptsErr
	}
	var out []Prompt
	for _, p := range s.prompts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) PromptByID(ctx context.Context, id string) (*Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.prompts {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) CreatePrompt(ctx context.Context, p *Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = fmt.Sprintf("p%d", len(s.prompts)+1)
	}
	p.CreatedAt = time.Now()
	s.prompts = append(s.prompts, *p)
	return nil
}

func (s *fakeStore) DeletePrompt(ctx context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.prompts {
		if p.ID == id && p.AuthorID == ownerID {
			s.prompts = append(s.prompts[:i], s.prompts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

/* ---- Comments ---- */

func (s *fakeStore) CommentsByPrompt(ctx context.Context, promptID string) ([]PromptComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []PromptComment
	for _, c := range s.comments {
		if c.PromptID == promptID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateComment(ctx context.Context, c *PromptComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commentWrites++
	// Server-assigned identity and timestamp.
	c.ID = fmt.Sprintf("c%d", len(s.comments)+1)
	c.CreatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(len(s.comments)) * time.Minute)
	s.comments = append(s.comments, *c)
	return nil
}

func (s *fakeStore) DeleteComment(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.comments {
		if c.ID == id && c.UserID == userID {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

/* ---- Like edges ---- */

func (s *fakeStore) LikedPromptIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.likeListErr != nil {
		return nil, s.likeListErr
	}
	var out []string
	for id := range s.likes[userID] {
		out = append(out, id)
	}
	return out, nil
}

func (s *fakeStore) InsertLike(ctx context.Context, promptID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.likes[userID] == nil {
		s.likes[userID] = make(map[string]bool)
	}
	if s.likes[userID][promptID] {
		return nil
	}
	s.likes[userID][promptID] = true
	for i := range s.prompts {
		if s.prompts[i].ID == promptID {
			s.prompts[i].LikesCount++
		}
	}
	return nil
}

func (s *fakeStore) DeleteLike(ctx context.Context, promptID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.likes[userID][promptID] {
		return nil
	}
	delete(s.likes[userID], promptID)
	for i := range s.prompts {
		if s.prompts[i].ID == promptID {
			s.prompts[i].LikesCount--
		}
	}
	return nil
}

var _ Store = (*fakeStore)(nil)
