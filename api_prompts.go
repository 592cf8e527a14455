package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

/* ---------- Shared DTO with frontend ---------- */

type promptDTO struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Description   *string     `json:"description"`
	Category      *string     `json:"category"`
	Tags          []string    `json:"tags"`
	AuthorID      string      `json:"author_id"`
	IsPublic      bool        `json:"is_public"`
	LikesCount    int         `json:"likes_count"`
	CommentsCount int         `json:"comments_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Author        *profileDTO `json:"author,omitempty"`
	IsLiked       bool        `json:"isLiked"`
}

func toPromptDTO(v PromptView) promptDTO {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	dto := promptDTO{
		ID:            v.ID,
		Title:         v.Title,
		Content:       v.Content,
		Description:   v.Description,
		Category:      v.Category,
		Tags:          tags,
		AuthorID:      v.AuthorID,
		IsPublic:      v.IsPublic,
		LikesCount:    v.LikesCount,
		CommentsCount: v.CommentsCount,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
		IsLiked:       v.Liked,
	}
	if v.Author != nil {
		author := toProfileDTO(v.Author)
		dto.Author = &author
	}
	return dto
}

func promptListJSON(views []PromptView) []promptDTO {
	out := make([]promptDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toPromptDTO(v))
	}
	return out
}

/* ---------- Route: GET /api/prompts ---------- */

func (a *App) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	viewer := a.identityFromRequest(r) // "" is fine: anonymous browse
	rows, err := a.store.PublicPrompts(r.Context())
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	views := buildPromptViews(r.Context(), a.store, a.cache, a.log, rows, viewer)
	writeJSON(w, http.StatusOK, map[string]any{"prompts": promptListJSON(views)})
}

/* ---------- Route: GET /api/prompts/mine ---------- */

func (a *App) handleMyPrompts(w http.ResponseWriter, r *http.Request) {
	viewer := a.identityFromRequest(r)
	if viewer == "" {
		errorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := a.store.PromptsByAuthor(r.Context(), viewer)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	views := buildPromptViews(r.Context(), a.store, a.cache, a.log, rows, viewer)
	writeJSON(w, http.StatusOK, map[string]any{"prompts": promptListJSON(views)})
}

/* ---------- Route: POST /api/prompts ---------- */

type createPromptReq struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Tags        string `json:"tags"` // comma-separated
	IsPublic    bool   `json:"is_public"`
}

func (a *App) handleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	viewer := a.identityFromRequest(r)
	if viewer == "" {
		errorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var in createPromptReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	p, err := CreatePrompt(r.Context(), a.store, viewer, PromptDraft{
		Title:       in.Title,
		Content:     in.Content,
		Description: in.Description,
		Category:    in.Category,
		TagsCSV:     in.Tags,
		IsPublic:    in.IsPublic,
	})
	if errors.Is(err, ErrValidation) {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}

	// The author's prompt_count changed; drop the stale cache entry.
	a.cache.Invalidate(viewer)
	writeJSON(w, http.StatusCreated, toPromptDTO(PromptView{Prompt: *p}))
}

/* ---------- Route: DELETE /api/prompts/{id} ---------- */

func (a *App) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	viewer := a.identityFromRequest(r)
	if viewer == "" {
		errorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	err := a.store.DeletePrompt(r.Context(), id, viewer)
	if errors.Is(err, ErrNotFound) {
		errorJSON(w, http.StatusNotFound, "prompt not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	a.cache.Invalidate(viewer)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

/* ---------- Route: POST /api/prompts/{id}/like ---------- */

func (a *App) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	viewer := a.identityFromRequest(r)
	if viewer == "" {
		errorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")

	likedIDs, err := a.store.LikedPromptIDs(r.Context(), viewer)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	liked := false
	for _, lid := range likedIDs {
		if lid == id {
			liked = true
			break
		}
	}

	if liked {
		err = a.store.DeleteLike(r.Context(), id, viewer)
	} else {
		err = a.store.InsertLike(r.Context(), id, viewer)
	}
	if errors.Is(err, ErrNotFound) {
		errorJSON(w, http.StatusNotFound, "prompt not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}

	p, err := a.store.PromptByID(r.Context(), id)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	// The author's total_likes (and possibly role) changed.
	a.cache.Invalidate(p.AuthorID)
	writeJSON(w, http.StatusOK, map[string]any{"isLiked": !liked, "likes_count": p.LikesCount})
}
