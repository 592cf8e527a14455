package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type commentDTO struct {
	ID        string      `json:"id"`
	PromptID  string      `json:"prompt_id"`
	UserID    string      `json:"user_id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Author    *profileDTO `json:"author,omitempty"`
}

func toCommentDTO(v CommentView) commentDTO {
	dto := commentDTO{
		ID:        v.ID,
		PromptID:  v.PromptID,
		UserID:    v.UserID,
		Content:   v.Content,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	if v.Author != nil {
		author := toProfileDTO(v.Author)
		dto.Author = &author
	}
	return dto
}

func (a *App) commentListJSON(r *http.Request, promptID string) ([]commentDTO, error) {
	rows, err := a.store.CommentsByPrompt(r.Context(), promptID)
	if err != nil {
		return nil, err
	}
	views := buildCommentViews(r.Context(), a.cache, a.log, rows)
	out := make([]commentDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toCommentDTO(v))
	}
	return out, nil
}

/* ---------- Route: GET /api/prompts/{id}/comments ---------- */

func (a *App) handleListComments(w http.ResponseWriter, r *http.Request) {
	promptID := chi.URLParam(r, "id")
	out, err := a.commentListJSON(r, promptID)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": out})
}

/* ---------- Route: POST /api/prompts/{id}/comments ---------- */

type addCommentReq struct {
	Content string `json:"content"`
}

func (a *App) handleAddComment(w http.ResponseWriter, r *http.Request) {
	viewer := a.identityFromRequest(r)
	if viewer == "" {
		errorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	promptID := chi.URLParam(r, "id")

	var in addCommentReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	text := strings.TrimSpace(in.Content)
	if text == "" {
		errorJSON(w, http.StatusBadRequest, "comment text required")
		return
	}

	c := &PromptComment{PromptID: promptID, UserID: viewer, Content: text}
	err := a.store.CreateComment(r.Context(), c)
	if errors.Is(err, ErrNotFound) {
		errorJSON(w, http.StatusNotFound, "prompt not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}

	// Return the re-fetched thread so the client sees server-assigned ids
	// and timestamps.
	out, err := a.commentListJSON(r, promptID)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"comments": out})
}

/* ---------- Route: DELETE /api/comments/{id} ---------- */

func (a *App) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	viewer := a.identityFromRequest(r)
	if viewer == "" {
		errorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	err := a.store.DeleteComment(r.Context(), id, viewer)
	if errors.Is(err, ErrNotFound) {
		errorJSON(w, http.StatusNotFound, "comment not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
