package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

/* ===================== DTOs ====================== */

type registerReq struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileDTO struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Avatar      *string   `json:"avatar"`
	Bio         *string   `json:"bio"`
	TotalLikes  int       `json:"total_likes"`
	PromptCount int       `json:"prompt_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProfileDTO(p *Profile) profileDTO {
	return profileDTO{
		ID:          p.ID,
		Username:    p.Username,
		Email:       p.Email,
		Role:        p.Role,
		Avatar:      p.Avatar,
		Bio:         p.Bio,
		TotalLikes:  p.TotalLikes,
		PromptCount: p.PromptCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

/* ===================== Handlers ====================== */

func (a *App) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var in registerReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		errorJSON(w, http.StatusBadRequest, "username, email and password required")
		return
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		errorJSON(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	taken, err := a.store.ProfileTaken(r.Context(), in.Email, in.Username)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	if taken {
		errorJSON(w, http.StatusConflict, "email or username already in use")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "hash error")
		return
	}
	p := &Profile{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         RoleUser,
	}
	if err := a.store.CreateProfile(r.Context(), p); err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}

	tok, err := signToken([]byte(a.cfg.JWTSecret), p.ID, sessionTTL)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "token error")
		return
	}
	a.setAuthCookie(w, tok)
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

func (a *App) handleAuthSignIn(w http.ResponseWriter, r *http.Request) {
	var in signInReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	p, err := a.store.ProfileByEmail(r.Context(), in.Email)
	if errors.Is(err, ErrNotFound) {
		errorJSON(w, http.StatusUnauthorized, "invalid email or password")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(in.Password)) != nil {
		errorJSON(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	tok, err := signToken([]byte(a.cfg.JWTSecret), p.ID, sessionTTL)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "token error")
		return
	}
	a.setAuthCookie(w, tok)
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

func (a *App) handleAuthSignOut(w http.ResponseWriter, r *http.Request) {
	a.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (a *App) handleAuthMe(w http.ResponseWriter, r *http.Request) {
	id := a.identityFromRequest(r)
	if id == "" {
		errorJSON(w, http.StatusUnauthorized, "no session")
		return
	}
	p, err := a.store.ProfileByID(r.Context(), id)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}
