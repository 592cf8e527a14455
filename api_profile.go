package main

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

/* ---------- Route: PUT /api/profile ---------- */

type updateProfileReq struct {
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

func (a *App) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	viewer := a.identityFromRequest(r)
	if viewer == "" {
		errorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var in updateProfileReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	p, err := a.store.ProfileByID(r.Context(), viewer)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "user not found")
		return
	}
	if in.Bio != nil {
		p.Bio = in.Bio
	}
	if in.Avatar != nil {
		p.Avatar = in.Avatar
	}
	if err := a.store.UpdateProfile(r.Context(), p); err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}

	// Force the next resolve to pick up the edit.
	a.cache.Invalidate(viewer)
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

/* ---------- Route: POST /api/profile/avatar ---------- */

const maxAvatarBytes = 2 << 20 // 2 MiB

func (a *App) handleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	viewer := a.identityFromRequest(r)
	if viewer == "" {
		errorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "missing avatar file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "read failed")
		return
	}
	if len(data) > maxAvatarBytes {
		errorJSON(w, http.StatusRequestEntityTooLarge, "avatar too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		errorJSON(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	url, err := a.files.Upload(r.Context(), fmt.Sprintf("avatars/%s%s", viewer, ext), data)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "upload failed")
		return
	}

	p, err := a.store.ProfileByID(r.Context(), viewer)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "user not found")
		return
	}
	p.Avatar = &url
	if err := a.store.UpdateProfile(r.Context(), p); err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	a.cache.Invalidate(viewer)
	writeJSON(w, http.StatusOK, map[string]string{"avatar": url})
}
