package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// requireAdmin resolves the acting identity and checks the administrator
// role. Returns "" after writing the error response when the check fails.
func (a *App) requireAdmin(w http.ResponseWriter, r *http.Request) string {
	viewer := a.identityFromRequest(r)
	if viewer == "" {
		errorJSON(w, http.StatusUnauthorized, "unauthorized")
		return ""
	}
	p, err := a.store.ProfileByID(r.Context(), viewer)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "user not found")
		return ""
	}
	if p.Role != RoleAdministrator {
		errorJSON(w, http.StatusForbidden, "administrator only")
		return ""
	}
	return viewer
}

/* ---------- Route: GET /api/admin/users ---------- */

func (a *App) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	if a.requireAdmin(w, r) == "" {
		return
	}
	profiles, err := a.store.ListProfiles(r.Context())
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	out := make([]profileDTO, 0, len(profiles))
	for i := range profiles {
		out = append(out, toProfileDTO(&profiles[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

/* ---------- Route: PUT /api/admin/users/{id}/role ---------- */

type setRoleReq struct {
	Role string `json:"role"`
}

func (a *App) handleAdminSetRole(w http.ResponseWriter, r *http.Request) {
	if a.requireAdmin(w, r) == "" {
		return
	}
	var in setRoleReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	switch in.Role {
	case RoleUser, RolePromptMaster, RoleAdministrator:
	default:
		errorJSON(w, http.StatusBadRequest, "unknown role")
		return
	}

	id := chi.URLParam(r, "id")
	err := a.store.SetRole(r.Context(), id, in.Role)
	if errors.Is(err, ErrNotFound) {
		errorJSON(w, http.StatusNotFound, "user not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	a.cache.Invalidate(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
