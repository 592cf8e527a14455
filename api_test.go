package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type promptListResp struct {
	Prompts []promptDTO `json:"prompts"`
}

func createPromptReqBody(title string) map[string]any {
	return map[string]any{
		"title": title, "content": "Hello", "tags": "go, demo", "is_public": true,
	}
}

func TestAPI_PromptLifecycle(t *testing.T) {
	app := newTestApp(t)
	h := app.routes()
	alice := register(t, h, "alice", "alice@example.com")
	bob := register(t, h, "bob", "bob@example.com")

	// Alice publishes.
	rec := doJSON(t, h, http.MethodPost, "/api/prompts", createPromptReqBody("Test"), alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created promptDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, []string{"go", "demo"}, created.Tags)

	// Anonymous browse: author joined, never liked.
	rec = doJSON(t, h, http.MethodGet, "/api/prompts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list promptListResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Prompts, 1)
	require.NotNil(t, list.Prompts[0].Author)
	assert.Equal(t, "alice", list.Prompts[0].Author.Username)
	assert.False(t, list.Prompts[0].IsLiked)

	// Bob likes it, then sees it liked in the feed.
	rec = doJSON(t, h, http.MethodPost, "/api/prompts/"+created.ID+"/like", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/prompts", nil, bob)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Prompts, 1)
	assert.True(t, list.Prompts[0].IsLiked)
	assert.Equal(t, 1, list.Prompts[0].LikesCount)

	// Alice's reputation moved; the cache was invalidated on the like.
	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", nil, alice)
	var me profileDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, 1, me.TotalLikes)

	// Second like request toggles back off.
	rec = doJSON(t, h, http.MethodPost, "/api/prompts/"+created.ID+"/like", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/api/prompts", nil, bob)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.False(t, list.Prompts[0].IsLiked)
	assert.Equal(t, 0, list.Prompts[0].LikesCount)

	// Bob cannot delete Alice's prompt; Alice can.
	rec = doJSON(t, h, http.MethodDelete, "/api/prompts/"+created.ID, nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, h, http.MethodDelete, "/api/prompts/"+created.ID, nil, alice)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_CreatePromptRequiresFields(t *testing.T) {
	app := newTestApp(t)
	h := app.routes()
	alice := register(t, h, "alice", "alice@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/prompts", map[string]any{"title": " ", "content": "x"}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/prompts", createPromptReqBody("t"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_CommentFlow(t *testing.T) {
	app := newTestApp(t)
	h := app.routes()
	alice := register(t, h, "alice", "alice@example.com")
	bob := register(t, h, "bob", "bob@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/prompts", createPromptReqBody("Test"), alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created promptDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Blank comment never reaches the store.
	rec = doJSON(t, h, http.MethodPost, "/api/prompts/"+created.ID+"/comments", map[string]string{"content": "   "}, bob)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/prompts/"+created.ID+"/comments", map[string]string{"content": " nice one "}, bob)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Comments []commentDTO `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "nice one", resp.Comments[0].Content)
	assert.NotEmpty(t, resp.Comments[0].ID, "id is server-assigned")
	require.NotNil(t, resp.Comments[0].Author)
	assert.Equal(t, "bob", resp.Comments[0].Author.Username)

	// Alice cannot delete Bob's comment.
	rec = doJSON(t, h, http.MethodDelete, "/api/comments/"+resp.Comments[0].ID, nil, alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, h, http.MethodDelete, "/api/comments/"+resp.Comments[0].ID, nil, bob)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_ProfileUpdateInvalidatesCache(t *testing.T) {
	app := newTestApp(t)
	h := app.routes()
	alice := register(t, h, "alice", "alice@example.com")

	// Publish so the public feed resolves (and caches) alice's profile.
	rec := doJSON(t, h, http.MethodPost, "/api/prompts", createPromptReqBody("Test"), alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/api/prompts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	bio := "prompt enthusiast"
	rec = doJSON(t, h, http.MethodPut, "/api/profile", map[string]any{"bio": bio}, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/prompts", nil, nil)
	var list promptListResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Prompts, 1)
	require.NotNil(t, list.Prompts[0].Author.Bio)
	assert.Equal(t, bio, *list.Prompts[0].Author.Bio, "stale cached profile must not survive the edit")
}

func TestAPI_AdminGated(t *testing.T) {
	app := newTestApp(t)
	h := app.routes()
	alice := register(t, h, "alice", "alice@example.com")
	bob := register(t, h, "bob", "bob@example.com")

	rec := doJSON(t, h, http.MethodGet, "/api/admin/users", nil, alice)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Promote alice to administrator directly in the store.
	var me profileDTO
	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", nil, alice)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.NoError(t, app.store.SetRole(t.Context(), me.ID, RoleAdministrator))

	rec = doJSON(t, h, http.MethodGet, "/api/admin/users", nil, alice)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Admin changes bob's role; bob still cannot use admin routes.
	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", nil, bob)
	var bobDTO profileDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bobDTO))

	rec = doJSON(t, h, http.MethodPut, "/api/admin/users/"+bobDTO.ID+"/role", map[string]string{"role": RolePromptMaster}, alice)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", nil, bob)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bobDTO))
	assert.Equal(t, RolePromptMaster, bobDTO.Role)

	rec = doJSON(t, h, http.MethodPut, "/api/admin/users/"+bobDTO.ID+"/role", map[string]string{"role": RoleAdministrator}, bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
