package server

import (
	"net/http"
	"testing"

	"follicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkFlow(t *testing.T) {
	s, db := newTestServer(t)
	author := createServerTestUser(t, db, models.RoleUser)
	reader := createServerTestUser(t, db, models.RoleUser)
	createServerTestPost(t, db, author.ID, models.PostStatusPublished)

	app := newTestApp(reader.ID)
	app.Post("/posts/:id/bookmark", s.SaveBookmark)
	app.Delete("/posts/:id/bookmark", s.RemoveBookmark)
	app.Get("/bookmarks", s.GetMyBookmarks)

	// saving twice stays idempotent
	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, http.MethodPost, "/posts/1/bookmark", nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/bookmarks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var saved []models.Bookmark
	decodeBody(t, resp, &saved)
	require.Len(t, saved, 1)
	assert.Equal(t, "My minoxidil log", saved[0].Post.Title)

	resp = doJSON(t, app, http.MethodDelete, "/posts/1/bookmark", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/bookmarks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after []models.Bookmark
	decodeBody(t, resp, &after)
	assert.Empty(t, after)
}

func TestBookmarkInvisiblePost(t *testing.T) {
	s, db := newTestServer(t)
	author := createServerTestUser(t, db, models.RoleUser)
	reader := createServerTestUser(t, db, models.RoleUser)
	createServerTestPost(t, db, author.ID, models.PostStatusDraft)

	app := newTestApp(reader.ID)
	app.Post("/posts/:id/bookmark", s.SaveBookmark)

	resp := doJSON(t, app, http.MethodPost, "/posts/1/bookmark", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
