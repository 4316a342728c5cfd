package server

import (
	"net/http"
	"testing"

	"follicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTogglePostReaction(t *testing.T) {
	s, db := newTestServer(t)
	author := createServerTestUser(t, db, models.RoleUser)
	viewer := createServerTestUser(t, db, models.RoleUser)
	post := createServerTestPost(t, db, author.ID, models.PostStatusPublished)

	app := newTestApp(viewer.ID)
	app.Post("/posts/:id/like", s.TogglePostLike)
	app.Post("/posts/:id/dislike", s.TogglePostDislike)

	path := "/posts/1/like"

	// first toggle adds the like
	resp := doJSON(t, app, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state reactionResponse
	decodeBody(t, resp, &state)
	assert.True(t, state.Liked)
	assert.Equal(t, int64(1), state.Likes)

	// second toggle removes it
	resp = doJSON(t, app, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &state)
	assert.False(t, state.Liked)
	assert.Equal(t, int64(0), state.Likes)

	// like then dislike switches the reaction instead of stacking
	resp = doJSON(t, app, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
	resp = doJSON(t, app, http.MethodPost, "/posts/1/dislike", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &state)
	assert.True(t, state.Liked)
	assert.Equal(t, int64(1), state.Likes)

	var rows int64
	require.NoError(t, db.Model(&models.ReactionEntry{}).
		Where("user_id = ? AND post_id = ?", viewer.ID, post.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

// Clients reconcile optimistic UI against the exact keys, so the body must
// serialize as {"liked": bool, "likes": number} and nothing else.
func TestToggleResponseShape(t *testing.T) {
	s, db := newTestServer(t)
	author := createServerTestUser(t, db, models.RoleUser)
	viewer := createServerTestUser(t, db, models.RoleUser)
	createServerTestPost(t, db, author.ID, models.PostStatusPublished)

	app := newTestApp(viewer.ID)
	app.Post("/posts/:id/like", s.TogglePostLike)

	resp := doJSON(t, app, http.MethodPost, "/posts/1/like", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	decodeBody(t, resp, &body)
	require.Contains(t, body, "liked")
	require.Contains(t, body, "likes")
	assert.Len(t, body, 2)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["likes"])
}

func TestToggleReactionOnMissingPost(t *testing.T) {
	s, db := newTestServer(t)
	viewer := createServerTestUser(t, db, models.RoleUser)

	app := newTestApp(viewer.ID)
	app.Post("/posts/:id/like", s.TogglePostLike)

	resp := doJSON(t, app, http.MethodPost, "/posts/999/like", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleCommentReaction(t *testing.T) {
	s, db := newTestServer(t)
	author := createServerTestUser(t, db, models.RoleUser)
	viewer := createServerTestUser(t, db, models.RoleUser)
	post := createServerTestPost(t, db, author.ID, models.PostStatusPublished)

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Content:  "Stick with it.",
		Status:   models.CommentStatusActive,
	}
	require.NoError(t, db.Create(comment).Error)

	app := newTestApp(viewer.ID)
	app.Post("/comments/:id/like", s.ToggleCommentLike)

	resp := doJSON(t, app, http.MethodPost, "/comments/1/like", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state reactionResponse
	decodeBody(t, resp, &state)
	assert.True(t, state.Liked)
	assert.Equal(t, int64(1), state.Likes)
}
