package handlers_test

import (
	"net/http"
	"testing"

	"github.com/problog/problog/model"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	db, router, _ := newTestServer(t)
	author := createTestUser(t, db, "author")
	fan := createTestUser(t, db, "fan")
	post := createTestPost(t, db, author, model.TopicMemes, "likeable")
	token := sessionToken(t, fan)

	var resp struct {
		Ok    bool `json:"ok"`
		Liked bool `json:"liked"`
	}
	code := postJSON(t, router, postPath(post.Id, "/like"), token, struct{}{}, &resp)
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Ok)
	require.True(t, resp.Liked)
	require.Equal(t, int64(1),
		db.Where("user_id = ? AND post_id = ?", fan.Id, post.Id).Find(&[]model.LikedPost{}).RowsAffected)

	// Same endpoint toggles back off.
	code = postJSON(t, router, postPath(post.Id, "/like"), token, struct{}{}, &resp)
	require.Equal(t, http.StatusOK, code)
	require.False(t, resp.Liked)
	require.Equal(t, int64(0),
		db.Where("user_id = ? AND post_id = ?", fan.Id, post.Id).Find(&[]model.LikedPost{}).RowsAffected)
}

func TestToggleCollection(t *testing.T) {
	db, router, _ := newTestServer(t)
	author := createTestUser(t, db, "author")
	fan := createTestUser(t, db, "fan")
	post := createTestPost(t, db, author, model.TopicMemes, "collectable")
	token := sessionToken(t, fan)

	var resp struct {
		Collected bool `json:"collected"`
	}
	code := postJSON(t, router, postPath(post.Id, "/collect"), token, struct{}{}, &resp)
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Collected)

	// Liking and collecting are independent relations.
	require.Equal(t, int64(0),
		db.Where("user_id = ?", fan.Id).Find(&[]model.LikedPost{}).RowsAffected)

	code = postJSON(t, router, postPath(post.Id, "/collect"), token, struct{}{}, &resp)
	require.Equal(t, http.StatusOK, code)
	require.False(t, resp.Collected)
}

func TestToggleRequiresSessionAndPost(t *testing.T) {
	db, router, _ := newTestServer(t)
	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author, model.TopicMemes, "likeable")

	code := postJSON(t, router, postPath(post.Id, "/like"), "", struct{}{}, nil)
	require.Equal(t, http.StatusUnauthorized, code)

	code = postJSON(t, router, "/api/posts/99999/like", sessionToken(t, author), struct{}{}, nil)
	require.Equal(t, http.StatusNotFound, code)

	code = postJSON(t, router, "/api/posts/99999/collect", sessionToken(t, author), struct{}{}, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestFeedCountsReflectToggles(t *testing.T) {
	db, router, _ := newTestServer(t)
	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author, model.TopicMemes, "popular")

	for _, name := range []string{"fan1", "fan2"} {
		fan := createTestUser(t, db, name)
		code := postJSON(t, router, postPath(post.Id, "/like"), sessionToken(t, fan), struct{}{}, nil)
		require.Equal(t, http.StatusOK, code)
	}

	var page model.PostPage
	require.Equal(t, http.StatusOK, getJSON(t, router, "/api/posts", "", &page))
	require.Len(t, page.Posts, 1)
	require.Equal(t, int64(2), page.Posts[0].LikeCount)
	require.Equal(t, int64(0), page.Posts[0].CollectionCount)
}
