package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devlink/devlink/models"
)

func TestCreatePostRequiresText(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerUser(t, r, "Ada", "ada@example.com")

	for _, body := range []map[string]string{{}, {"text": "   "}} {
		w := doRequest(t, r, http.MethodPost, "/api/posts", token, body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"text is required"}, validationMsgs(t, w))
	}
}

func TestCreatePostSnapshotsAuthor(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerUser(t, r, "Ada", "ada@example.com")

	w := doRequest(t, r, http.MethodPost, "/api/posts", token, map[string]string{"text": "hello world"})
	require.Equal(t, http.StatusOK, w.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, "hello world", post.Text)
	assert.Equal(t, "Ada", post.Name)
	assert.Contains(t, post.Avatar, "gravatar.com/avatar/")
}

func TestCreatePostStripsMarkup(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerUser(t, r, "Ada", "ada@example.com")

	w := doRequest(t, r, http.MethodPost, "/api/posts", token,
		map[string]string{"text": `hi<script>alert("x")</script>`})
	require.Equal(t, http.StatusOK, w.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, "hi", post.Text)
}

func TestListPostsNewestFirst(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerUser(t, r, "Ada", "ada@example.com")

	createPost(t, r, token, "first")
	createPost(t, r, token, "second")
	createPost(t, r, token, "third")

	w := doRequest(t, r, http.MethodGet, "/api/posts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0].Text)
	assert.Equal(t, "second", posts[1].Text)
	assert.Equal(t, "first", posts[2].Text)
}

func TestGetPostNotFound(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerUser(t, r, "Ada", "ada@example.com")

	w := doRequest(t, r, http.MethodGet, "/api/posts/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestGetPostReturnsEmptySlices(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerUser(t, r, "Ada", "ada@example.com")
	id := createPost(t, r, token, "lonely post")

	w := doRequest(t, r, http.MethodGet, postPath(id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.JSONEq(t, "[]", string(raw["likes"]))
	assert.JSONEq(t, "[]", string(raw["comments"]))
}

func TestDeletePostOwnerOnly(t *testing.T) {
	r, _ := newTestServer(t)
	owner := registerUser(t, r, "Owner", "owner@example.com")
	other := registerUser(t, r, "Other", "other@example.com")
	id := createPost(t, r, owner, "mine")

	w := doRequest(t, r, http.MethodDelete, postPath(id), other, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Body.String())

	w = doRequest(t, r, http.MethodDelete, postPath(id), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg":"Post removed"}`, w.Body.String())

	w = doRequest(t, r, http.MethodGet, postPath(id), owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeUnlikeFlow(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerUser(t, r, "Ada", "ada@example.com")
	id := createPost(t, r, token, "likeable")

	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/posts/like/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var likes []models.Like
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &likes))
	require.Len(t, likes, 1)

	// a second like on the same post is a conflict
	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/posts/like/%d", id), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Body.String())

	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/posts/unlike/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &likes))
	assert.Empty(t, likes)

	// unliking a post that is not liked is also a conflict
	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/posts/unlike/%d", id), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestConcurrentDuplicateLikeIsConflict(t *testing.T) {
	r, db := newTestServer(t)
	token := registerUser(t, r, "Ada", "ada@example.com")
	id := createPost(t, r, token, "raced")

	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/posts/like/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// a like that slipped past the existence check fails on the unique index
	// and must surface as the translated duplicate-key error, which the
	// handler maps to the same conflict as the checked path
	var existing models.Like
	require.NoError(t, db.Where("post_id = ?", id).First(&existing).Error)
	err := db.Create(&models.Like{PostID: existing.PostID, UserID: existing.UserID}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestLikesFromSeveralUsers(t *testing.T) {
	r, _ := newTestServer(t)
	ada := registerUser(t, r, "Ada", "ada@example.com")
	bob := registerUser(t, r, "Bob", "bob@example.com")
	id := createPost(t, r, ada, "popular")

	doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/posts/like/%d", id), ada, nil)
	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/posts/like/%d", id), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var likes []models.Like
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &likes))
	require.Len(t, likes, 2)
	// most recent like first
	assert.True(t, likes[0].ID > likes[1].ID)
}

func TestCommentsFrontInserted(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerUser(t, r, "Ada", "ada@example.com")
	id := createPost(t, r, token, "discuss")

	for _, text := range []string{"one", "two", "three"} {
		w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/posts/%d/comment", id), token,
			map[string]string{"text": text})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := doRequest(t, r, http.MethodGet, postPath(id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	require.Len(t, post.Comments, 3)
	assert.Equal(t, "three", post.Comments[0].Text)
	assert.Equal(t, "one", post.Comments[2].Text)
	assert.Equal(t, "Ada", post.Comments[0].Name)
}

func TestDeleteCommentOwnerOnly(t *testing.T) {
	r, _ := newTestServer(t)
	ada := registerUser(t, r, "Ada", "ada@example.com")
	bob := registerUser(t, r, "Bob", "bob@example.com")
	id := createPost(t, r, ada, "discuss")

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/posts/%d/comment", id), bob,
		map[string]string{"text": "bob's take"})
	require.Equal(t, http.StatusOK, w.Code)

	var comments []models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	require.Len(t, comments, 1)
	commentID := comments[0].ID

	// the post owner cannot remove someone else's comment
	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/posts/%d/comment/%d", id, commentID), ada, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/posts/%d/comment/%d", id, commentID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	assert.Empty(t, comments)
}

func TestDeleteMissingComment(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerUser(t, r, "Ada", "ada@example.com")
	id := createPost(t, r, token, "discuss")

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/posts/%d/comment/4242", id), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
