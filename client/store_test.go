package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink/devlink/models"
)

func TestInitialState(t *testing.T) {
	s := NewStore().State()
	assert.True(t, s.Auth.Loading)
	assert.False(t, s.Auth.IsAuthenticated)
	assert.True(t, s.Posts.Loading)
	assert.True(t, s.Profile.Loading)
	assert.Empty(t, s.Alerts)
}

func TestLoginSuccessThenAuthError(t *testing.T) {
	store := NewStore()

	store.Dispatch(Action{Type: LoginSuccess, Payload: "tok123"})
	s := store.State()
	assert.Equal(t, "tok123", s.Auth.Token)
	assert.True(t, s.Auth.IsAuthenticated)
	assert.False(t, s.Auth.Loading)

	store.Dispatch(Action{Type: UserLoaded, Payload: &models.User{ID: 1, Name: "Ada"}})
	assert.Equal(t, "Ada", store.State().Auth.User.Name)

	store.Dispatch(Action{Type: AuthError})
	s = store.State()
	assert.Empty(t, s.Auth.Token)
	assert.False(t, s.Auth.IsAuthenticated)
	assert.Nil(t, s.Auth.User)
}

func TestAddPostFrontInserts(t *testing.T) {
	store := NewStore()
	store.Dispatch(Action{Type: GetPosts, Payload: []models.Post{{ID: 1, Text: "old"}}})
	store.Dispatch(Action{Type: AddPostAction, Payload: &models.Post{ID: 2, Text: "new"}})

	posts := store.State().Posts.Posts
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].Text)
	assert.Equal(t, "old", posts[1].Text)
}

func TestDeletePostRemovesFromFeed(t *testing.T) {
	store := NewStore()
	store.Dispatch(Action{Type: GetPosts, Payload: []models.Post{{ID: 1}, {ID: 2}}})
	store.Dispatch(Action{Type: DeletePostAct, Payload: uint(1)})

	posts := store.State().Posts.Posts
	require.Len(t, posts, 1)
	assert.Equal(t, uint(2), posts[0].ID)
}

func TestUpdateLikesTouchesFeedAndCurrentPost(t *testing.T) {
	store := NewStore()
	store.Dispatch(Action{Type: GetPosts, Payload: []models.Post{{ID: 1}, {ID: 2}}})
	store.Dispatch(Action{Type: GetPostAction, Payload: &models.Post{ID: 1}})

	likes := []models.Like{{ID: 10, UserID: 7}}
	store.Dispatch(Action{Type: UpdateLikes, Payload: LikesUpdate{PostID: 1, Likes: likes}})

	s := store.State()
	assert.Equal(t, likes, s.Posts.Posts[0].Likes)
	assert.Empty(t, s.Posts.Posts[1].Likes)
	assert.Equal(t, likes, s.Posts.Post.Likes)
}

func TestCommentsUpdateCurrentPost(t *testing.T) {
	store := NewStore()
	store.Dispatch(Action{Type: GetPostAction, Payload: &models.Post{ID: 3}})

	comments := []models.Comment{{ID: 1, Text: "hi"}}
	store.Dispatch(Action{Type: AddComment, Payload: CommentsUpdate{PostID: 3, Comments: comments}})
	assert.Equal(t, comments, store.State().Posts.Post.Comments)

	store.Dispatch(Action{Type: RemoveComment, Payload: CommentsUpdate{PostID: 3, Comments: []models.Comment{}}})
	assert.Empty(t, store.State().Posts.Post.Comments)
}

func TestProfileErrorClearsProfile(t *testing.T) {
	store := NewStore()
	store.Dispatch(Action{Type: GetProfile, Payload: &models.Profile{ID: 1}})
	require.NotNil(t, store.State().Profile.Profile)

	store.Dispatch(Action{Type: ProfileError, Payload: &ErrorInfo{Message: "boom", Status: 500}})
	s := store.State()
	assert.Nil(t, s.Profile.Profile)
	assert.Equal(t, "boom", s.Profile.Error.Message)
}

func TestAccountDeletedResetsEverything(t *testing.T) {
	store := NewStore()
	store.Dispatch(Action{Type: LoginSuccess, Payload: "tok"})
	store.Dispatch(Action{Type: GetPosts, Payload: []models.Post{{ID: 1}}})
	store.Dispatch(Action{Type: GetProfile, Payload: &models.Profile{ID: 1}})

	store.Dispatch(Action{Type: AccountDeleted})
	s := store.State()
	assert.False(t, s.Auth.IsAuthenticated)
	assert.Empty(t, s.Posts.Posts)
	assert.Nil(t, s.Profile.Profile)
}

func TestAlertsSetAndRemove(t *testing.T) {
	store := NewStore()
	store.Dispatch(Action{Type: SetAlertAction, Payload: Alert{ID: "a1", Msg: "hello", Kind: "success"}})
	store.Dispatch(Action{Type: SetAlertAction, Payload: Alert{ID: "a2", Msg: "world", Kind: "danger"}})
	require.Len(t, store.State().Alerts, 2)

	store.Dispatch(Action{Type: RemoveAlertAction, Payload: "a1"})
	alerts := store.State().Alerts
	require.Len(t, alerts, 1)
	assert.Equal(t, "a2", alerts[0].ID)
}

func TestSubscribeSeesEveryDispatch(t *testing.T) {
	store := NewStore()
	var seen []State
	store.Subscribe(func(s State) { seen = append(seen, s) })

	store.Dispatch(Action{Type: LoginSuccess, Payload: "tok"})
	store.Dispatch(Action{Type: Logout})

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Auth.IsAuthenticated)
	assert.False(t, seen[1].Auth.IsAuthenticated)
}
