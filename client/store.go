package client

import (
	"sync"

	"github.com/devlink/devlink/models"
)

// ActionType names one state transition.
type ActionType string

const (
	RegisterSuccess ActionType = "REGISTER_SUCCESS"
	RegisterFail    ActionType = "REGISTER_FAIL"
	LoginSuccess    ActionType = "LOGIN_SUCCESS"
	LoginFail       ActionType = "LOGIN_FAIL"
	UserLoaded      ActionType = "USER_LOADED"
	AuthError       ActionType = "AUTH_ERROR"
	Logout          ActionType = "LOGOUT"
	AccountDeleted  ActionType = "ACCOUNT_DELETED"

	GetPosts      ActionType = "GET_POSTS"
	GetPostAction ActionType = "GET_POST"
	AddPostAction ActionType = "ADD_POST"
	DeletePostAct ActionType = "DELETE_POST"
	UpdateLikes   ActionType = "UPDATE_LIKES"
	AddComment    ActionType = "ADD_COMMENT"
	RemoveComment ActionType = "REMOVE_COMMENT"
	PostError     ActionType = "POST_ERROR"

	GetProfile    ActionType = "GET_PROFILE"
	GetProfiles   ActionType = "GET_PROFILES"
	GetRepos      ActionType = "GET_REPOS"
	UpdateProfile ActionType = "UPDATE_PROFILE"
	ClearProfile  ActionType = "CLEAR_PROFILE"
	ProfileError  ActionType = "PROFILE_ERROR"

	SetAlertAction    ActionType = "SET_ALERT"
	RemoveAlertAction ActionType = "REMOVE_ALERT"
)

// Action is one dispatched message: a type plus its payload.
type Action struct {
	Type    ActionType
	Payload interface{}
}

// ErrorInfo is the payload of PostError, ProfileError and the auth failures.
type ErrorInfo struct {
	Message string
	Status  int
}

// LikesUpdate is the payload of UpdateLikes.
type LikesUpdate struct {
	PostID uint
	Likes  []models.Like
}

// CommentsUpdate is the payload of AddComment and RemoveComment.
type CommentsUpdate struct {
	PostID   uint
	Comments []models.Comment
}

// Alert is a transient user-facing notice.
type Alert struct {
	ID   string
	Msg  string
	Kind string
}

// AuthState tracks the session.
type AuthState struct {
	Token           string
	IsAuthenticated bool
	Loading         bool
	User            *models.User
}

// PostState tracks the feed and the currently viewed post.
type PostState struct {
	Posts   []models.Post
	Post    *models.Post
	Loading bool
	Error   *ErrorInfo
}

// ProfileState tracks the viewed profile, the directory and fetched repos.
type ProfileState struct {
	Profile  *models.Profile
	Profiles []models.Profile
	Repos    []Repo
	Loading  bool
	Error    *ErrorInfo
}

// State is the full client state tree.
type State struct {
	Auth    AuthState
	Posts   PostState
	Profile ProfileState
	Alerts  []Alert
}

func initialState() State {
	return State{
		Auth:    AuthState{Loading: true},
		Posts:   PostState{Loading: true},
		Profile: ProfileState{Loading: true},
	}
}

// Store holds the state tree and applies actions through pure reducers. All
// methods are safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners []func(State)
}

// NewStore creates a Store with the initial state tree.
func NewStore() *Store {
	return &Store{state: initialState()}
}

// State returns a snapshot of the current state tree.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers a listener invoked after every dispatch with the new
// state.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Dispatch runs the action through every reducer and notifies listeners.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state.Auth = reduceAuth(s.state.Auth, action)
	s.state.Posts = reducePosts(s.state.Posts, action)
	s.state.Profile = reduceProfile(s.state.Profile, action)
	s.state.Alerts = reduceAlerts(s.state.Alerts, action)
	snapshot := s.state
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func reduceAuth(state AuthState, action Action) AuthState {
	switch action.Type {
	case RegisterSuccess, LoginSuccess:
		token, _ := action.Payload.(string)
		state.Token = token
		state.IsAuthenticated = true
		state.Loading = false
	case UserLoaded:
		user, _ := action.Payload.(*models.User)
		state.User = user
		state.IsAuthenticated = true
		state.Loading = false
	case RegisterFail, LoginFail, AuthError, Logout, AccountDeleted:
		state = AuthState{Loading: false}
	}
	return state
}

func reducePosts(state PostState, action Action) PostState {
	switch action.Type {
	case GetPosts:
		posts, _ := action.Payload.([]models.Post)
		state.Posts = posts
		state.Loading = false
		state.Error = nil
	case GetPostAction:
		post, _ := action.Payload.(*models.Post)
		state.Post = post
		state.Loading = false
		state.Error = nil
	case AddPostAction:
		post, _ := action.Payload.(*models.Post)
		if post != nil {
			state.Posts = append([]models.Post{*post}, state.Posts...)
		}
		state.Loading = false
	case DeletePostAct:
		id, _ := action.Payload.(uint)
		kept := make([]models.Post, 0, len(state.Posts))
		for _, p := range state.Posts {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		state.Posts = kept
		state.Loading = false
	case UpdateLikes:
		update, ok := action.Payload.(LikesUpdate)
		if !ok {
			break
		}
		for i := range state.Posts {
			if state.Posts[i].ID == update.PostID {
				state.Posts[i].Likes = update.Likes
			}
		}
		if state.Post != nil && state.Post.ID == update.PostID {
			post := *state.Post
			post.Likes = update.Likes
			state.Post = &post
		}
		state.Loading = false
	case AddComment, RemoveComment:
		update, ok := action.Payload.(CommentsUpdate)
		if !ok {
			break
		}
		if state.Post != nil && state.Post.ID == update.PostID {
			post := *state.Post
			post.Comments = update.Comments
			state.Post = &post
		}
		state.Loading = false
	case PostError:
		info, _ := action.Payload.(*ErrorInfo)
		state.Error = info
		state.Loading = false
	case Logout, AccountDeleted:
		state = PostState{Loading: true}
	}
	return state
}

func reduceProfile(state ProfileState, action Action) ProfileState {
	switch action.Type {
	case GetProfile, UpdateProfile:
		profile, _ := action.Payload.(*models.Profile)
		state.Profile = profile
		state.Loading = false
		state.Error = nil
	case GetProfiles:
		profiles, _ := action.Payload.([]models.Profile)
		state.Profiles = profiles
		state.Loading = false
		state.Error = nil
	case GetRepos:
		repos, _ := action.Payload.([]Repo)
		state.Repos = repos
		state.Loading = false
	case ProfileError:
		info, _ := action.Payload.(*ErrorInfo)
		state.Error = info
		state.Profile = nil
		state.Loading = false
	case ClearProfile, Logout, AccountDeleted:
		state = ProfileState{Loading: true}
	}
	return state
}

func reduceAlerts(alerts []Alert, action Action) []Alert {
	switch action.Type {
	case SetAlertAction:
		alert, ok := action.Payload.(Alert)
		if !ok {
			return alerts
		}
		return append(append([]Alert(nil), alerts...), alert)
	case RemoveAlertAction:
		id, _ := action.Payload.(string)
		kept := make([]Alert, 0, len(alerts))
		for _, a := range alerts {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		return kept
	}
	return alerts
}
