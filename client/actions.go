package client

import (
	"time"

	"github.com/google/uuid"
)

// defaultAlertTimeout is how long an alert stays in the tree before it is
// removed again.
const defaultAlertTimeout = 5 * time.Second

// Actions binds a Client to a Store: each method performs the API call and
// dispatches the resulting state transitions.
type Actions struct {
	api   *Client
	store *Store

	// Confirm gates destructive operations. When set, DeleteAccount calls it
	// with a prompt and aborts unless it returns true.
	Confirm func(prompt string) bool

	// AlertTimeout overrides how long alerts live. Zero means the default.
	AlertTimeout time.Duration
}

// NewActions wires a Client and a Store together.
func NewActions(api *Client, store *Store) *Actions {
	return &Actions{api: api, store: store}
}

// SetAlert pushes a transient alert and schedules its removal.
func (a *Actions) SetAlert(msg, kind string) string {
	id := uuid.NewString()
	a.store.Dispatch(Action{Type: SetAlertAction, Payload: Alert{ID: id, Msg: msg, Kind: kind}})

	timeout := a.AlertTimeout
	if timeout == 0 {
		timeout = defaultAlertTimeout
	}
	time.AfterFunc(timeout, func() {
		a.store.Dispatch(Action{Type: RemoveAlertAction, Payload: id})
	})
	return id
}

// alertValidation surfaces every validation message from an API error as a
// danger alert.
func (a *Actions) alertValidation(err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		a.SetAlert(err.Error(), "danger")
		return
	}
	if len(apiErr.Errors) == 0 {
		a.SetAlert(apiErr.Message, "danger")
		return
	}
	for _, msg := range apiErr.Errors {
		a.SetAlert(msg, "danger")
	}
}

func errorInfo(err error) *ErrorInfo {
	if apiErr, ok := err.(*APIError); ok {
		return &ErrorInfo{Message: apiErr.Message, Status: apiErr.Status}
	}
	return &ErrorInfo{Message: err.Error()}
}

// Register creates an account, installs the token and loads the user.
func (a *Actions) Register(name, email, password string) error {
	token, err := a.api.Register(name, email, password)
	if err != nil {
		a.alertValidation(err)
		a.store.Dispatch(Action{Type: RegisterFail})
		return err
	}
	a.api.SetToken(token)
	a.store.Dispatch(Action{Type: RegisterSuccess, Payload: token})
	return a.LoadUser()
}

// Login exchanges credentials for a session and loads the user.
func (a *Actions) Login(email, password string) error {
	token, err := a.api.Login(email, password)
	if err != nil {
		a.alertValidation(err)
		a.store.Dispatch(Action{Type: LoginFail})
		return err
	}
	a.api.SetToken(token)
	a.store.Dispatch(Action{Type: LoginSuccess, Payload: token})
	return a.LoadUser()
}

// LoadUser fetches the authenticated user into the auth state.
func (a *Actions) LoadUser() error {
	user, err := a.api.LoadUser()
	if err != nil {
		a.store.Dispatch(Action{Type: AuthError})
		return err
	}
	a.store.Dispatch(Action{Type: UserLoaded, Payload: user})
	return nil
}

// Logout clears the session and every user-scoped slice of state.
func (a *Actions) Logout() {
	a.api.SetToken("")
	a.store.Dispatch(Action{Type: Logout})
}

// GetPosts loads the feed.
func (a *Actions) GetPosts() error {
	posts, err := a.api.GetPosts()
	if err != nil {
		a.store.Dispatch(Action{Type: PostError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: GetPosts, Payload: posts})
	return nil
}

// GetPost loads a single post for viewing.
func (a *Actions) GetPost(id uint) error {
	post, err := a.api.GetPost(id)
	if err != nil {
		a.store.Dispatch(Action{Type: PostError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: GetPostAction, Payload: post})
	return nil
}

// AddPost publishes a post and front-inserts it into the feed.
func (a *Actions) AddPost(text string) error {
	post, err := a.api.AddPost(text)
	if err != nil {
		a.alertValidation(err)
		a.store.Dispatch(Action{Type: PostError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: AddPostAction, Payload: post})
	a.SetAlert("Post Created", "success")
	return nil
}

// DeletePost removes a post from the server and the feed.
func (a *Actions) DeletePost(id uint) error {
	if err := a.api.DeletePost(id); err != nil {
		a.store.Dispatch(Action{Type: PostError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: DeletePostAct, Payload: id})
	a.SetAlert("Post Removed", "success")
	return nil
}

// AddLike likes a post and refreshes its likes in state.
func (a *Actions) AddLike(id uint) error {
	likes, err := a.api.AddLike(id)
	if err != nil {
		a.store.Dispatch(Action{Type: PostError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: UpdateLikes, Payload: LikesUpdate{PostID: id, Likes: likes}})
	return nil
}

// RemoveLike unlikes a post and refreshes its likes in state.
func (a *Actions) RemoveLike(id uint) error {
	likes, err := a.api.RemoveLike(id)
	if err != nil {
		a.store.Dispatch(Action{Type: PostError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: UpdateLikes, Payload: LikesUpdate{PostID: id, Likes: likes}})
	return nil
}

// AddComment comments on the currently viewed post.
func (a *Actions) AddComment(postID uint, text string) error {
	comments, err := a.api.AddComment(postID, text)
	if err != nil {
		a.alertValidation(err)
		a.store.Dispatch(Action{Type: PostError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: AddComment, Payload: CommentsUpdate{PostID: postID, Comments: comments}})
	a.SetAlert("Comment Added", "success")
	return nil
}

// DeleteComment removes a comment from the currently viewed post.
func (a *Actions) DeleteComment(postID, commentID uint) error {
	comments, err := a.api.DeleteComment(postID, commentID)
	if err != nil {
		a.store.Dispatch(Action{Type: PostError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: RemoveComment, Payload: CommentsUpdate{PostID: postID, Comments: comments}})
	a.SetAlert("Comment Removed", "success")
	return nil
}

// GetCurrentProfile loads the caller's profile.
func (a *Actions) GetCurrentProfile() error {
	profile, err := a.api.GetCurrentProfile()
	if err != nil {
		a.store.Dispatch(Action{Type: ProfileError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: GetProfile, Payload: profile})
	return nil
}

// GetProfiles loads the developer directory.
func (a *Actions) GetProfiles() error {
	a.store.Dispatch(Action{Type: ClearProfile})
	profiles, err := a.api.GetProfiles()
	if err != nil {
		a.store.Dispatch(Action{Type: ProfileError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: GetProfiles, Payload: profiles})
	return nil
}

// GetProfileByUser loads another developer's profile.
func (a *Actions) GetProfileByUser(userID uint) error {
	profile, err := a.api.GetProfileByUser(userID)
	if err != nil {
		a.store.Dispatch(Action{Type: ProfileError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: GetProfile, Payload: profile})
	return nil
}

// GetGithubRepos loads a profile's GitHub repos.
func (a *Actions) GetGithubRepos(username string) error {
	repos, err := a.api.GetGithubRepos(username)
	if err != nil {
		a.store.Dispatch(Action{Type: ProfileError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: GetRepos, Payload: repos})
	return nil
}

// CreateProfile creates or updates the caller's profile. The edit flag only
// changes which alert is raised.
func (a *Actions) CreateProfile(input ProfileInput, edit bool) error {
	profile, err := a.api.CreateProfile(input)
	if err != nil {
		a.alertValidation(err)
		a.store.Dispatch(Action{Type: ProfileError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: GetProfile, Payload: profile})
	if edit {
		a.SetAlert("Profile Updated", "success")
	} else {
		a.SetAlert("Profile Created", "success")
	}
	return nil
}

// AddExperience front-inserts a work history entry.
func (a *Actions) AddExperience(input ExperienceInput) error {
	profile, err := a.api.AddExperience(input)
	if err != nil {
		a.alertValidation(err)
		a.store.Dispatch(Action{Type: ProfileError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: UpdateProfile, Payload: profile})
	a.SetAlert("Experience Added", "success")
	return nil
}

// DeleteExperience removes a work history entry.
func (a *Actions) DeleteExperience(id uint) error {
	profile, err := a.api.DeleteExperience(id)
	if err != nil {
		a.store.Dispatch(Action{Type: ProfileError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: UpdateProfile, Payload: profile})
	a.SetAlert("Experience Removed", "success")
	return nil
}

// AddEducation front-inserts a schooling entry.
func (a *Actions) AddEducation(input EducationInput) error {
	profile, err := a.api.AddEducation(input)
	if err != nil {
		a.alertValidation(err)
		a.store.Dispatch(Action{Type: ProfileError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: UpdateProfile, Payload: profile})
	a.SetAlert("Education Added", "success")
	return nil
}

// DeleteEducation removes a schooling entry.
func (a *Actions) DeleteEducation(id uint) error {
	profile, err := a.api.DeleteEducation(id)
	if err != nil {
		a.store.Dispatch(Action{Type: ProfileError, Payload: errorInfo(err)})
		return err
	}
	a.store.Dispatch(Action{Type: UpdateProfile, Payload: profile})
	a.SetAlert("Education Removed", "success")
	return nil
}

// DeleteAccount permanently removes the account after the Confirm hook, when
// set, approves it.
func (a *Actions) DeleteAccount() error {
	if a.Confirm != nil && !a.Confirm("Are you sure? This can NOT be undone!") {
		return nil
	}
	if err := a.api.DeleteAccount(); err != nil {
		a.store.Dispatch(Action{Type: ProfileError, Payload: errorInfo(err)})
		return err
	}
	a.api.SetToken("")
	a.store.Dispatch(Action{Type: AccountDeleted})
	a.SetAlert("Your account has been permanently deleted", "success")
	return nil
}
