// Package client is a Go client for the devlink REST API. It mirrors the
// server's endpoints as typed calls and layers an explicit Store with pure
// reducers on top, so embedders get the same action/dispatch flow a frontend
// would implement.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/devlink/devlink/models"
)

// APIError carries the failure surface of one API call: the HTTP status and
// the message (plus the structured validation errors, when present).
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client issues HTTP calls against a devlink server. The zero value is not
// usable; construct with New.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken installs the bearer token used for private endpoints.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the currently installed bearer token, empty when logged out.
func (c *Client) Token() string {
	return c.token
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return parseAPIError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return err
		}
	}
	return nil
}

// parseAPIError decodes the error body shapes the server produces: a
// validation errors array, a single msg object, or nothing at all.
func parseAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}

	var validation struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(data, &validation); err == nil && len(validation.Errors) > 0 {
		for _, e := range validation.Errors {
			apiErr.Errors = append(apiErr.Errors, e.Msg)
		}
		apiErr.Message = validation.Errors[0].Msg
		return apiErr
	}

	var single struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(data, &single); err == nil && single.Msg != "" {
		apiErr.Message = single.Msg
	}
	return apiErr
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and returns the issued token.
func (c *Client) Register(name, email, password string) (string, error) {
	var res tokenResponse
	err := c.do(http.MethodPost, "/api/users", map[string]string{
		"name": name, "email": email, "password": password,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.Token, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(email, password string) (string, error) {
	var res tokenResponse
	err := c.do(http.MethodPost, "/api/auth", map[string]string{
		"email": email, "password": password,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.Token, nil
}

// LoadUser fetches the authenticated user.
func (c *Client) LoadUser() (*models.User, error) {
	var user models.User
	if err := c.do(http.MethodGet, "/api/auth", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPosts lists all posts, newest first.
func (c *Client) GetPosts() ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// AddPost publishes a post.
func (c *Client) AddPost(text string) (*models.Post, error) {
	var post models.Post
	if err := c.do(http.MethodPost, "/api/posts", map[string]string{"text": text}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes one of the caller's posts.
func (c *Client) DeletePost(id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, nil)
}

// AddLike likes a post and returns the updated likes list.
func (c *Client) AddLike(id uint) ([]models.Like, error) {
	var likes []models.Like
	if err := c.do(http.MethodPut, fmt.Sprintf("/api/posts/like/%d", id), nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// RemoveLike unlikes a post and returns the updated likes list.
func (c *Client) RemoveLike(id uint) ([]models.Like, error) {
	var likes []models.Like
	if err := c.do(http.MethodPut, fmt.Sprintf("/api/posts/unlike/%d", id), nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// AddComment comments on a post and returns the updated comment list.
func (c *Client) AddComment(postID uint, text string) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(http.MethodPost, fmt.Sprintf("/api/posts/%d/comment", postID), map[string]string{"text": text}, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes one of the caller's comments from a post.
func (c *Client) DeleteComment(postID, commentID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(http.MethodDelete, fmt.Sprintf("/api/posts/%d/comment/%d", postID, commentID), nil, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// GetCurrentProfile fetches the caller's profile.
func (c *Client) GetCurrentProfile() (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(http.MethodGet, "/api/profile/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfiles lists every profile.
func (c *Client) GetProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := c.do(http.MethodGet, "/api/profile", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetProfileByUser fetches a profile by the owning user's id.
func (c *Client) GetProfileByUser(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/profile/user/%d", userID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Repo is the subset of a GitHub repository the UI renders.
type Repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stargazers  int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
}

// GetGithubRepos fetches the five most recently created repos for a username.
func (c *Client) GetGithubRepos(username string) ([]Repo, error) {
	var repos []Repo
	if err := c.do(http.MethodGet, "/api/profile/github/"+username, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// ProfileInput is the payload for CreateProfile. Nil fields are omitted so the
// server leaves them untouched on update.
type ProfileInput struct {
	Company        *string `json:"company,omitempty"`
	Website        *string `json:"website,omitempty"`
	Location       *string `json:"location,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Status         *string `json:"status,omitempty"`
	GitHubUsername *string `json:"githubusername,omitempty"`
	Skills         *string `json:"skills,omitempty"`
	YouTube        *string `json:"youtube,omitempty"`
	Facebook       *string `json:"facebook,omitempty"`
	Twitter        *string `json:"twitter,omitempty"`
	Instagram      *string `json:"instagram,omitempty"`
	LinkedIn       *string `json:"linkedin,omitempty"`
}

// CreateProfile creates or updates the caller's profile.
func (c *Client) CreateProfile(input ProfileInput) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(http.MethodPost, "/api/profile", input, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ExperienceInput is the payload for AddExperience.
type ExperienceInput struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// AddExperience front-inserts a work history entry, returning the updated profile.
func (c *Client) AddExperience(input ExperienceInput) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(http.MethodPut, "/api/profile/experience", input, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteExperience removes an experience entry, returning the updated profile.
func (c *Client) DeleteExperience(id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(http.MethodDelete, fmt.Sprintf("/api/profile/experience/%d", id), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// EducationInput is the payload for AddEducation.
type EducationInput struct {
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         *time.Time `json:"from,omitempty"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// AddEducation front-inserts a schooling entry, returning the updated profile.
func (c *Client) AddEducation(input EducationInput) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(http.MethodPut, "/api/profile/education", input, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteEducation removes an education entry, returning the updated profile.
func (c *Client) DeleteEducation(id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(http.MethodDelete, fmt.Sprintf("/api/profile/education/%d", id), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteAccount removes the caller's account, profile and posts.
func (c *Client) DeleteAccount() error {
	return c.do(http.MethodDelete, "/api/profile", nil, nil)
}
