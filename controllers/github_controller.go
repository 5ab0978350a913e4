package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/devlink/devlink/config"
	"github.com/devlink/devlink/utils"
)

// GitHubController proxies the public repos listing for a GitHub username,
// capped at the five most recently created repositories.
type GitHubController struct {
	baseURL string
	client  *http.Client
}

// NewGitHubController builds the proxy against the public GitHub API. When a
// token is configured the upstream calls are authenticated, which raises the
// unauthenticated rate limit considerably.
func NewGitHubController() *GitHubController {
	cfg := config.Get()
	client := &http.Client{Timeout: 5 * time.Second}
	if cfg.GitHubToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHubToken})
		client = oauth2.NewClient(context.Background(), src)
		client.Timeout = 5 * time.Second
	}
	return &GitHubController{
		baseURL: "https://api.github.com",
		client:  client,
	}
}

// NewGitHubControllerWithBase is used by tests to point the proxy at a stub server.
func NewGitHubControllerWithBase(baseURL string) *GitHubController {
	return &GitHubController{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// GetRepos relays the upstream repos listing. Upstream failures of any kind,
// transport errors included, surface as 400.
func (g *GitHubController) GetRepos(ctx *gin.Context) {
	username := ctx.Param("username")
	cacheKey := "cache:github:repos:" + username
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	cfg := config.Get()
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if cfg.GitHubClientID != "" {
		q.Set("client_id", cfg.GitHubClientID)
		q.Set("client_secret", cfg.GitHubClientSecret)
	}
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", g.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx.Request.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		utils.Internal(ctx, err)
		return
	}
	req.Header.Set("User-Agent", "devlink")

	resp, err := g.client.Do(req)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("github repos fetch for %s failed: %v", username, err)
		}
		utils.Empty(ctx, http.StatusBadRequest)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.Empty(ctx, http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.Empty(ctx, http.StatusBadRequest)
		return
	}

	utils.CacheSetBytes(cacheKey, body, 10*time.Minute)
	ctx.Data(http.StatusOK, "application/json", body)
}
