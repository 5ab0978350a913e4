package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink/devlink/config"
)

func githubTestRouter(upstreamURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gh := NewGitHubControllerWithBase(upstreamURL)
	r := gin.New()
	r.GET("/api/profile/github/:username", gh.GetRepos)
	return r
}

func TestGetReposRelaysUpstream(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		JWTSecret: "test-secret",
		RedisHost: "127.0.0.1",
		RedisPort: 1,
	})

	const payload = `[{"id":1,"name":"dotfiles","stargazers_count":7}]`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/users/octocat/repos", req.URL.Path)
		assert.Equal(t, "5", req.URL.Query().Get("per_page"))
		assert.Equal(t, "created:asc", req.URL.Query().Get("sort"))
		assert.Equal(t, "devlink", req.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer upstream.Close()

	r := githubTestRouter(upstream.URL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profile/github/octocat", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, payload, w.Body.String())
}

func TestGetReposSendsConfiguredCredentials(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		JWTSecret:          "test-secret",
		RedisHost:          "127.0.0.1",
		RedisPort:          1,
		GitHubClientID:     "client-id",
		GitHubClientSecret: "client-secret",
	})

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "client-id", req.URL.Query().Get("client_id"))
		assert.Equal(t, "client-secret", req.URL.Query().Get("client_secret"))
		w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	r := githubTestRouter(upstream.URL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profile/github/octocat", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetReposUpstreamErrorIsBadRequest(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		JWTSecret: "test-secret",
		RedisHost: "127.0.0.1",
		RedisPort: 1,
	})

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer upstream.Close()

	r := githubTestRouter(upstream.URL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profile/github/no-such-user", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestGetReposTransportErrorIsBadRequest(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		JWTSecret: "test-secret",
		RedisHost: "127.0.0.1",
		RedisPort: 1,
	})

	// point at a closed server so the dial fails
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	upstream.Close()

	r := githubTestRouter(upstream.URL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profile/github/octocat", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Body.String())
}
