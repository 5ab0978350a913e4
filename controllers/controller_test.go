package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devlink/devlink/config"
	"github.com/devlink/devlink/middleware"
	"github.com/devlink/devlink/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Profile{}, &models.Experience{}, &models.Education{},
		&models.Post{}, &models.Like{}, &models.Comment{},
	))
	return db
}

// newTestServer builds a router with the API routes and an isolated database.
// The rate limiter and request logging stay out so tests exercise handlers
// directly.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.SetForTesting(config.AppConfig{
		JWTSecret: "test-secret",
		RedisHost: "127.0.0.1",
		RedisPort: 1, // nothing listens here, cache paths fall through to the DB
	})

	db := newTestDB(t)

	users := NewUserController(db)
	posts := NewPostController(db)
	profiles := NewProfileController(db)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/users", users.Register)
	api.POST("/auth", users.Login)
	api.GET("/auth", middleware.AuthRequired(), users.Me)

	pg := api.Group("/posts", middleware.AuthRequired())
	pg.POST("", posts.CreatePost)
	pg.GET("", posts.ListPosts)
	pg.GET("/:id", posts.GetPost)
	pg.DELETE("/:id", posts.DeletePost)
	pg.PUT("/like/:id", posts.LikePost)
	pg.PUT("/unlike/:id", posts.UnlikePost)
	pg.POST("/:id/comment", posts.CreateComment)
	pg.DELETE("/:id/comment/:comment_id", posts.DeleteComment)

	prof := api.Group("/profile")
	prof.GET("", profiles.ListProfiles)
	prof.GET("/user/:user_id", profiles.GetProfileByUser)
	prof.GET("/me", middleware.AuthRequired(), profiles.GetMyProfile)
	prof.POST("", middleware.AuthRequired(), profiles.UpsertProfile)
	prof.DELETE("", middleware.AuthRequired(), profiles.DeleteAccount)
	prof.PUT("/experience", middleware.AuthRequired(), profiles.AddExperience)
	prof.DELETE("/experience/:id", middleware.AuthRequired(), profiles.DeleteExperience)
	prof.PUT("/education", middleware.AuthRequired(), profiles.AddEducation)
	prof.DELETE("/education/:id", middleware.AuthRequired(), profiles.DeleteEducation)

	return r, db
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/users", "", map[string]string{
		"name": name, "email": email, "password": "sup3rsecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

// createProfile provisions a minimal profile for the token's user.
func createProfile(t *testing.T, r *gin.Engine, token, status, skills string) {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/profile", token, map[string]string{
		"status": status, "skills": skills,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

// createPost publishes a post for the token's user and returns its id.
func createPost(t *testing.T, r *gin.Engine, token, text string) uint {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/posts", token, map[string]string{"text": text})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	require.NotZero(t, post.ID)
	return post.ID
}

func validationMsgs(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var res struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	msgs := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		msgs = append(msgs, e.Msg)
	}
	return msgs
}

func postPath(id uint) string {
	return fmt.Sprintf("/api/posts/%d", id)
}
