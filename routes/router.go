package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devlink/devlink/config"
	"github.com/devlink/devlink/controllers"
	"github.com/devlink/devlink/middleware"
	"github.com/devlink/devlink/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db)
	profileController := controllers.NewProfileController(db)
	githubController := controllers.NewGitHubController()

	api := r.Group("/api")

	// Registration and login take the brunt of abusive traffic.
	limited := api.Group("")
	limited.Use(middleware.RateLimitMiddleware())
	limited.POST("/users", userController.Register)
	limited.POST("/auth", userController.Login)

	api.GET("/auth", middleware.AuthRequired(), userController.Me)

	posts := api.Group("/posts")
	posts.Use(middleware.AuthRequired())
	posts.POST("", postController.CreatePost)
	posts.GET("", postController.ListPosts)
	posts.GET("/:id", postController.GetPost)
	posts.DELETE("/:id", postController.DeletePost)
	posts.PUT("/like/:id", postController.LikePost)
	posts.PUT("/unlike/:id", postController.UnlikePost)
	posts.POST("/:id/comment", postController.CreateComment)
	posts.DELETE("/:id/comment/:comment_id", postController.DeleteComment)

	profile := api.Group("/profile")
	profile.GET("", profileController.ListProfiles)
	profile.GET("/user/:user_id", profileController.GetProfileByUser)
	profile.GET("/github/:username", githubController.GetRepos)
	profile.GET("/me", middleware.AuthRequired(), profileController.GetMyProfile)
	profile.POST("", middleware.AuthRequired(), profileController.UpsertProfile)
	profile.DELETE("", middleware.AuthRequired(), profileController.DeleteAccount)
	profile.PUT("/experience", middleware.AuthRequired(), profileController.AddExperience)
	profile.DELETE("/experience/:id", middleware.AuthRequired(), profileController.DeleteExperience)
	profile.PUT("/education", middleware.AuthRequired(), profileController.AddEducation)
	profile.DELETE("/education/:id", middleware.AuthRequired(), profileController.DeleteEducation)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"msg": "route not found"})
	})

	return r
}
