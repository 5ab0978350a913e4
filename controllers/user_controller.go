package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devlink/devlink/middleware"
	"github.com/devlink/devlink/models"
	"github.com/devlink/devlink/utils"
)

const tokenLifetime = 24 * time.Hour

// UserController handles registration, login and the current-user lookup.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// Register creates an account with a bcrypt-hashed credential and a
// gravatar-derived avatar, returning a signed token.
func (u *UserController) Register(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(ctx, "Name is required", "Please include a valid email", "Please enter a password with 6 or more characters")
		return
	}

	var msgs []string
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		msgs = append(msgs, "Name is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		msgs = append(msgs, "Please include a valid email")
	}
	if len(req.Password) < 6 {
		msgs = append(msgs, "Please enter a password with 6 or more characters")
	}
	if len(msgs) > 0 {
		utils.ValidationFailed(ctx, msgs...)
		return
	}

	var existing models.User
	err := u.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		utils.ValidationFailed(ctx, "User already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Internal(ctx, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Internal(ctx, err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		AvatarURL:    utils.GravatarURL(req.Email),
	}
	if err := u.db.Create(&user).Error; err != nil {
		// A registration racing past the existence check lands on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.ValidationFailed(ctx, "User already exists")
			return
		}
		utils.Internal(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, tokenLifetime)
	if err != nil {
		utils.Internal(ctx, err)
		return
	}
	utils.JSON(ctx, gin.H{"token": token})
}

// Login verifies credentials and returns a signed token.
func (u *UserController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(ctx, "Please include a valid email", "Password is required")
		return
	}

	var msgs []string
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		msgs = append(msgs, "Please include a valid email")
	}
	if req.Password == "" {
		msgs = append(msgs, "Password is required")
	}
	if len(msgs) > 0 {
		utils.ValidationFailed(ctx, msgs...)
		return
	}

	var user models.User
	err := u.db.Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ValidationFailed(ctx, "Invalid credentials")
			return
		}
		utils.Internal(ctx, err)
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.ValidationFailed(ctx, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, tokenLifetime)
	if err != nil {
		utils.Internal(ctx, err)
		return
	}
	utils.JSON(ctx, gin.H{"token": token})
}

// Me returns the authenticated user without the credential hash.
func (u *UserController) Me(ctx *gin.Context) {
	userID, _ := middleware.UserID(ctx)

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Empty(ctx, http.StatusNotFound)
			return
		}
		utils.Internal(ctx, err)
		return
	}
	utils.JSON(ctx, user)
}
