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

// PostController manages posts, likes and comments.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// newestFirst orders association reads so the latest insert is index 0,
// matching the front-insert contract for likes, comments and posts.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("id DESC")
}

// CreatePost persists a new post owned by the caller, with the caller's
// current name and avatar denormalized onto it.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(ctx, "text is required")
		return
	}

	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		utils.ValidationFailed(ctx, "text is required")
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Empty(ctx, http.StatusUnauthorized)
		return
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		utils.Internal(ctx, err)
		return
	}

	post := models.Post{
		UserID:   userID,
		Name:     user.Name,
		Avatar:   user.AvatarURL,
		Text:     text,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
	}
	if err := p.db.Create(&post).Error; err != nil {
		utils.Internal(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")

	utils.JSON(ctx, post)
}

// ListPosts returns every post, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:posts:list"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var posts []models.Post
	if err := p.db.Preload("Likes", newestFirst).Preload("Comments", newestFirst).
		Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		utils.Internal(ctx, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	utils.CacheSetJSON("cache:posts:list", posts, time.Hour)
	utils.JSON(ctx, posts)
}

// GetPost returns a single post with its likes and comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	utils.JSON(ctx, post)
}

// DeletePost removes a post. Only the author may delete it.
func (p *PostController) DeletePost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx, ctx.Param("id"))
	if !ok {
		return
	}

	userID, _ := middleware.UserID(ctx)
	if post.UserID != userID {
		utils.Empty(ctx, http.StatusUnauthorized)
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
	if err != nil {
		utils.Internal(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")

	utils.JSON(ctx, gin.H{"msg": "Post removed"})
}

// LikePost records a like for the caller. A user may like a post at most once.
func (p *PostController) LikePost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	userID, _ := middleware.UserID(ctx)

	var existing models.Like
	err := p.db.Where("post_id = ? AND user_id = ?", post.ID, userID).First(&existing).Error
	if err == nil {
		utils.Empty(ctx, http.StatusBadRequest)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Internal(ctx, err)
		return
	}

	if err := p.db.Create(&models.Like{PostID: post.ID, UserID: userID}).Error; err != nil {
		// A like racing past the existence check lands on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Empty(ctx, http.StatusBadRequest)
			return
		}
		utils.Internal(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")

	likes, err := p.postLikes(post.ID)
	if err != nil {
		utils.Internal(ctx, err)
		return
	}
	utils.JSON(ctx, likes)
}

// UnlikePost removes the caller's like. Unliking a never-liked post is a conflict.
func (p *PostController) UnlikePost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	userID, _ := middleware.UserID(ctx)

	res := p.db.Where("post_id = ? AND user_id = ?", post.ID, userID).Delete(&models.Like{})
	if res.Error != nil {
		utils.Internal(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Empty(ctx, http.StatusBadRequest)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")

	likes, err := p.postLikes(post.ID)
	if err != nil {
		utils.Internal(ctx, err)
		return
	}
	utils.JSON(ctx, likes)
}

// CreateComment adds a comment with the caller's denormalized name and avatar,
// returning the post's updated comment list.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(ctx, "text is required")
		return
	}

	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		utils.ValidationFailed(ctx, "text is required")
		return
	}

	post, ok := p.loadPost(ctx, ctx.Param("id"))
	if !ok {
		return
	}

	userID, _ := middleware.UserID(ctx)
	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		utils.Internal(ctx, err)
		return
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: userID,
		Name:   user.Name,
		Avatar: user.AvatarURL,
		Text:   text,
	}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Internal(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")

	comments, err := p.postComments(post.ID)
	if err != nil {
		utils.Internal(ctx, err)
		return
	}
	utils.JSON(ctx, comments)
}

// DeleteComment removes a comment. Only the comment's author may delete it.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	post, ok := p.loadPost(ctx, ctx.Param("id"))
	if !ok {
		return
	}

	var comment models.Comment
	err := p.db.Where("post_id = ?", post.ID).First(&comment, "id = ?", ctx.Param("comment_id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Empty(ctx, http.StatusNotFound)
			return
		}
		utils.Internal(ctx, err)
		return
	}

	userID, _ := middleware.UserID(ctx)
	if comment.UserID != userID {
		utils.Empty(ctx, http.StatusUnauthorized)
		return
	}

	if err := p.db.Delete(&comment).Error; err != nil {
		utils.Internal(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")

	comments, err := p.postComments(post.ID)
	if err != nil {
		utils.Internal(ctx, err)
		return
	}
	utils.JSON(ctx, comments)
}

// loadPost fetches a post with its associations, writing 404/500 itself when
// the lookup fails.
func (p *PostController) loadPost(ctx *gin.Context, id string) (*models.Post, bool) {
	var post models.Post
	err := p.db.Preload("Likes", newestFirst).Preload("Comments", newestFirst).First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Empty(ctx, http.StatusNotFound)
			return nil, false
		}
		utils.Internal(ctx, err)
		return nil, false
	}
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return &post, true
}

func (p *PostController) postLikes(postID uint) ([]models.Like, error) {
	likes := []models.Like{}
	err := p.db.Where("post_id = ?", postID).Order("id DESC").Find(&likes).Error
	return likes, err
}

func (p *PostController) postComments(postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := p.db.Where("post_id = ?", postID).Order("id DESC").Find(&comments).Error
	return comments, err
}
