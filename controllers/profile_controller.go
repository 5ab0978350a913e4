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

const noProfileMsg = "There is no profile for this user"

// ProfileController manages profiles, their list entries and account removal.
type ProfileController struct {
	db *gorm.DB
}

// NewProfileController creates a new ProfileController instance.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

// upsertRequest uses pointers so an absent field can be told apart from an
// empty one: absent fields are left untouched on update.
type upsertRequest struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	Status         *string `json:"status"`
	GitHubUsername *string `json:"githubusername"`
	Skills         *string `json:"skills"`
	YouTube        *string `json:"youtube"`
	Facebook       *string `json:"facebook"`
	Twitter        *string `json:"twitter"`
	Instagram      *string `json:"instagram"`
	LinkedIn       *string `json:"linkedin"`
}

// ParseSkills splits a comma separated skills string into a trimmed ordered list.
func ParseSkills(raw string) models.StringList {
	parts := strings.Split(raw, ",")
	skills := make(models.StringList, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// GetMyProfile returns the caller's profile, 400 when none exists yet.
func (pc *ProfileController) GetMyProfile(ctx *gin.Context) {
	userID, _ := middleware.UserID(ctx)
	profile, ok := pc.loadProfile(ctx, userID, http.StatusBadRequest)
	if !ok {
		return
	}
	utils.JSON(ctx, profile)
}

// UpsertProfile creates the caller's profile or updates it in place. Only the
// fields present in the request are touched.
func (pc *ProfileController) UpsertProfile(ctx *gin.Context) {
	var req upsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(ctx, "Status is required", "Skills is required")
		return
	}

	var msgs []string
	if req.Status == nil || strings.TrimSpace(*req.Status) == "" {
		msgs = append(msgs, "Status is required")
	}
	if req.Skills == nil || strings.TrimSpace(*req.Skills) == "" {
		msgs = append(msgs, "Skills is required")
	}
	if len(msgs) > 0 {
		utils.ValidationFailed(ctx, msgs...)
		return
	}

	userID, _ := middleware.UserID(ctx)

	var profile models.Profile
	err := pc.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Internal(ctx, err)
		return
	}
	profile.UserID = userID

	profile.Status = strings.TrimSpace(*req.Status)
	profile.Skills = ParseSkills(*req.Skills)
	if req.Company != nil {
		profile.Company = *req.Company
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.Bio != nil {
		profile.Bio = utils.Sanitize(*req.Bio)
	}
	if req.GitHubUsername != nil {
		profile.GitHubUsername = *req.GitHubUsername
	}
	if req.YouTube != nil {
		profile.Social.YouTube = *req.YouTube
	}
	if req.Facebook != nil {
		profile.Social.Facebook = *req.Facebook
	}
	if req.Twitter != nil {
		profile.Social.Twitter = *req.Twitter
	}
	if req.Instagram != nil {
		profile.Social.Instagram = *req.Instagram
	}
	if req.LinkedIn != nil {
		profile.Social.LinkedIn = *req.LinkedIn
	}

	if err := pc.db.Save(&profile).Error; err != nil {
		utils.Internal(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:profiles:")

	reloaded, ok := pc.loadProfile(ctx, userID, http.StatusBadRequest)
	if !ok {
		return
	}
	utils.JSON(ctx, reloaded)
}

// ListProfiles returns every profile with its user's name and avatar joined in.
func (pc *ProfileController) ListProfiles(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:profiles:list"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	profiles := []models.Profile{}
	err := pc.db.Preload("User").
		Preload("Experience", newestFirst).Preload("Education", newestFirst).
		Find(&profiles).Error
	if err != nil {
		utils.Internal(ctx, err)
		return
	}
	for i := range profiles {
		normalizeProfile(&profiles[i])
	}

	utils.CacheSetJSON("cache:profiles:list", profiles, time.Hour)
	utils.JSON(ctx, profiles)
}

// GetProfileByUser returns the profile for a given user id, 400 when absent.
func (pc *ProfileController) GetProfileByUser(ctx *gin.Context) {
	var profile models.Profile
	err := pc.db.Preload("User").
		Preload("Experience", newestFirst).Preload("Education", newestFirst).
		Where("user_id = ?", ctx.Param("user_id")).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Empty(ctx, http.StatusBadRequest)
			return
		}
		utils.Internal(ctx, err)
		return
	}
	normalizeProfile(&profile)
	utils.JSON(ctx, profile)
}

// DeleteAccount removes the caller's posts, profile and user record. The
// cascade runs in one transaction so a failure cannot leave orphans behind.
func (pc *ProfileController) DeleteAccount(ctx *gin.Context) {
	userID, _ := middleware.UserID(ctx)

	err := pc.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Post{}, postIDs).Error; err != nil {
				return err
			}
		}

		var profile models.Profile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		if err == nil {
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Experience{}).Error; err != nil {
				return err
			}
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Education{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Hard delete so the email leaves the unique index and can register again.
		return tx.Unscoped().Delete(&models.User{}, userID).Error
	})
	if err != nil {
		utils.Internal(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.InvalidateByPrefix("cache:profiles:")

	utils.JSON(ctx, gin.H{"msg": "User deleted"})
}

// AddExperience front-inserts a work history entry into the caller's profile.
func (pc *ProfileController) AddExperience(ctx *gin.Context) {
	var req struct {
		Title       string     `json:"title"`
		Company     string     `json:"company"`
		Location    string     `json:"location"`
		From        *time.Time `json:"from"`
		To          *time.Time `json:"to"`
		Current     bool       `json:"current"`
		Description string     `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(ctx, "title is required", "company is required", "from date is required")
		return
	}

	var msgs []string
	if strings.TrimSpace(req.Title) == "" {
		msgs = append(msgs, "title is required")
	}
	if strings.TrimSpace(req.Company) == "" {
		msgs = append(msgs, "company is required")
	}
	if req.From == nil {
		msgs = append(msgs, "from date is required")
	}
	if len(msgs) > 0 {
		utils.ValidationFailed(ctx, msgs...)
		return
	}

	userID, _ := middleware.UserID(ctx)
	profile, ok := pc.loadProfile(ctx, userID, http.StatusNotFound)
	if !ok {
		return
	}

	exp := models.Experience{
		ProfileID:   profile.ID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        *req.From,
		To:          req.To,
		Current:     req.Current,
		Description: utils.Sanitize(req.Description),
	}
	if err := pc.db.Create(&exp).Error; err != nil {
		utils.Internal(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:profiles:")

	reloaded, ok := pc.loadProfile(ctx, userID, http.StatusNotFound)
	if !ok {
		return
	}
	utils.JSON(ctx, reloaded)
}

// DeleteExperience removes an entry from the caller's profile by id.
func (pc *ProfileController) DeleteExperience(ctx *gin.Context) {
	userID, _ := middleware.UserID(ctx)
	profile, ok := pc.loadProfile(ctx, userID, http.StatusNotFound)
	if !ok {
		return
	}

	res := pc.db.Where("profile_id = ? AND id = ?", profile.ID, ctx.Param("id")).Delete(&models.Experience{})
	if res.Error != nil {
		utils.Internal(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Empty(ctx, http.StatusNotFound)
		return
	}

	utils.InvalidateByPrefix("cache:profiles:")

	reloaded, ok := pc.loadProfile(ctx, userID, http.StatusNotFound)
	if !ok {
		return
	}
	utils.JSON(ctx, reloaded)
}

// AddEducation front-inserts a schooling entry into the caller's profile.
func (pc *ProfileController) AddEducation(ctx *gin.Context) {
	var req struct {
		School       string     `json:"school"`
		Degree       string     `json:"degree"`
		FieldOfStudy string     `json:"fieldofstudy"`
		From         *time.Time `json:"from"`
		To           *time.Time `json:"to"`
		Current      bool       `json:"current"`
		Description  string     `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(ctx, "school is required", "degree is required", "fieldofstudy is required", "from date is required")
		return
	}

	var msgs []string
	if strings.TrimSpace(req.School) == "" {
		msgs = append(msgs, "school is required")
	}
	if strings.TrimSpace(req.Degree) == "" {
		msgs = append(msgs, "degree is required")
	}
	if strings.TrimSpace(req.FieldOfStudy) == "" {
		msgs = append(msgs, "fieldofstudy is required")
	}
	if req.From == nil {
		msgs = append(msgs, "from date is required")
	}
	if len(msgs) > 0 {
		utils.ValidationFailed(ctx, msgs...)
		return
	}

	userID, _ := middleware.UserID(ctx)
	profile, ok := pc.loadProfile(ctx, userID, http.StatusNotFound)
	if !ok {
		return
	}

	edu := models.Education{
		ProfileID:    profile.ID,
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         *req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  utils.Sanitize(req.Description),
	}
	if err := pc.db.Create(&edu).Error; err != nil {
		utils.Internal(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:profiles:")

	reloaded, ok := pc.loadProfile(ctx, userID, http.StatusNotFound)
	if !ok {
		return
	}
	utils.JSON(ctx, reloaded)
}

// DeleteEducation removes an entry from the caller's profile by id.
func (pc *ProfileController) DeleteEducation(ctx *gin.Context) {
	userID, _ := middleware.UserID(ctx)
	profile, ok := pc.loadProfile(ctx, userID, http.StatusNotFound)
	if !ok {
		return
	}

	res := pc.db.Where("profile_id = ? AND id = ?", profile.ID, ctx.Param("id")).Delete(&models.Education{})
	if res.Error != nil {
		utils.Internal(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Empty(ctx, http.StatusNotFound)
		return
	}

	utils.InvalidateByPrefix("cache:profiles:")

	reloaded, ok := pc.loadProfile(ctx, userID, http.StatusNotFound)
	if !ok {
		return
	}
	utils.JSON(ctx, reloaded)
}

// loadProfile fetches a user's profile with associations. When none exists it
// writes missingStatus with the standard message and reports false.
func (pc *ProfileController) loadProfile(ctx *gin.Context, userID uint, missingStatus int) (*models.Profile, bool) {
	var profile models.Profile
	err := pc.db.Preload("User").
		Preload("Experience", newestFirst).Preload("Education", newestFirst).
		Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Msg(ctx, missingStatus, noProfileMsg)
			return nil, false
		}
		utils.Internal(ctx, err)
		return nil, false
	}
	normalizeProfile(&profile)
	return &profile, true
}

// normalizeProfile replaces nil collections so they serialize as [] instead of null.
func normalizeProfile(p *models.Profile) {
	if p.Skills == nil {
		p.Skills = models.StringList{}
	}
	if p.Experience == nil {
		p.Experience = []models.Experience{}
	}
	if p.Education == nil {
		p.Education = []models.Education{}
	}
}
