package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwiens/seeds/internal/middleware"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"github.com/kwiens/seeds/internal/services"
	"github.com/kwiens/seeds/internal/validation"
	log "github.com/sirupsen/logrus"
)

const backgroundImageTimeout = 2 * time.Minute

// SeedController handles the public and owner-facing seed routes
type SeedController struct {
	seeds    services.SeedService
	queries  services.SeedQueryService
	supports services.SupportService
	images   services.ImageService
	// background runs fire-and-forget work; tests swap it for a synchronous runner
	background func(func())
}

// NewSeedController creates a new instance of SeedController
func NewSeedController(seeds services.SeedService, queries services.SeedQueryService, supports services.SupportService, images services.ImageService) *SeedController {
	return &SeedController{
		seeds:      seeds,
		queries:    queries,
		supports:   supports,
		images:     images,
		background: func(fn func()) { go fn() },
	}
}

// Register mounts the seed routes on rg
func (c *SeedController) Register(rg *gin.RouterGroup) {
	rg.GET("/categories", c.ListCategories)

	seeds := rg.Group("/seeds")
	{
		seeds.GET("", c.ListSeeds)
		seeds.GET("/map", c.ListMapPins)
		seeds.GET("/:id", c.GetSeed)
		seeds.POST("", c.CreateSeed)
		seeds.PUT("/:id", c.UpdateSeed)
		seeds.POST("/:id/support", c.ToggleSupport)
		seeds.POST("/:id/image", c.GenerateImage)
		seeds.POST("/:id/image/regenerate", c.RegenerateImage)
	}

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/seeds", c.ListMySeeds)
		dashboard.GET("/seeds/:id/supporters", c.ListSupporters)
	}
}

// ListCategories godoc
// @Summary List seed categories
// @Tags seeds
// @Produce json
// @Success 200 {array} models.CategoryInfo
// @Router /api/v1/categories [get]
func (c *SeedController) ListCategories(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.Categories)
}

// ListSeeds godoc
// @Summary List seeds
// @Description Approved seeds plus the caller's own non-archived seeds, paginated
// @Tags seeds
// @Produce json
// @Param category query string false "Category key"
// @Param page query int false "Page number (1-based)"
// @Param sort query string false "newest or mostSupported"
// @Success 200 {object} services.SeedPage
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/seeds [get]
func (c *SeedController) ListSeeds(ctx *gin.Context) {
	category, ok := categoryQuery(ctx)
	if !ok {
		return
	}
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid page", Code: models.ErrCodeValidationFailed})
		return
	}

	result, err := c.queries.ListApproved(ctx.Request.Context(), services.ListOptions{
		Category: category,
		Page:     page,
		SortBy:   services.ParseSortBy(ctx.Query("sort")),
		ViewerID: policy.ListingViewerID(middleware.CurrentActor(ctx)),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListMapPins godoc
// @Summary List map pins
// @Tags seeds
// @Produce json
// @Param category query string false "Category key"
// @Success 200 {array} services.MapPin
// @Router /api/v1/seeds/map [get]
func (c *SeedController) ListMapPins(ctx *gin.Context) {
	category, ok := categoryQuery(ctx)
	if !ok {
		return
	}
	pins, err := c.queries.ListForMap(ctx.Request.Context(), category, policy.ListingViewerID(middleware.CurrentActor(ctx)))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, pins)
}

// GetSeed godoc
// @Summary Get seed detail
// @Description Archived seeds are reported as not found unless the caller can edit them
// @Tags seeds
// @Produce json
// @Param id path string true "Seed ID"
// @Success 200 {object} services.SeedDetail
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/seeds/{id} [get]
func (c *SeedController) GetSeed(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	detail, err := c.queries.GetDetailView(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	if detail.CanEdit && detail.Seed.ImageURL == nil && c.images.Enabled() {
		c.triggerImage(actor, detail.Seed.ID)
	}
	ctx.JSON(http.StatusOK, detail)
}

// triggerImage starts image generation without holding up the page
func (c *SeedController) triggerImage(actor *policy.Actor, seedID string) {
	c.background(func() {
		bg, cancel := context.WithTimeout(context.Background(), backgroundImageTimeout)
		defer cancel()
		if _, err := c.images.GenerateSeedImage(bg, actor, seedID); err != nil {
			log.WithError(err).WithField("seed_id", seedID).Warn("Background image generation failed")
		}
	})
}

// CreateSeed godoc
// @Summary Plant a seed
// @Tags seeds
// @Accept json
// @Produce json
// @Param seed body validation.SeedInput true "Seed content"
// @Success 201 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/seeds [post]
func (c *SeedController) CreateSeed(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	if !actor.Authenticated() {
		respondError(ctx, models.SignInRequired("You must be signed in to plant a seed."))
		return
	}

	var input validation.SeedInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid form data.", Code: models.ErrCodeValidationFailed})
		return
	}

	seed, err := c.seeds.CreateSeed(ctx.Request.Context(), actor, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"id": seed.ID})
}

// UpdateSeed godoc
// @Summary Edit a seed
// @Description Owner or admin only. Status is never changed by edits.
// @Tags seeds
// @Accept json
// @Produce json
// @Param id path string true "Seed ID"
// @Param seed body validation.SeedInput true "Seed content"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/seeds/{id} [put]
func (c *SeedController) UpdateSeed(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	if !actor.Authenticated() {
		respondError(ctx, models.SignInRequired("You must be signed in."))
		return
	}

	var input validation.SeedInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid form data.", Code: models.ErrCodeValidationFailed})
		return
	}

	seed, err := c.seeds.UpdateSeed(ctx.Request.Context(), actor, ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"id": seed.ID})
}

// ToggleSupport godoc
// @Summary Toggle support for a seed
// @Tags support
// @Produce json
// @Param id path string true "Seed ID"
// @Success 200 {object} services.ToggleResult
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/seeds/{id}/support [post]
func (c *SeedController) ToggleSupport(ctx *gin.Context) {
	result, err := c.supports.ToggleSupport(ctx.Request.Context(), middleware.CurrentActor(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"supported": result.Supported,
		"new_count": result.NewCount,
	})
}

// GenerateImage godoc
// @Summary Generate a seed image if none exists
// @Tags images
// @Produce json
// @Param id path string true "Seed ID"
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/seeds/{id}/image [post]
func (c *SeedController) GenerateImage(ctx *gin.Context) {
	url, err := c.images.GenerateSeedImage(ctx.Request.Context(), middleware.CurrentActor(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"image_url": url})
}

// RegenerateImage godoc
// @Summary Replace a seed image
// @Tags images
// @Produce json
// @Param id path string true "Seed ID"
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/seeds/{id}/image/regenerate [post]
func (c *SeedController) RegenerateImage(ctx *gin.Context) {
	url, err := c.images.RegenerateSeedImage(ctx.Request.Context(), middleware.CurrentActor(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"image_url": url})
}

// ListMySeeds godoc
// @Summary List the caller's seeds
// @Description Archived seeds are omitted
// @Tags dashboard
// @Produce json
// @Success 200 {array} services.SeedSummary
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/dashboard/seeds [get]
func (c *SeedController) ListMySeeds(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	if !actor.Authenticated() {
		respondError(ctx, models.SignInRequired("You must be signed in."))
		return
	}
	seeds, err := c.queries.ListOwnedByUser(ctx.Request.Context(), actor.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, seeds)
}

// ListSupporters godoc
// @Summary List supporters with emails
// @Description Owner or admin only
// @Tags dashboard
// @Produce json
// @Param id path string true "Seed ID"
// @Success 200 {array} services.Supporter
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/dashboard/seeds/{id}/supporters [get]
func (c *SeedController) ListSupporters(ctx *gin.Context) {
	supporters, err := c.queries.GetSupportersForEditor(ctx.Request.Context(), middleware.CurrentActor(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, supporters)
}

// categoryQuery reads an optional category filter, rejecting unknown keys
func categoryQuery(ctx *gin.Context) (models.Category, bool) {
	category := models.Category(ctx.Query("category"))
	if category != "" && !category.Valid() {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please choose a valid category", Code: models.ErrCodeValidationFailed})
		return "", false
	}
	return category, true
}
