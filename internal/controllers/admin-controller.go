package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kwiens/seeds/internal/middleware"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"github.com/kwiens/seeds/internal/services"
)

// AdminController handles the admin review table, lifecycle actions and the
// admin roster. Every route sits behind RequireRole(admin); the services
// check the role again and fail hard if the gate was skipped.
type AdminController struct {
	queries   services.SeedQueryService
	lifecycle services.LifecycleService
	roster    services.AdminRosterService
}

// NewAdminController creates a new instance of AdminController
func NewAdminController(queries services.SeedQueryService, lifecycle services.LifecycleService, roster services.AdminRosterService) *AdminController {
	return &AdminController{queries: queries, lifecycle: lifecycle, roster: roster}
}

type addAdminEmailRequest struct {
	Email string `json:"email"`
}

// Register mounts the admin routes on rg
func (c *AdminController) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/seeds", c.ListSeeds)
		admin.POST("/seeds/:id/approve", c.Transition(services.TransitionApprove))
		admin.POST("/seeds/:id/unapprove", c.Transition(services.TransitionUnapprove))
		admin.POST("/seeds/:id/archive", c.Transition(services.TransitionArchive))
		admin.POST("/seeds/:id/unarchive", c.Transition(services.TransitionUnarchive))

		admin.GET("/emails", c.ListAdminEmails)
		admin.POST("/emails", c.AddAdminEmail)
		admin.DELETE("/emails/:id", c.RemoveAdminEmail)
	}
}

// ListSeeds godoc
// @Summary List every seed for review
// @Description All statuses, with creator and live support count
// @Tags admin
// @Produce json
// @Success 200 {array} services.AdminSeedRow
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/seeds [get]
func (c *AdminController) ListSeeds(ctx *gin.Context) {
	rows, err := c.queries.ListAllForAdmin(ctx.Request.Context(), middleware.CurrentActor(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rows)
}

// Transition godoc
// @Summary Change a seed's lifecycle status
// @Description approve, unapprove, archive or unarchive
// @Tags admin
// @Produce json
// @Param id path string true "Seed ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/seeds/{id}/approve [post]
// @Router /api/v1/admin/seeds/{id}/unapprove [post]
// @Router /api/v1/admin/seeds/{id}/archive [post]
// @Router /api/v1/admin/seeds/{id}/unarchive [post]
func (c *AdminController) Transition(transition services.Transition) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		err := c.lifecycle.Apply(ctx.Request.Context(), middleware.CurrentActor(ctx), ctx.Param("id"), transition)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ListAdminEmails godoc
// @Summary List the admin allow-list
// @Description Environment and database entries merged; only database-only entries are removable
// @Tags admin
// @Produce json
// @Success 200 {array} policy.AdminEntry
// @Security BearerAuth
// @Router /api/v1/admin/emails [get]
func (c *AdminController) ListAdminEmails(ctx *gin.Context) {
	entries, err := c.roster.ListAdminEmails(ctx.Request.Context(), middleware.CurrentActor(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	type entryView struct {
		policy.AdminEntry
		Removable bool `json:"removable"`
	}
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView{AdminEntry: e, Removable: e.Removable()})
	}
	ctx.JSON(http.StatusOK, views)
}

// AddAdminEmail godoc
// @Summary Add an email to the admin allow-list
// @Tags admin
// @Accept json
// @Produce json
// @Param body body addAdminEmailRequest true "Email"
// @Success 201 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/emails [post]
func (c *AdminController) AddAdminEmail(ctx *gin.Context) {
	var req addAdminEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid email address", Code: models.ErrCodeValidationFailed})
		return
	}

	if _, err := c.roster.AddAdminEmail(ctx.Request.Context(), middleware.CurrentActor(ctx), req.Email); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true})
}

// RemoveAdminEmail godoc
// @Summary Remove an email from the database allow-list
// @Description The user is demoted unless the environment list still names them
// @Tags admin
// @Produce json
// @Param id path string true "Admin email ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/emails/{id} [delete]
func (c *AdminController) RemoveAdminEmail(ctx *gin.Context) {
	if err := c.roster.RemoveAdminEmail(ctx.Request.Context(), middleware.CurrentActor(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
