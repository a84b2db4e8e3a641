package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kwiens/seeds/internal/auth"
	"github.com/kwiens/seeds/internal/middleware"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/services"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthController bridges the external identity provider: it provisions users
// on sign-in and hands out session tokens.
type AuthController struct {
	userService services.UserService
	issuer      *auth.SessionIssuer
}

func NewAuthController(userService services.UserService, issuer *auth.SessionIssuer) *AuthController {
	return &AuthController{
		userService: userService,
		issuer:      issuer,
	}
}

// TestToken godoc
// @Summary Issue a development session token
// @Description Provisions the user as a real sign-in would and returns a bearer token. Development only.
// @Tags auth
// @Produce json
// @Param email query string true "Email"
// @Param name query string false "Display name"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /test-token [get]
func (ac *AuthController) TestToken(c *gin.Context) {
	user, err := ac.userService.ProvisionOnSignIn(c.Request.Context(), c.Query("email"), c.Query("name"), nil)
	if err != nil {
		if errors.Is(err, services.ErrEmailRequired) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email is required", Code: models.ErrCodeValidationFailed})
			return
		}
		respondError(c, err)
		return
	}

	token, err := ac.issuer.Issue(user)
	if err != nil {
		log.WithError(err).Error("Could not generate token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"type":       "Bearer",
		"expires_in": int(ac.issuer.TTL.Seconds()),
		"user":       user,
	})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !actor.Authenticated() {
		respondError(c, models.SignInRequired("You must be signed in."))
		return
	}
	user, err := ac.userService.GetUserByID(c.Request.Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, models.SignInRequired("You must be signed in."))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
