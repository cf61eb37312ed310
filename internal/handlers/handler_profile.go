package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/dto"
	"github.com/mvtechguy/islandvault/internal/middleware"
)

// profileHandler handles HTTP requests related to member profiles.
type profileHandler struct {
	userService portssvc.UserSvcFacade
}

func newProfileHandler(us portssvc.UserSvcFacade) *profileHandler {
	return &profileHandler{userService: us}
}

// registerProfileRoutes registers routes related to the caller's profile.
func registerProfileRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newProfileHandler(userService)

	profile := rg.Group("/profile")
	{
		profile.PUT("", h.submitProfile)
		profile.GET("", h.getProfile)
	}
}

// submitProfile godoc
// @Summary Submit or resubmit the caller's profile
// @Description Creates the member profile in PENDING, or resubmits a rejected one back into PENDING
// @Tags profile
// @Accept  json
// @Produce  json
// @Param   profile body dto.SubmitProfileRequest true "Profile details"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to submit profile"
// @Security BearerAuth
// @Router /profile [put]
func (h *profileHandler) submitProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitProfile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.SubmitProfile(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error submitting profile", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to submit profile in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit profile"})
		}
		return
	}

	logger.Info("Profile submitted successfully", slog.String("user_id", user.UserID))

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		// The write committed; fall back to the submitted view with no balance.
		c.JSON(http.StatusOK, dto.ToProfileResponse(*user, 0))
		return
	}
	c.JSON(http.StatusOK, profile)
}

// getProfile godoc
// @Summary Get the caller's profile
// @Description Retrieves the caller's profile together with the coin balance
// @Tags profile
// @Produce  json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Profile not found"
// @Failure 500 {object} map[string]string "Failed to retrieve profile"
// @Security BearerAuth
// @Router /profile [get]
func (h *profileHandler) getProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Profile not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			logger.Error("Failed to get profile from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}
