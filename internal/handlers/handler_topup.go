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

// topupHandler handles HTTP requests related to coin top-up requests.
type topupHandler struct {
	topupService portssvc.TopupSvcFacade
}

func newTopupHandler(ts portssvc.TopupSvcFacade) *topupHandler {
	return &topupHandler{topupService: ts}
}

// registerTopupRoutes registers routes related to top-up requests.
func registerTopupRoutes(rg *gin.RouterGroup, topupService portssvc.TopupSvcFacade) {
	h := newTopupHandler(topupService)

	topups := rg.Group("/topups")
	{
		topups.POST("", h.requestTopup)
		topups.GET("", h.listMyTopups)
	}
}

// requestTopup godoc
// @Summary Request a coin top-up
// @Description Records a claimed bank transfer; coins are credited only when an admin approves
// @Tags topups
// @Accept  json
// @Produce  json
// @Param   topup body dto.CreateTopupRequest true "Top-up details"
// @Success 201 {object} dto.TopupResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "No profile submitted yet"
// @Failure 500 {object} map[string]string "Failed to create top-up request"
// @Security BearerAuth
// @Router /topups [post]
func (h *topupHandler) requestTopup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestTopup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	topup, err := h.topupService.RequestTopup(c.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotEligible) {
			logger.Warn("Top-up blocked: no profile submitted")
			c.JSON(http.StatusForbidden, gin.H{"error": "Submit a profile before requesting a top-up"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating top-up request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create top-up request in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create top-up request"})
		}
		return
	}

	logger.Info("Top-up request created successfully", slog.String("topup_id", topup.TopupID))
	c.JSON(http.StatusCreated, dto.ToTopupResponse(*topup))
}

// listMyTopups godoc
// @Summary List the caller's top-up requests
// @Description Retrieves the caller's top-up requests in every status, newest first
// @Tags topups
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListTopupsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list top-up requests"
// @Security BearerAuth
// @Router /topups [get]
func (h *topupHandler) listMyTopups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListMyTopups", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	topups, nextToken, err := h.topupService.ListMyTopups(c.Request.Context(), ownerID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list top-up requests from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list top-up requests"})
		return
	}

	c.JSON(http.StatusOK, dto.ListTopupsResponse{Topups: dto.ToTopupResponseSlice(topups), NextToken: nextToken})
}
