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

// connectionHandler handles HTTP requests related to connection requests.
type connectionHandler struct {
	connectionService portssvc.ConnectionSvcFacade
}

func newConnectionHandler(cs portssvc.ConnectionSvcFacade) *connectionHandler {
	return &connectionHandler{connectionService: cs}
}

// registerConnectionRoutes registers routes related to connection requests.
func registerConnectionRoutes(rg *gin.RouterGroup, connectionService portssvc.ConnectionSvcFacade) {
	h := newConnectionHandler(connectionService)

	connections := rg.Group("/connections")
	{
		connections.POST("", h.createConnection)
		connections.POST("/:id/cancel", h.cancelConnection)
		connections.GET("/sent", h.listSent)
		connections.GET("/incoming", h.listIncoming)
	}
}

// createConnection godoc
// @Summary Request a connection to another member
// @Description Charges the connection cost and stores the PENDING request, atomically
// @Tags connections
// @Accept  json
// @Produce  json
// @Param   connection body dto.CreateConnectionRequest true "Connection request details"
// @Success 201 {object} dto.ConnectionResponse
// @Failure 400 {object} map[string]string "Invalid input or invalid target"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 402 {object} map[string]string "Insufficient coin balance"
// @Failure 403 {object} map[string]string "Profile not approved"
// @Failure 500 {object} map[string]string "Failed to create connection request"
// @Security BearerAuth
// @Router /connections [post]
func (h *connectionHandler) createConnection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateConnection", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := h.connectionService.CreateConnection(c.Request.Context(), requesterID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTarget) {
			logger.Warn("Connection request blocked: invalid target", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotEligible) {
			logger.Warn("Connection request blocked: profile not approved")
			c.JSON(http.StatusForbidden, gin.H{"error": "Profile must be approved before requesting connections"})
		} else if errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Warn("Connection request blocked: insufficient balance")
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient coin balance"})
		} else if errors.Is(err, apperrors.ErrDomainEffect) {
			logger.Warn("Connection request blocked: duplicate pending request")
			c.JSON(http.StatusConflict, gin.H{"error": "A pending request to this member already exists"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating connection request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create connection request in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create connection request"})
		}
		return
	}

	logger.Info("Connection request created successfully", slog.String("request_id", conn.RequestID))
	c.JSON(http.StatusCreated, dto.ToConnectionResponse(*conn))
}

// cancelConnection godoc
// @Summary Cancel a pending connection request
// @Description Withdraws the caller's own PENDING request, refunding under the refund policy
// @Tags connections
// @Produce  json
// @Param   id path string true "Connection request ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the requester"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request already decided"
// @Failure 500 {object} map[string]string "Failed to cancel connection request"
// @Security BearerAuth
// @Router /connections/{id}/cancel [post]
func (h *connectionHandler) cancelConnection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.connectionService.CancelConnection(c.Request.Context(), requestID, requesterID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Connection request not found for cancel")
			c.JSON(http.StatusNotFound, gin.H{"error": "Connection request not found"})
		} else if errors.Is(err, apperrors.ErrNotOwner) {
			logger.Warn("Cancel blocked: caller is not the requester", slog.String("request_id", requestID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the requester may cancel"})
		} else if errors.Is(err, apperrors.ErrAlreadyDecided) {
			logger.Warn("Cancel blocked: request already decided", slog.String("request_id", requestID))
			c.JSON(http.StatusConflict, gin.H{"error": "Request has already been decided"})
		} else {
			logger.Error("Failed to cancel connection request in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel connection request"})
		}
		return
	}

	logger.Info("Connection request cancelled successfully", slog.String("request_id", requestID))
	c.Status(http.StatusNoContent)
}

// listSent godoc
// @Summary List the caller's sent connection requests
// @Description Retrieves the caller's own requests in every status, newest first
// @Tags connections
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListConnectionsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list connection requests"
// @Security BearerAuth
// @Router /connections/sent [get]
func (h *connectionHandler) listSent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListSent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	conns, nextToken, err := h.connectionService.ListSent(c.Request.Context(), requesterID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list sent connection requests from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list connection requests"})
		return
	}

	c.JSON(http.StatusOK, dto.ListConnectionsResponse{Connections: dto.ToConnectionResponseSlice(conns), NextToken: nextToken})
}

// listIncoming godoc
// @Summary List approved incoming connection requests
// @Description Retrieves approved requests targeting the caller, newest first
// @Tags connections
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListConnectionsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list connection requests"
// @Security BearerAuth
// @Router /connections/incoming [get]
func (h *connectionHandler) listIncoming(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	targetID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListIncoming", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	conns, nextToken, err := h.connectionService.ListIncoming(c.Request.Context(), targetID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list incoming connection requests from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list connection requests"})
		return
	}

	c.JSON(http.StatusOK, dto.ListConnectionsResponse{Connections: dto.ToConnectionResponseSlice(conns), NextToken: nextToken})
}
