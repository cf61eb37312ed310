package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/dto"
	"github.com/mvtechguy/islandvault/internal/middleware"
)

// adminHandler handles the moderation and back-office surface.
type adminHandler struct {
	workflowService  portssvc.WorkflowSvcFacade
	coinService      portssvc.CoinSvcFacade
	auditService     portssvc.AuditSvcFacade
	reconcileService portssvc.ReconcileSvcFacade
}

func newAdminHandler(ws portssvc.WorkflowSvcFacade, cs portssvc.CoinSvcFacade, as portssvc.AuditSvcFacade, rs portssvc.ReconcileSvcFacade) *adminHandler {
	return &adminHandler{
		workflowService:  ws,
		coinService:      cs,
		auditService:     as,
		reconcileService: rs,
	}
}

// registerAdminRoutes registers the admin-only moderation routes.
func registerAdminRoutes(rg *gin.RouterGroup, workflowService portssvc.WorkflowSvcFacade, coinService portssvc.CoinSvcFacade, auditService portssvc.AuditSvcFacade, reconcileService portssvc.ReconcileSvcFacade) {
	h := newAdminHandler(workflowService, coinService, auditService, reconcileService)

	admin := rg.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/pending/:kind", h.listPending)
		admin.POST("/subjects/:kind/:id/decide", h.decideSubject)
		admin.POST("/accounts/:id/adjust", h.adjustAccount)
		admin.GET("/audit", h.listAudit)
		admin.POST("/reconcile", h.runReconcile)
	}
}

// parseSubjectKind maps the URL segment to a subject kind.
func parseSubjectKind(param string) (domain.SubjectKind, bool) {
	switch strings.ToUpper(param) {
	case "USER_PROFILE", "PROFILES":
		return domain.KindUserProfile, true
	case "POST", "POSTS":
		return domain.KindPost, true
	case "CONNECTION", "CONNECTIONS":
		return domain.KindConnection, true
	case "TOPUP", "TOPUPS":
		return domain.KindTopup, true
	default:
		return "", false
	}
}

// listPending godoc
// @Summary List the moderation queue for one subject kind
// @Description Retrieves PENDING subjects, oldest first
// @Tags admin
// @Produce  json
// @Param   kind path string true "Subject kind" Enums(profiles, posts, connections, topups)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListPendingResponse
// @Failure 400 {object} map[string]string "Unknown subject kind"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to list pending subjects"
// @Security BearerAuth
// @Router /admin/pending/{kind} [get]
func (h *adminHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind, ok := parseSubjectKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown subject kind: " + c.Param("kind")})
		return
	}

	var params dto.ListQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListPending", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	subjects, nextToken, err := h.workflowService.ListPending(c.Request.Context(), kind, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list pending subjects from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending subjects"})
		return
	}

	out := make([]dto.PendingSubjectResponse, len(subjects))
	for i, s := range subjects {
		out[i] = dto.ToPendingSubjectResponse(s)
	}
	c.JSON(http.StatusOK, dto.ListPendingResponse{Subjects: out, NextToken: nextToken})
}

// decideSubject godoc
// @Summary Decide a pending subject
// @Description Applies APPROVED or REJECTED; rejection refunds and top-up approval credits, atomically
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   kind path string true "Subject kind" Enums(profiles, posts, connections, topups)
// @Param   id path string true "Subject ID"
// @Param   decision body dto.DecideRequest true "Decision"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input or unknown subject kind"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Subject not found"
// @Failure 409 {object} map[string]string "Subject already decided"
// @Failure 500 {object} map[string]string "Failed to decide subject"
// @Security BearerAuth
// @Router /admin/subjects/{kind}/{id}/decide [post]
func (h *adminHandler) decideSubject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind, ok := parseSubjectKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown subject kind: " + c.Param("kind")})
		return
	}
	subjectID := c.Param("id")

	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DecideSubject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Admin user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.workflowService.Decide(c.Request.Context(), kind, subjectID, domain.SubjectStatus(req.Outcome), adminID, req.Note)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Subject not found for decision", slog.String("subject_id", subjectID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
		} else if errors.Is(err, apperrors.ErrAlreadyDecided) {
			logger.Warn("Subject already decided", slog.String("subject_id", subjectID))
			c.JSON(http.StatusConflict, gin.H{"error": "Subject has already been decided"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error deciding subject", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to decide subject in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decide subject"})
		}
		return
	}

	logger.Info("Subject decided successfully",
		slog.String("subject_kind", string(kind)),
		slog.String("subject_id", subjectID),
		slog.String("outcome", req.Outcome))
	c.Status(http.StatusNoContent)
}

// adjustAccount godoc
// @Summary Manually adjust a coin account
// @Description Appends a signed ADJUST ledger entry; the balance floor still applies
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   adjustment body dto.AdjustRequest true "Adjustment details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid input or zero delta"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 402 {object} map[string]string "Adjustment would make the balance negative"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to adjust account"
// @Security BearerAuth
// @Router /admin/accounts/{id}/adjust [post]
func (h *adminHandler) adjustAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Admin user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.coinService.Adjust(c.Request.Context(), adminID, accountID, req.Delta, req.Description)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDelta) {
			logger.Warn("Adjustment rejected: zero delta")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Adjustment delta must not be zero"})
		} else if errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Warn("Adjustment rejected: balance would go negative", slog.String("account_id", accountID))
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Adjustment would make the balance negative"})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for adjustment", slog.String("account_id", accountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to adjust account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust account"})
		}
		return
	}

	logger.Info("Account adjusted successfully",
		slog.String("account_id", accountID),
		slog.Int64("delta", req.Delta))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(*entry))
}

// listAudit godoc
// @Summary List the administrative audit trail
// @Description Retrieves audit records, newest first
// @Tags admin
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListAuditResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to list audit records"
// @Security BearerAuth
// @Router /admin/audit [get]
func (h *adminHandler) listAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAudit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	records, nextToken, err := h.auditService.List(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list audit records from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit records"})
		return
	}

	out := make([]dto.AuditRecordResponse, len(records))
	for i, r := range records {
		out[i] = dto.ToAuditRecordResponse(r)
	}
	c.JSON(http.StatusOK, dto.ListAuditResponse{Records: out, NextToken: nextToken})
}

// runReconcile godoc
// @Summary Run a ledger reconciliation sweep
// @Description Checks cached balances against the entry log and reports integrity faults
// @Tags admin
// @Produce  json
// @Success 200 {object} services.ReconcileReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to run reconciliation"
// @Security BearerAuth
// @Router /admin/reconcile [post]
func (h *adminHandler) runReconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reconcileService.Run(c.Request.Context())
	if err != nil {
		logger.Error("Failed to run reconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run reconciliation"})
		return
	}

	c.JSON(http.StatusOK, report)
}
