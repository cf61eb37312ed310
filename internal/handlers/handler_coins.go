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

// coinHandler handles HTTP requests related to the caller's coin account.
type coinHandler struct {
	coinService portssvc.CoinSvcFacade
}

func newCoinHandler(cs portssvc.CoinSvcFacade) *coinHandler {
	return &coinHandler{coinService: cs}
}

// registerCoinRoutes registers routes related to coin balances and history.
func registerCoinRoutes(rg *gin.RouterGroup, coinService portssvc.CoinSvcFacade) {
	h := newCoinHandler(coinService)

	coins := rg.Group("/coins")
	{
		coins.GET("/balance", h.getBalance)
		coins.GET("/history", h.getHistory)
	}
}

// getBalance godoc
// @Summary Get the caller's coin balance
// @Description Retrieves the current cached balance for the caller's coin account
// @Tags coins
// @Produce  json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Coin account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Security BearerAuth
// @Router /coins/balance [get]
func (h *coinHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.coinService.BalanceOf(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Coin account not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Coin account not found"})
		} else {
			logger.Error("Failed to get balance from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: balance})
}

// getHistory godoc
// @Summary Get the caller's ledger history
// @Description Retrieves the caller's ledger entries, newest first
// @Tags coins
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.LedgerHistoryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve history"
// @Security BearerAuth
// @Router /coins/history [get]
func (h *coinHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetHistory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, nextToken, err := h.coinService.History(c.Request.Context(), accountID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to get ledger history from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, dto.LedgerHistoryResponse{
		AccountID: accountID,
		Entries:   dto.ToLedgerEntryResponseSlice(entries),
		NextToken: nextToken,
	})
}
