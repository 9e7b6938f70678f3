package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/middleware"
)

// balanceHandler handles HTTP requests for account balances.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func newBalanceHandler(balanceService portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{
		balanceService: balanceService,
	}
}

// getBalance computes one account's balance, optionally as of a point in time
// given by the asOf query parameter (RFC 3339).
func (h *balanceHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var asOf *time.Time
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			logger.Warn("Invalid asOf parameter", slog.String("asOf", raw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be an RFC 3339 timestamp"})
			return
		}
		asOf = &parsed
	}

	balance, err := h.balanceService.GetAccountBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, balance)
}

type bulkBalanceRequest struct {
	AccountIDs []string `json:"accountIDs" binding:"required,min=1"`
}

// getBalances computes current balances for many accounts in one call.
func (h *balanceHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := bulkBalanceRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for GetBalances", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	balances, err := h.balanceService.GetAccountBalances(c.Request.Context(), req.AccountIDs)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute balances")
		return
	}

	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// registerBalanceRoutes registers balance specific routes
func registerBalanceRoutes(group *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	balanceHandler := newBalanceHandler(balanceService)

	balances := group.Group("/balances")
	{
		balances.GET("/:accountID", balanceHandler.getBalance)
		balances.POST("/query", balanceHandler.getBalances)
	}
}
