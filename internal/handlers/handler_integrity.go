package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/middleware"
)

// integrityHandler exposes the verify/repair maintenance surface.
type integrityHandler struct {
	integrityService portssvc.IntegritySvcFacade
	rebuildService   portssvc.RebuildQueueSvcFacade
}

func newIntegrityHandler(integrityService portssvc.IntegritySvcFacade, rebuildService portssvc.RebuildQueueSvcFacade) *integrityHandler {
	return &integrityHandler{
		integrityService: integrityService,
		rebuildService:   rebuildService,
	}
}

// verifyAccount compares one account's cached balance against the full-scan
// computation, optionally as of the cutoff query parameter (RFC 3339).
func (h *integrityHandler) verifyAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var cutoff *time.Time
	if raw := c.Query("cutoff"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			logger.Warn("Invalid cutoff parameter", slog.String("cutoff", raw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "cutoff must be an RFC 3339 timestamp"})
			return
		}
		cutoff = &parsed
	}

	verification, err := h.integrityService.VerifyAccountBalance(c.Request.Context(), accountID, cutoff)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to verify balance")
		return
	}

	c.JSON(http.StatusOK, verification)
}

// verifyAll sweeps every active account.
func (h *integrityHandler) verifyAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	verifications, err := h.integrityService.VerifyAllAccountBalances(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to verify balances")
		return
	}

	c.JSON(http.StatusOK, gin.H{"verifications": verifications})
}

// repairAccount rebuilds one account's entire running-balance history.
func (h *integrityHandler) repairAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	if err := h.integrityService.RepairAccountBalance(c.Request.Context(), accountID); err != nil {
		respondServiceError(c, logger, err, "Failed to repair balance")
		return
	}

	logger.Info("Account balance repaired", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, gin.H{"accountID": accountID, "repaired": true})
}

// startupCheck runs the seeding-or-sweep startup routine on demand.
func (h *integrityHandler) startupCheck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.integrityService.RunStartupCheck(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Startup check failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// resetDatabase wipes all ledger data and reseeds the defaults.
func (h *integrityHandler) resetDatabase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.integrityService.ResetDatabase(c.Request.Context()); err != nil {
		respondServiceError(c, logger, err, "Failed to reset database")
		return
	}

	logger.Info("Database reset completed")
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

// cleanupDatabase purges soft-deleted rows permanently.
func (h *integrityHandler) cleanupDatabase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	removed, err := h.integrityService.CleanupDatabase(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to clean up database")
		return
	}

	logger.Info("Database cleanup completed", slog.Int64("rows_removed", removed))
	c.JSON(http.StatusOK, gin.H{"rowsRemoved": removed})
}

// rebuildStatus reports how many accounts are queued for a rebuild.
func (h *integrityHandler) rebuildStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pendingAccounts": h.rebuildService.PendingCount()})
}

// registerIntegrityRoutes registers maintenance specific routes
func registerIntegrityRoutes(group *gin.RouterGroup, integrityService portssvc.IntegritySvcFacade, rebuildService portssvc.RebuildQueueSvcFacade) {
	integrityHandler := newIntegrityHandler(integrityService, rebuildService)

	maintenance := group.Group("/maintenance")
	{
		maintenance.GET("/verify", integrityHandler.verifyAll)
		maintenance.GET("/verify/:accountID", integrityHandler.verifyAccount)
		maintenance.POST("/repair/:accountID", integrityHandler.repairAccount)
		maintenance.POST("/startup-check", integrityHandler.startupCheck)
		maintenance.POST("/reset", integrityHandler.resetDatabase)
		maintenance.POST("/cleanup", integrityHandler.cleanupDatabase)
		maintenance.GET("/rebuild-status", integrityHandler.rebuildStatus)
	}
}
