package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/dto"
	"github.com/mgrewal/pennyledger/internal/middleware"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// createJournal creates a new journal with its transactions.
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateJournalRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for CreateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	journal, err := h.journalService.CreateJournal(c.Request.Context(), createReq)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create journal")
		return
	}

	logger.Info("Journal created successfully", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal retrieves a journal with its transactions.
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve journal")
		return
	}

	logger.Debug("Journal retrieved successfully", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals retrieves a paginated list of journals.
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListJournalsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for ListJournals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	page, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journals")
		return
	}

	c.JSON(http.StatusOK, page)
}

// updateJournal replaces a journal's transactions and patches its header.
func (h *journalHandler) updateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	updateReq := dto.UpdateJournalRequest{}
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		logger.Error("Failed to bind JSON for UpdateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	journal, err := h.journalService.UpdateJournal(c.Request.Context(), journalID, updateReq)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update journal")
		return
	}

	logger.Info("Journal updated successfully", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// deleteJournal soft-deletes a journal and its transactions.
func (h *journalHandler) deleteJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	if err := h.journalService.DeleteJournal(c.Request.Context(), journalID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete journal")
		return
	}

	logger.Info("Journal deleted successfully", slog.String("journal_id", journalID))
	c.Status(http.StatusNoContent)
}

// duplicateJournal creates a copy of a journal dated now.
func (h *journalHandler) duplicateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	journal, err := h.journalService.DuplicateJournal(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to duplicate journal")
		return
	}

	logger.Info("Journal duplicated successfully",
		slog.String("source_journal_id", journalID),
		slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

type reverseJournalRequest struct {
	Reason string `json:"reason,omitempty"`
}

// reverseJournal creates a mirrored journal and marks the original REVERSED.
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	reverseReq := reverseJournalRequest{}
	// Body is optional; a bare POST reverses without a reason.
	_ = c.ShouldBindJSON(&reverseReq)

	journal, err := h.journalService.ReverseJournal(c.Request.Context(), journalID, reverseReq.Reason)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse journal")
		return
	}

	logger.Info("Journal reversed successfully",
		slog.String("original_journal_id", journalID),
		slog.String("reversing_journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// saveJournalEntry is the form-style save endpoint. Validation problems come
// back in the result body with a 200, not as HTTP errors.
func (h *journalHandler) saveJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	saveReq := dto.SaveJournalEntryRequest{}
	if err := c.ShouldBindJSON(&saveReq); err != nil {
		logger.Error("Failed to bind JSON for SaveJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := h.journalService.SaveJournalEntry(c.Request.Context(), saveReq)
	if result.Success {
		logger.Info("Journal entry saved",
			slog.String("action", result.Action),
			slog.String("journal_id", result.JournalID))
	} else {
		logger.Warn("Journal entry rejected", slog.String("reason", result.Error))
	}
	c.JSON(http.StatusOK, result)
}

// registerJournalRoutes registers journal specific routes
func registerJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	journalHandler := newJournalHandler(journalService)

	journals := group.Group("/journals")
	{
		journals.POST("/", journalHandler.createJournal)
		journals.GET("/", journalHandler.listJournals)
		journals.POST("/save", journalHandler.saveJournalEntry)
		journals.GET("/:journalID", journalHandler.getJournal)
		journals.PUT("/:journalID", journalHandler.updateJournal)
		journals.DELETE("/:journalID", journalHandler.deleteJournal)
		journals.POST("/:journalID/duplicate", journalHandler.duplicateJournal)
		journals.POST("/:journalID/reverse", journalHandler.reverseJournal)
	}
}
