package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/hmsuite/hospital_accounting_app/internal/core/ports/services"
	"github.com/hmsuite/hospital_accounting_app/internal/dto"
	"github.com/hmsuite/hospital_accounting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for journal entries and lines.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// registerJournalRoutes wires the journal endpoints into the given group.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
		entries.POST("/:entryID/lines", h.addLine)
		entries.GET("/:entryID/lines", h.listLines)
		entries.POST("/:entryID/post", h.postEntry)
	}

	lines := rg.Group("/journal-lines")
	{
		lines.GET("/:lineID", h.getLine)
		lines.PUT("/:lineID", h.updateLine)
		lines.DELETE("/:lineID", h.deleteLine)
	}
}

func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entries, err := h.journalService.ListEntries(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponses(entries))
}

func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := parseIDParam(c, "entryID")
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := parseIDParam(c, "entryID")
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	entry, err := h.journalService.UpdateEntryMetadata(c.Request.Context(), entryID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := parseIDParam(c, "entryID")
	if !ok {
		return
	}

	if err := h.journalService.DeleteEntry(c.Request.Context(), entryID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete journal entry")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *journalHandler) addLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := parseIDParam(c, "entryID")
	if !ok {
		return
	}

	var req dto.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for addLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	line, err := h.journalService.AddLine(c.Request.Context(), entryID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add journal line")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLineResponse(line))
}

func (h *journalHandler) listLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := parseIDParam(c, "entryID")
	if !ok {
		return
	}

	lines, err := h.journalService.ListLines(c.Request.Context(), entryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journal lines")
		return
	}

	c.JSON(http.StatusOK, dto.ToLineResponses(lines))
}

func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := parseIDParam(c, "entryID")
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), entryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.Int64("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *journalHandler) getLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID, ok := parseIDParam(c, "lineID")
	if !ok {
		return
	}

	line, err := h.journalService.GetLineByID(c.Request.Context(), lineID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get journal line")
		return
	}

	c.JSON(http.StatusOK, dto.ToLineResponse(line))
}

func (h *journalHandler) updateLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID, ok := parseIDParam(c, "lineID")
	if !ok {
		return
	}

	var req dto.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	line, err := h.journalService.UpdateLine(c.Request.Context(), lineID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update journal line")
		return
	}

	c.JSON(http.StatusOK, dto.ToLineResponse(line))
}

func (h *journalHandler) deleteLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID, ok := parseIDParam(c, "lineID")
	if !ok {
		return
	}

	if err := h.journalService.DeleteLine(c.Request.Context(), lineID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete journal line")
		return
	}

	c.Status(http.StatusNoContent)
}
