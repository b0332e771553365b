package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/hmsuite/hospital_accounting_app/internal/core/ports/services"
	"github.com/hmsuite/hospital_accounting_app/internal/dto"
	"github.com/hmsuite/hospital_accounting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests for budgets and allocations.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

// newBudgetHandler creates a new budgetHandler.
func newBudgetHandler(budgetService portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{
		budgetService: budgetService,
	}
}

// registerBudgetRoutes wires the budget endpoints into the given group.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:budgetID", h.getBudget)
		budgets.PUT("/:budgetID", h.updateBudget)
		budgets.DELETE("/:budgetID", h.deleteBudget)
		budgets.POST("/:budgetID/allocations", h.allocate)
		budgets.GET("/:budgetID/allocations", h.listAllocations)
	}

	allocations := rg.Group("/allocations")
	{
		allocations.GET("/:lineID", h.getAllocation)
		allocations.PUT("/:lineID", h.updateAllocation)
		allocations.DELETE("/:lineID", h.deleteAllocation)
	}
}

func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create budget")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	budgets, err := h.budgetService.ListBudgets(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list budgets")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponses(budgets))
}

func (h *budgetHandler) getBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID, ok := parseIDParam(c, "budgetID")
	if !ok {
		return
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), budgetID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get budget")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

func (h *budgetHandler) updateBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID, ok := parseIDParam(c, "budgetID")
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), budgetID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update budget")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

func (h *budgetHandler) deleteBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID, ok := parseIDParam(c, "budgetID")
	if !ok {
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), budgetID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete budget")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *budgetHandler) allocate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID, ok := parseIDParam(c, "budgetID")
	if !ok {
		return
	}

	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for allocate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	line, err := h.budgetService.Allocate(c.Request.Context(), budgetID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to allocate budget")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBudgetLineResponse(line))
}

func (h *budgetHandler) listAllocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID, ok := parseIDParam(c, "budgetID")
	if !ok {
		return
	}

	lines, err := h.budgetService.ListAllocations(c.Request.Context(), budgetID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list allocations")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetLineResponses(lines))
}

func (h *budgetHandler) getAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID, ok := parseIDParam(c, "lineID")
	if !ok {
		return
	}

	line, err := h.budgetService.GetAllocationByID(c.Request.Context(), lineID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get allocation")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetLineResponse(line))
}

func (h *budgetHandler) updateAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID, ok := parseIDParam(c, "lineID")
	if !ok {
		return
	}

	var req dto.UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	line, err := h.budgetService.UpdateAllocation(c.Request.Context(), lineID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update allocation")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetLineResponse(line))
}

func (h *budgetHandler) deleteAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID, ok := parseIDParam(c, "lineID")
	if !ok {
		return
	}

	if err := h.budgetService.DeleteAllocation(c.Request.Context(), lineID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete allocation")
		return
	}

	c.Status(http.StatusNoContent)
}
