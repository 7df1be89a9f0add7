package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"observer-finance/internal/domain"
	"observer-finance/internal/repository"
)

// BudgetHandler mantiene dependencias para endpoints de presupuestos.
type BudgetHandler struct {
	logger  *zap.Logger
	budgets repository.BudgetRepository
}

// NewBudgetHandler crea una instancia de BudgetHandler con dependencias necesarias.
func NewBudgetHandler(logger *zap.Logger, budgets repository.BudgetRepository) *BudgetHandler {
	return &BudgetHandler{logger: logger, budgets: budgets}
}

// Create maneja POST /budgets.
func (h *BudgetHandler) Create(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req struct {
		Label       string  `json:"label" binding:"required"`
		Category    string  `json:"category" binding:"required"`
		Limit       float64 `json:"limit" binding:"required,gt=0"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create budget request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	budget, err := h.budgets.Create(c.Request.Context(), domain.Budget{
		UserID:      accountID,
		Label:       req.Label,
		Category:    req.Category,
		Limit:       req.Limit,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("create budget failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create budget"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// List maneja GET /budgets.
func (h *BudgetHandler) List(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	budgets, err := h.budgets.ListByUser(c.Request.Context(), accountID)
	if err != nil {
		h.logger.Error("list budgets failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list budgets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// Update maneja PATCH /budgets/:id.
func (h *BudgetHandler) Update(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Label       *string  `json:"label"`
		Category    *string  `json:"category"`
		Limit       *float64 `json:"limit" binding:"omitempty,gt=0"`
		Description *string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update budget request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	budget, err := h.budgets.GetByID(c.Request.Context(), id, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "budget not found"})
			return
		}
		h.logger.Error("load budget failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update budget"})
		return
	}

	if req.Label != nil {
		budget.Label = *req.Label
	}
	if req.Category != nil {
		budget.Category = *req.Category
	}
	if req.Limit != nil {
		budget.Limit = *req.Limit
	}
	if req.Description != nil {
		budget.Description = *req.Description
	}

	budget, err = h.budgets.Save(c.Request.Context(), budget)
	if err != nil {
		h.logger.Error("save budget failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update budget"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// Delete maneja DELETE /budgets/:id.
func (h *BudgetHandler) Delete(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.budgets.Delete(c.Request.Context(), id, accountID)
	if err != nil {
		h.logger.Error("delete budget failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete budget"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "budget not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
