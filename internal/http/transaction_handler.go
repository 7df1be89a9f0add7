package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"observer-finance/internal/domain"
	"observer-finance/internal/repository"
)

// TransactionHandler mantiene dependencias para endpoints de movimientos.
type TransactionHandler struct {
	logger       *zap.Logger
	transactions repository.TransactionRepository
}

// NewTransactionHandler crea una instancia de TransactionHandler con dependencias necesarias.
func NewTransactionHandler(logger *zap.Logger, transactions repository.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{logger: logger, transactions: transactions}
}

const dateLayout = "2006-01-02"

// Create maneja POST /transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req struct {
		Merchant    string  `json:"merchant" binding:"required"`
		Category    string  `json:"category" binding:"required"`
		Type        string  `json:"type" binding:"required"`
		Status      string  `json:"status"`
		Amount      float64 `json:"amount" binding:"required,gt=0"`
		Date        string  `json:"date" binding:"required"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create transaction request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	trxType := domain.TransactionType(req.Type)
	if !domain.ValidTransactionType(trxType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
		return
	}
	status := domain.TransactionStatus(req.Status)
	if req.Status == "" {
		status = domain.TransactionDone
	} else if !domain.ValidTransactionStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction status"})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	trx, err := h.transactions.Create(c.Request.Context(), domain.Transaction{
		UserID:      accountID,
		Merchant:    req.Merchant,
		Category:    req.Category,
		Type:        trxType,
		Status:      status,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("create transaction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": trx})
}

// List maneja GET /transactions. Acepta los filtros ?type= y ?category=;
// si vienen ambos, type tiene prioridad.
func (h *TransactionHandler) List(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var (
		transactions []domain.Transaction
		err          error
	)
	switch {
	case c.Query("type") != "":
		trxType := domain.TransactionType(c.Query("type"))
		if !domain.ValidTransactionType(trxType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
			return
		}
		transactions, err = h.transactions.ListByType(c.Request.Context(), accountID, trxType)
	case c.Query("category") != "":
		transactions, err = h.transactions.ListByCategory(c.Request.Context(), accountID, c.Query("category"))
	default:
		transactions, err = h.transactions.ListByUser(c.Request.Context(), accountID)
	}
	if err != nil {
		h.logger.Error("list transactions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// TotalByType maneja GET /transactions/stats/total.
func (h *TransactionHandler) TotalByType(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	trxType := domain.TransactionType(c.Query("type"))
	if !domain.ValidTransactionType(trxType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
		return
	}

	total, err := h.transactions.TotalByType(c.Request.Context(), accountID, trxType)
	if err != nil {
		h.logger.Error("total by type failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"type": trxType, "total": total})
}

// Get maneja GET /transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	trx, err := h.transactions.GetByID(c.Request.Context(), id, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		h.logger.Error("load transaction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": trx})
}

// Update maneja PATCH /transactions/:id.
func (h *TransactionHandler) Update(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Merchant    *string  `json:"merchant"`
		Category    *string  `json:"category"`
		Type        *string  `json:"type"`
		Status      *string  `json:"status"`
		Amount      *float64 `json:"amount" binding:"omitempty,gt=0"`
		Date        *string  `json:"date"`
		Description *string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update transaction request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	trx, err := h.transactions.GetByID(c.Request.Context(), id, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		h.logger.Error("load transaction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update transaction"})
		return
	}

	if req.Merchant != nil {
		trx.Merchant = *req.Merchant
	}
	if req.Category != nil {
		trx.Category = *req.Category
	}
	if req.Type != nil {
		trxType := domain.TransactionType(*req.Type)
		if !domain.ValidTransactionType(trxType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
			return
		}
		trx.Type = trxType
	}
	if req.Status != nil {
		status := domain.TransactionStatus(*req.Status)
		if !domain.ValidTransactionStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction status"})
			return
		}
		trx.Status = status
	}
	if req.Amount != nil {
		trx.Amount = *req.Amount
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		trx.Date = date
	}
	if req.Description != nil {
		trx.Description = *req.Description
	}

	trx, err = h.transactions.Save(c.Request.Context(), trx)
	if err != nil {
		h.logger.Error("save transaction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": trx})
}

// Delete maneja DELETE /transactions/:id.
func (h *TransactionHandler) Delete(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.transactions.Delete(c.Request.Context(), id, accountID)
	if err != nil {
		h.logger.Error("delete transaction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete transaction"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
