package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"observer-finance/internal/domain"
	"observer-finance/internal/repository"
)

// WalletHandler mantiene dependencias para endpoints de billeteras.
type WalletHandler struct {
	logger  *zap.Logger
	wallets repository.WalletRepository
}

// NewWalletHandler crea una instancia de WalletHandler con dependencias necesarias.
func NewWalletHandler(logger *zap.Logger, wallets repository.WalletRepository) *WalletHandler {
	return &WalletHandler{logger: logger, wallets: wallets}
}

// Create maneja POST /wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required"`
		Balance  float64 `json:"balance"`
		Currency string  `json:"currency" binding:"omitempty,max=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create wallet request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "PHP"
	}

	wallet, err := h.wallets.Create(c.Request.Context(), domain.Wallet{
		UserID:   accountID,
		Name:     req.Name,
		Balance:  req.Balance,
		Currency: currency,
	})
	if err != nil {
		h.logger.Error("create wallet failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create wallet"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"wallet": wallet})
}

// List maneja GET /wallets.
func (h *WalletHandler) List(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	wallets, err := h.wallets.ListByUser(c.Request.Context(), accountID)
	if err != nil {
		h.logger.Error("list wallets failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list wallets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallets": wallets})
}

// Update maneja PATCH /wallets/:id.
func (h *WalletHandler) Update(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Name     *string  `json:"name"`
		Balance  *float64 `json:"balance"`
		Currency *string  `json:"currency" binding:"omitempty,max=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update wallet request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	wallet, err := h.wallets.GetByID(c.Request.Context(), id, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
			return
		}
		h.logger.Error("load wallet failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update wallet"})
		return
	}

	if req.Name != nil {
		wallet.Name = *req.Name
	}
	if req.Balance != nil {
		wallet.Balance = *req.Balance
	}
	if req.Currency != nil {
		wallet.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}

	wallet, err = h.wallets.Save(c.Request.Context(), wallet)
	if err != nil {
		h.logger.Error("save wallet failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// Delete maneja DELETE /wallets/:id.
func (h *WalletHandler) Delete(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.wallets.Delete(c.Request.Context(), id, accountID)
	if err != nil {
		h.logger.Error("delete wallet failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete wallet"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
