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

// ReminderHandler mantiene dependencias para endpoints de recordatorios de pago.
type ReminderHandler struct {
	logger    *zap.Logger
	reminders repository.ReminderRepository
}

// NewReminderHandler crea una instancia de ReminderHandler con dependencias necesarias.
func NewReminderHandler(logger *zap.Logger, reminders repository.ReminderRepository) *ReminderHandler {
	return &ReminderHandler{logger: logger, reminders: reminders}
}

// Create maneja POST /payment-reminders.
func (h *ReminderHandler) Create(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required"`
		Category string  `json:"category" binding:"required"`
		Amount   float64 `json:"amount" binding:"required,gt=0"`
		DueDate  string  `json:"dueDate" binding:"required"`
		AutoPay  bool    `json:"autoPay"`
		Status   string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create reminder request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date"})
		return
	}

	reminder, err := h.reminders.Create(c.Request.Context(), domain.PaymentReminder{
		UserID:   accountID,
		Name:     req.Name,
		Category: req.Category,
		Amount:   req.Amount,
		DueDate:  dueDate,
		AutoPay:  req.AutoPay,
		Status:   req.Status,
	})
	if err != nil {
		h.logger.Error("create reminder failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create reminder"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reminder": reminder})
}

// List maneja GET /payment-reminders.
func (h *ReminderHandler) List(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	reminders, err := h.reminders.ListByUser(c.Request.Context(), accountID)
	if err != nil {
		h.logger.Error("list reminders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list reminders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// Update maneja PATCH /payment-reminders/:id.
func (h *ReminderHandler) Update(c *gin.Context) {
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
		Category *string  `json:"category"`
		Amount   *float64 `json:"amount" binding:"omitempty,gt=0"`
		DueDate  *string  `json:"dueDate"`
		AutoPay  *bool    `json:"autoPay"`
		Status   *string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update reminder request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reminder, err := h.reminders.GetByID(c.Request.Context(), id, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reminder not found"})
			return
		}
		h.logger.Error("load reminder failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update reminder"})
		return
	}

	if req.Name != nil {
		reminder.Name = *req.Name
	}
	if req.Category != nil {
		reminder.Category = *req.Category
	}
	if req.Amount != nil {
		reminder.Amount = *req.Amount
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date"})
			return
		}
		reminder.DueDate = dueDate
	}
	if req.AutoPay != nil {
		reminder.AutoPay = *req.AutoPay
	}
	if req.Status != nil {
		reminder.Status = *req.Status
	}

	reminder, err = h.reminders.Save(c.Request.Context(), reminder)
	if err != nil {
		h.logger.Error("save reminder failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update reminder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminder": reminder})
}

// Delete maneja DELETE /payment-reminders/:id.
func (h *ReminderHandler) Delete(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.reminders.Delete(c.Request.Context(), id, accountID)
	if err != nil {
		h.logger.Error("delete reminder failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete reminder"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "reminder not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
