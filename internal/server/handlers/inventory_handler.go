package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
	"github.com/mamadbah2/stockroom/internal/service/commands"
	"github.com/mamadbah2/stockroom/internal/service/inventory"
	"github.com/mamadbah2/stockroom/internal/service/reporting"
)

// StockMutationRequest represents an add or remove request body.
type StockMutationRequest struct {
	Item   string `json:"item" binding:"required"`
	Qty    int    `json:"qty" binding:"required"`
	Sender string `json:"sender"`
}

// CommandRequest represents a free-form text command submission.
type CommandRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text" binding:"required"`
}

// InventoryHandler handles the stock HTTP surface.
type InventoryHandler struct {
	svc              *inventory.Service
	dispatcher       commands.Dispatcher
	defaultThreshold int
	logger           *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc *inventory.Service, dispatcher commands.Dispatcher, defaultThreshold int, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{
		svc:              svc,
		dispatcher:       dispatcher,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

// AddItem accumulates quantity onto an item.
func (h *InventoryHandler) AddItem(c *gin.Context) {
	var req StockMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	newQty, err := h.svc.Add(c.Request.Context(), req.Item, req.Qty, req.Sender)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": req.Item, "quantity": newQty})
}

// RemoveItem decrements quantity from an item, dropping it at zero.
func (h *InventoryHandler) RemoveItem(c *gin.Context) {
	var req StockMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid remove payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	remaining, err := h.svc.Remove(c.Request.Context(), req.Item, req.Qty, req.Sender)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": req.Item, "quantity": remaining})
}

// GetQuantity reports the current quantity of one item, 0 when absent.
func (h *InventoryHandler) GetQuantity(c *gin.Context) {
	item := c.Param("item")
	c.JSON(http.StatusOK, gin.H{"item": item, "quantity": h.svc.Quantity(item)})
}

// LowStock lists items at or below the requested threshold.
func (h *InventoryHandler) LowStock(c *gin.Context) {
	threshold := h.defaultThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a non-negative integer"})
			return
		}
		threshold = parsed
	}

	c.JSON(http.StatusOK, gin.H{"threshold": threshold, "items": h.svc.LowStock(threshold)})
}

// Report renders the full inventory, as JSON by default or as the classic
// text report with ?format=text.
func (h *InventoryHandler) Report(c *gin.Context) {
	report := h.svc.Report()

	if c.Query("format") == "text" {
		c.String(http.StatusOK, reporting.RenderText(report))
		return
	}

	c.JSON(http.StatusOK, report)
}

// Movements exposes the movement journal, newest entries last.
func (h *InventoryHandler) Movements(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	c.JSON(http.StatusOK, gin.H{"movements": h.svc.Movements(limit)})
}

// SaveSnapshot forces a write of the snapshot file.
func (h *InventoryHandler) SaveSnapshot(c *gin.Context) {
	if err := h.svc.SaveSnapshot(); err != nil {
		h.logger.Error("failed saving snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to save snapshot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// Dispatch runs a text command through the dispatcher and returns the reply.
func (h *InventoryHandler) Dispatch(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid command payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cmd := models.ParseCommand(req.Text)
	reply, err := h.dispatcher.HandleCommand(c.Request.Context(), cmd, req.Sender)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnsupportedCommand), errors.Is(err, commands.ErrInvalidArguments):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "help": commands.HelpMessage})
		case errors.Is(err, inventory.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, inventory.ErrEmptyItemName), errors.Is(err, inventory.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed dispatching command", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process command"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *InventoryHandler) respondMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, inventory.ErrEmptyItemName), errors.Is(err, inventory.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("stock mutation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stock mutation failed"})
	}
}
