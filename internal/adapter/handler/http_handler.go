package handler

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jerseystand/event-sales/internal/core/domain"
	"github.com/jerseystand/event-sales/internal/core/service"
	"github.com/jerseystand/event-sales/internal/report"
)

// Handler exposes the operator actions over localhost HTTP. It is
// presentation glue only: all state lives in the event service.
type Handler struct {
	events *service.EventService
	logger *zap.Logger
}

func NewHandler(events *service.EventService, logger *zap.Logger) *Handler {
	return &Handler{events: events, logger: logger}
}

type startEventRequest struct {
	Name   string         `json:"name" binding:"required"`
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
}

type recordSaleRequest struct {
	ItemID        string  `json:"itemId" binding:"required"`
	PaymentMethod string  `json:"paymentMethod" binding:"required"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
}

type breakdownEntry struct {
	Method string `json:"method"`
	Amount string `json:"amount"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) State(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"phase":     h.events.Phase(),
		"event":     h.events.EventInfo(),
		"catalog":   h.events.Catalog(),
		"inventory": h.events.InventorySnapshot(),
	})
}

func (h *Handler) StartEvent(c *gin.Context) {
	var req startEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	counts := make(map[string]int, len(req.Counts))
	for id, n := range req.Counts {
		if n < 0 {
			n = 0
		}
		counts[id] = n
	}

	info := domain.EventInfo{Name: req.Name, Date: req.Date}
	if err := h.events.StartEvent(c.Request.Context(), info, counts); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"phase":     h.events.Phase(),
		"inventory": h.events.InventorySnapshot(),
	})
}

func (h *Handler) RecordSale(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.events.RecordSale(c.Request.Context(),
		req.ItemID,
		domain.PaymentMethod(req.PaymentMethod),
		coerceDiscount(req.DiscountType, req.DiscountValue))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) UndoSale(c *gin.Context) {
	record, err := h.events.UndoLastSale(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) EndEvent(c *gin.Context) {
	if err := h.events.EndEvent(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": h.events.Phase()})
}

func (h *Handler) ReopenEvent(c *gin.Context) {
	if err := h.events.Reopen(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": h.events.Phase()})
}

func (h *Handler) ResetEvent(c *gin.Context) {
	if err := h.events.ResetEvent(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": h.events.Phase()})
}

func (h *Handler) Summary(c *gin.Context) {
	sales := h.events.Sales()
	initial := h.events.InitialSnapshot()
	current := h.events.InventorySnapshot()

	summary := report.Aggregate(slices.Values(sales))
	breakdown := make([]breakdownEntry, 0, 6)
	for _, m := range domain.PaymentMethods() {
		breakdown = append(breakdown, breakdownEntry{
			Method: string(m),
			Amount: summary.ByPaymentMethod[m].StringFixed(2),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"event":            h.events.EventInfo(),
		"totalRevenue":     summary.TotalRevenue.StringFixed(2),
		"totalSales":       summary.TotalSales,
		"totalItemsSold":   report.TotalSold(initial, current),
		"paymentBreakdown": breakdown,
		"inventory":        current,
		"soldByItem":       report.InventoryDelta(initial, current),
	})
}

func (h *Handler) ExportReport(c *gin.Context) {
	info := h.events.EventInfo()
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(info)))
	if err := report.WriteCSV(c.Writer, info,
		h.events.InitialSnapshot(),
		h.events.InventorySnapshot(),
		h.events.Sales(),
		time.Now(),
	); err != nil {
		h.logger.Error("report export failed", zap.Error(err))
	}
}

// coerceDiscount applies the soft validation the reference UI enforced with
// input attributes: negative values become zero, percentages cap at 100,
// unknown types mean no discount. Never rejected; pricing stays pure.
func coerceDiscount(discountType string, value float64) domain.DiscountSpec {
	if value < 0 {
		value = 0
	}
	switch discountType {
	case string(domain.DiscountFlat):
		return domain.DiscountSpec{Type: domain.DiscountFlat, Value: decimal.NewFromFloat(value)}
	case string(domain.DiscountPercent):
		if value > 100 {
			value = 100
		}
		return domain.DiscountSpec{Type: domain.DiscountPercent, Value: decimal.NewFromFloat(value)}
	default:
		return domain.NoDiscount()
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownItem):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown item"})
	case errors.Is(err, domain.ErrOutOfStock):
		c.JSON(http.StatusGone, gin.H{"error": "sold out"})
	case errors.Is(err, domain.ErrEmptyLedger):
		c.JSON(http.StatusConflict, gin.H{"error": "nothing to undo"})
	case errors.Is(err, service.ErrEventNotStarted):
		c.JSON(http.StatusConflict, gin.H{"error": "no active event"})
	case errors.Is(err, service.ErrInvalidPayment):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method"})
	default:
		h.logger.Error("operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
