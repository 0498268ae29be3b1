package handler

import (
	"errors"
	"net/http"

	"flytau/internal/model"
	"flytau/internal/service"
	apperrors "flytau/pkg/app_errors"
	"flytau/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("orders", h.GetOrders)
		router.GET("orders/:code", h.GetOrder)
		router.POST("orders", h.CreateOrder)
		router.PUT("orders/:code/cancel", h.CancelOrder)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	summary, err := h.service.Create(c, req)
	if err != nil {
		h.handleOrderError(c, err, "CreateOrder")
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	summary, err := h.service.GetByCode(c, c.Param("code"))
	if err != nil {
		h.handleOrderError(c, err, "GetOrder")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetOrders 顧客訂單列表：email 必填（訪客亦以 email 查詢），status 選填
func (h *OrderHandler) GetOrders(c *gin.Context) {
	email, ok := c.GetQuery("email")
	if !ok || email == "" {
		h.handleOrderError(c, apperrors.ErrInvalidInput, "GetOrders")
		return
	}

	var status *model.OrderStatus
	if raw, ok := c.GetQuery("status"); ok {
		s := model.OrderStatus(raw)
		if !s.IsValid() {
			h.handleOrderError(c, apperrors.ErrInvalidInput, "GetOrders")
			return
		}
		status = &s
	}

	summaries, err := h.service.ListByCustomer(c, email, status)
	if err != nil {
		h.handleOrderError(c, err, "GetOrders")
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	result, err := h.service.CancelByCustomer(c, c.Param("code"))
	if err != nil {
		h.handleOrderError(c, err, "CancelOrder")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Helper functions

func (h *OrderHandler) handleOrderError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrOrderNotFound):
		log.Warn("Order not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
	case errors.Is(err, apperrors.ErrFlightNotFound):
		log.Warn("Flight not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Flight not found",
		})
	case errors.Is(err, apperrors.ErrFlightNotBookable):
		log.Warn("Flight not bookable")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Flight not bookable",
		})
	case errors.Is(err, apperrors.ErrSeatUnavailable):
		log.Warn("Seat unavailable")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Seat unavailable",
		})
	case errors.Is(err, apperrors.ErrCancellationWindowClosed):
		log.Warn("Cancellation window closed")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Flight departs in less than 36 hours",
		})
	case errors.Is(err, apperrors.ErrPersistenceConflict):
		log.Warn("Conflicting order state")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Conflicting order state",
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
