package handler

import (
	"errors"
	"net/http"
	"strconv"

	"flytau/internal/model"
	"flytau/internal/service"
	apperrors "flytau/pkg/app_errors"
	"flytau/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FlightHandler struct {
	service   service.FlightService
	inventory service.InventoryService
}

func NewFlightHandler(service service.FlightService, inventory service.InventoryService) *FlightHandler {
	return &FlightHandler{service: service, inventory: inventory}
}

func (h *FlightHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("flights", h.SearchFlights)
		router.GET("flights/:id", h.GetFlight)
		router.POST("flights", h.CreateFlight)
		router.PUT("flights/:id/price", h.UpdateClassPrice)
		router.PUT("flights/:id/cancel", h.CancelFlight)

		router.GET("flights/:id/seats", h.GetSeatMap)
		router.PUT("flights/:id/seats/:seat_id/status", h.UpdateSeatStatus)
		router.GET("flights/:id/availability", h.GetAvailability)
		router.POST("flights/:id/seats/select", h.SelectSeats)
		router.POST("flights/:id/seats/release", h.ReleaseSelection)
	}
}

func (h *FlightHandler) CreateFlight(c *gin.Context) {
	var req model.CreateFlightRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	flight, err := h.service.Create(c, req)
	if err != nil {
		h.handleFlightError(c, err, "CreateFlight")
		return
	}

	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) GetFlight(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleFlightError(c, apperrors.ErrInvalidInput, "GetFlight")
		return
	}

	flight, err := h.service.GetByID(c, id)
	if err != nil {
		h.handleFlightError(c, err, "GetFlight")
		return
	}

	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) SearchFlights(c *gin.Context) {
	var req model.SearchFlightsRequest
	if err := BindQuery(c, &req); err != nil {
		return
	}

	results, err := h.service.Search(c, req)
	if err != nil {
		h.handleFlightError(c, err, "SearchFlights")
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *FlightHandler) UpdateClassPrice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleFlightError(c, apperrors.ErrInvalidInput, "UpdateClassPrice")
		return
	}

	var req model.UpdateClassPriceRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.UpdateClassPrice(c, id, req); err != nil {
		h.handleFlightError(c, err, "UpdateClassPrice")
		return
	}

	c.Status(http.StatusOK)
}

func (h *FlightHandler) CancelFlight(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleFlightError(c, apperrors.ErrInvalidInput, "CancelFlight")
		return
	}

	if err := h.service.Cancel(c, id); err != nil {
		h.handleFlightError(c, err, "CancelFlight")
		return
	}

	c.Status(http.StatusOK)
}

// GetSeatMap 座位表：session_id 有帶時只回可供該 session 選擇的座位
func (h *FlightHandler) GetSeatMap(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleFlightError(c, apperrors.ErrInvalidInput, "GetSeatMap")
		return
	}

	if sessionID, ok := c.GetQuery("session_id"); ok {
		seats, err := h.inventory.ListSelectable(c, id, sessionID)
		if err != nil {
			h.handleFlightError(c, err, "GetSeatMap")
			return
		}
		c.JSON(http.StatusOK, seats)
		return
	}

	seats, err := h.inventory.ListSeats(c, id)
	if err != nil {
		h.handleFlightError(c, err, "GetSeatMap")
		return
	}
	c.JSON(http.StatusOK, seats)
}

// UpdateSeatStatus 管理者手動封鎖/解封單一槽位；已售槽位回 409
func (h *FlightHandler) UpdateSeatStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleFlightError(c, apperrors.ErrInvalidInput, "UpdateSeatStatus")
		return
	}
	slotID, err := strconv.Atoi(c.Param("seat_id"))
	if err != nil {
		h.handleFlightError(c, apperrors.ErrInvalidInput, "UpdateSeatStatus")
		return
	}

	var req model.UpdateSeatStatusRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.SetSeatStatus(c, id, slotID, req); err != nil {
		h.handleFlightError(c, err, "UpdateSeatStatus")
		return
	}

	c.Status(http.StatusOK)
}

func (h *FlightHandler) GetAvailability(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleFlightError(c, apperrors.ErrInvalidInput, "GetAvailability")
		return
	}

	available, err := h.inventory.GetAvailability(c, id)
	if err != nil {
		h.handleFlightError(c, err, "GetAvailability")
		return
	}

	c.JSON(http.StatusOK, gin.H{"flight_id": id, "available_seats": available})
}

func (h *FlightHandler) SelectSeats(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleFlightError(c, apperrors.ErrInvalidInput, "SelectSeats")
		return
	}

	var req model.SelectSeatsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	sessionID, err := h.inventory.SelectSeats(c, id, req)
	if err != nil {
		h.handleFlightError(c, err, "SelectSeats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}

func (h *FlightHandler) ReleaseSelection(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleFlightError(c, apperrors.ErrInvalidInput, "ReleaseSelection")
		return
	}

	var req model.SelectSeatsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.inventory.ReleaseSelection(c, id, req.SeatIDs, req.SessionID); err != nil {
		h.handleFlightError(c, err, "ReleaseSelection")
		return
	}

	c.Status(http.StatusOK)
}

// Helper functions

func (h *FlightHandler) handleFlightError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
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
	case errors.Is(err, apperrors.ErrOperationalCancelTooLate):
		log.Warn("Operational cancellation too late")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Flight departs in less than 72 hours",
		})
	case errors.Is(err, apperrors.ErrPersistenceConflict):
		log.Warn("Conflicting flight state")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Conflicting flight state",
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
