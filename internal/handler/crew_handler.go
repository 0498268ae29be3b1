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

type CrewHandler struct {
	service service.CrewService
}

func NewCrewHandler(service service.CrewService) *CrewHandler {
	return &CrewHandler{service: service}
}

func (h *CrewHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("flights/:id/crew/available", h.GetAvailableCrew)
		router.GET("flights/:id/crew/validate", h.ValidateCrew)
		router.POST("flights/:id/crew", h.AssignCrew)
		router.DELETE("flights/:id/crew/:staff_id", h.UnassignCrew)
	}
}

func (h *CrewHandler) AssignCrew(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleCrewError(c, apperrors.ErrInvalidInput, "AssignCrew")
		return
	}

	var req model.AssignCrewRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.Assign(c, id, req); err != nil {
		h.handleCrewError(c, err, "AssignCrew")
		return
	}

	c.Status(http.StatusCreated)
}

func (h *CrewHandler) UnassignCrew(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleCrewError(c, apperrors.ErrInvalidInput, "UnassignCrew")
		return
	}
	staffID, err := strconv.Atoi(c.Param("staff_id"))
	if err != nil {
		h.handleCrewError(c, apperrors.ErrInvalidInput, "UnassignCrew")
		return
	}

	role := model.CrewRole(c.Query("role"))
	if err := h.service.Unassign(c, id, staffID, role); err != nil {
		h.handleCrewError(c, err, "UnassignCrew")
		return
	}

	c.Status(http.StatusOK)
}

func (h *CrewHandler) GetAvailableCrew(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleCrewError(c, apperrors.ErrInvalidInput, "GetAvailableCrew")
		return
	}

	crew, err := h.service.ListAvailable(c, id)
	if err != nil {
		h.handleCrewError(c, err, "GetAvailableCrew")
		return
	}

	c.JSON(http.StatusOK, crew)
}

func (h *CrewHandler) ValidateCrew(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleCrewError(c, apperrors.ErrInvalidInput, "ValidateCrew")
		return
	}

	validation, err := h.service.Validate(c, id)
	if err != nil {
		h.handleCrewError(c, err, "ValidateCrew")
		return
	}

	c.JSON(http.StatusOK, validation)
}

// Helper functions

func (h *CrewHandler) handleCrewError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrFlightNotFound):
		log.Warn("Flight not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Flight not found",
		})
	case errors.Is(err, apperrors.ErrStaffNotFound):
		log.Warn("Staff not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Staff not found",
		})
	case errors.Is(err, apperrors.ErrCrewConflict):
		log.Warn("Crew scheduling conflict")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Staff has an overlapping assignment or lacks required certification",
		})
	case errors.Is(err, apperrors.ErrCrewRequirementUnmet):
		log.Warn("Crew requirement unmet")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Staff does not meet flight requirements",
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
