package handler

import (
	"net/http"

	"flytau/internal/service"
	"flytau/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(service service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/reports")
	{
		router.GET("load-factor", h.GetLoadFactor)
		router.GET("revenue", h.GetRevenue)
		router.GET("employee-hours", h.GetEmployeeHours)
		router.GET("cancellation-rate", h.GetCancellationRate)
		router.GET("aircraft-monthly", h.GetAircraftMonthly)
	}
}

func (h *ReportHandler) GetLoadFactor(c *gin.Context) {
	rows, err := h.service.LoadFactor(c)
	if err != nil {
		h.handleReportError(c, err, "GetLoadFactor")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) GetRevenue(c *gin.Context) {
	rows, err := h.service.Revenue(c)
	if err != nil {
		h.handleReportError(c, err, "GetRevenue")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) GetEmployeeHours(c *gin.Context) {
	rows, err := h.service.EmployeeHours(c)
	if err != nil {
		h.handleReportError(c, err, "GetEmployeeHours")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) GetCancellationRate(c *gin.Context) {
	rows, err := h.service.CancellationRate(c)
	if err != nil {
		h.handleReportError(c, err, "GetCancellationRate")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) GetAircraftMonthly(c *gin.Context) {
	rows, err := h.service.AircraftMonthly(c)
	if err != nil {
		h.handleReportError(c, err, "GetAircraftMonthly")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// 報表皆唯讀，錯誤一律視為伺服器端問題
func (h *ReportHandler) handleReportError(c *gin.Context, err error, operation string) {
	logger.WithComponent("handler").Error("report query failed",
		zap.String("operation", operation), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
