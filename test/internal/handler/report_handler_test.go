package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flytau/internal/handler"
	"flytau/internal/model"
	"flytau/test/internal/mocks/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupReportTestRouter(mockService *services.ReportServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	reportHandler := handler.NewReportHandler(mockService)
	reportHandler.RegisterRoutes(router)

	return router
}

func TestGetLoadFactor(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewReportServiceMock()
		router := setupReportTestRouter(mockService)

		mockService.On("LoadFactor", mock.Anything).Return([]*model.LoadFactorRow{
			{FlightID: 1, DepartureAt: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC), TotalSeats: 6, SoldSeats: 3, LoadFactorPercent: 50},
		}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/reports/load-factor", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - QueryError", func(t *testing.T) {
		mockService := services.NewReportServiceMock()
		router := setupReportTestRouter(mockService)

		mockService.On("LoadFactor", mock.Anything).Return(nil, errors.New("query failed")).Once()

		req := httptest.NewRequest("GET", "/api/v1/reports/load-factor", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestGetRevenue(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewReportServiceMock()
		router := setupReportTestRouter(mockService)

		mockService.On("Revenue", mock.Anything).Return([]*model.RevenueRow{
			{AircraftSize: model.AircraftSizeSmall, Manufacturer: "Boeing", SeatClass: model.SeatClassEconomy, TotalRevenue: 420},
		}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/reports/revenue", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestGetAircraftMonthly(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewReportServiceMock()
		router := setupReportTestRouter(mockService)

		mockService.On("AircraftMonthly", mock.Anything).Return([]*model.AircraftMonthlyRow{
			{AircraftID: 1, Month: "2026-07", TotalFlights: 3, FlightsCompleted: 2, FlightsCancelled: 1, UtilizationPercent: 6.67, DominantRoutes: []string{"TLV→ATH"}},
		}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/reports/aircraft-monthly", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}
