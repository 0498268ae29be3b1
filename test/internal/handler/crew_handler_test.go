package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"flytau/internal/handler"
	"flytau/internal/model"
	apperrors "flytau/pkg/app_errors"
	"flytau/test/internal/mocks/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupCrewTestRouter(mockService *services.CrewServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	crewHandler := handler.NewCrewHandler(mockService)
	crewHandler.RegisterRoutes(router)

	return router
}

func TestAssignCrew(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewCrewServiceMock()
		router := setupCrewTestRouter(mockService)

		mockService.On("Assign", mock.Anything, 123, model.AssignCrewRequest{
			StaffID: 7,
			Role:    model.CrewRolePilot,
		}).Return(nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/flights/123/crew", model.AssignCrewRequest{
			StaffID: 7,
			Role:    model.CrewRolePilot,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrCrewConflict", func(t *testing.T) {
		mockService := services.NewCrewServiceMock()
		router := setupCrewTestRouter(mockService)

		mockService.On("Assign", mock.Anything, 123, mock.Anything).Return(apperrors.ErrCrewConflict).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/flights/123/crew", model.AssignCrewRequest{
			StaffID: 7,
			Role:    model.CrewRolePilot,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrCrewRequirementUnmet", func(t *testing.T) {
		mockService := services.NewCrewServiceMock()
		router := setupCrewTestRouter(mockService)

		mockService.On("Assign", mock.Anything, 123, mock.Anything).Return(apperrors.ErrCrewRequirementUnmet).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/flights/123/crew", model.AssignCrewRequest{
			StaffID: 7,
			Role:    model.CrewRoleAttendant,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - StaffNotFound", func(t *testing.T) {
		mockService := services.NewCrewServiceMock()
		router := setupCrewTestRouter(mockService)

		mockService.On("Assign", mock.Anything, 123, mock.Anything).Return(apperrors.ErrStaffNotFound).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/flights/123/crew", model.AssignCrewRequest{
			StaffID: 99999,
			Role:    model.CrewRolePilot,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		mockService := services.NewCrewServiceMock()
		router := setupCrewTestRouter(mockService)

		req := createJSONHTTPRequest("POST", "/api/v1/flights/123/crew", InvalidJSON)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Assign")
	})
}

func TestUnassignCrew(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewCrewServiceMock()
		router := setupCrewTestRouter(mockService)

		mockService.On("Unassign", mock.Anything, 123, 7, model.CrewRolePilot).Return(nil).Once()

		req := httptest.NewRequest("DELETE", "/api/v1/flights/123/crew/7?role=pilot", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidStaffID", func(t *testing.T) {
		mockService := services.NewCrewServiceMock()
		router := setupCrewTestRouter(mockService)

		req := httptest.NewRequest("DELETE", "/api/v1/flights/123/crew/invalid?role=pilot", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Unassign")
	})
}

func TestGetAvailableCrew(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewCrewServiceMock()
		router := setupCrewTestRouter(mockService)

		mockService.On("ListAvailable", mock.Anything, 123).Return(&model.AvailableCrew{
			Pilots:     []*model.Staff{{ID: 1, FirstName: "Dana", LastName: "Levi", LongHaulCertified: true}},
			Attendants: []*model.Staff{{ID: 2, FirstName: "Noa", LastName: "Katz"}},
		}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/flights/123/crew/available", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("FlightNotFound", func(t *testing.T) {
		mockService := services.NewCrewServiceMock()
		router := setupCrewTestRouter(mockService)

		mockService.On("ListAvailable", mock.Anything, 99999).Return(nil, apperrors.ErrFlightNotFound).Once()

		req := httptest.NewRequest("GET", "/api/v1/flights/99999/crew/available", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestValidateCrew(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewCrewServiceMock()
		router := setupCrewTestRouter(mockService)

		mockService.On("Validate", mock.Anything, 123).Return(&model.CrewValidation{
			Required:  model.CrewRequirement{Pilots: 2, Attendants: 3},
			Assigned:  model.CrewRequirement{Pilots: 2, Attendants: 3},
			Satisfied: true,
		}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/flights/123/crew/validate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"satisfied":true`)
		mockService.AssertExpectations(t)
	})
}
