package services

import (
	"context"

	"flytau/internal/model"

	"github.com/stretchr/testify/mock"
)

type ReportServiceMock struct {
	mock.Mock
}

func NewReportServiceMock() *ReportServiceMock {
	return &ReportServiceMock{}
}

func (m *ReportServiceMock) LoadFactor(ctx context.Context) ([]*model.LoadFactorRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LoadFactorRow), args.Error(1)
}

func (m *ReportServiceMock) Revenue(ctx context.Context) ([]*model.RevenueRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RevenueRow), args.Error(1)
}

func (m *ReportServiceMock) EmployeeHours(ctx context.Context) ([]*model.EmployeeHoursRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EmployeeHoursRow), args.Error(1)
}

func (m *ReportServiceMock) CancellationRate(ctx context.Context) ([]*model.CancellationRateRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CancellationRateRow), args.Error(1)
}

func (m *ReportServiceMock) AircraftMonthly(ctx context.Context) ([]*model.AircraftMonthlyRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AircraftMonthlyRow), args.Error(1)
}
