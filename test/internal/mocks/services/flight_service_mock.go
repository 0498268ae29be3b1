package services

import (
	"context"

	"flytau/internal/model"

	"github.com/stretchr/testify/mock"
)

type FlightServiceMock struct {
	mock.Mock
}

func NewFlightServiceMock() *FlightServiceMock {
	return &FlightServiceMock{}
}

func (m *FlightServiceMock) Create(ctx context.Context, req model.CreateFlightRequest) (*model.Flight, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *FlightServiceMock) GetByID(ctx context.Context, id int) (*model.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *FlightServiceMock) Search(ctx context.Context, req model.SearchFlightsRequest) ([]*model.FlightSearchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FlightSearchResult), args.Error(1)
}

func (m *FlightServiceMock) UpdateClassPrice(ctx context.Context, flightID int, req model.UpdateClassPriceRequest) error {
	args := m.Called(ctx, flightID, req)
	return args.Error(0)
}

func (m *FlightServiceMock) SetSeatStatus(ctx context.Context, flightID int, slotID int, req model.UpdateSeatStatusRequest) error {
	args := m.Called(ctx, flightID, slotID, req)
	return args.Error(0)
}

func (m *FlightServiceMock) Cancel(ctx context.Context, flightID int) error {
	args := m.Called(ctx, flightID)
	return args.Error(0)
}
