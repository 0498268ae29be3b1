package services

import (
	"context"

	"flytau/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type InventoryServiceMock struct {
	mock.Mock
}

func NewInventoryServiceMock() *InventoryServiceMock {
	return &InventoryServiceMock{}
}

func (m *InventoryServiceMock) ListSeats(ctx context.Context, flightID int) ([]*model.FlightSeat, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FlightSeat), args.Error(1)
}

func (m *InventoryServiceMock) ListSelectable(ctx context.Context, flightID int, sessionID string) ([]*model.FlightSeat, error) {
	args := m.Called(ctx, flightID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FlightSeat), args.Error(1)
}

func (m *InventoryServiceMock) SelectSeats(ctx context.Context, flightID int, req model.SelectSeatsRequest) (string, error) {
	args := m.Called(ctx, flightID, req)
	return args.String(0), args.Error(1)
}

func (m *InventoryServiceMock) ReleaseSelection(ctx context.Context, flightID int, seatIDs []int, sessionID string) error {
	args := m.Called(ctx, flightID, seatIDs, sessionID)
	return args.Error(0)
}

func (m *InventoryServiceMock) GetAvailability(ctx context.Context, flightID int) (int, error) {
	args := m.Called(ctx, flightID)
	return args.Int(0), args.Error(1)
}

func (m *InventoryServiceMock) RefreshAvailability(ctx context.Context, flightID int) error {
	args := m.Called(ctx, flightID)
	return args.Error(0)
}

func (m *InventoryServiceMock) Sell(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) ([]*model.FlightSeat, error) {
	args := m.Called(ctx, tx, flightID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FlightSeat), args.Error(1)
}

func (m *InventoryServiceMock) Release(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) error {
	args := m.Called(ctx, tx, flightID, seatIDs)
	return args.Error(0)
}

func (m *InventoryServiceMock) BlockForOrder(ctx context.Context, tx pgx.Tx, orderID int) error {
	args := m.Called(ctx, tx, orderID)
	return args.Error(0)
}

func (m *InventoryServiceMock) SetSlotStatus(ctx context.Context, tx pgx.Tx, flightID int, slotID int, status model.SeatStatus) error {
	args := m.Called(ctx, tx, flightID, slotID, status)
	return args.Error(0)
}

func (m *InventoryServiceMock) SyncFlightOccupancy(ctx context.Context, tx pgx.Tx, flight *model.Flight) error {
	args := m.Called(ctx, tx, flight)
	return args.Error(0)
}
