package services

import (
	"context"

	"flytau/internal/model"

	"github.com/stretchr/testify/mock"
)

type CrewServiceMock struct {
	mock.Mock
}

func NewCrewServiceMock() *CrewServiceMock {
	return &CrewServiceMock{}
}

func (m *CrewServiceMock) Assign(ctx context.Context, flightID int, req model.AssignCrewRequest) error {
	args := m.Called(ctx, flightID, req)
	return args.Error(0)
}

func (m *CrewServiceMock) Unassign(ctx context.Context, flightID int, staffID int, role model.CrewRole) error {
	args := m.Called(ctx, flightID, staffID, role)
	return args.Error(0)
}

func (m *CrewServiceMock) ListAvailable(ctx context.Context, flightID int) (*model.AvailableCrew, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AvailableCrew), args.Error(1)
}

func (m *CrewServiceMock) Validate(ctx context.Context, flightID int) (*model.CrewValidation, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CrewValidation), args.Error(1)
}
