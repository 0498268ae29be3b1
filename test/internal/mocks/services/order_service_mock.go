package services

import (
	"context"

	"flytau/internal/model"

	"github.com/stretchr/testify/mock"
)

type OrderServiceMock struct {
	mock.Mock
}

func NewOrderServiceMock() *OrderServiceMock {
	return &OrderServiceMock{}
}

func (m *OrderServiceMock) Create(ctx context.Context, req model.CreateOrderRequest) (*model.OrderSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderSummary), args.Error(1)
}

func (m *OrderServiceMock) GetByCode(ctx context.Context, code string) (*model.OrderSummary, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderSummary), args.Error(1)
}

func (m *OrderServiceMock) ListByCustomer(ctx context.Context, email string, status *model.OrderStatus) ([]*model.OrderSummary, error) {
	args := m.Called(ctx, email, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OrderSummary), args.Error(1)
}

func (m *OrderServiceMock) CancelByCustomer(ctx context.Context, code string) (*model.CancelResult, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CancelResult), args.Error(1)
}
