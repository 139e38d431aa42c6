package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/restaurant-orders/internal/model"
	"github.com/iliyamo/restaurant-orders/internal/service"
)

type authMock struct{ mock.Mock }

func (m *authMock) Login(ctx context.Context, identifier, password string) (service.Session, error) {
	args := m.Called(ctx, identifier, password)
	return args.Get(0).(service.Session), args.Error(1)
}

func (m *authMock) Register(ctx context.Context, in service.RegisterInput) (model.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *authMock) Me(ctx context.Context, userID uint64) (model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *authMock) Refresh(ctx context.Context, raw string) (service.Session, error) {
	args := m.Called(ctx, raw)
	return args.Get(0).(service.Session), args.Error(1)
}

func (m *authMock) Logout(ctx context.Context, raw string) error {
	return m.Called(ctx, raw).Error(0)
}

type orderMock struct{ mock.Mock }

func (m *orderMock) Open(ctx context.Context, id model.Identity, in service.OpenOrderInput) (model.Order, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderMock) List(ctx context.Context, tenantID uint64, in service.ListOrdersInput) ([]model.OrderSummary, model.OrderFilter, error) {
	args := m.Called(ctx, tenantID, in)
	list, _ := args.Get(0).([]model.OrderSummary)
	return list, args.Get(1).(model.OrderFilter), args.Error(2)
}

func (m *orderMock) Get(ctx context.Context, tenantID, orderID uint64) (model.OrderDetail, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).(model.OrderDetail), args.Error(1)
}

func (m *orderMock) AddItem(ctx context.Context, tenantID, orderID uint64, in service.AddItemInput) (model.OrderItem, error) {
	args := m.Called(ctx, tenantID, orderID, in)
	return args.Get(0).(model.OrderItem), args.Error(1)
}

func (m *orderMock) UpdateItem(ctx context.Context, tenantID, orderID, itemID uint64, in service.UpdateItemInput) (model.OrderItem, error) {
	args := m.Called(ctx, tenantID, orderID, itemID, in)
	return args.Get(0).(model.OrderItem), args.Error(1)
}

func (m *orderMock) Close(ctx context.Context, tenantID, orderID uint64) error {
	return m.Called(ctx, tenantID, orderID).Error(0)
}

func (m *orderMock) Delete(ctx context.Context, tenantID, orderID uint64) error {
	return m.Called(ctx, tenantID, orderID).Error(0)
}

type unitMock struct{ mock.Mock }

func (m *unitMock) Create(ctx context.Context, tenantID, orderID, itemID uint64, quantity int) ([]model.OrderItemUnit, error) {
	args := m.Called(ctx, tenantID, orderID, itemID, quantity)
	units, _ := args.Get(0).([]model.OrderItemUnit)
	return units, args.Error(1)
}

func (m *unitMock) SetStatus(ctx context.Context, tenantID, unitID uint64, status string, scope service.StatusScope) (model.OrderItemUnit, error) {
	args := m.Called(ctx, tenantID, unitID, status, scope)
	return args.Get(0).(model.OrderItemUnit), args.Error(1)
}

func (m *unitMock) Delete(ctx context.Context, tenantID, unitID uint64) error {
	return m.Called(ctx, tenantID, unitID).Error(0)
}

type kitchenMock struct{ mock.Mock }

func (m *kitchenMock) Units(ctx context.Context, tenantID uint64, status string) ([]model.KitchenUnit, model.UnitStatus, error) {
	args := m.Called(ctx, tenantID, status)
	units, _ := args.Get(0).([]model.KitchenUnit)
	return units, args.Get(1).(model.UnitStatus), args.Error(2)
}

func (m *kitchenMock) Dashboard(ctx context.Context, tenantID uint64) (model.Dashboard, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(model.Dashboard), args.Error(1)
}
