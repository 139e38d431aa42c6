package service

import (
	"context"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// KitchenService serves the read-only kitchen views.
type KitchenService struct {
	kitchen KitchenStore
}

func NewKitchenService(s Stores) *KitchenService {
	return &KitchenService{kitchen: s.Kitchen}
}

// Units lists units of active orders in one kitchen status, oldest first.
// An empty status means pending.
func (s *KitchenService) Units(ctx context.Context, tenantID uint64, status string) ([]model.KitchenUnit, model.UnitStatus, error) {
	if status == "" {
		status = string(model.UnitPending)
	}
	st, ok := model.ParseUnitStatus(status, model.KitchenUnitStatuses)
	if !ok {
		return nil, "", Validation("status must be one of: " + model.JoinUnitStatuses(model.KitchenUnitStatuses))
	}
	units, err := s.kitchen.ListUnits(ctx, tenantID, st)
	if err != nil {
		return nil, "", Internal(err)
	}
	return units, st, nil
}

// Dashboard gathers unit counts, today's popular products and the oldest
// orders still waiting on the kitchen.
func (s *KitchenService) Dashboard(ctx context.Context, tenantID uint64) (model.Dashboard, error) {
	stats, err := s.kitchen.Stats(ctx, tenantID)
	if err != nil {
		return model.Dashboard{}, Internal(err)
	}
	popular, err := s.kitchen.PopularToday(ctx, tenantID)
	if err != nil {
		return model.Dashboard{}, Internal(err)
	}
	oldest, err := s.kitchen.OldestPending(ctx, tenantID)
	if err != nil {
		return model.Dashboard{}, Internal(err)
	}
	return model.Dashboard{Stats: stats, PopularProducts: popular, OldestPendingOrders: oldest}, nil
}
