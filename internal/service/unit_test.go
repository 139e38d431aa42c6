package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

func (f *fixture) itemWithUnits(t *testing.T, n int) (model.Order, model.OrderItem, []model.OrderItemUnit) {
	t.Helper()
	ctx := context.Background()
	o := f.openOnTable(t)
	it, err := f.orders.AddItem(ctx, f.tenant, o.ID, AddItemInput{ProductID: f.burger.ID, Quantity: n})
	require.NoError(t, err)
	units, err := f.units.Create(ctx, f.tenant, o.ID, it.ID, n)
	require.NoError(t, err)
	return o, it, units
}

func TestCreateUnits_Quantity(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	o := f.openOnTable(t)
	it, err := f.orders.AddItem(ctx, f.tenant, o.ID, AddItemInput{ProductID: f.burger.ID, Quantity: 1})
	require.NoError(t, err)

	units, err := f.units.Create(ctx, f.tenant, o.ID, it.ID, 0)
	require.NoError(t, err)
	assert.Len(t, units, 1)

	for _, q := range []int{-1, 101} {
		_, err = f.units.Create(ctx, f.tenant, o.ID, it.ID, q)
		assertKind(t, KindValidation, err)
	}

	units, err = f.units.Create(ctx, f.tenant, o.ID, it.ID, 100)
	require.NoError(t, err)
	seen := map[uint64]bool{}
	for _, u := range units {
		assert.Equal(t, model.UnitPending, u.Status)
		seen[u.ID] = true
	}
	assert.Len(t, seen, 100)
}

func TestCreateUnits_NotFound(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	o, it, _ := f.itemWithUnits(t, 1)

	_, err := f.units.Create(ctx, f.tenant, 999, it.ID, 1)
	assertKind(t, KindNotFound, err)

	_, err = f.units.Create(ctx, f.tenant, o.ID, 999, 1)
	assertKind(t, KindNotFound, err)

	// the item exists but on another order
	other, err := f.orders.Open(ctx, f.id, OpenOrderInput{Type: "takeout"})
	require.NoError(t, err)
	_, err = f.units.Create(ctx, f.tenant, other.ID, it.ID, 1)
	assertKind(t, KindNotFound, err)
}

func TestCreateUnits_AllOrNothing(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	o, it, _ := f.itemWithUnits(t, 1)
	before := len(f.db.units)

	f.db.fail["units.CreateBulk"] = errors.New("deadlock")
	_, err := f.units.Create(ctx, f.tenant, o.ID, it.ID, 3)
	assertKind(t, KindInternal, err)
	assert.Len(t, f.db.units, before)
}

func TestCreateUnits_AllowedOnClosedOrder(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	o, it, _ := f.itemWithUnits(t, 1)
	require.NoError(t, f.orders.Close(ctx, f.tenant, o.ID))

	units, err := f.units.Create(ctx, f.tenant, o.ID, it.ID, 1)
	require.NoError(t, err)
	assert.Len(t, units, 1)
}

func TestSetStatus_NotificationOnlyOnReady(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, _, units := f.itemWithUnits(t, 2)

	for _, st := range []string{"preparing", "pending", "delivered"} {
		u, err := f.units.SetStatus(ctx, f.tenant, units[0].ID, st, ScopeGeneral)
		require.NoError(t, err)
		assert.Equal(t, model.UnitStatus(st), u.Status)
	}
	assert.Empty(t, f.db.notifications)
	assert.Empty(t, f.events.events)

	_, err := f.units.SetStatus(ctx, f.tenant, units[1].ID, "ready", ScopeGeneral)
	require.NoError(t, err)
	require.Len(t, f.db.notifications, 1)
	n := f.db.notifications[0]
	assert.Equal(t, "Product ready", n.Title)
	assert.Equal(t, `"Burger" is ready to serve`, n.Message)
	assert.Equal(t, model.NotificationOrderReady, n.Type)
	require.NotNil(t, n.UserID)
	assert.Equal(t, f.waiter.ID, *n.UserID)
	assert.False(t, n.IsRead)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, units[1].ID, f.events.events[0].UnitID)
	assert.Equal(t, "Burger", f.events.events[0].ProductName)
}

func TestSetStatus_Scopes(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, _, units := f.itemWithUnits(t, 1)

	_, err := f.units.SetStatus(ctx, f.tenant, units[0].ID, "delivered", ScopeKitchen)
	assertKind(t, KindValidation, err)
	_, err = f.units.SetStatus(ctx, f.tenant, units[0].ID, "burnt", ScopeGeneral)
	assertKind(t, KindValidation, err)
	_, err = f.units.SetStatus(ctx, f.tenant, units[0].ID, "", ScopeGeneral)
	assertKind(t, KindValidation, err)

	_, err = f.units.SetStatus(ctx, f.tenant, 999, "ready", ScopeGeneral)
	assertKind(t, KindNotFound, err)

	other := f.db.addTenant("Other")
	_, err = f.units.SetStatus(ctx, other, units[0].ID, "ready", ScopeGeneral)
	assertKind(t, KindNotFound, err)
	assert.Empty(t, f.db.notifications)
}

func TestSetStatus_FreeAssignmentByDefault(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, _, units := f.itemWithUnits(t, 1)

	u, err := f.units.SetStatus(ctx, f.tenant, units[0].ID, "delivered", ScopeGeneral)
	require.NoError(t, err)
	assert.Equal(t, model.UnitDelivered, u.Status)

	u, err = f.units.SetStatus(ctx, f.tenant, units[0].ID, "pending", ScopeGeneral)
	require.NoError(t, err)
	assert.Equal(t, model.UnitPending, u.Status)
}

func TestSetStatus_StrictTransitions(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, _, units := f.itemWithUnits(t, 1)
	id := units[0].ID

	_, err := f.units.SetStatus(ctx, f.tenant, id, "ready", ScopeGeneral)
	assertKind(t, KindInvalidState, err)

	for _, st := range []string{"preparing", "ready", "delivered"} {
		_, err := f.units.SetStatus(ctx, f.tenant, id, st, ScopeGeneral)
		require.NoError(t, err, st)
	}
	_, err = f.units.SetStatus(ctx, f.tenant, id, "pending", ScopeGeneral)
	assertKind(t, KindInvalidState, err)
	assert.Len(t, f.db.notifications, 1)
}

func TestSetStatus_NotificationFailureRollsBack(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, _, units := f.itemWithUnits(t, 1)

	f.db.fail["notifications.Create"] = errors.New("timeout")
	_, err := f.units.SetStatus(ctx, f.tenant, units[0].ID, "ready", ScopeKitchen)
	assertKind(t, KindInternal, err)
	assert.Equal(t, model.UnitPending, f.db.units[units[0].ID].Status)
	assert.Empty(t, f.events.events)
}

func TestSetStatus_PublishFailureIsIgnored(t *testing.T) {
	f := newFixture(t, false)
	f.events.err = errors.New("broker down")
	_, _, units := f.itemWithUnits(t, 1)

	u, err := f.units.SetStatus(context.Background(), f.tenant, units[0].ID, "ready", ScopeKitchen)
	require.NoError(t, err)
	assert.Equal(t, model.UnitReady, u.Status)
	assert.Len(t, f.db.notifications, 1)
}

func TestDeleteUnit(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, _, units := f.itemWithUnits(t, 2)

	_, err := f.units.SetStatus(ctx, f.tenant, units[0].ID, "delivered", ScopeGeneral)
	require.NoError(t, err)
	require.NoError(t, f.units.Delete(ctx, f.tenant, units[0].ID))
	assert.NotContains(t, f.db.units, units[0].ID)

	assertKind(t, KindNotFound, f.units.Delete(ctx, f.tenant, units[0].ID))

	other := f.db.addTenant("Other")
	assertKind(t, KindNotFound, f.units.Delete(ctx, other, units[1].ID))
	assert.Contains(t, f.db.units, units[1].ID)
}
