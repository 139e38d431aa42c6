package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/restaurant-orders/internal/model"
	"github.com/iliyamo/restaurant-orders/internal/queue"
	"github.com/iliyamo/restaurant-orders/internal/repository"
)

// memDB is an in-memory stand-in for the MySQL repositories.  WithinTx
// snapshots every table and restores it when fn fails, which is enough to
// observe atomicity in tests.
type memDB struct {
	seq           uint64
	clock         time.Time
	tenants       map[uint64]model.Tenant
	users         map[uint64]model.User
	tokens        map[string]memToken
	tables        map[uint64]model.Table
	products      map[uint64]model.Product
	orders        map[uint64]model.Order
	items         map[uint64]model.OrderItem
	units         map[uint64]model.OrderItemUnit
	notifications []model.Notification

	// fail makes the named operation return the error once.
	fail map[string]error
	txs  int
}

type memToken struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

func newMemDB() *memDB {
	return &memDB{
		clock:    time.Now().UTC().Truncate(time.Second),
		tenants:  map[uint64]model.Tenant{},
		users:    map[uint64]model.User{},
		tokens:   map[string]memToken{},
		tables:   map[uint64]model.Table{},
		products: map[uint64]model.Product{},
		orders:   map[uint64]model.Order{},
		items:    map[uint64]model.OrderItem{},
		units:    map[uint64]model.OrderItemUnit{},
		fail:     map[string]error{},
	}
}

func (db *memDB) stores() Stores {
	return Stores{
		Tenants:       memTenants{db},
		Users:         memUsers{db},
		Tokens:        memTokens{db},
		Tables:        memTables{db},
		Products:      memProducts{db},
		Orders:        memOrders{db},
		Items:         memItems{db},
		Units:         memUnits{db},
		Notifications: memNotifications{db},
		Kitchen:       memKitchen{db},
	}
}

func (db *memDB) nextID() uint64 { db.seq++; return db.seq }

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) failed(op string) error {
	if err, ok := db.fail[op]; ok {
		delete(db.fail, op)
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *memDB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.txs++
	snap := *db
	snap.tenants = cloneMap(db.tenants)
	snap.users = cloneMap(db.users)
	snap.tokens = cloneMap(db.tokens)
	snap.tables = cloneMap(db.tables)
	snap.products = cloneMap(db.products)
	snap.orders = cloneMap(db.orders)
	snap.items = cloneMap(db.items)
	snap.units = cloneMap(db.units)
	snap.notifications = append([]model.Notification(nil), db.notifications...)
	if err := fn(ctx); err != nil {
		fail, txs := db.fail, db.txs
		*db = snap
		db.fail, db.txs = fail, txs
		return err
	}
	return nil
}

// seed helpers

func (db *memDB) addTenant(name string) uint64 {
	id := db.nextID()
	db.tenants[id] = model.Tenant{ID: id, Name: name, IsActive: true}
	return id
}

func (db *memDB) addUser(tenantID uint64, username string, role model.Role, hash string) model.User {
	id := db.nextID()
	u := model.User{ID: id, TenantID: tenantID, TenantName: db.tenants[tenantID].Name, Username: username,
		Email: username + "@example.com", PasswordHash: hash, FirstName: username, Role: role, IsActive: true}
	db.users[id] = u
	return u
}

func (db *memDB) addTable(tenantID uint64, number int) model.Table {
	id := db.nextID()
	t := model.Table{ID: id, TenantID: tenantID, Number: number, Capacity: 4, Status: model.TableAvailable}
	db.tables[id] = t
	return t
}

func (db *memDB) addProduct(tenantID uint64, name, price string, available bool) model.Product {
	id := db.nextID()
	p := model.Product{ID: id, TenantID: tenantID, Name: name, Price: decimal.RequireFromString(price), Available: available}
	db.products[id] = p
	return p
}

func (db *memDB) notificationsFor(tenantID uint64) []model.Notification {
	var out []model.Notification
	for _, n := range db.notifications {
		if n.TenantID == tenantID {
			out = append(out, n)
		}
	}
	return out
}

type memTenants struct{ db *memDB }

func (s memTenants) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := s.db.tenants[id]
	return ok, nil
}

type memUsers struct{ db *memDB }

func (s memUsers) Create(_ context.Context, nu model.NewUser) (model.User, error) {
	for _, u := range s.db.users {
		if u.Username == nu.Username || u.Email == nu.Email {
			return model.User{}, repository.ErrDuplicate
		}
	}
	id := s.db.nextID()
	u := model.User{ID: id, TenantID: nu.TenantID, TenantName: s.db.tenants[nu.TenantID].Name, Username: nu.Username,
		Email: nu.Email, PasswordHash: nu.PasswordHash, FirstName: nu.FirstName, LastName: nu.LastName,
		Role: nu.Role, IsActive: true}
	s.db.users[id] = u
	return u, nil
}

func (s memUsers) GetActiveByLogin(_ context.Context, identifier string) (model.User, error) {
	for _, u := range s.db.users {
		if u.IsActive && (u.Username == identifier || u.Email == identifier) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	if u, ok := s.db.users[id]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s memUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range s.db.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range s.db.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type memTokens struct{ db *memDB }

func (s memTokens) StoreRefresh(_ context.Context, userID uint64, hash string, exp time.Time) error {
	s.db.tokens[hash] = memToken{userID: userID, exp: exp}
	return nil
}

func (s memTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	t, ok := s.db.tokens[hash]
	if !ok || t.revoked || time.Now().After(t.exp) {
		return 0, repository.ErrNotFound
	}
	return t.userID, nil
}

func (s memTokens) RevokeByHash(_ context.Context, hash string) error {
	if t, ok := s.db.tokens[hash]; ok {
		t.revoked = true
		s.db.tokens[hash] = t
	}
	return nil
}

type memTables struct{ db *memDB }

func (s memTables) GetForUpdate(_ context.Context, tenantID, tableID uint64) (model.Table, error) {
	t, ok := s.db.tables[tableID]
	if !ok || t.TenantID != tenantID {
		return model.Table{}, repository.ErrNotFound
	}
	return t, nil
}

func (s memTables) SetStatus(_ context.Context, tableID uint64, status model.TableStatus) error {
	if err := s.db.failed("tables.SetStatus"); err != nil {
		return err
	}
	t := s.db.tables[tableID]
	t.Status = status
	s.db.tables[tableID] = t
	return nil
}

type memProducts struct{ db *memDB }

func (s memProducts) GetByID(_ context.Context, tenantID, productID uint64) (model.Product, error) {
	p, ok := s.db.products[productID]
	if !ok || p.TenantID != tenantID {
		return model.Product{}, repository.ErrNotFound
	}
	return p, nil
}

type memOrders struct{ db *memDB }

func (s memOrders) Create(ctx context.Context, o model.Order) (model.Order, error) {
	o.ID = s.db.nextID()
	o.CreatedAt = s.db.tick()
	o.UpdatedAt = o.CreatedAt
	s.db.orders[o.ID] = o
	return s.Get(ctx, o.TenantID, o.ID)
}

func (s memOrders) Get(_ context.Context, tenantID, orderID uint64) (model.Order, error) {
	o, ok := s.db.orders[orderID]
	if !ok || o.TenantID != tenantID {
		return model.Order{}, repository.ErrNotFound
	}
	return s.db.joined(o), nil
}

func (db *memDB) joined(o model.Order) model.Order {
	if o.WaiterID != nil {
		if u, ok := db.users[*o.WaiterID]; ok {
			name := u.FirstName
			o.WaiterName = &name
		}
	}
	if o.TableID != nil {
		if t, ok := db.tables[*o.TableID]; ok {
			n := t.Number
			o.TableNumber = &n
		}
	}
	return o
}

func (s memOrders) GetForUpdate(ctx context.Context, tenantID, orderID uint64) (model.Order, error) {
	o, ok := s.db.orders[orderID]
	if !ok || o.TenantID != tenantID {
		return model.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (s memOrders) List(_ context.Context, tenantID uint64, f model.OrderFilter) ([]model.OrderSummary, error) {
	var all []model.OrderSummary
	for _, o := range s.db.orders {
		if o.TenantID != tenantID || (f.Status != nil && o.Status != *f.Status) {
			continue
		}
		n := 0
		for _, it := range s.db.items {
			if it.OrderID == o.ID {
				n++
			}
		}
		all = append(all, model.OrderSummary{Order: s.db.joined(o), ItemsCount: n})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if f.Offset >= len(all) {
		return []model.OrderSummary{}, nil
	}
	all = all[f.Offset:]
	if len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, nil
}

func (s memOrders) UpdateTotals(_ context.Context, orderID uint64, t model.Totals) error {
	o := s.db.orders[orderID]
	o.Subtotal, o.Tax, o.Total = t.Subtotal, t.Tax, t.Total
	s.db.orders[orderID] = o
	return nil
}

func (s memOrders) SetStatus(_ context.Context, orderID uint64, status model.OrderStatus) error {
	o := s.db.orders[orderID]
	o.Status = status
	s.db.orders[orderID] = o
	return nil
}

func (s memOrders) Delete(_ context.Context, orderID uint64) error {
	if _, ok := s.db.orders[orderID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.orders, orderID)
	for id, it := range s.db.items {
		if it.OrderID != orderID {
			continue
		}
		delete(s.db.items, id)
		for uid, u := range s.db.units {
			if u.OrderItemID == id {
				delete(s.db.units, uid)
			}
		}
	}
	return nil
}

type memItems struct{ db *memDB }

func (s memItems) Create(_ context.Context, it model.OrderItem) (model.OrderItem, error) {
	if err := s.db.failed("items.Create"); err != nil {
		return model.OrderItem{}, err
	}
	it.ID = s.db.nextID()
	it.CreatedAt = s.db.tick()
	it.UpdatedAt = it.CreatedAt
	s.db.items[it.ID] = it
	return it, nil
}

func (s memItems) GetForOrder(_ context.Context, orderID, itemID uint64) (model.OrderItem, error) {
	it, ok := s.db.items[itemID]
	if !ok || it.OrderID != orderID {
		return model.OrderItem{}, repository.ErrNotFound
	}
	return it, nil
}

func (s memItems) Update(_ context.Context, it model.OrderItem) error {
	s.db.items[it.ID] = it
	return nil
}

func (s memItems) ListByOrder(_ context.Context, orderID uint64) ([]model.OrderItem, error) {
	out := []model.OrderItem{}
	for _, it := range s.db.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memUnits struct{ db *memDB }

func (s memUnits) CreateBulk(_ context.Context, itemID uint64, n int) ([]model.OrderItemUnit, error) {
	out := make([]model.OrderItemUnit, 0, n)
	for i := 0; i < n; i++ {
		if i == n-1 {
			if err := s.db.failed("units.CreateBulk"); err != nil {
				return nil, err
			}
		}
		u := model.OrderItemUnit{ID: s.db.nextID(), OrderItemID: itemID, Status: model.UnitPending, CreatedAt: s.db.tick()}
		u.UpdatedAt = u.CreatedAt
		s.db.units[u.ID] = u
		out = append(out, u)
	}
	return out, nil
}

func (s memUnits) ListByOrder(_ context.Context, orderID uint64) (map[uint64][]model.OrderItemUnit, error) {
	out := map[uint64][]model.OrderItemUnit{}
	for _, u := range s.db.units {
		if it, ok := s.db.items[u.OrderItemID]; ok && it.OrderID == orderID {
			out[u.OrderItemID] = append(out[u.OrderItemID], u)
		}
	}
	for k := range out {
		us := out[k]
		sort.Slice(us, func(i, j int) bool { return us[i].ID < us[j].ID })
	}
	return out, nil
}

func (s memUnits) GetRefForUpdate(_ context.Context, tenantID, unitID uint64) (model.UnitRef, error) {
	u, ok := s.db.units[unitID]
	if !ok {
		return model.UnitRef{}, repository.ErrNotFound
	}
	it := s.db.items[u.OrderItemID]
	o, ok := s.db.orders[it.OrderID]
	if !ok || o.TenantID != tenantID {
		return model.UnitRef{}, repository.ErrNotFound
	}
	return model.UnitRef{Unit: u, OrderID: o.ID, OrderStatus: o.Status, WaiterID: o.WaiterID, ProductName: it.ProductName}, nil
}

func (s memUnits) SetStatus(_ context.Context, unitID uint64, status model.UnitStatus) (model.OrderItemUnit, error) {
	u := s.db.units[unitID]
	u.Status = status
	u.UpdatedAt = s.db.tick()
	s.db.units[unitID] = u
	return u, nil
}

func (s memUnits) Delete(_ context.Context, unitID uint64) error {
	if _, ok := s.db.units[unitID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.units, unitID)
	return nil
}

type memNotifications struct{ db *memDB }

func (s memNotifications) Create(_ context.Context, n *model.Notification) error {
	if err := s.db.failed("notifications.Create"); err != nil {
		return err
	}
	n.ID = s.db.nextID()
	n.CreatedAt = s.db.tick()
	s.db.notifications = append(s.db.notifications, *n)
	return nil
}

type memKitchen struct{ db *memDB }

type memUnitRow struct {
	unit  model.OrderItemUnit
	item  model.OrderItem
	order model.Order
}

func (s memKitchen) activeUnits(tenantID uint64) []memUnitRow {
	var out []memUnitRow
	for _, u := range s.db.units {
		it := s.db.items[u.OrderItemID]
		o, ok := s.db.orders[it.OrderID]
		if !ok || o.TenantID != tenantID || o.Status.IsTerminal() {
			continue
		}
		out = append(out, memUnitRow{u, it, o})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].unit.ID < out[j].unit.ID })
	return out
}

func (s memKitchen) ListUnits(_ context.Context, tenantID uint64, status model.UnitStatus) ([]model.KitchenUnit, error) {
	out := []model.KitchenUnit{}
	for _, r := range s.activeUnits(tenantID) {
		if r.unit.Status != status {
			continue
		}
		o := s.db.joined(r.order)
		out = append(out, model.KitchenUnit{
			UnitID: r.unit.ID, UnitStatus: r.unit.Status, UnitCreatedAt: r.unit.CreatedAt,
			ItemID: r.item.ID, ProductName: r.item.ProductName, Quantity: r.item.Quantity, ItemNotes: r.item.Notes,
			OrderID: o.ID, CustomerName: o.CustomerName, OrderType: o.Type, TableNumber: o.TableNumber,
			WaiterName: o.WaiterName, OrderCreatedAt: o.CreatedAt,
		})
	}
	return out, nil
}

func (s memKitchen) Stats(_ context.Context, tenantID uint64) (model.KitchenStats, error) {
	var st model.KitchenStats
	orders := map[uint64]bool{}
	for _, r := range s.activeUnits(tenantID) {
		switch r.unit.Status {
		case model.UnitPending:
			st.PendingUnits++
		case model.UnitPreparing:
			st.PreparingUnits++
		case model.UnitReady:
			st.ReadyUnits++
		}
		orders[r.order.ID] = true
	}
	st.ActiveOrders = len(orders)
	return st, nil
}

func (s memKitchen) PopularToday(_ context.Context, tenantID uint64) ([]model.PopularProduct, error) {
	byName := map[string]*model.PopularProduct{}
	for _, it := range s.db.items {
		o, ok := s.db.orders[it.OrderID]
		if !ok || o.TenantID != tenantID || o.Status == model.OrderCancelled {
			continue
		}
		p := byName[it.ProductName]
		if p == nil {
			p = &model.PopularProduct{ProductName: it.ProductName}
			byName[it.ProductName] = p
		}
		p.OrderCount++
		p.TotalQuantity += it.Quantity
	}
	out := []model.PopularProduct{}
	for _, p := range byName {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalQuantity > out[j].TotalQuantity })
	if len(out) > 10 {
		out = out[:10]
	}
	return out, nil
}

func (s memKitchen) OldestPending(_ context.Context, tenantID uint64) ([]model.PendingOrder, error) {
	byOrder := map[uint64]*model.PendingOrder{}
	for _, r := range s.activeUnits(tenantID) {
		if r.unit.Status != model.UnitPending {
			continue
		}
		p := byOrder[r.order.ID]
		if p == nil {
			o := s.db.joined(r.order)
			p = &model.PendingOrder{OrderID: o.ID, CustomerName: o.CustomerName, TableNumber: o.TableNumber,
				OldestUnitTime: r.unit.CreatedAt}
			byOrder[r.order.ID] = p
		}
		p.PendingUnits++
		if r.unit.CreatedAt.Before(p.OldestUnitTime) {
			p.OldestUnitTime = r.unit.CreatedAt
		}
	}
	out := []model.PendingOrder{}
	for _, p := range byOrder {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OldestUnitTime.Before(out[j].OldestUnitTime) })
	if len(out) > 5 {
		out = out[:5]
	}
	return out, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []queue.UnitReadyEvent
	err    error
}

func (p *recordingPublisher) PublishUnitReady(_ context.Context, ev queue.UnitReadyEvent) error {
	p.events = append(p.events, ev)
	return p.err
}
