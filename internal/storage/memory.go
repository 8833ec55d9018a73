package storage

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pcparts-backend/internal/models"
)

// MemStore keeps everything in maps behind a RWMutex. It backs the tests
// and runs the server without a database when needed.
type MemStore struct {
	mu sync.RWMutex

	users  map[primitive.ObjectID]models.User
	items  map[primitive.ObjectID]models.InventoryItem
	carts  map[primitive.ObjectID]models.Cart
	orders []models.Order
}

func NewMemStore() *MemStore {
	return &MemStore{
		users: make(map[primitive.ObjectID]models.User),
		items: make(map[primitive.ObjectID]models.InventoryItem),
		carts: make(map[primitive.ObjectID]models.Cart),
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

// ----- Users -----

func (s *MemStore) InsertUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
	}
	user.ID = primitive.NewObjectID()
	s.users[user.ID] = *user
	return nil
}

func (s *MemStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// ----- Inventory -----

func (s *MemStore) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.InventoryItem, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *MemStore) FindItem(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &it, nil
}

func (s *MemStore) InsertItem(ctx context.Context, item *models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = primitive.NewObjectID()
	s.items[item.ID] = *item
	return nil
}

func (s *MemStore) UpdateItem(ctx context.Context, id primitive.ObjectID, update ItemUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	if update.Name != nil {
		it.Name = *update.Name
	}
	if update.Category != nil {
		it.Category = *update.Category
	}
	if update.Brand != nil {
		it.Brand = *update.Brand
	}
	if update.Description != nil {
		it.Description = *update.Description
	}
	if update.Price != nil {
		it.Price = *update.Price
	}
	if update.Stock != nil {
		it.Stock = *update.Stock
	}
	s.items[id] = it
	return nil
}

func (s *MemStore) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

func (s *MemStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	if it.Stock < qty {
		return ErrInsufficientStock
	}
	it.Stock -= qty
	s.items[id] = it
	return nil
}

func (s *MemStore) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	it.Stock += qty
	s.items[id] = it
	return nil
}

// ----- Carts -----

func (s *MemStore) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cart := c
	cart.Items = append([]models.CartLine(nil), c.Items...)
	return &cart, nil
}

func (s *MemStore) UpsertCart(ctx context.Context, userID primitive.ObjectID, items []models.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = models.Cart{ID: primitive.NewObjectID(), UserID: userID}
	}
	c.Items = append([]models.CartLine(nil), items...)
	s.carts[userID] = c
	return nil
}

// ----- Orders -----

func (s *MemStore) InsertOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = primitive.NewObjectID()
	s.orders = append(s.orders, *order)
	return nil
}

func (s *MemStore) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []models.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders, nil
}

// ----- Analytics -----

func (s *MemStore) Analytics(ctx context.Context) (*models.AnalyticsReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := &models.AnalyticsReport{
		Bestsellers:     []models.ItemSales{},
		SalesByCategory: []models.CategorySales{},
		MonthlySales:    []models.MonthlySales{},
	}

	byItem := map[string]*models.ItemSales{}
	byCategory := map[string]*models.CategorySales{}
	type ym struct{ year, month int }
	byMonth := map[ym]*models.MonthlySales{}

	for _, o := range s.orders {
		report.Overview.TotalRevenue += o.TotalAmount
		report.Overview.TotalOrders++

		for _, it := range o.Items {
			is, ok := byItem[it.Name]
			if !ok {
				is = &models.ItemSales{Name: it.Name}
				byItem[it.Name] = is
			}
			is.TotalSold += it.Quantity
			is.Revenue += it.Subtotal

			cs, ok := byCategory[it.Category]
			if !ok {
				cs = &models.CategorySales{Category: it.Category}
				byCategory[it.Category] = cs
			}
			cs.TotalSold += it.Quantity
			cs.Revenue += it.Subtotal
		}

		key := ym{o.OrderDate.Year(), int(o.OrderDate.Month())}
		ms, ok := byMonth[key]
		if !ok {
			ms = &models.MonthlySales{Year: key.year, Month: key.month}
			byMonth[key] = ms
		}
		ms.Revenue += o.TotalAmount
		ms.Orders++
	}
	if report.Overview.TotalOrders > 0 {
		report.Overview.AverageOrder = report.Overview.TotalRevenue / float64(report.Overview.TotalOrders)
	}

	for _, is := range byItem {
		report.Bestsellers = append(report.Bestsellers, *is)
	}
	sort.Slice(report.Bestsellers, func(i, j int) bool {
		return report.Bestsellers[i].TotalSold > report.Bestsellers[j].TotalSold
	})
	if len(report.Bestsellers) > 10 {
		report.Bestsellers = report.Bestsellers[:10]
	}

	for _, cs := range byCategory {
		report.SalesByCategory = append(report.SalesByCategory, *cs)
	}
	sort.Slice(report.SalesByCategory, func(i, j int) bool {
		return report.SalesByCategory[i].Revenue > report.SalesByCategory[j].Revenue
	})

	for _, ms := range byMonth {
		report.MonthlySales = append(report.MonthlySales, *ms)
	}
	sort.Slice(report.MonthlySales, func(i, j int) bool {
		a, b := report.MonthlySales[i], report.MonthlySales[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})

	return report, nil
}
