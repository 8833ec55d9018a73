package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"pcparts-backend/internal/models"
)

func TestInsertUser_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	first := &models.User{Username: "alice", Name: "Alice", Role: models.RoleBuyer}
	require.NoError(t, store.InsertUser(ctx, first))
	assert.False(t, first.ID.IsZero())

	second := &models.User{Username: "alice", Name: "Other Alice", Role: models.RoleBuyer}
	err := store.InsertUser(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestDecrementStock_Conditional(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	item := &models.InventoryItem{Name: "RTX 4090", Category: "GPU", Price: 90000, Stock: 5}
	require.NoError(t, store.InsertItem(ctx, item))

	require.NoError(t, store.DecrementStock(ctx, item.ID, 3))

	got, err := store.FindItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	// Not enough left; stock must stay untouched.
	err = store.DecrementStock(ctx, item.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	got, err = store.FindItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestUpdateItem_Partial(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	item := &models.InventoryItem{Name: "Samsung 990 Pro 2TB", Category: "Storage", Price: 10000, Stock: 40}
	require.NoError(t, store.InsertItem(ctx, item))

	price := 9500.0
	require.NoError(t, store.UpdateItem(ctx, item.ID, ItemUpdate{Price: &price}))

	got, err := store.FindItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 9500.0, got.Price)
	assert.Equal(t, "Samsung 990 Pro 2TB", got.Name)
	assert.Equal(t, 40, got.Stock)
}

func TestCart_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	userID := newUserID(t, store)

	_, err := store.GetCart(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	itemID := newItemID(t, store, 10)
	lines := []models.CartLine{{ItemID: itemID, Quantity: 2}}
	require.NoError(t, store.UpsertCart(ctx, userID, lines))

	cart, err := store.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	require.NoError(t, store.UpsertCart(ctx, userID, []models.CartLine{}))
	cart, err = store.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestListOrdersByUser_SortedNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	userID := newUserID(t, store)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{0, 48 * time.Hour, 24 * time.Hour} {
		order := &models.Order{
			UserID:      userID,
			Username:    "alice",
			Status:      "completed",
			TotalAmount: 100,
			OrderDate:   base.Add(offset),
		}
		require.NoError(t, store.InsertOrder(ctx, order))
	}

	orders, err := store.ListOrdersByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.True(t, orders[0].OrderDate.After(orders[1].OrderDate))
	assert.True(t, orders[1].OrderDate.After(orders[2].OrderDate))
}

func TestAnalytics(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	userID := newUserID(t, store)

	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	gpu := models.OrderItem{Name: "RTX 4090", Category: "GPU", Price: 90000, Quantity: 1, Subtotal: 90000}
	ram := models.OrderItem{Name: "Corsair Vengeance DDR5 32GB", Category: "RAM", Price: 7300, Quantity: 4, Subtotal: 29200}

	require.NoError(t, store.InsertOrder(ctx, &models.Order{
		UserID: userID, Username: "alice", Status: "completed",
		Items: []models.OrderItem{gpu}, TotalAmount: 90000, OrderDate: jan,
	}))
	require.NoError(t, store.InsertOrder(ctx, &models.Order{
		UserID: userID, Username: "alice", Status: "completed",
		Items: []models.OrderItem{ram}, TotalAmount: 29200, OrderDate: feb,
	}))

	report, err := store.Analytics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 119200.0, report.Overview.TotalRevenue)
	assert.Equal(t, 2, report.Overview.TotalOrders)
	assert.Equal(t, 59600.0, report.Overview.AverageOrder)

	// Top seller by quantity is the RAM kit.
	require.NotEmpty(t, report.Bestsellers)
	assert.Equal(t, "Corsair Vengeance DDR5 32GB", report.Bestsellers[0].Name)
	assert.Equal(t, 4, report.Bestsellers[0].TotalSold)

	// Categories ranked by revenue.
	require.Len(t, report.SalesByCategory, 2)
	assert.Equal(t, "GPU", report.SalesByCategory[0].Category)
	assert.Equal(t, 90000.0, report.SalesByCategory[0].Revenue)

	// Monthly buckets newest first.
	require.Len(t, report.MonthlySales, 2)
	assert.Equal(t, 2, report.MonthlySales[0].Month)
	assert.Equal(t, 29200.0, report.MonthlySales[0].Revenue)
	assert.Equal(t, 1, report.MonthlySales[1].Month)
}

func TestAnalytics_NoOrders(t *testing.T) {
	store := NewMemStore()

	report, err := store.Analytics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Overview.TotalRevenue)
	assert.Zero(t, report.Overview.TotalOrders)
	assert.Zero(t, report.Overview.AverageOrder)
	assert.Empty(t, report.Bestsellers)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, Seed(ctx, store, bcrypt.MinCost))

	admin, err := store.FindUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin123")))

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 12)

	// Re-seeding must not duplicate anything.
	require.NoError(t, Seed(ctx, store, bcrypt.MinCost))
	items, err = store.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 12)
}

func newUserID(t *testing.T, store *MemStore) primitive.ObjectID {
	t.Helper()
	user := &models.User{Username: "alice-" + primitive.NewObjectID().Hex(), Name: "Alice", Role: models.RoleBuyer}
	require.NoError(t, store.InsertUser(context.Background(), user))
	return user.ID
}

func newItemID(t *testing.T, store *MemStore, stock int) primitive.ObjectID {
	t.Helper()
	item := &models.InventoryItem{Name: "Test Item", Category: "CPU", Price: 100, Stock: stock}
	require.NoError(t, store.InsertItem(context.Background(), item))
	return item.ID
}
