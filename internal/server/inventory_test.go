package server_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pcparts-backend/internal/models"
)

func TestListInventory_Public(t *testing.T) {
	router, store := newTestEnv(t)
	seedItem(t, store, "Intel Core i9-13900K", "CPU", 33000, 25)

	w := do(t, router, http.MethodGet, "/inventory", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var items []models.InventoryItem
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Intel Core i9-13900K", items[0].Name)
	assert.False(t, items[0].ID.IsZero())
}

func TestAddItem(t *testing.T) {
	router, store := newTestEnv(t)
	seedUser(t, store, "emp", "workwork", "employee")
	token := loginToken(t, router, "emp", "workwork")

	w := do(t, router, http.MethodPost, "/inventory/add", gin.H{
		"name":        "NZXT H7 Flow",
		"category":    "Case",
		"brand":       "NZXT",
		"price":       7300,
		"stock":       35,
		"description": "Mid-Tower ATX Case",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message string `json:"message"`
		ItemID  string `json:"itemId"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Item added", resp.Message)

	id, err := primitive.ObjectIDFromHex(resp.ItemID)
	require.NoError(t, err)
	item, err := store.FindItem(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 35, item.Stock)
}

func TestAddItem_RequiresEmployee(t *testing.T) {
	router, store := newTestEnv(t)
	seedUser(t, store, "buyer", "buybuy123", "buyer")
	buyerToken := loginToken(t, router, "buyer", "buybuy123")

	body := gin.H{"name": "Thing", "category": "CPU", "price": 1, "stock": 1}

	w := do(t, router, http.MethodPost, "/inventory/add", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/inventory/add", body, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/inventory/add", body, buyerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddItem_Validation(t *testing.T) {
	router, store := newTestEnv(t)
	seedUser(t, store, "emp", "workwork", "employee")
	token := loginToken(t, router, "emp", "workwork")

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing fields", gin.H{"name": "No Category", "price": 10, "stock": 1}},
		{"negative price", gin.H{"name": "Bad", "category": "CPU", "price": -1, "stock": 1}},
		{"negative stock", gin.H{"name": "Bad", "category": "CPU", "price": 10, "stock": -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/inventory/add", tc.body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateItem(t *testing.T) {
	router, store := newTestEnv(t)
	seedUser(t, store, "emp", "workwork", "employee")
	token := loginToken(t, router, "emp", "workwork")
	item := seedItem(t, store, "Corsair RM1000e", "PSU", 10100, 28)

	w := do(t, router, http.MethodPut, "/inventory/"+item.ID.Hex(), gin.H{"price": 9900}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := store.FindItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 9900.0, got.Price)
	assert.Equal(t, 28, got.Stock)
}

func TestUpdateItem_NegativePriceRejected(t *testing.T) {
	router, store := newTestEnv(t)
	seedUser(t, store, "emp", "workwork", "employee")
	token := loginToken(t, router, "emp", "workwork")
	item := seedItem(t, store, "Corsair RM1000e", "PSU", 10100, 28)

	w := do(t, router, http.MethodPut, "/inventory/"+item.ID.Hex(), gin.H{"price": -5}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	got, err := store.FindItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10100.0, got.Price)
}

func TestUpdateItem_NegativeStockClamped(t *testing.T) {
	router, store := newTestEnv(t)
	seedUser(t, store, "emp", "workwork", "employee")
	token := loginToken(t, router, "emp", "workwork")
	item := seedItem(t, store, "Corsair RM1000e", "PSU", 10100, 28)

	w := do(t, router, http.MethodPut, "/inventory/"+item.ID.Hex(), gin.H{"stock": -10}, token)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := store.FindItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestDeleteItem_Idempotent(t *testing.T) {
	router, store := newTestEnv(t)
	seedUser(t, store, "emp", "workwork", "employee")
	token := loginToken(t, router, "emp", "workwork")
	item := seedItem(t, store, "MSI MPG Z790 Carbon", "Motherboard", 25200, 16)

	w := do(t, router, http.MethodDelete, "/inventory/"+item.ID.Hex(), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	// Deleting again still succeeds.
	w = do(t, router, http.MethodDelete, "/inventory/"+item.ID.Hex(), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
