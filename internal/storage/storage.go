package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pcparts-backend/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ItemUpdate is a partial inventory update; nil fields are left untouched.
type ItemUpdate struct {
	Name        *string
	Category    *string
	Brand       *string
	Description *string
	Price       *float64
	Stock       *int
}

// Store is the document store behind the API. It is passed explicitly to
// the server instead of living in package-level state, so tests can swap
// in the in-memory backend.
type Store interface {
	InsertUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	FindItem(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error)
	InsertItem(ctx context.Context, item *models.InventoryItem) error
	UpdateItem(ctx context.Context, id primitive.ObjectID, update ItemUpdate) error
	DeleteItem(ctx context.Context, id primitive.ObjectID) error

	// DecrementStock subtracts qty only if the item currently has at
	// least qty in stock; otherwise it returns ErrInsufficientStock and
	// leaves the item untouched. This is the conditional update that
	// keeps stock non-negative under concurrent checkouts.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error

	GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	UpsertCart(ctx context.Context, userID primitive.ObjectID, items []models.CartLine) error

	InsertOrder(ctx context.Context, order *models.Order) error
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)

	Analytics(ctx context.Context) (*models.AnalyticsReport, error)

	Ping(ctx context.Context) error
}
