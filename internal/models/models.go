package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles assigned to users. Employees may mutate inventory; buyers and
// guests may only browse and order.
const (
	RoleEmployee = "employee"
	RoleBuyer    = "buyer"
	RoleGuest    = "guest"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Name      string             `bson:"name" json:"name"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type InventoryItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category" json:"category"`
	Brand       string             `bson:"brand" json:"brand"`
	Price       float64            `bson:"price" json:"price"`
	Stock       int                `bson:"stock" json:"stock"`
	Description string             `bson:"description" json:"description"`
}

// CartLine is one (item, quantity) pair within a user's cart.
type CartLine struct {
	ItemID   primitive.ObjectID `bson:"itemId" json:"itemId"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Items  []CartLine         `bson:"items" json:"items"`
}

// OrderItem is a cart line snapshotted at checkout time: name, category
// and price are copied from inventory so later item edits don't rewrite
// order history.
type OrderItem struct {
	ItemID   primitive.ObjectID `bson:"itemId" json:"itemId"`
	Name     string             `bson:"name" json:"name"`
	Category string             `bson:"category" json:"category"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Subtotal float64            `bson:"subtotal" json:"subtotal"`
}

type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Username     string             `bson:"username" json:"username"`
	Items        []OrderItem        `bson:"items" json:"items"`
	TotalAmount  float64            `bson:"totalAmount" json:"totalAmount"`
	Status       string             `bson:"status" json:"status"`
	OrderDate    time.Time          `bson:"orderDate" json:"orderDate"`
	DeliveryDate time.Time          `bson:"deliveryDate" json:"deliveryDate"`
}

type AnalyticsOverview struct {
	TotalRevenue float64 `bson:"totalRevenue" json:"totalRevenue"`
	TotalOrders  int     `bson:"totalOrders" json:"totalOrders"`
	AverageOrder float64 `bson:"averageOrder" json:"averageOrder"`
}

type ItemSales struct {
	Name      string  `bson:"_id" json:"name"`
	TotalSold int     `bson:"totalSold" json:"totalSold"`
	Revenue   float64 `bson:"revenue" json:"revenue"`
}

type CategorySales struct {
	Category  string  `bson:"_id" json:"category"`
	TotalSold int     `bson:"totalSold" json:"totalSold"`
	Revenue   float64 `bson:"revenue" json:"revenue"`
}

type MonthlySales struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// AnalyticsReport is the read-side aggregate over all orders.
type AnalyticsReport struct {
	Overview        AnalyticsOverview `json:"overview"`
	Bestsellers     []ItemSales       `json:"bestsellers"`
	SalesByCategory []CategorySales   `json:"salesByCategory"`
	MonthlySales    []MonthlySales    `json:"monthlySales"`
}
