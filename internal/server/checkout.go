package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pcparts-backend/internal/models"
	"pcparts-backend/internal/storage"
)

const deliveryLeadTime = 5 * 24 * time.Hour

type checkoutLine struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// checkout converts a cart into an order: every line is validated before
// any stock is touched, stock is decremented with a conditional update so
// it can never go negative, the order is recorded and the cart cleared.
func (s *Server) checkout(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		Items []checkoutLine `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	// Duplicate lines for one item are merged up front so the combined
	// quantity is checked against stock once, as a plain insufficient-
	// stock failure rather than a mid-decrement conflict.
	lines := make([]models.CartLine, 0, len(req.Items))
	lineIdx := make(map[primitive.ObjectID]int, len(req.Items))
	for _, raw := range req.Items {
		itemID, err := primitive.ObjectIDFromHex(raw.ItemID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID: " + raw.ItemID})
			return
		}
		if raw.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity for item " + raw.ItemID})
			return
		}
		if i, ok := lineIdx[itemID]; ok {
			lines[i].Quantity += raw.Quantity
			continue
		}
		lineIdx[itemID] = len(lines)
		lines = append(lines, models.CartLine{ItemID: itemID, Quantity: raw.Quantity})
	}

	ctx := c.Request.Context()

	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.serverError(c, err)
		return
	}

	// Pass 1: validate every line and price the order. Nothing is
	// mutated until the whole cart checks out.
	var (
		orderItems  []models.OrderItem
		totalAmount float64
	)
	for _, line := range lines {
		item, err := s.store.FindItem(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found: " + line.ItemID.Hex()})
				return
			}
			s.serverError(c, err)
			return
		}
		if item.Stock < line.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock for " + item.Name})
			return
		}

		subtotal := item.Price * float64(line.Quantity)
		totalAmount += subtotal
		orderItems = append(orderItems, models.OrderItem{
			ItemID:   line.ItemID,
			Name:     item.Name,
			Category: item.Category,
			Price:    item.Price,
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
	}

	// Compensation must still run when the client has gone away, so it
	// is detached from the request's cancellation.
	cleanupCtx := context.WithoutCancel(ctx)

	// Pass 2: decrement stock line by line. A concurrent checkout can
	// still win a line between passes; if that happens the conditional
	// update refuses to go negative, the earlier decrements are undone
	// and the whole checkout fails.
	for i, oi := range orderItems {
		if err := s.store.DecrementStock(ctx, oi.ItemID, oi.Quantity); err != nil {
			s.restock(cleanupCtx, orderItems[:i])
			if errors.Is(err, storage.ErrInsufficientStock) || errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock for " + oi.Name})
				return
			}
			s.serverError(c, err)
			return
		}
	}

	now := time.Now()
	order := &models.Order{
		UserID:       userID,
		Username:     user.Username,
		Items:        orderItems,
		TotalAmount:  totalAmount,
		Status:       "completed",
		OrderDate:    now,
		DeliveryDate: now.Add(deliveryLeadTime),
	}
	if err := s.store.InsertOrder(ctx, order); err != nil {
		s.restock(cleanupCtx, orderItems)
		s.serverError(c, err)
		return
	}

	if err := s.store.UpsertCart(ctx, userID, []models.CartLine{}); err != nil {
		// The order exists; a stale cart is not worth failing the
		// request over.
		log.Println("failed to clear cart after checkout:", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order placed successfully",
		"orderId": order.ID.Hex(),
		"order":   order,
	})
}

// restock returns already-decremented stock after a mid-checkout failure.
func (s *Server) restock(ctx context.Context, items []models.OrderItem) {
	for _, oi := range items {
		if err := s.store.IncrementStock(ctx, oi.ItemID, oi.Quantity); err != nil {
			log.Printf("failed to restock %s x%d: %v", oi.ItemID.Hex(), oi.Quantity, err)
		}
	}
}
