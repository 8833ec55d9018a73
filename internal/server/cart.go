package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pcparts-backend/internal/models"
	"pcparts-backend/internal/storage"
)

func (s *Server) getCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	cart, err := s.store.GetCart(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// An empty cart is implied, not persisted.
			c.JSON(http.StatusOK, models.Cart{UserID: userID, Items: []models.CartLine{}})
			return
		}
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) addToCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil || req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item or quantity"})
		return
	}

	cart, err := s.store.GetCart(c.Request.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		cart = &models.Cart{UserID: userID, Items: []models.CartLine{}}
	} else if err != nil {
		s.serverError(c, err)
		return
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ItemID == itemID {
			cart.Items[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartLine{ItemID: itemID, Quantity: req.Quantity})
	}

	if err := s.store.UpsertCart(c.Request.Context(), userID, cart.Items); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart": cart})
}

func (s *Server) removeFromCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	itemID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	cart, err := s.store.GetCart(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		s.serverError(c, err)
		return
	}

	// Removing an absent line is a no-op.
	kept := cart.Items[:0]
	for _, line := range cart.Items {
		if line.ItemID != itemID {
			kept = append(kept, line)
		}
	}
	cart.Items = kept

	if err := s.store.UpsertCart(c.Request.Context(), userID, cart.Items); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed", "cart": cart})
}

func (s *Server) clearCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if err := s.store.UpsertCart(c.Request.Context(), userID, []models.CartLine{}); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
