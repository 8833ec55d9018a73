package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pcparts-backend/internal/models"
	"pcparts-backend/internal/storage"
)

func (s *Server) listInventory(c *gin.Context) {
	items, err := s.store.ListItems(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) addItem(c *gin.Context) {
	var req struct {
		Name        string   `json:"name"`
		Category    string   `json:"category"`
		Brand       string   `json:"brand"`
		Description string   `json:"description"`
		Price       *float64 `json:"price"`
		Stock       *int     `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if req.Name == "" || req.Category == "" || req.Price == nil || req.Stock == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if *req.Price < 0 || *req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price and stock cannot be negative"})
		return
	}

	item := &models.InventoryItem{
		Name:        req.Name,
		Category:    req.Category,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
	}
	if err := s.store.InsertItem(c.Request.Context(), item); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added", "itemId": item.ID.Hex()})
}

func (s *Server) updateItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Category    *string  `json:"category"`
		Brand       *string  `json:"brand"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Stock       *int     `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if req.Price != nil && *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}
	// Negative stock is clamped rather than rejected.
	if req.Stock != nil && *req.Stock < 0 {
		zero := 0
		req.Stock = &zero
	}

	update := storage.ItemUpdate{
		Name:        req.Name,
		Category:    req.Category,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := s.store.UpdateItem(c.Request.Context(), id, update); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated"})
}

func (s *Server) deleteItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}
	// Idempotent: deleting an absent item still succeeds.
	if err := s.store.DeleteItem(c.Request.Context(), id); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
