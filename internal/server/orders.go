package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Server) listOrders(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	orders, err := s.store.ListOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
