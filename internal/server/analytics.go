package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) analytics(c *gin.Context) {
	report, err := s.store.Analytics(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
