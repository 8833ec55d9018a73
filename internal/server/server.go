package server

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pcparts-backend/internal/config"
	"pcparts-backend/internal/storage"
)

// Server holds the handlers' dependencies. The store is passed in
// explicitly so the Mongo and in-memory backends are interchangeable.
type Server struct {
	store        storage.Store
	jwtSecret    []byte
	bcryptRounds int
	environment  string
	origins      []string
}

func New(store storage.Store, cfg *config.Config) *Server {
	return &Server{
		store:        store,
		jwtSecret:    []byte(cfg.JWTSecret),
		bcryptRounds: cfg.BcryptRounds,
		environment:  cfg.Environment,
		origins:      cfg.AllowedOrigins,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if len(s.origins) == 1 && s.origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.origins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.health)

	r.POST("/auth/register", s.register)
	r.POST("/auth/login", s.login)

	r.GET("/inventory", s.listInventory)
	employee := r.Group("/inventory", s.requireEmployee)
	{
		employee.POST("/add", s.addItem)
		employee.PUT("/:id", s.updateItem)
		employee.DELETE("/:id", s.deleteItem)
	}

	r.GET("/cart/:userId", s.getCart)
	r.POST("/cart/:userId/add", s.addToCart)
	r.DELETE("/cart/:userId/remove/:itemId", s.removeFromCart)
	r.DELETE("/cart/:userId", s.clearCart)

	r.POST("/checkout/:userId", s.checkout)
	r.GET("/orders/:userId", s.listOrders)
	r.GET("/analytics", s.analytics)

	return r
}

func (s *Server) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		log.Println("health check failed:", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"message":     "Server is running",
		"environment": s.environment,
	})
}

// serverError logs the cause and returns a generic 500. The underlying
// error text never reaches the client.
func (s *Server) serverError(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
