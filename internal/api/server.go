// Package api exposes the storefront vault over HTTP for the static site:
// checkout and order lookup for customers, the full order surface for the
// authenticated admin. Responses use a {success, data | error} envelope.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/seva-innovations/storefront-vault/internal/auth"
	"github.com/seva-innovations/storefront-vault/internal/logging"
	"github.com/seva-innovations/storefront-vault/internal/orders"
	"github.com/seva-innovations/storefront-vault/internal/payment"
)

type Server struct {
	auth    *auth.Authenticator
	orders  *orders.Service
	payment *payment.Client
	log     logging.Logger
	origins []string
}

func NewServer(a *auth.Authenticator, o *orders.Service, p *payment.Client, log logging.Logger, origins []string) *Server {
	return &Server{auth: a, orders: o, payment: p, log: log, origins: origins}
}

// Router builds the gin engine with CORS for the static site origins and
// all API routes mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = s.origins
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowCredentials = true
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	{
		api.POST("/checkout", s.handleCheckout)
		api.GET("/orders", s.handleOrdersByEmail)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", s.handleLogin)
			authGroup.POST("/logout", s.handleLogout)
			authGroup.POST("/password", s.requireAdmin(), s.handleUpdatePassword)
		}

		admin := api.Group("/admin", s.requireAdmin())
		{
			admin.GET("/orders", s.handleAdminOrders)
			admin.GET("/orders/:id", s.handleAdminOrder)
			admin.GET("/orders/:id/payment/:field", s.handlePaymentField)
			admin.POST("/orders/:id/payment/clear", s.handleClearPayment)
			admin.PATCH("/orders/:id/status", s.handleUpdateStatus)
			admin.DELETE("/orders/:id", s.handleDeleteOrder)
		}
	}

	return r
}
