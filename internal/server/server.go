package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tradebot/gopaca/internal/alpaca"
	"github.com/tradebot/gopaca/internal/guard"
	"github.com/tradebot/gopaca/internal/trading"
)

// Server exposes the guarded trading API over HTTP. It owns no mutable
// state; every request goes straight to the upstream client.
type Server struct {
	client  *alpaca.Client
	engine  *trading.Engine
	allowed guard.AllowList
	log     *logrus.Entry
}

func New(client *alpaca.Client, engine *trading.Engine, allowed guard.AllowList) *Server {
	return &Server{
		client:  client,
		engine:  engine,
		allowed: allowed,
		log:     logrus.WithField("module", "server"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/health", s.wrap(s.handleHealth))
	r.GET("/portfolio", s.wrap(s.handlePortfolio))
	r.GET("/market-data", s.wrap(s.handleMarketData))
	r.POST("/order", s.wrap(s.handleOrder))
	r.POST("/buy-text", s.wrap(s.handleBuyText))

	return r
}

// wrap adapts plain net/http handlers to gin.
func (s *Server) wrap(h http.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c.Writer, c.Request)
	}
}

// corsMiddleware answers preflight requests and allows any origin. The
// service sits behind a browser frontend during development; tighten the
// origin before exposing it anywhere public.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
