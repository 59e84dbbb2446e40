// Package server exposes a running simulation over HTTP: REST endpoints
// for quotes, news, and portfolio operations, and a websocket stream of
// engine events. It holds no simulation state of its own.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/stocksim/config"
	"github.com/rustyeddy/stocksim/sim"
)

type Server struct {
	engine  *sim.Engine
	log     *logrus.Entry
	router  *gin.Engine
	limiter *rate.Limiter
}

func New(engine *sim.Engine, cfg config.ServerConfig, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:  engine,
		log:     logger.WithField("component", "server"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/quotes", s.listQuotes)
		api.GET("/quotes/:symbol", s.getQuote)
		api.POST("/instruments", s.throttled(s.addInstrument))
		api.GET("/news", s.listNews)

		api.GET("/portfolios", s.listPortfolios)
		api.POST("/portfolios", s.throttled(s.createPortfolio))
		api.GET("/portfolios/:id", s.getPortfolio)
		api.POST("/portfolios/:id/buy", s.throttled(s.buy))
		api.POST("/portfolios/:id/sell", s.throttled(s.sell))
		api.POST("/portfolios/:id/refresh", s.throttled(s.refresh))
	}

	r.GET("/ws", s.stream)

	s.router = r
	return s
}

// Router exposes the handler for tests and custom listeners.
func (s *Server) Router() http.Handler { return s.router }

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("http server listening")
	return s.router.Run(addr)
}

// throttled applies the shared mutation rate limit to a handler.
func (s *Server) throttled(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		h(c)
	}
}
