package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/stocksim/indicators"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
	"github.com/rustyeddy/stocksim/sim"
)

func (s *Server) listQuotes(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Quotes())
}

func (s *Server) getQuote(c *gin.Context) {
	quote, history, err := s.engine.Quote(c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quote":      quote,
		"history":    history,
		"indicators": indicators.Summarize(history),
	})
}

func (s *Server) addInstrument(c *gin.Context) {
	var seed market.Seed
	if err := c.ShouldBindJSON(&seed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := s.engine.AddInstrument(seed)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, sim.ErrDuplicateSymbol) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, quote)
}

func (s *Server) listNews(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Stories())
}

func (s *Server) listPortfolios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"portfolios": s.engine.Portfolios()})
}

type createPortfolioRequest struct {
	Name           string  `json:"name" binding:"required"`
	InitialBalance float64 `json:"initial_balance" binding:"required,gt=0"`
}

func (s *Server) createPortfolio(c *gin.Context) {
	var req createPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := s.engine.CreatePortfolio(req.Name, req.InitialBalance)
	c.JSON(http.StatusCreated, gin.H{"id": p.ID, "name": p.Name, "cash_balance": p.CashBalance})
}

func (s *Server) getPortfolio(c *gin.Context) {
	pid := c.Param("id")
	v, err := s.engine.Valuation(pid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	p, err := s.engine.Portfolio(pid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              p.ID,
		"name":            p.Name,
		"cash_balance":    p.CashBalance,
		"initial_balance": p.InitialBalance,
		"valuation":       v,
	})
}

type orderRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

func (s *Server) buy(c *gin.Context) {
	s.order(c, s.engine.Buy)
}

func (s *Server) sell(c *gin.Context) {
	s.order(c, s.engine.Sell)
}

func (s *Server) order(c *gin.Context, exec func(string, string, int) (portfolio.Transaction, error)) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := exec(c.Param("id"), req.Symbol, req.Quantity)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"transaction": tx})

	case errors.Is(err, sim.ErrPersistence):
		// The order executed; durable recording failed. Report both facts
		// so the client can refresh rather than retry.
		c.JSON(http.StatusBadGateway, gin.H{
			"transaction": tx,
			"applied":     true,
			"error":       err.Error(),
		})

	case errors.Is(err, sim.ErrUnknownPortfolio),
		errors.Is(err, portfolio.ErrUnknownInstrument):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, portfolio.ErrInsufficientFunds),
		errors.Is(err, portfolio.ErrInsufficientShares),
		errors.Is(err, portfolio.ErrInvalidQuantity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	default:
		s.log.WithError(err).Error("order failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) refresh(c *gin.Context) {
	pid := c.Param("id")
	if err := s.engine.Refresh(pid); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sim.ErrUnknownPortfolio) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": pid})
}
