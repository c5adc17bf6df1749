package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/terminal-bench/bankledger/internal/auth"
	"github.com/terminal-bench/bankledger/internal/ledger"
	"github.com/terminal-bench/bankledger/pkg/store"
)

// Server exposes the registry over HTTP. All prompting, formatting, and retry
// behavior belongs to clients; the server maps operations and domain errors
// one-to-one.
type Server struct {
	router *gin.Engine
	bank   *ledger.Bank
	auth   *auth.Service
	snaps  store.Store
}

// NewServer wires the registry, auth service, and snapshot store into a
// router. snaps may be nil, which disables the save endpoint.
func NewServer(bank *ledger.Bank, authSvc *auth.Service, snaps store.Store) *Server {
	s := &Server{
		router: gin.Default(),
		bank:   bank,
		auth:   authSvc,
		snaps:  snaps,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "bank": s.bank.Name()})
	})

	v1 := s.router.Group("/api/v1")
	v1.POST("/login", s.login)

	authed := v1.Group("", s.authMiddleware())
	{
		authed.POST("/accounts", s.createAccount)
		authed.GET("/accounts", s.listAccounts)
		authed.GET("/accounts/:number", s.getAccount)
		authed.GET("/accounts/:number/transactions", s.getHistory)
		authed.POST("/accounts/:number/deposit", s.deposit)
		authed.POST("/accounts/:number/withdraw", s.withdraw)
		authed.POST("/accounts/:number/interest", s.accrueInterest)
		authed.POST("/transfers", s.transfer)
		authed.POST("/admin/save", s.saveSnapshot)
	}
}

// Handler returns the HTTP handler for serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.auth.VerifyToken(c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Set("teller", claims.Teller)
		c.Next()
	}
}

// writeError maps domain errors onto HTTP statuses. Insufficient-funds
// rejections carry the balance and the violated rule so clients can show
// them without another round trip.
func (s *Server) writeError(c *gin.Context, err error) {
	var insufficient *ledger.InsufficientFundsError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   insufficient.Error(),
			"balance": insufficient.Balance,
			"rule":    insufficient.Rule,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidOperation):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
