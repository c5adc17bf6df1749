package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/terminal-bench/bankledger/internal/auth"
	"github.com/terminal-bench/bankledger/internal/ledger"
)

type loginRequest struct {
	User     string `json:"user" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createAccountRequest struct {
	Kind    ledger.AccountKind `json:"kind" binding:"required"`
	Holder  string             `json:"holder" binding:"required"`
	Opening decimal.Decimal    `json:"opening_deposit"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type transferRequest struct {
	From   string          `json:"from" binding:"required"`
	To     string          `json:"to" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := s.auth.Login(req.User, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) createAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acct, err := s.bank.CreateAccount(c.Request.Context(), req.Kind, req.Holder, req.Opening)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"number":  acct.Number(),
		"holder":  acct.Holder(),
		"kind":    acct.Kind(),
		"balance": acct.Balance(),
	})
}

func (s *Server) listAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"accounts": s.bank.Accounts()})
}

func (s *Server) getAccount(c *gin.Context) {
	acct, err := s.bank.Account(c.Param("number"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"number":  acct.Number(),
		"holder":  acct.Holder(),
		"kind":    acct.Kind(),
		"balance": acct.Balance(),
	})
}

func (s *Server) getHistory(c *gin.Context) {
	acct, err := s.bank.Account(c.Param("number"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": acct.History()})
}

func (s *Server) deposit(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := s.bank.Deposit(c.Request.Context(), c.Param("number"), req.Amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (s *Server) withdraw(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := s.bank.Withdraw(c.Request.Context(), c.Param("number"), req.Amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (s *Server) accrueInterest(c *gin.Context) {
	txn, err := s.bank.AccrueInterest(c.Request.Context(), c.Param("number"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (s *Server) transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, in, err := s.bank.Transfer(c.Request.Context(), req.From, req.To, req.Amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"out": out, "in": in})
}

func (s *Server) saveSnapshot(c *gin.Context) {
	if s.snaps == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot store configured"})
		return
	}

	data, err := s.bank.Serialize()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.snaps.Save(c.Request.Context(), data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
