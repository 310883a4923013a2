// Package api is the HTTP gateway: it parses requests into ledger
// operations and renders results as JSON. Balances cross the wire as
// decimal strings, never binary floats.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/verse-labs/verse-bank/internal/ledger"
	"github.com/verse-labs/verse-bank/internal/platform/logger"
)

type Handler struct {
	registry *ledger.Registry
	ledger   *ledger.Service
	log      *logger.Logger
}

func NewHandler(registry *ledger.Registry, ledgerService *ledger.Service, log *logger.Logger) *Handler {
	return &Handler{
		registry: registry,
		ledger:   ledgerService,
		log:      log.With("component", "api"),
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var req struct {
		AccountNumber  string      `json:"account_number" binding:"required"`
		InitialBalance json.Number `json:"initial_balance" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing account_number or initial_balance"})
		return
	}

	initialBalance, err := decimal.NewFromString(req.InitialBalance.String())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format for initial_balance"})
		return
	}

	if err := h.registry.CreateAccount(c.Request.Context(), req.AccountNumber, initialBalance); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":        "Account created successfully",
		"account_number": req.AccountNumber,
	})
}

func (h *Handler) GetAccount(c *gin.Context) {
	acct, err := h.ledger.GetAccount(c.Request.Context(), c.Param("account_number"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account_number": acct.AccountNumber,
		"balance":        acct.Balance.StringFixed(2),
	})
}

func (h *Handler) Deposit(c *gin.Context) {
	h.mutate(c, ledger.KindDeposit)
}

func (h *Handler) Withdrawal(c *gin.Context) {
	h.mutate(c, ledger.KindWithdrawal)
}

func (h *Handler) mutate(c *gin.Context, kind ledger.Kind) {
	var req struct {
		AccountNumber string      `json:"account_number" binding:"required"`
		Amount        json.Number `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing account_number or amount"})
		return
	}

	// The amount text converts straight to fixed-point; no float in
	// between.
	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format for amount"})
		return
	}

	var (
		newBalance decimal.Decimal
		message    string
	)
	switch kind {
	case ledger.KindWithdrawal:
		newBalance, err = h.ledger.Withdraw(c.Request.Context(), req.AccountNumber, amount)
		message = "Withdrawal successful"
	default:
		newBalance, err = h.ledger.Deposit(c.Request.Context(), req.AccountNumber, amount)
		message = "Deposit successful"
	}
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        message,
		"account_number": req.AccountNumber,
		"new_balance":    newBalance.StringFixed(2),
	})
}

// renderError maps domain errors to status codes. Store failures are the
// only 500s and the only errors logged here; the client's own mistakes
// are not server errors.
func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidAccountNumber),
		errors.Is(err, ledger.ErrNegativeInitialBalance),
		errors.Is(err, ledger.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrDuplicateAccount):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
