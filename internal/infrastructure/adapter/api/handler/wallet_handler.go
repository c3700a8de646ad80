package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	domainerr "github.com/pmotterani/flexipay/internal/domain/error"
	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/domain/usecase/ledger"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/dto"
)

// WalletHandler handles wallet-facing HTTP requests
type WalletHandler struct {
	ledgerService *ledger.Service
	logger        coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(ledgerService *ledger.Service, logger coreport.Logger) *WalletHandler {
	return &WalletHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// EnsureUser handles the POST /wallet endpoint. Registration is
// idempotent: re-registering an existing user succeeds without changes.
func (h *WalletHandler) EnsureUser(c *gin.Context) {
	var req dto.EnsureUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	if err := h.ledgerService.EnsureUser(c.Request.Context(), req.UserID, req.Username, req.FirstName); err != nil {
		h.logger.Error("Error registering wallet", map[string]any{
			"user_id": req.UserID,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBalance handles the GET /wallet/:userId/balance endpoint
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error getting wallet balance", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  userID,
		Balance: entity.FormatAmount(balance),
	})
}

// RequestDeposit handles the POST /deposits endpoint
func (h *WalletHandler) RequestDeposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	quote, err := h.ledgerService.RequestDeposit(c.Request.Context(), req.UserID, amount)
	if err != nil {
		h.logger.Error("Error opening deposit", map[string]any{
			"user_id": req.UserID,
			"amount":  req.Amount,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.DepositQuoteResponse{
		TransactionID: quote.TransactionID,
		Amount:        entity.FormatAmount(quote.Amount),
		Fee:           entity.FormatAmount(quote.Fee),
		Payable:       entity.FormatAmount(quote.Payable),
	})
}

// RequestWithdrawal handles the POST /withdrawals endpoint
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	total, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	receipt, err := h.ledgerService.RequestWithdrawal(c.Request.Context(), req.UserID, req.PixKey, total)
	if err != nil {
		h.logger.Error("Error requesting withdrawal", map[string]any{
			"user_id": req.UserID,
			"amount":  req.Amount,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.WithdrawalReceiptResponse{
		WithdrawalID: receipt.WithdrawalID,
		FeeID:        receipt.FeeID,
		Net:          entity.FormatAmount(receipt.Net),
		Fee:          entity.FormatAmount(receipt.Fee),
		Total:        entity.FormatAmount(receipt.Total),
	})
}

// GetTransaction handles the GET /transactions/:id endpoint
func (h *WalletHandler) GetTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid transaction ID format")
		return
	}

	transaction, err := h.ledgerService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// pathUserID extracts and validates the :userId path parameter
func pathUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return 0, false
	}
	return userID, true
}
