package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/domain/usecase/ledger"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/dto"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/middleware"
)

// AdminHandler handles the operator API: manual balance corrections and
// the withdrawal review queue.
type AdminHandler struct {
	ledgerService *ledger.Service
	logger        coreport.Logger
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(ledgerService *ledger.Service, logger coreport.Logger) *AdminHandler {
	return &AdminHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// SetBalance handles the PUT /admin/users/:userId/balance endpoint
func (h *AdminHandler) SetBalance(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var req dto.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	balance, err := entity.ParseAmount(req.Balance)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.ledgerService.SetBalance(c.Request.Context(), userID, balance); err != nil {
		h.logger.Error("Error setting balance", map[string]any{
			"user_id":  userID,
			"admin_id": c.GetInt64(middleware.AdminIDKey),
			"error":    err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  userID,
		Balance: entity.FormatAmount(balance),
	})
}

// AdjustBalance handles the POST /admin/users/:userId/adjust endpoint.
// A debit that would take the balance negative is reported as not
// accepted rather than failing the request.
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	delta, err := parseSignedAmount(req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}

	accepted, err := h.ledgerService.Adjust(c.Request.Context(), userID, delta)
	if err != nil {
		h.logger.Error("Error adjusting balance", map[string]any{
			"user_id":  userID,
			"admin_id": c.GetInt64(middleware.AdminIDKey),
			"error":    err.Error(),
		})
		respondError(c, err)
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AdjustBalanceResponse{
		UserID:   userID,
		Accepted: accepted,
		Balance:  entity.FormatAmount(balance),
	})
}

// PendingWithdrawals handles the GET /admin/withdrawals endpoint
func (h *AdminHandler) PendingWithdrawals(c *gin.Context) {
	withdrawals, err := h.ledgerService.PendingWithdrawals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	rows := make([]dto.TransactionResponse, 0, len(withdrawals))
	for _, withdrawal := range withdrawals {
		rows = append(rows, toTransactionResponse(withdrawal))
	}

	c.JSON(http.StatusOK, dto.PendingWithdrawalsResponse{Withdrawals: rows})
}

// StartWithdrawal handles the POST /admin/withdrawals/:id/start endpoint
func (h *AdminHandler) StartWithdrawal(c *gin.Context) {
	h.transitionWithdrawal(c, "starting", func(id int64) error {
		return h.ledgerService.StartWithdrawal(c.Request.Context(), id)
	})
}

// ApproveWithdrawal handles the POST /admin/withdrawals/:id/approve endpoint
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	h.transitionWithdrawal(c, "approving", func(id int64) error {
		return h.ledgerService.ApproveWithdrawal(c.Request.Context(), id)
	})
}

// RefuseWithdrawal handles the POST /admin/withdrawals/:id/refuse endpoint
func (h *AdminHandler) RefuseWithdrawal(c *gin.Context) {
	var req dto.RefuseWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	h.transitionWithdrawal(c, "refusing", func(id int64) error {
		return h.ledgerService.RefuseWithdrawal(c.Request.Context(), id, req.Note)
	})
}

// transitionWithdrawal runs one review-queue transition and reports the
// resulting record
func (h *AdminHandler) transitionWithdrawal(c *gin.Context, action string, fn func(id int64) error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid withdrawal ID format")
		return
	}

	if err := fn(id); err != nil {
		h.logger.Error("Error "+action+" withdrawal", map[string]any{
			"withdrawal_id": id,
			"admin_id":      c.GetInt64(middleware.AdminIDKey),
			"error":         err.Error(),
		})
		respondError(c, err)
		return
	}

	transaction, err := h.ledgerService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// WithdrawalFee handles the GET /admin/withdrawals/:id/fee endpoint
func (h *AdminHandler) WithdrawalFee(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid withdrawal ID format")
		return
	}

	fee, err := h.ledgerService.WithdrawalFee(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"withdrawalId": id,
		"fee":          entity.FormatAmount(fee),
	})
}

// Profit handles the GET /admin/profit endpoint
func (h *AdminHandler) Profit(c *gin.Context) {
	total, err := h.ledgerService.ProfitTotal(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfitResponse{Total: entity.FormatAmount(total)})
}

// LastActivity handles the GET /admin/users/:userId/last-activity endpoint
func (h *AdminHandler) LastActivity(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	lastActivity, err := h.ledgerService.LastActivity(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"userId": userID}
	if lastActivity.IsZero() {
		response["lastActivity"] = nil
	} else {
		response["lastActivity"] = lastActivity.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, response)
}

// parseSignedAmount parses a decimal string that may carry a leading
// minus sign. The magnitude obeys the same rules as any other amount.
func parseSignedAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	negative := strings.HasPrefix(trimmed, "-")

	magnitude, err := entity.ParseAmount(strings.TrimPrefix(trimmed, "-"))
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		return magnitude.Neg(), nil
	}
	return magnitude, nil
}
