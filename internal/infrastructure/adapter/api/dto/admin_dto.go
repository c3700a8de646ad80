package dto

// TokenRequest exchanges the shared operator secret for a bearer token
type TokenRequest struct {
	AdminID int64  `json:"adminId" binding:"required"`
	Secret  string `json:"secret" binding:"required"`
}

// TokenResponse carries the issued bearer token
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// SetBalanceRequest overwrites a user's balance. Balance is a decimal string.
type SetBalanceRequest struct {
	Balance string `json:"balance" binding:"required"`
}

// AdjustBalanceRequest applies a signed delta to a user's balance
type AdjustBalanceRequest struct {
	Delta string `json:"delta" binding:"required"`
}

// AdjustBalanceResponse reports whether the delta was applied
type AdjustBalanceResponse struct {
	UserID   int64  `json:"userId"`
	Accepted bool   `json:"accepted"`
	Balance  string `json:"balance"`
}

// RefuseWithdrawalRequest carries the operator's reason for refusing
type RefuseWithdrawalRequest struct {
	Note string `json:"note" binding:"required"`
}

// ProfitResponse reports the sum of all completed fees
type ProfitResponse struct {
	Total string `json:"total"`
}

// PendingWithdrawalsResponse lists withdrawals awaiting review
type PendingWithdrawalsResponse struct {
	Withdrawals []TransactionResponse `json:"withdrawals"`
}
