package dto

// EnsureUserRequest registers a wallet for a messaging-platform user
type EnsureUserRequest struct {
	UserID    int64  `json:"userId" binding:"required"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}

// BalanceResponse represents the API response for a user's balance
type BalanceResponse struct {
	UserID  int64  `json:"userId"`
	Balance string `json:"balance"`
}

// DepositRequest opens a deposit. Amount is a decimal string.
type DepositRequest struct {
	UserID int64  `json:"userId" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// DepositQuoteResponse echoes the opened deposit with its fee breakdown
type DepositQuoteResponse struct {
	TransactionID int64  `json:"transactionId"`
	Amount        string `json:"amount"`
	Fee           string `json:"fee"`
	Payable       string `json:"payable"`
}

// WithdrawalRequest queues a withdrawal for review. Amount is the total
// debited from the balance, fee included.
type WithdrawalRequest struct {
	UserID int64  `json:"userId" binding:"required"`
	PixKey string `json:"pixKey" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// WithdrawalReceiptResponse describes the accepted withdrawal
type WithdrawalReceiptResponse struct {
	WithdrawalID int64  `json:"withdrawalId"`
	FeeID        int64  `json:"feeId"`
	Net          string `json:"net"`
	Fee          string `json:"fee"`
	Total        string `json:"total"`
}

// TransactionResponse represents a single ledger record
type TransactionResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	Status       string `json:"status"`
	PixKey       string `json:"pixKey,omitempty"`
	ProcessorRef string `json:"processorRef,omitempty"`
	AdminNote    string `json:"adminNote,omitempty"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}
