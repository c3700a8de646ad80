package dto

// WebhookEvent is the payment processor's deposit notification. EventID
// identifies the delivery for deduplication; TransactionID is the ledger
// record the payment belongs to.
type WebhookEvent struct {
	EventID       string `json:"eventId" binding:"required"`
	TransactionID int64  `json:"transactionId" binding:"required"`
	ProcessorRef  string `json:"processorRef" binding:"required"`
	Status        string `json:"status" binding:"required,oneof=paid failed"`
}

// WebhookAck confirms the notification was handled
type WebhookAck struct {
	EventID   string `json:"eventId"`
	Duplicate bool   `json:"duplicate"`
}
