package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pmotterani/flexipay/internal/domain/port/cache"
	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/domain/usecase/ledger"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/dto"
)

// WebhookHandler receives deposit notifications from the payment
// processor. Deliveries are deduplicated by event id before they touch
// the ledger; a claim is released again when processing fails, so the
// processor's retry is not suppressed while the deposit is still
// unsettled. The confirmation itself is also idempotent, so a guard
// failure degrades to at-least-once instead of dropping the event.
type WebhookHandler struct {
	ledgerService *ledger.Service
	guard         cache.IdempotencyGuard
	logger        coreport.Logger
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(ledgerService *ledger.Service, guard cache.IdempotencyGuard, logger coreport.Logger) *WebhookHandler {
	return &WebhookHandler{
		ledgerService: ledgerService,
		guard:         guard,
		logger:        logger,
	}
}

// HandlePaymentEvent handles the POST /webhooks/payments endpoint
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	var event dto.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		respondBadRequest(c, "Invalid webhook payload: "+err.Error())
		return
	}

	claimed, claimErr := h.guard.Claim(c.Request.Context(), event.EventID)
	if claimErr != nil {
		h.logger.Warn("Idempotency guard unavailable, processing anyway", map[string]any{
			"event_id": event.EventID,
			"error":    claimErr.Error(),
		})
	} else if !claimed {
		c.JSON(http.StatusOK, dto.WebhookAck{EventID: event.EventID, Duplicate: true})
		return
	}

	var err error
	switch event.Status {
	case "paid":
		err = h.ledgerService.ConfirmDeposit(c.Request.Context(), event.TransactionID, event.ProcessorRef)
	case "failed":
		err = h.ledgerService.FailDeposit(c.Request.Context(), event.TransactionID, event.ProcessorRef)
	}
	if err != nil {
		// The ledger, not the cache, decides whether the event was
		// applied. Give the key back so the retry is processed.
		if claimErr == nil {
			if relErr := h.guard.Release(c.Request.Context(), event.EventID); relErr != nil {
				h.logger.Warn("Failed to release webhook claim", map[string]any{
					"event_id": event.EventID,
					"error":    relErr.Error(),
				})
			}
		}
		h.logger.Error("Error applying payment event", map[string]any{
			"event_id":       event.EventID,
			"transaction_id": event.TransactionID,
			"status":         event.Status,
			"error":          err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAck{EventID: event.EventID})
}
