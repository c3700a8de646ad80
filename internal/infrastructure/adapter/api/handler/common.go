// Package handler contains the gin HTTP handlers for the wallet,
// webhook and operator APIs.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	domainerr "github.com/pmotterani/flexipay/internal/domain/error"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/dto"
)

// httpStatus maps domain errors to HTTP status codes
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrUserNotFound),
		errors.Is(err, domainerr.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerr.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainerr.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, domainerr.ErrContention):
		return http.StatusServiceUnavailable
	case errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrNegativeAmount),
		errors.Is(err, domainerr.ErrAmountOverflow),
		errors.Is(err, domainerr.ErrInvalidUserID),
		errors.Is(err, domainerr.ErrDepositBelowMinimum),
		errors.Is(err, domainerr.ErrDepositAboveMaximum),
		errors.Is(err, domainerr.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domainerr.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a standardized error response for a domain error
func respondError(c *gin.Context, err error) {
	status := httpStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}

// respondBadRequest writes a 400 for malformed input
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
		Message: message,
	})
}

// toTransactionResponse converts a ledger record into its API shape
func toTransactionResponse(transaction *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:           transaction.ID,
		UserID:       transaction.UserID,
		Type:         string(transaction.Type),
		Amount:       entity.FormatAmount(transaction.Amount),
		Status:       string(transaction.Status),
		PixKey:       transaction.PixKey,
		ProcessorRef: transaction.ProcessorRef,
		AdminNote:    transaction.AdminNote,
		CreatedAt:    transaction.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    transaction.UpdatedAt.Format(time.RFC3339),
	}
}
