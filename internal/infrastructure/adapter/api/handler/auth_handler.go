package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerr "github.com/pmotterani/flexipay/internal/domain/error"
	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/dto"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/middleware"
)

// AuthHandler issues bearer tokens for the operator API
type AuthHandler struct {
	secret       string
	allowedIDs   map[int64]bool
	tokenTTL     time.Duration
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(secret string, allowedIDs []int64, tokenTTL time.Duration, timeProvider coreport.TimeProvider, logger coreport.Logger) *AuthHandler {
	allowed := make(map[int64]bool, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = true
	}
	return &AuthHandler{
		secret:       secret,
		allowedIDs:   allowed,
		tokenTTL:     tokenTTL,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// IssueToken handles the POST /auth/token endpoint
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	secretMatches := subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.secret)) == 1
	if h.secret == "" || !secretMatches || !h.allowedIDs[req.AdminID] {
		h.logger.Warn("Rejected token request", map[string]any{
			"admin_id": req.AdminID,
			"ip":       c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrUnauthorized),
			Message: "Invalid credentials",
		})
		return
	}

	token, expiresAt, err := middleware.IssueAdminToken(h.secret, req.AdminID, h.tokenTTL, h.timeProvider)
	if err != nil {
		h.logger.Error("Error signing operator token", map[string]any{
			"admin_id": req.AdminID,
			"error":    err.Error(),
		})
		respondError(c, domainerr.ErrInternalServer)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}
