package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	domainerr "github.com/pmotterani/flexipay/internal/domain/error"
	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/dto"
)

// AdminIDKey is the gin context key under which the authenticated
// operator id is stored.
const AdminIDKey = "adminID"

// AdminClaims are the JWT claims carried by an operator token
type AdminClaims struct {
	AdminID int64 `json:"adminId"`
	jwt.RegisteredClaims
}

// IssueAdminToken signs a bearer token for the given operator id
func IssueAdminToken(secret string, adminID int64, ttl time.Duration, timeProvider coreport.TimeProvider) (string, time.Time, error) {
	now := timeProvider.Now()
	expiresAt := now.Add(ttl)

	claims := AdminClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "flexipay",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// AdminAuth validates the Bearer token and checks that the operator is on
// the allow list. Requests that fail are rejected with 401.
func AdminAuth(secret string, allowedIDs []int64, logger coreport.Logger) gin.HandlerFunc {
	allowed := make(map[int64]bool, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = true
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c, "Missing bearer token")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Rejected operator token", map[string]any{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			})
			unauthorized(c, "Invalid or expired token")
			return
		}

		if !allowed[claims.AdminID] {
			logger.Warn("Operator not on allow list", map[string]any{
				"admin_id": claims.AdminID,
				"ip":       c.ClientIP(),
			})
			unauthorized(c, "Operator not authorized")
			return
		}

		c.Set(AdminIDKey, claims.AdminID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrUnauthorized),
		Message: message,
	})
}
