package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"tourly/internal/shared/config"
	"tourly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const sessionTokenType = "booking_session"

// IssueSessionToken creates a guest checkout token bound to one booking
// session. There are no user accounts; the token is the only proof of
// ownership of a session.
func IssueSessionToken(cfg *config.Config, sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"type":       sessionTokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(cfg.Session.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Session.TokenSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// SessionAuth creates a middleware that validates the guest checkout token
// and stores the bound session ID in the request context.
func SessionAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Session.TokenSecret), nil
		})
		if err != nil || !token.Valid {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired session token", nil, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid session token claims", nil, nil)
			c.Abort()
			return
		}

		if tokenType, ok := claims["type"]; !ok || tokenType != sessionTokenType {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token type", nil, nil)
			c.Abort()
			return
		}

		sessionID, ok := claims["session_id"].(string)
		if !ok || sessionID == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "session token is not bound to a session", nil, nil)
			c.Abort()
			return
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}

// RequireSessionParam ensures the :id path parameter matches the session
// the token was issued for. Tokens are single-session; a valid token for
// one session grants nothing on another.
func RequireSessionParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenSessionID := c.GetString("session_id")
		paramID := c.Param("id")
		if paramID != "" && tokenSessionID != paramID {
			response.RespondJSON(c, "error", http.StatusForbidden, "token is not valid for this session", nil, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
