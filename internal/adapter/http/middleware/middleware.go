package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"
	"casino-wallet-platform/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// Header carrying the gateway's shared webhook token
	HeaderWebhookToken = "X-Webhook-Token"

	// Context keys
	CtxUserID        = "user_id"
	CtxAdminID       = "admin_id"
	CtxAdminUsername = "admin_username"
)

// SessionAuth creates a middleware that validates the player session token
// minted by the identity provider and puts the profile id on the context.
func SessionAuth(verifier ports.SessionVerifier, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		userID, err := verifier.Verify(authHeader[7:])
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxUserID, userID)
		c.Next()
	}
}

// JWTAuth creates a middleware that validates back-office JWTs.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		claims, err := tokenSvc.Validate(authHeader[7:])
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxAdminID, claims.AdminID)
		c.Set(CtxAdminUsername, claims.Username)
		c.Next()
	}
}

// WebhookAuth creates a middleware that authenticates gateway webhooks and
// game-host callbacks via the shared token. The token is resolved per
// request so credential rotation takes effect without restart.
func WebhookAuth(creds ports.CredentialSource, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader(HeaderWebhookToken)
		if presented == "" {
			response.Error(c, apperror.ErrWebhookUnauthorized())
			c.Abort()
			return
		}

		current, err := creds.Credentials(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve webhook token")
			response.Error(c, apperror.InternalError(err))
			c.Abort()
			return
		}
		if current.WebhookToken == "" ||
			subtle.ConstantTimeCompare([]byte(presented), []byte(current.WebhookToken)) != 1 {
			log.Warn().Str("path", c.Request.URL.Path).Str("client_ip", c.ClientIP()).
				Msg("webhook token mismatch")
			response.Error(c, apperror.ErrWebhookUnauthorized())
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
