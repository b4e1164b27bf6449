package httpserver

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"

	"memos-mcp/pkg/log"
)

// tokenAuth validates the SHA-256 hash of the access token passed as a
// ?token= query parameter. Clients never see or send the raw token; only its
// hash travels in URLs.
type tokenAuth struct {
	expectedHash string
}

func newTokenAuth(accessToken string, enabled bool) tokenAuth {
	if !enabled || accessToken == "" {
		return tokenAuth{}
	}
	return tokenAuth{expectedHash: ComputeTokenHash(accessToken)}
}

// ComputeTokenHash returns the hex SHA-256 of the access token.
func ComputeTokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (a tokenAuth) enabled() bool {
	return a.expectedHash != ""
}

// middleware rejects requests without the expected token hash. Comparison is
// constant-time.
func (a tokenAuth) middleware(l log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.enabled() {
			c.Next()
			return
		}

		provided := c.Query("token")
		if provided == "" {
			l.Warnf(context.Background(), "request rejected: missing token query parameter from %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Token query parameter is required. Access URL format: /mcp?token=<sha256_hash>",
				"code":    "MISSING_TOKEN",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(a.expectedHash)) != 1 {
			l.Warnf(context.Background(), "request rejected: invalid token hash from %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication failed",
				"message": "Invalid token provided",
				"code":    "INVALID_TOKEN",
			})
			return
		}

		c.Next()
	}
}
