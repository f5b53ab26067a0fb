package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orgs-directory/backend/internal/auth"
	"github.com/orgs-directory/backend/pkg/response"
)

const (
	// ContextClient is the key for the authenticated client name in gin context.
	ContextClient = "client"
	// HeaderAPIKey carries the shared secret.
	HeaderAPIKey = "X-API-Key"
)

const invalidKey = "Invalid API key"

// Auth accepts either the shared API key header or a bearer token issued by tokens.
func Auth(apiKey string, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(HeaderAPIKey); key != "" {
			if !keyMatches(key, apiKey) {
				response.Unauthorized(c, invalidKey)
				return
			}
			c.Set(ContextClient, auth.DefaultSubject)
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, invalidKey)
			return
		}
		claims, err := tokens.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, invalidKey)
			return
		}
		c.Set(ContextClient, claims.Subject)
		c.Next()
	}
}

// RequireAPIKey accepts only the shared API key header.
func RequireAPIKey(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !keyMatches(c.GetHeader(HeaderAPIKey), apiKey) {
			response.Unauthorized(c, invalidKey)
			return
		}
		c.Set(ContextClient, auth.DefaultSubject)
		c.Next()
	}
}

func keyMatches(got, want string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
