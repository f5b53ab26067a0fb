package auth

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orgs-directory/backend/pkg/response"
)

// DefaultSubject is used when the caller does not name itself.
const DefaultSubject = "api-key"

// Handler issues bearer tokens.
type Handler struct {
	tokens *TokenService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(tokens *TokenService, logger *zap.Logger) *Handler {
	return &Handler{tokens: tokens, logger: logger}
}

// TokenRequest is the optional body for POST /auth/token.
type TokenRequest struct {
	Client string `json:"client" binding:"omitempty,max=64"`
}

// TokenResponse is returned by POST /auth/token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Token handles POST /auth/token. The route must sit behind API key authentication.
func (h *Handler) Token(c *gin.Context) {
	var body TokenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.BadRequest(c, "invalid token request")
			return
		}
	}
	subject := strings.TrimSpace(body.Client)
	if subject == "" {
		subject = DefaultSubject
	}
	token, exp, err := h.tokens.Issue(subject)
	if err != nil {
		h.logger.Error("issue token", zap.Error(err))
		response.Internal(c, "failed to issue token")
		return
	}
	response.OK(c, TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp})
}
