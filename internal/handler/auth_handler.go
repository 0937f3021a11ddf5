package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkov/survey-backend-go/internal/config"
	"github.com/avolkov/survey-backend-go/pkg/response"
)

// AuthHandler issues API tokens
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token handles POST /api/v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}

	if req.Username != h.cfg.AuthUsername || req.Password != h.cfg.AuthPassword {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": req.Username,
		"iat": now.Unix(),
		"exp": now.Add(24 * time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		response.InternalError(c, "failed to sign token")
		return
	}

	response.Success(c, gin.H{"token": signed})
}
