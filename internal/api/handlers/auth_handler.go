package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"asset-tracking-api-server/config"
	"asset-tracking-api-server/internal/auth"
	"asset-tracking-api-server/internal/storage"
)

type AuthHandler struct {
	Users *storage.UserRepository
	Cfg   config.Config
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		translateError(c, err)
		return
	}

	if !user.IsActive {
		respondError(c, http.StatusForbidden, "Your account has been disabled. Please contact admin")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	expiration, err := time.ParseDuration(h.Cfg.JWT.Expiration)
	if err != nil {
		expiration = 24 * time.Hour
	}

	token, err := auth.GenerateJWT(user, []byte(h.Cfg.JWT.Secret), expiration)
	if err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged in successfully",
		"token":   token,
		"data": gin.H{
			"user": gin.H{
				"id":        user.ID.Hex(),
				"name":      user.Name,
				"email":     user.Email,
				"role":      user.Role,
				"dealerRef": user.DealerRef,
			},
		},
	})
}
