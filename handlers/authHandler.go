package handlers

import (
	"errors"
	"net/http"

	"acmemedical/middlewares"
	"acmemedical/services"
	"acmemedical/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service services.AuthService
}

func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login authenticates the user and returns a PASETO token pair along
// with the account details.
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&credentials); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}

	user, err := h.service.Authenticate(c.Request.Context(), credentials.Username, credentials.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			middlewares.HttpError(c, "Invalid username or password", http.StatusUnauthorized, nil)
			return
		}
		middlewares.HttpError(c, "Authentication failed", http.StatusInternalServerError, err)
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(utils.TokenClaims{
		UserID:      user.ID,
		Username:    user.Username,
		Roles:       user.RoleNames(),
		PhysicianID: user.PhysicianID,
	})
	if err != nil {
		middlewares.HttpError(c, "Failed to generate tokens", http.StatusInternalServerError, err)
		return
	}

	middlewares.RespondJSON(c, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user": gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"roles":       user.RoleNames(),
			"physicianId": user.PhysicianID,
		},
	}, http.StatusOK)
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.RefreshToken == "" {
		middlewares.HttpError(c, "Refresh token is required", http.StatusBadRequest, err)
		return
	}

	claims, err := utils.ValidateToken(body.RefreshToken)
	if err != nil {
		middlewares.HttpError(c, "Invalid refresh token", http.StatusUnauthorized, err)
		return
	}

	// Re-read the account so revoked users and stale roles drop out.
	user, err := h.service.GetUserByUsername(c.Request.Context(), claims.Username)
	if err != nil {
		middlewares.HttpError(c, "Internal server error", http.StatusInternalServerError, err)
		return
	}
	if user == nil {
		middlewares.HttpError(c, "Account no longer exists", http.StatusUnauthorized, nil)
		return
	}

	accessToken, err := utils.GenerateAccessToken(utils.TokenClaims{
		UserID:      user.ID,
		Username:    user.Username,
		Roles:       user.RoleNames(),
		PhysicianID: user.PhysicianID,
	})
	if err != nil {
		middlewares.HttpError(c, "Failed to generate token", http.StatusInternalServerError, err)
		return
	}

	middlewares.RespondJSON(c, gin.H{"accessToken": accessToken}, http.StatusOK)
}

// WhoAmI returns the authenticated caller's own account details.
func (h *AuthHandler) WhoAmI(c *gin.Context) {
	username, err := middlewares.ExtractUsernameFromContext(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, "Unauthorized", http.StatusUnauthorized, err)
		return
	}
	user, svcErr := h.service.GetUserByUsername(c.Request.Context(), username)
	if svcErr != nil {
		middlewares.HttpError(c, "Internal server error", http.StatusInternalServerError, svcErr)
		return
	}
	if user == nil {
		middlewares.HttpError(c, "Account not found", http.StatusNotFound, nil)
		return
	}
	middlewares.RespondJSON(c, user, http.StatusOK)
}
