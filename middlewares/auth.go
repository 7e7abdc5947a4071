package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"acmemedical/models"
	"acmemedical/services"
	"acmemedical/utils"

	"github.com/gin-gonic/gin"
)

// contextKey defines a custom context key type to store caller details.
type contextKey string

const (
	userIDKey      contextKey = "userID"
	usernameKey    contextKey = "username"
	userRolesKey   contextKey = "userRoles"
	physicianIDKey contextKey = "physicianID"
)

// Authenticate validates the caller's credentials and stashes the
// principal in the request context. HTTP Basic credentials are checked
// against the security_user table; a PASETO bearer token is accepted as
// an alternative. Requests without valid credentials are rejected as 401.
func Authenticate(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if username, password, ok := c.Request.BasicAuth(); ok {
			user, err := authService.Authenticate(c.Request.Context(), username, password)
			if err != nil {
				if errors.Is(err, services.ErrInvalidCredentials) {
					HttpError(c, "Invalid credentials", http.StatusUnauthorized, nil)
				} else {
					HttpError(c, "Authentication failed", http.StatusInternalServerError, err)
				}
				return
			}
			setPrincipal(c, user.ID, user.Username, user.RoleNames(), user.PhysicianID)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := utils.ValidateToken(token)
			if err != nil {
				HttpError(c, "Invalid token", http.StatusUnauthorized, err)
				return
			}
			setPrincipal(c, claims.UserID, claims.Username, claims.Roles, claims.PhysicianID)
			c.Next()
			return
		}

		HttpError(c, "Missing credentials", http.StatusUnauthorized, nil)
	}
}

func setPrincipal(c *gin.Context, userID int64, username string, roles []string, physicianID *uint) {
	ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
	ctx = context.WithValue(ctx, usernameKey, username)
	ctx = context.WithValue(ctx, userRolesKey, roles)
	if physicianID != nil {
		ctx = context.WithValue(ctx, physicianIDKey, *physicianID)
	}
	c.Request = c.Request.WithContext(ctx)
}

// RequireRole restricts access to callers holding any of the given roles.
func RequireRole(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := ExtractUserRolesFromContext(c.Request.Context())
		if err != nil {
			HttpError(c, "User role not found in context", http.StatusUnauthorized, err)
			return
		}

		for _, role := range roles {
			for _, required := range requiredRoles {
				if role == required {
					c.Next()
					return
				}
			}
		}

		HttpError(c, "Forbidden: insufficient privileges", http.StatusForbidden, nil)
	}
}

// RequireSelfPhysicianOrRole allows callers holding the bypass role
// through unconditionally; any other caller must be linked to the
// physician named by the path parameter. A caller with no linked
// physician is rejected as Forbidden.
func RequireSelfPhysicianOrRole(bypassRole, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := ExtractUserRolesFromContext(c.Request.Context())
		if err != nil {
			HttpError(c, "User role not found in context", http.StatusUnauthorized, err)
			return
		}
		for _, role := range roles {
			if role == bypassRole {
				c.Next()
				return
			}
		}

		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil {
			HttpError(c, "Invalid id", http.StatusBadRequest, err)
			return
		}

		physicianID, ok := ExtractPhysicianIDFromContext(c.Request.Context())
		if !ok || physicianID != uint(id) {
			HttpError(c, "Forbidden: not the resource owner", http.StatusForbidden, nil)
			return
		}

		c.Next()
	}
}

// ExtractUserIDFromContext retrieves the account id from the context.
func ExtractUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0, errors.New("user ID not found in context")
	}
	return userID, nil
}

// ExtractUsernameFromContext retrieves the username from the context.
func ExtractUsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value(usernameKey).(string)
	if !ok {
		return "", errors.New("username not found in context")
	}
	return username, nil
}

// ExtractUserRolesFromContext retrieves the caller's roles from the context.
func ExtractUserRolesFromContext(ctx context.Context) ([]string, error) {
	roles, ok := ctx.Value(userRolesKey).([]string)
	if !ok {
		return nil, errors.New("user roles not found in context")
	}
	return roles, nil
}

// ExtractPhysicianIDFromContext retrieves the caller's linked physician
// id; ok is false when the account has no linked physician.
func ExtractPhysicianIDFromContext(ctx context.Context) (uint, bool) {
	physicianID, ok := ctx.Value(physicianIDKey).(uint)
	return physicianID, ok
}

// HasRoleInContext reports whether the caller holds the named role.
func HasRoleInContext(ctx context.Context, name string) bool {
	roles, err := ExtractUserRolesFromContext(ctx)
	if err != nil {
		return false
	}
	for _, role := range roles {
		if role == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the caller holds the ADMIN role.
func IsAdmin(ctx context.Context) bool {
	return HasRoleInContext(ctx, models.AdminRole)
}
