package controllers

import (
	"acmemedical/handlers"
	"acmemedical/middlewares"
	"acmemedical/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes initializes all authentication routes directly on the router
func (ac *AuthController) RegisterRoutes(router *gin.Engine, authService services.AuthService) {
	// Public routes: credentials travel in the request body
	router.POST("/auth/login", ac.Handler.Login)
	router.POST("/auth/refresh-token", ac.Handler.RefreshToken)

	// Protected routes: requires valid credentials
	authGroup := router.Group("/auth").Use(middlewares.Authenticate(authService))
	{
		authGroup.GET("/whoami", ac.Handler.WhoAmI)
	}
}
