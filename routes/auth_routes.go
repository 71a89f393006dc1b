package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/2eliot/Inefablestore/controllers"
	"github.com/2eliot/Inefablestore/middleware"
)

// RegisterAuthRoutes sets up login and profile routes.
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	e.POST("/api/auth/login", authController.Login)

	profile := e.Group("/api/auth")
	profile.Use(middleware.JWTMiddleware())
	profile.GET("/profile", authController.Profile)
}
