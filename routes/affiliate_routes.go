package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/2eliot/Inefablestore/controllers"
	"github.com/2eliot/Inefablestore/middleware"
)

// RegisterAffiliateRoutes sets up the affiliate self-service dashboard.
func RegisterAffiliateRoutes(e *echo.Echo, affiliateController *controllers.AffiliateController, withdrawalController *controllers.WithdrawalController, notificationController *controllers.NotificationController) {
	affiliate := e.Group("/api/affiliate")
	affiliate.Use(middleware.JWTMiddleware())
	affiliate.Use(middleware.RequireUserType(middleware.UserTypeAffiliate))

	affiliate.GET("/summary", affiliateController.Summary)
	affiliate.GET("/withdrawals", withdrawalController.MyWithdrawals)
	affiliate.POST("/withdrawals", withdrawalController.CreateWithdrawal)
	affiliate.GET("/notifications", notificationController.GetNotifications)
	affiliate.PUT("/notifications/:id/read", notificationController.MarkRead)
}
