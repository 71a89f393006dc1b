package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/2eliot/Inefablestore/controllers"
	"github.com/2eliot/Inefablestore/middleware"
	ws "github.com/2eliot/Inefablestore/websocket"
)

// RegisterAdminRoutes sets up the operator panel: the order and withdrawal
// queues, affiliate management, settings and the realtime event stream.
func RegisterAdminRoutes(e *echo.Echo, orderController *controllers.OrderController, affiliateController *controllers.AffiliateController, withdrawalController *controllers.WithdrawalController, settingsController *controllers.SettingsController, notificationController *controllers.NotificationController, hub *ws.Hub) {
	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireUserType(middleware.UserTypeAdmin))

	admin.GET("/orders", orderController.GetOrders)
	admin.GET("/orders/:id", orderController.GetOrder)
	admin.POST("/orders/:id/status", orderController.DecideOrder)

	admin.GET("/affiliates", affiliateController.ListAffiliates)
	admin.POST("/affiliates", affiliateController.CreateAffiliate)
	admin.PUT("/affiliates/:id", affiliateController.UpdateAffiliate)
	admin.DELETE("/affiliates/:id", affiliateController.DeleteAffiliate)

	admin.GET("/withdrawals", withdrawalController.GetWithdrawals)
	admin.POST("/withdrawals/:id/status", withdrawalController.DecideWithdrawal)

	admin.GET("/settings/rate", settingsController.GetRate)
	admin.POST("/settings/rate", settingsController.SetRate)
	admin.GET("/settings/payments", settingsController.GetPayments)
	admin.POST("/settings/payments", settingsController.SetPayments)
	admin.GET("/settings/notify-email", settingsController.GetNotifyEmail)
	admin.POST("/settings/notify-email", settingsController.SetNotifyEmail)
	admin.POST("/settings/commission", settingsController.SetCommissionPercent)

	admin.GET("/notifications", notificationController.GetNotifications)
	admin.PUT("/notifications/:id/read", notificationController.MarkRead)

	admin.GET("/ws", func(c echo.Context) error {
		return ws.HandleWebSocket(c, hub)
	})
}
