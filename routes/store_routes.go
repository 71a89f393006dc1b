package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/2eliot/Inefablestore/controllers"
)

// RegisterStoreRoutes sets up the public storefront surface: checkout,
// referral validation, catalog browsing and payment info.
func RegisterStoreRoutes(e *echo.Echo, orderController *controllers.OrderController, affiliateController *controllers.AffiliateController, settingsController *controllers.SettingsController, catalogController *controllers.CatalogController) {
	e.POST("/api/orders", orderController.CreateOrder)

	e.GET("/api/store/referral/validate", affiliateController.ValidateCode)
	e.GET("/api/store/rate", settingsController.GetRate)
	e.GET("/api/store/payments", settingsController.GetPayments)
	e.GET("/api/store/packages", catalogController.ListPackages)
	e.GET("/api/store/packages/:id/items", catalogController.ListItems)
}
