package routes

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/2eliot/Inefablestore/config"
	"github.com/2eliot/Inefablestore/controllers"
	"github.com/2eliot/Inefablestore/repositories"
	"github.com/2eliot/Inefablestore/services"
	"github.com/2eliot/Inefablestore/websocket"
)

// SetupRoutes wires repositories, services and controllers and registers
// every route group.
func SetupRoutes(e *echo.Echo, db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) {
	orderRepo := repositories.NewOrderRepository(db)
	affiliateRepo := repositories.NewAffiliateRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)

	settingsService := services.NewSettingsService(config.GetCollection(db, "settings"), redisClient)
	mailer := services.NewMailer()
	notifyService := services.NewNotifyService(config.GetCollection(db, "notifications"), mailer, settingsService, hub)
	discountService := services.NewDiscountService(affiliateRepo, catalogRepo)
	commissionService := services.NewCommissionService(affiliateRepo, catalogRepo, settingsService)
	orderService := services.NewOrderService(orderRepo, affiliateRepo, catalogRepo, commissionService, notifyService)
	withdrawalService := services.NewWithdrawalService(withdrawalRepo, affiliateRepo, notifyService)

	authController := controllers.NewAuthController(affiliateRepo)
	orderController := controllers.NewOrderController(orderService)
	affiliateController := controllers.NewAffiliateController(affiliateRepo, discountService, orderService)
	withdrawalController := controllers.NewWithdrawalController(withdrawalService)
	settingsController := controllers.NewSettingsController(settingsService)
	catalogController := controllers.NewCatalogController(catalogRepo)
	notificationController := controllers.NewNotificationController(config.GetCollection(db, "notifications"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	RegisterStoreRoutes(e, orderController, affiliateController, settingsController, catalogController)
	RegisterAuthRoutes(e, authController)
	RegisterAffiliateRoutes(e, affiliateController, withdrawalController, notificationController)
	RegisterAdminRoutes(e, orderController, affiliateController, withdrawalController, settingsController, notificationController, hub)
}
