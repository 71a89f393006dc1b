package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/2eliot/Inefablestore/middleware"
	"github.com/2eliot/Inefablestore/models"
)

// NotificationController serves the in-app notification feed for whichever
// dashboard is logged in.
type NotificationController struct {
	collection *mongo.Collection
}

func NewNotificationController(collection *mongo.Collection) *NotificationController {
	return &NotificationController{collection: collection}
}

func (nc *NotificationController) audience(c echo.Context) string {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return ""
	}
	if claims.UserType == middleware.UserTypeAdmin {
		return models.AudienceAdmin
	}
	return claims.UserID
}

// GetNotifications returns the latest notifications for the caller.
func (nc *NotificationController) GetNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	audience := nc.audience(c)
	if audience == "" {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Missing or invalid token",
		})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(50)
	cursor, err := nc.collection.Find(ctx, bson.M{"audience": audience}, opts)
	if err != nil {
		return respondError(c, err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}

// MarkRead flags one notification as read.
func (nc *NotificationController) MarkRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	audience := nc.audience(c)
	if audience == "" {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Missing or invalid token",
		})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	filter := bson.M{"_id": id, "audience": audience}
	result, err := nc.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return respondError(c, err)
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Record not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification marked as read",
	})
}
