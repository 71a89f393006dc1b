package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/middleware"
	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/services"
)

// affiliateID parses the affiliate object id out of JWT claims.
func affiliateID(claims *middleware.JwtCustomClaims) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(claims.UserID)
}

// respondError maps service errors onto HTTP responses with the standard
// envelope. Unknown errors become a logged 500 without leaking details.
func respondError(c echo.Context, err error) error {
	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Record not found",
		})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Record was already processed",
		})
	case errors.Is(err, services.ErrInvalidDecision):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Status must be approved or rejected",
		})
	case errors.Is(err, services.ErrScopeMismatch):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Code is not valid for this package",
		})
	case errors.Is(err, services.ErrInvalidAffiliate):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Account is not active",
		})
	case errors.Is(err, services.ErrInsufficientFunds):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Insufficient balance",
		})
	case errors.Is(err, services.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Amount must be greater than zero",
		})
	case errors.Is(err, services.ErrInvalidMethod):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid method",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: validationErr.Error(),
		})
	}

	log.Printf("Internal error on %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
	})
}
