package controllers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/2eliot/Inefablestore/middleware"
	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/repositories"
	"github.com/2eliot/Inefablestore/services"
	"github.com/2eliot/Inefablestore/utils"
)

// AuthController handles operator and affiliate login. The operator account
// comes from the environment; affiliates log in with the credentials the
// operator assigned them.
type AuthController struct {
	affiliates *repositories.AffiliateRepository
}

func NewAuthController(affiliates *repositories.AffiliateRepository) *AuthController {
	return &AuthController{affiliates: affiliates}
}

// Login authenticates either role and returns a JWT.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" &&
		subtle.ConstantTimeCompare([]byte(req.Email), []byte(adminEmail)) == 1 &&
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(adminPassword)) == 1 {
		token, err := utils.GenerateJWT("admin", adminEmail, middleware.UserTypeAdmin)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Login successful",
			Data: models.LoginResponse{
				Token:    token,
				UserType: middleware.UserTypeAdmin,
				Email:    adminEmail,
			},
		})
	}

	affiliate, err := ac.affiliates.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == services.ErrNotFound {
			return respondError(c, services.ErrInvalidCredentials)
		}
		return respondError(c, err)
	}
	if !affiliate.Active || affiliate.PasswordHash == "" ||
		!utils.CheckPassword(affiliate.PasswordHash, req.Password) {
		return respondError(c, services.ErrInvalidCredentials)
	}

	token, err := utils.GenerateJWT(affiliate.ID.Hex(), affiliate.Email, middleware.UserTypeAffiliate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginResponse{
			Token:    token,
			UserType: middleware.UserTypeAffiliate,
			Name:     affiliate.Name,
			Email:    affiliate.Email,
		},
	})
}

// Profile returns the account behind the presented token.
func (ac *AuthController) Profile(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Missing or invalid token",
		})
	}

	profile := models.Profile{
		Email: claims.Email,
		Role:  claims.UserType,
	}

	if claims.UserType == middleware.UserTypeAffiliate {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if id, err := affiliateID(claims); err == nil {
			if affiliate, err := ac.affiliates.FindByID(ctx, id); err == nil {
				profile.Name = affiliate.Name
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    profile,
	})
}
