package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/services"
	"github.com/2eliot/Inefablestore/utils"
)

// SettingsController exposes the runtime store settings: the exchange rate
// and payment destinations publicly, everything writable for the operator.
type SettingsController struct {
	settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// GetRate returns the BsD-per-USD exchange rate. Public endpoint; the
// storefront uses it to show local prices.
func (sc *SettingsController) GetRate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rate := sc.settings.ExchangeRate(ctx)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Rate retrieved successfully",
		Data:    map[string]float64{"rate": rate},
	})
}

// SetRate updates the exchange rate.
func (sc *SettingsController) SetRate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req struct {
		Rate float64 `json:"rate"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.Rate <= 0 {
		return respondError(c, services.ErrInvalidAmount)
	}

	if err := sc.settings.Set(ctx, models.SettingExchangeRate, utils.FormatFloat(req.Rate)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Rate updated successfully",
		Data:    map[string]float64{"rate": req.Rate},
	})
}

// GetPayments returns the payment destination details buyers transfer to.
// Public endpoint.
func (sc *SettingsController) GetPayments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := sc.settings.PaymentInfo(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment info retrieved successfully",
		Data:    info,
	})
}

// SetPayments updates the payment destination details. Only recognized keys
// are written.
func (sc *SettingsController) SetPayments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req map[string]string
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	allowed := map[string]bool{
		models.SettingPMBank:       true,
		models.SettingPMName:       true,
		models.SettingPMPhone:      true,
		models.SettingPMID:         true,
		models.SettingBinanceEmail: true,
		models.SettingBinancePhone: true,
	}
	for key, value := range req {
		if !allowed[key] {
			continue
		}
		if err := sc.settings.Set(ctx, key, value); err != nil {
			return respondError(c, err)
		}
	}

	info, err := sc.settings.PaymentInfo(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment info updated successfully",
		Data:    info,
	})
}

// GetNotifyEmail returns the admin order-notification address.
func (sc *SettingsController) GetNotifyEmail(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email := sc.settings.AdminNotifyEmail(ctx)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notify email retrieved successfully",
		Data:    map[string]string{"email": email},
	})
}

// SetNotifyEmail updates the admin order-notification address.
func (sc *SettingsController) SetNotifyEmail(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A valid email is required",
		})
	}

	if err := sc.settings.Set(ctx, models.SettingAdminNotifyEmail, req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notify email updated successfully",
		Data:    map[string]string{"email": req.Email},
	})
}

// SetCommissionPercent updates the store-wide default commission percent.
func (sc *SettingsController) SetCommissionPercent(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req struct {
		Percent float64 `json:"percent"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.Percent <= 0 || req.Percent > 100 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Percent must be between 0 and 100",
		})
	}

	if err := sc.settings.Set(ctx, models.SettingCommissionPercent, utils.FormatFloat(req.Percent)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission percent updated successfully",
		Data:    map[string]float64{"percent": req.Percent},
	})
}
