package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/middleware"
	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/services"
)

// WithdrawalController exposes payout requests for affiliates and the
// payout queue for the operator.
type WithdrawalController struct {
	withdrawals *services.WithdrawalService
}

func NewWithdrawalController(withdrawals *services.WithdrawalService) *WithdrawalController {
	return &WithdrawalController{withdrawals: withdrawals}
}

// CreateWithdrawal lets the logged-in affiliate request a payout.
func (wc *WithdrawalController) CreateWithdrawal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	id, err := affiliateID(claims)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.CreateWithdrawalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	withdrawal, err := wc.withdrawals.Create(ctx, id, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Withdrawal requested successfully",
		Data:    withdrawal,
	})
}

// MyWithdrawals lists the logged-in affiliate's payout history.
func (wc *WithdrawalController) MyWithdrawals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	id, err := affiliateID(claims)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	withdrawals, err := wc.withdrawals.ListForAffiliate(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawals retrieved successfully",
		Data:    withdrawals,
	})
}

// GetWithdrawals lists withdrawals for the admin queue, optionally filtered
// by ?status=.
func (wc *WithdrawalController) GetWithdrawals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	withdrawals, err := wc.withdrawals.List(ctx, c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawals retrieved successfully",
		Data:    withdrawals,
	})
}

// DecideWithdrawal approves or rejects a pending withdrawal. Approval
// debits the affiliate balance.
func (wc *WithdrawalController) DecideWithdrawal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid withdrawal ID",
		})
	}

	var req models.DecideWithdrawalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	withdrawal, err := wc.withdrawals.Decide(ctx, id, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal " + withdrawal.Status,
		Data:    withdrawal,
	})
}
