package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2eliot/Inefablestore/models"
)

// Exercises the full affiliate money path: a referred $20 order is
// approved, the $2.00 commission lands on the balance, and a withdrawal of
// exactly that amount drains it back to zero.
func TestReferralEarningsLifecycle(t *testing.T) {
	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryMobile)
	item := catalog.addItem(pkg.ID, 20)

	affiliate := &models.Affiliate{
		Code:   "AFF-E2E",
		Active: true,
		Scope:  models.ScopeAll,
	}
	affiliates := newFakeAffiliateStore(affiliate)
	orders := newFakeOrderStore()
	withdrawals := newFakeWithdrawalStore()
	notifier := &recordingNotifier{}

	commission := NewCommissionService(affiliates, catalog, &fakeRates{rate: 40})
	orderSvc := NewOrderService(orders, affiliates, catalog, commission, notifier)
	withdrawalSvc := NewWithdrawalService(withdrawals, affiliates, notifier)

	req := validCreateRequest(pkg.ID, item.ID)
	req.ReferralCode = "AFF-E2E"
	order, err := orderSvc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = orderSvc.Decide(context.Background(), order.ID, &models.DecideOrderRequest{
		Status:       models.OrderStatusApproved,
		DeliveryCode: "TOPUP-123",
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, affiliates.balance(affiliate.ID))

	summary, err := orderSvc.Summary(context.Background(), affiliate.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.ApprovedOrders)
	assert.Equal(t, 2.0, summary.Balance)

	withdrawal, err := withdrawalSvc.Create(context.Background(), affiliate.ID, &models.CreateWithdrawalRequest{
		Amount:     2.00,
		Method:     models.WithdrawalMethodZinli,
		ZinliEmail: "aff@example.com",
	})
	require.NoError(t, err)

	decided, err := withdrawalSvc.Decide(context.Background(), withdrawal.ID, &models.DecideWithdrawalRequest{
		Status: models.WithdrawalStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, decided.Status)
	assert.Zero(t, affiliates.balance(affiliate.ID))

	// A second withdrawal now has nothing to draw on.
	_, err = withdrawalSvc.Create(context.Background(), affiliate.ID, &models.CreateWithdrawalRequest{
		Amount: 0.01,
		Method: models.WithdrawalMethodZinli,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, 1, notifier.ordersCreated)
	assert.Equal(t, 1, notifier.ordersDecided)
	assert.Equal(t, 1, notifier.withdrawalsRequested)
	assert.Equal(t, 1, notifier.withdrawalsDecided)
}
