package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/models"
)

func newOrderServiceFixture(t *testing.T) (*OrderService, *fakeOrderStore, *fakeAffiliateStore, *fakeCatalog, *models.Affiliate, *models.PackageItem) {
	t.Helper()

	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryMobile)
	item := catalog.addItem(pkg.ID, 20)

	affiliate := &models.Affiliate{
		Code:   "AFF-ORDERS",
		Active: true,
		Scope:  models.ScopeAll,
	}
	affiliates := newFakeAffiliateStore(affiliate)
	orders := newFakeOrderStore()

	commission := NewCommissionService(affiliates, catalog, &fakeRates{rate: 40})
	svc := NewOrderService(orders, affiliates, catalog, commission, noopNotifier{})
	return svc, orders, affiliates, catalog, affiliate, item
}

func validCreateRequest(pkgID, itemID primitive.ObjectID) *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		PackageID: pkgID.Hex(),
		ItemID:    itemID.Hex(),
		Name:      "Maria",
		Email:     "maria@example.com",
		GameID:    "12345",
		Method:    models.PaymentMethodPagoMovil,
		Amount:    800,
		Reference: "0412345",
	}
}

func TestCreateOrderStartsPending(t *testing.T) {
	svc, _, _, _, _, item := newOrderServiceFixture(t)

	req := validCreateRequest(item.PackageID, item.ID)
	order, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.ID.IsZero())
	assert.Equal(t, "bsd", order.Currency)
	assert.Nil(t, order.AffiliateID)
}

func TestCreateOrderResolvesReferralCode(t *testing.T) {
	svc, _, _, _, affiliate, item := newOrderServiceFixture(t)

	req := validCreateRequest(item.PackageID, item.ID)
	req.ReferralCode = "aff-orders"
	order, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, order.AffiliateID)
	assert.Equal(t, affiliate.ID, *order.AffiliateID)
	assert.Equal(t, "aff-orders", order.ReferralCode)
}

func TestCreateOrderKeepsUnknownReferralCode(t *testing.T) {
	svc, _, _, _, _, item := newOrderServiceFixture(t)

	req := validCreateRequest(item.PackageID, item.ID)
	req.ReferralCode = "AFF-GHOST"
	order, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, order.AffiliateID)
	assert.Equal(t, "aff-ghost", order.ReferralCode)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, _, _, _, item := newOrderServiceFixture(t)

	var validationErr *ValidationError

	req := validCreateRequest(item.PackageID, item.ID)
	req.PackageID = "not-an-id"
	_, err := svc.Create(context.Background(), req)
	require.ErrorAs(t, err, &validationErr)

	req = validCreateRequest(primitive.NewObjectID(), item.ID)
	_, err = svc.Create(context.Background(), req)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "packageId", validationErr.Field)

	req = validCreateRequest(item.PackageID, item.ID)
	req.ItemID = ""
	_, err = svc.Create(context.Background(), req)
	require.ErrorAs(t, err, &validationErr)

	req = validCreateRequest(item.PackageID, item.ID)
	req.GameID = "   "
	_, err = svc.Create(context.Background(), req)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "gameId", validationErr.Field)

	req = validCreateRequest(item.PackageID, item.ID)
	req.Method = "paypal"
	_, err = svc.Create(context.Background(), req)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "method", validationErr.Field)

	req = validCreateRequest(item.PackageID, item.ID)
	req.Amount = 0
	_, err = svc.Create(context.Background(), req)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "amount", validationErr.Field)
}

func TestCreateOrderRejectsBlankReference(t *testing.T) {
	svc, orders, _, _, _, item := newOrderServiceFixture(t)

	// Whitespace survives transport-level required tags but sanitizes to
	// nothing; the order must not be persisted without a real reference.
	req := validCreateRequest(item.PackageID, item.ID)
	req.Reference = "   "
	_, err := svc.Create(context.Background(), req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "reference", validationErr.Field)
	assert.Zero(t, orders.count())
}

func TestCreateOrderPrunesHistory(t *testing.T) {
	svc, orders, _, _, _, item := newOrderServiceFixture(t)

	// Seed past the retention window with decided orders.
	for i := 0; i < OrderHistoryKeep+5; i++ {
		orders.Create(context.Background(), &models.Order{
			Email:     "maria@example.com",
			Status:    models.OrderStatusApproved,
			CreatedAt: time.Now().Add(-time.Duration(i+1) * time.Hour),
		})
	}

	req := validCreateRequest(item.PackageID, item.ID)
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	// 30 decided survive, plus the fresh pending one.
	assert.Equal(t, OrderHistoryKeep+1, orders.count())
}

func TestDecideRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _, _, _ := newOrderServiceFixture(t)

	_, err := svc.Decide(context.Background(), primitive.NewObjectID(), &models.DecideOrderRequest{Status: "refunded"})
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestDecideApprovedCreditsCommissionOnce(t *testing.T) {
	svc, _, affiliates, _, affiliate, item := newOrderServiceFixture(t)

	req := validCreateRequest(item.PackageID, item.ID)
	req.ReferralCode = "AFF-ORDERS"
	order, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), order.ID, &models.DecideOrderRequest{
		Status:       models.OrderStatusApproved,
		DeliveryCode: "RECARGA-OK",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, decided.Status)
	assert.Equal(t, "RECARGA-OK", decided.DeliveryCode)
	require.NotNil(t, decided.ProcessedAt)

	// Item price 20 USD at the default 10%.
	assert.Equal(t, 2.0, affiliates.balance(affiliate.ID))

	// A second decision cannot change the outcome or double-credit.
	_, err = svc.Decide(context.Background(), order.ID, &models.DecideOrderRequest{Status: models.OrderStatusRejected})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 2.0, affiliates.balance(affiliate.ID))
}

func TestDecideRejectedCreditsNothing(t *testing.T) {
	svc, _, affiliates, _, affiliate, item := newOrderServiceFixture(t)

	req := validCreateRequest(item.PackageID, item.ID)
	req.ReferralCode = "AFF-ORDERS"
	order, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), order.ID, &models.DecideOrderRequest{Status: models.OrderStatusRejected})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, decided.Status)
	assert.Zero(t, affiliates.balance(affiliate.ID))
}

func TestDecideConcurrentSingleWinner(t *testing.T) {
	svc, _, affiliates, _, affiliate, item := newOrderServiceFixture(t)

	req := validCreateRequest(item.PackageID, item.ID)
	req.ReferralCode = "AFF-ORDERS"
	order, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Decide(context.Background(), order.ID, &models.DecideOrderRequest{
				Status: models.OrderStatusApproved,
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 2.0, affiliates.balance(affiliate.ID))
}

func TestDecideNotFound(t *testing.T) {
	svc, _, _, _, _, _ := newOrderServiceFixture(t)

	_, err := svc.Decide(context.Background(), primitive.NewObjectID(), &models.DecideOrderRequest{
		Status: models.OrderStatusApproved,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc, _, _, _, _, _ := newOrderServiceFixture(t)

	_, err := svc.List(context.Background(), "shipped", "")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestListEnrichesWithCatalogMetadata(t *testing.T) {
	svc, _, _, catalog, _, item := newOrderServiceFixture(t)

	req := validCreateRequest(item.PackageID, item.ID)
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	views, err := svc.List(context.Background(), "", "maria@example.com")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, catalog.packages[item.PackageID].Name, views[0].PackageName)
	assert.Equal(t, item.Title, views[0].ItemTitle)

	none, err := svc.List(context.Background(), "", "other@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSummaryCountsApprovedOrders(t *testing.T) {
	svc, _, _, _, affiliate, item := newOrderServiceFixture(t)

	for i := 0; i < 3; i++ {
		req := validCreateRequest(item.PackageID, item.ID)
		req.ReferralCode = "AFF-ORDERS"
		req.Reference = fmt.Sprintf("ref-%d", i)
		order, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		if i < 2 {
			_, err = svc.Decide(context.Background(), order.ID, &models.DecideOrderRequest{Status: models.OrderStatusApproved})
			require.NoError(t, err)
		}
	}

	summary, err := svc.Summary(context.Background(), affiliate.ID)
	require.NoError(t, err)
	assert.Equal(t, "AFF-ORDERS", summary.Code)
	assert.Equal(t, int64(2), summary.ApprovedOrders)
	assert.Equal(t, 4.0, summary.Balance)
}
