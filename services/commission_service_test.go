package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/models"
)

func TestCreditUsesOrderLinesSubtotal(t *testing.T) {
	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryMobile)
	itemA := catalog.addItem(pkg.ID, 3)
	itemB := catalog.addItem(pkg.ID, 7)

	affiliates := newFakeAffiliateStore(&models.Affiliate{
		Code:   "AFF-COM01",
		Active: true,
		Scope:  models.ScopeAll,
	})
	var affID primitive.ObjectID
	for id := range affiliates.affiliates {
		affID = id
	}
	svc := NewCommissionService(affiliates, catalog, &fakeRates{rate: 40})

	order := &models.Order{
		ID:          primitive.NewObjectID(),
		PackageID:   pkg.ID,
		AffiliateID: &affID,
		Lines: []models.OrderLine{
			{ItemID: itemA.ID, Quantity: 2},
			{ItemID: itemB.ID, Quantity: 2},
		},
	}

	credited, err := svc.Credit(context.Background(), order)
	require.NoError(t, err)
	// (3*2 + 7*2) = 20 USD at the default 10%
	assert.Equal(t, 2.0, credited)
	assert.Equal(t, 2.0, affiliates.balance(affID))
}

func TestCreditFallsBackToItemPrice(t *testing.T) {
	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryMobile)
	item := catalog.addItem(pkg.ID, 15)

	affiliates := newFakeAffiliateStore(&models.Affiliate{
		Code:   "AFF-COM02",
		Active: true,
		Scope:  models.ScopeAll,
	})
	var affID primitive.ObjectID
	for id := range affiliates.affiliates {
		affID = id
	}
	svc := NewCommissionService(affiliates, catalog, &fakeRates{rate: 40})

	order := &models.Order{
		ID:          primitive.NewObjectID(),
		PackageID:   pkg.ID,
		ItemID:      &item.ID,
		AffiliateID: &affID,
		Amount:      600,
		Currency:    "bsd",
	}

	credited, err := svc.Credit(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, 1.5, credited)
}

func TestCreditConvertsAmountByExchangeRate(t *testing.T) {
	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryMobile)

	affiliates := newFakeAffiliateStore(&models.Affiliate{
		Code:   "AFF-COM03",
		Active: true,
		Scope:  models.ScopeAll,
	})
	var affID primitive.ObjectID
	for id := range affiliates.affiliates {
		affID = id
	}
	svc := NewCommissionService(affiliates, catalog, &fakeRates{rate: 40})

	order := &models.Order{
		ID:          primitive.NewObjectID(),
		PackageID:   pkg.ID,
		ItemID:      &primitive.NilObjectID,
		AffiliateID: &affID,
		Amount:      800, // 20 USD at rate 40
		Currency:    "bsd",
	}

	credited, err := svc.Credit(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, 2.0, credited)
}

func TestCreditSkipsWhenRateUnavailable(t *testing.T) {
	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryMobile)

	affiliates := newFakeAffiliateStore(&models.Affiliate{
		Code:   "AFF-COM04",
		Active: true,
		Scope:  models.ScopeAll,
	})
	var affID primitive.ObjectID
	for id := range affiliates.affiliates {
		affID = id
	}
	svc := NewCommissionService(affiliates, catalog, &fakeRates{rate: 0})

	order := &models.Order{
		ID:          primitive.NewObjectID(),
		PackageID:   pkg.ID,
		AffiliateID: &affID,
		Amount:      800,
		Currency:    "bsd",
	}

	credited, err := svc.Credit(context.Background(), order)
	require.NoError(t, err)
	assert.Zero(t, credited)
	assert.Zero(t, affiliates.balance(affID))
}

func TestCreditUsesUSDAmountAsIs(t *testing.T) {
	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryMobile)

	affiliates := newFakeAffiliateStore(&models.Affiliate{
		Code:   "AFF-COM05",
		Active: true,
		Scope:  models.ScopeAll,
	})
	var affID primitive.ObjectID
	for id := range affiliates.affiliates {
		affID = id
	}
	svc := NewCommissionService(affiliates, catalog, &fakeRates{rate: 0})

	order := &models.Order{
		ID:          primitive.NewObjectID(),
		PackageID:   pkg.ID,
		AffiliateID: &affID,
		Amount:      20,
		Currency:    "usd",
	}

	credited, err := svc.Credit(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, 2.0, credited)
}

func TestCreditPercentResolutionOrder(t *testing.T) {
	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryGift)
	item := catalog.addItem(pkg.ID, 100)

	affiliates := newFakeAffiliateStore(&models.Affiliate{
		Code:   "AFF-COM06",
		Active: true,
		Scope:  models.ScopeAll,
		Commission: models.CommissionSettings{
			Percent:     5,
			GiftPercent: 8,
		},
	})
	var affID primitive.ObjectID
	for id := range affiliates.affiliates {
		affID = id
	}
	svc := NewCommissionService(affiliates, catalog, &fakeRates{rate: 40})

	order := &models.Order{
		ID:          primitive.NewObjectID(),
		PackageID:   pkg.ID,
		ItemID:      &item.ID,
		AffiliateID: &affID,
	}

	// Gift override wins over the flat 5%.
	credited, err := svc.Credit(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, 8.0, credited)
}

func TestCreditSkipsInactiveAndScopeMismatch(t *testing.T) {
	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryMobile)
	other := catalog.addPackage(models.CategoryMobile)
	item := catalog.addItem(pkg.ID, 10)

	inactive := &models.Affiliate{Code: "AFF-INACT", Active: false, Scope: models.ScopeAll}
	scoped := &models.Affiliate{Code: "AFF-SCOPE", Active: true, Scope: models.ScopePackage, ScopePackageID: &other.ID}
	affiliates := newFakeAffiliateStore(inactive, scoped)
	svc := NewCommissionService(affiliates, catalog, &fakeRates{rate: 40})

	for _, aff := range []*models.Affiliate{inactive, scoped} {
		order := &models.Order{
			ID:          primitive.NewObjectID(),
			PackageID:   pkg.ID,
			ItemID:      &item.ID,
			AffiliateID: &aff.ID,
		}
		credited, err := svc.Credit(context.Background(), order)
		require.NoError(t, err)
		assert.Zero(t, credited)
	}
}

func TestCreditNoAffiliateIsNoop(t *testing.T) {
	catalog := newFakeCatalog()
	affiliates := newFakeAffiliateStore()
	svc := NewCommissionService(affiliates, catalog, &fakeRates{rate: 40})

	credited, err := svc.Credit(context.Background(), &models.Order{ID: primitive.NewObjectID(), Amount: 100})
	require.NoError(t, err)
	assert.Zero(t, credited)

	// An affiliate deleted after the order was placed credits nothing.
	ghost := primitive.NewObjectID()
	credited, err = svc.Credit(context.Background(), &models.Order{ID: primitive.NewObjectID(), AffiliateID: &ghost, Amount: 100})
	require.NoError(t, err)
	assert.Zero(t, credited)
}

func TestCreditRoundsToCents(t *testing.T) {
	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryMobile)
	item := catalog.addItem(pkg.ID, 0.33)

	affiliates := newFakeAffiliateStore(&models.Affiliate{
		Code:   "AFF-ROUND",
		Active: true,
		Scope:  models.ScopeAll,
	})
	var affID primitive.ObjectID
	for id := range affiliates.affiliates {
		affID = id
	}
	svc := NewCommissionService(affiliates, catalog, &fakeRates{rate: 40})

	order := &models.Order{
		ID:          primitive.NewObjectID(),
		PackageID:   pkg.ID,
		ItemID:      &item.ID,
		AffiliateID: &affID,
	}

	credited, err := svc.Credit(context.Background(), order)
	require.NoError(t, err)
	// 0.33 * 10% = 0.033, rounded to 0.03
	assert.Equal(t, 0.03, credited)
}

func TestCreditScopedWithoutConfiguredPackage(t *testing.T) {
	catalog := newFakeCatalog()
	pkg := catalog.addPackage(models.CategoryMobile)
	item := catalog.addItem(pkg.ID, 10)

	// Package scope with no configured package restricts nothing.
	scoped := &models.Affiliate{Code: "AFF-OPEN", Active: true, Scope: models.ScopePackage}
	affiliates := newFakeAffiliateStore(scoped)
	svc := NewCommissionService(affiliates, catalog, &fakeRates{rate: 40})

	order := &models.Order{
		ID:          primitive.NewObjectID(),
		PackageID:   pkg.ID,
		ItemID:      &item.ID,
		AffiliateID: &scoped.ID,
	}
	credited, err := svc.Credit(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, 1.0, credited)
}
