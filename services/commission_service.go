package services

import (
	"context"
	"log"

	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/utils"
)

// RateSource supplies the store-wide monetary settings the commission
// engine depends on. *SettingsService satisfies it.
type RateSource interface {
	// ExchangeRate returns BsD per USD; 0 means unavailable.
	ExchangeRate(ctx context.Context) float64
	// CommissionPercent returns the store-wide default commission percent.
	CommissionPercent(ctx context.Context) float64
}

// CommissionService credits referral commissions to affiliate balances when
// an order is approved.
type CommissionService struct {
	affiliates AffiliateStore
	catalog    Catalog
	rates      RateSource
}

func NewCommissionService(affiliates AffiliateStore, catalog Catalog, rates RateSource) *CommissionService {
	return &CommissionService{
		affiliates: affiliates,
		catalog:    catalog,
		rates:      rates,
	}
}

// Credit computes the USD commission for an approved order and adds it to
// the referring affiliate's balance. It returns the credited amount; 0 with
// a nil error means no commission applied. Credit never fails the order
// approval it runs for: unresolvable orders simply credit nothing.
func (s *CommissionService) Credit(ctx context.Context, order *models.Order) (float64, error) {
	if order.AffiliateID == nil {
		return 0, nil
	}

	affiliate, err := s.affiliates.FindByID(ctx, *order.AffiliateID)
	if err != nil {
		if err == ErrNotFound {
			log.Printf("Commission skipped for order %s: affiliate %s no longer exists", order.ID.Hex(), order.AffiliateID.Hex())
			return 0, nil
		}
		return 0, err
	}
	if !affiliate.Active {
		return 0, nil
	}

	if affiliate.Scope == models.ScopePackage &&
		affiliate.ScopePackageID != nil && *affiliate.ScopePackageID != order.PackageID {
		return 0, nil
	}

	subtotal := s.subtotalUSD(ctx, order)
	if subtotal <= 0 {
		return 0, nil
	}

	percent := s.commissionPercent(ctx, affiliate, order)
	amount := utils.Round2(subtotal * percent / 100)
	if amount <= 0 {
		return 0, nil
	}

	if err := s.affiliates.CreditBalance(ctx, affiliate.ID, amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// subtotalUSD derives the USD value commissions are computed on. Preference
// order: the sum of the order lines, then the single item price, then the
// paid amount converted by the exchange rate.
func (s *CommissionService) subtotalUSD(ctx context.Context, order *models.Order) float64 {
	if len(order.Lines) > 0 {
		total := 0.0
		resolved := false
		for _, line := range order.Lines {
			item, err := s.catalog.GetItem(ctx, line.ItemID)
			if err != nil {
				log.Printf("Commission subtotal: item %s lookup failed: %v", line.ItemID.Hex(), err)
				continue
			}
			qty := line.Quantity
			if qty <= 0 {
				qty = 1
			}
			total += item.Price * float64(qty)
			resolved = true
		}
		if resolved && total > 0 {
			return total
		}
	}

	if order.ItemID != nil {
		item, err := s.catalog.GetItem(ctx, *order.ItemID)
		if err == nil && item.Price > 0 {
			return item.Price
		}
	}

	if order.Amount <= 0 {
		return 0
	}
	if order.Currency == "usd" {
		return order.Amount
	}
	rate := s.rates.ExchangeRate(ctx)
	if rate <= 0 {
		log.Printf("Commission skipped for order %s: exchange rate unavailable", order.ID.Hex())
		return 0
	}
	return order.Amount / rate
}

// commissionPercent resolves the applicable percent: category override on
// the affiliate, then the affiliate's flat percent, then the store default.
func (s *CommissionService) commissionPercent(ctx context.Context, affiliate *models.Affiliate, order *models.Order) float64 {
	var override float64
	pkg, err := s.catalog.GetPackage(ctx, order.PackageID)
	if err == nil {
		switch pkg.Category {
		case models.CategoryMobile:
			override = affiliate.Commission.MobilePercent
		case models.CategoryGift:
			override = affiliate.Commission.GiftPercent
		}
	}
	if override > 0 {
		return override
	}
	if affiliate.Commission.Percent > 0 {
		return affiliate.Commission.Percent
	}
	return s.rates.CommissionPercent(ctx)
}
