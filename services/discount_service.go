package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/utils"
)

const (
	// DefaultTierMaxPercent is the discount on the cheapest item of a
	// gift-category package when the affiliate has no override.
	DefaultTierMaxPercent = 10.0
	// DefaultTierMinPercent is the floor every tiered discount clamps to.
	DefaultTierMinPercent = 4.0
)

// AffiliateStore resolves referral codes and manages affiliate records.
type AffiliateStore interface {
	// FindByCode resolves a referral code case-insensitively, or ErrNotFound.
	FindByCode(ctx context.Context, code string) (*models.Affiliate, error)
	// FindByID returns an affiliate by id, or ErrNotFound.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Affiliate, error)
	// FindByEmail returns an affiliate by login email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.Affiliate, error)
	// CreditBalance atomically adds amount to the affiliate balance.
	CreditBalance(ctx context.Context, id primitive.ObjectID, amount float64) error
	// DebitBalance atomically subtracts amount, or ErrInsufficientFunds
	// when the balance cannot cover it.
	DebitBalance(ctx context.Context, id primitive.ObjectID, amount float64) error
}

// DiscountService quotes referral-code discounts against the catalog.
type DiscountService struct {
	affiliates AffiliateStore
	catalog    Catalog
}

func NewDiscountService(affiliates AffiliateStore, catalog Catalog) *DiscountService {
	return &DiscountService{
		affiliates: affiliates,
		catalog:    catalog,
	}
}

// Quote validates code against an optional target package and returns the
// per-item discount schedule the buyer would see at checkout.
//
// Mobile-category packages use the affiliate's flat discount percent (with
// an optional mobile override); gift-category packages spread a tiered
// percent across the package items, best discount on the cheapest item.
// Without a target package an unrestricted affiliate still gets its flat
// percent, so checkout can show the code is good before a package is picked.
func (s *DiscountService) Quote(ctx context.Context, code string, packageID *primitive.ObjectID) (*models.DiscountQuote, error) {
	affiliate, err := s.affiliates.FindByCode(ctx, utils.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if !affiliate.Active {
		return nil, ErrNotFound
	}

	if affiliate.Scope == models.ScopePackage {
		if packageID == nil {
			return nil, ErrScopeMismatch
		}
		if affiliate.ScopePackageID != nil && *affiliate.ScopePackageID != *packageID {
			return nil, ErrScopeMismatch
		}
	}

	if packageID == nil {
		return &models.DiscountQuote{
			Allowed:  true,
			Discount: utils.Round4(affiliate.Discount.Percent / 100),
		}, nil
	}

	pkg, err := s.catalog.GetPackage(ctx, *packageID)
	if err != nil {
		return nil, err
	}

	if pkg.Category == models.CategoryGift {
		return s.tieredQuote(ctx, affiliate, pkg)
	}
	return s.flatQuote(affiliate), nil
}

func (s *DiscountService) flatQuote(affiliate *models.Affiliate) *models.DiscountQuote {
	percent := affiliate.Discount.Percent
	if affiliate.Discount.MobilePercent > 0 {
		percent = affiliate.Discount.MobilePercent
	}
	return &models.DiscountQuote{
		Allowed:  true,
		Discount: utils.Round4(percent / 100),
	}
}

func (s *DiscountService) tieredQuote(ctx context.Context, affiliate *models.Affiliate, pkg *models.StorePackage) (*models.DiscountQuote, error) {
	maxPct := affiliate.Discount.GiftMaxPercent
	if maxPct <= 0 {
		maxPct = DefaultTierMaxPercent
	}
	minPct := DefaultTierMinPercent
	if minPct > maxPct {
		minPct = maxPct
	}

	items, err := s.catalog.ListActiveItems(ctx, pkg.ID)
	if err != nil {
		return nil, err
	}

	return &models.DiscountQuote{
		Allowed: true,
		// The headline rate is the best case; per-item rates are in the
		// schedule.
		Discount: utils.Round4(maxPct / 100),
		Schedule: TierSchedule(items, maxPct, minPct),
	}, nil
}

// TierSchedule assigns a discount percent to each item, interpolating
// linearly from maxPct on the cheapest item down to minPct on the most
// expensive one. A single item gets maxPct.
func TierSchedule(items []models.PackageItem, maxPct, minPct float64) []models.ItemDiscount {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]models.PackageItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	schedule := make([]models.ItemDiscount, len(sorted))
	step := 0.0
	if len(sorted) > 1 {
		step = (maxPct - minPct) / float64(len(sorted)-1)
	}
	for i, item := range sorted {
		pct := maxPct - float64(i)*step
		if pct < minPct {
			pct = minPct
		}
		if pct > maxPct {
			pct = maxPct
		}
		schedule[i] = models.ItemDiscount{
			ItemID:  item.ID,
			Price:   item.Price,
			Percent: utils.Round2(pct),
		}
	}
	return schedule
}
