package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Affiliate scopes. An affiliate is either valid storewide or restricted to
// a single package.
const (
	ScopeAll     = "all"
	ScopePackage = "package"
)

// DiscountSettings holds an affiliate's discount configuration: a flat
// default percentage plus per-category overrides. MobilePercent overrides
// the flat scheme for the mobile category; GiftMaxPercent is the top of the
// tiered per-item schedule used for the gift category.
type DiscountSettings struct {
	Percent        float64 `bson:"percent" json:"percent"`
	MobilePercent  float64 `bson:"mobilePercent,omitempty" json:"mobilePercent,omitempty"`
	GiftMaxPercent float64 `bson:"giftMaxPercent,omitempty" json:"giftMaxPercent,omitempty"`
}

// CommissionSettings mirrors the discount configuration shape for the
// commission earned on approved orders, as a percentage of the USD subtotal.
type CommissionSettings struct {
	Percent       float64 `bson:"percent" json:"percent"`
	MobilePercent float64 `bson:"mobilePercent,omitempty" json:"mobilePercent,omitempty"`
	GiftPercent   float64 `bson:"giftPercent,omitempty" json:"giftPercent,omitempty"`
}

// Affiliate is a referral partner. Balance is the accumulated commission in
// USD and is mutated only by the commission credit and withdrawal debit
// paths; it must never go negative.
type Affiliate struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	Code         string             `bson:"code" json:"code"`
	CodeLower    string             `bson:"codeLower" json:"-"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`
	Balance      float64            `bson:"balance" json:"balance"`
	Active       bool               `bson:"active" json:"active"`

	Discount   DiscountSettings   `bson:"discount" json:"discount"`
	Commission CommissionSettings `bson:"commission" json:"commission"`

	Scope          string              `bson:"scope" json:"scope"`
	ScopePackageID *primitive.ObjectID `bson:"scopePackageId,omitempty" json:"scopePackageId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// ItemDiscount is one entry of a tiered per-item discount schedule.
type ItemDiscount struct {
	ItemID  primitive.ObjectID `json:"itemId"`
	Price   float64            `json:"price"`
	Percent float64            `json:"percent"`
}

// DiscountQuote is the result of validating a referral code against a
// target package. Discount is a fraction (percent/100, 4 decimals); for
// tiered categories it shows the best-case percentage while Schedule
// carries the exact per-item values.
type DiscountQuote struct {
	Allowed  bool           `json:"allowed"`
	Discount float64        `json:"discount"`
	Schedule []ItemDiscount `json:"schedule,omitempty"`
}

// AffiliateRequest is the admin payload for creating or updating an
// affiliate.
type AffiliateRequest struct {
	Name           string   `json:"name,omitempty"`
	Code           string   `json:"code" validate:"required"`
	Email          string   `json:"email,omitempty" validate:"omitempty,email"`
	Password       string   `json:"password,omitempty"`
	Active         *bool    `json:"active,omitempty"`
	Balance        *float64 `json:"balance,omitempty"`
	Percent        float64  `json:"percent,omitempty"`
	MobilePercent  float64  `json:"mobilePercent,omitempty"`
	GiftMaxPercent float64  `json:"giftMaxPercent,omitempty"`

	CommissionPercent       float64 `json:"commissionPercent,omitempty"`
	CommissionMobilePercent float64 `json:"commissionMobilePercent,omitempty"`
	CommissionGiftPercent   float64 `json:"commissionGiftPercent,omitempty"`

	Scope          string `json:"scope,omitempty" validate:"omitempty,oneof=all package"`
	ScopePackageID string `json:"scopePackageId,omitempty"`
}

// AffiliateSummary is the self-service dashboard payload.
type AffiliateSummary struct {
	Code           string  `json:"code"`
	ApprovedOrders int64   `json:"approvedOrders"`
	Balance        float64 `json:"balance"`
}
