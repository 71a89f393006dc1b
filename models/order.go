package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Pending is the only non-terminal state; once an order is
// approved or rejected it never transitions again.
const (
	OrderStatusPending  = "pending"
	OrderStatusApproved = "approved"
	OrderStatusRejected = "rejected"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodPagoMovil = "pm"
	PaymentMethodBinance   = "binance"
)

// IsValidPaymentMethod reports whether the method is in the accepted set.
func IsValidPaymentMethod(method string) bool {
	return method == PaymentMethodPagoMovil || method == PaymentMethodBinance
}

// OrderLine is a single (item, quantity) entry in a multi-line order.
type OrderLine struct {
	ItemID   primitive.ObjectID `bson:"itemId" json:"itemId"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Order represents one purchase attempt. Exactly one of ItemID or Lines
// describes what was bought; buyer fields are informational only.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Status    string             `bson:"status" json:"status"`

	PackageID primitive.ObjectID  `bson:"packageId" json:"packageId"`
	ItemID    *primitive.ObjectID `bson:"itemId,omitempty" json:"itemId,omitempty"`
	Lines     []OrderLine         `bson:"lines,omitempty" json:"lines,omitempty"`

	// Buyer info
	Name   string `bson:"name,omitempty" json:"name,omitempty"`
	Email  string `bson:"email,omitempty" json:"email,omitempty"`
	Phone  string `bson:"phone,omitempty" json:"phone,omitempty"`
	GameID string `bson:"gameId,omitempty" json:"gameId,omitempty"`
	ZoneID string `bson:"zoneId,omitempty" json:"zoneId,omitempty"`

	// Payment
	Method    string  `bson:"method" json:"method"`
	Currency  string  `bson:"currency" json:"currency"`
	Amount    float64 `bson:"amount" json:"amount"`
	Reference string  `bson:"reference" json:"reference"`

	// Referral (AffiliateID is resolved best-effort at creation time)
	ReferralCode string              `bson:"referralCode,omitempty" json:"referralCode,omitempty"`
	AffiliateID  *primitive.ObjectID `bson:"affiliateId,omitempty" json:"affiliateId,omitempty"`

	// Fulfillment, set only on approval. DeliveryCode is the legacy single
	// code; DeliveryCodes carries multi-code fulfillment (e.g. gift cards).
	DeliveryCode  string   `bson:"deliveryCode,omitempty" json:"deliveryCode,omitempty"`
	DeliveryCodes []string `bson:"deliveryCodes,omitempty" json:"deliveryCodes,omitempty"`

	ProcessedAt *time.Time `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}

// OrderView is an order enriched with catalog metadata for the admin
// queue.
type OrderView struct {
	Order       `bson:",inline"`
	PackageName string `json:"packageName,omitempty"`
	ItemTitle   string `json:"itemTitle,omitempty"`
}

// OrderLineRequest is one line entry in a create-order payload.
type OrderLineRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	PackageID    string             `json:"packageId" validate:"required"`
	ItemID       string             `json:"itemId,omitempty"`
	Lines        []OrderLineRequest `json:"lines,omitempty" validate:"omitempty,dive"`
	Name         string             `json:"name,omitempty"`
	Email        string             `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string             `json:"phone,omitempty"`
	GameID       string             `json:"gameId,omitempty"`
	ZoneID       string             `json:"zoneId,omitempty"`
	Method       string             `json:"method" validate:"required,oneof=pm binance"`
	Currency     string             `json:"currency,omitempty"`
	Amount       float64            `json:"amount" validate:"gt=0"`
	Reference    string             `json:"reference" validate:"required"`
	ReferralCode string             `json:"referralCode,omitempty"`
}

// DecideOrderRequest is the operator decision payload.
type DecideOrderRequest struct {
	Status        string   `json:"status" validate:"required"`
	DeliveryCode  string   `json:"deliveryCode,omitempty"`
	DeliveryCodes []string `json:"deliveryCodes,omitempty"`
}
