package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Withdrawal statuses share the order vocabulary: pending until an operator
// decides, then approved or rejected forever.
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

// Payout methods for affiliate withdrawals.
const (
	WithdrawalMethodPagoMovil = "pm"
	WithdrawalMethodBinance   = "binance"
	WithdrawalMethodZinli     = "zinli"
)

// IsValidWithdrawalMethod reports whether the payout method is accepted.
func IsValidWithdrawalMethod(method string) bool {
	switch method {
	case WithdrawalMethodPagoMovil, WithdrawalMethodBinance, WithdrawalMethodZinli:
		return true
	}
	return false
}

// Withdrawal is one payout request against an affiliate's balance. Amount is
// USD. Destination fields are method specific; only the ones matching Method
// are meaningful.
type Withdrawal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AffiliateID primitive.ObjectID `bson:"affiliateId" json:"affiliateId"`
	Amount      float64            `bson:"amount" json:"amount"`
	Method      string             `bson:"method" json:"method"`

	PMBank  string `bson:"pmBank,omitempty" json:"pmBank,omitempty"`
	PMName  string `bson:"pmName,omitempty" json:"pmName,omitempty"`
	PMPhone string `bson:"pmPhone,omitempty" json:"pmPhone,omitempty"`
	PMID    string `bson:"pmId,omitempty" json:"pmId,omitempty"`

	BinanceEmail string `bson:"binanceEmail,omitempty" json:"binanceEmail,omitempty"`
	BinancePhone string `bson:"binancePhone,omitempty" json:"binancePhone,omitempty"`

	ZinliEmail string `bson:"zinliEmail,omitempty" json:"zinliEmail,omitempty"`
	ZinliTag   string `bson:"zinliTag,omitempty" json:"zinliTag,omitempty"`

	Status      string     `bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	ProcessedAt *time.Time `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}

// CreateWithdrawalRequest is the affiliate payload for requesting a payout.
type CreateWithdrawalRequest struct {
	Amount float64 `json:"amount" validate:"required"`
	Method string  `json:"method" validate:"required"`

	PMBank  string `json:"pmBank,omitempty"`
	PMName  string `json:"pmName,omitempty"`
	PMPhone string `json:"pmPhone,omitempty"`
	PMID    string `json:"pmId,omitempty"`

	BinanceEmail string `json:"binanceEmail,omitempty"`
	BinancePhone string `json:"binancePhone,omitempty"`

	ZinliEmail string `json:"zinliEmail,omitempty"`
	ZinliTag   string `json:"zinliTag,omitempty"`
}

// DecideWithdrawalRequest is the operator decision payload.
type DecideWithdrawalRequest struct {
	Status string `json:"status" validate:"required"`
}
