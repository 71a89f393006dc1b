package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidTransition is returned when an order or withdrawal is no
	// longer pending and cannot be decided again.
	ErrInvalidTransition = errors.New("record already processed")
	// ErrInvalidDecision is returned for a decision status outside the
	// allowed set.
	ErrInvalidDecision = errors.New("invalid decision status")
	// ErrScopeMismatch is returned when a referral code is restricted to a
	// different package than the one being quoted.
	ErrScopeMismatch = errors.New("code not valid for this package")
	// ErrInvalidAffiliate is returned when an affiliate account is not
	// active, e.g. a deactivated affiliate requesting a payout.
	ErrInvalidAffiliate = errors.New("affiliate account is not active")
	// ErrInsufficientFunds is returned when an affiliate balance cannot
	// cover a requested debit.
	ErrInsufficientFunds = errors.New("insufficient balance")
	// ErrInvalidAmount is returned for zero or negative money amounts.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidMethod is returned for an unknown payment or payout method.
	ErrInvalidMethod = errors.New("invalid method")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError describes a rejected request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
