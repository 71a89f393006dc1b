package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/utils"
)

// WithdrawalStore persists payout requests.
type WithdrawalStore interface {
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error)
	List(ctx context.Context, status string) ([]models.Withdrawal, error)
	ListByAffiliate(ctx context.Context, affiliateID primitive.ObjectID) ([]models.Withdrawal, error)
	// Decide atomically transitions a pending withdrawal to status. It
	// returns the updated withdrawal, ErrNotFound, or ErrInvalidTransition
	// when it was already decided.
	Decide(ctx context.Context, id primitive.ObjectID, status string, processedAt time.Time) (*models.Withdrawal, error)
	// Reopen reverts a decided withdrawal back to pending. Used to undo a
	// claim whose balance debit failed.
	Reopen(ctx context.Context, id primitive.ObjectID) error
}

// WithdrawalService owns the payout lifecycle: affiliate requests and
// operator decisions that debit the balance.
type WithdrawalService struct {
	withdrawals WithdrawalStore
	affiliates  AffiliateStore
	notifier    Notifier
}

func NewWithdrawalService(withdrawals WithdrawalStore, affiliates AffiliateStore, notifier Notifier) *WithdrawalService {
	return &WithdrawalService{
		withdrawals: withdrawals,
		affiliates:  affiliates,
		notifier:    notifier,
	}
}

// Create records a payout request. The balance is checked here as a
// courtesy; the authoritative check happens at approval time.
func (s *WithdrawalService) Create(ctx context.Context, affiliateID primitive.ObjectID, req *models.CreateWithdrawalRequest) (*models.Withdrawal, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !models.IsValidWithdrawalMethod(req.Method) {
		return nil, ErrInvalidMethod
	}

	affiliate, err := s.affiliates.FindByID(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	if !affiliate.Active {
		return nil, ErrInvalidAffiliate
	}
	amount := utils.Round2(req.Amount)
	if amount > affiliate.Balance {
		return nil, ErrInsufficientFunds
	}

	withdrawal := &models.Withdrawal{
		AffiliateID: affiliate.ID,
		Amount:      amount,
		Method:      req.Method,
		Status:      models.WithdrawalStatusPending,
		CreatedAt:   time.Now(),

		PMBank:  req.PMBank,
		PMName:  req.PMName,
		PMPhone: req.PMPhone,
		PMID:    req.PMID,

		BinanceEmail: req.BinanceEmail,
		BinancePhone: req.BinancePhone,

		ZinliEmail: req.ZinliEmail,
		ZinliTag:   req.ZinliTag,
	}
	if err := s.withdrawals.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	s.notifier.WithdrawalRequested(withdrawal)
	return withdrawal, nil
}

// Decide applies an operator decision. Approval claims the pending
// withdrawal first, then debits the balance; if the balance no longer
// covers the amount the claim is reverted and ErrInsufficientFunds is
// returned, leaving the request pending.
func (s *WithdrawalService) Decide(ctx context.Context, id primitive.ObjectID, req *models.DecideWithdrawalRequest) (*models.Withdrawal, error) {
	if req.Status != models.WithdrawalStatusApproved && req.Status != models.WithdrawalStatusRejected {
		return nil, ErrInvalidDecision
	}

	withdrawal, err := s.withdrawals.Decide(ctx, id, req.Status, time.Now())
	if err != nil {
		return nil, err
	}

	if withdrawal.Status == models.WithdrawalStatusApproved {
		if err := s.affiliates.DebitBalance(ctx, withdrawal.AffiliateID, withdrawal.Amount); err != nil {
			if reopenErr := s.withdrawals.Reopen(ctx, withdrawal.ID); reopenErr != nil {
				log.Printf("Failed to reopen withdrawal %s after debit failure: %v", withdrawal.ID.Hex(), reopenErr)
			}
			return nil, err
		}
	}

	s.notifier.WithdrawalDecided(withdrawal)
	return withdrawal, nil
}

// ListForAffiliate returns the affiliate's own payout history, newest first.
func (s *WithdrawalService) ListForAffiliate(ctx context.Context, affiliateID primitive.ObjectID) ([]models.Withdrawal, error) {
	return s.withdrawals.ListByAffiliate(ctx, affiliateID)
}

// List returns withdrawals for the admin view, optionally filtered.
func (s *WithdrawalService) List(ctx context.Context, status string) ([]models.Withdrawal, error) {
	if status != "" && status != models.WithdrawalStatusPending &&
		status != models.WithdrawalStatusApproved && status != models.WithdrawalStatusRejected {
		return nil, &ValidationError{Field: "status", Reason: "unknown status"}
	}
	return s.withdrawals.List(ctx, status)
}
