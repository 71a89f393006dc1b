package services

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/utils"
)

// OrderHistoryKeep is how many decided orders are retained per buyer email;
// older ones are pruned after each new order.
const OrderHistoryKeep = 30

// OrderStore persists orders.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// List returns orders, newest first, optionally filtered by status
	// and buyer email ("" means no filter).
	List(ctx context.Context, status, email string) ([]models.Order, error)
	// Decide atomically transitions a pending order to status, stamping the
	// delivery codes and processing time. It returns the updated order,
	// ErrNotFound when no such order exists, or ErrInvalidTransition when
	// the order was already decided.
	Decide(ctx context.Context, id primitive.ObjectID, status, deliveryCode string, deliveryCodes []string, processedAt time.Time) (*models.Order, error)
	// PruneHistory removes a buyer's decided orders beyond the newest keep.
	PruneHistory(ctx context.Context, email string, keep int) (int64, error)
	// CountApproved counts approved orders attributed to the affiliate.
	CountApproved(ctx context.Context, affiliateID primitive.ObjectID, code string) (int64, error)
}

// Notifier fans order and withdrawal events out to email, in-app
// notifications and connected admin sockets. Implementations must not
// block the caller.
type Notifier interface {
	OrderCreated(order *models.Order)
	OrderDecided(order *models.Order)
	WithdrawalRequested(withdrawal *models.Withdrawal)
	WithdrawalDecided(withdrawal *models.Withdrawal)
}

// OrderService owns the order lifecycle: checkout, operator decisions, and
// the affiliate summary derived from approved orders.
type OrderService struct {
	orders     OrderStore
	affiliates AffiliateStore
	catalog    Catalog
	commission *CommissionService
	notifier   Notifier
}

func NewOrderService(orders OrderStore, affiliates AffiliateStore, catalog Catalog, commission *CommissionService, notifier Notifier) *OrderService {
	return &OrderService{
		orders:     orders,
		affiliates: affiliates,
		catalog:    catalog,
		commission: commission,
		notifier:   notifier,
	}
}

// Create records a checkout as a pending order. A referral code that does
// not resolve to an active affiliate is kept on the order for audit but
// attributes no commission.
func (s *OrderService) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	packageID, err := primitive.ObjectIDFromHex(req.PackageID)
	if err != nil {
		return nil, &ValidationError{Field: "packageId", Reason: "invalid id"}
	}
	if _, err := s.catalog.GetPackage(ctx, packageID); err != nil {
		if err == ErrNotFound {
			return nil, &ValidationError{Field: "packageId", Reason: "unknown package"}
		}
		return nil, err
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, &ValidationError{Field: "email", Reason: "invalid email address"}
	}
	if strings.TrimSpace(req.GameID) == "" {
		return nil, &ValidationError{Field: "gameId", Reason: "recipient account is required"}
	}
	if !models.IsValidPaymentMethod(req.Method) {
		return nil, &ValidationError{Field: "method", Reason: "unsupported payment method"}
	}
	if req.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "amount must be greater than zero"}
	}
	reference := utils.SanitizeInput(req.Reference)
	if reference == "" {
		return nil, &ValidationError{Field: "reference", Reason: "payment reference is required"}
	}

	order := &models.Order{
		CreatedAt: time.Now(),
		Status:    models.OrderStatusPending,
		PackageID: packageID,
		Name:      utils.SanitizeInput(req.Name),
		Email:     email,
		Phone:     utils.SanitizeInput(req.Phone),
		GameID:    utils.SanitizeInput(req.GameID),
		ZoneID:    utils.SanitizeInput(req.ZoneID),
		Method:    req.Method,
		Currency:  req.Currency,
		Amount:    req.Amount,
		Reference: reference,
	}
	if order.Currency == "" {
		order.Currency = "bsd"
	}

	if req.ItemID != "" {
		itemID, err := primitive.ObjectIDFromHex(req.ItemID)
		if err != nil {
			return nil, &ValidationError{Field: "itemId", Reason: "invalid id"}
		}
		order.ItemID = &itemID
	}
	for _, line := range req.Lines {
		itemID, err := primitive.ObjectIDFromHex(line.ItemID)
		if err != nil {
			return nil, &ValidationError{Field: "lines", Reason: "invalid item id"}
		}
		order.Lines = append(order.Lines, models.OrderLine{ItemID: itemID, Quantity: line.Quantity})
	}
	if order.ItemID == nil && len(order.Lines) == 0 {
		return nil, &ValidationError{Field: "itemId", Reason: "an item or at least one line is required"}
	}

	if req.ReferralCode != "" {
		order.ReferralCode = utils.NormalizeCode(req.ReferralCode)
		// Best effort: an unknown code never blocks the purchase.
		affiliate, err := s.affiliates.FindByCode(ctx, order.ReferralCode)
		if err == nil && affiliate.Active {
			order.AffiliateID = &affiliate.ID
		} else if err != nil && err != ErrNotFound {
			log.Printf("Referral lookup failed for code %q: %v", order.ReferralCode, err)
		}
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if order.Email != "" {
		if pruned, err := s.orders.PruneHistory(ctx, order.Email, OrderHistoryKeep); err != nil {
			log.Printf("Order history prune failed for %s: %v", order.Email, err)
		} else if pruned > 0 {
			log.Printf("Pruned %d old orders for %s", pruned, order.Email)
		}
	}

	s.notifier.OrderCreated(order)
	return order, nil
}

// Decide applies an operator decision. Exactly one caller wins a concurrent
// decision race; subsequent attempts get ErrInvalidTransition. Approval
// credits the referral commission exactly once, from the winner.
func (s *OrderService) Decide(ctx context.Context, id primitive.ObjectID, req *models.DecideOrderRequest) (*models.Order, error) {
	if req.Status != models.OrderStatusApproved && req.Status != models.OrderStatusRejected {
		return nil, ErrInvalidDecision
	}

	order, err := s.orders.Decide(ctx, id, req.Status, req.DeliveryCode, req.DeliveryCodes, time.Now())
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusApproved {
		credited, err := s.commission.Credit(ctx, order)
		if err != nil {
			// The decision already stuck; a failed credit is logged, not
			// rolled back.
			log.Printf("Commission credit failed for order %s: %v", order.ID.Hex(), err)
		} else if credited > 0 {
			log.Printf("Credited $%.2f commission for order %s", credited, order.ID.Hex())
		}
	}

	s.notifier.OrderDecided(order)
	return order, nil
}

// Get returns a single order.
func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// List returns orders newest first, optionally filtered by status and
// buyer email, enriched with catalog metadata for the admin queue. A
// missing catalog record leaves the metadata empty rather than failing the
// listing.
func (s *OrderService) List(ctx context.Context, status, email string) ([]models.OrderView, error) {
	if status != "" && status != models.OrderStatusPending &&
		status != models.OrderStatusApproved && status != models.OrderStatusRejected {
		return nil, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	orders, err := s.orders.List(ctx, status, email)
	if err != nil {
		return nil, err
	}

	views := make([]models.OrderView, len(orders))
	for i, order := range orders {
		views[i] = models.OrderView{Order: order}
		if pkg, err := s.catalog.GetPackage(ctx, order.PackageID); err == nil {
			views[i].PackageName = pkg.Name
		}
		if order.ItemID != nil {
			if item, err := s.catalog.GetItem(ctx, *order.ItemID); err == nil {
				views[i].ItemTitle = item.Title
			}
		}
	}
	return views, nil
}

// Summary returns the affiliate dashboard numbers: approved order count and
// current balance.
func (s *OrderService) Summary(ctx context.Context, affiliateID primitive.ObjectID) (*models.AffiliateSummary, error) {
	affiliate, err := s.affiliates.FindByID(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	count, err := s.orders.CountApproved(ctx, affiliate.ID, affiliate.CodeLower)
	if err != nil {
		return nil, err
	}
	return &models.AffiliateSummary{
		Code:           affiliate.Code,
		ApprovedOrders: count,
		Balance:        utils.Round2(affiliate.Balance),
	}, nil
}
