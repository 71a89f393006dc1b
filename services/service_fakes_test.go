package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/utils"
)

// fakeAffiliateStore is a mutex-guarded in-memory AffiliateStore.
type fakeAffiliateStore struct {
	mu         sync.Mutex
	affiliates map[primitive.ObjectID]*models.Affiliate
}

func newFakeAffiliateStore(affiliates ...*models.Affiliate) *fakeAffiliateStore {
	s := &fakeAffiliateStore{affiliates: make(map[primitive.ObjectID]*models.Affiliate)}
	for _, a := range affiliates {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		if a.CodeLower == "" {
			a.CodeLower = utils.NormalizeCode(a.Code)
		}
		s.affiliates[a.ID] = a
	}
	return s
}

func (s *fakeAffiliateStore) FindByCode(_ context.Context, code string) (*models.Affiliate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.affiliates {
		if a.CodeLower == utils.NormalizeCode(code) {
			copy := *a
			return &copy, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeAffiliateStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Affiliate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.affiliates[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *a
	return &copy, nil
}

func (s *fakeAffiliateStore) FindByEmail(_ context.Context, email string) (*models.Affiliate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.affiliates {
		if a.Email == email {
			copy := *a
			return &copy, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeAffiliateStore) CreditBalance(_ context.Context, id primitive.ObjectID, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.affiliates[id]
	if !ok {
		return ErrNotFound
	}
	a.Balance = utils.Round2(a.Balance + amount)
	return nil
}

func (s *fakeAffiliateStore) DebitBalance(_ context.Context, id primitive.ObjectID, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.affiliates[id]
	if !ok {
		return ErrNotFound
	}
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	a.Balance = utils.Round2(a.Balance - amount)
	return nil
}

func (s *fakeAffiliateStore) balance(id primitive.ObjectID) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.affiliates[id].Balance
}

// fakeCatalog is an in-memory Catalog.
type fakeCatalog struct {
	packages map[primitive.ObjectID]*models.StorePackage
	items    map[primitive.ObjectID]*models.PackageItem
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		packages: make(map[primitive.ObjectID]*models.StorePackage),
		items:    make(map[primitive.ObjectID]*models.PackageItem),
	}
}

func (c *fakeCatalog) addPackage(category string) *models.StorePackage {
	pkg := &models.StorePackage{
		ID:       primitive.NewObjectID(),
		Name:     "pkg-" + category,
		Category: category,
		Active:   true,
	}
	c.packages[pkg.ID] = pkg
	return pkg
}

func (c *fakeCatalog) addItem(packageID primitive.ObjectID, price float64) *models.PackageItem {
	item := &models.PackageItem{
		ID:        primitive.NewObjectID(),
		PackageID: packageID,
		Title:     "item",
		Price:     price,
		Active:    true,
	}
	c.items[item.ID] = item
	return item
}

func (c *fakeCatalog) GetPackage(_ context.Context, id primitive.ObjectID) (*models.StorePackage, error) {
	pkg, ok := c.packages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return pkg, nil
}

func (c *fakeCatalog) GetItem(_ context.Context, id primitive.ObjectID) (*models.PackageItem, error) {
	item, ok := c.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return item, nil
}

func (c *fakeCatalog) ListActiveItems(_ context.Context, packageID primitive.ObjectID) ([]models.PackageItem, error) {
	items := []models.PackageItem{}
	for _, item := range c.items {
		if item.PackageID == packageID && item.Active {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	return items, nil
}

// fakeRates is a fixed RateSource.
type fakeRates struct {
	rate    float64
	percent float64
}

func (r *fakeRates) ExchangeRate(context.Context) float64 { return r.rate }

func (r *fakeRates) CommissionPercent(context.Context) float64 {
	if r.percent <= 0 {
		return DefaultCommissionPercent
	}
	return r.percent
}

// fakeOrderStore is a mutex-guarded in-memory OrderStore.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (s *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = primitive.NewObjectID()
	copy := *order
	s.orders[order.ID] = &copy
	return nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *o
	return &copy, nil
}

func (s *fakeOrderStore) List(_ context.Context, status, email string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []models.Order{}
	for _, o := range s.orders {
		if (status == "" || o.Status == status) && (email == "" || o.Email == email) {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (s *fakeOrderStore) Decide(_ context.Context, id primitive.ObjectID, status, deliveryCode string, deliveryCodes []string, processedAt time.Time) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if o.Status != models.OrderStatusPending {
		return nil, ErrInvalidTransition
	}
	o.Status = status
	if deliveryCode != "" {
		o.DeliveryCode = deliveryCode
	}
	if len(deliveryCodes) > 0 {
		o.DeliveryCodes = deliveryCodes
	}
	o.ProcessedAt = &processedAt
	copy := *o
	return &copy, nil
}

func (s *fakeOrderStore) PruneHistory(_ context.Context, email string, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	decided := []*models.Order{}
	for _, o := range s.orders {
		if o.Email == email && o.Status != models.OrderStatusPending {
			decided = append(decided, o)
		}
	}
	if len(decided) <= keep {
		return 0, nil
	}
	sort.Slice(decided, func(i, j int) bool { return decided[i].CreatedAt.After(decided[j].CreatedAt) })
	var pruned int64
	for _, o := range decided[keep:] {
		delete(s.orders, o.ID)
		pruned++
	}
	return pruned, nil
}

func (s *fakeOrderStore) CountApproved(_ context.Context, affiliateID primitive.ObjectID, code string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, o := range s.orders {
		if o.Status != models.OrderStatusApproved {
			continue
		}
		if (o.AffiliateID != nil && *o.AffiliateID == affiliateID) || (code != "" && o.ReferralCode == code) {
			count++
		}
	}
	return count, nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// fakeWithdrawalStore is a mutex-guarded in-memory WithdrawalStore.
type fakeWithdrawalStore struct {
	mu          sync.Mutex
	withdrawals map[primitive.ObjectID]*models.Withdrawal
}

func newFakeWithdrawalStore() *fakeWithdrawalStore {
	return &fakeWithdrawalStore{withdrawals: make(map[primitive.ObjectID]*models.Withdrawal)}
}

func (s *fakeWithdrawalStore) Create(_ context.Context, withdrawal *models.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	withdrawal.ID = primitive.NewObjectID()
	copy := *withdrawal
	s.withdrawals[withdrawal.ID] = &copy
	return nil
}

func (s *fakeWithdrawalStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *w
	return &copy, nil
}

func (s *fakeWithdrawalStore) List(_ context.Context, status string) ([]models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	withdrawals := []models.Withdrawal{}
	for _, w := range s.withdrawals {
		if status == "" || w.Status == status {
			withdrawals = append(withdrawals, *w)
		}
	}
	return withdrawals, nil
}

func (s *fakeWithdrawalStore) ListByAffiliate(_ context.Context, affiliateID primitive.ObjectID) ([]models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	withdrawals := []models.Withdrawal{}
	for _, w := range s.withdrawals {
		if w.AffiliateID == affiliateID {
			withdrawals = append(withdrawals, *w)
		}
	}
	return withdrawals, nil
}

func (s *fakeWithdrawalStore) Decide(_ context.Context, id primitive.ObjectID, status string, processedAt time.Time) (*models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[id]
	if !ok {
		return nil, ErrNotFound
	}
	if w.Status != models.WithdrawalStatusPending {
		return nil, ErrInvalidTransition
	}
	w.Status = status
	w.ProcessedAt = &processedAt
	copy := *w
	return &copy, nil
}

func (s *fakeWithdrawalStore) Reopen(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[id]
	if !ok {
		return ErrNotFound
	}
	w.Status = models.WithdrawalStatusPending
	w.ProcessedAt = nil
	return nil
}

// noopNotifier satisfies Notifier without side effects.
type noopNotifier struct{}

func (noopNotifier) OrderCreated(*models.Order)             {}
func (noopNotifier) OrderDecided(*models.Order)             {}
func (noopNotifier) WithdrawalRequested(*models.Withdrawal) {}
func (noopNotifier) WithdrawalDecided(*models.Withdrawal)   {}

// recordingNotifier counts delivered events.
type recordingNotifier struct {
	mu                   sync.Mutex
	ordersCreated        int
	ordersDecided        int
	withdrawalsRequested int
	withdrawalsDecided   int
}

func (n *recordingNotifier) OrderCreated(*models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ordersCreated++
}

func (n *recordingNotifier) OrderDecided(*models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ordersDecided++
}

func (n *recordingNotifier) WithdrawalRequested(*models.Withdrawal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.withdrawalsRequested++
}

func (n *recordingNotifier) WithdrawalDecided(*models.Withdrawal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.withdrawalsDecided++
}
