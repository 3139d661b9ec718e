package loyalty

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

// Service owns loyalty customers, the append-only transaction ledger, and the
// singleton settings record.
type Service struct {
	mirror interfaces.LoyaltyMirror
	logger logger.Logger

	mu           sync.Mutex
	customers    []domain.Customer
	transactions []domain.Transaction
	settings     domain.LoyaltySettings

	writes sync.WaitGroup
}

func NewService(mirror interfaces.LoyaltyMirror, lgr logger.Logger) *Service {
	return &Service{
		mirror:   mirror,
		logger:   lgr,
		settings: domain.DefaultLoyaltySettings(),
	}
}

func (s *Service) Load(ctx context.Context) error {
	state, err := s.mirror.LoadLoyalty(ctx)
	if err != nil {
		return fmt.Errorf("failed to load loyalty state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = state.Customers
	s.transactions = state.Transactions
	if state.Settings != nil {
		s.settings = *state.Settings
	}
	return nil
}

func (s *Service) Settings() domain.LoyaltySettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Service) UpdateSettings(patch domain.LoyaltySettingsPatch) {
	s.mu.Lock()
	patch.Apply(&s.settings)
	settings := s.settings
	s.mu.Unlock()

	s.mirrorWrite("loyalty_settings_mirror_failed", func(ctx context.Context) error {
		return s.mirror.SaveLoyaltySettings(ctx, settings)
	})
}

func (s *Service) Customers() []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

func (s *Service) Transactions(customerID string) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range s.transactions {
		if tx.CustomerID == customerID {
			out = append(out, tx)
		}
	}
	return out
}

// AddCustomer registers a customer, credits the welcome bonus and writes the
// matching ledger entry. The phone number must be unique among active
// customers (exact match).
func (s *Service) AddCustomer(name, phone string) (domain.Customer, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return domain.Customer{}, domain.ErrCustomerNameMissing
	}
	if phone == "" {
		return domain.Customer{}, fmt.Errorf("phone number is required")
	}

	now := time.Now()

	s.mu.Lock()
	for _, c := range s.customers {
		if c.Active && c.Phone == phone {
			s.mu.Unlock()
			return domain.Customer{}, domain.ErrDuplicatePhone
		}
	}

	customer := domain.Customer{
		ID:         uuid.NewString(),
		Phone:      phone,
		Name:       name,
		Points:     s.settings.WelcomeBonus,
		TotalSpent: domain.ZeroMoney(),
		JoinedAt:   now,
		LastVisit:  now,
		Tier:       domain.TierBronze,
		Active:     true,
	}
	welcome := domain.Transaction{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		OrderID:     domain.WelcomeOrderID,
		Type:        domain.TxEarn,
		Points:      s.settings.WelcomeBonus,
		Amount:      domain.ZeroMoney(),
		Description: "Welcome bonus",
		Timestamp:   now,
	}
	s.customers = append(s.customers, customer)
	s.transactions = append(s.transactions, welcome)
	s.mu.Unlock()

	s.mirrorWrite("loyalty_mirror_failed", func(ctx context.Context) error {
		if err := s.mirror.UpsertCustomer(ctx, customer); err != nil {
			return err
		}
		return s.mirror.AppendTransaction(ctx, welcome)
	})

	s.logger.Debug("customer_added", fmt.Sprintf("Customer %s joined loyalty program", customer.Name), "",
		map[string]any{"customer_id": customer.ID})

	return customer, nil
}

// UpdateCustomer applies a partial update. The tier is recomputed from total
// spend unless the patch deactivates the customer.
func (s *Service) UpdateCustomer(id string, patch domain.CustomerPatch) {
	s.mu.Lock()
	var updated *domain.Customer
	for i := range s.customers {
		if s.customers[i].ID == id {
			patch.Apply(&s.customers[i])
			if !patch.Deactivating() {
				s.customers[i].Tier = s.settings.TierFor(s.customers[i].TotalSpent)
			}
			c := s.customers[i]
			updated = &c
			break
		}
	}
	s.mu.Unlock()

	if updated != nil {
		c := *updated
		s.mirrorWrite("loyalty_mirror_failed", func(ctx context.Context) error {
			return s.mirror.UpsertCustomer(ctx, c)
		})
	}
}

// DeleteCustomer hard-deletes the customer and cascades to their ledger
// entries. Order records keep their loyalty references untouched.
func (s *Service) DeleteCustomer(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			changed = true
			break
		}
	}
	if changed {
		kept := s.transactions[:0:0]
		for _, tx := range s.transactions {
			if tx.CustomerID != id {
				kept = append(kept, tx)
			}
		}
		s.transactions = kept
	}
	s.mu.Unlock()

	if changed {
		s.mirrorWrite("loyalty_mirror_failed", func(ctx context.Context) error {
			return s.mirror.DeleteCustomer(ctx, id)
		})
	}
}

// FindByPhone returns the first active customer with an exact phone match.
func (s *Service) FindByPhone(phone string) (domain.Customer, bool) {
	phone = strings.TrimSpace(phone)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.Active && c.Phone == phone {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// AddPoints credits points for a purchase: floor(amount*rate) scaled by the
// customer's current tier multiplier, floored again. The tier is then
// recomputed from the new cumulative spend, so a purchase can upgrade the
// tier it was earned under. Returns the earned point count, 0 for an unknown
// customer.
func (s *Service) AddPoints(customerID, orderID string, amount domain.Money) int64 {
	now := time.Now()

	s.mu.Lock()
	var customer *domain.Customer
	for i := range s.customers {
		if s.customers[i].ID == customerID {
			customer = &s.customers[i]
			break
		}
	}
	if customer == nil {
		s.mu.Unlock()
		return 0
	}

	earned := s.settings.EarnedPoints(amount, customer.Tier)
	customer.Points += earned
	customer.TotalSpent = customer.TotalSpent.Add(amount)
	customer.VisitCount++
	customer.LastVisit = now
	customer.Tier = s.settings.TierFor(customer.TotalSpent)

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		OrderID:     orderID,
		Type:        domain.TxEarn,
		Points:      earned,
		Amount:      amount,
		Description: fmt.Sprintf("Earned from order #%s", orderID),
		Timestamp:   now,
	}
	s.transactions = append(s.transactions, tx)
	snapshot := *customer
	s.mu.Unlock()

	s.mirrorWrite("loyalty_mirror_failed", func(ctx context.Context) error {
		if err := s.mirror.UpsertCustomer(ctx, snapshot); err != nil {
			return err
		}
		return s.mirror.AppendTransaction(ctx, tx)
	})

	return earned
}

// RedeemPoints deducts points against their monetary value. Fails closed with
// no state change when the customer is missing or the balance is too low.
func (s *Service) RedeemPoints(customerID, orderID string, points int64) bool {
	now := time.Now()

	s.mu.Lock()
	var customer *domain.Customer
	for i := range s.customers {
		if s.customers[i].ID == customerID {
			customer = &s.customers[i]
			break
		}
	}
	if customer == nil || points <= 0 || points > customer.Points {
		s.mu.Unlock()
		return false
	}

	value := s.settings.RedemptionAmount(points)
	customer.Points -= points
	customer.LastVisit = now

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		OrderID:     orderID,
		Type:        domain.TxRedeem,
		Points:      -points,
		Amount:      value,
		Description: fmt.Sprintf("Redeemed %d points for %s discount", points, value),
		Timestamp:   now,
	}
	s.transactions = append(s.transactions, tx)
	snapshot := *customer
	s.mu.Unlock()

	s.mirrorWrite("loyalty_mirror_failed", func(ctx context.Context) error {
		if err := s.mirror.UpsertCustomer(ctx, snapshot); err != nil {
			return err
		}
		return s.mirror.AppendTransaction(ctx, tx)
	})

	return true
}

func (s *Service) mirrorWrite(action string, fn func(context.Context) error) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := fn(context.Background()); err != nil {
			s.logger.Error(action, "Mirror write failed", "", nil, err)
		}
	}()
}

// Flush blocks until every pending mirror write has finished.
func (s *Service) Flush() {
	s.writes.Wait()
}
