package localstore

import (
	"context"
	"sync"

	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

// The mirrors below persist store state as whole-blob snapshots, matching the
// original device-storage layout. Row-level operations patch a cached copy of
// the blob and rewrite it.

type CatalogMirror struct {
	store *Store
}

var _ interfaces.CatalogMirror = (*CatalogMirror)(nil)

func NewCatalogMirror(store *Store) *CatalogMirror {
	return &CatalogMirror{store: store}
}

func (m *CatalogMirror) LoadMenuItems(ctx context.Context) ([]domain.MenuItem, bool, error) {
	var items []domain.MenuItem
	ok, err := m.store.Load(KeyMenuItems, &items)
	return items, ok, err
}

func (m *CatalogMirror) LoadCategories(ctx context.Context) ([]domain.Category, bool, error) {
	var categories []domain.Category
	ok, err := m.store.Load(KeyCategories, &categories)
	return categories, ok, err
}

func (m *CatalogMirror) SaveMenuItems(ctx context.Context, items []domain.MenuItem) error {
	return m.store.Save(KeyMenuItems, items)
}

func (m *CatalogMirror) SaveCategories(ctx context.Context, categories []domain.Category) error {
	return m.store.Save(KeyCategories, categories)
}

type OrderMirror struct {
	store *Store

	mu     sync.Mutex
	orders []domain.Order
}

var _ interfaces.OrderMirror = (*OrderMirror)(nil)

func NewOrderMirror(store *Store) *OrderMirror {
	return &OrderMirror{store: store}
}

func (m *OrderMirror) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []domain.Order
	if _, err := m.store.Load(KeyOrders, &orders); err != nil {
		return nil, err
	}
	m.orders = orders

	out := make([]domain.Order, len(orders))
	copy(out, orders)
	return out, nil
}

func (m *OrderMirror) InsertOrder(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append([]domain.Order{*order}, m.orders...)
	return m.store.Save(KeyOrders, m.orders)
}

func (m *OrderMirror) UpdateOrder(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == order.ID {
			m.orders[i] = *order
			break
		}
	}
	return m.store.Save(KeyOrders, m.orders)
}

func (m *OrderMirror) DeleteOrder(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			break
		}
	}
	return m.store.Save(KeyOrders, m.orders)
}

func (m *OrderMirror) DeletePaid(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.orders[:0:0]
	for _, o := range m.orders {
		if o.Status != domain.StatusPaid {
			kept = append(kept, o)
		}
	}
	m.orders = kept
	return m.store.Save(KeyOrders, m.orders)
}

type LoyaltyMirror struct {
	store *Store

	mu           sync.Mutex
	customers    []domain.Customer
	transactions []domain.Transaction
}

var _ interfaces.LoyaltyMirror = (*LoyaltyMirror)(nil)

func NewLoyaltyMirror(store *Store) *LoyaltyMirror {
	return &LoyaltyMirror{store: store}
}

func (m *LoyaltyMirror) LoadLoyalty(ctx context.Context) (interfaces.LoyaltyState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var state interfaces.LoyaltyState
	if _, err := m.store.Load(KeyLoyaltyCustomers, &state.Customers); err != nil {
		return state, err
	}
	if _, err := m.store.Load(KeyLoyaltyTransactions, &state.Transactions); err != nil {
		return state, err
	}
	var settings domain.LoyaltySettings
	ok, err := m.store.Load(KeyLoyaltySettings, &settings)
	if err != nil {
		return state, err
	}
	if ok {
		state.Settings = &settings
	}

	m.customers = state.Customers
	m.transactions = state.Transactions
	return state, nil
}

func (m *LoyaltyMirror) UpsertCustomer(ctx context.Context, customer domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	replaced := false
	for i := range m.customers {
		if m.customers[i].ID == customer.ID {
			m.customers[i] = customer
			replaced = true
			break
		}
	}
	if !replaced {
		m.customers = append(m.customers, customer)
	}
	return m.store.Save(KeyLoyaltyCustomers, m.customers)
}

func (m *LoyaltyMirror) DeleteCustomer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.customers {
		if m.customers[i].ID == id {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			break
		}
	}
	kept := m.transactions[:0:0]
	for _, tx := range m.transactions {
		if tx.CustomerID != id {
			kept = append(kept, tx)
		}
	}
	m.transactions = kept

	if err := m.store.Save(KeyLoyaltyCustomers, m.customers); err != nil {
		return err
	}
	return m.store.Save(KeyLoyaltyTransactions, m.transactions)
}

func (m *LoyaltyMirror) AppendTransaction(ctx context.Context, tx domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, tx)
	return m.store.Save(KeyLoyaltyTransactions, m.transactions)
}

func (m *LoyaltyMirror) SaveLoyaltySettings(ctx context.Context, settings domain.LoyaltySettings) error {
	return m.store.Save(KeyLoyaltySettings, settings)
}

type PromotionMirror struct {
	store *Store

	mu        sync.Mutex
	codes     []domain.PromoCode
	questions []domain.QuizQuestion
	attempts  []domain.QuizAttempt
}

var _ interfaces.PromotionMirror = (*PromotionMirror)(nil)

func NewPromotionMirror(store *Store) *PromotionMirror {
	return &PromotionMirror{store: store}
}

func (m *PromotionMirror) LoadPromoCodes(ctx context.Context) ([]domain.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var codes []domain.PromoCode
	if _, err := m.store.Load(KeyPromoCodes, &codes); err != nil {
		return nil, err
	}
	m.codes = codes
	out := make([]domain.PromoCode, len(codes))
	copy(out, codes)
	return out, nil
}

func (m *PromotionMirror) UpsertPromoCode(ctx context.Context, code domain.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	replaced := false
	for i := range m.codes {
		if m.codes[i].ID == code.ID {
			m.codes[i] = code
			replaced = true
			break
		}
	}
	if !replaced {
		m.codes = append(m.codes, code)
	}
	return m.store.Save(KeyPromoCodes, m.codes)
}

func (m *PromotionMirror) DeletePromoCode(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.codes {
		if m.codes[i].ID == id {
			m.codes = append(m.codes[:i], m.codes[i+1:]...)
			break
		}
	}
	return m.store.Save(KeyPromoCodes, m.codes)
}

func (m *PromotionMirror) LoadQuizQuestions(ctx context.Context) ([]domain.QuizQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var questions []domain.QuizQuestion
	if _, err := m.store.Load(KeyQuizQuestions, &questions); err != nil {
		return nil, err
	}
	m.questions = questions
	out := make([]domain.QuizQuestion, len(questions))
	copy(out, questions)
	return out, nil
}

func (m *PromotionMirror) UpsertQuizQuestion(ctx context.Context, question domain.QuizQuestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	replaced := false
	for i := range m.questions {
		if m.questions[i].ID == question.ID {
			m.questions[i] = question
			replaced = true
			break
		}
	}
	if !replaced {
		m.questions = append(m.questions, question)
	}
	return m.store.Save(KeyQuizQuestions, m.questions)
}

func (m *PromotionMirror) DeleteQuizQuestion(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.questions {
		if m.questions[i].ID == id {
			m.questions = append(m.questions[:i], m.questions[i+1:]...)
			break
		}
	}
	return m.store.Save(KeyQuizQuestions, m.questions)
}

func (m *PromotionMirror) LoadQuizAttempts(ctx context.Context) ([]domain.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var attempts []domain.QuizAttempt
	if _, err := m.store.Load(KeyQuizAttempts, &attempts); err != nil {
		return nil, err
	}
	m.attempts = attempts
	out := make([]domain.QuizAttempt, len(attempts))
	copy(out, attempts)
	return out, nil
}

func (m *PromotionMirror) AppendQuizAttempt(ctx context.Context, attempt domain.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, attempt)
	return m.store.Save(KeyQuizAttempts, m.attempts)
}

type StaffMirror struct {
	store *Store
}

var _ interfaces.StaffMirror = (*StaffMirror)(nil)

func NewStaffMirror(store *Store) *StaffMirror {
	return &StaffMirror{store: store}
}

func (m *StaffMirror) LoadSubUsers(ctx context.Context) ([]domain.SubUser, bool, error) {
	var users []domain.SubUser
	ok, err := m.store.Load(KeySubUsers, &users)
	return users, ok, err
}

func (m *StaffMirror) SaveSubUsers(ctx context.Context, users []domain.SubUser) error {
	return m.store.Save(KeySubUsers, users)
}

func (m *StaffMirror) LoadStoreSettings(ctx context.Context) (*domain.StoreSettings, error) {
	var settings domain.StoreSettings
	ok, err := m.store.Load(KeyStoreSettings, &settings)
	if err != nil || !ok {
		return nil, err
	}
	return &settings, nil
}

func (m *StaffMirror) SaveStoreSettings(ctx context.Context, settings domain.StoreSettings) error {
	return m.store.Save(KeyStoreSettings, settings)
}

func (m *StaffMirror) LoadNotificationSettings(ctx context.Context) (*domain.NotificationSettings, error) {
	var settings domain.NotificationSettings
	ok, err := m.store.Load(KeyNotificationSettings, &settings)
	if err != nil || !ok {
		return nil, err
	}
	return &settings, nil
}

func (m *StaffMirror) SaveNotificationSettings(ctx context.Context, settings domain.NotificationSettings) error {
	return m.store.Save(KeyNotificationSettings, settings)
}
