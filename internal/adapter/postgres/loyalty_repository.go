package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

type LoyaltyRepository struct {
	db DB
}

var _ interfaces.LoyaltyMirror = (*LoyaltyRepository)(nil)

func NewLoyaltyRepository(db DB) *LoyaltyRepository {
	return &LoyaltyRepository{db: db}
}

func (r *LoyaltyRepository) LoadLoyalty(ctx context.Context) (interfaces.LoyaltyState, error) {
	var state interfaces.LoyaltyState

	customers, err := r.loadCustomers(ctx)
	if err != nil {
		return state, err
	}
	state.Customers = customers

	transactions, err := r.loadTransactions(ctx)
	if err != nil {
		return state, err
	}
	state.Transactions = transactions

	var data []byte
	err = r.db.QueryRow(ctx, `SELECT data FROM loyalty_settings WHERE id = 1`).Scan(&data)
	if err == nil {
		var settings domain.LoyaltySettings
		if err := json.Unmarshal(data, &settings); err != nil {
			return state, fmt.Errorf("failed to decode loyalty settings: %w", err)
		}
		state.Settings = &settings
	}
	// A missing settings row means defaults; scan errors there are not fatal.

	return state, nil
}

func (r *LoyaltyRepository) loadCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, phone, name, points, total_spent, visit_count, joined_at, last_visit, tier, is_active
		FROM customers
		ORDER BY joined_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var (
			c          domain.Customer
			totalSpent string
			tier       string
		)
		if err := rows.Scan(&c.ID, &c.Phone, &c.Name, &c.Points, &totalSpent,
			&c.VisitCount, &c.JoinedAt, &c.LastVisit, &tier, &c.Active); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		spent, err := domain.ParseMoney(totalSpent)
		if err != nil {
			return nil, fmt.Errorf("customer %s has bad total_spent: %w", c.ID, err)
		}
		c.TotalSpent = spent
		c.Tier = domain.Tier(tier)
		customers = append(customers, c)
	}
	return customers, nil
}

func (r *LoyaltyRepository) loadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, customer_id, order_id, type, points, amount, description, created_at
		FROM loyalty_transactions
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query loyalty transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var (
			tx     domain.Transaction
			txType string
			amount string
		)
		if err := rows.Scan(&tx.ID, &tx.CustomerID, &tx.OrderID, &txType,
			&tx.Points, &amount, &tx.Description, &tx.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan loyalty transaction: %w", err)
		}
		parsed, err := domain.ParseMoney(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s has bad amount: %w", tx.ID, err)
		}
		tx.Amount = parsed
		tx.Type = domain.TxType(txType)
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (r *LoyaltyRepository) UpsertCustomer(ctx context.Context, customer domain.Customer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, phone, name, points, total_spent, visit_count, joined_at, last_visit, tier, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			phone = EXCLUDED.phone,
			name = EXCLUDED.name,
			points = EXCLUDED.points,
			total_spent = EXCLUDED.total_spent,
			visit_count = EXCLUDED.visit_count,
			last_visit = EXCLUDED.last_visit,
			tier = EXCLUDED.tier,
			is_active = EXCLUDED.is_active`,
		customer.ID, customer.Phone, customer.Name, customer.Points,
		customer.TotalSpent.String(), customer.VisitCount, customer.JoinedAt,
		customer.LastVisit, string(customer.Tier), customer.Active)
	if err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}

// DeleteCustomer removes the customer and their ledger in one transaction, so
// an orphaned ledger can never survive a partial failure.
func (r *LoyaltyRepository) DeleteCustomer(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM loyalty_transactions WHERE customer_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete customer ledger: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit customer delete: %w", err)
	}
	return nil
}

func (r *LoyaltyRepository) AppendTransaction(ctx context.Context, tx domain.Transaction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO loyalty_transactions (id, customer_id, order_id, type, points, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.CustomerID, tx.OrderID, string(tx.Type), tx.Points,
		tx.Amount.String(), tx.Description, tx.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append loyalty transaction: %w", err)
	}
	return nil
}

func (r *LoyaltyRepository) SaveLoyaltySettings(ctx context.Context, settings domain.LoyaltySettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode loyalty settings: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO loyalty_settings (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, data)
	if err != nil {
		return fmt.Errorf("failed to save loyalty settings: %w", err)
	}
	return nil
}
