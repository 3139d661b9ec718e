package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency assumed when a price string carries none.
const DefaultCurrency = "TND"

// Money is a decimal amount plus a currency code. Legacy data stores prices as
// currency-suffixed strings ("8.50 TND"); Money round-trips that form.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: DefaultCurrency}
}

func MoneyFromFloat(v float64) Money {
	return NewMoney(decimal.NewFromFloat(v))
}

func ZeroMoney() Money {
	return NewMoney(decimal.Zero)
}

// ParseMoney accepts "8.50 TND" as well as a bare "8.50".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("empty money value")
	}

	currency := DefaultCurrency
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		currency = s[i+1:]
		s = strings.TrimSpace(s[:i])
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}

	return Money{Amount: amount, Currency: currency}, nil
}

func (m Money) String() string {
	currency := m.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), currency)
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.currencyOr(other.Currency)}
}

func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.currencyOr(other.Currency)}
}

// MulInt scales the amount by a line quantity.
func (m Money) MulInt(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

// Percent returns p percent of the amount.
func (m Money) Percent(p int) Money {
	amount := m.Amount.Mul(decimal.NewFromInt(int64(p))).Div(decimal.NewFromInt(100))
	return Money{Amount: amount, Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount) && m.currencyOr("") == other.currencyOr("")
}

func (m Money) currencyOr(fallback string) string {
	if m.Currency != "" {
		return m.Currency
	}
	if fallback != "" {
		return fallback
	}
	return DefaultCurrency
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
