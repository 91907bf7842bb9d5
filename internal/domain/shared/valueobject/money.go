package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	EUR Currency = "EUR" // Euro (default)
	USD Currency = "USD" // US Dollar
	GBP Currency = "GBP" // British Pound
	CHF Currency = "CHF" // Swiss Franc
	CAD Currency = "CAD" // Canadian Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = EUR

// IsValid checks if the currency is one of the supported codes
func (c Currency) IsValid() bool {
	switch c {
	case EUR, USD, GBP, CHF, CAD:
		return true
	}
	return false
}

// String returns the string representation of Currency
func (c Currency) String() string {
	return string(c)
}

// Money is a value object representing a monetary amount in integer minor
// units (cents). It is immutable - all operations return new instances.
type Money struct {
	amount   int64
	currency Currency
}

// NewMoney creates a new Money with the specified minor-unit amount and currency
func NewMoney(amount int64, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("unsupported currency: %s", currency)
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyEUR creates Money in EUR from a minor-unit amount
func NewMoneyEUR(amount int64) Money {
	return Money{amount: amount, currency: EUR}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: 0, currency: currency}
}

// Amount returns the amount in minor units
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount == 0
}

// MulQuantity multiplies the amount by a decimal quantity and rounds the
// result to the nearest minor unit (half away from zero).
func (m Money) MulQuantity(quantity decimal.Decimal) Money {
	product := decimal.NewFromInt(m.amount).Mul(quantity).Round(0)
	return Money{
		amount:   product.IntPart(),
		currency: m.currency,
	}
}

// GreaterThan compares amounts; both values must share a currency,
// otherwise it returns false.
func (m Money) GreaterThan(other Money) bool {
	return m.currency == other.currency && m.amount > other.amount
}

// Decimal returns the amount in major units as a decimal (two fraction digits)
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.amount).Shift(-2)
}

// String returns a human-readable representation, e.g. "500.00 EUR"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.currency)
}
