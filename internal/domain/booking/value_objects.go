package booking

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrInvalidAmount   = errors.New("amount is not a representable number")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter ISO code")
)

// Money is an amount in minor units (paise, cents) of its currency.
type Money struct {
	minor    int64
	currency string
}

func NewMoney(minor int64, currency string) (Money, error) {
	if minor < 0 {
		return Money{}, ErrNegativeAmount
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{minor: minor, currency: currency}, nil
}

// MoneyFromMajor converts a server-provided decimal total (708, 708.5) with
// standard two-decimal rounding.
func MoneyFromMajor(amount float64, currency string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, ErrInvalidAmount
	}
	minor := math.Round(amount * 100)
	if minor < 0 {
		return Money{}, ErrNegativeAmount
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
	if minor >= math.MaxInt64 {
		return Money{}, ErrInvalidAmount
	}
	return NewMoney(int64(minor), currency)
}

func (m Money) Minor() int64 {
	return m.minor
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) Major() float64 {
	return float64(m.minor) / 100.0
}

// Format renders the amount with exactly two decimals, e.g. "708.00".
func (m Money) Format() string {
	return fmt.Sprintf("%d.%02d", m.minor/100, m.minor%100)
}

func (m Money) String() string {
	return m.currency + " " + m.Format()
}

func (m Money) Equal(other Money) bool {
	return m.minor == other.minor && m.currency == other.currency
}

// Guest is the contact used to prefill the checkout form.
type Guest struct {
	Name    string
	Email   string
	Contact string
}

func (g Guest) IsEmpty() bool {
	return g.Name == "" && g.Email == "" && g.Contact == ""
}
