package sql

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Numbers come in three representations that share one tag: Int for 64-bit
// integers, Float for IEEE doubles and Decimal for exact decimals. Equality
// and ordering normalize across all three.

type Int int64

type Float float64

type Decimal decimal.Decimal

func (Int) Kind() Kind     { return KindNumber }
func (Float) Kind() Kind   { return KindNumber }
func (Decimal) Kind() Kind { return KindNumber }

func (Int) value()     {}
func (Float) value()   {}
func (Decimal) value() {}

// NewDecimal parses an exact decimal literal such as "3.1400".
func NewDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal(d), nil
}

// Decimal returns the underlying exact decimal.
func (d Decimal) Decimal() decimal.Decimal {
	return decimal.Decimal(d)
}

func (d Decimal) String() string {
	return decimal.Decimal(d).String()
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(d).String()), nil
}

// toDecimal widens any number representation for comparison.
func toDecimal(v Value) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case Int:
		return decimal.NewFromInt(int64(n)), true
	case Float:
		return decimal.NewFromFloat(float64(n)), true
	case Decimal:
		return decimal.Decimal(n), true
	default:
		return decimal.Decimal{}, false
	}
}

func numberEqual(a, b Value) bool {
	da, ok := toDecimal(a)
	if !ok {
		return false
	}
	db, ok := toDecimal(b)
	if !ok {
		return false
	}
	return da.Equal(db)
}

func formatNumber(v Value) string {
	switch n := v.(type) {
	case Int:
		return strconv.FormatInt(int64(n), 10)
	case Float:
		return strconv.FormatFloat(float64(n), 'f', -1, 64)
	case Decimal:
		return decimal.Decimal(n).String() + "dec"
	default:
		return ""
	}
}
