package heatmap

import (
	"encoding/json"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USDT is the code of the Tether stable coin, registered as a currency so that
// amounts are displayed with the usual money formatter.
const USDT = "USDT"

func init() {
	money.AddCurrency(USDT, "₮", "1 $", ".", ",", 2)
}

// Amount is a USDT amount, kept exact as a decimal.
type Amount struct {
	value decimal.Decimal
}

// NewAmount returns an Amount for a float value.
func NewAmount(v float64) Amount { return Amount{value: decimal.NewFromFloat(v)} }

func (a Amount) Add(b Amount) Amount          { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Mul(d decimal.Decimal) Amount { return Amount{value: a.value.Mul(d)} }
func (a Amount) Equal(b Amount) bool          { return a.value.Equal(b.value) }
func (a Amount) IsZero() bool                 { return a.value.IsZero() }
func (a Amount) Decimal() decimal.Decimal     { return a.value }
func (a Amount) InexactFloat64() float64      { return a.value.InexactFloat64() }

// String returns the amount formatted with the USDT currency, e.g. "12,345.67 ₮".
func (a Amount) String() string {
	cur := money.GetCurrency(USDT)
	minor := a.value.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), USDT).Display()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.value.Round(2).InexactFloat64())
}
