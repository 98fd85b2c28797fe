package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type PositionSide string

const (
	PositionSideFlat  PositionSide = "FLAT"
	PositionSideLong  PositionSide = "LONG"
	PositionSideShort PositionSide = "SHORT"
)

// Position represents the current holding. At most one position is open at a
// time; there is no netting or pyramiding.
type Position struct {
	Side       PositionSide `yaml:"side"`
	Size       float64      `yaml:"size"`
	EntryPrice float64      `yaml:"entry_price"`
	OpenedAt   time.Time    `yaml:"opened_at"`
}

// IsOpen reports whether the position holds any units.
func (p Position) IsOpen() bool {
	return p.Side != PositionSideFlat && p.Size > 0
}

// UnrealizedPnL marks the open position to market at the given price.
// Returns 0 for a flat position.
func (p Position) UnrealizedPnL(price float64) float64 {
	if !p.IsOpen() {
		return 0
	}

	priceDec := decimal.NewFromFloat(price)
	entryDec := decimal.NewFromFloat(p.EntryPrice)
	sizeDec := decimal.NewFromFloat(p.Size)

	var pnl decimal.Decimal

	switch p.Side {
	case PositionSideLong:
		pnl = priceDec.Sub(entryDec).Mul(sizeDec)
	case PositionSideShort:
		pnl = entryDec.Sub(priceDec).Mul(sizeDec)
	}

	result, _ := pnl.Float64()

	return result
}

// Trade is one completed round trip: an open transition and the close that
// realized its PnL.
type Trade struct {
	ID         string       `yaml:"id"`
	Side       PositionSide `yaml:"side"`
	Size       float64      `yaml:"size"`
	EntryPrice float64      `yaml:"entry_price"`
	ExitPrice  float64      `yaml:"exit_price"`
	EntryTime  time.Time    `yaml:"entry_time"`
	ExitTime   time.Time    `yaml:"exit_time"`
	// Commission is the total commission charged across both transitions.
	Commission float64 `yaml:"commission"`
	// PnL is the realized profit and loss net of commission.
	PnL float64 `yaml:"pnl"`
}

// EquityPoint is one mark-to-market snapshot of the account.
type EquityPoint struct {
	Time   time.Time `yaml:"time"`
	Equity float64   `yaml:"equity"`
}
