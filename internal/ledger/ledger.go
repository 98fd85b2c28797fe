// Package ledger tracks the simulated position and cash account. It is the
// only component that mutates position state, and it does so exclusively in
// response to strategy decisions applied by the backtest runner.
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/testingview/testingview/internal/types"
	"github.com/testingview/testingview/pkg/errors"
)

// Ledger is the cash/position account of a single run. Fills occur at the
// current bar's close; commission is a configured fraction of notional,
// charged on every open and every close.
type Ledger struct {
	cash           float64
	position       types.Position
	positionSize   float64
	commissionRate float64
	amount         float64

	// commission charged on the open leg of the current position, folded
	// into the trade record when the position closes
	entryCommission float64

	equityCurve     []types.EquityPoint
	trades          []types.Trade
	realizedPnL     float64
	totalCommission float64
	exposedSteps    int
	valid           bool
}

// New creates a ledger with the given starting cash. positionSize is the
// number of units traded per open, commissionRate the fraction of notional
// charged per transition, amount the notional multiplier per unit.
// Parameter validation happens in the runner config, before the ledger
// exists.
func New(initialCash, positionSize, commissionRate, amount float64) *Ledger {
	return &Ledger{
		cash:           initialCash,
		position:       types.Position{Side: types.PositionSideFlat},
		positionSize:   positionSize,
		commissionRate: commissionRate,
		amount:         amount,
		valid:          true,
	}
}

// Apply executes the state machine transition for one decision at one bar.
// Reversals (long -> short and short -> long) close the existing position and
// open the opposite one in the same step, charging commission twice.
func (l *Ledger) Apply(d types.Decision, bar types.Bar) error {
	if !d.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidDecision, "unrecognized decision %q", d)
	}

	switch l.position.Side {
	case types.PositionSideFlat:
		switch d {
		case types.DecisionLong:
			l.open(types.PositionSideLong, bar)
		case types.DecisionShort:
			l.open(types.PositionSideShort, bar)
		}

	case types.PositionSideLong:
		switch d {
		case types.DecisionClose:
			l.close(bar)
		case types.DecisionShort:
			l.close(bar)
			l.open(types.PositionSideShort, bar)
		}

	case types.PositionSideShort:
		switch d {
		case types.DecisionClose:
			l.close(bar)
		case types.DecisionLong:
			l.close(bar)
			l.open(types.PositionSideLong, bar)
		}
	}

	return nil
}

// MarkToMarket appends an equity snapshot at the bar's close and counts the
// step toward exposure when a position is open. Called after every
// transition, including no-op steps.
func (l *Ledger) MarkToMarket(bar types.Bar) {
	if l.position.IsOpen() {
		l.exposedSteps++
	}

	l.equityCurve = append(l.equityCurve, types.EquityPoint{
		Time:   bar.Time,
		Equity: l.Equity(bar.Close),
	})
}

// Equity returns cash plus the unrealized PnL of the open position marked at
// the given price.
func (l *Ledger) Equity(price float64) float64 {
	return l.cash + l.position.UnrealizedPnL(price)
}

func (l *Ledger) open(side types.PositionSide, bar types.Bar) {
	commission := l.commission(bar.Close)
	notional, _ := l.notional(bar.Close).Float64()

	// the original flags runs where capital cannot cover the traded
	// notional plus fee instead of aborting them
	if l.Equity(bar.Close) < notional+commission {
		l.valid = false
	}

	l.cash -= commission
	l.totalCommission += commission
	l.entryCommission = commission
	l.position = types.Position{
		Side:       side,
		Size:       l.positionSize,
		EntryPrice: bar.Close,
		OpenedAt:   bar.Time,
	}
}

func (l *Ledger) close(bar types.Bar) {
	commission := l.commission(bar.Close)

	exitDec := decimal.NewFromFloat(bar.Close)
	entryDec := decimal.NewFromFloat(l.position.EntryPrice)
	sizeDec := decimal.NewFromFloat(l.position.Size)

	var gross decimal.Decimal
	if l.position.Side == types.PositionSideLong {
		gross = exitDec.Sub(entryDec).Mul(sizeDec)
	} else {
		gross = entryDec.Sub(exitDec).Mul(sizeDec)
	}

	grossF, _ := gross.Float64()
	pnl, _ := gross.
		Sub(decimal.NewFromFloat(l.entryCommission)).
		Sub(decimal.NewFromFloat(commission)).
		Float64()

	l.cash += grossF - commission
	l.totalCommission += commission
	l.realizedPnL += pnl

	l.trades = append(l.trades, types.Trade{
		ID:         uuid.New().String(),
		Side:       l.position.Side,
		Size:       l.position.Size,
		EntryPrice: l.position.EntryPrice,
		ExitPrice:  bar.Close,
		EntryTime:  l.position.OpenedAt,
		ExitTime:   bar.Time,
		Commission: l.entryCommission + commission,
		PnL:        pnl,
	})

	l.position = types.Position{Side: types.PositionSideFlat}
	l.entryCommission = 0
}

func (l *Ledger) notional(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromFloat(l.positionSize)).
		Mul(decimal.NewFromFloat(l.amount))
}

func (l *Ledger) commission(price float64) float64 {
	fee, _ := l.notional(price).
		Mul(decimal.NewFromFloat(l.commissionRate)).
		Float64()

	return fee
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 {
	return l.cash
}

// Position returns the current position.
func (l *Ledger) Position() types.Position {
	return l.position
}

// EquityCurve returns a copy of the recorded equity snapshots.
func (l *Ledger) EquityCurve() []types.EquityPoint {
	return append([]types.EquityPoint(nil), l.equityCurve...)
}

// Trades returns a copy of the completed trade log.
func (l *Ledger) Trades() []types.Trade {
	return append([]types.Trade(nil), l.trades...)
}

// RealizedPnL returns the accumulated realized PnL net of commission.
func (l *Ledger) RealizedPnL() float64 {
	return l.realizedPnL
}

// ExposedSteps returns the number of marked steps on which a position was
// open.
func (l *Ledger) ExposedSteps() int {
	return l.exposedSteps
}

// TotalCommission returns the commission charged across all transitions.
func (l *Ledger) TotalCommission() float64 {
	return l.totalCommission
}

// Valid reports whether every open could have been covered by the account
// equity at the time.
func (l *Ledger) Valid() bool {
	return l.valid
}
