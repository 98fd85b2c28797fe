package types

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Report is the read-only summary of a completed run, computed once from the
// equity curve and trade log.
type Report struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Strategy is the name of the strategy that produced this report.
	Strategy string `yaml:"strategy"`
	// Start and End are the timestamps of the first and last simulated bars.
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`

	InitialCash float64 `yaml:"initial_cash"`
	FinalEquity float64 `yaml:"final_equity"`
	// PeakEquity is the highest equity reached over the run.
	PeakEquity float64 `yaml:"peak_equity"`
	// ReturnPct is the total return over initial cash, in percent.
	ReturnPct float64 `yaml:"return_pct"`
	// MaxDrawdownPct is the largest peak-to-trough equity decline, in percent.
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct"`
	// ExposurePct is the share of bars on which a position was open, in
	// percent.
	ExposurePct float64 `yaml:"exposure_pct"`

	TradeCount    int     `yaml:"trade_count"`
	WinningTrades int     `yaml:"winning_trades"`
	LosingTrades  int     `yaml:"losing_trades"`
	WinRate       float64 `yaml:"win_rate"`

	RealizedPnL     float64 `yaml:"realized_pnl"`
	TotalCommission float64 `yaml:"total_commission"`

	// Valid is false if at any step the account equity could not have
	// covered the traded notional plus commission.
	Valid bool `yaml:"valid"`

	EquityCurve []EquityPoint `yaml:"equity_curve"`
	TradeLog    []Trade       `yaml:"trade_log"`
}

// String renders a short human-readable summary. The full structure is
// written with WriteReport.
func (r Report) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Strategy:      %s\n", r.Strategy)
	fmt.Fprintf(&sb, "Period:        %s -> %s\n", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Initial cash:  %.2f\n", r.InitialCash)
	fmt.Fprintf(&sb, "Final equity:  %.2f\n", r.FinalEquity)
	fmt.Fprintf(&sb, "Peak equity:   %.2f\n", r.PeakEquity)
	fmt.Fprintf(&sb, "Return:        %.2f%%\n", r.ReturnPct)
	fmt.Fprintf(&sb, "Max drawdown:  %.2f%%\n", r.MaxDrawdownPct)
	fmt.Fprintf(&sb, "Exposure:      %.2f%%\n", r.ExposurePct)
	fmt.Fprintf(&sb, "Trades:        %d (win rate %.2f)\n", r.TradeCount, r.WinRate)
	fmt.Fprintf(&sb, "Commission:    %.2f\n", r.TotalCommission)
	fmt.Fprintf(&sb, "Valid:         %t\n", r.Valid)

	return sb.String()
}

// WriteReport marshals the report to YAML and writes it to the given path.
func WriteReport(path string, report Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to file: %w", err)
	}

	return nil
}
