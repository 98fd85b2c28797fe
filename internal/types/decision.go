package types

// Decision is a strategy's per-step trading request. It is a pure request,
// not a direct mutation of the ledger.
type Decision string

const (
	DecisionLong  Decision = "LONG"
	DecisionShort Decision = "SHORT"
	DecisionClose Decision = "CLOSE"
	DecisionHold  Decision = "HOLD"
)

// AllDecisions enumerates the recognized decision values, in the order
// they are documented.
var AllDecisions = []Decision{
	DecisionLong,
	DecisionShort,
	DecisionClose,
	DecisionHold,
}

// IsValid reports whether d is one of the recognized decision values.
func (d Decision) IsValid() bool {
	for _, v := range AllDecisions {
		if d == v {
			return true
		}
	}

	return false
}
