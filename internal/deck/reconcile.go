package deck

import (
	"github.com/shopspring/decimal"

	"github.com/nwchinn/mtg-agent/internal/collection"
)

// RequestedCard is an (identity, quantity) pair to reconcile against an
// owned collection.
type RequestedCard struct {
	Name     string
	Quantity int
}

// OwnershipResult reports how many copies of one requested card the
// collection covers. Owned is the raw copy count across all printings;
// Counted caps it at Requested so surplus copies never inflate coverage.
type OwnershipResult struct {
	Name       string
	Requested  int
	Owned      int
	Counted    int
	FullyOwned bool
}

// Missing returns the number of copies still needed.
func (r OwnershipResult) Missing() int {
	return r.Requested - r.Counted
}

// Reconcile compares a requested card list against the collection. The
// returned results preserve input order, and the percentage is the share of
// requested copies owned, rounded half to even to two decimal places. An
// empty request reconciles to zero percent.
func Reconcile(requested []RequestedCard, col *collection.Collection) ([]OwnershipResult, float64) {
	results := make([]OwnershipResult, 0, len(requested))

	totalRequested := 0
	totalCounted := 0
	for _, req := range requested {
		owned := col.QuantityOwned(req.Name)
		counted := owned
		if counted > req.Quantity {
			counted = req.Quantity
		}
		results = append(results, OwnershipResult{
			Name:       req.Name,
			Requested:  req.Quantity,
			Owned:      owned,
			Counted:    counted,
			FullyOwned: owned >= req.Quantity,
		})
		totalRequested += req.Quantity
		totalCounted += counted
	}

	return results, coveragePercent(totalCounted, totalRequested)
}

// ReconcileCommander reconciles a commander deck. The commander is a
// singleton slot: it contributes at most one copy to both the numerator and
// the denominator regardless of how many copies are owned.
func ReconcileCommander(commander RequestedCard, cards []RequestedCard, col *collection.Collection) (commanderResult OwnershipResult, results []OwnershipResult, percentage float64) {
	commanderOwned := col.QuantityOwned(commander.Name)
	commanderCounted := 0
	if commanderOwned > 0 {
		commanderCounted = 1
	}
	commanderResult = OwnershipResult{
		Name:       commander.Name,
		Requested:  1,
		Owned:      commanderOwned,
		Counted:    commanderCounted,
		FullyOwned: commanderOwned >= 1,
	}

	results = make([]OwnershipResult, 0, len(cards))
	totalRequested := 1
	totalCounted := commanderCounted
	for _, req := range cards {
		owned := col.QuantityOwned(req.Name)
		counted := owned
		if counted > req.Quantity {
			counted = req.Quantity
		}
		results = append(results, OwnershipResult{
			Name:       req.Name,
			Requested:  req.Quantity,
			Owned:      owned,
			Counted:    counted,
			FullyOwned: owned >= req.Quantity,
		})
		totalRequested += req.Quantity
		totalCounted += counted
	}

	return commanderResult, results, coveragePercent(totalCounted, totalRequested)
}

func coveragePercent(counted, requested int) float64 {
	if requested == 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(counted)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(requested))).
		RoundBank(2)
	f, _ := pct.Float64()
	return f
}
