package engine

import (
	"fmt"

	"github.com/talgya/incremental/internal/economy"
)

// Outcome is the result of an upgrade attempt. Only Applied mutates state.
type Outcome uint8

const (
	NoSelection       Outcome = iota // No resource targeted
	Applied                          // Cost debited, level raised
	NoCostResource                   // Roster has no resource of the cost's kind
	InsufficientFunds                // Cost resource cannot cover the price
)

var outcomeNames = [...]string{
	NoSelection:       "no_selection",
	Applied:           "applied",
	NoCostResource:    "no_cost_resource",
	InsufficientFunds: "insufficient_funds",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// Receipt describes a resolved upgrade attempt.
type Receipt struct {
	Outcome Outcome
	Kind    economy.Kind // Upgraded resource (zero unless a target was given)
	Cost    economy.Cost // Price quoted for the attempt
	Level   uint64       // Target level after the attempt
}

// Upgrade tries to raise the resource at index by one level, paying its
// upgrade cost out of the resource whose kind matches the cost.
//
// selected=false is a no-op reported as NoSelection. An index outside the
// roster is a caller bug and panics. Failed attempts leave gs untouched.
// The cost resource may be the target itself.
func Upgrade(gs *economy.GameState, index int, selected bool) Receipt {
	if !selected {
		return Receipt{Outcome: NoSelection}
	}
	if index < 0 || index >= len(gs.Resources) {
		panic(fmt.Sprintf("engine: upgrade index %d out of range [0, %d)", index, len(gs.Resources)))
	}

	target := &gs.Resources[index]
	cost := target.UpgradeCost()
	receipt := Receipt{Kind: target.Kind, Cost: cost, Level: target.Level}

	payer := gs.Find(cost.Kind)
	if payer == nil {
		receipt.Outcome = NoCostResource
		return receipt
	}
	if payer.Amount < cost.Amount {
		receipt.Outcome = InsufficientFunds
		return receipt
	}

	payer.Amount -= cost.Amount
	target.Level++

	receipt.Outcome = Applied
	receipt.Level = target.Level
	return receipt
}
