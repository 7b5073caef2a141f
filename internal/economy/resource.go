// Package economy provides the resource model, the upgrade cost curve and the
// default roster.
package economy

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/dustin/go-humanize"
)

// Kind identifies a resource. It doubles as the lookup key for costs.
type Kind uint8

const (
	KindWood Kind = iota
	KindStone
	KindIron
	KindDiamond
)

var kindNames = [...]string{
	KindWood:    "Wood",
	KindStone:   "Stone",
	KindIron:    "Iron",
	KindDiamond: "Diamond",
}

// Kinds returns every resource kind in tier order.
func Kinds() []Kind {
	return []Kind{KindWood, KindStone, KindIron, KindDiamond}
}

// String returns the display name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind looks a kind up by its display name.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown resource kind %q", name)
}

// MarshalText encodes the kind by name so saves stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown resource kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Cost is a price denominated in some resource kind.
type Cost struct {
	Amount uint64 `json:"amount"`
	Kind   Kind   `json:"kind"`
}

// NewCost builds a cost.
func NewCost(amount uint64, kind Kind) Cost {
	return Cost{Amount: amount, Kind: kind}
}

// String renders the cost as "3 Wood".
func (c Cost) String() string {
	return FormatAmount(c.Amount) + " " + c.Kind.String()
}

// FormatAmount groups digits for display ("1,024").
func FormatAmount(n uint64) string {
	if n <= math.MaxInt64 {
		return humanize.Comma(int64(n))
	}
	return humanize.BigComma(new(big.Int).SetUint64(n))
}

// Resource is a single accruing, upgradeable quantity.
type Resource struct {
	Kind            Kind    `json:"kind"`
	Amount          uint64  `json:"amount"`
	Level           uint64  `json:"level"`
	BaseCost        Cost    `json:"cost"`
	Progress        float64 `json:"progress"`          // Fractional accrual carried between ticks, [0, 1)
	ProgressPerTick float64 `json:"progress_per_tick"` // Base rate, scaled by level
}

// NewResource creates a level-0 resource with nothing banked.
func NewResource(kind Kind, progressPerTick float64, baseCost Cost) Resource {
	return Resource{
		Kind:            kind,
		BaseCost:        baseCost,
		ProgressPerTick: progressPerTick,
	}
}

// StartWith returns a copy of r with amount banked.
func (r Resource) StartWith(amount uint64) Resource {
	r.Amount = amount
	return r
}

// UpgradeCost is the price to raise r from its current level to the next:
// base^(level+1), paid in the base cost's kind. Saturates at MaxUint64.
func (r *Resource) UpgradeCost() Cost {
	return Cost{
		Amount: powSat(r.BaseCost.Amount, r.Level+1),
		Kind:   r.BaseCost.Kind,
	}
}

// Rate returns the progress gained per tick at the current level.
func (r *Resource) Rate() float64 {
	return float64(r.Level) * r.ProgressPerTick / 100.0
}

func powSat(base, exp uint64) uint64 {
	result := uint64(1)
	for exp > 0 {
		if exp&1 == 1 {
			hi, lo := bits.Mul64(result, base)
			if hi != 0 {
				return math.MaxUint64
			}
			result = lo
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		hi, lo := bits.Mul64(base, base)
		if hi != 0 {
			// Any further multiplication by base overflows unless result is 0.
			if result == 0 {
				return 0
			}
			return math.MaxUint64
		}
		base = lo
	}
	return result
}
