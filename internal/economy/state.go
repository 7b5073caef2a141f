package economy

import (
	"errors"
	"fmt"
	"math"
)

// GameState is the whole persisted unit: one resource per kind, in display order.
type GameState struct {
	Resources []Resource `json:"resources"`
}

// DefaultState returns the first-run roster. Each tier is priced in the tier
// below it; Wood is priced in itself.
func DefaultState() *GameState {
	return &GameState{
		Resources: []Resource{
			NewResource(KindWood, 1.0, NewCost(2, KindWood)).StartWith(2),
			NewResource(KindStone, 0.5, NewCost(3, KindWood)),
			NewResource(KindIron, 0.1, NewCost(4, KindStone)),
			NewResource(KindDiamond, 0.01, NewCost(5, KindIron)),
		},
	}
}

// Len returns the number of resources.
func (s *GameState) Len() int {
	return len(s.Resources)
}

// Index returns the position of the resource with the given kind.
func (s *GameState) Index(kind Kind) (int, bool) {
	for i := range s.Resources {
		if s.Resources[i].Kind == kind {
			return i, true
		}
	}
	return 0, false
}

// Find returns a pointer to the resource with the given kind, or nil.
func (s *GameState) Find(kind Kind) *Resource {
	if i, ok := s.Index(kind); ok {
		return &s.Resources[i]
	}
	return nil
}

// Clone returns a deep copy safe to hand to readers on another goroutine.
func (s *GameState) Clone() GameState {
	out := GameState{Resources: make([]Resource, len(s.Resources))}
	copy(out.Resources, s.Resources)
	return out
}

// Validate checks the invariants a loaded state must satisfy.
func (s *GameState) Validate() error {
	var errs []error
	seen := make(map[Kind]bool, len(s.Resources))
	for i, r := range s.Resources {
		if int(r.Kind) >= len(kindNames) {
			errs = append(errs, fmt.Errorf("resource %d: unknown kind %d", i, uint8(r.Kind)))
			continue
		}
		if seen[r.Kind] {
			errs = append(errs, fmt.Errorf("resource %d: duplicate kind %s", i, r.Kind))
		}
		seen[r.Kind] = true
		if math.IsNaN(r.Progress) || r.Progress < 0 || r.Progress >= 1 {
			errs = append(errs, fmt.Errorf("%s: progress %v outside [0, 1)", r.Kind, r.Progress))
		}
		if math.IsNaN(r.ProgressPerTick) || math.IsInf(r.ProgressPerTick, 0) || r.ProgressPerTick <= 0 {
			errs = append(errs, fmt.Errorf("%s: progress_per_tick %v must be positive", r.Kind, r.ProgressPerTick))
		}
	}
	return errors.Join(errs...)
}
