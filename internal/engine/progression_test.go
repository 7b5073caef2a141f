package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/talgya/incremental/internal/economy"
)

const progressEpsilon = 1e-9

func TestTickLevelZeroNeverAccrues(t *testing.T) {
	gs := economy.DefaultState()
	before := gs.Clone()

	Advance(gs, 10_000)

	if !reflect.DeepEqual(before, gs.Clone()) {
		t.Fatalf("level-0 roster changed after ticking: %+v", gs.Resources)
	}
}

func TestTickKeepsProgressFractional(t *testing.T) {
	gs := &economy.GameState{Resources: []economy.Resource{
		economy.NewResource(economy.KindWood, 1.0, economy.NewCost(2, economy.KindWood)),
		economy.NewResource(economy.KindStone, 0.5, economy.NewCost(3, economy.KindWood)),
		economy.NewResource(economy.KindIron, 333.3, economy.NewCost(4, economy.KindStone)),
		economy.NewResource(economy.KindDiamond, 0.01, economy.NewCost(5, economy.KindIron)),
	}}
	for i := range gs.Resources {
		gs.Resources[i].Level = uint64(i*7 + 1)
	}

	for n := 0; n < 2_000; n++ {
		Tick(gs)
		for _, r := range gs.Resources {
			if r.Progress < 0 || r.Progress >= 1 {
				t.Fatalf("tick %d: %s progress %v outside [0, 1)", n, r.Kind, r.Progress)
			}
		}
	}
}

func TestTickHundredTicksCreditsOneUnit(t *testing.T) {
	gs := &economy.GameState{Resources: []economy.Resource{
		economy.NewResource(economy.KindWood, 1.0, economy.NewCost(2, economy.KindWood)),
	}}
	gs.Resources[0].Level = 1

	Advance(gs, 99)
	if gs.Resources[0].Amount != 0 {
		t.Fatalf("expected nothing credited after 99 ticks got %d", gs.Resources[0].Amount)
	}

	Tick(gs)
	wood := gs.Resources[0]
	if wood.Amount != 1 {
		t.Fatalf("expected 1 Wood after 100 ticks got %d", wood.Amount)
	}
	if wood.Progress > progressEpsilon {
		t.Fatalf("expected progress back at 0 got %v", wood.Progress)
	}
}

// Ticking N times matches a single pass of the same floor/subtract rule over
// the accumulated progress, per resource, when levels do not change.
func TestAdvanceMatchesCombinedAccrual(t *testing.T) {
	tests := []struct {
		rate  float64
		level uint64
		n     uint64
	}{
		{1.0, 1, 100},
		{1.0, 1, 1_000},
		{0.5, 1, 1_000},
		{0.5, 4, 250},
		{1.0, 2, 300},
		{25, 4, 10},
	}
	for _, tt := range tests {
		gs := &economy.GameState{Resources: []economy.Resource{
			economy.NewResource(economy.KindWood, tt.rate, economy.NewCost(2, economy.KindWood)),
		}}
		gs.Resources[0].Level = tt.level

		Advance(gs, tt.n)

		total := float64(tt.n) * float64(tt.level) * tt.rate / 100.0
		wantAmount := uint64(math.Floor(total + progressEpsilon))
		wantProgress := total - float64(wantAmount)
		if wantProgress < 0 {
			wantProgress = 0
		}

		got := gs.Resources[0]
		if got.Amount != wantAmount {
			t.Fatalf("rate %v level %d n %d: expected amount %d got %d", tt.rate, tt.level, tt.n, wantAmount, got.Amount)
		}
		if math.Abs(got.Progress-wantProgress) > progressEpsilon {
			t.Fatalf("rate %v level %d n %d: expected progress %v got %v", tt.rate, tt.level, tt.n, wantProgress, got.Progress)
		}
	}
}

func TestTickResourcesIndependent(t *testing.T) {
	gs := economy.DefaultState()
	gs.Resources[1].Level = 2 // Stone: 0.01 per tick

	Advance(gs, 100)

	if gs.Resources[0].Amount != 2 {
		t.Fatalf("Wood at level 0 should stay at 2 got %d", gs.Resources[0].Amount)
	}
	if gs.Resources[1].Amount != 1 {
		t.Fatalf("expected 1 Stone got %d", gs.Resources[1].Amount)
	}
}

func TestTickSaturatesAmount(t *testing.T) {
	gs := &economy.GameState{Resources: []economy.Resource{
		economy.NewResource(economy.KindWood, 100, economy.NewCost(2, economy.KindWood)).StartWith(math.MaxUint64 - 1),
	}}
	gs.Resources[0].Level = 5 // 5 whole units per tick

	Tick(gs)

	if gs.Resources[0].Amount != math.MaxUint64 {
		t.Fatalf("expected saturated amount got %d", gs.Resources[0].Amount)
	}
	if gs.Resources[0].Progress != 0 {
		t.Fatalf("expected zero progress got %v", gs.Resources[0].Progress)
	}
}

func TestWholeUnitsSaturates(t *testing.T) {
	if got := wholeUnits(1e30); got != math.MaxUint64 {
		t.Fatalf("expected saturation got %d", got)
	}
	if got := wholeUnits(42); got != 42 {
		t.Fatalf("expected 42 got %d", got)
	}
}
