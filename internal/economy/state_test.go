package economy

import (
	"math"
	"testing"
)

func TestDefaultStateRoster(t *testing.T) {
	st := DefaultState()

	want := []struct {
		kind     Kind
		rate     float64
		cost     Cost
		starting uint64
	}{
		{KindWood, 1.0, NewCost(2, KindWood), 2},
		{KindStone, 0.5, NewCost(3, KindWood), 0},
		{KindIron, 0.1, NewCost(4, KindStone), 0},
		{KindDiamond, 0.01, NewCost(5, KindIron), 0},
	}
	if st.Len() != len(want) {
		t.Fatalf("expected %d resources got %d", len(want), st.Len())
	}
	for i, w := range want {
		r := st.Resources[i]
		if r.Kind != w.kind || r.ProgressPerTick != w.rate || r.BaseCost != w.cost || r.Amount != w.starting {
			t.Fatalf("resource %d: unexpected %+v", i, r)
		}
		if r.Level != 0 || r.Progress != 0 {
			t.Fatalf("resource %d: expected fresh level/progress got %+v", i, r)
		}
	}
	if err := st.Validate(); err != nil {
		t.Fatalf("default roster should validate: %v", err)
	}
}

func TestFindAndIndex(t *testing.T) {
	st := DefaultState()
	i, ok := st.Index(KindIron)
	if !ok || i != 2 {
		t.Fatalf("expected Iron at 2 got %d %v", i, ok)
	}
	st.Find(KindIron).Amount = 11
	if st.Resources[2].Amount != 11 {
		t.Fatalf("Find should return a pointer into the state")
	}

	partial := &GameState{Resources: []Resource{NewResource(KindStone, 1, NewCost(2, KindWood))}}
	if partial.Find(KindWood) != nil {
		t.Fatalf("expected nil for missing kind")
	}
	if _, ok := partial.Index(KindWood); ok {
		t.Fatalf("expected missing index")
	}
}

func TestCloneIsDeep(t *testing.T) {
	st := DefaultState()
	snap := st.Clone()
	snap.Resources[0].Amount = 999

	if st.Resources[0].Amount != 2 {
		t.Fatalf("mutating the clone changed the original: %d", st.Resources[0].Amount)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameState)
	}{
		{"duplicate kind", func(s *GameState) { s.Resources[1].Kind = KindWood }},
		{"progress negative", func(s *GameState) { s.Resources[0].Progress = -0.1 }},
		{"progress whole", func(s *GameState) { s.Resources[0].Progress = 1 }},
		{"progress NaN", func(s *GameState) { s.Resources[0].Progress = math.NaN() }},
		{"zero rate", func(s *GameState) { s.Resources[2].ProgressPerTick = 0 }},
		{"infinite rate", func(s *GameState) { s.Resources[2].ProgressPerTick = math.Inf(1) }},
		{"unknown kind", func(s *GameState) { s.Resources[3].Kind = Kind(9) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := DefaultState()
			tt.mutate(st)
			if err := st.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
