package timeline

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestForwardCycle(t *testing.T) {
	c := New(2.8, false)
	if c.Total() != 2.8 {
		t.Errorf("Expected total 2.8, got %v", c.Total())
	}
	for _, ft := range []float64{0, 0.5, 1.4, 2.79} {
		if got := c.Map(ft); got != ft {
			t.Errorf("Map(%v) = %v, want identity", ft, got)
		}
		if c.Phase(ft) != PhaseDraw {
			t.Errorf("Phase(%v) = %v, want draw", ft, c.Phase(ft))
		}
	}
	if c.Boundaries() != nil {
		t.Error("Forward cycle has no phase boundaries")
	}
}

func TestEraseCycle(t *testing.T) {
	c := New(2.8, true)

	if !approx(c.Total(), 6.9) {
		t.Fatalf("Expected total 6.9, got %v", c.Total())
	}

	tests := []struct {
		frameTime float64
		want      float64
		phase     Phase
	}{
		{0, 0, PhaseDraw},
		{1.5, 1.5, PhaseDraw},
		{2.8, 2.8, PhaseHold},
		{3.2, 2.8, PhaseHold},
		{3.7, 2.7, PhaseErase},
		{4.5, 1.9, PhaseErase},
		{6.3, 0.1, PhaseErase},
		{6.5, 0, PhaseBlank},
		{6.9 - 1e-6, 0, PhaseBlank},
	}

	for _, tt := range tests {
		got := c.Map(tt.frameTime)
		if !approx(got, tt.want) {
			t.Errorf("Map(%v) = %v, want %v", tt.frameTime, got, tt.want)
		}
		if p := c.Phase(tt.frameTime); p != tt.phase {
			t.Errorf("Phase(%v) = %v, want %v", tt.frameTime, p, tt.phase)
		}
	}

	// Mid-hold freezes at the fully drawn state.
	if got := c.Map(c.Base + HoldDuration/2); got != c.Base {
		t.Errorf("mid-hold Map = %v, want %v", got, c.Base)
	}
}

func TestEraseNeverNegative(t *testing.T) {
	c := New(1, true)
	for ft := 0.0; ft < c.Total(); ft += 0.01 {
		if v := c.Map(ft); v < 0 || v > c.Base {
			t.Fatalf("Map(%v) = %v out of [0, %v]", ft, v, c.Base)
		}
	}
}

func TestEmptyCycle(t *testing.T) {
	c := New(0, true)
	if !approx(c.Total(), HoldDuration+BlankDuration) {
		t.Errorf("Expected only pauses, got %v", c.Total())
	}
	if c.Map(0.3) != 0 {
		t.Errorf("Expected zero sample time, got %v", c.Map(0.3))
	}

	if New(-1, false).Total() != 0 {
		t.Error("Negative base should clamp to zero")
	}
}

func TestFrameCount(t *testing.T) {
	tests := []struct {
		total float64
		fps   int
		want  int
	}{
		{2.8, 30, 84},
		{6.9, 30, 207},
		{1.01, 10, 11},
		{0.5, 60, 30},
		{0, 30, 0},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := FrameCount(tt.total, tt.fps); got != tt.want {
			t.Errorf("FrameCount(%v, %d) = %d, want %d", tt.total, tt.fps, got, tt.want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{PhaseDraw: "draw", PhaseHold: "hold", PhaseErase: "erase", PhaseBlank: "blank", Phase(9): "Phase(9)"} {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}
