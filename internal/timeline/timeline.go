// Package timeline maps wall-clock time onto the animation's sample time.
package timeline

import (
	"fmt"
	"math"
)

// Erase cycle pauses, in seconds. Tuned by eye, not derived.
const (
	HoldDuration  = 0.8
	BlankDuration = 0.5
)

// Phase identifies where in a cycle a wall-clock instant falls.
type Phase int

const (
	PhaseDraw Phase = iota
	PhaseHold
	PhaseErase
	PhaseBlank
)

func (p Phase) String() string {
	switch p {
	case PhaseDraw:
		return "draw"
	case PhaseHold:
		return "hold"
	case PhaseErase:
		return "erase"
	case PhaseBlank:
		return "blank"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Cycle is one logical loop of the animation. Repeating it is left to
// whoever plays it back.
type Cycle struct {
	Base  float64
	Erase bool
}

// New returns the cycle for a forward pass of base seconds.
func New(base float64, eraseOnComplete bool) Cycle {
	if base < 0 || math.IsNaN(base) {
		base = 0
	}
	return Cycle{Base: base, Erase: eraseOnComplete}
}

// Total is the length of one cycle.
func (c Cycle) Total() float64 {
	if !c.Erase {
		return c.Base
	}
	return 2*c.Base + HoldDuration + BlankDuration
}

// Phase reports the phase containing frameTime.
func (c Cycle) Phase(frameTime float64) Phase {
	if !c.Erase {
		return PhaseDraw
	}
	switch {
	case frameTime < c.Base:
		return PhaseDraw
	case frameTime < c.holdEnd():
		return PhaseHold
	case frameTime < c.eraseEnd():
		return PhaseErase
	default:
		return PhaseBlank
	}
}

// Map converts a wall-clock instant into the time to sample the animation at.
func (c Cycle) Map(frameTime float64) float64 {
	if !c.Erase {
		return frameTime
	}
	switch c.Phase(frameTime) {
	case PhaseDraw:
		return frameTime
	case PhaseHold:
		return c.Base
	case PhaseErase:
		return math.Max(0, c.Base-(frameTime-c.holdEnd()))
	default:
		return 0
	}
}

// Boundaries returns the phase start times within one cycle, in order:
// hold, erase, blank. Forward cycles have none.
func (c Cycle) Boundaries() []float64 {
	if !c.Erase {
		return nil
	}
	return []float64{c.Base, c.holdEnd(), c.eraseEnd()}
}

func (c Cycle) holdEnd() float64 {
	return c.Base + HoldDuration
}

func (c Cycle) eraseEnd() float64 {
	return c.holdEnd() + c.Base
}

// FrameCount is the number of frames needed to cover total seconds at fps.
// Products within a nanosecond of an integer are not rounded up.
func FrameCount(total float64, fps int) int {
	if total <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Ceil(total*float64(fps) - 1e-9))
}
