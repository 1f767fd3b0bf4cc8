package renderer

import (
	"github.com/ivlev/sigdraw/internal/director"
	"github.com/ivlev/sigdraw/internal/source"
)

// PathState is the resolved look of one path at an instant.
type PathState struct {
	Offset  float64 // stroke-dashoffset
	Opacity float64 // fill-opacity
}

// Frame holds the state of every path, parallel to the input records.
type Frame struct {
	Time   float64
	States []PathState
}

// StrokeOffset returns the dash offset of rec at time t. Before the stroke
// starts the whole length is hidden; reversed records hide it on the
// opposite side of the dash.
func StrokeOffset(rec source.PathRecord, e director.TimingEntry, t float64) float64 {
	hidden := rec.Length
	if rec.Reversed {
		hidden = -hidden
	}
	switch {
	case t < e.StrokeDelay:
		return hidden
	case t >= e.StrokeEnd():
		return 0
	default:
		progress := (t - e.StrokeDelay) / e.Duration
		return hidden * (1 - progress)
	}
}

// FillOpacity returns the fill opacity for a path with timing e at time t.
func FillOpacity(e director.TimingEntry, t float64) float64 {
	switch {
	case t < e.FillDelay:
		return 0
	case t >= e.FillEnd():
		return 1
	default:
		return (t - e.FillDelay) / director.FillFadeDuration
	}
}

// Sample resolves every path at sample time t.
func Sample(paths []source.PathRecord, tl director.Timeline, t float64) Frame {
	f := Frame{Time: t, States: make([]PathState, len(paths))}
	for i, p := range paths {
		e := tl.Entry(i)
		f.States[i] = PathState{
			Offset:  StrokeOffset(p, e, t),
			Opacity: FillOpacity(e, t),
		}
	}
	return f
}

// FinalFrame is the fully drawn state of n paths.
func FinalFrame(n int) Frame {
	f := Frame{States: make([]PathState, n)}
	for i := range f.States {
		f.States[i] = PathState{Offset: 0, Opacity: 1}
	}
	return f
}
