package director

import "github.com/ivlev/sigdraw/internal/source"

// Scenario is the human-readable dump of a Timeline.
type Scenario struct {
	Version  string   `yaml:"version"`
	Speed    float64  `yaml:"speed"`
	CharSlot float64  `yaml:"charSlot"`
	Duration float64  `yaml:"duration"` // Forward pass in seconds
	Strokes  []Stroke `yaml:"strokes"`
}

// Stroke is one record's schedule together with the fields that placed it.
type Stroke struct {
	Index     int         `yaml:"index"`
	CharIndex int         `yaml:"charIndex"`
	Length    float64     `yaml:"length"`
	Reversed  bool        `yaml:"reversed,omitempty"`
	Timing    TimingEntry `yaml:"timing"`
}

// NewScenario describes the timeline allocated for paths.
func NewScenario(paths []source.PathRecord, speed float64, tl Timeline) *Scenario {
	strokes := make([]Stroke, tl.Len())
	for i := range strokes {
		strokes[i] = Stroke{
			Index:     i,
			CharIndex: paths[i].CharIndex,
			Length:    paths[i].Length,
			Reversed:  paths[i].Reversed,
			Timing:    tl.Entry(i),
		}
	}
	return &Scenario{
		Version:  "1.0",
		Speed:    speed,
		CharSlot: tl.CharSlot(),
		Duration: tl.Duration(),
		Strokes:  strokes,
	}
}
