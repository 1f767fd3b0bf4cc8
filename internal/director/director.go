package director

import (
	"math"
	"sort"

	"github.com/ivlev/sigdraw/internal/source"
)

// Empirical tuning values. They carry no physical meaning and can be
// adjusted together with the preview.
const (
	// FillOverlapRatio is how far into a stroke's reveal its fill starts.
	FillOverlapRatio = 0.6
	// FillFadeDuration is the fill opacity ramp, in seconds.
	FillFadeDuration = 0.8
	// MinSpeed floors the speed factor so slots stay finite.
	MinSpeed = 0.01
)

// TimingEntry is the reveal schedule of one path record, in seconds.
type TimingEntry struct {
	Duration    float64 `yaml:"duration"`
	StrokeDelay float64 `yaml:"strokeDelay"`
	FillDelay   float64 `yaml:"fillDelay"`
}

// StrokeEnd is the instant the record is fully revealed.
func (e TimingEntry) StrokeEnd() float64 {
	return e.StrokeDelay + e.Duration
}

// FillEnd is the instant the fill reaches full opacity.
func (e TimingEntry) FillEnd() float64 {
	return e.FillDelay + FillFadeDuration
}

// Timeline is the immutable result of allocation. Entries are parallel to
// the records passed to Allocate.
type Timeline struct {
	entries  []TimingEntry
	groups   int
	charSlot float64
}

// Allocate gives every character group one slot of 1/speed seconds and
// splits it across the group's records in proportion to their length.
// Groups play in ascending character order.
func Allocate(paths []source.PathRecord, speed float64) Timeline {
	slot := CharDuration(speed)

	groups := make(map[int][]int)
	for i, p := range paths {
		groups[p.CharIndex] = append(groups[p.CharIndex], i)
	}
	order := make([]int, 0, len(groups))
	for idx := range groups {
		order = append(order, idx)
	}
	sort.Ints(order)

	entries := make([]TimingEntry, len(paths))
	start := 0.0
	for _, idx := range order {
		start = allocateGroup(entries, paths, groups[idx], start, slot)
	}

	return Timeline{entries: entries, groups: len(order), charSlot: slot}
}

// allocateGroup schedules one character starting at start and returns the
// start of the next character.
func allocateGroup(entries []TimingEntry, paths []source.PathRecord, members []int, start, slot float64) float64 {
	total := 0.0
	for _, i := range members {
		total += paths[i].Length
	}

	local := 0.0
	for _, i := range members {
		var d float64
		if total <= 0 {
			d = slot / float64(len(members))
		} else {
			d = paths[i].Length / total * slot
		}
		delay := start + local
		entries[i] = TimingEntry{
			Duration:    d,
			StrokeDelay: delay,
			FillDelay:   delay + d*FillOverlapRatio,
		}
		local += d
	}
	return start + slot
}

// CharDuration is the slot every character receives at the given speed.
func CharDuration(speed float64) float64 {
	if math.IsNaN(speed) || math.IsInf(speed, 0) || speed < MinSpeed {
		speed = MinSpeed
	}
	return 1 / speed
}

// AnimationDuration is the forward pass length without allocating entries.
func AnimationDuration(paths []source.PathRecord, speed float64) float64 {
	if len(paths) == 0 {
		return 0
	}
	seen := make(map[int]struct{})
	for _, p := range paths {
		seen[p.CharIndex] = struct{}{}
	}
	return float64(len(seen))*CharDuration(speed) + FillFadeDuration
}

// Len is the number of scheduled records.
func (t Timeline) Len() int { return len(t.entries) }

// Entry returns the schedule of record i.
func (t Timeline) Entry(i int) TimingEntry { return t.entries[i] }

// Entries returns a copy of all schedules in record order.
func (t Timeline) Entries() []TimingEntry {
	out := make([]TimingEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Groups is the number of distinct characters.
func (t Timeline) Groups() int { return t.groups }

// CharSlot is the per-character slot in seconds.
func (t Timeline) CharSlot() float64 { return t.charSlot }

// Duration is the forward pass length: every slot plus the trailing fill fade.
func (t Timeline) Duration() float64 {
	if t.groups == 0 {
		return 0
	}
	return float64(t.groups)*t.charSlot + FillFadeDuration
}
