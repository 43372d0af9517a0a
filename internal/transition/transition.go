// Package transition detects rising and falling edges of logical inputs
// between two consecutive device snapshots.
package transition

import (
	"github.com/soar/padchord/internal/gamepad"
	"github.com/soar/padchord/internal/zone"
)

// Transition holds the previous and current value of something sampled once
// per tick.
type Transition[T any] struct {
	Prev T
	Curr T
}

// Push makes next the current value; the old current becomes Prev.
func (t *Transition[T]) Push(next T) {
	t.Prev = t.Curr
	t.Curr = next
}

// Edge classifies a before/now pair. ok is false when nothing changed;
// otherwise pressed tells a rising edge from a falling one.
func Edge(before, now bool) (pressed, ok bool) {
	switch {
	case !before && now:
		return true, true
	case before && !now:
		return false, true
	default:
		return false, false
	}
}

// Frame is the view of two consecutive ticks that the edge primitives work on.
type Frame struct {
	States Transition[gamepad.DeviceState]
	Zones  Transition[zone.Zone]
	// Selector reports whether the secondary layer is held. Nil means the
	// right shoulder button.
	Selector gamepad.Predicate
}

// NewFrame builds a frame from explicit previous and current values.
func NewFrame(prev, curr gamepad.DeviceState, prevZone, currZone zone.Zone) Frame {
	return Frame{
		States: Transition[gamepad.DeviceState]{Prev: prev, Curr: curr},
		Zones:  Transition[zone.Zone]{Prev: prevZone, Curr: currZone},
	}
}

func (f Frame) secondary(s gamepad.DeviceState) bool {
	if f.Selector == nil {
		return s.RightTrigger
	}
	return f.Selector(s)
}

// Change reports an edge of p regardless of layer.
func (f Frame) Change(p gamepad.Predicate) (pressed, ok bool) {
	return Edge(p(f.States.Prev), p(f.States.Curr))
}

// LayerChange reports an edge of p that only counts while the layer selector
// equals secondary. Switching layers while p stays held releases the input in
// the old layer and presses it in the new one.
func (f Frame) LayerChange(p gamepad.Predicate, secondary bool) (pressed, ok bool) {
	before := p(f.States.Prev) && f.secondary(f.States.Prev) == secondary
	now := p(f.States.Curr) && f.secondary(f.States.Curr) == secondary
	return Edge(before, now)
}

// ZoneChange is LayerChange further gated on the stick being in z.
func (f Frame) ZoneChange(p gamepad.Predicate, z zone.Zone, secondary bool) (pressed, ok bool) {
	before := p(f.States.Prev) && f.Zones.Prev == z && f.secondary(f.States.Prev) == secondary
	now := p(f.States.Curr) && f.Zones.Curr == z && f.secondary(f.States.Curr) == secondary
	return Edge(before, now)
}
