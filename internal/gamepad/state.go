package gamepad

import "math"

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DeviceState is one sampled snapshot of every input the engine reads.
// It is a comparable value; a new one is produced on every tick.
type DeviceState struct {
	Left  Vector `json:"left"`
	Right Vector `json:"right"`

	// Face buttons by position, not by label.
	North bool `json:"north"`
	East  bool `json:"east"`
	South bool `json:"south"`
	West  bool `json:"west"`

	DpadUp    bool `json:"dpadUp"`
	DpadRight bool `json:"dpadRight"`
	DpadDown  bool `json:"dpadDown"`
	DpadLeft  bool `json:"dpadLeft"`

	// LeftTrigger/RightTrigger are the shoulder buttons, the *2 variants the
	// analog triggers past their digital threshold.
	LeftTrigger   bool `json:"leftTrigger"`
	LeftTrigger2  bool `json:"leftTrigger2"`
	RightTrigger  bool `json:"rightTrigger"`
	RightTrigger2 bool `json:"rightTrigger2"`

	LeftTriggerValue  float64 `json:"leftTriggerValue"`
	RightTriggerValue float64 `json:"rightTriggerValue"`

	Select     bool `json:"select"`
	Start      bool `json:"start"`
	Mode       bool `json:"mode"`
	LeftThumb  bool `json:"leftThumb"`
	RightThumb bool `json:"rightThumb"`
}

// Predicate selects one boolean input from a snapshot.
type Predicate func(DeviceState) bool

// Predicates for every digital input.
var (
	North         Predicate = func(s DeviceState) bool { return s.North }
	East          Predicate = func(s DeviceState) bool { return s.East }
	South         Predicate = func(s DeviceState) bool { return s.South }
	West          Predicate = func(s DeviceState) bool { return s.West }
	DpadUp        Predicate = func(s DeviceState) bool { return s.DpadUp }
	DpadRight     Predicate = func(s DeviceState) bool { return s.DpadRight }
	DpadDown      Predicate = func(s DeviceState) bool { return s.DpadDown }
	DpadLeft      Predicate = func(s DeviceState) bool { return s.DpadLeft }
	LeftTrigger   Predicate = func(s DeviceState) bool { return s.LeftTrigger }
	LeftTrigger2  Predicate = func(s DeviceState) bool { return s.LeftTrigger2 }
	RightTrigger  Predicate = func(s DeviceState) bool { return s.RightTrigger }
	RightTrigger2 Predicate = func(s DeviceState) bool { return s.RightTrigger2 }
	LeftThumb     Predicate = func(s DeviceState) bool { return s.LeftThumb }
	RightThumb    Predicate = func(s DeviceState) bool { return s.RightThumb }
	Start         Predicate = func(s DeviceState) bool { return s.Start }
)

// DeltaChanges carries only the groups that changed between two snapshots.
type DeltaChanges struct {
	Sticks   *SticksDelta   `json:"sticks,omitempty"`
	Buttons  *ButtonsDelta  `json:"buttons,omitempty"`
	Triggers *TriggersDelta `json:"triggers,omitempty"`
}

type SticksDelta struct {
	Left  Vector `json:"left"`
	Right Vector `json:"right"`
}

type ButtonsDelta struct {
	North      bool `json:"north"`
	East       bool `json:"east"`
	South      bool `json:"south"`
	West       bool `json:"west"`
	DpadUp     bool `json:"dpadUp"`
	DpadRight  bool `json:"dpadRight"`
	DpadDown   bool `json:"dpadDown"`
	DpadLeft   bool `json:"dpadLeft"`
	Select     bool `json:"select"`
	Start      bool `json:"start"`
	Mode       bool `json:"mode"`
	LeftThumb  bool `json:"leftThumb"`
	RightThumb bool `json:"rightThumb"`
}

type TriggersDelta struct {
	LeftTrigger       bool    `json:"leftTrigger"`
	LeftTrigger2      bool    `json:"leftTrigger2"`
	RightTrigger      bool    `json:"rightTrigger"`
	RightTrigger2     bool    `json:"rightTrigger2"`
	LeftTriggerValue  float64 `json:"leftTriggerValue"`
	RightTriggerValue float64 `json:"rightTriggerValue"`
}

func (d *DeltaChanges) IsEmpty() bool {
	return d.Sticks == nil && d.Buttons == nil && d.Triggers == nil
}

const analogThreshold = 0.01

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

func buttonsOf(s DeviceState) ButtonsDelta {
	return ButtonsDelta{
		North: s.North, East: s.East, South: s.South, West: s.West,
		DpadUp: s.DpadUp, DpadRight: s.DpadRight, DpadDown: s.DpadDown, DpadLeft: s.DpadLeft,
		Select: s.Select, Start: s.Start, Mode: s.Mode,
		LeftThumb: s.LeftThumb, RightThumb: s.RightThumb,
	}
}

func triggersOf(s DeviceState) TriggersDelta {
	return TriggersDelta{
		LeftTrigger: s.LeftTrigger, LeftTrigger2: s.LeftTrigger2,
		RightTrigger: s.RightTrigger, RightTrigger2: s.RightTrigger2,
		LeftTriggerValue: s.LeftTriggerValue, RightTriggerValue: s.RightTriggerValue,
	}
}

// ComputeDelta reports the groups of new_ that differ from old. Analog
// values only count as changed beyond analogThreshold.
func ComputeDelta(old, new_ DeviceState) *DeltaChanges {
	d := &DeltaChanges{}

	if !floatEqual(old.Left.X, new_.Left.X) ||
		!floatEqual(old.Left.Y, new_.Left.Y) ||
		!floatEqual(old.Right.X, new_.Right.X) ||
		!floatEqual(old.Right.Y, new_.Right.Y) {
		d.Sticks = &SticksDelta{Left: new_.Left, Right: new_.Right}
	}

	if ob, nb := buttonsOf(old), buttonsOf(new_); ob != nb {
		d.Buttons = &nb
	}

	ot, nt := triggersOf(old), triggersOf(new_)
	if ot.LeftTrigger != nt.LeftTrigger ||
		ot.LeftTrigger2 != nt.LeftTrigger2 ||
		ot.RightTrigger != nt.RightTrigger ||
		ot.RightTrigger2 != nt.RightTrigger2 ||
		!floatEqual(ot.LeftTriggerValue, nt.LeftTriggerValue) ||
		!floatEqual(ot.RightTriggerValue, nt.RightTriggerValue) {
		d.Triggers = &nt
	}

	return d
}
