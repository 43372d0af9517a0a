// Package engine runs the sampling loop: it polls the controller, classifies
// the left stick, detects input edges and queues the bound actions for the
// injection goroutine.
package engine

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/soar/padchord/internal/action"
	"github.com/soar/padchord/internal/dispatch"
	"github.com/soar/padchord/internal/gamepad"
	"github.com/soar/padchord/internal/haptic"
	"github.com/soar/padchord/internal/log"
	"github.com/soar/padchord/internal/transition"
	"github.com/soar/padchord/internal/zone"
)

// Signaler receives haptic requests without blocking.
type Signaler interface {
	Signal(haptic.Intensity) bool
}

// PointerOptions control right stick pointer motion.
type PointerOptions struct {
	Enabled  bool
	Speed    float64
	DeadZone float64
}

type Options struct {
	Tick       time.Duration
	Classifier zone.Classifier
	Pointer    PointerOptions
	// Haptic and Snapshots are optional.
	Haptic    Signaler
	Snapshots chan<- Snapshot
}

// Snapshot is published whenever the controller state changes.
type Snapshot struct {
	Seq    uint64
	State  gamepad.DeviceState
	Zone   zone.Zone
	Events dispatch.Batch
}

type Engine struct {
	opts   Options
	tables *action.Tables
	out    chan<- dispatch.Batch

	queue  dispatch.Queue
	frame  transition.Frame
	primed bool
	seq    uint64

	carryX, carryY float64
}

// New returns an engine that reads bindings from tables and sends batches on
// out. The engine never closes out.
func New(tables *action.Tables, out chan<- dispatch.Batch, opts Options) *Engine {
	if opts.Tick < time.Millisecond {
		opts.Tick = time.Millisecond
	}
	if opts.Classifier == (zone.Classifier{}) {
		opts.Classifier = zone.Default
	}
	return &Engine{
		opts:   opts,
		tables: tables,
		out:    out,
		frame:  transition.Frame{Zones: transition.Transition[zone.Zone]{Prev: zone.None, Curr: zone.None}},
	}
}

// Run opens src and samples it until the start button is pressed, ctx is
// done or the source fails. It locks the calling goroutine to its OS thread
// for the lifetime of the source.
func (e *Engine) Run(ctx context.Context, src gamepad.Source) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := src.Open(); err != nil {
		return err
	}
	defer src.Close()
	log.Info("controller connected", "name", src.Name(), "tick", e.opts.Tick)

	for {
		start := time.Now()
		if ctx.Err() != nil {
			return nil
		}

		state, err := src.Poll()
		if err != nil {
			return fmt.Errorf("poll %s: %w", src.Name(), err)
		}
		if e.Step(state) {
			log.Info("start button pressed, stopping")
			return nil
		}

		if rest := e.opts.Tick - time.Since(start); rest > 0 {
			time.Sleep(rest)
		}
	}
}

// Step processes one sampled state and reports whether the loop should stop.
func (e *Engine) Step(state gamepad.DeviceState) (stop bool) {
	if state.Start {
		return true
	}
	if !e.primed {
		z := e.opts.Classifier.Classify(state.Left.X, state.Left.Y)
		e.frame.States = transition.Transition[gamepad.DeviceState]{Prev: state, Curr: state}
		e.frame.Zones = transition.Transition[zone.Zone]{Prev: z, Curr: z}
		e.primed = true
		return false
	}

	changed := state != e.frame.States.Curr
	e.frame.States.Push(state)

	pressed := false
	if changed {
		e.frame.Zones.Push(e.opts.Classifier.Classify(state.Left.X, state.Left.Y))
		pressed = e.detect()
	}
	e.movePointer(state.Right)

	if pressed && e.opts.Haptic != nil {
		e.opts.Haptic.Signal(haptic.Big)
	}

	batch, _ := e.queue.Flush(e.out)
	if changed {
		e.publish(state, batch)
	}
	return false
}

// detect queues every edge of the current frame and reports whether a dpad
// or face action was pressed.
func (e *Engine) detect() bool {
	f := e.frame
	t := e.tables
	acted := false
	push := func(a action.Action, pressed bool) bool {
		if a.IsNone() {
			return false
		}
		e.queue.Push(a, pressed)
		return pressed
	}

	for _, b := range []struct {
		p gamepad.Predicate
		a action.Action
	}{
		{gamepad.LeftTrigger, t.Shift},
		{gamepad.LeftTrigger2, t.Control},
		{gamepad.RightTrigger2, t.Alt},
		{gamepad.LeftThumb, t.LeftClick},
		{gamepad.RightThumb, t.RightClick},
	} {
		if pressed, ok := f.Change(b.p); ok {
			push(b.a, pressed)
		}
	}

	dpad := [4]gamepad.Predicate{gamepad.DpadUp, gamepad.DpadRight, gamepad.DpadDown, gamepad.DpadLeft}
	face := [4]gamepad.Predicate{gamepad.North, gamepad.East, gamepad.South, gamepad.West}

	for _, secondary := range []bool{false, true} {
		layer := action.LayerOf(secondary)
		for slot, p := range dpad {
			if pressed, ok := f.LayerChange(p, secondary); ok {
				acted = push(t.Dpad[layer].Get(action.Slot(slot)), pressed) || acted
			}
		}
		for _, z := range zone.All {
			set := t.FaceSet(layer, z)
			for slot, p := range face {
				if pressed, ok := f.ZoneChange(p, z, secondary); ok {
					acted = push(set.Get(action.Slot(slot)), pressed) || acted
				}
			}
		}
	}
	return acted
}

// movePointer queues relative motion for a deflected right stick. Fractional
// pixels carry over to the next tick.
func (e *Engine) movePointer(v gamepad.Vector) {
	if !e.opts.Pointer.Enabled {
		return
	}
	if math.Hypot(v.X, v.Y) <= e.opts.Pointer.DeadZone {
		e.carryX, e.carryY = 0, 0
		return
	}

	fx := e.carryX + v.X*e.opts.Pointer.Speed
	fy := e.carryY - v.Y*e.opts.Pointer.Speed
	dx, dy := math.Trunc(fx), math.Trunc(fy)
	e.carryX, e.carryY = fx-dx, fy-dy
	if dx != 0 || dy != 0 {
		e.queue.Push(action.Motion(int32(dx), int32(dy)), true)
	}
}

func (e *Engine) publish(state gamepad.DeviceState, batch dispatch.Batch) {
	if e.opts.Snapshots == nil {
		return
	}
	e.seq++
	snap := Snapshot{Seq: e.seq, State: state, Zone: e.frame.Zones.Curr, Events: batch}
	select {
	case e.opts.Snapshots <- snap:
	default:
		log.Debug("monitor channel full, dropping snapshot", "seq", e.seq)
	}
}
