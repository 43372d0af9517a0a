package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/padchord/internal/action"
	"github.com/soar/padchord/internal/dispatch"
	"github.com/soar/padchord/internal/gamepad"
	"github.com/soar/padchord/internal/haptic"
	"github.com/soar/padchord/internal/keysym"
	"github.com/soar/padchord/internal/zone"
)

type fakeSignaler struct {
	signals []haptic.Intensity
}

func (f *fakeSignaler) Signal(i haptic.Intensity) bool {
	f.signals = append(f.signals, i)
	return true
}

type harness struct {
	engine *Engine
	out    chan dispatch.Batch
	snaps  chan Snapshot
	haptic *fakeSignaler
}

func newHarness(t *testing.T, pointer PointerOptions) *harness {
	t.Helper()
	h := &harness{
		out:    make(chan dispatch.Batch, 16),
		snaps:  make(chan Snapshot, 16),
		haptic: &fakeSignaler{},
	}
	h.engine = New(action.NewTables(), h.out, Options{
		Pointer:   pointer,
		Haptic:    h.haptic,
		Snapshots: h.snaps,
	})
	require.False(t, h.engine.Step(gamepad.DeviceState{}))
	return h
}

// step feeds s and returns the batch it produced, if any.
func (h *harness) step(t *testing.T, s gamepad.DeviceState) dispatch.Batch {
	t.Helper()
	require.False(t, h.engine.Step(s))
	select {
	case b := <-h.out:
		return b
	default:
		return nil
	}
}

var east = gamepad.Vector{X: 1, Y: 0}

func TestFaceButtonInOctant(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	aim := gamepad.DeviceState{Left: east}
	assert.Nil(t, h.step(t, aim), "moving the stick alone does nothing")

	press := aim
	press.North = true
	assert.Equal(t, dispatch.Batch{{Action: action.Unicode("i"), Pressed: true}}, h.step(t, press))
	assert.Equal(t, dispatch.Batch{{Action: action.Unicode("i"), Pressed: false}}, h.step(t, aim))
}

func TestSecondaryLayer(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	s := gamepad.DeviceState{Left: east, RightTrigger: true}
	h.step(t, s)
	s.West = true
	assert.Equal(t, dispatch.Batch{{Action: action.Unicode("="), Pressed: true}}, h.step(t, s))
}

func TestCenterZone(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	s := gamepad.DeviceState{Left: gamepad.Vector{X: 0.3, Y: 0.3}, East: true}
	assert.Equal(t, dispatch.Batch{{Action: action.Key(keysym.Space), Pressed: true}}, h.step(t, s))
}

func TestLeavingZoneReleasesBeforePress(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	s := gamepad.DeviceState{Left: east, South: true}
	assert.Equal(t, dispatch.Batch{{Action: action.Unicode("k"), Pressed: true}}, h.step(t, s))

	// Sliding to north with south held releases k and presses c.
	s.Left = gamepad.Vector{X: 0, Y: 1}
	assert.Equal(t, dispatch.Batch{
		{Action: action.Unicode("k"), Pressed: false},
		{Action: action.Unicode("c"), Pressed: true},
	}, h.step(t, s))
}

func TestGuardBandReleases(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	s := gamepad.DeviceState{Left: gamepad.Vector{X: 0, Y: 1}, North: true}
	assert.Equal(t, dispatch.Batch{{Action: action.Unicode("a"), Pressed: true}}, h.step(t, s))

	// 22.5 degrees sits on the boundary between N and NE.
	s.Left = gamepad.Vector{X: 0.38268343236, Y: 0.92387953251}
	assert.Equal(t, dispatch.Batch{{Action: action.Unicode("a"), Pressed: false}}, h.step(t, s))
}

func TestDpadIgnoresZone(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	s := gamepad.DeviceState{Left: east, DpadUp: true}
	assert.Equal(t, dispatch.Batch{{Action: action.Key(keysym.Up), Pressed: true}}, h.step(t, s))

	// Switching layer while held swaps the bound key.
	s.RightTrigger = true
	assert.Equal(t, dispatch.Batch{
		{Action: action.Key(keysym.Up), Pressed: false},
		{Action: action.Key(keysym.PageUp), Pressed: true},
	}, h.step(t, s))
}

func TestModifiersAndPointerButtons(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	s := gamepad.DeviceState{LeftTrigger: true, LeftTrigger2: true, RightTrigger2: true, LeftThumb: true}
	assert.Equal(t, dispatch.Batch{
		{Action: action.Key(keysym.ShiftL), Pressed: true},
		{Action: action.Key(keysym.ControlL), Pressed: true},
		{Action: action.Key(keysym.AltL), Pressed: true},
		{Action: action.Button(1), Pressed: true},
	}, h.step(t, s))

	s.LeftTrigger = false
	s.RightThumb = true
	assert.Equal(t, dispatch.Batch{
		{Action: action.Key(keysym.ShiftL), Pressed: false},
		{Action: action.Button(3), Pressed: true},
	}, h.step(t, s))
}

func TestUnchangedStateQueuesNothing(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	s := gamepad.DeviceState{Left: east, North: true}
	require.NotNil(t, h.step(t, s))
	assert.Nil(t, h.step(t, s))
	assert.Nil(t, h.step(t, s))
	assert.Len(t, h.snaps, 1)
}

func TestHapticOnPressOnly(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	s := gamepad.DeviceState{North: true}
	h.step(t, s)
	assert.Equal(t, []haptic.Intensity{haptic.Big}, h.haptic.signals)

	h.step(t, gamepad.DeviceState{})
	assert.Len(t, h.haptic.signals, 1)
}

func TestHapticIgnoresModifiersAndClicks(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	s := gamepad.DeviceState{LeftTrigger: true, LeftThumb: true}
	require.NotNil(t, h.step(t, s))
	assert.Empty(t, h.haptic.signals)

	s.DpadDown = true
	h.step(t, s)
	assert.Equal(t, []haptic.Intensity{haptic.Big}, h.haptic.signals)
}

func TestButtonHeldAtStartupStaysSilent(t *testing.T) {
	out := make(chan dispatch.Batch, 4)
	e := New(action.NewTables(), out, Options{})

	held := gamepad.DeviceState{South: true}
	require.False(t, e.Step(held))

	held.Right = gamepad.Vector{X: 0.5}
	require.False(t, e.Step(held))
	assert.Empty(t, out, "a steady button must not fire when another input changes")
	assert.Equal(t, zone.Center, e.frame.Zones.Prev)
}

func TestPointerMotionCarriesFraction(t *testing.T) {
	h := newHarness(t, PointerOptions{Enabled: true, Speed: 1.5, DeadZone: 0.2})

	s := gamepad.DeviceState{Right: gamepad.Vector{X: 1, Y: -1}}
	assert.Equal(t, dispatch.Batch{{Action: action.Motion(1, 1), Pressed: true}}, h.step(t, s))
	assert.Equal(t, dispatch.Batch{{Action: action.Motion(2, 2), Pressed: true}}, h.step(t, s))
	assert.Equal(t, dispatch.Batch{{Action: action.Motion(1, 1), Pressed: true}}, h.step(t, s))

	assert.Nil(t, h.step(t, gamepad.DeviceState{Right: gamepad.Vector{X: 0.1}}), "inside the dead zone")
}

func TestPointerDisabled(t *testing.T) {
	h := newHarness(t, PointerOptions{Enabled: false, Speed: 1.5})
	assert.Nil(t, h.step(t, gamepad.DeviceState{Right: gamepad.Vector{X: 1}}))
}

func TestSnapshotCarriesZoneAndEvents(t *testing.T) {
	h := newHarness(t, PointerOptions{})

	s := gamepad.DeviceState{Left: east, North: true}
	h.step(t, s)
	snap := <-h.snaps
	assert.Equal(t, uint64(1), snap.Seq)
	assert.Equal(t, zone.Octant(2), snap.Zone)
	assert.Equal(t, s, snap.State)
	assert.Equal(t, dispatch.Batch{{Action: action.Unicode("i"), Pressed: true}}, snap.Events)
}

func TestStartStops(t *testing.T) {
	h := newHarness(t, PointerOptions{})
	assert.True(t, h.engine.Step(gamepad.DeviceState{Start: true}))
}

func TestFullChannelDropsBatch(t *testing.T) {
	out := make(chan dispatch.Batch)
	e := New(action.NewTables(), out, Options{})
	e.Step(gamepad.DeviceState{})
	assert.NotPanics(t, func() {
		assert.False(t, e.Step(gamepad.DeviceState{North: true}))
	})
}

type fakeSource struct {
	states  []gamepad.DeviceState
	openErr error
	pollErr error
	closed  bool
}

func (f *fakeSource) Open() error  { return f.openErr }
func (f *fakeSource) Name() string { return "fake" }
func (f *fakeSource) Close() error { f.closed = true; return nil }

func (f *fakeSource) Poll() (gamepad.DeviceState, error) {
	if len(f.states) == 0 {
		if f.pollErr != nil {
			return gamepad.DeviceState{}, f.pollErr
		}
		return gamepad.DeviceState{}, nil
	}
	s := f.states[0]
	f.states = f.states[1:]
	return s, nil
}

func TestRunStopsOnStart(t *testing.T) {
	out := make(chan dispatch.Batch, 4)
	src := &fakeSource{states: []gamepad.DeviceState{
		{},
		{North: true},
		{},
		{Start: true},
	}}
	e := New(action.NewTables(), out, Options{})
	require.NoError(t, e.Run(context.Background(), src))
	assert.True(t, src.closed)
	assert.Len(t, out, 2)
}

func TestRunReturnsPollError(t *testing.T) {
	src := &fakeSource{pollErr: gamepad.ErrDisconnected}
	e := New(action.NewTables(), make(chan dispatch.Batch, 1), Options{})
	err := e.Run(context.Background(), src)
	assert.ErrorIs(t, err, gamepad.ErrDisconnected)
}

func TestRunReturnsOpenError(t *testing.T) {
	src := &fakeSource{openErr: gamepad.ErrNoController}
	e := New(action.NewTables(), make(chan dispatch.Batch, 1), Options{})
	assert.ErrorIs(t, e.Run(context.Background(), src), gamepad.ErrNoController)
	assert.False(t, src.closed)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := New(action.NewTables(), make(chan dispatch.Batch, 1), Options{Tick: time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, &fakeSource{}) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunDoesNotMaskUnrelatedErrors(t *testing.T) {
	boom := errors.New("boom")
	e := New(action.NewTables(), make(chan dispatch.Batch, 1), Options{})
	err := e.Run(context.Background(), &fakeSource{pollErr: boom})
	assert.ErrorIs(t, err, boom)
}
