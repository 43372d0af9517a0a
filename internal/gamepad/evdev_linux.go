//go:build linux

package gamepad

import (
	"fmt"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/soar/padchord/internal/log"
)

// EvdevSource reads a controller straight from a Linux event node. A reader
// goroutine forwards raw events; Poll folds whatever arrived since the last
// call into the running snapshot.
type EvdevSource struct {
	Path       string
	AxisMax    float64
	TriggerMax float64

	dev    *evdev.InputDevice
	events chan evdev.InputEvent
	errc   chan error
	done   chan struct{}
	state  DeviceState
}

func NewEvdevSource(path string, axisMax, triggerMax float64) *EvdevSource {
	return &EvdevSource{Path: path, AxisMax: axisMax, TriggerMax: triggerMax}
}

func (e *EvdevSource) Open() error {
	if e.Path == "" {
		return ErrNoController
	}
	dev, err := evdev.Open(e.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNoController, e.Path, err)
	}
	e.dev = dev
	e.events = make(chan evdev.InputEvent, 256)
	e.errc = make(chan error, 1)
	e.done = make(chan struct{})
	log.Info("evdev device opened", "path", e.Path, "name", dev.Name)

	go e.readLoop(dev.Read, e.done)
	return nil
}

// readLoop forwards events until the device fails or Close is called.
func (e *EvdevSource) readLoop(read func() ([]evdev.InputEvent, error), done <-chan struct{}) {
	defer close(e.events)
	for {
		evs, err := read()
		if err != nil {
			e.errc <- err
			return
		}
		for _, ev := range evs {
			select {
			case e.events <- ev:
			case <-done:
				return
			}
		}
	}
}

func (e *EvdevSource) Name() string {
	if e.dev == nil {
		return e.Path
	}
	return e.dev.Name
}

func (e *EvdevSource) Poll() (DeviceState, error) {
	for {
		select {
		case ev, ok := <-e.events:
			if !ok {
				err := <-e.errc
				return DeviceState{}, fmt.Errorf("%w: %v", ErrDisconnected, err)
			}
			e.apply(ev.Type, ev.Code, ev.Value)
		default:
			return e.state, nil
		}
	}
}

// apply folds one raw event into the running state.
func (e *EvdevSource) apply(typ, code uint16, value int32) {
	s := &e.state
	switch typ {
	case evdev.EV_KEY:
		pressed := value != 0
		switch code {
		case evdev.BTN_A:
			s.South = pressed
		case evdev.BTN_B:
			s.East = pressed
		case evdev.BTN_X:
			s.North = pressed
		case evdev.BTN_Y:
			s.West = pressed
		case evdev.BTN_TL:
			s.LeftTrigger = pressed
		case evdev.BTN_TR:
			s.RightTrigger = pressed
		case evdev.BTN_TL2:
			s.LeftTrigger2 = pressed
		case evdev.BTN_TR2:
			s.RightTrigger2 = pressed
		case evdev.BTN_SELECT:
			s.Select = pressed
		case evdev.BTN_START:
			s.Start = pressed
		case evdev.BTN_MODE:
			s.Mode = pressed
		case evdev.BTN_THUMBL:
			s.LeftThumb = pressed
		case evdev.BTN_THUMBR:
			s.RightThumb = pressed
		}
	case evdev.EV_ABS:
		switch code {
		case evdev.ABS_X:
			s.Left.X = e.stick(value)
		case evdev.ABS_Y:
			s.Left.Y = -e.stick(value)
		case evdev.ABS_RX:
			s.Right.X = e.stick(value)
		case evdev.ABS_RY:
			s.Right.Y = -e.stick(value)
		case evdev.ABS_Z:
			SetAxis(s, "lt", e.trigger(value))
		case evdev.ABS_RZ:
			SetAxis(s, "rt", e.trigger(value))
		case evdev.ABS_HAT0X:
			s.DpadLeft = value < 0
			s.DpadRight = value > 0
		case evdev.ABS_HAT0Y:
			s.DpadUp = value < 0
			s.DpadDown = value > 0
		}
	}
}

func (e *EvdevSource) stick(value int32) float64 {
	v := float64(value) / e.AxisMax
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	return ApplyDeadzone(v, Deadzone)
}

func (e *EvdevSource) trigger(value int32) float64 {
	if e.TriggerMax <= 0 {
		return 0
	}
	v := float64(value) / e.TriggerMax
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

func (e *EvdevSource) Close() error {
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
	if e.dev == nil {
		return nil
	}
	err := e.dev.File.Close()
	e.dev = nil
	return err
}
