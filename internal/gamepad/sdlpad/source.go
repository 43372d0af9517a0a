// Package sdlpad reads controllers through SDL3. It is kept apart from
// gamepad because loading the sdl package requires libSDL3 at init time.
package sdlpad

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/soar/padchord/internal/gamepad"
	"github.com/soar/padchord/internal/log"
)

const (
	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

// Source reads the first connected joystick through the SDL3 Joystick API.
// Open, Poll and Close must run on one OS-locked goroutine.
type Source struct {
	joystick *sdl.Joystick
	mapping  *gamepad.DeviceMapping
	name     string
	id       sdl.JoystickID
	lost     bool
	// rumbling guards against Rumble racing Close.
	rumbling atomic.Pointer[sdl.Joystick]
}

// NewSource returns an unopened source.
func NewSource() *Source {
	return &Source{}
}

// Open initializes SDL and opens the first joystick it can.
func (r *Source) Open() error {
	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("sdlpad: SDL init failed: %s", sdl.GetError())
	}
	log.Info("SDL3 joystick subsystem initialized")

	for _, id := range sdl.GetJoysticks() {
		if r.openJoystick(id) {
			return nil
		}
	}
	sdl.Quit()
	return gamepad.ErrNoController
}

func (r *Source) Name() string {
	return r.name
}

func (r *Source) openJoystick(instanceID sdl.JoystickID) bool {
	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		log.Warn("failed to open joystick", "id", instanceID, "err", sdl.GetError())
		return false
	}

	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	r.joystick = js
	r.id = sdl.GetJoystickID(js)
	r.name = sdl.GetJoystickName(js)
	r.mapping = gamepad.GetMapping(vendorID, productID)
	r.rumbling.Store(js)

	log.Info("joystick connected",
		"name", r.name,
		"vid", fmt.Sprintf("%04X", vendorID),
		"pid", fmt.Sprintf("%04X", productID),
		"mapping", r.mapping.Name,
		"axes", sdl.GetNumJoystickAxes(js),
		"buttons", sdl.GetNumJoystickButtons(js),
		"hats", sdl.GetNumJoystickHats(js))
	return true
}

func (r *Source) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickRemoved:
			if event.JDevice().Which == r.id {
				log.Warn("joystick disconnected", "name", r.name)
				r.lost = true
			}

		case sdl.EventJoystickButtonDown:
			be := event.JButton()
			log.Debug("button down", "index", be.Button, "joystick", be.Which)

		case sdl.EventJoystickButtonUp:
			be := event.JButton()
			log.Debug("button up", "index", be.Button, "joystick", be.Which)
		}
	}
}

// Poll pumps SDL events and returns the current state of the joystick.
func (r *Source) Poll() (gamepad.DeviceState, error) {
	if r.joystick == nil {
		return gamepad.DeviceState{}, gamepad.ErrNoController
	}
	r.processEvents()
	if r.lost || !sdl.JoystickConnected(r.joystick) {
		return gamepad.DeviceState{}, gamepad.ErrDisconnected
	}

	js := r.joystick
	var state gamepad.DeviceState

	for _, am := range r.mapping.Axes {
		raw := sdl.GetJoystickAxis(js, am.Index)
		if am.IsTrigger {
			val := gamepad.NormalizeTrigger(raw, am.RawMin, am.RawMax)
			gamepad.SetAxis(&state, am.Target, gamepad.ApplyDeadzone(val, gamepad.Deadzone))
			continue
		}
		val := gamepad.NormalizeAxis(raw)
		if am.Invert {
			val = -val
		}
		gamepad.SetAxis(&state, am.Target, gamepad.ApplyDeadzone(val, gamepad.Deadzone))
	}

	numButtons := sdl.GetNumJoystickButtons(js)
	for _, bm := range r.mapping.Buttons {
		if bm.Index >= numButtons {
			continue
		}
		gamepad.SetButton(&state, bm.Target, sdl.GetJoystickButton(js, bm.Index))
	}

	if r.mapping.HasHat && sdl.GetNumJoystickHats(js) > 0 {
		hat := sdl.GetJoystickHat(js, 0)
		state.DpadUp = hat&hatUp != 0
		state.DpadRight = hat&hatRight != 0
		state.DpadDown = hat&hatDown != 0
		state.DpadLeft = hat&hatLeft != 0
	}

	return state, nil
}

// Rumble drives both motors for d.
func (r *Source) Rumble(low, high uint16, d time.Duration) error {
	js := r.rumbling.Load()
	if js == nil {
		return gamepad.ErrDisconnected
	}
	ms := uint32(d.Milliseconds())
	if ms == 0 {
		ms = 1
	}
	if !sdl.RumbleJoystick(js, low, high, ms) {
		return fmt.Errorf("sdlpad: rumble: %s", sdl.GetError())
	}
	return nil
}

// Close releases the joystick and shuts SDL down.
func (r *Source) Close() error {
	r.rumbling.Store(nil)
	if r.joystick != nil {
		sdl.CloseJoystick(r.joystick)
		r.joystick = nil
	}
	sdl.Quit()
	return nil
}
