package gamepad

import (
	"errors"
	"time"
)

var (
	// ErrNoController is returned by Open when no usable device exists.
	ErrNoController = errors.New("gamepad: no controller found")
	// ErrDisconnected is returned by Poll once the active device is gone.
	ErrDisconnected = errors.New("gamepad: controller disconnected")
)

// Source is a controller that can be polled on demand. Open, Poll and Close
// are called from the same goroutine.
type Source interface {
	Open() error
	Poll() (DeviceState, error)
	Name() string
	Close() error
}

// Rumbler is implemented by sources that can drive the controller motors.
// Rumble may be called from a goroutine other than the polling one.
type Rumbler interface {
	Rumble(low, high uint16, d time.Duration) error
}
