//go:build !linux

package gamepad

import "errors"

// EvdevSource is only available on Linux.
type EvdevSource struct {
	Path string
}

func NewEvdevSource(path string, axisMax, triggerMax float64) *EvdevSource {
	return &EvdevSource{Path: path}
}

func (e *EvdevSource) Open() error {
	return errors.Join(ErrNoController, errors.New("gamepad: evdev requires linux"))
}

func (e *EvdevSource) Poll() (DeviceState, error) { return DeviceState{}, ErrNoController }
func (e *EvdevSource) Name() string                { return e.Path }
func (e *EvdevSource) Close() error                { return nil }
