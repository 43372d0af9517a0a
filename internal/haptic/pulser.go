// Package haptic drives short controller rumble pulses from a dedicated
// goroutine so the sampling loop never waits on the motors.
package haptic

import (
	"context"
	"time"

	"github.com/soar/padchord/internal/gamepad"
	"github.com/soar/padchord/internal/log"
)

// Intensity is a pulse strength.
type Intensity uint8

const (
	Big Intensity = iota
	Small
)

// Strength is the motor speed used for both motors.
func (i Intensity) Strength() uint16 {
	if i == Big {
		return 30000
	}
	return 15000
}

func (i Intensity) String() string {
	if i == Big {
		return "big"
	}
	return "small"
}

// Actuator drives the controller motors.
type Actuator = gamepad.Rumbler

// Pulser queues pulses for one Actuator.
type Pulser struct {
	pulses   chan Intensity
	duration time.Duration
}

// NewPulser returns a Pulser holding at most capacity pending pulses.
func NewPulser(capacity int, duration time.Duration) *Pulser {
	if capacity < 1 {
		capacity = 1
	}
	return &Pulser{
		pulses:   make(chan Intensity, capacity),
		duration: duration,
	}
}

// Signal requests a pulse without blocking. It reports false when the pulse
// was dropped because the queue is full.
func (p *Pulser) Signal(i Intensity) bool {
	select {
	case p.pulses <- i:
		return true
	default:
		log.Debug("haptic queue full, dropping pulse", "intensity", i.String())
		return false
	}
}

// Close stops accepting pulses. Run returns once the queue is drained.
func (p *Pulser) Close() {
	close(p.pulses)
}

// Run plays queued pulses on a until Close is called or ctx is done.
func (p *Pulser) Run(ctx context.Context, a Actuator) {
	for {
		select {
		case <-ctx.Done():
			return
		case i, ok := <-p.pulses:
			if !ok {
				return
			}
			s := i.Strength()
			if err := a.Rumble(s, s, p.duration); err != nil {
				log.Debug("rumble failed", "err", err)
				continue
			}
			// Wait out the pulse so consecutive pulses stay distinct.
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.duration):
			}
		}
	}
}
