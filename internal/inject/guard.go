package inject

import (
	"github.com/soar/padchord/internal/keysym"
	"github.com/soar/padchord/internal/log"
)

// Guard releases modifier keys that may be left held when a goroutine ends
// abnormally.
//
// Owner, when set, is the backend that pressed the keys; it must only be set
// from the goroutine that owns it. Open, when set, opens a fresh backend so
// the release works even when the owner's handle is unusable. That only
// helps when key state is shared across handles, as with X11: a new uinput
// device cannot release keys held on another one.
type Guard struct {
	Owner Backend
	Open  func() (Backend, error)
}

// Release sends a key-up for every modifier and for space and Tab. Meant to
// be deferred.
func (g Guard) Release() {
	if g.Owner != nil {
		releaseModifiers(g.Owner)
	}
	if g.Open == nil {
		return
	}
	b, err := g.Open()
	if err != nil {
		log.Error("modifier guard: open backend", "err", err)
		return
	}
	defer b.Close()
	releaseModifiers(b)
}

func releaseModifiers(b Backend) {
	for _, k := range keysym.Modifiers {
		if err := b.Key(k, false); err != nil {
			log.Debug("modifier guard: release", "key", k.String(), "err", err)
		}
	}
}

// GuardFor returns the process-wide guard for the backend o describes. Only
// X11 reopens; the kernel releases a uinput device's keys when the process
// exits and the device is destroyed.
func GuardFor(o Options, open func() (Backend, error)) Guard {
	if o.Backend == BackendX11 {
		return Guard{Open: open}
	}
	return Guard{}
}
