// Package inject turns actions into synthetic keyboard and pointer input on
// the host.
package inject

import (
	"errors"
	"fmt"

	"github.com/soar/padchord/internal/action"
	"github.com/soar/padchord/internal/keysym"
)

// ErrUnsupported is returned for input a backend cannot synthesize.
var ErrUnsupported = errors.New("inject: unsupported")

// Backend is a host input injection handle. It is owned by one goroutine.
type Backend interface {
	Key(sym keysym.Keysym, pressed bool) error
	// Text types s. Characters the backend cannot produce are skipped.
	Text(s string) error
	MouseButton(n uint8, pressed bool) error
	MouseMove(dx, dy int32, relative bool) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendX11    = "x11"
	BackendUinput = "uinput"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Display    string
	UinputPath string
}

// Open opens the backend named by o.Backend.
func Open(o Options) (Backend, error) {
	switch o.Backend {
	case BackendX11:
		x, err := OpenX11(o.Display)
		if err != nil {
			return nil, err
		}
		return x, nil
	case BackendUinput:
		return OpenUinput(o.UinputPath)
	default:
		return nil, fmt.Errorf("%w: backend %q", ErrUnsupported, o.Backend)
	}
}

// Injector performs actions on a Backend.
type Injector struct {
	backend Backend
}

func NewInjector(b Backend) *Injector {
	return &Injector{backend: b}
}

// Perform executes one edge of a. Text and motion act on the press only;
// combos press their keys in order and release them in reverse.
func (i *Injector) Perform(a action.Action, pressed bool) error {
	b := i.backend
	switch a.Kind {
	case action.KindNone:
		return nil
	case action.KindUnicode:
		if !pressed {
			return nil
		}
		return b.Text(a.Text)
	case action.KindKey:
		return b.Key(a.Key, pressed)
	case action.KindButton:
		return b.MouseButton(a.Button, pressed)
	case action.KindCombo:
		if pressed {
			for _, k := range a.Keys {
				if err := b.Key(k, true); err != nil {
					return err
				}
			}
			return nil
		}
		for j := len(a.Keys) - 1; j >= 0; j-- {
			if err := b.Key(a.Keys[j], false); err != nil {
				return err
			}
		}
		return nil
	case action.KindMotion:
		if !pressed {
			return nil
		}
		return b.MouseMove(a.DX, a.DY, true)
	default:
		return fmt.Errorf("%w: action kind %s", ErrUnsupported, a.Kind)
	}
}
