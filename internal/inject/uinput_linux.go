//go:build linux

package inject

import (
	"fmt"

	"github.com/bendahl/uinput"
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/soar/padchord/internal/keysym"
	"github.com/soar/padchord/internal/log"
)

// Uinput injects input through a kernel virtual keyboard and mouse. It works
// without a display server but only types what the US layout can produce.
type Uinput struct {
	kbd   uinput.Keyboard
	mouse uinput.Mouse
}

// OpenUinput creates the virtual devices on the uinput node at path.
func OpenUinput(path string) (Backend, error) {
	kbd, err := uinput.CreateKeyboard(path, []byte("padchord keyboard"))
	if err != nil {
		return nil, fmt.Errorf("uinput: keyboard: %w", err)
	}
	mouse, err := uinput.CreateMouse(path, []byte("padchord mouse"))
	if err != nil {
		kbd.Close()
		return nil, fmt.Errorf("uinput: mouse: %w", err)
	}
	log.Info("uinput backend ready", "path", path)
	return &Uinput{kbd: kbd, mouse: mouse}, nil
}

func (u *Uinput) Key(sym keysym.Keysym, pressed bool) error {
	code, ok := keyCode(sym)
	if !ok {
		return fmt.Errorf("%w: keysym %s", ErrUnsupported, sym)
	}
	if pressed {
		return u.kbd.KeyDown(code)
	}
	return u.kbd.KeyUp(code)
}

func (u *Uinput) Text(s string) error {
	for _, r := range s {
		k, ok := usKeys[r]
		if !ok {
			log.Debug("no US layout key, dropping character", "char", string(r))
			continue
		}
		if k.shift {
			if err := u.kbd.KeyDown(evdev.KEY_LEFTSHIFT); err != nil {
				return err
			}
		}
		err := u.kbd.KeyPress(k.code)
		if k.shift {
			if uerr := u.kbd.KeyUp(evdev.KEY_LEFTSHIFT); err == nil {
				err = uerr
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// MouseButton maps X11 button numbers: 1 left, 2 middle, 3 right, 4 and 5
// wheel up and down on press.
func (u *Uinput) MouseButton(n uint8, pressed bool) error {
	switch n {
	case 1:
		if pressed {
			return u.mouse.LeftPress()
		}
		return u.mouse.LeftRelease()
	case 2:
		if pressed {
			return u.mouse.MiddlePress()
		}
		return u.mouse.MiddleRelease()
	case 3:
		if pressed {
			return u.mouse.RightPress()
		}
		return u.mouse.RightRelease()
	case 4, 5:
		if !pressed {
			return nil
		}
		delta := int32(1)
		if n == 5 {
			delta = -1
		}
		return u.mouse.Wheel(false, delta)
	default:
		return fmt.Errorf("%w: mouse button %d", ErrUnsupported, n)
	}
}

func (u *Uinput) MouseMove(dx, dy int32, relative bool) error {
	if !relative {
		return fmt.Errorf("%w: absolute pointer motion", ErrUnsupported)
	}
	return u.mouse.Move(dx, dy)
}

func (u *Uinput) Close() error {
	kerr := u.kbd.Close()
	merr := u.mouse.Close()
	if kerr != nil {
		return kerr
	}
	return merr
}
