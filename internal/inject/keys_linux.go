//go:build linux

package inject

import (
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/soar/padchord/internal/keysym"
)

var namedKeys = map[keysym.Keysym]int{
	keysym.Space:     evdev.KEY_SPACE,
	keysym.BackSpace: evdev.KEY_BACKSPACE,
	keysym.Tab:       evdev.KEY_TAB,
	keysym.Return:    evdev.KEY_ENTER,
	keysym.Escape:    evdev.KEY_ESC,
	keysym.Delete:    evdev.KEY_DELETE,
	keysym.Home:      evdev.KEY_HOME,
	keysym.Left:      evdev.KEY_LEFT,
	keysym.Up:        evdev.KEY_UP,
	keysym.Right:     evdev.KEY_RIGHT,
	keysym.Down:      evdev.KEY_DOWN,
	keysym.PageUp:    evdev.KEY_PAGEUP,
	keysym.PageDown:  evdev.KEY_PAGEDOWN,
	keysym.End:       evdev.KEY_END,
	keysym.Print:     evdev.KEY_SYSRQ,
	keysym.Insert:    evdev.KEY_INSERT,
	keysym.Menu:      evdev.KEY_COMPOSE,
	keysym.F1:        evdev.KEY_F1,
	keysym.F2:        evdev.KEY_F2,
	keysym.F3:        evdev.KEY_F3,
	keysym.F4:        evdev.KEY_F4,
	keysym.F5:        evdev.KEY_F5,
	keysym.F6:        evdev.KEY_F6,
	keysym.F7:        evdev.KEY_F7,
	keysym.F8:        evdev.KEY_F8,
	keysym.F9:        evdev.KEY_F9,
	keysym.F10:       evdev.KEY_F10,
	keysym.F11:       evdev.KEY_F11,
	keysym.F12:       evdev.KEY_F12,
	keysym.F19:       evdev.KEY_F19,
	keysym.ShiftL:    evdev.KEY_LEFTSHIFT,
	keysym.ShiftR:    evdev.KEY_RIGHTSHIFT,
	keysym.ControlL:  evdev.KEY_LEFTCTRL,
	keysym.ControlR:  evdev.KEY_RIGHTCTRL,
	keysym.AltL:      evdev.KEY_LEFTALT,
	keysym.AltR:      evdev.KEY_RIGHTALT,
	keysym.SuperL:    evdev.KEY_LEFTMETA,
	keysym.SuperR:    evdev.KEY_RIGHTMETA,
	keysym.XF86Copy:  evdev.KEY_COPY,
	keysym.XF86Cut:   evdev.KEY_CUT,
	keysym.XF86Paste: evdev.KEY_PASTE,
}

type usKey struct {
	code  int
	shift bool
}

// usKeys maps every printable ASCII character to its US layout key.
var usKeys = buildUSKeys()

func buildUSKeys() map[rune]usKey {
	const (
		plain   = "`1234567890-=qwertyuiop[]\\asdfghjkl;'zxcvbnm,./"
		shifted = "~!@#$%^&*()_+QWERTYUIOP{}|ASDFGHJKL:\"ZXCVBNM<>?"
	)
	codes := []int{
		evdev.KEY_GRAVE, evdev.KEY_1, evdev.KEY_2, evdev.KEY_3, evdev.KEY_4, evdev.KEY_5,
		evdev.KEY_6, evdev.KEY_7, evdev.KEY_8, evdev.KEY_9, evdev.KEY_0, evdev.KEY_MINUS,
		evdev.KEY_EQUAL,
		evdev.KEY_Q, evdev.KEY_W, evdev.KEY_E, evdev.KEY_R, evdev.KEY_T, evdev.KEY_Y,
		evdev.KEY_U, evdev.KEY_I, evdev.KEY_O, evdev.KEY_P, evdev.KEY_LEFTBRACE,
		evdev.KEY_RIGHTBRACE, evdev.KEY_BACKSLASH,
		evdev.KEY_A, evdev.KEY_S, evdev.KEY_D, evdev.KEY_F, evdev.KEY_G, evdev.KEY_H,
		evdev.KEY_J, evdev.KEY_K, evdev.KEY_L, evdev.KEY_SEMICOLON, evdev.KEY_APOSTROPHE,
		evdev.KEY_Z, evdev.KEY_X, evdev.KEY_C, evdev.KEY_V, evdev.KEY_B, evdev.KEY_N,
		evdev.KEY_M, evdev.KEY_COMMA, evdev.KEY_DOT, evdev.KEY_SLASH,
	}

	m := make(map[rune]usKey, 2*len(codes)+3)
	p, s := []rune(plain), []rune(shifted)
	for i, code := range codes {
		m[p[i]] = usKey{code: code}
		m[s[i]] = usKey{code: code, shift: true}
	}
	m[' '] = usKey{code: evdev.KEY_SPACE}
	m['\t'] = usKey{code: evdev.KEY_TAB}
	m['\n'] = usKey{code: evdev.KEY_ENTER}
	return m
}

// keyCode returns the evdev code for sym. Printable ASCII keysyms resolve
// through the US layout when they need no shift.
func keyCode(sym keysym.Keysym) (int, bool) {
	if code, ok := namedKeys[sym]; ok {
		return code, true
	}
	if sym < 0x80 {
		if k, ok := usKeys[rune(sym)]; ok && !k.shift {
			return k.code, true
		}
	}
	return 0, false
}
