package inject

import (
	"errors"
	"fmt"
	"math"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"

	"github.com/soar/padchord/internal/keycache"
	"github.com/soar/padchord/internal/keysym"
	"github.com/soar/padchord/internal/log"
)

// X11 injects input through the XTEST extension. Symbols missing from the
// active layout are typed by rebinding spare keycodes.
type X11 struct {
	conn  *xgb.Conn
	root  xproto.Window
	cache *keycache.Cache
}

// OpenX11 connects to display, or to $DISPLAY when it is empty.
func OpenX11(display string) (*X11, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("x11: XTEST: %w", err)
	}

	x := &X11{
		conn: conn,
		root: xproto.Setup(conn).DefaultScreen(conn).Root,
	}
	cache, err := keycache.New(x11Host{x})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("x11: %w", err)
	}
	x.cache = cache

	log.Info("x11 backend ready", "display", display, "free_keycodes", len(cache.Free()))
	return x, nil
}

// Key presses or releases the keycode bound to sym, without modifiers.
func (x *X11) Key(sym keysym.Keysym, pressed bool) error {
	return x.cache.Hold(sym, pressed)
}

func (x *X11) Text(s string) error {
	for _, r := range s {
		err := x.cache.Emit(keysym.FromRune(r), true)
		if errors.Is(err, keycache.ErrNoFreeSlot) {
			log.Debug("no free keycode, dropping character", "char", string(r))
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (x *X11) MouseButton(n uint8, pressed bool) error {
	typ := byte(xproto.ButtonRelease)
	if pressed {
		typ = xproto.ButtonPress
	}
	return xtest.FakeInputChecked(x.conn, typ, n, 0, x.root, 0, 0, 0).Check()
}

func (x *X11) MouseMove(dx, dy int32, relative bool) error {
	var detail byte
	if relative {
		detail = 1
	}
	return xtest.FakeInputChecked(x.conn, xproto.MotionNotify, detail, 0, x.root,
		clampInt16(dx), clampInt16(dy), 0).Check()
}

func (x *X11) Close() error {
	x.conn.Close()
	return nil
}

func (x *X11) fakeKey(code uint8, pressed bool) error {
	typ := byte(xproto.KeyRelease)
	if pressed {
		typ = xproto.KeyPress
	}
	return xtest.FakeInputChecked(x.conn, typ, code, 0, x.root, 0, 0, 0).Check()
}

func clampInt16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// x11Host speaks the core keyboard mapping requests for the keycode cache.
type x11Host struct {
	x *X11
}

func (h x11Host) KeyboardMapping() (keycache.KeyboardTable, error) {
	setup := xproto.Setup(h.x.conn)
	count := int(setup.MaxKeycode) - int(setup.MinKeycode) + 1
	reply, err := xproto.GetKeyboardMapping(h.x.conn, setup.MinKeycode, byte(count)).Reply()
	if err != nil {
		return keycache.KeyboardTable{}, err
	}
	syms := make([]keysym.Keysym, len(reply.Keysyms))
	for i, s := range reply.Keysyms {
		syms[i] = keysym.Keysym(s)
	}
	return keycache.KeyboardTable{
		MinKeycode: uint8(setup.MinKeycode),
		Count:      count,
		PerKeycode: int(reply.KeysymsPerKeycode),
		Keysyms:    syms,
	}, nil
}

func (h x11Host) ModifierMapping() (keycache.ModifierTable, error) {
	reply, err := xproto.GetModifierMapping(h.x.conn).Reply()
	if err != nil {
		return keycache.ModifierTable{}, err
	}
	codes := make([]uint8, len(reply.Keycodes))
	for i, c := range reply.Keycodes {
		codes[i] = uint8(c)
	}
	return keycache.ModifierTable{
		PerModifier: int(reply.KeycodesPerModifier),
		Keycodes:    codes,
	}, nil
}

func (h x11Host) Rebind(code uint8, sym keysym.Keysym) error {
	return xproto.ChangeKeyboardMappingChecked(h.x.conn, 1, xproto.Keycode(code), 1,
		[]xproto.Keysym{xproto.Keysym(sym)}).Check()
}

func (h x11Host) FakeKey(code uint8, pressed bool) error {
	return h.x.fakeKey(code, pressed)
}
