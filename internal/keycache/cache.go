// Package keycache maps keysyms to host keycodes, rebinding unused keycodes
// on demand for symbols the active keyboard layout lacks.
//
// A Cache is owned by a single goroutine and is not safe for concurrent use.
package keycache

import (
	"errors"
	"fmt"

	"github.com/soar/padchord/internal/keysym"
	"github.com/soar/padchord/internal/log"
)

var (
	// ErrMalformedReply reports a keyboard or modifier mapping the cache
	// cannot interpret.
	ErrMalformedReply = errors.New("keycache: malformed mapping reply")
	// ErrNoFreeSlot reports that the host has no unused keycode to rebind.
	ErrNoFreeSlot = errors.New("keycache: no free keycode")
)

// Modifier mask bits, in X11 modifier map order.
const (
	ShiftMask uint16 = 1 << 0
	LockMask  uint16 = 1 << 1
	Mod5Mask  uint16 = 1 << 7
)

// numModifiers is the number of rows in a modifier map.
const numModifiers = 8

// KeyboardTable is a host keyboard mapping: Count keycode rows starting at
// MinKeycode, each PerKeycode keysyms wide.
type KeyboardTable struct {
	MinKeycode uint8
	Count      int
	PerKeycode int
	Keysyms    []keysym.Keysym
}

// ModifierTable lists PerModifier keycodes for each of the eight modifiers.
// Zero entries are unused.
type ModifierTable struct {
	PerModifier int
	Keycodes    []uint8
}

// Host is the keyboard mapping protocol a Cache drives.
type Host interface {
	KeyboardMapping() (KeyboardTable, error)
	ModifierMapping() (ModifierTable, error)
	// Rebind replaces the row of code with sym and waits for the host to
	// acknowledge it.
	Rebind(code uint8, sym keysym.Keysym) error
	FakeKey(code uint8, pressed bool) error
}

// Mapping says which keycode and modifier set produce a keysym.
type Mapping struct {
	Keycode   uint8
	Modifiers uint16
	Keysym    keysym.Keysym
}

type Cache struct {
	host Host
	keys map[keysym.Keysym]Mapping
	// free holds rebindable keycodes, oldest binding first.
	free []uint8
	// bound records the keysym each free keycode currently carries.
	bound map[uint8]keysym.Keysym
	// modifiers holds one keycode per modifier bit, zero when none.
	modifiers [numModifiers]uint8
	// held records the keycode each Hold press went down on.
	held map[keysym.Keysym]uint8
}

// New reads the host mappings and builds a cache from them.
func New(host Host) (*Cache, error) {
	kt, err := host.KeyboardMapping()
	if err != nil {
		return nil, fmt.Errorf("keyboard mapping: %w", err)
	}
	mt, err := host.ModifierMapping()
	if err != nil {
		return nil, fmt.Errorf("modifier mapping: %w", err)
	}

	c := &Cache{
		host:  host,
		keys:  make(map[keysym.Keysym]Mapping),
		bound: make(map[uint8]keysym.Keysym),
		held:  make(map[keysym.Keysym]uint8),
	}
	if err := c.loadKeyboard(kt); err != nil {
		return nil, err
	}
	if err := c.loadModifiers(mt); err != nil {
		return nil, err
	}

	log.Debug("keycode cache ready", "keysyms", len(c.keys), "free", len(c.free))
	return c, nil
}

func (c *Cache) loadKeyboard(kt KeyboardTable) error {
	if kt.PerKeycode <= 0 {
		return fmt.Errorf("%w: %d keysyms per keycode", ErrMalformedReply, kt.PerKeycode)
	}
	if kt.Count < 0 || len(kt.Keysyms) != kt.Count*kt.PerKeycode {
		return fmt.Errorf("%w: %d keysyms for %d keycodes of width %d",
			ErrMalformedReply, len(kt.Keysyms), kt.Count, kt.PerKeycode)
	}
	if int(kt.MinKeycode)+kt.Count-1 > 255 {
		return fmt.Errorf("%w: keycode range %d+%d", ErrMalformedReply, kt.MinKeycode, kt.Count)
	}

	for i := 0; i < kt.Count; i++ {
		code := kt.MinKeycode + uint8(i)
		row := kt.Keysyms[i*kt.PerKeycode : (i+1)*kt.PerKeycode]

		if isEmptyRow(row) {
			c.free = append(c.free, code)
			continue
		}
		for _, col := range []int{0, 1, 4, 5} {
			if col >= len(row) || row[col] == keysym.NoSymbol {
				continue
			}
			var mods uint16
			if col%2 == 1 {
				mods |= ShiftMask
			}
			if col >= 4 {
				mods |= Mod5Mask
			}
			sym := row[col]
			if old, ok := c.keys[sym]; ok && old.Modifiers <= mods {
				continue
			}
			c.keys[sym] = Mapping{Keycode: code, Modifiers: mods, Keysym: sym}
		}
	}
	return nil
}

func isEmptyRow(row []keysym.Keysym) bool {
	for _, s := range row {
		if s != keysym.NoSymbol {
			return false
		}
	}
	return true
}

func (c *Cache) loadModifiers(mt ModifierTable) error {
	if len(mt.Keycodes) == 0 {
		return fmt.Errorf("%w: empty modifier map", ErrMalformedReply)
	}
	if len(mt.Keycodes)%numModifiers != 0 {
		return fmt.Errorf("%w: %d modifier keycodes", ErrMalformedReply, len(mt.Keycodes))
	}
	per := len(mt.Keycodes) / numModifiers
	if mt.PerModifier != 0 && mt.PerModifier != per {
		return fmt.Errorf("%w: %d keycodes per modifier, want %d", ErrMalformedReply, mt.PerModifier, per)
	}
	for bit := 0; bit < numModifiers; bit++ {
		for _, code := range mt.Keycodes[bit*per : (bit+1)*per] {
			if code != 0 {
				c.modifiers[bit] = code
				break
			}
		}
	}
	return nil
}

// Lookup returns the current mapping of sym without touching the host.
func (c *Cache) Lookup(sym keysym.Keysym) (Mapping, bool) {
	m, ok := c.keys[sym]
	return m, ok
}

// Resolve returns a mapping for sym. On a miss it rebinds the free keycode
// whose binding is oldest, dropping whatever that keycode produced before.
func (c *Cache) Resolve(sym keysym.Keysym) (Mapping, error) {
	if m, ok := c.keys[sym]; ok {
		return m, nil
	}
	if len(c.free) == 0 {
		return Mapping{}, ErrNoFreeSlot
	}

	code := c.free[0]
	c.free = append(c.free[1:], code)

	if stale, ok := c.bound[code]; ok {
		delete(c.keys, stale)
		delete(c.bound, code)
	}
	if err := c.host.Rebind(code, sym); err != nil {
		return Mapping{}, fmt.Errorf("rebind keycode %d to %s: %w", code, sym, err)
	}

	m := Mapping{Keycode: code, Keysym: sym}
	c.keys[sym] = m
	c.bound[code] = sym
	log.Debug("rebound keycode", "keycode", code, "keysym", sym.String())
	return m, nil
}

// Emit types sym once: it presses the required modifiers, taps the keycode
// and releases the modifiers in reverse order. Releases are ignored since a
// press already produced the full tap.
func (c *Cache) Emit(sym keysym.Keysym, pressed bool) error {
	if !pressed {
		return nil
	}
	m, err := c.Resolve(sym)
	if err != nil {
		return err
	}

	for bit := 0; bit < numModifiers; bit++ {
		if code := c.modifierKey(m.Modifiers, bit); code != 0 {
			if err := c.host.FakeKey(code, true); err != nil {
				return err
			}
		}
	}
	if err := c.host.FakeKey(m.Keycode, true); err != nil {
		return err
	}
	if err := c.host.FakeKey(m.Keycode, false); err != nil {
		return err
	}
	for bit := numModifiers - 1; bit >= 0; bit-- {
		if code := c.modifierKey(m.Modifiers, bit); code != 0 {
			if err := c.host.FakeKey(code, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// Hold presses or releases the keycode of sym without modifiers. A release
// goes to the keycode the press used, even if sym was rebound since.
func (c *Cache) Hold(sym keysym.Keysym, pressed bool) error {
	if !pressed {
		if code, ok := c.held[sym]; ok {
			delete(c.held, sym)
			return c.host.FakeKey(code, false)
		}
	}
	m, err := c.Resolve(sym)
	if err != nil {
		return err
	}
	if err := c.host.FakeKey(m.Keycode, pressed); err != nil {
		return err
	}
	if pressed {
		c.held[sym] = m.Keycode
	}
	return nil
}

func (c *Cache) modifierKey(mods uint16, bit int) uint8 {
	if mods&(1<<bit) == 0 {
		return 0
	}
	return c.modifiers[bit]
}

// Free returns the rebindable keycodes, oldest binding first.
func (c *Cache) Free() []uint8 {
	return append([]uint8(nil), c.free...)
}

// Len returns the number of keysyms the cache can currently produce.
func (c *Cache) Len() int {
	return len(c.keys)
}
