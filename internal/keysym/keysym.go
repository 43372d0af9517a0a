// Package keysym defines the symbolic key identifiers used by the action
// tables. Values follow the X11 keysym encoding so the X11 backend can use
// them directly; other backends translate them.
package keysym

import "fmt"

// Keysym is an X11 keysym value.
type Keysym uint32

// NoSymbol marks an empty keysym slot.
const NoSymbol Keysym = 0

// unicodeOffset is added to a code point to form a Unicode keysym.
const unicodeOffset = 0x01000000

const (
	Space      Keysym = 0x0020
	BackSpace  Keysym = 0xff08
	Tab        Keysym = 0xff09
	Return     Keysym = 0xff0d
	Escape     Keysym = 0xff1b
	Delete     Keysym = 0xffff
	Home       Keysym = 0xff50
	Left       Keysym = 0xff51
	Up         Keysym = 0xff52
	Right      Keysym = 0xff53
	Down       Keysym = 0xff54
	PageUp     Keysym = 0xff55
	PageDown   Keysym = 0xff56
	End        Keysym = 0xff57
	Print      Keysym = 0xff61
	Insert     Keysym = 0xff63
	Menu       Keysym = 0xff67
	F1         Keysym = 0xffbe
	F2         Keysym = 0xffbf
	F3         Keysym = 0xffc0
	F4         Keysym = 0xffc1
	F5         Keysym = 0xffc2
	F6         Keysym = 0xffc3
	F7         Keysym = 0xffc4
	F8         Keysym = 0xffc5
	F9         Keysym = 0xffc6
	F10        Keysym = 0xffc7
	F11        Keysym = 0xffc8
	F12        Keysym = 0xffc9
	F19        Keysym = 0xffd0
	ShiftL     Keysym = 0xffe1
	ShiftR     Keysym = 0xffe2
	ControlL   Keysym = 0xffe3
	ControlR   Keysym = 0xffe4
	AltL       Keysym = 0xffe9
	AltR       Keysym = 0xffea
	SuperL     Keysym = 0xffeb
	SuperR     Keysym = 0xffec
	XF86Copy   Keysym = 0x1008ff57
	XF86Cut    Keysym = 0x1008ff58
	XF86Paste  Keysym = 0x1008ff6d
	Trademark  Keysym = 0x0ac9
	EuroSign   Keysym = 0x20ac
	EnDash     Keysym = 0x0aaa
	EmDash     Keysym = 0x0aa9
	Ellipsis   Keysym = 0x0aae
	LeftQuote  Keysym = 0x0ad0
	RightQuote Keysym = 0x0ad1
)

// Modifiers lists every modifier-like key that must never be left held
// when the program stops.
var Modifiers = []Keysym{
	AltL, AltR, ShiftL, ShiftR, SuperL, SuperR, Menu, ControlL, ControlR, Space, Tab,
}

// legacy maps code points that have a pre-Unicode keysym.
var legacy = map[rune]Keysym{
	'™': Trademark,
	'€': EuroSign,
	'–': EnDash,
	'—': EmDash,
	'…': Ellipsis,
	'‘': LeftQuote,
	'’': RightQuote,
}

var names = map[Keysym]string{
	Space: "space", BackSpace: "BackSpace", Tab: "Tab", Return: "Return",
	Escape: "Escape", Delete: "Delete", Home: "Home", Left: "Left", Up: "Up",
	Right: "Right", Down: "Down", PageUp: "Page_Up", PageDown: "Page_Down",
	End: "End", Print: "Print", Insert: "Insert", Menu: "Menu",
	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6", F7: "F7",
	F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12", F19: "F19",
	ShiftL: "Shift_L", ShiftR: "Shift_R", ControlL: "Control_L",
	ControlR: "Control_R", AltL: "Alt_L", AltR: "Alt_R", SuperL: "Super_L",
	SuperR: "Super_R", XF86Copy: "XF86Copy", XF86Cut: "XF86Cut",
	XF86Paste: "XF86Paste", Trademark: "trademark", EuroSign: "EuroSign",
}

func (k Keysym) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	if k >= 0x21 && k <= 0x7e {
		return string(rune(k))
	}
	if k&0xff000000 == unicodeOffset {
		return fmt.Sprintf("U%04X", uint32(k)&0x00ffffff)
	}
	return fmt.Sprintf("0x%x", uint32(k))
}

func isLatin1(r rune) bool {
	return (r >= 0x20 && r <= 0x7e) || (r >= 0xa0 && r <= 0xff)
}

// FromRune returns the keysym that types r.
func FromRune(r rune) Keysym {
	switch {
	case isLatin1(r):
		return Keysym(r)
	case r == '\t':
		return Tab
	case r == '\n' || r == '\r':
		return Return
	}
	if k, ok := legacy[r]; ok {
		return k
	}
	return Keysym(r) | unicodeOffset
}
