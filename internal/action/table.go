package action

import (
	"fmt"
	"unicode/utf8"

	"github.com/soar/padchord/internal/keysym"
	"github.com/soar/padchord/internal/zone"
)

// Slot names one of the four directional buttons of a controller half.
type Slot uint8

const (
	N Slot = iota
	E
	S
	W
)

// Set binds the four slots of one (zone, layer) combination.
type Set struct {
	N Action
	E Action
	S Action
	W Action
}

// Get returns the action in slot s.
func (set *Set) Get(s Slot) Action {
	switch s {
	case N:
		return set.N
	case E:
		return set.E
	case S:
		return set.S
	default:
		return set.W
	}
}

// Layer selects the primary or secondary table.
type Layer uint8

const (
	Primary Layer = iota
	Secondary
)

// LayerOf maps the secondary selector flag to a Layer.
func LayerOf(secondary bool) Layer {
	if secondary {
		return Secondary
	}
	return Primary
}

// Tables is the complete input binding. It is built once and only read
// afterwards, so one value can be shared between goroutines.
type Tables struct {
	// Face is indexed by layer and zone.Index.
	Face [2][zone.Count]Set
	Dpad [2]Set

	Shift   Action
	Control Action
	Alt     Action

	LeftClick  Action
	RightClick Action
}

// FaceSet returns the set bound to z in layer l. z must be Valid.
func (t *Tables) FaceSet(l Layer, z zone.Zone) *Set {
	return &t.Face[l][z.Index()]
}

// SetsFromString chunks s into groups of four runes, one Unicode set each,
// in N, E, S, W order.
func SetsFromString(s string) ([]Set, error) {
	n := utf8.RuneCountInString(s)
	if n%4 != 0 {
		return nil, fmt.Errorf("action: %d runes do not divide into sets of four", n)
	}
	sets := make([]Set, 0, n/4)
	var chunk [4]Action
	i := 0
	for _, r := range s {
		chunk[i%4] = Unicode(string(r))
		i++
		if i%4 == 0 {
			sets = append(sets, Set{N: chunk[0], E: chunk[1], S: chunk[2], W: chunk[3]})
		}
	}
	return sets, nil
}

func keys(n, e, s, w keysym.Keysym) Set {
	return Set{N: Key(n), E: Key(e), S: Key(s), W: Key(w)}
}

func mustSets(s string) []Set {
	sets, err := SetsFromString(s)
	if err != nil {
		panic(err)
	}
	return sets
}

// NewTables builds the default chorded layout.
func NewTables() *Tables {
	t := &Tables{
		Dpad: [2]Set{
			keys(keysym.Up, keysym.Right, keysym.Down, keysym.Left),
			keys(keysym.PageUp, keysym.End, keysym.PageDown, keysym.Home),
		},
		Shift:      Key(keysym.ShiftL),
		Control:    Key(keysym.ControlL),
		Alt:        Key(keysym.AltL),
		LeftClick:  Button(1),
		RightClick: Button(3),
	}

	primary := mustSets(`abcdefghijklmnopqrstuvwxyz;/,.\'`)
	copy(t.Face[Primary][:8], primary)
	t.Face[Primary][zone.Center.Index()] = keys(keysym.Tab, keysym.Space, keysym.Return, keysym.BackSpace)

	secondary := mustSets("1234" + // N
		"5678" + // NE
		"90-=" + // E
		"[]`™") // SE
	copy(t.Face[Secondary][:4], secondary)
	t.Face[Secondary][4] = keys(keysym.Escape, keysym.Print, keysym.Insert, keysym.SuperL) // S
	t.Face[Secondary][5] = keys(keysym.F1, keysym.F2, keysym.F3, keysym.F4)                // SW
	t.Face[Secondary][6] = keys(keysym.F5, keysym.F6, keysym.F7, keysym.F8)                // W
	t.Face[Secondary][7] = keys(keysym.F9, keysym.F10, keysym.F11, keysym.F12)             // NW
	t.Face[Secondary][zone.Center.Index()] = keys(keysym.XF86Cut, keysym.XF86Copy, keysym.XF86Paste, keysym.Delete)

	return t
}
