package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/padchord/internal/keysym"
	"github.com/soar/padchord/internal/zone"
)

func TestSetsFromString(t *testing.T) {
	sets, err := SetsFromString("abcdéfg™")
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, Unicode("a"), sets[0].N)
	assert.Equal(t, Unicode("d"), sets[0].W)
	assert.Equal(t, Unicode("é"), sets[1].N)
	assert.Equal(t, Unicode("™"), sets[1].W)

	_, err = SetsFromString("abc")
	assert.Error(t, err)
}

func TestPrimaryLayer(t *testing.T) {
	tb := NewTables()

	n := tb.FaceSet(Primary, zone.Octant(0))
	assert.Equal(t, Unicode("a"), n.Get(N))
	assert.Equal(t, Unicode("b"), n.Get(E))
	assert.Equal(t, Unicode("c"), n.Get(S))
	assert.Equal(t, Unicode("d"), n.Get(W))

	nw := tb.FaceSet(Primary, zone.Octant(7))
	assert.Equal(t, Unicode(","), nw.N)
	assert.Equal(t, Unicode("'"), nw.W)

	c := tb.FaceSet(Primary, zone.Center)
	assert.Equal(t, Key(keysym.Tab), c.N)
	assert.Equal(t, Key(keysym.Space), c.E)
	assert.Equal(t, Key(keysym.Return), c.S)
	assert.Equal(t, Key(keysym.BackSpace), c.W)
}

func TestSecondaryLayer(t *testing.T) {
	tb := NewTables()
	assert.Equal(t, Unicode("1"), tb.FaceSet(Secondary, zone.Octant(0)).N)
	assert.Equal(t, Unicode("™"), tb.FaceSet(Secondary, zone.Octant(3)).W)
	assert.Equal(t, Key(keysym.Escape), tb.FaceSet(Secondary, zone.Octant(4)).N)
	assert.Equal(t, Key(keysym.F12), tb.FaceSet(Secondary, zone.Octant(7)).W)
	assert.Equal(t, Key(keysym.XF86Paste), tb.FaceSet(Secondary, zone.Center).S)
}

func TestEveryFaceSlotBound(t *testing.T) {
	tb := NewTables()
	for _, l := range []Layer{Primary, Secondary} {
		for _, z := range zone.All {
			set := tb.FaceSet(l, z)
			for _, s := range []Slot{N, E, S, W} {
				assert.False(t, set.Get(s).IsNone(), "layer %d zone %v slot %d", l, z, s)
			}
		}
	}
}

func TestDpadAndModifiers(t *testing.T) {
	tb := NewTables()
	assert.Equal(t, Key(keysym.Up), tb.Dpad[Primary].N)
	assert.Equal(t, Key(keysym.Home), tb.Dpad[Secondary].W)
	assert.Equal(t, Key(keysym.ShiftL), tb.Shift)
	assert.Equal(t, Key(keysym.ControlL), tb.Control)
	assert.Equal(t, Key(keysym.AltL), tb.Alt)
	assert.Equal(t, Button(1), tb.LeftClick)
	assert.Equal(t, Button(3), tb.RightClick)
}

func TestLayerOf(t *testing.T) {
	assert.Equal(t, Primary, LayerOf(false))
	assert.Equal(t, Secondary, LayerOf(true))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, `unicode("a")`, Unicode("a").String())
	assert.Equal(t, "key(Tab)", Key(keysym.Tab).String())
	assert.Equal(t, "combo(Control_L+c)", Combo(keysym.ControlL, keysym.FromRune('c')).String())
	assert.Equal(t, "button(3)", Button(3).String())
	assert.Equal(t, "motion(2,-1)", Motion(2, -1).String())
	assert.Equal(t, "none", None.String())
}
