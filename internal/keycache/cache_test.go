package keycache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/padchord/internal/keysym"
)

type keyEvent struct {
	code    uint8
	pressed bool
}

type fakeHost struct {
	kt        KeyboardTable
	mt        ModifierTable
	rebinds   []keyEvent
	rebindErr error
	events    []keyEvent
}

func (h *fakeHost) KeyboardMapping() (KeyboardTable, error) { return h.kt, nil }
func (h *fakeHost) ModifierMapping() (ModifierTable, error) { return h.mt, nil }

func (h *fakeHost) Rebind(code uint8, sym keysym.Keysym) error {
	if h.rebindErr != nil {
		return h.rebindErr
	}
	h.rebinds = append(h.rebinds, keyEvent{code: code})
	return nil
}

func (h *fakeHost) FakeKey(code uint8, pressed bool) error {
	h.events = append(h.events, keyEvent{code, pressed})
	return nil
}

const (
	shiftCode uint8 = 50
	mod5Code  uint8 = 92
)

// Keycodes 8..13, six columns wide. Rows 9, 11 and 12 are empty. Row 10
// repeats 'A' under Mod5, which loses to row 8's shifted column.
func newHost() *fakeHost {
	const ns = keysym.NoSymbol
	rows := [][]keysym.Keysym{
		{'a', 'A', ns, ns, ns, ns},
		{ns, ns, ns, ns, ns, ns},
		{'b', 'B', ns, ns, 'A', 'c'},
		{ns, ns, ns, ns, ns, ns},
		{ns, ns, ns, ns, ns, ns},
		{'1', '!', '2', ns, ns, ns},
	}
	var flat []keysym.Keysym
	for _, r := range rows {
		flat = append(flat, r...)
	}
	mods := make([]uint8, 8*2)
	mods[0*2+1] = shiftCode // shift row, second column
	mods[7*2] = mod5Code
	return &fakeHost{
		kt: KeyboardTable{MinKeycode: 8, Count: len(rows), PerKeycode: 6, Keysyms: flat},
		mt: ModifierTable{PerModifier: 2, Keycodes: mods},
	}
}

func TestNewParsesMapping(t *testing.T) {
	c, err := New(newHost())
	require.NoError(t, err)

	m, ok := c.Lookup('a')
	require.True(t, ok)
	assert.Equal(t, Mapping{Keycode: 8, Modifiers: 0, Keysym: 'a'}, m)

	m, ok = c.Lookup('A')
	require.True(t, ok)
	assert.Equal(t, Mapping{Keycode: 8, Modifiers: ShiftMask, Keysym: 'A'}, m, "lowest modifier set wins")

	m, ok = c.Lookup('c')
	require.True(t, ok)
	assert.Equal(t, ShiftMask|Mod5Mask, m.Modifiers)

	_, ok = c.Lookup('2')
	assert.False(t, ok, "column 2 is ignored")

	assert.Equal(t, []uint8{9, 11, 12}, c.Free())
	assert.Equal(t, 7, c.Len())
}

func TestLowestModifierPreferredRegardlessOfOrder(t *testing.T) {
	const ns = keysym.NoSymbol
	h := newHost()
	h.kt = KeyboardTable{MinKeycode: 8, Count: 2, PerKeycode: 2, Keysyms: []keysym.Keysym{
		ns, 'x',
		'x', ns,
	}}
	c, err := New(h)
	require.NoError(t, err)

	m, _ := c.Lookup('x')
	assert.Equal(t, uint8(9), m.Keycode)
	assert.Zero(t, m.Modifiers)
}

func TestNewRejectsMalformedReplies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *fakeHost)
	}{
		{"zero width", func(h *fakeHost) { h.kt.PerKeycode = 0 }},
		{"length mismatch", func(h *fakeHost) { h.kt.Keysyms = h.kt.Keysyms[:5] }},
		{"empty modifier map", func(h *fakeHost) { h.mt.Keycodes = nil }},
		{"modifier map not a multiple of eight", func(h *fakeHost) { h.mt.Keycodes = h.mt.Keycodes[:9] }},
		{"modifier width mismatch", func(h *fakeHost) { h.mt.PerModifier = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHost()
			tt.mutate(h)
			_, err := New(h)
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}

func TestResolveHitDoesNotRebind(t *testing.T) {
	h := newHost()
	c, err := New(h)
	require.NoError(t, err)

	m, err := c.Resolve('b')
	require.NoError(t, err)
	assert.Equal(t, uint8(10), m.Keycode)
	assert.Empty(t, h.rebinds)
}

func TestResolveRebindsFreeSlotsFIFO(t *testing.T) {
	h := newHost()
	c, err := New(h)
	require.NoError(t, err)
	before := c.Len()

	for i, sym := range []keysym.Keysym{0x1000263a, 0x1000263b, 0x100020ac} {
		m, err := c.Resolve(sym)
		require.NoError(t, err)
		assert.Equal(t, []uint8{9, 11, 12}[i], m.Keycode)
		assert.Zero(t, m.Modifiers)
	}
	assert.Equal(t, before+3, c.Len())
	assert.Equal(t, []uint8{9, 11, 12}, c.Free(), "slots cycle back to the tail")

	// A fourth symbol evicts the oldest binding.
	m, err := c.Resolve(0x10002603)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), m.Keycode)
	_, ok := c.Lookup(0x1000263a)
	assert.False(t, ok)
	assert.Equal(t, before+3, c.Len(), "cache never grows past the free pool")
	assert.Equal(t, []uint8{11, 12, 9}, c.Free())

	// Re-resolving a still bound symbol is a hit.
	m, err = c.Resolve(0x1000263b)
	require.NoError(t, err)
	assert.Equal(t, uint8(11), m.Keycode)
	assert.Len(t, h.rebinds, 4)
}

func TestResolveWithoutFreeSlot(t *testing.T) {
	h := newHost()
	h.kt = KeyboardTable{MinKeycode: 8, Count: 1, PerKeycode: 1, Keysyms: []keysym.Keysym{'q'}}
	c, err := New(h)
	require.NoError(t, err)

	_, err = c.Resolve('z')
	assert.ErrorIs(t, err, ErrNoFreeSlot)
	assert.ErrorIs(t, c.Emit('z', true), ErrNoFreeSlot)
}

func TestResolveRebindFailure(t *testing.T) {
	h := newHost()
	boom := errors.New("boom")
	h.rebindErr = boom
	c, err := New(h)
	require.NoError(t, err)

	_, err = c.Resolve(0x1000263a)
	assert.ErrorIs(t, err, boom)
	_, ok := c.Lookup(0x1000263a)
	assert.False(t, ok)
}

func TestEmitBalancesModifiers(t *testing.T) {
	h := newHost()
	c, err := New(h)
	require.NoError(t, err)

	require.NoError(t, c.Emit('c', true))
	assert.Equal(t, []keyEvent{
		{shiftCode, true},
		{mod5Code, true},
		{10, true},
		{10, false},
		{mod5Code, false},
		{shiftCode, false},
	}, h.events)
}

func TestEmitUnshifted(t *testing.T) {
	h := newHost()
	c, err := New(h)
	require.NoError(t, err)

	require.NoError(t, c.Emit('a', true))
	assert.Equal(t, []keyEvent{{8, true}, {8, false}}, h.events)
}

func TestEmitReleaseIsNoop(t *testing.T) {
	h := newHost()
	c, err := New(h)
	require.NoError(t, err)

	require.NoError(t, c.Emit('A', false))
	require.NoError(t, c.Emit(0x1000263a, false))
	assert.Empty(t, h.events)
	assert.Empty(t, h.rebinds)
}

func TestEmitSkipsUnmappedModifier(t *testing.T) {
	h := newHost()
	h.mt.Keycodes = make([]uint8, 16)
	c, err := New(h)
	require.NoError(t, err)

	require.NoError(t, c.Emit('A', true))
	assert.Equal(t, []keyEvent{{8, true}, {8, false}}, h.events)
}

func TestHoldReleasesThePressedKeycode(t *testing.T) {
	h := newHost()
	c, err := New(h)
	require.NoError(t, err)

	const held keysym.Keysym = 0x1000263a
	require.NoError(t, c.Hold(held, true))

	// Three more symbols cycle the free pool and evict held's binding.
	for _, sym := range []keysym.Keysym{0x1000263b, 0x100020ac, 0x10002603} {
		require.NoError(t, c.Emit(sym, true))
	}
	_, ok := c.Lookup(held)
	require.False(t, ok)

	h.events = nil
	require.NoError(t, c.Hold(held, false))
	assert.Equal(t, []keyEvent{{9, false}}, h.events)
	assert.Len(t, h.rebinds, 4, "a release never rebinds")
}

func TestHoldMappedKey(t *testing.T) {
	h := newHost()
	c, err := New(h)
	require.NoError(t, err)

	require.NoError(t, c.Hold('b', true))
	require.NoError(t, c.Hold('b', false))
	// A stray release still resolves the symbol.
	require.NoError(t, c.Hold('a', false))
	assert.Equal(t, []keyEvent{{10, true}, {10, false}, {8, false}}, h.events)
}
