package inject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardReleasesModifiers(t *testing.T) {
	b := &fakeBackend{}
	Guard{Open: func() (Backend, error) { return b, nil }}.Release()

	assert.Equal(t, []string{
		"key Alt_L false", "key Alt_R false",
		"key Shift_L false", "key Shift_R false",
		"key Super_L false", "key Super_R false",
		"key Menu false",
		"key Control_L false", "key Control_R false",
		"key space false", "key Tab false",
	}, b.calls)
	assert.True(t, b.closed)
}

func TestGuardContinuesPastKeyErrors(t *testing.T) {
	b := &fakeBackend{keyErr: errors.New("boom")}
	Guard{Open: func() (Backend, error) { return b, nil }}.Release()
	assert.Len(t, b.calls, 11)
	assert.True(t, b.closed)
}

func TestGuardOpenFailure(t *testing.T) {
	assert.NotPanics(t, func() {
		Guard{Open: func() (Backend, error) { return nil, errors.New("no display") }}.Release()
		Guard{}.Release()
	})
}

func TestGuardRunsOnPanic(t *testing.T) {
	b := &fakeBackend{}
	g := Guard{Open: func() (Backend, error) { return b, nil }}

	assert.Panics(t, func() {
		defer g.Release()
		panic("engine crashed")
	})
	assert.Len(t, b.calls, 11)
}

func TestGuardReleasesOnOwnerWithoutClosingIt(t *testing.T) {
	owner := &fakeBackend{}
	Guard{Owner: owner}.Release()
	assert.Len(t, owner.calls, 11)
	assert.Equal(t, "key Alt_L false", owner.calls[0])
	assert.False(t, owner.closed)
}

func TestGuardOwnerThenFresh(t *testing.T) {
	owner := &fakeBackend{}
	fresh := &fakeBackend{}
	Guard{Owner: owner, Open: func() (Backend, error) { return fresh, nil }}.Release()
	assert.Len(t, owner.calls, 11)
	assert.Len(t, fresh.calls, 11)
	assert.False(t, owner.closed)
	assert.True(t, fresh.closed)
}

func TestGuardForBackend(t *testing.T) {
	open := func() (Backend, error) { return &fakeBackend{}, nil }
	assert.NotNil(t, GuardFor(Options{Backend: BackendX11}, open).Open)
	assert.Nil(t, GuardFor(Options{Backend: BackendUinput}, open).Open)
}
