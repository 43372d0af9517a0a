package keysym

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRune(t *testing.T) {
	tests := []struct {
		r    rune
		want Keysym
	}{
		{'a', 0x61},
		{'Z', 0x5a},
		{' ', Space},
		{'~', 0x7e},
		{'é', 0xe9},
		{'\t', Tab},
		{'\n', Return},
		{'\r', Return},
		{'™', Trademark},
		{'€', EuroSign},
		{'λ', 0x010003bb},
		{'🙂', 0x0101f642},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromRune(tt.r), "rune %q", tt.r)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "Tab", Tab.String())
	assert.Equal(t, "a", FromRune('a').String())
	assert.Equal(t, "U03BB", FromRune('λ').String())
	assert.Equal(t, "0x1234", Keysym(0x1234).String())
}
