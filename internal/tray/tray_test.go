package tray

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrowserCommand(t *testing.T) {
	const url = "http://127.0.0.1:8080"
	tests := []struct {
		goos string
		want []string
	}{
		{"linux", []string{"xdg-open", url}},
		{"freebsd", []string{"xdg-open", url}},
		{"darwin", []string{"open", url}},
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", url}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, browserCommand(tt.goos, url).Args, tt.goos)
	}
}

func TestIconIsPNG(t *testing.T) {
	assert.True(t, bytes.HasPrefix(GetIcon(), []byte("\x89PNG\r\n\x1a\n")))
}
