//go:build !linux

package inject

import "fmt"

// OpenUinput always fails: uinput is Linux only.
func OpenUinput(path string) (Backend, error) {
	return nil, fmt.Errorf("%w: uinput requires linux", ErrUnsupported)
}
