//go:build !unix

package host

import "os"

// Windows consoles have no resize signal.
func notifyResize() (<-chan os.Signal, func()) {
	return nil, func() {}
}
