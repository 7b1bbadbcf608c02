package crypto

import "runtime"

// Wipe zeroes b in place. Best effort: Go may already have copied the bytes
// elsewhere, so this only shortens how long a derived key sits in memory.
//
//go:noinline
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}
