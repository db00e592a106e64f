//go:build windows

package drbg

import "crypto/rand"

// Windows has no entropy device; the system CSPRNG serves both pools.
func platformRead(p []byte, _ bool) (bool, error) {
	_, err := rand.Read(p)
	return true, err
}
