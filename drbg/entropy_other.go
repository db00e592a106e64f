//go:build !linux && !windows

package drbg

// Non-Linux Unix systems go through the device files.
func platformRead([]byte, bool) (bool, error) {
	return false, nil
}
