//go:build linux

package drbg

import (
	"errors"

	"golang.org/x/sys/unix"
)

func platformRead(p []byte, predictionResistance bool) (bool, error) {
	flags := 0
	if predictionResistance {
		flags = unix.GRND_RANDOM
	}
	for len(p) > 0 {
		n, err := unix.Getrandom(p, flags)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ENOSYS):
			return false, nil
		case err != nil:
			return true, err
		}
		p = p[n:]
	}
	return true, nil
}
