package drbg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// EntropySource supplies raw, unconditioned entropy.
type EntropySource interface {
	// ReadEntropy fills p completely.  When predictionResistance is true the
	// source should draw from its strongest (possibly blocking) pool.
	ReadEntropy(p []byte, predictionResistance bool) error
}

const (
	urandomPath = "/dev/urandom"
	randomPath  = "/dev/random"
)

// SystemEntropy reads entropy from the operating system.
//
// On Linux it calls getrandom(2), adding GRND_RANDOM when prediction
// resistance is requested, and falls back to the device files if the kernel
// lacks the syscall.  Other Unix systems read /dev/urandom, or /dev/random for
// prediction resistance.  Windows uses the system CSPRNG.
//
// Device files are opened lazily on first use and kept open until [Close].
// Open, Close and ReadEntropy are serialised by one lock, so closing while
// another goroutine reads is safe.  Reads may block indefinitely when the
// kernel pool is exhausted; there is no timeout.
type SystemEntropy struct {
	mu      sync.Mutex
	urandom *os.File
	random  *os.File
}

var system = sync.OnceValue(func() *SystemEntropy { return &SystemEntropy{} })

// System returns the process-wide entropy source.
func System() *SystemEntropy { return system() }

// Open eagerly opens the device files used as a fallback.  Calling Open is
// optional.
func (s *SystemEntropy) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.device(false); err != nil {
		return err
	}
	_, err := s.device(true)
	return err
}

// Close releases any open device handles.  A later read reopens them.
func (s *SystemEntropy) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, f := range []**os.File{&s.urandom, &s.random} {
		if *f != nil {
			errs = append(errs, (*f).Close())
			*f = nil
		}
	}
	return errors.Join(errs...)
}

// ReadEntropy implements [EntropySource].
func (s *SystemEntropy) ReadEntropy(p []byte, predictionResistance bool) error {
	if len(p) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	handled, err := platformRead(p, predictionResistance)
	if handled {
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEntropy, err)
		}
		return nil
	}

	f, err := s.device(predictionResistance)
	if err != nil {
		return err
	}
	if _, err := io.ReadFull(f, p); err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrEntropy, f.Name(), err)
	}
	return nil
}

// device returns the open handle for the requested pool.  s.mu must be held.
func (s *SystemEntropy) device(predictionResistance bool) (*os.File, error) {
	slot, path := &s.urandom, urandomPath
	if predictionResistance {
		slot, path = &s.random, randomPath
	}
	if *slot != nil {
		return *slot, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	*slot = f
	return f, nil
}
