package random

import (
	"encoding/binary"
	"io"
	mathrand "math/rand"
	mathrandv2 "math/rand/v2"
)

// Uint32Source is any generator that emits uniformly distributed uint32s.
// *math/rand.Rand and *math/rand/v2.Rand both satisfy it.
type Uint32Source interface {
	Uint32() uint32
}

// Uint32Reader adapts an integer generator into a byte stream, four
// little-endian bytes per value.  Reads whose length is not a multiple of 4
// discard the unused tail of the last value.
func Uint32Reader(src Uint32Source) io.Reader {
	return &uint32Reader{src: src}
}

type uint32Reader struct {
	src Uint32Source
}

func (u *uint32Reader) Read(p []byte) (int, error) {
	var word [4]byte
	for i := 0; i < len(p); i += 4 {
		binary.LittleEndian.PutUint32(word[:], u.src.Uint32())
		copy(p[i:], word[:])
	}
	return len(p), nil
}

// IsKnownWeak reports whether r is (or wraps) one of the blacklisted
// non-cryptographic generators: math/rand and math/rand/v2 sources, or the
// unkeyed PCG and fixed-seed families they are built on.  Unrecognised
// generators are assumed acceptable.
func IsKnownWeak(r any) bool {
	if u, ok := r.(*uint32Reader); ok {
		r = u.src
	}
	switch r.(type) {
	case *mathrand.Rand, mathrand.Source,
		*mathrandv2.Rand, *mathrandv2.PCG, *mathrandv2.Zipf:
		return true
	}
	return false
}
