package drbg

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/hasbyte1/go-saltedhash/digest"
)

type sharedKey struct {
	kind    digest.Kind
	pers    string
	entropy EntropySource
}

var (
	sharedMu sync.Mutex
	shared   = map[sharedKey]*HashDRBG{}
)

// Shared returns the process-wide generator for the (digest, personalization,
// entropy source) combination, creating it on first use.  Every caller asking
// for the same combination gets the same instance, so entropy accumulates in
// one state instead of being spread over short-lived copies.
//
// entropy must be comparable (a pointer, typically); other sources fail with
// [ErrUncomparableSource].  nil means [System].
func Shared(kind digest.Kind, personalization string, entropy EntropySource) (*HashDRBG, error) {
	if entropy == nil {
		entropy = System()
	}
	if !reflect.TypeOf(entropy).Comparable() {
		return nil, fmt.Errorf("%w: %T cannot key the shared registry; pass a pointer", ErrUncomparableSource, entropy)
	}
	key := sharedKey{kind: kind, pers: personalization, entropy: entropy}

	sharedMu.Lock()
	defer sharedMu.Unlock()
	if d, ok := shared[key]; ok {
		return d, nil
	}
	d, err := New(Options{
		Digest:          kind,
		Personalization: []byte(personalization),
		Entropy:         entropy,
	})
	if err != nil {
		return nil, err
	}
	shared[key] = d
	return d, nil
}

var defaultDRBG = sync.OnceValue(func() *HashDRBG {
	d, err := Shared(digest.SHA512, DefaultPersonalization, System())
	if err != nil {
		panic(err)
	}
	return d
})

// Default returns the shared SHA-512 generator seeded from [System].  It
// backs every helper that accepts a nil random source.
func Default() *HashDRBG { return defaultDRBG() }
