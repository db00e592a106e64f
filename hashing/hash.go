package hashing

import (
	"bytes"
	"hash"

	"github.com/hasbyte1/go-saltedhash/digest"
)

// Hash is a salted password hash: the salt, the digest output, and the
// algorithm that produced it.
//
// A Hash is immutable.  Constructors copy their inputs and accessors return
// copies, so a value can be shared freely between goroutines.
type Hash struct {
	salt   []byte
	sum    []byte
	digest digest.Kind
}

// NewHash assembles a Hash from stored parts, e.g. when salt and sum live in
// separate database columns.  Inputs are copied.
func NewHash(kind digest.Kind, salt, sum []byte) *Hash {
	return &Hash{
		salt:   bytes.Clone(salt),
		sum:    bytes.Clone(sum),
		digest: kind,
	}
}

// Salt returns a copy of the salt.
func (h *Hash) Salt() []byte { return bytes.Clone(h.salt) }

// Sum returns a copy of the raw digest output.
func (h *Hash) Sum() []byte { return bytes.Clone(h.sum) }

// Digest returns the algorithm that produced the hash.
func (h *Hash) Digest() digest.Kind { return h.digest }

// Equal reports whether h and o have the same digest, salt and sum.  It is
// meant for tests and bookkeeping, not for password validation; use
// [Engine.Check] for that.
func (h *Hash) Equal(o *Hash) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.digest == o.digest && bytes.Equal(h.salt, o.salt) && bytes.Equal(h.sum, o.sum)
}

// Salter feeds a password and its salt into a digest.
//
// The order and framing are part of the stored-hash contract: a hash can
// only be validated with the salter that produced it.  Custom salters exist
// to stay compatible with existing hash stores, not to add security.
type Salter func(h hash.Hash, password, salt []byte)

// DefaultSalter writes the salt, then the password.
func DefaultSalter(h hash.Hash, password, salt []byte) {
	h.Write(salt)
	h.Write(password)
}

// ReverseSalter writes the password, then the salt.
func ReverseSalter(h hash.Hash, password, salt []byte) {
	h.Write(password)
	h.Write(salt)
}
