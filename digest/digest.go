// Package digest maps digest algorithms to the short codes used by the
// bracket (`[SHA512]...`) and crypt(3) (`$6$...`) hash string formats.
//
// Any [hash.Hash] is a digest: it can be reset, fed bytes, and finalised into
// a fixed-length sum.  Algorithms known in advance are named by a [Kind]
// constant; the runtime case (an algorithm chosen from a parsed string) goes
// through the registry:
//
//	k, err := digest.FromBracketCode("SHA512")
//	h, err := k.New()
//
// Additional algorithms can be plugged in with [Register].
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"hash/crc32"
	"reflect"
	"slices"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// Kind identifies a digest algorithm.  The zero value is [Unknown].
type Kind uint8

const (
	Unknown Kind = iota
	CRC32
	MD5
	RIPEMD160
	SHA1
	SHA224
	SHA256
	SHA384
	SHA512
	SHA512_224
	SHA512_256
	SHA3_256
	SHA3_512
	BLAKE2B_512
	PBKDF2_SHA512
	SCRYPT
	ARGON2ID

	// FirstCustom is the first Kind value free for [Register].
	FirstCustom Kind = 64
)

// Spec describes how to construct and encode one digest algorithm.
type Spec struct {
	// New returns a fresh, reset instance of the algorithm.
	New func() hash.Hash

	// BracketCode is the code written between the brackets of the bracket
	// format, e.g. "SHA512".
	BracketCode string

	// CryptCode is the crypt(3) id, e.g. "6".  Empty means the algorithm has
	// no crypt(3) representation.
	CryptCode string

	// Weak marks the algorithm as known-weak for password hashing.
	Weak bool
}

var (
	mu        sync.RWMutex
	specs     = map[Kind]Spec{}
	byBracket = map[string]Kind{}
	byCrypt   = map[string]Kind{}
)

func init() {
	builtin := map[Kind]Spec{
		CRC32:      {New: func() hash.Hash { return crc32.NewIEEE() }, BracketCode: "CRC32", Weak: true},
		MD5:        {New: md5.New, BracketCode: "MD5", CryptCode: "1", Weak: true},
		RIPEMD160:  {New: ripemd160.New, BracketCode: "RIPEMD160", Weak: true},
		SHA1:       {New: sha1.New, BracketCode: "SHA1", Weak: true},
		SHA224:     {New: sha256.New224, BracketCode: "SHA224"},
		SHA256:     {New: sha256.New, BracketCode: "SHA256", CryptCode: "5"},
		SHA384:     {New: sha512.New384, BracketCode: "SHA384"},
		SHA512:     {New: sha512.New, BracketCode: "SHA512", CryptCode: "6"},
		SHA512_224: {New: sha512.New512_224, BracketCode: "SHA512_224"},
		SHA512_256: {New: sha512.New512_256, BracketCode: "SHA512_256"},

		SHA3_256:    {New: sha3.New256, BracketCode: "SHA3_256"},
		SHA3_512:    {New: sha3.New512, BracketCode: "SHA3_512"},
		BLAKE2B_512: {New: newBlake2b512, BracketCode: "BLAKE2B_512"},

		PBKDF2_SHA512: {New: NewPBKDF2SHA512, BracketCode: "PBKDF2_SHA512"},
		SCRYPT:        {New: NewScrypt, BracketCode: "SCRYPT"},
		ARGON2ID:      {New: NewArgon2id, BracketCode: "ARGON2ID"},
	}
	for k, s := range builtin {
		if err := register(k, s); err != nil {
			panic(err)
		}
	}
}

func newBlake2b512() hash.Hash {
	h, err := blake2b.New512(nil)
	if err != nil {
		// Only a key longer than 64 bytes can fail; there is no key.
		panic(err)
	}
	return h
}

// Register binds k to s, replacing any previous spec for k.  Codes must be
// unique across kinds; re-registering a code for another kind fails with
// [ErrDuplicateCode].
//
// Only kinds from [FirstCustom] up can be registered.  Built-in kinds, and
// with them the weak flags of CRC32, MD5, RIPEMD160 and SHA1, are fixed and
// fail with [ErrBuiltinKind].
func Register(k Kind, s Spec) error {
	if k < FirstCustom {
		return fmt.Errorf("%w: %s", ErrBuiltinKind, k)
	}
	return register(k, s)
}

func register(k Kind, s Spec) error {
	if k == Unknown || s.New == nil || s.BracketCode == "" {
		return fmt.Errorf("%w: kind %d needs a constructor and a bracket code", ErrUnknownDigest, k)
	}
	mu.Lock()
	defer mu.Unlock()
	if other, ok := byBracket[s.BracketCode]; ok && other != k {
		return fmt.Errorf("%w: bracket code %q is bound to %s", ErrDuplicateCode, s.BracketCode, other)
	}
	if other, ok := byCrypt[s.CryptCode]; ok && s.CryptCode != "" && other != k {
		return fmt.Errorf("%w: crypt code %q is bound to %s", ErrDuplicateCode, s.CryptCode, other)
	}
	if old, ok := specs[k]; ok {
		delete(byBracket, old.BracketCode)
		if old.CryptCode != "" {
			delete(byCrypt, old.CryptCode)
		}
	}
	specs[k] = s
	byBracket[s.BracketCode] = k
	if s.CryptCode != "" {
		byCrypt[s.CryptCode] = k
	}
	return nil
}

func lookup(k Kind) (Spec, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := specs[k]
	return s, ok
}

// Kinds returns every registered kind in ascending order.
func Kinds() []Kind {
	mu.RLock()
	out := make([]Kind, 0, len(specs))
	for k := range specs {
		out = append(out, k)
	}
	mu.RUnlock()
	slices.Sort(out)
	return out
}

// Available reports whether k is a registered digest.
func (k Kind) Available() bool {
	_, ok := lookup(k)
	return ok
}

// New returns a fresh instance of the algorithm.
func (k Kind) New() (hash.Hash, error) {
	s, ok := lookup(k)
	if !ok {
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownDigest, uint8(k))
	}
	return s.New(), nil
}

// Size returns the digest output length in bytes, or 0 for unknown kinds.
func (k Kind) Size() int {
	h, err := k.New()
	if err != nil {
		return 0
	}
	return h.Size()
}

// Matches reports whether h is an instance of k: same concrete type and
// output size as k.New(), and for stretched digests the same KDF.  Unknown
// kinds and a nil h never match.
func (k Kind) Matches(h hash.Hash) bool {
	if h == nil {
		return false
	}
	ref, err := k.New()
	if err != nil {
		return false
	}
	if reflect.TypeOf(h) != reflect.TypeOf(ref) || h.Size() != ref.Size() {
		return false
	}
	if s, ok := h.(*stretched); ok {
		return s.kdf == ref.(*stretched).kdf
	}
	return true
}

// IsKnownWeak reports whether k is blacklisted for password hashing.
// Unknown kinds are not considered weak.
func (k Kind) IsKnownWeak() bool {
	s, ok := lookup(k)
	return ok && s.Weak
}

// BracketCode returns the bracket-format code of k.
func (k Kind) BracketCode() (string, error) {
	s, ok := lookup(k)
	if !ok {
		return "", fmt.Errorf("%w: kind %d has no bracket code", ErrUnknownDigest, uint8(k))
	}
	return s.BracketCode, nil
}

// CryptCode returns the crypt(3) id of k.  Only MD5, SHA256 and SHA512 have
// one by default.
func (k Kind) CryptCode() (string, error) {
	s, ok := lookup(k)
	if !ok || s.CryptCode == "" {
		return "", fmt.Errorf("%w: %s has no crypt(3) code", ErrUnknownDigest, k)
	}
	return s.CryptCode, nil
}

// String returns the bracket code, or "Kind(n)" when k is not registered.
func (k Kind) String() string {
	if s, ok := lookup(k); ok {
		return s.BracketCode
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// FromBracketCode resolves a bracket-format code such as "SHA256".
func FromBracketCode(code string) (Kind, error) {
	mu.RLock()
	k, ok := byBracket[code]
	mu.RUnlock()
	if !ok {
		return Unknown, fmt.Errorf("%w: bracket code %q", ErrUnknownDigest, code)
	}
	return k, nil
}

// FromCryptCode resolves a crypt(3) id such as "6".  The empty id denotes
// traditional DES crypt and fails with [ErrLegacyDES].
func FromCryptCode(code string) (Kind, error) {
	if code == "" {
		return Unknown, ErrLegacyDES
	}
	mu.RLock()
	k, ok := byCrypt[code]
	mu.RUnlock()
	if !ok {
		return Unknown, fmt.Errorf("%w: crypt code %q", ErrUnknownDigest, code)
	}
	return k, nil
}
