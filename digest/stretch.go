package digest

import (
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Stretched digests adapt a key-derivation function to the [hash.Hash]
// contract so it can be plugged in wherever a fast digest is accepted.
//
// Everything written is buffered; Sum runs the KDF with the buffered bytes
// as the secret.  The salt has already been mixed into those bytes by the
// caller's salter, so the KDF's own salt parameter is a fixed domain string.
// Parameters are fixed per code: changing them would make every stored hash
// under that code unverifiable.
const stretchDomain = "go-saltedhash/stretch/v1"

const (
	PBKDF2Iterations = 210_000
	PBKDF2KeyLen     = 64

	ScryptN      = 1 << 15
	ScryptR      = 8
	ScryptP      = 1
	ScryptKeyLen = 64

	Argon2Time    uint32 = 3
	Argon2Memory  uint32 = 64 * 1024
	Argon2Threads uint8  = 2
	Argon2KeyLen  uint32 = 64
)

type stretched struct {
	kdf    string
	buf    []byte
	size   int
	derive func(secret []byte) []byte
}

func (s *stretched) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *stretched) Sum(b []byte) []byte {
	return append(b, s.derive(s.buf)...)
}

func (s *stretched) Reset() {
	clear(s.buf)
	s.buf = s.buf[:0]
}

func (s *stretched) Size() int      { return s.size }
func (s *stretched) BlockSize() int { return sha512.BlockSize }

// NewPBKDF2SHA512 returns PBKDF2-HMAC-SHA512 with [PBKDF2Iterations] rounds.
func NewPBKDF2SHA512() hash.Hash {
	return &stretched{
		kdf:  "pbkdf2-sha512",
		size: PBKDF2KeyLen,
		derive: func(secret []byte) []byte {
			return pbkdf2.Key(secret, []byte(stretchDomain), PBKDF2Iterations, PBKDF2KeyLen, sha512.New)
		},
	}
}

// NewScrypt returns scrypt with N=[ScryptN], r=[ScryptR], p=[ScryptP].
func NewScrypt() hash.Hash {
	return &stretched{
		kdf:  "scrypt",
		size: ScryptKeyLen,
		derive: func(secret []byte) []byte {
			key, err := scrypt.Key(secret, []byte(stretchDomain), ScryptN, ScryptR, ScryptP, ScryptKeyLen)
			if err != nil {
				// scrypt only rejects invalid cost parameters, and these are constants.
				panic("digest: scrypt: " + err.Error())
			}
			return key
		},
	}
}

// NewArgon2id returns Argon2id with t=[Argon2Time], m=[Argon2Memory] KiB,
// p=[Argon2Threads].
func NewArgon2id() hash.Hash {
	return &stretched{
		kdf:  "argon2id",
		size: int(Argon2KeyLen),
		derive: func(secret []byte) []byte {
			return argon2.IDKey(secret, []byte(stretchDomain), Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)
		},
	}
}
