// Package hashing builds salted password hashes, validates passwords against
// them in length-constant time, and encodes them as text.
//
// # Architecture
//
// The [Engine] combines a salt and a password through a [Salter], feeds the
// result to a digest from package digest, and returns an immutable [Hash].
// Validation recomputes the hash with the stored salt and digest and compares
// with [LengthConstantEquals].
//
// A [Hash] is serialised in one of two formats:
//
//	[SHA512]<base64 salt>$<base64 hash>    bracket format, any digest
//	$6$<base64 salt>$<base64 hash>         crypt(3) layout, MD5/SHA256/SHA512 only
//
// [Parse] accepts both.  Traditional 13-character DES crypt strings are
// recognised and rejected with [ErrLegacyDES].
//
// On top of that sit string-level [Hasher] drivers and a [Manager] that picks
// the driver from the hash prefix, for stores where formats coexist.
//
// # Quick start
//
//	pw := password.New(buf) // buf: []byte the caller owns
//	defer pw.Release()
//
//	h, err := hashing.Make(pw, nil) // SHA-512, random 32-byte salt
//	stored, _ := h.BracketString()
//
//	parsed, _ := hashing.Parse(stored)
//	ok, err := hashing.Check(pw, parsed)
//
// # Weak algorithms
//
// CRC32, MD5, RIPEMD160 and SHA1, as well as the math/rand generators, are
// blacklisted.  Using them fails with [ErrKnownWeak] unless
// [Options].AllowWeak is set.  The list is deliberately short: unknown
// algorithms are assumed acceptable.
//
// # Choosing a digest
//
// The default SHA-512 is fast, which is a weakness for password storage.
// Prefer a stretched digest (digest.ARGON2ID, digest.SCRYPT or
// digest.PBKDF2_SHA512) for new deployments.
package hashing
