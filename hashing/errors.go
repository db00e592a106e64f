package hashing

import (
	"errors"

	"github.com/hasbyte1/go-saltedhash/digest"
)

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	h, err := hashing.Parse(stored)
//	if errors.Is(err, hashing.ErrInvalidHash) {
//	    // hash string is malformed
//	}
var (
	// ErrInvalidHash is returned when a hash string cannot be parsed because
	// it has an unrecognised format, missing delimiters, empty segments, or
	// invalid base64.
	ErrInvalidHash = errors.New("hashing: invalid or unrecognised hash string")

	// ErrUnknownDigest is returned when a digest code cannot be resolved, or
	// when a digest required for hashing is missing.  It is the same value
	// as [digest.ErrUnknownDigest].
	ErrUnknownDigest = digest.ErrUnknownDigest

	// ErrLegacyDES is returned for traditional 13-character DES crypt strings
	// and the empty crypt(3) id.  It is the same value as [digest.ErrLegacyDES].
	ErrLegacyDES = digest.ErrLegacyDES

	// ErrKnownWeak is returned when a blacklisted digest or random generator
	// is used without [Options].AllowWeak.
	ErrKnownWeak = errors.New("hashing: known-weak algorithm (set AllowWeak to permit it)")

	// ErrInvalidOption is returned when an [Options] field falls outside the
	// allowed range (e.g., a negative salt length).
	ErrInvalidOption = errors.New("hashing: invalid option value")

	// ErrDriverNotFound is returned by [Manager.Driver] or indirectly by
	// [Manager.Make] / [Manager.Check] when the requested driver has not been
	// registered.
	ErrDriverNotFound = errors.New("hashing: driver not found")

	// ErrEmptyDriverName is returned by [Manager.RegisterDriver] when the
	// supplied driver name is an empty string.
	ErrEmptyDriverName = errors.New("hashing: driver name must not be empty")

	// ErrNilHasher is returned by [Manager.RegisterDriver] when a nil [Hasher]
	// is supplied.
	ErrNilHasher = errors.New("hashing: hasher must not be nil")

	// ErrAlgorithmMismatch is returned by a [Hasher]'s Check or NeedsRehash
	// method when the hash string is in a different format than the one
	// implemented by that hasher.
	ErrAlgorithmMismatch = errors.New("hashing: hash was produced by a different driver")
)
