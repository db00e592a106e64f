package drbg

import "errors"

// Sentinel errors returned by the random subsystem.
var (
	// ErrUnsupportedDigest is returned by [New] when the digest is not one of
	// the SHA-1/SHA-2 algorithms approved for Hash_DRBG.
	ErrUnsupportedDigest = errors.New("drbg: digest not approved for Hash_DRBG")

	// ErrEntropy is returned when the entropy source fails.  The DRBG state
	// is left untouched, so a later call may succeed.
	ErrEntropy = errors.New("drbg: entropy source failure")

	// ErrUncomparableSource is returned by [Shared] for an entropy source
	// whose dynamic type cannot be a map key.
	ErrUncomparableSource = errors.New("drbg: entropy source is not comparable")
)
