package digest

import "errors"

// Sentinel errors returned by digest lookups.
//
// Use [errors.Is] for comparisons:
//
//	k, err := digest.FromBracketCode(code)
//	if errors.Is(err, digest.ErrUnknownDigest) {
//	    // the stored hash names an algorithm this process does not know
//	}
var (
	// ErrUnknownDigest is returned when a digest code cannot be mapped in
	// either direction, or when a digest instance required for hashing is
	// missing.  It is never silently replaced by a default algorithm.
	ErrUnknownDigest = errors.New("digest: unknown digest")

	// ErrLegacyDES is returned for the empty crypt(3) code, i.e. traditional
	// DES-based crypt.  Recognised, deliberately not supported.
	ErrLegacyDES = errors.New("digest: legacy DES crypt is not supported")

	// ErrDuplicateCode is returned by [Register] when a code is already bound
	// to a different kind.
	ErrDuplicateCode = errors.New("digest: code already registered")

	// ErrBuiltinKind is returned by [Register] for kinds below [FirstCustom].
	ErrBuiltinKind = errors.New("digest: built-in kind cannot be replaced")
)
