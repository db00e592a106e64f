package hashing

import (
	"fmt"
	"strings"

	"github.com/hasbyte1/go-saltedhash/password"
)

// DriverName identifies a hash string format driver.
// Using a named string type prevents accidental confusion with plain strings.
type DriverName string

const (
	// DriverBracket selects the "[CODE]salt$hash" format.
	DriverBracket DriverName = "bracket"
	// DriverCrypt selects the "$ID$salt$hash" crypt(3) layout.
	DriverCrypt DriverName = "crypt"
)

// Hasher is the string-level interface satisfied by every format driver.
// Storage layers deal in opaque strings; Hasher turns plaintext passwords
// into such strings and back into a yes/no answer.
//
// All implementations must be safe for concurrent use by multiple goroutines.
type Hasher interface {
	// Make hashes a plaintext password and returns the encoded hash string.
	// A fresh salt is generated for every call, so two calls with the same
	// password produce different outputs.
	Make(password string) (string, error)

	// Check verifies that password matches the previously encoded hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or
	// (false, err) if the hash is structurally invalid or names an unknown
	// or disallowed digest.
	//
	// Comparison is performed in length-constant time.
	Check(password, hash string) (bool, error)

	// NeedsRehash returns true when the hash was produced with a digest or
	// salt length different from the hasher's current configuration.
	NeedsRehash(hash string) (bool, error)

	// Info extracts metadata from an encoded hash string without verifying it.
	Info(hash string) (HashInfo, error)

	// Driver returns the DriverName implemented by this hasher.
	Driver() DriverName
}

// PasswordHasher is implemented by drivers that can work on a caller-owned
// [password.Password] instead of an immutable string.  [Manager] prefers it
// when available.
type PasswordHasher interface {
	MakePassword(pw *password.Password) (string, error)
	CheckPassword(pw *password.Password, hash string) (bool, error)
}

// HashInfo carries metadata parsed from an encoded hash string.
type HashInfo struct {
	// Driver is the format of the hash string.
	Driver DriverName

	// Params holds values extracted from the hash string:
	//   "digest"   → string (bracket code)
	//   "salt_len" → int
	//   "hash_len" → int
	Params map[string]any
}

// DetectDriver inspects a hash string and returns the [DriverName] of its
// format.  It is a prefix heuristic and does not verify the hash.
//
// The second return value is false when the format is not recognised.
func DetectDriver(hash string) (DriverName, bool) {
	switch {
	case strings.HasPrefix(hash, "["):
		return DriverBracket, true
	case strings.HasPrefix(hash, "$"), len(hash) == legacyDESLen:
		return DriverCrypt, true
	default:
		return "", false
	}
}

// FormatHasher is a [Hasher] and [PasswordHasher] bound to one string format
// and one [Engine].
//
// # Thread safety
//
// FormatHasher is immutable after construction and safe for concurrent use.
type FormatHasher struct {
	driver DriverName
	engine *Engine
}

// NewBracketHasher returns a hasher producing bracket-format strings.
func NewBracketHasher(opts Options) (*FormatHasher, error) {
	e, err := NewEngine(opts)
	if err != nil {
		return nil, err
	}
	return &FormatHasher{driver: DriverBracket, engine: e}, nil
}

// NewCryptHasher returns a hasher producing crypt(3)-layout strings.  The
// digest must have a crypt(3) id (MD5, SHA256 or SHA512); otherwise
// [ErrInvalidOption] is returned.
func NewCryptHasher(opts Options) (*FormatHasher, error) {
	e, err := NewEngine(opts)
	if err != nil {
		return nil, err
	}
	if _, err := e.opts.Digest.CryptCode(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return &FormatHasher{driver: DriverCrypt, engine: e}, nil
}

// Driver returns the format implemented by h.
func (h *FormatHasher) Driver() DriverName { return h.driver }

// Engine returns the underlying engine.
func (h *FormatHasher) Engine() *Engine { return h.engine }

// Make hashes password and encodes it in h's format.
//
// The string is copied into a zeroable buffer, but the caller's string
// itself cannot be wiped; use [Engine.Make] with a [password.Password] built
// from a []byte when that matters.
func (h *FormatHasher) Make(plain string) (string, error) {
	pw := password.FromString(plain)
	defer pw.Release()

	sum, err := h.engine.Make(pw, nil)
	if err != nil {
		return "", err
	}
	return h.encode(sum)
}

// MakePassword is Make for a caller-owned [password.Password].
func (h *FormatHasher) MakePassword(pw *password.Password) (string, error) {
	sum, err := h.engine.Make(pw, nil)
	if err != nil {
		return "", err
	}
	return h.encode(sum)
}

func (h *FormatHasher) encode(sum *Hash) (string, error) {
	if h.driver == DriverCrypt {
		return sum.CryptString()
	}
	return sum.BracketString()
}

// Check verifies that password matches hash.
func (h *FormatHasher) Check(plain, hash string) (bool, error) {
	pw := password.FromString(plain)
	defer pw.Release()
	return h.CheckPassword(pw, hash)
}

// CheckPassword is Check for a caller-owned [password.Password].
func (h *FormatHasher) CheckPassword(pw *password.Password, hash string) (bool, error) {
	stored, err := h.parse(hash)
	if err != nil {
		return false, err
	}
	return h.engine.Check(pw, stored)
}

// NeedsRehash reports whether hash uses a different digest or salt length
// than h is configured for.
func (h *FormatHasher) NeedsRehash(hash string) (bool, error) {
	stored, err := h.parse(hash)
	if err != nil {
		return false, err
	}
	return stored.digest != h.engine.opts.Digest ||
		len(stored.salt) != h.engine.opts.SaltLength, nil
}

// Info parses hash and reports its digest and lengths.
func (h *FormatHasher) Info(hash string) (HashInfo, error) {
	stored, err := h.parse(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Driver: h.driver,
		Params: map[string]any{
			"digest":   stored.digest.String(),
			"salt_len": len(stored.salt),
			"hash_len": len(stored.sum),
		},
	}, nil
}

func (h *FormatHasher) parse(hash string) (*Hash, error) {
	if d, ok := DetectDriver(hash); ok && d != h.driver {
		return nil, fmt.Errorf("%w: hash is %s, not %s", ErrAlgorithmMismatch, d, h.driver)
	}
	if h.driver == DriverCrypt {
		return ParseCrypt(hash)
	}
	return ParseBracket(hash)
}
