package hashing

import (
	"fmt"
	"hash"
	"io"

	"github.com/hasbyte1/go-saltedhash/digest"
	"github.com/hasbyte1/go-saltedhash/drbg"
	"github.com/hasbyte1/go-saltedhash/password"
	"github.com/hasbyte1/go-saltedhash/random"
)

const (
	// DefaultDigest is SHA-512.  It is fast; production deployments should
	// prefer a stretched digest such as [digest.ARGON2ID].
	DefaultDigest = digest.SHA512

	// DefaultSaltLength is the generated salt size in bytes.
	DefaultSaltLength = random.DefaultSaltLength
)

// Options configures an [Engine].
type Options struct {
	// Digest is the algorithm used for new hashes.
	// Default: [DefaultDigest].
	Digest digest.Kind

	// SaltLength is the size of generated salts; a multiple of 4.  Zero
	// selects the default, so salt-less hashes can only be made by passing an
	// explicit salt.  Default: [DefaultSaltLength].
	SaltLength int

	// Salter combines password and salt.  Default: [DefaultSalter].
	Salter Salter

	// Rand is the salt source.  Default: [drbg.Default].
	Rand io.Reader

	// AllowWeak permits blacklisted digests (CRC32, MD5, RIPEMD160, SHA1) and
	// non-cryptographic random generators.  Default: false.
	AllowWeak bool
}

// DefaultOptions returns Options with SHA-512, 32-byte salts, the default
// salter and the shared Hash_DRBG.
func DefaultOptions() Options {
	return Options{
		Digest:     DefaultDigest,
		SaltLength: DefaultSaltLength,
		Salter:     DefaultSalter,
		Rand:       drbg.Default(),
	}
}

func validateOptions(opts Options) error {
	if !opts.Digest.Available() {
		return fmt.Errorf("%w: digest %s", ErrUnknownDigest, opts.Digest)
	}
	if opts.SaltLength < 0 || opts.SaltLength%4 != 0 {
		return fmt.Errorf("%w: salt length %d must be a non-negative multiple of 4",
			ErrInvalidOption, opts.SaltLength)
	}
	return nil
}

// Engine builds and validates salted hashes.
//
// # Thread safety
//
// Engine is immutable after construction and safe for concurrent use,
// provided Options.Rand is (the default Hash_DRBG is).
type Engine struct {
	opts Options
}

// NewEngine constructs an Engine.  Zero-valued fields of opts take their
// defaults; invalid values yield [ErrInvalidOption] or [ErrUnknownDigest].
func NewEngine(opts Options) (*Engine, error) {
	def := DefaultOptions()
	if opts.Digest == digest.Unknown {
		opts.Digest = def.Digest
	}
	if opts.SaltLength == 0 {
		opts.SaltLength = def.SaltLength
	}
	if opts.Salter == nil {
		opts.Salter = def.Salter
	}
	if opts.Rand == nil {
		opts.Rand = def.Rand
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return &Engine{opts: opts}, nil
}

// Options returns the engine's configuration.
func (e *Engine) Options() Options { return e.opts }

// Make hashes pw with the configured digest.  A nil salt is replaced by a
// fresh random salt; a non-nil salt (even an empty one) is used as given,
// which makes Make a pure function of its inputs.
func (e *Engine) Make(pw *password.Password, salt []byte) (*Hash, error) {
	return e.make(nil, e.opts.Digest, pw, salt)
}

// MakeWith hashes pw with a caller-supplied digest instance of the given
// kind, e.g. one chosen at runtime from a parsed string.  A nil h, or one
// that is not an instance of kind, fails with [ErrUnknownDigest].  h is reset
// before use.
func (e *Engine) MakeWith(h hash.Hash, kind digest.Kind, pw *password.Password, salt []byte) (*Hash, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil digest instance", ErrUnknownDigest)
	}
	if !kind.Matches(h) {
		return nil, fmt.Errorf("%w: %T is not a %s instance", ErrUnknownDigest, h, kind)
	}
	return e.make(h, kind, pw, salt)
}

func (e *Engine) make(h hash.Hash, kind digest.Kind, pw *password.Password, salt []byte) (*Hash, error) {
	if err := e.checkWeak(kind); err != nil {
		return nil, err
	}
	if h == nil {
		var err error
		if h, err = kind.New(); err != nil {
			return nil, err
		}
	}

	if salt == nil {
		if !e.opts.AllowWeak && random.IsKnownWeak(e.opts.Rand) {
			return nil, fmt.Errorf("%w: random generator %T", ErrKnownWeak, e.opts.Rand)
		}
		var err error
		if salt, err = random.Salt(e.opts.Rand, e.opts.SaltLength); err != nil {
			return nil, fmt.Errorf("hashing: %w", err)
		}
	}

	h.Reset()
	e.opts.Salter(h, pw.Bytes(), salt)
	sum := h.Sum(nil)
	h.Reset()

	return &Hash{salt: append([]byte{}, salt...), sum: sum, digest: kind}, nil
}

func (e *Engine) checkWeak(kind digest.Kind) error {
	if !e.opts.AllowWeak && kind.IsKnownWeak() {
		return fmt.Errorf("%w: digest %s", ErrKnownWeak, kind)
	}
	return nil
}

// Check reports whether pw matches stored.  It recomputes the hash with the
// stored salt and digest and the engine's salter, then compares in length
// constant time.  A stored hash without a resolvable digest fails with
// [ErrUnknownDigest].
func (e *Engine) Check(pw *password.Password, stored *Hash) (bool, error) {
	if stored == nil {
		return false, fmt.Errorf("%w: nil hash", ErrUnknownDigest)
	}
	return e.CheckRaw(pw, stored.sum, stored.salt, stored.digest)
}

// CheckRaw is [Engine.Check] for callers that keep sum, salt and digest
// separately.
func (e *Engine) CheckRaw(pw *password.Password, sum, salt []byte, kind digest.Kind) (bool, error) {
	if !kind.Available() {
		return false, fmt.Errorf("%w: %s", ErrUnknownDigest, kind)
	}
	if salt == nil {
		salt = []byte{}
	}
	candidate, err := e.make(nil, kind, pw, salt)
	if err != nil {
		return false, err
	}
	return LengthConstantEquals(candidate.sum, sum), nil
}

// CheckString parses encoded (either format) and checks pw against it.
func (e *Engine) CheckString(pw *password.Password, encoded string) (bool, error) {
	stored, err := Parse(encoded)
	if err != nil {
		return false, err
	}
	return e.Check(pw, stored)
}

var defaultEngine = &Engine{opts: DefaultOptions()}

// Make hashes pw with the default engine (SHA-512, random 32-byte salt when
// salt is nil).
func Make(pw *password.Password, salt []byte) (*Hash, error) {
	return defaultEngine.Make(pw, salt)
}

// Check validates pw against stored with the default engine.
func Check(pw *password.Password, stored *Hash) (bool, error) {
	return defaultEngine.Check(pw, stored)
}
