// Package random generates salts, passwords and tokens.
//
// Every generator takes an [io.Reader] as its random source.  Passing nil
// selects [drbg.Default], the shared Hash_DRBG seeded from system entropy.
// Generators that only emit integers can be adapted with [Uint32Reader].
package random

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hasbyte1/go-saltedhash/drbg"
	"github.com/hasbyte1/go-saltedhash/password"
)

const (
	// DefaultSaltLength is the salt size in bytes used when none is given.
	DefaultSaltLength = 32

	// DefaultPasswordLength is the length of generated passwords.
	DefaultPasswordLength = 20

	// DefaultTokenStrength is the number of random bytes behind a token.
	DefaultTokenStrength = 36

	// Alphanumeric is the default password charset.
	Alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ErrInvalidArgument is returned for lengths that are not a multiple of 4,
// negative lengths, and charsets with fewer than two characters.
var ErrInvalidArgument = errors.New("random: invalid argument")

// tokenEncoding is standard padded base64 with '+', '/' and '=' replaced by
// '-', '_' and '~' so tokens survive URLs and form fields unescaped.
var tokenEncoding = base64.NewEncoding(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_",
).WithPadding('~')

func source(r io.Reader) io.Reader {
	if r == nil {
		return drbg.Default()
	}
	return r
}

func checkMultipleOf4(what string, n int) error {
	if n < 0 || n%4 != 0 {
		return fmt.Errorf("%w: %s %d must be a non-negative multiple of 4", ErrInvalidArgument, what, n)
	}
	return nil
}

// Salt returns length random bytes.  length must be a multiple of 4; zero
// yields an empty, non-nil slice.
func Salt(r io.Reader, length int) ([]byte, error) {
	if err := checkMultipleOf4("salt length", length); err != nil {
		return nil, err
	}
	salt := make([]byte, length)
	if _, err := io.ReadFull(source(r), salt); err != nil {
		return nil, fmt.Errorf("random: failed to generate salt: %w", err)
	}
	return salt, nil
}

// Password returns a password of length characters drawn from charset
// (default [Alphanumeric] when empty).
//
// Each character is charset[u % len(charset)] for a fresh random uint32 u.
// The modulo bias is below 2^-24 for any charset under 256 characters.
func Password(r io.Reader, length int, charset string) (*password.Password, error) {
	if charset == "" {
		charset = Alphanumeric
	}
	if len(charset) < 2 {
		return nil, fmt.Errorf("%w: charset needs at least 2 characters, got %d", ErrInvalidArgument, len(charset))
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: password length %d", ErrInvalidArgument, length)
	}

	s := drbg.NewStream[uint32](source(r))
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = charset[s.Next()%uint32(len(charset))]
	}
	if err := s.Err(); err != nil {
		password.Zero(buf)
		return nil, fmt.Errorf("random: failed to generate password: %w", err)
	}
	return password.New(buf), nil
}

// Token returns strength random bytes encoded with the URL-safe token
// alphabet.  strength must be a multiple of 4.
func Token(r io.Reader, strength int) (string, error) {
	raw, err := Salt(r, strength)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			return "", fmt.Errorf("%w: token strength %d must be a non-negative multiple of 4", ErrInvalidArgument, strength)
		}
		return "", err
	}
	defer password.Zero(raw)
	return tokenEncoding.EncodeToString(raw), nil
}

// DecodeToken reverses the token alphabet.  It is intended for tests and for
// callers that need the raw bytes back.
func DecodeToken(tok string) ([]byte, error) {
	if strings.ContainsAny(tok, "+/=") {
		return nil, fmt.Errorf("%w: not a token", ErrInvalidArgument)
	}
	return tokenEncoding.DecodeString(tok)
}
