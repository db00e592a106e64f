package hashing

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/hasbyte1/go-saltedhash/digest"
)

// legacyDESLen is the length of a traditional DES crypt(3) string: two salt
// characters followed by eleven hash characters.
const legacyDESLen = 13

// BracketString encodes h as
//
//	[<CODE>]<base64 salt>$<base64 hash>
//
// using standard padded base64, e.g. "[SHA512]d93T...ULle$my7M...5RG".
// An empty salt or sum fails with [ErrInvalidHash]: [Parse] could not read
// the result back.
func (h *Hash) BracketString() (string, error) {
	code, err := h.digest.BracketCode()
	if err != nil {
		return "", err
	}
	if err := h.checkEncodable(); err != nil {
		return "", err
	}
	return "[" + code + "]" + encodeParts(h.salt, h.sum), nil
}

// CryptString encodes h in crypt(3) layout,
//
//	$<ID>$<base64 salt>$<base64 hash>
//
// Only digests with a crypt(3) id (MD5 "1", SHA256 "5", SHA512 "6") can be
// encoded; others fail with [ErrUnknownDigest].  The salt and hash use
// standard padded base64, not the crypt-specific alphabet, so strings are not
// interchangeable with glibc's SHA-crypt.
func (h *Hash) CryptString() (string, error) {
	code, err := h.digest.CryptCode()
	if err != nil {
		return "", err
	}
	if err := h.checkEncodable(); err != nil {
		return "", err
	}
	return "$" + code + "$" + encodeParts(h.salt, h.sum), nil
}

// String returns the bracket encoding, or "" if it cannot be encoded.
func (h *Hash) String() string {
	s, _ := h.BracketString()
	return s
}

func (h *Hash) checkEncodable() error {
	if len(h.salt) == 0 || len(h.sum) == 0 {
		return fmt.Errorf("%w: empty salt or hash segment", ErrInvalidHash)
	}
	return nil
}

func encodeParts(salt, sum []byte) string {
	return base64.StdEncoding.EncodeToString(salt) + "$" + base64.StdEncoding.EncodeToString(sum)
}

// Parse decodes a hash string in either format:
//
//   - a leading '[' selects [ParseBracket];
//   - a leading '$', or a total length of 13, selects [ParseCrypt];
//   - anything else fails with [ErrInvalidHash].
func Parse(s string) (*Hash, error) {
	switch {
	case strings.HasPrefix(s, "["):
		return ParseBracket(s)
	case strings.HasPrefix(s, "$"), len(s) == legacyDESLen:
		return ParseCrypt(s)
	default:
		return nil, fmt.Errorf("%w: expected '[' or '$' prefix", ErrInvalidHash)
	}
}

// ParseBracket decodes "[CODE]salt$hash".
func ParseBracket(s string) (*Hash, error) {
	rest, ok := strings.CutPrefix(s, "[")
	if !ok {
		return nil, fmt.Errorf("%w: bracket format must start with '['", ErrInvalidHash)
	}
	code, rest, ok := strings.Cut(rest, "]")
	if !ok {
		return nil, fmt.Errorf("%w: missing ']'", ErrInvalidHash)
	}
	saltPart, sumPart, ok := strings.Cut(rest, "$")
	if !ok {
		return nil, fmt.Errorf("%w: missing '$' between salt and hash", ErrInvalidHash)
	}
	salt, sum, err := decodeParts(saltPart, sumPart)
	if err != nil {
		return nil, err
	}
	kind, err := digest.FromBracketCode(code)
	if err != nil {
		return nil, err
	}
	return &Hash{salt: salt, sum: sum, digest: kind}, nil
}

// ParseCrypt decodes "$ID$salt$hash".  A 13-character string without the
// leading '$' is recognised as traditional DES crypt and rejected with
// [ErrLegacyDES].
func ParseCrypt(s string) (*Hash, error) {
	if len(s) == legacyDESLen && !strings.HasPrefix(s, "$") {
		return nil, fmt.Errorf("%w: %d-character DES string", ErrLegacyDES, legacyDESLen)
	}
	rest, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, fmt.Errorf("%w: crypt format must start with '$'", ErrInvalidHash)
	}
	parts := strings.SplitN(rest, "$", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected $id$salt$hash, got %d segments", ErrInvalidHash, len(parts))
	}
	kind, err := digest.FromCryptCode(parts[0])
	if err != nil {
		return nil, err
	}
	salt, sum, err := decodeParts(parts[1], parts[2])
	if err != nil {
		return nil, err
	}
	return &Hash{salt: salt, sum: sum, digest: kind}, nil
}

func decodeParts(saltPart, sumPart string) (salt, sum []byte, err error) {
	if saltPart == "" || sumPart == "" {
		return nil, nil, fmt.Errorf("%w: empty salt or hash segment", ErrInvalidHash)
	}
	if salt, err = base64.StdEncoding.DecodeString(saltPart); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid salt base64: %v", ErrInvalidHash, err)
	}
	if sum, err = base64.StdEncoding.DecodeString(sumPart); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid hash base64: %v", ErrInvalidHash, err)
	}
	return salt, sum, nil
}
