package random_test

import (
	"bytes"
	"errors"
	mathrand "math/rand"
	mathrandv2 "math/rand/v2"
	"strings"
	"testing"

	"github.com/hasbyte1/go-saltedhash/drbg"
	"github.com/hasbyte1/go-saltedhash/random"
)

func TestSalt_Lengths(t *testing.T) {
	tests := []struct {
		length  int
		wantErr bool
	}{
		{0, false},
		{4, false},
		{32, false},
		{64, false},
		{1, true},
		{30, true},
		{-4, true},
	}
	for _, tt := range tests {
		salt, err := random.Salt(nil, tt.length)
		if tt.wantErr {
			if !errors.Is(err, random.ErrInvalidArgument) {
				t.Errorf("Salt(%d): expected ErrInvalidArgument, got %v", tt.length, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Salt(%d): %v", tt.length, err)
			continue
		}
		if salt == nil || len(salt) != tt.length {
			t.Errorf("Salt(%d) = %v (len %d)", tt.length, salt, len(salt))
		}
	}
}

func TestSalt_Unique(t *testing.T) {
	a, _ := random.Salt(nil, random.DefaultSaltLength)
	b, _ := random.Salt(nil, random.DefaultSaltLength)
	if bytes.Equal(a, b) {
		t.Error("two salts must differ")
	}
}

func TestSalt_CustomSource(t *testing.T) {
	src := bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	salt, err := random.Salt(src, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(salt, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("salt = %v", salt)
	}
	if _, err := random.Salt(src, 4); err == nil {
		t.Error("exhausted source must fail")
	}
}

func TestPassword_Defaults(t *testing.T) {
	pw, err := random.Password(nil, random.DefaultPasswordLength, "")
	if err != nil {
		t.Fatal(err)
	}
	defer pw.Release()
	if pw.Len() != 20 {
		t.Errorf("Len = %d, want 20", pw.Len())
	}
	for _, c := range pw.Bytes() {
		if !strings.ContainsRune(random.Alphanumeric, rune(c)) {
			t.Errorf("unexpected character %q", c)
		}
	}
}

func TestPassword_Charset(t *testing.T) {
	pw, err := random.Password(nil, 200, "ab")
	if err != nil {
		t.Fatal(err)
	}
	got := string(pw.Bytes())
	if strings.Trim(got, "ab") != "" {
		t.Errorf("characters outside charset: %q", got)
	}
	if !strings.Contains(got, "a") || !strings.Contains(got, "b") {
		t.Errorf("200 draws from a 2-char set should hit both: %q", got)
	}
}

func TestPassword_Deterministic(t *testing.T) {
	// uint32 values 0, 1, 2, 3 little-endian select charset[0..3].
	src := bytes.NewReader([]byte{0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0})
	pw, err := random.Password(src, 4, "wxyz")
	if err != nil {
		t.Fatal(err)
	}
	if string(pw.Bytes()) != "wxyz" {
		t.Errorf("password = %q, want wxyz", pw.Bytes())
	}
}

func TestPassword_InvalidArguments(t *testing.T) {
	if _, err := random.Password(nil, 10, "a"); !errors.Is(err, random.ErrInvalidArgument) {
		t.Errorf("1-char charset: %v", err)
	}
	if _, err := random.Password(nil, -1, ""); !errors.Is(err, random.ErrInvalidArgument) {
		t.Errorf("negative length: %v", err)
	}
	if _, err := random.Password(bytes.NewReader(nil), 4, ""); err == nil {
		t.Error("source failure must surface")
	}
}

func TestToken(t *testing.T) {
	tok, err := random.Token(nil, random.DefaultTokenStrength)
	if err != nil {
		t.Fatal(err)
	}
	if len(tok) != 48 {
		t.Errorf("len = %d, want 48", len(tok))
	}
	if strings.ContainsAny(tok, "+/=") {
		t.Errorf("token contains URL-unsafe characters: %q", tok)
	}
	raw, err := random.DecodeToken(tok)
	if err != nil || len(raw) != 36 {
		t.Errorf("DecodeToken = %d bytes, %v", len(raw), err)
	}
}

func TestToken_Alphabet(t *testing.T) {
	// Standard base64 of these bytes is "+/+//w==".
	src := bytes.NewReader([]byte{0xfb, 0xff, 0xbf, 0xff})
	tok, err := random.Token(src, 4)
	if err != nil {
		t.Fatal(err)
	}
	if tok != "-_-__w~~" {
		t.Errorf("token = %q, want -_-__w~~", tok)
	}
}

func TestToken_Boundaries(t *testing.T) {
	tok, err := random.Token(nil, 0)
	if err != nil || tok != "" {
		t.Errorf("Token(0) = %q, %v", tok, err)
	}
	if _, err := random.Token(nil, 5); !errors.Is(err, random.ErrInvalidArgument) {
		t.Errorf("Token(5): %v", err)
	}
}

func TestUint32Reader(t *testing.T) {
	r := random.Uint32Reader(mathrandv2.New(mathrandv2.NewPCG(1, 2)))
	salt, err := random.Salt(r, 16)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := random.Salt(random.Uint32Reader(mathrandv2.New(mathrandv2.NewPCG(1, 2))), 16)
	if !bytes.Equal(salt, again) {
		t.Error("same seed must give the same bytes")
	}
}

func TestIsKnownWeak(t *testing.T) {
	tests := []struct {
		name string
		r    any
		weak bool
	}{
		{"math/rand", mathrand.New(mathrand.NewSource(1)), true},
		{"math/rand/v2", mathrandv2.New(mathrandv2.NewPCG(1, 2)), true},
		{"pcg", mathrandv2.NewPCG(1, 2), true},
		{"wrapped", random.Uint32Reader(mathrandv2.New(mathrandv2.NewPCG(1, 2))), true},
		{"drbg", drbg.Default(), false},
		{"chacha8", mathrandv2.NewChaCha8([32]byte{}), false},
		{"bytes", bytes.NewReader(nil), false},
	}
	for _, tt := range tests {
		if got := random.IsKnownWeak(tt.r); got != tt.weak {
			t.Errorf("%s: IsKnownWeak = %v, want %v", tt.name, got, tt.weak)
		}
	}
}
