package hashing_test

import (
	"testing"

	"github.com/hasbyte1/go-saltedhash/hashing"
)

func TestLengthConstantEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"both empty", []byte{}, []byte{}, true},
		{"both nil", nil, nil, true},
		{"nil and empty", nil, []byte{}, true},
		{"equal", []byte("abc"), []byte("abc"), true},
		{"first byte differs", []byte("xbc"), []byte("abc"), false},
		{"last byte differs", []byte("abx"), []byte("abc"), false},
		{"prefix", []byte("ab"), []byte("abc"), false},
		{"longer", []byte("abcd"), []byte("abc"), false},
		{"empty vs non-empty", []byte{}, []byte{0}, false},
		{"single bit", []byte{0x80}, []byte{0x00}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hashing.LengthConstantEquals(tt.a, tt.b); got != tt.want {
				t.Errorf("LengthConstantEquals(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := hashing.LengthConstantEquals(tt.b, tt.a); got != tt.want {
				t.Errorf("not symmetric for %q, %q", tt.a, tt.b)
			}
		})
	}
}
