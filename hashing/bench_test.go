package hashing_test

import (
	"testing"

	"github.com/hasbyte1/go-saltedhash/digest"
	"github.com/hasbyte1/go-saltedhash/hashing"
	"github.com/hasbyte1/go-saltedhash/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Engine benchmarks
// ──────────────────────────────────────────────────────────────────────────────
//
// The fast digests measure salt generation and framing overhead; the stretched
// ones measure the real cost of a login.

func benchmarkMake(b *testing.B, k digest.Kind) {
	e := newTestEngine(b, hashing.Options{Digest: k})
	pw := password.FromString("bench-password")
	defer pw.Release()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Make(pw, nil)
	}
}

func BenchmarkMake_SHA256(b *testing.B)      { benchmarkMake(b, digest.SHA256) }
func BenchmarkMake_SHA512(b *testing.B)      { benchmarkMake(b, digest.SHA512) }
func BenchmarkMake_BLAKE2B_512(b *testing.B) { benchmarkMake(b, digest.BLAKE2B_512) }
func BenchmarkMake_Argon2id(b *testing.B)    { benchmarkMake(b, digest.ARGON2ID) }

func BenchmarkCheck_SHA512(b *testing.B) {
	pw := password.FromString("bench-password")
	defer pw.Release()
	h, _ := hashing.Make(pw, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = hashing.Check(pw, h)
	}
}

func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = hashing.Parse(hunter2Bracket)
	}
}

func BenchmarkLengthConstantEquals(b *testing.B) {
	x := make([]byte, 64)
	y := make([]byte, 64)
	for i := 0; i < b.N; i++ {
		_ = hashing.LengthConstantEquals(x, y)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Manager benchmarks
// ──────────────────────────────────────────────────────────────────────────────

func BenchmarkManager_Make(b *testing.B) {
	m := newTestManager(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Make("bench-password")
	}
}

func BenchmarkManager_Check(b *testing.B) {
	m := newTestManager(b)
	hash, _ := m.Make("bench-password")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Check("bench-password", hash)
	}
}
