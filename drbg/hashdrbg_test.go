package drbg_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"

	"github.com/hasbyte1/go-saltedhash/digest"
	"github.com/hasbyte1/go-saltedhash/drbg"
)

// seqSource hands out the byte sequence 0, 1, 2, ... across calls so that
// DRBG output is reproducible.
type seqSource struct {
	mu    sync.Mutex
	next  int
	calls []call
	fail  bool
}

type call struct {
	n  int
	pr bool
}

func (s *seqSource) ReadEntropy(p []byte, pr bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("%w: unplugged", drbg.ErrEntropy)
	}
	s.calls = append(s.calls, call{len(p), pr})
	for i := range p {
		p[i] = byte(s.next + i)
	}
	s.next += len(p)
	return nil
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func newDRBG(t *testing.T, opts drbg.Options) *drbg.HashDRBG {
	t.Helper()
	d, err := drbg.New(opts)
	if err != nil {
		t.Fatalf("drbg.New: %v", err)
	}
	return d
}

// Expected values come from an independent implementation of SP 800-90A
// Hash_DRBG fed with the same entropy sequence.
func TestHashDRBG_KnownAnswer_SHA256(t *testing.T) {
	src := &seqSource{}
	d := newDRBG(t, drbg.Options{Digest: digest.SHA256, Personalization: []byte("test"), Entropy: src})
	if d.SeedLen() != 55 {
		t.Fatalf("SeedLen = %d, want 55", d.SeedLen())
	}

	a := make([]byte, 32)
	if _, err := d.Read(a); err != nil {
		t.Fatal(err)
	}
	want := mustHex(t, "06572127c5404b9b93b87e454d2e08adf0502d3a43f922a5e184963114815c3b")
	if !bytes.Equal(a, want) {
		t.Errorf("first output\n got %x\nwant %x", a, want)
	}

	b := make([]byte, 64)
	if err := d.Generate(b, false, []byte("extra")); err != nil {
		t.Fatal(err)
	}
	want = mustHex(t, "41e9c693ca7554e6a6a3ec9e3c5922b40a73203091206e070023ae1eb9c96dcc"+
		"41c76bd0eeb4af50d1a5ce836350c7e2bc0a04b88be2d88a7664ceb4726fc569")
	if !bytes.Equal(b, want) {
		t.Errorf("output with extra input\n got %x\nwant %x", b, want)
	}

	c := make([]byte, 16)
	if err := d.Generate(c, true, nil); err != nil {
		t.Fatal(err)
	}
	want = mustHex(t, "8782965b6acd6d80faedd4d99781bdd9")
	if !bytes.Equal(c, want) {
		t.Errorf("prediction-resistant output\n got %x\nwant %x", c, want)
	}

	wantCalls := []call{{82, false}, {55, true}}
	if fmt.Sprint(src.calls) != fmt.Sprint(wantCalls) {
		t.Errorf("entropy calls = %v, want %v", src.calls, wantCalls)
	}
}

func TestHashDRBG_KnownAnswer_SHA512(t *testing.T) {
	d := newDRBG(t, drbg.Options{Entropy: &seqSource{}})
	if d.SeedLen() != 111 || d.Digest() != digest.SHA512 {
		t.Fatalf("defaults not applied: seedlen=%d digest=%v", d.SeedLen(), d.Digest())
	}

	a := make([]byte, 100)
	d.Read(a)
	want := mustHex(t, "c0b633b5d345f83499678026d77dfe25e7df460e23eb611ba5f9647ff85438cc"+
		"db9d6370477d65b4d7d0abc20e74190e5a4e7f50186cf05fba075edac7eebdf8"+
		"735916fb6f9e3dee400a9f4ca7607aff8dfd18d9808579948010fa7ecfc85167"+
		"2f6ec477")
	if !bytes.Equal(a, want) {
		t.Errorf("multi-block output\n got %x\nwant %x", a, want)
	}

	b := make([]byte, 7)
	d.Read(b)
	if want := mustHex(t, "f7049144cbfff0"); !bytes.Equal(b, want) {
		t.Errorf("partial-block output got %x want %x", b, want)
	}
}

func TestHashDRBG_ReseedInterval(t *testing.T) {
	src := &seqSource{}
	d := newDRBG(t, drbg.Options{
		Digest:          digest.SHA1,
		Personalization: []byte{},
		Entropy:         src,
		MaxGenerations:  2,
	})

	wants := []string{
		"eef5cd9b692d226922bb4d5cccdd45b863c78133",
		"8a1dab472880d3bcd4d748f00673d3bdcdca7b39",
		"2f6e8e8323d87535b9ba05f7ba860aedd480393e",
	}
	for i, w := range wants {
		out := make([]byte, 20)
		d.Read(out)
		if hex.EncodeToString(out) != w {
			t.Errorf("read %d = %x, want %s", i, out, w)
		}
	}
	if len(src.calls) != 2 || src.calls[1] != (call{55, false}) {
		t.Errorf("expected one automatic reseed, entropy calls = %v", src.calls)
	}
}

func TestHashDRBG_LazyInstantiation(t *testing.T) {
	src := &seqSource{}
	d := newDRBG(t, drbg.Options{Entropy: src})
	if len(src.calls) != 0 {
		t.Fatal("New must not touch the entropy source")
	}
	d.Read(make([]byte, 1))
	d.Read(make([]byte, 1))
	if len(src.calls) != 1 {
		t.Errorf("state must be instantiated exactly once, got %d entropy calls", len(src.calls))
	}
}

func TestHashDRBG_ExplicitReseedChangesStream(t *testing.T) {
	a := newDRBG(t, drbg.Options{Entropy: &seqSource{}})
	b := newDRBG(t, drbg.Options{Entropy: &seqSource{}})
	if err := b.Reseed([]byte("additional")); err != nil {
		t.Fatal(err)
	}
	x, y := make([]byte, 32), make([]byte, 32)
	a.Read(x)
	b.Read(y)
	if bytes.Equal(x, y) {
		t.Error("reseeded generator produced the same output")
	}
}

func TestHashDRBG_LargeRead(t *testing.T) {
	d := newDRBG(t, drbg.Options{Entropy: &seqSource{}})
	buf := make([]byte, 1<<17+3)
	n, err := d.Read(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if bytes.Equal(buf[:1<<16], buf[1<<16:1<<17]) {
		t.Error("consecutive requests repeated output")
	}
}

func TestHashDRBG_EntropyFailure(t *testing.T) {
	src := &seqSource{fail: true}
	d := newDRBG(t, drbg.Options{Entropy: src})
	if _, err := d.Read(make([]byte, 8)); !errors.Is(err, drbg.ErrEntropy) {
		t.Fatalf("expected ErrEntropy, got %v", err)
	}
	src.fail = false
	if _, err := d.Read(make([]byte, 8)); err != nil {
		t.Errorf("generator must recover once entropy returns: %v", err)
	}
}

func TestNew_UnsupportedDigest(t *testing.T) {
	for _, k := range []digest.Kind{digest.MD5, digest.SHA3_256, digest.CRC32, digest.ARGON2ID} {
		if _, err := drbg.New(drbg.Options{Digest: k}); !errors.Is(err, drbg.ErrUnsupportedDigest) {
			t.Errorf("%v: expected ErrUnsupportedDigest, got %v", k, err)
		}
	}
}

func TestShared_SameCombinationSameInstance(t *testing.T) {
	src := &seqSource{}
	a, err := drbg.Shared(digest.SHA256, "p", src)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := drbg.Shared(digest.SHA256, "p", src)
	c, _ := drbg.Shared(digest.SHA256, "q", src)
	d, _ := drbg.Shared(digest.SHA384, "p", src)
	if a != b {
		t.Error("same combination must share one instance")
	}
	if a == c || a == d {
		t.Error("distinct combinations must not share state")
	}
	if drbg.Default() != drbg.Default() {
		t.Error("Default must be a singleton")
	}
}

// sliceSource is a value-type source whose slice field makes it unusable as
// a map key.
type sliceSource struct{ pool []byte }

func (s sliceSource) ReadEntropy(p []byte, _ bool) error {
	copy(p, s.pool)
	return nil
}

func TestShared_UncomparableSource(t *testing.T) {
	_, err := drbg.Shared(digest.SHA256, "p", sliceSource{pool: []byte{1, 2, 3}})
	if !errors.Is(err, drbg.ErrUncomparableSource) {
		t.Fatalf("expected ErrUncomparableSource, got %v", err)
	}
	// The same source behind a pointer is accepted.
	if _, err := drbg.Shared(digest.SHA256, "p", &sliceSource{pool: []byte{1, 2, 3}}); err != nil {
		t.Errorf("pointer source: %v", err)
	}
}

func TestDefault_ProducesOutput(t *testing.T) {
	a, b := make([]byte, 32), make([]byte, 32)
	if _, err := drbg.Default().Read(a); err != nil {
		t.Fatal(err)
	}
	drbg.Default().Read(b)
	if bytes.Equal(a, b) {
		t.Error("consecutive reads must differ")
	}
}

const childEnv = "SALTEDHASH_DRBG_CHILD"

// TestDefault_ChildProcess is the body run by TestDefault_DiffersAcrossProcesses
// in a subprocess.
func TestDefault_ChildProcess(t *testing.T) {
	if os.Getenv(childEnv) != "1" {
		t.Skip("helper for TestDefault_DiffersAcrossProcesses")
	}
	out := make([]byte, 32)
	if _, err := drbg.Default().Read(out); err != nil {
		t.Fatal(err)
	}
	fmt.Printf("drbg-output:%x\n", out)
}

func TestDefault_DiffersAcrossProcesses(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns subprocesses")
	}
	run := func() string {
		cmd := exec.Command(os.Args[0], "-test.run=^TestDefault_ChildProcess$", "-test.v")
		cmd.Env = append(os.Environ(), childEnv+"=1")
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("child process: %v\n%s", err, out)
		}
		for _, line := range strings.Split(string(out), "\n") {
			if v, ok := strings.CutPrefix(line, "drbg-output:"); ok {
				return v
			}
		}
		t.Fatalf("child printed no output:\n%s", out)
		return ""
	}
	first, second := run(), run()
	if first == second {
		t.Errorf("two processes produced identical output %s", first)
	}
}
