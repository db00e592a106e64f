package password_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/hasbyte1/go-saltedhash/password"
)

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func TestNew_TakesOwnershipWithoutCopy(t *testing.T) {
	buf := []byte("secret")
	pw := password.New(buf)
	pw.Bytes()[0] = 'S'
	if buf[0] != 'S' {
		t.Error("New must not copy the caller's buffer")
	}
	if pw.Len() != 6 {
		t.Errorf("Len = %d, want 6", pw.Len())
	}
}

func TestRelease_ZeroesBuffer(t *testing.T) {
	buf := []byte("hunter2")
	pw := password.New(buf)
	pw.Release()
	if !isZero(buf) {
		t.Errorf("buffer not zeroed after Release: %q", buf)
	}
	if pw.Len() != 0 {
		t.Errorf("Len after Release = %d, want 0", pw.Len())
	}
	pw.Release() // idempotent
}

func TestSet_ZeroesPreviousBuffer(t *testing.T) {
	old := []byte("old-password")
	pw := password.New(old)
	pw.Set([]byte("new-password"))
	if !isZero(old) {
		t.Errorf("previous buffer not zeroed: %q", old)
	}
	if got := string(pw.Bytes()); got != "new-password" {
		t.Errorf("Bytes = %q, want new-password", got)
	}
}

func TestSet_TruncateInPlace(t *testing.T) {
	buf := []byte("password\n")
	pw := password.New(buf)
	defer pw.Release()

	pw.Set(pw.Bytes()[:8])
	if got := string(pw.Bytes()); got != "password" {
		t.Fatalf("Bytes = %q, want password", got)
	}
	if buf[8] != 0 {
		t.Errorf("dropped tail not zeroed: %q", buf)
	}

	// Setting the same slice again keeps the contents.
	pw.Set(pw.Bytes())
	if got := string(pw.Bytes()); got != "password" {
		t.Errorf("Bytes after re-Set = %q", got)
	}
}

func TestSet_TruncateSharedDetaches(t *testing.T) {
	buf := []byte("password\n")
	a := password.New(buf)
	b := a.Clone()
	defer b.Release()

	a.Set(a.Bytes()[:8])
	if string(b.Bytes()) != "password\n" {
		t.Errorf("other owner affected: %q", b.Bytes())
	}
	if string(a.Bytes()) != "password" {
		t.Errorf("Bytes = %q", a.Bytes())
	}
}

func TestClone_ZeroesOnlyAfterLastOwner(t *testing.T) {
	buf := []byte("shared")
	a := password.New(buf)
	b := a.Clone()

	a.Release()
	if isZero(buf) {
		t.Fatal("buffer zeroed while a clone still owns it")
	}
	if !bytes.Equal(b.Bytes(), []byte("shared")) {
		t.Errorf("clone lost contents: %q", b.Bytes())
	}

	b.Release()
	if !isZero(buf) {
		t.Errorf("buffer not zeroed after last owner released: %q", buf)
	}
}

func TestSet_OnSharedHandleDetaches(t *testing.T) {
	buf := []byte("shared")
	a := password.New(buf)
	b := a.Clone()

	a.Set([]byte("mine"))
	if string(b.Bytes()) != "shared" {
		t.Errorf("other owner affected by Set: %q", b.Bytes())
	}
	if string(a.Bytes()) != "mine" {
		t.Errorf("Set did not apply: %q", a.Bytes())
	}
	b.Release()
	if !isZero(buf) {
		t.Error("detached buffer not zeroed once its last owner released it")
	}
}

func TestFromString_Copies(t *testing.T) {
	pw := password.FromString("hello")
	defer pw.Release()
	if string(pw.Bytes()) != "hello" {
		t.Errorf("Bytes = %q", pw.Bytes())
	}
}

func TestString_IsRedacted(t *testing.T) {
	pw := password.FromString("do-not-print")
	defer pw.Release()
	if s := fmt.Sprint(pw); s != "[REDACTED]" {
		t.Errorf("fmt output = %q", s)
	}
}
