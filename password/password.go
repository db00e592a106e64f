// Package password holds raw password bytes in a buffer that is overwritten
// with zeros as soon as it stops being reachable from its owners.
//
// Go strings are immutable and may be copied by the runtime at will, so a
// password that starts life as a string can never be reliably wiped.  Prefer
// [New] with a []byte the caller owns (for example, read straight from a
// terminal) over [FromString].
//
//	pw := password.New(buf) // buf now belongs to pw
//	defer pw.Release()      // zeroes buf
//
// Zeroing is eager and explicit: nothing here relies on the garbage collector
// or on finalizers.  This is a best-effort defence against memory disclosure,
// not a guarantee against a privileged concurrent reader.
package password

import "sync"

// buffer is the shared backing store of one or more [Password] handles.
type buffer struct {
	mu   sync.Mutex
	data []byte
	refs int
}

// Password is a handle on a reference-counted, zero-on-release byte buffer.
//
// Handles produced by [Password.Clone] share the same buffer; the bytes are
// zeroed only when the last handle is released.  A single handle is not
// safe for concurrent mutation, but distinct handles over the same buffer may
// be released from different goroutines.
type Password struct {
	buf *buffer
}

// New wraps b without copying it.  Ownership of b passes to the returned
// Password: the caller must not keep using b after [Password.Release].
func New(b []byte) *Password {
	return &Password{buf: &buffer{data: b, refs: 1}}
}

// FromString copies s into a fresh buffer.
//
// The original string stays in memory until the runtime reclaims it and
// cannot be wiped by this package.  Use [New] whenever the password is
// already available as a []byte.
func FromString(s string) *Password {
	return New([]byte(s))
}

// Bytes returns the current contents.  The slice aliases the internal buffer
// and becomes zeroed when the buffer is released; copy it if it must outlive
// the Password.
func (p *Password) Bytes() []byte {
	if p == nil || p.buf == nil {
		return nil
	}
	p.buf.mu.Lock()
	defer p.buf.mu.Unlock()
	return p.buf.data
}

// Len returns the number of password bytes.
func (p *Password) Len() int {
	return len(p.Bytes())
}

// String never reveals the contents; it exists so that passwords printed by
// accident (fmt, logs) stay redacted.
func (p *Password) String() string {
	return "[REDACTED]"
}

// Set replaces the contents with b, taking ownership of b.
//
// When p is the only owner, the previous buffer is zeroed first.  When the
// buffer is shared with clones, p detaches from it (copy-on-write) and the
// remaining owners keep the old contents untouched.
//
// b may be a re-slice of the current contents starting at the same byte
// (e.g. Bytes()[:n]); then only the bytes past b are zeroed.  Any other
// overlap with the current buffer is not supported.
func (p *Password) Set(b []byte) {
	if p.buf != nil {
		if p.resliceInPlace(b) {
			return
		}
		p.release()
	}
	p.buf = &buffer{data: b, refs: 1}
}

// resliceInPlace handles Set with a b that starts at the sole owner's
// buffer.  It reports whether it did.
func (p *Password) resliceInPlace(b []byte) bool {
	buf := p.buf
	buf.mu.Lock()
	defer buf.mu.Unlock()
	if buf.refs != 1 || len(b) == 0 || len(buf.data) == 0 || &b[0] != &buf.data[0] {
		return false
	}
	if len(buf.data) > len(b) {
		Zero(buf.data[len(b):])
	}
	buf.data = b
	return true
}

// Clone returns another owner of the same buffer.
func (p *Password) Clone() *Password {
	if p == nil || p.buf == nil {
		return &Password{}
	}
	p.buf.mu.Lock()
	p.buf.refs++
	p.buf.mu.Unlock()
	return &Password{buf: p.buf}
}

// Release drops this handle's ownership.  The bytes are zeroed when the last
// owner releases them.  Calling Release more than once on the same handle is
// a no-op.
func (p *Password) Release() {
	if p == nil || p.buf == nil {
		return
	}
	p.release()
	p.buf = nil
}

func (p *Password) release() {
	b := p.buf
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refs--
	if b.refs == 0 {
		Zero(b.data)
		b.data = nil
	}
}

// Zero overwrites b with zero bytes.
func Zero(b []byte) {
	clear(b)
}
