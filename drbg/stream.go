package drbg

import (
	"io"
	"iter"
	"math/bits"
)

// Unsigned is the set of element types a [Stream] can produce.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Stream presents a byte-oriented generator as an infinite sequence of
// unsigned integers, decoded little-endian from consecutive reads.
//
// The front element is produced on first access, not at construction.  The
// sequence cannot be restarted.  A Stream is not safe for concurrent use.
type Stream[T Unsigned] struct {
	r      io.Reader
	buf    [8]byte
	size   int
	front  T
	primed bool
	err    error
}

// NewStream wraps r; nil means [Default].
func NewStream[T Unsigned](r io.Reader) *Stream[T] {
	if r == nil {
		r = Default()
	}
	return &Stream[T]{r: r, size: bits.Len64(uint64(^T(0))) / 8}
}

// Empty always reports false: the sequence is infinite.
func (s *Stream[T]) Empty() bool { return false }

// Front returns the current element, generating it if needed.  After a read
// error it returns zero and [Stream.Err] reports the failure.
func (s *Stream[T]) Front() T {
	if !s.primed {
		s.fill()
	}
	return s.front
}

// PopFront discards the current element; the next one is generated lazily.
func (s *Stream[T]) PopFront() {
	if !s.primed {
		s.fill()
	}
	s.primed = false
}

// Next returns the current element and advances.
func (s *Stream[T]) Next() T {
	v := s.Front()
	s.PopFront()
	return v
}

// Err returns the first read error, if any.
func (s *Stream[T]) Err() error { return s.err }

// All yields elements until the consumer stops or a read fails.
func (s *Stream[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v := s.Next()
			if s.err != nil || !yield(v) {
				return
			}
		}
	}
}

func (s *Stream[T]) fill() {
	s.primed = true
	s.front = 0
	if s.err != nil {
		return
	}
	b := s.buf[:s.size]
	if _, err := io.ReadFull(s.r, b); err != nil {
		s.err = err
		return
	}
	var v T
	for i := s.size - 1; i >= 0; i-- {
		v = v<<8 | T(b[i])
	}
	s.front = v
	clear(b)
}

// Blocks presents a byte-oriented generator as an infinite sequence of
// fixed-size byte blocks, produced lazily like [Stream].
type Blocks struct {
	r      io.Reader
	front  []byte
	primed bool
	err    error
}

// NewBlocks wraps r with blocks of size bytes; nil r means [Default].
func NewBlocks(r io.Reader, size int) *Blocks {
	if r == nil {
		r = Default()
	}
	return &Blocks{r: r, front: make([]byte, size)}
}

// Front returns the current block.  The slice is reused by the next
// generation; copy it to keep it.
func (b *Blocks) Front() []byte {
	if !b.primed {
		b.primed = true
		if b.err == nil {
			if _, err := io.ReadFull(b.r, b.front); err != nil {
				b.err = err
				clear(b.front)
			}
		}
	}
	return b.front
}

// PopFront discards the current block.
func (b *Blocks) PopFront() {
	b.Front()
	b.primed = false
}

// Err returns the first read error, if any.
func (b *Blocks) Err() error { return b.err }
