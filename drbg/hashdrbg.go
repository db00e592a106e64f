package drbg

import (
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hasbyte1/go-saltedhash/digest"
)

const (
	// DefaultPersonalization is mixed into every instantiation that does not
	// supply its own personalization string.
	DefaultPersonalization = "Hash_DRBG personalization string"

	// DefaultMaxGenerations is the number of generate calls between automatic
	// reseeds.  SP 800-90A allows up to 2^48; 2^28 keeps well clear of it.
	DefaultMaxGenerations uint64 = 1 << 28

	// maxRequestBytes is the SP 800-90A per-request output limit (2^19 bits).
	// Longer reads are split into several generate calls.
	maxRequestBytes = 1 << 16

	seedLenShort = 440 / 8
	seedLenLong  = 888 / 8
)

// Options configures a [HashDRBG].
type Options struct {
	// Digest must be SHA1, SHA224, SHA256, SHA384, SHA512, SHA512_224 or
	// SHA512_256.  Default: [digest.SHA512].
	Digest digest.Kind

	// Personalization is mixed into the initial seed.
	// Default: [DefaultPersonalization].
	Personalization []byte

	// Entropy is the seed source.  Default: [System].
	Entropy EntropySource

	// MaxGenerations is the reseed interval.  Default: [DefaultMaxGenerations].
	MaxGenerations uint64

	// Logger receives instantiate and reseed events at debug level.  No
	// secret material is ever logged.  Nil means a private logger that
	// discards output unless Verbose is set.
	Logger *logrus.Logger

	// Verbose enables debug output on the private logger.
	Verbose bool
}

// DefaultOptions returns Options for SHA-512 seeded from [System].
func DefaultOptions() Options {
	return Options{
		Digest:          digest.SHA512,
		Personalization: []byte(DefaultPersonalization),
		Entropy:         System(),
		MaxGenerations:  DefaultMaxGenerations,
	}
}

var approved = map[digest.Kind]bool{
	digest.SHA1:       true,
	digest.SHA224:     true,
	digest.SHA256:     true,
	digest.SHA384:     true,
	digest.SHA512:     true,
	digest.SHA512_224: true,
	digest.SHA512_256: true,
}

// HashDRBG is the Hash_DRBG mechanism of NIST SP 800-90A.
//
// State is instantiated lazily on the first read and then evolves for the
// lifetime of the value; it is never exposed.  All methods are safe for
// concurrent use.
type HashDRBG struct {
	mu sync.Mutex

	kind    digest.Kind
	h       hash.Hash
	seedLen int
	pers    []byte
	entropy EntropySource
	maxGen  uint64
	log     *logrus.Entry

	v, c        []byte
	counter     uint64
	initialized bool
}

// New returns an uninstantiated Hash_DRBG.  Zero-valued fields of opts take
// their defaults.
func New(opts Options) (*HashDRBG, error) {
	def := DefaultOptions()
	if opts.Digest == digest.Unknown {
		opts.Digest = def.Digest
	}
	if opts.Personalization == nil {
		opts.Personalization = def.Personalization
	}
	if opts.Entropy == nil {
		opts.Entropy = def.Entropy
	}
	if opts.MaxGenerations == 0 {
		opts.MaxGenerations = def.MaxGenerations
	}
	if !approved[opts.Digest] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDigest, opts.Digest)
	}
	h, err := opts.Digest.New()
	if err != nil {
		return nil, err
	}

	seedLen := seedLenShort
	if h.Size()*8 >= 384 {
		seedLen = seedLenLong
	}

	return &HashDRBG{
		kind:    opts.Digest,
		h:       h,
		seedLen: seedLen,
		pers:    append([]byte(nil), opts.Personalization...),
		entropy: opts.Entropy,
		maxGen:  opts.MaxGenerations,
		log:     newLogger(opts.Logger, opts.Verbose).WithField("digest", opts.Digest.String()),
	}, nil
}

func newLogger(l *logrus.Logger, verbose bool) *logrus.Logger {
	if l != nil {
		return l
	}
	l = logrus.New()
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetOutput(io.Discard)
	}
	return l
}

// SeedLen returns the internal state length in bytes (55 or 111).
func (d *HashDRBG) SeedLen() int { return d.seedLen }

// Digest returns the underlying digest kind.
func (d *HashDRBG) Digest() digest.Kind { return d.kind }

// Read fills p with random bytes.  It implements [io.Reader] and never
// returns a short read without an error.
func (d *HashDRBG) Read(p []byte) (int, error) {
	if err := d.Generate(p, false, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Generate fills p.  predictionResistance forces a reseed from fresh
// entropy first; extra, when non-empty, is mixed into the state before
// output is produced.
func (d *HashDRBG) Generate(p []byte, predictionResistance bool, extra []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.init(); err != nil {
		return err
	}
	for len(p) > 0 {
		n := min(len(p), maxRequestBytes)
		if err := d.generate(p[:n], predictionResistance, extra); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// Reseed mixes fresh entropy and extra into the state and resets the
// generation counter.
func (d *HashDRBG) Reseed(extra []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.init(); err != nil {
		return err
	}
	return d.reseed(false, extra, "explicit")
}

// init instantiates the state once.  d.mu must be held.
func (d *HashDRBG) init() error {
	if d.initialized {
		return nil
	}
	material := make([]byte, d.seedLen+d.seedLen/2)
	if err := d.entropy.ReadEntropy(material, false); err != nil {
		return err
	}
	entropy, nonce := material[:d.seedLen], material[d.seedLen:]

	d.v = d.hashDF(d.seedLen, entropy, nonce, d.pers)
	d.c = d.hashDF(d.seedLen, []byte{0x00}, d.v)
	d.counter = 1
	d.initialized = true
	clear(material)

	d.log.WithField("seed_len", d.seedLen).Debug("drbg: instantiated")
	return nil
}

func (d *HashDRBG) reseed(predictionResistance bool, extra []byte, reason string) error {
	entropy := make([]byte, d.seedLen)
	if err := d.entropy.ReadEntropy(entropy, predictionResistance); err != nil {
		return err
	}
	v := d.hashDF(d.seedLen, []byte{0x01}, d.v, entropy, extra)
	clear(d.v)
	d.v = v
	d.c = d.hashDF(d.seedLen, []byte{0x00}, d.v)
	clear(entropy)

	d.log.WithFields(logrus.Fields{
		"reason":      reason,
		"generations": d.counter,
	}).Debug("drbg: reseeded")
	d.counter = 1
	return nil
}

func (d *HashDRBG) generate(p []byte, predictionResistance bool, extra []byte) error {
	switch {
	case predictionResistance:
		if err := d.reseed(true, extra, "prediction_resistance"); err != nil {
			return err
		}
		extra = nil
	case d.counter > d.maxGen:
		if err := d.reseed(false, extra, "interval"); err != nil {
			return err
		}
		extra = nil
	}

	if len(extra) > 0 {
		addInto(d.v, d.hashOnce([]byte{0x02}, d.v, extra))
	}

	d.hashgen(p)

	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], d.counter)
	addInto(d.v, d.hashOnce([]byte{0x03}, d.v))
	addInto(d.v, d.c)
	addInto(d.v, ctr[:])
	d.counter++
	return nil
}

// hashgen fills p with Hash(data), Hash(data+1), ... starting at data = V.
func (d *HashDRBG) hashgen(p []byte) {
	data := append([]byte(nil), d.v...)
	one := []byte{1}
	var block []byte
	for len(p) > 0 {
		d.h.Reset()
		d.h.Write(data)
		block = d.h.Sum(block[:0])
		n := copy(p, block)
		p = p[n:]
		addInto(data, one)
	}
	clear(block)
	clear(data)
}

func (d *HashDRBG) hashOnce(parts ...[]byte) []byte {
	d.h.Reset()
	for _, part := range parts {
		d.h.Write(part)
	}
	return d.h.Sum(nil)
}

// hashDF is the Hash_df derivation function of SP 800-90A §10.3.1.
func (d *HashDRBG) hashDF(outLen int, parts ...[]byte) []byte {
	var prefix [5]byte
	prefix[0] = 1
	binary.BigEndian.PutUint32(prefix[1:], uint32(outLen*8))

	out := make([]byte, 0, outLen+d.h.Size())
	for len(out) < outLen {
		d.h.Reset()
		d.h.Write(prefix[:])
		for _, part := range parts {
			d.h.Write(part)
		}
		out = d.h.Sum(out)
		prefix[0]++
	}
	clear(out[outLen:])
	return out[:outLen]
}

// addInto sets dst = (dst + src) mod 2^(8·len(dst)), both big-endian with src
// aligned to the low-order end of dst.
func addInto(dst, src []byte) {
	var carry uint16
	j := len(src) - 1
	for i := len(dst) - 1; i >= 0; i-- {
		sum := uint16(dst[i]) + carry
		if j >= 0 {
			sum += uint16(src[j])
			j--
		}
		dst[i] = byte(sum)
		carry = sum >> 8
	}
}
