package hashing

import (
	"fmt"
	"sync"

	"github.com/hasbyte1/go-saltedhash/password"
)

// Manager is a registry of format drivers with one default.
//
// New hashes are produced by the default driver; stored hashes are checked
// by whichever driver their prefix selects, so bracket and crypt strings can
// coexist in one store while it migrates from one to the other.
//
// # Thread safety
//
// All Manager methods are safe for concurrent use.  A [sync.RWMutex]
// serialises RegisterDriver and SetDefaultDriver against everything else.
type Manager struct {
	mu      sync.RWMutex
	drivers map[DriverName]Hasher
	def     DriverName
}

// NewManager creates an empty Manager whose default is defaultDriver.
// Drivers must be registered before any hashing call.
func NewManager(defaultDriver DriverName) *Manager {
	return &Manager{
		drivers: make(map[DriverName]Hasher),
		def:     defaultDriver,
	}
}

// NewDefaultManager registers a bracket and a crypt driver built from opts
// and makes the bracket driver the default.  If opts.Digest has no crypt(3)
// id, the crypt driver falls back to SHA-512 so crypt strings stay
// verifiable.
func NewDefaultManager(opts Options) (*Manager, error) {
	bracket, err := NewBracketHasher(opts)
	if err != nil {
		return nil, fmt.Errorf("hashing: failed to create bracket hasher: %w", err)
	}
	cryptOpts := bracket.Engine().Options()
	if _, err := cryptOpts.Digest.CryptCode(); err != nil {
		cryptOpts.Digest = DefaultDigest
	}
	crypt, err := NewCryptHasher(cryptOpts)
	if err != nil {
		return nil, fmt.Errorf("hashing: failed to create crypt hasher: %w", err)
	}

	m := NewManager(DriverBracket)
	_ = m.RegisterDriver(DriverBracket, bracket)
	_ = m.RegisterDriver(DriverCrypt, crypt)
	return m, nil
}

// RegisterDriver adds or replaces a named driver.
func (m *Manager) RegisterDriver(name DriverName, h Hasher) error {
	if name == "" {
		return ErrEmptyDriverName
	}
	if h == nil {
		return ErrNilHasher
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[name] = h
	return nil
}

// Driver returns the driver registered under name.
func (m *Manager) Driver(name DriverName) (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDriverNotFound, name)
	}
	return h, nil
}

// SetDefaultDriver changes the driver used for new hashes.  The driver must
// already be registered.
func (m *Manager) SetDefaultDriver(name DriverName) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[name]; !ok {
		return fmt.Errorf("%w: %q is not registered", ErrDriverNotFound, name)
	}
	m.def = name
	return nil
}

// DefaultDriver returns the name of the default driver.
func (m *Manager) DefaultDriver() DriverName {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def
}

// Make hashes plain with the default driver.
func (m *Manager) Make(plain string) (string, error) {
	h, err := m.Driver(m.DefaultDriver())
	if err != nil {
		return "", err
	}
	return h.Make(plain)
}

// MakePassword is Make for a caller-owned [password.Password].
func (m *Manager) MakePassword(pw *password.Password) (string, error) {
	h, err := m.Driver(m.DefaultDriver())
	if err != nil {
		return "", err
	}
	if ph, ok := h.(PasswordHasher); ok {
		return ph.MakePassword(pw)
	}
	return h.Make(string(pw.Bytes()))
}

// Check verifies plain against hash using the driver its format selects.
// Unrecognised formats fail with [ErrInvalidHash].
func (m *Manager) Check(plain, hash string) (bool, error) {
	h, err := m.resolve(hash)
	if err != nil {
		return false, err
	}
	return h.Check(plain, hash)
}

// CheckPassword is Check for a caller-owned [password.Password].
func (m *Manager) CheckPassword(pw *password.Password, hash string) (bool, error) {
	h, err := m.resolve(hash)
	if err != nil {
		return false, err
	}
	if ph, ok := h.(PasswordHasher); ok {
		return ph.CheckPassword(pw, hash)
	}
	return h.Check(string(pw.Bytes()), hash)
}

// NeedsRehash reports whether hash should be replaced: it is in a format
// other than the default, or its driver reports outdated parameters.
func (m *Manager) NeedsRehash(hash string) (bool, error) {
	detected, ok := DetectDriver(hash)
	if !ok {
		return false, ErrInvalidHash
	}
	if detected != m.DefaultDriver() {
		return true, nil
	}
	h, err := m.Driver(detected)
	if err != nil {
		return false, err
	}
	return h.NeedsRehash(hash)
}

// Info extracts metadata using the driver the format selects.
func (m *Manager) Info(hash string) (HashInfo, error) {
	h, err := m.resolve(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return h.Info(hash)
}

// Upgrade checks plain against hash and, on success, returns a fresh hash
// from the default driver when [Manager.NeedsRehash] says so.  The returned
// string is empty when no upgrade is due or the password does not match.
func (m *Manager) Upgrade(plain, hash string) (ok bool, upgraded string, err error) {
	pw := password.FromString(plain)
	defer pw.Release()
	return m.UpgradePassword(pw, hash)
}

// UpgradePassword is Upgrade for a caller-owned [password.Password].
func (m *Manager) UpgradePassword(pw *password.Password, hash string) (ok bool, upgraded string, err error) {
	if ok, err = m.CheckPassword(pw, hash); err != nil || !ok {
		return ok, "", err
	}
	needs, err := m.NeedsRehash(hash)
	if err != nil || !needs {
		return true, "", err
	}
	upgraded, err = m.MakePassword(pw)
	return true, upgraded, err
}

func (m *Manager) resolve(hash string) (Hasher, error) {
	name, ok := DetectDriver(hash)
	if !ok {
		return nil, ErrInvalidHash
	}
	return m.Driver(name)
}
