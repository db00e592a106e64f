// Package accounts manages user passwords on top of a [userstore.Store].
//
// It is the thin service layer a login system would call: register a user,
// authenticate, change or reset a password, and issue random tokens.  Hash
// construction and format handling are delegated to a [hashing.Manager];
// persistence to the store.
//
// # Rehash on login
//
// When a stored hash validates but was produced with a different format,
// digest or salt length than the service is configured for, Authenticate
// replaces it with a fresh hash.  A failure to persist the replacement is
// logged and does not fail the login.
//
// # Stored-record failures
//
// A record that cannot be parsed, or names a digest this build does not know,
// cannot be verified.  Authenticate reports such users as not authenticated
// and logs the cause instead of returning an error, so a corrupted row
// behaves like a wrong password to the caller.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/hasbyte1/go-saltedhash/drbg"
	"github.com/hasbyte1/go-saltedhash/hashing"
	"github.com/hasbyte1/go-saltedhash/password"
	"github.com/hasbyte1/go-saltedhash/random"
	"github.com/hasbyte1/go-saltedhash/userstore"
)

// Options configures a [Service].
type Options struct {
	// Hashing configures the engine behind both format drivers.
	// Default: [hashing.DefaultOptions].
	Hashing hashing.Options

	// Driver is the format of new hashes.  Default: [hashing.DriverBracket].
	Driver hashing.DriverName

	// Rand is the source for generated passwords and tokens.
	// Default: [drbg.Default].
	Rand io.Reader

	// PasswordLength and Charset shape passwords produced by ResetPassword.
	// Defaults: [random.DefaultPasswordLength], [random.Alphanumeric].
	PasswordLength int
	Charset        string

	// TokenStrength is the number of random bytes behind IssueToken.
	// Default: [random.DefaultTokenStrength].
	TokenStrength int

	// Logger receives authentication events.  When nil, a private logger is
	// created that discards output unless Verbose is set.
	Logger *logrus.Logger

	// Verbose enables debug output on the private logger.
	Verbose bool
}

// DefaultOptions returns Options with the package defaults filled in.
func DefaultOptions() Options {
	return Options{
		Hashing:        hashing.DefaultOptions(),
		Driver:         hashing.DriverBracket,
		Rand:           drbg.Default(),
		PasswordLength: random.DefaultPasswordLength,
		Charset:        random.Alphanumeric,
		TokenStrength:  random.DefaultTokenStrength,
	}
}

// Service implements account password operations.
//
// # Thread safety
//
// Service is safe for concurrent use when its store is.
type Service struct {
	store  userstore.Store
	hashes *hashing.Manager
	opts   Options
	log    *logrus.Entry
}

// New constructs a Service over store.  Zero-valued option fields take
// their defaults.
func New(store userstore.Store, opts Options) (*Service, error) {
	if store == nil {
		return nil, userstore.ErrNilStore
	}
	def := DefaultOptions()
	if opts.Driver == "" {
		opts.Driver = def.Driver
	}
	if opts.Rand == nil {
		opts.Rand = def.Rand
	}
	if opts.PasswordLength == 0 {
		opts.PasswordLength = def.PasswordLength
	}
	if opts.Charset == "" {
		opts.Charset = def.Charset
	}
	if opts.TokenStrength == 0 {
		opts.TokenStrength = def.TokenStrength
	}

	m, err := hashing.NewDefaultManager(opts.Hashing)
	if err != nil {
		return nil, fmt.Errorf("accounts: %w", err)
	}
	if err := m.SetDefaultDriver(opts.Driver); err != nil {
		return nil, fmt.Errorf("accounts: %w", err)
	}

	return &Service{
		store:  store,
		hashes: m,
		opts:   opts,
		log:    newLogger(opts.Logger, opts.Verbose).WithField("component", "accounts"),
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

// Hashes returns the Manager used for new and stored hashes.
func (s *Service) Hashes() *hashing.Manager { return s.hashes }

// Register creates a user with a hash of pw.
func (s *Service) Register(ctx context.Context, name string, pw *password.Password) error {
	if pw.Len() == 0 {
		return ErrEmptyPassword
	}
	hash, err := s.hashes.MakePassword(pw)
	if err != nil {
		return fmt.Errorf("accounts: hash password: %w", err)
	}
	ok, err := s.store.Create(ctx, name, hash)
	if err != nil {
		return fmt.Errorf("accounts: create user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrUserExists, name)
	}
	s.log.WithField("user", name).Debug("accounts: user registered")
	return nil
}

// Authenticate reports whether pw is the password of name.  Unknown users
// and unverifiable records yield false with a nil error; store failures and
// weak-algorithm policy violations are returned.
func (s *Service) Authenticate(ctx context.Context, name string, pw *password.Password) (bool, error) {
	log := s.log.WithField("user", name)

	stored, found, err := s.store.GetHash(ctx, name)
	if err != nil {
		return false, fmt.Errorf("accounts: load user: %w", err)
	}
	if !found {
		log.Debug("accounts: authentication failed: unknown user")
		return false, nil
	}

	ok, upgraded, err := s.hashes.UpgradePassword(pw, stored)
	switch {
	case !ok && errors.Is(err, hashing.ErrKnownWeak):
		return false, fmt.Errorf("accounts: verify user %q: %w", name, err)
	case !ok && err != nil:
		log.WithError(err).Warn("accounts: authentication failed: unverifiable stored hash")
		return false, nil
	case !ok:
		log.Debug("accounts: authentication failed: wrong password")
		return false, nil
	}

	if err != nil {
		log.WithError(err).Warn("accounts: rehash failed")
	} else if upgraded != "" {
		if _, err := s.store.Modify(ctx, name, upgraded); err != nil {
			log.WithError(err).Warn("accounts: failed to persist rehashed password")
		} else {
			log.Debug("accounts: password rehashed")
		}
	}
	log.Debug("accounts: authenticated")
	return true, nil
}

// ChangePassword replaces the password of name after checking current.  It
// returns false when current does not match.
func (s *Service) ChangePassword(ctx context.Context, name string, current, next *password.Password) (bool, error) {
	if next.Len() == 0 {
		return false, ErrEmptyPassword
	}
	ok, err := s.Authenticate(ctx, name, current)
	if err != nil || !ok {
		return false, err
	}
	if err := s.setPassword(ctx, name, next); err != nil {
		return false, err
	}
	return true, nil
}

// ResetPassword replaces the password of name with a random one and returns
// it.  The caller owns the result and should Release it once delivered.
func (s *Service) ResetPassword(ctx context.Context, name string) (*password.Password, error) {
	pw, err := random.Password(s.opts.Rand, s.opts.PasswordLength, s.opts.Charset)
	if err != nil {
		return nil, fmt.Errorf("accounts: generate password: %w", err)
	}
	if err := s.setPassword(ctx, name, pw); err != nil {
		pw.Release()
		return nil, err
	}
	s.log.WithField("user", name).Debug("accounts: password reset")
	return pw, nil
}

func (s *Service) setPassword(ctx context.Context, name string, pw *password.Password) error {
	hash, err := s.hashes.MakePassword(pw)
	if err != nil {
		return fmt.Errorf("accounts: hash password: %w", err)
	}
	ok, err := s.store.Modify(ctx, name, hash)
	if err != nil {
		return fmt.Errorf("accounts: update user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrUserNotFound, name)
	}
	return nil
}

// Remove deletes name; false when absent.
func (s *Service) Remove(ctx context.Context, name string) (bool, error) {
	ok, err := s.store.Remove(ctx, name)
	if err != nil {
		return false, fmt.Errorf("accounts: remove user: %w", err)
	}
	return ok, nil
}

// IssueToken returns a fresh random token for an existing user, e.g. for a
// password-reset link.  Tokens are not stored; persisting them is the
// caller's concern.
func (s *Service) IssueToken(ctx context.Context, name string) (string, error) {
	_, found, err := s.store.GetHash(ctx, name)
	if err != nil {
		return "", fmt.Errorf("accounts: load user: %w", err)
	}
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUserNotFound, name)
	}
	tok, err := random.Token(s.opts.Rand, s.opts.TokenStrength)
	if err != nil {
		return "", fmt.Errorf("accounts: generate token: %w", err)
	}
	return tok, nil
}

// UserCount returns the number of users when the store implements
// [userstore.Counter].
func (s *Service) UserCount(ctx context.Context) (int, error) {
	c, ok := s.store.(userstore.Counter)
	if !ok {
		return 0, ErrCountUnsupported
	}
	return c.UserCount(ctx)
}
