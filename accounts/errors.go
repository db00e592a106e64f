package accounts

import "errors"

var (
	// ErrUserExists is returned by Register when the name is taken.
	ErrUserExists = errors.New("accounts: user already exists")

	// ErrUserNotFound is returned by operations that need an existing user.
	ErrUserNotFound = errors.New("accounts: user not found")

	// ErrEmptyPassword is returned when a new password is empty.
	ErrEmptyPassword = errors.New("accounts: password must not be empty")

	// ErrCountUnsupported is returned by UserCount when the store does not
	// implement userstore.Counter.
	ErrCountUnsupported = errors.New("accounts: store cannot count users")
)
