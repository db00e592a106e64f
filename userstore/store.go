// Package userstore defines the persistence contract an account service uses
// to keep one encoded password hash per user name.
//
// The store is DB-agnostic: hashes are opaque strings (bracket or crypt
// format from package hashing) and the store never interprets them.  Three
// reference backends live in sub-packages:
//
//   - userstore/inmemory: map guarded by a mutex, for tests and prototypes
//   - userstore/sqlstore: any database/sql driver, one "users" table
//   - userstore/redisstore: go-redis, one string key per user
package userstore

import (
	"context"
	"errors"
)

var (
	// ErrNilStore is returned by constructors that are handed a nil [Store].
	ErrNilStore = errors.New("userstore: store must not be nil")

	// ErrEmptyName is returned when an operation is given an empty user name.
	ErrEmptyName = errors.New("userstore: user name must not be empty")

	// ErrEmptyHash is returned by Create and Modify when the hash is empty.
	ErrEmptyHash = errors.New("userstore: hash must not be empty")
)

// Store persists user name to password-hash records.
//
// The boolean results report whether the operation applied: Create is false
// when the name is taken, Modify and Remove are false when it is absent.
// Errors are reserved for backend failures and invalid arguments.
//
// All implementations must be safe for concurrent use.
type Store interface {
	// Init prepares the backend, e.g. creates tables.  It is idempotent.
	Init(ctx context.Context) error

	// Create inserts a new user.  It never overwrites an existing record.
	Create(ctx context.Context, name, hash string) (bool, error)

	// Modify replaces the hash of an existing user.
	Modify(ctx context.Context, name, hash string) (bool, error)

	// GetHash returns the stored hash; the boolean is false when the user
	// does not exist.
	GetHash(ctx context.Context, name string) (string, bool, error)

	// Remove deletes a user.
	Remove(ctx context.Context, name string) (bool, error)

	// WipeEverything deletes every user.
	WipeEverything(ctx context.Context) error
}

// Counter is implemented by stores that can report their size cheaply.
type Counter interface {
	UserCount(ctx context.Context) (int, error)
}

// CheckRecord validates the arguments of Create and Modify.
func CheckRecord(name, hash string) error {
	if name == "" {
		return ErrEmptyName
	}
	if hash == "" {
		return ErrEmptyHash
	}
	return nil
}

// CheckName validates the argument of GetHash and Remove.
func CheckName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	return nil
}
