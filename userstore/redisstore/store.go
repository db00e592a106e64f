// Package redisstore implements [userstore.Store] on Redis.
//
// Each user is one string key "<prefix>:<name>" holding the encoded hash.
// Create maps to SETNX and Modify to SET XX, so both are atomic without
// transactions.  WipeEverything and UserCount walk the prefix with SCAN and
// are O(n).
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/hasbyte1/go-saltedhash/userstore"
)

// DefaultPrefix is the key namespace used when none is given.
const DefaultPrefix = "shu"

const scanBatch = 256

// Store is a Redis-backed [userstore.Store] and [userstore.Counter].
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

var (
	_ userstore.Store   = (*Store)(nil)
	_ userstore.Counter = (*Store)(nil)
)

// New creates a Store using client.  An empty prefix selects [DefaultPrefix].
func New(client redis.UniversalClient, prefix string) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redisstore: redis client is required")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{redis: client, prefix: prefix}, nil
}

func (s *Store) key(name string) string {
	return s.prefix + ":" + name
}

// pattern matches every key of the store.  Glob metacharacters in the prefix
// are escaped so one store never matches another's keys.
func (s *Store) pattern() string {
	var b strings.Builder
	for _, r := range s.prefix {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteString(":*")
	return b.String()
}

// Init checks connectivity.
func (s *Store) Init(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redisstore: ping failed: %w", err)
	}
	return nil
}

// Create stores a new user with SETNX; false when the name is taken.
func (s *Store) Create(ctx context.Context, name, hash string) (bool, error) {
	if err := userstore.CheckRecord(name, hash); err != nil {
		return false, err
	}
	ok, err := s.redis.SetNX(ctx, s.key(name), hash, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redisstore: failed to create user: %w", err)
	}
	return ok, nil
}

// Modify replaces an existing hash with SET XX; false when absent.
func (s *Store) Modify(ctx context.Context, name, hash string) (bool, error) {
	if err := userstore.CheckRecord(name, hash); err != nil {
		return false, err
	}
	ok, err := s.redis.SetXX(ctx, s.key(name), hash, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redisstore: failed to modify user: %w", err)
	}
	return ok, nil
}

// GetHash returns the stored hash for name.
func (s *Store) GetHash(ctx context.Context, name string) (string, bool, error) {
	if err := userstore.CheckName(name); err != nil {
		return "", false, err
	}
	hash, err := s.redis.Get(ctx, s.key(name)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("redisstore: failed to get hash: %w", err)
	}
	return hash, true, nil
}

// Remove deletes the user; false when absent.
func (s *Store) Remove(ctx context.Context, name string) (bool, error) {
	if err := userstore.CheckName(name); err != nil {
		return false, err
	}
	n, err := s.redis.Del(ctx, s.key(name)).Result()
	if err != nil {
		return false, fmt.Errorf("redisstore: failed to remove user: %w", err)
	}
	return n > 0, nil
}

// WipeEverything deletes every key under the store's prefix.
func (s *Store) WipeEverything(ctx context.Context) error {
	err := s.scan(ctx, func(keys []string) error {
		return s.redis.Del(ctx, keys...).Err()
	})
	if err != nil {
		return fmt.Errorf("redisstore: failed to wipe users: %w", err)
	}
	return nil
}

// UserCount implements [userstore.Counter].  The count is taken with SCAN
// and is not a snapshot: concurrent writes may or may not be included.
func (s *Store) UserCount(ctx context.Context) (int, error) {
	seen := make(map[string]struct{})
	err := s.scan(ctx, func(keys []string) error {
		// SCAN may return a key more than once.
		for _, k := range keys {
			seen[k] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redisstore: failed to count users: %w", err)
	}
	return len(seen), nil
}

func (s *Store) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, s.pattern(), scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
