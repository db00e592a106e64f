package config

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hasbyte1/go-saltedhash/accounts"
	"github.com/hasbyte1/go-saltedhash/hashing"
	"github.com/hasbyte1/go-saltedhash/userstore"
	"github.com/hasbyte1/go-saltedhash/userstore/inmemory"
	"github.com/hasbyte1/go-saltedhash/userstore/redisstore"
	"github.com/hasbyte1/go-saltedhash/userstore/sqlstore"
)

// OpenStore connects the configured backend and runs its Init.  The returned
// close function releases the connection; it is never nil.
//
// The sql backend needs its driver registered by the caller, e.g. with a
// blank import of github.com/mattn/go-sqlite3.
func (c *Config) OpenStore(ctx context.Context) (userstore.Store, func() error, error) {
	var store userstore.Store
	closeFn := func() error { return nil }

	switch c.Store.Type {
	case StoreMemory:
		store = inmemory.New()

	case StoreSQL:
		ph, err := c.placeholder()
		if err != nil {
			return nil, nil, err
		}
		db, err := sql.Open(c.Store.SQLDriver, c.Store.SQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("config: open %s database: %w", c.Store.SQLDriver, err)
		}
		s, err := sqlstore.New(db, sqlstore.Options{Table: c.Store.SQLTable, Placeholder: ph})
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		store, closeFn = s, db.Close

	case StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			DB:       c.Store.RedisDB,
		})
		s, err := redisstore.New(client, c.Store.RedisPrefix)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		store, closeFn = s, client.Close

	default:
		return nil, nil, fmt.Errorf("%w: invalid store type %q", ErrInvalidConfig, c.Store.Type)
	}

	if err := store.Init(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("config: init %s store: %w", c.Store.Type, err)
	}
	return store, closeFn, nil
}

// AccountsOptions assembles [accounts.Options].  One generator built by
// [Config.NewDRBG] serves both salts and generated secrets.
func (c *Config) AccountsOptions(logger *logrus.Logger) (accounts.Options, error) {
	hopts, err := c.HashingOptions()
	if err != nil {
		return accounts.Options{}, err
	}
	rng, err := c.NewDRBG(logger)
	if err != nil {
		return accounts.Options{}, err
	}
	hopts.Rand = rng

	return accounts.Options{
		Hashing:        hopts,
		Driver:         hashing.DriverName(c.Hashing.Driver),
		Rand:           rng,
		PasswordLength: c.Accounts.PasswordLength,
		Charset:        c.Accounts.Charset,
		TokenStrength:  c.Accounts.TokenStrength,
		Logger:         logger,
		Verbose:        c.Verbose,
	}, nil
}

// NewService opens the store and builds an [accounts.Service] on it.  The
// close function releases the store.
func (c *Config) NewService(ctx context.Context) (*accounts.Service, func() error, error) {
	logger := c.Logger()
	opts, err := c.AccountsOptions(logger)
	if err != nil {
		return nil, nil, err
	}
	store, closeFn, err := c.OpenStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc, err := accounts.New(store, opts)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	logger.WithFields(logrus.Fields{
		"store":  c.Store.Type,
		"digest": opts.Hashing.Digest.String(),
		"driver": c.Hashing.Driver,
	}).Info("config: account service ready")
	return svc, closeFn, nil
}
