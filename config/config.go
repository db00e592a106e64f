// Package config loads the settings of an account service from a YAML file
// and SALTEDHASH_* environment variables, and turns them into the option
// structs of the other packages.
//
// Precedence, lowest first: [Default], the YAML file, the environment.
//
//	hashing:
//	  digest: ARGON2ID
//	  salt_length: 32
//	drbg:
//	  digest: SHA512
//	store:
//	  type: redis
//	  redis_addr: localhost:6379
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hasbyte1/go-saltedhash/digest"
	"github.com/hasbyte1/go-saltedhash/drbg"
	"github.com/hasbyte1/go-saltedhash/hashing"
	"github.com/hasbyte1/go-saltedhash/random"
	"github.com/hasbyte1/go-saltedhash/userstore/redisstore"
	"github.com/hasbyte1/go-saltedhash/userstore/sqlstore"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQL    = "sql"
	StoreRedis  = "redis"
)

// Config holds all settings.
type Config struct {
	Hashing  HashingConfig  `yaml:"hashing"`
	DRBG     DRBGConfig     `yaml:"drbg"`
	Accounts AccountsConfig `yaml:"accounts"`
	Store    StoreConfig    `yaml:"store"`

	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
	// Verbose forces debug logging regardless of LogLevel.
	Verbose bool `yaml:"verbose"`
}

// HashingConfig maps onto [hashing.Options].
type HashingConfig struct {
	// Digest is a bracket code, e.g. "SHA512" or "ARGON2ID".
	Digest     string `yaml:"digest"`
	SaltLength int    `yaml:"salt_length"`
	// Salter is "default" (salt, then password) or "reverse".
	Salter    string `yaml:"salter"`
	AllowWeak bool   `yaml:"allow_weak"`
	// Driver is the format of new hashes: "bracket" or "crypt".
	Driver string `yaml:"driver"`
}

// DRBGConfig maps onto [drbg.Options].
type DRBGConfig struct {
	Digest          string `yaml:"digest"`
	Personalization string `yaml:"personalization"`
	MaxGenerations  uint64 `yaml:"max_generations"`
}

// AccountsConfig shapes generated passwords and tokens.
type AccountsConfig struct {
	PasswordLength int    `yaml:"password_length"`
	Charset        string `yaml:"charset"`
	TokenStrength  int    `yaml:"token_strength"`
}

// StoreConfig selects and configures the user store.
type StoreConfig struct {
	// Type is "memory", "sql" or "redis".
	Type string `yaml:"type"`

	SQLDriver string `yaml:"sql_driver"`
	SQLDSN    string `yaml:"sql_dsn"`
	SQLTable  string `yaml:"sql_table"`
	// SQLPlaceholder is "question" or "dollar".
	SQLPlaceholder string `yaml:"sql_placeholder"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Hashing: HashingConfig{
			Digest:     hashing.DefaultDigest.String(),
			SaltLength: hashing.DefaultSaltLength,
			Salter:     "default",
			Driver:     string(hashing.DriverBracket),
		},
		DRBG: DRBGConfig{
			Digest:          digest.SHA512.String(),
			Personalization: drbg.DefaultPersonalization,
			MaxGenerations:  drbg.DefaultMaxGenerations,
		},
		Accounts: AccountsConfig{
			PasswordLength: random.DefaultPasswordLength,
			Charset:        random.Alphanumeric,
			TokenStrength:  random.DefaultTokenStrength,
		},
		Store: StoreConfig{
			Type:           StoreMemory,
			SQLTable:       sqlstore.DefaultTable,
			SQLPlaceholder: "question",
			RedisPrefix:    redisstore.DefaultPrefix,
		},
		LogLevel: "info",
	}
}

// Load reads path (skipped when empty) over the defaults, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks names and ranges without touching any backend.
func (c *Config) Validate() error {
	if _, err := c.HashingOptions(); err != nil {
		return err
	}
	if _, err := c.NewDRBG(nil); err != nil {
		return err
	}
	switch hashing.DriverName(c.Hashing.Driver) {
	case hashing.DriverBracket, hashing.DriverCrypt:
	default:
		return fmt.Errorf("%w: unknown hash driver %q", ErrInvalidConfig, c.Hashing.Driver)
	}
	if c.Accounts.PasswordLength <= 0 {
		return fmt.Errorf("%w: password length must be positive", ErrInvalidConfig)
	}
	if c.Accounts.TokenStrength <= 0 || c.Accounts.TokenStrength%4 != 0 {
		return fmt.Errorf("%w: token strength must be a positive multiple of 4", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch c.Store.Type {
	case StoreMemory:
	case StoreSQL:
		if c.Store.SQLDriver == "" || c.Store.SQLDSN == "" {
			return fmt.Errorf("%w: sql_driver and sql_dsn are required for sql store", ErrInvalidConfig)
		}
		if _, err := c.placeholder(); err != nil {
			return err
		}
	case StoreRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for redis store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: invalid store type %q (must be memory, sql, or redis)", ErrInvalidConfig, c.Store.Type)
	}
	return nil
}

// HashingOptions translates the hashing section.  Rand is left nil, which
// selects the shared default generator; [Config.NewService] replaces it with
// the configured one.
func (c *Config) HashingOptions() (hashing.Options, error) {
	kind, err := digest.FromBracketCode(strings.ToUpper(c.Hashing.Digest))
	if err != nil {
		return hashing.Options{}, fmt.Errorf("%w: hashing digest: %w", ErrInvalidConfig, err)
	}
	var salter hashing.Salter
	switch strings.ToLower(c.Hashing.Salter) {
	case "", "default":
		salter = hashing.DefaultSalter
	case "reverse":
		salter = hashing.ReverseSalter
	default:
		return hashing.Options{}, fmt.Errorf("%w: unknown salter %q", ErrInvalidConfig, c.Hashing.Salter)
	}
	if c.Hashing.SaltLength <= 0 || c.Hashing.SaltLength%4 != 0 {
		return hashing.Options{}, fmt.Errorf("%w: salt length must be a positive multiple of 4", ErrInvalidConfig)
	}
	if kind.IsKnownWeak() && !c.Hashing.AllowWeak {
		return hashing.Options{}, fmt.Errorf("%w: digest %s is known-weak; set allow_weak", ErrInvalidConfig, kind)
	}
	return hashing.Options{
		Digest:     kind,
		SaltLength: c.Hashing.SaltLength,
		Salter:     salter,
		AllowWeak:  c.Hashing.AllowWeak,
	}, nil
}

// DRBGOptions translates the drbg section.  logger may be nil.
func (c *Config) DRBGOptions(logger *logrus.Logger) (drbg.Options, error) {
	kind, err := digest.FromBracketCode(strings.ToUpper(c.DRBG.Digest))
	if err != nil {
		return drbg.Options{}, fmt.Errorf("%w: drbg digest: %w", ErrInvalidConfig, err)
	}
	opts := drbg.DefaultOptions()
	opts.Digest = kind
	opts.Personalization = []byte(c.DRBG.Personalization)
	if c.DRBG.MaxGenerations > 0 {
		opts.MaxGenerations = c.DRBG.MaxGenerations
	}
	opts.Logger = logger
	opts.Verbose = c.Verbose
	return opts, nil
}

// NewDRBG returns an uninstantiated generator built from the drbg section.
// Nothing is read from the entropy source until first use.
func (c *Config) NewDRBG(logger *logrus.Logger) (*drbg.HashDRBG, error) {
	opts, err := c.DRBGOptions(logger)
	if err != nil {
		return nil, err
	}
	d, err := drbg.New(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return d, nil
}

// Logger returns a logrus logger at the configured level.
func (c *Config) Logger() *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if c.Verbose {
		level = logrus.DebugLevel
	}
	l.SetLevel(level)
	return l
}

func (c *Config) placeholder() (sqlstore.Placeholder, error) {
	switch strings.ToLower(c.Store.SQLPlaceholder) {
	case "", "question":
		return sqlstore.Question, nil
	case "dollar":
		return sqlstore.Dollar, nil
	default:
		return 0, fmt.Errorf("%w: unknown sql placeholder %q", ErrInvalidConfig, c.Store.SQLPlaceholder)
	}
}
