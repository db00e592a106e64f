package config

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SALTEDHASH_"

// applyEnv overrides fields whose SALTEDHASH_* variable is set.
func (c *Config) applyEnv() {
	c.Hashing.Digest = getEnv("DIGEST", c.Hashing.Digest)
	c.Hashing.SaltLength = getEnvInt("SALT_LENGTH", c.Hashing.SaltLength)
	c.Hashing.Salter = getEnv("SALTER", c.Hashing.Salter)
	c.Hashing.AllowWeak = getEnvBool("ALLOW_WEAK", c.Hashing.AllowWeak)
	c.Hashing.Driver = getEnv("DRIVER", c.Hashing.Driver)

	c.DRBG.Digest = getEnv("DRBG_DIGEST", c.DRBG.Digest)
	c.DRBG.Personalization = getEnv("DRBG_PERSONALIZATION", c.DRBG.Personalization)
	c.DRBG.MaxGenerations = getEnvUint64("DRBG_MAX_GENERATIONS", c.DRBG.MaxGenerations)

	c.Accounts.PasswordLength = getEnvInt("PASSWORD_LENGTH", c.Accounts.PasswordLength)
	c.Accounts.Charset = getEnv("PASSWORD_CHARSET", c.Accounts.Charset)
	c.Accounts.TokenStrength = getEnvInt("TOKEN_STRENGTH", c.Accounts.TokenStrength)

	c.Store.Type = getEnv("STORE_TYPE", c.Store.Type)
	c.Store.SQLDriver = getEnv("SQL_DRIVER", c.Store.SQLDriver)
	c.Store.SQLDSN = getEnv("SQL_DSN", c.Store.SQLDSN)
	c.Store.SQLTable = getEnv("SQL_TABLE", c.Store.SQLTable)
	c.Store.SQLPlaceholder = getEnv("SQL_PLACEHOLDER", c.Store.SQLPlaceholder)
	c.Store.RedisAddr = getEnv("REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisPassword = getEnv("REDIS_PASSWORD", c.Store.RedisPassword)
	c.Store.RedisDB = getEnvInt("REDIS_DB", c.Store.RedisDB)
	c.Store.RedisPrefix = getEnv("REDIS_PREFIX", c.Store.RedisPrefix)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Verbose = getEnvBool("VERBOSE", c.Verbose)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(EnvPrefix + key); ok {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(EnvPrefix + key))
	switch value {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if i, err := strconv.ParseUint(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
