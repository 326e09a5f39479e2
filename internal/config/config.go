// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It is
// populated by merging built-in defaults, environment variables,
// command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: token signing and versioning.
	App App `envPrefix:"APP_"`

	// Crypto selects the key-derivation function and the cipher.
	Crypto Crypto `envPrefix:"CRYPTO_"`

	// Session holds token lifetimes and timer settings of the session manager.
	Session Session `envPrefix:"SESSION_"`

	// Credential holds relying-party and ceremony settings.
	Credential Credential `envPrefix:"CREDENTIAL_"`

	// Storage holds the document store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen addresses and timeouts of the verifier server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's connection settings to the verifier server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background job intervals.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the HMAC key used to sign access tokens. When empty a
	// random per-process key is generated, which is what a single tab wants.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every access token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// HashKey is the HMAC key refresh tokens are hashed with before they
	// reach the store.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is the semantic version string exposed via /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogFile is the client log file path. Empty means next to the binary.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Crypto selects the primitives of the key and encryption service.
type Crypto struct {
	// KDF is "pbkdf2" (PBKDF2-HMAC-SHA256) or "argon2id".
	// Env: CRYPTO_KDF
	KDF string `env:"KDF"`

	// PBKDF2Iterations is the iteration count, never below 100000.
	// Env: CRYPTO_PBKDF2_ITERATIONS
	PBKDF2Iterations int `env:"PBKDF2_ITERATIONS"`

	// Cipher is "aes-256-gcm" or "xchacha20-poly1305".
	// Env: CRYPTO_CIPHER
	Cipher string `env:"CIPHER"`
}

// Session holds the session manager's lifetimes and timers.
type Session struct {
	// AccessTokenTTL defaults to 15 minutes.
	// Env: SESSION_ACCESS_TOKEN_TTL
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL"`

	// RefreshTokenTTL defaults to 30 days.
	// Env: SESSION_REFRESH_TOKEN_TTL
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL"`

	// IdleTimeout is the inactivity window after which the session ends.
	// Env: SESSION_IDLE_TIMEOUT
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT"`

	// RefreshLead is how long before access-token expiry the scheduled
	// refresh fires.
	// Env: SESSION_REFRESH_LEAD
	RefreshLead time.Duration `env:"REFRESH_LEAD"`

	// OperationTimeout bounds every store call made by the manager.
	// Env: SESSION_OPERATION_TIMEOUT
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT"`
}

// Credential holds relying-party and ceremony settings.
type Credential struct {
	// RelyingPartyID is the RP id whose SHA-256 must prefix authenticator data.
	// Env: CREDENTIAL_RP_ID
	RelyingPartyID string `env:"RP_ID"`

	// Origin is the only origin accepted in collected client data.
	// Env: CREDENTIAL_ORIGIN
	Origin string `env:"ORIGIN"`

	// ChallengeTTL defaults to 5 minutes.
	// Env: CREDENTIAL_CHALLENGE_TTL
	ChallengeTTL time.Duration `env:"CHALLENGE_TTL"`

	// CeremonyTimeout bounds one authenticator interaction.
	// Env: CREDENTIAL_CEREMONY_TIMEOUT
	CeremonyTimeout time.Duration `env:"CEREMONY_TIMEOUT"`
}

// Storage groups the configuration of the document store.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`

	// Redis optionally moves ceremony challenges to a Redis instance.
	Redis Redis `envPrefix:"REDIS_"`
}

// Redis holds the connection settings of the optional challenge store.
type Redis struct {
	// Address is "host:port". Empty keeps challenges in the DB store.
	// Env: STORAGE_REDIS_ADDRESS
	Address string `env:"ADDRESS"`

	// Password is the AUTH password, if any.
	// Env: STORAGE_REDIS_PASSWORD
	Password string `env:"PASSWORD"`

	// DB is the logical database index.
	// Env: STORAGE_REDIS_DB
	DB int `env:"DB"`
}

// DB holds connection settings for the document store.
type DB struct {
	// Driver is "memory", "sqlite" or "postgres".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the connection string (a file path for sqlite).
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the verifier server.
type Server struct {
	// HTTPAddress is the TCP address of the HTTP API, "host:port".
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health listener.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration of a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// CeremonyRate is the per-client rate of ceremony requests per second.
	// Env: SERVER_CEREMONY_RATE
	CeremonyRate float64 `env:"CEREMONY_RATE"`

	// CeremonyBurst is the burst size of the ceremony rate limiter.
	// Env: SERVER_CEREMONY_BURST
	CeremonyBurst int `env:"CEREMONY_BURST"`

	// TrustedProxies lists the addresses or CIDR ranges of reverse proxies
	// whose X-Forwarded-For and X-Real-IP headers are believed. Requests
	// from any other peer are keyed on the peer address.
	// Env: SERVER_TRUSTED_PROXIES (comma separated)
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// Adapter holds the client's settings for reaching the verifier server.
type Adapter struct {
	// HTTPAddress is the verifier base address ("host:port" or URL). Empty
	// means the client verifies ceremonies in-process.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds background job intervals.
type Workers struct {
	// ChallengeSweepInterval is how often expired challenges are purged.
	// Env: WORKERS_CHALLENGE_SWEEP_INTERVAL
	ChallengeSweepInterval time.Duration `env:"CHALLENGE_SWEEP_INTERVAL"`

	// TokenSweepInterval is how often expired refresh tokens are purged.
	// Env: WORKERS_TOKEN_SWEEP_INTERVAL
	TokenSweepInterval time.Duration `env:"TOKEN_SWEEP_INTERVAL"`
}

// Default returns the built-in configuration every other source is merged on.
func Default() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer: "securecore",
			Version:     "dev",
		},
		Crypto: Crypto{
			KDF:              KDFPBKDF2,
			PBKDF2Iterations: 310_000,
			Cipher:           CipherAESGCM,
		},
		Session: Session{
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  30 * 24 * time.Hour,
			IdleTimeout:      30 * time.Minute,
			RefreshLead:      2 * time.Minute,
			OperationTimeout: 10 * time.Second,
		},
		Credential: Credential{
			RelyingPartyID:  "localhost",
			Origin:          "http://localhost:8080",
			ChallengeTTL:    5 * time.Minute,
			CeremonyTimeout: 60 * time.Second,
		},
		Storage: Storage{
			DB: DB{Driver: DriverMemory},
		},
		Server: Server{
			RequestTimeout: 15 * time.Second,
			CeremonyRate:   5,
			CeremonyBurst:  10,
		},
		Adapter: Adapter{
			RequestTimeout: 15 * time.Second,
		},
		Workers: Workers{
			ChallengeSweepInterval: time.Minute,
			TokenSweepInterval:     time.Hour,
		},
	}
}

// Supported values of the enumerated settings.
const (
	KDFPBKDF2   = "pbkdf2"
	KDFArgon2id = "argon2id"

	CipherAESGCM            = "aes-256-gcm"
	CipherXChaCha20Poly1305 = "xchacha20-poly1305"

	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// MinPBKDF2Iterations is the lowest iteration count accepted.
	MinPBKDF2Iterations = 100_000
)

// GetStructuredConfig loads, merges, and validates the configuration from
// all sources in the following priority order (later sources override
// earlier non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(commandLineArgs()).
		withJSON().
		build()
}
