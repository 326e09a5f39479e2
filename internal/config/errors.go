package config

import "errors"

// Validation errors returned by the validate methods when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidCryptoConfigs indicates an unknown KDF or cipher, or a
	// PBKDF2 iteration count below the accepted floor.
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidSessionConfigs indicates non-positive lifetimes or a
	// refresh lead that is not shorter than the access token lifetime.
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidCredentialConfigs indicates a missing relying party id,
	// origin, or challenge lifetime.
	ErrInvalidCredentialConfigs = errors.New("invalid credential configuration")
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, a missing request timeout next to a verifier address).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates an unsupported driver or a missing
	// DSN for a driver that needs one.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates a missing HTTP address or token
	// signing key for the verifier server.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero sweep interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
