// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// settings shared by the client and the verifier server.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Crypto.KDF {
	case KDFPBKDF2, KDFArgon2id:
	default:
		return fmt.Errorf("%w: unknown kdf %q", ErrInvalidCryptoConfigs, cfg.Crypto.KDF)
	}
	if cfg.Crypto.KDF == KDFPBKDF2 && cfg.Crypto.PBKDF2Iterations < MinPBKDF2Iterations {
		return fmt.Errorf("%w: pbkdf2 iterations must be at least %d", ErrInvalidCryptoConfigs, MinPBKDF2Iterations)
	}
	switch cfg.Crypto.Cipher {
	case CipherAESGCM, CipherXChaCha20Poly1305:
	default:
		return fmt.Errorf("%w: unknown cipher %q", ErrInvalidCryptoConfigs, cfg.Crypto.Cipher)
	}

	s := cfg.Session
	if s.AccessTokenTTL <= 0 || s.RefreshTokenTTL <= 0 || s.IdleTimeout <= 0 || s.OperationTimeout <= 0 {
		return ErrInvalidSessionConfigs
	}
	if s.RefreshLead < 0 || s.RefreshLead >= s.AccessTokenTTL {
		return fmt.Errorf("%w: refresh lead must be shorter than access token ttl", ErrInvalidSessionConfigs)
	}

	if cfg.Credential.RelyingPartyID == "" || cfg.Credential.Origin == "" || cfg.Credential.ChallengeTTL <= 0 {
		return ErrInvalidCredentialConfigs
	}

	switch cfg.Storage.DB.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: %s driver needs a dsn", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	if cfg.Workers.ChallengeSweepInterval <= 0 || cfg.Workers.TokenSweepInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

// validateServer adds the checks only the verifier server needs.
func (cfg *StructuredConfig) validateServer() error {
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}
	// access tokens from clients are checked against a shared key
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return fmt.Errorf("%w: token sign key and issuer are required", ErrInvalidServerConfigs)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress != "" && cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
