// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds the client-side key and encryption service.
//
// A 256-bit key is derived from the user's secret and a per-user salt
// (PBKDF2-HMAC-SHA256 or Argon2id), kept only in process memory and used for
// authenticated encryption (AES-256-GCM or XChaCha20-Poly1305). The salt, a
// key-check blob and the recovery-key hash are stored in the user's keyring
// record; none of them is secret.
package crypto

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/store"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

const saltLen = 16

// keyCheckMarker is sealed into UserKeyring.KeyCheck the first time a key is
// verified for a user.
var keyCheckMarker = []byte("securecore/key-check/v1")

// Service is the default [KeyService]. It is safe for concurrent use.
type Service struct {
	mu     sync.RWMutex
	key    *Key
	userID string

	kdf    string
	params models.KDFParams
	tag    string

	keyrings store.KeyringRepository
	now      func() time.Time
	logger   *logger.Logger
}

// NewService constructs a [Service]. The Argon2id parameters are the OWASP
// recommendation (1 pass, 64 MiB, 4 lanes).
func NewService(cfg config.Crypto, keyrings store.KeyringRepository, log *logger.Logger) (*Service, error) {
	tag, err := algorithmTag(cfg.Cipher)
	if err != nil {
		return nil, err
	}

	kdf := cfg.KDF
	if kdf == "" {
		kdf = config.KDFPBKDF2
	}
	if kdf != config.KDFPBKDF2 && kdf != config.KDFArgon2id {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKDF, kdf)
	}
	if kdf == config.KDFPBKDF2 && cfg.PBKDF2Iterations < config.MinPBKDF2Iterations {
		return nil, fmt.Errorf("%w: %d pbkdf2 iterations", ErrWeakKDF, cfg.PBKDF2Iterations)
	}

	return &Service{
		kdf: kdf,
		params: models.KDFParams{
			Iterations: cfg.PBKDF2Iterations,
			Time:       1,
			Memory:     64 * 1024,
			Threads:    4,
		},
		tag:      tag,
		keyrings: keyrings,
		now:      time.Now,
		logger:   log,
	}, nil
}

// DeriveKey derives a key from secret and salt with the configured KDF.
// It does not change the key held by the service.
func (s *Service) DeriveKey(secret string, salt []byte) (*Key, error) {
	return deriveWith(s.kdf, s.params, secret, salt)
}

// storedParams fills the zero fields of a keyring's parameters from the
// current config.
func (s *Service) storedParams(p models.KDFParams) models.KDFParams {
	if p.Iterations == 0 {
		p.Iterations = s.params.Iterations
	}
	if p.Time == 0 {
		p.Time = s.params.Time
	}
	if p.Memory == 0 {
		p.Memory = s.params.Memory
	}
	if p.Threads == 0 {
		p.Threads = s.params.Threads
	}
	return p
}

func deriveWith(kdf string, p models.KDFParams, secret string, salt []byte) (*Key, error) {
	switch kdf {
	case config.KDFPBKDF2, "":
		return &Key{b: pbkdf2.Key([]byte(secret), salt, p.Iterations, keyLen, sha256.New)}, nil
	case config.KDFArgon2id:
		return &Key{b: argon2.IDKey([]byte(secret), salt, p.Time, p.Memory, p.Threads, keyLen)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKDF, kdf)
	}
}

// InitializeKey loads (or creates) the user's salt record, derives the key
// with the KDF and parameters recorded there and holds it in memory. It does not check the secret; see VerifyKey. Calling it
// again replaces the held key.
func (s *Service) InitializeKey(ctx context.Context, userID, secret string) error {
	log := logger.FromContext(ctx)

	keyring, err := s.keyrings.GetKeyring(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		salt := make([]byte, saltLen)
		if _, err := rand.Read(salt); err != nil {
			return fmt.Errorf("generating salt: %w", err)
		}
		keyring = models.UserKeyring{
			UserID:    userID,
			Salt:      salt,
			KDF:       s.kdf,
			KDFParams: s.params,
			CreatedAt: s.now(),
		}
		if err := s.keyrings.SaveKeyring(ctx, keyring); err != nil {
			log.Err(err).Str("func", "Service.InitializeKey").Str("user_id", userID).Msg("failed to store salt")
			return err
		}
	case err != nil:
		log.Err(err).Str("func", "Service.InitializeKey").Str("user_id", userID).Msg("failed to load keyring")
		return err
	}

	key, err := deriveWith(keyring.KDF, s.storedParams(keyring.KDFParams), secret, keyring.Salt)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.key.Wipe()
	s.key = key
	s.userID = userID
	s.mu.Unlock()

	log.Debug().Str("user_id", userID).Str("kdf", keyring.KDF).Msg("encryption key initialized")
	return nil
}

// VerifyKey checks the held key against the user's key-check blob. The first
// call for a user seals the blob instead.
func (s *Service) VerifyKey(ctx context.Context) error {
	s.mu.RLock()
	userID := s.userID
	ready := s.key.usable()
	s.mu.RUnlock()
	if !ready {
		return ErrKeyNotInitialized
	}

	keyring, err := s.keyrings.GetKeyring(ctx, userID)
	if err != nil {
		return err
	}

	if keyring.KeyCheck == nil {
		blob, err := s.Encrypt(keyCheckMarker)
		if err != nil {
			return err
		}
		keyring.KeyCheck = &blob
		return s.keyrings.SaveKeyring(ctx, keyring)
	}

	plain, err := s.Decrypt(*keyring.KeyCheck)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyMismatch, err)
	}
	if string(plain) != string(keyCheckMarker) {
		return fmt.Errorf("%w: %w", ErrKeyMismatch, ErrDecryptionFailed)
	}
	return nil
}

// HasKey reports whether a key is held.
func (s *Service) HasKey() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key.usable()
}

// ClearKey wipes and drops the held key. It is safe to call at any time.
func (s *Service) ClearKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key.Wipe()
	s.key = nil
	s.userID = ""
}

// Encrypt seals plaintext under a freshly drawn IV. The algorithm tag is
// bound as associated data.
func (s *Service) Encrypt(plaintext []byte) (models.EncryptedBlob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.key.usable() {
		return models.EncryptedBlob{}, ErrKeyNotInitialized
	}

	aead, err := newAEAD(s.tag, s.key.b)
	if err != nil {
		return models.EncryptedBlob{}, err
	}

	iv := make([]byte, aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return models.EncryptedBlob{}, fmt.Errorf("drawing iv: %w", err)
	}

	return models.EncryptedBlob{
		Ciphertext:   aead.Seal(nil, iv, plaintext, []byte(s.tag)),
		IV:           iv,
		AlgorithmTag: s.tag,
		CreatedAt:    s.now(),
	}, nil
}

// Decrypt opens blob with the held key. It never returns partial or
// unauthenticated plaintext.
func (s *Service) Decrypt(blob models.EncryptedBlob) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.key.usable() {
		return nil, ErrKeyNotInitialized
	}

	aead, err := newAEAD(blob.AlgorithmTag, s.key.b)
	if err != nil {
		return nil, err
	}
	if len(blob.IV) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: malformed iv", ErrDecryptionFailed)
	}

	plain, err := aead.Open(nil, blob.IV, blob.Ciphertext, []byte(blob.AlgorithmTag))
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plain, nil
}

// EncryptJSON marshals v and seals the result.
func (s *Service) EncryptJSON(v any) (models.EncryptedBlob, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return models.EncryptedBlob{}, err
	}
	defer clear(raw)
	return s.Encrypt(raw)
}

// DecryptJSON opens blob and unmarshals the plaintext into target.
func (s *Service) DecryptJSON(blob models.EncryptedBlob, target any) error {
	raw, err := s.Decrypt(blob)
	if err != nil {
		return err
	}
	defer clear(raw)
	return json.Unmarshal(raw, target)
}

// GenerateRecoveryKey returns a new transcribable recovery key.
func (s *Service) GenerateRecoveryKey() (string, error) {
	return GenerateRecoveryKey()
}

// Hash returns the hex SHA-256 of data.
func (s *Service) Hash(data []byte) string {
	return Hash(data)
}

// VerifyHash compares data against a hex SHA-256 in constant time.
func (s *Service) VerifyHash(data []byte, expected string) bool {
	return VerifyHash(data, expected)
}

// RegisterRecoveryKey creates a recovery key for userID and stores only its
// hash. The returned key is never available again.
func (s *Service) RegisterRecoveryKey(ctx context.Context, userID string) (string, error) {
	keyring, err := s.keyrings.GetKeyring(ctx, userID)
	if err != nil {
		return "", err
	}

	key, err := GenerateRecoveryKey()
	if err != nil {
		return "", err
	}

	keyring.RecoveryHash = Hash([]byte(normalizeRecoveryKey(key)))
	if err := s.keyrings.SaveKeyring(ctx, keyring); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "Service.RegisterRecoveryKey").Str("user_id", userID).Msg("failed to store recovery hash")
		return "", err
	}
	return key, nil
}

// VerifyRecoveryKey reports whether recoveryKey matches the stored hash.
func (s *Service) VerifyRecoveryKey(ctx context.Context, userID, recoveryKey string) (bool, error) {
	keyring, err := s.keyrings.GetKeyring(ctx, userID)
	if err != nil {
		return false, err
	}
	if keyring.RecoveryHash == "" {
		return false, nil
	}
	return VerifyHash([]byte(normalizeRecoveryKey(recoveryKey)), keyring.RecoveryHash), nil
}
