package crypto

import (
	"context"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// Sealer seals and opens payloads with the key currently held in memory.
// Record stores (the private journal, for one) depend on this interface only,
// so they can never see key material.
type Sealer interface {
	HasKey() bool
	Encrypt(plaintext []byte) (models.EncryptedBlob, error)
	Decrypt(blob models.EncryptedBlob) ([]byte, error)
	EncryptJSON(v any) (models.EncryptedBlob, error)
	DecryptJSON(blob models.EncryptedBlob, target any) error
}

// KeyService is the full key lifecycle used by the application context.
type KeyService interface {
	Sealer

	InitializeKey(ctx context.Context, userID, secret string) error
	VerifyKey(ctx context.Context) error
	ClearKey()

	RegisterRecoveryKey(ctx context.Context, userID string) (string, error)
	VerifyRecoveryKey(ctx context.Context, userID, recoveryKey string) (bool, error)
}
