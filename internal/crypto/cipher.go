package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

// algorithmTag maps a configured cipher name to the tag written into blobs.
func algorithmTag(name string) (string, error) {
	switch name {
	case config.CipherAESGCM, "":
		return models.AlgorithmAES256GCM, nil
	case config.CipherXChaCha20Poly1305:
		return models.AlgorithmXChaCha20Poly1305, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
}

// newAEAD builds the AEAD named by tag over key.
func newAEAD(tag string, key []byte) (cipher.AEAD, error) {
	switch tag {
	case models.AlgorithmAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case models.AlgorithmXChaCha20Poly1305:
		return chacha20poly1305.NewX(key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, tag)
	}
}
