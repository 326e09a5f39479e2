package crypto

import "errors"

var (
	// ErrKeyNotInitialized is returned by Encrypt and Decrypt before a key
	// has been derived (or after ClearKey).
	ErrKeyNotInitialized = errors.New("encryption key is not initialized")

	// ErrDecryptionFailed means the authentication tag did not verify: wrong
	// key, wrong salt, or a tampered blob.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrUnsupportedAlgorithm is returned for a blob whose algorithm tag this
	// build does not know.
	ErrUnsupportedAlgorithm = errors.New("unsupported encryption algorithm")

	// ErrKeyMismatch is returned by VerifyKey when the held key cannot open
	// the user's key-check blob. It wraps ErrDecryptionFailed.
	ErrKeyMismatch = errors.New("derived key does not match the stored key check")

	ErrKeyNotExportable = errors.New("encryption key is not exportable")
	ErrWeakKDF          = errors.New("key derivation parameters below the minimum")
	ErrUnknownKDF       = errors.New("unknown key derivation function")
)
