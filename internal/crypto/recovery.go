package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/hex"
	"strings"
)

const (
	recoveryKeyBytes = 20 // 160 bits, 32 base32 characters
	recoveryGroup    = 4
)

var recoveryEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateRecoveryKey returns a random key formatted for transcription, e.g.
// "ABCD-EFGH-...". It carries 160 bits of entropy.
func GenerateRecoveryKey() (string, error) {
	raw := make([]byte, recoveryKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	encoded := recoveryEncoding.EncodeToString(raw)

	groups := make([]string, 0, len(encoded)/recoveryGroup)
	for i := 0; i < len(encoded); i += recoveryGroup {
		groups = append(groups, encoded[i:min(i+recoveryGroup, len(encoded))])
	}
	return strings.Join(groups, "-"), nil
}

// normalizeRecoveryKey makes a transcribed key comparable: case, separators
// and whitespace are ignored.
func normalizeRecoveryKey(key string) string {
	key = strings.ToUpper(key)
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, key)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyHash reports whether Hash(data) equals expected, in constant time.
func VerifyHash(data []byte, expected string) bool {
	got := Hash(data)
	return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(expected))) == 1
}
