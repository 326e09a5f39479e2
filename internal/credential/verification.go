package credential

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/subtle"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

// authDataLen is rpIdHash(32) | flags(1) | signCount(4).
const authDataLen = 32 + 1 + 4

type authenticatorData struct {
	rpIDHash  [32]byte
	flags     protocol.AuthenticatorFlags
	signCount uint32
}

func buildAuthData(rpID string, flags protocol.AuthenticatorFlags, signCount uint32) []byte {
	out := make([]byte, authDataLen)
	h := sha256.Sum256([]byte(rpID))
	copy(out, h[:])
	out[32] = byte(flags)
	binary.BigEndian.PutUint32(out[33:], signCount)
	return out
}

func parseAuthData(raw []byte) (authenticatorData, error) {
	if len(raw) < authDataLen {
		return authenticatorData{}, fmt.Errorf("%w: authenticator data too short", ErrVerificationFailed)
	}
	var d authenticatorData
	copy(d.rpIDHash[:], raw[:32])
	d.flags = protocol.AuthenticatorFlags(raw[32])
	d.signCount = binary.BigEndian.Uint32(raw[33:37])
	return d, nil
}

func encodeChallenge(nonce []byte) string {
	return base64.RawURLEncoding.EncodeToString(nonce)
}

func buildClientData(ceremony string, nonce []byte, origin string) ([]byte, error) {
	return json.Marshal(models.CollectedClientData{
		Type:      ceremony,
		Challenge: encodeChallenge(nonce),
		Origin:    origin,
	})
}

// signedData is what both attestation and assertion signatures cover.
func signedData(authData, clientDataJSON []byte) []byte {
	h := sha256.Sum256(clientDataJSON)
	out := make([]byte, 0, len(authData)+len(h))
	out = append(out, authData...)
	return append(out, h[:]...)
}

// checker holds the relying-party parameters every response is checked
// against.
type checker struct {
	rpIDHash [32]byte
	origin   string
}

func newChecker(rpID, origin string) checker {
	return checker{rpIDHash: sha256.Sum256([]byte(rpID)), origin: origin}
}

func (c checker) clientData(raw []byte, ceremony string, nonce []byte) error {
	var cd models.CollectedClientData
	if err := json.Unmarshal(raw, &cd); err != nil {
		return fmt.Errorf("%w: malformed client data", ErrVerificationFailed)
	}
	if cd.Type != ceremony {
		return fmt.Errorf("%w: client data type %q", ErrVerificationFailed, cd.Type)
	}
	if subtle.ConstantTimeCompare([]byte(cd.Challenge), []byte(encodeChallenge(nonce))) != 1 {
		return fmt.Errorf("%w: challenge mismatch", ErrVerificationFailed)
	}
	if cd.Origin != c.origin {
		return fmt.Errorf("%w: origin %q", ErrVerificationFailed, cd.Origin)
	}
	return nil
}

func (c checker) authData(raw []byte) (authenticatorData, error) {
	d, err := parseAuthData(raw)
	if err != nil {
		return authenticatorData{}, err
	}
	if subtle.ConstantTimeCompare(d.rpIDHash[:], c.rpIDHash[:]) != 1 {
		return authenticatorData{}, fmt.Errorf("%w: relying party mismatch", ErrVerificationFailed)
	}
	if d.flags&protocol.FlagUserPresent == 0 {
		return authenticatorData{}, fmt.Errorf("%w: user not present", ErrVerificationFailed)
	}
	return d, nil
}

func parsePublicKey(der []byte) (*ecdsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed public key", ErrVerificationFailed)
	}
	key, ok := pub.(*ecdsa.PublicKey)
	if !ok || key.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: public key is not ECDSA P-256", ErrVerificationFailed)
	}
	return key, nil
}

func verifySignature(key *ecdsa.PublicKey, authData, clientDataJSON, signature []byte) error {
	digest := sha256.Sum256(signedData(authData, clientDataJSON))
	if !ecdsa.VerifyASN1(key, digest[:], signature) {
		return fmt.Errorf("%w: bad signature", ErrVerificationFailed)
	}
	return nil
}
