package credential

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/google/uuid"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

// PresenceFunc asks the user to confirm a ceremony. Returning false
// dismisses the prompt.
type PresenceFunc func(ctx context.Context, options models.CeremonyOptions) (bool, error)

type softwareKey struct {
	credentialID string
	rpID         string
	userID       string
	private      *ecdsa.PrivateKey
	counter      uint32
}

// SoftwareAuthenticator is an in-process authenticator holding ECDSA P-256
// keys. Each assertion increments the credential's signature counter.
type SoftwareAuthenticator struct {
	mu       sync.Mutex
	kind     models.AuthenticatorKind
	aaguid   string
	label    string
	origin   string
	presence PresenceFunc
	keys     map[string]*softwareKey
}

// SoftwareOption configures a [SoftwareAuthenticator].
type SoftwareOption func(*SoftwareAuthenticator)

// WithPresence installs a user-presence prompt. Without one every ceremony
// is confirmed.
func WithPresence(fn PresenceFunc) SoftwareOption {
	return func(a *SoftwareAuthenticator) {
		a.presence = fn
	}
}

// WithDeviceLabel sets the label reported on registration.
func WithDeviceLabel(label string) SoftwareOption {
	return func(a *SoftwareAuthenticator) {
		a.label = label
	}
}

// WithOrigin overrides the origin written into client data. By default the
// origin from the ceremony options is used.
func WithOrigin(origin string) SoftwareOption {
	return func(a *SoftwareAuthenticator) {
		a.origin = origin
	}
}

// NewSoftwareAuthenticator returns an empty authenticator of the given kind.
func NewSoftwareAuthenticator(kind models.AuthenticatorKind, opts ...SoftwareOption) *SoftwareAuthenticator {
	a := &SoftwareAuthenticator{
		kind:   kind,
		aaguid: uuid.NewString(),
		label:  "software " + string(kind),
		keys:   make(map[string]*softwareKey),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Capabilities reports the single kind this authenticator was built as.
func (a *SoftwareAuthenticator) Capabilities(ctx context.Context) (models.AuthenticatorSupport, error) {
	if err := ctx.Err(); err != nil {
		return models.AuthenticatorSupport{}, err
	}
	return models.AuthenticatorSupport{
		PlatformAvailable:      a.kind == models.PlatformAuthenticator,
		CrossPlatformAvailable: a.kind == models.CrossPlatformAuthenticator,
	}, nil
}

func (a *SoftwareAuthenticator) confirm(ctx context.Context, opts models.CeremonyOptions) error {
	if err := ctx.Err(); err != nil {
		return ErrCeremonyCancelledOrTimedOut
	}
	if a.presence == nil {
		return nil
	}
	ok, err := a.presence(ctx, opts)
	if err != nil {
		return err
	}
	if !ok || ctx.Err() != nil {
		return ErrCeremonyCancelledOrTimedOut
	}
	return nil
}

func (a *SoftwareAuthenticator) originFor(opts models.CeremonyOptions) string {
	if a.origin != "" {
		return a.origin
	}
	return opts.Origin
}

// Create generates a new key pair for the relying party in options.
func (a *SoftwareAuthenticator) Create(ctx context.Context, options models.CeremonyOptions) (models.AttestationResponse, error) {
	if options.Kind != "" && options.Kind != a.kind {
		return models.AttestationResponse{}, ErrUnsupportedAuthenticator
	}

	a.mu.Lock()
	for _, id := range options.ExcludeCredentials {
		if k, ok := a.keys[id]; ok && k.rpID == options.RelyingPartyID {
			a.mu.Unlock()
			return models.AttestationResponse{}, ErrAlreadyRegistered
		}
	}
	a.mu.Unlock()

	if err := a.confirm(ctx, options); err != nil {
		return models.AttestationResponse{}, err
	}

	private, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return models.AttestationResponse{}, fmt.Errorf("generating key: %w", err)
	}
	publicDER, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	if err != nil {
		return models.AttestationResponse{}, fmt.Errorf("encoding public key: %w", err)
	}

	rawID := make([]byte, 32)
	if _, err := rand.Read(rawID); err != nil {
		return models.AttestationResponse{}, fmt.Errorf("generating credential id: %w", err)
	}
	key := &softwareKey{
		credentialID: base64.RawURLEncoding.EncodeToString(rawID),
		rpID:         options.RelyingPartyID,
		userID:       options.UserID,
		private:      private,
	}

	clientData, err := buildClientData(models.ClientDataCreate, options.Challenge, a.originFor(options))
	if err != nil {
		return models.AttestationResponse{}, err
	}
	authData := buildAuthData(options.RelyingPartyID, protocol.FlagUserPresent|protocol.FlagUserVerified, 0)
	sig, err := sign(private, authData, clientData)
	if err != nil {
		return models.AttestationResponse{}, err
	}

	a.mu.Lock()
	a.keys[key.credentialID] = key
	a.mu.Unlock()

	return models.AttestationResponse{
		ChallengeID:       options.ChallengeID,
		CredentialID:      key.credentialID,
		PublicKey:         publicDER,
		AAGUID:            a.aaguid,
		Kind:              a.kind,
		DeviceLabel:       a.label,
		ClientDataJSON:    clientData,
		AuthenticatorData: authData,
		Signature:         sig,
	}, nil
}

// Get signs an assertion with the first held key in options.AllowCredentials.
func (a *SoftwareAuthenticator) Get(ctx context.Context, options models.CeremonyOptions) (models.AssertionResponse, error) {
	if err := a.confirm(ctx, options); err != nil {
		return models.AssertionResponse{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var key *softwareKey
	for _, id := range options.AllowCredentials {
		if k, ok := a.keys[id]; ok && k.rpID == options.RelyingPartyID {
			key = k
			break
		}
	}
	if key == nil {
		return models.AssertionResponse{}, ErrCredentialNotFound
	}

	key.counter++
	clientData, err := buildClientData(models.ClientDataGet, options.Challenge, a.originFor(options))
	if err != nil {
		return models.AssertionResponse{}, err
	}
	authData := buildAuthData(options.RelyingPartyID, protocol.FlagUserPresent|protocol.FlagUserVerified, key.counter)
	sig, err := sign(key.private, authData, clientData)
	if err != nil {
		return models.AssertionResponse{}, err
	}

	return models.AssertionResponse{
		ChallengeID:       options.ChallengeID,
		CredentialID:      key.credentialID,
		ClientDataJSON:    clientData,
		AuthenticatorData: authData,
		Signature:         sig,
		UserHandle:        key.userID,
	}, nil
}

// Clone returns an authenticator holding copies of every key and counter,
// as an attacker who extracted the key material would.
func (a *SoftwareAuthenticator) Clone() *SoftwareAuthenticator {
	a.mu.Lock()
	defer a.mu.Unlock()

	c := &SoftwareAuthenticator{
		kind:     a.kind,
		aaguid:   a.aaguid,
		label:    a.label,
		origin:   a.origin,
		presence: a.presence,
		keys:     make(map[string]*softwareKey, len(a.keys)),
	}
	for id, k := range a.keys {
		cp := *k
		c.keys[id] = &cp
	}
	return c
}

// CredentialIDs lists the ids of the held credentials.
func (a *SoftwareAuthenticator) CredentialIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	ids := make([]string, 0, len(a.keys))
	for id := range a.keys {
		ids = append(ids, id)
	}
	return ids
}

func sign(private *ecdsa.PrivateKey, authData, clientDataJSON []byte) ([]byte, error) {
	digest := sha256.Sum256(signedData(authData, clientDataJSON))
	sig, err := ecdsa.SignASN1(rand.Reader, private, digest[:])
	if err != nil {
		return nil, fmt.Errorf("signing: %w", err)
	}
	return sig, nil
}
