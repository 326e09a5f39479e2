package credential

import (
	"context"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/credential_mock.go -package=mock

// Authenticator is the platform authenticator API: one capability check and
// the two ceremony primitives. Implementations report a dismissed prompt or
// an expired context as [ErrCeremonyCancelledOrTimedOut], a missing device as
// [ErrUnsupportedAuthenticator], and an excluded credential as
// [ErrAlreadyRegistered].
type Authenticator interface {
	Capabilities(ctx context.Context) (models.AuthenticatorSupport, error)
	Create(ctx context.Context, options models.CeremonyOptions) (models.AttestationResponse, error)
	Get(ctx context.Context, options models.CeremonyOptions) (models.AssertionResponse, error)
}

// Verifier is the trusted side of a ceremony. [Service] implements it
// in-process; the HTTP adapter implements it against a remote verifier.
type Verifier interface {
	BeginRegistration(ctx context.Context, req models.RegistrationRequest) (models.CeremonyOptions, error)
	FinishRegistration(ctx context.Context, resp models.AttestationResponse) (models.Credential, error)
	BeginAuthentication(ctx context.Context, subject string) (models.CeremonyOptions, error)
	FinishAuthentication(ctx context.Context, resp models.AssertionResponse) (models.AuthenticationResult, error)
	ListCredentials(ctx context.Context, userID string) ([]models.Credential, error)
	DeleteCredential(ctx context.Context, userID, credentialID string) error
}
