package credential

import (
	"context"
	"errors"
	"time"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

const defaultCeremonyTimeout = 60 * time.Second

// Client drives ceremonies between the local authenticator and a verifier.
type Client struct {
	verifier      Verifier
	authenticator Authenticator
	timeout       time.Duration
	logger        *logger.Logger
}

// NewClient returns a ceremony driver. A non-positive timeout falls back to
// one minute.
func NewClient(verifier Verifier, authenticator Authenticator, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultCeremonyTimeout
	}
	return &Client{
		verifier:      verifier,
		authenticator: authenticator,
		timeout:       timeout,
		logger:        log,
	}
}

// CheckAuthenticatorSupport reports which authenticator kinds are available.
func (c *Client) CheckAuthenticatorSupport(ctx context.Context) (models.AuthenticatorSupport, error) {
	support, err := c.authenticator.Capabilities(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Str("func", "Client.CheckAuthenticatorSupport").Msg("capability check failed")
		return models.AuthenticatorSupport{}, nil
	}
	return support, nil
}

// RegisterCredential enrolls a new authenticator of the given kind for userID.
func (c *Client) RegisterCredential(ctx context.Context, userID, displayName, subject string, kind models.AuthenticatorKind) (models.Credential, error) {
	support, err := c.CheckAuthenticatorSupport(ctx)
	if err != nil {
		return models.Credential{}, err
	}
	if !support.Supports(kind) {
		return models.Credential{}, ErrUnsupportedAuthenticator
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts, err := c.verifier.BeginRegistration(ctx, models.RegistrationRequest{
		UserID:      userID,
		DisplayName: displayName,
		Subject:     subject,
		Kind:        kind,
	})
	if err != nil {
		return models.Credential{}, c.ceremonyError(ctx, "registration", err)
	}

	resp, err := c.authenticator.Create(ctx, opts)
	if err != nil {
		return models.Credential{}, c.ceremonyError(ctx, "registration", err)
	}

	cred, err := c.verifier.FinishRegistration(ctx, resp)
	if err != nil {
		return models.Credential{}, c.ceremonyError(ctx, "registration", err)
	}

	c.logger.Info().
		Str("user_id", userID).
		Str("kind", string(kind)).
		Msg("credential registered")
	return cred, nil
}

// Authenticate runs an authentication ceremony for subject.
func (c *Client) Authenticate(ctx context.Context, subject string) (models.AuthenticationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts, err := c.verifier.BeginAuthentication(ctx, subject)
	if err != nil {
		return models.AuthenticationResult{}, c.ceremonyError(ctx, "authentication", err)
	}

	resp, err := c.authenticator.Get(ctx, opts)
	if err != nil {
		return models.AuthenticationResult{}, c.ceremonyError(ctx, "authentication", err)
	}

	result, err := c.verifier.FinishAuthentication(ctx, resp)
	if err != nil {
		return models.AuthenticationResult{}, c.ceremonyError(ctx, "authentication", err)
	}
	return result, nil
}

// ceremonyError maps context expiry onto ErrCeremonyCancelledOrTimedOut.
// Cancellation is an expected outcome and is logged at info; a suspected
// clone is logged at warn.
func (c *Client) ceremonyError(ctx context.Context, ceremony string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		err = ErrCeremonyCancelledOrTimedOut
	}

	switch {
	case errors.Is(err, ErrCeremonyCancelledOrTimedOut):
		c.logger.Info().Str("ceremony", ceremony).Msg("ceremony cancelled or timed out")
	case errors.Is(err, ErrPossibleCloneDetected):
		c.logger.Warn().Str("ceremony", ceremony).Err(err).Msg("possible cloned authenticator")
	default:
		c.logger.Debug().Str("ceremony", ceremony).Err(err).Msg("ceremony failed")
	}
	return err
}
