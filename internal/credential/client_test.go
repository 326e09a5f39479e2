package credential

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/mock"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

func TestClient_RegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	c := NewClient(s, NewSoftwareAuthenticator(models.PlatformAuthenticator), time.Second, logger.Nop())

	support, err := c.CheckAuthenticatorSupport(ctx)
	require.NoError(t, err)
	assert.True(t, support.PlatformAvailable)
	assert.False(t, support.CrossPlatformAvailable)

	cred, err := c.RegisterCredential(ctx, "u1", "User One", "u1@example.com", models.PlatformAuthenticator)
	require.NoError(t, err)
	assert.Equal(t, "u1", cred.UserID)

	res, err := c.Authenticate(ctx, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, models.CeremonyVerified, res.State)

	_, err = c.RegisterCredential(ctx, "u1", "User One", "u1@example.com", models.PlatformAuthenticator)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestClient_RegisterCredential_Unsupported(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mock.NewMockVerifier(ctrl)
	auth := mock.NewMockAuthenticator(ctrl)

	auth.EXPECT().Capabilities(gomock.Any()).Return(models.AuthenticatorSupport{PlatformAvailable: true}, nil)

	c := NewClient(verifier, auth, time.Second, logger.Nop())
	_, err := c.RegisterCredential(context.Background(), "u1", "", "u1@example.com", models.CrossPlatformAuthenticator)
	assert.ErrorIs(t, err, ErrUnsupportedAuthenticator)
}

func TestClient_CheckAuthenticatorSupport_ProbeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mock.NewMockAuthenticator(ctrl)
	auth.EXPECT().Capabilities(gomock.Any()).Return(models.AuthenticatorSupport{}, errors.New("no platform api"))

	c := NewClient(mock.NewMockVerifier(ctrl), auth, time.Second, logger.Nop())
	support, err := c.CheckAuthenticatorSupport(context.Background())
	require.NoError(t, err)
	assert.False(t, support.Supports(models.PlatformAuthenticator))
}

func TestClient_Authenticate_UserDismissed(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator)
	register(t, s, a, "u1", "u1@example.com")

	dismissing := a.Clone()
	dismissing.presence = func(context.Context, models.CeremonyOptions) (bool, error) { return false, nil }

	c := NewClient(s, dismissing, time.Second, logger.Nop())
	_, err := c.Authenticate(ctx, "u1@example.com")
	assert.ErrorIs(t, err, ErrCeremonyCancelledOrTimedOut)
}

func TestClient_Authenticate_Timeout(t *testing.T) {
	s, _, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator, WithPresence(
		func(ctx context.Context, _ models.CeremonyOptions) (bool, error) {
			<-ctx.Done()
			return true, nil
		},
	))
	// registration goes through the service directly so only the
	// authentication prompt blocks
	plain := NewSoftwareAuthenticator(models.PlatformAuthenticator)
	register(t, s, plain, "u1", "u1@example.com")
	for id, k := range plain.keys {
		a.keys[id] = k
	}

	c := NewClient(s, a, 20*time.Millisecond, logger.Nop())
	_, err := c.Authenticate(context.Background(), "u1@example.com")
	assert.ErrorIs(t, err, ErrCeremonyCancelledOrTimedOut)
}

func TestClient_Authenticate_CallerCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mock.NewMockVerifier(ctrl)
	auth := mock.NewMockAuthenticator(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	verifier.EXPECT().BeginAuthentication(gomock.Any(), "u1@example.com").
		DoAndReturn(func(ctx context.Context, _ string) (models.CeremonyOptions, error) {
			cancel()
			return models.CeremonyOptions{}, ctx.Err()
		})

	c := NewClient(verifier, auth, time.Second, logger.Nop())
	_, err := c.Authenticate(ctx, "u1@example.com")
	assert.ErrorIs(t, err, ErrCeremonyCancelledOrTimedOut)
}

func TestClient_Authenticate_PropagatesVerifierErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "clone", err: ErrPossibleCloneDetected},
		{name: "verification", err: ErrVerificationFailed},
		{name: "consumed", err: ErrChallengeExpiredOrConsumed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			verifier := mock.NewMockVerifier(ctrl)
			auth := mock.NewMockAuthenticator(ctrl)

			opts := models.CeremonyOptions{ChallengeID: "c1"}
			resp := models.AssertionResponse{ChallengeID: "c1", CredentialID: "cred"}
			gomock.InOrder(
				verifier.EXPECT().BeginAuthentication(gomock.Any(), "u1@example.com").Return(opts, nil),
				auth.EXPECT().Get(gomock.Any(), opts).Return(resp, nil),
				verifier.EXPECT().FinishAuthentication(gomock.Any(), resp).Return(models.AuthenticationResult{}, tt.err),
			)

			c := NewClient(verifier, auth, time.Second, logger.Nop())
			_, err := c.Authenticate(context.Background(), "u1@example.com")
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClient_Authenticate_NoCredentials(t *testing.T) {
	s, _, _ := newTestService(t)
	c := NewClient(s, NewSoftwareAuthenticator(models.PlatformAuthenticator), time.Second, logger.Nop())

	_, err := c.Authenticate(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}
