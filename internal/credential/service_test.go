package credential

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/mock"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/store"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/utils"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

const (
	testRPID   = "portfolio.example"
	testOrigin = "https://portfolio.example"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time { return f.now }

func (f *fakeTime) Advance(d time.Duration) { f.now = f.now.Add(d) }

func testConfig() config.Credential {
	return config.Credential{
		RelyingPartyID:  testRPID,
		Origin:          testOrigin,
		ChallengeTTL:    5 * time.Minute,
		CeremonyTimeout: time.Minute,
	}
}

func newTestService(t *testing.T) (*Service, *store.Memory, *fakeTime) {
	t.Helper()
	mem := store.NewMemory()
	clock := &fakeTime{now: t0}
	s := NewService(testConfig(), mem, mem, logger.Nop())
	s.now = clock.Now
	return s, mem, clock
}

func register(t *testing.T, s *Service, a *SoftwareAuthenticator, userID, subject string) models.Credential {
	t.Helper()
	ctx := context.Background()

	opts, err := s.BeginRegistration(ctx, models.RegistrationRequest{
		UserID:      userID,
		DisplayName: "User One",
		Subject:     subject,
		Kind:        models.PlatformAuthenticator,
	})
	require.NoError(t, err)

	resp, err := a.Create(ctx, opts)
	require.NoError(t, err)

	cred, err := s.FinishRegistration(ctx, resp)
	require.NoError(t, err)
	return cred
}

func assertion(t *testing.T, s *Service, a *SoftwareAuthenticator, subject string) models.AssertionResponse {
	t.Helper()
	ctx := context.Background()

	opts, err := s.BeginAuthentication(ctx, subject)
	require.NoError(t, err)
	resp, err := a.Get(ctx, opts)
	require.NoError(t, err)
	return resp
}

func TestService_RegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator)

	cred := register(t, s, a, "u1", "u1@example.com")
	assert.Equal(t, "u1", cred.UserID)
	assert.Equal(t, "u1@example.com", cred.Subject)
	assert.Equal(t, uint32(0), cred.SignatureCounter)
	assert.Equal(t, models.PlatformAuthenticator, cred.AuthenticatorKind)

	opts, err := s.BeginAuthentication(ctx, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{cred.CredentialID}, opts.AllowCredentials)
	assert.Equal(t, models.PurposeAuthentication, opts.Purpose)
	assert.Equal(t, t0.Add(5*time.Minute), opts.ExpiresAt)

	resp, err := a.Get(ctx, opts)
	require.NoError(t, err)

	res, err := s.FinishAuthentication(ctx, resp)
	require.NoError(t, err)
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, cred.CredentialID, res.CredentialID)
	assert.Equal(t, models.CeremonyVerified, res.State)

	stored, err := mem.GetCredential(ctx, cred.CredentialID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stored.SignatureCounter)
}

func TestService_BeginRegistration_ExcludesExisting(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator)

	cred := register(t, s, a, "u1", "u1@example.com")

	opts, err := s.BeginRegistration(ctx, models.RegistrationRequest{
		UserID: "u1", Subject: "u1@example.com", Kind: models.PlatformAuthenticator,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{cred.CredentialID}, opts.ExcludeCredentials)

	_, err = a.Create(ctx, opts)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestService_BeginRegistration_InvalidRequest(t *testing.T) {
	s, _, _ := newTestService(t)

	tests := []struct {
		name string
		req  models.RegistrationRequest
	}{
		{name: "no user", req: models.RegistrationRequest{Subject: "s", Kind: models.PlatformAuthenticator}},
		{name: "no subject", req: models.RegistrationRequest{UserID: "u", Kind: models.PlatformAuthenticator}},
		{name: "bad kind", req: models.RegistrationRequest{UserID: "u", Subject: "s", Kind: "usb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.BeginRegistration(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestService_FinishRegistration_ChallengeSingleUse(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator)

	opts, err := s.BeginRegistration(ctx, models.RegistrationRequest{
		UserID: "u1", Subject: "u1@example.com", Kind: models.PlatformAuthenticator,
	})
	require.NoError(t, err)
	resp, err := a.Create(ctx, opts)
	require.NoError(t, err)

	_, err = s.FinishRegistration(ctx, resp)
	require.NoError(t, err)

	_, err = s.FinishRegistration(ctx, resp)
	assert.ErrorIs(t, err, ErrChallengeExpiredOrConsumed)
}

func TestService_FinishRegistration_OtherCaller(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator)

	opts, err := s.BeginRegistration(ctx, models.RegistrationRequest{
		UserID: "u1", Subject: "u1@example.com", Kind: models.PlatformAuthenticator,
	})
	require.NoError(t, err)
	resp, err := a.Create(ctx, opts)
	require.NoError(t, err)

	mallory := context.WithValue(ctx, utils.UserIDCtxKey, "u2")
	_, err = s.FinishRegistration(mallory, resp)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	creds, err := s.ListCredentials(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestService_FinishRegistration_Duplicate(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator)

	first := register(t, s, a, "u1", "u1@example.com")

	// an authenticator ignoring the exclude list reuses the id
	opts, err := s.BeginRegistration(ctx, models.RegistrationRequest{
		UserID: "u1", Subject: "u1@example.com", Kind: models.PlatformAuthenticator,
	})
	require.NoError(t, err)
	opts.ExcludeCredentials = nil
	resp, err := a.Create(ctx, opts)
	require.NoError(t, err)
	resp.CredentialID = first.CredentialID

	_, err = s.FinishRegistration(ctx, resp)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestService_FinishAuthentication_ChallengeSingleUse(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator)
	register(t, s, a, "u1", "u1@example.com")

	resp := assertion(t, s, a, "u1@example.com")
	_, err := s.FinishAuthentication(ctx, resp)
	require.NoError(t, err)

	_, err = s.FinishAuthentication(ctx, resp)
	assert.ErrorIs(t, err, ErrChallengeExpiredOrConsumed)
}

func TestService_FinishAuthentication_ChallengeExpired(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator)
	register(t, s, a, "u1", "u1@example.com")

	resp := assertion(t, s, a, "u1@example.com")
	clock.Advance(5 * time.Minute)

	_, err := s.FinishAuthentication(ctx, resp)
	assert.ErrorIs(t, err, ErrChallengeExpiredOrConsumed)
}

func TestService_FinishAuthentication_WrongPurpose(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)

	opts, err := s.BeginRegistration(ctx, models.RegistrationRequest{
		UserID: "u1", Subject: "u1@example.com", Kind: models.PlatformAuthenticator,
	})
	require.NoError(t, err)

	_, err = s.FinishAuthentication(ctx, models.AssertionResponse{ChallengeID: opts.ChallengeID})
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestService_CloneDetected(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestService(t)
	original := NewSoftwareAuthenticator(models.PlatformAuthenticator)
	cred := register(t, s, original, "u1", "u1@example.com")
	clone := original.Clone()

	_, err := s.FinishAuthentication(ctx, assertion(t, s, original, "u1@example.com"))
	require.NoError(t, err)

	_, err = s.FinishAuthentication(ctx, assertion(t, s, clone, "u1@example.com"))
	assert.ErrorIs(t, err, ErrPossibleCloneDetected)

	stored, err := mem.GetCredential(ctx, cred.CredentialID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stored.SignatureCounter)
}

func TestService_CounterlessAuthenticator(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator)
	cred := register(t, s, a, "u1", "u1@example.com")

	resp := assertion(t, s, a, "u1@example.com")
	// rebuild the assertion as an authenticator that always reports 0
	key := a.keys[cred.CredentialID]
	resp.AuthenticatorData = buildAuthData(testRPID, 0x01, 0)
	sig, err := sign(key.private, resp.AuthenticatorData, resp.ClientDataJSON)
	require.NoError(t, err)
	resp.Signature = sig

	_, err = s.FinishAuthentication(ctx, resp)
	require.NoError(t, err)

	stored, err := mem.GetCredential(ctx, cred.CredentialID)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), stored.SignatureCounter)
}

func TestService_FinishAuthentication_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, resp *models.AssertionResponse)
		want   error
	}{
		{
			name: "bad signature",
			mutate: func(_ *testing.T, resp *models.AssertionResponse) {
				resp.Signature[len(resp.Signature)-1] ^= 0xff
			},
			want: ErrVerificationFailed,
		},
		{
			name: "tampered client data",
			mutate: func(_ *testing.T, resp *models.AssertionResponse) {
				resp.ClientDataJSON = append([]byte(nil), resp.ClientDataJSON...)
				resp.ClientDataJSON[len(resp.ClientDataJSON)-2] ^= 0x01
			},
			want: ErrVerificationFailed,
		},
		{
			name: "credential outside allow list",
			mutate: func(_ *testing.T, resp *models.AssertionResponse) {
				resp.CredentialID = "someone-else"
			},
			want: ErrVerificationFailed,
		},
		{
			name: "user handle mismatch",
			mutate: func(_ *testing.T, resp *models.AssertionResponse) {
				resp.UserHandle = "u2"
			},
			want: ErrVerificationFailed,
		},
		{
			name: "short authenticator data",
			mutate: func(_ *testing.T, resp *models.AssertionResponse) {
				resp.AuthenticatorData = resp.AuthenticatorData[:10]
			},
			want: ErrVerificationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestService(t)
			a := NewSoftwareAuthenticator(models.PlatformAuthenticator)
			register(t, s, a, "u1", "u1@example.com")

			resp := assertion(t, s, a, "u1@example.com")
			tt.mutate(t, &resp)

			_, err := s.FinishAuthentication(context.Background(), resp)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_WrongOrigin(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator, WithOrigin("https://evil.example"))

	opts, err := s.BeginRegistration(ctx, models.RegistrationRequest{
		UserID: "u1", Subject: "u1@example.com", Kind: models.PlatformAuthenticator,
	})
	require.NoError(t, err)
	resp, err := a.Create(ctx, opts)
	require.NoError(t, err)

	_, err = s.FinishRegistration(ctx, resp)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestService_WrongRelyingParty(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	a := NewSoftwareAuthenticator(models.PlatformAuthenticator)

	opts, err := s.BeginRegistration(ctx, models.RegistrationRequest{
		UserID: "u1", Subject: "u1@example.com", Kind: models.PlatformAuthenticator,
	})
	require.NoError(t, err)
	opts.RelyingPartyID = "evil.example"
	resp, err := a.Create(ctx, opts)
	require.NoError(t, err)

	_, err = s.FinishRegistration(ctx, resp)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestService_BeginAuthentication_NoCredentials(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.BeginAuthentication(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestService_StaleCounterWriteIsClone(t *testing.T) {
	ctrl := gomock.NewController(t)
	creds := mock.NewMockCredentialRepository(ctrl)

	s := NewService(testConfig(), creds, store.NewMemory(), logger.Nop())
	cred := models.Credential{CredentialID: "c1", UserID: "u1", SignatureCounter: 3}

	creds.EXPECT().
		UpdateCredentialUsage(gomock.Any(), "c1", uint32(3), uint32(4), gomock.Any()).
		Return(store.ErrStaleCounter)

	err := s.advanceCounter(context.Background(), cred, 4)
	assert.ErrorIs(t, err, ErrPossibleCloneDetected)
}

func TestService_StoreFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	creds := mock.NewMockCredentialRepository(ctrl)
	boom := errors.New("boom")

	s := NewService(testConfig(), creds, store.NewMemory(), logger.Nop())
	creds.EXPECT().ListCredentialsBySubject(gomock.Any(), "u1@example.com").Return(nil, boom)

	_, err := s.BeginAuthentication(context.Background(), "u1@example.com")
	assert.ErrorIs(t, err, boom)
}

func TestService_ListAndDeleteCredentials(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	cred := register(t, s, NewSoftwareAuthenticator(models.PlatformAuthenticator), "u1", "u1@example.com")

	list, err := s.ListCredentials(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cred.CredentialID, list[0].CredentialID)

	assert.ErrorIs(t, s.DeleteCredential(ctx, "u2", cred.CredentialID), ErrCredentialNotFound)
	require.NoError(t, s.DeleteCredential(ctx, "u1", cred.CredentialID))

	list, err = s.ListCredentials(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.ListCredentials(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestService_SweepExpiredChallenges(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestService(t)
	register(t, s, NewSoftwareAuthenticator(models.PlatformAuthenticator), "u1", "u1@example.com")

	_, err := s.BeginAuthentication(ctx, "u1@example.com")
	require.NoError(t, err)
	_, err = s.BeginAuthentication(ctx, "u1@example.com")
	require.NoError(t, err)

	n, err := s.SweepExpiredChallenges(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clock.Advance(6 * time.Minute)
	n, err = s.SweepExpiredChallenges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
