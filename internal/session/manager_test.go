package session

import (
	"context"
	"errors"
	"sync"
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

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type staticFingerprint struct {
	mu sync.Mutex
	v  string
}

func (f *staticFingerprint) Generate(context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.v
}

func (f *staticFingerprint) set(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.v = v
}

func testSessionConfig() config.Session {
	return config.Session{
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  30 * 24 * time.Hour,
		IdleTimeout:      30 * time.Minute,
		RefreshLead:      2 * time.Minute,
		OperationTimeout: time.Second,
	}
}

func testAppConfig() config.App {
	return config.App{TokenSignKey: "sign-key", TokenIssuer: "securecore", HashKey: "hash-key"}
}

type fixture struct {
	m     *Manager
	mem   *store.Memory
	clock *ManualClock
	fp    *staticFingerprint
	ended []Termination
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		mem:   store.NewMemory(),
		clock: NewManualClock(t0),
		fp:    &staticFingerprint{v: "fp-1"},
	}
	f.m = NewManager(testSessionConfig(), testAppConfig(), f.mem, f.mem, f.fp, logger.Nop(), WithClock(f.clock))
	f.m.OnTerminate(func(t Termination) { f.ended = append(f.ended, t) })
	return f
}

func (f *fixture) login(t *testing.T, userID string) models.AccessToken {
	t.Helper()
	tok, err := f.m.CreateSession(context.Background(), userID, models.AuthMethodPassword, models.DeviceInfo{Label: "laptop"})
	require.NoError(t, err)
	return tok
}

func (f *fixture) refreshRaw() string {
	v, _ := f.m.current()
	return v.refresh
}

func TestManager_CreateSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tok := f.login(t, "u1")
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, t0.Add(15*time.Minute), tok.ExpiresAt)
	assert.Equal(t, StateActive, f.m.State())
	assert.Equal(t, tok.Token, f.m.CurrentAccessToken())

	s, err := f.mem.GetSession(ctx, tok.SessionID)
	require.NoError(t, err)
	assert.True(t, s.IsActive)
	assert.Equal(t, "fp-1", s.Fingerprint)
	assert.Equal(t, models.AuthMethodPassword, s.AuthMethod)

	rt, err := f.mem.GetRefreshToken(ctx, utils.HashString(f.refreshRaw(), "hash-key"))
	require.NoError(t, err)
	assert.True(t, rt.IsValid)
	assert.Equal(t, tok.SessionID, rt.SessionID)

	require.NoError(t, f.m.ValidateAccessToken(ctx, ""))
	require.NoError(t, f.m.ValidateAccessToken(ctx, tok.Token))
}

func TestManager_CreateSession_RequiresUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.m.CreateSession(context.Background(), "", models.AuthMethodPassword, models.DeviceInfo{})
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestManager_CreateSession_SupersedesLocal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.login(t, "u1")
	second := f.login(t, "u1")

	s, err := f.mem.GetSession(ctx, first.SessionID)
	require.NoError(t, err)
	assert.False(t, s.IsActive)
	assert.Equal(t, ReasonSuperseded, s.TerminationReason)
	assert.Equal(t, second.Token, f.m.CurrentAccessToken())
	assert.Empty(t, f.ended)
}

func TestManager_RefreshRotatesAndRejectsReplay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tok := f.login(t, "u1")

	seen := map[string]bool{tok.Token: true}
	firstRaw := f.refreshRaw()

	for i := 0; i < 3; i++ {
		next, err := f.m.RefreshAccessToken(ctx)
		require.NoError(t, err)
		assert.False(t, seen[next.Token], "access token %d repeated", i+1)
		seen[next.Token] = true
	}

	_, err := f.m.RefreshWithToken(ctx, firstRaw)
	assert.ErrorIs(t, err, ErrTokenAlreadyRotated)
	assert.Equal(t, StateTerminated, f.m.State())

	s, err := f.mem.GetSession(ctx, tok.SessionID)
	require.NoError(t, err)
	assert.False(t, s.IsActive)
	assert.Equal(t, ReasonSuspicious, s.TerminationReason)

	require.Len(t, f.ended, 1)
	assert.Equal(t, ReasonSuspicious, f.ended[0].Reason)
	assert.Equal(t, "u1", f.ended[0].UserID)
}

func TestManager_Refresh_OldTokenMarkedUsed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, "u1")
	oldHash := utils.HashString(f.refreshRaw(), "hash-key")

	_, err := f.m.RefreshAccessToken(ctx)
	require.NoError(t, err)

	old, err := f.mem.GetRefreshToken(ctx, oldHash)
	require.NoError(t, err)
	assert.False(t, old.IsValid)
	require.NotNil(t, old.UsedAt)
	assert.Equal(t, t0, *old.UsedAt)

	cur, err := f.mem.GetRefreshToken(ctx, utils.HashString(f.refreshRaw(), "hash-key"))
	require.NoError(t, err)
	assert.True(t, cur.IsValid)
}

func TestManager_Refresh_FingerprintMismatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tok := f.login(t, "u1")

	f.fp.set("fp-2")
	_, err := f.m.RefreshAccessToken(ctx)
	assert.ErrorIs(t, err, ErrFingerprintMismatch)
	assert.Equal(t, StateTerminated, f.m.State())
	assert.Empty(t, f.m.CurrentAccessToken())

	s, err := f.mem.GetSession(ctx, tok.SessionID)
	require.NoError(t, err)
	assert.False(t, s.IsActive)
}

func TestManager_Refresh_FingerprintExtendedIsMismatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, "u1")

	f.fp.set("fp-10")
	_, err := f.m.RefreshAccessToken(ctx)
	assert.ErrorIs(t, err, ErrFingerprintMismatch)
	assert.Equal(t, StateTerminated, f.m.State())
}

func TestManager_Validate_FingerprintMismatch(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	fp := mock.NewMockProvider(ctrl)
	mem := store.NewMemory()

	gomock.InOrder(
		fp.EXPECT().Generate(gomock.Any()).Return("fp-a"),
		fp.EXPECT().Generate(gomock.Any()).Return("fp-b"),
	)

	m := NewManager(testSessionConfig(), testAppConfig(), mem, mem, fp, logger.Nop(), WithClock(NewManualClock(t0)))
	_, err := m.CreateSession(ctx, "u1", models.AuthMethodWebAuthn, models.DeviceInfo{})
	require.NoError(t, err)

	assert.ErrorIs(t, m.ValidateAccessToken(ctx, ""), ErrFingerprintMismatch)
	assert.Equal(t, StateTerminated, m.State())
}

func TestManager_Validate_Tokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tok := f.login(t, "u1")

	expired, err := utils.GenerateAccessToken("securecore", "u1", tok.SessionID, t0.Add(-time.Hour), 15*time.Minute, "sign-key")
	require.NoError(t, err)
	assert.ErrorIs(t, f.m.ValidateAccessToken(ctx, expired.Token), ErrTokenExpired)

	foreign, err := utils.GenerateAccessToken("securecore", "u1", tok.SessionID, t0, 15*time.Minute, "other-key")
	require.NoError(t, err)
	assert.ErrorIs(t, f.m.ValidateAccessToken(ctx, foreign.Token), ErrInvalidToken)

	assert.ErrorIs(t, f.m.ValidateAccessToken(ctx, "garbage"), ErrInvalidToken)

	unknown, err := utils.GenerateAccessToken("securecore", "u1", "no-such-session", t0, 15*time.Minute, "sign-key")
	require.NoError(t, err)
	assert.ErrorIs(t, f.m.ValidateAccessToken(ctx, unknown.Token), ErrSessionInactive)
}

func TestManager_Refresh_Expired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tok := f.login(t, "u1")

	raw := "stale-refresh-token"
	require.NoError(t, f.mem.SaveRefreshToken(ctx, models.RefreshToken{
		TokenHash:   utils.HashString(raw, "hash-key"),
		SessionID:   tok.SessionID,
		UserID:      "u1",
		Fingerprint: "fp-1",
		CreatedAt:   t0.Add(-31 * 24 * time.Hour),
		ExpiresAt:   t0.Add(-time.Hour),
		IsValid:     true,
	}))

	_, err := f.m.RefreshWithToken(ctx, raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, StateTerminated, f.m.State())
}

func TestManager_Refresh_UnknownToken(t *testing.T) {
	f := newFixture(t)
	f.login(t, "u1")

	_, err := f.m.RefreshWithToken(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrSessionInactive)
	assert.Equal(t, StateActive, f.m.State())
}

func TestManager_Refresh_NoSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.m.RefreshAccessToken(context.Background())
	assert.ErrorIs(t, err, ErrSessionInactive)
}

// racingTokens lets a hook run right before the rotation write, which is
// where a competing process would slip in.
type racingTokens struct {
	store.RefreshTokenRepository
	beforeRotate func(oldHash string)
}

func (r *racingTokens) RotateRefreshToken(ctx context.Context, oldHash string, next models.RefreshToken, at time.Time) error {
	if r.beforeRotate != nil {
		hook := r.beforeRotate
		r.beforeRotate = nil
		hook(oldHash)
	}
	return r.RefreshTokenRepository.RotateRefreshToken(ctx, oldHash, next, at)
}

func TestManager_Refresh_LosesRaceToOtherProcess(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	tokens := &racingTokens{RefreshTokenRepository: mem}
	m := NewManager(testSessionConfig(), testAppConfig(), mem, tokens, &staticFingerprint{v: "fp-1"}, logger.Nop(),
		WithClock(NewManualClock(t0)))

	tok, err := m.CreateSession(ctx, "u1", models.AuthMethodPassword, models.DeviceInfo{})
	require.NoError(t, err)

	tokens.beforeRotate = func(oldHash string) {
		require.NoError(t, mem.RotateRefreshToken(ctx, oldHash, models.RefreshToken{
			TokenHash: "winner", SessionID: tok.SessionID, UserID: "u1", Fingerprint: "fp-1",
			CreatedAt: t0, ExpiresAt: t0.Add(time.Hour), IsValid: true,
		}, t0))
	}

	_, err = m.RefreshAccessToken(ctx)
	assert.ErrorIs(t, err, ErrTokenAlreadyRotated)
	assert.Equal(t, StateTerminated, m.State())

	winner, err := mem.GetRefreshToken(ctx, "winner")
	require.NoError(t, err)
	assert.False(t, winner.IsValid)
}

func TestManager_Refresh_LosesRaceWithinProcess(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	tokens := &racingTokens{RefreshTokenRepository: mem}
	m := NewManager(testSessionConfig(), testAppConfig(), mem, tokens, &staticFingerprint{v: "fp-1"}, logger.Nop(),
		WithClock(NewManualClock(t0)))

	tok, err := m.CreateSession(ctx, "u1", models.AuthMethodPassword, models.DeviceInfo{})
	require.NoError(t, err)

	tokens.beforeRotate = func(oldHash string) {
		require.NoError(t, mem.RotateRefreshToken(ctx, oldHash, models.RefreshToken{
			TokenHash: utils.HashString("fresh", "hash-key"), SessionID: tok.SessionID, UserID: "u1",
			Fingerprint: "fp-1", CreatedAt: t0, ExpiresAt: t0.Add(time.Hour), IsValid: true,
		}, t0))
		m.mu.Lock()
		m.vault.refresh = "fresh"
		m.mu.Unlock()
	}

	_, err = m.RefreshAccessToken(ctx)
	assert.ErrorIs(t, err, ErrTokenAlreadyRotated)
	assert.Equal(t, StateActive, m.State())

	_, err = m.RefreshAccessToken(ctx)
	require.NoError(t, err)
}

func TestManager_StateDuringRefresh(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	tokens := &racingTokens{RefreshTokenRepository: mem}
	m := NewManager(testSessionConfig(), testAppConfig(), mem, tokens, &staticFingerprint{v: "fp-1"}, logger.Nop(),
		WithClock(NewManualClock(t0)))

	_, err := m.CreateSession(ctx, "u1", models.AuthMethodPassword, models.DeviceInfo{})
	require.NoError(t, err)

	var during State
	tokens.beforeRotate = func(string) { during = m.State() }

	_, err = m.RefreshAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateRefreshing, during)
	assert.Equal(t, StateActive, m.State())
	assert.True(t, during.Authenticated())
}

func TestManager_StateAfterFailedRefresh(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	tokens := &racingTokens{RefreshTokenRepository: failingRotate{mem}}
	m := NewManager(testSessionConfig(), testAppConfig(), mem, tokens, &staticFingerprint{v: "fp-1"}, logger.Nop(),
		WithClock(NewManualClock(t0)))

	_, err := m.CreateSession(ctx, "u1", models.AuthMethodPassword, models.DeviceInfo{})
	require.NoError(t, err)

	var during State
	tokens.beforeRotate = func(string) { during = m.State() }

	_, err = m.RefreshAccessToken(ctx)
	require.Error(t, err)
	assert.Equal(t, StateRefreshing, during)
	assert.Equal(t, StateTerminated, m.State())
}

// observingSessions reports the manager state when the session record is
// written.
type observingSessions struct {
	store.SessionRepository
	onSave func()
	err    error
}

func (o *observingSessions) SaveSession(ctx context.Context, s models.Session) error {
	if o.onSave != nil {
		o.onSave()
	}
	if o.err != nil {
		return o.err
	}
	return o.SessionRepository.SaveSession(ctx, s)
}

func TestManager_StateWhileCreating(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	sessions := &observingSessions{SessionRepository: mem}
	m := NewManager(testSessionConfig(), testAppConfig(), sessions, mem, &staticFingerprint{v: "fp-1"}, logger.Nop(),
		WithClock(NewManualClock(t0)))

	var during State
	sessions.onSave = func() { during = m.State() }

	sessions.err = errors.New("store unavailable")
	_, err := m.CreateSession(ctx, "u1", models.AuthMethodPassword, models.DeviceInfo{})
	require.Error(t, err)
	assert.Equal(t, StateCreated, during)
	assert.Equal(t, StateUnauthenticated, m.State())

	sessions.err = nil
	_, err = m.CreateSession(ctx, "u1", models.AuthMethodPassword, models.DeviceInfo{})
	require.NoError(t, err)
	assert.Equal(t, StateCreated, during)
	assert.Equal(t, StateActive, m.State())

	// a second login keeps reporting the existing session while it persists
	_, err = m.CreateSession(ctx, "u1", models.AuthMethodPassword, models.DeviceInfo{})
	require.NoError(t, err)
	assert.Equal(t, StateActive, during)
}

func TestManager_ConcurrentRefreshIsSerialised(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tok := f.login(t, "u1")

	const n = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		tokens = map[string]bool{}
		errs   []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next, err := f.m.RefreshAccessToken(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			tokens[next.Token] = true
		}()
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Len(t, tokens, n)
	assert.Equal(t, StateActive, f.m.State())

	s, err := f.mem.GetSession(ctx, tok.SessionID)
	require.NoError(t, err)
	assert.True(t, s.IsActive)
}

func TestManager_IdleTimeout(t *testing.T) {
	f := newFixture(t)
	tok := f.login(t, "u1")

	f.clock.Advance(29 * time.Minute)
	assert.Equal(t, StateActive, f.m.State())

	require.NoError(t, f.m.RecordActivity(ActivityKeyboard))
	f.clock.Advance(29 * time.Minute)
	assert.Equal(t, StateActive, f.m.State())

	f.clock.Advance(time.Minute)
	assert.Equal(t, StateTerminated, f.m.State())

	require.Len(t, f.ended, 1)
	assert.Equal(t, ReasonIdle, f.ended[0].Reason)

	s, err := f.mem.GetSession(context.Background(), tok.SessionID)
	require.NoError(t, err)
	assert.False(t, s.IsActive)
	assert.Equal(t, ReasonIdle, s.TerminationReason)
}

func TestManager_ScheduledRefresh(t *testing.T) {
	f := newFixture(t)
	tok := f.login(t, "u1")
	raw := f.refreshRaw()

	f.clock.Advance(12 * time.Minute)
	assert.Equal(t, tok.Token, f.m.CurrentAccessToken())

	f.clock.Advance(time.Minute)
	assert.NotEqual(t, tok.Token, f.m.CurrentAccessToken())
	assert.NotEqual(t, raw, f.refreshRaw())
	assert.Equal(t, StateActive, f.m.State())
}

type failingRotate struct {
	store.RefreshTokenRepository
}

func (failingRotate) RotateRefreshToken(context.Context, string, models.RefreshToken, time.Time) error {
	return context.DeadlineExceeded
}

func TestManager_ScheduledRefreshFailureTerminates(t *testing.T) {
	mem := store.NewMemory()
	clock := NewManualClock(t0)
	m := NewManager(testSessionConfig(), testAppConfig(), mem, failingRotate{mem}, &staticFingerprint{v: "fp-1"}, logger.Nop(),
		WithClock(clock))

	tok, err := m.CreateSession(context.Background(), "u1", models.AuthMethodPassword, models.DeviceInfo{})
	require.NoError(t, err)

	clock.Advance(13 * time.Minute)
	assert.Equal(t, StateTerminated, m.State())

	s, err := mem.GetSession(context.Background(), tok.SessionID)
	require.NoError(t, err)
	assert.False(t, s.IsActive)
}

func TestManager_TerminatedSessionStaysTerminated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, "u1")

	require.NoError(t, f.m.TerminateSession(ctx, ""))
	assert.Equal(t, StateTerminated, f.m.State())
	assert.Zero(t, f.clock.Pending())

	f.clock.Advance(24 * time.Hour)
	assert.Equal(t, StateTerminated, f.m.State())
	require.Len(t, f.ended, 1)
	assert.Equal(t, ReasonLogout, f.ended[0].Reason)

	assert.ErrorIs(t, f.m.TerminateSession(ctx, ""), ErrSessionInactive)
	assert.ErrorIs(t, f.m.ValidateAccessToken(ctx, ""), ErrSessionInactive)
}

func TestManager_StaleTimerCallbackIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.login(t, "u1")

	f.m.mu.Lock()
	gen := f.m.generation
	f.m.mu.Unlock()

	require.NoError(t, f.m.TerminateSession(context.Background(), ""))
	f.login(t, "u1")

	f.m.onIdle(gen)
	f.m.onRefreshDue(gen)
	assert.Equal(t, StateActive, f.m.State())
}

type failingDeactivate struct {
	store.SessionRepository
}

func (failingDeactivate) DeactivateSession(context.Context, string, string, time.Time) error {
	return errors.New("store unavailable")
}

func TestManager_TerminateClearsLocalStateOnStoreFailure(t *testing.T) {
	mem := store.NewMemory()
	m := NewManager(testSessionConfig(), testAppConfig(), failingDeactivate{mem}, mem, &staticFingerprint{v: "fp-1"}, logger.Nop(),
		WithClock(NewManualClock(t0)))
	var ended []Termination
	m.OnTerminate(func(t Termination) { ended = append(ended, t) })

	_, err := m.CreateSession(context.Background(), "u1", models.AuthMethodPassword, models.DeviceInfo{})
	require.NoError(t, err)

	err = m.TerminateSession(context.Background(), "")
	assert.Error(t, err)
	assert.Equal(t, StateTerminated, m.State())
	assert.Empty(t, m.CurrentAccessToken())
	assert.Len(t, ended, 1)
}

func TestManager_RecordActivity(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.m.RecordActivity(ActivityPointer), ErrSessionInactive)
	f.login(t, "u1")
	assert.ErrorIs(t, f.m.RecordActivity("wink"), ErrUnknownActivity)

	for _, a := range []Activity{ActivityPointer, ActivityKeyboard, ActivityScroll, ActivityTouch, ActivityFocus, ActivityAPI} {
		assert.NoError(t, f.m.RecordActivity(a))
	}
}

func TestManager_MultiDevice(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	laptop := NewManager(testSessionConfig(), testAppConfig(), mem, mem, &staticFingerprint{v: "laptop"}, logger.Nop(),
		WithClock(NewManualClock(t0)))
	phone := NewManager(testSessionConfig(), testAppConfig(), mem, mem, &staticFingerprint{v: "phone"}, logger.Nop(),
		WithClock(NewManualClock(t0)))

	_, err := laptop.CreateSession(ctx, "u1", models.AuthMethodPassword, models.DeviceInfo{Label: "laptop"})
	require.NoError(t, err)
	_, err = phone.CreateSession(ctx, "u1", models.AuthMethodWebAuthn, models.DeviceInfo{Label: "phone"})
	require.NoError(t, err)

	assert.Len(t, laptop.GetUserSessions(ctx, "u1"), 2)

	n, err := laptop.TerminateOtherSessions(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sessions := laptop.GetUserSessions(ctx, "u1")
	require.Len(t, sessions, 1)
	assert.Equal(t, "laptop", sessions[0].DeviceInfo.Label)

	assert.ErrorIs(t, phone.ValidateAccessToken(ctx, ""), ErrSessionInactive)
	assert.Equal(t, StateTerminated, phone.State())

	_, err = phone.RefreshAccessToken(ctx)
	assert.ErrorIs(t, err, ErrSessionInactive)
	assert.Equal(t, StateActive, laptop.State())
}

func TestManager_GetUserSessions_StoreErrorYieldsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mock.NewMockSessionRepository(ctrl)
	sessions.EXPECT().ListActiveSessions(gomock.Any(), "u1").Return(nil, errors.New("timeout"))

	m := NewManager(testSessionConfig(), testAppConfig(), sessions, store.NewMemory(), &staticFingerprint{}, logger.Nop())
	got := m.GetUserSessions(context.Background(), "u1")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestManager_HandleSuspiciousActivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tok := f.login(t, "u1")

	require.NoError(t, f.m.HandleSuspiciousActivity(ctx, "u1", tok.SessionID, "impossible travel"))
	assert.Equal(t, StateTerminated, f.m.State())

	s, err := f.mem.GetSession(ctx, tok.SessionID)
	require.NoError(t, err)
	assert.Equal(t, ReasonSuspicious, s.TerminationReason)
}
