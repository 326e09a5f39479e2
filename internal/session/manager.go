// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session manages the authenticated session of one process: token
// issuance and rotation, fingerprint binding, idle and refresh timers, and
// control over the user's sessions on other devices.
//
// Raw tokens only live in the manager's volatile vault. The store sees the
// keyed hash of each refresh token, and a refresh token is rotated on every
// use. Presenting a token that has already been rotated ends the session.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/fingerprint"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/store"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/utils"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

const refreshTokenBytes = 32

// Manager owns the local session and its tokens.
type Manager struct {
	sessions    store.SessionRepository
	tokens      store.RefreshTokenRepository
	fingerprint fingerprint.Provider
	clock       Clock
	ids         *utils.UUIDGenerator

	accessTTL   time.Duration
	refreshTTL  time.Duration
	idleTimeout time.Duration
	refreshLead time.Duration
	opTimeout   time.Duration

	signKey string
	issuer  string
	hashKey string

	// refreshMu makes rotations of this process single-flight, so a second
	// caller reads the token the first one produced.
	refreshMu sync.Mutex

	mu           sync.Mutex
	vault        *vault
	state        State
	generation   uint64
	lastActivity time.Time
	idleTimer    Timer
	refreshTimer Timer
	listeners    []func(Termination)

	logger *logger.Logger
}

// Option configures a [Manager].
type Option func(*Manager)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// NewManager builds a session manager. Empty signing or hashing keys are
// replaced by random per-process keys.
func NewManager(cfg config.Session, app config.App, sessions store.SessionRepository, tokens store.RefreshTokenRepository,
	fp fingerprint.Provider, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		sessions:    sessions,
		tokens:      tokens,
		fingerprint: fp,
		clock:       systemClock{},
		ids:         utils.NewUUIDGenerator(),
		accessTTL:   cfg.AccessTokenTTL,
		refreshTTL:  cfg.RefreshTokenTTL,
		idleTimeout: cfg.IdleTimeout,
		refreshLead: cfg.RefreshLead,
		opTimeout:   cfg.OperationTimeout,
		signKey:     app.TokenSignKey,
		issuer:      app.TokenIssuer,
		hashKey:     app.HashKey,
		state:       StateUnauthenticated,
		logger:      log,
	}
	if m.signKey == "" {
		m.signKey = randomKey()
	}
	if m.hashKey == "" {
		m.hashKey = randomKey()
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func randomKey() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (m *Manager) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.opTimeout)
}

// issue mints a token pair and the store record of its refresh half.
func (m *Manager) issue(sessionID, userID, fp string, now time.Time) (models.TokenPair, models.RefreshToken, error) {
	access, err := utils.GenerateAccessToken(m.issuer, userID, sessionID, now, m.accessTTL, m.signKey)
	if err != nil {
		return models.TokenPair{}, models.RefreshToken{}, err
	}
	raw, err := newRefreshToken()
	if err != nil {
		return models.TokenPair{}, models.RefreshToken{}, err
	}

	pair := models.TokenPair{
		Access:           access,
		RefreshToken:     raw,
		RefreshExpiresAt: now.Add(m.refreshTTL),
	}
	record := models.RefreshToken{
		TokenHash:   utils.HashString(raw, m.hashKey),
		SessionID:   sessionID,
		UserID:      userID,
		Fingerprint: fp,
		CreatedAt:   now,
		ExpiresAt:   pair.RefreshExpiresAt,
		IsValid:     true,
	}
	return pair, record, nil
}

// CreateSession opens a session bound to the current device fingerprint and
// makes it the local session. A previous local session is ended.
func (m *Manager) CreateSession(ctx context.Context, userID string, method models.AuthMethod, device models.DeviceInfo) (models.AccessToken, error) {
	if userID == "" {
		return models.AccessToken{}, ErrMissingUser
	}

	fp := m.fingerprint.Generate(ctx)
	now := m.clock.Now()
	sessionID := m.ids.Generate()

	pair, record, err := m.issue(sessionID, userID, fp, now)
	if err != nil {
		return models.AccessToken{}, err
	}

	restore := m.markCreated()

	session := models.Session{
		SessionID:      sessionID,
		UserID:         userID,
		Fingerprint:    fp,
		AuthMethod:     method,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      pair.RefreshExpiresAt,
		DeviceInfo:     device,
		IPAddress:      device.IPAddress,
		IsActive:       true,
	}

	opCtx, cancel := m.opContext(ctx)
	defer cancel()

	if err := m.sessions.SaveSession(opCtx, session); err != nil {
		restore()
		return models.AccessToken{}, fmt.Errorf("saving session: %w", err)
	}
	if err := m.tokens.SaveRefreshToken(opCtx, record); err != nil {
		m.failClosed(sessionID, err)
		restore()
		return models.AccessToken{}, fmt.Errorf("saving refresh token: %w", err)
	}

	if prev := m.install(userID, sessionID, pair, now); prev != nil {
		if err := m.endInStore(ctx, prev.sessionID, ReasonSuperseded); err != nil {
			m.logger.Warn().Err(err).Str("session_id", prev.sessionID).Msg("failed to end superseded session")
		}
	}

	m.logger.Info().
		Str("user_id", userID).
		Str("session_id", sessionID).
		Str("auth_method", string(method)).
		Msg("session created")
	return pair.Access, nil
}

// markCreated reports StateCreated while a session is being persisted and no
// other local session exists. The returned func undoes it on failure.
func (m *Manager) markCreated() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.vault != nil {
		return func() {}
	}
	prev := m.state
	m.state = StateCreated
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state == StateCreated {
			m.state = prev
		}
	}
}

// install makes the session local and arms both timers. It returns the vault
// it replaced, if any.
func (m *Manager) install(userID, sessionID string, pair models.TokenPair, now time.Time) *vault {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.vault
	m.stopTimersLocked()
	m.generation++
	m.vault = &vault{
		sessionID: sessionID,
		userID:    userID,
		access:    pair.Access,
		refresh:   pair.RefreshToken,
	}
	m.state = StateActive
	m.lastActivity = now
	m.armIdleLocked()
	m.armRefreshLocked(pair.Access.ExpiresAt)
	return prev
}

// RefreshAccessToken rotates the local session's refresh token.
func (m *Manager) RefreshAccessToken(ctx context.Context) (models.AccessToken, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	v, ok := m.current()
	if !ok {
		return models.AccessToken{}, ErrSessionInactive
	}
	return m.rotate(ctx, v.refresh)
}

// RefreshWithToken rotates the given raw refresh token. If it belongs to the
// local session the vault is updated with the new pair.
func (m *Manager) RefreshWithToken(ctx context.Context, raw string) (models.AccessToken, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	return m.rotate(ctx, raw)
}

func (m *Manager) rotate(ctx context.Context, raw string) (models.AccessToken, error) {
	if raw == "" {
		return models.AccessToken{}, ErrSessionInactive
	}
	if m.beginRefresh(raw) {
		defer m.endRefresh()
	}

	opCtx, cancel := m.opContext(ctx)
	defer cancel()

	hash := utils.HashString(raw, m.hashKey)
	rt, err := m.tokens.GetRefreshToken(opCtx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return models.AccessToken{}, ErrSessionInactive
	}
	if err != nil {
		if v, ok := m.current(); ok && v.refresh == raw {
			m.failClosed(v.sessionID, err)
		}
		return models.AccessToken{}, fmt.Errorf("reading refresh token: %w", err)
	}

	if !rt.IsValid || rt.UsedAt != nil {
		m.suspicious(ctx, rt.UserID, rt.SessionID, "refresh token replay")
		return models.AccessToken{}, ErrTokenAlreadyRotated
	}

	session, err := m.sessions.GetSession(opCtx, rt.SessionID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !session.IsActive) {
		m.clearLocal(rt.SessionID, ReasonRemote)
		return models.AccessToken{}, ErrSessionInactive
	}
	if err != nil {
		m.failClosed(rt.SessionID, err)
		return models.AccessToken{}, fmt.Errorf("reading session: %w", err)
	}

	fp := m.fingerprint.Generate(ctx)
	if !utils.EqualHash(fp, rt.Fingerprint) {
		m.suspicious(ctx, rt.UserID, rt.SessionID, "fingerprint mismatch on refresh")
		return models.AccessToken{}, ErrFingerprintMismatch
	}

	now := m.clock.Now()
	if !now.Before(rt.ExpiresAt) {
		if err := m.terminate(ctx, rt.SessionID, ReasonExpired); err != nil {
			m.logger.Warn().Err(err).Str("session_id", rt.SessionID).Msg("failed to end expired session")
		}
		return models.AccessToken{}, ErrTokenExpired
	}

	pair, next, err := m.issue(rt.SessionID, rt.UserID, fp, now)
	if err != nil {
		return models.AccessToken{}, err
	}

	err = m.tokens.RotateRefreshToken(opCtx, hash, next, now)
	switch {
	case errors.Is(err, store.ErrStaleToken), errors.Is(err, store.ErrNotFound):
		if m.movedPast(rt.SessionID, raw) {
			m.logger.Info().Str("session_id", rt.SessionID).Msg("lost refresh race to this process")
			return models.AccessToken{}, ErrTokenAlreadyRotated
		}
		m.suspicious(ctx, rt.UserID, rt.SessionID, "refresh token rotated concurrently")
		return models.AccessToken{}, ErrTokenAlreadyRotated
	case err != nil:
		m.failClosed(rt.SessionID, err)
		return models.AccessToken{}, fmt.Errorf("rotating refresh token: %w", err)
	}

	if err := m.sessions.TouchSession(opCtx, rt.SessionID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.clearLocal(rt.SessionID, ReasonRemote)
			return models.AccessToken{}, ErrSessionInactive
		}
		m.logger.Warn().Err(err).Str("session_id", rt.SessionID).Msg("failed to record session activity")
	}

	m.replaceTokens(rt.SessionID, raw, pair)

	m.logger.Debug().Str("session_id", rt.SessionID).Msg("refresh token rotated")
	return pair.Access, nil
}

// beginRefresh moves the local session to StateRefreshing when raw is its
// current refresh token.
func (m *Manager) beginRefresh(raw string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.vault == nil || m.vault.refresh != raw || m.state != StateActive {
		return false
	}
	m.state = StateRefreshing
	return true
}

// endRefresh returns to StateActive unless the rotation ended the session.
func (m *Manager) endRefresh() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateRefreshing && m.vault != nil {
		m.state = StateActive
	}
}

func (m *Manager) replaceTokens(sessionID, oldRaw string, pair models.TokenPair) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.vault == nil || m.vault.sessionID != sessionID || m.vault.refresh != oldRaw {
		return
	}
	m.vault.access = pair.Access
	m.vault.refresh = pair.RefreshToken
	if m.refreshTimer != nil {
		m.refreshTimer.Stop()
	}
	m.armRefreshLocked(pair.Access.ExpiresAt)
}

// movedPast reports whether the local vault already holds a newer token of
// the session than raw.
func (m *Manager) movedPast(sessionID, raw string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vault != nil && m.vault.sessionID == sessionID && m.vault.refresh != raw
}

// ValidateAccessToken checks the token signature and expiry, that its
// session is still active and that the device fingerprint still matches. An
// empty token means the local session's current token. It never rotates.
func (m *Manager) ValidateAccessToken(ctx context.Context, token string) error {
	if token == "" {
		v, ok := m.current()
		if !ok {
			return ErrSessionInactive
		}
		token = v.access.Token
	}

	claims, err := utils.ValidateAccessToken(token, m.signKey, m.issuer, m.clock.Now())
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	opCtx, cancel := m.opContext(ctx)
	defer cancel()

	session, err := m.sessions.GetSession(opCtx, claims.SessionID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSessionInactive
	}
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	if !session.IsActive {
		m.clearLocal(session.SessionID, ReasonRemote)
		return ErrSessionInactive
	}
	if session.UserID != claims.Subject {
		return ErrInvalidToken
	}

	if !utils.EqualHash(m.fingerprint.Generate(ctx), session.Fingerprint) {
		m.suspicious(ctx, session.UserID, session.SessionID, "fingerprint mismatch on validation")
		return ErrFingerprintMismatch
	}
	return nil
}

// TerminateSession ends sessionID, or the local session when it is empty.
// Local state is cleared even if the store writes fail; the failure is
// still returned.
func (m *Manager) TerminateSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		v, ok := m.current()
		if !ok {
			return ErrSessionInactive
		}
		sessionID = v.sessionID
	}
	return m.terminate(ctx, sessionID, ReasonLogout)
}

func (m *Manager) terminate(ctx context.Context, sessionID, reason string) error {
	err := m.endInStore(ctx, sessionID, reason)
	m.clearLocal(sessionID, reason)
	if err != nil {
		return fmt.Errorf("terminating session: %w", err)
	}
	return nil
}

func (m *Manager) endInStore(ctx context.Context, sessionID, reason string) error {
	opCtx, cancel := m.opContext(ctx)
	defer cancel()

	now := m.clock.Now()
	_, errTokens := m.tokens.InvalidateSessionTokens(opCtx, sessionID, now)
	errSession := m.sessions.DeactivateSession(opCtx, sessionID, reason, now)
	return errors.Join(errTokens, errSession)
}

// failClosed ends a session after a security-critical store call failed. It
// uses a fresh context because the caller's may be the one that expired.
func (m *Manager) failClosed(sessionID string, cause error) {
	m.logger.Error().Err(cause).Str("session_id", sessionID).Msg("store failure, ending session")

	ctx, cancel := m.opContext(context.Background())
	defer cancel()
	if err := m.terminate(ctx, sessionID, ReasonStoreFailure); err != nil {
		m.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to end session after store failure")
	}
}

// clearLocal drops the vault and timers if sessionID is the local session
// and notifies the termination listeners.
func (m *Manager) clearLocal(sessionID, reason string) {
	m.mu.Lock()
	if m.vault == nil || m.vault.sessionID != sessionID {
		m.mu.Unlock()
		return
	}
	t := Termination{SessionID: sessionID, UserID: m.vault.userID, Reason: reason}
	m.stopTimersLocked()
	m.generation++
	m.vault = nil
	m.state = StateTerminated
	listeners := make([]func(Termination), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	m.logger.Info().Str("session_id", sessionID).Str("reason", reason).Msg("local session ended")
	for _, fn := range listeners {
		fn(t)
	}
}

// HandleSuspiciousActivity logs the event and terminates the session.
func (m *Manager) HandleSuspiciousActivity(ctx context.Context, userID, sessionID, reason string) error {
	m.logger.WithSession(userID, sessionID).Warn().
		Str("reason", reason).
		Msg("suspicious activity, terminating session")
	return m.terminate(ctx, sessionID, ReasonSuspicious)
}

func (m *Manager) suspicious(ctx context.Context, userID, sessionID, reason string) {
	if err := m.HandleSuspiciousActivity(ctx, userID, sessionID, reason); err != nil {
		m.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to terminate suspicious session")
	}
}

// RecordActivity resets the idle countdown of the local session.
func (m *Manager) RecordActivity(signal Activity) error {
	if !signal.Valid() {
		return ErrUnknownActivity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.vault == nil {
		return ErrSessionInactive
	}
	m.lastActivity = m.clock.Now()
	if m.idleTimer != nil {
		m.idleTimer.Stop()
	}
	m.armIdleLocked()
	return nil
}

// GetUserSessions lists the user's active sessions. Store errors are logged
// and yield an empty list.
func (m *Manager) GetUserSessions(ctx context.Context, userID string) []models.Session {
	opCtx, cancel := m.opContext(ctx)
	defer cancel()

	sessions, err := m.sessions.ListActiveSessions(opCtx, userID)
	if err != nil {
		m.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to list sessions")
		return []models.Session{}
	}
	return sessions
}

// TerminateOtherSessions ends every active session of userID except the
// local one and returns how many were ended.
func (m *Manager) TerminateOtherSessions(ctx context.Context, userID string) (int, error) {
	opCtx, cancel := m.opContext(ctx)
	sessions, err := m.sessions.ListActiveSessions(opCtx, userID)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("listing sessions: %w", err)
	}

	current, _ := m.current()
	var (
		n    int
		errs []error
	)
	for _, s := range sessions {
		if s.SessionID == current.sessionID {
			continue
		}
		if err := m.terminate(ctx, s.SessionID, ReasonRemote); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

// OnTerminate registers fn to run whenever the local session ends, for any
// reason. fn must not call back into the manager's refresh methods.
func (m *Manager) OnTerminate(fn func(Termination)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// State reports the local session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentAccessToken returns the local session's access token, or "".
func (m *Manager) CurrentAccessToken() string {
	v, ok := m.current()
	if !ok {
		return ""
	}
	return v.access.Token
}

// Current returns the local session and user ids.
func (m *Manager) Current() (sessionID, userID string, ok bool) {
	v, ok := m.current()
	return v.sessionID, v.userID, ok
}

func (m *Manager) current() (vault, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vault == nil {
		return vault{}, false
	}
	return *m.vault, true
}
