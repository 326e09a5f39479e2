package session

import (
	"context"
	"errors"
	"time"
)

// Timers carry the generation they were armed in. A callback from an older
// generation belongs to a session that has since ended and does nothing.

func (m *Manager) stopTimersLocked() {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
	if m.refreshTimer != nil {
		m.refreshTimer.Stop()
		m.refreshTimer = nil
	}
}

func (m *Manager) armIdleLocked() {
	if m.idleTimeout <= 0 {
		return
	}
	gen := m.generation
	m.idleTimer = m.clock.AfterFunc(m.idleTimeout, func() { m.onIdle(gen) })
}

func (m *Manager) armRefreshLocked(accessExpiresAt time.Time) {
	d := accessExpiresAt.Sub(m.clock.Now()) - m.refreshLead
	if d < 0 {
		d = 0
	}
	gen := m.generation
	m.refreshTimer = m.clock.AfterFunc(d, func() { m.onRefreshDue(gen) })
}

func (m *Manager) onIdle(gen uint64) {
	m.mu.Lock()
	if gen != m.generation || m.vault == nil {
		m.mu.Unlock()
		return
	}
	// activity recorded after this timer was due re-arms a new one
	if m.clock.Now().Sub(m.lastActivity) < m.idleTimeout {
		m.mu.Unlock()
		return
	}
	sessionID := m.vault.sessionID
	m.mu.Unlock()

	m.logger.Info().Str("session_id", sessionID).Err(ErrIdleTimeout).Msg("idle timeout")

	ctx, cancel := m.opContext(context.Background())
	defer cancel()
	if err := m.terminate(ctx, sessionID, ReasonIdle); err != nil {
		m.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to end idle session")
	}
}

func (m *Manager) onRefreshDue(gen uint64) {
	m.mu.Lock()
	if gen != m.generation || m.vault == nil {
		m.mu.Unlock()
		return
	}
	v := *m.vault
	m.mu.Unlock()

	ctx, cancel := m.opContext(context.Background())
	defer cancel()

	_, err := m.RefreshAccessToken(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, ErrTokenAlreadyRotated) && m.movedPast(v.sessionID, v.refresh) {
		return
	}

	m.logger.Warn().Err(err).Str("session_id", v.sessionID).Msg("scheduled refresh failed, ending session")
	if err := m.terminate(ctx, v.sessionID, ReasonRefreshFailed); err != nil {
		m.logger.Warn().Err(err).Str("session_id", v.sessionID).Msg("failed to end session after refresh failure")
	}
}
