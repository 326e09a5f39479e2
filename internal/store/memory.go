// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

// Memory is a volatile implementation of every repository in this package.
// One mutex guards all collections, so each method is atomic with respect to
// the others; that is what gives ConsumeChallenge and RotateRefreshToken
// their compare-and-swap semantics.
type Memory struct {
	mu sync.Mutex

	credentials   map[string]models.Credential
	challenges    map[string]models.Challenge
	sessions      map[string]models.Session
	refreshTokens map[string]models.RefreshToken
	keyrings      map[string]models.UserKeyring
	journal       map[string]models.JournalEntry
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		credentials:   make(map[string]models.Credential),
		challenges:    make(map[string]models.Challenge),
		sessions:      make(map[string]models.Session),
		refreshTokens: make(map[string]models.RefreshToken),
		keyrings:      make(map[string]models.UserKeyring),
		journal:       make(map[string]models.JournalEntry),
	}
}

// Storages wires every repository to m.
func (m *Memory) Storages() *Storages {
	return &Storages{
		Credentials:   m,
		Challenges:    m,
		Sessions:      m,
		RefreshTokens: m,
		Keyrings:      m,
		Journal:       m,
	}
}

// ── credentials ───────────────────────────────────────────────────────────────

func (m *Memory) SaveCredential(ctx context.Context, credential models.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.credentials[credential.CredentialID]; ok {
		return ErrAlreadyExists
	}
	m.credentials[credential.CredentialID] = cloneCredential(credential)
	return nil
}

func (m *Memory) GetCredential(ctx context.Context, credentialID string) (models.Credential, error) {
	if err := ctx.Err(); err != nil {
		return models.Credential{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.credentials[credentialID]
	if !ok {
		return models.Credential{}, ErrNotFound
	}
	return cloneCredential(c), nil
}

func (m *Memory) ListCredentialsBySubject(ctx context.Context, subject string) ([]models.Credential, error) {
	return m.listCredentials(ctx, func(c models.Credential) bool { return c.Subject == subject })
}

func (m *Memory) ListCredentialsByUser(ctx context.Context, userID string) ([]models.Credential, error) {
	return m.listCredentials(ctx, func(c models.Credential) bool { return c.UserID == userID })
}

func (m *Memory) listCredentials(ctx context.Context, match func(models.Credential) bool) ([]models.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Credential, 0)
	for _, c := range m.credentials {
		if match(c) {
			out = append(out, cloneCredential(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateCredentialUsage(ctx context.Context, credentialID string, prevCounter, newCounter uint32, usedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.credentials[credentialID]
	if !ok {
		return ErrNotFound
	}
	if c.SignatureCounter != prevCounter {
		return ErrStaleCounter
	}
	c.SignatureCounter = newCounter
	c.LastUsedAt = usedAt
	m.credentials[credentialID] = c
	return nil
}

func (m *Memory) DeleteCredential(ctx context.Context, userID, credentialID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.credentials[credentialID]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(m.credentials, credentialID)
	return nil
}

// ── challenges ────────────────────────────────────────────────────────────────

func (m *Memory) SaveChallenge(ctx context.Context, challenge models.Challenge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.challenges[challenge.ChallengeID]; ok {
		return ErrAlreadyExists
	}
	m.challenges[challenge.ChallengeID] = cloneChallenge(challenge)
	return nil
}

func (m *Memory) ConsumeChallenge(ctx context.Context, challengeID string, now time.Time) (models.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return models.Challenge{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.challenges[challengeID]
	if !ok {
		return models.Challenge{}, ErrNotFound
	}
	delete(m.challenges, challengeID)

	if c.Expired(now) {
		return models.Challenge{}, ErrExpired
	}
	return c, nil
}

func (m *Memory) DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, c := range m.challenges {
		if c.Expired(now) {
			delete(m.challenges, id)
			n++
		}
	}
	return n, nil
}

// ── sessions ──────────────────────────────────────────────────────────────────

func (m *Memory) SaveSession(ctx context.Context, session models.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[session.SessionID]; ok {
		return ErrAlreadyExists
	}
	m.sessions[session.SessionID] = session
	return nil
}

func (m *Memory) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	if err := ctx.Err(); err != nil {
		return models.Session{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) ListActiveSessions(ctx context.Context, userID string) ([]models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Session, 0)
	for _, s := range m.sessions {
		if s.UserID == userID && s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || !s.IsActive {
		return ErrNotFound
	}
	s.LastActivityAt = at
	m.sessions[sessionID] = s
	return nil
}

func (m *Memory) DeactivateSession(ctx context.Context, sessionID, reason string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || !s.IsActive {
		return nil
	}
	s.IsActive = false
	s.TerminatedAt = &at
	s.TerminationReason = reason
	m.sessions[sessionID] = s
	return nil
}

// ── refresh tokens ────────────────────────────────────────────────────────────

func (m *Memory) SaveRefreshToken(ctx context.Context, token models.RefreshToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.refreshTokens[token.TokenHash]; ok {
		return ErrAlreadyExists
	}
	m.refreshTokens[token.TokenHash] = token
	return nil
}

func (m *Memory) GetRefreshToken(ctx context.Context, tokenHash string) (models.RefreshToken, error) {
	if err := ctx.Err(); err != nil {
		return models.RefreshToken{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.refreshTokens[tokenHash]
	if !ok {
		return models.RefreshToken{}, ErrNotFound
	}
	return t, nil
}

func (m *Memory) RotateRefreshToken(ctx context.Context, oldHash string, next models.RefreshToken, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.refreshTokens[oldHash]
	if !ok {
		return ErrNotFound
	}
	if !old.IsValid {
		return ErrStaleToken
	}
	if _, dup := m.refreshTokens[next.TokenHash]; dup {
		return ErrAlreadyExists
	}

	old.IsValid = false
	old.UsedAt = &at
	old.RotatedAt = &at
	m.refreshTokens[oldHash] = old
	m.refreshTokens[next.TokenHash] = next
	return nil
}

func (m *Memory) InvalidateSessionTokens(ctx context.Context, sessionID string, at time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for hash, t := range m.refreshTokens {
		if t.SessionID != sessionID || !t.IsValid {
			continue
		}
		t.IsValid = false
		if t.UsedAt == nil {
			t.UsedAt = &at
		}
		m.refreshTokens[hash] = t
		n++
	}
	return n, nil
}

func (m *Memory) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for hash, t := range m.refreshTokens {
		if !now.Before(t.ExpiresAt) {
			delete(m.refreshTokens, hash)
			n++
		}
	}
	return n, nil
}

// ── keyrings ──────────────────────────────────────────────────────────────────

func (m *Memory) GetKeyring(ctx context.Context, userID string) (models.UserKeyring, error) {
	if err := ctx.Err(); err != nil {
		return models.UserKeyring{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	k, ok := m.keyrings[userID]
	if !ok {
		return models.UserKeyring{}, ErrNotFound
	}
	return cloneKeyring(k), nil
}

func (m *Memory) SaveKeyring(ctx context.Context, keyring models.UserKeyring) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.keyrings[keyring.UserID] = cloneKeyring(keyring)
	return nil
}

// ── journal ───────────────────────────────────────────────────────────────────

func (m *Memory) SaveEntry(ctx context.Context, entry models.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.journal[entry.EntryID]; ok {
		return ErrAlreadyExists
	}
	m.journal[entry.EntryID] = cloneEntry(entry)
	return nil
}

func (m *Memory) GetEntry(ctx context.Context, userID, entryID string) (models.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return models.JournalEntry{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.journal[entryID]
	if !ok || e.UserID != userID {
		return models.JournalEntry{}, ErrNotFound
	}
	return cloneEntry(e), nil
}

func (m *Memory) ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.JournalEntry, 0)
	for _, e := range m.journal {
		if e.UserID == userID {
			out = append(out, cloneEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateEntry(ctx context.Context, entry models.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.journal[entry.EntryID]
	if !ok || e.UserID != entry.UserID {
		return ErrNotFound
	}
	entry.CreatedAt = e.CreatedAt
	m.journal[entry.EntryID] = cloneEntry(entry)
	return nil
}

func (m *Memory) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.journal[entryID]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	delete(m.journal, entryID)
	return nil
}

func cloneCredential(c models.Credential) models.Credential {
	c.PublicKey = bytes.Clone(c.PublicKey)
	return c
}

func cloneChallenge(c models.Challenge) models.Challenge {
	c.Nonce = bytes.Clone(c.Nonce)
	c.AllowedCredentials = slices.Clone(c.AllowedCredentials)
	return c
}

func cloneBlob(b models.EncryptedBlob) models.EncryptedBlob {
	b.Ciphertext = bytes.Clone(b.Ciphertext)
	b.IV = bytes.Clone(b.IV)
	return b
}

func cloneKeyring(k models.UserKeyring) models.UserKeyring {
	k.Salt = bytes.Clone(k.Salt)
	if k.KeyCheck != nil {
		blob := cloneBlob(*k.KeyCheck)
		k.KeyCheck = &blob
	}
	return k
}

func cloneEntry(e models.JournalEntry) models.JournalEntry {
	e.Blob = cloneBlob(e.Blob)
	return e
}
