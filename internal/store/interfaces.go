package store

import (
	"context"
	"time"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// CredentialRepository persists public-key credentials.
type CredentialRepository interface {
	// SaveCredential inserts a credential. A duplicate credential id yields
	// [ErrAlreadyExists].
	SaveCredential(ctx context.Context, credential models.Credential) error
	GetCredential(ctx context.Context, credentialID string) (models.Credential, error)
	ListCredentialsBySubject(ctx context.Context, subject string) ([]models.Credential, error)
	ListCredentialsByUser(ctx context.Context, userID string) ([]models.Credential, error)
	// UpdateCredentialUsage moves the signature counter from prevCounter to
	// newCounter. If the stored counter is no longer prevCounter nothing is
	// written and [ErrStaleCounter] is returned.
	UpdateCredentialUsage(ctx context.Context, credentialID string, prevCounter, newCounter uint32, usedAt time.Time) error
	DeleteCredential(ctx context.Context, userID, credentialID string) error
}

// ChallengeRepository persists single-use ceremony challenges.
type ChallengeRepository interface {
	SaveChallenge(ctx context.Context, challenge models.Challenge) error
	// ConsumeChallenge atomically removes and returns the challenge. A
	// missing (or already consumed) challenge yields [ErrNotFound]; one whose
	// expiry is not after now yields [ErrExpired].
	ConsumeChallenge(ctx context.Context, challengeID string, now time.Time) (models.Challenge, error)
	DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error)
}

// SessionRepository persists sessions. Sessions are deactivated, never
// deleted by the core.
type SessionRepository interface {
	SaveSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, sessionID string) (models.Session, error)
	ListActiveSessions(ctx context.Context, userID string) ([]models.Session, error)
	// TouchSession bumps LastActivityAt of an active session; an inactive or
	// missing session yields [ErrNotFound].
	TouchSession(ctx context.Context, sessionID string, at time.Time) error
	// DeactivateSession is idempotent.
	DeactivateSession(ctx context.Context, sessionID, reason string, at time.Time) error
}

// RefreshTokenRepository persists refresh tokens by the SHA-256 of their
// value.
type RefreshTokenRepository interface {
	SaveRefreshToken(ctx context.Context, token models.RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (models.RefreshToken, error)
	// RotateRefreshToken invalidates oldHash (setting UsedAt and RotatedAt)
	// and inserts next in one atomic step. The write is conditioned on the
	// old token still being valid; otherwise [ErrStaleToken] is returned and
	// nothing changes.
	RotateRefreshToken(ctx context.Context, oldHash string, next models.RefreshToken, at time.Time) error
	InvalidateSessionTokens(ctx context.Context, sessionID string, at time.Time) (int64, error)
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// KeyringRepository persists the per-user salt record.
type KeyringRepository interface {
	GetKeyring(ctx context.Context, userID string) (models.UserKeyring, error)
	// SaveKeyring inserts or replaces the record of keyring.UserID.
	SaveKeyring(ctx context.Context, keyring models.UserKeyring) error
}

// JournalRepository persists encrypted journal entries.
type JournalRepository interface {
	SaveEntry(ctx context.Context, entry models.JournalEntry) error
	GetEntry(ctx context.Context, userID, entryID string) (models.JournalEntry, error)
	ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error)
	UpdateEntry(ctx context.Context, entry models.JournalEntry) error
	DeleteEntry(ctx context.Context, userID, entryID string) error
}
