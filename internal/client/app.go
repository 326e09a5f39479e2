package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/crypto"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/journal"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/session"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

// App is the application context.
type App struct {
	keys       crypto.KeyService
	sessions   Sessions
	ceremonies Ceremonies
	journal    *journal.Journal
	device     models.DeviceInfo
	closers    []func() error
	logger     *logger.Logger
}

// Registration is the result of [App.Register]. RecoveryKey is shown to the
// user once and never stored in plaintext.
type Registration struct {
	Access      models.AccessToken
	RecoveryKey string
}

// NewApp assembles an application context from its parts. The key is
// cleared whenever the local session ends.
func NewApp(keys crypto.KeyService, sessions Sessions, ceremonies Ceremonies, j *journal.Journal,
	device models.DeviceInfo, log *logger.Logger) *App {
	a := &App{
		keys:       keys,
		sessions:   sessions,
		ceremonies: ceremonies,
		journal:    j,
		device:     device,
		logger:     log,
	}
	sessions.OnTerminate(func(t session.Termination) {
		keys.ClearKey()
		log.Info().Str("session_id", t.SessionID).Str("reason", t.Reason).Msg("session ended, encryption key cleared")
	})
	return a
}

// Register enrolls userID with a password: it derives the key, seals the
// key-check record, issues a recovery key and opens a session. Registering
// again with the same password replaces the recovery key.
func (a *App) Register(ctx context.Context, userID, secret string) (Registration, error) {
	if err := a.unlock(ctx, userID, secret); err != nil {
		return Registration{}, err
	}

	recovery, err := a.keys.RegisterRecoveryKey(ctx, userID)
	if err != nil {
		a.keys.ClearKey()
		return Registration{}, fmt.Errorf("registering recovery key: %w", err)
	}

	access, err := a.sessions.CreateSession(ctx, userID, models.AuthMethodPassword, a.device)
	if err != nil {
		a.keys.ClearKey()
		return Registration{}, err
	}
	return Registration{Access: access, RecoveryKey: recovery}, nil
}

// Login authenticates with a password. A wrong password is reported as
// [ErrWrongPassword] and leaves no key in memory.
func (a *App) Login(ctx context.Context, userID, secret string) (models.AccessToken, error) {
	if err := a.unlock(ctx, userID, secret); err != nil {
		return models.AccessToken{}, err
	}

	access, err := a.sessions.CreateSession(ctx, userID, models.AuthMethodPassword, a.device)
	if err != nil {
		a.keys.ClearKey()
		return models.AccessToken{}, err
	}
	return access, nil
}

// LoginWithCredential runs an authentication ceremony for subject and opens
// a session for the user it resolves to. Encryption stays locked until
// [App.InitializeEncryption] is called with the password.
func (a *App) LoginWithCredential(ctx context.Context, subject string) (models.AccessToken, error) {
	result, err := a.ceremonies.Authenticate(ctx, subject)
	if err != nil {
		return models.AccessToken{}, err
	}

	a.keys.ClearKey()
	return a.sessions.CreateSession(ctx, result.UserID, models.AuthMethodWebAuthn, a.device)
}

// LoginWithRecoveryKey opens a session using the one-time recovery key.
// Encryption stays locked.
func (a *App) LoginWithRecoveryKey(ctx context.Context, userID, recoveryKey string) (models.AccessToken, error) {
	ok, err := a.keys.VerifyRecoveryKey(ctx, userID, recoveryKey)
	if err != nil {
		return models.AccessToken{}, err
	}
	if !ok {
		a.logger.Warn().Str("user_id", userID).Msg("recovery key rejected")
		return models.AccessToken{}, ErrInvalidRecoveryKey
	}

	a.keys.ClearKey()
	return a.sessions.CreateSession(ctx, userID, models.AuthMethodRecovery, a.device)
}

// Logout ends the local session. The key is cleared even when the store
// cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	defer a.keys.ClearKey()

	err := a.sessions.TerminateSession(ctx, "")
	if errors.Is(err, session.ErrSessionInactive) {
		return nil
	}
	return err
}

// InitializeEncryption derives the key for the signed-in user.
func (a *App) InitializeEncryption(ctx context.Context, secret string) error {
	_, userID, ok := a.sessions.Current()
	if !ok {
		return ErrNotAuthenticated
	}
	return a.unlock(ctx, userID, secret)
}

func (a *App) unlock(ctx context.Context, userID, secret string) error {
	if userID == "" || secret == "" {
		return ErrMissingCredentials
	}
	if err := a.keys.InitializeKey(ctx, userID, secret); err != nil {
		return err
	}

	err := a.keys.VerifyKey(ctx)
	switch {
	case errors.Is(err, crypto.ErrKeyMismatch):
		a.keys.ClearKey()
		a.logger.Info().Str("user_id", userID).Msg("wrong password")
		return ErrWrongPassword
	case err != nil:
		a.keys.ClearKey()
		return err
	}
	return nil
}

// Encrypt seals plaintext with the held key.
func (a *App) Encrypt(plaintext []byte) (models.EncryptedBlob, error) {
	return a.keys.Encrypt(plaintext)
}

// Decrypt opens blob with the held key.
func (a *App) Decrypt(blob models.EncryptedBlob) ([]byte, error) {
	return a.keys.Decrypt(blob)
}

// EncryptionUnlocked reports whether a key is held.
func (a *App) EncryptionUnlocked() bool {
	return a.keys.HasKey()
}

// CreateSession opens a session for userID directly, for callers that
// authenticated the user some other way.
func (a *App) CreateSession(ctx context.Context, userID string, method models.AuthMethod) (models.AccessToken, error) {
	return a.sessions.CreateSession(ctx, userID, method, a.device)
}

func (a *App) RefreshAccessToken(ctx context.Context) (models.AccessToken, error) {
	return a.sessions.RefreshAccessToken(ctx)
}

func (a *App) ValidateAccessToken(ctx context.Context) error {
	return a.sessions.ValidateAccessToken(ctx, "")
}

// TerminateSession ends sessionID, or the local session when empty.
func (a *App) TerminateSession(ctx context.Context, sessionID string) error {
	return a.sessions.TerminateSession(ctx, sessionID)
}

// GetUserSessions lists the signed-in user's active sessions.
func (a *App) GetUserSessions(ctx context.Context) []models.Session {
	_, userID, ok := a.sessions.Current()
	if !ok {
		return []models.Session{}
	}
	return a.sessions.GetUserSessions(ctx, userID)
}

// TerminateOtherSessions signs the user out everywhere else.
func (a *App) TerminateOtherSessions(ctx context.Context) (int, error) {
	_, userID, ok := a.sessions.Current()
	if !ok {
		return 0, ErrNotAuthenticated
	}
	return a.sessions.TerminateOtherSessions(ctx, userID)
}

// RecordActivity forwards a user activity signal to the idle countdown.
func (a *App) RecordActivity(signal session.Activity) error {
	return a.sessions.RecordActivity(signal)
}

// Current returns the local session and its user, if one is active.
func (a *App) Current() (sessionID, userID string, ok bool) {
	return a.sessions.Current()
}

func (a *App) State() session.State {
	return a.sessions.State()
}

func (a *App) CheckAuthenticatorSupport(ctx context.Context) (models.AuthenticatorSupport, error) {
	return a.ceremonies.CheckAuthenticatorSupport(ctx)
}

// RegisterCredential enrolls an authenticator for the signed-in user.
func (a *App) RegisterCredential(ctx context.Context, displayName, subject string, kind models.AuthenticatorKind) (models.Credential, error) {
	_, userID, ok := a.sessions.Current()
	if !ok {
		return models.Credential{}, ErrNotAuthenticated
	}
	return a.ceremonies.RegisterCredential(ctx, userID, displayName, subject, kind)
}

// Journal returns the private journal. Its entries can only be opened while
// encryption is unlocked.
func (a *App) Journal() *journal.Journal {
	return a.journal
}

// Close releases the stores opened for the application.
func (a *App) Close() error {
	a.keys.ClearKey()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
