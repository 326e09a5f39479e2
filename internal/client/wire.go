package client

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/adapter"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/credential"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/crypto"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/fingerprint"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/journal"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/session"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/store"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

type wiring struct {
	authenticator credential.Authenticator
	fingerprint   []fingerprint.Option
	session       []session.Option
	device        models.DeviceInfo
}

// Option adjusts how [New] assembles the application.
type Option func(*wiring)

// WithAuthenticator replaces the default in-process software authenticator.
func WithAuthenticator(a credential.Authenticator) Option {
	return func(w *wiring) {
		w.authenticator = a
	}
}

// WithFingerprintOptions passes options to the device fingerprint generator,
// typically signal values an embedding shell observed.
func WithFingerprintOptions(opts ...fingerprint.Option) Option {
	return func(w *wiring) {
		w.fingerprint = append(w.fingerprint, opts...)
	}
}

// WithSessionOptions passes options to the session manager.
func WithSessionOptions(opts ...session.Option) Option {
	return func(w *wiring) {
		w.session = append(w.session, opts...)
	}
}

// WithDevice sets the device description recorded on new sessions.
func WithDevice(d models.DeviceInfo) Option {
	return func(w *wiring) {
		w.device = d
	}
}

// New builds an [App] from cfg. Ceremonies are verified in-process over the
// local store unless cfg.Adapter.HTTPAddress points at a verifier server.
func New(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger, opts ...Option) (*App, error) {
	w := wiring{
		device: models.DeviceInfo{
			Platform: runtime.GOOS + "/" + runtime.GOARCH,
			Label:    "cli",
		},
	}
	for _, opt := range opts {
		opt(&w)
	}
	if w.authenticator == nil {
		w.authenticator = credential.NewSoftwareAuthenticator(models.PlatformAuthenticator)
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	keys, err := crypto.NewService(cfg.Crypto, storages.Keyrings, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create key service: %w", err)
	}

	fp := fingerprint.NewGenerator(append([]fingerprint.Option{fingerprint.WithLogger(log)}, w.fingerprint...)...)
	sessions := session.NewManager(cfg.Session, cfg.App, storages.Sessions, storages.RefreshTokens, fp, log, w.session...)

	var verifier credential.Verifier
	if cfg.Adapter.HTTPAddress != "" {
		verifier, err = adapter.NewHTTPVerifier(cfg.Adapter, log, adapter.WithTokenSource(sessions.CurrentAccessToken))
		if err != nil {
			_ = storages.Close()
			return nil, fmt.Errorf("create verifier adapter: %w", err)
		}
		log.Info().Str("address", cfg.Adapter.HTTPAddress).Msg("ceremonies verified remotely")
	} else {
		verifier = credential.NewService(cfg.Credential, storages.Credentials, storages.Challenges, log)
	}

	ceremonies := credential.NewClient(verifier, w.authenticator, cfg.Credential.CeremonyTimeout, log)
	entries := journal.New(keys, storages.Journal, log)

	app := NewApp(keys, sessions, ceremonies, entries, w.device, log)
	app.closers = append(app.closers, storages.Close)
	return app, nil
}
