package http

import (
	"time"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/credential"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/validators"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

type Handler struct {
	verifier  credential.Verifier
	validator validators.Validator
	limiter   *rateLimiter
	proxies   trustedProxies
	app       config.App
	version   models.VersionInfo
	now       func() time.Time

	logger *logger.Logger
}

func NewHandler(verifier credential.Verifier, server config.Server, app config.App, info models.AppBuildInfo, logger *logger.Logger) *Handler {
	proxies, invalid := parseTrustedProxies(server.TrustedProxies)
	if len(invalid) > 0 {
		logger.Warn().Strs("entries", invalid).Msg("ignoring invalid trusted proxy entries")
	}

	logger.Info().Int("trusted_proxies", len(proxies)).Msg("http handler created")
	return &Handler{
		verifier:  verifier,
		validator: validators.NewCeremonyValidator(),
		limiter:   newRateLimiter(server.CeremonyRate, server.CeremonyBurst),
		proxies:   proxies,
		app:       app,
		version:   info.VersionInfo(),
		now:       time.Now,
		logger:    logger,
	}
}
