// Command server runs the trusted credential verifier: the HTTP ceremony
// API, the gRPC health service and the housekeeping workers.
package main

import (
	"context"
	"fmt"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/credential"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/handler"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/server"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/store"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/workers"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(info)

	log := logger.NewLogger("credential-verifier")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().
		Str("storage", cfg.Storage.DB.Driver).
		Bool("redis_challenges", cfg.Storage.Redis.Address != "").
		Str("rp_id", cfg.Credential.RelyingPartyID).
		Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Error().Err(err).Msg("error closing storages")
		}
	}()

	verifier := credential.NewService(cfg.Credential, storages.Credentials, storages.Challenges, log)

	handlers, err := handler.NewHandlers(verifier, cfg, info, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	jobs := workers.NewWorkers(cfg.Workers, verifier, storages.RefreshTokens, log)
	srv, err := server.NewServer(handlers, cfg.Server, log, server.WithBackground(jobs.Run))
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}
