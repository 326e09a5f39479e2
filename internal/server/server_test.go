package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/credential"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/handler"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/store"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

func newTestHandlers(t *testing.T, cfg *config.StructuredConfig) *handler.Handlers {
	t.Helper()
	mem := store.NewMemory()
	verifier := credential.NewService(cfg.Credential, mem, mem, logger.Nop())
	h, err := handler.NewHandlers(verifier, cfg, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)
	return h
}

func TestNewServer_NoServers(t *testing.T) {
	_, err := NewServer(&handler.Handlers{}, config.Server{}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.HTTPAddress = "127.0.0.1:0"
	cfg.Server.GRPCAddress = "127.0.0.1:0"

	jobStopped := make(chan struct{})
	srv, err := NewServer(newTestHandlers(t, cfg), cfg.Server, logger.Nop(),
		WithBackground(func(ctx context.Context) {
			<-ctx.Done()
			close(jobStopped)
		}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.(*server).run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	select {
	case <-jobStopped:
	case <-time.After(time.Second):
		t.Fatal("background job was not cancelled")
	}
}
