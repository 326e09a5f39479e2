package config

import (
	"fmt"
)

// ClientConfig is the client configuration assembled from [StructuredConfig].
// The session, crypto, and credential groups are shared verbatim.
type ClientConfig struct {
	App        App
	Crypto     Crypto
	Session    Session
	Credential Credential
	Storage    Storage
	Workers    Workers
	// Adapter contains the verifier address and timeout. An empty address
	// means ceremonies are verified in-process.
	Adapter Adapter
}

// GetServerConfig loads the merged configuration and checks the settings the
// verifier server cannot start without.
func GetServerConfig() (*StructuredConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return cfg, cfg.validateServer()
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := ClientConfigFrom(cfg)
	return clientCfg, clientCfg.validate()
}

// ClientConfigFrom maps the fields relevant to the client runtime.
func ClientConfigFrom(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App:        cfg.App,
		Crypto:     cfg.Crypto,
		Session:    cfg.Session,
		Credential: cfg.Credential,
		Storage:    cfg.Storage,
		Workers:    cfg.Workers,
		Adapter:    cfg.Adapter,
	}
}
