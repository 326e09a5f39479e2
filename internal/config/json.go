package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey string `json:"token_sign_key"`
		TokenIssuer  string `json:"token_issuer"`
		HashKey      string `json:"hash_key"`
		Version      string `json:"version"`
		LogFile      string `json:"log_file"`
	} `json:"app,omitempty"`

	Crypto struct {
		KDF              string `json:"kdf"`
		PBKDF2Iterations int    `json:"pbkdf2_iterations"`
		Cipher           string `json:"cipher"`
	} `json:"crypto,omitempty"`

	Session struct {
		AccessTokenTTL   Duration `json:"access_token_ttl"`
		RefreshTokenTTL  Duration `json:"refresh_token_ttl"`
		IdleTimeout      Duration `json:"idle_timeout"`
		RefreshLead      Duration `json:"refresh_lead"`
		OperationTimeout Duration `json:"operation_timeout"`
	} `json:"session,omitempty"`

	Credential struct {
		RelyingPartyID  string   `json:"rp_id"`
		Origin          string   `json:"origin"`
		ChallengeTTL    Duration `json:"challenge_ttl"`
		CeremonyTimeout Duration `json:"ceremony_timeout"`
	} `json:"credential,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
		Redis struct {
			Address  string `json:"address"`
			Password string `json:"password"`
			DB       int    `json:"db"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		CeremonyRate   float64  `json:"ceremony_rate"`
		CeremonyBurst  int      `json:"ceremony_burst"`
		TrustedProxies []string `json:"trusted_proxies"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		ChallengeSweepInterval Duration `json:"challenge_sweep_interval"`
		TokenSweepInterval     Duration `json:"token_sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey: jsonCfg.App.TokenSignKey,
			TokenIssuer:  jsonCfg.App.TokenIssuer,
			HashKey:      jsonCfg.App.HashKey,
			Version:      jsonCfg.App.Version,
			LogFile:      jsonCfg.App.LogFile,
		},
		Crypto: Crypto{
			KDF:              jsonCfg.Crypto.KDF,
			PBKDF2Iterations: jsonCfg.Crypto.PBKDF2Iterations,
			Cipher:           jsonCfg.Crypto.Cipher,
		},
		Session: Session{
			AccessTokenTTL:   time.Duration(jsonCfg.Session.AccessTokenTTL),
			RefreshTokenTTL:  time.Duration(jsonCfg.Session.RefreshTokenTTL),
			IdleTimeout:      time.Duration(jsonCfg.Session.IdleTimeout),
			RefreshLead:      time.Duration(jsonCfg.Session.RefreshLead),
			OperationTimeout: time.Duration(jsonCfg.Session.OperationTimeout),
		},
		Credential: Credential{
			RelyingPartyID:  jsonCfg.Credential.RelyingPartyID,
			Origin:          jsonCfg.Credential.Origin,
			ChallengeTTL:    time.Duration(jsonCfg.Credential.ChallengeTTL),
			CeremonyTimeout: time.Duration(jsonCfg.Credential.CeremonyTimeout),
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				Address:  jsonCfg.Storage.Redis.Address,
				Password: jsonCfg.Storage.Redis.Password,
				DB:       jsonCfg.Storage.Redis.DB,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			CeremonyRate:   jsonCfg.Server.CeremonyRate,
			CeremonyBurst:  jsonCfg.Server.CeremonyBurst,
			TrustedProxies: jsonCfg.Server.TrustedProxies,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			ChallengeSweepInterval: time.Duration(jsonCfg.Workers.ChallengeSweepInterval),
			TokenSweepInterval:     time.Duration(jsonCfg.Workers.TokenSweepInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
