package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc health address in format [host]:[port]
//	-verifier verifier server address used by the client
//	-d database DSN
//	-db-driver memory|sqlite|postgres
//	-redis redis address for ceremony challenges
//	-c/-config json file path with configs
//	-token-sign-key access token signing key
//	-token-issuer access token issuer
//	-hash-key refresh token hash key
//	-rp-id relying party id
//	-origin accepted client data origin
//	-kdf pbkdf2|argon2id
//	-cipher aes-256-gcm|xchacha20-poly1305
//	-access-ttl access token lifetime (e.g. "15m")
//	-refresh-ttl refresh token lifetime (e.g. "720h")
//	-idle-timeout idle window (e.g. "30m")
//	-request-timeout request timeout (e.g. "30s")
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("securecore", flag.ContinueOnError)

	var serverAddress, grpcServerAddress NetAddress
	var verifierAddress string
	var databaseDSN, databaseDriver, redisAddress string
	var jsonConfigPath string
	var tokenSignKey, tokenIssuer, hashKey string
	var rpID, origin string
	var kdf, cipher string
	var accessTTL, refreshTTL, idleTimeout, requestTimeout time.Duration

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc health address host:port")
	fs.StringVar(&verifierAddress, "verifier", "", "Verifier server address")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&databaseDriver, "db-driver", "", "Database driver (memory, sqlite, postgres)")
	fs.StringVar(&redisAddress, "redis", "", "Redis address for ceremony challenges")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Access token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Access token issuer")
	fs.StringVar(&hashKey, "hash-key", "", "Refresh token hash key")
	fs.StringVar(&rpID, "rp-id", "", "Relying party id")
	fs.StringVar(&origin, "origin", "", "Accepted client data origin")
	fs.StringVar(&kdf, "kdf", "", "Key derivation function (pbkdf2, argon2id)")
	fs.StringVar(&cipher, "cipher", "", "Cipher (aes-256-gcm, xchacha20-poly1305)")
	fs.DurationVar(&accessTTL, "access-ttl", 0, "Access token lifetime (e.g., 15m)")
	fs.DurationVar(&refreshTTL, "refresh-ttl", 0, "Refresh token lifetime (e.g., 720h)")
	fs.DurationVar(&idleTimeout, "idle-timeout", 0, "Idle timeout (e.g., 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
			HashKey:      hashKey,
		},
		Crypto: Crypto{
			KDF:    kdf,
			Cipher: cipher,
		},
		Session: Session{
			AccessTokenTTL:  accessTTL,
			RefreshTokenTTL: refreshTTL,
			IdleTimeout:     idleTimeout,
		},
		Credential: Credential{
			RelyingPartyID: rpID,
			Origin:         origin,
		},
		Storage: Storage{
			DB: DB{
				Driver: databaseDriver,
				DSN:    databaseDSN,
			},
			Redis: Redis{Address: redisAddress},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    verifierAddress,
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
