package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full process configuration, built once in main.
type Config struct {
	Server      Server
	Policy      Upstream
	Wallet      Upstream
	Consents    Upstream
	Chain       Chain
	Redis       RedisConfig
	Postgres    PostgresConfig
	Credentials Credentials
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string
	LogLevel string
}

// Upstream describes one HTTP collaborator.
type Upstream struct {
	URL     string
	Timeout time.Duration
}

// Chain configures the on-chain consent applier. An empty RPCURL disables it.
type Chain struct {
	RPCURL          string
	ChainID         int64
	ContractAddress string
	ABIPath         string
	Method          string
	PrivateKeyHex   string
}

// RedisConfig configures the optional Redis storage and event bus.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional Postgres storage backend.
type PostgresConfig struct {
	DSN      string
	MaxConns int32
}

// Credentials configures the credential expiration tracker.
type Credentials struct {
	Validity     time.Duration
	TickInterval time.Duration
}

// Defaults used when the environment leaves a value unset.
const (
	DefaultPolicyTimeout      = 5 * time.Second
	DefaultWalletTimeout      = 10 * time.Second
	DefaultConsentsTimeout    = 30 * time.Second
	DefaultCredentialValidity = 5 * time.Minute
)

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:     envString("MARKETACCESS_ADDR", ":8080"),
			LogLevel: envString("LOG_LEVEL", "info"),
		},
		Policy: Upstream{
			URL:     envString("POLICY_SERVER_URL", "http://localhost:3000/api/policy"),
			Timeout: envDuration("POLICY_SERVER_TIMEOUT", DefaultPolicyTimeout),
		},
		Wallet: Upstream{
			URL:     envString("SSI_WALLET_URL", "http://localhost:7001"),
			Timeout: envDuration("SSI_WALLET_TIMEOUT", DefaultWalletTimeout),
		},
		Consents: Upstream{
			URL:     envString("CONSENTS_API_URL", "http://localhost:8000"),
			Timeout: envDuration("CONSENTS_API_TIMEOUT", DefaultConsentsTimeout),
		},
		Chain: Chain{
			RPCURL:          os.Getenv("CHAIN_RPC_URL"),
			ChainID:         envInt64("CHAIN_ID", 1),
			ContractAddress: os.Getenv("CONSENT_CONTRACT_ADDRESS"),
			ABIPath:         os.Getenv("CONSENT_CONTRACT_ABI"),
			Method:          envString("CONSENT_CONTRACT_METHOD", "setTrustedAlgorithm"),
			PrivateKeyHex:   os.Getenv("APPLIER_PRIVATE_KEY"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     int(envInt64("REDIS_POOL_SIZE", 10)),
			MinIdleConns: int(envInt64("REDIS_MIN_IDLE_CONNS", 2)),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(envInt64("DATABASE_MAX_CONNS", 5)),
		},
		Credentials: Credentials{
			Validity:     envDuration("CREDENTIAL_VALIDITY", DefaultCredentialValidity),
			TickInterval: envDuration("CREDENTIAL_TICK", time.Second),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDuration accepts Go duration strings; malformed values fall back.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
