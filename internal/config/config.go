package config

import (
	"flag"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP API (REST, JWT-gated)
	HTTPAddr string `env:"HTTP_ADDR"`
	// Relay is the WebSocket listener, independent of the HTTP API.
	RelayAddr string `env:"RELAY_ADDR"`

	DatabaseDSN string `env:"DATABASE_DSN"`
	RedisAddr   string `env:"REDIS_ADDR"`

	AuthSecret string        `env:"AUTH_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL"`

	// IPFSAPIURL points at an external IPFS HTTP API. Empty means the
	// in-process content store is used instead.
	IPFSAPIURL string `env:"IPFS_API_URL"`

	// TelegramToken enables the ops alert bot when set.
	TelegramToken  string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`

	Version bool `env:"-"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags only override what env left empty
	flag.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "listen address for the REST API")
	flag.StringVar(&cfg.RelayAddr, "relay-addr", cfg.RelayAddr, "listen address for the WebSocket relay")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (postgres DSN or path to a sqlite file)")
	flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "secret used to sign JWTs")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "lifetime of issued JWTs")
	flag.StringVar(&cfg.IPFSAPIURL, "ipfs-api", cfg.IPFSAPIURL, "IPFS HTTP API URL (empty: in-process store)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "print version and exit")
	flag.Parse()

	// Defaults
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8081"
	}
	if cfg.RelayAddr == "" {
		cfg.RelayAddr = ":8080"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 72 * time.Hour
	}

	return cfg
}
