package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	Server  ServerConfig  `envPrefix:"SERVER_"`
	Cache   CacheConfig   `envPrefix:"CACHE_"`
	Search  SearchConfig  `envPrefix:"SEARCH_"`
	Catalog CatalogConfig `envPrefix:"CATALOG_"`
	EBay    EBayConfig    `envPrefix:"EBAY_"`
	Gateway GatewayConfig `envPrefix:"GATEWAY_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:":8080"`
}

type CacheConfig struct {
	Path string        `env:"PATH" envDefault:"data/catalog.db"`
	TTL  time.Duration `env:"TTL" envDefault:"24h"`
}

type SearchConfig struct {
	// ProxyURL is the search proxy endpoint the storefront talks to.
	ProxyURL string        `env:"PROXY_URL" envDefault:"http://localhost:8080/api/v1/search" validate:"url"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type CatalogConfig struct {
	Queries       []string      `env:"QUERIES" envSeparator:"," envDefault:"Intel 8086 CPU processor,Intel 8088 CPU processor,Intel 8087 math coprocessor" validate:"min=1"`
	MaxProducts   int           `env:"MAX_PRODUCTS" envDefault:"9" validate:"gt=0"`
	PerQueryLimit int           `env:"PER_QUERY_LIMIT" envDefault:"4" validate:"gt=0"`
	// QueryDelay paces consecutive remote queries. Rate limiting, not tunable
	// per request.
	QueryDelay time.Duration `env:"QUERY_DELAY" envDefault:"500ms"`
}

type EBayConfig struct {
	// AppID is the server-held Finding API credential. Its absence is only
	// surfaced when the proxy endpoint is actually hit.
	AppID          string        `env:"APP_ID"`
	BaseURL        string        `env:"BASE_URL" envDefault:"https://svcs.ebay.com/services/search/FindingService/v1" validate:"url"`
	EntriesPerPage int           `env:"ENTRIES_PER_PAGE" envDefault:"12" validate:"gt=0"`
	MinPrice       int           `env:"MIN_PRICE" envDefault:"10"`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type GatewayConfig struct {
	Addr         string        `env:"ADDR" envDefault:":8081"`
	Upstream     string        `env:"UPSTREAM" envDefault:"http://localhost:8080" validate:"url"`
	Version      string        `env:"VERSION" envDefault:"v3.2.0"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`
	SyncInterval time.Duration `env:"SYNC_INTERVAL" envDefault:"1m"`
	MaxSyncTries int           `env:"MAX_SYNC_TRIES" envDefault:"5" validate:"gt=0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
