package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	// Server API the storefront talks to.
	APIBaseURL      string        `yaml:"api_url"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`

	// Image resolution.
	AssetOrigin  string `yaml:"asset_origin"`
	StaticPrefix string `yaml:"static_prefix"`

	// Pages the storefront links or redirects to.
	OrdersPage   string `yaml:"orders_page"`
	LoginPage    string `yaml:"login_page"`
	RegisterPage string `yaml:"register_page"`

	// Server page listing past orders; defaults to <api_url>/mis_pedidos.
	OrderHistoryURL string `yaml:"order_history_url"`

	CartKey string `yaml:"cart_key"`
	Store   Store  `yaml:"store"`

	RabbitMQURL string `yaml:"rabbitmq_url"`

	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	EnableTracing bool   `yaml:"enable_tracing"`
	OTLPEndpoint  string `yaml:"otlp_endpoint"`
	OTLPInsecure  bool   `yaml:"otlp_insecure"`
}

type Store struct {
	Driver        string        `yaml:"driver"`
	SQLitePath    string        `yaml:"sqlite_path"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RedisTTL      time.Duration `yaml:"redis_ttl"`
	DatabaseDSN   string        `yaml:"database_dsn"`
	RunMigrations bool          `yaml:"run_migrations"`
}

func Default() Config {
	return Config{
		HTTPAddr:     ":8090",
		APIBaseURL:   "http://localhost:5000",
		StaticPrefix: "/static/",
		OrdersPage:   "/mis_pedidos",
		LoginPage:    "/login",
		RegisterPage: "/registro",
		CartKey:      "carrito",
		Store: Store{
			Driver:        StoreSQLite,
			SQLitePath:    "storefront.db",
			RedisAddr:     "localhost:6379",
			RunMigrations: true,
		},
		LogLevel:     "info",
		LogFormat:    "json",
		OTLPInsecure: true,
	}
}

// Load starts from Default, applies the YAML file named by
// STOREFRONT_CONFIG if set, then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := getenv("STOREFRONT_CONFIG", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}

	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.APIBaseURL = getenv("STOREFRONT_API_URL", cfg.APIBaseURL)
	cfg.UpstreamTimeout = parseDuration(getenv("UPSTREAM_TIMEOUT", ""), cfg.UpstreamTimeout)
	cfg.AssetOrigin = getenv("ASSET_ORIGIN", cfg.AssetOrigin)
	cfg.StaticPrefix = getenv("STATIC_PREFIX", cfg.StaticPrefix)
	cfg.OrdersPage = getenv("ORDERS_PAGE", cfg.OrdersPage)
	cfg.LoginPage = getenv("LOGIN_PAGE", cfg.LoginPage)
	cfg.RegisterPage = getenv("REGISTER_PAGE", cfg.RegisterPage)
	cfg.OrderHistoryURL = getenv("ORDER_HISTORY_URL", cfg.OrderHistoryURL)
	cfg.CartKey = getenv("CART_KEY", cfg.CartKey)

	cfg.Store.Driver = strings.ToLower(getenv("CART_STORE", cfg.Store.Driver))
	cfg.Store.SQLitePath = getenv("SQLITE_PATH", cfg.Store.SQLitePath)
	cfg.Store.RedisAddr = getenv("REDIS_ADDR", cfg.Store.RedisAddr)
	cfg.Store.RedisPassword = getenv("REDIS_PASSWORD", cfg.Store.RedisPassword)
	cfg.Store.RedisDB = parseInt(getenv("REDIS_DB", ""), cfg.Store.RedisDB)
	cfg.Store.RedisTTL = parseDuration(getenv("REDIS_CART_TTL", ""), cfg.Store.RedisTTL)
	cfg.Store.DatabaseDSN = getenv("DATABASE_DSN", cfg.Store.DatabaseDSN)
	cfg.Store.RunMigrations = parseBool(getenv("RUN_MIGRATIONS", ""), cfg.Store.RunMigrations)

	cfg.RabbitMQURL = getenv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("LOG_FORMAT", cfg.LogFormat)
	cfg.EnableTracing = parseBool(getenv("ENABLE_TRACING", ""), cfg.EnableTracing)
	cfg.OTLPEndpoint = getenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.OTLPInsecure = parseBool(getenv("OTLP_INSECURE", ""), cfg.OTLPInsecure)

	if cfg.AssetOrigin == "" {
		cfg.AssetOrigin = cfg.APIBaseURL
	}
	if cfg.OrderHistoryURL == "" {
		if u, err := url.Parse(cfg.APIBaseURL); err == nil {
			cfg.OrderHistoryURL = u.JoinPath("mis_pedidos").String()
		}
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("invalid api url %q", c.APIBaseURL)
	}
	if c.AssetOrigin != "" {
		if u, err := url.Parse(c.AssetOrigin); err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Errorf("invalid asset origin %q", c.AssetOrigin)
		}
	}
	// These pages are served by the storefront itself.
	for name, p := range map[string]string{"orders page": c.OrdersPage, "login page": c.LoginPage, "register page": c.RegisterPage} {
		if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
			return errors.Errorf("%s must be a local path, got %q", name, p)
		}
	}
	if strings.TrimSpace(c.CartKey) == "" {
		return errors.New("cart key must not be empty")
	}
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite, StoreRedis:
	case StorePostgres:
		if c.Store.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required for the postgres cart store")
		}
	default:
		return errors.Errorf("unknown cart store %q", c.Store.Driver)
	}
	if c.UpstreamTimeout < 0 {
		return errors.Errorf("negative upstream timeout %s", c.UpstreamTimeout)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func parseBool(v string, def bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
