package blogapi

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config holds all configuration for the blog API.
type Config struct {
	Addr string // Listen address (default ":5000")

	StoreDriver      string // "mongo" (default) or "sqlite"
	MongoURI         string // Connection string; built from DB_USER/DB_PASS when empty
	DatabaseName     string // default "blogDB"
	MongoMaxPoolSize uint64 // 0 keeps the driver default
	SQLitePath       string // default "data/blog.db"

	TokenSecret  string        // Required: HMAC secret for credentials
	TokenTTL     time.Duration // default 1h
	CookieSecure bool          // Secure attribute on the auth cookie

	CORSOrigins []string // Allowed origins, credentials permitted

	RateLimit      float64       // Requests per second per IP (default 20); negative disables
	RateBurst      int           // Token bucket burst (default 40)
	BodyLimit      string        // Max request body, e.g. "1M"
	RequestTimeout time.Duration // Per-request deadline (default 10s); negative disables

	BlogCacheTTL time.Duration // Blog list cache TTL; 0 disables
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":5000"
	}
	if c.StoreDriver == "" {
		c.StoreDriver = DriverMongo
	}
	if c.DatabaseName == "" {
		c.DatabaseName = "blogDB"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "data/blog.db"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = time.Hour
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"http://localhost:5173"}
	}
	if c.BodyLimit == "" {
		c.BodyLimit = "1M"
	}
	if c.RateLimit == 0 {
		c.RateLimit = 20
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 40
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Second
	}
}

// Validate reports configuration that cannot start a server.
func (c *Config) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("blogapi: ACCESS_TOKEN_SECRET is required")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("blogapi: MONGODB_URI or DB_USER/DB_PASS is required for the mongo driver")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("blogapi: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// LoadConfig reads the configuration from the environment, applies defaults
// and validates it.
func LoadConfig() (Config, error) {
	addr := envString("ADDR", "")
	if addr == "" {
		addr = ":" + envString("PORT", "5000")
	}
	cfg := Config{
		Addr:             addr,
		StoreDriver:      strings.ToLower(envString("STORE_DRIVER", DriverMongo)),
		MongoURI:         envString("MONGODB_URI", ""),
		DatabaseName:     envString("DB_NAME", "blogDB"),
		MongoMaxPoolSize: uint64(envInt("MONGODB_MAX_POOL_SIZE", 0)),
		SQLitePath:       envString("SQLITE_PATH", "data/blog.db"),
		TokenSecret:      os.Getenv("ACCESS_TOKEN_SECRET"),
		TokenTTL:         envDuration("TOKEN_TTL", time.Hour),
		CookieSecure:     envBool("COOKIE_SECURE", true),
		CORSOrigins:      splitList(envString("CORS_ORIGINS", "http://localhost:5173")),
		RateLimit:        envFloat("RATE_LIMIT", 20),
		RateBurst:        envInt("RATE_BURST", 40),
		BodyLimit:        envString("BODY_LIMIT", "1M"),
		RequestTimeout:   envDuration("REQUEST_TIMEOUT", 10*time.Second),
		BlogCacheTTL:     envDuration("BLOG_CACHE_TTL", 0),
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = atlasURI(os.Getenv("DB_USER"), os.Getenv("DB_PASS"), envString("DB_HOST", "cluster0.21hcnfr.mongodb.net"))
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func atlasURI(user, pass, host string) string {
	if user == "" || pass == "" {
		return ""
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(user), url.QueryEscape(pass), host)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance after the
// built-in routes.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
