package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	StoreBackend string // memory|mysql
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	CatalogBase  string
	CatalogKey   string
	CatalogRPS   int
	CacheTTL     time.Duration
	StoreTimeout time.Duration
	// StrictVersioning rejects writes based on a stale document version.
	StrictVersioning bool
	SeedTenants      []string
	SeedWorkers      int
}

// Load reads .env (when present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ":9100"),
		StoreBackend:     strings.ToLower(env("STORE_BACKEND", "memory")),
		MySQLDSN:         env("MYSQL_DSN", "root:root@tcp(localhost:3306)/restohub?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:        env("REDIS_ADDR", ""),
		RedisPass:        env("REDIS_PASSWORD", ""),
		RedisDB:          atoi("REDIS_DB", 0),
		CatalogBase:      env("CATALOG_BASE_URL", "http://localhost:8081/v1"),
		CatalogKey:       env("CATALOG_API_KEY", ""),
		CatalogRPS:       atoi("CATALOG_RPS", 5),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		StoreTimeout:     time.Duration(atoi("STORE_TIMEOUT_MS", 5000)) * time.Millisecond,
		StrictVersioning: envBool("STRICT_VERSIONING", false),
		SeedTenants:      splitList(os.Getenv("SEED_TENANTS")),
		SeedWorkers:      atoi("SEED_WORKERS", 4),
	}
	if c.StoreBackend != "memory" && c.StoreBackend != "mysql" {
		log.Warn().Str("backend", c.StoreBackend).Msg("unknown STORE_BACKEND, using memory")
		c.StoreBackend = "memory"
	}
	if c.CatalogKey == "" {
		log.Warn().Msg("CATALOG_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
