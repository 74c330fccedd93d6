// README: Config loader with env defaults for HTTP, prediction endpoint, Redis, and maps settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"taxifare/internal/modules/prediction"
)

type PredictConfig struct {
	Endpoint string
	Timeout  time.Duration
}

type MapsConfig struct {
	APIKey string
	Zoom   int
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Predict PredictConfig
	Redis   struct {
		Addr string
	}
	Maps MapsConfig
	Log  struct {
		Level string
	}
}

// Load reads the process environment. Keys missing there fall back to the
// dotenv file named by TAXIFARE_ENV_FILE (default ".env"), then to defaults.
func Load() (Config, error) {
	fileEnv, err := readEnvFile(envOrDefault(nil, "TAXIFARE_ENV_FILE", ".env"))
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	cfg.HTTP.Addr = envOrDefault(fileEnv, "TAXIFARE_HTTP_ADDR", ":8080")
	cfg.Predict.Endpoint = envOrDefault(fileEnv, "TAXIFARE_API_URL", prediction.PlaceholderEndpoint)
	cfg.Predict.Timeout = envOrDefaultDuration(fileEnv, "TAXIFARE_API_TIMEOUT", prediction.DefaultTimeout)
	cfg.Redis.Addr = envOrDefault(fileEnv, "TAXIFARE_REDIS_ADDR", "")
	cfg.Maps.APIKey = envOrDefault(fileEnv, "TAXIFARE_MAPS_API_KEY", "")
	cfg.Maps.Zoom = envOrDefaultInt(fileEnv, "TAXIFARE_MAP_ZOOM", 12)
	cfg.Log.Level = strings.ToUpper(envOrDefault(fileEnv, "TAXIFARE_LOG_LEVEL", "INFO"))

	if cfg.Predict.Timeout <= 0 {
		return Config{}, fmt.Errorf("TAXIFARE_API_TIMEOUT must be positive, got %s", cfg.Predict.Timeout)
	}
	return cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return env, nil
}

// SlogLevel maps the configured level name; unknown names fall back to INFO.
func (c Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func lookup(fileEnv map[string]string, key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fileEnv[key]
}

func envOrDefault(fileEnv map[string]string, key, def string) string {
	if v := lookup(fileEnv, key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(fileEnv map[string]string, key string, def int) int {
	if v := lookup(fileEnv, key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// envOrDefaultDuration accepts Go durations ("10s") or plain seconds ("10").
func envOrDefaultDuration(fileEnv map[string]string, key string, def time.Duration) time.Duration {
	v := lookup(fileEnv, key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
