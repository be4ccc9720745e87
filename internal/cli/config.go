package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds user settings loaded from the TOML config file at
// $XDG_CONFIG_HOME/citegraph/config.toml (or ~/.config/citegraph/).
// A missing file yields defaults; flags override file values.
type Config struct {
	API    APIConfig    `toml:"api"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// APIConfig configures the bibliographic API client.
type APIConfig struct {
	// BaseURL is the API root. Empty means the OpenAlex default.
	BaseURL string `toml:"base_url"`

	// Mailto opts into the OpenAlex polite pool. Optional.
	Mailto string `toml:"mailto"`

	// MaxReferences caps references per paper. Zero means unlimited.
	MaxReferences int `toml:"max_references"`
}

// CacheConfig configures the API response cache.
type CacheConfig struct {
	// Backend is one of: file, memory, null, redis, mongo.
	Backend string `toml:"backend"`

	// Dir overrides the file backend directory. Empty means the XDG
	// cache directory.
	Dir string `toml:"dir"`

	// TTL is how long responses stay cached, e.g. "168h". Zero means
	// forever.
	TTL duration `toml:"ttl"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the mongo cache backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// duration wraps time.Duration for TOML decoding of strings like "168h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend: "file",
			TTL:     duration{7 * 24 * time.Hour},
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "citegraph",
				Collection: "http_cache",
			},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error; defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// configDir returns the config directory using the XDG standard
// (~/.config/citegraph/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/citegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
